package session

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadcrm/internal/crm"
)

func TestSessionDerivesPermissions(t *testing.T) {
	t.Parallel()

	s := New(crm.User{UserID: 9, FullName: "Pat Manager", Role: crm.RoleCompanyManager}, "tok")

	assert.Equal(t, crm.RoleCompanyManager, s.Role())
	assert.Equal(t, int64(9), s.UserID())
	assert.True(t, s.Permissions().CanAssign)
	assert.False(t, s.Permissions().CanManageSettings)
}
