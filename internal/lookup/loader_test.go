package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
)

// fakeFetcher serves canned responses per lookup.
type fakeFetcher struct {
	sources   []crm.LookupRow
	statuses  []crm.LookupRow
	urgencies []crm.LookupRow
	assignees []crm.User
	partners  []crm.User

	sourcesErr  error
	partnersErr error

	partnerCalls int
}

func (f *fakeFetcher) LeadSources(context.Context) ([]crm.LookupRow, error) {
	return f.sources, f.sourcesErr
}
func (f *fakeFetcher) LeadStatuses(context.Context) ([]crm.LookupRow, error) {
	return f.statuses, nil
}
func (f *fakeFetcher) UrgencyLevels(context.Context) ([]crm.LookupRow, error) {
	return f.urgencies, nil
}
func (f *fakeFetcher) AssignableUsers(context.Context) ([]crm.User, error) {
	return f.assignees, nil
}
func (f *fakeFetcher) ReferralPartners(context.Context) ([]crm.User, error) {
	f.partnerCalls++
	return f.partners, f.partnersErr
}

func TestLoadAggregates(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		sources: []crm.LookupRow{
			{ID: 2, Name: "Referral", IsActive: true, DisplayOrder: 2},
			{ID: 1, Name: "Website", IsActive: true, DisplayOrder: 1},
			{ID: 3, Name: "Retired", IsActive: false, DisplayOrder: 0},
		},
		statuses: []crm.LookupRow{{ID: 10, Name: "New Lead", IsActive: true}},
		partners: []crm.User{{UserID: 7, FullName: "Jane Doe"}},
	}
	rd := NewLoader(f).Load(context.Background(), crm.RoleCompanyAdmin, 3)

	assert.Equal(t, 3, rd.Generation)
	assert.Empty(t, rd.Warnings())

	// inactive rows dropped, remainder sorted by display order
	require.Len(t, rd.Sources.Value, 2)
	assert.Equal(t, "Website", rd.Sources.Value[0].Name)
	assert.Equal(t, "Referral", rd.Sources.Value[1].Name)

	row, ok := rd.StatusByName("New Lead")
	require.True(t, ok)
	assert.Equal(t, int64(10), row.ID)

	require.True(t, rd.Partners.Ok())
	assert.Len(t, rd.Partners.Value, 1)
}

func TestLoadPartialFailure(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		sourcesErr: errors.New("boom"),
		statuses:   []crm.LookupRow{{ID: 10, Name: "New Lead", IsActive: true}},
	}
	rd := NewLoader(f).Load(context.Background(), crm.RoleCompanyAdmin, 1)

	// The broken lookup degrades; the others still land.
	assert.False(t, rd.Sources.Ok())
	assert.True(t, rd.Statuses.Ok())
	assert.Equal(t, []string{"lead sources"}, rd.Warnings())
}

func TestLoadPartnersForbiddenIsSilent(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{
		partnersErr: &api.APIError{Status: 403, Message: "forbidden"},
	}
	rd := NewLoader(f).Load(context.Background(), crm.RoleCompanyAdmin, 1)

	assert.True(t, rd.Partners.Ok())
	assert.Empty(t, rd.Partners.Value)
	assert.Empty(t, rd.Warnings())
}

func TestLoadSkipsPartnersForPartnerRole(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{partners: []crm.User{{UserID: 7, FullName: "Jane Doe"}}}
	rd := NewLoader(f).Load(context.Background(), crm.RoleReferralPartner, 1)

	assert.Zero(t, f.partnerCalls, "partner listing must not be requested at all")
	assert.True(t, rd.Partners.Ok())
	assert.Empty(t, rd.Partners.Value)
}
