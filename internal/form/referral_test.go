package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/crm"
)

func testPartners() []crm.User {
	return []crm.User{
		{UserID: 7, FullName: "Jane Doe"},
		{UserID: 9, FullName: "Janet Smythe"},
		{UserID: 12, FullName: "Bob Partner"},
	}
}

func TestResolverFiltering(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())

	r.Input("jan")
	assert.Equal(t, StateSuggesting, r.State())
	require.Len(t, r.Suggestions(), 2)
	assert.Equal(t, "Jane Doe", r.Suggestions()[0].FullName)
	assert.Equal(t, "Janet Smythe", r.Suggestions()[1].FullName)

	r.Input("jane d")
	require.Len(t, r.Suggestions(), 1)

	r.Input("zzz")
	assert.Empty(t, r.Suggestions())
	assert.Equal(t, StateIdle, r.State())
}

func TestResolverSelectPinsID(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())

	r.Input("jan")
	r.Select(r.Suggestions()[0])

	assert.Equal(t, "Jane Doe", r.Text())
	require.NotNil(t, r.PartnerID())
	assert.Equal(t, int64(7), *r.PartnerID())
	assert.Equal(t, StateIdle, r.State())
	assert.Empty(t, r.Suggestions())
}

func TestResolverTypingClearsID(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())

	r.Input("jane")
	r.Select(r.Suggestions()[0])
	require.NotNil(t, r.PartnerID())

	// Any further typing degrades the value to free text.
	r.Input("Jane Doee")
	assert.Nil(t, r.PartnerID())
	assert.Equal(t, "Jane Doee", r.Text())
}

func TestResolverSelectWinsOverDismiss(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())
	r.Input("bob")
	require.Equal(t, StateSuggesting, r.State())

	// A click on a suggestion begins committing; the blur-driven dismiss
	// that lands next must not cancel it.
	r.BeginCommit()
	r.Dismiss()
	assert.Equal(t, StateCommitting, r.State())

	r.CompleteCommit(testPartners()[2])
	require.NotNil(t, r.PartnerID())
	assert.Equal(t, int64(12), *r.PartnerID())
	assert.Equal(t, "Bob Partner", r.Text())
}

func TestResolverDismissWithoutCommit(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())
	r.Input("jan")

	r.Dismiss()
	assert.Equal(t, StateIdle, r.State())
	assert.Empty(t, r.Suggestions())
	// free text survives the dismiss
	assert.Equal(t, "jan", r.Text())
	assert.Nil(t, r.PartnerID())
}

func TestResolverPrefillExactMatch(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())

	r.Prefill("jane doe")
	require.NotNil(t, r.PartnerID())
	assert.Equal(t, int64(7), *r.PartnerID())
	assert.Equal(t, StateIdle, r.State())

	r2 := NewResolver()
	r2.SetPartners(testPartners())
	r2.Prefill("Someone External")
	assert.Nil(t, r2.PartnerID())
	assert.Equal(t, "Someone External", r2.Text())
}

func TestResolverAttachAfterPartnersArrive(t *testing.T) {
	t.Parallel()

	// Edit mode: text prefilled before the partner lookup resolves.
	r := NewResolver()
	r.Prefill("Jane Doe")
	assert.Nil(t, r.PartnerID())

	r.SetPartners(testPartners())
	r.AttachExactMatch()
	require.NotNil(t, r.PartnerID())
	assert.Equal(t, int64(7), *r.PartnerID())
}

func TestResolverForce(t *testing.T) {
	t.Parallel()

	r := NewResolver()
	r.SetPartners(testPartners())
	r.Input("jan")

	r.Force("Partner Self", 42)
	assert.Equal(t, "Partner Self", r.Text())
	require.NotNil(t, r.PartnerID())
	assert.Equal(t, int64(42), *r.PartnerID())
	assert.Empty(t, r.Suggestions())
}
