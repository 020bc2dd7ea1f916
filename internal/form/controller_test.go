package form

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/lookup"
	"leadcrm/internal/session"
)

// fakeLeadService records the last payload it was handed.
type fakeLeadService struct {
	created   *api.LeadPayload
	updated   *api.LeadPayload
	updatedID int64
	err       error
}

func (f *fakeLeadService) CreateLead(_ context.Context, p api.LeadPayload) (crm.Lead, error) {
	f.created = &p
	return crm.Lead{LeadID: 1}, f.err
}

func (f *fakeLeadService) UpdateLead(_ context.Context, id int64, p api.LeadPayload) (crm.Lead, error) {
	f.updated = &p
	f.updatedID = id
	return crm.Lead{LeadID: id}, f.err
}

func sessionFor(role crm.Role) *session.Session {
	return session.New(crm.User{UserID: 55, FullName: "Test User", Role: role}, "tok")
}

func refsFor(gen int) lookup.ReferenceData {
	return lookup.ReferenceData{
		Generation: gen,
		Sources: lookup.Result[[]crm.LookupRow]{Loaded: true, Value: []crm.LookupRow{
			{ID: 1, Name: "Website", IsActive: true},
			{ID: 2, Name: "Referral", IsActive: true},
			{ID: 3, Name: "Walk-in", IsActive: true},
		}},
		Statuses: lookup.Result[[]crm.LookupRow]{Loaded: true, Value: []crm.LookupRow{
			{ID: 10, Name: "New Lead", IsActive: true},
			{ID: 11, Name: "Contacted", IsActive: true},
		}},
		Partners: lookup.Result[[]crm.User]{Loaded: true, Value: []crm.User{
			{UserID: 7, FullName: "Jane Doe"},
		}},
	}
}

func fillRequired(c *Controller) {
	c.Set(FieldClientName, "Acme Contact")
	c.Set(FieldMobile, "+1 (555) 123-4567")
}

func TestCreateDefaults(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.SetClock(func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) })
	c.Open(nil)

	assert.Equal(t, ModeCreate, c.Mode())
	assert.Equal(t, "2026-03-14", c.Get(FieldLeadDate))
	assert.Zero(t, c.StatusID())

	c.ApplyReferenceData(refsFor(c.Generation()))
	assert.Equal(t, int64(10), c.StatusID(), "status should default to New Lead")
}

func TestStatusDefaultSkippedWhenTouched(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.Open(nil)
	c.SelectStatus(11)

	c.ApplyReferenceData(refsFor(c.Generation()))
	assert.Equal(t, int64(11), c.StatusID(), "user's choice must survive the lookup arriving")
}

func TestStaleReferenceDataDiscarded(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.Open(nil)
	stale := refsFor(c.Generation())
	c.Open(nil) // re-open: new generation

	c.ApplyReferenceData(stale)
	assert.Zero(t, c.StatusID())
	assert.Empty(t, c.References().Sources.Value)
}

func TestOpenResetsEverything(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.Open(nil)
	c.Set(FieldClientName, "Leftover")
	c.SelectStatus(11)
	c.Validate()

	c.Open(nil)
	assert.Empty(t, c.Get(FieldClientName))
	assert.Zero(t, c.StatusID())
	assert.Empty(t, c.Errors())
}

func TestValidation(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.Open(nil)
	c.ApplyReferenceData(refsFor(c.Generation()))

	t.Run("required fields", func(t *testing.T) {
		errs := c.Validate()
		assert.Contains(t, errs, FieldClientName)
		assert.Contains(t, errs, FieldMobile)
	})

	t.Run("bad mobile and email", func(t *testing.T) {
		c.Set(FieldClientName, "Acme Contact")
		c.Set(FieldMobile, "123")
		c.Set(FieldEmail, "not-an-email")
		errs := c.Validate()
		assert.Equal(t, "Enter a valid mobile number", errs[FieldMobile])
		assert.Equal(t, "Enter a valid email address", errs[FieldEmail])
	})

	t.Run("blank email passes", func(t *testing.T) {
		c.Set(FieldMobile, "+1 (555) 123-4567")
		c.Set(FieldEmail, "")
		errs := c.Validate()
		assert.NotContains(t, errs, FieldEmail)
	})

	t.Run("editing a field clears its error", func(t *testing.T) {
		c.Set(FieldBudget, "abc")
		require.Contains(t, c.Validate(), FieldBudget)
		c.Set(FieldBudget, "2500")
		assert.NotContains(t, c.Errors(), FieldBudget)
	})
}

func TestReferredByRequiredWhenVisible(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.Open(nil)
	c.ApplyReferenceData(refsFor(c.Generation()))
	fillRequired(c)

	c.SelectSource(1) // Website: referred-by hidden
	assert.False(t, c.ShowsReferredBy())
	assert.NotContains(t, c.Validate(), FieldReferredBy)

	c.SelectSource(2) // Referral: referred-by required
	assert.True(t, c.ShowsReferredBy())
	assert.Contains(t, c.Validate(), FieldReferredBy)

	c.SetReferredBy("Jane Doe")
	assert.NotContains(t, c.Validate(), FieldReferredBy)
}

func TestTeamMemberAssignmentForcedToSelf(t *testing.T) {
	t.Parallel()

	svc := &fakeLeadService{}
	c := NewController(sessionFor(crm.RoleTeamMember), svc)
	c.Open(nil)
	c.ApplyReferenceData(refsFor(c.Generation()))
	fillRequired(c)
	c.SelectSource(1)

	// The dropdown is disabled; a stray select must not leak through.
	other := int64(99)
	c.SelectAssignee(&other)

	require.NoError(t, c.Submit(context.Background()))
	require.NotNil(t, svc.created)
	require.NotNil(t, svc.created.AssignedToUserID)
	assert.Equal(t, int64(55), *svc.created.AssignedToUserID)
}

func TestEditSourceImmutable(t *testing.T) {
	t.Parallel()

	svc := &fakeLeadService{}
	c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
	lead := crm.Lead{
		LeadID:       40,
		LeadDate:     "2026-01-10",
		ClientName:   "Existing Client",
		MobileNumber: "+1 (555) 123-4567",
		LeadSourceID: 3,
		LeadStatusID: 11,
	}
	c.Open(&lead)
	c.ApplyReferenceData(refsFor(c.Generation()))

	assert.False(t, c.ShowsSourceField())
	c.SelectSource(1) // must be ignored in edit mode

	require.NoError(t, c.Submit(context.Background()))
	require.NotNil(t, svc.updated)
	assert.Equal(t, int64(40), svc.updatedID)
	assert.Equal(t, int64(3), svc.updated.LeadSourceID)
	assert.Equal(t, int64(11), svc.updated.LeadStatusID)
}

func TestReferralPartnerForcing(t *testing.T) {
	t.Parallel()

	svc := &fakeLeadService{}
	c := NewController(sessionFor(crm.RoleReferralPartner), svc)
	c.Open(nil)
	c.ApplyReferenceData(refsFor(c.Generation()))
	fillRequired(c)

	// Source forced to the Referral row, field visible but not editable.
	assert.True(t, c.ShowsSourceField())
	assert.False(t, c.SourceEditable())
	assert.Equal(t, int64(2), c.SourceID())
	c.SelectSource(1)
	assert.Equal(t, int64(2), c.SourceID())

	// Referred-by locked to the partner's own identity.
	assert.True(t, c.ShowsReferredBy())
	assert.False(t, c.ReferredByEditable())
	c.SetReferredBy("Somebody Else")
	assert.Equal(t, "Test User", c.Referral.Text())

	// Assigned-to hidden entirely.
	assert.False(t, c.ShowsAssignedTo())

	require.NoError(t, c.Submit(context.Background()))
	require.NotNil(t, svc.created)
	assert.Equal(t, int64(2), svc.created.LeadSourceID)
	assert.Equal(t, "Test User", svc.created.ReferredBy)
	require.NotNil(t, svc.created.ReferredByUserID)
	assert.Equal(t, int64(55), *svc.created.ReferredByUserID)
}

func TestSubmitValidationAndErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid draft never reaches the service", func(t *testing.T) {
		svc := &fakeLeadService{}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		c.Open(nil)

		err := c.Submit(context.Background())
		assert.ErrorIs(t, err, ErrValidation)
		assert.Nil(t, svc.created)
	})

	t.Run("backend error surfaces and form stays open", func(t *testing.T) {
		svc := &fakeLeadService{err: errors.New("duplicate mobile number")}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		c.Open(nil)
		c.ApplyReferenceData(refsFor(c.Generation()))
		fillRequired(c)
		c.SelectSource(1)

		err := c.Submit(context.Background())
		assert.Error(t, err)
		assert.Equal(t, "duplicate mobile number", c.ErrorBanner())
		assert.False(t, c.Succeeded())

		c.DismissError()
		assert.Empty(t, c.ErrorBanner())
	})

	t.Run("success fires callbacks in order", func(t *testing.T) {
		svc := &fakeLeadService{}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		var order []string
		c.SetCallbacks(
			func() { order = append(order, "success") },
			func() { order = append(order, "close") },
		)
		c.Open(nil)
		c.ApplyReferenceData(refsFor(c.Generation()))
		fillRequired(c)
		c.SelectSource(1)

		require.NoError(t, c.Submit(context.Background()))
		assert.Equal(t, "Lead created", c.SuccessBanner())

		c.CompleteSuccess()
		assert.Equal(t, []string{"success", "close"}, order)
	})
}

func TestSubmitPhases(t *testing.T) {
	t.Parallel()

	t.Run("state changes happen outside the returned call", func(t *testing.T) {
		svc := &fakeLeadService{}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		c.Open(nil)
		c.ApplyReferenceData(refsFor(c.Generation()))
		fillRequired(c)
		c.SelectSource(1)

		call, err := c.BeginSubmit()
		require.NoError(t, err)
		require.NotNil(t, call)
		assert.True(t, c.Submitting(), "in-flight flag must be set before the call runs")
		assert.Nil(t, svc.created, "service untouched until the call runs")

		require.NoError(t, call(context.Background()))
		require.NotNil(t, svc.created)
		assert.True(t, c.Submitting(), "the call itself must not change controller state")
		assert.False(t, c.Succeeded())

		require.NoError(t, c.FinishSubmit(nil))
		assert.False(t, c.Submitting())
		assert.True(t, c.Succeeded())
		assert.Equal(t, "Lead created", c.SuccessBanner())
	})

	t.Run("second begin while in flight is a no-op", func(t *testing.T) {
		svc := &fakeLeadService{}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		c.Open(nil)
		c.ApplyReferenceData(refsFor(c.Generation()))
		fillRequired(c)
		c.SelectSource(1)

		first, err := c.BeginSubmit()
		require.NoError(t, err)
		require.NotNil(t, first)

		// A rapid repeat keypress lands here before the first call has run.
		second, err := c.BeginSubmit()
		assert.NoError(t, err)
		assert.Nil(t, second, "only one submission may dispatch")

		require.NoError(t, first(context.Background()))
		require.NoError(t, c.FinishSubmit(nil))
		require.NotNil(t, svc.created)
	})

	t.Run("failed call applies on finish", func(t *testing.T) {
		svc := &fakeLeadService{err: errors.New("duplicate mobile number")}
		c := NewController(sessionFor(crm.RoleCompanyAdmin), svc)
		c.Open(nil)
		c.ApplyReferenceData(refsFor(c.Generation()))
		fillRequired(c)
		c.SelectSource(1)

		call, err := c.BeginSubmit()
		require.NoError(t, err)
		callErr := call(context.Background())
		assert.Empty(t, c.ErrorBanner(), "banner waits for FinishSubmit")

		assert.Error(t, c.FinishSubmit(callErr))
		assert.False(t, c.Submitting())
		assert.Equal(t, "duplicate mobile number", c.ErrorBanner())
	})
}

func TestReferralPartnerSourceLookupFailure(t *testing.T) {
	t.Parallel()

	c := NewController(sessionFor(crm.RoleReferralPartner), &fakeLeadService{})
	c.Open(nil)

	// Sources failed to load, so the forced Referral row never resolved.
	rd := refsFor(c.Generation())
	rd.Sources = lookup.Result[[]crm.LookupRow]{Loaded: true, Err: errors.New("backend unavailable")}
	c.ApplyReferenceData(rd)
	fillRequired(c)

	errs := c.Validate()
	assert.Equal(t, "Lead source options have not loaded yet", errs[FieldSource],
		"a partner cannot pick a source by hand; the message must say why submit is blocked")

	// A non-locked role still gets the plain required message.
	c2 := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c2.Open(nil)
	fillRequired(c2)
	assert.Equal(t, "Lead source is required", c2.Validate()[FieldSource])
}

func TestCloseGuard(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	c := NewController(sessionFor(crm.RoleCompanyAdmin), &fakeLeadService{})
	c.SetClock(func() time.Time { return now })

	closed := false
	c.SetCallbacks(nil, func() { closed = true })
	c.Open(nil)

	// A close right after open is a touch double-fire: suppressed.
	now = now.Add(100 * time.Millisecond)
	assert.False(t, c.RequestClose())
	assert.False(t, closed)

	now = now.Add(250 * time.Millisecond)
	assert.True(t, c.RequestClose())
	assert.True(t, closed)
}
