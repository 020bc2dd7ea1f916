// Package form owns the lead create/edit form state: draft fields,
// role-conditional visibility, validation and payload construction. The UI
// page is a thin binding over this controller so every rule here is testable
// without a terminal.
package form

import (
	"context"
	"errors"
	"strings"
	"time"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/lookup"
	"leadcrm/internal/session"
)

// Mode distinguishes create from edit.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

// Field identifies a form field for draft values and validation errors.
type Field string

const (
	FieldLeadDate     Field = "leadDate"
	FieldFollowupDate Field = "followupDate"
	FieldClientName   Field = "clientName"
	FieldMobile       Field = "mobileNumber"
	FieldCompany      Field = "companyName"
	FieldEmail        Field = "emailAddress"
	FieldAddress      Field = "address"
	FieldCity         Field = "city"
	FieldInterestedIn Field = "interestedIn"
	FieldNotes        Field = "notes"
	FieldBudget       Field = "expectedBudget"
	FieldSource       Field = "leadSourceId"
	FieldStatus       Field = "leadStatusId"
	FieldReferredBy   Field = "referredBy"
)

// ErrValidation is returned by Submit when client-side validation failed.
// The per-field messages are in Errors().
var ErrValidation = errors.New("validation failed")

// newLeadStatusName is the status row a fresh create form defaults to once
// the status lookup resolves, provided the user has not touched the field.
const newLeadStatusName = "New Lead"

// referralSourceName matches the source row case-insensitively.
const referralSourceName = "referral"

// openCloseGuard suppresses close events arriving almost immediately after
// open (touch double-fire).
const openCloseGuard = 300 * time.Millisecond

// LeadService is the slice of the API client the controller calls.
type LeadService interface {
	CreateLead(ctx context.Context, p api.LeadPayload) (crm.Lead, error)
	UpdateLead(ctx context.Context, id int64, p api.LeadPayload) (crm.Lead, error)
}

// Controller is the form state for one open modal. Open resets everything;
// nothing survives close.
type Controller struct {
	sess *session.Session
	svc  LeadService
	now  func() time.Time

	mode     Mode
	original crm.Lead

	draft   map[Field]string
	touched map[Field]bool
	errs    map[Field]string

	sourceID   int64
	statusID   int64
	urgencyID  *int64
	assigneeID *int64

	Referral *Resolver

	refs       lookup.ReferenceData
	generation int

	openedAt   time.Time
	submitting bool
	succeeded  bool
	errorMsg   string
	successMsg string

	onSuccess func()
	onClose   func()
}

// NewController builds a controller bound to a session and lead service.
func NewController(sess *session.Session, svc LeadService) *Controller {
	return &Controller{
		sess:     sess,
		svc:      svc,
		now:      time.Now,
		Referral: NewResolver(),
		draft:    map[Field]string{},
		touched:  map[Field]bool{},
		errs:     map[Field]string{},
	}
}

// SetClock overrides the clock (tests).
func (c *Controller) SetClock(now func() time.Time) { c.now = now }

// SetCallbacks installs the success and close callbacks invoked after the
// transient success state.
func (c *Controller) SetCallbacks(onSuccess, onClose func()) {
	c.onSuccess = onSuccess
	c.onClose = onClose
}

// Open resets all ephemeral state and enters create mode (lead == nil) or
// edit mode. Any lingering banners from the previous open are dismissed and
// the open moment is recorded for the close guard.
func (c *Controller) Open(lead *crm.Lead) {
	c.draft = map[Field]string{}
	c.touched = map[Field]bool{}
	c.errs = map[Field]string{}
	c.sourceID, c.statusID = 0, 0
	c.urgencyID, c.assigneeID = nil, nil
	c.Referral = NewResolver()
	c.refs = lookup.ReferenceData{}
	c.errorMsg, c.successMsg = "", ""
	c.submitting, c.succeeded = false, false
	c.openedAt = c.now()
	c.generation++

	if lead == nil {
		c.mode = ModeCreate
		c.original = crm.Lead{}
		c.draft[FieldLeadDate] = crm.FormatDate(c.now())
		c.applyRoleDefaults()
		return
	}

	c.mode = ModeEdit
	c.original = *lead
	c.draft[FieldLeadDate] = lead.LeadDate
	c.draft[FieldFollowupDate] = lead.FollowupDate
	c.draft[FieldClientName] = lead.ClientName
	c.draft[FieldMobile] = lead.MobileNumber
	c.draft[FieldCompany] = lead.CompanyName
	c.draft[FieldEmail] = lead.EmailAddress
	c.draft[FieldAddress] = lead.Address
	c.draft[FieldCity] = lead.City
	c.draft[FieldInterestedIn] = lead.InterestedIn
	c.draft[FieldNotes] = lead.Notes
	c.draft[FieldBudget] = lead.ExpectedBudget
	c.sourceID = lead.LeadSourceID
	c.statusID = lead.LeadStatusID
	c.urgencyID = lead.UrgencyLevelID
	c.assigneeID = lead.AssignedToUserID
	c.Referral.Prefill(lead.ReferredBy)
	c.applyRoleDefaults()
}

// applyRoleDefaults forces the fields a role may not choose.
func (c *Controller) applyRoleDefaults() {
	perms := c.sess.Permissions()
	if perms.ReferredByLockedSelf {
		c.Referral.Force(c.sess.User.FullName, c.sess.UserID())
	}
	if perms.AssignLockedSelf {
		id := c.sess.UserID()
		c.assigneeID = &id
	}
}

// Generation tags the current open; reference data loaded for an earlier
// open is discarded by ApplyReferenceData.
func (c *Controller) Generation() int { return c.generation }

// Mode returns the current form mode.
func (c *Controller) Mode() Mode { return c.mode }

// References returns the loaded reference snapshot.
func (c *Controller) References() lookup.ReferenceData { return c.refs }

// ApplyReferenceData installs a loaded snapshot. Stale snapshots (from a
// previous open) are ignored. Default-value assignment happens here, and
// only if the affected field is still untouched.
func (c *Controller) ApplyReferenceData(rd lookup.ReferenceData) {
	if rd.Generation != c.generation {
		return
	}
	c.refs = rd
	c.Referral.SetPartners(rd.Partners.Value)

	perms := c.sess.Permissions()
	if perms.SourceLockedToReferral && c.mode == ModeCreate {
		for _, row := range rd.Sources.Value {
			if strings.EqualFold(row.Name, referralSourceName) {
				c.sourceID = row.ID
				break
			}
		}
	}

	if c.mode == ModeCreate && !c.touched[FieldStatus] && c.statusID == 0 {
		if row, ok := rd.StatusByName(newLeadStatusName); ok {
			c.statusID = row.ID
		}
	}

	if c.mode == ModeEdit && !perms.ReferredByLockedSelf {
		c.Referral.AttachExactMatch()
	}
}

// Get returns the draft value of a text field.
func (c *Controller) Get(f Field) string { return c.draft[f] }

// Set records a text field edit and clears its validation error.
func (c *Controller) Set(f Field, v string) {
	c.draft[f] = v
	c.touched[f] = true
	delete(c.errs, f)
}

// SetReferredBy routes typed referred-by text through the resolver. Ignored
// when the field is locked to the partner's own identity.
func (c *Controller) SetReferredBy(v string) {
	if c.sess.Permissions().ReferredByLockedSelf {
		return
	}
	c.Referral.Input(v)
	c.touched[FieldReferredBy] = true
	delete(c.errs, FieldReferredBy)
}

// SelectSource picks a lead source. Only meaningful in create mode for roles
// that may choose; edit mode and locked roles ignore it.
func (c *Controller) SelectSource(id int64) {
	if c.mode == ModeEdit || c.sess.Permissions().SourceLockedToReferral {
		return
	}
	c.sourceID = id
	c.touched[FieldSource] = true
	delete(c.errs, FieldSource)
}

// SelectStatus picks a lead status.
func (c *Controller) SelectStatus(id int64) {
	c.statusID = id
	c.touched[FieldStatus] = true
	delete(c.errs, FieldStatus)
}

// SelectUrgency picks an urgency level; nil clears it.
func (c *Controller) SelectUrgency(id *int64) { c.urgencyID = id }

// SelectAssignee picks an assignee; nil means Unassigned. Ignored for roles
// that cannot assign (the payload forcing below is what actually matters).
func (c *Controller) SelectAssignee(id *int64) {
	if !c.sess.Permissions().CanAssign {
		return
	}
	c.assigneeID = id
}

// SourceID returns the currently selected source id.
func (c *Controller) SourceID() int64 { return c.sourceID }

// StatusID returns the currently selected status id.
func (c *Controller) StatusID() int64 { return c.statusID }

// AssigneeID returns the displayed assignee selection.
func (c *Controller) AssigneeID() *int64 { return c.assigneeID }

// UrgencyID returns the selected urgency level.
func (c *Controller) UrgencyID() *int64 { return c.urgencyID }

// Field visibility, derived per the role-conditional rules.

// ShowsSourceField reports whether the source field renders at all. The
// source is immutable after creation, so edit mode hides it entirely.
func (c *Controller) ShowsSourceField() bool {
	return c.mode == ModeCreate && c.sess.Permissions().CanSeeSourceField
}

// SourceEditable reports whether the rendered source field accepts changes.
func (c *Controller) SourceEditable() bool {
	return c.ShowsSourceField() && !c.sess.Permissions().SourceLockedToReferral
}

// selectedSourceIsReferral resolves the selected source name against the
// loaded sources, case-insensitively.
func (c *Controller) selectedSourceIsReferral() bool {
	row, ok := c.refs.SourceByID(c.sourceID)
	return ok && strings.EqualFold(row.Name, referralSourceName)
}

// ShowsReferredBy reports whether the referred-by field renders: in create
// mode with the Referral source selected, or always for Referral Partners.
func (c *Controller) ShowsReferredBy() bool {
	if c.sess.Permissions().ReferredByLockedSelf {
		return true
	}
	return c.mode == ModeCreate && c.selectedSourceIsReferral()
}

// ReferredByEditable reports whether the referred-by field accepts input.
func (c *Controller) ReferredByEditable() bool {
	return !c.sess.Permissions().ReferredByLockedSelf
}

// ShowsAssignedTo reports whether the assigned-to field renders.
func (c *Controller) ShowsAssignedTo() bool {
	return c.sess.Permissions().CanSeeAssignedTo
}

// AssignedToEditable reports whether the assigned-to dropdown is selectable.
// Team Members see a disabled display of their own name.
func (c *Controller) AssignedToEditable() bool {
	return c.sess.Permissions().CanAssign
}

// Validate checks the draft and returns the field-keyed error map. The map
// is also retained for Errors()/ErrorFor().
func (c *Controller) Validate() map[Field]string {
	errs := map[Field]string{}

	if strings.TrimSpace(c.draft[FieldClientName]) == "" {
		errs[FieldClientName] = "Client name is required"
	}
	mobile := strings.TrimSpace(c.draft[FieldMobile])
	if mobile == "" {
		errs[FieldMobile] = "Mobile number is required"
	} else if !crm.ValidMobile(mobile) {
		errs[FieldMobile] = "Enter a valid mobile number"
	}
	if email := strings.TrimSpace(c.draft[FieldEmail]); email != "" && !crm.ValidEmail(email) {
		errs[FieldEmail] = "Enter a valid email address"
	}
	if budget := strings.TrimSpace(c.draft[FieldBudget]); budget != "" && !crm.ValidBudget(budget) {
		errs[FieldBudget] = "Expected budget must be a number"
	}
	if c.mode == ModeCreate && c.sourceID == 0 {
		if c.sess.Permissions().SourceLockedToReferral {
			// The forced Referral source never resolved, so the source
			// lookup failed or has not arrived; the partner cannot pick
			// one by hand.
			errs[FieldSource] = "Lead source options have not loaded yet"
		} else {
			errs[FieldSource] = "Lead source is required"
		}
	}
	if c.ShowsReferredBy() && strings.TrimSpace(c.Referral.Text()) == "" {
		errs[FieldReferredBy] = "Referred by is required"
	}

	c.errs = errs
	return errs
}

// Errors returns the current validation error map.
func (c *Controller) Errors() map[Field]string { return c.errs }

// ErrorFor returns the validation message for one field, if any.
func (c *Controller) ErrorFor(f Field) string { return c.errs[f] }

// BuildPayload assembles the role-aware request body. Create and update
// share this single path so the forcing rules cannot diverge between them.
func (c *Controller) BuildPayload() api.LeadPayload {
	perms := c.sess.Permissions()

	p := api.LeadPayload{
		LeadDate:       strings.TrimSpace(c.draft[FieldLeadDate]),
		FollowupDate:   strings.TrimSpace(c.draft[FieldFollowupDate]),
		ClientName:     strings.TrimSpace(c.draft[FieldClientName]),
		MobileNumber:   strings.TrimSpace(c.draft[FieldMobile]),
		CompanyName:    strings.TrimSpace(c.draft[FieldCompany]),
		EmailAddress:   strings.TrimSpace(c.draft[FieldEmail]),
		Address:        strings.TrimSpace(c.draft[FieldAddress]),
		City:           strings.TrimSpace(c.draft[FieldCity]),
		InterestedIn:   c.draft[FieldInterestedIn],
		Notes:          c.draft[FieldNotes],
		ExpectedBudget: strings.TrimSpace(c.draft[FieldBudget]),
		UrgencyLevelID: c.urgencyID,
	}

	// Source: immutable after creation. Updates always carry the original
	// id even though the field is not rendered.
	if c.mode == ModeEdit {
		p.LeadSourceID = c.original.LeadSourceID
	} else {
		p.LeadSourceID = c.sourceID
	}

	// Status: never sent empty. A blank selection in edit mode falls back
	// to the lead's original status.
	p.LeadStatusID = c.statusID
	if p.LeadStatusID == 0 && c.mode == ModeEdit {
		p.LeadStatusID = c.original.LeadStatusID
	}

	// Assignment: Team Members are always forced to themselves at submit,
	// whatever the disabled display said.
	switch {
	case perms.AssignLockedSelf:
		id := c.sess.UserID()
		p.AssignedToUserID = &id
	case perms.CanAssign:
		p.AssignedToUserID = c.assigneeID
	}

	// Referral: partners always refer as themselves, overriding any typed
	// value.
	if perms.ReferredByLockedSelf {
		p.ReferredBy = c.sess.User.FullName
		id := c.sess.UserID()
		p.ReferredByUserID = &id
	} else {
		p.ReferredBy = strings.TrimSpace(c.Referral.Text())
		p.ReferredByUserID = c.Referral.PartnerID()
	}

	return p
}

// BeginSubmit re-validates and, when the draft passes, marks the submit in
// flight and returns the network call to run. The returned func touches no
// controller state, so the caller may run it on another goroutine and report
// its error back through FinishSubmit; everything the view reads is written
// here and in FinishSubmit only. A nil func with a nil error means a submit
// is already in flight.
func (c *Controller) BeginSubmit() (func(ctx context.Context) error, error) {
	if c.submitting || c.succeeded {
		return nil, nil
	}
	if errs := c.Validate(); len(errs) > 0 {
		return nil, ErrValidation
	}

	c.submitting = true
	c.errorMsg = ""

	payload := c.BuildPayload()
	svc, mode, leadID := c.svc, c.mode, c.original.LeadID
	return func(ctx context.Context) error {
		var err error
		if mode == ModeEdit {
			_, err = svc.UpdateLead(ctx, leadID, payload)
		} else {
			_, err = svc.CreateLead(ctx, payload)
		}
		return err
	}, nil
}

// FinishSubmit applies the outcome of the in-flight call. On success the
// transient success banner is set; the caller later invokes CompleteSuccess
// to fire the callbacks. On failure the backend message is surfaced and the
// form stays open.
func (c *Controller) FinishSubmit(err error) error {
	if !c.submitting {
		return nil
	}
	c.submitting = false

	if err != nil {
		c.errorMsg = err.Error()
		return err
	}

	c.succeeded = true
	if c.mode == ModeEdit {
		c.successMsg = "Lead updated"
	} else {
		c.successMsg = "Lead created"
	}
	return nil
}

// Submit runs the whole cycle on the calling goroutine: validate, call the
// service, apply the outcome. Callers that need the network call off their
// goroutine use BeginSubmit/FinishSubmit instead.
func (c *Controller) Submit(ctx context.Context) error {
	call, err := c.BeginSubmit()
	if err != nil || call == nil {
		return err
	}
	return c.FinishSubmit(call(ctx))
}

// CompleteSuccess ends the transient success state: success callback first,
// then close.
func (c *Controller) CompleteSuccess() {
	if !c.succeeded {
		return
	}
	if c.onSuccess != nil {
		c.onSuccess()
	}
	if c.onClose != nil {
		c.onClose()
	}
}

// Submitting reports whether a submit is in flight (disables the button).
func (c *Controller) Submitting() bool { return c.submitting }

// Succeeded reports whether the last submit succeeded.
func (c *Controller) Succeeded() bool { return c.succeeded }

// ErrorBanner returns the current mutation error message, if any.
func (c *Controller) ErrorBanner() string { return c.errorMsg }

// SuccessBanner returns the transient success message, if any.
func (c *Controller) SuccessBanner() string { return c.successMsg }

// DismissError clears the mutation error banner.
func (c *Controller) DismissError() { c.errorMsg = "" }

// CanClose reports whether a close event should be honored. Close triggers
// within the guard window after open are treated as touch double-fires and
// suppressed.
func (c *Controller) CanClose() bool {
	return c.now().Sub(c.openedAt) >= openCloseGuard
}

// RequestClose honors or suppresses a close trigger. An honored close fires
// the close callback.
func (c *Controller) RequestClose() bool {
	if !c.CanClose() {
		return false
	}
	if c.onClose != nil {
		c.onClose()
	}
	return true
}
