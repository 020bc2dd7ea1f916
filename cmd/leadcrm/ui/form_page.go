package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"leadcrm/internal/crm"
	"leadcrm/internal/form"
	"leadcrm/internal/logging"
	"leadcrm/internal/lookup"
	"leadcrm/internal/session"
)

// fieldKind distinguishes how a form row is edited.
type fieldKind int

const (
	kindText fieldKind = iota
	kindSelect
	kindTypeahead
)

type formRow struct {
	field form.Field
	label string
	kind  fieldKind
}

// formRows is the display order of the lead form. Visibility of the
// conditional rows is decided per render by the controller.
var formRows = []formRow{
	{form.FieldLeadDate, "Lead Date", kindText},
	{form.FieldFollowupDate, "Follow-up Date", kindText},
	{form.FieldClientName, "Client Name", kindText},
	{form.FieldMobile, "Mobile Number", kindText},
	{form.FieldCompany, "Company", kindText},
	{form.FieldEmail, "Email", kindText},
	{form.FieldAddress, "Address", kindText},
	{form.FieldCity, "City", kindText},
	{form.FieldSource, "Lead Source", kindSelect},
	{form.FieldStatus, "Lead Status", kindSelect},
	{"urgencyLevelId", "Urgency", kindSelect},
	{"assignedToUserId", "Assigned To", kindSelect},
	{form.FieldReferredBy, "Referred By", kindTypeahead},
	{form.FieldInterestedIn, "Interested In", kindText},
	{form.FieldNotes, "Notes", kindText},
	{form.FieldBudget, "Expected Budget", kindText},
}

const (
	fieldUrgency  form.Field = "urgencyLevelId"
	fieldAssignee form.Field = "assignedToUserId"
)

// successLinger is how long the transient success banner stays before the
// form fires its callbacks and closes.
const successLinger = 1200 * time.Millisecond

// requestTimeout bounds every network call issued from the UI.
const requestTimeout = 15 * time.Second

// FormPage is the lead create/edit modal. All business rules live in the
// form.Controller; this page binds key events to it and renders its state.
type FormPage struct {
	ctrl     *form.Controller
	loader   *lookup.Loader
	leads    interface {
		GetLead(ctx context.Context, id int64) (crm.Lead, error)
	}
	sess     *session.Session
	notifier session.Notifier
	styles   Styles
	log      *logging.Logger

	inputs   map[form.Field]textinput.Model
	focusIdx int
	sugIdx   int

	spinner    spinner.Model
	loading    bool // initial lead fetch in flight (edit mode)
	width      int
	height     int
}

// NewFormPage builds the form page.
func NewFormPage(ctrl *form.Controller, loader *lookup.Loader, leads interface {
	GetLead(ctx context.Context, id int64) (crm.Lead, error)
}, sess *session.Session, notifier session.Notifier, styles Styles) *FormPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return &FormPage{
		ctrl:     ctrl,
		loader:   loader,
		leads:    leads,
		sess:     sess,
		notifier: notifier,
		styles:   styles,
		log:      logging.Get(logging.CategoryForm),
		spinner:  sp,
		inputs:   map[form.Field]textinput.Model{},
	}
}

// SetSize updates the page dimensions.
func (p *FormPage) SetSize(w, h int) {
	p.width, p.height = w, h
}

// OpenCreate resets the form into create mode and starts the reference-data
// load.
func (p *FormPage) OpenCreate() tea.Cmd {
	p.ctrl.Open(nil)
	p.loading = false
	p.rebuildInputs()
	p.log.Info("form opened (create), generation=%d", p.ctrl.Generation())
	return tea.Batch(p.loadRefsCmd(), p.spinner.Tick)
}

// OpenEdit fetches the target lead, then opens the form around it. The
// reference load is chained after the lead arrives so both carry the same
// generation.
func (p *FormPage) OpenEdit(leadID int64) tea.Cmd {
	p.ctrl.Open(nil) // placeholder open; stamps generation and the close guard
	p.loading = true
	gen := p.ctrl.Generation()
	p.log.Info("form opened (edit lead=%d), generation=%d", leadID, gen)

	fetch := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		lead, err := p.leads.GetLead(ctx, leadID)
		return LeadLoadedMsg{Generation: gen, Lead: lead, Err: err}
	}
	return tea.Batch(fetch, p.spinner.Tick)
}

// loadRefsCmd fetches the lookup snapshot for the current generation.
func (p *FormPage) loadRefsCmd() tea.Cmd {
	gen := p.ctrl.Generation()
	role := p.sess.Role()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return RefsLoadedMsg{Data: p.loader.Load(ctx, role, gen)}
	}
}

// rebuildInputs recreates the textinputs from the controller draft.
func (p *FormPage) rebuildInputs() {
	p.inputs = map[form.Field]textinput.Model{}
	for _, row := range formRows {
		if row.kind == kindSelect {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		if row.field == form.FieldReferredBy {
			ti.SetValue(p.ctrl.Referral.Text())
		} else {
			ti.SetValue(p.ctrl.Get(row.field))
		}
		p.inputs[row.field] = ti
	}
	p.focusIdx = 0
	p.sugIdx = 0
	p.focusCurrent()
}

// visibleRows returns indexes into formRows that render for the current
// mode and role.
func (p *FormPage) visibleRows() []int {
	var out []int
	for i, row := range formRows {
		switch row.field {
		case form.FieldSource:
			if !p.ctrl.ShowsSourceField() {
				continue
			}
		case form.FieldReferredBy:
			if !p.ctrl.ShowsReferredBy() {
				continue
			}
		case fieldAssignee:
			if !p.ctrl.ShowsAssignedTo() {
				continue
			}
		}
		out = append(out, i)
	}
	return out
}

func (p *FormPage) focusedRow() formRow {
	vis := p.visibleRows()
	if len(vis) == 0 {
		return formRow{}
	}
	if p.focusIdx >= len(vis) {
		p.focusIdx = len(vis) - 1
	}
	return formRows[vis[p.focusIdx]]
}

func (p *FormPage) focusCurrent() {
	row := p.focusedRow()
	for f, ti := range p.inputs {
		if f == row.field {
			ti.Focus()
		} else {
			ti.Blur()
		}
		p.inputs[f] = ti
	}
}

func (p *FormPage) moveFocus(delta int) {
	vis := p.visibleRows()
	if len(vis) == 0 {
		return
	}
	// Leaving the referred-by field dismisses its suggestions.
	if p.focusedRow().kind == kindTypeahead {
		p.ctrl.Referral.Dismiss()
	}
	p.focusIdx = (p.focusIdx + delta + len(vis)) % len(vis)
	p.sugIdx = 0
	p.focusCurrent()
	if p.focusedRow().kind == kindTypeahead {
		p.ctrl.Referral.Focus()
	}
}

// Update handles messages while the form modal is open. The second return
// value reports whether the modal consumed the message.
func (p *FormPage) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd, false

	case LeadLoadedMsg:
		if msg.Generation != p.ctrl.Generation() {
			return nil, true // stale: modal was reopened meanwhile
		}
		if msg.Err != nil {
			p.loading = false
			p.notifier.Error(fmt.Sprintf("Could not load lead: %v", msg.Err))
			p.ctrl.RequestClose()
			return nil, true
		}
		lead := msg.Lead
		p.ctrl.Open(&lead)
		p.loading = false
		p.rebuildInputs()
		return p.loadRefsCmd(), true

	case RefsLoadedMsg:
		// The controller discards snapshots from earlier opens itself.
		p.ctrl.ApplyReferenceData(msg.Data)
		if msg.Data.Generation == p.ctrl.Generation() {
			if warn := msg.Data.Warnings(); len(warn) > 0 {
				p.notifier.Warning("Some options failed to load: " + strings.Join(warn, ", "))
			}
			p.syncFromController()
		}
		return nil, true

	case SubmitDoneMsg:
		if msg.Generation != p.ctrl.Generation() {
			return nil, true
		}
		if err := p.ctrl.FinishSubmit(msg.Err); err != nil {
			p.log.Warn("submit failed: %v", err)
			return nil, true
		}
		gen := msg.Generation
		return tea.Tick(successLinger, func(time.Time) tea.Msg {
			return SuccessShownMsg{Generation: gen}
		}), true

	case SuccessShownMsg:
		if msg.Generation != p.ctrl.Generation() {
			return nil, true
		}
		p.notifier.Success(p.ctrl.SuccessBanner())
		p.ctrl.CompleteSuccess()
		return nil, true

	case tea.KeyMsg:
		return p.handleKey(msg), true
	}
	return nil, false
}

// syncFromController refreshes input contents the controller may have
// changed (forced referred-by, defaults).
func (p *FormPage) syncFromController() {
	if ti, ok := p.inputs[form.FieldReferredBy]; ok {
		ti.SetValue(p.ctrl.Referral.Text())
		p.inputs[form.FieldReferredBy] = ti
	}
}

func (p *FormPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.loading || p.ctrl.Submitting() || p.ctrl.Succeeded() {
		// Only escape works while busy, and never during the success
		// linger (callbacks are already scheduled).
		if msg.String() == "esc" && !p.ctrl.Succeeded() && !p.ctrl.Submitting() {
			p.ctrl.RequestClose()
		}
		return nil
	}

	row := p.focusedRow()
	suggesting := row.kind == kindTypeahead && len(p.ctrl.Referral.Suggestions()) > 0

	switch msg.String() {
	case "esc":
		if suggesting {
			p.ctrl.Referral.Dismiss()
			return nil
		}
		if p.ctrl.ErrorBanner() != "" {
			p.ctrl.DismissError()
			return nil
		}
		p.ctrl.RequestClose()
		return nil

	case "tab":
		p.moveFocus(1)
		return nil
	case "shift+tab":
		p.moveFocus(-1)
		return nil

	case "up":
		if suggesting {
			if p.sugIdx > 0 {
				p.sugIdx--
			}
			return nil
		}
		p.moveFocus(-1)
		return nil
	case "down":
		if suggesting {
			if p.sugIdx < len(p.ctrl.Referral.Suggestions())-1 {
				p.sugIdx++
			}
			return nil
		}
		p.moveFocus(1)
		return nil

	case "enter":
		if suggesting {
			sugs := p.ctrl.Referral.Suggestions()
			if p.sugIdx < len(sugs) {
				p.ctrl.Referral.Select(sugs[p.sugIdx])
				p.syncFromController()
			}
			return nil
		}
		p.moveFocus(1)
		return nil

	case "left", "right":
		if row.kind == kindSelect {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			p.cycleSelect(row.field, delta)
			return nil
		}

	case "ctrl+s":
		return p.submitCmd()
	}

	// Everything else goes to the focused text input.
	if row.kind == kindText || row.kind == kindTypeahead {
		ti, ok := p.inputs[row.field]
		if !ok {
			return nil
		}
		if row.kind == kindTypeahead && !p.ctrl.ReferredByEditable() {
			return nil
		}
		var cmd tea.Cmd
		ti, cmd = ti.Update(msg)
		p.inputs[row.field] = ti
		if row.kind == kindTypeahead {
			p.ctrl.SetReferredBy(ti.Value())
			p.sugIdx = 0
		} else {
			p.ctrl.Set(row.field, ti.Value())
		}
		return cmd
	}
	return nil
}

// cycleSelect advances a dropdown selection by delta.
func (p *FormPage) cycleSelect(field form.Field, delta int) {
	refs := p.ctrl.References()
	switch field {
	case form.FieldSource:
		if !p.ctrl.SourceEditable() {
			return
		}
		if id, ok := cycleRows(refs.Sources.Value, p.ctrl.SourceID(), delta); ok {
			p.ctrl.SelectSource(id)
		}
	case form.FieldStatus:
		if id, ok := cycleRows(refs.Statuses.Value, p.ctrl.StatusID(), delta); ok {
			p.ctrl.SelectStatus(id)
		}
	case fieldUrgency:
		p.ctrl.SelectUrgency(cycleOptional(refs.Urgencies.Value, p.ctrl.UrgencyID(), delta))
	case fieldAssignee:
		if !p.ctrl.AssignedToEditable() {
			return
		}
		p.ctrl.SelectAssignee(cycleUsers(refs.Assignees.Value, p.ctrl.AssigneeID(), delta))
	}
}

// cycleRows wraps among the rows. With nothing selected yet the first step
// lands on an end of the list; after that a selection always exists.
func cycleRows(rows []crm.LookupRow, current int64, delta int) (int64, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	idx := -1
	for i, row := range rows {
		if row.ID == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		if delta < 0 {
			return rows[len(rows)-1].ID, true
		}
		return rows[0].ID, true
	}
	idx = (idx + delta + len(rows)) % len(rows)
	return rows[idx].ID, true
}

// cycleOptional cycles nil -> rows[0] -> ... -> rows[n-1] -> nil.
func cycleOptional(rows []crm.LookupRow, current *int64, delta int) *int64 {
	if len(rows) == 0 {
		return nil
	}
	idx := -1
	if current != nil {
		for i, row := range rows {
			if row.ID == *current {
				idx = i
				break
			}
		}
	}
	idx += delta
	if idx < -1 {
		idx = len(rows) - 1
	}
	if idx >= len(rows) {
		idx = -1
	}
	if idx == -1 {
		return nil
	}
	id := rows[idx].ID
	return &id
}

// cycleUsers cycles Unassigned (nil) -> each user -> Unassigned.
func cycleUsers(users []crm.User, current *int64, delta int) *int64 {
	if len(users) == 0 {
		return nil
	}
	idx := -1
	if current != nil {
		for i, u := range users {
			if u.UserID == *current {
				idx = i
				break
			}
		}
	}
	idx += delta
	if idx < -1 {
		idx = len(users) - 1
	}
	if idx >= len(users) {
		idx = -1
	}
	if idx == -1 {
		return nil
	}
	id := users[idx].UserID
	return &id
}

// submitCmd validates and marks the submit on the event loop; only the
// network call runs in the command. The controller is never touched from the
// command goroutine.
func (p *FormPage) submitCmd() tea.Cmd {
	call, err := p.ctrl.BeginSubmit()
	if err != nil || call == nil {
		// Validation errors render inline; an in-flight submit swallows
		// the repeat keypress.
		return nil
	}
	gen := p.ctrl.Generation()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SubmitDoneMsg{Generation: gen, Err: call(ctx)}
	}
}

// View renders the modal.
func (p *FormPage) View() string {
	var sb strings.Builder

	title := "New Lead"
	if p.ctrl.Mode() == form.ModeEdit {
		title = "Edit Lead"
	}
	sb.WriteString(p.styles.Title.Render(title))
	sb.WriteString("\n")

	if p.loading {
		sb.WriteString(p.spinner.View() + " Loading lead...\n")
		return p.styles.Modal.Render(sb.String())
	}

	if banner := p.ctrl.SuccessBanner(); banner != "" && p.ctrl.Succeeded() {
		sb.WriteString(p.styles.Success.Render("✓ "+banner) + "\n")
	}
	if banner := p.ctrl.ErrorBanner(); banner != "" {
		sb.WriteString(p.styles.Error.Render("✗ "+banner) + p.styles.Muted.Render("  (esc to dismiss)") + "\n")
	}

	vis := p.visibleRows()
	for vi, ri := range vis {
		row := formRows[ri]
		focused := vi == p.focusIdx

		label := p.styles.FieldLabel.Render(row.label)
		marker := "  "
		if focused {
			marker = p.styles.Bold.Render("> ")
		}

		var value string
		switch row.kind {
		case kindSelect:
			value = p.renderSelect(row.field)
		case kindTypeahead:
			if !p.ctrl.ReferredByEditable() {
				value = p.styles.FieldDisabled.Render(p.ctrl.Referral.Text() + " (you)")
			} else {
				value = p.inputs[row.field].View()
			}
		default:
			value = p.inputs[row.field].View()
		}

		sb.WriteString(marker + label + " " + value + "\n")

		if msg := p.ctrl.ErrorFor(row.field); msg != "" {
			sb.WriteString("  " + p.styles.FieldLabel.Render("") + " " + p.styles.FieldError.Render(msg) + "\n")
		}

		if row.kind == kindTypeahead && focused {
			for i, s := range p.ctrl.Referral.Suggestions() {
				style := p.styles.Suggestion
				if i == p.sugIdx {
					style = p.styles.SuggestionSel
				}
				sb.WriteString(style.Render(s.FullName) + "\n")
			}
		}
	}

	sb.WriteString("\n")
	if p.ctrl.Submitting() {
		sb.WriteString(p.spinner.View() + " Saving...\n")
	} else {
		sb.WriteString(p.styles.Footer.Render("tab/shift+tab fields · ←/→ options · ctrl+s save · esc close"))
	}

	return p.styles.Modal.Render(sb.String())
}

// renderSelect shows the current selection of a dropdown field.
func (p *FormPage) renderSelect(field form.Field) string {
	refs := p.ctrl.References()
	switch field {
	case form.FieldSource:
		label := rowName(refs.Sources.Value, p.ctrl.SourceID(), "(select source)")
		if !p.ctrl.SourceEditable() {
			return p.styles.FieldDisabled.Render(label)
		}
		return p.styles.FieldValue.Render("◂ " + label + " ▸")
	case form.FieldStatus:
		return p.styles.FieldValue.Render("◂ " + rowName(refs.Statuses.Value, p.ctrl.StatusID(), "(select status)") + " ▸")
	case fieldUrgency:
		label := "(none)"
		if id := p.ctrl.UrgencyID(); id != nil {
			label = rowName(refs.Urgencies.Value, *id, "(none)")
		}
		return p.styles.FieldValue.Render("◂ " + label + " ▸")
	case fieldAssignee:
		label := "Unassigned"
		if id := p.ctrl.AssigneeID(); id != nil {
			label = userName(refs.Assignees.Value, *id, p.sess)
		}
		if !p.ctrl.AssignedToEditable() {
			return p.styles.FieldDisabled.Render(label)
		}
		return p.styles.FieldValue.Render("◂ " + label + " ▸")
	}
	return ""
}

func rowName(rows []crm.LookupRow, id int64, fallback string) string {
	for _, row := range rows {
		if row.ID == id {
			return row.Name
		}
	}
	return fallback
}

func userName(users []crm.User, id int64, sess *session.Session) string {
	for _, u := range users {
		if u.UserID == id {
			return u.FullName
		}
	}
	if sess.UserID() == id {
		return sess.User.FullName
	}
	return fmt.Sprintf("User %d", id)
}
