package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/export"
	"leadcrm/internal/leadlist"
	"leadcrm/internal/logging"
	"leadcrm/internal/lookup"
	"leadcrm/internal/session"
)

// listMode is the list page's input mode.
type listMode int

const (
	modeBrowse listMode = iota
	modeSearch
	modeFilter
	modeColumns
	modePrompt
)

// promptKind identifies what the prompt overlay is collecting.
type promptKind int

const (
	promptNote promptKind = iota
	promptReschedule
	promptChangeStatus
	promptBulkAssign
	promptBulkStatus
)

const searchQuiet = 350 * time.Millisecond

// filterField describes one row of the filter overlay.
type filterField struct {
	label string
	text  bool // edited as text; otherwise cycled
}

var filterFields = []filterField{
	{"Lead date from", true},
	{"Lead date to", true},
	{"Follow-up from", true},
	{"Follow-up to", true},
	{"Created from", true},
	{"Created to", true},
	{"Budget min", true},
	{"Budget max", true},
	{"Source", false},
	{"Status", false},
	{"Urgency", false},
	{"Assigned to", false},
}

// ListPage renders the filtered, sorted, paginated lead collection.
type ListPage struct {
	svc      *api.Client
	loader   *lookup.Loader
	exporter *export.Exporter
	sess     *session.Session
	notifier session.Notifier
	styles   Styles
	log      *logging.Logger

	query   leadlist.Query
	columns *leadlist.Columns
	refs    lookup.ReferenceData
	refGen  int

	page    api.LeadPage
	loading bool
	seq     int // fetch sequence; stale responses are dropped

	mode     listMode
	cursor   int
	selected map[int64]bool

	searchInput textinput.Model
	debounce    Debouncer

	filterDraft leadlist.Filters
	filterIdx   int
	filterInput textinput.Model

	colIdx int

	prompt      promptKind
	promptInput textinput.Model
	promptIdx   int // cycle index for status/assignee prompts

	intent     listIntent
	intentLead int64

	spinner spinner.Model
	width   int
	height  int
}

// NewListPage builds the list page.
func NewListPage(svc *api.Client, loader *lookup.Loader, exporter *export.Exporter, sess *session.Session, notifier session.Notifier, styles Styles) *ListPage {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "search leads"

	return &ListPage{
		svc:         svc,
		loader:      loader,
		exporter:    exporter,
		sess:        sess,
		notifier:    notifier,
		styles:      styles,
		log:         logging.Get(logging.CategoryList),
		query:       leadlist.NewQuery(),
		columns:     leadlist.NewColumns(),
		selected:    map[int64]bool{},
		searchInput: search,
		filterInput: textinput.New(),
		promptInput: textinput.New(),
		spinner:     sp,
	}
}

// SetSize updates the page dimensions.
func (p *ListPage) SetSize(w, h int) { p.width, p.height = w, h }

// Init issues the first fetch plus the lookup load for filter options.
func (p *ListPage) Init() tea.Cmd {
	p.refGen++
	gen := p.refGen
	role := p.sess.Role()
	loadRefs := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return ListRefsLoadedMsg{Data: p.loader.Load(ctx, role, gen)}
	}
	return tea.Batch(p.fetchCmd(), loadRefs, p.spinner.Tick)
}

// Refresh refetches the current page (list refresh callback after form
// success).
func (p *ListPage) Refresh() tea.Cmd {
	return p.fetchCmd()
}

// fetchCmd requests the current page of results.
func (p *ListPage) fetchCmd() tea.Cmd {
	p.seq++
	p.loading = true
	seq := p.seq
	values := p.query.Values()
	p.log.Debug("fetch leads seq=%d mode=%s page=%d sort=%s %s", seq, p.mode, p.query.Page, p.query.SortKey, p.query.SortDir)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		page, err := p.svc.ListLeads(ctx, values)
		return LeadsLoadedMsg{Seq: seq, Page: page, Err: err}
	}
}

// InBrowse reports whether the page is in plain browse mode, i.e. no text
// entry is active and plain rune keys are free for the shell to interpret.
func (p *ListPage) InBrowse() bool { return p.mode == modeBrowse }

// CursorLead returns the lead under the cursor, if any.
func (p *ListPage) CursorLead() (crm.Lead, bool) {
	if p.cursor < 0 || p.cursor >= len(p.page.Leads) {
		return crm.Lead{}, false
	}
	return p.page.Leads[p.cursor], true
}

// listIntent is what the last key asked the shell to do; the shell polls it
// via TakeIntent after each update and opens the form modal accordingly.
type listIntent int

const (
	intentNone listIntent = iota
	intentCreate
	intentEdit
)

// TakeIntent returns and clears the pending shell intent.
func (p *ListPage) TakeIntent() (listIntent, int64) {
	i, id := p.intent, p.intentLead
	p.intent, p.intentLead = intentNone, 0
	return i, id
}

// Update processes a message.
func (p *ListPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd

	case ListRefsLoadedMsg:
		if msg.Data.Generation != p.refGen {
			return nil
		}
		p.refs = msg.Data
		return nil

	case LeadsLoadedMsg:
		if msg.Seq != p.seq {
			return nil // superseded by a newer fetch
		}
		p.loading = false
		if msg.Err != nil {
			p.notifier.Error(fmt.Sprintf("Could not load leads: %v", msg.Err))
			return nil
		}
		p.page = msg.Page
		if p.cursor >= len(p.page.Leads) {
			p.cursor = 0
		}
		return nil

	case SearchDebouncedMsg:
		if !p.debounce.Current(msg.Seq) {
			return nil
		}
		f := p.query.Filters
		f.Search = p.searchInput.Value()
		p.query.SetFilters(f)
		return p.fetchCmd()

	case MutationDoneMsg:
		if msg.Err != nil {
			p.notifier.Error(fmt.Sprintf("%s failed: %v", msg.Action, msg.Err))
			return nil
		}
		p.notifier.Success(msg.Action + " done")
		p.selected = map[int64]bool{}
		return p.fetchCmd()

	case ExportDoneMsg:
		if msg.Err != nil {
			p.notifier.Error(fmt.Sprintf("Export failed: %v", msg.Err))
			return nil
		}
		p.notifier.Success("Exported to " + msg.Path)
		return nil

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *ListPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch p.mode {
	case modeSearch:
		return p.handleSearchKey(msg)
	case modeFilter:
		return p.handleFilterKey(msg)
	case modeColumns:
		return p.handleColumnsKey(msg)
	case modePrompt:
		return p.handlePromptKey(msg)
	}
	return p.handleBrowseKey(msg)
}

func (p *ListPage) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	perms := p.sess.Permissions()

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.page.Leads)-1 {
			p.cursor++
		}

	case "enter", "e":
		if lead, ok := p.CursorLead(); ok && !lead.ReadOnly {
			p.intent = intentEdit
			p.intentLead = lead.LeadID
		}

	case "a":
		if perms.CanAddLeads {
			p.intent = intentCreate
		}

	case " ":
		if perms.CanBulkMutate {
			if lead, ok := p.CursorLead(); ok && !lead.ReadOnly {
				if p.selected[lead.LeadID] {
					delete(p.selected, lead.LeadID)
				} else {
					p.selected[lead.LeadID] = true
				}
			}
		}

	case "/":
		p.mode = modeSearch
		p.searchInput.SetValue(p.query.Filters.Search)
		p.searchInput.Focus()

	case "f":
		p.mode = modeFilter
		p.filterDraft = p.query.Filters
		p.filterIdx = 0
		p.syncFilterInput()

	case "c":
		p.mode = modeColumns
		p.colIdx = 0

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n, _ := strconv.Atoi(msg.String())
		cols := p.columns.VisibleColumns()
		if n >= 1 && n <= len(cols) {
			p.query.ToggleSort(string(cols[n-1]))
			return p.fetchCmd()
		}

	case "[":
		if p.query.Page > 1 {
			p.query.SetPage(p.query.Page - 1)
			return p.fetchCmd()
		}
	case "]":
		if p.page.TotalPages == 0 || p.query.Page < p.page.TotalPages {
			p.query.SetPage(p.query.Page + 1)
			return p.fetchCmd()
		}

	case "n":
		if lead, ok := p.CursorLead(); ok && !lead.ReadOnly {
			return p.openPrompt(promptNote, "Note for "+lead.ClientName)
		}
	case "r":
		if lead, ok := p.CursorLead(); ok && !lead.ReadOnly {
			return p.openPrompt(promptReschedule, "New follow-up date (yyyy-mm-dd)")
		}
	case "t":
		if lead, ok := p.CursorLead(); ok && !lead.ReadOnly {
			p.mode = modePrompt
			p.prompt = promptChangeStatus
			p.promptIdx = 0
		}

	case "A":
		if perms.CanBulkMutate && len(p.selected) > 0 {
			p.mode = modePrompt
			p.prompt = promptBulkAssign
			p.promptIdx = 0
		}
	case "T":
		if perms.CanBulkMutate && len(p.selected) > 0 {
			p.mode = modePrompt
			p.prompt = promptBulkStatus
			p.promptIdx = 0
		}

	case "x":
		return p.exportCmd(export.FormatXLSX)
	case "X":
		return p.exportCmd(export.FormatCSV)

	case "R":
		return p.fetchCmd()

	case "F":
		p.query.ClearFilters()
		return p.fetchCmd()
	}
	return nil
}

func (p *ListPage) openPrompt(kind promptKind, placeholder string) tea.Cmd {
	p.mode = modePrompt
	p.prompt = kind
	p.promptInput = textinput.New()
	p.promptInput.Placeholder = placeholder
	p.promptInput.Focus()
	return nil
}

func (p *ListPage) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.mode = modeBrowse
		p.searchInput.Blur()
		return nil
	case "enter":
		p.mode = modeBrowse
		p.searchInput.Blur()
		f := p.query.Filters
		f.Search = p.searchInput.Value()
		p.query.SetFilters(f)
		return p.fetchCmd()
	}
	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(msg)
	deb := p.debounce.Trigger(searchQuiet, func(seq int) tea.Msg {
		return SearchDebouncedMsg{Seq: seq}
	})
	return tea.Batch(cmd, deb)
}

// syncFilterInput loads the focused filter row's current value into the
// shared edit input.
func (p *ListPage) syncFilterInput() {
	p.filterInput = textinput.New()
	p.filterInput.Prompt = ""
	p.filterInput.SetValue(p.filterTextValue(p.filterIdx))
	if filterFields[p.filterIdx].text {
		p.filterInput.Focus()
	}
}

func (p *ListPage) filterTextValue(idx int) string {
	f := p.filterDraft
	switch idx {
	case 0:
		return f.LeadDateFrom
	case 1:
		return f.LeadDateTo
	case 2:
		return f.FollowupFrom
	case 3:
		return f.FollowupTo
	case 4:
		return f.CreatedFrom
	case 5:
		return f.CreatedTo
	case 6:
		if f.BudgetMin != nil {
			return strconv.FormatFloat(*f.BudgetMin, 'f', -1, 64)
		}
	case 7:
		if f.BudgetMax != nil {
			return strconv.FormatFloat(*f.BudgetMax, 'f', -1, 64)
		}
	}
	return ""
}

func (p *ListPage) storeFilterText(idx int, val string) {
	val = strings.TrimSpace(val)
	f := &p.filterDraft
	switch idx {
	case 0:
		f.LeadDateFrom = val
	case 1:
		f.LeadDateTo = val
	case 2:
		f.FollowupFrom = val
	case 3:
		f.FollowupTo = val
	case 4:
		f.CreatedFrom = val
	case 5:
		f.CreatedTo = val
	case 6, 7:
		var ptr **float64
		if idx == 6 {
			ptr = &f.BudgetMin
		} else {
			ptr = &f.BudgetMax
		}
		if val == "" {
			*ptr = nil
		} else if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			*ptr = &parsed
		}
	}
}

func (p *ListPage) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.mode = modeBrowse
		return nil

	case "enter":
		p.storeFilterText(p.filterIdx, p.filterInput.Value())
		p.query.SetFilters(p.filterDraft)
		p.mode = modeBrowse
		return p.fetchCmd()

	case "up", "shift+tab":
		p.storeFilterText(p.filterIdx, p.filterInput.Value())
		p.filterIdx = (p.filterIdx - 1 + len(filterFields)) % len(filterFields)
		p.syncFilterInput()
		return nil
	case "down", "tab":
		p.storeFilterText(p.filterIdx, p.filterInput.Value())
		p.filterIdx = (p.filterIdx + 1) % len(filterFields)
		p.syncFilterInput()
		return nil

	case "left", "right":
		if !filterFields[p.filterIdx].text {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			p.cycleFilterLookup(delta)
			return nil
		}
	}

	if filterFields[p.filterIdx].text {
		var cmd tea.Cmd
		p.filterInput, cmd = p.filterInput.Update(msg)
		return cmd
	}
	return nil
}

func (p *ListPage) cycleFilterLookup(delta int) {
	f := &p.filterDraft
	switch filterFields[p.filterIdx].label {
	case "Source":
		f.LeadSourceID = cycleOptional(p.refs.Sources.Value, f.LeadSourceID, delta)
	case "Status":
		f.LeadStatusID = cycleOptional(p.refs.Statuses.Value, f.LeadStatusID, delta)
	case "Urgency":
		f.UrgencyLevelID = cycleOptional(p.refs.Urgencies.Value, f.UrgencyLevelID, delta)
	case "Assigned to":
		f.AssignedTo = cycleUsers(p.refs.Assignees.Value, f.AssignedTo, delta)
	}
}

func (p *ListPage) handleColumnsKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "c":
		p.mode = modeBrowse
	case "up", "k":
		if p.colIdx > 0 {
			p.colIdx--
		}
	case "down", "j":
		if p.colIdx < len(leadlist.AllColumns)-1 {
			p.colIdx++
		}
	case "enter", " ":
		p.columns.Toggle(leadlist.AllColumns[p.colIdx])
	}
	return nil
}

func (p *ListPage) handlePromptKey(msg tea.KeyMsg) tea.Cmd {
	cycling := p.prompt == promptChangeStatus || p.prompt == promptBulkStatus || p.prompt == promptBulkAssign

	switch msg.String() {
	case "esc":
		p.mode = modeBrowse
		return nil

	case "left", "right":
		if cycling {
			delta := 1
			if msg.String() == "left" {
				delta = -1
			}
			n := p.promptOptionCount()
			if n > 0 {
				p.promptIdx = (p.promptIdx + delta + n) % n
			}
			return nil
		}

	case "enter":
		p.mode = modeBrowse
		return p.commitPrompt()
	}

	if !cycling {
		var cmd tea.Cmd
		p.promptInput, cmd = p.promptInput.Update(msg)
		return cmd
	}
	return nil
}

func (p *ListPage) promptOptionCount() int {
	switch p.prompt {
	case promptChangeStatus, promptBulkStatus:
		return len(p.refs.Statuses.Value)
	case promptBulkAssign:
		return len(p.refs.Assignees.Value)
	}
	return 0
}

func (p *ListPage) commitPrompt() tea.Cmd {
	switch p.prompt {
	case promptNote:
		lead, ok := p.CursorLead()
		note := strings.TrimSpace(p.promptInput.Value())
		if !ok || note == "" {
			return nil
		}
		return p.mutationCmd("Add note", func(ctx context.Context) error {
			return p.svc.AddNote(ctx, lead.LeadID, note)
		})

	case promptReschedule:
		lead, ok := p.CursorLead()
		date := strings.TrimSpace(p.promptInput.Value())
		if !ok || date == "" {
			return nil
		}
		return p.mutationCmd("Reschedule", func(ctx context.Context) error {
			return p.svc.RescheduleFollowup(ctx, lead.LeadID, date)
		})

	case promptChangeStatus:
		lead, ok := p.CursorLead()
		if !ok || p.promptIdx >= len(p.refs.Statuses.Value) {
			return nil
		}
		statusID := p.refs.Statuses.Value[p.promptIdx].ID
		return p.mutationCmd("Status change", func(ctx context.Context) error {
			return p.svc.ChangeStatus(ctx, lead.LeadID, statusID)
		})

	case promptBulkAssign:
		if p.promptIdx >= len(p.refs.Assignees.Value) {
			return nil
		}
		userID := p.refs.Assignees.Value[p.promptIdx].UserID
		ids := p.selectedIDs()
		return p.mutationCmd("Bulk assign", func(ctx context.Context) error {
			return p.svc.BulkAssign(ctx, ids, userID)
		})

	case promptBulkStatus:
		if p.promptIdx >= len(p.refs.Statuses.Value) {
			return nil
		}
		statusID := p.refs.Statuses.Value[p.promptIdx].ID
		ids := p.selectedIDs()
		return p.mutationCmd("Bulk status update", func(ctx context.Context) error {
			return p.svc.BulkStatus(ctx, ids, statusID)
		})
	}
	return nil
}

func (p *ListPage) selectedIDs() []int64 {
	ids := make([]int64, 0, len(p.selected))
	for id := range p.selected {
		ids = append(ids, id)
	}
	return ids
}

func (p *ListPage) mutationCmd(action string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return MutationDoneMsg{Action: action, Err: fn(ctx)}
	}
}

func (p *ListPage) exportCmd(format export.Format) tea.Cmd {
	values := p.query.Values()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		path, err := p.exporter.Save(ctx, format, values, ".")
		return ExportDoneMsg{Path: path, Err: err}
	}
}

// cellValue extracts a column's display value for a lead.
func (p *ListPage) cellValue(lead crm.Lead, col leadlist.Column) string {
	switch col {
	case leadlist.ColLeadDate:
		return lead.LeadDate
	case leadlist.ColClientName:
		return lead.ClientName
	case leadlist.ColMobile:
		return lead.MobileNumber
	case leadlist.ColCompany:
		return lead.CompanyName
	case leadlist.ColSource:
		return rowName(p.refs.Sources.Value, lead.LeadSourceID, "-")
	case leadlist.ColStatus:
		return rowName(p.refs.Statuses.Value, lead.LeadStatusID, "-")
	case leadlist.ColUrgency:
		if lead.UrgencyLevelID == nil {
			return "-"
		}
		return rowName(p.refs.Urgencies.Value, *lead.UrgencyLevelID, "-")
	case leadlist.ColAssignedTo:
		if lead.AssignedToUserID == nil {
			return "Unassigned"
		}
		return userName(p.refs.Assignees.Value, *lead.AssignedToUserID, p.sess)
	case leadlist.ColFollowupDate:
		return lead.FollowupDate
	case leadlist.ColCreatedDate:
		return lead.CreatedDate
	case leadlist.ColReferredBy:
		return lead.ReferredBy
	}
	return ""
}

// View renders the list page.
func (p *ListPage) View() string {
	var sb strings.Builder
	perms := p.sess.Permissions()

	switch p.mode {
	case modeFilter:
		return p.viewFilter()
	case modeColumns:
		return p.viewColumns()
	case modePrompt:
		return p.viewPrompt()
	}

	header := fmt.Sprintf("Leads · page %d", p.query.Page)
	if p.page.TotalPages > 0 {
		header = fmt.Sprintf("Leads · page %d/%d · %d total", p.query.Page, p.page.TotalPages, p.page.Total)
	}
	sb.WriteString(p.styles.Title.Render(header))
	sb.WriteString("\n")

	if p.mode == modeSearch {
		sb.WriteString(p.searchInput.View() + "\n")
	} else if p.query.Filters.Search != "" {
		sb.WriteString(p.styles.Muted.Render("search: "+p.query.Filters.Search) + "\n")
	}

	if p.loading {
		sb.WriteString(p.spinner.View() + " Loading...\n")
	}

	cols := p.columns.VisibleColumns()
	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, "")
	for i, col := range cols {
		title := leadlist.Titles[col]
		if string(col) == p.query.SortKey {
			if p.query.SortDir == leadlist.SortAsc {
				title += " ↑"
			} else {
				title += " ↓"
			}
		}
		headers = append(headers, fmt.Sprintf("%d %s", i+1, title))
	}

	table := NewSimpleTable("", headers)
	table.Selected = p.cursor
	for r, lead := range p.page.Leads {
		mark := " "
		if p.selected[lead.LeadID] {
			mark = "*"
		}
		if lead.ReadOnly {
			table.ReadOnly[r] = true
			mark = "·"
		}
		row := make([]string, 0, len(cols)+1)
		row = append(row, mark)
		for _, col := range cols {
			row = append(row, p.cellValue(lead, col))
		}
		table.AddRow(row...)
	}
	sb.WriteString(table.View(p.styles))

	help := "j/k move · enter edit · / search · f filter · c columns · 1-9 sort · [/] page · x export"
	if perms.CanAddLeads {
		help = "a add · " + help
	}
	if perms.CanBulkMutate {
		help += " · space select · A bulk assign · T bulk status"
	}
	sb.WriteString(p.styles.Footer.Render(help))
	return sb.String()
}

// String names the list mode for log lines.
func (m listMode) String() string {
	switch m {
	case modeSearch:
		return "search"
	case modeFilter:
		return "filter"
	case modeColumns:
		return "columns"
	case modePrompt:
		return "prompt"
	}
	return "browse"
}

func (p *ListPage) viewFilter() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Filters"))
	sb.WriteString("\n")

	for i, ff := range filterFields {
		marker := "  "
		if i == p.filterIdx {
			marker = p.styles.Bold.Render("> ")
		}
		var val string
		if ff.text {
			if i == p.filterIdx {
				val = p.filterInput.View()
			} else {
				val = p.filterTextValue(i)
			}
		} else {
			val = p.filterLookupLabel(ff.label)
		}
		sb.WriteString(marker + p.styles.FieldLabel.Render(ff.label) + " " + val + "\n")
	}

	sb.WriteString("\n" + p.styles.Footer.Render("tab/↑↓ fields · ←/→ options · enter apply · esc cancel"))
	return sb.String()
}

func (p *ListPage) filterLookupLabel(label string) string {
	f := p.filterDraft
	switch label {
	case "Source":
		if f.LeadSourceID != nil {
			return rowName(p.refs.Sources.Value, *f.LeadSourceID, "(any)")
		}
	case "Status":
		if f.LeadStatusID != nil {
			return rowName(p.refs.Statuses.Value, *f.LeadStatusID, "(any)")
		}
	case "Urgency":
		if f.UrgencyLevelID != nil {
			return rowName(p.refs.Urgencies.Value, *f.UrgencyLevelID, "(any)")
		}
	case "Assigned to":
		if f.AssignedTo != nil {
			return userName(p.refs.Assignees.Value, *f.AssignedTo, p.sess)
		}
	}
	return p.styles.Muted.Render("(any)")
}

func (p *ListPage) viewColumns() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Columns"))
	sb.WriteString("\n")
	for i, col := range leadlist.AllColumns {
		marker := "  "
		if i == p.colIdx {
			marker = p.styles.Bold.Render("> ")
		}
		check := "[ ]"
		if p.columns.Visible(col) {
			check = "[x]"
		}
		sb.WriteString(marker + check + " " + leadlist.Titles[col] + "\n")
	}
	sb.WriteString("\n" + p.styles.Footer.Render("enter/space toggle · esc done"))
	return sb.String()
}

func (p *ListPage) viewPrompt() string {
	var sb strings.Builder
	switch p.prompt {
	case promptNote:
		sb.WriteString(p.styles.Title.Render("Add Note") + "\n" + p.promptInput.View())
	case promptReschedule:
		sb.WriteString(p.styles.Title.Render("Reschedule Follow-up") + "\n" + p.promptInput.View())
	case promptChangeStatus, promptBulkStatus:
		title := "Change Status"
		if p.prompt == promptBulkStatus {
			title = fmt.Sprintf("Bulk Status (%d leads)", len(p.selected))
		}
		label := "(no statuses)"
		if p.promptIdx < len(p.refs.Statuses.Value) {
			label = p.refs.Statuses.Value[p.promptIdx].Name
		}
		sb.WriteString(p.styles.Title.Render(title) + "\n◂ " + label + " ▸")
	case promptBulkAssign:
		label := "(no users)"
		if p.promptIdx < len(p.refs.Assignees.Value) {
			label = p.refs.Assignees.Value[p.promptIdx].FullName
		}
		sb.WriteString(p.styles.Title.Render(fmt.Sprintf("Bulk Assign (%d leads)", len(p.selected))) + "\n◂ " + label + " ▸")
	}
	sb.WriteString("\n\n" + p.styles.Footer.Render("enter confirm · esc cancel"))
	return sb.String()
}
