package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/logging"
	"leadcrm/internal/session"
)

// settingsTab is one tab of the settings page.
type settingsTab int

const (
	tabSources settingsTab = iota
	tabStatuses
	tabUrgencies
	tabEmail
)

var tabTitles = map[settingsTab]string{
	tabSources:   "Lead Sources",
	tabStatuses:  "Lead Statuses",
	tabUrgencies: "Urgency Levels",
	tabEmail:     "Email",
}

// lookupKinds maps tabs onto API path segments.
var lookupKinds = map[settingsTab]string{
	tabSources:   "lead-sources",
	tabStatuses:  "lead-statuses",
	tabUrgencies: "urgency-levels",
}

// SettingsPage manages the company's lookup rows and email configuration.
// Only roles with CanManageSettings ever reach it.
type SettingsPage struct {
	svc      *api.Client
	notifier session.Notifier
	styles   Styles
	log      *logging.Logger

	tab    settingsTab
	rows   map[settingsTab][]crm.LookupRow
	email  crm.EmailSettings
	cursor int

	editing   bool
	adding    bool
	nameInput textinput.Model

	emailIdx    int
	emailInputs []textinput.Model

	loading bool
	width   int
	height  int
}

// NewSettingsPage builds the settings page.
func NewSettingsPage(svc *api.Client, notifier session.Notifier, styles Styles) *SettingsPage {
	emailInputs := make([]textinput.Model, 3)
	for i := range emailInputs {
		emailInputs[i] = textinput.New()
		emailInputs[i].Prompt = ""
	}
	return &SettingsPage{
		svc:         svc,
		notifier:    notifier,
		styles:      styles,
		log:         logging.Get(logging.CategorySession),
		rows:        map[settingsTab][]crm.LookupRow{},
		nameInput:   textinput.New(),
		emailInputs: emailInputs,
	}
}

// SetSize updates the page dimensions.
func (p *SettingsPage) SetSize(w, h int) { p.width, p.height = w, h }

// InBrowse reports whether plain rune keys are free for the shell, i.e. no
// text input on this page currently has focus.
func (p *SettingsPage) InBrowse() bool {
	return !p.editing && (p.tab != tabEmail || p.emailIdx == 3)
}

// Init loads all settings collections.
func (p *SettingsPage) Init() tea.Cmd {
	p.loading = true
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		// Settings edits need the inactive rows too, so these fetches
		// bypass the form's active-only loader.
		msg := SettingsLoadedMsg{}
		var err error
		if msg.Sources, err = p.svc.LeadSources(ctx); err != nil {
			msg.Err = err
		}
		if msg.Statuses, err = p.svc.LeadStatuses(ctx); err != nil {
			msg.Err = err
		}
		if msg.Urgencies, err = p.svc.UrgencyLevels(ctx); err != nil {
			msg.Err = err
		}
		if msg.Email, err = p.svc.EmailSettings(ctx); err != nil {
			msg.Err = err
		}
		return msg
	}
}

// Update processes a message.
func (p *SettingsPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {

	case SettingsLoadedMsg:
		p.loading = false
		if msg.Err != nil {
			p.notifier.Warning(fmt.Sprintf("Some settings failed to load: %v", msg.Err))
		}
		p.rows[tabSources] = msg.Sources
		p.rows[tabStatuses] = msg.Statuses
		p.rows[tabUrgencies] = msg.Urgencies
		p.email = msg.Email
		p.emailInputs[0].SetValue(p.email.FromName)
		p.emailInputs[1].SetValue(p.email.FromAddress)
		p.emailInputs[2].SetValue(p.email.ReplyTo)
		return nil

	case SettingsSavedMsg:
		if msg.Err != nil {
			p.notifier.Error(fmt.Sprintf("%s failed: %v", msg.What, msg.Err))
			return nil
		}
		p.notifier.Success(msg.What + " saved")
		return p.Init()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}
	return nil
}

func (p *SettingsPage) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.editing {
		return p.handleEditKey(msg)
	}
	if p.tab == tabEmail {
		return p.handleEmailKey(msg)
	}

	rows := p.rows[p.tab]
	switch msg.String() {
	case "left", "h":
		if p.tab > tabSources {
			p.tab--
			p.cursor = 0
		}
	case "right", "l":
		if p.tab < tabEmail {
			p.tab++
			p.cursor = 0
			if p.tab == tabEmail {
				p.emailIdx = 0
				p.focusEmail()
			}
		}
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(rows)-1 {
			p.cursor++
		}

	case "a":
		p.editing, p.adding = true, true
		p.nameInput = textinput.New()
		p.nameInput.Placeholder = "name"
		p.nameInput.Focus()

	case "enter":
		if p.cursor < len(rows) {
			p.editing, p.adding = true, false
			p.nameInput = textinput.New()
			p.nameInput.SetValue(rows[p.cursor].Name)
			p.nameInput.Focus()
		}

	case " ":
		if p.cursor < len(rows) {
			row := rows[p.cursor]
			row.IsActive = !row.IsActive
			return p.saveRowCmd(row)
		}

	// Statuses and urgencies are ordered; J/K move the row and persist
	// the whole order.
	case "K":
		if p.tab != tabSources && p.cursor > 0 {
			rows[p.cursor-1], rows[p.cursor] = rows[p.cursor], rows[p.cursor-1]
			p.cursor--
			return p.reorderCmd()
		}
	case "J":
		if p.tab != tabSources && p.cursor < len(rows)-1 {
			rows[p.cursor+1], rows[p.cursor] = rows[p.cursor], rows[p.cursor+1]
			p.cursor++
			return p.reorderCmd()
		}
	}
	return nil
}

func (p *SettingsPage) handleEditKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.editing = false
		return nil
	case "enter":
		name := strings.TrimSpace(p.nameInput.Value())
		p.editing = false
		if name == "" {
			return nil
		}
		row := crm.LookupRow{Name: name, IsActive: true}
		if !p.adding {
			row = p.rows[p.tab][p.cursor]
			row.Name = name
		}
		return p.saveRowCmd(row)
	}
	var cmd tea.Cmd
	p.nameInput, cmd = p.nameInput.Update(msg)
	return cmd
}

func (p *SettingsPage) handleEmailKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	// left only navigates from the checkbox row; in the text fields it
	// moves the input cursor.
	case "left":
		if p.emailIdx == 3 {
			p.tab--
			p.emailIdx = 0
			p.focusEmail()
			return nil
		}
	case "up":
		if p.emailIdx > 0 {
			p.emailIdx--
			p.focusEmail()
		}
		return nil
	case "down":
		if p.emailIdx < 3 {
			p.emailIdx++
			p.focusEmail()
		}
		return nil
	case " ":
		if p.emailIdx == 3 {
			p.email.DailySummary = !p.email.DailySummary
			return nil
		}
	case "ctrl+s":
		p.email.FromName = p.emailInputs[0].Value()
		p.email.FromAddress = p.emailInputs[1].Value()
		p.email.ReplyTo = p.emailInputs[2].Value()
		settings := p.email
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return SettingsSavedMsg{What: "Email settings", Err: p.svc.SaveEmailSettings(ctx, settings)}
		}
	}

	if p.emailIdx < 3 {
		var cmd tea.Cmd
		p.emailInputs[p.emailIdx], cmd = p.emailInputs[p.emailIdx].Update(msg)
		return cmd
	}
	return nil
}

func (p *SettingsPage) focusEmail() {
	for i := range p.emailInputs {
		if i == p.emailIdx {
			p.emailInputs[i].Focus()
		} else {
			p.emailInputs[i].Blur()
		}
	}
}

func (p *SettingsPage) saveRowCmd(row crm.LookupRow) tea.Cmd {
	kind := lookupKinds[p.tab]
	what := tabTitles[p.tab]
	p.log.Debug("save %s row id=%d active=%t", kind, row.ID, row.IsActive)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		_, err := p.svc.SaveLookup(ctx, kind, row)
		return SettingsSavedMsg{What: what, Err: err}
	}
}

func (p *SettingsPage) reorderCmd() tea.Cmd {
	kind := lookupKinds[p.tab]
	what := tabTitles[p.tab] + " order"
	ids := make([]int64, 0, len(p.rows[p.tab]))
	for _, row := range p.rows[p.tab] {
		ids = append(ids, row.ID)
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return SettingsSavedMsg{What: what, Err: p.svc.ReorderLookup(ctx, kind, ids)}
	}
}

// View renders the settings page.
func (p *SettingsPage) View() string {
	var sb strings.Builder

	var tabs []string
	for t := tabSources; t <= tabEmail; t++ {
		style := p.styles.Tab
		if t == p.tab {
			style = p.styles.TabActive
		}
		tabs = append(tabs, style.Render(tabTitles[t]))
	}
	sb.WriteString(strings.Join(tabs, " ") + "\n\n")

	if p.loading {
		sb.WriteString("Loading settings...\n")
		return sb.String()
	}

	if p.tab == tabEmail {
		return sb.String() + p.viewEmail()
	}

	rows := p.rows[p.tab]
	for i, row := range rows {
		marker := "  "
		if i == p.cursor {
			marker = p.styles.Bold.Render("> ")
		}
		state := p.styles.Success.Render("active")
		if !row.IsActive {
			state = p.styles.Muted.Render("inactive")
		}
		name := row.Name
		if p.editing && !p.adding && i == p.cursor {
			name = p.nameInput.View()
		}
		sb.WriteString(fmt.Sprintf("%s%-30s %s\n", marker, name, state))
	}
	if p.editing && p.adding {
		sb.WriteString(p.styles.Bold.Render("+ ") + p.nameInput.View() + "\n")
	}

	help := "←/→ tabs · enter rename · a add · space toggle active"
	if p.tab != tabSources {
		help += " · J/K reorder"
	}
	sb.WriteString("\n" + p.styles.Footer.Render(help))
	return sb.String()
}

func (p *SettingsPage) viewEmail() string {
	var sb strings.Builder
	labels := []string{"From name", "From address", "Reply-to"}
	for i, label := range labels {
		marker := "  "
		if i == p.emailIdx {
			marker = p.styles.Bold.Render("> ")
		}
		sb.WriteString(marker + p.styles.FieldLabel.Render(label) + " " + p.emailInputs[i].View() + "\n")
	}
	marker := "  "
	if p.emailIdx == 3 {
		marker = p.styles.Bold.Render("> ")
	}
	check := "[ ]"
	if p.email.DailySummary {
		check = "[x]"
	}
	sb.WriteString(marker + p.styles.FieldLabel.Render("Daily summary") + " " + check + "\n")
	sb.WriteString("\n" + p.styles.Footer.Render("tab fields · space toggle · ctrl+s save"))
	return sb.String()
}
