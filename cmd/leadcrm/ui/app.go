package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"leadcrm/internal/api"
	"leadcrm/internal/export"
	"leadcrm/internal/form"
	"leadcrm/internal/logging"
	"leadcrm/internal/lookup"
	"leadcrm/internal/session"
)

const bannerLinger = 4 * time.Second

// appPage identifies a top-level navigation tab.
type appPage int

const (
	pageLeads appPage = iota
	pageDashboard
	pageSettings
)

var pageTitles = map[appPage]string{
	pageLeads:     "Leads",
	pageDashboard: "Dashboard",
	pageSettings:  "Settings",
}

// banner is a transient notification line shown under the header.
type banner struct {
	level string
	text  string
}

// notifier collects banner requests raised during an Update pass. The shell
// drains it afterwards and schedules the expiry tick; pages never touch the
// Bubble Tea loop directly.
type notifier struct {
	pending []banner
}

func (n *notifier) Success(msg string) { n.pending = append(n.pending, banner{"success", msg}) }
func (n *notifier) Error(msg string)   { n.pending = append(n.pending, banner{"error", msg}) }
func (n *notifier) Info(msg string)    { n.pending = append(n.pending, banner{"info", msg}) }
func (n *notifier) Warning(msg string) { n.pending = append(n.pending, banner{"warning", msg}) }

func (n *notifier) drain() (banner, bool) {
	if len(n.pending) == 0 {
		return banner{}, false
	}
	// Errors out-rank whatever else queued up in the same pass.
	best := n.pending[0]
	for _, b := range n.pending[1:] {
		if b.level == "error" && best.level != "error" {
			best = b
		}
	}
	n.pending = n.pending[:0]
	return best, true
}

// Model is the application shell: navigation tabs, the active page, the
// form modal, and the notification banner.
type Model struct {
	sess   *session.Session
	styles Styles
	log    *logging.Logger

	pages  []appPage
	active int

	list     *ListPage
	dash     *DashboardPage
	settings *SettingsPage
	formPage *FormPage
	formOpen bool

	notes     *notifier
	banner    *banner
	bannerSeq int

	// set by the form's success callback, turned into a list refetch
	// on the same Update pass
	pendingRefresh bool

	width  int
	height int
	ready  bool
}

// NewModel wires every page against the API client and session.
func NewModel(svc *api.Client, sess *session.Session, styles Styles) *Model {
	notes := &notifier{}
	loader := lookup.NewLoader(svc)
	exporter := export.New(svc)

	m := &Model{
		sess:   sess,
		styles: styles,
		log:    logging.Get(logging.CategoryBoot),
		notes:  notes,
		list:   NewListPage(svc, loader, exporter, sess, notes, styles),
	}

	ctrl := form.NewController(sess, svc)
	m.formPage = NewFormPage(ctrl, loader, svc, sess, notes, styles)
	ctrl.SetCallbacks(
		func() { m.pendingRefresh = true },
		func() { m.formOpen = false },
	)

	m.pages = []appPage{pageLeads}
	if sess.Permissions().CanSeeDashboard {
		m.pages = append(m.pages, pageDashboard)
		m.dash = NewDashboardPage(svc, notes, styles)
	}
	if sess.Permissions().CanManageSettings {
		m.pages = append(m.pages, pageSettings)
		m.settings = NewSettingsPage(svc, notes, styles)
	}
	return m
}

// Init starts the lead list.
func (m *Model) Init() tea.Cmd {
	m.log.Info("ui started as %s (%s)", m.sess.User.FullName, m.sess.Role())
	return m.list.Init()
}

// Update routes messages. The form modal, when open, sees messages first and
// may consume them; everything else reaches the active page.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		inner := m.height - 4
		m.list.SetSize(m.width, inner)
		m.formPage.SetSize(m.width, inner)
		if m.dash != nil {
			m.dash.SetSize(m.width, inner)
		}
		if m.settings != nil {
			m.settings.SetSize(m.width, inner)
		}
		return m, nil

	case BannerExpiredMsg:
		if msg.Seq == m.bannerSeq {
			m.banner = nil
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.formOpen {
			switch msg.String() {
			case "q":
				// q quits from browse mode only; pages in a text-entry
				// mode consume plain runes below.
				if m.pageInBrowse() {
					return m, tea.Quit
				}
			case "tab":
				if m.canSwitchTabs() {
					m.active = (m.active + 1) % len(m.pages)
					cmds = append(cmds, m.activateCmd())
					return m.finish(cmds)
				}
			case "shift+tab":
				if m.canSwitchTabs() {
					m.active = (m.active + len(m.pages) - 1) % len(m.pages)
					cmds = append(cmds, m.activateCmd())
					return m.finish(cmds)
				}
			}
		}
	}

	if m.formOpen {
		cmd, consumed := m.formPage.Update(msg)
		cmds = append(cmds, cmd)
		if consumed {
			return m.finish(cmds)
		}
	}

	switch m.pages[m.active] {
	case pageLeads:
		cmds = append(cmds, m.list.Update(msg))
		if intent, leadID := m.list.TakeIntent(); intent != intentNone {
			m.formOpen = true
			if intent == intentCreate {
				cmds = append(cmds, m.formPage.OpenCreate())
			} else {
				cmds = append(cmds, m.formPage.OpenEdit(leadID))
			}
		}
	case pageDashboard:
		cmds = append(cmds, m.dash.Update(msg))
	case pageSettings:
		cmds = append(cmds, m.settings.Update(msg))
	}

	return m.finish(cmds)
}

// finish drains queued notifications and the pending list refresh, then
// batches the collected commands.
func (m *Model) finish(cmds []tea.Cmd) (tea.Model, tea.Cmd) {
	if b, ok := m.notes.drain(); ok {
		m.banner = &b
		m.bannerSeq++
		seq := m.bannerSeq
		cmds = append(cmds, tea.Tick(bannerLinger, func(time.Time) tea.Msg {
			return BannerExpiredMsg{Seq: seq}
		}))
	}
	if m.pendingRefresh {
		m.pendingRefresh = false
		cmds = append(cmds, m.list.Refresh())
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) canSwitchTabs() bool {
	return len(m.pages) > 1 && m.pageInBrowse()
}

// pageInBrowse reports whether the active page is free of text entry, so the
// shell may claim plain keys like q and tab.
func (m *Model) pageInBrowse() bool {
	switch m.pages[m.active] {
	case pageLeads:
		return m.list.InBrowse()
	case pageSettings:
		return m.settings.InBrowse()
	}
	return true
}

// activateCmd kicks off the freshly selected page's load.
func (m *Model) activateCmd() tea.Cmd {
	switch m.pages[m.active] {
	case pageDashboard:
		return m.dash.Init()
	case pageSettings:
		return m.settings.Init()
	case pageLeads:
		return m.list.Refresh()
	}
	return nil
}

// View renders header, banner, active page (or the form modal), and footer.
func (m *Model) View() string {
	if !m.ready {
		return "starting..."
	}

	var tabs []string
	for i, pg := range m.pages {
		style := m.styles.Tab
		if i == m.active {
			style = m.styles.TabActive
		}
		tabs = append(tabs, style.Render(pageTitles[pg]))
	}
	user := m.styles.Muted.Render(m.sess.User.FullName + " · " + m.sess.Role().String())
	gap := m.width - lipgloss.Width(strings.Join(tabs, " ")) - lipgloss.Width(user) - 2
	if gap < 1 {
		gap = 1
	}
	header := m.styles.Header.Render(strings.Join(tabs, " ") + strings.Repeat(" ", gap) + user)

	var body string
	if m.formOpen {
		// FormPage wraps itself in the modal style.
		body = m.formPage.View()
	} else {
		switch m.pages[m.active] {
		case pageLeads:
			body = m.list.View()
		case pageDashboard:
			body = m.dash.View()
		case pageSettings:
			body = m.settings.View()
		}
	}

	out := header + "\n"
	if m.banner != nil {
		out += m.bannerStyle().Render(m.banner.text) + "\n"
	}
	out += body
	return out
}

func (m *Model) bannerStyle() lipgloss.Style {
	switch m.banner.level {
	case "success":
		return m.styles.Success
	case "error":
		return m.styles.Error
	case "warning":
		return m.styles.Warning
	}
	return m.styles.Info
}
