package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"leadcrm/internal/api"
	"leadcrm/internal/crm"
	"leadcrm/internal/session"
)

// DashboardPage shows the per-status lead counts as a bar chart.
type DashboardPage struct {
	svc      *api.Client
	notifier session.Notifier
	styles   Styles

	summary crm.LeadSummary
	loaded  bool
	width   int
	height  int
}

// NewDashboardPage builds the dashboard.
func NewDashboardPage(svc *api.Client, notifier session.Notifier, styles Styles) *DashboardPage {
	return &DashboardPage{svc: svc, notifier: notifier, styles: styles}
}

// SetSize updates the page dimensions.
func (p *DashboardPage) SetSize(w, h int) { p.width, p.height = w, h }

// Init fetches the lead summary.
func (p *DashboardPage) Init() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		summary, err := p.svc.LeadSummary(ctx)
		return SummaryLoadedMsg{Summary: summary, Err: err}
	}
}

// Update processes a message.
func (p *DashboardPage) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case SummaryLoadedMsg:
		if msg.Err != nil {
			p.notifier.Error(fmt.Sprintf("Dashboard failed to load: %v", msg.Err))
			return nil
		}
		p.summary = msg.Summary
		p.loaded = true
	case tea.KeyMsg:
		if msg.String() == "R" {
			return p.Init()
		}
	}
	return nil
}

// View renders the dashboard.
func (p *DashboardPage) View() string {
	var sb strings.Builder
	sb.WriteString(p.styles.Title.Render("Dashboard") + "\n\n")
	if !p.loaded {
		sb.WriteString("Loading summary...\n")
		return sb.String()
	}

	sb.WriteString(p.styles.Subtitle.Render(fmt.Sprintf("Total leads: %d   Open: %d", p.summary.TotalLeads, p.summary.OpenLeads)) + "\n")
	if p.summary.DueFollowups > 0 {
		sb.WriteString(p.styles.Warning.Render(fmt.Sprintf("Followups due: %d", p.summary.DueFollowups)) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(p.styles.Bold.Render("By status") + "\n")
	p.renderBars(&sb, p.summary.ByStatus)
	if len(p.summary.BySource) > 0 {
		sb.WriteString("\n" + p.styles.Bold.Render("By source") + "\n")
		p.renderBars(&sb, p.summary.BySource)
	}

	sb.WriteString("\n" + p.styles.Footer.Render("R refresh"))
	return sb.String()
}

func (p *DashboardPage) renderBars(sb *strings.Builder, counts []crm.StatusCount) {
	max := 1
	for _, sc := range counts {
		if sc.Count > max {
			max = sc.Count
		}
	}
	barWidth := p.width - 36
	if barWidth < 10 {
		barWidth = 10
	}
	for _, sc := range counts {
		bar := p.styles.Bar.Render(strings.Repeat("█", sc.Count*barWidth/max))
		sb.WriteString(fmt.Sprintf("%-22s %5d %s\n", sc.Name, sc.Count, bar))
	}
}
