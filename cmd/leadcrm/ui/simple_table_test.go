package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleTableView(t *testing.T) {
	t.Parallel()

	styles := DefaultStyles()

	tbl := NewSimpleTable("Leads", []string{"Date", "Client", "Status"})
	tbl.AddRow("2026-08-01", "Acme Contact", "New Lead")
	tbl.AddRow("2026-08-02", "Beta Corp", "Contacted")

	out := tbl.View(styles)
	assert.Contains(t, out, "Leads")
	assert.Contains(t, out, "Client")
	assert.Contains(t, out, "Acme Contact")
	assert.Contains(t, out, "Contacted")

	// header, divider, two rows
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.GreaterOrEqual(t, len(lines), 4)
}

func TestSimpleTableEmpty(t *testing.T) {
	t.Parallel()

	tbl := NewSimpleTable("Empty", []string{"A"})
	assert.Empty(t, tbl.View(DefaultStyles()))
}

func TestSimpleTableMarkers(t *testing.T) {
	t.Parallel()

	tbl := NewSimpleTable("", []string{"Client"})
	tbl.AddRow("Visible One")
	tbl.AddRow("Locked One")
	tbl.Selected = 0
	tbl.ReadOnly[1] = true

	// Styling must not drop cell content.
	out := tbl.View(DefaultStyles())
	assert.Contains(t, out, "Visible One")
	assert.Contains(t, out, "Locked One")
}
