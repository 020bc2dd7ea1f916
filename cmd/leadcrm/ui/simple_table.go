package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// SimpleTable renders tabular data with per-row styling hooks. The lead list
// uses it with selection and read-only row markers; the settings tabs use it
// bare.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string

	// Selected is the highlighted row index, -1 for none.
	Selected int
	// ReadOnly marks rows rendered muted (no edit affordance).
	ReadOnly map[int]bool
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers []string) *SimpleTable {
	return &SimpleTable{
		Title:    title,
		Headers:  headers,
		Rows:     make([][]string, 0),
		Selected: -1,
		ReadOnly: make(map[int]bool),
	}
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}

	// Column widths from headers and cells. lipgloss.Width accounts for
	// ANSI sequences in styled cells.
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(colWidths) {
				if w := lipgloss.Width(cell); w > colWidths[i] {
					colWidths[i] = w
				}
			}
		}
	}
	for i := range colWidths {
		colWidths[i] += 2
	}

	headerStyle := styles.TableHeader.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	roStyle := styles.RowReadOnly.Padding(0, 1)
	selStyle := styles.RowSelected.Padding(0, 1)
	sepStyle := styles.Muted

	for i, h := range t.Headers {
		if i < len(colWidths) {
			sb.WriteString(headerStyle.Width(colWidths[i]).Render(h))
			if i < len(t.Headers)-1 {
				sb.WriteString(sepStyle.Render("|"))
			}
		}
	}
	sb.WriteString("\n")

	totalWidth := 0
	for _, w := range colWidths {
		totalWidth += w
	}
	totalWidth += len(t.Headers) - 1

	sb.WriteString(sepStyle.Render(strings.Repeat("-", totalWidth)) + "\n")

	for r, row := range t.Rows {
		cellStyle := rowStyle
		switch {
		case r == t.Selected:
			cellStyle = selStyle
		case t.ReadOnly[r]:
			cellStyle = roStyle
		}
		for i, cell := range row {
			if i < len(colWidths) {
				sb.WriteString(cellStyle.Width(colWidths[i]).Render(cell))
				if i < len(row)-1 {
					sb.WriteString(sepStyle.Render("|"))
				}
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
