// Package ui provides the visual styling and page models for the leadcrm
// terminal client, with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f6f6f4")
	LightForeground = lipgloss.Color("#1b2733")
	LightPrimary    = lipgloss.Color("#1f5fbf") // CRM blue
	LightAccent     = lipgloss.Color("#0ea5a3") // Teal
	LightSecondary  = lipgloss.Color("#e4e7eb")
	LightMuted      = lipgloss.Color("#8a94a0")
	LightBorder     = lipgloss.Color("#d4d9df")
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#10161d")
	DarkForeground = lipgloss.Color("#e8ecf0")
	DarkPrimary    = lipgloss.Color("#5b9cf5")
	DarkAccent     = lipgloss.Color("#2dd4bf")
	DarkSecondary  = lipgloss.Color("#1c2631")
	DarkMuted      = lipgloss.Color("#5d6a78")
	DarkBorder     = lipgloss.Color("#2a3845")
	DarkCard       = lipgloss.Color("#18222c")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e5484d")
	Success     = lipgloss.Color("#46a758")
	Warning     = lipgloss.Color("#f5a623")
	Info        = lipgloss.Color("#3b82f6")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeByName resolves a configured theme name, falling back to detection.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	return DetectTheme()
}

// DetectTheme auto-detects based on terminal hints or defaults to light.
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; low background indexes are
	// dark terminals.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	if os.Getenv("LEADCRM_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds all the styled components.
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style
	Modal   lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// Form
	FieldLabel    lipgloss.Style
	FieldValue    lipgloss.Style
	FieldDisabled lipgloss.Style
	FieldError    lipgloss.Style
	Suggestion    lipgloss.Style
	SuggestionSel lipgloss.Style

	// Navigation
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	// Status banners
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// List
	TableHeader lipgloss.Style
	RowSelected lipgloss.Style
	RowReadOnly lipgloss.Style

	// Components
	Spinner lipgloss.Style
	Divider lipgloss.Style
	Badge   lipgloss.Style
	Bar     lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Background(theme.Background).
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Modal: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		FieldLabel: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Width(16),

		FieldValue: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		FieldDisabled: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		FieldError: lipgloss.NewStyle().
			Foreground(Destructive),

		Suggestion: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2),

		SuggestionSel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary).
			PaddingLeft(2),

		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		TabActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Padding(0, 2).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		RowSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(theme.Primary),

		RowReadOnly: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		Bar: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}

// DefaultStyles returns styles with the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	return s.Divider.Render(strings.Repeat("─", width))
}
