// Event debouncing for the TUI event loop. Instead of firing timers on side
// goroutines, a Debouncer stamps each trigger with a sequence number and the
// model acts only on the latest stamp, keeping all state changes on the
// Bubble Tea loop.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Debouncer coalesces rapid triggers (search keystrokes, resizes) into one
// message after a quiet period.
type Debouncer struct {
	seq int
}

// Trigger registers a new event and returns a command that delivers
// mk(seq) after the delay. Earlier pending triggers are invalidated by the
// bumped sequence, not cancelled; the model drops them via Current.
func (d *Debouncer) Trigger(delay time.Duration, mk func(seq int) tea.Msg) tea.Cmd {
	d.seq++
	seq := d.seq
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return mk(seq)
	})
}

// Current reports whether seq is the latest trigger. Stale timer messages
// return false and must be ignored.
func (d *Debouncer) Current(seq int) bool {
	return seq == d.seq
}

// Reset invalidates all pending triggers.
func (d *Debouncer) Reset() {
	d.seq++
}
