package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerStaleTriggersDropped(t *testing.T) {
	t.Parallel()

	d := &Debouncer{}
	mk := func(seq int) tea.Msg { return SearchDebouncedMsg{Seq: seq} }

	cmd1 := d.Trigger(time.Millisecond, mk)
	cmd2 := d.Trigger(time.Millisecond, mk)
	require.NotNil(t, cmd1)
	require.NotNil(t, cmd2)

	msg1 := cmd1().(SearchDebouncedMsg)
	msg2 := cmd2().(SearchDebouncedMsg)

	// Only the newest trigger survives; the earlier timer's message is
	// recognizable as stale.
	assert.False(t, d.Current(msg1.Seq))
	assert.True(t, d.Current(msg2.Seq))
}

func TestDebouncerReset(t *testing.T) {
	t.Parallel()

	d := &Debouncer{}
	cmd := d.Trigger(time.Millisecond, func(seq int) tea.Msg { return SearchDebouncedMsg{Seq: seq} })
	msg := cmd().(SearchDebouncedMsg)
	require.True(t, d.Current(msg.Seq))

	d.Reset()
	assert.False(t, d.Current(msg.Seq))
}
