package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickMsg is one second of a feedback countdown.
type tickMsg struct {
	seq int
}

// countdown drives the auto-advance after an answer. Each start or cancel
// bumps seq, so ticks scheduled for an earlier card are dropped.
type countdown struct {
	seq    int
	left   int
	active bool
}

func (c *countdown) start(seconds int) tea.Cmd {
	c.seq++
	c.left = seconds
	c.active = seconds > 0
	if !c.active {
		return nil
	}
	return tick(c.seq)
}

func (c *countdown) cancel() {
	c.seq++
	c.active = false
	c.left = 0
}

// handle consumes a tick. It reports true once the countdown has run out.
func (c *countdown) handle(msg tickMsg) (bool, tea.Cmd) {
	if !c.active || msg.seq != c.seq {
		return false, nil
	}
	c.left--
	if c.left <= 0 {
		c.active = false
		return true, nil
	}
	return false, tick(c.seq)
}

func tick(seq int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{seq: seq}
	})
}
