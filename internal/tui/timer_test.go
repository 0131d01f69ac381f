package tui

import "testing"

func TestCountdownExpires(t *testing.T) {
	var c countdown
	if cmd := c.start(2); cmd == nil {
		t.Fatalf("expected a tick command")
	}
	expired, cmd := c.handle(tickMsg{seq: c.seq})
	if expired || cmd == nil || c.left != 1 {
		t.Fatalf("expected one second left, got left=%d expired=%v", c.left, expired)
	}
	expired, cmd = c.handle(tickMsg{seq: c.seq})
	if !expired || cmd != nil || c.active {
		t.Fatalf("expected countdown to expire")
	}
}

func TestCountdownDropsStaleTicks(t *testing.T) {
	var c countdown
	c.start(3)
	stale := tickMsg{seq: c.seq}
	c.cancel()
	if expired, cmd := c.handle(stale); expired || cmd != nil {
		t.Fatalf("cancelled countdown must ignore ticks")
	}

	c.start(1)
	if expired, _ := c.handle(stale); expired {
		t.Fatalf("tick from an earlier card must be ignored")
	}
	if expired, _ := c.handle(tickMsg{seq: c.seq}); !expired {
		t.Fatalf("expected current countdown to expire")
	}
}

func TestCountdownZeroDelay(t *testing.T) {
	var c countdown
	if cmd := c.start(0); cmd != nil || c.active {
		t.Fatalf("zero delay must not schedule ticks")
	}
}
