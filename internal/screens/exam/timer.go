package exam

import (
	"time"

	tea "charm.land/bubbletea/v2"
)

// tickTimer adapts Bubble Tea ticks to exam.Timer. Start and Stop only flip
// state; the screen asks for the tick command after every controller call.
type tickTimer struct {
	interval time.Duration
	running  bool
	armed    bool
	gen      int
}

func (t *tickTimer) Start() {
	if t.running {
		return
	}
	t.running = true
	t.armed = false
	t.gen++
}

func (t *tickTimer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.gen++
}

// cmd schedules the next tick if the timer runs and none is pending.
func (t *tickTimer) cmd() tea.Cmd {
	if !t.running || t.armed {
		return nil
	}
	t.armed = true
	gen := t.gen
	return tea.Tick(t.interval, func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

// accept reports whether msg belongs to the current run and disarms it.
func (t *tickTimer) accept(msg tickMsg) bool {
	if !t.running || msg.gen != t.gen {
		return false
	}
	t.armed = false
	return true
}
