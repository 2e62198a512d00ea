package tui

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/mosaic/pkg/domain"
)

// EventLog keeps the most recent workspace events for the streamer tool.
// Safe for concurrent use.
type EventLog struct {
	mu    sync.Mutex
	lines []string
	max   int
}

// NewEventLog creates a log holding up to max lines.
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 100
	}
	return &EventLog{max: max}
}

// Add appends a line, dropping the oldest when full.
func (l *EventLog) Add(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.max; over > 0 {
		l.lines = append([]string(nil), l.lines[over:]...)
	}
}

// Lines returns a copy of the log, oldest first.
func (l *EventLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// Hooks records effective actions and focus moves.
func (l *EventLog) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAction: func(_ context.Context, ev *domain.ActionEvent) {
			switch {
			case !ev.Changed:
				return
			case ev.Action.Op == domain.OpCacheState, ev.Action.Op == domain.OpRequestFocus, ev.Action.Op == domain.OpMoveFocus:
				// Typing and focus moves are too chatty; focus has its own hook.
				return
			}
			l.Add(fmt.Sprintf("%s #%d %s (%d panes)", stamp(ev.Timestamp), ev.Revision, ev.Action, ev.Panes))
		},
		OnFocusChange: func(_ context.Context, ev *domain.FocusEvent) {
			l.Add(fmt.Sprintf("%s focus %s -> %s", stamp(ev.Timestamp), ev.From, ev.To))
		},
	}
}

func stamp(t time.Time) string {
	return t.Format("15:04:05")
}
