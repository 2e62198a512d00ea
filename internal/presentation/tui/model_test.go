package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/internal/presentation/layout"
	"github.com/aretw0/mosaic/pkg/domain"
)

var (
	altBackslash = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'\\'}, Alt: true}
	altDash      = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'-'}, Alt: true}
	altW         = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}, Alt: true}
	altO         = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'o'}, Alt: true}
	altLeft      = tea.KeyMsg{Type: tea.KeyLeft, Alt: true}
	altRight     = tea.KeyMsg{Type: tea.KeyRight, Alt: true}
	down         = tea.KeyMsg{Type: tea.KeyDown}
	enter        = tea.KeyMsg{Type: tea.KeyEnter}
	tab          = tea.KeyMsg{Type: tea.KeyTab}
	ctrlC        = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T, opts ...Option) (Model, *EventLog) {
	t.Helper()
	log := NewEventLog(50)
	n := 0
	engine := mosaic.New(
		mosaic.WithStrictInvariants(),
		mosaic.WithLogger(logging.NewNop()),
		mosaic.WithLifecycleHooks(log.Hooks()),
		mosaic.WithPaneIDs(func() domain.PaneID {
			n++
			return domain.PaneID(fmt.Sprintf("p%d", n))
		}),
	)
	opts = append([]Option{WithEventLog(log), WithMarkdownRenderer(nil)}, opts...)
	return New(engine.NewWorkspace("test"), opts...), log
}

// send runs msgs through the model, executing the commands they return once.
func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, cmd := m.Update(msg)
		m = next.(Model)
		if cmd != nil {
			if follow := cmd(); follow != nil {
				if _, quit := follow.(tea.QuitMsg); !quit {
					next, _ = m.Update(follow)
					m = next.(Model)
				}
			}
		}
	}
	return m
}

func focusOf(m Model) string {
	p, ok := m.Workspace().Snapshot().Focus.Get()
	if !ok {
		return "none"
	}
	return p.Key()
}

func TestModel_StartsFocused(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, "", focusOf(m))
	assert.Equal(t, "open", layout.Compact(m.Workspace().Root()))
}

func TestModel_KeyChords(t *testing.T) {
	m, _ := newModel(t)

	m = send(t, m, altBackslash)
	assert.Equal(t, "row(open,open)", layout.Compact(m.Workspace().Root()))
	assert.Equal(t, "1", focusOf(m), "the new pane takes focus")

	m = send(t, m, altLeft)
	assert.Equal(t, "0", focusOf(m))

	m = send(t, m, altDash)
	assert.Equal(t, "row(column(open,open),open)", layout.Compact(m.Workspace().Root()))
	assert.Equal(t, "0:1", focusOf(m))

	m = send(t, m, altRight)
	assert.Equal(t, "1", focusOf(m))

	m = send(t, m, altLeft)
	assert.Equal(t, "0:0", focusOf(m), "moving into a split lands on its first pane")

	m = send(t, m, altW)
	assert.Equal(t, "row(open,open)", layout.Compact(m.Workspace().Root()))
	assert.Equal(t, "0", focusOf(m), "stale focus moves to the nearest pane")
}

func TestModel_CloseLastPane(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, altW)

	leaf, ok := m.Workspace().Root().(domain.Leaf)
	require.True(t, ok)
	assert.Equal(t, domain.ToolOpen, leaf.Tool)
	assert.Equal(t, "", focusOf(m))
}

func TestModel_Picker(t *testing.T) {
	m, _ := newModel(t)

	// Choices are query, home, streamer, notes, split.
	m = send(t, m, down, enter)
	assert.Equal(t, "home", layout.Compact(m.Workspace().Root()))

	m = send(t, m, altO)
	assert.Equal(t, "open", layout.Compact(m.Workspace().Root()))
}

func TestModel_Splitter(t *testing.T) {
	m, _ := newModel(t)
	m.Workspace().ReplaceTool(domain.Root(), domain.ToolSplit)

	// Default axis is column; tab switches to row. First choice is query.
	m = send(t, m, tab, enter)
	assert.Equal(t, "row(split,query)", layout.Compact(m.Workspace().Root()))
	assert.Equal(t, "1", focusOf(m))
}

func TestModel_NotesCacheState(t *testing.T) {
	m, _ := newModel(t)
	m.Workspace().ReplaceTool(domain.Root(), domain.ToolNotes)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(t, m, typed("hi"))
	v, ok := m.Workspace().CachedState(domain.Root())
	require.True(t, ok)
	assert.Equal(t, "hi", v)
	assert.Contains(t, m.View(), "hi")
}

func TestModel_QueryHistory(t *testing.T) {
	m, _ := newModel(t)
	m.Workspace().ReplaceTool(domain.Root(), domain.ToolQuery)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(t, m, typed("top comps"), enter, typed("next"))
	v, ok := m.Workspace().CachedState(domain.Root())
	require.True(t, ok)
	assert.Equal(t, QueryState{Input: "next", History: []string{"top comps"}}, v)
}

func TestModel_RestoresCachedQuery(t *testing.T) {
	m, _ := newModel(t)
	ws := m.Workspace()
	ws.ReplaceTool(domain.Root(), domain.ToolQuery)
	ws.CacheState(domain.Root(), map[string]any{"input": "draft", "history": []any{"old"}})
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	m = send(t, m, typed("!"))
	v, _ := ws.CachedState(domain.Root())
	assert.Equal(t, QueryState{Input: "draft!", History: []string{"old"}}, v)
}

func TestModel_Streamer(t *testing.T) {
	m, log := newModel(t)
	m = send(t, m, altBackslash)
	m.Workspace().ReplaceTool(domain.Path{1}, domain.ToolStreamer)
	m = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})

	require.NotEmpty(t, log.Lines())
	assert.Contains(t, strings.Join(log.Lines(), "\n"), "split")
	assert.Contains(t, m.View(), "Session Events")
}

func TestModel_View(t *testing.T) {
	m, _ := newModel(t)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30}, altBackslash)
	m.Workspace().ReplaceTool(domain.Path{0}, domain.ToolHome)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Home Page · p1")
	assert.Contains(t, view, "Open Tool · p2")
	assert.Contains(t, view, "Tool Opener")
	assert.Contains(t, view, "# Mosaic", "raw markdown without a renderer")
}

func TestModel_DispatchRejectedAction(t *testing.T) {
	m, _ := newModel(t)
	rev := m.Workspace().Snapshot().Revision
	m.dispatch(domain.Action{Op: "explode"})
	assert.Equal(t, "open", layout.Compact(m.Workspace().Root()))
	assert.Equal(t, rev, m.Workspace().Snapshot().Revision)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestDivide(t *testing.T) {
	assert.Equal(t, []int{34, 33, 33}, divide(100, 3))
	assert.Equal(t, []int{5, 5}, divide(10, 2))
	assert.Empty(t, divide(10, 0))
}

func TestEventLog_Bounded(t *testing.T) {
	log := NewEventLog(2)
	log.Add("a")
	log.Add("b")
	log.Add("c")
	assert.Equal(t, []string{"b", "c"}, log.Lines())
}
