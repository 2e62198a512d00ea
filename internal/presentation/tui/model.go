package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/keymap"
	"github.com/aretw0/mosaic/pkg/registry"
)

// Terminal size assumed until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Option configures the Model.
type Option func(*Model)

// WithRegistry replaces the built-in tools.
func WithRegistry(reg *registry.Registry[Widget]) Option {
	return func(m *Model) {
		m.reg = reg
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k keymap.KeyMap) Option {
	return func(m *Model) {
		m.keys = k
	}
}

// WithSplitTool sets the tool of panes created by the split chords.
func WithSplitTool(kind domain.ToolKind) Option {
	return func(m *Model) {
		m.splitTool = kind
	}
}

// WithEventLog feeds the built-in streamer tool.
func WithEventLog(log *EventLog) Option {
	return func(m *Model) {
		m.log = log
	}
}

// WithMarkdownRenderer sets the renderer of the built-in home tool. Nil shows raw markdown.
func WithMarkdownRenderer(r MarkdownRenderer) Option {
	return func(m *Model) {
		m.render = r
	}
}

type paneWidget struct {
	kind   domain.ToolKind
	widget Widget
}

// Model is the bubbletea host of one workspace. It is the workspace's single owner:
// key chords and tools mutate it, and panes are derived again after every message.
type Model struct {
	ws        *mosaic.Workspace
	reg       *registry.Registry[Widget]
	keys      keymap.KeyMap
	help      help.Model
	splitTool domain.ToolKind
	log       *EventLog
	render    MarkdownRenderer

	widgets map[domain.PaneID]paneWidget
	width   int
	height  int
}

// New creates the host for ws. Focus is placed on the first pane.
func New(ws *mosaic.Workspace, opts ...Option) Model {
	m := Model{
		ws:        ws,
		keys:      keymap.Default(),
		help:      help.New(),
		splitTool: domain.ToolOpen,
		render:    NewRenderer(),
		widgets:   make(map[domain.PaneID]paneWidget),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.reg == nil {
		m.reg = Tools(m.log, m.render)
	}
	m.ensureFocus()
	m.sync()
	return m
}

// Run starts the interactive program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Workspace returns the hosted workspace.
func (m Model) Workspace() *mosaic.Workspace {
	return m.ws
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	// The workspace may have been edited outside the program.
	m.sync()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width

	case focusMsg:
		m.ws.RequestFocus(msg.Path)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		pane, ok := m.ws.FocusedPane()
		if !ok {
			break
		}
		if action, ok := m.keys.Resolve(msg, pane.Path(), m.splitTool); ok {
			m.dispatch(action)
			break
		}
		cmd = m.forward(msg, pane)

	default:
		if pane, ok := m.ws.FocusedPane(); ok {
			cmd = m.forward(msg, pane)
		}
	}

	m.ensureFocus()
	m.sync()
	return m, cmd
}

// dispatch applies a key chord's action. Panes created by a split take focus.
func (m Model) dispatch(action domain.Action) {
	if action.Op == domain.OpSplit {
		if p, ok := m.ws.SplitNode(action.Path, action.Axis, action.Tool); ok {
			m.ws.RequestFocus(p)
		}
		return
	}
	m.ws.Do(action)
}

// forward hands msg to the widget of pane.
func (m Model) forward(msg tea.Msg, pane mosaic.Pane) tea.Cmd {
	entry, ok := m.widgets[pane.ID()]
	if !ok {
		return nil
	}
	w, cmd := entry.widget.Update(msg, pane)
	m.widgets[pane.ID()] = paneWidget{kind: entry.kind, widget: w}
	return cmd
}

// ensureFocus moves a stale focus to the nearest pane: the first pane under the
// deepest ancestor of the old focus that still exists.
func (m Model) ensureFocus() {
	if _, ok := m.ws.FocusedPane(); ok {
		return
	}
	root := m.ws.Root()
	p, ok := m.ws.Snapshot().Focus.Get()
	if !ok {
		p = domain.Root()
	}
	for {
		if target, found := runtime.FindFirstToolPath(root, p); found {
			m.ws.RequestFocus(target)
			return
		}
		if p.IsRoot() {
			return
		}
		p = p.Parent()
	}
}

// sync builds widgets for new panes, rebuilds them when a pane's tool changed and
// forgets closed panes.
func (m Model) sync() {
	seen := make(map[domain.PaneID]bool)
	for _, pane := range m.ws.Panes() {
		id := pane.ID()
		seen[id] = true

		entry, ok := m.widgets[id]
		if !ok || entry.kind != pane.Tool() {
			w, err := m.reg.Build(pane.Tool())
			if err != nil {
				w = missingWidget{}
			}
			entry = paneWidget{kind: pane.Tool(), widget: w}
		}
		if f, ok := entry.widget.(focusable); ok {
			entry.widget = f.SetFocused(pane.IsFocused())
		}
		m.widgets[id] = entry
	}
	for id := range m.widgets {
		if !seen[id] {
			delete(m.widgets, id)
		}
	}
}

func (m Model) View() string {
	helpView := m.help.View(m.keys)
	height := m.height - lipgloss.Height(helpView)
	body := m.renderNode(m.ws.Root(), domain.Root(), m.width, height)
	return lipgloss.JoinVertical(lipgloss.Left, body, helpView)
}

// renderNode splits the available cells equally between the children of a split.
func (m Model) renderNode(n domain.Node, p domain.Path, width, height int) string {
	switch n := n.(type) {
	case domain.Leaf:
		pane, ok := m.ws.Pane(p)
		if !ok {
			return blank(width, height)
		}
		return m.renderPane(pane, width, height)
	case domain.Split:
		if n.Axis == domain.RowAxis {
			sizes := divide(width, len(n.Children))
			parts := make([]string, len(n.Children))
			for i, c := range n.Children {
				parts[i] = m.renderNode(c, p.Child(i), sizes[i], height)
			}
			return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		}
		sizes := divide(height, len(n.Children))
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = m.renderNode(c, p.Child(i), width, sizes[i])
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}
	return blank(width, height)
}

func (m Model) renderPane(pane mosaic.Pane, width, height int) string {
	// Border plus title line.
	if width < 4 || height < 4 {
		return blank(width, height)
	}
	innerW, innerH := width-2, height-2

	style, tstyle := paneStyle, titleStyle
	if pane.IsFocused() {
		style, tstyle = focusedPaneStyle, focusedTitleStyle
	}

	title := registry.DefaultTitle(pane.Tool())
	if t, ok := m.reg.Lookup(pane.Tool()); ok {
		title = t.Title
	}
	header := tstyle.Render(fmt.Sprintf("%s · %s", title, shortID(pane.ID())))

	var content string
	if entry, ok := m.widgets[pane.ID()]; ok {
		content = entry.widget.View(pane, innerW, innerH-1)
	}

	body := lipgloss.NewStyle().
		Width(innerW).Height(innerH).
		MaxWidth(innerW).MaxHeight(innerH).
		Render(header + "\n" + content)
	return style.Render(body)
}

func blank(width, height int) string {
	return lipgloss.NewStyle().Width(max(width, 0)).Height(max(height, 0)).Render("")
}

// divide splits total into n near-equal parts, the first ones taking the remainder.
func divide(total, n int) []int {
	sizes := make([]int, n)
	if n == 0 {
		return sizes
	}
	base, rem := total/n, total%n
	for i := range sizes {
		sizes[i] = base
		if i < rem {
			sizes[i]++
		}
	}
	return sizes
}

func shortID(id domain.PaneID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}
