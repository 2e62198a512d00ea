package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/registry"
)

var (
	upKey     = key.NewBinding(key.WithKeys("up", "k"))
	downKey   = key.NewBinding(key.WithKeys("down", "j"))
	enterKey  = key.NewBinding(key.WithKeys("enter"))
	toggleKey = key.NewBinding(key.WithKeys("tab"))
)

// choices lists the tools a picker offers: everything but the picker itself.
func choices(reg *registry.Registry[Widget], self domain.ToolKind) []registry.Tool[Widget] {
	var out []registry.Tool[Widget]
	for _, t := range reg.Tools() {
		if t.Kind != self {
			out = append(out, t)
		}
	}
	return out
}

func renderChoices(tools []registry.Tool[Widget], cursor int) string {
	var sb strings.Builder
	for i, t := range tools {
		if i == cursor {
			sb.WriteString(selectedStyle.Render("> " + t.Title))
		} else {
			sb.WriteString("  " + t.Title)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func moveCursor(msg tea.KeyMsg, cursor, n int) int {
	switch {
	case key.Matches(msg, upKey) && cursor > 0:
		return cursor - 1
	case key.Matches(msg, downKey) && cursor < n-1:
		return cursor + 1
	}
	return cursor
}

// pickerWidget replaces its own pane's tool with the chosen one.
type pickerWidget struct {
	reg    *registry.Registry[Widget]
	cursor int
}

func newPickerWidget(reg *registry.Registry[Widget]) Widget {
	return pickerWidget{reg: reg}
}

func (w pickerWidget) Update(msg tea.Msg, pane mosaic.Pane) (Widget, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}
	tools := choices(w.reg, domain.ToolOpen)
	if key.Matches(km, enterKey) && w.cursor < len(tools) {
		pane.ReplaceTool(tools[w.cursor].Kind)
		return w, nil
	}
	w.cursor = moveCursor(km, w.cursor, len(tools))
	return w, nil
}

func (w pickerWidget) View(pane mosaic.Pane, width, height int) string {
	return headerStyle.Render("Tool Opener") + "\n" +
		renderChoices(choices(w.reg, domain.ToolOpen), w.cursor) +
		mutedStyle.Render("enter: open")
}

// splitterWidget splits its own pane, opening the chosen tool along the chosen axis.
type splitterWidget struct {
	reg    *registry.Registry[Widget]
	cursor int
	axis   domain.Axis
}

func newSplitterWidget(reg *registry.Registry[Widget]) Widget {
	return splitterWidget{reg: reg, axis: domain.ColumnAxis}
}

func (w splitterWidget) Update(msg tea.Msg, pane mosaic.Pane) (Widget, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}
	tools := choices(w.reg, domain.ToolSplit)
	switch {
	case key.Matches(km, toggleKey):
		if w.axis == domain.RowAxis {
			w.axis = domain.ColumnAxis
		} else {
			w.axis = domain.RowAxis
		}
	case key.Matches(km, enterKey) && w.cursor < len(tools):
		if p, ok := pane.Split(w.axis, tools[w.cursor].Kind); ok {
			return w, focusCmd(p)
		}
	default:
		w.cursor = moveCursor(km, w.cursor, len(tools))
	}
	return w, nil
}

func (w splitterWidget) View(pane mosaic.Pane, width, height int) string {
	return headerStyle.Render("Tool Splitter") + "\n" +
		renderChoices(choices(w.reg, domain.ToolSplit), w.cursor) +
		fmt.Sprintf("axis: %s\n", selectedStyle.Render(w.axis.String())) +
		mutedStyle.Render("tab: axis  enter: split")
}

// QueryState is what the query tool keeps in the state cache.
type QueryState struct {
	Input   string   `mapstructure:"input" json:"input"`
	History []string `mapstructure:"history" json:"history"`
}

// textWidget edits one line of text kept in the state cache: a query box with a
// history of submitted queries, or a plain note.
type textWidget struct {
	input   textinput.Model
	query   bool
	history []string
	loaded  bool
}

func newTextWidget(query bool) Widget {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	if query {
		ti.Placeholder = "type a query, enter to run"
	} else {
		ti.Placeholder = "notes"
		ti.Prompt = ""
	}
	return textWidget{input: ti, query: query}
}

// load restores the widget from the pane's cached state once.
func (w textWidget) load(pane mosaic.Pane) textWidget {
	if w.loaded {
		return w
	}
	w.loaded = true
	v, ok := pane.CachedState()
	if !ok {
		return w
	}
	if !w.query {
		if s, ok := v.(string); ok {
			w.input.SetValue(s)
		}
		return w
	}
	var st QueryState
	// Accepts a QueryState as well as its decoded JSON form.
	if err := mapstructure.Decode(v, &st); err == nil {
		w.input.SetValue(st.Input)
		w.history = st.History
	}
	return w
}

func (w textWidget) state() any {
	if !w.query {
		return w.input.Value()
	}
	return QueryState{Input: w.input.Value(), History: append([]string(nil), w.history...)}
}

func (w textWidget) SetFocused(focused bool) Widget {
	if focused {
		w.input.Focus()
	} else {
		w.input.Blur()
	}
	return w
}

func (w textWidget) Update(msg tea.Msg, pane mosaic.Pane) (Widget, tea.Cmd) {
	w = w.load(pane)
	before := w.input.Value()

	if km, ok := msg.(tea.KeyMsg); ok && w.query && key.Matches(km, enterKey) {
		if q := strings.TrimSpace(before); q != "" {
			w.history = append(w.history, q)
			w.input.SetValue("")
			pane.CacheState(w.state())
		}
		return w, nil
	}

	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	if w.input.Value() != before {
		pane.CacheState(w.state())
	}
	return w, cmd
}

func (w textWidget) View(pane mosaic.Pane, width, height int) string {
	w = w.load(pane)
	w.input.Width = max(width-len(w.input.Prompt)-1, 1)
	if !w.query {
		return w.input.View()
	}
	var sb strings.Builder
	sb.WriteString(w.input.View())
	sb.WriteString("\n")
	start := max(len(w.history)-(height-1), 0)
	for i := len(w.history) - 1; i >= start; i-- {
		sb.WriteString(mutedStyle.Render(w.history[i]))
		sb.WriteString("\n")
	}
	return sb.String()
}

// streamerWidget shows the latest workspace events.
type streamerWidget struct {
	log *EventLog
}

func (w streamerWidget) Update(tea.Msg, mosaic.Pane) (Widget, tea.Cmd) { return w, nil }

func (w streamerWidget) View(pane mosaic.Pane, width, height int) string {
	if w.log == nil {
		return mutedStyle.Render("no event log")
	}
	lines := w.log.Lines()
	if len(lines) == 0 {
		return mutedStyle.Render("waiting for events")
	}
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}

const homeMarkdown = `# Mosaic

Every pane hosts one tool. Split panes to build a layout.

| Keys | Action |
| --- | --- |
| alt+arrows, alt+hjkl | move focus |
| alt+\ | split side by side |
| alt+- | split top to bottom |
| alt+w | close pane |
| alt+o | open another tool here |
| alt+? | help |
`

// homeWidget renders the landing page, caching the output per width.
type homeWidget struct {
	render MarkdownRenderer
	cache  map[int]string
}

func newHomeWidget(render MarkdownRenderer) Widget {
	return homeWidget{render: render, cache: make(map[int]string)}
}

func (w homeWidget) Update(tea.Msg, mosaic.Pane) (Widget, tea.Cmd) { return w, nil }

func (w homeWidget) View(pane mosaic.Pane, width, height int) string {
	if out, ok := w.cache[width]; ok {
		return out
	}
	out := homeMarkdown
	if w.render != nil {
		if rendered, err := w.render(homeMarkdown, width); err == nil {
			out = rendered
		}
	}
	w.cache[width] = out
	return out
}
