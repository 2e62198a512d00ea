package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/registry"
)

// Widget is the live instance of a tool hosted in one pane. It acts on the workspace
// only through the pane's capability bundle.
type Widget interface {
	// Update handles a message delivered while the pane is focused.
	Update(msg tea.Msg, pane mosaic.Pane) (Widget, tea.Cmd)
	// View renders the pane's content area.
	View(pane mosaic.Pane, width, height int) string
}

// focusable is implemented by widgets that draw differently when their pane holds focus.
type focusable interface {
	SetFocused(focused bool) Widget
}

// focusMsg asks the host to focus the pane at Path, e.g. one a tool just created.
type focusMsg struct {
	Path domain.Path
}

func focusCmd(p domain.Path) tea.Cmd {
	return func() tea.Msg { return focusMsg{Path: p} }
}

// Tools returns the built-in tool set. The event log feeds the streamer and
// render turns markdown into terminal output for the home page.
func Tools(log *EventLog, render MarkdownRenderer) *registry.Registry[Widget] {
	reg := registry.NewRegistry[Widget]()
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolQuery, New: func() Widget { return newTextWidget(true) }})
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolHome, New: func() Widget { return newHomeWidget(render) }})
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolStreamer, New: func() Widget { return streamerWidget{log: log} }})
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolNotes, New: func() Widget { return newTextWidget(false) }})
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolOpen, New: func() Widget { return newPickerWidget(reg) }})
	reg.Register(registry.Tool[Widget]{Kind: domain.ToolSplit, New: func() Widget { return newSplitterWidget(reg) }})
	return reg
}

// missingWidget stands in for tools the registry does not know.
type missingWidget struct{}

func (w missingWidget) Update(tea.Msg, mosaic.Pane) (Widget, tea.Cmd) { return w, nil }

func (w missingWidget) View(pane mosaic.Pane, width, height int) string {
	return mutedStyle.Render("no tool registered for " + string(pane.Tool()))
}
