package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Tool describes one kind of pane content. W is whatever the host renders: a
// bubbletea model, an HTTP handler, a description string.
type Tool[W any] struct {
	Kind  domain.ToolKind
	Title string
	// New builds a fresh widget for a pane.
	New func() W
}

// Registry manages the tools a host knows how to show. The layout engine never looks
// at it; hosts use it to render panes and to fill tool pickers.
type Registry[W any] struct {
	mu    sync.RWMutex
	tools map[domain.ToolKind]Tool[W]
	order []domain.ToolKind
}

// NewRegistry creates a new empty registry.
func NewRegistry[W any]() *Registry[W] {
	return &Registry[W]{
		tools: make(map[domain.ToolKind]Tool[W]),
	}
}

// Register adds a tool to the registry.
// If a tool with the same kind exists, it is overwritten and keeps its position.
func (r *Registry[W]) Register(tool Tool[W]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Kind]; !exists {
		r.order = append(r.order, tool.Kind)
	}
	if tool.Title == "" {
		tool.Title = DefaultTitle(tool.Kind)
	}
	r.tools[tool.Kind] = tool
}

// Lookup returns the tool registered for kind.
func (r *Registry[W]) Lookup(kind domain.ToolKind) (Tool[W], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[kind]
	return t, ok
}

// Build creates a widget for kind.
// Returns an error wrapping domain.ErrUnknownTool if the kind is not registered.
func (r *Registry[W]) Build(kind domain.ToolKind) (W, error) {
	t, ok := r.Lookup(kind)
	if !ok || t.New == nil {
		var zero W
		return zero, fmt.Errorf("%w: %s", domain.ErrUnknownTool, kind)
	}
	return t.New(), nil
}

// Tools lists registered tools in registration order.
func (r *Registry[W]) Tools() []Tool[W] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Tool[W], 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.tools[k])
	}
	return out
}

// Kinds lists registered kinds in alphabetical order.
func (r *Registry[W]) Kinds() []domain.ToolKind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.ToolKind, 0, len(r.tools))
	for k := range r.tools {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

var titles = map[domain.ToolKind]string{
	domain.ToolOpen:     "Open Tool",
	domain.ToolSplit:    "Split Tool",
	domain.ToolQuery:    "Query Tool",
	domain.ToolHome:     "Home Page",
	domain.ToolStreamer: "Session Events",
	domain.ToolNotes:    "Notes",
}

// DefaultTitle is the display name of a built-in tool, or the kind itself.
func DefaultTitle(kind domain.ToolKind) string {
	if t, ok := titles[kind]; ok {
		return t
	}
	return string(kind)
}
