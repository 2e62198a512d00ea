package mosaic

import "github.com/aretw0/mosaic/pkg/domain"

// Pane is the set of operations a hosted tool may invoke, bound to the pane's path
// in the snapshot it was derived from.
type Pane struct {
	ws   *Workspace
	path domain.Path
	leaf domain.Leaf
}

// Path returns the pane's path in the snapshot it was derived from.
func (p Pane) Path() domain.Path { return p.path.Clone() }

// ID returns the pane's stable id.
func (p Pane) ID() domain.PaneID { return p.leaf.ID }

// Tool returns the hosted tool kind.
func (p Pane) Tool() domain.ToolKind { return p.leaf.Tool }

// IsFocused reports whether the pane holds focus.
func (p Pane) IsFocused() bool { return p.ws.IsFocused(p.path) }

// CachedState reads the pane's tool state.
func (p Pane) CachedState() (any, bool) { return p.ws.CachedState(p.path) }

// ReplaceTool swaps the pane's tool.
func (p Pane) ReplaceTool(tool domain.ToolKind) bool {
	return p.ws.ReplaceTool(p.path, tool)
}

// Split adds a pane hosting tool next to this one and returns the new pane's path.
func (p Pane) Split(axis domain.Axis, tool domain.ToolKind) (domain.Path, bool) {
	return p.ws.SplitNode(p.path, axis, tool)
}

// Close removes the pane.
func (p Pane) Close() bool {
	return p.ws.CloseNode(p.path)
}

// CacheState stores the pane's tool state.
func (p Pane) CacheState(value any) bool {
	return p.ws.CacheState(p.path, value)
}

// RequestFocus focuses the pane.
func (p Pane) RequestFocus() bool {
	return p.ws.RequestFocus(p.path)
}

// MoveFocus moves focus from this pane in dir.
func (p Pane) MoveFocus(dir domain.Direction) bool {
	return p.ws.MoveFocus(p.path, dir)
}
