package mosaic

import (
	"context"

	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
)

// Workspace is the single owner of one layout: its tree, state cache and focus.
//
// A Workspace is not safe for concurrent use. Hosts with several writers serialize
// through pkg/session instead.
type Workspace struct {
	engine *Engine
	snap   *domain.Snapshot
}

// Snapshot returns the current state. Snapshots are immutable; hold on to one to
// compare with later states.
func (w *Workspace) Snapshot() *domain.Snapshot {
	return w.snap
}

// ID returns the workspace id.
func (w *Workspace) ID() string {
	return w.snap.WorkspaceID
}

// Root returns the current layout tree.
func (w *Workspace) Root() domain.Node {
	return w.snap.Root
}

// Apply runs action and reports whether anything changed.
func (w *Workspace) Apply(ctx context.Context, action domain.Action) (bool, error) {
	next, changed, err := w.engine.Apply(ctx, w.snap, action)
	if err != nil {
		return false, err
	}
	w.snap = next
	return changed, nil
}

// Do is Apply for hosts that treat a rejected action as a no-op. The error is
// logged at warn level.
func (w *Workspace) Do(action domain.Action) bool {
	return w.apply(action)
}

func (w *Workspace) apply(action domain.Action) bool {
	changed, err := w.Apply(context.Background(), action)
	if err != nil {
		w.engine.logger.Warn("rejected action", "workspace", w.ID(), "action", action.String(), "error", err)
	}
	return changed
}

// ReplaceTool swaps the tool of the pane at path.
func (w *Workspace) ReplaceTool(path domain.Path, tool domain.ToolKind) bool {
	return w.apply(domain.ReplaceToolAction(path, tool))
}

// SplitNode adds a pane hosting tool next to the node at path and returns the path
// of the new pane.
func (w *Workspace) SplitNode(path domain.Path, axis domain.Axis, tool domain.ToolKind) (domain.Path, bool) {
	inserted, ok := runtime.InsertedPath(w.snap.Root, path, axis)
	if !ok {
		return nil, false
	}
	if !w.apply(domain.SplitAction(path, axis, tool)) {
		return nil, false
	}
	return inserted, true
}

// CloseNode removes the node at path.
func (w *Workspace) CloseNode(path domain.Path) bool {
	return w.apply(domain.CloseAction(path))
}

// CacheState stores the tool state of the pane at path.
func (w *Workspace) CacheState(path domain.Path, value any) bool {
	return w.apply(domain.CacheStateAction(path, value))
}

// CachedState reads the tool state of the pane at path.
func (w *Workspace) CachedState(path domain.Path) (any, bool) {
	return w.engine.CachedState(w.snap, path)
}

// RequestFocus focuses path.
func (w *Workspace) RequestFocus(path domain.Path) bool {
	return w.apply(domain.RequestFocusAction(path))
}

// MoveFocus moves focus from path in dir. Moves that leave the layout are ignored.
func (w *Workspace) MoveFocus(path domain.Path, dir domain.Direction) bool {
	return w.apply(domain.MoveFocusAction(path, dir))
}

// ClearFocus leaves no pane focused.
func (w *Workspace) ClearFocus() bool {
	return w.apply(domain.ClearFocusAction())
}

// IsFocused reports whether path holds focus.
func (w *Workspace) IsFocused(path domain.Path) bool {
	return w.snap.Focus.Is(path)
}

// Panes lists a capability bundle for every pane, in layout order. Panes address
// the current snapshot; derive them again after every change.
func (w *Workspace) Panes() []Pane {
	refs := domain.Leaves(w.snap.Root)
	panes := make([]Pane, len(refs))
	for i, ref := range refs {
		panes[i] = Pane{ws: w, path: ref.Path, leaf: ref.Leaf}
	}
	return panes
}

// FocusedPane returns the focused pane, if focus rests on a pane of the current tree.
func (w *Workspace) FocusedPane() (Pane, bool) {
	p, ok := w.snap.Focus.Get()
	if !ok {
		return Pane{}, false
	}
	n, ok := runtime.FindNode(w.snap.Root, p)
	if !ok {
		return Pane{}, false
	}
	leaf, ok := n.(domain.Leaf)
	if !ok {
		return Pane{}, false
	}
	return Pane{ws: w, path: p, leaf: leaf}, true
}

// Pane looks up the pane at path.
func (w *Workspace) Pane(path domain.Path) (Pane, bool) {
	n, ok := runtime.FindNode(w.snap.Root, path)
	if !ok {
		return Pane{}, false
	}
	leaf, ok := n.(domain.Leaf)
	if !ok {
		return Pane{}, false
	}
	return Pane{ws: w, path: path.Clone(), leaf: leaf}, true
}
