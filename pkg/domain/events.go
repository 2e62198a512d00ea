package domain

import (
	"context"
	"time"
)

// ActionEvent is emitted after the engine applied an action, effective or not.
type ActionEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	WorkspaceID string    `json:"workspace_id"`
	Action      Action    `json:"action"`
	// Changed is false when the action was a no-op (stale path, split target, same focus).
	Changed  bool   `json:"changed"`
	Revision uint64 `json:"revision"`
	Panes    int    `json:"panes"`
}

// FocusEvent is emitted when the focused path changes.
type FocusEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	WorkspaceID string    `json:"workspace_id"`
	From        Focus     `json:"from"`
	To          Focus     `json:"to"`
	// Direction is set for keyboard moves, empty for explicit requests.
	Direction Direction `json:"direction,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnAction      func(context.Context, *ActionEvent)
	OnFocusChange func(context.Context, *FocusEvent)
}
