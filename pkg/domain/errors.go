package domain

import "errors"

// ErrWorkspaceNotFound is returned when a workspace ID cannot be found in the store.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// ErrUnknownOp is returned when an action names an operation the engine does not implement.
var ErrUnknownOp = errors.New("unknown action")

// ErrInvalidWorkspaceID is returned by stores for IDs they cannot hold.
var ErrInvalidWorkspaceID = errors.New("invalid workspace id")

// ErrInvalidPath is returned when a path cannot be parsed. Paths that parse but do
// not resolve against a tree are not errors; the edit is simply a no-op.
var ErrInvalidPath = errors.New("invalid path")

// ErrInvalidAxis is returned for an unknown split axis label.
var ErrInvalidAxis = errors.New("invalid axis")

// ErrInvalidDirection is returned for an unknown focus direction label.
var ErrInvalidDirection = errors.New("invalid direction")

// ErrUnknownTool is returned when a tool kind is empty or not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ErrInvariant reports a tree that violates the layout invariants. It indicates a bug.
var ErrInvariant = errors.New("layout invariant violated")
