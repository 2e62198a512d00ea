package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/mosaic/pkg/domain"
)

// CacheKeying selects how cache entries are addressed.
type CacheKeying string

const (
	// KeyByPath stores state under the pane's path key. Entries do not follow a pane
	// when a structural edit shifts its path.
	KeyByPath CacheKeying = "path"
	// KeyByPane stores state under the pane's stable id.
	KeyByPane CacheKeying = "pane"
)

// ParseCacheKeying validates a cache keying label.
func ParseCacheKeying(s string) (CacheKeying, error) {
	switch k := CacheKeying(s); k {
	case KeyByPath, KeyByPane:
		return k, nil
	case "":
		return KeyByPath, nil
	}
	return "", fmt.Errorf("unknown cache keying %q", s)
}

// IDGenerator returns a fresh pane id.
type IDGenerator func() domain.PaneID

// NewUUID is the default IDGenerator.
func NewUUID() domain.PaneID {
	return domain.PaneID(uuid.NewString())
}

// Engine applies actions to workspace snapshots. It holds no workspace state and is
// safe for concurrent use; serializing edits of one workspace is the caller's job.
type Engine struct {
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	defaultTool domain.ToolKind
	newID       IDGenerator
	keying      CacheKeying
	strict      bool
	now         func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithDefaultTool sets the tool of fresh workspaces and of the pane left after the
// last close.
func WithDefaultTool(tool domain.ToolKind) EngineOption {
	return func(e *Engine) {
		if tool != "" {
			e.defaultTool = tool
		}
	}
}

// WithIDGenerator replaces the pane id source.
func WithIDGenerator(gen IDGenerator) EngineOption {
	return func(e *Engine) {
		if gen != nil {
			e.newID = gen
		}
	}
}

// WithCacheKeying selects path or pane keyed cache entries.
func WithCacheKeying(k CacheKeying) EngineOption {
	return func(e *Engine) {
		e.keying = k
	}
}

// WithStrictInvariants makes the engine panic when an edit produces an invalid tree.
func WithStrictInvariants(strict bool) EngineOption {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultTool: domain.DefaultTool,
		newID:       NewUUID,
		keying:      KeyByPath,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DefaultTool returns the tool of fresh panes.
func (e *Engine) DefaultTool() domain.ToolKind { return e.defaultTool }

// CacheKeying returns the configured keying mode.
func (e *Engine) CacheKeying() CacheKeying { return e.keying }

// NewLeaf creates a pane with a fresh id.
func (e *Engine) NewLeaf(tool domain.ToolKind) domain.Leaf {
	if tool == "" {
		tool = e.defaultTool
	}
	return domain.NewLeaf(e.newID(), tool)
}

// Start creates a workspace holding a single default pane.
func (e *Engine) Start(workspaceID string) *domain.Snapshot {
	snap := domain.NewSnapshot(workspaceID, e.NewLeaf(e.defaultTool))
	e.logger.Debug("workspace started", "workspace", workspaceID)
	return snap
}

// CacheKey returns the cache key of the node at path under the configured keying.
// Path keying never fails; pane keying needs path to resolve to a leaf.
func (e *Engine) CacheKey(root domain.Node, path domain.Path) (string, bool) {
	if e.keying != KeyByPane {
		return path.Key(), true
	}
	n, ok := FindNode(root, path)
	if !ok {
		return "", false
	}
	leaf, ok := n.(domain.Leaf)
	if !ok {
		return "", false
	}
	return domain.PaneKey(leaf.ID), true
}

// CachedState looks up the state of the pane at path. The value is returned as
// stored; it may belong to a tool that used to live there.
func (e *Engine) CachedState(snap *domain.Snapshot, path domain.Path) (any, bool) {
	key, ok := e.CacheKey(snap.Root, path)
	if !ok {
		return nil, false
	}
	return snap.Cache.Lookup(key)
}

// Apply runs action against snap and returns the next snapshot. snap is never
// modified. changed is false when the action had no effect, in which case the
// returned snapshot is snap itself.
//
// Actions addressed at paths that do not resolve are no-ops, not errors. An error is
// returned only for malformed actions.
func (e *Engine) Apply(ctx context.Context, snap *domain.Snapshot, action domain.Action) (*domain.Snapshot, bool, error) {
	if err := action.Check(); err != nil {
		return snap, false, err
	}

	next := *snap
	cacheWritten := false
	switch action.Op {
	case domain.OpReplaceTool:
		next.Root = ReplaceTool(snap.Root, action.Path, action.Tool)
	case domain.OpSplit:
		next.Root = SplitNode(snap.Root, action.Path, action.Axis, e.NewLeaf(action.Tool))
	case domain.OpClose:
		next.Root = CloseNode(snap.Root, action.Path, e.NewLeaf(e.defaultTool))
	case domain.OpCacheState:
		key, ok := e.CacheKey(snap.Root, action.Path)
		if ok {
			prev, exists := snap.Cache.Lookup(key)
			if !exists || !reflect.DeepEqual(prev, action.Value) {
				next.Cache = CacheStateKey(snap.Cache, key, action.Value)
				cacheWritten = true
			}
		}
	case domain.OpRequestFocus:
		next.Focus = RequestFocus(action.Path)
	case domain.OpMoveFocus:
		if target, ok := MoveFocus(snap.Root, action.Path, action.Direction); ok {
			next.Focus = RequestFocus(target)
		}
	case domain.OpClearFocus:
		next.Focus = domain.NoFocus()
	}

	changed := cacheWritten ||
		!domain.Equal(snap.Root, next.Root) ||
		!snap.Focus.Equal(next.Focus)

	if !changed {
		e.logger.Debug("action had no effect",
			"workspace", snap.WorkspaceID, "action", action.String())
		e.emitAction(ctx, snap, action, false)
		return snap, false, nil
	}

	if e.strict {
		if err := domain.Validate(next.Root); err != nil {
			panic(fmt.Sprintf("%s produced an invalid tree: %v", action, err))
		}
	}

	next.Revision = snap.Revision + 1
	e.emitAction(ctx, &next, action, true)
	if !snap.Focus.Equal(next.Focus) && e.hooks.OnFocusChange != nil {
		e.hooks.OnFocusChange(ctx, &domain.FocusEvent{
			Timestamp:   e.now(),
			WorkspaceID: snap.WorkspaceID,
			From:        snap.Focus,
			To:          next.Focus,
			Direction:   action.Direction,
		})
	}
	return &next, true, nil
}

func (e *Engine) emitAction(ctx context.Context, snap *domain.Snapshot, action domain.Action, changed bool) {
	if e.hooks.OnAction == nil {
		return
	}
	e.hooks.OnAction(ctx, &domain.ActionEvent{
		Timestamp:   e.now(),
		WorkspaceID: snap.WorkspaceID,
		Action:      action,
		Changed:     changed,
		Revision:    snap.Revision,
		Panes:       len(domain.Leaves(snap.Root)),
	})
}
