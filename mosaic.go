package mosaic

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
)

// Engine is the high-level entry point for the Mosaic library.
// It wraps the internal runtime and provides a simplified API for hosts.
type Engine struct {
	runtime     *runtime.Engine
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	defaultTool domain.ToolKind
	keying      runtime.CacheKeying
	newID       runtime.IDGenerator
	strict      bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDefaultTool sets the tool hosted by new workspaces (default: "open").
func WithDefaultTool(tool domain.ToolKind) Option {
	return func(e *Engine) {
		e.defaultTool = tool
	}
}

// WithPaneKeyedCache stores tool state under each pane's stable id instead of its
// path, so state follows a pane when splits and closes shift it around.
func WithPaneKeyedCache() Option {
	return func(e *Engine) {
		e.keying = runtime.KeyByPane
	}
}

// WithCacheKeying selects the cache keying by name ("path" or "pane").
func WithCacheKeying(k runtime.CacheKeying) Option {
	return func(e *Engine) {
		e.keying = k
	}
}

// WithPaneIDs replaces the pane id generator (default: random UUIDs).
func WithPaneIDs(gen func() domain.PaneID) Option {
	return func(e *Engine) {
		e.newID = gen
	}
}

// WithStrictInvariants panics whenever an edit leaves an invalid tree. Meant for tests.
func WithStrictInvariants() Option {
	return func(e *Engine) {
		e.strict = true
	}
}

// New initializes a new Mosaic Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{
		defaultTool: domain.DefaultTool,
		keying:      runtime.KeyByPath,
	}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithDefaultTool(eng.defaultTool),
		runtime.WithCacheKeying(eng.keying),
		runtime.WithIDGenerator(eng.newID),
		runtime.WithStrictInvariants(eng.strict),
	)
	return eng
}

// Start creates the initial snapshot of a workspace: a single default pane.
func (e *Engine) Start(workspaceID string) *domain.Snapshot {
	return e.runtime.Start(workspaceID)
}

// Apply runs one action against snap and returns the next snapshot.
// changed is false, and snap is returned as is, when the action had no effect.
func (e *Engine) Apply(ctx context.Context, snap *domain.Snapshot, action domain.Action) (*domain.Snapshot, bool, error) {
	return e.runtime.Apply(ctx, snap, action)
}

// CachedState reads the tool state of the pane at path.
func (e *Engine) CachedState(snap *domain.Snapshot, path domain.Path) (any, bool) {
	return e.runtime.CachedState(snap, path)
}

// DefaultTool returns the tool hosted by fresh panes.
func (e *Engine) DefaultTool() domain.ToolKind {
	return e.runtime.DefaultTool()
}

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger {
	return e.logger
}

// NewWorkspace starts a workspace owned by the caller.
func (e *Engine) NewWorkspace(workspaceID string) *Workspace {
	return e.Resume(e.Start(workspaceID))
}

// Resume wraps an existing snapshot, e.g. one loaded from a store.
func (e *Engine) Resume(snap *domain.Snapshot) *Workspace {
	return &Workspace{engine: e, snap: snap}
}
