package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic/pkg/domain"
)

func newTestEngine(opts ...EngineOption) *Engine {
	base := []EngineOption{
		WithIDGenerator(sequentialIDs()),
		WithStrictInvariants(true),
	}
	return NewEngine(append(base, opts...)...)
}

func mustApply(t *testing.T, e *Engine, snap *domain.Snapshot, a domain.Action) *domain.Snapshot {
	t.Helper()
	next, _, err := e.Apply(context.Background(), snap, a)
	require.NoError(t, err)
	return next
}

func TestEngine_Start(t *testing.T) {
	e := newTestEngine(WithDefaultTool(domain.ToolHome))
	snap := e.Start("ws")

	assert.Equal(t, "ws", snap.WorkspaceID)
	assert.True(t, domain.Equal(leaf("p1", domain.ToolHome), snap.Root))
	assert.Empty(t, snap.Cache)
	_, focused := snap.Focus.Get()
	assert.False(t, focused)
	assert.Zero(t, snap.Revision)
}

func TestEngine_ApplyScenario(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	s0 := e.Start("ws")

	s1, changed, err := e.Apply(ctx, s0, domain.SplitAction(domain.Root(), domain.RowAxis, "B"))
	require.NoError(t, err)
	require.True(t, changed)
	assert.True(t, domain.Equal(row(leaf("p1", domain.DefaultTool), leaf("p2", "B")), s1.Root))
	assert.Equal(t, uint64(1), s1.Revision)

	s2 := mustApply(t, e, s1, domain.SplitAction(domain.Path{0}, domain.ColumnAxis, "C"))
	assert.Equal(t, "row(col(p1,p3),p2)", outline(s2.Root))

	s3 := mustApply(t, e, s2, domain.CloseAction(domain.Path{0, 1}))
	assert.True(t, domain.Equal(s1.Root, s3.Root))
	assert.Equal(t, uint64(3), s3.Revision)

	// Every earlier snapshot is intact.
	assert.Equal(t, "p1", outline(s0.Root))
	assert.Equal(t, "row(col(p1,p3),p2)", outline(s2.Root))
}

func TestEngine_NoopKeepsRevision(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()
	snap := mustApply(t, e, e.Start("ws"), domain.SplitAction(domain.Root(), domain.RowAxis, "B"))

	noops := []domain.Action{
		domain.ReplaceToolAction(domain.Path{7}, "X"),
		domain.ReplaceToolAction(domain.Root(), "X"),
		domain.ReplaceToolAction(domain.Path{1}, "B"),
		domain.SplitAction(domain.Path{0, 0}, domain.RowAxis, "X"),
		domain.CloseAction(domain.Path{4}),
		domain.MoveFocusAction(domain.Path{1}, domain.DirRight),
		domain.ClearFocusAction(),
	}
	for _, a := range noops {
		next, changed, err := e.Apply(ctx, snap, a)
		require.NoError(t, err, a.String())
		assert.False(t, changed, a.String())
		assert.Same(t, snap, next, a.String())
	}
}

func TestEngine_RejectsMalformedActions(t *testing.T) {
	e := newTestEngine()
	snap := e.Start("ws")

	_, _, err := e.Apply(context.Background(), snap, domain.Action{Op: "resize"})
	assert.ErrorIs(t, err, domain.ErrUnknownOp)

	_, _, err = e.Apply(context.Background(), snap, domain.MoveFocusAction(domain.Root(), "around"))
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

func TestEngine_Focus(t *testing.T) {
	e := newTestEngine()
	snap := e.Start("ws")
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Root(), domain.RowAxis, "B"))
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Path{1}, domain.RowAxis, "C"))

	snap = mustApply(t, e, snap, domain.RequestFocusAction(domain.Path{0}))
	assert.True(t, snap.Focus.Is(domain.Path{0}))

	snap = mustApply(t, e, snap, domain.MoveFocusAction(domain.Path{0}, domain.DirRight))
	assert.True(t, snap.Focus.Is(domain.Path{1}))

	// Escaping the row is a no-op and focus stays put.
	snap = mustApply(t, e, snap, domain.MoveFocusAction(domain.Path{2}, domain.DirRight))
	assert.True(t, snap.Focus.Is(domain.Path{1}))

	// Structural edits never clear focus.
	snap = mustApply(t, e, snap, domain.CloseAction(domain.Path{2}))
	assert.True(t, snap.Focus.Is(domain.Path{1}))

	snap = mustApply(t, e, snap, domain.ClearFocusAction())
	_, focused := snap.Focus.Get()
	assert.False(t, focused)
}

func TestEngine_CacheByPath(t *testing.T) {
	e := newTestEngine()
	snap := e.Start("ws")
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Root(), domain.RowAxis, "B"))
	snap = mustApply(t, e, snap, domain.CacheStateAction(domain.Path{1}, "state of B"))

	v, ok := e.CachedState(snap, domain.Path{1})
	require.True(t, ok)
	assert.Equal(t, "state of B", v)

	// Writing the same value again changes nothing.
	_, changed, err := e.Apply(context.Background(), snap, domain.CacheStateAction(domain.Path{1}, "state of B"))
	require.NoError(t, err)
	assert.False(t, changed)

	// Closing the first pane shifts B to the root; its entry stays at "1".
	snap = mustApply(t, e, snap, domain.CloseAction(domain.Path{0}))
	_, ok = e.CachedState(snap, domain.Root())
	assert.False(t, ok)
	assert.Equal(t, "state of B", snap.Cache["1"])

	// Replacing a tool does not clear its entry.
	snap = mustApply(t, e, snap, domain.CacheStateAction(domain.Root(), 7))
	snap = mustApply(t, e, snap, domain.ReplaceToolAction(domain.Root(), "X"))
	v, ok = e.CachedState(snap, domain.Root())
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestEngine_CacheByPane(t *testing.T) {
	e := newTestEngine(WithCacheKeying(KeyByPane))
	snap := e.Start("ws")
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Root(), domain.RowAxis, "B"))
	snap = mustApply(t, e, snap, domain.CacheStateAction(domain.Path{1}, "state of B"))
	assert.Equal(t, "state of B", snap.Cache[domain.PaneKey("p2")])

	snap = mustApply(t, e, snap, domain.CloseAction(domain.Path{0}))
	v, ok := e.CachedState(snap, domain.Root())
	require.True(t, ok, "entry follows the pane when its path shifts")
	assert.Equal(t, "state of B", v)

	// Splits have no pane identity.
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Root(), domain.ColumnAxis, "C"))
	_, changed, err := e.Apply(context.Background(), snap, domain.CacheStateAction(domain.Root(), 1))
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var actions []*domain.ActionEvent
	var moves []*domain.FocusEvent
	hooks := domain.LifecycleHooks{
		OnAction: func(_ context.Context, ev *domain.ActionEvent) {
			actions = append(actions, ev)
		},
		OnFocusChange: func(_ context.Context, ev *domain.FocusEvent) {
			moves = append(moves, ev)
		},
	}
	e := newTestEngine(WithLifecycleHooks(hooks))
	snap := e.Start("ws")
	snap = mustApply(t, e, snap, domain.SplitAction(domain.Root(), domain.RowAxis, "B"))
	snap = mustApply(t, e, snap, domain.RequestFocusAction(domain.Path{0}))
	snap = mustApply(t, e, snap, domain.MoveFocusAction(domain.Path{0}, domain.DirRight))
	_ = mustApply(t, e, snap, domain.MoveFocusAction(domain.Path{1}, domain.DirRight))

	require.Len(t, actions, 4)
	assert.Equal(t, domain.OpSplit, actions[0].Action.Op)
	assert.True(t, actions[0].Changed)
	assert.Equal(t, 2, actions[0].Panes)
	assert.Equal(t, uint64(1), actions[0].Revision)
	assert.False(t, actions[3].Changed)

	require.Len(t, moves, 2)
	assert.True(t, moves[1].From.Is(domain.Path{0}))
	assert.True(t, moves[1].To.Is(domain.Path{1}))
	assert.Equal(t, domain.DirRight, moves[1].Direction)
}

func TestEngine_StrictInvariantsPanicsOnCorruptTree(t *testing.T) {
	e := newTestEngine()
	corrupt := &domain.Snapshot{
		WorkspaceID: "ws",
		Root: domain.Split{Axis: domain.RowAxis, Children: []domain.Node{
			leaf("a", "A"),
			domain.Split{Axis: domain.ColumnAxis, Children: []domain.Node{leaf("b", "B")}},
		}},
	}
	assert.Panics(t, func() {
		_, _, _ = e.Apply(context.Background(), corrupt, domain.ReplaceToolAction(domain.Path{0}, "X"))
	})
}
