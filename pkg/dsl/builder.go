package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/mosaic/internal/runtime"
	"github.com/aretw0/mosaic/pkg/domain"
)

var (
	// ErrEmptySplit is returned for a Row or Column with fewer than two children.
	ErrEmptySplit = errors.New("a split needs at least two children")
	// ErrMultipleFocus is returned when more than one pane is marked Focused.
	ErrMultipleFocus = errors.New("only one pane can be focused")
)

// Layout is a subtree under construction: either a pane or a split.
type Layout struct {
	split    bool
	axis     domain.Axis
	tool     domain.ToolKind
	children []*Layout
	focused  bool
	state    any
	hasState bool
}

// Pane declares a pane hosting tool.
func Pane(tool domain.ToolKind) *Layout {
	return &Layout{tool: tool}
}

// Row declares a split laying children out side by side.
func Row(children ...*Layout) *Layout {
	return &Layout{split: true, axis: domain.RowAxis, children: children}
}

// Column declares a split stacking children top to bottom.
func Column(children ...*Layout) *Layout {
	return &Layout{split: true, axis: domain.ColumnAxis, children: children}
}

// Focused marks the pane as holding focus.
func (l *Layout) Focused() *Layout {
	l.focused = true
	return l
}

// WithState seeds the pane's cached tool state.
func (l *Layout) WithState(v any) *Layout {
	l.state, l.hasState = v, true
	return l
}

type builder struct {
	newID   func() domain.PaneID
	byPane  bool
	focus   domain.Focus
	cache   domain.StateCache
	focused int
}

// Option configures Build.
type Option func(*builder)

// WithPaneIDs replaces the pane id generator (default: random UUIDs).
func WithPaneIDs(gen func() domain.PaneID) Option {
	return func(b *builder) {
		b.newID = gen
	}
}

// WithPaneKeyedCache keys seeded state by pane id, for engines built with
// mosaic.WithPaneKeyedCache.
func WithPaneKeyedCache() Option {
	return func(b *builder) {
		b.byPane = true
	}
}

// Build turns the layout into the first snapshot of a workspace.
func Build(workspaceID string, root *Layout, opts ...Option) (*domain.Snapshot, error) {
	b := &builder{
		newID: runtime.NewUUID,
		focus: domain.NoFocus(),
		cache: domain.StateCache{},
	}
	for _, opt := range opts {
		opt(b)
	}

	node, err := b.node(root, domain.Root())
	if err != nil {
		return nil, err
	}
	if err := domain.Validate(node); err != nil {
		return nil, err
	}
	return &domain.Snapshot{
		WorkspaceID: workspaceID,
		Root:        node,
		Cache:       b.cache,
		Focus:       b.focus,
	}, nil
}

func (b *builder) node(l *Layout, p domain.Path) (domain.Node, error) {
	if l == nil {
		return nil, fmt.Errorf("nil layout at %s", p)
	}
	if !l.split {
		return b.pane(l, p)
	}
	if l.focused || l.hasState {
		return nil, fmt.Errorf("split %s: only panes take focus or state", p)
	}
	if len(l.children) < 2 {
		return nil, fmt.Errorf("split %s: %w", p, ErrEmptySplit)
	}
	children := make([]domain.Node, len(l.children))
	for i, c := range l.children {
		n, err := b.node(c, p.Child(i))
		if err != nil {
			return nil, err
		}
		children[i] = n
	}
	return domain.NewSplit(l.axis, children...), nil
}

func (b *builder) pane(l *Layout, p domain.Path) (domain.Node, error) {
	if _, err := domain.ParseToolKind(string(l.tool)); err != nil {
		return nil, fmt.Errorf("pane %s: %w", p, err)
	}
	leaf := domain.NewLeaf(b.newID(), l.tool)
	if l.focused {
		b.focused++
		if b.focused > 1 {
			return nil, ErrMultipleFocus
		}
		b.focus = domain.FocusOn(p)
	}
	if l.hasState {
		key := p.Key()
		if b.byPane {
			key = domain.PaneKey(leaf.ID)
		}
		b.cache[key] = l.state
	}
	return leaf, nil
}
