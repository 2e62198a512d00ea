package dsl_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/dsl"
)

func counter() func() domain.PaneID {
	n := 0
	return func() domain.PaneID {
		n++
		return domain.PaneID(fmt.Sprintf("p%d", n))
	}
}

func TestBuild(t *testing.T) {
	snap, err := dsl.Build("ide",
		dsl.Row(
			dsl.Column(
				dsl.Pane(domain.ToolQuery).Focused(),
				dsl.Pane(domain.ToolNotes).WithState("todo"),
			),
			dsl.Pane(domain.ToolStreamer),
		),
		dsl.WithPaneIDs(counter()),
	)
	require.NoError(t, err)

	want := domain.NewSplit(domain.RowAxis,
		domain.NewSplit(domain.ColumnAxis,
			domain.NewLeaf("p1", domain.ToolQuery),
			domain.NewLeaf("p2", domain.ToolNotes),
		),
		domain.NewLeaf("p3", domain.ToolStreamer),
	)
	assert.True(t, domain.Equal(want, snap.Root))
	assert.Equal(t, "ide", snap.WorkspaceID)
	assert.True(t, snap.Focus.Is(domain.Path{0, 0}))
	assert.Equal(t, domain.StateCache{"0:1": "todo"}, snap.Cache)
	assert.Zero(t, snap.Revision)
}

func TestBuild_ResumesInEngine(t *testing.T) {
	snap, err := dsl.Build("ws",
		dsl.Row(dsl.Pane(domain.ToolQuery).WithState("q"), dsl.Pane(domain.ToolHome).Focused()),
		dsl.WithPaneIDs(counter()),
		dsl.WithPaneKeyedCache(),
	)
	require.NoError(t, err)
	assert.Equal(t, domain.StateCache{domain.PaneKey("p1"): "q"}, snap.Cache)

	ws := mosaic.New(mosaic.WithPaneKeyedCache(), mosaic.WithStrictInvariants()).Resume(snap)
	pane, ok := ws.FocusedPane()
	require.True(t, ok)
	assert.Equal(t, domain.ToolHome, pane.Tool())

	// Pane keyed state follows the pane when the tree changes shape.
	ws.SplitNode(domain.Root(), domain.ColumnAxis, domain.ToolNotes)
	v, ok := ws.CachedState(domain.Path{0, 0})
	require.True(t, ok)
	assert.Equal(t, "q", v)
}

func TestBuild_SinglePane(t *testing.T) {
	snap, err := dsl.Build("one", dsl.Pane(domain.ToolHome), dsl.WithPaneIDs(counter()))
	require.NoError(t, err)
	assert.True(t, domain.Equal(domain.NewLeaf("p1", domain.ToolHome), snap.Root))
	_, focused := snap.Focus.Get()
	assert.False(t, focused)
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		layout *dsl.Layout
		target error
		text   string
	}{
		{"one child", dsl.Row(dsl.Pane(domain.ToolHome)), dsl.ErrEmptySplit, ""},
		{"empty column", dsl.Column(), dsl.ErrEmptySplit, ""},
		{"empty row", dsl.Row(), dsl.ErrEmptySplit, ""},
		{"two focused", dsl.Row(dsl.Pane(domain.ToolHome).Focused(), dsl.Pane(domain.ToolNotes).Focused()), dsl.ErrMultipleFocus, ""},
		{"unknown tool", dsl.Pane(""), domain.ErrUnknownTool, ""},
		{"focused split", dsl.Row(dsl.Pane(domain.ToolHome), dsl.Pane(domain.ToolNotes)).Focused(), nil, "only panes"},
		{"nil child", dsl.Row(dsl.Pane(domain.ToolHome), nil), nil, "nil layout at [1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dsl.Build("ws", tt.layout)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
			if tt.text != "" {
				assert.ErrorContains(t, err, tt.text)
			}
		})
	}
}
