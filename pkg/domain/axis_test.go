package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAxis(t *testing.T) {
	tests := map[string]Axis{
		"row":        RowAxis,
		"Row":        RowAxis,
		"vertical":   RowAxis,
		"column":     ColumnAxis,
		"col":        ColumnAxis,
		"horizontal": ColumnAxis,
	}
	for in, want := range tests {
		got, err := ParseAxis(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAxis("diagonal")
	assert.ErrorIs(t, err, ErrInvalidAxis)
}

func TestDirection(t *testing.T) {
	d, err := ParseDirection(" Left ")
	require.NoError(t, err)
	assert.Equal(t, DirLeft, d)

	_, err = ParseDirection("forward")
	assert.ErrorIs(t, err, ErrInvalidDirection)

	assert.True(t, DirRight.IsHorizontal())
	assert.False(t, DirUp.IsHorizontal())
	assert.Equal(t, RowAxis, DirLeft.Axis())
	assert.Equal(t, ColumnAxis, DirDown.Axis())
	assert.Equal(t, -1, DirUp.Step())
	assert.Equal(t, 1, DirRight.Step())
}

func TestActionCheck(t *testing.T) {
	require.NoError(t, SplitAction(Path{0}, ColumnAxis, ToolNotes).Check())
	require.NoError(t, CloseAction(Root()).Check())
	require.NoError(t, ClearFocusAction().Check())

	assert.ErrorIs(t, Action{Op: "resize"}.Check(), ErrUnknownOp)
	assert.ErrorIs(t, SplitAction(Root(), Axis(3), ToolNotes).Check(), ErrInvalidAxis)
	assert.ErrorIs(t, ReplaceToolAction(Root(), "").Check(), ErrUnknownTool)
	assert.ErrorIs(t, MoveFocusAction(Root(), "sideways").Check(), ErrInvalidDirection)
	assert.ErrorIs(t, CloseAction(Path{-1}).Check(), ErrInvalidPath)
}
