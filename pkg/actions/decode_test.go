package actions_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic/pkg/actions"
	"github.com/aretw0/mosaic/pkg/domain"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  domain.Action
	}{
		{
			name:  "split with key path",
			input: map[string]any{"op": "split", "path": "0:1", "axis": "column", "tool": "Notes"},
			want:  domain.SplitAction(domain.Path{0, 1}, domain.ColumnAxis, domain.ToolNotes),
		},
		{
			name:  "split with legacy axis label",
			input: map[string]any{"op": "split", "path": []any{float64(2)}, "axis": "vertical", "tool": "query"},
			want:  domain.SplitAction(domain.Path{2}, domain.RowAxis, domain.ToolQuery),
		},
		{
			name:  "close with missing path targets the root",
			input: map[string]any{"op": "close"},
			want:  domain.CloseAction(domain.Root()),
		},
		{
			name:  "move focus",
			input: map[string]any{"op": "move_focus", "path": []any{1, 0}, "direction": "Up"},
			want:  domain.MoveFocusAction(domain.Path{1, 0}, domain.DirUp),
		},
		{
			name:  "cache state keeps the value as is",
			input: map[string]any{"op": "cache_state", "path": "1", "value": map[string]any{"q": "select 1"}},
			want:  domain.CacheStateAction(domain.Path{1}, map[string]any{"q": "select 1"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := actions.Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  error
	}{
		{"unknown op", map[string]any{"op": "resize"}, domain.ErrUnknownOp},
		{"bad axis", map[string]any{"op": "split", "axis": "diagonal", "tool": "query"}, domain.ErrInvalidAxis},
		{"split without axis", map[string]any{"op": "split", "tool": "query"}, domain.ErrInvalidAxis},
		{"bad direction", map[string]any{"op": "move_focus", "direction": "back"}, domain.ErrInvalidDirection},
		{"negative index", map[string]any{"op": "close", "path": []any{float64(-1)}}, domain.ErrInvalidPath},
		{"fractional index", map[string]any{"op": "close", "path": []any{1.5}}, domain.ErrInvalidPath},
		{"split without tool", map[string]any{"op": "split", "axis": "row"}, domain.ErrUnknownTool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := actions.Decode(tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := actions.Decode(map[string]any{"op": "close", "colour": "red"})
	assert.Error(t, err, "unknown keys are rejected")
}

func TestDecodeJSON(t *testing.T) {
	got, err := actions.DecodeJSON([]byte(`{"op":"replace_tool","path":[0],"tool":"streamer"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.ReplaceToolAction(domain.Path{0}, domain.ToolStreamer), got)

	_, err = actions.DecodeJSON([]byte(`{`))
	assert.Error(t, err)
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, a := range []domain.Action{
		domain.SplitAction(domain.Path{1, 2}, domain.ColumnAxis, domain.ToolHome),
		domain.ReplaceToolAction(domain.Root(), domain.ToolNotes),
		domain.MoveFocusAction(domain.Path{0}, domain.DirLeft),
		domain.CloseAction(domain.Path{3}),
		domain.ClearFocusAction(),
	} {
		got, err := actions.Decode(actions.Encode(a))
		require.NoError(t, err, a.String())
		assert.Equal(t, a.String(), got.String())
	}
}

func TestParseScript(t *testing.T) {
	script, err := actions.ParseScript(strings.NewReader(`
name: dashboard
default_tool: home
actions:
  - {op: split, axis: row, tool: query}
  - {op: split, path: "1", axis: column, tool: streamer}
  - {op: cache_state, path: [1, 0], value: {query: "select 1"}}
  - {op: request_focus, path: "1:1"}
`))
	require.NoError(t, err)
	assert.Equal(t, "dashboard", script.Name)
	assert.Equal(t, domain.ToolHome, script.DefaultTool)
	require.Len(t, script.Actions, 4)
	assert.Equal(t, domain.SplitAction(domain.Root(), domain.RowAxis, domain.ToolQuery), script.Actions[0])
	assert.Equal(t, domain.Path{1, 0}, script.Actions[2].Path)
	assert.Equal(t, map[string]any{"query": "select 1"}, script.Actions[2].Value)

	_, err = actions.ParseScript(strings.NewReader("actions:\n  - {op: split, axis: sideways, tool: query}\n"))
	require.ErrorIs(t, err, domain.ErrInvalidAxis)
	assert.Contains(t, err.Error(), "action 1")
}
