package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Key(t *testing.T) {
	assert.Equal(t, "", Root().Key())
	assert.Equal(t, "0", Path{0}.Key())
	assert.Equal(t, "0:1:2", Path{0, 1, 2}.Key())
	assert.Equal(t, "[0:1]", Path{0, 1}.String())
}

func TestPath_Navigation(t *testing.T) {
	p := Path{2, 0, 1}

	assert.Equal(t, Path{2, 0}, p.Parent())
	assert.Equal(t, 1, p.Last())
	assert.Equal(t, -1, Root().Last())
	assert.True(t, Root().Parent().IsRoot())

	child := p.Parent().Child(5)
	assert.Equal(t, Path{2, 0, 5}, child)
	assert.Equal(t, Path{2, 0, 1}, p, "deriving paths must not touch the original")

	assert.True(t, p.HasPrefix(Path{2}))
	assert.True(t, p.HasPrefix(Root()))
	assert.False(t, p.HasPrefix(Path{2, 1}))
	assert.False(t, Path{2}.HasPrefix(p))
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{in: "", want: Path{}},
		{in: "[]", want: Path{}},
		{in: "0", want: Path{0}},
		{in: "0:1:12", want: Path{0, 1, 12}},
		{in: "[3:4]", want: Path{3, 4}},
		{in: "0:-1", wantErr: true},
		{in: "a:b", wantErr: true},
		{in: "1::2", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Key(), got.Key())
		})
	}
}

func TestPath_JSON(t *testing.T) {
	data, err := json.Marshal(Root())
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	var p Path
	require.NoError(t, json.Unmarshal([]byte(`"0:2"`), &p))
	assert.Equal(t, Path{0, 2}, p)

	require.NoError(t, json.Unmarshal([]byte(`[1,0]`), &p))
	assert.Equal(t, Path{1, 0}, p)

	assert.ErrorIs(t, json.Unmarshal([]byte(`[1,-3]`), &p), ErrInvalidPath)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{}`), &p), ErrInvalidPath)
}

func TestFocus(t *testing.T) {
	none := NoFocus()
	_, ok := none.Get()
	assert.False(t, ok)
	assert.False(t, none.Is(Root()))
	assert.Equal(t, "none", none.String())

	p := Path{0, 1}
	f := FocusOn(p)
	p[0] = 9
	got, ok := f.Get()
	require.True(t, ok)
	assert.Equal(t, Path{0, 1}, got, "focus keeps its own copy of the path")
	assert.True(t, f.Is(Path{0, 1}))
	assert.True(t, FocusOn(Root()).Is(Root()))
	assert.False(t, f.Equal(none))

	data, err := json.Marshal(none)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	var decoded Focus
	require.NoError(t, json.Unmarshal([]byte(`[0,1]`), &decoded))
	assert.True(t, decoded.Equal(f))
	require.NoError(t, json.Unmarshal([]byte(`null`), &decoded))
	assert.True(t, decoded.Equal(none))
}
