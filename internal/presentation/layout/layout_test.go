package layout_test

import (
	"strings"
	"testing"

	"github.com/aretw0/mosaic/internal/presentation/layout"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/stretchr/testify/assert"
)

// sample is row(column(open p1, query p3), home p2).
func sample() domain.Node {
	return domain.NewSplit(domain.RowAxis,
		domain.NewSplit(domain.ColumnAxis,
			domain.NewLeaf("p1", domain.ToolOpen),
			domain.NewLeaf("p3", domain.ToolQuery),
		),
		domain.NewLeaf("p2", domain.ToolHome),
	)
}

func TestOutline(t *testing.T) {
	got := layout.Outline(sample(), domain.FocusOn(domain.Path{0, 0}))
	want := strings.Join([]string{
		"row",
		"├── column",
		"│   ├── open p1 *",
		"│   └── query p3",
		"└── home p2",
		"",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestOutline_SingleLeaf(t *testing.T) {
	got := layout.Outline(domain.NewLeaf("p1", domain.ToolOpen), domain.NoFocus())
	assert.Equal(t, "open p1\n", got)
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "row(column(open,query),home)", layout.Compact(sample()))
	assert.Equal(t, "notes", layout.Compact(domain.NewLeaf("x", domain.ToolNotes)))
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		overlay     *layout.Overlay
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes and Edges",
			contains: []string{
				"graph TD\n",
				`root{{"row"}}`,
				"root --> n0",
				"root --> n1",
				`n0{{"column"}}`,
				"n0 --> n0_0",
				`n0_0(["open <br/> p1"])`,
				`n0_1["query <br/> p3"]`,
				`n1["home <br/> p2"]`,
			},
			notContains: []string{"classDef"},
		},
		{
			name:    "Focus Overlay",
			overlay: &layout.Overlay{Focus: domain.FocusOn(domain.Path{1})},
			contains: []string{
				"classDef focused",
				"class n1 focused;",
			},
		},
		{
			name:        "Stale Focus Ignored",
			overlay:     &layout.Overlay{Focus: domain.FocusOn(domain.Path{4, 2})},
			notContains: []string{"classDef"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layout.GenerateMermaid(sample(), tt.overlay)
			for _, s := range tt.contains {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, got, s)
			}
		})
	}
}
