package layout

import (
	"fmt"
	"strings"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Overlay contains dynamic state data to visualize on the layout graph.
type Overlay struct {
	Focus domain.Focus
}

// GenerateMermaid produces a Mermaid flowchart of a layout tree.
// It applies semantic styling:
// - Split: {{Hexagon}} labelled with its axis
// - Picker tools (open, split): ([Stadium])
// - Other tools: [Rectangle]
// The focused pane is highlighted if an overlay is provided.
func GenerateMermaid(root domain.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	domain.Walk(root, func(p domain.Path, n domain.Node) bool {
		id := mermaidID(p)
		switch n := n.(type) {
		case domain.Split:
			sb.WriteString(fmt.Sprintf("    %s{{\"%s\"}}\n", id, n.Axis))
			for i := range n.Children {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", id, mermaidID(p.Child(i))))
			}
		case domain.Leaf:
			opener, closer := "[", "]"
			if n.Tool == domain.ToolOpen || n.Tool == domain.ToolSplit {
				opener, closer = "([", "])"
			}
			sb.WriteString(fmt.Sprintf("    %s%s\"%s <br/> %s\"%s\n", id, opener, escape(string(n.Tool)), escape(string(n.ID)), closer))
		}
		return true
	})

	if overlay != nil {
		if p, ok := overlay.Focus.Get(); ok {
			if _, found := findNode(root, p); found {
				sb.WriteString("\n    %% Overlay Styles\n")
				// Force black text (color:#000) for high-contrast regardless of theme
				sb.WriteString("    classDef focused fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
				sb.WriteString(fmt.Sprintf("    class %s focused;\n", mermaidID(p)))
			}
		}
	}

	return sb.String()
}

// mermaidID derives a node id from its path: "root" for the root, "n0_1" for [0:1].
func mermaidID(p domain.Path) string {
	if p.IsRoot() {
		return "root"
	}
	return "n" + strings.ReplaceAll(p.Key(), domain.PathSeparator, "_")
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func findNode(root domain.Node, p domain.Path) (domain.Node, bool) {
	var (
		found domain.Node
		ok    bool
	)
	domain.Walk(root, func(at domain.Path, n domain.Node) bool {
		if ok || !p.HasPrefix(at) {
			return false
		}
		if at.Equal(p) {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}
