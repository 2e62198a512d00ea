package layout

import (
	"strings"

	"github.com/aretw0/mosaic/pkg/domain"
)

// FocusMarker is appended to the focused node of an outline.
const FocusMarker = " *"

// Outline renders the tree as an indented text tree, one node per line:
//
//	row
//	├── column
//	│   ├── open p1 *
//	│   └── query p3
//	└── home p2
func Outline(root domain.Node, focus domain.Focus) string {
	var sb strings.Builder
	outline(&sb, root, domain.Path{}, focus, "", "")
	return sb.String()
}

func outline(sb *strings.Builder, n domain.Node, p domain.Path, focus domain.Focus, lead, indent string) {
	sb.WriteString(lead)
	switch n := n.(type) {
	case domain.Leaf:
		sb.WriteString(string(n.Tool))
		if n.ID != "" {
			sb.WriteString(" " + string(n.ID))
		}
	case domain.Split:
		sb.WriteString(n.Axis.String())
	}
	if focus.Is(p) {
		sb.WriteString(FocusMarker)
	}
	sb.WriteString("\n")

	s, ok := n.(domain.Split)
	if !ok {
		return
	}
	for i, c := range s.Children {
		branch, next := "├── ", "│   "
		if i == len(s.Children)-1 {
			branch, next = "└── ", "    "
		}
		outline(sb, c, p.Child(i), focus, indent+branch, indent+next)
	}
}

// Compact renders the tree on one line by tool kind, e.g. "row(column(open,query),home)".
func Compact(root domain.Node) string {
	switch n := root.(type) {
	case domain.Leaf:
		return string(n.Tool)
	case domain.Split:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = Compact(c)
		}
		return n.Axis.String() + "(" + strings.Join(parts, ",") + ")"
	default:
		return ""
	}
}
