package runtime

import (
	"fmt"

	"github.com/aretw0/mosaic/pkg/domain"
)

func leaf(id string, tool domain.ToolKind) domain.Leaf {
	return domain.NewLeaf(domain.PaneID(id), tool)
}

func row(children ...domain.Node) domain.Split {
	return domain.NewSplit(domain.RowAxis, children...)
}

func col(children ...domain.Node) domain.Split {
	return domain.NewSplit(domain.ColumnAxis, children...)
}

// sequentialIDs yields p1, p2, ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() domain.PaneID {
		n++
		return domain.PaneID(fmt.Sprintf("p%d", n))
	}
}

var fallback = leaf("fallback", domain.DefaultTool)

// outline renders a tree compactly for failure messages, e.g. row(col(a,c),b).
func outline(n domain.Node) string {
	switch v := n.(type) {
	case domain.Leaf:
		return string(v.ID)
	case domain.Split:
		s := v.Axis.String()
		if v.Axis == domain.ColumnAxis {
			s = "col"
		}
		s += "("
		for i, c := range v.Children {
			if i > 0 {
				s += ","
			}
			s += outline(c)
		}
		return s + ")"
	default:
		return fmt.Sprintf("%v", n)
	}
}
