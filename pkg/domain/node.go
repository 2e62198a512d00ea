package domain

// PaneID identifies a pane for its whole lifetime, independent of its position.
type PaneID string

// Node is one element of the layout tree.
//
// The set of implementations is closed: Leaf and Split. Consumers switch on the
// concrete type and treat any other value as unreachable.
type Node interface {
	isNode()
}

// Leaf is a terminal pane hosting exactly one tool.
type Leaf struct {
	ID   PaneID
	Tool ToolKind
}

// Split is an internal node arranging its children along Axis.
// A split reachable from a live root always has at least two children.
type Split struct {
	Axis     Axis
	Children []Node
}

func (Leaf) isNode()  {}
func (Split) isNode() {}

// NewLeaf builds a leaf pane.
func NewLeaf(id PaneID, tool ToolKind) Leaf {
	return Leaf{ID: id, Tool: tool}
}

// NewSplit builds a split owning a private copy of children.
func NewSplit(axis Axis, children ...Node) Split {
	return Split{Axis: axis, Children: append([]Node(nil), children...)}
}

// Equal reports whether a and b are structurally identical, pane ids included.
func Equal(a, b Node) bool {
	return compare(a, b, true)
}

// SameShape reports whether a and b have the same structure and the same tool at
// every leaf, ignoring pane ids.
func SameShape(a, b Node) bool {
	return compare(a, b, false)
}

func compare(a, b Node, withIDs bool) bool {
	switch x := a.(type) {
	case Leaf:
		y, ok := b.(Leaf)
		if !ok || x.Tool != y.Tool {
			return false
		}
		return !withIDs || x.ID == y.ID
	case Split:
		y, ok := b.(Split)
		if !ok || x.Axis != y.Axis || len(x.Children) != len(y.Children) {
			return false
		}
		for i := range x.Children {
			if !compare(x.Children[i], y.Children[i], withIDs) {
				return false
			}
		}
		return true
	case nil:
		return b == nil
	default:
		return false
	}
}

// LeafRef is a leaf together with its current path.
type LeafRef struct {
	Path Path
	Leaf Leaf
}

// Walk visits every node depth-first, parents before children.
// Returning false from fn skips the children of that node.
func Walk(root Node, fn func(Path, Node) bool) {
	walk(root, Path{}, fn)
}

func walk(n Node, p Path, fn func(Path, Node) bool) {
	if n == nil || !fn(p, n) {
		return
	}
	if s, ok := n.(Split); ok {
		for i, c := range s.Children {
			walk(c, p.Child(i), fn)
		}
	}
}

// Leaves lists every pane of the tree in layout order.
func Leaves(root Node) []LeafRef {
	var out []LeafRef
	Walk(root, func(p Path, n Node) bool {
		if l, ok := n.(Leaf); ok {
			out = append(out, LeafRef{Path: p, Leaf: l})
		}
		return true
	})
	return out
}

// FindPane returns the current path of the pane with the given id.
func FindPane(root Node, id PaneID) (Path, bool) {
	var (
		found Path
		ok    bool
	)
	Walk(root, func(p Path, n Node) bool {
		if ok {
			return false
		}
		if l, isLeaf := n.(Leaf); isLeaf && l.ID == id {
			found, ok = p, true
		}
		return !ok
	})
	return found, ok
}
