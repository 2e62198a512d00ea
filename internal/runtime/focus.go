package runtime

import "github.com/aretw0/mosaic/pkg/domain"

// RequestFocus focuses path unconditionally.
func RequestFocus(path domain.Path) domain.Focus {
	return domain.FocusOn(path)
}

// FindFirstToolPath descends from the node at path through first children until it
// reaches a leaf.
func FindFirstToolPath(root domain.Node, path domain.Path) (domain.Path, bool) {
	n, ok := FindNode(root, path)
	if !ok {
		return nil, false
	}
	p := path.Clone()
	for {
		switch v := n.(type) {
		case domain.Leaf:
			return p, true
		case domain.Split:
			if len(v.Children) == 0 {
				return nil, false
			}
			n = v.Children[0]
			p = p.Child(0)
		default:
			return nil, false
		}
	}
}

// MoveFocus computes the pane reached by moving from path in dir.
//
// The search bubbles up from path until an ancestor split arranges its children
// along the axis of dir and has a sibling on that side, then lands on the first leaf
// of that sibling. It reports false when the move escapes the root or path does not
// resolve.
func MoveFocus(root domain.Node, path domain.Path, dir domain.Direction) (domain.Path, bool) {
	if _, ok := FindNode(root, path); !ok {
		return nil, false
	}
	axis, step := dir.Axis(), dir.Step()

	for cur := path; !cur.IsRoot(); cur = cur.Parent() {
		parentPath := cur.Parent()
		parent, _ := FindNode(root, parentPath)
		s, ok := parent.(domain.Split)
		if !ok || s.Axis != axis {
			continue
		}
		next := cur.Last() + step
		if next < 0 || next >= len(s.Children) {
			continue
		}
		return FindFirstToolPath(root, parentPath.Child(next))
	}
	return nil, false
}
