package domain

import (
	"fmt"
	"reflect"
)

// Validate checks the layout invariants of a live tree: every split has at least two
// children and a valid axis, no leaf is missing its tool, and no split is reachable
// through two parents.
func Validate(root Node) error {
	if root == nil {
		return fmt.Errorf("%w: nil root", ErrInvariant)
	}
	seen := make(map[uintptr]Path)
	return validate(root, Path{}, seen)
}

func validate(n Node, p Path, seen map[uintptr]Path) error {
	switch v := n.(type) {
	case Leaf:
		if v.Tool == "" {
			return fmt.Errorf("%w: leaf %s has no tool", ErrInvariant, p)
		}
		return nil
	case Split:
		if !v.Axis.Valid() {
			return fmt.Errorf("%w: split %s has %v", ErrInvariant, p, v.Axis)
		}
		if len(v.Children) < 2 {
			return fmt.Errorf("%w: split %s has %d children", ErrInvariant, p, len(v.Children))
		}
		// Children slices are never shared between two live splits, so the backing
		// array identifies a split node.
		ptr := reflect.ValueOf(v.Children).Pointer()
		if prev, ok := seen[ptr]; ok {
			return fmt.Errorf("%w: split %s aliases %s", ErrInvariant, p, prev)
		}
		seen[ptr] = p
		for i, c := range v.Children {
			if err := validate(c, p.Child(i), seen); err != nil {
				return err
			}
		}
		return nil
	case nil:
		return fmt.Errorf("%w: nil node at %s", ErrInvariant, p)
	default:
		return fmt.Errorf("%w: unknown node %T at %s", ErrInvariant, n, p)
	}
}
