package runtime

import "github.com/aretw0/mosaic/pkg/domain"

// FindNode walks path from root. The empty path resolves to root itself.
func FindNode(root domain.Node, path domain.Path) (domain.Node, bool) {
	cur := root
	for _, idx := range path {
		s, ok := cur.(domain.Split)
		if !ok || idx < 0 || idx >= len(s.Children) {
			return nil, false
		}
		cur = s.Children[idx]
	}
	return cur, cur != nil
}

// ReplaceTool swaps the tool of the leaf at path. The pane keeps its id.
// It returns root unchanged when path does not resolve to a leaf.
func ReplaceTool(root domain.Node, path domain.Path, tool domain.ToolKind) domain.Node {
	target, ok := FindNode(root, path)
	if !ok {
		return root
	}
	leaf, ok := target.(domain.Leaf)
	if !ok || leaf.Tool == tool {
		return root
	}
	leaf.Tool = tool
	return rebuild(root, path, leaf)
}

// SplitNode inserts leaf next to the node at path.
//
//   - At the root the whole tree becomes the first child of a new split.
//   - Under a parent split along axis, leaf is inserted right after the target.
//   - Otherwise the target is replaced by Split(axis, [target, leaf]).
//
// It returns root unchanged when path does not resolve.
func SplitNode(root domain.Node, path domain.Path, axis domain.Axis, leaf domain.Leaf) domain.Node {
	target, ok := FindNode(root, path)
	if !ok {
		return root
	}
	if path.IsRoot() {
		return domain.NewSplit(axis, root, leaf)
	}

	parentPath := path.Parent()
	parent, _ := FindNode(root, parentPath)
	ps := parent.(domain.Split)
	idx := path.Last()

	if ps.Axis == axis {
		children := make([]domain.Node, 0, len(ps.Children)+1)
		children = append(children, ps.Children[:idx+1]...)
		children = append(children, leaf)
		children = append(children, ps.Children[idx+1:]...)
		return rebuild(root, parentPath, domain.Split{Axis: ps.Axis, Children: children})
	}
	return rebuild(root, path, domain.NewSplit(axis, target, leaf))
}

// InsertedPath reports where SplitNode(root, path, axis, _) places the new leaf.
func InsertedPath(root domain.Node, path domain.Path, axis domain.Axis) (domain.Path, bool) {
	if _, ok := FindNode(root, path); !ok {
		return nil, false
	}
	if path.IsRoot() {
		return domain.Path{1}, true
	}
	parent, _ := FindNode(root, path.Parent())
	if parent.(domain.Split).Axis == axis {
		return path.Parent().Child(path.Last() + 1), true
	}
	return path.Child(1), true
}

// CloseNode removes the node at path.
//
// A split left with a single child is replaced by that child and a split left empty
// is removed from its own parent, so no split with fewer than two children survives.
// Closing the root, or anything that leaves the tree empty, yields fallback.
// It returns root unchanged when path does not resolve.
func CloseNode(root domain.Node, path domain.Path, fallback domain.Leaf) domain.Node {
	if path.IsRoot() {
		return fallback
	}
	if _, ok := FindNode(root, path); !ok {
		return root
	}
	next := closeAt(root, path)
	if next == nil {
		return fallback
	}
	return next
}

// closeAt returns the replacement for n after removing the descendant at path,
// or nil when n itself disappears.
func closeAt(n domain.Node, path domain.Path) domain.Node {
	s := n.(domain.Split)
	idx := path[0]

	children := make([]domain.Node, 0, len(s.Children))
	children = append(children, s.Children[:idx]...)
	if len(path) > 1 {
		if child := closeAt(s.Children[idx], path[1:]); child != nil {
			children = append(children, child)
		}
	}
	children = append(children, s.Children[idx+1:]...)

	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	default:
		return domain.Split{Axis: s.Axis, Children: children}
	}
}

// rebuild returns a copy of root with the node at path replaced by repl. Only the
// splits on the way down are copied; every other subtree is shared with root.
func rebuild(root domain.Node, path domain.Path, repl domain.Node) domain.Node {
	if path.IsRoot() {
		return repl
	}
	s := root.(domain.Split)
	children := make([]domain.Node, len(s.Children))
	copy(children, s.Children)
	children[path[0]] = rebuild(s.Children[path[0]], path[1:], repl)
	return domain.Split{Axis: s.Axis, Children: children}
}

// CacheState returns a copy of cache with value stored under the key of path.
// The path is not resolved against any tree.
func CacheState(cache domain.StateCache, path domain.Path, value any) domain.StateCache {
	return CacheStateKey(cache, path.Key(), value)
}

// CacheStateKey is CacheState for an explicit key.
func CacheStateKey(cache domain.StateCache, key string, value any) domain.StateCache {
	next := cache.Clone()
	next[key] = value
	return next
}
