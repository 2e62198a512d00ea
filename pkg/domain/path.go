package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PathSeparator joins path indices into a cache key.
const PathSeparator = ":"

// Path addresses a node by child indices from the root. The empty path is the root.
//
// A path is only meaningful against the snapshot it was derived from.
type Path []int

// Root returns the root path.
func Root() Path { return Path{} }

// IsRoot reports whether p addresses the root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Key is the canonical string form, indices joined by ":". The root key is "".
func (p Path) Key() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, PathSeparator)
}

// String implements fmt.Stringer.
func (p Path) String() string {
	return "[" + p.Key() + "]"
}

// Parent returns the path without its last index. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return p.Clone()[:len(p)-1]
}

// Last returns the final index, or -1 for the root.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns a new path extended by idx. p itself is never modified.
func (p Path) Child(idx int) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = idx
	return out
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether both paths address the same position.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix addresses p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// ParsePath parses the Key form ("0:1:2", "" for the root).
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimSuffix(s, "]"), "[")
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, PathSeparator)
	out := make(Path, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, s)
		}
		out[i] = idx
	}
	return out, nil
}

// MarshalJSON encodes the path as an array, the root as [].
func (p Path) MarshalJSON() ([]byte, error) {
	return json.Marshal([]int(p.Clone()))
}

// UnmarshalJSON accepts an array of indices or the Key string form.
func (p *Path) UnmarshalJSON(data []byte) error {
	var idx []int
	if err := json.Unmarshal(data, &idx); err == nil {
		for _, i := range idx {
			if i < 0 {
				return fmt.Errorf("%w: negative index %d", ErrInvalidPath, i)
			}
		}
		*p = Path(idx)
		if *p == nil {
			*p = Path{}
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPath, string(data))
	}
	parsed, err := ParsePath(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
