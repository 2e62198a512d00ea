package domain

import (
	"bytes"
	"encoding/json"
)

// Focus is the focused pane of a workspace: a path, or none.
type Focus struct {
	path Path
	set  bool
}

// NoFocus is the state where no pane holds focus.
func NoFocus() Focus { return Focus{} }

// FocusOn focuses the node at p.
func FocusOn(p Path) Focus {
	return Focus{path: p.Clone(), set: true}
}

// Get returns the focused path and whether any pane is focused.
func (f Focus) Get() (Path, bool) {
	if !f.set {
		return nil, false
	}
	return f.path.Clone(), true
}

// Is reports whether p is the focused path.
func (f Focus) Is(p Path) bool {
	return f.set && f.path.Equal(p)
}

// Equal compares two focus values.
func (f Focus) Equal(o Focus) bool {
	if f.set != o.set {
		return false
	}
	return !f.set || f.path.Equal(o.path)
}

// String implements fmt.Stringer.
func (f Focus) String() string {
	if !f.set {
		return "none"
	}
	return f.path.String()
}

// MarshalJSON encodes the focus as a path array or null.
func (f Focus) MarshalJSON() ([]byte, error) {
	if !f.set {
		return []byte("null"), nil
	}
	return f.path.MarshalJSON()
}

// UnmarshalJSON decodes a path array or null.
func (f *Focus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*f = NoFocus()
		return nil
	}
	var p Path
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = FocusOn(p)
	return nil
}
