package domain

import (
	"fmt"
	"strings"
)

// Axis is the direction along which a split arranges its children.
type Axis int

const (
	// RowAxis lays children side by side, left to right.
	RowAxis Axis = iota
	// ColumnAxis stacks children top to bottom.
	ColumnAxis
)

// String returns the canonical label of the axis.
func (a Axis) String() string {
	switch a {
	case RowAxis:
		return "row"
	case ColumnAxis:
		return "column"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Valid reports whether a is one of the known axes.
func (a Axis) Valid() bool {
	return a == RowAxis || a == ColumnAxis
}

// ParseAxis converts a label into an Axis.
//
// Besides "row" and "column" it accepts the splitter labels used by older
// front-ends, where a "vertical" split has a vertical divider between
// side-by-side children (RowAxis) and a "horizontal" split stacks them (ColumnAxis).
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "row", "r", "vertical":
		return RowAxis, nil
	case "column", "col", "c", "horizontal":
		return ColumnAxis, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAxis, s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAxis, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(text []byte) error {
	parsed, err := ParseAxis(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Direction is a keyboard focus movement.
type Direction string

const (
	DirLeft  Direction = "left"
	DirRight Direction = "right"
	DirUp    Direction = "up"
	DirDown  Direction = "down"
)

// ParseDirection validates a direction label.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DirLeft, DirRight, DirUp, DirDown:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

// IsHorizontal reports whether the move is left or right.
func (d Direction) IsHorizontal() bool {
	return d == DirLeft || d == DirRight
}

// Axis returns the split axis along which this direction moves between siblings.
func (d Direction) Axis() Axis {
	if d.IsHorizontal() {
		return RowAxis
	}
	return ColumnAxis
}

// Step returns -1 for left/up and +1 for right/down.
func (d Direction) Step() int {
	if d == DirLeft || d == DirUp {
		return -1
	}
	return 1
}
