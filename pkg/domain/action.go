package domain

import "fmt"

// Op names a workspace operation.
type Op string

const (
	OpReplaceTool  Op = "replace_tool"
	OpSplit        Op = "split"
	OpClose        Op = "close"
	OpCacheState   Op = "cache_state"
	OpRequestFocus Op = "request_focus"
	OpMoveFocus    Op = "move_focus"
	OpClearFocus   Op = "clear_focus"
)

// Ops lists every operation in a stable order.
func Ops() []Op {
	return []Op{
		OpReplaceTool, OpSplit, OpClose, OpCacheState,
		OpRequestFocus, OpMoveFocus, OpClearFocus,
	}
}

// Valid reports whether op is known.
func (op Op) Valid() bool {
	for _, known := range Ops() {
		if op == known {
			return true
		}
	}
	return false
}

// Action is one edit addressed at a path of the current snapshot.
//
// Only the fields relevant to Op are read: Tool for replace_tool and split, Axis for
// split, Direction for move_focus and Value for cache_state.
type Action struct {
	Op        Op        `json:"op" yaml:"op" mapstructure:"op"`
	Path      Path      `json:"path" yaml:"path" mapstructure:"path"`
	Axis      Axis      `json:"axis" yaml:"axis" mapstructure:"axis"`
	Tool      ToolKind  `json:"tool,omitempty" yaml:"tool,omitempty" mapstructure:"tool"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" mapstructure:"direction"`
	Value     any       `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
}

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a.Op {
	case OpSplit:
		return fmt.Sprintf("%s %s %s %s", a.Op, a.Path, a.Axis, a.Tool)
	case OpReplaceTool:
		return fmt.Sprintf("%s %s %s", a.Op, a.Path, a.Tool)
	case OpMoveFocus:
		return fmt.Sprintf("%s %s %s", a.Op, a.Path, a.Direction)
	case OpClearFocus:
		return string(a.Op)
	default:
		return fmt.Sprintf("%s %s", a.Op, a.Path)
	}
}

// Check validates the fields required by the operation. It does not look at any
// tree: a well formed action addressed at a stale path is still valid.
func (a Action) Check() error {
	switch a.Op {
	case OpReplaceTool:
		if a.Tool == "" {
			return fmt.Errorf("%s: %w", a.Op, ErrUnknownTool)
		}
	case OpSplit:
		if a.Tool == "" {
			return fmt.Errorf("%s: %w", a.Op, ErrUnknownTool)
		}
		if !a.Axis.Valid() {
			return fmt.Errorf("%s: %w", a.Op, ErrInvalidAxis)
		}
	case OpMoveFocus:
		if _, err := ParseDirection(string(a.Direction)); err != nil {
			return fmt.Errorf("%s: %w", a.Op, err)
		}
	case OpClose, OpCacheState, OpRequestFocus, OpClearFocus:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, a.Op)
	}
	for _, idx := range a.Path {
		if idx < 0 {
			return fmt.Errorf("%s: %w: %s", a.Op, ErrInvalidPath, a.Path)
		}
	}
	return nil
}

// Convenience constructors used by hosts and tests.

func ReplaceToolAction(p Path, tool ToolKind) Action {
	return Action{Op: OpReplaceTool, Path: p, Tool: tool}
}

func SplitAction(p Path, axis Axis, tool ToolKind) Action {
	return Action{Op: OpSplit, Path: p, Axis: axis, Tool: tool}
}

func CloseAction(p Path) Action {
	return Action{Op: OpClose, Path: p}
}

func CacheStateAction(p Path, value any) Action {
	return Action{Op: OpCacheState, Path: p, Value: value}
}

func RequestFocusAction(p Path) Action {
	return Action{Op: OpRequestFocus, Path: p}
}

func MoveFocusAction(p Path, dir Direction) Action {
	return Action{Op: OpMoveFocus, Path: p, Direction: dir}
}

func ClearFocusAction() Action {
	return Action{Op: OpClearFocus}
}
