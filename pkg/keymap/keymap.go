// Package keymap maps modifier+key chords to workspace actions for the focused pane.
package keymap

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/bubbles/key"

	"github.com/aretw0/mosaic/pkg/domain"
)

// Command names, as used in configuration overrides.
const (
	CmdFocusLeft   = "focus_left"
	CmdFocusRight  = "focus_right"
	CmdFocusUp     = "focus_up"
	CmdFocusDown   = "focus_down"
	CmdSplitRow    = "split_row"
	CmdSplitColumn = "split_column"
	CmdClose       = "close"
	CmdOpen        = "open"
	CmdHelp        = "help"
	CmdQuit        = "quit"
)

// KeyMap holds the bindings of a workspace host.
type KeyMap struct {
	FocusLeft   key.Binding
	FocusRight  key.Binding
	FocusUp     key.Binding
	FocusDown   key.Binding
	SplitRow    key.Binding
	SplitColumn key.Binding
	Close       key.Binding
	Open        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// Default returns the stock bindings: alt+arrows or alt+hjkl move focus, alt+\ and
// alt+- split, alt+w closes, alt+o opens the tool picker.
func Default() KeyMap {
	return KeyMap{
		FocusLeft: key.NewBinding(
			key.WithKeys("alt+left", "alt+h"),
			key.WithHelp("alt+←/h", "focus left"),
		),
		FocusRight: key.NewBinding(
			key.WithKeys("alt+right", "alt+l"),
			key.WithHelp("alt+→/l", "focus right"),
		),
		FocusUp: key.NewBinding(
			key.WithKeys("alt+up", "alt+k"),
			key.WithHelp("alt+↑/k", "focus up"),
		),
		FocusDown: key.NewBinding(
			key.WithKeys("alt+down", "alt+j"),
			key.WithHelp("alt+↓/j", "focus down"),
		),
		SplitRow: key.NewBinding(
			key.WithKeys(`alt+\`),
			key.WithHelp(`alt+\`, "split right"),
		),
		SplitColumn: key.NewBinding(
			key.WithKeys("alt+-"),
			key.WithHelp("alt+-", "split below"),
		),
		Close: key.NewBinding(
			key.WithKeys("alt+w"),
			key.WithHelp("alt+w", "close pane"),
		),
		Open: key.NewBinding(
			key.WithKeys("alt+o"),
			key.WithHelp("alt+o", "change tool"),
		),
		Help: key.NewBinding(
			key.WithKeys("alt+?", "f1"),
			key.WithHelp("f1", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+q", "quit"),
		),
	}
}

func (k *KeyMap) byName() map[string]*key.Binding {
	return map[string]*key.Binding{
		CmdFocusLeft:   &k.FocusLeft,
		CmdFocusRight:  &k.FocusRight,
		CmdFocusUp:     &k.FocusUp,
		CmdFocusDown:   &k.FocusDown,
		CmdSplitRow:    &k.SplitRow,
		CmdSplitColumn: &k.SplitColumn,
		CmdClose:       &k.Close,
		CmdOpen:        &k.Open,
		CmdHelp:        &k.Help,
		CmdQuit:        &k.Quit,
	}
}

// Commands lists the command names accepted by Override.
func Commands() []string {
	k := Default()
	names := make([]string, 0, 10)
	for name := range k.byName() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Override replaces the keys of the named commands. The help label follows the first key.
func (k *KeyMap) Override(overrides map[string][]string) error {
	bindings := k.byName()
	for name, keys := range overrides {
		b, ok := bindings[name]
		if !ok {
			return fmt.Errorf("unknown key command %q", name)
		}
		if len(keys) == 0 {
			b.SetEnabled(false)
			continue
		}
		b.SetKeys(keys...)
		b.SetHelp(keys[0], b.Help().Desc)
	}
	return nil
}

// Resolve maps a key press to an action on the focused pane. splitTool is the tool
// hosted by panes created with the split chords.
// Keys that are not workspace commands, including help and quit, resolve to false.
func (k KeyMap) Resolve(msg fmt.Stringer, focused domain.Path, splitTool domain.ToolKind) (domain.Action, bool) {
	switch {
	case key.Matches(msg, k.FocusLeft):
		return domain.MoveFocusAction(focused, domain.DirLeft), true
	case key.Matches(msg, k.FocusRight):
		return domain.MoveFocusAction(focused, domain.DirRight), true
	case key.Matches(msg, k.FocusUp):
		return domain.MoveFocusAction(focused, domain.DirUp), true
	case key.Matches(msg, k.FocusDown):
		return domain.MoveFocusAction(focused, domain.DirDown), true
	case key.Matches(msg, k.SplitRow):
		return domain.SplitAction(focused, domain.RowAxis, splitTool), true
	case key.Matches(msg, k.SplitColumn):
		return domain.SplitAction(focused, domain.ColumnAxis, splitTool), true
	case key.Matches(msg, k.Close):
		return domain.CloseAction(focused), true
	case key.Matches(msg, k.Open):
		return domain.ReplaceToolAction(focused, domain.ToolOpen), true
	}
	return domain.Action{}, false
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SplitRow, k.SplitColumn, k.Close, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusLeft, k.FocusRight, k.FocusUp, k.FocusDown},
		{k.SplitRow, k.SplitColumn, k.Close, k.Open},
		{k.Help, k.Quit},
	}
}
