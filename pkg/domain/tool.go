package domain

import "strings"

// ToolKind identifies the tool a pane hosts. The engine treats it as opaque.
type ToolKind string

// Built-in tool kinds. Hosts may register any other kind.
const (
	// ToolOpen lets the user pick a tool that replaces the pane's own.
	ToolOpen ToolKind = "open"
	// ToolSplit lets the user pick a tool and an axis to split the pane with.
	ToolSplit ToolKind = "split"
	// ToolQuery is a query box whose input and output live in the state cache.
	ToolQuery ToolKind = "query"
	// ToolHome is the landing page.
	ToolHome ToolKind = "home"
	// ToolStreamer shows the event log of the workspace.
	ToolStreamer ToolKind = "streamer"
	// ToolNotes is a free text scratch pad.
	ToolNotes ToolKind = "notes"
)

// DefaultTool is hosted by a fresh workspace and by the pane left after the last close.
const DefaultTool = ToolOpen

// ParseToolKind normalizes a tool label. Unknown labels are accepted as-is; the
// set of tools belongs to the host.
func ParseToolKind(s string) (ToolKind, error) {
	k := ToolKind(strings.ToLower(strings.TrimSpace(s)))
	if k == "" {
		return "", ErrUnknownTool
	}
	return k, nil
}

// BuiltinTools lists the tool kinds known to the bundled hosts, in menu order.
func BuiltinTools() []ToolKind {
	return []ToolKind{ToolQuery, ToolHome, ToolStreamer, ToolNotes, ToolOpen, ToolSplit}
}
