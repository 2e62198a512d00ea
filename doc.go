/*
Package mosaic is a pane-tiling layout engine: an arbitrarily nested arrangement of
panes, each hosting one interchangeable tool, navigated with the keyboard the way a
tiling window manager or terminal multiplexer is.

It separates the layout (a tree of splits and panes) from what the panes show (tools,
supplied by the host). The engine owns the tree topology, the tool identity of every
pane, an opaque per-pane state cache and directional focus.

# Concept

Every edit is a pure snapshot-in, snapshot-out transform. A snapshot is never
modified after it is produced, so a host can keep the previous one around to diff or
undo. Panes are addressed by path, the sequence of child indices from the root; a
path is only meaningful against the snapshot it was taken from.

  - Split: add a pane next to another. Splitting along the parent's axis adds a
    sibling; splitting across it nests a new split.
  - Close: remove a pane. Splits left with a single child collapse into it; closing
    the last pane leaves a fresh default pane.
  - Move focus: bubble up to the nearest ancestor laid out along the direction of
    the move, step to the neighbouring child and dive to its first pane.

Edits addressed at paths that no longer resolve do nothing. There is no error for a
stale path.

# Usage

	eng := mosaic.New()
	ws := eng.NewWorkspace("main")

	right, _ := ws.SplitNode(domain.Root(), domain.RowAxis, domain.ToolQuery)
	ws.RequestFocus(right)

	for _, pane := range ws.Panes() {
		fmt.Println(pane.Path(), pane.Tool(), pane.IsFocused())
	}

Hosts serving several clients keep snapshots in a ports.WorkspaceStore and apply
actions through session.Manager, which serializes the edits of each workspace.
*/
package mosaic
