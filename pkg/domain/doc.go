/*
Package domain contains the core domain models of the Mosaic layout engine.

It defines the layout tree, the addressing scheme used to reach its nodes, and the
snapshot that captures one immutable view of a workspace. This package is kept pure
and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Node: A closed sum type over Leaf (a pane hosting one tool) and Split (an
    ordered group of children laid out along one Axis).
  - Path: Positional address of a node from the root, as a sequence of child indices.
  - Focus: The single focused pane, or none.
  - StateCache: Opaque per-pane tool state, keyed by path (or pane identity).
  - Snapshot: Tree, cache and focus of one workspace at one revision.
  - Action: A structural representation of an edit a pane asks the host to apply.
*/
package domain
