/*
Package ports defines the driven ports (interfaces) for the Mosaic engine.

These interfaces decouple the layout core from the processes that host it, so the
same engine serves a terminal UI, an HTTP API and an MCP server.

# Key Interfaces

  - WorkspaceStore: keeps workspace snapshots (memory or Redis).
  - DistributedLocker: keeps a single writer per workspace across replicas.
  - StatelessEngine: the engine as used by adapters that manage snapshots themselves.
*/
package ports
