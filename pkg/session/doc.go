/*
Package session implements workspace ownership for multi-client hosts.

The layout engine assumes a single owner per workspace. Manager provides that owner
when several HTTP or MCP clients, or several server replicas, edit the same
workspace: every load-apply-save cycle runs under a per-workspace lock, backed by a
distributed lock when the store is shared.
*/
package session
