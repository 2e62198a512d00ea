package ports

import (
	"context"

	"github.com/aretw0/mosaic/pkg/domain"
)

// StatelessEngine is the engine as seen by adapters that keep snapshots themselves
// (HTTP, MCP, the session manager).
type StatelessEngine interface {
	// Start creates the initial snapshot of a workspace.
	Start(workspaceID string) *domain.Snapshot

	// Apply runs one action against snap. It never modifies snap; changed reports
	// whether the returned snapshot differs from it.
	Apply(ctx context.Context, snap *domain.Snapshot, action domain.Action) (next *domain.Snapshot, changed bool, err error)

	// CachedState reads the tool state of the pane at path.
	CachedState(snap *domain.Snapshot, path domain.Path) (any, bool)
}
