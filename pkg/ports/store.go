package ports

import (
	"context"

	"github.com/aretw0/mosaic/pkg/domain"
)

// WorkspaceStore keeps workspace snapshots for hosts that serve more than one client
// or more than one process. Stores are not archives: entries may expire.
type WorkspaceStore interface {
	// Save stores the snapshot under the given workspace ID, replacing any previous one.
	Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error

	// Load retrieves the snapshot of a workspace.
	// Returns domain.ErrWorkspaceNotFound if the workspace does not exist.
	Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error)

	// Delete removes a workspace. Deleting an unknown workspace is not an error.
	Delete(ctx context.Context, workspaceID string) error

	// List returns the IDs of every stored workspace.
	List(ctx context.Context) ([]string, error)
}
