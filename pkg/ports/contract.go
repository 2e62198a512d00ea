package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic/pkg/domain"
)

func contractSnapshot(id string) *domain.Snapshot {
	snap := domain.NewSnapshot(id, domain.NewLeaf("left", domain.ToolQuery))
	snap.Root = domain.NewSplit(domain.RowAxis,
		snap.Root,
		domain.NewSplit(domain.ColumnAxis,
			domain.NewLeaf("top", domain.ToolNotes),
			domain.NewLeaf("bottom", domain.ToolStreamer),
		),
	)
	snap.Cache["0"] = "select 1"
	snap.Focus = domain.FocusOn(domain.Path{1, 0})
	snap.Revision = 7
	return snap
}

// RunWorkspaceStoreContract runs a suite of tests to verify that a WorkspaceStore
// implementation adheres to the interface contract.
func RunWorkspaceStoreContract(t *testing.T, store WorkspaceStore) {
	ctx := context.Background()
	workspaceID := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := contractSnapshot(workspaceID)

		err := store.Save(ctx, workspaceID, snap)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, workspaceID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, workspaceID, loaded.WorkspaceID)
		assert.True(t, domain.Equal(snap.Root, loaded.Root), "tree must survive the round trip")
		assert.True(t, loaded.Focus.Is(domain.Path{1, 0}))
		assert.Equal(t, "select 1", loaded.Cache["0"])
		assert.Equal(t, uint64(7), loaded.Revision)
	})

	t.Run("Loaded snapshots are independent", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, workspaceID, contractSnapshot(workspaceID)))

		first, err := store.Load(ctx, workspaceID)
		require.NoError(t, err)
		first.Cache["0"] = "changed"

		second, err := store.Load(ctx, workspaceID)
		require.NoError(t, err)
		assert.Equal(t, "select 1", second.Cache["0"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+workspaceID)
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, workspaceID, contractSnapshot(workspaceID)))

		err := store.Delete(ctx, workspaceID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, workspaceID)
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound, "Load after Delete should return ErrWorkspaceNotFound")

		assert.NoError(t, store.Delete(ctx, workspaceID), "deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := workspaceID + "-1"
		id2 := workspaceID + "-2"
		require.NoError(t, store.Save(ctx, id1, contractSnapshot(id1)))
		require.NoError(t, store.Save(ctx, id2, contractSnapshot(id2)))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
