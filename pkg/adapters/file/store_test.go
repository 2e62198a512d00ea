package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic/pkg/adapters/file"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunWorkspaceStoreContract(t, file.New(t.TempDir()))
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "workspaces")
	store := file.New(dir)

	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids, "a missing directory holds no workspaces")

	snap := domain.NewSnapshot("ws", domain.NewLeaf("p1", domain.ToolHome))
	require.NoError(t, store.Save(context.Background(), "ws", snap))
	assert.FileExists(t, filepath.Join(dir, "ws.json"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestFileStore_InvalidID(t *testing.T) {
	store := file.New(t.TempDir())
	snap := domain.NewSnapshot("x", domain.NewLeaf("p1", domain.ToolHome))

	for _, id := range []string{"", "..", "a/b", `a\b`, "tmp-ws"} {
		assert.ErrorIs(t, store.Save(context.Background(), id, snap), file.ErrInvalidWorkspaceID, id)
		_, err := store.Load(context.Background(), id)
		assert.ErrorIs(t, err, domain.ErrInvalidWorkspaceID, id)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := file.New(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestFileStore_Expiry(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir, file.WithTTL(time.Minute))
	ctx := context.Background()

	snap := domain.NewSnapshot("ws", domain.NewLeaf("p1", domain.ToolHome))
	require.NoError(t, store.Save(ctx, "ws", snap))

	// Age the file past the TTL.
	old := time.Now().Add(-2 * time.Minute)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "ws.json"), old, old))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = store.Load(ctx, "ws")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	assert.NoFileExists(t, filepath.Join(dir, "ws.json"), "expired workspaces are removed")
}

func TestFileStore_NoExpiry(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir, file.WithTTL(0))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ws", domain.NewSnapshot("ws", domain.NewLeaf("p1", domain.ToolHome))))
	old := time.Now().Add(-24 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "ws.json"), old, old))

	_, err := store.Load(ctx, "ws")
	assert.NoError(t, err)
}
