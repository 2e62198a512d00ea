package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/pkg/adapters/memory"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
	"github.com/aretw0/mosaic/pkg/session"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

func (s SlowStore) Save(ctx context.Context, id string, snap *domain.Snapshot) error {
	time.Sleep(2 * time.Millisecond)
	return s.Store.Save(ctx, id, snap)
}

func newManager(store ports.WorkspaceStore, opts ...session.Option) *session.Manager {
	return session.NewManager(store, mosaic.New(mosaic.WithStrictInvariants()), opts...)
}

func TestManager_LoadOrStart(t *testing.T) {
	mgr := newManager(memory.NewStore())
	ctx := context.Background()

	snap, created, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, domain.Leaves(snap.Root), 1)

	again, created, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, domain.Equal(snap.Root, again.Root))
}

func TestManager_DeleteNotifies(t *testing.T) {
	var deleted []string
	mgr := newManager(memory.NewStore(), session.WithDeleteListener(func(_ context.Context, id string) {
		deleted = append(deleted, id)
	}))
	ctx := context.Background()

	_, _, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, "ws"))
	assert.Equal(t, []string{"ws"}, deleted)

	_, err = mgr.Load(ctx, "ws")
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestManager_ApplyUnknownWorkspace(t *testing.T) {
	mgr := newManager(memory.NewStore())

	_, _, err := mgr.Apply(context.Background(), "missing", domain.CloseAction(domain.Root()))
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
}

func TestManager_ApplyReturnsDiffAndNotifies(t *testing.T) {
	var got []*domain.SnapshotDiff
	mgr := newManager(memory.NewStore(), session.WithChangeListener(
		func(_ context.Context, id string, diff *domain.SnapshotDiff) {
			assert.Equal(t, "ws", id)
			got = append(got, diff)
		},
	))
	ctx := context.Background()
	_, _, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)

	snap, diff, err := mgr.Apply(ctx, "ws", domain.SplitAction(domain.Root(), domain.RowAxis, domain.ToolQuery))
	require.NoError(t, err)
	require.NotNil(t, diff)
	assert.NotNil(t, diff.Root)
	assert.Nil(t, diff.Focus)
	assert.Equal(t, uint64(1), snap.Revision)

	// No-ops produce no diff and no notification.
	_, diff, err = mgr.Apply(ctx, "ws", domain.CloseAction(domain.Path{9}))
	require.NoError(t, err)
	assert.Nil(t, diff)

	assert.Len(t, got, 1)

	stored, err := mgr.Load(ctx, "ws")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), stored.Revision)
}

func TestManager_NotifiesInRevisionOrder(t *testing.T) {
	var (
		mu      sync.Mutex
		order   []uint64
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	mgr := newManager(memory.NewStore(), session.WithChangeListener(
		func(_ context.Context, _ string, diff *domain.SnapshotDiff) {
			if diff.Revision == 1 {
				close(entered)
				<-release
			}
			mu.Lock()
			order = append(order, diff.Revision)
			mu.Unlock()
		},
	))
	ctx := context.Background()
	_, _, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _, err := mgr.Apply(ctx, "ws", domain.CacheStateAction(domain.Root(), "first"))
		assert.NoError(t, err)
	}()
	<-entered
	go func() {
		defer wg.Done()
		_, _, err := mgr.Apply(ctx, "ws", domain.CacheStateAction(domain.Root(), "second"))
		assert.NoError(t, err)
	}()

	// The second change must wait for the first notification.
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, []uint64{1, 2}, order)
}

func TestManager_SerializesConcurrentApply(t *testing.T) {
	mgr := newManager(SlowStore{memory.NewStore()})
	ctx := context.Background()
	_, _, err := mgr.LoadOrStart(ctx, "ws")
	require.NoError(t, err)

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, err := mgr.Apply(ctx, "ws", domain.CacheStateAction(domain.Path{0, i}, i))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// A lost update would leave fewer entries than writers.
	snap, err := mgr.Load(ctx, "ws")
	require.NoError(t, err)
	assert.Len(t, snap.Cache, writers)
	assert.Equal(t, uint64(writers), snap.Revision)
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := newManager(memory.NewStore())
	ctx := context.Background()

	for i := 0; i < 1000; i++ {
		id := fmt.Sprintf("ws-%d", i)
		_, _, err := mgr.LoadOrStart(ctx, id)
		require.NoError(t, err)
		require.NoError(t, mgr.Delete(ctx, id))
	}

	assert.Zero(t, session.ActiveLocks(mgr), "locks must not leak after Delete")
}

type recordingLocker struct {
	mu   sync.Mutex
	keys []string
}

func (l *recordingLocker) Lock(_ context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return func(context.Context) error { return nil }, nil
}

func TestManager_UsesDistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	mgr := newManager(memory.NewStore(), session.WithLocker(locker))

	_, _, err := mgr.LoadOrStart(context.Background(), "ws")
	require.NoError(t, err)
	assert.Equal(t, []string{"ws"}, locker.keys)
}
