package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed replica can hold a workspace.
const DefaultLockTTL = 30 * time.Second

// ChangeListener is told about every effective change applied through the Manager.
type ChangeListener func(ctx context.Context, workspaceID string, diff *domain.SnapshotDiff)

// DeleteListener is told about every workspace deleted through the Manager.
type DeleteListener func(ctx context.Context, workspaceID string)

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates workspace access. It is the single writer of every workspace
// it serves: each load-apply-save cycle runs under a per-workspace lock, and under a
// distributed lock when replicas share a store.
// Unused locks are garbage collected by reference counting.
type Manager struct {
	store  ports.WorkspaceStore
	engine ports.StatelessEngine

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker    ports.DistributedLocker // Optional distributed locker
	lockTTL   time.Duration
	listeners []ChangeListener
	deletes   []DeleteListener
	logger    *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithChangeListener registers a listener for applied changes. Listeners run while
// the workspace is locked and must not apply actions to it.
func WithChangeListener(l ChangeListener) Option {
	return func(m *Manager) {
		m.listeners = append(m.listeners, l)
	}
}

// WithDeleteListener registers a listener for deleted workspaces.
func WithDeleteListener(l DeleteListener) Option {
	return func(m *Manager) {
		m.deletes = append(m.deletes, l)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager keeping snapshots in store and editing them with engine.
func NewManager(store ports.WorkspaceStore, engine ports.StatelessEngine, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		engine:  engine,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(workspaceID) after unlocking.
func (m *Manager) acquire(workspaceID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workspaceID]
	if !exists {
		entry = &lockEntry{}
		m.locks[workspaceID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(workspaceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[workspaceID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, workspaceID)
	}
}

// Load retrieves an existing workspace.
func (m *Manager) Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := m.WithLock(ctx, workspaceID, func(ctx context.Context) error {
		var err error
		snap, err = m.store.Load(ctx, workspaceID)
		return err
	})
	return snap, err
}

// LoadOrStart loads a workspace, creating it with a single default pane if needed.
// created reports whether the workspace is new.
func (m *Manager) LoadOrStart(ctx context.Context, workspaceID string) (snap *domain.Snapshot, created bool, err error) {
	err = m.WithLock(ctx, workspaceID, func(ctx context.Context) error {
		var loadErr error
		snap, loadErr = m.store.Load(ctx, workspaceID)
		if loadErr == nil {
			return nil
		}
		if !errors.Is(loadErr, domain.ErrWorkspaceNotFound) {
			return fmt.Errorf("failed to check workspace existence: %w", loadErr)
		}

		snap = m.engine.Start(workspaceID)
		created = true
		if err := m.store.Save(ctx, workspaceID, snap); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}
		return nil
	})
	return snap, created, err
}

// Apply loads the workspace, applies action and saves the result, all under the
// workspace lock. It returns the new snapshot and the diff against the previous one;
// the diff is nil when the action had no effect.
func (m *Manager) Apply(ctx context.Context, workspaceID string, action domain.Action) (*domain.Snapshot, *domain.SnapshotDiff, error) {
	var (
		next *domain.Snapshot
		diff *domain.SnapshotDiff
	)
	err := m.WithLock(ctx, workspaceID, func(ctx context.Context) error {
		prev, err := m.store.Load(ctx, workspaceID)
		if err != nil {
			return err
		}

		var changed bool
		next, changed, err = m.engine.Apply(ctx, prev, action)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		if err := m.store.Save(ctx, workspaceID, next); err != nil {
			return fmt.Errorf("failed to save workspace: %w", err)
		}
		diff = domain.Diff(prev, next)
		// Notified under the lock so listeners see changes in revision order.
		for _, l := range m.changeListeners() {
			l(ctx, workspaceID, diff)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return next, diff, nil
}

// AddChangeListener registers l on a running Manager.
func (m *Manager) AddChangeListener(l ChangeListener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

func (m *Manager) changeListeners() []ChangeListener {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listeners
}

// Save replaces the stored snapshot of a workspace.
func (m *Manager) Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error {
	return m.WithLock(ctx, workspaceID, func(ctx context.Context) error {
		return m.store.Save(ctx, workspaceID, snap)
	})
}

// Delete removes the workspace from the store.
func (m *Manager) Delete(ctx context.Context, workspaceID string) error {
	err := m.WithLock(ctx, workspaceID, func(ctx context.Context) error {
		return m.store.Delete(ctx, workspaceID)
	})
	if err != nil {
		return err
	}
	for _, l := range m.deletes {
		l(ctx, workspaceID)
	}
	return nil
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying store.
func (m *Manager) Store() ports.WorkspaceStore {
	return m.store
}

// Engine returns the engine used to apply actions.
func (m *Manager) Engine() ports.StatelessEngine {
	return m.engine
}

// WithLock executes a function while holding the lock for the workspace.
func (m *Manager) WithLock(ctx context.Context, workspaceID string, fn func(context.Context) error) error {
	entry := m.acquire(workspaceID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(workspaceID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, workspaceID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"workspace", workspaceID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
