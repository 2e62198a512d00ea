package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/mosaic/pkg/domain"
)

const ext = ".json"

// DefaultDir is used when no directory is configured.
var DefaultDir = filepath.Join(os.TempDir(), "mosaic", "workspaces")

// DefaultTTL bounds how long an idle workspace is kept.
const DefaultTTL = time.Hour

// ErrInvalidWorkspaceID is returned for IDs that cannot be used as file names.
var ErrInvalidWorkspaceID = domain.ErrInvalidWorkspaceID

// tmpPrefix marks in-flight writes, which List skips.
const tmpPrefix = "tmp-"

// Store implements ports.WorkspaceStore using the local filesystem.
// It stores one indented JSON snapshot per workspace in a directory, so processes
// on one machine can serve the same workspaces without a Redis server.
//
// Like the Redis store it is not an archive: a workspace not saved for TTL is
// treated as gone and removed on the next access.
type Store struct {
	BasePath string
	TTL      time.Duration

	now func() time.Time
}

type Option func(*Store)

// WithTTL sets the expiration of idle workspaces. Zero disables expiration.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.TTL = ttl
	}
}

// New creates a new Store in basePath, or in DefaultDir when basePath is empty.
func New(basePath string, opts ...Option) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	s := &Store{BasePath: basePath, TTL: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// expired reports whether a file last written at mod is past the TTL.
func (s *Store) expired(mod time.Time) bool {
	return s.TTL > 0 && s.now().Sub(mod) > s.TTL
}

func (s *Store) file(workspaceID string) (string, error) {
	if workspaceID == "" || workspaceID == "." || workspaceID == ".." ||
		strings.ContainsAny(workspaceID, `/\`) || strings.HasPrefix(workspaceID, tmpPrefix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidWorkspaceID, workspaceID)
	}
	return filepath.Join(s.BasePath, workspaceID+ext), nil
}

// Save writes the snapshot atomically: to a temporary file in the same directory,
// synced, then renamed over the destination.
func (s *Store) Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error {
	destPath, err := s.file(workspaceID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure workspace directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	// Same directory, so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, tmpPrefix+workspaceID+"-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op after a successful rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to replace workspace file: %w", err)
	}
	return nil
}

// Load reads the snapshot of a workspace.
func (s *Store) Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error) {
	filePath, err := s.file(workspaceID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}
	if s.expired(info.ModTime()) {
		_ = os.Remove(filePath)
		return nil, domain.ErrWorkspaceNotFound
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read workspace file: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workspace %s: %w", workspaceID, err)
	}
	return &snap, nil
}

// Delete removes the workspace file.
func (s *Store) Delete(ctx context.Context, workspaceID string) error {
	filePath, err := s.file(workspaceID)
	if err != nil {
		return err
	}
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete workspace file: %w", err)
	}
	return nil
}

// List returns the stored workspace IDs in sorted order, skipping expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list workspaces: %w", err)
	}

	ids := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ext || strings.HasPrefix(name, tmpPrefix) {
			continue
		}
		if info, err := entry.Info(); err != nil || s.expired(info.ModTime()) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ext))
	}
	sort.Strings(ids)
	return ids, nil
}
