package domain

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the state of one workspace at one revision.
//
// Snapshots are values: every edit produces a new one and leaves the old one intact,
// so any path held against an old snapshot stays meaningful for that snapshot only.
type Snapshot struct {
	// WorkspaceID names the workspace in stores and adapters.
	WorkspaceID string

	// Root is the layout tree.
	Root Node

	// Cache holds per-pane tool state.
	Cache StateCache

	// Focus is the focused pane, if any.
	Focus Focus

	// Revision increases by one with every effective change.
	Revision uint64
}

// NewSnapshot creates a workspace holding a single leaf.
func NewSnapshot(workspaceID string, root Leaf) *Snapshot {
	return &Snapshot{
		WorkspaceID: workspaceID,
		Root:        root,
		Cache:       StateCache{},
		Focus:       NoFocus(),
	}
}

// Clone returns a copy whose cache may be written without affecting s.
// The tree is shared; nodes are never modified in place.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	next := *s
	next.Cache = s.Cache.Clone()
	return &next
}

type snapshotDTO struct {
	WorkspaceID string          `json:"workspace_id"`
	Root        json.RawMessage `json:"root"`
	Cache       StateCache      `json:"cache"`
	Focus       Focus           `json:"focus"`
	Revision    uint64          `json:"revision"`
}

// MarshalJSON implements json.Marshaler.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	root, err := MarshalNode(s.Root)
	if err != nil {
		return nil, err
	}
	cache := s.Cache
	if cache == nil {
		cache = StateCache{}
	}
	return json.Marshal(snapshotDTO{
		WorkspaceID: s.WorkspaceID,
		Root:        root,
		Cache:       cache,
		Focus:       s.Focus,
		Revision:    s.Revision,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var dto snapshotDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	root, err := UnmarshalNode(dto.Root)
	if err != nil {
		return err
	}
	if dto.Cache == nil {
		dto.Cache = StateCache{}
	}
	*s = Snapshot{
		WorkspaceID: dto.WorkspaceID,
		Root:        root,
		Cache:       dto.Cache,
		Focus:       dto.Focus,
		Revision:    dto.Revision,
	}
	return nil
}
