package domain

import (
	"encoding/json"
	"reflect"
)

// SnapshotDiff represents the changes between two snapshots.
// It is serialized to JSON for partial updates on streaming clients.
type SnapshotDiff struct {
	WorkspaceID string `json:"workspace_id"`
	Revision    uint64 `json:"revision"`

	// Root is the whole new tree when the layout changed. Trees are small and paths
	// shift on every structural edit, so there is no finer delta.
	Root Node `json:"-"`

	// Focus is set when focus changed.
	Focus *Focus `json:"focus,omitempty"`

	// Cache contains only written or deleted keys; deleted keys map to nil.
	Cache map[string]any `json:"cache,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// A nil oldSnap yields the whole of newSnap (initial load). It returns nil when
// nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		WorkspaceID: newSnap.WorkspaceID,
		Revision:    newSnap.Revision,
	}

	if oldSnap == nil || !Equal(oldSnap.Root, newSnap.Root) {
		diff.Root = newSnap.Root
	}
	if oldSnap == nil || !oldSnap.Focus.Equal(newSnap.Focus) {
		f := newSnap.Focus
		diff.Focus = &f
	}
	diff.Cache = diffCache(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffCache(oldSnap, newSnap *Snapshot) map[string]any {
	delta := make(map[string]any)

	if oldSnap == nil {
		for k, v := range newSnap.Cache {
			delta[k] = v
		}
		if len(delta) == 0 {
			return nil
		}
		return delta
	}

	for k, newVal := range newSnap.Cache {
		oldVal, exists := oldSnap.Cache[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}
	for k := range oldSnap.Cache {
		if _, exists := newSnap.Cache[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.Root == nil && d.Focus == nil && len(d.Cache) == 0
}

type snapshotDiffDTO struct {
	WorkspaceID string         `json:"workspace_id"`
	Revision    uint64         `json:"revision"`
	Root        *nodeDTO       `json:"root,omitempty"`
	Focus       *Focus         `json:"focus,omitempty"`
	Cache       map[string]any `json:"cache,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d SnapshotDiff) MarshalJSON() ([]byte, error) {
	dto := snapshotDiffDTO{
		WorkspaceID: d.WorkspaceID,
		Revision:    d.Revision,
		Focus:       d.Focus,
		Cache:       d.Cache,
	}
	if d.Root != nil {
		dto.Root = toDTO(d.Root)
	}
	return json.Marshal(dto)
}
