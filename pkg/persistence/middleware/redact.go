package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/ports"
)

// Mask replaces redacted values.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.WorkspaceStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks the fields of cached tool
// state whose names match one of the patterns, at any depth. Masked values are lost:
// the in-memory snapshot keeps them, the store never sees them.
func NewRedactionMiddleware(patterns []string) (Middleware, error) {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.WorkspaceStore) ports.WorkspaceStore {
		return &redactionMiddleware{next: next, patterns: compiled}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, workspaceID string, snap *domain.Snapshot) error {
	masked := snap.Clone()
	for key, value := range snap.Cache {
		// Tool state may be any JSON-encodable value; work on its generic form so
		// struct fields are matched by their JSON names.
		generic, err := normalize(value)
		if err != nil {
			return fmt.Errorf("failed to normalize cache entry %q: %w", key, err)
		}
		masked.Cache[key] = m.mask(generic)
	}
	return m.next.Save(ctx, workspaceID, masked)
}

func (m *redactionMiddleware) Load(ctx context.Context, workspaceID string) (*domain.Snapshot, error) {
	return m.next.Load(ctx, workspaceID)
}

func (m *redactionMiddleware) Delete(ctx context.Context, workspaceID string) error {
	return m.next.Delete(ctx, workspaceID)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// mask returns v with matching map keys masked. normalize already copied v.
func (m *redactionMiddleware) mask(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, sub := range v {
			if m.matches(k) {
				v[k] = Mask
				continue
			}
			v[k] = m.mask(sub)
		}
		return v
	case []any:
		for i, sub := range v {
			v[i] = m.mask(sub)
		}
		return v
	default:
		return v
	}
}

// normalize deep copies v into maps, slices and scalars through JSON.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
