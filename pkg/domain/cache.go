package domain

// StateCache maps a pane key to opaque tool state.
//
// Keys are not reconciled on structural edits; lookups for moved or closed panes may
// return stale values or nothing, and consumers must tolerate both.
type StateCache map[string]any

// Clone returns a shallow copy. Values are shared; tools treat them as immutable.
func (c StateCache) Clone() StateCache {
	out := make(StateCache, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Lookup returns the value stored under key.
func (c StateCache) Lookup(key string) (any, bool) {
	v, ok := c[key]
	return v, ok
}

// PaneKeyPrefix marks cache keys derived from a pane identity instead of a path.
const PaneKeyPrefix = "pane/"

// PaneKey is the cache key of a pane when the cache is keyed by pane identity.
func PaneKey(id PaneID) string {
	return PaneKeyPrefix + string(id)
}
