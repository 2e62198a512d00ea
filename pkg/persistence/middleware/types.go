package middleware

import "github.com/aretw0/mosaic/pkg/ports"

// Middleware allows wrapping a WorkspaceStore to add behavior.
type Middleware func(ports.WorkspaceStore) ports.WorkspaceStore

// Chain wraps store so that a Save passes through mws in order, the first one
// seeing the snapshot as the engine produced it.
func Chain(store ports.WorkspaceStore, mws ...Middleware) ports.WorkspaceStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
