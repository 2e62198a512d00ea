package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/mosaic/pkg/domain"
	"github.com/aretw0/mosaic/pkg/session"
)

// streamBuffer is how many diffs a slow client may lag behind before drops start.
const streamBuffer = 10

// StreamManager handles active SSE connections, grouped by workspace.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // WorkspaceID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty StreamManager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a new client of workspaceID. The returned function
// unregisters it and closes the channel.
func (sm *StreamManager) Subscribe(workspaceID string) (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, streamBuffer)
	if _, ok := sm.subscribers[workspaceID]; !ok {
		sm.subscribers[workspaceID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[workspaceID][ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			sm.mu.Lock()
			defer sm.mu.Unlock()
			if subs, ok := sm.subscribers[workspaceID]; ok {
				delete(subs, ch)
				if len(subs) == 0 {
					delete(sm.subscribers, workspaceID)
				}
			}
			close(ch)
		})
	}
}

// Subscribers returns the number of clients following workspaceID.
func (sm *StreamManager) Subscribers(workspaceID string) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers[workspaceID])
}

// Broadcast sends msg to every client of workspaceID without blocking.
func (sm *StreamManager) Broadcast(workspaceID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	subs, ok := sm.subscribers[workspaceID]
	if !ok {
		return
	}
	sm.logger.Debug("broadcasting diff", "workspace_id", workspaceID, "subscribers", len(subs), "payload_size", len(msg))
	for ch := range subs {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE client buffer full, dropping diff", "workspace_id", workspaceID)
		}
	}
}

// Publish encodes diff and broadcasts it.
func (sm *StreamManager) Publish(workspaceID string, diff *domain.SnapshotDiff) {
	if diff == nil || diff.IsEmpty() {
		return
	}
	data, err := json.Marshal(diff)
	if err != nil {
		sm.logger.Error("failed to encode diff", "workspace_id", workspaceID, "error", err)
		return
	}
	sm.Broadcast(workspaceID, string(data))
}

// Listener adapts the StreamManager to session change notifications, so every change
// applied through a session.Manager reaches the SSE clients of that workspace.
func (sm *StreamManager) Listener() session.ChangeListener {
	return func(_ context.Context, workspaceID string, diff *domain.SnapshotDiff) {
		sm.Publish(workspaceID, diff)
	}
}
