package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]uuid.UUID
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{sessions: make(map[uuid.UUID]uuid.UUID)}
}

func (r *MemoryRegistry) Bind(_ context.Context, connID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[connID] = userID
	return nil
}

func (r *MemoryRegistry) Lookup(_ context.Context, connID uuid.UUID) (uuid.UUID, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userID, ok := r.sessions[connID]
	return userID, ok, nil
}

func (r *MemoryRegistry) Unbind(_ context.Context, connID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connID)
	return nil
}
