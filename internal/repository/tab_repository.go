package repository

import (
	"context"
	"sync"

	"github.com/albinmanuel/student-management-client/internal/entity"
)

// TabRepository persists per-tab session state (token + display name)
// across console requests. It is the Go counterpart of the browser's
// per-tab storage: written on login, wiped on logout.
type TabRepository interface {
	Save(ctx context.Context, tabID string, state entity.TabState) error
	Load(ctx context.Context, tabID string) (entity.TabState, error)
	Delete(ctx context.Context, tabID string) error
}

// MemoryTabRepository is the default single-replica store.
type MemoryTabRepository struct {
	mu   sync.RWMutex
	tabs map[string]entity.TabState
}

func NewMemoryTabRepository() *MemoryTabRepository {
	return &MemoryTabRepository{
		tabs: make(map[string]entity.TabState),
	}
}

func (r *MemoryTabRepository) Save(_ context.Context, tabID string, state entity.TabState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tabs[tabID] = state

	return nil
}

func (r *MemoryTabRepository) Load(_ context.Context, tabID string) (entity.TabState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.tabs[tabID]
	if !ok {
		return entity.TabState{}, entity.ErrTabNotFound
	}

	return state, nil
}

func (r *MemoryTabRepository) Delete(_ context.Context, tabID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tabs, tabID)

	return nil
}
