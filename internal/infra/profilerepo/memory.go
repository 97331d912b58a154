package profilerepo

import (
	"context"
	"sync"

	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

// MemoryRepository provides an in-memory profile store for tests/dev.
type MemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]profile.Profile
}

// NewMemoryRepository constructs a new in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{profiles: make(map[string]profile.Profile)}
}

// Get returns a profile by user ID.
func (r *MemoryRepository) Get(_ context.Context, userID string) (profile.Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	return p, ok, nil
}

// Save stores or overwrites the profile.
func (r *MemoryRepository) Save(_ context.Context, p profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.UserID] = p
	return nil
}

var _ profile.Repository = (*MemoryRepository)(nil)
