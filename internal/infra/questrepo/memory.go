package questrepo

import (
	"context"
	"sync"

	"github.com/ecoquest/quest-engine/internal/domain/quest"
)

// MemoryRepository provides an in-memory quest store for tests/dev.
type MemoryRepository struct {
	mu     sync.RWMutex
	quests map[string]quest.Quest
	byUser map[string][]string
}

// NewMemoryRepository constructs a store backed by process memory.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		quests: make(map[string]quest.Quest),
		byUser: make(map[string][]string),
	}
}

// Save stores a new quest.
func (r *MemoryRepository) Save(_ context.Context, q quest.Quest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.quests[q.ID]; !exists {
		r.byUser[q.UserID] = append(r.byUser[q.UserID], q.ID)
	}
	r.quests[q.ID] = q
	return nil
}

// SaveBatch stores the quests under a single lock, all or nothing.
func (r *MemoryRepository) SaveBatch(_ context.Context, quests []quest.Quest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range quests {
		if _, exists := r.quests[q.ID]; !exists {
			r.byUser[q.UserID] = append(r.byUser[q.UserID], q.ID)
		}
		r.quests[q.ID] = q
	}
	return nil
}

// Get fetches a quest by ID.
func (r *MemoryRepository) Get(_ context.Context, id string) (quest.Quest, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quests[id]
	return q, ok, nil
}

// Update overwrites a stored quest.
func (r *MemoryRepository) Update(_ context.Context, q quest.Quest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.quests[q.ID]; !exists {
		r.byUser[q.UserID] = append(r.byUser[q.UserID], q.ID)
	}
	r.quests[q.ID] = q
	return nil
}

// ListByUser returns every quest owned by the user, insertion-ordered.
func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]quest.Quest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byUser[userID]
	out := make([]quest.Quest, 0, len(ids))
	for _, id := range ids {
		if q, ok := r.quests[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

// ActiveKeys returns the dedup-key index of the user's open quests.
func (r *MemoryRepository) ActiveKeys(_ context.Context, userID string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make(map[string]string)
	for _, id := range r.byUser[userID] {
		q, ok := r.quests[id]
		if !ok || !q.IsOpen() {
			continue
		}
		if _, exists := keys[q.DedupKey()]; !exists {
			keys[q.DedupKey()] = q.ID
		}
	}
	return keys, nil
}

// ListOpen returns every open quest across all users.
func (r *MemoryRepository) ListOpen(_ context.Context) ([]quest.Quest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []quest.Quest
	for _, q := range r.quests {
		if q.IsOpen() {
			out = append(out, q)
		}
	}
	return out, nil
}

var _ quest.Repository = (*MemoryRepository)(nil)
