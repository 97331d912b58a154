package notifystore

import (
	"context"
	"sync"

	"github.com/ecoquest/quest-engine/internal/domain/quest"
)

// MemoryStore keeps in-app notification records in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	byUser map[string][]quest.Notification
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byUser: make(map[string][]quest.Notification)}
}

// SaveNotification prepends the record, newest first.
func (s *MemoryStore) SaveNotification(_ context.Context, n quest.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[n.UserID] = append([]quest.Notification{n}, s.byUser[n.UserID]...)
	return nil
}

// ListNotifications returns up to limit records, newest first.
func (s *MemoryStore) ListNotifications(_ context.Context, userID string, limit int) ([]quest.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.byUser[userID]
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}
	out := make([]quest.Notification, limit)
	copy(out, records[:limit])
	return out, nil
}

var _ quest.NotificationStore = (*MemoryStore)(nil)
