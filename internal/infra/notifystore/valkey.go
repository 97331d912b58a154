package notifystore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/ecoquest/quest-engine/internal/domain/quest"
)

const maxStoredNotifications = 100

// ValkeyStore persists notification records in a Valkey-compatible
// database, one list per user, newest first.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	ttl    time.Duration
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string, ttl time.Duration) *ValkeyStore {
	if prefix == "" {
		prefix = "notify"
	}
	return &ValkeyStore{client: client, prefix: prefix, ttl: ttl}
}

// SaveNotification pushes the record and trims the list to its cap.
func (s *ValkeyStore) SaveNotification(ctx context.Context, n quest.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}
	key := s.userKey(n.UserID)
	if err := s.client.Do(ctx, s.client.B().Lpush().Key(key).Element(string(payload)).Build()).Error(); err != nil {
		return err
	}
	if err := s.client.Do(ctx, s.client.B().Ltrim().Key(key).Start(0).Stop(maxStoredNotifications-1).Build()).Error(); err != nil {
		return err
	}
	if s.ttl > 0 {
		_ = s.client.Do(ctx, s.client.B().Expire().Key(key).Seconds(int64(s.ttl.Seconds())).Build()).Error()
	}
	return nil
}

// ListNotifications returns up to limit records, newest first.
func (s *ValkeyStore) ListNotifications(ctx context.Context, userID string, limit int) ([]quest.Notification, error) {
	if limit <= 0 || limit > maxStoredNotifications {
		limit = maxStoredNotifications
	}
	resp := s.client.Do(ctx, s.client.B().Lrange().Key(s.userKey(userID)).Start(0).Stop(int64(limit-1)).Build())
	entries, err := resp.AsStrSlice()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]quest.Notification, 0, len(entries))
	for _, entry := range entries {
		var n quest.Notification
		if err := json.Unmarshal([]byte(entry), &n); err != nil {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *ValkeyStore) userKey(userID string) string {
	return s.prefix + ":user:" + userID
}

var _ quest.NotificationStore = (*ValkeyStore)(nil)
