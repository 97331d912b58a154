package quest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// PushMessage is the payload handed to the push sink for one urgent quest.
type PushMessage struct {
	UserID     string     `json:"userId"`
	QuestID    string     `json:"questId"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Urgency    Urgency    `json:"urgency"`
	Points     int        `json:"points"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// Notification is the persisted in-app record of an urgent quest.
type Notification struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	QuestID    string     `json:"questId"`
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Urgency    Urgency    `json:"urgency"`
	Points     int        `json:"points"`
	CreatedAt  time.Time  `json:"createdAt"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
}

// PushSink delivers push-style messages to a collaborator transport.
type PushSink interface {
	SendPush(ctx context.Context, msg PushMessage) error
}

// NotificationStore persists in-app notification records.
type NotificationStore interface {
	SaveNotification(ctx context.Context, n Notification) error
	ListNotifications(ctx context.Context, userID string, limit int) ([]Notification, error)
}

// Dispatcher fans urgent quests out to the push sink and the in-app
// store. The two sinks are independent: a failure in one is logged and
// never blocks the other.
type Dispatcher struct {
	push   PushSink
	store  NotificationStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// NewDispatcher wires the notification fan-out.
func NewDispatcher(push PushSink, store NotificationStore, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		push:   push,
		store:  store,
		logger: logger.With("component", "quest.dispatcher"),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Dispatch emits one push message and one in-app record per quest with
// urgency HIGH or EXTREME. Delivery is best effort.
func (d *Dispatcher) Dispatch(ctx context.Context, quests []Quest) {
	for _, q := range quests {
		if q.Urgency.Rank() < UrgencyHigh.Rank() {
			continue
		}
		body := notificationBody(q)

		if err := d.push.SendPush(ctx, PushMessage{
			UserID:     q.UserID,
			QuestID:    q.ID,
			Title:      q.Title,
			Body:       body,
			Urgency:    q.Urgency,
			Points:     q.TotalPoints,
			ValidUntil: q.ValidUntil,
		}); err != nil {
			d.logger.Warn("push delivery failed", "questId", q.ID, "error", err)
		}

		if err := d.store.SaveNotification(ctx, Notification{
			ID:         d.newID(),
			UserID:     q.UserID,
			QuestID:    q.ID,
			Title:      q.Title,
			Body:       body,
			Urgency:    q.Urgency,
			Points:     q.TotalPoints,
			CreatedAt:  d.now().UTC(),
			ValidUntil: q.ValidUntil,
		}); err != nil {
			d.logger.Warn("in-app notification save failed", "questId", q.ID, "error", err)
		}
	}
}

func notificationBody(q Quest) string {
	return fmt.Sprintf("%s urgency quest worth %d points: %s", q.Urgency, q.TotalPoints, q.Description)
}
