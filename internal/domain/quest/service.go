package quest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
	apperrors "github.com/ecoquest/quest-engine/pkg/errors"
	"github.com/ecoquest/quest-engine/pkg/metrics"
	"github.com/ecoquest/quest-engine/pkg/util"
)

// ActionKind enumerates the quest actions a user can take.
type ActionKind string

const (
	ActionAccept            ActionKind = "accept"
	ActionCompleteObjective ActionKind = "complete_objective"
	ActionSkip              ActionKind = "skip"
)

// Action is a user-initiated quest state change.
type Action struct {
	Kind           ActionKind `json:"kind"`
	ObjectiveIndex int        `json:"objectiveIndex"`
}

// Repository persists quests across synthesis cycles.
type Repository interface {
	Save(ctx context.Context, q Quest) error
	// SaveBatch persists one synthesis batch atomically: either every
	// quest lands or none do.
	SaveBatch(ctx context.Context, quests []Quest) error
	Get(ctx context.Context, id string) (Quest, bool, error)
	Update(ctx context.Context, q Quest) error
	ListByUser(ctx context.Context, userID string) ([]Quest, error)
	// ActiveKeys returns the dedup-key-to-quest-id index of the user's
	// open quests, consulted before admitting new candidates.
	ActiveKeys(ctx context.Context, userID string) (map[string]string, error)
	ListOpen(ctx context.Context) ([]Quest, error)
}

// Service is the quest engine's primary entry point.
type Service interface {
	Generate(ctx context.Context, userID string, loc environment.Location) ([]Quest, error)
	List(ctx context.Context, userID string) ([]Quest, error)
	ApplyAction(ctx context.Context, questID string, action Action) (Quest, error)
	Notifications(ctx context.Context, userID string, limit int) ([]Notification, error)
	SweepExpired(ctx context.Context) (int, error)
}

type service struct {
	env        environment.Service
	profiles   profile.Repository
	repo       Repository
	synth      *Synthesizer
	dispatcher *Dispatcher
	notify     NotificationStore
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires up the quest engine.
func NewService(env environment.Service, profiles profile.Repository, repo Repository, synth *Synthesizer, dispatcher *Dispatcher, notify NotificationStore, logger *slog.Logger) Service {
	return &service{
		env:        env,
		profiles:   profiles,
		repo:       repo,
		synth:      synth,
		dispatcher: dispatcher,
		notify:     notify,
		logger:     logger.With("component", "quest.service"),
		now:        util.NowUTC,
	}
}

// Generate runs one synthesis cycle: snapshot, rule evaluation, dedup
// and prioritization, persistence, then best-effort urgent dispatch.
// Synthesis failures are fail-closed: the caller gets an empty list and
// a generic error, never a partial batch.
func (s *service) Generate(ctx context.Context, userID string, loc environment.Location) (quests []Quest, err error) {
	if userID == "" {
		return nil, apperrors.Wrap("invalid_input", "userId is required", nil)
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("synthesis panicked", "userId", userID, "panic", r)
			quests = nil
			err = apperrors.Wrap("synthesis_failed", "quest generation failed", fmt.Errorf("%v", r))
		}
	}()

	snap := s.env.GetSnapshot(ctx, loc)

	prof, found, profErr := s.profiles.Get(ctx, userID)
	if profErr != nil || !found {
		if profErr != nil {
			s.logger.Warn("profile fetch failed, using default profile", "userId", userID, "error", profErr)
		}
		prof = profile.Default(userID)
	}

	candidates := s.synth.Synthesize(snap, prof)

	activeKeys, err := s.repo.ActiveKeys(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load active quests", err)
	}

	final := ProcessAndPrioritize(candidates, activeKeys)
	if err := s.repo.SaveBatch(ctx, final); err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to persist quests", err)
	}

	urgent := make([]Quest, 0, len(final))
	for _, q := range final {
		if q.Urgency.Rank() >= UrgencyHigh.Rank() && prof.NotificationsEnabled {
			urgent = append(urgent, q)
		}
	}
	if len(urgent) > 0 {
		// Dispatch must not delay returning quest data to the caller.
		go s.dispatcher.Dispatch(context.WithoutCancel(ctx), urgent)
	}

	stats := metrics.GenerationStats{
		Candidates: len(candidates),
		Deduped:    len(candidates) - len(final),
		Persisted:  len(final),
		Urgent:     len(urgent),
		Synthetic:  snap.Synthetic,
	}
	if stats.IsZero() {
		s.logger.Debug("synthesis cycle produced nothing", "userId", userID, "location", loc.Key())
	} else {
		s.logger.Info("synthesis cycle complete", "userId", userID, "location", loc.Key(),
			"candidates", stats.Candidates, "deduped", stats.Deduped, "persisted", stats.Persisted,
			"urgent", stats.Urgent, "syntheticSnapshot", stats.Synthetic)
	}

	return final, nil
}

// List returns the user's quests, applying the lazy expiry check on read.
func (s *service) List(ctx context.Context, userID string) ([]Quest, error) {
	if userID == "" {
		return nil, apperrors.Wrap("invalid_input", "userId is required", nil)
	}
	quests, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list quests", err)
	}
	now := s.now()
	for i := range quests {
		if ExpireIfPast(&quests[i], now) {
			if err := s.repo.Update(ctx, quests[i]); err != nil {
				s.logger.Warn("failed to persist expiry", "questId", quests[i].ID, "error", err)
			}
		}
	}
	SortByPriority(quests)
	return quests, nil
}

// ApplyAction applies accept, complete_objective or skip to a quest.
func (s *service) ApplyAction(ctx context.Context, questID string, action Action) (Quest, error) {
	if questID == "" {
		return Quest{}, apperrors.Wrap("invalid_input", "questId is required", nil)
	}

	q, found, err := s.repo.Get(ctx, questID)
	if err != nil {
		return Quest{}, apperrors.Wrap("storage_error", "failed to load quest", err)
	}
	if !found {
		return Quest{}, apperrors.Wrap("not_found", "quest not found", nil)
	}

	now := s.now()
	if ExpireIfPast(&q, now) {
		if err := s.repo.Update(ctx, q); err != nil {
			s.logger.Warn("failed to persist expiry", "questId", q.ID, "error", err)
		}
		return Quest{}, apperrors.Wrap("invalid_state", "quest has expired", nil)
	}

	switch action.Kind {
	case ActionAccept:
		err = Accept(&q, now)
	case ActionCompleteObjective:
		err = CompleteObjective(&q, action.ObjectiveIndex, now)
	case ActionSkip:
		err = Skip(&q)
	default:
		return Quest{}, apperrors.Wrap("invalid_input", "unknown action kind", nil)
	}
	if err != nil {
		return Quest{}, err
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return Quest{}, apperrors.Wrap("storage_error", "failed to persist quest", err)
	}
	return q, nil
}

// Notifications lists the user's in-app notification records.
func (s *service) Notifications(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if userID == "" {
		return nil, apperrors.Wrap("invalid_input", "userId is required", nil)
	}
	records, err := s.notify.ListNotifications(ctx, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list notifications", err)
	}
	return records, nil
}

// SweepExpired transitions every open quest past its validity window to
// EXPIRED and reports how many changed.
func (s *service) SweepExpired(ctx context.Context) (int, error) {
	open, err := s.repo.ListOpen(ctx)
	if err != nil {
		return 0, apperrors.Wrap("storage_error", "failed to list open quests", err)
	}
	now := s.now()
	expired := 0
	for i := range open {
		if !ExpireIfPast(&open[i], now) {
			continue
		}
		if err := s.repo.Update(ctx, open[i]); err != nil {
			s.logger.Warn("failed to persist expiry", "questId", open[i].ID, "error", err)
			continue
		}
		expired++
	}
	if expired > 0 {
		s.logger.Info("expiry sweep complete", "expired", expired)
	}
	return expired, nil
}
