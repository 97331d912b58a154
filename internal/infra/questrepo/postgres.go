package questrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/quest-engine/internal/domain/quest"
)

// PostgresRepository persists quests in Postgres. Structured fields the
// engine never queries on (objectives, tips, triggers) live in a single
// JSONB payload column.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

type questPayload struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Rarity            quest.Rarity      `json:"rarity"`
	BonusPoints       int               `json:"bonusPoints"`
	Objectives        []quest.Objective `json:"objectives"`
	EstimatedDuration int               `json:"estimatedDurationMin"`
	DifficultyScore   int               `json:"difficultyScore"`
	PersonalizedTips  []string          `json:"personalizedTips,omitempty"`
	Triggers          quest.Triggers    `json:"triggers"`
	AcceptedAt        *time.Time        `json:"acceptedAt,omitempty"`
	CompletedAt       *time.Time        `json:"completedAt,omitempty"`
}

// Save inserts a new quest row.
func (r *PostgresRepository) Save(ctx context.Context, q quest.Quest) error {
	payload, err := marshalPayload(q)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO quests (id, user_id, quest_type, category, urgency, status, total_points, progress, payload, created_at, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, q.ID, q.UserID, string(q.Type), q.Category, string(q.Urgency), string(q.Status), q.TotalPoints, q.Progress, payload, q.CreatedAt, q.ValidUntil)
	return err
}

// SaveBatch inserts the whole batch in one transaction so a mid-batch
// failure persists nothing.
func (r *PostgresRepository) SaveBatch(ctx context.Context, quests []quest.Quest) error {
	if len(quests) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, q := range quests {
		payload, err := marshalPayload(q)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO quests (id, user_id, quest_type, category, urgency, status, total_points, progress, payload, created_at, valid_until)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`, q.ID, q.UserID, string(q.Type), q.Category, string(q.Urgency), string(q.Status), q.TotalPoints, q.Progress, payload, q.CreatedAt, q.ValidUntil); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Get fetches a quest by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (quest.Quest, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, user_id, quest_type, category, urgency, status, total_points, progress, payload, created_at, valid_until
		FROM quests WHERE id = $1
	`, id)
	q, err := scanQuest(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return quest.Quest{}, false, nil
	}
	if err != nil {
		return quest.Quest{}, false, err
	}
	return q, true, nil
}

// Update overwrites the mutable columns of a stored quest.
func (r *PostgresRepository) Update(ctx context.Context, q quest.Quest) error {
	payload, err := marshalPayload(q)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE quests
		SET urgency = $2, status = $3, progress = $4, payload = $5, valid_until = $6
		WHERE id = $1
	`, q.ID, string(q.Urgency), string(q.Status), q.Progress, payload, q.ValidUntil)
	return err
}

// ListByUser returns every quest owned by the user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]quest.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, quest_type, category, urgency, status, total_points, progress, payload, created_at, valid_until
		FROM quests WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuests(rows)
}

// ActiveKeys returns the dedup-key index of the user's open quests.
func (r *PostgresRepository) ActiveKeys(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, quest_type, category
		FROM quests
		WHERE user_id = $1 AND status IN ('ACTIVE', 'ACCEPTED', 'IN_PROGRESS')
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]string)
	for rows.Next() {
		var id, questType, category string
		if err := rows.Scan(&id, &questType, &category); err != nil {
			return nil, err
		}
		key := questType + "_" + category
		if _, exists := keys[key]; !exists {
			keys[key] = id
		}
	}
	return keys, rows.Err()
}

// ListOpen returns every open quest across all users.
func (r *PostgresRepository) ListOpen(ctx context.Context) ([]quest.Quest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, quest_type, category, urgency, status, total_points, progress, payload, created_at, valid_until
		FROM quests WHERE status IN ('ACTIVE', 'ACCEPTED', 'IN_PROGRESS')
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectQuests(rows)
}

func marshalPayload(q quest.Quest) ([]byte, error) {
	data, err := json.Marshal(questPayload{
		Title:             q.Title,
		Description:       q.Description,
		Rarity:            q.Rarity,
		BonusPoints:       q.BonusPoints,
		Objectives:        q.Objectives,
		EstimatedDuration: q.EstimatedDuration,
		DifficultyScore:   q.DifficultyScore,
		PersonalizedTips:  q.PersonalizedTips,
		Triggers:          q.Triggers,
		AcceptedAt:        q.AcceptedAt,
		CompletedAt:       q.CompletedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal quest payload: %w", err)
	}
	return data, nil
}

func scanQuest(row pgx.Row) (quest.Quest, error) {
	var (
		q                          quest.Quest
		questType, urgency, status string
		payload                    []byte
	)
	if err := row.Scan(&q.ID, &q.UserID, &questType, &q.Category, &urgency, &status, &q.TotalPoints, &q.Progress, &payload, &q.CreatedAt, &q.ValidUntil); err != nil {
		return quest.Quest{}, err
	}
	q.Type = quest.Type(questType)
	q.Urgency = quest.Urgency(urgency)
	q.Status = quest.Status(status)

	var p questPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return quest.Quest{}, fmt.Errorf("unmarshal quest payload: %w", err)
	}
	q.Title = p.Title
	q.Description = p.Description
	q.Rarity = p.Rarity
	q.BonusPoints = p.BonusPoints
	q.Objectives = p.Objectives
	q.EstimatedDuration = p.EstimatedDuration
	q.DifficultyScore = p.DifficultyScore
	q.PersonalizedTips = p.PersonalizedTips
	q.Triggers = p.Triggers
	q.AcceptedAt = p.AcceptedAt
	q.CompletedAt = p.CompletedAt
	return q, nil
}

func collectQuests(rows pgx.Rows) ([]quest.Quest, error) {
	var out []quest.Quest
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

var _ quest.Repository = (*PostgresRepository)(nil)
