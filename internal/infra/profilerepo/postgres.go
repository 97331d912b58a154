package profilerepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

// PostgresRepository persists user profiles in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get returns a profile by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (profile.Profile, bool, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT user_id, has_ac, has_solar_panels, skill_tier, notifications_enabled
		FROM profiles WHERE user_id = $1
	`, userID)

	var (
		p    profile.Profile
		tier string
	)
	err := row.Scan(&p.UserID, &p.HasAC, &p.HasSolarPanels, &tier, &p.NotificationsEnabled)
	if errors.Is(err, pgx.ErrNoRows) {
		return profile.Profile{}, false, nil
	}
	if err != nil {
		return profile.Profile{}, false, err
	}
	p.SkillTier = profile.SkillTier(tier)
	return p, true, nil
}

// Save upserts the profile row.
func (r *PostgresRepository) Save(ctx context.Context, p profile.Profile) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, has_ac, has_solar_panels, skill_tier, notifications_enabled)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET has_ac = EXCLUDED.has_ac,
		    has_solar_panels = EXCLUDED.has_solar_panels,
		    skill_tier = EXCLUDED.skill_tier,
		    notifications_enabled = EXCLUDED.notifications_enabled
	`, p.UserID, p.HasAC, p.HasSolarPanels, string(p.SkillTier), p.NotificationsEnabled)
	return err
}

var _ profile.Repository = (*PostgresRepository)(nil)
