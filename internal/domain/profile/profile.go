package profile

import "context"

// SkillTier buckets users by how much energy-saving experience they have.
type SkillTier string

const (
	TierBeginner SkillTier = "beginner"
	TierMedium   SkillTier = "medium"
	TierAdvanced SkillTier = "advanced"
)

// Profile captures the user attributes quest synthesis personalizes on.
// The engine only reads profiles; a collaborator store owns them.
type Profile struct {
	UserID               string    `json:"userId"`
	HasAC                bool      `json:"hasAc"`
	HasSolarPanels       bool      `json:"hasSolarPanels"`
	SkillTier            SkillTier `json:"skillTier"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
}

// Default is substituted when the profile store cannot serve a user.
func Default(userID string) Profile {
	return Profile{
		UserID:               userID,
		SkillTier:            TierBeginner,
		NotificationsEnabled: true,
	}
}

// Repository abstracts the collaborator profile store.
type Repository interface {
	Get(ctx context.Context, userID string) (Profile, bool, error)
	Save(ctx context.Context, p Profile) error
}
