package quest

import (
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
)

// Type classifies which environmental axis produced a quest.
type Type string

const (
	TypeTemperature      Type = "temperature"
	TypeAirQuality       Type = "air_quality"
	TypeHumidity         Type = "humidity"
	TypeWeatherCondition Type = "weather_condition"
	TypeExtremeWeather   Type = "extreme_weather"
	TypeCombo            Type = "combo"
)

// Urgency is the ordered severity classification driving sort order and
// notification eligibility.
type Urgency string

const (
	UrgencyLow     Urgency = "LOW"
	UrgencyMedium  Urgency = "MEDIUM"
	UrgencyHigh    Urgency = "HIGH"
	UrgencyExtreme Urgency = "EXTREME"
)

// Rank maps urgency onto a comparable scale (EXTREME=4 .. LOW=1).
func (u Urgency) Rank() int {
	switch u {
	case UrgencyExtreme:
		return 4
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// Weight contributes to the difficulty score.
func (u Urgency) Weight() int {
	switch u {
	case UrgencyExtreme:
		return 50
	case UrgencyHigh:
		return 30
	case UrgencyMedium:
		return 15
	case UrgencyLow:
		return 5
	default:
		return 0
	}
}

// Status is the quest lifecycle state.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusAccepted   Status = "ACCEPTED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusSkipped    Status = "SKIPPED"
	StatusExpired    Status = "EXPIRED"
)

// Rarity marks how uncommon the triggering conditions are.
type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityLegendary Rarity = "LEGENDARY"
)

// Objective is one concrete, independently completable action within a
// quest. Objectives are owned exclusively by their parent quest.
type Objective struct {
	Action       string     `json:"action"`
	Completed    bool       `json:"completed"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	Points       int        `json:"points"`
	Tip          string     `json:"tip,omitempty"`
	EnergySaving string     `json:"energySaving,omitempty"`
	DurationMin  int        `json:"durationMin,omitempty"`
}

// WeatherTrigger records the weather reading that caused a quest.
type WeatherTrigger struct {
	TemperatureC float64               `json:"temperatureC"`
	FeelsLikeC   float64               `json:"feelsLikeC"`
	HumidityPct  float64               `json:"humidityPercent"`
	WindSpeedMS  float64               `json:"windSpeedMs"`
	Condition    environment.Condition `json:"condition"`
}

// AirTrigger records the air-quality reading that caused a quest.
type AirTrigger struct {
	AQI  int     `json:"aqi"`
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
}

// Triggers explains why a quest was synthesized.
type Triggers struct {
	Weather *WeatherTrigger `json:"weather,omitempty"`
	Air     *AirTrigger     `json:"air,omitempty"`
}

// Quest is a gamified, time-bounded energy-saving challenge.
//
// TotalPoints is fixed at creation time (objective points plus any combo
// bonus) and never changes afterwards. Progress is always derived from
// the objective completion count.
type Quest struct {
	ID                string      `json:"id"`
	UserID            string      `json:"userId"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	Type              Type        `json:"type"`
	Category          string      `json:"category"`
	Urgency           Urgency     `json:"urgency"`
	Rarity            Rarity      `json:"rarity"`
	Status            Status      `json:"status"`
	TotalPoints       int         `json:"totalPoints"`
	BonusPoints       int         `json:"bonusPoints,omitempty"`
	Progress          float64     `json:"progress"` // 0-100
	Objectives        []Objective `json:"objectives"`
	EstimatedDuration int         `json:"estimatedDurationMin"`
	DifficultyScore   int         `json:"difficultyScore"` // 0-100
	PersonalizedTips  []string    `json:"personalizedTips,omitempty"`
	Triggers          Triggers    `json:"triggers"`
	CreatedAt         time.Time   `json:"createdAt"`
	ValidUntil        *time.Time  `json:"validUntil,omitempty"`
	AcceptedAt        *time.Time  `json:"acceptedAt,omitempty"`
	CompletedAt       *time.Time  `json:"completedAt,omitempty"`
}

// DedupKey is the (type, category) pair preventing redundant concurrent
// quests of the same kind.
func (q Quest) DedupKey() string {
	return string(q.Type) + "_" + q.Category
}

// IsOpen reports whether the quest still occupies its dedup key.
func (q Quest) IsOpen() bool {
	switch q.Status {
	case StatusActive, StatusAccepted, StatusInProgress:
		return true
	default:
		return false
	}
}

func (q *Quest) recomputeProgress() {
	if len(q.Objectives) == 0 {
		q.Progress = 0
		return
	}
	done := 0
	for _, o := range q.Objectives {
		if o.Completed {
			done++
		}
	}
	q.Progress = 100 * float64(done) / float64(len(q.Objectives))
}
