package quest

import (
	"time"

	"github.com/google/uuid"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

const defaultDurationMin = 60

// Synthesizer turns an environmental snapshot and a user profile into
// candidate quests by evaluating the rule catalog. It is deterministic
// for a given snapshot and profile apart from generated IDs and the
// creation timestamp.
type Synthesizer struct {
	timezone *time.Location
	now      func() time.Time
	newID    func() string
}

// NewSynthesizer builds a synthesizer. The timezone drives the daylight
// gate on clear-sky quests.
func NewSynthesizer(tz *time.Location) *Synthesizer {
	if tz == nil {
		tz = time.UTC
	}
	return &Synthesizer{
		timezone: tz,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// Synthesize evaluates every catalog rule against the snapshot and
// instantiates a quest for each rule that fires.
func (s *Synthesizer) Synthesize(snap environment.Snapshot, prof profile.Profile) []Quest {
	now := s.now().UTC()
	rc := ruleContext{
		snap:      snap,
		profile:   prof,
		localHour: now.In(s.timezone).Hour(),
	}

	var quests []Quest
	for _, r := range catalog {
		if !r.when(rc) {
			continue
		}
		quests = append(quests, s.instantiate(r, r.build(rc), rc, now))
	}
	return quests
}

func (s *Synthesizer) instantiate(r rule, tpl template, rc ruleContext, now time.Time) Quest {
	total := tpl.BonusPoints
	maxDuration := 0
	for _, o := range tpl.Objectives {
		total += o.Points
		if o.DurationMin > maxDuration {
			maxDuration = o.DurationMin
		}
	}
	if maxDuration == 0 {
		maxDuration = defaultDurationMin
	}

	rarity := tpl.Rarity
	if rarity == "" {
		rarity = RarityCommon
	}

	q := Quest{
		ID:                s.newID(),
		UserID:            rc.profile.UserID,
		Title:             tpl.Title,
		Description:       tpl.Description,
		Type:              r.questType,
		Category:          r.category,
		Urgency:           tpl.Urgency,
		Rarity:            rarity,
		Status:            StatusActive,
		TotalPoints:       total,
		BonusPoints:       tpl.BonusPoints,
		Progress:          0,
		Objectives:        tpl.Objectives,
		EstimatedDuration: maxDuration,
		DifficultyScore:   difficultyScore(len(tpl.Objectives), total, tpl.Urgency),
		PersonalizedTips:  personalTips(r, tpl, rc.profile),
		Triggers:          buildTriggers(tpl, rc.snap),
		CreatedAt:         now,
	}
	if tpl.ValidFor > 0 {
		until := now.Add(tpl.ValidFor)
		q.ValidUntil = &until
	}
	return q
}

// difficultyScore is 10 per objective, a tenth of the point total, plus
// the urgency weight, capped at 100.
func difficultyScore(objectives, totalPoints int, urgency Urgency) int {
	score := 10*objectives + totalPoints/10 + urgency.Weight()
	if score > 100 {
		score = 100
	}
	return score
}

func buildTriggers(tpl template, snap environment.Snapshot) Triggers {
	var t Triggers
	if tpl.WithWeather {
		t.Weather = &WeatherTrigger{
			TemperatureC: snap.TemperatureC,
			FeelsLikeC:   snap.FeelsLikeC,
			HumidityPct:  snap.HumidityPct,
			WindSpeedMS:  snap.WindSpeedMS,
			Condition:    snap.Condition,
		}
	}
	if tpl.WithAir {
		t.Air = &AirTrigger{
			AQI:  snap.AQI,
			PM25: snap.PM25,
			PM10: snap.PM10,
		}
	}
	return t
}

func personalTips(r rule, tpl template, prof profile.Profile) []string {
	var tips []string
	if prof.HasSolarPanels && r.category == "sunny_day" {
		tips = append(tips, "Your solar panels are at peak output right now: run the dishwasher and charge devices for free.")
	}
	if prof.HasAC && (r.category == "extreme_heat" || r.category == "high_heat" || r.category == "triple_challenge") {
		tips = append(tips, "Clean AC filters before the hot spell: a clogged filter wastes up to 15% of cooling energy.")
	}
	switch prof.SkillTier {
	case profile.TierBeginner:
		tips = append(tips, "Every objective counts. Complete just one to get started and bank the points.")
	case profile.TierAdvanced:
		if tpl.Urgency == UrgencyExtreme || r.questType == TypeCombo {
			tips = append(tips, "Finish every objective before the quest expires for the full streak bonus.")
		}
	}
	return tips
}
