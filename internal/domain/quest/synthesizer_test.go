package quest

import (
	"testing"
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

func TestInstantiateDerivedFields(t *testing.T) {
	s := testSynthesizer()
	snap := environment.Snapshot{TemperatureC: 36, FeelsLikeC: 36, AQI: 3}
	quests := s.Synthesize(snap, profile.Default("user-7"))

	byCat := categories(quests)
	q, ok := byCat["extreme_heat"]
	if !ok {
		t.Fatal("expected extreme_heat quest")
	}

	if q.ID == "" || q.UserID != "user-7" {
		t.Fatalf("identity not stamped: id=%q user=%q", q.ID, q.UserID)
	}
	if q.Status != StatusActive || q.Progress != 0 {
		t.Fatalf("fresh quest state = %s/%.1f, want ACTIVE/0", q.Status, q.Progress)
	}

	sum := 0
	maxDur := 0
	for _, o := range q.Objectives {
		sum += o.Points
		if o.DurationMin > maxDur {
			maxDur = o.DurationMin
		}
	}
	if q.TotalPoints != sum {
		t.Fatalf("totalPoints = %d, want objective sum %d", q.TotalPoints, sum)
	}
	if q.EstimatedDuration != maxDur {
		t.Fatalf("estimatedDuration = %d, want max objective duration %d", q.EstimatedDuration, maxDur)
	}

	wantScore := 10*len(q.Objectives) + q.TotalPoints/10 + q.Urgency.Weight()
	if wantScore > 100 {
		wantScore = 100
	}
	if q.DifficultyScore != wantScore {
		t.Fatalf("difficultyScore = %d, want %d", q.DifficultyScore, wantScore)
	}

	if q.ValidUntil == nil || !q.ValidUntil.After(q.CreatedAt) {
		t.Fatal("validUntil must be strictly after creation")
	}
	if q.Triggers.Weather == nil || q.Triggers.Weather.TemperatureC != 36 {
		t.Fatal("weather trigger must echo the snapshot")
	}
}

func TestDifficultyScoreCap(t *testing.T) {
	if got := difficultyScore(5, 900, UrgencyExtreme); got != 100 {
		t.Fatalf("difficultyScore = %d, want capped at 100", got)
	}
	if got := difficultyScore(2, 150, UrgencyLow); got != 10*2+15+5 {
		t.Fatalf("difficultyScore = %d, want %d", got, 10*2+15+5)
	}
}

func TestPersonalizedTips(t *testing.T) {
	s := testSynthesizer()
	snap := environment.Snapshot{TemperatureC: 20, AQI: 3, Condition: environment.ConditionClear}

	solarOwner := profile.Profile{UserID: "u1", HasSolarPanels: true, SkillTier: profile.TierMedium}
	byCat := categories(s.Synthesize(snap, solarOwner))
	sunny := byCat["sunny_day"]
	if len(sunny.PersonalizedTips) == 0 {
		t.Fatal("solar panel owners should get a tip on sunny_day quests")
	}

	beginner := profile.Default("u2")
	byCat = categories(s.Synthesize(snap, beginner))
	for cat, q := range byCat {
		if len(q.PersonalizedTips) == 0 {
			t.Fatalf("beginners should get an encouragement tip on every quest, %s has none", cat)
		}
	}

	acOwner := profile.Profile{UserID: "u3", HasAC: true, SkillTier: profile.TierMedium}
	hot := environment.Snapshot{TemperatureC: 36, FeelsLikeC: 36, AQI: 3}
	byCat = categories(s.Synthesize(hot, acOwner))
	if len(byCat["extreme_heat"].PersonalizedTips) == 0 {
		t.Fatal("AC owners should get a maintenance tip on heat quests")
	}
}

func TestSynthesizeIsDeterministicForFixedClockAndIDs(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 33, FeelsLikeC: 35, HumidityPct: 70, AQI: 3, Condition: environment.ConditionClouds}
	prof := profile.Default("u1")

	a := testSynthesizer().Synthesize(snap, prof)
	b := testSynthesizer().Synthesize(snap, prof)

	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Category != b[i].Category || a[i].TotalPoints != b[i].TotalPoints || a[i].Urgency != b[i].Urgency {
			t.Fatalf("run %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestValidUntilRelativeToClock(t *testing.T) {
	s := testSynthesizer()
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := environment.Snapshot{TemperatureC: 43, FeelsLikeC: 43, AQI: 3}
	byCat := categories(s.Synthesize(snap, profile.Default("u1")))
	q := byCat["heatwave_emergency"]
	if !q.CreatedAt.Equal(created) {
		t.Fatalf("createdAt = %s, want %s", q.CreatedAt, created)
	}
	if q.ValidUntil == nil || !q.ValidUntil.Equal(created.Add(6*time.Hour)) {
		t.Fatalf("validUntil = %v, want created + 6h", q.ValidUntil)
	}
}
