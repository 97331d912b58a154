package quest

import (
	"testing"
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

func testSynthesizer() *Synthesizer {
	s := NewSynthesizer(time.UTC)
	s.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	seq := 0
	s.newID = func() string {
		seq++
		return "quest-" + string(rune('a'+seq-1))
	}
	return s
}

func categories(quests []Quest) map[string]Quest {
	out := make(map[string]Quest, len(quests))
	for _, q := range quests {
		out[q.Category] = q
	}
	return out
}

func TestHeatwaveStacksOnExtremeHeat(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 43, FeelsLikeC: 45, HumidityPct: 40, AQI: 3, Condition: environment.ConditionClear}
	quests := testSynthesizer().Synthesize(snap, profile.Default("u1"))

	byCat := categories(quests)
	heatwave, ok := byCat["heatwave_emergency"]
	if !ok {
		t.Fatal("expected heatwave_emergency quest above 42°C")
	}
	if heatwave.Urgency != UrgencyExtreme {
		t.Fatalf("heatwave urgency = %s, want EXTREME", heatwave.Urgency)
	}
	extreme, ok := byCat["extreme_heat"]
	if !ok {
		t.Fatal("expected extreme_heat quest to fire alongside heatwave_emergency")
	}
	if extreme.Urgency != UrgencyExtreme {
		t.Fatalf("extreme_heat urgency above 40°C = %s, want EXTREME", extreme.Urgency)
	}
}

func TestExtremeHeatUrgencyBands(t *testing.T) {
	tests := []struct {
		temp    float64
		feels   float64
		fires   bool
		urgency Urgency
	}{
		{36, 36, true, UrgencyHigh},
		{41, 41, true, UrgencyExtreme},
		{34, 39, true, UrgencyHigh}, // feels-like trigger
		{34, 34, false, ""},
	}
	for _, tc := range tests {
		snap := environment.Snapshot{TemperatureC: tc.temp, FeelsLikeC: tc.feels, AQI: 3}
		byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))
		q, ok := byCat["extreme_heat"]
		if ok != tc.fires {
			t.Fatalf("temp=%.0f feels=%.0f: fired=%v, want %v", tc.temp, tc.feels, ok, tc.fires)
		}
		if ok && q.Urgency != tc.urgency {
			t.Fatalf("temp=%.0f: urgency=%s, want %s", tc.temp, q.Urgency, tc.urgency)
		}
	}
}

func TestTemperatureBandsAreExclusive(t *testing.T) {
	tests := []struct {
		temp float64
		want string
	}{
		{32, "high_heat"},
		{25, "optimal_temp"},
		{10, "cold_weather"},
	}
	for _, tc := range tests {
		snap := environment.Snapshot{TemperatureC: tc.temp, FeelsLikeC: tc.temp, AQI: 3, HumidityPct: 65}
		byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))
		if _, ok := byCat[tc.want]; !ok {
			t.Fatalf("temp=%.0f: expected %s quest", tc.temp, tc.want)
		}
		for _, other := range []string{"high_heat", "optimal_temp", "cold_weather", "extreme_heat", "heatwave_emergency"} {
			if other == tc.want {
				continue
			}
			if _, ok := byCat[other]; ok {
				t.Fatalf("temp=%.0f: unexpected %s quest", tc.temp, other)
			}
		}
	}
}

func TestAirQualityRules(t *testing.T) {
	// AQI 4 fires poor_air_quality at MEDIUM, no emergency.
	byCat := categories(testSynthesizer().Synthesize(environment.Snapshot{TemperatureC: 25, AQI: 4, PM25: 60}, profile.Default("u1")))
	poor, ok := byCat["poor_air_quality"]
	if !ok {
		t.Fatal("expected poor_air_quality at AQI 4")
	}
	if poor.Urgency != UrgencyMedium {
		t.Fatalf("AQI 4 urgency = %s, want MEDIUM", poor.Urgency)
	}
	if _, ok := byCat["air_pollution_emergency"]; ok {
		t.Fatal("emergency must not fire at AQI 4 with PM2.5 60")
	}

	// AQI 5 escalates and stacks the emergency.
	byCat = categories(testSynthesizer().Synthesize(environment.Snapshot{TemperatureC: 25, AQI: 5, PM25: 160}, profile.Default("u1")))
	if byCat["poor_air_quality"].Urgency != UrgencyHigh {
		t.Fatalf("AQI 5 urgency = %s, want HIGH", byCat["poor_air_quality"].Urgency)
	}
	emergency, ok := byCat["air_pollution_emergency"]
	if !ok {
		t.Fatal("expected air_pollution_emergency at AQI 5")
	}
	if emergency.Urgency != UrgencyExtreme {
		t.Fatalf("emergency urgency = %s, want EXTREME", emergency.Urgency)
	}

	// Clean air rewards ventilation.
	byCat = categories(testSynthesizer().Synthesize(environment.Snapshot{TemperatureC: 30.5, AQI: 1}, profile.Default("u1")))
	if _, ok := byCat["good_air_quality"]; !ok {
		t.Fatal("expected good_air_quality at AQI 1")
	}
}

func TestWeatherConditionBranchIsExclusive(t *testing.T) {
	tests := []struct {
		condition environment.Condition
		want      string
		urgency   Urgency
	}{
		{environment.ConditionRain, "rainy_day", UrgencyMedium},
		{environment.ConditionThunderstorm, "rainy_day", UrgencyHigh},
		{environment.ConditionClear, "sunny_day", UrgencyMedium},
		{environment.ConditionClouds, "cloudy_day", UrgencyLow},
	}
	for _, tc := range tests {
		snap := environment.Snapshot{TemperatureC: 20, AQI: 3, Condition: tc.condition}
		byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))
		q, ok := byCat[tc.want]
		if !ok {
			t.Fatalf("condition=%s: expected %s", tc.condition, tc.want)
		}
		if q.Urgency != tc.urgency {
			t.Fatalf("condition=%s: urgency=%s, want %s", tc.condition, q.Urgency, tc.urgency)
		}
		branches := 0
		for _, cat := range []string{"rainy_day", "sunny_day", "cloudy_day"} {
			if _, ok := byCat[cat]; ok {
				branches++
			}
		}
		if branches != 1 {
			t.Fatalf("condition=%s: %d condition branches fired, want exactly 1", tc.condition, branches)
		}
	}
}

func TestSunnyDayRequiresDaylight(t *testing.T) {
	s := testSynthesizer()
	s.now = func() time.Time { return time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC) }
	snap := environment.Snapshot{TemperatureC: 20, AQI: 3, Condition: environment.ConditionClear}
	byCat := categories(s.Synthesize(snap, profile.Default("u1")))
	if _, ok := byCat["sunny_day"]; ok {
		t.Fatal("sunny_day must not fire outside 06:00-18:00 local")
	}
}

func TestOrthogonalAxes(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 20, AQI: 3, HumidityPct: 75, WindSpeedMS: 6}
	byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))
	if _, ok := byCat["high_humidity"]; !ok {
		t.Fatal("expected high_humidity above 70%")
	}
	if _, ok := byCat["windy_day"]; !ok {
		t.Fatal("expected windy_day above 5 m/s")
	}
}

func TestTripleChallengeCombo(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 33, FeelsLikeC: 33, HumidityPct: 70, AQI: 3}
	byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))
	combo, ok := byCat["triple_challenge"]
	if !ok {
		t.Fatal("expected triple_challenge when heat, humidity and AQI all cross thresholds")
	}
	if combo.Urgency != UrgencyExtreme || combo.Rarity != RarityRare {
		t.Fatalf("triple_challenge = %s/%s, want EXTREME/RARE", combo.Urgency, combo.Rarity)
	}
	if combo.BonusPoints != 200 {
		t.Fatalf("bonus = %d, want 200", combo.BonusPoints)
	}
}

func TestPerfectConditionsCombo(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 24, FeelsLikeC: 24, HumidityPct: 50, AQI: 1}
	quests := testSynthesizer().Synthesize(snap, profile.Default("u1"))

	var combos []Quest
	for _, q := range quests {
		if q.Type == TypeCombo {
			combos = append(combos, q)
		}
	}
	if len(combos) != 1 || combos[0].Category != "perfect_conditions" {
		t.Fatalf("expected exactly one perfect_conditions combo, got %d", len(combos))
	}
	combo := combos[0]
	if combo.Rarity != RarityLegendary {
		t.Fatalf("rarity = %s, want LEGENDARY", combo.Rarity)
	}
	if combo.Urgency != UrgencyHigh {
		t.Fatalf("urgency = %s, want HIGH", combo.Urgency)
	}
	sum := 0
	for _, o := range combo.Objectives {
		sum += o.Points
	}
	if combo.TotalPoints != sum+500 {
		t.Fatalf("totalPoints = %d, want objective sum %d plus 500 bonus", combo.TotalPoints, sum)
	}
}

func TestHeatwaveScenario(t *testing.T) {
	snap := environment.Snapshot{TemperatureC: 45, FeelsLikeC: 48, HumidityPct: 50, AQI: 2, Condition: environment.ConditionClear}
	byCat := categories(testSynthesizer().Synthesize(snap, profile.Default("u1")))

	if q, ok := byCat["heatwave_emergency"]; !ok || q.Urgency != UrgencyExtreme {
		t.Fatal("expected EXTREME heatwave_emergency at 45°C")
	}
	if q, ok := byCat["extreme_heat"]; !ok || q.Urgency != UrgencyExtreme {
		t.Fatal("expected EXTREME extreme_heat at 45°C")
	}
	if _, ok := byCat["optimal_temp"]; ok {
		t.Fatal("optimal_temp must not fire at 45°C")
	}
	if _, ok := byCat["cold_weather"]; ok {
		t.Fatal("cold_weather must not fire at 45°C")
	}
}
