package quest

import "testing"

func mkQuest(id string, qt Type, category string, urgency Urgency, points int) Quest {
	return Quest{ID: id, Type: qt, Category: category, Urgency: urgency, TotalPoints: points, Status: StatusActive}
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
	first := mkQuest("a", TypeTemperature, "extreme_heat", UrgencyHigh, 450)
	second := mkQuest("b", TypeTemperature, "extreme_heat", UrgencyHigh, 450)

	out := ProcessAndPrioritize([]Quest{first, second}, nil)
	if len(out) != 1 {
		t.Fatalf("got %d quests, want 1", len(out))
	}
	if out[0].ID != "a" {
		t.Fatalf("kept %s, want the first-generated instance", out[0].ID)
	}
}

func TestDedupConsultsActiveIndex(t *testing.T) {
	candidate := mkQuest("new", TypeAirQuality, "poor_air_quality", UrgencyMedium, 250)
	active := map[string]string{"air_quality_poor_air_quality": "existing"}

	out := ProcessAndPrioritize([]Quest{candidate}, active)
	if len(out) != 0 {
		t.Fatalf("got %d quests, want candidate dropped against active index", len(out))
	}
}

func TestSameCategoryDifferentTypeSurvives(t *testing.T) {
	a := mkQuest("a", TypeTemperature, "shared", UrgencyLow, 100)
	b := mkQuest("b", TypeCombo, "shared", UrgencyLow, 100)
	out := ProcessAndPrioritize([]Quest{a, b}, nil)
	if len(out) != 2 {
		t.Fatalf("got %d quests, want 2: dedup key is type plus category", len(out))
	}
}

func TestPrioritizationOrder(t *testing.T) {
	in := []Quest{
		mkQuest("low", TypeWeatherCondition, "cloudy_day", UrgencyLow, 150),
		mkQuest("high-small", TypeAirQuality, "poor_air_quality", UrgencyHigh, 250),
		mkQuest("extreme", TypeExtremeWeather, "heatwave_emergency", UrgencyExtreme, 600),
		mkQuest("high-big", TypeTemperature, "extreme_heat", UrgencyHigh, 450),
		mkQuest("medium", TypeHumidity, "high_humidity", UrgencyMedium, 180),
	}

	out := ProcessAndPrioritize(in, nil)

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], out[i]
		if cur.Urgency.Rank() > prev.Urgency.Rank() {
			t.Fatalf("urgency rank increased at %d: %s after %s", i, cur.Urgency, prev.Urgency)
		}
		if cur.Urgency.Rank() == prev.Urgency.Rank() && cur.TotalPoints > prev.TotalPoints {
			t.Fatalf("points increased within urgency at %d", i)
		}
	}
	if out[0].ID != "extreme" || out[1].ID != "high-big" || out[2].ID != "high-small" {
		t.Fatalf("unexpected order: %s, %s, %s", out[0].ID, out[1].ID, out[2].ID)
	}
}
