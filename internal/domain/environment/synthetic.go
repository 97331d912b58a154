package environment

import (
	"math/rand"
	"sync"
	"time"
)

var syntheticConditions = []Condition{ConditionClear, ConditionClouds, ConditionHaze}

// SyntheticGenerator produces plausible readings when a provider is
// unreachable. It is seedable so fallback behavior stays deterministic
// under test.
type SyntheticGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSyntheticGenerator builds a generator from the given seed.
func NewSyntheticGenerator(seed int64) *SyntheticGenerator {
	return &SyntheticGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Weather samples a weather reading from realistic warm-climate ranges:
// temperature 25-35°C, humidity 60-80%.
func (g *SyntheticGenerator) Weather(now time.Time) WeatherReading {
	g.mu.Lock()
	defer g.mu.Unlock()
	temp := 25 + g.rng.Float64()*10
	return WeatherReading{
		TemperatureC: temp,
		FeelsLikeC:   temp + g.rng.Float64()*3,
		HumidityPct:  60 + g.rng.Float64()*20,
		WindSpeedMS:  g.rng.Float64() * 6,
		Condition:    syntheticConditions[g.rng.Intn(len(syntheticConditions))],
		Timestamp:    now,
	}
}

// Air samples an air-quality reading with AQI from {2, 4}. Both values
// sit on an air-quality rule threshold, so a fully synthetic snapshot
// always yields at least one quest.
func (g *SyntheticGenerator) Air(now time.Time) AirReading {
	g.mu.Lock()
	defer g.mu.Unlock()
	aqi := 2 + 2*g.rng.Intn(2)
	return AirReading{
		AQI:       aqi,
		PM25:      10 + float64(aqi)*12 + g.rng.Float64()*8,
		PM10:      20 + float64(aqi)*15 + g.rng.Float64()*10,
		Timestamp: now,
	}
}
