package environment

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Service exposes normalized environmental snapshots.
type Service interface {
	GetSnapshot(ctx context.Context, loc Location) Snapshot
}

// WeatherClient fetches a current-weather reading from an upstream provider.
type WeatherClient interface {
	CurrentWeather(ctx context.Context, loc Location) (WeatherReading, error)
}

// AirQualityClient fetches an air-pollution reading from an upstream provider.
type AirQualityClient interface {
	AirPollution(ctx context.Context, loc Location) (AirReading, error)
}

type service struct {
	weather  WeatherClient
	air      AirQualityClient
	fallback *SyntheticGenerator
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the environmental adapter.
func NewService(weather WeatherClient, air AirQualityClient, fallback *SyntheticGenerator, logger *slog.Logger) Service {
	return &service{
		weather:  weather,
		air:      air,
		fallback: fallback,
		logger:   logger.With("component", "environment.service"),
		now:      time.Now,
	}
}

// GetSnapshot fetches the weather and air-quality readings concurrently
// and merges them. A failed provider call is substituted with a synthetic
// reading; the caller never sees an error.
func (s *service) GetSnapshot(ctx context.Context, loc Location) Snapshot {
	var (
		wg         sync.WaitGroup
		weather    WeatherReading
		air        AirReading
		weatherErr error
		airErr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		weather, weatherErr = s.weather.CurrentWeather(ctx, loc)
	}()
	go func() {
		defer wg.Done()
		air, airErr = s.air.AirPollution(ctx, loc)
	}()
	wg.Wait()

	now := s.now().UTC()
	synthetic := false

	if weatherErr != nil {
		s.logger.Warn("weather fetch failed, using synthetic reading", "location", loc.Key(), "error", weatherErr)
		weather = s.fallback.Weather(now)
		synthetic = true
	}
	if airErr != nil {
		s.logger.Warn("air quality fetch failed, using synthetic reading", "location", loc.Key(), "error", airErr)
		air = s.fallback.Air(now)
		synthetic = true
	}

	ts := weather.Timestamp
	if ts.IsZero() {
		ts = now
	}

	return Snapshot{
		Location:     loc,
		Timestamp:    ts.UTC(),
		TemperatureC: weather.TemperatureC,
		FeelsLikeC:   weather.FeelsLikeC,
		HumidityPct:  weather.HumidityPct,
		WindSpeedMS:  weather.WindSpeedMS,
		Condition:    weather.Condition,
		AQI:          air.AQI,
		PM25:         air.PM25,
		PM10:         air.PM10,
		Synthetic:    synthetic,
	}
}
