package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current weather and air-pollution readings from the
// OpenWeatherMap API. A shared circuit breaker keeps a flapping
// upstream from being hammered; callers fall back to synthetic data on
// any error.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient builds an API client.
func NewClient(apiKey, baseURL string) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		circuit: cb,
	}
}

// CurrentWeather implements environment.WeatherClient.
func (c *Client) CurrentWeather(ctx context.Context, loc environment.Location) (environment.WeatherReading, error) {
	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := c.getJSON(ctx, "/weather", loc, &payload); err != nil {
		return environment.WeatherReading{}, err
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	condition := environment.ConditionUnknown
	if len(payload.Weather) > 0 {
		condition = mapCondition(payload.Weather[0].Main)
	}

	return environment.WeatherReading{
		TemperatureC: payload.Main.Temp,
		FeelsLikeC:   payload.Main.FeelsLike,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
		Condition:    condition,
		Timestamp:    ts,
	}, nil
}

// AirPollution implements environment.AirQualityClient. The upstream
// AQI scale is already 1 (good) to 5 (very poor).
func (c *Client) AirPollution(ctx context.Context, loc environment.Location) (environment.AirReading, error) {
	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components struct {
				PM25 float64 `json:"pm2_5"`
				PM10 float64 `json:"pm10"`
			} `json:"components"`
		} `json:"list"`
	}

	if err := c.getJSON(ctx, "/air_pollution", loc, &payload); err != nil {
		return environment.AirReading{}, err
	}
	if len(payload.List) == 0 {
		return environment.AirReading{}, fmt.Errorf("air pollution response contained no readings")
	}

	entry := payload.List[0]
	ts := time.Unix(entry.Dt, 0).UTC()
	if entry.Dt == 0 {
		ts = time.Now().UTC()
	}

	return environment.AirReading{
		AQI:       entry.Main.AQI,
		PM25:      entry.Components.PM25,
		PM10:      entry.Components.PM10,
		Timestamp: ts,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, loc environment.Location, out any) error {
	if c.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	if loc.Lat != 0 || loc.Lon != 0 {
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", loc.Lon))
	} else {
		q := loc.City
		if loc.Country != "" {
			q = fmt.Sprintf("%s,%s", loc.City, loc.Country)
		}
		values.Set("q", q)
	}

	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, path, values.Encode())

	body, err := c.circuit.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
			return nil, fmt.Errorf("request error: status=%d body=%s", resp.StatusCode, string(payload))
		}
		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	raw, ok := body.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapCondition(main string) environment.Condition {
	switch main {
	case "Clear":
		return environment.ConditionClear
	case "Clouds":
		return environment.ConditionClouds
	case "Rain":
		return environment.ConditionRain
	case "Drizzle":
		return environment.ConditionDrizzle
	case "Thunderstorm":
		return environment.ConditionThunderstorm
	case "Snow":
		return environment.ConditionSnow
	case "Haze":
		return environment.ConditionHaze
	case "Mist":
		return environment.ConditionMist
	case "Fog":
		return environment.ConditionFog
	case "Dust", "Sand", "Ash":
		return environment.ConditionDust
	default:
		return environment.ConditionUnknown
	}
}

var (
	_ environment.WeatherClient    = (*Client)(nil)
	_ environment.AirQualityClient = (*Client)(nil)
)
