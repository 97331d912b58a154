package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
)

func TestCurrentWeatherParsesResponse(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		require.Equal(t, "metric", r.URL.Query().Get("units"))
		require.Equal(t, "test-key", r.URL.Query().Get("appid"))
		gotQuery = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"dt": 1750000000,
			"main": {"temp": 33.4, "feels_like": 38.1, "humidity": 72},
			"wind": {"speed": 4.2},
			"weather": [{"main": "Clouds"}]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	reading, err := client.CurrentWeather(context.Background(), environment.Location{City: "Singapore", Country: "SG"})
	require.NoError(t, err)

	require.Equal(t, "Singapore,SG", gotQuery)
	require.Equal(t, 33.4, reading.TemperatureC)
	require.Equal(t, 38.1, reading.FeelsLikeC)
	require.Equal(t, 72.0, reading.HumidityPct)
	require.Equal(t, 4.2, reading.WindSpeedMS)
	require.Equal(t, environment.ConditionClouds, reading.Condition)
	require.Equal(t, int64(1750000000), reading.Timestamp.Unix())
}

func TestCurrentWeatherPrefersCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.URL.Query().Get("lat"))
		require.NotEmpty(t, r.URL.Query().Get("lon"))
		require.Empty(t, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"main": {"temp": 20}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.CurrentWeather(context.Background(), environment.Location{Lat: 1.35, Lon: 103.82})
	require.NoError(t, err)
}

func TestAirPollutionParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/air_pollution", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"list": [{
				"dt": 1750000000,
				"main": {"aqi": 4},
				"components": {"pm2_5": 58.2, "pm10": 90.5}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	reading, err := client.AirPollution(context.Background(), environment.Location{City: "Singapore"})
	require.NoError(t, err)

	require.Equal(t, 4, reading.AQI)
	require.Equal(t, 58.2, reading.PM25)
	require.Equal(t, 90.5, reading.PM10)
}

func TestAirPollutionEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"list": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", server.URL)
	_, err := client.AirPollution(context.Background(), environment.Location{City: "Singapore"})
	require.Error(t, err)
}

func TestUpstreamErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":401,"message":"Invalid API key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad-key", server.URL)
	_, err := client.CurrentWeather(context.Background(), environment.Location{City: "Singapore"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestMissingAPIKey(t *testing.T) {
	client := NewClient("", "http://localhost:0")
	_, err := client.CurrentWeather(context.Background(), environment.Location{City: "Singapore"})
	require.Error(t, err)
}
