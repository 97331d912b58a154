package environment

import "time"

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown      Condition = "Unknown"
	ConditionClear        Condition = "Clear"
	ConditionClouds       Condition = "Clouds"
	ConditionRain         Condition = "Rain"
	ConditionDrizzle      Condition = "Drizzle"
	ConditionThunderstorm Condition = "Thunderstorm"
	ConditionSnow         Condition = "Snow"
	ConditionHaze         Condition = "Haze"
	ConditionMist         Condition = "Mist"
	ConditionFog          Condition = "Fog"
	ConditionDust         Condition = "Dust"
)

// Location identifies the place a snapshot is taken for.
type Location struct {
	City    string  `json:"city"`
	Country string  `json:"country,omitempty"`
	Lat     float64 `json:"lat,omitempty"`
	Lon     float64 `json:"lon,omitempty"`
}

// Key returns a canonical string key for indexing this location.
func (l Location) Key() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + ":" + l.Country
}

// Snapshot is a single point-in-time normalized environmental reading.
// It is immutable: produced fresh per polling cycle and discarded after
// quest synthesis.
type Snapshot struct {
	Location     Location  `json:"location"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
	FeelsLikeC   float64   `json:"feelsLikeC"`
	HumidityPct  float64   `json:"humidityPercent"` // 0-100
	WindSpeedMS  float64   `json:"windSpeedMs"`
	Condition    Condition `json:"condition"`
	AQI          int       `json:"aqi"` // 1 (good) .. 5 (very poor)
	PM25         float64   `json:"pm25"`
	PM10         float64   `json:"pm10"`
	Synthetic    bool      `json:"synthetic,omitempty"`
}

// WeatherReading is the weather half of a snapshot as returned by a provider.
type WeatherReading struct {
	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  float64
	WindSpeedMS  float64
	Condition    Condition
	Timestamp    time.Time
}

// AirReading is the air-quality half of a snapshot as returned by a provider.
type AirReading struct {
	AQI       int
	PM25      float64
	PM10      float64
	Timestamp time.Time
}
