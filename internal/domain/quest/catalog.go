package quest

import (
	"strings"
	"time"

	"github.com/ecoquest/quest-engine/internal/domain/environment"
	"github.com/ecoquest/quest-engine/internal/domain/profile"
)

// ruleContext is everything a catalog rule may look at.
type ruleContext struct {
	snap      environment.Snapshot
	profile   profile.Profile
	localHour int
}

// template is the quest blueprint a rule produces before the synthesizer
// stamps identity, ownership and derived fields onto it.
type template struct {
	Title       string
	Description string
	Urgency     Urgency
	Rarity      Rarity
	Objectives  []Objective
	BonusPoints int
	ValidFor    time.Duration
	WithWeather bool
	WithAir     bool
}

// rule maps an environmental condition onto a quest template. Rules are
// evaluated in catalog order; every rule whose predicate holds fires
// independently, so stacking (extreme_heat + heatwave_emergency) falls
// out of the table rather than special-cased dispatch.
type rule struct {
	questType Type
	category  string
	when      func(ruleContext) bool
	build     func(ruleContext) template
}

func conditionIs(c environment.Condition, names ...string) bool {
	for _, n := range names {
		if strings.EqualFold(string(c), n) {
			return true
		}
	}
	return false
}

// catalog is the full condition-to-quest table: temperature, air quality,
// weather condition, humidity and wind axes, then cross-axis combos.
var catalog = []rule{
	// Temperature axis.
	{
		questType: TypeExtremeWeather,
		category:  "heatwave_emergency",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC > 42
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Heatwave Emergency",
				Description: "Temperatures are dangerously high. Cut peak load now and keep your home livable without overloading the grid.",
				Urgency:     UrgencyExtreme,
				ValidFor:    6 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Shift all non-essential appliance use to after 21:00", Points: 250, DurationMin: 30, EnergySaving: "Avoids the most carbon-intensive grid hours"},
					{Action: "Pre-cool one room to 26°C, then switch the AC off and keep doors closed", Points: 200, DurationMin: 45, Tip: "A pre-cooled closed room stays comfortable for hours"},
					{Action: "Skip EV or battery charging during the 14:00-18:00 peak", Points: 150, DurationMin: 15},
				},
			}
		},
	},
	{
		questType: TypeTemperature,
		category:  "extreme_heat",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC > 35 || rc.snap.FeelsLikeC > 38
		},
		build: func(rc ruleContext) template {
			urgency := UrgencyHigh
			if rc.snap.TemperatureC > 40 {
				urgency = UrgencyExtreme
			}
			return template{
				Title:       "Beat the Extreme Heat",
				Description: "It is extremely hot outside. Keep cool while keeping your cooling bill in check.",
				Urgency:     urgency,
				ValidFor:    12 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Set the AC to 26°C or higher", Points: 150, DurationMin: 15, EnergySaving: "Each degree higher saves roughly 6% of cooling energy"},
					{Action: "Close blinds and curtains on sun-facing windows", Points: 100, DurationMin: 10, Tip: "Blocking direct sun can cut indoor heat gain by a third"},
					{Action: "Postpone the washing machine and dishwasher until after dark", Points: 200, DurationMin: 20, EnergySaving: "Moves heavy load off the grid peak"},
				},
			}
		},
	},
	{
		questType: TypeTemperature,
		category:  "high_heat",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC > 30 && rc.snap.TemperatureC <= 35
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Hot Afternoon Saver",
				Description: "A hot day is a good day to lean on low-energy cooling.",
				Urgency:     UrgencyMedium,
				ValidFor:    12 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Use a fan instead of the AC for the next two hours", Points: 120, DurationMin: 120, EnergySaving: "A fan draws about 2% of what an AC does"},
					{Action: "Draw curtains before the afternoon peak", Points: 80, DurationMin: 10},
				},
			}
		},
	},
	{
		questType: TypeTemperature,
		category:  "optimal_temp",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC >= 22 && rc.snap.TemperatureC <= 28
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Perfect Weather, Zero Cooling",
				Description: "The temperature is in the comfort zone. Give your climate control the day off.",
				Urgency:     UrgencyLow,
				ValidFor:    24 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Switch cooling and heating off and open the windows", Points: 100, DurationMin: 5},
					{Action: "Air the bedroom for 15 minutes before sleeping", Points: 50, DurationMin: 15, Tip: "A cooler bedroom also improves sleep quality"},
				},
			}
		},
	},
	{
		questType: TypeTemperature,
		category:  "cold_weather",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC < 18
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Smart Heating Day",
				Description: "It is cold out. Heat smart instead of heating hard.",
				Urgency:     UrgencyMedium,
				ValidFor:    24 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Lower the thermostat by 1°C and put on a sweater", Points: 120, DurationMin: 5, EnergySaving: "1°C less saves up to 10% of heating energy"},
					{Action: "Seal drafts around the worst window or door", Points: 100, DurationMin: 30},
					{Action: "Heat only the rooms you are actually using", Points: 80, DurationMin: 10},
				},
			}
		},
	},

	// Air-quality axis.
	{
		questType: TypeAirQuality,
		category:  "poor_air_quality",
		when: func(rc ruleContext) bool {
			return rc.snap.AQI >= 4 || rc.snap.PM25 > 55
		},
		build: func(rc ruleContext) template {
			urgency := UrgencyMedium
			if rc.snap.AQI == 5 {
				urgency = UrgencyHigh
			}
			return template{
				Title:       "Bad Air Day Defense",
				Description: "Outdoor air quality is poor. Protect your indoor air without running everything at full blast.",
				Urgency:     urgency,
				ValidFor:    12 * time.Hour,
				WithAir:     true,
				Objectives: []Objective{
					{Action: "Keep windows closed until the air clears", Points: 100, DurationMin: 5},
					{Action: "Run the air purifier on low instead of max", Points: 80, DurationMin: 10, EnergySaving: "Low fan speed filters nearly as well at half the draw"},
					{Action: "Move your workout indoors", Points: 70, DurationMin: 30},
				},
			}
		},
	},
	{
		questType: TypeExtremeWeather,
		category:  "air_pollution_emergency",
		when: func(rc ruleContext) bool {
			return rc.snap.AQI == 5 || rc.snap.PM25 > 150
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Air Pollution Emergency",
				Description: "Pollution has reached hazardous levels. Seal up and sit tight.",
				Urgency:     UrgencyExtreme,
				ValidFor:    6 * time.Hour,
				WithAir:     true,
				Objectives: []Objective{
					{Action: "Seal gaps around doors and windows", Points: 200, DurationMin: 30},
					{Action: "Set the purifier or AC to recirculate mode", Points: 150, DurationMin: 10, Tip: "Recirculating stops hazardous air being pulled inside"},
				},
			}
		},
	},
	{
		questType: TypeAirQuality,
		category:  "good_air_quality",
		when: func(rc ruleContext) bool {
			return rc.snap.AQI > 0 && rc.snap.AQI <= 2
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Fresh Air Bonus",
				Description: "The air outside is clean. Ventilate for free instead of filtering.",
				Urgency:     UrgencyMedium,
				ValidFor:    12 * time.Hour,
				WithAir:     true,
				Objectives: []Objective{
					{Action: "Turn the purifier off and ventilate naturally", Points: 120, DurationMin: 5},
					{Action: "Open windows on opposite sides for a cross-breeze", Points: 80, DurationMin: 10},
				},
			}
		},
	},

	// Weather-condition axis: exactly one of these fires per snapshot.
	{
		questType: TypeWeatherCondition,
		category:  "rainy_day",
		when: func(rc ruleContext) bool {
			return conditionIs(rc.snap.Condition, "Rain", "Drizzle", "Thunderstorm")
		},
		build: func(rc ruleContext) template {
			urgency := UrgencyMedium
			if conditionIs(rc.snap.Condition, "Thunderstorm") {
				urgency = UrgencyHigh
			}
			return template{
				Title:       "Rainy Day Rewards",
				Description: "Make the rain work for you.",
				Urgency:     urgency,
				ValidFor:    12 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Collect rainwater for your plants", Points: 100, DurationMin: 20},
					{Action: "Use the daylight for chores that need good light", Points: 80, DurationMin: 30},
				},
			}
		},
	},
	{
		questType: TypeWeatherCondition,
		category:  "sunny_day",
		when: func(rc ruleContext) bool {
			return conditionIs(rc.snap.Condition, "Clear") && rc.localHour >= 6 && rc.localHour < 18
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Sunshine Harvest",
				Description: "Clear skies mean free energy. Use it while it lasts.",
				Urgency:     UrgencyMedium,
				ValidFor:    12 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Dry laundry on the line instead of the dryer", Points: 150, DurationMin: 20, EnergySaving: "Skipping one dryer cycle saves around 3 kWh"},
					{Action: "Run high-load appliances while solar yield peaks", Points: 120, DurationMin: 15},
				},
			}
		},
	},
	{
		questType: TypeWeatherCondition,
		category:  "cloudy_day",
		when: func(rc ruleContext) bool {
			return conditionIs(rc.snap.Condition, "Clouds")
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Cloudy Day Efficiency",
				Description: "Overcast and mild. Small habits add up today.",
				Urgency:     UrgencyLow,
				ValidFor:    24 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Switch off unnecessary lights and use task lighting", Points: 60, DurationMin: 5},
					{Action: "Batch-cook so the oven only heats up once", Points: 90, DurationMin: 60},
				},
			}
		},
	},

	// Orthogonal axes, evaluated independently of the condition branch.
	{
		questType: TypeHumidity,
		category:  "high_humidity",
		when: func(rc ruleContext) bool {
			return rc.snap.HumidityPct > 70
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Humidity Hack",
				Description: "Sticky air makes cooling work overtime. Dry the air, not the whole room.",
				Urgency:     UrgencyMedium,
				ValidFor:    12 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Use dehumidify mode instead of full cooling", Points: 110, DurationMin: 10, EnergySaving: "Dry air feels 2-3°C cooler at the same temperature"},
					{Action: "Dry laundry outside rather than indoors", Points: 70, DurationMin: 15},
				},
			}
		},
	},
	{
		questType: TypeWeatherCondition,
		category:  "windy_day",
		when: func(rc ruleContext) bool {
			return rc.snap.WindSpeedMS > 5
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Free Breeze",
				Description: "A steady wind is nature's air conditioning.",
				Urgency:     UrgencyMedium,
				ValidFor:    8 * time.Hour,
				WithWeather: true,
				Objectives: []Objective{
					{Action: "Open windows on opposite sides for natural ventilation", Points: 100, DurationMin: 5},
					{Action: "Turn the AC off while the breeze lasts", Points: 100, DurationMin: 10},
				},
			}
		},
	},

	// Cross-axis combos, evaluated last over the same snapshot.
	{
		questType: TypeCombo,
		category:  "triple_challenge",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC > 32 && rc.snap.HumidityPct > 65 && rc.snap.AQI >= 3
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Triple Threat Challenge",
				Description: "Heat, humidity and bad air at once. Conquer all three for a rare bonus.",
				Urgency:     UrgencyExtreme,
				Rarity:      RarityRare,
				BonusPoints: 200,
				ValidFor:    8 * time.Hour,
				WithWeather: true,
				WithAir:     true,
				Objectives: []Objective{
					{Action: "Set the AC to 26°C with dehumidify mode on", Points: 150, DurationMin: 10},
					{Action: "Keep windows closed and run the purifier on low", Points: 120, DurationMin: 10},
					{Action: "Shift heavy appliances to late evening", Points: 130, DurationMin: 20},
				},
			}
		},
	},
	{
		questType: TypeCombo,
		category:  "perfect_conditions",
		when: func(rc ruleContext) bool {
			return rc.snap.TemperatureC >= 22 && rc.snap.TemperatureC <= 26 &&
				rc.snap.HumidityPct < 60 && rc.snap.AQI > 0 && rc.snap.AQI <= 2
		},
		build: func(rc ruleContext) template {
			return template{
				Title:       "Perfect Conditions Windfall",
				Description: "Mild, dry and clean. Run your home on almost nothing today.",
				Urgency:     UrgencyHigh,
				Rarity:      RarityLegendary,
				BonusPoints: 500,
				ValidFor:    6 * time.Hour,
				WithWeather: true,
				WithAir:     true,
				Objectives: []Objective{
					{Action: "Switch off all climate control", Points: 150, DurationMin: 5},
					{Action: "Open the whole home for cross-ventilation", Points: 100, DurationMin: 10},
					{Action: "Unplug standby devices while you are at it", Points: 100, DurationMin: 15},
				},
			}
		},
	},
}
