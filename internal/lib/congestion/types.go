package congestion

import (
	"errors"
	"time"
)

// ErrInvalidReading indicates malformed numeric input from a data source:
// negative speeds, a non-positive free-flow speed, or negative percentages.
// It is a contract violation by the upstream collaborator and propagates
// uncaught to the caller.
var ErrInvalidReading = errors.New("invalid reading")

// Category is the human-readable congestion band derived from congestion level.
type Category string

const (
	CategoryLight    Category = "Light"    // level < 30
	CategoryModerate Category = "Moderate" // 30 <= level < 60
	CategoryHeavy    Category = "Heavy"    // 60 <= level < 85
	CategorySevere   Category = "Severe"   // level >= 85
)

// Condition is a canonical weather condition.
type Condition string

const (
	ConditionClear    Condition = "Clear"
	ConditionOvercast Condition = "Overcast"
	ConditionWindy    Condition = "Windy"
	ConditionRain     Condition = "Rain"
	ConditionFog      Condition = "Fog"
)

// Impact describes how strongly current weather is affecting traffic flow.
type Impact string

const (
	ImpactNone     Impact = "None"
	ImpactLow      Impact = "Low"
	ImpactModerate Impact = "Moderate"
	ImpactHigh     Impact = "High"
)

// RawTrafficReading is the record shape delivered by a traffic data source
// (live or simulated) before normalization.
type RawTrafficReading struct {
	Location        string    `json:"location"`
	CurrentSpeed    float64   `json:"current_speed"`
	FreeFlowSpeed   float64   `json:"free_flow_speed"`
	IncidentsNearby int       `json:"incidents_nearby"`
	RoadClosure     bool      `json:"road_closure"`
	Source          string    `json:"source"`
	Confidence      float64   `json:"confidence"`
	ObservedAt      time.Time `json:"observed_at"`
}

// TrafficReading is a normalized traffic observation for one location.
// CongestionCategory is a pure function of CongestionLevel and
// TravelTimeRatio a pure function of the two speeds.
type TrafficReading struct {
	Location           string    `json:"location"`
	CurrentSpeed       float64   `json:"current_speed"`
	FreeFlowSpeed      float64   `json:"free_flow_speed"`
	CongestionLevel    float64   `json:"congestion_level"`
	CongestionCategory Category  `json:"congestion_category"`
	TravelTimeRatio    float64   `json:"travel_time_ratio"`
	IncidentsNearby    int       `json:"incidents_nearby"`
	RoadClosure        bool      `json:"road_closure"`
	Source             string    `json:"data_source"`
	Confidence         float64   `json:"confidence"`
	Timestamp          time.Time `json:"timestamp"`
}

// RawWeatherReading is the record shape delivered by a weather data source.
// Condition carries the provider's raw condition string (e.g. "light rain").
type RawWeatherReading struct {
	Location         string    `json:"location"`
	Condition        string    `json:"condition"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	WindSpeedKmh     float64   `json:"wind_speed"`
	VisibilityMeters float64   `json:"visibility_m"`
	RainIntensity    *float64  `json:"rain_intensity,omitempty"` // mm/h, nil when not raining
	ObservedAt       time.Time `json:"observed_at"`
}

// WeatherReading is a normalized weather observation with its derived
// traffic impact.
type WeatherReading struct {
	Location         string    `json:"location"`
	Condition        Condition `json:"condition"`
	Temperature      float64   `json:"temperature"`
	Humidity         float64   `json:"humidity"`
	WindSpeedKmh     float64   `json:"wind_speed"`
	VisibilityKm     float64   `json:"visibility"`
	RainIntensity    *float64  `json:"rain_intensity,omitempty"`
	Impact           Impact    `json:"weather_impact"`
	ImpactPercentage float64   `json:"impact_percentage"`
	Timestamp        time.Time `json:"timestamp"`
}

// TimeContext captures the temporal setting of an analysis.
type TimeContext struct {
	CurrentTime string `json:"current_time"` // HH:MM
	DayOfWeek   string `json:"day_of_week"`
	IsWeekend   bool   `json:"is_weekend"`
	Period      string `json:"period"` // Morning Peak, Midday, Evening Peak, Off-Peak
	IsPeakHour  bool   `json:"is_peak_hour"`
}

// HistoricalComparison is the baseline record returned by the historical
// data provider for a location and day of week.
type HistoricalComparison struct {
	HistoricalAvgCongestion float64 `json:"historical_avg_congestion"`
	TypicalConditions       string  `json:"typical_conditions"`
	SampleSize              int     `json:"data_points"`
	PatternConfidence       float64 `json:"pattern_confidence"`
}
