// Package congestion normalizes heterogeneous traffic and weather signals
// into the canonical readings the rest of the analysis pipeline consumes.
// All transformations are pure functions with no side effects.
package congestion

import (
	"fmt"
	"math"
	"strings"
)

// stalledTravelTimeRatio is the fixed TTI penalty applied when the current
// speed is zero, instead of dividing by zero. Defined edge-case policy, not
// an error.
const stalledTravelTimeRatio = 3.0

// NormalizeTraffic converts a raw speed pair into a TrafficReading with a
// derived congestion level, category, and travel time ratio.
func NormalizeTraffic(raw RawTrafficReading) (TrafficReading, error) {
	if raw.FreeFlowSpeed <= 0 {
		return TrafficReading{}, fmt.Errorf("%w: free-flow speed must be positive, got %.1f", ErrInvalidReading, raw.FreeFlowSpeed)
	}
	if raw.CurrentSpeed < 0 {
		return TrafficReading{}, fmt.Errorf("%w: current speed must not be negative, got %.1f", ErrInvalidReading, raw.CurrentSpeed)
	}

	level := clamp((1-raw.CurrentSpeed/raw.FreeFlowSpeed)*100, 0, 100)

	tti := stalledTravelTimeRatio
	if raw.CurrentSpeed > 0 {
		tti = raw.FreeFlowSpeed / raw.CurrentSpeed
	}

	return TrafficReading{
		Location:           raw.Location,
		CurrentSpeed:       round1(raw.CurrentSpeed),
		FreeFlowSpeed:      round1(raw.FreeFlowSpeed),
		CongestionLevel:    round1(level),
		CongestionCategory: Categorize(level),
		TravelTimeRatio:    round2(tti),
		IncidentsNearby:    raw.IncidentsNearby,
		RoadClosure:        raw.RoadClosure,
		Source:             raw.Source,
		Confidence:         raw.Confidence,
		Timestamp:          raw.ObservedAt,
	}, nil
}

// Categorize maps a congestion level onto its band. Inputs outside [0,100]
// are clamped first so the lookup is total.
func Categorize(level float64) Category {
	level = clamp(level, 0, 100)
	switch {
	case level < 30:
		return CategoryLight
	case level < 60:
		return CategoryModerate
	case level < 85:
		return CategoryHeavy
	default:
		return CategorySevere
	}
}

// NormalizeWeather classifies a raw weather record and derives its traffic
// impact.
func NormalizeWeather(raw RawWeatherReading) (WeatherReading, error) {
	if raw.Humidity < 0 {
		return WeatherReading{}, fmt.Errorf("%w: humidity must not be negative, got %.1f", ErrInvalidReading, raw.Humidity)
	}
	if raw.VisibilityMeters < 0 {
		return WeatherReading{}, fmt.Errorf("%w: visibility must not be negative, got %.1f", ErrInvalidReading, raw.VisibilityMeters)
	}
	if raw.RainIntensity != nil && *raw.RainIntensity < 0 {
		return WeatherReading{}, fmt.Errorf("%w: rain intensity must not be negative, got %.1f", ErrInvalidReading, *raw.RainIntensity)
	}

	condition := MapCondition(raw.Condition)
	visibilityKm := raw.VisibilityMeters / 1000
	impact, pct := ComputeImpact(condition, visibilityKm)

	return WeatherReading{
		Location:         raw.Location,
		Condition:        condition,
		Temperature:      round1(raw.Temperature),
		Humidity:         raw.Humidity,
		WindSpeedKmh:     round1(raw.WindSpeedKmh),
		VisibilityKm:     round1(visibilityKm),
		RainIntensity:    raw.RainIntensity,
		Impact:           impact,
		ImpactPercentage: pct,
		Timestamp:        raw.ObservedAt,
	}, nil
}

// MapCondition classifies a provider condition string into one of the five
// canonical conditions. Matching is case-insensitive on substrings.
func MapCondition(raw string) Condition {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "rain") || strings.Contains(s, "drizzle"):
		return ConditionRain
	case strings.Contains(s, "fog") || strings.Contains(s, "mist") || strings.Contains(s, "haze"):
		return ConditionFog
	case strings.Contains(s, "cloud"):
		return ConditionOvercast
	case strings.Contains(s, "wind") || strings.Contains(s, "storm"):
		return ConditionWindy
	default:
		return ConditionClear
	}
}

// ComputeImpact looks up the traffic impact for a condition and refines it
// upward when visibility is poor: below 1km the impact is forced High with
// at least a 50% speed reduction, below 3km it is floored at Moderate/20%.
func ComputeImpact(condition Condition, visibilityKm float64) (Impact, float64) {
	impact, pct := baseImpact(condition)

	if visibilityKm < 1 {
		impact = ImpactHigh
		pct = math.Max(pct, 50)
	} else if visibilityKm < 3 {
		if impact == ImpactLow || impact == ImpactNone {
			impact = ImpactModerate
		}
		pct = math.Max(pct, 20)
	}

	return impact, pct
}

func baseImpact(condition Condition) (Impact, float64) {
	switch condition {
	case ConditionClear:
		return ImpactNone, 0
	case ConditionOvercast:
		return ImpactLow, 5
	case ConditionWindy:
		return ImpactLow, 10
	case ConditionRain:
		return ImpactHigh, 30
	case ConditionFog:
		return ImpactHigh, 40
	default:
		return ImpactLow, 5
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
