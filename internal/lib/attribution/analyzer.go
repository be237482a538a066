// Package attribution decomposes an observed congestion level into weighted
// contributing factors with per-factor confidence. The output is the ordered
// factor list consumed by explanation composition; the first entry is the
// primary cause.
package attribution

import (
	"fmt"
	"math"
	"sort"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// ImpactTier buckets a factor's contribution strength.
type ImpactTier string

const (
	TierLow    ImpactTier = "Low"
	TierMedium ImpactTier = "Medium"
	TierHigh   ImpactTier = "High"
)

// ContributingFactor is one named cause of the observed congestion. Factors
// for a single analysis sum to 100% after normalization and are never
// mutated afterwards.
type ContributingFactor struct {
	Name            string     `json:"factor"`
	Description     string     `json:"description"`
	Impact          ImpactTier `json:"impact"`
	ContributionPct float64    `json:"contribution_pct"`
	Confidence      float64    `json:"confidence"`
	Source          string     `json:"source"`
}

// Knowledge-base citations attached to each factor kind.
const (
	sourceTimePatterns   = "Time Pattern Analysis Guidelines"
	sourceWeatherImpact  = "Weather Impact Guidelines"
	sourceClassification = "Traffic Congestion Classification"
	sourceIncidents      = "Incident Management Guidelines"
)

// ComputeFactors derives the ranked, normalized factor list for one
// analysis. Construction order (time, weather, volume, incident) is the
// tie-break priority; the list is then stably sorted by contribution
// descending and the percentages normalized to sum to 100.
func ComputeFactors(traffic congestion.TrafficReading, weather congestion.WeatherReading, tc congestion.TimeContext) []ContributingFactor {
	var factors []ContributingFactor

	factors = append(factors, timeFactor(tc))

	if weather.ImpactPercentage > 0 {
		factors = append(factors, weatherFactor(weather))
	}

	factors = append(factors, volumeFactor(traffic))

	if traffic.IncidentsNearby > 0 {
		factors = append(factors, incidentFactor(traffic.IncidentsNearby))
	}

	return normalize(factors)
}

func timeFactor(tc congestion.TimeContext) ContributingFactor {
	if tc.IsPeakHour {
		contribution := 35.0
		if tc.IsWeekend {
			contribution = 15.0
		}
		tier := TierMedium
		if contribution > 25 {
			tier = TierHigh
		}
		return ContributingFactor{
			Name:            "Time Pattern",
			Description:     fmt.Sprintf("%s on %s", tc.Period, tc.DayOfWeek),
			Impact:          tier,
			ContributionPct: contribution,
			Confidence:      0.95,
			Source:          sourceTimePatterns,
		}
	}

	return ContributingFactor{
		Name:            "Time Pattern",
		Description:     fmt.Sprintf("%s - Lower demand period", tc.Period),
		Impact:          TierLow,
		ContributionPct: 10,
		Confidence:      0.90,
		Source:          sourceTimePatterns,
	}
}

func weatherFactor(weather congestion.WeatherReading) ContributingFactor {
	return ContributingFactor{
		Name:            "Weather Conditions",
		Description:     fmt.Sprintf("%s - %s impact", weather.Condition, weather.Impact),
		Impact:          tierForImpact(weather.Impact),
		ContributionPct: weather.ImpactPercentage,
		Confidence:      0.88,
		Source:          sourceWeatherImpact,
	}
}

func volumeFactor(traffic congestion.TrafficReading) ContributingFactor {
	tier := TierMedium
	if traffic.CongestionLevel > 70 {
		tier = TierHigh
	}
	return ContributingFactor{
		Name:            "Traffic Volume",
		Description:     fmt.Sprintf("Current capacity utilization at %.0f%%", traffic.CongestionLevel),
		Impact:          tier,
		ContributionPct: round1(math.Min(30, traffic.CongestionLevel*0.3)),
		Confidence:      traffic.Confidence,
		Source:          sourceClassification,
	}
}

func incidentFactor(count int) ContributingFactor {
	tier := TierMedium
	if count >= 2 {
		tier = TierHigh
	}
	return ContributingFactor{
		Name:            "Active Incidents",
		Description:     fmt.Sprintf("%d incident(s) reported nearby", count),
		Impact:          tier,
		ContributionPct: math.Min(25, float64(count)*10),
		Confidence:      0.80,
		Source:          sourceIncidents,
	}
}

func tierForImpact(impact congestion.Impact) ImpactTier {
	switch impact {
	case congestion.ImpactHigh:
		return TierHigh
	case congestion.ImpactModerate:
		return TierMedium
	default:
		return TierLow
	}
}

// normalize scales contributions to sum to 100 and sorts descending. A zero
// total produces an empty list rather than a division by zero.
func normalize(factors []ContributingFactor) []ContributingFactor {
	var total float64
	for _, f := range factors {
		total += f.ContributionPct
	}
	if total == 0 {
		return nil
	}

	for i := range factors {
		factors[i].ContributionPct = round1(factors[i].ContributionPct / total * 100)
	}

	// Stable sort keeps construction order on ties.
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].ContributionPct > factors[j].ContributionPct
	})

	return factors
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
