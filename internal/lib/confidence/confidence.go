// Package confidence scores how much trust to place in one analysis. It
// produces two independent metrics: the graded per-explanation Score, and
// the separate aggregate for a combined insight. The weights and thresholds
// are policy constants.
package confidence

import (
	"fmt"
	"math"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// Score is a weighted confidence score with its component breakdown,
// triggered uncertainty warnings, and a letter reliability grade.
type Score struct {
	Overall          float64            `json:"overall"`
	Components       map[string]float64 `json:"components"`
	Uncertainties    []string           `json:"uncertainties"`
	ReliabilityGrade string             `json:"reliability_grade"`
}

// Fixed component weights.
const (
	weightDataQuality       = 0.30
	weightSourceReliability = 0.25
	weightPatternMatch      = 0.25
	weightDataRecency       = 0.20
)

// Compute builds a Score from the four quality inputs. dataQuality,
// sourceReliability, and patternMatch are 0-1; recencyHours is the age of
// the underlying data in hours.
func Compute(dataQuality, sourceReliability, patternMatch, recencyHours float64) Score {
	// Recency decays linearly, bottoming out at 0.5 after a full day.
	recency := math.Max(0.5, 1.0-(recencyHours/24)*0.5)

	overall := weightDataQuality*dataQuality +
		weightSourceReliability*sourceReliability +
		weightPatternMatch*patternMatch +
		weightDataRecency*recency

	var uncertainties []string
	if dataQuality < 0.7 {
		uncertainties = append(uncertainties, "Data quality below optimal threshold")
	}
	if sourceReliability < 0.8 {
		uncertainties = append(uncertainties, "Using simulated/cached data")
	}
	if patternMatch < 0.7 {
		uncertainties = append(uncertainties, "Unusual pattern detected - historical match weak")
	}
	if recency < 0.8 {
		uncertainties = append(uncertainties, fmt.Sprintf("Data is %.1f hours old", recencyHours))
	}

	return Score{
		Overall: round2(overall),
		Components: map[string]float64{
			"data_quality":       round2(dataQuality),
			"source_reliability": round2(sourceReliability),
			"pattern_match":      round2(patternMatch),
			"data_recency":       round2(recency),
		},
		Uncertainties:    uncertainties,
		ReliabilityGrade: gradeFor(overall),
	}
}

func gradeFor(overall float64) string {
	switch {
	case overall >= 0.85:
		return "A"
	case overall >= 0.70:
		return "B"
	case overall >= 0.55:
		return "C"
	default:
		return "D"
	}
}

// Insight computes the independent aggregate confidence for a combined
// traffic insight from the per-factor confidences. This is a distinct
// metric from the per-explanation Score; the two are never reconciled.
func Insight(traffic congestion.TrafficReading, factors []attribution.ContributingFactor) float64 {
	// 0.9 is the assumed reliability of the weather source.
	dataConfidence := (traffic.Confidence + 0.9) / 2

	factorConfidence := 0.7
	if len(factors) > 0 {
		var weighted float64
		for _, f := range factors {
			weighted += f.Confidence * f.ContributionPct
		}
		factorConfidence = weighted / 100
	}

	// 0.05 is the live-data recency bonus.
	overall := dataConfidence*0.5 + factorConfidence*0.4 + 0.05

	return round2(math.Min(0.99, overall))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
