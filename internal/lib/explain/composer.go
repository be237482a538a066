// Package explain assembles factor attributions, confidence scores, and an
// evidence trail into a single explainable analysis of traffic congestion
// for one location at one point in time. The composer performs no I/O.
package explain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/confidence"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

// Data quality assigned to the confidence score depending on whether the
// traffic source is live or simulated.
const (
	liveDataQuality      = 0.85
	simulatedDataQuality = 0.65
)

// Analyze produces the complete explainable output for one analysis
// request: factors, confidence, narrative, evidence, and recommendations.
func Analyze(in Input) Output {
	factors := attribution.ComputeFactors(in.Traffic, in.Weather, in.Time)

	dataQuality := simulatedDataQuality
	if strings.Contains(in.Traffic.Source, "Live") {
		dataQuality = liveDataQuality
	}

	// Recency is zero: readings are fetched within the same request.
	score := confidence.Compute(dataQuality, in.Traffic.Confidence, in.Historical.PatternConfidence, 0)

	return Output{
		Summary:               summarize(in, factors),
		DetailedExplanation:   detail(in, factors),
		Confidence:            score,
		Factors:               factors,
		Evidence:              buildEvidence(in, factors),
		Recommendations:       recommend(in.Traffic.CongestionLevel, factors, string(in.Weather.Condition)),
		UncertaintyDisclosure: discloseUncertainty(score),
		GeneratedAt:           time.Now(),
	}
}

func summarize(in Input, factors []attribution.ContributingFactor) string {
	primary := "traffic volume"
	if len(factors) > 0 {
		primary = strings.ToLower(factors[0].Name)
	}

	return fmt.Sprintf("%s is experiencing %s congestion (%.0f%% capacity utilization). Primary cause: %s.",
		in.Location,
		strings.ToLower(string(in.Traffic.CongestionCategory)),
		in.Traffic.CongestionLevel,
		primary)
}

// detail builds the ordered narrative paragraphs: current status, time
// factor (peak hours only), weather (when impacting), historical context,
// and the top-4 factor breakdown.
func detail(in Input, factors []attribution.ContributingFactor) string {
	var parts []string

	parts = append(parts, fmt.Sprintf(
		"**Current Status**: %s shows %s congestion with vehicles moving at %.1f km/h (normal free-flow: %.1f km/h). Travel time is %.1fx normal.",
		in.Location, in.Traffic.CongestionCategory, in.Traffic.CurrentSpeed, in.Traffic.FreeFlowSpeed, in.Traffic.TravelTimeRatio))

	if in.Time.IsPeakHour {
		commuterLevel := "high"
		if in.Time.IsWeekend {
			commuterLevel = "moderate"
		}
		parts = append(parts, fmt.Sprintf(
			"**Time Factor**: This is %s on %s, which typically sees %s commuter traffic. According to our Time Patterns Analysis, this period accounts for the highest traffic volumes of the day.",
			in.Time.Period, in.Time.DayOfWeek, commuterLevel))
	}

	if in.Weather.Impact != congestion.ImpactNone {
		parts = append(parts, fmt.Sprintf(
			"**Weather Impact**: Current %s conditions are causing a %s impact on traffic flow. According to our Weather Impact Guidelines, this typically reduces average speeds by %.0f%% due to reduced visibility and road grip.",
			in.Weather.Condition, strings.ToLower(string(in.Weather.Impact)), in.Weather.ImpactPercentage))
	}

	comparison := "lower"
	if in.Traffic.CongestionLevel > in.Historical.HistoricalAvgCongestion {
		comparison = "higher"
	}
	diff := math.Abs(in.Traffic.CongestionLevel - in.Historical.HistoricalAvgCongestion)
	parts = append(parts, fmt.Sprintf(
		"**Historical Context**: Current congestion (%.0f%%) is %.0f%% %s than the typical %.0f%% average for this day and time. This comparison is based on %d records from our Bangalore traffic dataset.",
		in.Traffic.CongestionLevel, diff, comparison, in.Historical.HistoricalAvgCongestion, in.Historical.SampleSize))

	if len(factors) > 0 {
		var b strings.Builder
		b.WriteString("**Contributing Factors**:\n")
		for i, f := range factors {
			if i >= 4 {
				break
			}
			fmt.Fprintf(&b, "%d. **%s** (%.0f%% contribution): %s [Source: %s]\n",
				i+1, f.Name, f.ContributionPct, f.Description, f.Source)
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "\n\n")
}

// discloseUncertainty renders an honest statement of what the analysis does
// not know, based on the triggered uncertainty warnings.
func discloseUncertainty(score confidence.Score) string {
	if len(score.Uncertainties) == 0 {
		return "Analysis based on high-quality, real-time data with strong pattern match."
	}

	var b strings.Builder
	b.WriteString("Uncertainty factors to consider:\n")
	for _, u := range score.Uncertainties {
		fmt.Fprintf(&b, "  - %s\n", u)
	}

	if score.ReliabilityGrade == "C" || score.ReliabilityGrade == "D" {
		b.WriteString("\nRecommend manual verification for critical decisions.")
	}

	return strings.TrimSpace(b.String())
}
