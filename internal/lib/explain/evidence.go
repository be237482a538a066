package explain

import (
	"fmt"
	"strings"
	"time"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/attribution"
)

// historicalDataset identifies the preprocessed baseline dataset cited in
// every evidence trail.
const historicalDataset = "Bangalore Traffic Dataset (8,936 records)"

// buildEvidence collects the sources, key data points, and the fixed
// seven-step reasoning chain behind one analysis.
func buildEvidence(in Input, factors []attribution.ContributingFactor) EvidenceTrail {
	sources := []EvidenceSource{
		{
			Type:        "Live Traffic Data",
			Source:      in.Traffic.Source,
			Timestamp:   formatStamp(in.Traffic.Timestamp),
			Reliability: reliabilityFor(in.Traffic.Source),
		},
		{
			Type:        "Weather Data",
			Source:      "OpenWeatherMap API",
			Timestamp:   formatStamp(in.Weather.Timestamp),
			Reliability: "High",
		},
		{
			Type:        "Historical Patterns",
			Source:      historicalDataset,
			Timestamp:   "2022-2024 baseline",
			Reliability: "Medium",
		},
	}

	// Knowledge-base citations referenced by individual factors,
	// de-duplicated by source name.
	seen := map[string]bool{}
	for _, s := range sources {
		seen[s.Source] = true
	}
	for _, f := range factors {
		if f.Source == "" || seen[f.Source] {
			continue
		}
		seen[f.Source] = true
		sources = append(sources, EvidenceSource{
			Type:        "Knowledge Base",
			Source:      f.Source,
			Timestamp:   "Static reference",
			Reliability: "High",
		})
	}

	dayType := "Weekday"
	if in.Time.IsWeekend {
		dayType = "Weekend"
	}

	dataPoints := []DataPoint{
		{Metric: "Current Speed", Value: fmt.Sprintf("%.1f km/h", in.Traffic.CurrentSpeed)},
		{Metric: "Congestion Level", Value: fmt.Sprintf("%.1f%%", in.Traffic.CongestionLevel)},
		{Metric: "Weather Condition", Value: string(in.Weather.Condition)},
		{Metric: "Time Period", Value: in.Time.Period},
		{Metric: "Day Type", Value: dayType},
	}

	reasoning := []string{
		fmt.Sprintf("1. Retrieved live traffic data for %s", in.Location),
		fmt.Sprintf("2. Current congestion level: %.1f%% (%s)", in.Traffic.CongestionLevel, in.Traffic.CongestionCategory),
		fmt.Sprintf("3. Weather impact assessed: %s (%s)", in.Weather.Impact, in.Weather.Condition),
		fmt.Sprintf("4. Time context: %s on %s", in.Time.Period, in.Time.DayOfWeek),
		"5. Cross-referenced with historical patterns for this day/time",
		"6. Applied factor attribution analysis to identify causes",
		"7. Generated confidence score based on data quality and pattern match",
	}

	return EvidenceTrail{
		Sources:        sources,
		DataPoints:     dataPoints,
		ReasoningChain: reasoning,
	}
}

// reliabilityFor labels a traffic source High only when it is a live feed.
func reliabilityFor(source string) string {
	if strings.Contains(source, "Live") {
		return "High"
	}
	return "Medium"
}

func formatStamp(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(time.RFC3339)
}
