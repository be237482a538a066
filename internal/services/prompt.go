package services

import (
	"fmt"
	"strings"
	"time"
)

// FormatForPrompt renders a combined insight as the plain-text block fed to
// the narrative model. Downstream prompt templates depend on the section
// headings, so changes here are breaking.
func FormatForPrompt(insight *CombinedInsight) string {
	var factorLines []string
	for _, f := range insight.ContributingFactors {
		factorLines = append(factorLines, fmt.Sprintf("  - %s: %.1f%% contribution (%s impact) - %s",
			f.Name, f.ContributionPct, f.Impact, f.Description))
	}

	vsHistorical := "Lower"
	if insight.Traffic.CongestionLevel > insight.Historical.HistoricalAvgCongestion {
		vsHistorical = "Higher"
	}

	peakHour := "No"
	if insight.TimeContext.IsPeakHour {
		peakHour = "Yes"
	}

	return fmt.Sprintf(`=== LIVE TRAFFIC DATA FOR %s ===
Timestamp: %s
Data Source: %s

CURRENT CONDITIONS:
- Congestion Level: %.1f%% (%s)
- Current Speed: %.1f km/h
- Free Flow Speed: %.1f km/h
- Travel Time Index: %.2fx normal

WEATHER CONDITIONS:
- Condition: %s
- Temperature: %.1f°C
- Weather Impact: %s (%.0f%% speed reduction)

TIME CONTEXT:
- Current Time: %s
- Day: %s
- Period: %s
- Peak Hour: %s

HISTORICAL COMPARISON:
- Typical for this day: %.1f%% congestion
- Current vs Historical: %s than usual

CONTRIBUTING FACTORS (XAI Analysis):
%s

ANALYSIS CONFIDENCE: %.0f%%
`,
		strings.ToUpper(insight.Location),
		insight.Timestamp.Format(time.RFC3339),
		insight.Traffic.Source,
		insight.Traffic.CongestionLevel,
		insight.Traffic.CongestionCategory,
		insight.Traffic.CurrentSpeed,
		insight.Traffic.FreeFlowSpeed,
		insight.Traffic.TravelTimeRatio,
		insight.Weather.Condition,
		insight.Weather.Temperature,
		insight.Weather.Impact,
		insight.Weather.ImpactPercentage,
		insight.TimeContext.CurrentTime,
		insight.TimeContext.DayOfWeek,
		insight.TimeContext.Period,
		peakHour,
		insight.Historical.HistoricalAvgCongestion,
		vsHistorical,
		strings.Join(factorLines, "\n"),
		insight.ConfidenceScore*100,
	)
}
