package narrative

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/explain"
)

func sampleAnalysis() explain.Output {
	return explain.Analyze(explain.Input{
		Location: "Koramangala",
		Traffic: congestion.TrafficReading{
			Location:           "Koramangala",
			CurrentSpeed:       18.5,
			FreeFlowSpeed:      45,
			CongestionLevel:    58.9,
			CongestionCategory: congestion.CategoryModerate,
			TravelTimeRatio:    2.43,
			Source:             "TomTom Live API",
			Confidence:         0.95,
		},
		Weather: congestion.WeatherReading{
			Condition:        congestion.ConditionClear,
			Impact:           congestion.ImpactNone,
			ImpactPercentage: 0,
			VisibilityKm:     10,
		},
		Time: congestion.TimeContext{
			CurrentTime: "18:30",
			DayOfWeek:   "Tuesday",
			Period:      "Evening Peak",
			IsPeakHour:  true,
		},
		Historical: congestion.HistoricalComparison{
			HistoricalAvgCongestion: 60,
			TypicalConditions:       "Moderate",
			SampleSize:              1200,
			PatternConfidence:       0.85,
		},
	})
}

func TestEnhancer_NoAPIKey(t *testing.T) {
	enhancer := NewEnhancer("", "gpt-4o-mini")
	assert.NotNil(t, enhancer)

	_, err := enhancer.EnhanceExplanation(context.Background(), sampleAnalysis())
	assert.Error(t, err, "Should return error with no API key")
}

func TestEnhancer_InvalidAPIKey(t *testing.T) {
	enhancer := NewEnhancer("invalid-test-key", "gpt-4o-mini")

	_, err := enhancer.EnhanceExplanation(context.Background(), sampleAnalysis())
	assert.Error(t, err, "Should return error with invalid API key")
}
