package openweather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sushanth-25/Traffic-Congestion-Agent/internal/lib/congestion"
)

func simClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 25, 18, 30, 0, 0, time.UTC)
	}
}

func TestSimulator_CurrentWeather(t *testing.T) {
	sim := NewSimulatorWithClock(1, simClock())

	sawRain := false
	for i := 0; i < 100; i++ {
		reading := sim.CurrentWeather("Koramangala")

		assert.Equal(t, "Koramangala", reading.Location)
		assert.Contains(t, []string{"Clear", "Clouds", "Light Rain"}, reading.Condition)
		assert.GreaterOrEqual(t, reading.Temperature, 18.0)
		assert.LessOrEqual(t, reading.Temperature, 32.0)
		assert.GreaterOrEqual(t, reading.Humidity, 40.0)
		assert.LessOrEqual(t, reading.Humidity, 80.0)
		assert.GreaterOrEqual(t, reading.VisibilityMeters, 5000.0)

		if reading.Condition == "Light Rain" {
			sawRain = true
			require.NotNil(t, reading.RainIntensity)
			assert.GreaterOrEqual(t, *reading.RainIntensity, 0.5)
			assert.LessOrEqual(t, *reading.RainIntensity, 5.0)
		} else {
			assert.Nil(t, reading.RainIntensity)
		}
	}
	assert.True(t, sawRain, "expected at least one rainy draw in 100 samples")
}

// Every simulated reading must classify into one of the canonical
// conditions with its tabulated impact; an unrecognized raw string would
// silently collapse to Clear with no impact.
func TestSimulator_ReadingsClassify(t *testing.T) {
	sim := NewSimulatorWithClock(7, simClock())

	sawOvercast := false
	for i := 0; i < 100; i++ {
		reading, err := congestion.NormalizeWeather(sim.CurrentWeather("Koramangala"))
		require.NoError(t, err)

		switch reading.Condition {
		case congestion.ConditionClear:
			assert.Equal(t, 0.0, reading.ImpactPercentage)
		case congestion.ConditionOvercast:
			sawOvercast = true
			assert.Equal(t, congestion.ImpactLow, reading.Impact)
			assert.Equal(t, 5.0, reading.ImpactPercentage)
		case congestion.ConditionRain:
			assert.Equal(t, congestion.ImpactHigh, reading.Impact)
			assert.Equal(t, 30.0, reading.ImpactPercentage)
		default:
			t.Fatalf("simulated condition %q fell outside the expected mix", reading.Condition)
		}
	}
	assert.True(t, sawOvercast, "expected at least one overcast draw in 100 samples")
}
