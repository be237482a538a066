package tomtom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockAt(hour int, day time.Weekday) func() time.Time {
	// Aug 24 2026 is a Monday; offset to reach the wanted weekday.
	base := time.Date(2026, time.August, 24, hour, 0, 0, 0, time.UTC)
	offset := (int(day) - int(time.Monday) + 7) % 7
	t := base.AddDate(0, 0, offset)
	return func() time.Time { return t }
}

func TestSimulator_WeekdayEveningPeak(t *testing.T) {
	sim := NewSimulatorWithClock(1, clockAt(18, time.Tuesday))

	for i := 0; i < 50; i++ {
		reading := sim.FlowSegment("Indiranagar")

		congestion := (1 - reading.CurrentSpeed/reading.FreeFlowSpeed) * 100
		assert.GreaterOrEqual(t, congestion, 75.0)
		assert.Equal(t, "Simulated", reading.Source)
		assert.Equal(t, 0.75, reading.Confidence)
	}
}

func TestSimulator_NightIsQuiet(t *testing.T) {
	sim := NewSimulatorWithClock(2, clockAt(3, time.Tuesday))

	for i := 0; i < 50; i++ {
		reading := sim.FlowSegment("Indiranagar")

		congestion := (1 - reading.CurrentSpeed/reading.FreeFlowSpeed) * 100
		assert.LessOrEqual(t, congestion, 35.0)
	}
}

func TestSimulator_WeekendMorningLighterThanWeekday(t *testing.T) {
	weekday := NewSimulatorWithClock(3, clockAt(9, time.Tuesday))
	weekend := NewSimulatorWithClock(3, clockAt(9, time.Saturday))

	// Weekday morning peak floor (70) sits above the weekend ceiling (50).
	for i := 0; i < 50; i++ {
		wd := weekday.FlowSegment("Indiranagar")
		we := weekend.FlowSegment("Indiranagar")

		wdCongestion := (1 - wd.CurrentSpeed/wd.FreeFlowSpeed) * 100
		weCongestion := (1 - we.CurrentSpeed/we.FreeFlowSpeed) * 100
		assert.Greater(t, wdCongestion, weCongestion)
	}
}

func TestSimulator_HotspotUplift(t *testing.T) {
	// Same seed and clock, so only the hotspot multiplier differs.
	quiet := NewSimulatorWithClock(4, clockAt(13, time.Tuesday))
	hot := NewSimulatorWithClock(4, clockAt(13, time.Tuesday))

	plain := quiet.FlowSegment("Indiranagar")
	uplifted := hot.FlowSegment("Silk Board")

	plainCongestion := (1 - plain.CurrentSpeed/plain.FreeFlowSpeed) * 100
	hotCongestion := (1 - uplifted.CurrentSpeed/uplifted.FreeFlowSpeed) * 100
	assert.Greater(t, hotCongestion, plainCongestion)
}

func TestSimulator_ReadingBounds(t *testing.T) {
	sim := NewSimulatorWithClock(5, clockAt(18, time.Tuesday))

	for i := 0; i < 200; i++ {
		reading := sim.FlowSegment("Silk Board")

		require.Greater(t, reading.FreeFlowSpeed, 0.0)
		assert.GreaterOrEqual(t, reading.CurrentSpeed, 5.0)
		assert.GreaterOrEqual(t, reading.FreeFlowSpeed, 45.0)
		assert.LessOrEqual(t, reading.FreeFlowSpeed, 60.0)
		assert.GreaterOrEqual(t, reading.IncidentsNearby, 0)
		assert.LessOrEqual(t, reading.IncidentsNearby, 3)
		assert.False(t, reading.RoadClosure)
	}
}
