package congestion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTraffic(t *testing.T) {
	observed := time.Date(2026, 2, 10, 18, 30, 0, 0, time.UTC)

	raw := RawTrafficReading{
		Location:        "Koramangala",
		CurrentSpeed:    18.5,
		FreeFlowSpeed:   45.0,
		IncidentsNearby: 1,
		Source:          "TomTom Live API",
		Confidence:      0.95,
		ObservedAt:      observed,
	}

	reading, err := NormalizeTraffic(raw)
	require.NoError(t, err)

	assert.InDelta(t, 58.9, reading.CongestionLevel, 0.001)
	assert.Equal(t, CategoryModerate, reading.CongestionCategory)
	assert.InDelta(t, 2.43, reading.TravelTimeRatio, 0.001)
	assert.Equal(t, "Koramangala", reading.Location)
	assert.Equal(t, 1, reading.IncidentsNearby)
	assert.Equal(t, observed, reading.Timestamp)
}

func TestNormalizeTraffic_InvalidReadings(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		free    float64
	}{
		{"zero free flow", 20, 0},
		{"negative free flow", 20, -10},
		{"negative current speed", -5, 45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeTraffic(RawTrafficReading{
				CurrentSpeed:  tt.current,
				FreeFlowSpeed: tt.free,
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidReading)
		})
	}
}

func TestNormalizeTraffic_StalledTraffic(t *testing.T) {
	// A zero current speed takes the fixed TTI penalty rather than dividing
	// by zero.
	reading, err := NormalizeTraffic(RawTrafficReading{
		CurrentSpeed:  0,
		FreeFlowSpeed: 50,
	})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, reading.TravelTimeRatio, 0.001)
	assert.InDelta(t, 100, reading.CongestionLevel, 0.001)
	assert.Equal(t, CategorySevere, reading.CongestionCategory)
}

func TestCategorize_Boundaries(t *testing.T) {
	tests := []struct {
		level float64
		want  Category
	}{
		{0, CategoryLight},
		{29.9, CategoryLight},
		{30.0, CategoryModerate},
		{59.9, CategoryModerate},
		{60.0, CategoryHeavy},
		{84.9, CategoryHeavy},
		{85.0, CategorySevere},
		{100, CategorySevere},
		// Out-of-range inputs are clamped before lookup.
		{-12, CategoryLight},
		{140, CategorySevere},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.level), "level %.1f", tt.level)
	}
}

func TestMapCondition(t *testing.T) {
	tests := []struct {
		raw  string
		want Condition
	}{
		{"Light Rain", ConditionRain},
		{"drizzle", ConditionRain},
		{"Fog", ConditionFog},
		{"mist", ConditionFog},
		{"Haze", ConditionFog},
		{"scattered clouds", ConditionOvercast},
		{"Thunderstorm", ConditionWindy},
		{"windy", ConditionWindy},
		{"Clear", ConditionClear},
		{"", ConditionClear},
		{"something else", ConditionClear},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapCondition(tt.raw), "condition %q", tt.raw)
	}
}

func TestComputeImpact(t *testing.T) {
	tests := []struct {
		name         string
		condition    Condition
		visibilityKm float64
		wantImpact   Impact
		wantPct      float64
	}{
		{"clear good visibility", ConditionClear, 10, ImpactNone, 0},
		{"overcast", ConditionOvercast, 10, ImpactLow, 5},
		{"windy", ConditionWindy, 10, ImpactLow, 10},
		{"rain", ConditionRain, 10, ImpactHigh, 30},
		{"fog", ConditionFog, 10, ImpactHigh, 40},
		{"very low visibility forces high", ConditionOvercast, 0.5, ImpactHigh, 50},
		{"fog keeps own percentage below 1km floor", ConditionFog, 0.5, ImpactHigh, 50},
		{"low visibility floors moderate", ConditionWindy, 2.0, ImpactModerate, 20},
		{"rain keeps high at low visibility", ConditionRain, 2.0, ImpactHigh, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			impact, pct := ComputeImpact(tt.condition, tt.visibilityKm)
			assert.Equal(t, tt.wantImpact, impact)
			assert.InDelta(t, tt.wantPct, pct, 0.001)
		})
	}
}

func TestNormalizeWeather(t *testing.T) {
	rain := 2.5
	reading, err := NormalizeWeather(RawWeatherReading{
		Location:         "Bangalore",
		Condition:        "light rain",
		Temperature:      24.52,
		Humidity:         78,
		WindSpeedKmh:     12.0,
		VisibilityMeters: 6000,
		RainIntensity:    &rain,
	})
	require.NoError(t, err)

	assert.Equal(t, ConditionRain, reading.Condition)
	assert.Equal(t, ImpactHigh, reading.Impact)
	assert.InDelta(t, 30, reading.ImpactPercentage, 0.001)
	assert.InDelta(t, 6.0, reading.VisibilityKm, 0.001)
	assert.InDelta(t, 24.5, reading.Temperature, 0.001)
	require.NotNil(t, reading.RainIntensity)
	assert.InDelta(t, 2.5, *reading.RainIntensity, 0.001)
}

func TestNormalizeWeather_InvalidReadings(t *testing.T) {
	negRain := -1.0

	tests := []struct {
		name string
		raw  RawWeatherReading
	}{
		{"negative humidity", RawWeatherReading{Humidity: -1, VisibilityMeters: 1000}},
		{"negative visibility", RawWeatherReading{VisibilityMeters: -100}},
		{"negative rain intensity", RawWeatherReading{VisibilityMeters: 1000, RainIntensity: &negRain}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeWeather(tt.raw)
			assert.ErrorIs(t, err, ErrInvalidReading)
		})
	}
}

func TestTimeContextAt(t *testing.T) {
	tests := []struct {
		name       string
		t          time.Time
		wantPeriod string
		wantPeak   bool
		wantWkend  bool
	}{
		{"weekday morning peak", time.Date(2026, 2, 10, 8, 15, 0, 0, time.UTC), PeriodMorningPeak, true, false},
		{"weekday midday", time.Date(2026, 2, 10, 13, 0, 0, 0, time.UTC), PeriodMidday, false, false},
		{"weekday evening peak", time.Date(2026, 2, 10, 18, 30, 0, 0, time.UTC), PeriodEveningPeak, true, false},
		{"weekday late night", time.Date(2026, 2, 10, 23, 0, 0, 0, time.UTC), PeriodOffPeak, false, false},
		{"early morning boundary", time.Date(2026, 2, 10, 6, 59, 0, 0, time.UTC), PeriodOffPeak, false, false},
		{"morning peak start", time.Date(2026, 2, 10, 7, 0, 0, 0, time.UTC), PeriodMorningPeak, true, false},
		{"evening peak end", time.Date(2026, 2, 10, 19, 59, 0, 0, time.UTC), PeriodEveningPeak, true, false},
		{"off-peak at 20:00", time.Date(2026, 2, 10, 20, 0, 0, 0, time.UTC), PeriodOffPeak, false, false},
		{"saturday is weekend", time.Date(2026, 2, 14, 8, 0, 0, 0, time.UTC), PeriodMorningPeak, true, true},
		{"sunday is weekend", time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC), PeriodMidday, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := TimeContextAt(tt.t)
			assert.Equal(t, tt.wantPeriod, ctx.Period)
			assert.Equal(t, tt.wantPeak, ctx.IsPeakHour)
			assert.Equal(t, tt.wantWkend, ctx.IsWeekend)
			assert.Equal(t, tt.t.Weekday().String(), ctx.DayOfWeek)
		})
	}
}
