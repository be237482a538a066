package congestion

import "time"

// Named demand periods over the day.
const (
	PeriodMorningPeak = "Morning Peak" // 07:00-09:59
	PeriodMidday      = "Midday"       // 10:00-15:59
	PeriodEveningPeak = "Evening Peak" // 16:00-19:59
	PeriodOffPeak     = "Off-Peak"
)

// TimeContextAt derives the temporal context for a point in time.
func TimeContextAt(t time.Time) TimeContext {
	period, isPeak := periodFor(t.Hour())
	weekday := t.Weekday()

	return TimeContext{
		CurrentTime: t.Format("15:04"),
		DayOfWeek:   weekday.String(),
		IsWeekend:   weekday == time.Saturday || weekday == time.Sunday,
		Period:      period,
		IsPeakHour:  isPeak,
	}
}

func periodFor(hour int) (string, bool) {
	switch {
	case hour >= 7 && hour < 10:
		return PeriodMorningPeak, true
	case hour >= 10 && hour < 16:
		return PeriodMidday, false
	case hour >= 16 && hour < 20:
		return PeriodEveningPeak, true
	default:
		return PeriodOffPeak, false
	}
}
