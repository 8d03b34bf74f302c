package simulation

import "time"

const (
	daytimeStartHour   = 7
	daytimeEndHour     = 18
	businessStartHour  = 8
	businessEndHour    = 18
	eveningTailEndHour = 20
	firstWeekendDay    = 5
)

// Period holds the calendar flags that condition the noise models.
type Period struct {
	DayOfWeek     int // 0 = Monday ... 6 = Sunday
	Hour          int
	Daytime       bool
	BusinessHours bool
	Transition    bool
}

// Weekday reports whether the period falls Monday through Friday.
func (p Period) Weekday() bool {
	return p.DayOfWeek < firstWeekendDay
}

// Classify derives the period flags for an instant in its own location.
func Classify(t time.Time) Period {
	p := Period{
		DayOfWeek: (int(t.Weekday()) + 6) % 7,
		Hour:      t.Hour(),
	}
	p.Daytime = p.Hour >= daytimeStartHour && p.Hour <= daytimeEndHour
	p.BusinessHours = p.Weekday() && p.Hour >= businessStartHour && p.Hour <= businessEndHour
	p.Transition = p.Weekday() &&
		((p.Hour >= daytimeStartHour && p.Hour < businessStartHour) ||
			(p.Hour > businessEndHour && p.Hour <= eveningTailEndHour))
	return p
}
