package simulation

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"time"
)

// ErrInvalidWindow is returned when a window ends before it starts or has a
// non-positive sampling interval.
var ErrInvalidWindow = errors.New("invalid simulation window")

// maxIntervalMinutes is the largest interval that still fits a time.Duration.
const maxIntervalMinutes = math.MaxInt64 / int64(time.Minute)

// Window is a left-closed, right-open span of simulated time sampled every
// IntervalMinutes.
type Window struct {
	Start           time.Time
	End             time.Time
	IntervalMinutes int
}

// Interval returns the sampling step as a duration.
func (w Window) Interval() time.Duration {
	return time.Duration(w.IntervalMinutes) * time.Minute
}

// Validate reports ErrInvalidWindow for unusable windows. A window whose end
// equals its start is valid and simply empty.
func (w Window) Validate() error {
	if w.IntervalMinutes <= 0 {
		return fmt.Errorf("%w: interval must be positive, got %d minutes", ErrInvalidWindow, w.IntervalMinutes)
	}
	if int64(w.IntervalMinutes) > maxIntervalMinutes {
		return fmt.Errorf("%w: interval of %d minutes overflows a duration", ErrInvalidWindow, w.IntervalMinutes)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidWindow, w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	return nil
}

// Count returns how many grid instants the window holds.
func (w Window) Count() int {
	if w.Validate() != nil {
		return 0
	}
	span := w.End.Sub(w.Start)
	step := w.Interval()
	n := int(span / step)
	if span%step != 0 {
		n++
	}
	return n
}

// Instants returns the window's time grid. The sequence is lazy and can be
// ranged over any number of times, yielding the same instants each time.
func (w Window) Instants() (iter.Seq[time.Time], error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	step := w.Interval()
	return func(yield func(time.Time) bool) {
		for ts := w.Start; ts.Before(w.End); ts = ts.Add(step) {
			if !yield(ts) {
				return
			}
		}
	}, nil
}
