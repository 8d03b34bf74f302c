package simulation

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"strconv"
	"time"
)

// TimestampLayout is the minute-resolution layout used in every output format.
const TimestampLayout = "2006-01-02 15:04"

// Reading is a single simulated sample.
type Reading struct {
	Timestamp time.Time
	SensorID  string
	Type      SensorType
	Value     float64
}

// FormattedTimestamp renders the timestamp as YYYY-MM-DD HH:MM.
func (r Reading) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// FormattedValue renders occupancy as a plain integer and everything else
// with two decimals.
func (r Reading) FormattedValue() string {
	if r.Type == Occupancy {
		return strconv.Itoa(int(r.Value))
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

// CompareReadings orders by timestamp, then sensor id, then type
// declaration order.
func CompareReadings(a, b Reading) int {
	if c := a.Timestamp.Compare(b.Timestamp); c != 0 {
		return c
	}
	if c := cmp.Compare(a.SensorID, b.SensorID); c != 0 {
		return c
	}
	return cmp.Compare(a.Type, b.Type)
}

// Dataset is the sorted, immutable result of one generation run.
type Dataset struct {
	window   Window
	readings []Reading
}

// NewDataset stably sorts the readings and freezes them into a Dataset.
func NewDataset(window Window, readings []Reading) *Dataset {
	sorted := slices.Clone(readings)
	slices.SortStableFunc(sorted, CompareReadings)
	return &Dataset{window: window, readings: sorted}
}

// Window returns the window the dataset was generated for.
func (d *Dataset) Window() Window {
	return d.window
}

// Len returns the number of readings.
func (d *Dataset) Len() int {
	return len(d.readings)
}

// Readings returns a copy of the ordered readings.
func (d *Dataset) Readings() []Reading {
	return slices.Clone(d.readings)
}

// All iterates the readings in order without copying.
func (d *Dataset) All() iter.Seq[Reading] {
	return func(yield func(Reading) bool) {
		for _, r := range d.readings {
			if !yield(r) {
				return
			}
		}
	}
}

// Filter narrows the dataset. An empty sensorID or nil sensorType matches
// everything.
func (d *Dataset) Filter(sensorID string, sensorType *SensorType) []Reading {
	out := make([]Reading, 0)
	for _, r := range d.readings {
		if sensorID != "" && r.SensorID != sensorID {
			continue
		}
		if sensorType != nil && r.Type != *sensorType {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CountByType tallies readings per sensor type.
func (d *Dataset) CountByType() map[SensorType]int {
	counts := make(map[SensorType]int, len(sensorTypeLabels))
	for _, r := range d.readings {
		counts[r.Type]++
	}
	return counts
}

// SensorSummary aggregates one sensor's readings.
type SensorSummary struct {
	SensorID string    `json:"sensorId"`
	Type     string    `json:"tipo"`
	Unit     string    `json:"unit,omitempty"`
	Count    int       `json:"count"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Mean     float64   `json:"mean"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
}

// Summary returns per-sensor aggregates ordered by sensor id.
func (d *Dataset) Summary() []SensorSummary {
	index := make(map[string]int)
	summaries := make([]SensorSummary, 0)
	sums := make([]float64, 0)

	for _, r := range d.readings {
		i, ok := index[r.SensorID]
		if !ok {
			i = len(summaries)
			index[r.SensorID] = i
			summaries = append(summaries, SensorSummary{
				SensorID: r.SensorID,
				Type:     r.Type.String(),
				Unit:     r.Type.Unit(),
				Min:      math.Inf(1),
				Max:      math.Inf(-1),
				First:    r.Timestamp,
			})
			sums = append(sums, 0)
		}
		s := &summaries[i]
		s.Count++
		s.Min = math.Min(s.Min, r.Value)
		s.Max = math.Max(s.Max, r.Value)
		s.Last = r.Timestamp
		sums[i] += r.Value
	}

	for i := range summaries {
		summaries[i].Mean = round2(sums[i] / float64(summaries[i].Count))
	}
	slices.SortFunc(summaries, func(a, b SensorSummary) int {
		return cmp.Compare(a.SensorID, b.SensorID)
	})
	return summaries
}
