package simulation

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// RunStats describes a finished generation run.
type RunStats struct {
	Instants int
	Readings map[SensorType]int
	Duration time.Duration
}

// Observer is notified once a generation run completes.
type Observer interface {
	OnGenerated(stats RunStats)
}

// Generator synthesizes a Dataset for a window from a single random stream.
type Generator struct {
	window    Window
	sensors   []Sensor
	src       Source
	log       *zap.Logger
	observers []Observer
}

// Option customizes Generator creation.
type Option func(*Generator)

// WithSeed seeds a fresh math/rand stream.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.src = rand.New(rand.NewSource(seed))
	}
}

// WithSource injects an existing random stream. Nil is ignored.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithSensors replaces the reference sensor deployment.
func WithSensors(sensors []Sensor) Option {
	return func(g *Generator) {
		if sensors != nil {
			g.sensors = sensors
		}
	}
}

// WithLogger attaches a logger. Nil is ignored.
func WithLogger(log *zap.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}

// WithObserver subscribes to run completion.
func WithObserver(o Observer) Option {
	return func(g *Generator) {
		if o != nil {
			g.observers = append(g.observers, o)
		}
	}
}

// New creates a Generator for the window. Without WithSeed or WithSource it
// uses DefaultSeed.
func New(window Window, opts ...Option) *Generator {
	g := &Generator{
		window:  window,
		sensors: DefaultSensors(),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.src == nil {
		g.src = rand.New(rand.NewSource(DefaultSeed))
	}
	return g
}

// Generate walks the time grid once and returns the sorted dataset. The
// random stream is consumed per instant in a fixed order: temperature
// sensors, the illuminance ambient, illuminance sensors, occupancy sensors.
func (g *Generator) Generate() (*Dataset, error) {
	instants, err := g.window.Instants()
	if err != nil {
		return nil, err
	}

	started := time.Now()
	grouped := groupSensors(g.sensors)
	g.log.Info("sensor simulation started",
		zap.Time("start", g.window.Start),
		zap.Time("end", g.window.End),
		zap.Duration("interval", g.window.Interval()),
		zap.Int("sensors", len(g.sensors)),
	)

	readings := make([]Reading, 0, g.window.Count()*len(g.sensors))
	count := 0
	for ts := range instants {
		p := Classify(ts)
		readings = append(readings, sampleTemperature(g.src, ts, p, grouped[Temperature])...)
		readings = append(readings, sampleIlluminance(g.src, ts, p, grouped[Illuminance])...)
		readings = append(readings, sampleOccupancy(g.src, ts, p, grouped[Occupancy])...)
		count++
	}

	ds := NewDataset(g.window, readings)
	stats := RunStats{
		Instants: count,
		Readings: ds.CountByType(),
		Duration: time.Since(started),
	}
	g.log.Info("sensor simulation finished",
		zap.Int("instants", stats.Instants),
		zap.Int("readings", ds.Len()),
		zap.Duration("took", stats.Duration),
	)
	for _, o := range g.observers {
		o.OnGenerated(stats)
	}
	return ds, nil
}
