package simulation

import (
	"math"
	"time"
)

const (
	dayTemperatureMean   = 23.0
	nightTemperatureMean = 20.0
	temperatureStdDev    = 0.8

	ambientLuxMean   = 600.0
	ambientLuxStdDev = 80.0
	sensorLuxStdDev  = 50.0

	businessOccupancyProb   = 0.8
	transitionOccupancyProb = 0.3
	idleOccupancyProb       = 0.05
)

// Source is the pseudo-random stream consumed by the samplers. *rand.Rand
// satisfies it.
type Source interface {
	NormFloat64() float64
	Float64() float64
}

func normal(src Source, mean, stdDev float64) float64 {
	return mean + src.NormFloat64()*stdDev
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// sampleTemperature draws an independent reading for each sensor.
func sampleTemperature(src Source, ts time.Time, p Period, sensors []Sensor) []Reading {
	mean := nightTemperatureMean
	if p.Daytime {
		mean = dayTemperatureMean
	}
	readings := make([]Reading, 0, len(sensors))
	for _, sensor := range sensors {
		readings = append(readings, Reading{
			Timestamp: ts,
			SensorID:  sensor.ID,
			Type:      Temperature,
			Value:     round2(normal(src, mean, temperatureStdDev)),
		})
	}
	return readings
}

// sampleIlluminance draws one ambient level for the instant and then one
// reading per sensor around it, so sensors at the same instant are
// correlated through the shared ambient.
func sampleIlluminance(src Source, ts time.Time, p Period, sensors []Sensor) []Reading {
	ambient := 0.0
	if p.Daytime {
		ambient = math.Max(0, normal(src, ambientLuxMean, ambientLuxStdDev))
	}
	readings := make([]Reading, 0, len(sensors))
	for _, sensor := range sensors {
		lux := math.Max(0, normal(src, ambient, sensorLuxStdDev))
		readings = append(readings, Reading{
			Timestamp: ts,
			SensorID:  sensor.ID,
			Type:      Illuminance,
			Value:     round2(lux),
		})
	}
	return readings
}

// OccupancyProbability returns the chance a sensor reports presence.
func OccupancyProbability(p Period) float64 {
	switch {
	case p.BusinessHours:
		return businessOccupancyProb
	case p.Transition:
		return transitionOccupancyProb
	default:
		return idleOccupancyProb
	}
}

func sampleOccupancy(src Source, ts time.Time, p Period, sensors []Sensor) []Reading {
	prob := OccupancyProbability(p)
	readings := make([]Reading, 0, len(sensors))
	for _, sensor := range sensors {
		value := 0.0
		if src.Float64() < prob {
			value = 1
		}
		readings = append(readings, Reading{
			Timestamp: ts,
			SensorID:  sensor.ID,
			Type:      Occupancy,
			Value:     value,
		})
	}
	return readings
}
