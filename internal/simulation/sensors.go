package simulation

import (
	"fmt"
	"strings"
)

// SensorType identifies one of the simulated sensor classes. The declaration
// order is the canonical ordering used when sorting readings.
type SensorType int

const (
	Temperature SensorType = iota
	Illuminance
	Occupancy
)

var sensorTypeLabels = map[SensorType]string{
	Temperature: "temperatura",
	Illuminance: "luminosidade",
	Occupancy:   "ocupacao",
}

var sensorTypeUnits = map[SensorType]string{
	Temperature: "°C",
	Illuminance: "lux",
	Occupancy:   "",
}

// SensorTypes lists every sensor type in canonical order.
func SensorTypes() []SensorType {
	return []SensorType{Temperature, Illuminance, Occupancy}
}

// String returns the label written to the tipo column.
func (t SensorType) String() string {
	if label, ok := sensorTypeLabels[t]; ok {
		return label
	}
	return "unknown"
}

// Unit returns the implicit unit of the type's values. Occupancy has none.
func (t SensorType) Unit() string {
	return sensorTypeUnits[t]
}

// ParseSensorType resolves a tipo label back to its SensorType.
func ParseSensorType(label string) (SensorType, error) {
	needle := strings.ToLower(strings.TrimSpace(label))
	for _, t := range SensorTypes() {
		if sensorTypeLabels[t] == needle {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor type %q", label)
}

// Sensor is a simulated device identified by a short stable code.
type Sensor struct {
	ID   string
	Type SensorType
}

// DefaultSensors returns the reference office deployment, three sensors per type.
func DefaultSensors() []Sensor {
	return []Sensor{
		{ID: "T01", Type: Temperature},
		{ID: "T02", Type: Temperature},
		{ID: "T03", Type: Temperature},

		{ID: "L01", Type: Illuminance},
		{ID: "L02", Type: Illuminance},
		{ID: "L03", Type: Illuminance},

		{ID: "O01", Type: Occupancy},
		{ID: "O02", Type: Occupancy},
		{ID: "O03", Type: Occupancy},
	}
}

// groupSensors splits sensors by type, keeping their relative order.
func groupSensors(sensors []Sensor) map[SensorType][]Sensor {
	grouped := make(map[SensorType][]Sensor, len(sensorTypeLabels))
	for _, sensor := range sensors {
		grouped[sensor.Type] = append(grouped[sensor.Type], sensor)
	}
	return grouped
}
