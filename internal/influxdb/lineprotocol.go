package influxdb

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Resanso/smart-office/internal/simulation"
)

const (
	measurementName = "sensor_data"
	sensorIDTag     = "sensor_id"
	typeTag         = "tipo"
	valueField      = "valor"
)

// MeasurementName returns the measurement every reading is written under.
func MeasurementName() string {
	return measurementName
}

// Point converts a reading into an InfluxDB point. Occupancy is written as
// an integer field, the other types as floats.
func Point(r simulation.Reading) *write.Point {
	var value interface{} = r.Value
	if r.Type == simulation.Occupancy {
		value = int64(r.Value)
	}
	return influxdb2.NewPoint(
		measurementName,
		map[string]string{
			sensorIDTag: r.SensorID,
			typeTag:     r.Type.String(),
		},
		map[string]interface{}{
			valueField: value,
		},
		r.Timestamp,
	)
}

// Encode writes the dataset as line protocol, one line per reading in
// dataset order, with nanosecond timestamps.
func Encode(w io.Writer, ds *simulation.Dataset) error {
	bw := bufio.NewWriter(w)
	for r := range ds.All() {
		line := strings.TrimSuffix(write.PointToLineProtocol(Point(r), time.Nanosecond), "\n")
		if _, err := bw.WriteString(line); err != nil {
			return fmt.Errorf("write line protocol: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("write line protocol: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush line protocol: %w", err)
	}
	return nil
}
