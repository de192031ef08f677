// Package audit records configuration changes as time-series points.
//
// Every persisted, deleted, or imported configuration node produces one
// point in the "config_change" measurement, tagged with the operation,
// the device name, and the service that performed the change. The data
// answers "who changed what, when" questions without holding history
// rows in the primary database.
//
// Thread Safety: Recorder is safe for concurrent use; all state lives
// in the underlying write client.
package audit

import "time"

// Operation names used as the "operation" tag.
const (
	OpPersist = "persist"
	OpDelete  = "delete"
	OpImport  = "import"
)

// measurement is the InfluxDB measurement holding change points.
const measurement = "config_change"

// PointWriter is the subset of the InfluxDB client the recorder needs.
// Satisfied by *influxdb.Client.
type PointWriter interface {
	WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time)
}

// Recorder writes one audit point per configuration change.
type Recorder struct {
	writer PointWriter
	source string
}

// NewRecorder creates a recorder stamping points with the given source
// (typically the service ID from configuration).
func NewRecorder(writer PointWriter, source string) *Recorder {
	return &Recorder{writer: writer, source: source}
}

// RecordChange writes a single change point. Writes are non-blocking;
// the underlying client batches and flushes asynchronously. A nil
// recorder is a safe no-op so callers need no conditional wiring.
func (r *Recorder) RecordChange(operation, deviceName, path string) {
	if r == nil || r.writer == nil {
		return
	}

	tags := map[string]string{
		"operation": operation,
		"source":    r.source,
	}
	if deviceName != "" {
		tags["device"] = deviceName
	}

	r.writer.WritePointWithTime(measurement, tags, map[string]interface{}{
		"path": path,
	}, time.Now())
}
