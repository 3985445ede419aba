// Package history appends one snapshot record per tick to an
// append-only sink. Appends are fire-and-forget: a failed write is
// logged by the caller and the tick continues.
package history

import "time"

// Record is one history row.
type Record struct {
	Timestamp    time.Time
	Temperature  float64
	Humidity     float64
	SoilMoisture float64
	HeaterOn     bool
	FanOn        bool
	PumpOn       bool
	Alarm        string
}

// Sink accepts history records.
type Sink interface {
	// Append writes one record. Errors are non-fatal to the control loop.
	Append(rec Record) error

	// Close releases the underlying resource.
	Close() error
}
