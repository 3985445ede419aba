package history

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{
	"timestamp", "temperature", "humidity", "soil_moisture",
	"heater", "fan", "pump", "alarm",
}

// CSVSink appends records to a CSV file, writing the header row when it
// creates the file. Every append is flushed so a crash loses at most
// the in-flight row.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// NewCSVSink opens (or creates) the history file at path.
func NewCSVSink(path string) (*CSVSink, error) {
	info, statErr := os.Stat(path)
	empty := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open history file: %w", err)
	}

	s := &CSVSink{f: f, w: csv.NewWriter(f)}
	if empty {
		if err := s.w.Write(csvHeader); err != nil {
			f.Close()
			return nil, fmt.Errorf("write history header: %w", err)
		}
		s.w.Flush()
		if err := s.w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush history header: %w", err)
		}
	}
	return s, nil
}

// Append writes one record and flushes it.
func (s *CSVSink) Append(rec Record) error {
	row := []string{
		rec.Timestamp.Format(time.RFC3339),
		strconv.FormatFloat(rec.Temperature, 'f', 2, 64),
		strconv.FormatFloat(rec.Humidity, 'f', 2, 64),
		strconv.FormatFloat(rec.SoilMoisture, 'f', 2, 64),
		boolField(rec.HeaterOn),
		boolField(rec.FanOn),
		boolField(rec.PumpOn),
		rec.Alarm,
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush history: %w", err)
	}
	return nil
}

// Close flushes and closes the file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
