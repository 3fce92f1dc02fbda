// Package telemetry writes per-frame statistics as CSV.
package telemetry

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/richinsley/goimageviewer/viewer"
)

// FrameRecord is one CSV row.
type FrameRecord struct {
	Frame        int64   `csv:"frame"`
	DurationMS   float64 `csv:"duration_ms"`
	Events       int     `csv:"events"`
	Reloaded     bool    `csv:"reloaded"`
	RenderFailed bool    `csv:"render_failed"`
	Effect       string  `csv:"effect"`
	Zoom         float32 `csv:"zoom"`
}

func recordFromSample(s viewer.FrameSample) FrameRecord {
	return FrameRecord{
		Frame:        s.Frame,
		DurationMS:   float64(s.Duration.Microseconds()) / 1000,
		Events:       s.Events,
		Reloaded:     s.Reloaded,
		RenderFailed: s.RenderFailed,
		Effect:       s.Effect,
		Zoom:         s.Zoom,
	}
}

// FrameLog buffers frame records and appends them to a CSV file.
type FrameLog struct {
	file          *os.File
	flushEvery    int
	pending       []FrameRecord
	headerWritten bool
}

var _ viewer.FrameRecorder = (*FrameLog)(nil)

// NewFrameLog creates the CSV file at path. Returns nil if path is empty
// (logging disabled). Records are written every flushEvery frames.
func NewFrameLog(path string, flushEvery int) (*FrameLog, error) {
	if path == "" {
		return nil, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating frame log directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating frame log: %w", err)
	}
	if flushEvery < 1 {
		flushEvery = 1
	}
	return &FrameLog{file: f, flushEvery: flushEvery}, nil
}

// Record implements viewer.FrameRecorder. Write errors are logged.
func (fl *FrameLog) Record(s viewer.FrameSample) {
	if fl == nil {
		return
	}
	fl.pending = append(fl.pending, recordFromSample(s))
	if len(fl.pending) >= fl.flushEvery {
		if err := fl.Flush(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}
}

// Flush writes the buffered records.
func (fl *FrameLog) Flush() error {
	if fl == nil || len(fl.pending) == 0 {
		return nil
	}
	records := fl.pending
	fl.pending = nil

	if !fl.headerWritten {
		if err := gocsv.Marshal(records, fl.file); err != nil {
			return fmt.Errorf("writing frame log: %w", err)
		}
		fl.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, fl.file); err != nil {
			return fmt.Errorf("writing frame log: %w", err)
		}
	}
	return nil
}

// Close flushes and closes the file.
func (fl *FrameLog) Close() error {
	if fl == nil {
		return nil
	}
	flushErr := fl.Flush()
	if err := fl.file.Close(); err != nil {
		return fmt.Errorf("closing frame log: %w", err)
	}
	return flushErr
}
