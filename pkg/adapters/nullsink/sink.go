// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/gifcut/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
// It discards all debug output.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveDifferencesJSON does nothing.
func (s *Sink) SaveDifferencesJSON(data []byte) error {
	return nil
}

// SaveSegmentJSON does nothing.
func (s *Sink) SaveSegmentJSON(first, last int64, data []byte) error {
	return nil
}

// SaveSegmentPreview does nothing.
func (s *Sink) SaveSegmentPreview(first, last int64, img image.Image) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
