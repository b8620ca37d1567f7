package mocks

import (
	"image"
	"sync"

	"github.com/user/gifcut/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	DifferencesJSON []byte
	SegmentJSON     map[[2]int64][]byte
	Previews        map[[2]int64]image.Image
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:     enabled,
		SegmentJSON: make(map[[2]int64][]byte),
		Previews:    make(map[[2]int64]image.Image),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveDifferencesJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DifferencesJSON = data
	return nil
}

func (m *DebugSink) SaveSegmentJSON(first, last int64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SegmentJSON[[2]int64{first, last}] = data
	return nil
}

func (m *DebugSink) SaveSegmentPreview(first, last int64, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Previews[[2]int64{first, last}] = img
	return nil
}

// SegmentCount returns the number of segments saved (for test verification).
func (m *DebugSink) SegmentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.SegmentJSON)
}

var _ ports.DebugSink = (*DebugSink)(nil)
