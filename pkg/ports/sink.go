package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveDifferencesJSON saves the per-frame difference log as JSON.
	SaveDifferencesJSON(data []byte) error

	// SaveSegmentJSON saves metadata for one flushed segment.
	SaveSegmentJSON(first, last int64, data []byte) error

	// SaveSegmentPreview saves a preview image for one flushed segment.
	SaveSegmentPreview(first, last int64, img image.Image) error
}
