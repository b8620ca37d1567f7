package pipeline

import (
	"fmt"

	"github.com/user/gifcut/pkg/pixbuf"
)

// =============================================================================
// Frame and Segment
// =============================================================================

// Frame is a decoded frame with its 1-based position in the source stream.
type Frame struct {
	Buffer pixbuf.Buffer
	Index  int64
}

// Segment is a run of contiguous frames between two scene cuts.
type Segment struct {
	Frames []Frame
}

// Len returns the number of frames.
func (s Segment) Len() int {
	return len(s.Frames)
}

// First returns the first frame. It panics on an empty segment.
func (s Segment) First() Frame {
	return s.Frames[0]
}

// Last returns the last frame. It panics on an empty segment.
func (s Segment) Last() Frame {
	return s.Frames[len(s.Frames)-1]
}

// Range returns the first and last source indices, or (0, 0) when empty.
func (s Segment) Range() (int64, int64) {
	if len(s.Frames) == 0 {
		return 0, 0
	}
	return s.First().Index, s.Last().Index
}

// =============================================================================
// Segmentation
// =============================================================================

// SegmentationConfig holds the cut-detection and output sizing parameters.
type SegmentationConfig struct {
	Threshold     float64 // Difference percentage (0-100) above which a cut is declared
	MinSegmentLen int     // A segment must hold more than this many frames to be flushed
	TargetWidth   int     // Output width
	TargetHeight  int     // Output height
	VerboseDiff   bool    // Report every computed difference
}

// DefaultSegmentationConfig returns SegmentationConfig with default values.
func DefaultSegmentationConfig() SegmentationConfig {
	return SegmentationConfig{
		Threshold:     85.0,
		MinSegmentLen: 24,
		TargetWidth:   500,
		TargetHeight:  270,
		VerboseDiff:   false,
	}
}

// Validate checks value ranges.
func (c SegmentationConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 100 {
		return fmt.Errorf("%w: threshold %.2f outside 0-100", ErrConfig, c.Threshold)
	}
	if c.MinSegmentLen < 0 {
		return fmt.Errorf("%w: negative minimum segment length %d", ErrConfig, c.MinSegmentLen)
	}
	if c.TargetWidth <= 0 || c.TargetHeight <= 0 {
		return fmt.Errorf("%w: output size %dx%d", ErrConfig, c.TargetWidth, c.TargetHeight)
	}
	if c.TargetWidth > 65535 || c.TargetHeight > 65535 {
		return fmt.Errorf("%w: output size %dx%d exceeds GIF limits", ErrConfig, c.TargetWidth, c.TargetHeight)
	}
	return nil
}

// DifferenceRecord is one computed difference, kept for diagnostics.
type DifferenceRecord struct {
	Index      int64   `json:"index"`
	Percentage float64 `json:"percentage"`
}

// =============================================================================
// Emit Stage Types
// =============================================================================

// EmitResult describes one written animation.
type EmitResult struct {
	Path       string
	FirstIndex int64
	LastIndex  int64
	FrameCount int
	Bytes      int64
}

// TrailingPolicy decides what happens to the in-progress segment at end of stream.
type TrailingPolicy string

const (
	// TrailingDiscard drops the final in-progress segment.
	TrailingDiscard TrailingPolicy = "discard"
	// TrailingEmit writes the final segment when it is longer than MinSegmentLen.
	TrailingEmit TrailingPolicy = "emit"
)

// ParseTrailingPolicy parses a policy name.
func ParseTrailingPolicy(s string) (TrailingPolicy, error) {
	switch TrailingPolicy(s) {
	case TrailingDiscard, "":
		return TrailingDiscard, nil
	case TrailingEmit:
		return TrailingEmit, nil
	default:
		return "", fmt.Errorf("%w: unknown trailing policy %q", ErrConfig, s)
	}
}
