// Package summarizer provides summary generation for scene-cut runs.
package summarizer

import "time"

// Summary contains all data collected during one run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time
	RunID       string
	DurationMs  int64

	// Source video
	Input InputInfo

	// Run configuration
	Settings Settings

	// Written animations, in source order
	Segments []SegmentInfo

	// Trailing frames that were not written
	Dropped *DroppedInfo
}

// InputInfo describes the decoded video.
type InputInfo struct {
	Path       string
	Width      int
	Height     int
	Codec      string
	FPS        float64
	FrameCount int // reported by the container, 0 when unknown
	FramesRead int
}

// Settings contains the run configuration.
type Settings struct {
	Threshold        float64
	MinSegmentLength int
	Trailing         string
	Width            int
	Height           int
	FrameDelay       int
	Encoder          string
	Workers          int
}

// SegmentInfo describes one written animation.
type SegmentInfo struct {
	First  int64
	Last   int64
	Frames int
	Path   string
	Bytes  int64
}

// DroppedInfo describes the discarded trailing segment.
type DroppedInfo struct {
	First  int64
	Last   int64
	Frames int
}

// TotalBytes returns the combined size of all segments.
func (s *Summary) TotalBytes() int64 {
	var total int64
	for _, seg := range s.Segments {
		total += seg.Bytes
	}
	return total
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRunID sets the run identifier.
func (b *Builder) WithRunID(id string) *Builder {
	b.summary.RunID = id
	return b
}

// WithInput sets source video information.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithSettings sets run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// AddSegment appends a written animation.
func (b *Builder) AddSegment(seg SegmentInfo) *Builder {
	b.summary.Segments = append(b.summary.Segments, seg)
	return b
}

// WithDropped records a discarded trailing segment.
func (b *Builder) WithDropped(first, last int64, frames int) *Builder {
	b.summary.Dropped = &DroppedInfo{First: first, Last: last, Frames: frames}
	return b
}

// WithDuration sets the wall-clock time of the run.
func (b *Builder) WithDuration(d time.Duration) *Builder {
	b.summary.DurationMs = d.Milliseconds()
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
