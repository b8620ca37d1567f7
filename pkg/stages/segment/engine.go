// Package segment implements the scene segmentation engine.
//
// The engine consumes frames one at a time in source order, compares each to
// the previous frame and decides whether the current segment ends there.
package segment

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
)

var (
	// ErrEngineStopped is returned when frames are pushed after a fatal error.
	ErrEngineStopped = errors.New("segment: engine stopped after error")

	// ErrOutOfOrder is returned when a frame index does not increase.
	ErrOutOfOrder = errors.New("segment: frame index out of order")
)

// DifferenceFunc measures the dissimilarity (0-100) between the current and last frame.
type DifferenceFunc func(current, last pipeline.Frame) (float64, error)

// FlushFunc receives each completed segment. Ownership of the segment moves to the callee.
type FlushFunc func(ctx context.Context, seg pipeline.Segment) error

// state is the mutable part of the engine. It is never shared.
type state struct {
	current pipeline.Segment
	last    *pipeline.Frame
}

// Engine decides where segments start and end.
type Engine struct {
	config  pipeline.SegmentationConfig
	diff    DifferenceFunc
	onFlush FlushFunc
	logger  ports.Logger

	state   state
	stopped error

	framesSeen int
	flushed    int
}

// NewEngine creates a new Engine.
func NewEngine(config pipeline.SegmentationConfig, diff DifferenceFunc, onFlush FlushFunc, logger ports.Logger) *Engine {
	return &Engine{
		config:  config,
		diff:    diff,
		onFlush: onFlush,
		logger:  logger.WithComponent("segment"),
	}
}

// Push feeds the next frame.
//
// A frame whose difference to the previous frame exceeds the threshold starts
// a new segment, but only once the current segment holds more than
// MinSegmentLen frames. Otherwise it is appended to the current segment.
func (e *Engine) Push(ctx context.Context, frame pipeline.Frame) error {
	if e.stopped != nil {
		return fmt.Errorf("%w: %v", ErrEngineStopped, e.stopped)
	}

	if e.state.last == nil {
		e.accept(frame)
		e.state.current.Frames = append(e.state.current.Frames, frame)
		return nil
	}

	if frame.Index <= e.state.last.Index {
		return e.stop(fmt.Errorf("%w: %d after %d", ErrOutOfOrder, frame.Index, e.state.last.Index))
	}

	d, err := e.diff(frame, *e.state.last)
	if err != nil {
		return e.stop(fmt.Errorf("compare frame %d: %w", frame.Index, err))
	}

	if d > e.config.Threshold && e.state.current.Len() > e.config.MinSegmentLen {
		seg := e.state.current
		e.state.current = pipeline.Segment{Frames: []pipeline.Frame{frame}}
		e.accept(frame)

		first, last := seg.Range()
		e.logger.Debug("Cut at frame %d (%.2f%%), flushing frames %d-%d", frame.Index, d, first, last)

		e.flushed++
		if err := e.onFlush(ctx, seg); err != nil {
			return e.stop(err)
		}
		return nil
	}

	e.state.current.Frames = append(e.state.current.Frames, frame)
	e.accept(frame)
	return nil
}

// accept records frame as the most recently observed one.
func (e *Engine) accept(frame pipeline.Frame) {
	f := frame
	e.state.last = &f
	e.framesSeen++
}

func (e *Engine) stop(err error) error {
	e.stopped = err
	return err
}

// Pending returns the in-progress segment without clearing it.
func (e *Engine) Pending() pipeline.Segment {
	return e.state.current
}

// Finish ends the stream. It returns the in-progress segment, if any, and
// resets the engine. The caller decides whether to emit it.
func (e *Engine) Finish() (pipeline.Segment, bool) {
	seg := e.state.current
	e.state = state{}
	return seg, seg.Len() > 0
}

// FramesSeen returns the number of frames accepted so far.
func (e *Engine) FramesSeen() int {
	return e.framesSeen
}

// SegmentsFlushed returns the number of segments handed to the flush callback.
func (e *Engine) SegmentsFlushed() int {
	return e.flushed
}
