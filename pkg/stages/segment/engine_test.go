package segment

import (
	"context"
	"errors"
	"testing"

	"github.com/user/gifcut/pkg/adapters/logger"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/stages/difference"
)

// scene returns a 4x4 gray frame whose pixels all equal shade.
func scene(index int64, shade byte) pipeline.Frame {
	return pipeline.Frame{Index: index, Buffer: pixbuf.Filled(4, 4, pixbuf.Gray, shade)}
}

// collector records flushed segments.
type collector struct {
	segments []pipeline.Segment
}

func (c *collector) flush(ctx context.Context, seg pipeline.Segment) error {
	c.segments = append(c.segments, seg)
	return nil
}

func newTestEngine(c *collector) *Engine {
	cfg := pipeline.DefaultSegmentationConfig()
	return NewEngine(cfg, func(cur, last pipeline.Frame) (float64, error) {
		return difference.Compute(cur.Buffer, last.Buffer)
	}, c.flush, logger.NewNoop())
}

func push(t *testing.T, e *Engine, frames ...pipeline.Frame) {
	t.Helper()
	for _, f := range frames {
		if err := e.Push(context.Background(), f); err != nil {
			t.Fatalf("Push(%d) failed: %v", f.Index, err)
		}
	}
}

func assertContiguous(t *testing.T, seg pipeline.Segment, first, last int64) {
	t.Helper()
	if seg.Len() != int(last-first+1) {
		t.Fatalf("expected %d frames, got %d", last-first+1, seg.Len())
	}
	for i, f := range seg.Frames {
		if f.Index != first+int64(i) {
			t.Fatalf("frame %d: expected index %d, got %d", i, first+int64(i), f.Index)
		}
	}
}

func TestEngine_NoCutAccumulatesEverything(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	for i := int64(1); i <= 30; i++ {
		push(t, e, scene(i, 10))
	}

	if len(c.segments) != 0 {
		t.Errorf("expected no flushes, got %d", len(c.segments))
	}
	assertContiguous(t, e.Pending(), 1, 30)
	if e.FramesSeen() != 30 {
		t.Errorf("expected 30 frames seen, got %d", e.FramesSeen())
	}
}

func TestEngine_CutAfterLongSegmentFlushes(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	for i := int64(1); i <= 25; i++ {
		push(t, e, scene(i, 10))
	}
	push(t, e, scene(26, 200))

	if len(c.segments) != 1 {
		t.Fatalf("expected 1 flush, got %d", len(c.segments))
	}
	assertContiguous(t, c.segments[0], 1, 25)
	assertContiguous(t, e.Pending(), 26, 26)
	if e.SegmentsFlushed() != 1 {
		t.Errorf("expected 1 flushed segment, got %d", e.SegmentsFlushed())
	}
}

func TestEngine_CutInShortSegmentIsAppended(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	for i := int64(1); i <= 10; i++ {
		push(t, e, scene(i, 10))
	}
	push(t, e, scene(11, 200))

	if len(c.segments) != 0 {
		t.Fatalf("expected no flush, got %d", len(c.segments))
	}
	assertContiguous(t, e.Pending(), 1, 11)
}

func TestEngine_SegmentOfExactlyMinLengthDoesNotFlush(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	for i := int64(1); i <= 24; i++ {
		push(t, e, scene(i, 10))
	}
	push(t, e, scene(25, 200))

	if len(c.segments) != 0 {
		t.Fatalf("expected no flush at length 24, got %d", len(c.segments))
	}
}

func TestEngine_DifferenceAtThresholdDoesNotCut(t *testing.T) {
	c := &collector{}
	cfg := pipeline.DefaultSegmentationConfig()
	e := NewEngine(cfg, func(cur, last pipeline.Frame) (float64, error) {
		return cfg.Threshold, nil
	}, c.flush, logger.NewNoop())

	for i := int64(1); i <= 60; i++ {
		push(t, e, scene(i, 0))
	}

	if len(c.segments) != 0 {
		t.Errorf("expected no flush when difference equals threshold, got %d", len(c.segments))
	}
}

func TestEngine_NeverFlushesShortSegments(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	// Alternate scenes on every frame: each frame is a cut candidate.
	for i := int64(1); i <= 200; i++ {
		push(t, e, scene(i, byte(i%2)*200))
	}

	if len(c.segments) == 0 {
		t.Fatal("expected flushes")
	}
	next := int64(1)
	for _, seg := range c.segments {
		if seg.Len() < 25 {
			t.Errorf("flushed segment of %d frames, minimum is 25", seg.Len())
		}
		first, _ := seg.Range()
		if first != next {
			t.Errorf("expected segment to start at %d, got %d", next, first)
		}
		for i := 1; i < seg.Len(); i++ {
			if seg.Frames[i].Index != seg.Frames[i-1].Index+1 {
				t.Fatalf("gap or duplicate between %d and %d", seg.Frames[i-1].Index, seg.Frames[i].Index)
			}
		}
		_, last := seg.Range()
		next = last + 1
	}
	first, _ := e.Pending().Range()
	if first != next {
		t.Errorf("expected pending segment to start at %d, got %d", next, first)
	}
}

func TestEngine_LastFrameUpdatedAfterFlush(t *testing.T) {
	c := &collector{}
	var compared []int64
	cfg := pipeline.DefaultSegmentationConfig()
	e := NewEngine(cfg, func(cur, last pipeline.Frame) (float64, error) {
		compared = append(compared, last.Index)
		return difference.Compute(cur.Buffer, last.Buffer)
	}, c.flush, logger.NewNoop())

	for i := int64(1); i <= 25; i++ {
		push(t, e, scene(i, 10))
	}
	push(t, e, scene(26, 200), scene(27, 200))

	if got := compared[len(compared)-1]; got != 26 {
		t.Errorf("expected frame 27 to be compared with frame 26, got %d", got)
	}
}

func TestEngine_ShapeMismatchStopsEngine(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	push(t, e, scene(1, 10))
	bad := pipeline.Frame{Index: 2, Buffer: pixbuf.Filled(8, 4, pixbuf.Gray, 10)}

	err := e.Push(context.Background(), bad)
	if !errors.Is(err, pipeline.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}

	err = e.Push(context.Background(), scene(3, 10))
	if !errors.Is(err, ErrEngineStopped) {
		t.Errorf("expected ErrEngineStopped, got %v", err)
	}
}

func TestEngine_FlushErrorPropagates(t *testing.T) {
	encodeErr := errors.New("disk full")
	cfg := pipeline.DefaultSegmentationConfig()
	e := NewEngine(cfg, func(cur, last pipeline.Frame) (float64, error) {
		return difference.Compute(cur.Buffer, last.Buffer)
	}, func(ctx context.Context, seg pipeline.Segment) error {
		return encodeErr
	}, logger.NewNoop())

	for i := int64(1); i <= 25; i++ {
		push(t, e, scene(i, 10))
	}

	err := e.Push(context.Background(), scene(26, 200))
	if !errors.Is(err, encodeErr) {
		t.Errorf("expected flush error, got %v", err)
	}
}

func TestEngine_OutOfOrderIndex(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	push(t, e, scene(5, 10))
	err := e.Push(context.Background(), scene(5, 10))
	if !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("expected ErrOutOfOrder, got %v", err)
	}
}

func TestEngine_Finish(t *testing.T) {
	c := &collector{}
	e := newTestEngine(c)

	if _, ok := e.Finish(); ok {
		t.Error("expected no pending segment on a fresh engine")
	}

	push(t, e, scene(1, 10), scene(2, 10), scene(3, 10))

	seg, ok := e.Finish()
	if !ok {
		t.Fatal("expected pending segment")
	}
	assertContiguous(t, seg, 1, 3)

	if e.Pending().Len() != 0 {
		t.Errorf("expected engine to be reset, got %d pending frames", e.Pending().Len())
	}
}
