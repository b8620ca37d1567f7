// Package preview composes a contact sheet for a segment: a title row and a
// strip of evenly spaced thumbnails, each labeled with its frame index.
package preview

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/transform"
)

// Options configures the contact sheet.
type Options struct {
	ThumbWidth  int
	ThumbHeight int
	MaxThumbs   int
	Padding     int
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		ThumbWidth:  160,
		ThumbHeight: 90,
		MaxThumbs:   4,
		Padding:     8,
	}
}

// labelHeight fits gg's built-in 7x13 face.
const labelHeight = 14

var (
	backgroundColor = color.RGBA{R: 0x20, G: 0x22, B: 0x26, A: 0xff}
	frameColor      = color.RGBA{R: 0x44, G: 0x48, B: 0x50, A: 0xff}
	textColor       = color.RGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff}
)

// Stage renders segment previews.
type Stage struct {
	renderer ports.Renderer
	opts     Options
}

// NewStage creates a new preview stage.
func NewStage(renderer ports.Renderer, opts Options) *Stage {
	if opts.MaxThumbs <= 0 {
		opts.MaxThumbs = 1
	}
	return &Stage{renderer: renderer, opts: opts}
}

// Pick returns up to n frames spread evenly across seg, always including the
// first and last frame when n > 1.
func Pick(seg pipeline.Segment, n int) []pipeline.Frame {
	total := seg.Len()
	if total == 0 || n <= 0 {
		return nil
	}
	if n >= total {
		return append([]pipeline.Frame(nil), seg.Frames...)
	}
	if n == 1 {
		return []pipeline.Frame{seg.Frames[0]}
	}

	picked := make([]pipeline.Frame, n)
	for i := 0; i < n; i++ {
		picked[i] = seg.Frames[i*(total-1)/(n-1)]
	}
	return picked
}

// Size returns the sheet dimensions for k thumbnails.
func (s *Stage) Size(k int) (int, int) {
	o := s.opts
	width := o.Padding + k*(o.ThumbWidth+o.Padding)
	height := o.Padding + labelHeight + o.Padding + o.ThumbHeight + 2 + labelHeight + o.Padding
	return width, height
}

// Execute renders the contact sheet for seg.
func (s *Stage) Execute(ctx context.Context, seg pipeline.Segment) (image.Image, error) {
	if seg.Len() == 0 {
		return nil, pipeline.ErrEmptySegment
	}

	frames := Pick(seg, s.opts.MaxThumbs)
	width, height := s.Size(len(frames))
	canvas := s.renderer.CreateCanvas(width, height, backgroundColor)

	first, last := seg.Range()
	o := s.opts
	canvas.DrawText(fmt.Sprintf("frames %d-%d (%d)", first, last, seg.Len()), o.Padding, o.Padding, textColor)

	thumbY := o.Padding + labelHeight + o.Padding
	for i, frame := range frames {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		thumb, err := transform.Transform(frame.Buffer, o.ThumbWidth, o.ThumbHeight)
		if err != nil {
			return nil, fmt.Errorf("thumbnail for frame %d: %w", frame.Index, err)
		}

		x := o.Padding + i*(o.ThumbWidth+o.Padding)
		canvas.DrawRect(x-1, thumbY-1, o.ThumbWidth+2, o.ThumbHeight+2, frameColor)
		canvas.DrawImage(thumb.ToRGBA(), x, thumbY)
		canvas.DrawText(fmt.Sprintf("#%d", frame.Index), x, thumbY+o.ThumbHeight+2, textColor)
	}

	return canvas.ToImage(), nil
}

var _ pipeline.Stage[pipeline.Segment, image.Image] = (*Stage)(nil)
