// Package gifencoder writes animated GIFs with the standard library encoder.
//
// Frames are quantized to the Plan 9 palette, optionally with Floyd-Steinberg
// error diffusion, and the whole animation is flushed on End.
package gifencoder

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"sync"

	"golang.org/x/image/draw"

	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

var (
	// ErrNotStarted is returned when AddFrame or End is called before Begin.
	ErrNotStarted = errors.New("gifencoder: encoder not started")

	// ErrAlreadyStarted is returned when Begin is called twice.
	ErrAlreadyStarted = errors.New("gifencoder: encoder already started")

	// ErrFrameSize is returned when a frame does not match the animation size.
	ErrFrameSize = errors.New("gifencoder: frame size mismatch")

	// ErrNoFrames is returned when End is called without any frame.
	ErrNoFrames = errors.New("gifencoder: no frames to encode")
)

// maxDimension is the largest logical screen size a GIF can describe.
const maxDimension = 65535

// Encoder implements ports.AnimationEncoder. An Encoder writes one animation.
type Encoder struct {
	mu      sync.Mutex
	w       io.Writer
	width   int
	height  int
	opts    ports.AnimationOptions
	anim    *gif.GIF
	started bool
	ended   bool
}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Begin starts a new animation.
func (e *Encoder) Begin(width, height int, w io.Writer, opts ports.AnimationOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return ErrAlreadyStarted
	}
	if width <= 0 || height <= 0 || width > maxDimension || height > maxDimension {
		return fmt.Errorf("%w: invalid size %dx%d", ErrFrameSize, width, height)
	}
	if w == nil {
		return errors.New("gifencoder: nil writer")
	}

	e.w = w
	e.width = width
	e.height = height
	e.opts = opts
	e.anim = &gif.GIF{
		LoopCount: opts.LoopCount,
		Config: image.Config{
			ColorModel: color.Palette(palette.Plan9),
			Width:      width,
			Height:     height,
		},
	}
	e.started = true
	return nil
}

// AddFrame quantizes buf and appends it to the animation.
func (e *Encoder) AddFrame(buf pixbuf.Buffer, delay int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return ErrNotStarted
	}
	if buf.Width != e.width || buf.Height != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, buf.Width, buf.Height, e.width, e.height)
	}

	src := buf.ToRGBA()
	bounds := image.Rect(0, 0, e.width, e.height)
	dst := image.NewPaletted(bounds, palette.Plan9)

	if e.opts.Dither {
		draw.FloydSteinberg.Draw(dst, bounds, src, image.Point{})
	} else {
		draw.Draw(dst, bounds, src, image.Point{}, draw.Src)
	}

	if delay < 0 {
		delay = 0
	}
	e.anim.Image = append(e.anim.Image, dst)
	e.anim.Delay = append(e.anim.Delay, delay)
	e.anim.Disposal = append(e.anim.Disposal, gif.DisposalNone)
	return nil
}

// End writes the animation to the writer given to Begin.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.ended {
		return ErrNotStarted
	}
	e.ended = true

	if len(e.anim.Image) == 0 {
		return ErrNoFrames
	}
	if err := gif.EncodeAll(e.w, e.anim); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	e.anim = nil
	return nil
}

// Abort drops the buffered frames without writing anything.
func (e *Encoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started && !e.ended {
		e.ended = true
		e.anim = nil
	}
}

var _ ports.AnimationEncoder = (*Encoder)(nil)
