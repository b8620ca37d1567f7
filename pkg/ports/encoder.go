package ports

import (
	"io"

	"github.com/user/gifcut/pkg/pixbuf"
)

// AnimationEncoder abstracts animated image encoding operations.
type AnimationEncoder interface {
	// Begin starts a new animation of the given size that will be written to w.
	Begin(width, height int, w io.Writer, opts AnimationOptions) error

	// AddFrame appends one RGB frame of exactly the Begin dimensions.
	// delay is the display duration in hundredths of a second.
	AddFrame(buf pixbuf.Buffer, delay int) error

	// End finalizes the animation and flushes it to the writer.
	End() error

	// Abort discards an unfinished animation and releases its resources.
	// It is a no-op after End or before Begin.
	Abort()
}

// AnimationOptions configures animation encoding.
type AnimationOptions struct {
	LoopCount int  // 0 loops forever, -1 plays once
	Dither    bool // Apply Floyd-Steinberg error diffusion when quantizing
}
