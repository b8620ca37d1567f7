package pixbuf

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Resize resamples the buffer to width x height with bilinear interpolation.
// Aspect ratio is not preserved. The result is always RGB.
func (b Buffer) Resize(width, height int) (Buffer, error) {
	if width <= 0 || height <= 0 {
		return Buffer{}, fmt.Errorf("%w: target size %dx%d", ErrInvalidBuffer, width, height)
	}
	if b.Area() == 0 {
		return Buffer{}, fmt.Errorf("%w: cannot resize empty buffer", ErrInvalidBuffer)
	}

	if b.Width == width && b.Height == height {
		return b.ToRGB(), nil
	}

	src := b.ToRGBA()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return FromImage(dst), nil
}
