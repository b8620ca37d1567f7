// Package pixbuf provides the raw pixel buffer passed between pipeline stages.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrInvalidBuffer is returned when a buffer's payload does not match its shape.
var ErrInvalidBuffer = errors.New("pixbuf: invalid buffer")

// ChannelLayout describes the order and number of color channels per pixel.
type ChannelLayout int

const (
	// Gray is a single intensity channel.
	Gray ChannelLayout = iota
	// RGB is red, green, blue.
	RGB
	// BGR is blue, green, red (the order most video decoders emit).
	BGR
)

// Count returns the number of bytes per pixel.
func (c ChannelLayout) Count() int {
	switch c {
	case Gray:
		return 1
	case RGB, BGR:
		return 3
	default:
		return 0
	}
}

// String returns the string representation of the layout.
func (c ChannelLayout) String() string {
	switch c {
	case Gray:
		return "gray"
	case RGB:
		return "rgb"
	case BGR:
		return "bgr"
	default:
		return "unknown"
	}
}

// Buffer is a 2D grid of pixels stored row-major in Data.
// A Buffer is treated as immutable once constructed: operations return new buffers.
type Buffer struct {
	Width    int
	Height   int
	Channels ChannelLayout
	Data     []byte
}

// New validates the shape and returns a Buffer owning data.
func New(width, height int, channels ChannelLayout, data []byte) (Buffer, error) {
	if width < 0 || height < 0 {
		return Buffer{}, fmt.Errorf("%w: negative size %dx%d", ErrInvalidBuffer, width, height)
	}
	if channels.Count() == 0 {
		return Buffer{}, fmt.Errorf("%w: unknown channel layout %d", ErrInvalidBuffer, channels)
	}
	want := width * height * channels.Count()
	if len(data) != want {
		return Buffer{}, fmt.Errorf("%w: %dx%d %s needs %d bytes, got %d",
			ErrInvalidBuffer, width, height, channels, want, len(data))
	}
	return Buffer{Width: width, Height: height, Channels: channels, Data: data}, nil
}

// Filled returns a buffer with every pixel set to px.
// px must have exactly channels.Count() components.
func Filled(width, height int, channels ChannelLayout, px ...byte) Buffer {
	n := channels.Count()
	data := make([]byte, width*height*n)
	for i := 0; i < len(data); i += n {
		copy(data[i:i+n], px)
	}
	return Buffer{Width: width, Height: height, Channels: channels, Data: data}
}

// Area returns Width*Height.
func (b Buffer) Area() int {
	return b.Width * b.Height
}

// SameShape reports whether two buffers have identical width and height.
func (b Buffer) SameShape(o Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// Clone returns a deep copy.
func (b Buffer) Clone() Buffer {
	data := make([]byte, len(b.Data))
	copy(data, b.Data)
	b.Data = data
	return b
}

// Gray reduces the buffer to a single luminance channel using BT.601 weights
// in 14-bit fixed point, the same integer conversion OpenCV's BGR2GRAY uses.
func (b Buffer) Gray() Buffer {
	out := make([]byte, b.Area())
	switch b.Channels {
	case Gray:
		copy(out, b.Data)
	case RGB:
		for i, j := 0, 0; i < len(out); i, j = i+1, j+3 {
			out[i] = luma(b.Data[j], b.Data[j+1], b.Data[j+2])
		}
	case BGR:
		for i, j := 0, 0; i < len(out); i, j = i+1, j+3 {
			out[i] = luma(b.Data[j+2], b.Data[j+1], b.Data[j])
		}
	}
	return Buffer{Width: b.Width, Height: b.Height, Channels: Gray, Data: out}
}

func luma(r, g, bl byte) byte {
	return byte((4899*uint32(r) + 9617*uint32(g) + 1868*uint32(bl) + 8192) >> 14)
}

// ToRGB returns the buffer in RGB order, swapping the first and third
// channel for BGR and replicating intensity for Gray.
func (b Buffer) ToRGB() Buffer {
	out := make([]byte, b.Area()*3)
	switch b.Channels {
	case RGB:
		copy(out, b.Data)
	case BGR:
		for i := 0; i < len(out); i += 3 {
			out[i] = b.Data[i+2]
			out[i+1] = b.Data[i+1]
			out[i+2] = b.Data[i]
		}
	case Gray:
		for i, v := range b.Data {
			out[i*3] = v
			out[i*3+1] = v
			out[i*3+2] = v
		}
	}
	return Buffer{Width: b.Width, Height: b.Height, Channels: RGB, Data: out}
}

// ToRGBA converts the buffer to an opaque *image.RGBA.
func (b Buffer) ToRGBA() *image.RGBA {
	rgb := b
	if rgb.Channels != RGB {
		rgb = b.ToRGB()
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, j := 0, 0; j < len(rgb.Data); i, j = i+4, j+3 {
		img.Pix[i] = rgb.Data[j]
		img.Pix[i+1] = rgb.Data[j+1]
		img.Pix[i+2] = rgb.Data[j+2]
		img.Pix[i+3] = 0xff
	}
	return img
}

// FromImage converts any image into an RGB buffer. Alpha is discarded.
func FromImage(img image.Image) Buffer {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	data := make([]byte, w*h*3)

	if rgba, ok := img.(*image.RGBA); ok {
		for y := 0; y < h; y++ {
			row := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
			for x := 0; x < w; x++ {
				o := (y*w + x) * 3
				data[o] = row[x*4]
				data[o+1] = row[x*4+1]
				data[o+2] = row[x*4+2]
			}
		}
		return Buffer{Width: w, Height: h, Channels: RGB, Data: data}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA)
			o := (y*w + x) * 3
			data[o] = c.R
			data[o+1] = c.G
			data[o+2] = c.B
		}
	}
	return Buffer{Width: w, Height: h, Channels: RGB, Data: data}
}
