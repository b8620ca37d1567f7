package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts the drawing operations used for preview images.
type Renderer interface {
	// CreateCanvas creates a new drawing canvas with the specified dimensions and background color.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// EncodePNG encodes an image as PNG.
	EncodePNG(img image.Image) ([]byte, error)
}

// Canvas provides drawing operations for compositing images.
type Canvas interface {
	// DrawImage draws an image at the specified position.
	DrawImage(img image.Image, x, y int)

	// DrawRect draws a filled rectangle.
	DrawRect(x, y, w, h int, c color.Color)

	// DrawText draws text anchored at its top-left corner.
	DrawText(text string, x, y int, c color.Color)

	// ToImage returns the canvas as an image.Image.
	ToImage() image.Image
}
