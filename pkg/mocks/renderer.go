package mocks

import (
	"image"
	"image/color"

	"github.com/user/gifcut/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	EncodePNGFunc    func(img image.Image) ([]byte, error)

	Canvases []*Canvas
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	c := &Canvas{width: width, height: height}
	m.Canvases = append(m.Canvases, c)
	return c
}

func (m *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte{0x89, 'P', 'N', 'G'}, nil
}

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	width  int
	height int

	DrawImageCalls int
	DrawRectCalls  int
	Texts          []string
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.DrawImageCalls++
}

func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.DrawRectCalls++
}

func (c *Canvas) DrawText(text string, x, y int, col color.Color) {
	c.Texts = append(c.Texts, text)
}

func (c *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, c.width, c.height))
}

var (
	_ ports.Renderer = (*Renderer)(nil)
	_ ports.Canvas   = (*Canvas)(nil)
)
