// Package transform converts decoded frames into the encoder's pixel format and size.
package transform

import (
	"context"
	"fmt"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
)

// Transform reorders buf to RGB and resamples it to targetW x targetH.
// The input is never modified; the result always holds targetW*targetH*3 bytes.
func Transform(buf pixbuf.Buffer, targetW, targetH int) (pixbuf.Buffer, error) {
	rgb := buf.ToRGB()

	out, err := rgb.Resize(targetW, targetH)
	if err != nil {
		return pixbuf.Buffer{}, fmt.Errorf("resize %dx%d to %dx%d: %w",
			buf.Width, buf.Height, targetW, targetH, err)
	}
	return out, nil
}

// Input is a single frame to transform.
type Input struct {
	Frame  pipeline.Frame
	Width  int
	Height int
}

// Stage adapts Transform to pipeline.Stage.
type Stage struct{}

// NewStage creates a new transform stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute transforms the frame, keeping its index.
func (s *Stage) Execute(ctx context.Context, input Input) (pipeline.Frame, error) {
	buf, err := Transform(input.Frame.Buffer, input.Width, input.Height)
	if err != nil {
		return pipeline.Frame{}, fmt.Errorf("frame %d: %w", input.Frame.Index, err)
	}
	return pipeline.Frame{Buffer: buf, Index: input.Frame.Index}, nil
}

var _ pipeline.Stage[Input, pipeline.Frame] = (*Stage)(nil)
