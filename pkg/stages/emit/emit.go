// Package emit implements the segment emission stage.
package emit

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/transform"
)

// EncoderFactory returns a fresh encoder for one segment.
type EncoderFactory func() ports.AnimationEncoder

// Options configures the emit stage.
type Options struct {
	OutputDir  string
	Width      int
	Height     int
	FrameDelay int // Display time per frame in hundredths of a second
	Animation  ports.AnimationOptions
}

// DefaultOptions returns default options.
func DefaultOptions() Options {
	return Options{
		OutputDir:  "gifs",
		Width:      500,
		Height:     270,
		FrameDelay: 10,
	}
}

// OutputName returns the file name for the segment spanning first..last.
func OutputName(first, last int64) string {
	return fmt.Sprintf("gif [from %d to %d].gif", first, last)
}

// Stage writes segments as animated images.
type Stage struct {
	newEncoder EncoderFactory
	fs         ports.FileSystem
	logger     ports.Logger
	opts       Options
}

// NewStage creates a new emit stage.
func NewStage(newEncoder EncoderFactory, fs ports.FileSystem, logger ports.Logger, opts Options) *Stage {
	return &Stage{
		newEncoder: newEncoder,
		fs:         fs,
		logger:     logger.WithComponent("emit"),
		opts:       opts,
	}
}

// Execute transforms every frame of seg and writes them to one output file.
// On failure the partially written file is removed.
func (s *Stage) Execute(ctx context.Context, seg pipeline.Segment) (pipeline.EmitResult, error) {
	result := pipeline.EmitResult{}

	if seg.Len() == 0 {
		return result, pipeline.ErrEmptySegment
	}

	first, last := seg.Range()
	if err := s.fs.MkdirAll(s.opts.OutputDir); err != nil {
		return result, fmt.Errorf("%w: create output directory %s: %w", pipeline.ErrEncode, s.opts.OutputDir, err)
	}
	path := filepath.Join(s.opts.OutputDir, OutputName(first, last))

	s.logger.Debug("Writing %d frames to %s", seg.Len(), path)

	file, err := s.fs.Create(path)
	if err != nil {
		return result, fmt.Errorf("%w: create %s: %w", pipeline.ErrEncode, path, err)
	}
	out := &countingWriter{w: file}

	if err := s.write(ctx, seg, out); err != nil {
		file.Close()
		if rmErr := s.fs.Remove(path); rmErr != nil {
			s.logger.Warn("Failed to remove partial output %s: %s", path, rmErr)
		}
		return result, err
	}

	if err := file.Close(); err != nil {
		if rmErr := s.fs.Remove(path); rmErr != nil {
			s.logger.Warn("Failed to remove partial output %s: %s", path, rmErr)
		}
		return result, fmt.Errorf("%w: close %s: %w", pipeline.ErrEncode, path, err)
	}

	result.Path = path
	result.FirstIndex = first
	result.LastIndex = last
	result.FrameCount = seg.Len()
	result.Bytes = out.n

	return result, nil
}

func (s *Stage) write(ctx context.Context, seg pipeline.Segment, w io.Writer) (err error) {
	encoder := s.newEncoder()

	if err := encoder.Begin(s.opts.Width, s.opts.Height, w, s.opts.Animation); err != nil {
		return fmt.Errorf("%w: begin: %w", pipeline.ErrEncode, err)
	}
	defer func() {
		if err != nil {
			encoder.Abort()
		}
	}()

	for _, frame := range seg.Frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf, err := transform.Transform(frame.Buffer, s.opts.Width, s.opts.Height)
		if err != nil {
			return fmt.Errorf("transform frame %d: %w", frame.Index, err)
		}

		if err := encoder.AddFrame(buf, s.opts.FrameDelay); err != nil {
			return fmt.Errorf("%w: frame %d: %w", pipeline.ErrEncode, frame.Index, err)
		}
	}

	if err := encoder.End(); err != nil {
		return fmt.Errorf("%w: finalize: %w", pipeline.ErrEncode, err)
	}
	return nil
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

var _ pipeline.Stage[pipeline.Segment, pipeline.EmitResult] = (*Stage)(nil)
