// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/gifcut/pkg/ports"
)

// Sink saves debug output to files.
//
// Layout under baseDir:
//
//	differences.json
//	segments/<first>-<last>.json
//	previews/<first>-<last>.png
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveDifferencesJSON saves the per-frame difference log.
func (s *Sink) SaveDifferencesJSON(data []byte) error {
	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return err
	}
	path := filepath.Join(s.baseDir, "differences.json")
	return s.fs.WriteFile(path, data)
}

// SaveSegmentJSON saves metadata for one segment.
func (s *Sink) SaveSegmentJSON(first, last int64, data []byte) error {
	dir := filepath.Join(s.baseDir, "segments")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	path := filepath.Join(dir, rangeName(first, last)+".json")
	return s.fs.WriteFile(path, data)
}

// SaveSegmentPreview saves a segment preview as PNG.
func (s *Sink) SaveSegmentPreview(first, last int64, img image.Image) error {
	dir := filepath.Join(s.baseDir, "previews")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	path := filepath.Join(dir, rangeName(first, last)+".png")
	return s.fs.WriteFile(path, data)
}

func rangeName(first, last int64) string {
	return fmt.Sprintf("%06d-%06d", first, last)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
