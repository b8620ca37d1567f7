package mocks

import (
	"context"
	"io"

	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource serving in-memory frames.
type FrameSource struct {
	Frames   []pixbuf.Buffer
	OpenFunc func(ctx context.Context, path string) (ports.FrameStream, error)

	// Recorded calls for verification
	OpenedPaths []string
	Streams     []*FrameStream
}

// NewFrameSource creates a source that yields frames in order, indexed from 1.
func NewFrameSource(frames ...pixbuf.Buffer) *FrameSource {
	return &FrameSource{Frames: frames}
}

func (m *FrameSource) Open(ctx context.Context, path string) (ports.FrameStream, error) {
	m.OpenedPaths = append(m.OpenedPaths, path)
	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	s := &FrameStream{Frames: m.Frames}
	if len(m.Frames) > 0 {
		s.VideoInfo = ports.VideoInfo{
			Width:      m.Frames[0].Width,
			Height:     m.Frames[0].Height,
			FrameCount: len(m.Frames),
		}
	}
	m.Streams = append(m.Streams, s)
	return s, nil
}

// FrameStream is a mock implementation of ports.FrameStream.
type FrameStream struct {
	Frames    []pixbuf.Buffer
	VideoInfo ports.VideoInfo
	// FailAt makes Next return Err when the 1-based position is reached.
	FailAt int
	Err    error

	pos    int
	Closed bool
}

func (m *FrameStream) Next() (pixbuf.Buffer, int64, error) {
	if m.FailAt > 0 && m.pos+1 == m.FailAt {
		return pixbuf.Buffer{}, 0, m.Err
	}
	if m.pos >= len(m.Frames) {
		return pixbuf.Buffer{}, 0, io.EOF
	}
	buf := m.Frames[m.pos]
	m.pos++
	return buf, int64(m.pos), nil
}

func (m *FrameStream) Info() ports.VideoInfo {
	return m.VideoInfo
}

func (m *FrameStream) Close() error {
	m.Closed = true
	return nil
}

var (
	_ ports.FrameSource = (*FrameSource)(nil)
	_ ports.FrameStream = (*FrameStream)(nil)
)

// Prober is a mock implementation of ports.Prober.
type Prober struct {
	Info      ports.VideoInfo
	Err       error
	ProbeFunc func(ctx context.Context, path string) (ports.VideoInfo, error)

	ProbedPaths []string
}

func (m *Prober) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	m.ProbedPaths = append(m.ProbedPaths, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(ctx, path)
	}
	return m.Info, m.Err
}

var _ ports.Prober = (*Prober)(nil)
