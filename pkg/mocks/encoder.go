package mocks

import (
	"io"

	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

// AnimationEncoder is a mock implementation of ports.AnimationEncoder.
type AnimationEncoder struct {
	BeginFunc    func(width, height int, w io.Writer, opts ports.AnimationOptions) error
	AddFrameFunc func(buf pixbuf.Buffer, delay int) error
	EndFunc      func() error
	AbortFunc    func()

	// Recorded calls for verification
	BeginCalls    []BeginCall
	AddFrameCalls []AddFrameCall
	EndCalls      int
	AbortCalls    int

	w io.Writer
}

// BeginCall records a call to Begin.
type BeginCall struct {
	Width  int
	Height int
	Opts   ports.AnimationOptions
}

// AddFrameCall records a call to AddFrame.
type AddFrameCall struct {
	Width    int
	Height   int
	Channels pixbuf.ChannelLayout
	Bytes    int
	Delay    int
}

func (m *AnimationEncoder) Begin(width, height int, w io.Writer, opts ports.AnimationOptions) error {
	m.BeginCalls = append(m.BeginCalls, BeginCall{Width: width, Height: height, Opts: opts})
	m.w = w
	if m.BeginFunc != nil {
		return m.BeginFunc(width, height, w, opts)
	}
	return nil
}

func (m *AnimationEncoder) AddFrame(buf pixbuf.Buffer, delay int) error {
	m.AddFrameCalls = append(m.AddFrameCalls, AddFrameCall{
		Width:    buf.Width,
		Height:   buf.Height,
		Channels: buf.Channels,
		Bytes:    len(buf.Data),
		Delay:    delay,
	})
	if m.AddFrameFunc != nil {
		return m.AddFrameFunc(buf, delay)
	}
	return nil
}

func (m *AnimationEncoder) End() error {
	m.EndCalls++
	if m.EndFunc != nil {
		return m.EndFunc()
	}
	if m.w == nil {
		return nil
	}
	// Write a minimal GIF header and trailer so callers see bytes on the sink
	_, err := m.w.Write([]byte("GIF89a;"))
	return err
}

func (m *AnimationEncoder) Abort() {
	m.AbortCalls++
	if m.AbortFunc != nil {
		m.AbortFunc()
	}
}

var _ ports.AnimationEncoder = (*AnimationEncoder)(nil)
