package ports

import (
	"context"

	"github.com/user/gifcut/pkg/pixbuf"
)

// FrameSource opens video files for sequential decoding.
type FrameSource interface {
	// Open starts decoding the file at path.
	// A missing or unreadable file returns an error before any frame is produced.
	Open(ctx context.Context, path string) (FrameStream, error)
}

// FrameStream yields frames in source order. There is no seek or rewind.
type FrameStream interface {
	// Next returns the next frame and its 1-based position in the stream,
	// or io.EOF once the stream is exhausted.
	Next() (pixbuf.Buffer, int64, error)

	// Info returns the stream properties known at open time.
	Info() VideoInfo

	// Close releases decoder resources.
	Close() error
}

// VideoInfo describes a video stream.
type VideoInfo struct {
	Width      int
	Height     int
	FrameCount int     // 0 when unknown
	FPS        float64 // 0 when unknown
	Codec      string
}

// Prober reads stream properties without decoding frames.
type Prober interface {
	Probe(ctx context.Context, path string) (VideoInfo, error)
}
