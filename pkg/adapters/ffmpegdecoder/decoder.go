// Package ffmpegdecoder decodes video files into raw BGR frames by piping
// them out of an ffmpeg subprocess.
package ffmpegdecoder

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

// Source implements ports.FrameSource using ffmpeg.
type Source struct {
	prober ports.Prober
	logger ports.Logger
}

// New creates a new Source. Frame dimensions are taken from prober.
func New(prober ports.Prober, logger ports.Logger) *Source {
	return &Source{
		prober: prober,
		logger: logger.WithComponent("decoder"),
	}
}

// IsAvailable reports whether ffmpeg can be found.
func IsAvailable() bool {
	return ffmpeg.IsAvailable()
}

// Open probes path and starts an ffmpeg process emitting bgr24 rawvideo on stdout.
func (s *Source) Open(ctx context.Context, path string) (ports.FrameStream, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", pipeline.ErrDecode, path, err)
	}

	info, err := s.prober.Probe(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %w", pipeline.ErrDecode, path, err)
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("%w: %s reports %dx%d", pipeline.ErrDecode, path, info.Width, info.Height)
	}

	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrDecode, err)
	}

	cmd := exec.CommandContext(ctx, ffmpegPath, decodeArgs(path, info)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", pipeline.ErrDecode, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: start ffmpeg: %w", pipeline.ErrDecode, err)
	}

	s.logger.Debug("Decoding %s (%dx%d %s) with %s", path, info.Width, info.Height, info.Codec, ffmpegPath)

	frameSize := info.Width * info.Height * pixbuf.BGR.Count()
	return &stream{
		cmd:       cmd,
		stdout:    stdout,
		reader:    bufio.NewReaderSize(stdout, frameSize),
		stderr:    stderr,
		info:      info,
		frameSize: frameSize,
	}, nil
}

// decodeArgs builds the ffmpeg command line. The output size is pinned to the
// probed size, so every frame on the pipe is exactly width*height*3 bytes even
// when the container header and the decoded picture disagree.
func decodeArgs(path string, info ports.VideoInfo) []string {
	return []string{
		"-nostdin",
		"-v", "error",
		"-noautorotate",
		"-i", path,
		"-an",
		"-s", fmt.Sprintf("%dx%d", info.Width, info.Height),
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"pipe:1",
	}
}

// stream reads fixed-size frames from the ffmpeg pipe.
type stream struct {
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	reader    *bufio.Reader
	stderr    *bytes.Buffer
	info      ports.VideoInfo
	frameSize int

	mu    sync.Mutex
	index int64
	done  bool
	err   error
}

// Next reads the next frame. Each call allocates a new buffer owned by the caller.
func (st *stream) Next() (pixbuf.Buffer, int64, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.done {
		if st.err != nil {
			return pixbuf.Buffer{}, 0, st.err
		}
		return pixbuf.Buffer{}, 0, io.EOF
	}

	data := make([]byte, st.frameSize)
	n, err := io.ReadFull(st.reader, data)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		st.finish(nil)
		if st.err != nil {
			return pixbuf.Buffer{}, 0, st.err
		}
		return pixbuf.Buffer{}, 0, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		st.finish(fmt.Errorf("%w: truncated frame %d (%d of %d bytes)", pipeline.ErrDecode, st.index+1, n, st.frameSize))
		return pixbuf.Buffer{}, 0, st.err
	default:
		st.finish(fmt.Errorf("%w: read frame %d: %w", pipeline.ErrDecode, st.index+1, err))
		return pixbuf.Buffer{}, 0, st.err
	}

	buf, err := pixbuf.New(st.info.Width, st.info.Height, pixbuf.BGR, data)
	if err != nil {
		st.finish(fmt.Errorf("%w: %w", pipeline.ErrDecode, err))
		return pixbuf.Buffer{}, 0, st.err
	}

	st.index++
	return buf, st.index, nil
}

// finish waits for the process and records the first terminal error.
func (st *stream) finish(cause error) {
	st.done = true
	st.err = cause

	if cause != nil && st.cmd.Process != nil {
		st.cmd.Process.Kill()
	}
	waitErr := st.cmd.Wait()
	if st.err == nil && waitErr != nil {
		st.err = fmt.Errorf("%w: ffmpeg failed: %w\nstderr: %s", pipeline.ErrDecode, waitErr, bytes.TrimSpace(st.stderr.Bytes()))
	}
}

func (st *stream) Info() ports.VideoInfo {
	return st.info
}

// Close stops the ffmpeg process if it is still running.
func (st *stream) Close() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.done {
		return nil
	}
	st.done = true
	st.stdout.Close()
	if st.cmd.Process != nil {
		st.cmd.Process.Kill()
	}
	st.cmd.Wait()
	return nil
}

var _ ports.FrameSource = (*Source)(nil)
