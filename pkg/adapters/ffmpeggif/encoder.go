// Package ffmpeggif encodes animated GIFs by piping raw frames through ffmpeg's
// two-pass palettegen/paletteuse filter graph.
package ffmpeggif

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

var (
	// ErrNotInitialized is returned when AddFrame or End is called before Begin.
	ErrNotInitialized = errors.New("ffmpeggif: encoder not initialized")

	// ErrFrameSize is returned when a frame does not match the animation size.
	ErrFrameSize = errors.New("ffmpeggif: frame size mismatch")

	// ErrVariableDelay is returned when frames of one animation use different delays.
	ErrVariableDelay = errors.New("ffmpeggif: frame delay must be constant")
)

// Encoder implements ports.AnimationEncoder with an ffmpeg subprocess.
// The process is started on the first frame, once the frame delay is known.
type Encoder struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	height int
	opts   ports.AnimationOptions
	delay  int

	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stderr     bytes.Buffer
	frameCount int
	started    bool
	closed     bool
}

// New creates a new Encoder.
func New() *Encoder {
	return &Encoder{}
}

// IsAvailable reports whether ffmpeg can be found.
func IsAvailable() bool {
	return ffmpeg.IsAvailable()
}

// Begin records the animation parameters.
func (e *Encoder) Begin(width, height int, w io.Writer, opts ports.AnimationOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrFrameSize, width, height)
	}

	e.w = w
	e.width = width
	e.height = height
	e.opts = opts
	e.started = true
	e.closed = false
	e.frameCount = 0
	return nil
}

// AddFrame writes one rgb24 frame to ffmpeg's stdin.
func (e *Encoder) AddFrame(buf pixbuf.Buffer, delay int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.closed {
		return ErrNotInitialized
	}
	if buf.Width != e.width || buf.Height != e.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, buf.Width, buf.Height, e.width, e.height)
	}
	if delay <= 0 {
		delay = 1
	}

	if e.cmd == nil {
		if err := e.start(delay); err != nil {
			return err
		}
	} else if delay != e.delay {
		return fmt.Errorf("%w: %d then %d", ErrVariableDelay, e.delay, delay)
	}

	rgb := buf.ToRGB()
	if _, err := e.stdin.Write(rgb.Data); err != nil {
		return fmt.Errorf("failed to write frame: %w\nstderr: %s", err, e.stderr.String())
	}
	e.frameCount++
	return nil
}

func (e *Encoder) start(delay int) error {
	ffmpegPath, err := ffmpeg.FindFFmpeg()
	if err != nil {
		return err
	}

	e.delay = delay
	e.cmd = exec.Command(ffmpegPath, e.args()...)
	e.cmd.Stdout = e.w
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	return nil
}

// args builds the ffmpeg command line. The frame rate is derived from the
// delay so each frame keeps its display time in the output.
func (e *Encoder) args() []string {
	ditherMode := "none"
	if e.opts.Dither {
		ditherMode = "floyd_steinberg"
	}

	return []string{
		"-nostdin",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", e.width, e.height),
		"-framerate", fmt.Sprintf("100/%d", e.delay),
		"-i", "pipe:0",
		"-filter_complex", "[0:v]split[a][b];[a]palettegen=stats_mode=diff[p];[b][p]paletteuse=dither=" + ditherMode,
		"-loop", strconv.Itoa(e.opts.LoopCount),
		"-f", "gif",
		"pipe:1",
	}
}

// End closes ffmpeg's stdin and waits for the GIF to be written.
func (e *Encoder) End() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.closed {
		return ErrNotInitialized
	}
	e.closed = true

	if e.cmd == nil {
		return errors.New("ffmpeggif: no frames to encode")
	}

	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg encoding failed: %w\nstderr: %s", err, e.stderr.String())
	}
	return nil
}

// Abort kills ffmpeg, if it was started, and waits for it to exit.
func (e *Encoder) Abort() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started || e.closed {
		return
	}
	e.closed = true

	if e.cmd == nil {
		return
	}
	e.stdin.Close()
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
}

// Running reports whether the ffmpeg process is started and not yet reaped.
func (e *Encoder) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cmd != nil && e.cmd.ProcessState == nil
}

var _ ports.AnimationEncoder = (*Encoder)(nil)
