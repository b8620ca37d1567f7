// Package smartencoder selects an animation encoder backend with fallback
// to the built-in GIF encoder.
package smartencoder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/adapters/ffmpeggif"
	"github.com/user/gifcut/pkg/adapters/gifencoder"
	"github.com/user/gifcut/pkg/ports"
)

// Backend identifies an encoder implementation.
type Backend string

const (
	// BackendGIF is the built-in image/gif encoder.
	BackendGIF Backend = "gif"
	// BackendFFmpeg is ffmpeg's palettegen/paletteuse pipeline.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendAuto picks ffmpeg when available, otherwise the built-in encoder.
	BackendAuto Backend = "auto"
)

// ErrUnknownBackend is returned by ParseBackend for unrecognized names.
var ErrUnknownBackend = errors.New("smartencoder: unknown encoder backend")

// ParseBackend converts a name to a Backend. An empty name selects BackendGIF.
func ParseBackend(name string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(name))) {
	case "", BackendGIF:
		return BackendGIF, nil
	case BackendFFmpeg:
		return BackendFFmpeg, nil
	case BackendAuto:
		return BackendAuto, nil
	default:
		return "", fmt.Errorf("%w: %q (want gif, ffmpeg or auto)", ErrUnknownBackend, name)
	}
}

// Info describes the selected encoder.
type Info struct {
	// Backend is the backend actually used.
	Backend Backend
	// Requested is the backend that was originally requested.
	Requested Backend
	// FallbackUsed indicates whether a fallback occurred.
	FallbackUsed bool
}

// Options configures backend selection.
type Options struct {
	// FFmpegPath is an optional custom path to the ffmpeg binary.
	FFmpegPath string
	// Logger is used to log fallback warnings.
	Logger ports.Logger

	// ffmpegAvailable overrides detection in tests.
	ffmpegAvailable func() bool
}

// New returns a factory producing one fresh encoder per call.
//
// The selection flow:
//  1. gif always uses the built-in encoder
//  2. ffmpeg uses ffmpeg, falling back to gif with a warning when it is missing
//  3. auto uses ffmpeg when available, otherwise gif
func New(preferred Backend, opts Options) (func() ports.AnimationEncoder, Info, error) {
	if opts.FFmpegPath != "" {
		ffmpeg.SetFFmpegPath(opts.FFmpegPath)
	}
	available := opts.ffmpegAvailable
	if available == nil {
		available = ffmpeg.IsAvailable
	}

	info := Info{Requested: preferred}

	switch preferred {
	case BackendGIF, "":
		info.Requested = BackendGIF
		info.Backend = BackendGIF
		return newGIF, info, nil

	case BackendFFmpeg:
		if available() {
			info.Backend = BackendFFmpeg
			return newFFmpeg, info, nil
		}
		if opts.Logger != nil {
			opts.Logger.Warn("ffmpeg GIF encoder not available, falling back to built-in encoder")
		}
		info.Backend = BackendGIF
		info.FallbackUsed = true
		return newGIF, info, nil

	case BackendAuto:
		if available() {
			info.Backend = BackendFFmpeg
			return newFFmpeg, info, nil
		}
		info.Backend = BackendGIF
		return newGIF, info, nil

	default:
		return nil, Info{}, fmt.Errorf("%w: %q", ErrUnknownBackend, preferred)
	}
}

func newGIF() ports.AnimationEncoder {
	return gifencoder.New()
}

func newFFmpeg() ports.AnimationEncoder {
	return ffmpeggif.New()
}

// IsFFmpegAvailable checks if the ffmpeg backend can be used.
func IsFFmpegAvailable() bool {
	return ffmpeggif.IsAvailable()
}
