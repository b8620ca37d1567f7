package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/gifcut/pkg/ports"
)

// Chain tries each prober in order and returns the first usable result.
type Chain struct {
	probers []ports.Prober
	logger  ports.Logger
}

// NewChain creates a Chain.
func NewChain(logger ports.Logger, probers ...ports.Prober) *Chain {
	return &Chain{probers: probers, logger: logger.WithComponent("probe")}
}

// NewDefault returns the MP4 header reader backed by ffprobe.
func NewDefault(logger ports.Logger) *Chain {
	return NewChain(logger, NewMP4(), NewFFprobe())
}

// Probe returns the first result with non-zero dimensions.
func (c *Chain) Probe(ctx context.Context, path string) (ports.VideoInfo, error) {
	var errs []error
	for _, p := range c.probers {
		info, err := p.Probe(ctx, path)
		if err == nil && info.Width > 0 && info.Height > 0 {
			c.logger.Debug("Probed %s: %dx%d %s, %d frames", path, info.Width, info.Height, info.Codec, info.FrameCount)
			return info, nil
		}
		if err == nil {
			err = fmt.Errorf("%w: zero dimensions", ErrNoVideoTrack)
		}
		if !errors.Is(err, ErrUnsupportedContainer) {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return ports.VideoInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedContainer, path)
	}
	return ports.VideoInfo{}, errors.Join(errs...)
}

var _ ports.Prober = (*Chain)(nil)
