// Package gifcut provides a high-level API for cutting videos into
// per-scene animated GIFs.
package gifcut

import (
	"github.com/user/gifcut/pkg/config"
)

// ConfigBuilder provides a fluent interface for building config.Config.
type ConfigBuilder struct {
	config config.Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: config.Defaults(),
	}
}

// FromConfig starts a builder from an existing configuration, typically one
// loaded from a YAML file.
func FromConfig(cfg config.Config) *ConfigBuilder {
	return &ConfigBuilder{config: cfg}
}

// Build returns the final Config, applying constraints.
func (b *ConfigBuilder) Build() config.Config {
	cfg := b.config

	// Enforce at least one emit worker
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	// -1 is the only negative loop count with a meaning
	if cfg.LoopCount < -1 {
		cfg.LoopCount = -1
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = config.Defaults().OutputDir
	}

	return cfg
}

// WithInput sets the video file to read.
func (b *ConfigBuilder) WithInput(path string) *ConfigBuilder {
	b.config.Input = path
	return b
}

// WithOutputDir sets the directory receiving the animations.
func (b *ConfigBuilder) WithOutputDir(dir string) *ConfigBuilder {
	b.config.OutputDir = dir
	return b
}

// WithThreshold sets the cut threshold as a percentage of changed pixels.
func (b *ConfigBuilder) WithThreshold(threshold float64) *ConfigBuilder {
	b.config.Threshold = threshold
	return b
}

// WithMinSegmentLength sets the frame count a segment must exceed before a cut is honored.
func (b *ConfigBuilder) WithMinSegmentLength(n int) *ConfigBuilder {
	b.config.MinSegmentLength = n
	return b
}

// WithPrintDiff enables logging of every difference value.
func (b *ConfigBuilder) WithPrintDiff(enabled bool) *ConfigBuilder {
	b.config.PrintDiff = enabled
	return b
}

// WithTrailing sets the trailing segment policy (discard or emit).
func (b *ConfigBuilder) WithTrailing(policy string) *ConfigBuilder {
	b.config.Trailing = policy
	return b
}

// WithSize sets the output animation size.
func (b *ConfigBuilder) WithSize(width, height int) *ConfigBuilder {
	b.config.Width = width
	b.config.Height = height
	return b
}

// WithFrameDelay sets the per-frame delay in hundredths of a second.
func (b *ConfigBuilder) WithFrameDelay(delay int) *ConfigBuilder {
	b.config.FrameDelay = delay
	return b
}

// WithEncoder sets the encoder backend (gif, ffmpeg or auto).
func (b *ConfigBuilder) WithEncoder(name string) *ConfigBuilder {
	b.config.Encoder = name
	return b
}

// WithDither enables or disables Floyd-Steinberg dithering.
func (b *ConfigBuilder) WithDither(enabled bool) *ConfigBuilder {
	b.config.Dither = enabled
	return b
}

// WithLoopCount sets the animation loop count.
// 0 loops forever, -1 plays once.
func (b *ConfigBuilder) WithLoopCount(n int) *ConfigBuilder {
	b.config.LoopCount = n
	return b
}

// WithWorkers sets the number of concurrent segment writers.
// Values below 1 will be forced to 1.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.config.Workers = n
	return b
}

// WithFFmpegPath sets a custom ffmpeg binary.
func (b *ConfigBuilder) WithFFmpegPath(path string) *ConfigBuilder {
	b.config.FFmpegPath = path
	return b
}

// WithDebug enables debug output under dir.
func (b *ConfigBuilder) WithDebug(dir string) *ConfigBuilder {
	b.config.Debug = true
	if dir != "" {
		b.config.DebugDir = dir
	}
	return b
}

// WithSummary sets the path of the Markdown run summary.
func (b *ConfigBuilder) WithSummary(path string) *ConfigBuilder {
	b.config.Summary = path
	return b
}

// WithLogLevel sets the log level name.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.config.LogLevel = level
	return b
}
