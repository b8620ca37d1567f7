// Package config provides configuration loading and management.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/user/gifcut/pkg/orchestrator"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/emit"
	"github.com/user/gifcut/pkg/stages/preview"
)

// Config represents the full configuration for gifcut.
type Config struct {
	// Input/Output
	Input     string `yaml:"input"`
	OutputDir string `yaml:"output_dir"`

	// Segmentation
	Threshold        float64 `yaml:"threshold"`
	MinSegmentLength int     `yaml:"min_segment_length"`
	PrintDiff        bool    `yaml:"print_diff"`
	Trailing         string  `yaml:"trailing"`

	// Output animation
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	FrameDelay int    `yaml:"frame_delay"`
	Encoder    string `yaml:"encoder"`
	Dither     bool   `yaml:"dither"`
	LoopCount  int    `yaml:"loop_count"`

	// Execution
	Workers    int    `yaml:"workers"`
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Debug
	Debug    bool          `yaml:"debug"`
	DebugDir string        `yaml:"debug_dir"`
	Preview  PreviewConfig `yaml:"preview"`

	// Reporting
	Summary  string `yaml:"summary"`
	LogLevel string `yaml:"log_level"`
}

// PreviewConfig represents the debug contact sheet settings.
type PreviewConfig struct {
	ThumbWidth  int `yaml:"thumb_width"`
	ThumbHeight int `yaml:"thumb_height"`
	MaxThumbs   int `yaml:"max_thumbs"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	seg := pipeline.DefaultSegmentationConfig()
	out := emit.DefaultOptions()
	pv := preview.DefaultOptions()

	return Config{
		OutputDir: out.OutputDir,

		// Segmentation
		Threshold:        seg.Threshold,
		MinSegmentLength: seg.MinSegmentLen,
		Trailing:         string(pipeline.TrailingDiscard),

		// Output animation
		Width:      seg.TargetWidth,
		Height:     seg.TargetHeight,
		FrameDelay: out.FrameDelay,
		Encoder:    "gif",
		Dither:     true,

		// Execution
		Workers: 1,

		// Debug
		DebugDir: "./debug",
		Preview: PreviewConfig{
			ThumbWidth:  pv.ThumbWidth,
			ThumbHeight: pv.ThumbHeight,
			MaxThumbs:   pv.MaxThumbs,
		},

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: read %s: %w", pipeline.ErrConfig, path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over Defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Defaults()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Defaults(), fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}
	return cfg, nil
}

// Validate checks value ranges that the stages do not check themselves.
func (c Config) Validate() error {
	if err := c.segmentation().Validate(); err != nil {
		return err
	}
	if _, err := pipeline.ParseTrailingPolicy(c.Trailing); err != nil {
		return err
	}
	if c.FrameDelay < 0 {
		return fmt.Errorf("%w: negative frame delay %d", pipeline.ErrConfig, c.FrameDelay)
	}
	if c.LoopCount < -1 {
		return fmt.Errorf("%w: loop count %d (want -1 or more)", pipeline.ErrConfig, c.LoopCount)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", pipeline.ErrConfig, c.Workers)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is required", pipeline.ErrConfig)
	}
	return nil
}

func (c Config) segmentation() pipeline.SegmentationConfig {
	return pipeline.SegmentationConfig{
		Threshold:     c.Threshold,
		MinSegmentLen: c.MinSegmentLength,
		TargetWidth:   c.Width,
		TargetHeight:  c.Height,
		VerboseDiff:   c.PrintDiff,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	trailing, err := pipeline.ParseTrailingPolicy(c.Trailing)
	if err != nil {
		// Left as-is so orchestrator validation reports it.
		trailing = pipeline.TrailingPolicy(c.Trailing)
	}
	return orchestrator.Config{
		InputPath:    c.Input,
		Segmentation: c.segmentation(),
		Trailing:     trailing,
		Workers:      c.Workers,
	}
}

// EmitOptions returns the emit stage options.
func (c Config) EmitOptions() emit.Options {
	return emit.Options{
		OutputDir:  c.OutputDir,
		Width:      c.Width,
		Height:     c.Height,
		FrameDelay: c.FrameDelay,
		Animation: ports.AnimationOptions{
			LoopCount: c.LoopCount,
			Dither:    c.Dither,
		},
	}
}

// PreviewOptions returns the preview stage options.
func (c Config) PreviewOptions() preview.Options {
	opts := preview.DefaultOptions()
	if c.Preview.ThumbWidth > 0 {
		opts.ThumbWidth = c.Preview.ThumbWidth
	}
	if c.Preview.ThumbHeight > 0 {
		opts.ThumbHeight = c.Preview.ThumbHeight
	}
	if c.Preview.MaxThumbs > 0 {
		opts.MaxThumbs = c.Preview.MaxThumbs
	}
	return opts
}
