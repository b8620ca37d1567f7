package gifcut

import (
	"context"
	"fmt"
	"image"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/adapters/ffmpegdecoder"
	"github.com/user/gifcut/pkg/adapters/filesink"
	"github.com/user/gifcut/pkg/adapters/ggrenderer"
	"github.com/user/gifcut/pkg/adapters/nullsink"
	"github.com/user/gifcut/pkg/adapters/osfilesystem"
	"github.com/user/gifcut/pkg/adapters/probe"
	"github.com/user/gifcut/pkg/adapters/smartencoder"
	"github.com/user/gifcut/pkg/config"
	"github.com/user/gifcut/pkg/orchestrator"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/emit"
	"github.com/user/gifcut/pkg/stages/preview"
	"github.com/user/gifcut/pkg/summarizer"
)

// Dependencies are the adapters a Pipeline runs on.
// Zero fields are filled with the default implementations by New.
type Dependencies struct {
	Source     ports.FrameSource
	NewEncoder emit.EncoderFactory
	FileSystem ports.FileSystem
	Renderer   ports.Renderer

	// Translate localizes summary labels. Nil leaves them in English.
	Translate func(string) string
	// Version is printed in the summary footer.
	Version string
}

// Pipeline is a fully wired scene-cut run.
type Pipeline struct {
	config  config.Config
	orch    *orchestrator.Orchestrator
	fs      ports.FileSystem
	encoder smartencoder.Info
	deps    Dependencies
	logger  ports.Logger
}

// New validates cfg and wires the default adapters: ffmpeg decoding,
// the selected GIF encoder and, when debugging, the file sink.
func New(cfg config.Config, log ports.Logger) (*Pipeline, error) {
	return NewWithDependencies(cfg, Dependencies{}, log)
}

// NewWithDependencies is New with caller-supplied adapters.
func NewWithDependencies(cfg config.Config, deps Dependencies, log ports.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{config: cfg, logger: log}

	if cfg.FFmpegPath != "" {
		ffmpeg.SetFFmpegPath(cfg.FFmpegPath)
	}

	if deps.FileSystem == nil {
		deps.FileSystem = osfilesystem.New()
	}
	if deps.Source == nil {
		deps.Source = ffmpegdecoder.New(probe.NewDefault(log), log)
	}
	if deps.Renderer == nil {
		deps.Renderer = ggrenderer.New()
	}

	backend, err := smartencoder.ParseBackend(cfg.Encoder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", pipeline.ErrConfig, err)
	}
	if deps.NewEncoder == nil {
		factory, info, err := smartencoder.New(backend, smartencoder.Options{
			FFmpegPath: cfg.FFmpegPath,
			Logger:     log,
		})
		if err != nil {
			return nil, err
		}
		deps.NewEncoder = factory
		p.encoder = info
	} else {
		p.encoder = smartencoder.Info{Backend: backend, Requested: backend}
	}

	// Debug sink
	var sink ports.DebugSink
	var previewStage pipeline.Stage[pipeline.Segment, image.Image]
	if cfg.Debug {
		if err := deps.FileSystem.MkdirAll(cfg.DebugDir); err != nil {
			return nil, fmt.Errorf("create debug directory: %w", err)
		}
		sink = filesink.New(cfg.DebugDir, deps.FileSystem, deps.Renderer)
		previewStage = preview.NewStage(deps.Renderer, cfg.PreviewOptions())
	} else {
		sink = nullsink.New()
	}

	emitStage := emit.NewStage(deps.NewEncoder, deps.FileSystem, log, cfg.EmitOptions())

	p.orch = orchestrator.New(deps.Source, emitStage, previewStage, deps.FileSystem, sink, log)
	p.fs = deps.FileSystem
	p.deps = deps
	return p, nil
}

// Encoder reports the encoder backend that was selected.
func (p *Pipeline) Encoder() smartencoder.Info {
	return p.encoder
}

// Run executes the pipeline. When a summary path is configured the summary is
// written even if the run fails part way, covering the segments written so far.
func (p *Pipeline) Run(ctx context.Context) (orchestrator.RunResult, error) {
	result, runErr := p.orch.Run(ctx, p.config.ToOrchestratorConfig())

	if p.config.Summary != "" && result.FramesRead > 0 {
		var opts []summarizer.MarkdownOption
		if p.deps.Translate != nil {
			opts = append(opts, summarizer.WithTranslator(p.deps.Translate))
		}
		if p.deps.Version != "" {
			opts = append(opts, summarizer.WithVersion(p.deps.Version))
		}
		w := summarizer.NewWriter(summarizer.NewMarkdownFormatter(opts...), p.fs)
		if err := w.Write(p.config.Summary, Summarize(result, p.config, p.encoder.Backend)); err != nil {
			p.logger.Warn("Failed to write summary: %s", err)
		} else {
			p.logger.Info("Summary saved to %s", p.config.Summary)
		}
	}

	return result, runErr
}

// Run builds a Pipeline with default adapters and runs it.
func Run(ctx context.Context, cfg config.Config, log ports.Logger) (orchestrator.RunResult, error) {
	p, err := New(cfg, log)
	if err != nil {
		return orchestrator.RunResult{}, err
	}
	return p.Run(ctx)
}

// Summarize converts a run result into a summary.
func Summarize(result orchestrator.RunResult, cfg config.Config, backend smartencoder.Backend) *summarizer.Summary {
	trailing, _ := pipeline.ParseTrailingPolicy(cfg.Trailing)
	b := summarizer.NewBuilder().
		WithRunID(result.RunID).
		WithDuration(result.Duration).
		WithInput(summarizer.InputInfo{
			Path:       result.InputPath,
			Width:      result.Video.Width,
			Height:     result.Video.Height,
			Codec:      result.Video.Codec,
			FPS:        result.Video.FPS,
			FrameCount: result.Video.FrameCount,
			FramesRead: result.FramesRead,
		}).
		WithSettings(summarizer.Settings{
			Threshold:        cfg.Threshold,
			MinSegmentLength: cfg.MinSegmentLength,
			Trailing:         string(trailing),
			Width:            cfg.Width,
			Height:           cfg.Height,
			FrameDelay:       cfg.FrameDelay,
			Encoder:          string(backend),
			Workers:          cfg.Workers,
		})

	for _, seg := range result.Segments {
		b.AddSegment(summarizer.SegmentInfo{
			First:  seg.FirstIndex,
			Last:   seg.LastIndex,
			Frames: seg.FrameCount,
			Path:   seg.Path,
			Bytes:  seg.Bytes,
		})
	}
	if d := result.Dropped; d != nil {
		b.WithDropped(d.First, d.Last, d.Frames)
	}
	return b.Build()
}
