// Package orchestrator drives a decoded frame stream through segmentation and
// emission.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/difference"
	"github.com/user/gifcut/pkg/stages/segment"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	// Input
	InputPath string

	// Segmentation
	Segmentation pipeline.SegmentationConfig

	// Trailing decides the fate of the segment still open at end of stream.
	Trailing pipeline.TrailingPolicy

	// Workers bounds concurrent segment emission. 1 emits inline.
	Workers int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Segmentation: pipeline.DefaultSegmentationConfig(),
		Trailing:     pipeline.TrailingDiscard,
		Workers:      1,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", pipeline.ErrConfig)
	}
	if err := c.Segmentation.Validate(); err != nil {
		return err
	}
	if _, err := pipeline.ParseTrailingPolicy(string(c.Trailing)); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: negative worker count %d", pipeline.ErrConfig, c.Workers)
	}
	return nil
}

// Orchestrator coordinates decoding, segmentation and emission.
type Orchestrator struct {
	source       ports.FrameSource
	emitStage    pipeline.Stage[pipeline.Segment, pipeline.EmitResult]
	previewStage pipeline.Stage[pipeline.Segment, image.Image]
	fs           ports.FileSystem
	sink         ports.DebugSink
	logger       ports.Logger
}

// New creates a new Orchestrator. previewStage may be nil; it is only used
// when the debug sink is enabled.
func New(
	source ports.FrameSource,
	emitStage pipeline.Stage[pipeline.Segment, pipeline.EmitResult],
	previewStage pipeline.Stage[pipeline.Segment, image.Image],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:       source,
		emitStage:    emitStage,
		previewStage: previewStage,
		fs:           fs,
		sink:         sink,
		logger:       logger,
	}
}

// Run decodes the input, cuts it into segments and writes each flushed segment.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	result := RunResult{
		RunID:     uuid.NewString(),
		InputPath: config.InputPath,
		Config:    config,
	}

	if err := config.Validate(); err != nil {
		return result, err
	}
	if config.Trailing == "" {
		config.Trailing = pipeline.TrailingDiscard
	}
	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	exists, err := o.fs.Exists(config.InputPath)
	if err != nil {
		return result, fmt.Errorf("%w: stat %s: %w", pipeline.ErrConfig, config.InputPath, err)
	}
	if !exists {
		o.logger.Error("Input file not found: %s", config.InputPath)
		return result, fmt.Errorf("%w: input file not found: %s", pipeline.ErrConfig, config.InputPath)
	}

	stream, err := o.source.Open(ctx, config.InputPath)
	if err != nil {
		o.logger.Error("Failed to open video: %s", err)
		return result, fmt.Errorf("open %s: %w", config.InputPath, err)
	}
	defer stream.Close()

	result.Video = stream.Info()
	o.logger.Info("Processing %s (%dx%d, %d frames)",
		config.InputPath, result.Video.Width, result.Video.Height, result.Video.FrameCount)

	collected := &collector{}
	emit := func(ctx context.Context, seg pipeline.Segment) error {
		return o.emit(ctx, seg, collected)
	}

	// Emission runs inline, or on a bounded errgroup when workers > 1.
	// A flushed segment is handed over whole and never touched again here.
	runCtx := ctx
	var group *errgroup.Group
	onFlush := emit
	if workers > 1 {
		group, runCtx = errgroup.WithContext(ctx)
		group.SetLimit(workers)
		onFlush = func(ctx context.Context, seg pipeline.Segment) error {
			group.Go(func() error { return emit(runCtx, seg) })
			return nil
		}
		o.logger.Debug("Emitting segments with %d workers", workers)
	}

	metric := difference.NewMetric(o.logger, config.Segmentation.VerboseDiff, o.sink.Enabled())
	engine := segment.NewEngine(config.Segmentation, metric.Measure, onFlush, o.logger)

	loopErr := o.consume(runCtx, stream, engine)
	result.FramesRead = engine.FramesSeen()

	if loopErr == nil {
		loopErr = o.finish(runCtx, config, engine, onFlush, &result)
	}

	if group != nil {
		// A worker failure cancels runCtx, so report the worker's error first.
		if waitErr := group.Wait(); waitErr != nil {
			loopErr = waitErr
		}
	}

	result.Segments = collected.sorted()
	result.Duration = time.Since(start)

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(metric.Records(), "", "  "); err == nil {
			if err := o.sink.SaveDifferencesJSON(data); err != nil {
				o.logger.Warn("Failed to save debug output: %s", err)
			}
		}
	}

	if loopErr != nil {
		o.logger.Error("Pipeline failed: %s", loopErr)
		return result, loopErr
	}

	o.logger.Info("Wrote %d animations from %d frames", len(result.Segments), result.FramesRead)
	return result, nil
}

// consume pulls frames until end of stream, cancellation or the first error.
func (o *Orchestrator) consume(ctx context.Context, stream ports.FrameStream, engine *segment.Engine) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		buf, index, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.Is(err, pipeline.ErrDecode) {
				return err
			}
			return fmt.Errorf("%w: %w", pipeline.ErrDecode, err)
		}

		if err := engine.Push(ctx, pipeline.Frame{Buffer: buf, Index: index}); err != nil {
			return err
		}
	}
}

// finish applies the trailing policy to the segment left open at end of stream.
func (o *Orchestrator) finish(
	ctx context.Context,
	config Config,
	engine *segment.Engine,
	onFlush segment.FlushFunc,
	result *RunResult,
) error {
	seg, ok := engine.Finish()
	if !ok {
		return nil
	}

	first, last := seg.Range()
	if config.Trailing == pipeline.TrailingEmit && seg.Len() > config.Segmentation.MinSegmentLen {
		o.logger.Debug("Emitting trailing segment %d-%d", first, last)
		return onFlush(ctx, seg)
	}

	result.Dropped = &DroppedRange{First: first, Last: last, Frames: seg.Len()}
	o.logger.Warn("Discarding trailing segment: frames %d-%d (%d frames)", first, last, seg.Len())
	return nil
}

// emit writes one segment and its debug output.
func (o *Orchestrator) emit(ctx context.Context, seg pipeline.Segment, c *collector) error {
	res, err := o.emitStage.Execute(ctx, seg)
	if err != nil {
		first, last := seg.Range()
		o.logger.Error("Failed to write segment %d-%d: %s", first, last, err)
		return err
	}
	c.add(res)
	o.logger.Info("Wrote %s (%d frames, %d bytes)", res.Path, res.FrameCount, res.Bytes)

	if o.sink.Enabled() {
		o.saveDebug(ctx, seg, res)
	}
	return nil
}

// segmentInfo is the debug JSON written per segment.
type segmentInfo struct {
	First  int64  `json:"first"`
	Last   int64  `json:"last"`
	Frames int    `json:"frames"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
	Width  int    `json:"sourceWidth"`
	Height int    `json:"sourceHeight"`
}

func (o *Orchestrator) saveDebug(ctx context.Context, seg pipeline.Segment, res pipeline.EmitResult) {
	first, last := seg.Range()
	info := segmentInfo{
		First:  first,
		Last:   last,
		Frames: seg.Len(),
		Path:   res.Path,
		Bytes:  res.Bytes,
		Width:  seg.First().Buffer.Width,
		Height: seg.First().Buffer.Height,
	}
	if data, err := json.MarshalIndent(info, "", "  "); err == nil {
		if err := o.sink.SaveSegmentJSON(first, last, data); err != nil {
			o.logger.Warn("Failed to save debug output: %s", err)
		}
	}

	if o.previewStage == nil {
		return
	}
	img, err := o.previewStage.Execute(ctx, seg)
	if err != nil {
		o.logger.Warn("Failed to render preview: %s", err)
		return
	}
	if err := o.sink.SaveSegmentPreview(first, last, img); err != nil {
		o.logger.Warn("Failed to save debug output: %s", err)
	}
}

// collector gathers emit results from concurrent workers.
type collector struct {
	mu      sync.Mutex
	results []pipeline.EmitResult
}

func (c *collector) add(r pipeline.EmitResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *collector) sorted() []pipeline.EmitResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := append([]pipeline.EmitResult(nil), c.results...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].FirstIndex < out[j].FirstIndex
	})
	return out
}

// DroppedRange describes a trailing segment that was not written.
type DroppedRange struct {
	First  int64
	Last   int64
	Frames int
}

// RunResult contains the results of a pipeline run for summary generation.
type RunResult struct {
	RunID     string
	InputPath string
	Config    Config

	// Source information
	Video      ports.VideoInfo
	FramesRead int

	// Written animations, ordered by first frame
	Segments []pipeline.EmitResult

	// Trailing segment that was discarded, if any
	Dropped *DroppedRange

	Duration time.Duration
}

// TotalBytes returns the combined size of all written animations.
func (r RunResult) TotalBytes() int64 {
	var total int64
	for _, s := range r.Segments {
		total += s.Bytes
	}
	return total
}
