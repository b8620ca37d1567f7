package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/user/gifcut/pkg/adapters/logger"
	"github.com/user/gifcut/pkg/mocks"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
	"github.com/user/gifcut/pkg/stages/emit"
	"github.com/user/gifcut/pkg/stages/preview"
)

const inputPath = "input.mp4"

// scenes returns frames made of runs of solid shades, one run per entry in lengths.
func scenes(lengths ...int) []pixbuf.Buffer {
	var frames []pixbuf.Buffer
	for i, n := range lengths {
		shade := byte(i%2) * 200
		for j := 0; j < n; j++ {
			frames = append(frames, pixbuf.Filled(16, 9, pixbuf.BGR, shade, shade, shade))
		}
	}
	return frames
}

type fixture struct {
	source *mocks.FrameSource
	fs     *mocks.FileSystem
	sink   *mocks.DebugSink
	log    *mocks.Logger

	mu       sync.Mutex
	encoders []*mocks.AnimationEncoder
	failAt   int // fail AddFrame of the n-th encoder, 1-based
}

func newFixture(frames []pixbuf.Buffer) *fixture {
	f := &fixture{
		source: mocks.NewFrameSource(frames...),
		fs:     mocks.NewFileSystem(),
		sink:   mocks.NewDebugSink(false),
		log:    mocks.NewLogger(),
	}
	f.fs.WriteFile(inputPath, []byte("video"))
	return f
}

func (f *fixture) newEncoder() ports.AnimationEncoder {
	f.mu.Lock()
	defer f.mu.Unlock()
	enc := &mocks.AnimationEncoder{}
	f.encoders = append(f.encoders, enc)
	if f.failAt == len(f.encoders) {
		enc.AddFrameFunc = func(buf pixbuf.Buffer, delay int) error {
			return errors.New("write failed")
		}
	}
	return enc
}

func (f *fixture) orchestrator(withPreview bool) *Orchestrator {
	opts := emit.DefaultOptions()
	opts.OutputDir = "out"
	opts.Width = 20
	opts.Height = 10
	emitStage := emit.NewStage(f.newEncoder, f.fs, logger.NewNoop(), opts)

	var previewStage pipeline.Stage[pipeline.Segment, image.Image]
	if withPreview {
		previewStage = preview.NewStage(&mocks.Renderer{}, preview.DefaultOptions())
	}
	return New(f.source, emitStage, previewStage, f.fs, f.sink, f.log)
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.InputPath = inputPath
	return cfg
}

func outputPaths(r RunResult) []string {
	var paths []string
	for _, s := range r.Segments {
		paths = append(paths, s.Path)
	}
	return paths
}

func TestOrchestrator_Run(t *testing.T) {
	f := newFixture(scenes(30, 30))

	result, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.FramesRead != 60 {
		t.Errorf("expected 60 frames read, got %d", result.FramesRead)
	}
	if len(result.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(result.Segments))
	}
	seg := result.Segments[0]
	if seg.FirstIndex != 1 || seg.LastIndex != 30 || seg.FrameCount != 30 {
		t.Errorf("unexpected segment %+v", seg)
	}
	wantPath := filepath.Join("out", "gif [from 1 to 30].gif")
	if seg.Path != wantPath {
		t.Errorf("expected %q, got %q", wantPath, seg.Path)
	}
	if _, ok := f.fs.GetFile(wantPath); !ok {
		t.Error("expected output file to be written")
	}

	// Trailing segment is discarded by default
	if result.Dropped == nil {
		t.Fatal("expected trailing segment to be reported as dropped")
	}
	if result.Dropped.First != 31 || result.Dropped.Last != 60 || result.Dropped.Frames != 30 {
		t.Errorf("unexpected dropped range %+v", *result.Dropped)
	}
	if len(f.log.Messages("warn")) == 0 {
		t.Error("expected a warning for the discarded trailing segment")
	}

	if result.RunID == "" {
		t.Error("expected run ID")
	}
	if len(f.source.Streams) != 1 || !f.source.Streams[0].Closed {
		t.Error("expected stream to be closed")
	}
}

func TestOrchestrator_Run_TrailingEmit(t *testing.T) {
	f := newFixture(scenes(30, 30))
	cfg := testConfig()
	cfg.Trailing = pipeline.TrailingEmit

	result, err := f.orchestrator(false).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	if result.Segments[1].FirstIndex != 31 || result.Segments[1].LastIndex != 60 {
		t.Errorf("unexpected trailing segment %+v", result.Segments[1])
	}
	if result.Dropped != nil {
		t.Errorf("expected nothing dropped, got %+v", *result.Dropped)
	}
}

func TestOrchestrator_Run_TrailingEmitTooShort(t *testing.T) {
	f := newFixture(scenes(30, 10))
	cfg := testConfig()
	cfg.Trailing = pipeline.TrailingEmit

	result, err := f.orchestrator(false).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Errorf("expected short trailing segment to be dropped, got %d segments", len(result.Segments))
	}
	if result.Dropped == nil || result.Dropped.Frames != 10 {
		t.Errorf("expected 10 dropped frames, got %+v", result.Dropped)
	}
}

func TestOrchestrator_Run_NoCut(t *testing.T) {
	f := newFixture(scenes(30))

	result, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(result.Segments) != 0 {
		t.Errorf("expected no output, got %d", len(result.Segments))
	}
	if len(f.encoders) != 0 {
		t.Error("encoder must not be used when nothing is flushed")
	}
}

func TestOrchestrator_Run_EmptyStream(t *testing.T) {
	f := newFixture(nil)

	result, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.FramesRead != 0 || len(result.Segments) != 0 || result.Dropped != nil {
		t.Errorf("unexpected result for empty stream: %+v", result)
	}
}

func TestOrchestrator_Run_MissingInput(t *testing.T) {
	f := newFixture(scenes(30))
	cfg := testConfig()
	cfg.InputPath = "missing.mp4"

	_, err := f.orchestrator(false).Run(context.Background(), cfg)
	if !errors.Is(err, pipeline.ErrConfig) {
		t.Errorf("expected ErrConfig, got %v", err)
	}
	if len(f.source.OpenedPaths) != 0 {
		t.Error("source must not be opened for a missing input")
	}
}

func TestOrchestrator_Run_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"no input", func(c *Config) { c.InputPath = "" }},
		{"threshold", func(c *Config) { c.Segmentation.Threshold = 120 }},
		{"width", func(c *Config) { c.Segmentation.TargetWidth = 0 }},
		{"trailing", func(c *Config) { c.Trailing = "keep" }},
		{"workers", func(c *Config) { c.Workers = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(scenes(30))
			cfg := testConfig()
			tt.modify(&cfg)

			_, err := f.orchestrator(false).Run(context.Background(), cfg)
			if !errors.Is(err, pipeline.ErrConfig) {
				t.Errorf("expected ErrConfig, got %v", err)
			}
		})
	}
}

func TestOrchestrator_Run_OpenFailure(t *testing.T) {
	f := newFixture(nil)
	openErr := errors.New("unsupported codec")
	f.source.OpenFunc = func(ctx context.Context, path string) (ports.FrameStream, error) {
		return nil, openErr
	}

	_, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if !errors.Is(err, openErr) {
		t.Errorf("expected open error, got %v", err)
	}
}

func TestOrchestrator_Run_DecodeFailure(t *testing.T) {
	f := newFixture(nil)
	stream := &mocks.FrameStream{Frames: scenes(30, 30), FailAt: 40, Err: errors.New("corrupt packet")}
	f.source.OpenFunc = func(ctx context.Context, path string) (ports.FrameStream, error) {
		return stream, nil
	}

	result, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if len(result.Segments) != 1 {
		t.Errorf("segments flushed before the failure should be reported, got %d", len(result.Segments))
	}
	if !stream.Closed {
		t.Error("expected stream to be closed after failure")
	}
}

func TestOrchestrator_Run_EncodeFailureStops(t *testing.T) {
	f := newFixture(scenes(30, 30, 30, 30))
	f.failAt = 1

	_, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrEncode) {
		t.Fatalf("expected ErrEncode, got %v", err)
	}
	if len(f.encoders) != 1 {
		t.Errorf("expected the run to stop after the first failure, got %d encoders", len(f.encoders))
	}
}

func TestOrchestrator_Run_ShapeMismatch(t *testing.T) {
	frames := scenes(5)
	frames = append(frames, pixbuf.Filled(8, 8, pixbuf.BGR, 0, 0, 0))
	f := newFixture(frames)

	_, err := f.orchestrator(false).Run(context.Background(), testConfig())
	if !errors.Is(err, pipeline.ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestOrchestrator_Run_Cancelled(t *testing.T) {
	f := newFixture(scenes(30, 30))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.orchestrator(false).Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_Run_ParallelMatchesSequential(t *testing.T) {
	lengths := []int{30, 40, 26, 50, 30, 35}

	run := func(workers int) RunResult {
		f := newFixture(scenes(lengths...))
		cfg := testConfig()
		cfg.Trailing = pipeline.TrailingEmit
		cfg.Workers = workers

		result, err := f.orchestrator(false).Run(context.Background(), cfg)
		if err != nil {
			t.Fatalf("Run with %d workers failed: %v", workers, err)
		}
		return result
	}

	sequential := outputPaths(run(1))
	parallel := outputPaths(run(4))

	if len(sequential) != len(lengths) {
		t.Fatalf("expected %d outputs, got %d", len(lengths), len(sequential))
	}
	sort.Strings(sequential)
	sort.Strings(parallel)
	if len(parallel) != len(sequential) {
		t.Fatalf("expected %d parallel outputs, got %d", len(sequential), len(parallel))
	}
	for i := range sequential {
		if sequential[i] != parallel[i] {
			t.Errorf("output %d differs: %q vs %q", i, sequential[i], parallel[i])
		}
	}
}

func TestOrchestrator_Run_ParallelEncodeFailure(t *testing.T) {
	f := newFixture(scenes(30, 30, 30, 30))
	f.failAt = 2
	cfg := testConfig()
	cfg.Workers = 2

	_, err := f.orchestrator(false).Run(context.Background(), cfg)
	if !errors.Is(err, pipeline.ErrEncode) {
		t.Errorf("expected ErrEncode, got %v", err)
	}
}

func TestOrchestrator_Run_DebugOutput(t *testing.T) {
	f := newFixture(scenes(30, 30))
	f.sink = mocks.NewDebugSink(true)

	_, err := f.orchestrator(true).Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var records []pipeline.DifferenceRecord
	if err := json.Unmarshal(f.sink.DifferencesJSON, &records); err != nil {
		t.Fatalf("invalid differences JSON: %v", err)
	}
	if len(records) != 59 {
		t.Errorf("expected 59 difference records, got %d", len(records))
	}
	if records[29].Index != 31 || records[29].Percentage != 100 {
		t.Errorf("expected the cut at frame 31, got %+v", records[29])
	}

	if f.sink.SegmentCount() != 1 {
		t.Errorf("expected 1 segment JSON, got %d", f.sink.SegmentCount())
	}
	if _, ok := f.sink.Previews[[2]int64{1, 30}]; !ok {
		t.Error("expected preview for segment 1-30")
	}
}

func TestOrchestrator_Run_VerboseDiff(t *testing.T) {
	f := newFixture(scenes(3))
	cfg := testConfig()
	cfg.Segmentation.VerboseDiff = true

	if _, err := f.orchestrator(false).Run(context.Background(), cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	count := 0
	for _, msg := range f.log.Messages("info") {
		if msg == "Difference between frames is: 0.00%" {
			count++
		}
	}
	if count != 2 {
		t.Errorf("expected 2 difference log lines, got %d", count)
	}
}

func TestRunResult_TotalBytes(t *testing.T) {
	r := RunResult{Segments: []pipeline.EmitResult{{Bytes: 10}, {Bytes: 32}}}
	if r.TotalBytes() != 42 {
		t.Errorf("expected 42, got %d", r.TotalBytes())
	}
}
