// Package integration contains integration tests for the gifcut pipeline.
package integration

import (
	"context"
	"image/gif"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/user/gifcut/pkg/adapters/ffmpeg"
	"github.com/user/gifcut/pkg/adapters/gifencoder"
	"github.com/user/gifcut/pkg/adapters/logger"
	"github.com/user/gifcut/pkg/adapters/osfilesystem"
	"github.com/user/gifcut/pkg/gifcut"
	"github.com/user/gifcut/pkg/mocks"
	"github.com/user/gifcut/pkg/pixbuf"
	"github.com/user/gifcut/pkg/ports"
)

// scenes returns frames made of runs of solid shades, one run per entry in lengths.
func scenes(lengths ...int) []pixbuf.Buffer {
	var frames []pixbuf.Buffer
	for i, n := range lengths {
		shade := byte(i%2) * 200
		for j := 0; j < n; j++ {
			frames = append(frames, pixbuf.Filled(64, 36, pixbuf.BGR, shade, shade, shade))
		}
	}
	return frames
}

func decodeGIF(t *testing.T, path string) *gif.GIF {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	g, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return g
}

// TestSegmentsToGIFFiles runs in-memory frames through the real encoder and file system.
func TestSegmentsToGIFFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "clip.mp4")
	if err := os.WriteFile(input, []byte("placeholder"), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(dir, "gifs")

	cfg := gifcut.NewConfigBuilder().
		WithInput(input).
		WithOutputDir(outDir).
		WithSize(80, 45).
		WithTrailing("emit").
		WithWorkers(2).
		WithSummary(filepath.Join(dir, "summary.md")).
		Build()

	p, err := gifcut.NewWithDependencies(cfg, gifcut.Dependencies{
		Source:     mocks.NewFrameSource(scenes(30, 40)...),
		NewEncoder: func() ports.AnimationEncoder { return gifencoder.New() },
		FileSystem: osfilesystem.New(),
	}, logger.NewNoop())
	if err != nil {
		t.Fatalf("NewWithDependencies failed: %v", err)
	}

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}

	want := []struct {
		name   string
		frames int
	}{
		{"gif [from 1 to 30].gif", 30},
		{"gif [from 31 to 70].gif", 40},
	}
	for i, w := range want {
		path := filepath.Join(outDir, w.name)
		if result.Segments[i].Path != path {
			t.Errorf("segment %d: expected path %q, got %q", i, path, result.Segments[i].Path)
		}

		g := decodeGIF(t, path)
		if len(g.Image) != w.frames {
			t.Errorf("%s: expected %d frames, got %d", w.name, w.frames, len(g.Image))
		}
		if g.Config.Width != 80 || g.Config.Height != 45 {
			t.Errorf("%s: expected 80x45, got %dx%d", w.name, g.Config.Width, g.Config.Height)
		}
		for j, d := range g.Delay {
			if d != 10 {
				t.Errorf("%s: frame %d delay %d, want 10", w.name, j, d)
				break
			}
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() != result.Segments[i].Bytes {
			t.Errorf("%s: recorded %d bytes, file has %d", w.name, result.Segments[i].Bytes, info.Size())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "summary.md")); err != nil {
		t.Errorf("expected summary file: %v", err)
	}
}

// makeTestVideo renders a black scene followed by a white scene with ffmpeg.
func makeTestVideo(t *testing.T, path string, framesPerScene int) {
	t.Helper()
	bin, err := ffmpeg.FindFFmpeg()
	if err != nil {
		t.Skip("ffmpeg not available")
	}
	seconds := strconv.FormatFloat(float64(framesPerScene)/25, 'f', -1, 64)
	cmd := exec.Command(bin,
		"-y", "-v", "error",
		"-f", "lavfi", "-i", "color=c=black:s=96x54:r=25:d="+seconds,
		"-f", "lavfi", "-i", "color=c=white:s=96x54:r=25:d="+seconds,
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1[v]",
		"-map", "[v]",
		"-c:v", "mpeg4", "-q:v", "2",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not create test video: %v\n%s", err, out)
	}
}

// TestEndToEndWithFFmpeg decodes a generated video and checks the cut.
func TestEndToEndWithFFmpeg(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping ffmpeg test in short mode")
	}
	if !ffmpeg.IsAvailable() {
		t.Skip("ffmpeg not available")
	}

	for _, encoder := range []string{"gif", "ffmpeg"} {
		t.Run(encoder, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "scenes.mp4")
			makeTestVideo(t, input, 40)

			cfg := gifcut.NewConfigBuilder().
				WithInput(input).
				WithOutputDir(filepath.Join(dir, "gifs")).
				WithSize(64, 36).
				WithEncoder(encoder).
				WithTrailing("emit").
				WithDebug(filepath.Join(dir, "debug")).
				Build()

			result, err := gifcut.Run(context.Background(), cfg, logger.NewNoop())
			if err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			if result.Video.Width != 96 || result.Video.Height != 54 {
				t.Errorf("expected 96x54 source, got %dx%d", result.Video.Width, result.Video.Height)
			}
			if len(result.Segments) != 2 {
				t.Fatalf("expected 2 segments, got %d", len(result.Segments))
			}

			first, second := result.Segments[0], result.Segments[1]
			if first.FirstIndex != 1 {
				t.Errorf("expected first segment to start at 1, got %d", first.FirstIndex)
			}
			if second.FirstIndex != first.LastIndex+1 {
				t.Errorf("expected contiguous segments, got %d-%d then %d-%d",
					first.FirstIndex, first.LastIndex, second.FirstIndex, second.LastIndex)
			}
			if first.FrameCount+second.FrameCount != result.FramesRead {
				t.Errorf("expected all %d frames to be written, got %d",
					result.FramesRead, first.FrameCount+second.FrameCount)
			}

			for _, seg := range result.Segments {
				g := decodeGIF(t, seg.Path)
				if g.Config.Width != 64 || g.Config.Height != 36 {
					t.Errorf("%s: expected 64x36, got %dx%d", seg.Path, g.Config.Width, g.Config.Height)
				}
			}

			if _, err := os.Stat(filepath.Join(dir, "debug", "differences.json")); err != nil {
				t.Errorf("expected differences.json: %v", err)
			}
		})
	}
}
