package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/user/gifcut/pkg/config"
)

// parse runs the app with args and returns the config built by the root action.
func parse(t *testing.T, args ...string) config.Config {
	t.Helper()
	var got config.Config
	app := newApp()
	app.Action = func(c *cli.Context) error {
		cfg, err := buildConfig(c)
		if err != nil {
			return err
		}
		got = cfg
		return nil
	}
	if err := app.Run(append([]string{"gifcut"}, args...)); err != nil {
		t.Fatalf("Run(%v) failed: %v", args, err)
	}
	return got
}

func TestBuildConfig_Defaults(t *testing.T) {
	cfg := parse(t, "clip.mp4")

	want := config.Defaults()
	want.Input = "clip.mp4"
	if cfg != want {
		t.Errorf("unexpected config\n got: %+v\nwant: %+v", cfg, want)
	}
}

func TestBuildConfig_Flags(t *testing.T) {
	cfg := parse(t,
		"--filepath", "talk.mov",
		"-t", "40",
		"--min-length", "10",
		"--printdiff",
		"--trailing", "emit",
		"-W", "320",
		"--delay", "5",
		"--no-dither",
		"-e", "auto",
		"-j", "4",
		"-o", "out",
		"--debug",
	)

	if cfg.Input != "talk.mov" {
		t.Errorf("expected input talk.mov, got %q", cfg.Input)
	}
	if cfg.Threshold != 40 || cfg.MinSegmentLength != 10 || !cfg.PrintDiff {
		t.Errorf("unexpected segmentation settings %+v", cfg)
	}
	if cfg.Trailing != "emit" {
		t.Errorf("expected trailing emit, got %q", cfg.Trailing)
	}
	if cfg.Width != 320 || cfg.Height != 270 {
		t.Errorf("expected 320x270, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FrameDelay != 5 || cfg.Dither || cfg.Encoder != "auto" {
		t.Errorf("unexpected animation settings %+v", cfg)
	}
	if cfg.Workers != 4 || cfg.OutputDir != "out" {
		t.Errorf("unexpected execution settings %+v", cfg)
	}
	if !cfg.Debug || cfg.DebugDir != config.Defaults().DebugDir {
		t.Errorf("expected debug in default dir, got %v %q", cfg.Debug, cfg.DebugDir)
	}
}

func TestBuildConfig_FileThenFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gifcut.yaml")
	yaml := "input: from-file.mp4\nthreshold: 30\nwidth: 640\nheight: 360\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := parse(t, "--config", path, "-t", "55")

	if cfg.Input != "from-file.mp4" {
		t.Errorf("expected input from file, got %q", cfg.Input)
	}
	if cfg.Threshold != 55 {
		t.Errorf("expected flag to override threshold, got %f", cfg.Threshold)
	}
	if cfg.Width != 640 || cfg.Height != 360 {
		t.Errorf("expected size from file, got %dx%d", cfg.Width, cfg.Height)
	}
}
