// Package main provides the CLI entry point for gifcut.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/gifcut/pkg/adapters/logger"
	"github.com/user/gifcut/pkg/config"
	"github.com/user/gifcut/pkg/gifcut"
	"github.com/user/gifcut/pkg/pipeline"
	"github.com/user/gifcut/pkg/ports"
)

var version = "dev"

// Flag categories
const (
	catInput        = "Input and Output"
	catSegmentation = "Segmentation"
	catAnimation    = "Animation"
	catExecution    = "Execution"
	catDebug        = "Debug"
	catLogging      = "Logging"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:      "gifcut",
		Usage:     l10n.T("Split a video into one animated GIF per scene"),
		UsageText: "gifcut [options] [video]",
		Description: l10n.T("gifcut compares consecutive frames and starts a new GIF " +
			"whenever the picture changes by more than the threshold."),
		Version:         version,
		HideHelpCommand: true,
		Flags:           flags(),
		Action:          runCut,
		Commands: []*cli.Command{
			{
				Name:  "version",
				Usage: l10n.T("Show version information"),
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, l10n.F("gifcut version %s", version))
					return nil
				},
			},
		},
	}
}

func flags() []cli.Flag {
	d := config.Defaults()
	return []cli.Flag{
		// Input and output
		&cli.StringFlag{
			Name:     "filepath",
			Aliases:  []string{"f"},
			Usage:    l10n.T("Video file to split (may also be given as an argument)"),
			Category: l10n.T(catInput),
		},
		&cli.StringFlag{
			Name:     "output-dir",
			Aliases:  []string{"o"},
			Value:    d.OutputDir,
			Usage:    l10n.T("Directory for the generated GIFs"),
			Category: l10n.T(catInput),
		},
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file (flags override its values)"),
			Category: l10n.T(catInput),
		},
		&cli.StringFlag{
			Name:     "summary",
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T(catInput),
		},

		// Segmentation
		&cli.Float64Flag{
			Name:     "threshold",
			Aliases:  []string{"t"},
			Value:    d.Threshold,
			Usage:    l10n.T("Percentage of changed pixels that marks a scene cut (0-100)"),
			Category: l10n.T(catSegmentation),
		},
		&cli.IntFlag{
			Name:     "min-length",
			Aliases:  []string{"m"},
			Value:    d.MinSegmentLength,
			Usage:    l10n.T("Frames a scene must exceed before a cut is accepted"),
			Category: l10n.T(catSegmentation),
		},
		&cli.StringFlag{
			Name:     "trailing",
			Value:    d.Trailing,
			Usage:    l10n.T("What to do with the last scene (discard, emit)"),
			Category: l10n.T(catSegmentation),
		},
		&cli.BoolFlag{
			Name:     "printdiff",
			Usage:    l10n.T("Print the difference between every pair of frames"),
			Category: l10n.T(catSegmentation),
		},

		// Animation
		&cli.IntFlag{
			Name:     "width",
			Aliases:  []string{"W"},
			Value:    d.Width,
			Usage:    l10n.T("Output GIF width"),
			Category: l10n.T(catAnimation),
		},
		&cli.IntFlag{
			Name:     "height",
			Aliases:  []string{"H"},
			Value:    d.Height,
			Usage:    l10n.T("Output GIF height"),
			Category: l10n.T(catAnimation),
		},
		&cli.IntFlag{
			Name:     "delay",
			Value:    d.FrameDelay,
			Usage:    l10n.T("Frame delay in hundredths of a second"),
			Category: l10n.T(catAnimation),
		},
		&cli.IntFlag{
			Name:     "loop",
			Value:    d.LoopCount,
			Usage:    l10n.T("Loop count (0 = forever, -1 = play once)"),
			Category: l10n.T(catAnimation),
		},
		&cli.StringFlag{
			Name:     "encoder",
			Aliases:  []string{"e"},
			Value:    d.Encoder,
			Usage:    l10n.T("GIF encoder (gif, ffmpeg, auto)"),
			Category: l10n.T(catAnimation),
		},
		&cli.BoolFlag{
			Name:     "no-dither",
			Usage:    l10n.T("Disable Floyd-Steinberg dithering"),
			Category: l10n.T(catAnimation),
		},

		// Execution
		&cli.IntFlag{
			Name:     "workers",
			Aliases:  []string{"j"},
			Value:    d.Workers,
			Usage:    l10n.T("Number of GIFs written concurrently"),
			Category: l10n.T(catExecution),
		},
		&cli.StringFlag{
			Name:     "ffmpeg-path",
			Usage:    l10n.T("Path to ffmpeg executable (falls back to FFMPEG_PATH env, then PATH)"),
			EnvVars:  []string{"GIFCUT_FFMPEG_PATH"},
			Category: l10n.T(catExecution),
		},

		// Debug
		&cli.BoolFlag{
			Name:     "debug",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Enable debug output"),
			Category: l10n.T(catDebug),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Value:    d.DebugDir,
			Usage:    l10n.T("Directory for debug output"),
			Category: l10n.T(catDebug),
		},

		// Logging
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    d.LogLevel,
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T(catLogging),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T(catLogging),
		},
	}
}

// runCut is the root action.
func runCut(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if cfg.Input == "" {
		cli.ShowAppHelp(c)
		return cli.Exit(l10n.T("A video file is required"), 1)
	}

	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	p, err := gifcut.NewWithDependencies(cfg, gifcut.Dependencies{
		Translate: l10n.T,
		Version:   version,
	}, log)
	if err != nil {
		log.Error("%s", err)
		return exitError(c, err)
	}

	log.Info("Splitting %s (threshold %.2f%%, minimum %d frames)...",
		cfg.Input, cfg.Threshold, cfg.MinSegmentLength)

	result, err := p.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return cli.Exit(l10n.T("Interrupted"), 130)
		}
		return exitError(c, err)
	}

	log.Info("Output saved to %s (%d GIFs)", cfg.OutputDir, len(result.Segments))
	return nil
}

// exitError exits non-zero. The logger has already reported err unless it is silenced.
func exitError(c *cli.Context, err error) error {
	if c.Bool("quiet") {
		return cli.Exit(err.Error(), 1)
	}
	return cli.Exit("", 1)
}

// buildConfig layers defaults, the optional YAML file and explicitly set flags.
func buildConfig(c *cli.Context) (config.Config, error) {
	base := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return base, err
		}
		base = loaded
	}

	b := gifcut.FromConfig(base)

	switch {
	case c.IsSet("filepath"):
		b.WithInput(c.String("filepath"))
	case c.Args().Present():
		b.WithInput(c.Args().First())
	}
	if c.Args().Len() > 1 {
		return base, fmt.Errorf("%w: unexpected arguments %v", pipeline.ErrConfig, c.Args().Tail())
	}

	if c.IsSet("output-dir") {
		b.WithOutputDir(c.String("output-dir"))
	}
	if c.IsSet("summary") {
		b.WithSummary(c.String("summary"))
	}
	if c.IsSet("threshold") {
		b.WithThreshold(c.Float64("threshold"))
	}
	if c.IsSet("min-length") {
		b.WithMinSegmentLength(c.Int("min-length"))
	}
	if c.IsSet("trailing") {
		b.WithTrailing(c.String("trailing"))
	}
	if c.IsSet("printdiff") {
		b.WithPrintDiff(c.Bool("printdiff"))
	}
	if c.IsSet("width") || c.IsSet("height") {
		w, h := base.Width, base.Height
		if c.IsSet("width") {
			w = c.Int("width")
		}
		if c.IsSet("height") {
			h = c.Int("height")
		}
		b.WithSize(w, h)
	}
	if c.IsSet("delay") {
		b.WithFrameDelay(c.Int("delay"))
	}
	if c.IsSet("loop") {
		b.WithLoopCount(c.Int("loop"))
	}
	if c.IsSet("encoder") {
		b.WithEncoder(c.String("encoder"))
	}
	if c.Bool("no-dither") {
		b.WithDither(false)
	}
	if c.IsSet("workers") {
		b.WithWorkers(c.Int("workers"))
	}
	if c.IsSet("ffmpeg-path") {
		b.WithFFmpegPath(c.String("ffmpeg-path"))
	}
	if c.Bool("debug") {
		b.WithDebug(c.String("debug-dir"))
	} else if c.IsSet("debug-dir") {
		b.WithDebug(c.String("debug-dir"))
	}
	if c.IsSet("log-level") {
		b.WithLogLevel(c.String("log-level"))
	}

	return b.Build(), nil
}
