// luna-display drives a 128x64 SSD1306 OLED attached to a single-board
// computer, continuously showing host status (IP address, CPU/RAM load)
// and a rotating short message from a local language-model service.
//
// Usage:
//
//	luna-display [flags]
//
// Flags:
//
//	-config string   Path to configuration file (default: ~/.config/luna-display/config.yaml)
//	-oneshot         Render a single frame to stdout and exit
//	-preview         Mirror frames in a terminal preview instead of the OLED
//	-verbose         Enable verbose logging
//	-version         Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/luna-display/config"
	"gitlab.com/tinyland/lab/luna-display/display"
	"gitlab.com/tinyland/lab/luna-display/internal/format"
	"gitlab.com/tinyland/lab/luna-display/message"
	"gitlab.com/tinyland/lab/luna-display/metrics"
	"gitlab.com/tinyland/lab/luna-display/render"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/luna-display/config.yaml)")
		runOneshot  = flag.Bool("oneshot", false, "Render a single frame to stdout and exit")
		runPreview  = flag.Bool("preview", false, "Mirror frames in a terminal preview instead of the OLED")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("luna-display %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	sampler := metrics.NewSampler(logger)
	client := message.NewAPIClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Timeout(), logger)
	scheduler := message.NewScheduler(client, logger)
	scheduler.SetInterval(cfg.RefreshInterval())

	logger.Info("starting luna-display",
		"version", version,
		"model", cfg.Ollama.Model,
		"host_uptime", format.Duration(metrics.Uptime()),
	)

	// ---------------------------------------------------------------
	// Oneshot mode: one cycle to stdout, no hardware
	// ---------------------------------------------------------------

	if *runOneshot {
		loop := NewLoop(sampler, scheduler, stdoutSink{w: os.Stdout}, cfg.TickInterval(), logger)
		loop.Step(ctx)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Preview mode: terminal mirror, no hardware
	// ---------------------------------------------------------------

	if *runPreview {
		if !term.IsTerminal(os.Stdout.Fd()) {
			fmt.Fprintln(os.Stderr, "preview mode requires a terminal")
			os.Exit(1)
		}

		preview := display.NewPreview()
		loop := NewLoop(sampler, scheduler, preview, cfg.TickInterval(), logger)

		go func() {
			if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("display loop", "error", err)
			}
			preview.Quit()
		}()

		if err := preview.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "preview error: %v\n", err)
			os.Exit(1)
		}
		cancel()
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Default: drive the OLED
	// ---------------------------------------------------------------

	oled, err := display.OpenOLED(cfg.Display.I2CBus, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "display init failed: %v\n", err)
		os.Exit(1)
	}
	defer oled.Close()

	if cfg.Display.SplashPath != "" {
		if img, err := display.LoadSplash(cfg.Display.SplashPath); err != nil {
			logger.Warn("splash skipped", "error", err)
		} else if err := oled.ShowImage(img); err != nil {
			logger.Warn("splash draw failed", "error", err)
		}
	}

	if err := NewLoop(sampler, scheduler, oled, cfg.TickInterval(), logger).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "display loop error: %v\n", err)
		os.Exit(1)
	}
}

// stdoutSink prints frames as text, one positioned line each, for the
// oneshot mode.
type stdoutSink struct {
	w *os.File
}

func (s stdoutSink) Push(f render.Frame) error {
	for _, line := range f {
		if _, err := fmt.Fprintf(s.w, "%3d,%3d  %s\n", line.X, line.Y, line.Text); err != nil {
			return err
		}
	}
	return nil
}
