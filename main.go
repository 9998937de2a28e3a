// ABOUTME: Entry point for video-marker application
// ABOUTME: Handles command-line parsing, config loading, and routing to diagnostics or TUI modes

// Package main provides the entry point for video-marker, a terminal tool for marking moments in a video.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"video-marker/config"
	"video-marker/player"
	"video-marker/tui"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	if opts.Debug {
		if err := SetupDebugLog(debugLogFile); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	if opts.WriteConfig {
		if err := writeDefaultConfig(os.Stdout, opts); err != nil {
			log.Printf("Error: %v", err)

			return 1
		}

		return 0
	}

	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		// Keep going with defaults; a broken config should not cost a session
		log.Printf("Warning: %v (using defaults)", err)

		cfg = config.DefaultConfig()
	}

	cfg = opts.apply(cfg)

	logger.WithField("config", opts.ConfigPath).Debugf("Effective config: %+v", cfg)

	if opts.Check {
		return RunCheck(os.Stdout, opts, cfg)
	}

	transport, closeTransport := startTransport(opts.Player, cfg)
	defer closeTransport()

	result, err := tui.Run(tui.Options{
		VideoPath:   opts.VideoPath,
		OutputPath:  opts.OutputPath,
		MinGapFixed: opts.MinGapSet,
		Config:      cfg,
		ConfigPath:  opts.ConfigPath,
	}, newDependencies(transport))

	// Marks can be saved even when the TUI itself failed
	if result.Saved > 0 {
		fmt.Printf("Successfully saved %d marks!\n", result.Saved)
		fmt.Printf("Location: %s\n", result.OutputPath)
	}

	if err != nil {
		log.Printf("Error: %v", err)

		return 1
	}

	return 0
}

// startTransport starts the configured player, falling back to the null
// transport when mpv is unavailable
func startTransport(kind string, cfg config.Config) (tui.Transport, func()) {
	if kind == playerNone {
		logger.Debug("Player disabled, using null transport")

		return player.NewNull(), func() {}
	}

	// mpv stderr goes to the debug log
	stderr := logger.WriterLevel(logrus.DebugLevel)

	mpv, err := player.StartMPV(context.Background(), player.MPVOptions{
		Binary:       cfg.PlayerPath,
		Args:         cfg.PlayerArgs,
		StartTimeout: time.Duration(cfg.StartTimeoutMS) * time.Millisecond,
		Stderr:       stderr,
	})
	if err != nil {
		_ = stderr.Close()

		log.Printf("Warning: video player unavailable (%v); marks will use an internal clock", err)
		logger.WithError(err).Warn("Falling back to null transport")

		return player.NewNull(), func() {}
	}

	logger.WithField("socket", mpv.SocketPath()).Debug("mpv started")

	return mpv, func() {
		if err := mpv.Close(); err != nil {
			logger.WithError(err).Debug("mpv close")
		}

		_ = stderr.Close()
	}
}
