// ABOUTME: Shared initialization code for all modes (TUI, diagnostics)
// ABOUTME: Provides flag parsing, config merging, and debug logging setup

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"video-marker/config"
)

const (
	debugLogFile = "video-marker-debug.log"

	playerMPV  = "mpv"
	playerNone = "none"
)

var (
	// logger writes to the debug log; discarded unless -debug is set
	logger = newDiscardLogger()

	// sessionID tags every log entry of one run
	sessionID = uuid.NewString()

	// flagOutput receives usage and flag errors
	flagOutput io.Writer = os.Stderr
)

// RunOptions contains command-line options for all modes
type RunOptions struct {
	VideoPath   string
	OutputPath  string
	MinGapMS    int64
	MinGapSet   bool // -mingap given explicitly
	Player      string
	Check       bool
	Debug       bool
	ConfigPath  string
	WriteConfig bool // Write a starter config file and exit
}

// parseFlags parses args into RunOptions. The video may be given with
// -video or as the first positional argument.
func parseFlags(args []string) (RunOptions, error) {
	fs := flag.NewFlagSet("video-marker", flag.ContinueOnError)
	fs.SetOutput(flagOutput)

	var opts RunOptions

	fs.StringVar(&opts.VideoPath, "video", "", "video file to open on start")
	fs.StringVar(&opts.OutputPath, "out", "", "CSV file for marks (default: dated file on the desktop)")
	fs.Int64Var(&opts.MinGapMS, "mingap", 0, "minimum ms between marks (default from config, 250)")
	fs.StringVar(&opts.Player, "player", playerMPV, "video player: mpv or none")
	fs.BoolVar(&opts.Check, "check", false, "print player and environment diagnostics, then exit")
	fs.BoolVar(&opts.Debug, "debug", false, "enable debug logging to "+debugLogFile)
	fs.BoolVar(&opts.WriteConfig, "write-config", false, "write a config file with default settings to the -config path, then exit")
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default: ./video-marker.toml or ~/.config/video-marker/config.toml)")

	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: video-marker [flags] [video]")
		fmt.Fprintln(out, "Example: video-marker -mingap 500 ~/Videos/interview.mp4")
		fmt.Fprintln(out, "\nFlags:")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return RunOptions{}, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "mingap" {
			opts.MinGapSet = true
		}
	})

	rest := fs.Args()
	if opts.VideoPath == "" && len(rest) > 0 {
		opts.VideoPath = rest[0]
		rest = rest[1:]
	}

	if len(rest) > 0 {
		err := fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
		fmt.Fprintln(fs.Output(), err)
		fs.Usage()

		return RunOptions{}, err
	}

	if opts.Player != playerMPV && opts.Player != playerNone {
		err := fmt.Errorf("invalid -player %q: want %s or %s", opts.Player, playerMPV, playerNone)
		fmt.Fprintln(fs.Output(), err)

		return RunOptions{}, err
	}

	if opts.MinGapSet && opts.MinGapMS < 0 {
		err := errors.New("-mingap must not be negative")
		fmt.Fprintln(fs.Output(), err)

		return RunOptions{}, err
	}

	if opts.ConfigPath == "" {
		opts.ConfigPath = config.GetConfigPath()
	}

	return opts, nil
}

// apply overlays command-line settings on cfg
func (o RunOptions) apply(cfg config.Config) config.Config {
	if o.MinGapSet {
		cfg.MinGapMS = o.MinGapMS
	}

	return cfg
}

// writeDefaultConfig creates a config file to edit; the running TUI picks up
// later edits. Existing files are left alone.
func writeDefaultConfig(w io.Writer, opts RunOptions) error {
	if _, err := os.Stat(opts.ConfigPath); err == nil {
		return fmt.Errorf("config file %s already exists", opts.ConfigPath)
	}

	if err := config.SaveConfig(opts.ConfigPath, opts.apply(config.DefaultConfig())); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote default config to %s\n", opts.ConfigPath)

	return nil
}

func newDiscardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	fileInfo, _ := os.Stdout.Stat()
	if fileInfo != nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog points the logger at filename with debug level enabled
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	logger = logrus.New()
	logger.SetOutput(f)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
		DisableColors:   true,
	})
	logger.SetLevel(logrus.DebugLevel)

	logger.WithField("session", sessionID).Info("Debug session started")

	return nil
}
