// ABOUTME: Diagnostics mode for checking the player and output setup
// ABOUTME: Prints a table of environment, mpv and output path checks for the -check flag

package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/tabwriter"
	"time"

	"video-marker/config"
	"video-marker/marks"
	"video-marker/player"
)

const checkTimeout = 10 * time.Second

// checkResult is one line of the diagnostics table
type checkResult struct {
	name   string
	status string
	detail string
}

// checkReport collects diagnostics lines
type checkReport struct {
	results []checkResult
	failed  bool
}

func (r *checkReport) ok(name, detail string) {
	r.results = append(r.results, checkResult{name: name, status: "OK", detail: detail})
}

func (r *checkReport) info(name, detail string) {
	r.results = append(r.results, checkResult{name: name, status: "-", detail: detail})
}

func (r *checkReport) fail(name string, err error) {
	r.failed = true
	r.results = append(r.results, checkResult{name: name, status: "FAIL", detail: err.Error()})
}

func (r *checkReport) warn(name string, err error) {
	r.results = append(r.results, checkResult{name: name, status: "WARN", detail: err.Error()})
}

// RunCheck prints diagnostics to w and returns the process exit code
func RunCheck(w io.Writer, opts RunOptions, cfg config.Config) int {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	report := &checkReport{}

	report.info("Platform", runtime.GOOS+"/"+runtime.GOARCH)

	if exe, err := os.Executable(); err == nil {
		report.info("Executable dir", filepath.Dir(exe))
	}

	report.info("Config", opts.ConfigPath)

	if opts.Player == playerNone {
		report.info("Player", "disabled (-player none)")
	} else {
		checkPlayer(ctx, report, opts, cfg)
	}

	output := opts.OutputPath
	if output == "" {
		output = resolveOutput(opts.VideoPath, cfg)
	}

	dir := filepath.Dir(output)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		report.ok("Output", output)
	} else {
		report.info("Output", output+" (directory will be created)")
	}

	writeReport(w, report)

	if report.failed {
		return 1
	}

	return 0
}

// checkPlayer locates mpv, starts an IPC session and optionally loads the video
func checkPlayer(ctx context.Context, report *checkReport, opts RunOptions, cfg config.Config) {
	binary, err := player.LocateBinary(cfg.PlayerPath)
	if err != nil {
		report.fail("mpv binary", err)
		return
	}

	report.ok("mpv binary", binary)

	if version, err := binaryVersion(ctx, binary); err != nil {
		report.warn("mpv --version", err)
	} else {
		report.ok("mpv --version", version)
	}

	// The check session stays hidden
	args := append([]string{"--force-window=no", "--vo=null", "--ao=null"}, cfg.PlayerArgs...)

	mpv, err := player.StartMPV(ctx, player.MPVOptions{
		Binary:       binary,
		Args:         args,
		StartTimeout: time.Duration(cfg.StartTimeoutMS) * time.Millisecond,
	})
	if err != nil {
		report.fail("IPC session", err)
		return
	}

	defer func() {
		if err := mpv.Close(); err != nil {
			logger.WithError(err).Debug("mpv close after check")
		}
	}()

	version, err := mpv.Version(ctx)
	if err != nil {
		report.fail("IPC session", err)
		return
	}

	report.ok("IPC session", "mpv-version "+version)

	if opts.VideoPath == "" {
		return
	}

	if err := mpv.Load(ctx, opts.VideoPath); err != nil {
		report.fail("Load video", err)
		return
	}

	duration, err := waitForDuration(ctx, mpv)
	if err != nil {
		report.warn("Load video", fmt.Errorf("%s loaded, duration unknown: %w", opts.VideoPath, err))
		return
	}

	report.ok("Load video", fmt.Sprintf("%s (%s)", opts.VideoPath, marks.FormatClock(duration)))
}

// waitForDuration polls until mpv reports a duration for the loaded file
func waitForDuration(ctx context.Context, mpv *player.MPV) (int64, error) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		d, err := mpv.Duration(ctx)
		if err == nil && d > 0 {
			return d, nil
		}

		select {
		case <-ctx.Done():
			if err == nil {
				err = ctx.Err()
			}

			return 0, err
		case <-ticker.C:
		}
	}
}

// binaryVersion returns the first line of `mpv --version`
func binaryVersion(ctx context.Context, binary string) (string, error) {
	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("failed to run %s --version: %w", binary, err)
	}

	sc := bufio.NewScanner(bytes.NewReader(out))
	if sc.Scan() {
		return sc.Text(), nil
	}

	return "", fmt.Errorf("%s --version printed nothing", binary)
}

// writeReport renders the diagnostics table
func writeReport(w io.Writer, report *checkReport) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Check\tStatus\tDetail")
	fmt.Fprintln(tw, "-----\t------\t------")

	for _, r := range report.results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.name, r.status, r.detail)
	}

	if err := tw.Flush(); err != nil {
		logger.WithError(err).Warn("Failed to flush diagnostics table")
	}

	if report.failed {
		fmt.Fprintln(w, "\nThe video player is not usable. Install mpv or set "+player.BinaryEnvVar+", or run with -player none.")
	}
}
