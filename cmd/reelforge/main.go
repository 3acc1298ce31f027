// Command reelforge coordinates batch rendering of animation scenes by an
// external engine and stitches the results into one video.
//
// It parses flags, validates configuration, and dispatches one of four
// subcommands: render (parallel per-scene engine processes), stitch
// (stream-copy concatenation), subtitles (combined SRT track), and check
// (system diagnostics). Structured results are emitted as JSON on stdout;
// all logging goes to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/reelforge/reelforge/internal/check"
	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/display"
	"github.com/reelforge/reelforge/internal/logging"
	"github.com/reelforge/reelforge/internal/paths"
	"github.com/reelforge/reelforge/internal/probe"
	"github.com/reelforge/reelforge/internal/render"
	"github.com/reelforge/reelforge/internal/report"
	"github.com/reelforge/reelforge/internal/stitch"
	"github.com/reelforge/reelforge/internal/subtitle"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger.
	cfg := config.Default()
	if err := config.ParseFlags(&cfg, os.Args[1:], version); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reelforge: %v\n", err)
		return 1
	}
	defer log.Close()

	if cfg.Command == config.CmdCheck {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Fail fast if the binaries this subcommand spawns are unavailable.
	if err := check.Preflight(&cfg, cfg.Command); err != nil {
		log.Error("%v", err)
		return 1
	}

	// Each invocation gets a fresh run scope unless the caller is retrying
	// failed scenes under an existing one.
	if cfg.RunID == "" {
		cfg.RunID = paths.NewRunID()
	}

	// Phase 2: Signal handling — cancel the context on SIGINT/SIGTERM so
	// running engine processes are terminated and their outcomes reported
	// as cancelled instead of leaving orphans behind.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, terminating running jobs…")
		cancel()
	}()

	log.Debug("reelforge v%s (%s), run %s", version, commit, cfg.RunID)

	switch cfg.Command {
	case config.CmdRender:
		return runRender(ctx, &cfg, log)
	case config.CmdStitch:
		return runStitch(ctx, &cfg, log)
	case config.CmdSubtitles:
		return runSubtitles(ctx, &cfg, log)
	}
	return 1
}

// runRender fans the request out to one engine process per scene, emits the
// batch report on stdout, and always exits zero once the batch has run:
// per-scene failures are data in the report, not a process-level failure.
func runRender(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	req := render.Request{
		ScriptPath: cfg.ScriptPath,
		Scenes:     cfg.Scenes,
		Quality:    cfg.Quality,
		RunID:      cfg.RunID,
	}
	if err := req.Validate(); err != nil {
		log.Error("%v", err)
		return 1
	}

	log.Info("Run %s: rendering %d scene(s) at %s quality", cfg.RunID, len(req.Scenes), cfg.Quality)
	if cfg.MaxJobs > 0 {
		log.Info("Concurrency cap: %d engine processes", cfg.MaxJobs)
	}

	start := time.Now()
	outcomes := render.Run(ctx, cfg, log, req)
	elapsed := time.Since(start)

	batch := report.Build(cfg.RunID, paths.RunDir(cfg.OutputRoot, cfg.RunID), outcomes, elapsed)
	if err := batch.Write(os.Stdout); err != nil {
		log.Error("cannot write report: %v", err)
		return 1
	}

	logRenderSummary(log, &batch, outcomes, elapsed)
	return 0
}

func logRenderSummary(log *logging.Logger, batch *report.Batch, outcomes []render.Outcome, elapsed time.Duration) {
	var outBytes int64
	for _, o := range outcomes {
		if o.Status != render.StatusSuccess {
			continue
		}
		if fi, err := os.Stat(o.VideoPath); err == nil {
			outBytes += fi.Size()
		}
	}

	succeeded := batch.Succeeded()
	switch batch.Status {
	case report.StatusSuccess:
		log.Success("Rendered %d/%d scenes in %s (%s of video)",
			succeeded, len(outcomes), display.FormatDuration(elapsed), display.FormatBytes(outBytes))
	case report.StatusPartial:
		log.Warn("Partial: %d/%d scenes rendered; resubmit the failed scenes with --run-id %s",
			succeeded, len(outcomes), batch.RunID)
	default:
		log.Error("All %d scene(s) failed in %s", len(outcomes), display.FormatDuration(elapsed))
	}
}

// runStitch validates the inputs before the muxer is ever invoked, then
// performs the single stream-copy concatenation. Validation failures exit
// non-zero; a muxer failure is reported inside the JSON payload.
func runStitch(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	if err := stitch.Validate(cfg.Videos); err != nil {
		log.Error("%v", err)
		return 1
	}

	req := stitch.Request{
		Videos: cfg.Videos,
		Output: paths.StitchOutput(cfg.OutputRoot, cfg.RunID, cfg.StitchOutput),
	}
	res := stitch.Run(ctx, cfg, log, req)
	if err := res.Write(os.Stdout); err != nil {
		log.Error("cannot write result: %v", err)
		return 1
	}
	return 0
}

// runSubtitles concatenates the sibling SRT tracks of the videos listed in
// the ordering manifest, shifting cues by each video's probed duration.
func runSubtitles(ctx context.Context, cfg *config.Config, log *logging.Logger) int {
	out := cfg.SubsOutput
	if out == "" {
		out = filepath.Join(filepath.Dir(cfg.OrderFile), "final.srt")
	}

	durFn := func(ctx context.Context, path string) (float64, error) {
		return probe.Duration(ctx, cfg.ProberBin, path)
	}

	cues, err := subtitle.Concat(ctx, cfg.OrderFile, out, durFn)
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	log.Success("Wrote %d cue(s) to %s", cues, out)

	res := struct {
		Status string `json:"status"`
		Output string `json:"output"`
		Cues   int    `json:"cues"`
	}{"success", out, cues}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Error("cannot write result: %v", err)
		return 1
	}
	return 0
}
