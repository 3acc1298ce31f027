// Package render fans a batch of scene renders out to concurrent engine
// processes and captures one isolated outcome per scene.
package render

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/logging"
	"github.com/reelforge/reelforge/internal/paths"
)

// Run expands req into one job per scene and executes all jobs concurrently,
// one external engine process each. It blocks until every job reaches a
// terminal outcome and returns the outcomes in requested order, regardless
// of completion order.
//
// Jobs are fully isolated: each goroutine owns only its own process handle,
// output buffer, and pre-assigned slot in the outcome slice. A crash or
// non-zero exit in one job never disturbs its siblings; such failures come
// back as data (Status "error"), not as errors. The runner never retries:
// callers resubmit failed scene names under the same run identifier and the
// deterministic resolver yields the same paths.
//
// cfg.MaxJobs > 0 caps the number of simultaneously running engine
// processes; 0 launches everything at once.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, req Request) []Outcome {
	mediaDir := paths.MediaDir(cfg.OutputRoot, req.RunID)
	outcomes := make([]Outcome, len(req.Scenes))

	if err := os.MkdirAll(mediaDir, 0o755); err != nil {
		// Without the media directory no job can succeed; fail the batch
		// uniformly rather than spawning doomed processes.
		for i, scene := range req.Scenes {
			outcomes[i] = Outcome{
				Scene:  scene,
				Status: StatusError,
				Output: fmt.Sprintf("cannot create media directory: %v", err),
			}
		}
		return outcomes
	}

	var g errgroup.Group
	if cfg.MaxJobs > 0 {
		g.SetLimit(cfg.MaxJobs)
	}

	total := len(req.Scenes)
	for i, scene := range req.Scenes {
		i, scene := i, scene
		g.Go(func() error {
			log.Render("[%d/%d] %s", i+1, total, scene)
			outcomes[i] = runJob(ctx, cfg, log, req, scene, mediaDir)
			return nil
		})
	}
	// Join-all barrier. Goroutines never return errors; outcomes are data.
	_ = g.Wait()

	return outcomes
}

// runJob executes one scene's engine process and classifies the result.
// Success requires both a zero exit status and a non-empty video file at
// the resolved path.
func runJob(ctx context.Context, cfg *config.Config, log *logging.Logger, req Request, scene, mediaDir string) Outcome {
	start := time.Now()

	videoPath, err := paths.VideoPath(cfg.OutputRoot, req.RunID, req.ScriptPath, req.Quality, scene)
	if err != nil {
		// Unreachable after Validate, but a job must never panic the batch.
		return Outcome{Scene: scene, Status: StatusError, Output: err.Error()}
	}

	args := BuildArgs(cfg, req, scene, mediaDir)
	log.Debug("exec: %s", strings.Join(args, " "))

	res := Execute(ctx, cfg.RenderTimeout, args)
	elapsed := time.Since(start).Seconds()

	if ctx.Err() != nil {
		log.Warn("%s cancelled", scene)
		return Outcome{
			Scene:   scene,
			Status:  StatusCancelled,
			Output:  diagnostic(res, "cancelled before completion"),
			Elapsed: elapsed,
		}
	}

	if res.Err == nil && fileNonEmpty(videoPath) {
		log.Success("%s rendered in %.1fs", scene, elapsed)
		return Outcome{
			Scene:     scene,
			Status:    StatusSuccess,
			VideoPath: videoPath,
			Output:    res.Output,
			Elapsed:   elapsed,
		}
	}

	reason := fmt.Sprintf("engine exited cleanly but %s is missing or empty", videoPath)
	if res.Err != nil {
		reason = res.Err.Error()
	}
	log.Error("%s failed: %s", scene, reason)

	return Outcome{
		Scene:   scene,
		Status:  StatusError,
		Output:  diagnostic(res, reason),
		Elapsed: elapsed,
	}
}

// diagnostic returns the engine output verbatim, falling back to the given
// reason so a failed outcome always carries non-empty text to act on.
func diagnostic(res ExecResult, reason string) string {
	if strings.TrimSpace(res.Output) != "" {
		return res.Output
	}
	return reason
}

func fileNonEmpty(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Size() > 0
}
