// Package report assembles per-job outcomes into one batch report and
// emits it as JSON. It performs no filesystem or process I/O: aggregation
// is pure so callers can correlate results deterministically with their
// request.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/reelforge/reelforge/internal/render"
)

// Batch status values. "partial" is a first-class, expected outcome:
// callers branch on it and resubmit only the failed scenes.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// SceneResult is one scene's outcome on the wire. Field names are a fixed
// contract with the calling agent.
type SceneResult struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Video      string  `json:"video,omitempty"`
	Output     string  `json:"output"`
	RenderTime float64 `json:"render_time"`
}

// Batch is the full render report. Scenes appear in requested order, not
// completion order.
type Batch struct {
	Status          string        `json:"status"`
	Scenes          []SceneResult `json:"scenes"`
	TotalRenderTime float64       `json:"total_render_time"`
	RunID           string        `json:"run_id"`
	OutputDir       string        `json:"output_dir"`
}

// Build folds the outcomes (already in requested order, as the runner
// guarantees) into a Batch and computes the overall status: success iff all
// outcomes succeeded, error iff none did, partial otherwise.
func Build(runID, outputDir string, outcomes []render.Outcome, total time.Duration) Batch {
	scenes := make([]SceneResult, len(outcomes))
	succeeded := 0
	for i, o := range outcomes {
		scenes[i] = SceneResult{
			Name:       o.Scene,
			Status:     string(o.Status),
			Video:      o.VideoPath,
			Output:     o.Output,
			RenderTime: o.Elapsed,
		}
		if o.Status == render.StatusSuccess {
			succeeded++
		}
	}

	status := StatusPartial
	switch {
	case succeeded == 0:
		status = StatusError
	case succeeded == len(outcomes):
		status = StatusSuccess
	}

	return Batch{
		Status:          status,
		Scenes:          scenes,
		TotalRenderTime: total.Seconds(),
		RunID:           runID,
		OutputDir:       outputDir,
	}
}

// Succeeded returns how many scenes rendered successfully.
func (b *Batch) Succeeded() int {
	n := 0
	for _, s := range b.Scenes {
		if s.Status == StatusSuccess {
			n++
		}
	}
	return n
}

// Write emits the batch as indented JSON, the payload the calling agent
// parses from stdout.
func (b *Batch) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
