package render

import (
	"fmt"
	"os"

	"github.com/reelforge/reelforge/internal/config"
)

// Request is one batch of scenes to render. It is immutable after creation
// and owned by the invocation that created it; the runner only reads it.
// Scene order is preserved for reporting; execution order is parallel and
// unordered.
type Request struct {
	ScriptPath string
	Scenes     []string
	Quality    config.Quality
	RunID      string
}

// Status classifies a single job's terminal outcome.
type Status string

const (
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	StatusCancelled Status = "cancelled"
)

// Outcome is the terminal result of one scene's render job. It is immutable
// once produced. Failures are data here, never errors: a failing engine
// process must not disturb sibling jobs or the batch operation itself.
type Outcome struct {
	Scene     string
	Status    Status
	VideoPath string  // Set only on success.
	Output    string  // Engine diagnostics, verbatim.
	Elapsed   float64 // Wall-clock seconds.
}

// Validate rejects malformed requests before any engine process is spawned:
// missing script, no scenes, duplicate scene names, unknown quality. These
// abort the batch synchronously; everything past this point is per-job data.
func (r *Request) Validate() error {
	if r.ScriptPath == "" {
		return fmt.Errorf("script path must not be empty")
	}
	fi, err := os.Stat(r.ScriptPath)
	if err != nil {
		return fmt.Errorf("script file not found: %s", r.ScriptPath)
	}
	if fi.IsDir() {
		return fmt.Errorf("script path is a directory: %s", r.ScriptPath)
	}

	if len(r.Scenes) == 0 {
		return fmt.Errorf("no scenes requested")
	}
	seen := make(map[string]bool, len(r.Scenes))
	for _, s := range r.Scenes {
		if s == "" {
			return fmt.Errorf("empty scene name in request")
		}
		if seen[s] {
			return fmt.Errorf("duplicate scene name %q in request", s)
		}
		seen[s] = true
	}

	if r.Quality.EngineFlag() == "" {
		return fmt.Errorf("unknown quality %q", r.Quality)
	}
	if r.RunID == "" {
		return fmt.Errorf("run identifier must not be empty")
	}
	return nil
}
