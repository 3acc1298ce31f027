// Package paths derives deterministic, run-scoped output locations.
//
// All artifacts of one invocation live under <output-root>/<run-id>. The
// run identifier is a pure namespacing token carried by value; there is no
// registry of past runs. Rendered scene videos follow the engine's own
// layout below the run directory:
//
//	<output-root>/<run-id>/videos/<script-stem>/<quality-tag>/<SceneName>.mp4
package paths

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/reelforge/reelforge/internal/config"
)

// VideoExt is the container extension the engine writes.
const VideoExt = ".mp4"

// NewRunID returns a fresh run identifier for callers that did not supply
// one. One UUID per invocation keeps concurrent runs from colliding on the
// filesystem.
func NewRunID() string {
	return uuid.NewString()
}

// RunDir returns the directory scoping all artifacts of one run.
func RunDir(root, runID string) string {
	return filepath.Join(root, runID)
}

// MediaDir returns the directory handed to the engine as its media root.
// The engine creates videos/<stem>/<tag>/ below it on its own.
func MediaDir(root, runID string) string {
	return RunDir(root, runID)
}

// VideoPath resolves the output location for one rendered scene. It is
// deterministic: identical inputs always yield the identical path, which is
// what makes re-rendering only failed scenes under the same run identifier
// idempotent. An unknown quality is a configuration error.
func VideoPath(root, runID, scriptPath string, q config.Quality, scene string) (string, error) {
	tag := q.Tag()
	if tag == "" {
		return "", fmt.Errorf("unknown quality %q", q)
	}
	return filepath.Join(RunDir(root, runID), "videos", ScriptStem(scriptPath), tag, scene+VideoExt), nil
}

// StitchOutput resolves the stitched artifact path. Absolute names are used
// verbatim; relative names stay scoped to the run directory.
func StitchOutput(root, runID, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(RunDir(root, runID), name)
}

// ScriptStem returns the script filename without directory or extension,
// matching the directory the engine derives from the script path.
func ScriptStem(scriptPath string) string {
	base := filepath.Base(scriptPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
