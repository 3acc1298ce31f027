// Package probe reads container metadata through a single ffprobe JSON
// call. Only the format-level duration is needed here: it drives the cue
// offsets when sibling subtitle tracks are concatenated.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Duration returns the container duration of path in seconds. A prober
// failure is an error; a response without a duration field yields 0.
func Duration(ctx context.Context, proberBin, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, proberBin,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", proberBin, path, err)
	}

	return ParseJSON(out)
}

// ParseJSON converts raw ffprobe JSON output into a duration in seconds.
// A missing duration field yields 0; a malformed one is an error, since a
// silent zero would desynchronize every subtitle cue shifted after it.
// Exported for testing without a real ffprobe binary.
func ParseJSON(data []byte) (float64, error) {
	var raw proberOutput
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("parse prober JSON: %w", err)
	}
	s := strings.TrimSpace(raw.Format.Duration)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse prober duration %q: %w", raw.Format.Duration, err)
	}
	return f, nil
}

// --- ffprobe JSON wire types ---

type proberOutput struct {
	Format proberFormat `json:"format"`
}

type proberFormat struct {
	Duration string `json:"duration"`
}
