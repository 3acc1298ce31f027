// Package config holds runtime configuration: defaults, the optional YAML
// config file, CLI flag parsing, and validation. Precedence is
// defaults < config file < CLI flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// --- Enum types for validated string fields ---

// Command is the subcommand selected on the command line.
type Command string

const (
	CmdRender    Command = "render"    // Render scenes in parallel.
	CmdStitch    Command = "stitch"    // Concatenate rendered videos.
	CmdSubtitles Command = "subtitles" // Concatenate sibling SRT tracks.
	CmdCheck     Command = "check"     // System diagnostics.
)

// Quality is the rendering fidelity tier. The tier-to-resolution mapping is
// a closed table: each tier corresponds to one engine flag and one output
// directory tag, and is not user-extensible.
type Quality string

const (
	QualityLow    Quality = "low"    // 480p @ 15 fps (default).
	QualityMedium Quality = "medium" // 720p @ 30 fps.
	QualityHigh   Quality = "high"   // 1080p @ 60 fps.
)

// ParseQuality accepts both the long form ("low") and the single-letter
// form ("l") used by the engine's own flags.
func ParseQuality(s string) (Quality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return QualityLow, nil
	case "m", "medium":
		return QualityMedium, nil
	case "h", "high":
		return QualityHigh, nil
	}
	return "", fmt.Errorf("invalid quality %q (use l|m|h or low|medium|high)", s)
}

// EngineFlag returns the engine CLI flag for the tier ("" if unknown).
func (q Quality) EngineFlag() string {
	switch q {
	case QualityLow:
		return "-ql"
	case QualityMedium:
		return "-qm"
	case QualityHigh:
		return "-qh"
	}
	return ""
}

// Tag returns the resolution/frame-rate directory tag the engine uses in
// its output layout ("" if unknown).
func (q Quality) Tag() string {
	switch q {
	case QualityLow:
		return "480p15"
	case QualityMedium:
		return "720p30"
	case QualityHigh:
		return "1080p60"
	}
	return ""
}

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stderr is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [Default], then
// optionally overlaid by a YAML config file, and finally mutated by
// [ParseFlags] before being passed (by pointer) to packages that need it.
type Config struct {
	// Subcommand and its positional arguments.
	Command    Command
	ScriptPath string   // render: scene script file.
	Scenes     []string // render: scene names, caller order preserved.
	Videos     []string // stitch: input videos, caller order is final.
	OrderFile  string   // subtitles: concat manifest path.

	// Run scoping and output locations.
	OutputRoot   string // Default: "/tmp/reelforge".
	RunID        string // Empty means generate one per invocation.
	StitchOutput string // stitch --output; default "stitched_video.mp4" in the run dir.
	SubsOutput   string // subtitles --output; default "final.srt" next to the manifest.

	// Rendering.
	Quality       Quality       // Default: low.
	MaxJobs       int           // 0 = no cap on concurrent engine processes.
	RenderTimeout time.Duration // Per-scene engine timeout. Default: 10m.
	StitchTimeout time.Duration // Muxer timeout. Default: 5m.

	// External tool binaries.
	EngineBin string // Default: "manim".
	MuxerBin  string // Default: "ffmpeg".
	ProberBin string // Default: "ffprobe".

	// Display and logging.
	Verbose    bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ConfigFile string    // Optional YAML config file path.
}

// Default returns a Config with all defaults. The quality default and the
// output layout match the engine's own conventions.
func Default() Config {
	return Config{
		OutputRoot:    "/tmp/reelforge",
		StitchOutput:  "stitched_video.mp4",
		Quality:       QualityLow,
		MaxJobs:       0,
		RenderTimeout: 10 * time.Minute,
		StitchTimeout: 5 * time.Minute,
		EngineBin:     "manim",
		MuxerBin:      "ffmpeg",
		ProberBin:     "ffprobe",
		ColorMode:     ColorAuto,
	}
}

// Validate checks enum fields and the per-subcommand positional arguments.
// All of these are configuration errors: they abort before any external
// process is spawned.
func (c *Config) Validate() error {
	switch c.Command {
	case CmdRender, CmdStitch, CmdSubtitles, CmdCheck:
		// valid
	default:
		return fmt.Errorf("unknown command %q (use render|stitch|subtitles|check)", c.Command)
	}

	if c.Quality.Tag() == "" || c.Quality.EngineFlag() == "" {
		return fmt.Errorf("invalid quality %q (use l|m|h or low|medium|high)", c.Quality)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use auto|always|never)", c.ColorMode)
	}

	if c.MaxJobs < 0 {
		return errors.New("jobs must be zero (unbounded) or positive")
	}
	if c.RenderTimeout <= 0 || c.StitchTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}
	if c.OutputRoot == "" {
		return errors.New("output root must not be empty")
	}

	switch c.Command {
	case CmdRender:
		if c.ScriptPath == "" {
			return errors.New("render needs a script file and at least one scene name")
		}
		if len(c.Scenes) == 0 {
			return errors.New("render needs at least one scene name")
		}
		if dup := firstDuplicate(c.Scenes); dup != "" {
			return fmt.Errorf("duplicate scene name %q in request", dup)
		}
	case CmdStitch:
		if len(c.Videos) == 0 {
			return errors.New("stitch needs at least one input video")
		}
	case CmdSubtitles:
		if c.OrderFile == "" {
			return errors.New("subtitles needs an order manifest file")
		}
	}
	return nil
}

// firstDuplicate returns the first scene name that appears more than once,
// or "" when all names are unique.
func firstDuplicate(names []string) string {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return n
		}
		seen[n] = true
	}
	return ""
}
