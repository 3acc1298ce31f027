// Package check provides system diagnostics (the check subcommand) and
// pre-operation dependency validation for the rendering engine, the muxer,
// and the prober.
package check

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/reelforge/reelforge/internal/config"
)

// Sentinel errors returned by Preflight when a required tool is missing.
var (
	ErrEngineNotFound = errors.New("rendering engine not found on PATH")
	ErrMuxerNotFound  = errors.New("muxer (ffmpeg) not found on PATH")
	ErrProberNotFound = errors.New("prober (ffprobe) not found on PATH")
)

// Logger is the minimal logging interface needed by RunCheck. Defined here
// (rather than importing the logging package) so that check remains
// dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck runs the interactive diagnostics flow: availability and version
// of every external tool. Informational only; returns false when any tool
// is missing so the command can exit non-zero.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkTool(log, "engine", cfg.EngineBin, "--version")
	ok = checkTool(log, "muxer", cfg.MuxerBin, "-version") && ok
	ok = checkTool(log, "prober", cfg.ProberBin, "-version") && ok
	return ok
}

// checkTool verifies one binary is on PATH and logs its version line.
func checkTool(log Logger, role, bin, versionFlag string) bool {
	if _, err := exec.LookPath(bin); err != nil {
		log.Error("%s: %s not found", role, bin)
		return false
	}
	out, err := exec.Command(bin, versionFlag).Output()
	if err != nil {
		log.Warn("%s: %s found but %s failed: %v", role, bin, versionFlag, err)
		return true
	}
	firstLine := strings.TrimSpace(string(out))
	if idx := strings.Index(firstLine, "\n"); idx > 0 {
		firstLine = firstLine[:idx]
	}
	log.Success("%s: %s", role, firstLine)
	return true
}

// Preflight is the pre-operation validation: it verifies that the binaries
// the given subcommand will spawn are actually on PATH, failing fast before
// any work begins.
func Preflight(cfg *config.Config, cmd config.Command) error {
	switch cmd {
	case config.CmdRender:
		if _, err := exec.LookPath(cfg.EngineBin); err != nil {
			return ErrEngineNotFound
		}
	case config.CmdStitch:
		if _, err := exec.LookPath(cfg.MuxerBin); err != nil {
			return ErrMuxerNotFound
		}
	case config.CmdSubtitles:
		if _, err := exec.LookPath(cfg.ProberBin); err != nil {
			return ErrProberNotFound
		}
	}
	return nil
}
