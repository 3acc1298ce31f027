// Package stitch concatenates already-rendered videos into one file via a
// single stream-copy muxer invocation. The input order is caller-
// authoritative: it is never re-derived from job metadata.
package stitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/logging"
)

// OrderFileName is the ordering manifest copied next to the stitched
// output. The subtitles command and the review tool both consume it.
const OrderFileName = "order.txt"

// Request is one stitch operation: an ordered, validated list of inputs and
// the resolved output path.
type Request struct {
	Videos []string
	Output string
}

// Result is the stitch outcome on the wire. Field names are a fixed
// contract with the calling agent.
type Result struct {
	Status    string `json:"status"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	OutputDir string `json:"output_dir"`
}

// Write emits the result as indented JSON.
func (r *Result) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Validate rejects the request before the muxer is ever invoked: the input
// list must be non-empty and every path must reference an existing,
// non-empty file. The error names the first offending path.
func Validate(videos []string) error {
	if len(videos) == 0 {
		return fmt.Errorf("no input videos to stitch")
	}
	for _, p := range videos {
		fi, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("input video missing: %s", p)
		}
		if fi.IsDir() {
			return fmt.Errorf("input is a directory, not a video: %s", p)
		}
		if fi.Size() == 0 {
			return fmt.Errorf("input video is empty: %s", p)
		}
	}
	return nil
}

// Run performs one stitch: write the transient concat manifest, invoke the
// muxer once in stream-copy mode, and classify the result. Callers must
// have passed the request through [Validate] first. A muxer failure (e.g.
// incompatible codecs across inputs) comes back as a Result with status
// "error" carrying the muxer's diagnostic text; it is data for the caller,
// not a process-level failure.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, req Request) Result {
	outDir := filepath.Dir(req.Output)
	errorResult := func(msg string) Result {
		return Result{Status: "error", Error: msg, OutputDir: outDir}
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return errorResult(fmt.Sprintf("cannot create output directory: %v", err))
	}

	manifest, err := writeManifest(req.Videos)
	if err != nil {
		return errorResult(err.Error())
	}
	defer os.Remove(manifest)

	// Keep a copy of the ordering next to the output for downstream
	// consumers (subtitle concatenation, review tooling).
	if err := copyFile(manifest, filepath.Join(outDir, OrderFileName)); err != nil {
		log.Warn("could not keep ordering manifest: %v", err)
	}

	// Remember whether the output path already held an artifact: a failed
	// mux must not delete a file this invocation did not create.
	_, statErr := os.Stat(req.Output)
	existedBefore := statErr == nil

	ctx, cancel := context.WithTimeout(ctx, cfg.StitchTimeout)
	defer cancel()

	log.Info("Stitching %d videos -> %s", len(req.Videos), req.Output)
	cmd := exec.CommandContext(ctx, cfg.MuxerBin,
		"-hide_banner", "-nostdin", "-y",
		"-loglevel", "error",
		"-f", "concat",
		"-safe", "0",
		"-i", manifest,
		"-c", "copy",
		req.Output,
	)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		msg := stderrBuf.String()
		if len(bytes.TrimSpace(stderrBuf.Bytes())) == 0 {
			msg = err.Error()
		}
		log.Error("muxer failed: %v", err)
		// Clean up a half-written artifact, but leave pre-existing files
		// (a prior good stitch at an absolute --output) alone.
		if !existedBefore {
			os.Remove(req.Output)
		}
		return errorResult(msg)
	}

	log.Success("Stitched %s", req.Output)
	return Result{Status: "success", Output: req.Output, OutputDir: outDir}
}

func copyFile(src, dst string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}
