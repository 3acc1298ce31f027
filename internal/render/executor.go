package render

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// ExecResult holds the outcome of a single engine invocation.
type ExecResult struct {
	Output string // Merged stdout+stderr.
	Err    error
}

// Execute runs one engine process with a per-job timeout. Stdout and stderr
// share one buffer so diagnostics keep their interleaved order. The process
// is killed when ctx is cancelled (batch interrupt) or the timeout elapses.
func Execute(ctx context.Context, timeout time.Duration, args []string) ExecResult {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return ExecResult{
		Output: buf.String(),
		Err:    err,
	}
}
