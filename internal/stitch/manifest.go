package stitch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// writeManifest writes the ordered input list in the muxer's concat demuxer
// format to a transient file and returns its path. The caller removes it.
// Entries are always absolute: the demuxer resolves relative entries against
// the manifest's own directory, not the caller's working directory.
func writeManifest(videos []string) (string, error) {
	var b strings.Builder
	for _, p := range videos {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("cannot resolve input path %s: %w", p, err)
		}
		fmt.Fprintf(&b, "file '%s'\n", escapePath(abs))
	}

	f, err := os.CreateTemp("", "reelforge-concat-*.txt")
	if err != nil {
		return "", fmt.Errorf("cannot create concat manifest: %w", err)
	}

	if _, err := f.WriteString(b.String()); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot write concat manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("cannot close concat manifest: %w", err)
	}
	return f.Name(), nil
}

// escapePath escapes single quotes the way the concat demuxer expects:
// the quoted string is closed, an escaped quote emitted, and reopened.
func escapePath(p string) string {
	return strings.ReplaceAll(p, "'", `'\''`)
}
