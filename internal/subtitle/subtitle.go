// Package subtitle concatenates the SRT tracks that the engine writes next
// to each rendered video. The ordering comes from the stitch manifest, and
// each track's cues are shifted by the running duration of the videos
// before it, so the combined track lines up with the stitched output.
package subtitle

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// DurationFunc reports a video's duration in seconds. Injected so the
// shifting math is testable without a prober binary.
type DurationFunc func(ctx context.Context, path string) (float64, error)

// Pre-compiled patterns for the concat manifest lines and SRT cue timings.
var (
	reOrderLine = regexp.MustCompile(`^file '(.+)'$`)
	reTiming    = regexp.MustCompile(
		`(\d+):(\d+):(\d+)[,.](\d+)\s*-->\s*(\d+):(\d+):(\d+)[,.](\d+)`)
)

// cue is one subtitle entry with absolute times in seconds.
type cue struct {
	start float64
	end   float64
	text  string
}

// Concat reads the ordering manifest, collects each video's sibling .srt
// (same path, .srt extension), shifts its cues, renumbers everything, and
// writes one combined SRT to outputPath. Videos without a sibling track are
// skipped. Returns the number of cues written; an empty result still writes
// an empty file so downstream consumers see a deterministic artifact.
func Concat(ctx context.Context, orderFile, outputPath string, dur DurationFunc) (int, error) {
	videos, err := ParseOrder(orderFile)
	if err != nil {
		return 0, err
	}

	var entries []cue
	offset := 0.0
	for _, video := range videos {
		srt := strings.TrimSuffix(video, filepath.Ext(video)) + ".srt"
		if data, err := os.ReadFile(srt); err == nil {
			entries = append(entries, parseCues(string(data), offset)...)
		}

		d, err := dur(ctx, video)
		if err != nil {
			return 0, fmt.Errorf("duration of %s: %w", video, err)
		}
		offset += d
	}

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n", i+1, formatTime(e.start), formatTime(e.end), e.text)
	}

	if err := os.WriteFile(outputPath, []byte(b.String()), 0o644); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// ParseOrder extracts the ordered video paths from a concat manifest.
// Relative paths are resolved against the manifest's own directory, since
// that is where the stitcher writes them.
func ParseOrder(orderFile string) ([]string, error) {
	data, err := os.ReadFile(orderFile)
	if err != nil {
		return nil, fmt.Errorf("order manifest: %w", err)
	}

	baseDir := filepath.Dir(orderFile)
	var videos []string
	for _, line := range strings.Split(string(data), "\n") {
		m := reOrderLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		p := unescapePath(m[1])
		if !filepath.IsAbs(p) {
			p = filepath.Join(baseDir, p)
		}
		videos = append(videos, p)
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("order manifest %s lists no videos", orderFile)
	}
	return videos, nil
}

// parseCues reads SRT blocks and shifts every cue by offset seconds.
// Malformed blocks are skipped, matching how players treat them.
func parseCues(data string, offset float64) []cue {
	var cues []cue
	for _, block := range strings.Split(strings.TrimSpace(data), "\n\n") {
		lines := strings.Split(block, "\n")
		if len(lines) < 3 {
			continue
		}
		m := reTiming.FindStringSubmatch(lines[1])
		if m == nil {
			continue
		}
		cues = append(cues, cue{
			start: timestampSeconds(m[1], m[2], m[3], m[4]) + offset,
			end:   timestampSeconds(m[5], m[6], m[7], m[8]) + offset,
			text:  strings.Join(lines[2:], "\n"),
		})
	}
	return cues
}

func timestampSeconds(h, m, s, ms string) float64 {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(s)
	msi, _ := strconv.Atoi(ms)
	return float64(hi)*3600 + float64(mi)*60 + float64(si) + float64(msi)/1000
}

// formatTime renders seconds as the SRT timestamp form HH:MM:SS,mmm.
func formatTime(s float64) string {
	if s < 0 {
		s = 0
	}
	whole := int(s)
	ms := int(math.Round((s - math.Floor(s)) * 1000))
	if ms >= 1000 {
		whole++
		ms -= 1000
	}
	return fmt.Sprintf("%02d:%02d:%02d,%03d", whole/3600, (whole%3600)/60, whole%60, ms)
}

// unescapePath reverses the concat demuxer quoting applied by the stitcher.
func unescapePath(p string) string {
	return strings.ReplaceAll(p, `'\''`, "'")
}
