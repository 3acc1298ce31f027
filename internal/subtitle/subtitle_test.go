package subtitle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const srtA = `1
00:00:00,000 --> 00:00:02,500
Hello from scene A

2
00:00:03,000 --> 00:00:04,000
Second line
`

const srtB = `1
00:00:01,000 --> 00:00:02,000
Scene B speaks
`

func fixedDurations(d map[string]float64) DurationFunc {
	return func(_ context.Context, path string) (float64, error) {
		return d[filepath.Base(path)], nil
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{2.5, "00:00:02,500"},
		{65.25, "00:01:05,250"},
		{3600, "01:00:00,000"},
		{3723.042, "01:02:03,042"},
		{-1, "00:00:00,000"},
	}
	for _, tt := range tests {
		if got := formatTime(tt.in); got != tt.want {
			t.Errorf("formatTime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseOrder(t *testing.T) {
	dir := t.TempDir()
	order := writeFile(t, dir, "order.txt",
		"file 'a.mp4'\nfile '/abs/b.mp4'\n# comment line ignored\n")

	videos, err := ParseOrder(order)
	if err != nil {
		t.Fatalf("ParseOrder: %v", err)
	}
	want := []string{filepath.Join(dir, "a.mp4"), "/abs/b.mp4"}
	if len(videos) != 2 || videos[0] != want[0] || videos[1] != want[1] {
		t.Errorf("got %v, want %v", videos, want)
	}
}

func TestParseOrder_Empty(t *testing.T) {
	dir := t.TempDir()
	order := writeFile(t, dir, "order.txt", "nothing here\n")
	if _, err := ParseOrder(order); err == nil {
		t.Error("manifest without videos should fail")
	}
}

func TestConcat_ShiftsAndRenumbers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", "video")
	writeFile(t, dir, "b.mp4", "video")
	writeFile(t, dir, "a.srt", srtA)
	writeFile(t, dir, "b.srt", srtB)
	order := writeFile(t, dir, "order.txt", "file 'a.mp4'\nfile 'b.mp4'\n")
	out := filepath.Join(dir, "final.srt")

	n, err := Concat(context.Background(), order, out,
		fixedDurations(map[string]float64{"a.mp4": 10, "b.mp4": 5}))
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if n != 3 {
		t.Errorf("cue count = %d, want 3", n)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(got)

	// Scene A cues keep their original times; scene B is shifted by A's
	// 10-second duration.
	for _, want := range []string{
		"1\n00:00:00,000 --> 00:00:02,500\nHello from scene A",
		"2\n00:00:03,000 --> 00:00:04,000\nSecond line",
		"3\n00:00:11,000 --> 00:00:12,000\nScene B speaks",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q in:\n%s", want, text)
		}
	}
}

func TestConcat_SkipsMissingTracks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", "video")
	writeFile(t, dir, "b.mp4", "video")
	writeFile(t, dir, "b.srt", srtB)
	order := writeFile(t, dir, "order.txt", "file 'a.mp4'\nfile 'b.mp4'\n")
	out := filepath.Join(dir, "final.srt")

	n, err := Concat(context.Background(), order, out,
		fixedDurations(map[string]float64{"a.mp4": 4, "b.mp4": 5}))
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if n != 1 {
		t.Errorf("cue count = %d, want 1", n)
	}

	got, _ := os.ReadFile(out)
	if !strings.Contains(string(got), "00:00:05,000 --> 00:00:06,000") {
		t.Errorf("scene B cue should be shifted by 4s, got:\n%s", got)
	}
}

func TestConcat_NoTracksWritesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", "video")
	order := writeFile(t, dir, "order.txt", "file 'a.mp4'\n")
	out := filepath.Join(dir, "final.srt")

	n, err := Concat(context.Background(), order, out,
		fixedDurations(map[string]float64{"a.mp4": 4}))
	if err != nil {
		t.Fatalf("Concat: %v", err)
	}
	if n != 0 {
		t.Errorf("cue count = %d, want 0", n)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("empty result should still write the output file: %v", err)
	}
}

func TestParseCues_SkipsMalformedBlocks(t *testing.T) {
	data := "1\nnot a timing line\ntext\n\n2\n00:00:01,000 --> 00:00:02,000\nvalid\n"
	cues := parseCues(data, 0)
	if len(cues) != 1 || cues[0].text != "valid" {
		t.Errorf("got %+v, want one valid cue", cues)
	}
}
