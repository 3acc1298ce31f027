package stitch

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelforge/reelforge/internal/config"
	"github.com/reelforge/reelforge/internal/logging"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// --- Validate tests ---

func TestValidate_EmptyList(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("empty input list should fail validation")
	}
}

func TestValidate_MissingFileNamed(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "data")
	missing := filepath.Join(dir, "nope.mp4")

	err := Validate([]string{a, missing})
	if err == nil {
		t.Fatal("missing input should fail validation")
	}
	if !strings.Contains(err.Error(), missing) {
		t.Errorf("error should identify the missing path, got: %v", err)
	}
}

func TestValidate_EmptyFileNamed(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "data")
	empty := writeFile(t, dir, "empty.mp4", "")

	err := Validate([]string{a, empty})
	if err == nil {
		t.Fatal("empty input should fail validation")
	}
	if !strings.Contains(err.Error(), empty) {
		t.Errorf("error should identify the empty path, got: %v", err)
	}
}

func TestValidate_AllGood(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "data")
	b := writeFile(t, dir, "b.mp4", "data")
	if err := Validate([]string{a, b}); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

// --- Manifest tests ---

func TestWriteManifest_OrderAndFormat(t *testing.T) {
	manifest, err := writeManifest([]string{"/v/a.mp4", "/v/b.mp4"})
	if err != nil {
		t.Fatalf("writeManifest: %v", err)
	}
	defer os.Remove(manifest)

	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	want := "file '/v/a.mp4'\nfile '/v/b.mp4'\n"
	if string(b) != want {
		t.Errorf("manifest = %q, want %q", string(b), want)
	}
}

func TestWriteManifest_RelativeInputsResolved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.mp4", "data")
	prevDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prevDir); err != nil {
			t.Fatal(err)
		}
	})

	manifest, err := writeManifest([]string{"a.mp4"})
	if err != nil {
		t.Fatalf("writeManifest: %v", err)
	}
	defer os.Remove(manifest)

	abs, err := filepath.Abs("a.mp4")
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	// The demuxer resolves relative entries against the manifest's own
	// directory, so a caller-relative input must be written absolute.
	want := "file '" + abs + "'\n"
	if string(b) != want {
		t.Errorf("manifest = %q, want %q", string(b), want)
	}
}

func TestEscapePath(t *testing.T) {
	if got := escapePath("/v/it's.mp4"); got != `/v/it'\''s.mp4` {
		t.Errorf("escapePath = %q", got)
	}
}

// --- Run tests ---

func newTestLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.Default()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { log.Close() })
	return log
}

func TestRun_MuxerFailureIsData(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "not a real video")

	cfg := config.Default()
	cfg.MuxerBin = "/bin/false" // always exits non-zero
	log := newTestLogger(t)

	res := Run(context.Background(), &cfg, log, Request{
		Videos: []string{a},
		Output: filepath.Join(dir, "out", "final.mp4"),
	})

	if res.Status != "error" {
		t.Errorf("status = %q, want error", res.Status)
	}
	if res.Error == "" {
		t.Error("failed stitch should carry diagnostic text")
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "final.mp4")); err == nil {
		t.Error("failed stitch should not leave an output file")
	}
}

func TestRun_MuxerFailureKeepsPriorArtifact(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "data")
	prior := writeFile(t, dir, "final.mp4", "prior good stitch")

	cfg := config.Default()
	cfg.MuxerBin = "/bin/false"
	log := newTestLogger(t)

	res := Run(context.Background(), &cfg, log, Request{
		Videos: []string{a},
		Output: prior,
	})
	if res.Status != "error" {
		t.Fatalf("status = %q, want error", res.Status)
	}

	b, err := os.ReadFile(prior)
	if err != nil {
		t.Fatalf("pre-existing output was deleted by the failed stitch: %v", err)
	}
	if string(b) != "prior good stitch" {
		t.Errorf("pre-existing output content changed: %q", b)
	}
}

func TestRun_KeepsOrderManifest(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.mp4", "data")
	b := writeFile(t, dir, "b.mp4", "data")
	outDir := filepath.Join(dir, "run")

	cfg := config.Default()
	cfg.MuxerBin = "/bin/true" // pretend mux succeeds
	log := newTestLogger(t)

	res := Run(context.Background(), &cfg, log, Request{
		Videos: []string{a, b},
		Output: filepath.Join(outDir, "final.mp4"),
	})
	if res.Status != "success" {
		t.Fatalf("status = %q, want success (error: %s)", res.Status, res.Error)
	}

	order, err := os.ReadFile(filepath.Join(outDir, OrderFileName))
	if err != nil {
		t.Fatalf("order manifest should be kept next to the output: %v", err)
	}
	if !strings.Contains(string(order), "a.mp4") || !strings.Contains(string(order), "b.mp4") {
		t.Errorf("order manifest content: %s", order)
	}
}

func TestResult_Write(t *testing.T) {
	r := Result{Status: "success", Output: "/out/final.mp4", OutputDir: "/out"}
	var buf bytes.Buffer
	if err := r.Write(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("not valid JSON: %v", err)
	}
	for _, key := range []string{"status", "output", "output_dir"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if _, ok := decoded["error"]; ok {
		t.Error("success result should omit the error field")
	}
}

// Real end-to-end concat, skipped when ffmpeg is unavailable.
func TestRun_RealConcat(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}

	dir := t.TempDir()
	inputs := make([]string, 2)
	for i := range inputs {
		path := filepath.Join(dir, "in"+string(rune('a'+i))+".mp4")
		gen := exec.Command("ffmpeg",
			"-f", "lavfi", "-i", "testsrc=duration=1:size=320x240:rate=24",
			"-c:v", "libx264", "-pix_fmt", "yuv420p",
			"-y", path,
		)
		if err := gen.Run(); err != nil {
			t.Skipf("could not generate test video: %v", err)
		}
		inputs[i] = path
	}

	cfg := config.Default()
	log := newTestLogger(t)
	out := filepath.Join(dir, "stitched", "final.mp4")

	if err := Validate(inputs); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	res := Run(context.Background(), &cfg, log, Request{Videos: inputs, Output: out})
	if res.Status != "success" {
		t.Fatalf("status = %q, error = %s", res.Status, res.Error)
	}
	fi, err := os.Stat(out)
	if err != nil || fi.Size() == 0 {
		t.Errorf("stitched output missing or empty: %v", err)
	}
}
