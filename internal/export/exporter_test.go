package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"ubd/internal/logging"
	"ubd/internal/report"
)

func sampleRun() *report.Run {
	run := report.NewRun("0.3.0", "/repo")
	run.Files = 1
	run.Add(report.Diagnostic{
		RuleID:    "use-before-define",
		Name:      "foo",
		Message:   "'foo' was used before it was defined.",
		File:      "/repo/src/a.js",
		StartLine: 1, StartColumn: 7, EndLine: 1, EndColumn: 10,
	})
	return run
}

func TestFormatForPath(t *testing.T) {
	cases := map[string]report.Format{
		"run.json":      report.FormatJSON,
		"run.json.zst":  report.FormatJSON,
		"run.sarif":     report.FormatSARIF,
		"run.sarif.zst": report.FormatSARIF,
		"run.txt":       report.FormatText,
		"run.out":       report.FormatJSON,
	}
	for path, want := range cases {
		if got := FormatForPath(path); got != want {
			t.Errorf("FormatForPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestExportJSON(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	path := filepath.Join(t.TempDir(), "out", "run.json")

	if err := NewExporter(logger).Export(sampleRun(), path, report.FormatJSON); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}

	var decoded report.Run
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded.Diagnostics) != 1 || decoded.Diagnostics[0].Name != "foo" {
		t.Errorf("unexpected decoded run: %+v", decoded)
	}
}

func TestExportCompressed(t *testing.T) {
	logger := logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
	path := filepath.Join(t.TempDir(), "run.json.zst")

	if err := NewExporter(logger).Export(sampleRun(), path, report.FormatJSON); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export failed: %v", err)
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a zstd stream: %v", err)
	}
	defer dec.Close()

	var decoded report.Run
	if err := json.NewDecoder(dec).Decode(&decoded); err != nil {
		t.Fatalf("decompressed export is not valid JSON: %v", err)
	}
	if decoded.Tool != "ubd" {
		t.Errorf("tool = %q, want ubd", decoded.Tool)
	}
}
