// Package export writes completed runs to disk for archival or CI
// artifact upload, optionally zstd-compressed.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"ubd/internal/logging"
	"ubd/internal/report"
)

// Exporter writes runs to files in a chosen report format.
type Exporter struct {
	logger *logging.Logger
}

// NewExporter creates a new exporter.
func NewExporter(logger *logging.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export writes the run to path in the given format. A path ending in
// .zst is compressed; the format is then derived from the extension
// underneath (run.json.zst, run.sarif.zst).
func (e *Exporter) Export(run *report.Run, path string, format report.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = enc
	}

	if err := report.Write(w, run, format); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if enc != nil {
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}

	e.logger.Info("Exported run", map[string]interface{}{
		"path":        path,
		"format":      string(format),
		"diagnostics": len(run.Diagnostics),
	})

	return nil
}

// FormatForPath derives the report format from a file name, looking
// beneath a trailing .zst. Unknown extensions default to JSON.
func FormatForPath(path string) report.Format {
	name := strings.TrimSuffix(path, ".zst")
	switch filepath.Ext(name) {
	case ".sarif":
		return report.FormatSARIF
	case ".txt":
		return report.FormatText
	default:
		return report.FormatJSON
	}
}
