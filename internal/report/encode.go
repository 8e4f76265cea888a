package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// Format selects a diagnostic output encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat validates a format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON, FormatSARIF:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want text, json, or sarif)", s)
	}
}

// Write encodes the run in the requested format.
func Write(w io.Writer, run *Run, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, run)
	case FormatSARIF:
		return writeSARIF(w, run)
	default:
		return writeText(w, run)
	}
}

// writeText prints one line per finding plus a summary, the shape most
// linters emit for terminals.
func writeText(w io.Writer, run *Run) error {
	for _, d := range run.Diagnostics {
		if _, err := fmt.Fprintf(w, "%s:%d:%d: %s [%s]\n",
			d.File, d.StartLine, d.StartColumn, d.Message, d.RuleID); err != nil {
			return err
		}
	}

	noun := "problems"
	if len(run.Diagnostics) == 1 {
		noun = "problem"
	}
	_, err := fmt.Fprintf(w, "%d %s in %d files\n", len(run.Diagnostics), noun, run.Files)
	return err
}

func writeJSON(w io.Writer, run *Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
