// Package report turns rule findings into presentable diagnostics and
// encodes them as text, JSON, or SARIF.
package report

import (
	"time"

	"github.com/google/uuid"

	"ubd/internal/jsast"
	"ubd/internal/rule"
)

// Diagnostic is one finding located in a file. Lines and columns are
// 1-based; Range holds byte offsets.
type Diagnostic struct {
	RuleID      string `json:"ruleId"`
	Name        string `json:"name"`
	Message     string `json:"message"`
	File        string `json:"file"`
	Range       [2]int `json:"range"`
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	EndLine     int    `json:"endLine"`
	EndColumn   int    `json:"endColumn"`
}

// Run is one analysis invocation over a set of files.
type Run struct {
	ID          string       `json:"id"`
	Tool        string       `json:"tool"`
	Version     string       `json:"version"`
	StartedAt   time.Time    `json:"startedAt"`
	RepoRoot    string       `json:"repoRoot,omitempty"`
	Files       int          `json:"files"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// NewRun creates run metadata with a fresh run ID.
func NewRun(version, repoRoot string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Tool:      "ubd",
		Version:   version,
		StartedAt: time.Now().UTC(),
		RepoRoot:  repoRoot,
	}
}

// Add appends a file's findings to the run.
func (r *Run) Add(ds ...Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, ds...)
}

// FromRule locates rule diagnostics in their source file.
func FromRule(tree *jsast.Tree, found []rule.Diagnostic) []Diagnostic {
	if len(found) == 0 {
		return nil
	}
	out := make([]Diagnostic, 0, len(found))
	for _, d := range found {
		out = append(out, Diagnostic{
			RuleID:      rule.RuleID,
			Name:        d.Name,
			Message:     d.Message,
			File:        tree.Path,
			Range:       d.Node.Range,
			StartLine:   d.Node.Start.Row + 1,
			StartColumn: d.Node.Start.Column + 1,
			EndLine:     d.Node.End.Row + 1,
			EndColumn:   d.Node.End.Column + 1,
		})
	}
	return out
}
