//go:build !cgo

package parser

import (
	"context"
	"errors"

	"ubd/internal/jsast"
)

// ErrNoCGO is returned when parsing is unavailable due to missing CGO.
var ErrNoCGO = errors.New("parsing requires CGO (tree-sitter)")

// Parser wraps tree-sitter parsing functionality.
// This is a stub implementation for non-CGO builds.
type Parser struct{}

// NewParser creates a new tree-sitter parser.
// Returns nil when CGO is disabled.
func NewParser() *Parser {
	return nil
}

// ParseFile reads and parses a single source file.
// Stub implementation returns an error.
func (p *Parser) ParseFile(ctx context.Context, path string) (*jsast.Tree, error) {
	return nil, ErrNoCGO
}

// ParseSource parses source bytes.
// Stub implementation returns an error.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte, lang Language) (*jsast.Tree, error) {
	return nil, ErrNoCGO
}

// IsAvailable returns whether parsing is available.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}
