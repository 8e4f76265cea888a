//go:build cgo

package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	uerr "ubd/internal/errors"
	"ubd/internal/jsast"
)

// Parser wraps tree-sitter for JavaScript/TypeScript parsing.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a new tree-sitter parser.
func NewParser() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// ParseFile reads and parses a single source file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*jsast.Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, uerr.New(uerr.FileUnreadable, fmt.Sprintf("cannot read %s", path), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := LanguageFromExtension(ext)
	if !ok {
		return nil, uerr.New(uerr.UnsupportedLanguage, fmt.Sprintf("no grammar for %s files", ext), nil)
	}

	return p.ParseSource(ctx, path, source, lang)
}

// ParseSource parses source bytes into the jsast node model.
func (p *Parser) ParseSource(ctx context.Context, path string, source []byte, lang Language) (*jsast.Tree, error) {
	tsLang, err := getLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, uerr.New(uerr.ParseFailed, fmt.Sprintf("parse error in %s", path), err)
	}

	root := convert(tree.RootNode(), nil, "")
	return &jsast.Tree{Path: path, Source: source, Root: root}, nil
}

// getLanguage returns the tree-sitter Language for a language identifier.
func getLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, uerr.New(uerr.UnsupportedLanguage, fmt.Sprintf("unsupported language: %s", lang), nil)
	}
}

// convert mirrors a tree-sitter node into a jsast.Node, populating parent
// links and field names on the way down. Anonymous token children are kept
// so field lookups like the for-in operator keep working.
func convert(n *sitter.Node, parent *jsast.Node, fieldName string) *jsast.Node {
	if n == nil {
		return nil
	}

	out := &jsast.Node{
		Type:      n.Type(),
		FieldName: fieldName,
		Range:     [2]int{int(n.StartByte()), int(n.EndByte())},
		Start:     jsast.Point{Row: int(n.StartPoint().Row), Column: int(n.StartPoint().Column)},
		End:       jsast.Point{Row: int(n.EndPoint().Row), Column: int(n.EndPoint().Column)},
		Parent:    parent,
		Named:     n.IsNamed(),
	}

	count := int(n.ChildCount())
	if count > 0 {
		out.Children = make([]*jsast.Node, 0, count)
		for i := 0; i < count; i++ {
			child := n.Child(i)
			if child == nil {
				continue
			}
			out.Children = append(out.Children, convert(child, out, n.FieldNameForChild(i)))
		}
	}

	return out
}

// IsAvailable returns whether parsing is available.
func IsAvailable() bool {
	return true
}
