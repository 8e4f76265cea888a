// Package scopes builds the lexical scope graph the use-before-define rule
// consumes: a tree of scopes holding variables, definitions and resolved
// references, in the shape eslint-scope gives JavaScript analyzers.
package scopes

import "ubd/internal/jsast"

// ScopeType identifies the lexical region a scope represents.
type ScopeType string

const (
	ScopeGlobal   ScopeType = "global"
	ScopeModule   ScopeType = "module"
	ScopeFunction ScopeType = "function"
	ScopeBlock    ScopeType = "block"
	ScopeCatch    ScopeType = "catch"
	ScopeClass    ScopeType = "class"
	ScopeFor      ScopeType = "for"
)

// IsTopLevel reports whether the scope type is the whole-program scope.
// Top-level bindings get forward-reference leniency in the classifier.
func (t ScopeType) IsTopLevel() bool {
	return t == ScopeGlobal || t == ScopeModule
}

// DefType identifies how a variable was introduced.
type DefType string

const (
	DefFunctionName  DefType = "FunctionName"
	DefClassName     DefType = "ClassName"
	DefVariable      DefType = "Variable"
	DefParameter     DefType = "Parameter"
	DefCatchClause   DefType = "CatchClause"
	DefImportBinding DefType = "ImportBinding"
)

// Definition records one declaration of a variable. Node is the declaring
// construct: the variable_declarator (or for-in head), the function or
// class node, the catch clause, or the import statement. Kind is set for
// Variable definitions only: var, let, const, or type for TS aliases.
type Definition struct {
	Type DefType
	Node *jsast.Node
	Kind string
}

// Variable is a named binding owned by the scope that introduces it.
// Identifiers holds the AST node of every declared name occurrence;
// Identifiers[0] is the defining occurrence.
type Variable struct {
	Name        string
	Defs        []Definition
	Identifiers []*jsast.Node
	Scope       *Scope
}

// Reference is one syntactic use of an identifier. Resolved is nil for
// implicit globals and other unresolved names. Init marks the declaration's
// own defining occurrence (the write performed by an initializer), never a
// later use.
type Reference struct {
	Name       string
	Identifier *jsast.Node
	From       *Scope
	Resolved   *Variable
	Init       bool
}

// Scope is one lexical scoping region. VariableScope points at the nearest
// enclosing function/global/module scope, itself included.
type Scope struct {
	Type          ScopeType
	Block         *jsast.Node
	Parent        *Scope
	VariableScope *Scope
	ChildScopes   []*Scope
	Variables     []*Variable
	References    []*Reference

	names map[string]*Variable
}

// Lookup resolves a name through the scope chain, innermost first.
func (s *Scope) Lookup(name string) *Variable {
	for scope := s; scope != nil; scope = scope.Parent {
		if v, ok := scope.names[name]; ok {
			return v
		}
	}
	return nil
}

// CountScopes returns the number of scopes in the subtree rooted here.
func (s *Scope) CountScopes() int {
	n := 1
	for _, c := range s.ChildScopes {
		n += c.CountScopes()
	}
	return n
}
