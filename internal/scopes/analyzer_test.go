//go:build cgo

package scopes_test

import (
	"context"
	"testing"

	"ubd/internal/parser"
	"ubd/internal/scopes"
)

func analyze(t *testing.T, source string, lang parser.Language) *scopes.Scope {
	t.Helper()
	p := parser.NewParser()
	tree, err := p.ParseSource(context.Background(), "test.js", []byte(source), lang)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return scopes.Analyze(tree, scopes.Options{SourceType: scopes.SourceModule})
}

func TestAnalyzeFunctionDeclaration(t *testing.T) {
	top := analyze(t, "f();\nfunction f() {}\n", parser.LangJavaScript)

	if top.Type != scopes.ScopeModule {
		t.Errorf("top scope type = %s, want module", top.Type)
	}
	if got := top.CountScopes(); got != 2 {
		t.Errorf("scope count = %d, want 2 (module + function)", got)
	}

	v := top.Lookup("f")
	if v == nil {
		t.Fatal("f is not defined in the top scope")
	}
	if v.Defs[0].Type != scopes.DefFunctionName {
		t.Errorf("definition type = %s, want FunctionName", v.Defs[0].Type)
	}

	if len(top.References) != 1 {
		t.Fatalf("top references = %d, want 1", len(top.References))
	}
	ref := top.References[0]
	if ref.Resolved != v {
		t.Error("call reference should resolve to the function binding")
	}
	if ref.Init {
		t.Error("a call is not an initializing occurrence")
	}
}

func TestAnalyzeSelfInitializer(t *testing.T) {
	top := analyze(t, "var a = a;\n", parser.LangJavaScript)

	v := top.Lookup("a")
	if v == nil {
		t.Fatal("a is not defined")
	}

	// One init reference for the declared name, one plain reference from
	// the initializer expression.
	var initRefs, plainRefs int
	for _, ref := range top.References {
		if ref.Resolved != v {
			continue
		}
		if ref.Init {
			initRefs++
		} else {
			plainRefs++
		}
	}
	if initRefs != 1 || plainRefs != 1 {
		t.Errorf("got %d init and %d plain references, want 1 and 1", initRefs, plainRefs)
	}
}

func TestAnalyzeBlockScoping(t *testing.T) {
	top := analyze(t, "{ let x = 1; }\nx;\n", parser.LangJavaScript)

	if top.Lookup("x") != nil {
		t.Error("let inside a block must not leak to the top scope")
	}

	if len(top.ChildScopes) != 1 {
		t.Fatalf("child scopes = %d, want 1", len(top.ChildScopes))
	}
	block := top.ChildScopes[0]
	if block.Type != scopes.ScopeBlock {
		t.Errorf("child scope type = %s, want block", block.Type)
	}
	if block.Lookup("x") == nil {
		t.Error("x should be bound in the block scope")
	}

	// The trailing use of x resolves to nothing.
	for _, ref := range top.References {
		if ref.Name == "x" && ref.Resolved != nil {
			t.Error("top-level x should be unresolved")
		}
	}
}

func TestAnalyzeVarHoisting(t *testing.T) {
	top := analyze(t, "function g() { { var v = 1; } }\n", parser.LangJavaScript)

	if len(top.ChildScopes) != 1 {
		t.Fatalf("child scopes = %d, want 1", len(top.ChildScopes))
	}
	fn := top.ChildScopes[0]
	if fn.Type != scopes.ScopeFunction {
		t.Fatalf("child scope type = %s, want function", fn.Type)
	}

	v := fn.Lookup("v")
	if v == nil {
		t.Fatal("v is not visible in the function scope")
	}
	if v.Scope != fn {
		t.Error("var inside a block must hoist to the function scope")
	}
}

func TestAnalyzeForHeads(t *testing.T) {
	hasForScope := func(s *scopes.Scope) bool {
		var walk func(*scopes.Scope) bool
		walk = func(s *scopes.Scope) bool {
			if s.Type == scopes.ScopeFor {
				return true
			}
			for _, c := range s.ChildScopes {
				if walk(c) {
					return true
				}
			}
			return false
		}
		return walk(s)
	}

	t.Run("var for-in head hoists without a for scope", func(t *testing.T) {
		top := analyze(t, "for (var x in x) {}\n", parser.LangJavaScript)

		if hasForScope(top) {
			t.Error("a var head must not open a for scope")
		}

		v := top.Lookup("x")
		if v == nil {
			t.Fatal("x is not defined in the top scope")
		}
		if v.Scope != top {
			t.Error("var head binding must hoist to the enclosing variable scope")
		}

		// The iterated-expression reference must sit in the binding's own
		// scope so self-initializer detection can see it.
		var plain *scopes.Reference
		for _, ref := range top.References {
			if ref.Resolved == v && !ref.Init {
				plain = ref
			}
		}
		if plain == nil {
			t.Fatal("no plain reference to x in the top scope")
		}
		if plain.From != v.Scope {
			t.Error("head reference and binding should share a scope")
		}
	})

	t.Run("lexical for-of head gets its own for scope", func(t *testing.T) {
		top := analyze(t, "for (const y of y) {}\n", parser.LangJavaScript)

		if top.Lookup("y") != nil {
			t.Error("const head binding must not leak to the top scope")
		}
		if len(top.ChildScopes) != 1 {
			t.Fatalf("child scopes = %d, want 1", len(top.ChildScopes))
		}
		forScope := top.ChildScopes[0]
		if forScope.Type != scopes.ScopeFor {
			t.Errorf("child scope type = %s, want for", forScope.Type)
		}
		if forScope.Lookup("y") == nil {
			t.Error("y should be bound in the for scope")
		}
	})

	t.Run("var for-loop initializer hoists without a for scope", func(t *testing.T) {
		top := analyze(t, "for (var a = 0; false; ) {}\n", parser.LangJavaScript)

		if hasForScope(top) {
			t.Error("a var initializer must not open a for scope")
		}
		v := top.Lookup("a")
		if v == nil {
			t.Fatal("a is not defined in the top scope")
		}
		if v.Scope != top {
			t.Error("var initializer binding must hoist to the enclosing variable scope")
		}
	})
}

func TestAnalyzeImports(t *testing.T) {
	top := analyze(t, "import def, { a as b } from \"m\";\nb;\ndef;\n", parser.LangJavaScript)

	for _, name := range []string{"def", "b"} {
		v := top.Lookup(name)
		if v == nil {
			t.Fatalf("%s is not defined", name)
		}
		if v.Defs[0].Type != scopes.DefImportBinding {
			t.Errorf("%s definition type = %s, want ImportBinding", name, v.Defs[0].Type)
		}
	}
	if top.Lookup("a") != nil {
		t.Error("the imported name behind an alias must not be bound")
	}
}

func TestAnalyzeTypeAlias(t *testing.T) {
	top := analyze(t, "type T = string;\nlet v: T = \"x\";\n", parser.LangTypeScript)

	v := top.Lookup("T")
	if v == nil {
		t.Fatal("T is not defined")
	}
	if v.Defs[0].Kind != "type" {
		t.Errorf("T definition kind = %q, want type", v.Defs[0].Kind)
	}
}

func TestAnalyzeCatchClause(t *testing.T) {
	top := analyze(t, "try {} catch (e) { e; }\n", parser.LangJavaScript)

	var catchScope *scopes.Scope
	var find func(s *scopes.Scope)
	find = func(s *scopes.Scope) {
		if s.Type == scopes.ScopeCatch {
			catchScope = s
		}
		for _, c := range s.ChildScopes {
			find(c)
		}
	}
	find(top)

	if catchScope == nil {
		t.Fatal("no catch scope was created")
	}
	v := catchScope.Lookup("e")
	if v == nil {
		t.Fatal("e is not bound in the catch scope")
	}
	if v.Defs[0].Type != scopes.DefCatchClause {
		t.Errorf("e definition type = %s, want CatchClause", v.Defs[0].Type)
	}
}
