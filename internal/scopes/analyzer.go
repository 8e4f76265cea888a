package scopes

import (
	"fmt"

	"ubd/internal/jsast"
)

// SourceType selects the kind of top-level scope a file gets.
type SourceType string

const (
	// SourceModule treats the file as an ES module.
	SourceModule SourceType = "module"
	// SourceScript treats the file as a classic script.
	SourceScript SourceType = "script"
)

// ParseSourceType validates a source-type flag value.
func ParseSourceType(s string) (SourceType, error) {
	switch SourceType(s) {
	case SourceModule, SourceScript:
		return SourceType(s), nil
	default:
		return "", fmt.Errorf("unknown source type %q (want module or script)", s)
	}
}

// Options configures scope analysis.
type Options struct {
	SourceType SourceType
}

// Analyze builds the scope graph for a parsed file. The returned scope is
// the whole-program (top) scope. The graph is fully resolved: every
// reference either points at its variable or carries a nil Resolved.
func Analyze(tree *jsast.Tree, opts Options) *Scope {
	topType := ScopeModule
	if opts.SourceType == SourceScript {
		topType = ScopeGlobal
	}

	b := &builder{tree: tree}
	top := b.newScope(topType, tree.Root, nil)
	b.current = top
	b.visitChildren(tree.Root)

	resolve(top)
	return top
}

// builder walks the syntax tree once, creating scopes, definitions and
// unresolved references in source order.
type builder struct {
	tree    *jsast.Tree
	current *Scope
}

func (b *builder) newScope(t ScopeType, block *jsast.Node, parent *Scope) *Scope {
	s := &Scope{
		Type:   t,
		Block:  block,
		Parent: parent,
		names:  make(map[string]*Variable),
	}
	if t == ScopeGlobal || t == ScopeModule || t == ScopeFunction {
		s.VariableScope = s
	} else {
		s.VariableScope = parent.VariableScope
	}
	if parent != nil {
		parent.ChildScopes = append(parent.ChildScopes, s)
	}
	return s
}

func (b *builder) push(t ScopeType, block *jsast.Node) *Scope {
	s := b.newScope(t, block, b.current)
	b.current = s
	return s
}

func (b *builder) pop() {
	b.current = b.current.Parent
}

// define records a declared name occurrence on the given scope, creating
// the variable on first sight.
func (b *builder) define(scope *Scope, ident *jsast.Node, def Definition) {
	name := b.tree.Text(ident)
	if name == "" {
		return
	}
	v, ok := scope.names[name]
	if !ok {
		v = &Variable{Name: name, Scope: scope}
		scope.names[name] = v
		scope.Variables = append(scope.Variables, v)
	}
	v.Defs = append(v.Defs, def)
	v.Identifiers = append(v.Identifiers, ident)
}

func (b *builder) addReference(ident *jsast.Node, init bool) {
	b.current.References = append(b.current.References, &Reference{
		Name:       b.tree.Text(ident),
		Identifier: ident,
		From:       b.current,
		Init:       init,
	})
}

func (b *builder) visitChildren(n *jsast.Node) {
	for _, c := range n.Children {
		if c.Named {
			b.visit(c)
		}
	}
}

func (b *builder) visit(n *jsast.Node) {
	switch n.Type {
	case "function_declaration", "generator_function_declaration":
		if name := n.ChildByField("name"); name != nil {
			b.define(b.current, name, Definition{Type: DefFunctionName, Node: n})
		}
		b.enterFunction(n, nil)

	case "function", "function_expression", "generator_function":
		b.enterFunction(n, n.ChildByField("name"))

	case "arrow_function", "method_definition":
		b.enterFunction(n, nil)

	case "class_declaration":
		name := n.ChildByField("name")
		if name != nil {
			b.define(b.current, name, Definition{Type: DefClassName, Node: n})
		}
		b.enterClass(n, name)

	case "class":
		b.enterClass(n, n.ChildByField("name"))

	case "statement_block":
		b.push(ScopeBlock, n)
		b.visitChildren(n)
		b.pop()

	case "variable_declaration":
		b.declaration(n, "var")

	case "lexical_declaration":
		kind := "let"
		if k := n.ChildByField("kind"); k != nil {
			kind = b.tree.Text(k)
		}
		b.declaration(n, kind)

	case "for_statement":
		// Only a lexical head needs its own scope. A var head hoists
		// anyway, and giving it a scope would detach its references
		// from the binding's scope.
		if init := n.ChildByField("initializer"); init != nil && init.Type == "lexical_declaration" {
			b.push(ScopeFor, n)
			b.visitChildren(n)
			b.pop()
		} else {
			b.visitChildren(n)
		}

	case "switch_statement":
		b.push(ScopeBlock, n)
		b.visitChildren(n)
		b.pop()

	case "for_in_statement":
		b.forInStatement(n)

	case "catch_clause":
		b.push(ScopeCatch, n)
		if param := n.ChildByField("parameter"); param != nil {
			b.definePattern(b.current, param, Definition{Type: DefCatchClause, Node: n}, false)
		}
		if body := n.ChildByField("body"); body != nil {
			b.visit(body)
		}
		b.pop()

	case "import_statement":
		b.defineImports(n)

	case "export_statement":
		b.exportStatement(n)

	case "type_alias_declaration", "interface_declaration":
		if name := n.ChildByField("name"); name != nil {
			b.define(b.current, name, Definition{Type: DefVariable, Node: n, Kind: "type"})
		}

	case "enum_declaration":
		if name := n.ChildByField("name"); name != nil {
			b.define(b.current, name, Definition{Type: DefVariable, Node: n, Kind: "const"})
		}
		if body := n.ChildByField("body"); body != nil {
			b.visitChildren(body)
		}

	case "identifier", "shorthand_property_identifier":
		b.addReference(n, false)

	default:
		b.visitChildren(n)
	}
}

// enterFunction opens a function scope, binds the expression's own name
// (if any) and its parameters inside it, then walks the body without an
// extra block scope.
func (b *builder) enterFunction(n *jsast.Node, innerName *jsast.Node) {
	fn := b.push(ScopeFunction, n)

	if innerName != nil {
		b.define(fn, innerName, Definition{Type: DefFunctionName, Node: n})
	}

	if params := n.ChildByField("parameters"); params != nil {
		for _, p := range params.NamedChildren() {
			if p.Type == "this" {
				continue
			}
			b.definePattern(fn, p, Definition{Type: DefParameter, Node: n}, false)
		}
	} else if p := n.ChildByField("parameter"); p != nil {
		b.definePattern(fn, p, Definition{Type: DefParameter, Node: n}, false)
	}

	if body := n.ChildByField("body"); body != nil {
		if body.Type == "statement_block" {
			b.visitChildren(body)
		} else {
			b.visit(body)
		}
	}

	b.pop()
}

// enterClass opens a class scope holding the class's inner name binding,
// then walks heritage, fields and methods.
func (b *builder) enterClass(n *jsast.Node, name *jsast.Node) {
	b.push(ScopeClass, n)
	if name != nil {
		b.define(b.current, name, Definition{Type: DefClassName, Node: n})
	}
	for _, c := range n.Children {
		if c.Named && c != name {
			b.visit(c)
		}
	}
	b.pop()
}

// declaration handles var/let/const statements. var names hoist to the
// nearest variable scope; lexical names bind in the current scope.
func (b *builder) declaration(n *jsast.Node, kind string) {
	target := b.current
	if kind == "var" {
		target = b.current.VariableScope
	}
	for _, d := range n.Children {
		if d.Type != "variable_declarator" {
			continue
		}
		pattern := d.ChildByField("name")
		value := d.ChildByField("value")
		if pattern != nil {
			b.definePattern(target, pattern, Definition{Type: DefVariable, Node: d, Kind: kind}, value != nil)
		}
		if value != nil {
			b.visit(value)
		}
	}
}

// forInStatement handles both for-in and for-of. A declaration head binds
// its pattern with the for statement itself as the defining node; a bare
// head is an assignment to existing bindings. Only let/const heads get a
// for scope: a var head hoists, and its head references must stay in the
// scope that owns the binding.
func (b *builder) forInStatement(n *jsast.Node) {
	left := n.ChildByField("left")
	kindNode := n.ChildByField("kind")

	var kind string
	if kindNode != nil {
		kind = b.tree.Text(kindNode)
	}
	lexical := kind == "let" || kind == "const"
	if lexical {
		b.push(ScopeFor, n)
	}

	if kindNode != nil && left != nil {
		target := b.current
		if kind == "var" {
			target = b.current.VariableScope
		}
		b.definePattern(target, left, Definition{Type: DefVariable, Node: n, Kind: kind}, true)
	} else if left != nil {
		b.visit(left)
	}

	if right := n.ChildByField("right"); right != nil {
		b.visit(right)
	}
	if body := n.ChildByField("body"); body != nil {
		b.visit(body)
	}

	if lexical {
		b.pop()
	}
}

// definePattern binds every name inside a (possibly destructuring)
// pattern. Default-value expressions inside the pattern are visited as
// ordinary expressions so their identifiers become references. withInit
// marks defining occurrences that carry an initializing write.
func (b *builder) definePattern(scope *Scope, pattern *jsast.Node, def Definition, withInit bool) {
	switch pattern.Type {
	case "identifier", "type_identifier", "shorthand_property_identifier_pattern":
		b.define(scope, pattern, def)
		if withInit {
			b.addReference(pattern, true)
		}

	case "object_pattern", "array_pattern":
		for _, c := range pattern.NamedChildren() {
			b.definePattern(scope, c, def, withInit)
		}

	case "pair_pattern":
		if v := pattern.ChildByField("value"); v != nil {
			b.definePattern(scope, v, def, withInit)
		}

	case "assignment_pattern", "object_assignment_pattern":
		if left := pattern.ChildByField("left"); left != nil {
			b.definePattern(scope, left, def, withInit)
		}
		if right := pattern.ChildByField("right"); right != nil {
			b.visit(right)
		}

	case "rest_pattern":
		for _, c := range pattern.NamedChildren() {
			b.definePattern(scope, c, def, withInit)
		}

	case "required_parameter", "optional_parameter":
		if p := pattern.ChildByField("pattern"); p != nil {
			b.definePattern(scope, p, def, withInit)
		}
		if v := pattern.ChildByField("value"); v != nil {
			b.visit(v)
		}
	}
}

// defineImports binds every local name an import statement introduces.
func (b *builder) defineImports(n *jsast.Node) {
	def := Definition{Type: DefImportBinding, Node: n}
	clause := firstChildOfType(n, "import_clause")
	if clause == nil {
		return
	}
	for _, c := range clause.NamedChildren() {
		switch c.Type {
		case "identifier":
			b.define(b.current, c, def)
		case "namespace_import":
			for _, nc := range c.NamedChildren() {
				if nc.Type == "identifier" {
					b.define(b.current, nc, def)
				}
			}
		case "named_imports":
			for _, spec := range c.NamedChildren() {
				if spec.Type != "import_specifier" {
					continue
				}
				local := spec.ChildByField("alias")
				if local == nil {
					local = spec.ChildByField("name")
				}
				if local != nil {
					b.define(b.current, local, def)
				}
			}
		}
	}
}

// exportStatement walks exported declarations and records references for
// exported names. Re-exports from another module bind nothing locally.
func (b *builder) exportStatement(n *jsast.Node) {
	if d := n.ChildByField("declaration"); d != nil {
		b.visit(d)
		return
	}
	if v := n.ChildByField("value"); v != nil {
		b.visit(v)
		return
	}
	if n.ChildByField("source") != nil {
		return
	}
	if clause := firstChildOfType(n, "export_clause"); clause != nil {
		for _, spec := range clause.NamedChildren() {
			if spec.Type != "export_specifier" {
				continue
			}
			if name := spec.ChildByField("name"); name != nil && name.Type == "identifier" {
				b.addReference(name, false)
			}
		}
	}
}

func firstChildOfType(n *jsast.Node, t string) *jsast.Node {
	for _, c := range n.Children {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// resolve links every reference in the subtree to the innermost variable
// with its name. Unresolvable references stay nil and are skipped by the
// rule.
func resolve(scope *Scope) {
	for _, ref := range scope.References {
		ref.Resolved = scope.Lookup(ref.Name)
	}
	for _, child := range scope.ChildScopes {
		resolve(child)
	}
}
