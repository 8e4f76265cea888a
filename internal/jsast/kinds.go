package jsast

// Node type tags from the tree-sitter javascript/typescript grammars that
// the analysis inspects. Both the pre- and post-0.20 spellings of the
// anonymous function node are listed because the vendored grammars differ.

// sentinelTypes are structural boundaries that halt the upward
// self-initializer search: function and class declarations/expressions,
// arrow functions, catch clauses, and import/export declarations.
var sentinelTypes = map[string]bool{
	"function":                       true,
	"function_expression":            true,
	"function_declaration":           true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
	"class":                          true,
	"class_declaration":              true,
	"catch_clause":                   true,
	"import_statement":               true,
	"export_statement":               true,
}

// functionTypes introduce a new function (variable) scope.
var functionTypes = map[string]bool{
	"function":                       true,
	"function_expression":            true,
	"function_declaration":           true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
}

// IsSentinel reports whether the node halts self-initializer search.
func IsSentinel(n *Node) bool {
	return n != nil && sentinelTypes[n.Type]
}

// IsFunction reports whether the node introduces a function scope.
func IsFunction(n *Node) bool {
	return n != nil && functionTypes[n.Type]
}

// IsDeclarator reports whether the node is a variable declarator.
func IsDeclarator(n *Node) bool {
	return n != nil && n.Type == "variable_declarator"
}

// IsAssignmentPattern reports whether the node is a default value in a
// destructuring or parameter position, e.g. the `a = 1` in `{a = 1}`.
// Object patterns spell it object_assignment_pattern.
func IsAssignmentPattern(n *Node) bool {
	return n != nil && (n.Type == "assignment_pattern" || n.Type == "object_assignment_pattern")
}

// IsForInOrOf reports whether the node is a for-in or for-of statement.
// The javascript grammar folds both into for_in_statement with an
// operator field.
func IsForInOrOf(n *Node) bool {
	return n != nil && n.Type == "for_in_statement"
}

// IsIdentifier reports whether the node is a plain value identifier.
// Property names, labels and type names carry distinct tags in the
// grammar and never become references.
func IsIdentifier(n *Node) bool {
	return n != nil && n.Type == "identifier"
}
