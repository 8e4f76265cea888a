package rule

import (
	"ubd/internal/scopes"
)

// typeAliasKind marks TS type-alias and interface bindings on Variable
// definitions.
const typeAliasKind = "type"

// forbids decides whether a forward reference to the variable is
// reportable under the policy. Category dispatch runs in fixed priority
// order on the first definition; later definitions never change the
// category.
func (p Policy) forbids(v *scopes.Variable, ref *scopes.Reference) bool {
	if len(v.Defs) == 0 {
		return true
	}
	def := v.Defs[0]

	switch {
	case def.Type == scopes.DefFunctionName:
		return p.Functions

	case def.Type == scopes.DefClassName && isOuter(v, ref):
		// A same-scope, non-top-level class reference deliberately
		// falls through to the default below: classes have no usable
		// hoisted value, so no policy can exempt them there.
		return p.Classes

	case def.Type == scopes.DefVariable && def.Kind == typeAliasKind && !p.Typedefs:
		return false

	case def.Type == scopes.DefVariable && isOuter(v, ref):
		return p.Variables

	default:
		// Parameters, catch bindings, imports, and same-scope
		// non-top-level variables and classes.
		return true
	}
}

// isOuter reports whether the variable lives in a different function
// scope than the reference, or in the top-level scope. Top-level bindings
// are commonly forward-referenced, so they get the same leniency as
// genuinely outer ones.
func isOuter(v *scopes.Variable, ref *scopes.Reference) bool {
	return v.Scope.VariableScope != ref.From.VariableScope ||
		v.Scope.VariableScope.Type.IsTopLevel()
}
