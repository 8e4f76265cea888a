package rule

import (
	"ubd/internal/jsast"
	"ubd/internal/scopes"
)

// isSelfInitializer reports whether the reference occurs lexically inside
// the variable's own initializing expression: `var a = a`, a destructuring
// default like `{a = a}`, or the iterated expression of `for (x in x)`.
//
// Detection is scoped strictly to the variable's declaring scope; a
// closure over an in-progress initializer is not self-reference. The walk
// climbs from the defining occurrence's parent using the reference's end
// offset as the probe location. Declarators and for-in/for-of heads are
// hard boundaries that decide the answer; assignment patterns can nest, so
// the walk continues past them; sentinels (function/class bodies, arrow
// functions, catch clauses, import/export declarations) end the search.
func isSelfInitializer(v *scopes.Variable, ref *scopes.Reference) bool {
	if v.Scope != ref.From || len(v.Identifiers) == 0 {
		return false
	}

	location := ref.Identifier.Range[1]

	for node := v.Identifiers[0].Parent; node != nil; node = node.Parent {
		switch {
		case jsast.IsDeclarator(node):
			return jsast.InRange(node.ChildByField("value"), location)

		case jsast.IsForInOrOf(node):
			// The grammar has no declarator under a for-in head, so the
			// iterated-expression check lands here instead of on a
			// declarator's grandparent.
			return jsast.InRange(node.ChildByField("right"), location)

		case jsast.IsAssignmentPattern(node):
			if jsast.InRange(node.ChildByField("right"), location) {
				return true
			}

		case jsast.IsSentinel(node):
			return false
		}
	}

	return false
}
