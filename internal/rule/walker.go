package rule

import (
	"fmt"

	"ubd/internal/jsast"
	"ubd/internal/scopes"
)

// RuleID identifies the check in reports.
const RuleID = "use-before-define"

// Diagnostic is one finding: the identifier node of the offending
// reference plus the message data.
type Diagnostic struct {
	Node    *jsast.Node
	Name    string
	Message string
}

// Checker runs the use-before-define walk. It holds only the immutable
// policy, so one Checker may serve any number of files concurrently.
type Checker struct {
	policy Policy
}

// NewChecker creates a checker for the given policy.
func NewChecker(policy Policy) *Checker {
	return &Checker{policy: policy}
}

// Check walks the scope tree depth-first from the top scope and returns
// diagnostics in pre-order scope, declaration-order reference sequence.
// The traversal reads the graph only; running it twice yields identical
// output.
func (c *Checker) Check(top *scopes.Scope) []Diagnostic {
	var out []Diagnostic
	c.walk(top, &out)
	return out
}

func (c *Checker) walk(scope *scopes.Scope, out *[]Diagnostic) {
	for _, ref := range scope.References {
		v := ref.Resolved
		if ref.Init || v == nil || len(v.Identifiers) == 0 {
			continue
		}

		// A declaration that textually precedes the use is fine, unless
		// the use sits inside that declaration's own initializer: a
		// self-initializer is position-independent and stays eligible.
		declaredBefore := v.Identifiers[0].Range[1] < ref.Identifier.Range[1]
		if declaredBefore && !isSelfInitializer(v, ref) {
			continue
		}

		if !c.policy.forbids(v, ref) {
			continue
		}

		*out = append(*out, Diagnostic{
			Node:    ref.Identifier,
			Name:    v.Name,
			Message: fmt.Sprintf("'%s' was used before it was defined.", v.Name),
		})
	}

	for _, child := range scope.ChildScopes {
		c.walk(child, out)
	}
}
