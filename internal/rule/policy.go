// Package rule implements the use-before-define check over an analyzed
// scope graph: a policy saying which binding categories are forbidden to
// forward-reference, a classifier mapping each resolved reference to a
// category, a self-initializer detector, and the scope walker that emits
// diagnostics.
package rule

import (
	"fmt"

	uerr "ubd/internal/errors"
)

// NoFunc is the literal policy token that exempts function declarations
// and leaves every other category forbidden.
const NoFunc = "nofunc"

// Policy maps each binding category to forbidden (true) or allowed
// (false). The zero value allows everything; use DefaultPolicy for the
// rule's defaults. A Policy is immutable once built and safe to share
// across concurrent check runs.
type Policy struct {
	Functions bool `json:"functions"`
	Classes   bool `json:"classes"`
	Variables bool `json:"variables"`
	Typedefs  bool `json:"typedefs"`
}

// DefaultPolicy forbids every category.
func DefaultPolicy() Policy {
	return Policy{Functions: true, Classes: true, Variables: true, Typedefs: true}
}

// Overrides carries optional per-category settings; nil fields keep the
// default (forbidden).
type Overrides struct {
	Functions *bool `json:"functions,omitempty" mapstructure:"functions" yaml:"functions" toml:"functions"`
	Classes   *bool `json:"classes,omitempty" mapstructure:"classes" yaml:"classes" toml:"classes"`
	Variables *bool `json:"variables,omitempty" mapstructure:"variables" yaml:"variables" toml:"variables"`
	Typedefs  *bool `json:"typedefs,omitempty" mapstructure:"typedefs" yaml:"typedefs" toml:"typedefs"`
}

// Policy applies the overrides on top of the defaults.
func (o Overrides) Policy() Policy {
	p := DefaultPolicy()
	applyOverride(&p.Functions, o.Functions)
	applyOverride(&p.Classes, o.Classes)
	applyOverride(&p.Variables, o.Variables)
	applyOverride(&p.Typedefs, o.Typedefs)
	return p
}

func applyOverride(dst *bool, value *bool) {
	if value != nil {
		*dst = *value
	}
}

// ParsePolicy accepts the two configuration shapes of the rule: the
// literal "nofunc" string, or an object overriding any subset of the four
// booleans. nil yields the defaults.
func ParsePolicy(raw interface{}) (Policy, error) {
	switch value := raw.(type) {
	case nil:
		return DefaultPolicy(), nil

	case string:
		if value == NoFunc {
			p := DefaultPolicy()
			p.Functions = false
			return p, nil
		}
		return Policy{}, uerr.New(uerr.PolicyInvalid,
			fmt.Sprintf("unknown policy literal %q (only %q is recognized)", value, NoFunc), nil)

	case map[string]interface{}:
		p := DefaultPolicy()
		for key, field := range map[string]*bool{
			"functions": &p.Functions,
			"classes":   &p.Classes,
			"variables": &p.Variables,
			"typedefs":  &p.Typedefs,
		} {
			v, ok := value[key]
			if !ok {
				continue
			}
			flag, ok := v.(bool)
			if !ok {
				return Policy{}, uerr.New(uerr.PolicyInvalid,
					fmt.Sprintf("policy field %q must be a boolean", key), nil)
			}
			*field = flag
		}
		for key := range value {
			switch key {
			case "functions", "classes", "variables", "typedefs":
			default:
				return Policy{}, uerr.New(uerr.PolicyInvalid,
					fmt.Sprintf("unknown policy field %q", key), nil)
			}
		}
		return p, nil

	default:
		return Policy{}, uerr.New(uerr.PolicyInvalid,
			fmt.Sprintf("policy must be %q or an object, got %T", NoFunc, raw), nil)
	}
}
