package rule

import (
	"errors"
	"testing"

	uerr "ubd/internal/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if !p.Functions || !p.Classes || !p.Variables || !p.Typedefs {
		t.Errorf("default policy must forbid every category, got %+v", p)
	}
}

func TestParsePolicy(t *testing.T) {
	t.Run("nil yields defaults", func(t *testing.T) {
		p, err := ParsePolicy(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p != DefaultPolicy() {
			t.Errorf("got %+v, want defaults", p)
		}
	})

	t.Run("nofunc literal exempts only functions", func(t *testing.T) {
		p, err := ParsePolicy("nofunc")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Policy{Functions: false, Classes: true, Variables: true, Typedefs: true}
		if p != want {
			t.Errorf("got %+v, want %+v", p, want)
		}
	})

	t.Run("unknown literal is rejected", func(t *testing.T) {
		_, err := ParsePolicy("noclass")
		assertPolicyInvalid(t, err)
	})

	t.Run("object overrides a subset", func(t *testing.T) {
		p, err := ParsePolicy(map[string]interface{}{
			"classes":  false,
			"typedefs": false,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := Policy{Functions: true, Classes: false, Variables: true, Typedefs: false}
		if p != want {
			t.Errorf("got %+v, want %+v", p, want)
		}
	})

	t.Run("unknown object key is rejected", func(t *testing.T) {
		_, err := ParsePolicy(map[string]interface{}{"funcs": false})
		assertPolicyInvalid(t, err)
	})

	t.Run("non-boolean value is rejected", func(t *testing.T) {
		_, err := ParsePolicy(map[string]interface{}{"functions": "no"})
		assertPolicyInvalid(t, err)
	})

	t.Run("other types are rejected", func(t *testing.T) {
		_, err := ParsePolicy(42)
		assertPolicyInvalid(t, err)
	})
}

func TestOverridesPolicy(t *testing.T) {
	f := false
	o := Overrides{Functions: &f}
	p := o.Policy()
	want := Policy{Functions: false, Classes: true, Variables: true, Typedefs: true}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}

	if (Overrides{}).Policy() != DefaultPolicy() {
		t.Error("empty overrides must yield the defaults")
	}
}

func assertPolicyInvalid(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var ue *uerr.UbdError
	if !errors.As(err, &ue) || ue.Code != uerr.PolicyInvalid {
		t.Errorf("expected POLICY_INVALID, got %v", err)
	}
}
