package types_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/types"
)

func TestExpr_Basic(t *testing.T) {
	adult, err := types.Expr("adult", "value >= 18")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if !verify(t, adult, 30) || !verify(t, adult, json.Number("18")) {
		t.Fatalf("expected adult to accept 30 and 18")
	}
	if verify(t, adult, 3) {
		t.Fatalf("expected adult to reject 3")
	}
	if name, _ := adult.Name(); name != "adult" {
		t.Fatalf("name: %q", name)
	}
}

func TestExpr_CompileErrorIsConfigurationError(t *testing.T) {
	_, err := types.Expr("bad", "value >=")
	if !dskema.IsConfigurationError(err) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if _, err := types.Expr("notbool", `"x"`); !dskema.IsConfigurationError(err) {
		t.Fatalf("non-boolean expression should fail to compile, got %v", err)
	}
}

func TestExpr_RuntimeErrorAbortsCall(t *testing.T) {
	s := dskema.MustCompile(dskema.M{
		"id": types.Unique(types.Int),
		"n":  types.MustExpr("big", "value > 1"),
	})
	v := dskema.NewValidator()
	_, err := v.Validate(s, map[string]any{"id": 1, "n": "text"})
	var pe *dskema.PredicateError
	if !errors.As(err, &pe) {
		t.Fatalf("expected PredicateError, got %v", err)
	}
	if pe.Key != "n" {
		t.Fatalf("key: %q", pe.Key)
	}
	if seen := v.Seen(s, "id"); len(seen) != 0 {
		t.Fatalf("aborted call must not record unique values, got %v", seen)
	}
}
