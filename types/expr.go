package types

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/reoring/dskema"
	"github.com/reoring/dskema/internal/value"
)

// Expr compiles a boolean expr-lang expression into a named type. The value
// under test is bound to `value`; json.Number values are converted to plain
// numbers first.
//
//	adult, _ := types.Expr("adult", "value >= 18")
//
// A runtime evaluation error aborts the validation call with a
// *dskema.PredicateError.
func Expr(name, code string) (*dskema.Schema, error) {
	program, err := expr.Compile(code, expr.Env(map[string]any{"value": nil}), expr.AsBool())
	if err != nil {
		return nil, &dskema.ConfigurationError{Key: name, Reason: fmt.Sprintf("compile expression %q: %v", code, err)}
	}
	return dskema.Compile(dskema.M{
		dskema.KeyTest: func(v any) (bool, error) { return run(program, v) },
		dskema.KeyName: name,
	})
}

// MustExpr is like Expr but panics on error.
func MustExpr(name, code string) *dskema.Schema {
	s, err := Expr(name, code)
	if err != nil {
		panic(err)
	}
	return s
}

func run(program *vm.Program, v any) (bool, error) {
	out, err := expr.Run(program, map[string]any{"value": value.Plain(v)})
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("expression returned %T, want bool", out)
	}
	return b, nil
}
