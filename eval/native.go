package eval

import (
	"fmt"
	"io"
	"math/big"

	"github.com/akashmaji946/mica/scope"
	"github.com/akashmaji946/mica/value"
)

// NewGlobalScope builds a root Scope<RuntimeValue> populated with the
// native functions spec §4.4/§6 requires (debug, print, log, list,
// range) plus three testing fixtures (variable, function, object) — one
// ready-made value of each non-primitive RuntimeValue kind, so a test can
// exercise Variable/Function-call/Method-call evaluation without first
// having to declare one via a Let or Def of its own. Output from debug,
// print, and log goes to w.
func NewGlobalScope(w io.Writer) *scope.Scope[value.Value] {
	root := scope.New[value.Value](nil)

	native := func(name string, call func(args []value.Value) (value.Value, error)) {
		_ = root.Define(name, &value.Function{Name: name, Call: call})
	}

	native("debug", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, newEvaluateError("debug expects 1 argument, got %d", len(args))
		}
		fmt.Fprintln(w, args[0].Debug())
		return value.Null, nil
	})

	native("print", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, newEvaluateError("print expects 1 argument, got %d", len(args))
		}
		fmt.Fprintln(w, args[0].String())
		return value.Null, nil
	})

	native("log", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, newEvaluateError("log expects 1 argument, got %d", len(args))
		}
		fmt.Fprintln(w, "log: "+args[0].String())
		return args[0], nil
	})

	native("list", func(args []value.Value) (value.Value, error) {
		items := make([]value.Value, len(args))
		copy(items, args)
		return value.List{Items: items}, nil
	})

	native("range", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, newEvaluateError("range expects 2 arguments, got %d", len(args))
		}
		lo, ok := args[0].(value.Integer)
		if !ok {
			return nil, newEvaluateError("range expects Integer arguments")
		}
		hi, ok := args[1].(value.Integer)
		if !ok {
			return nil, newEvaluateError("range expects Integer arguments")
		}
		if lo.Value.Cmp(hi.Value) > 0 {
			return nil, newEvaluateError("range requires a <= b, got %s > %s", lo.Value, hi.Value)
		}
		var items []value.Value
		one := big.NewInt(1)
		for i := new(big.Int).Set(lo.Value); i.Cmp(hi.Value) < 0; i.Add(i, one) {
			items = append(items, value.Integer{Value: new(big.Int).Set(i)})
		}
		return value.List{Items: items}, nil
	})

	// Testing fixtures: one ready-made instance of each non-primitive
	// RuntimeValue variant, for tests that need to exercise Variable,
	// Function-call, or Method-call/Property evaluation paths without
	// first authoring their own Def/ObjectExpr.
	_ = root.Define("variable", value.NewInteger(0))
	native("function", func(args []value.Value) (value.Value, error) {
		return value.Null, nil
	})
	_ = root.Define("object", &value.Object{Name: "", Scope: scope.New[value.Value](nil)})

	return root
}
