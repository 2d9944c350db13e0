package analyzer

import (
	"github.com/akashmaji946/mica/scope"
	"github.com/akashmaji946/mica/types"
)

// NewGlobalScope builds a root Scope<Type> with the type signatures of
// the native functions eval.NewGlobalScope binds at runtime, so a
// program calling debug/print/log/range type-checks the same whether it
// is headed for evaluation or generation. list and the variable/function/
// object testing fixtures are evaluator-only (see eval/native.go) and
// have no fixed-arity signature a Function type can express, so they are
// left out of the static scope on purpose.
func NewGlobalScope() *scope.Scope[types.Type] {
	root := scope.New[types.Type](nil)

	_ = root.Define("debug", &types.Function{Params: []types.Type{types.Any}, Returns: types.Nil})
	_ = root.Define("print", &types.Function{Params: []types.Type{types.Any}, Returns: types.Nil})
	_ = root.Define("log", &types.Function{Params: []types.Type{types.Any}, Returns: types.Any})
	_ = root.Define("range", &types.Function{Params: []types.Type{types.Integer, types.Integer}, Returns: types.Iterable})

	return root
}
