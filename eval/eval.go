// Package eval implements Mica's tree-walking evaluator. It runs
// directly off the parser's untyped AST — the evaluator is an
// independent sink of the AST, not a consumer of the analyzer's IR — and
// produces a RuntimeValue or the first EvaluateError encountered.
package eval

import (
	"math/big"

	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/scope"
	"github.com/akashmaji946/mica/value"
)

// returnSignal is the internal, non-user-visible control signal a Return
// statement produces. executeBlock propagates it up through enclosing
// statements without unwrapping it; only a function/method call site
// unwraps it into the call's result. It deliberately does not implement
// error — a Return must never surface to a caller as a Go error.
type returnSignal struct {
	Value value.Value
}

// Evaluator holds the single mutable piece of interpreter state: the
// current scope. Every scope transition (function call, if-branch,
// for-iteration, method call) saves the old scope, installs a new child,
// runs nested statements, then restores the old scope.
type Evaluator struct {
	scope *scope.Scope[value.Value]
}

// Evaluate runs ast to completion against root, which must already carry
// whatever native functions the program expects to call (see
// NewGlobalScope). A bare top-level Return (one with no enclosing Def)
// supplies the program's result; otherwise the result is Nil.
func Evaluate(ast *parser.Source, root *scope.Scope[value.Value]) (value.Value, error) {
	e := &Evaluator{scope: root}
	sig, err := e.executeBlock(ast.Statements)
	if err != nil {
		return nil, err
	}
	if sig != nil {
		return sig.Value, nil
	}
	return value.Null, nil
}

// executeBlock runs stmts in the evaluator's current scope, stopping
// early and propagating a *returnSignal the moment one fires.
func (e *Evaluator) executeBlock(stmts []parser.Stmt) (*returnSignal, error) {
	for _, s := range stmts {
		sig, err := e.executeStmt(s)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			return sig, nil
		}
	}
	return nil, nil
}

func (e *Evaluator) executeStmt(s parser.Stmt) (*returnSignal, error) {
	switch n := s.(type) {
	case *parser.LetStmt:
		return nil, e.executeLet(n)
	case *parser.DefStmt:
		return nil, e.executeDef(n)
	case *parser.IfStmt:
		return e.executeIf(n)
	case *parser.ForStmt:
		return e.executeFor(n)
	case *parser.ReturnStmt:
		return e.executeReturn(n)
	case *parser.ExpressionStmt:
		_, err := e.evalExpr(n.Expr)
		return nil, err
	case *parser.AssignmentStmt:
		return nil, e.executeAssignment(n)
	default:
		return nil, newEvaluateError("unknown statement node %T", s)
	}
}

func (e *Evaluator) executeLet(n *parser.LetStmt) error {
	val := value.Value(value.Null)
	if n.Value != nil {
		v, err := e.evalExpr(n.Value)
		if err != nil {
			return err
		}
		val = v
	}
	if err := e.scope.Define(n.Name, val); err != nil {
		return newEvaluateError("%s", err)
	}
	return nil
}

// executeDef constructs a user Function whose closure captures the
// defining scope (the same *scope.Scope pointer the Def statement runs
// in), so recursive calls resolve once the name is bound below.
func (e *Evaluator) executeDef(n *parser.DefStmt) error {
	definingScope := e.scope
	fn := &value.Function{
		Name: n.Name,
		Call: func(args []value.Value) (value.Value, error) {
			return e.invokeUserFunction(n.Parameters, n.Body, definingScope, args)
		},
	}
	if err := e.scope.Define(n.Name, fn); err != nil {
		return newEvaluateError("%s", err)
	}
	return nil
}

// invokeUserFunction runs body in a fresh child of capturedScope with
// parameters bound positionally, restoring the evaluator's previous
// scope on every exit path.
func (e *Evaluator) invokeUserFunction(params []string, body []parser.Stmt, capturedScope *scope.Scope[value.Value], args []value.Value) (value.Value, error) {
	if len(args) != len(params) {
		return nil, newEvaluateError("expected %d argument(s), got %d", len(params), len(args))
	}
	callScope := scope.New[value.Value](capturedScope)
	for i, name := range params {
		if err := callScope.Define(name, args[i]); err != nil {
			return nil, newEvaluateError("%s", err)
		}
	}
	oldScope := e.scope
	e.scope = callScope
	sig, err := e.executeBlock(body)
	e.scope = oldScope
	if err != nil {
		return nil, err
	}
	if sig != nil {
		return sig.Value, nil
	}
	return value.Null, nil
}

func (e *Evaluator) executeIf(n *parser.IfStmt) (*returnSignal, error) {
	cond, err := e.evalExpr(n.Cond)
	if err != nil {
		return nil, err
	}
	boolCond, ok := cond.(value.Boolean)
	if !ok {
		return nil, newEvaluateError("IF condition must be Boolean, got %s", cond.Kind())
	}
	branch := n.Else
	if boolCond.Value {
		branch = n.Then
	}
	return e.runInChildScope(branch)
}

func (e *Evaluator) runInChildScope(stmts []parser.Stmt) (*returnSignal, error) {
	oldScope := e.scope
	e.scope = scope.New[value.Value](oldScope)
	sig, err := e.executeBlock(stmts)
	e.scope = oldScope
	return sig, err
}

func (e *Evaluator) executeFor(n *parser.ForStmt) (*returnSignal, error) {
	iterable, err := e.evalExpr(n.Iterable)
	if err != nil {
		return nil, err
	}
	list, ok := iterable.(value.List)
	if !ok {
		return nil, newEvaluateError("FOR iterable must be a list, got %s", iterable.Kind())
	}
	oldScope := e.scope
	for _, item := range list.Items {
		bodyScope := scope.New[value.Value](oldScope)
		if err := bodyScope.Define(n.Name, item); err != nil {
			e.scope = oldScope
			return nil, newEvaluateError("%s", err)
		}
		e.scope = bodyScope
		sig, err := e.executeBlock(n.Body)
		if err != nil {
			e.scope = oldScope
			return nil, err
		}
		if sig != nil {
			e.scope = oldScope
			return sig, nil
		}
	}
	e.scope = oldScope
	return nil, nil
}

func (e *Evaluator) executeReturn(n *parser.ReturnStmt) (*returnSignal, error) {
	val := value.Value(value.Null)
	if n.Value != nil {
		v, err := e.evalExpr(n.Value)
		if err != nil {
			return nil, err
		}
		val = v
	}
	return &returnSignal{Value: val}, nil
}

func (e *Evaluator) executeAssignment(n *parser.AssignmentStmt) error {
	val, err := e.evalExpr(n.Value)
	if err != nil {
		return err
	}
	switch target := n.Target.(type) {
	case *parser.VariableExpr:
		if !e.scope.Set(target.Name, val) {
			return newEvaluateError("assignment to undefined variable %q", target.Name)
		}
		return nil
	case *parser.PropertyExpr:
		receiver, err := e.evalExpr(target.Receiver)
		if err != nil {
			return err
		}
		obj, ok := receiver.(*value.Object)
		if !ok {
			return newEvaluateError("assignment target's receiver is not an Object")
		}
		if _, ok := obj.Scope.LookupLocal(target.Name); !ok {
			return newEvaluateError("object has no member %q", target.Name)
		}
		obj.Scope.Set(target.Name, val)
		return nil
	default:
		return newEvaluateError("invalid assignment target")
	}
}

func (e *Evaluator) evalExpr(expr parser.Expr) (value.Value, error) {
	switch n := expr.(type) {
	case *parser.LiteralExpr:
		return evalLiteral(n)
	case *parser.GroupExpr:
		return e.evalExpr(n.Inner)
	case *parser.BinaryExpr:
		return e.evalBinary(n)
	case *parser.VariableExpr:
		v, ok := e.scope.Lookup(n.Name)
		if !ok {
			return nil, newEvaluateError("undefined name %q", n.Name)
		}
		return v, nil
	case *parser.PropertyExpr:
		return e.evalProperty(n)
	case *parser.FunctionExpr:
		return e.evalFunctionCall(n)
	case *parser.MethodExpr:
		return e.evalMethodCall(n)
	case *parser.ObjectExpr:
		return e.evalObject(n)
	default:
		return nil, newEvaluateError("unknown expression node %T", expr)
	}
}

func evalLiteral(n *parser.LiteralExpr) (value.Value, error) {
	switch n.Kind {
	case parser.LiteralNil:
		return value.Null, nil
	case parser.LiteralBoolean:
		return value.Boolean{Value: n.Value.(bool)}, nil
	case parser.LiteralInteger:
		i, ok := value.ParseInteger(n.Value.(string))
		if !ok {
			return nil, newEvaluateError("malformed integer literal %q", n.Value)
		}
		return i, nil
	case parser.LiteralDecimal:
		d, ok := value.ParseDecimal(n.Value.(string))
		if !ok {
			return nil, newEvaluateError("malformed decimal literal %q", n.Value)
		}
		return d, nil
	case parser.LiteralString:
		return value.String{Value: n.Value.(string)}, nil
	case parser.LiteralCharacter:
		return value.Character{Value: n.Value.(rune)}, nil
	default:
		return nil, newEvaluateError("unknown literal kind %d", n.Kind)
	}
}

func (e *Evaluator) evalProperty(n *parser.PropertyExpr) (value.Value, error) {
	receiver, err := e.evalExpr(n.Receiver)
	if err != nil {
		return nil, err
	}
	obj, ok := receiver.(*value.Object)
	if !ok {
		return nil, newEvaluateError("property access on non-Object receiver (got %s)", receiver.Kind())
	}
	v, ok := obj.Scope.LookupLocal(n.Name)
	if !ok {
		return nil, newEvaluateError("object has no member %q", n.Name)
	}
	return v, nil
}

func (e *Evaluator) evalArguments(exprs []parser.Expr) ([]value.Value, error) {
	args := make([]value.Value, len(exprs))
	for i, expr := range exprs {
		v, err := e.evalExpr(expr)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return args, nil
}

func (e *Evaluator) evalFunctionCall(n *parser.FunctionExpr) (value.Value, error) {
	callee, ok := e.scope.Lookup(n.Name)
	if !ok {
		return nil, newEvaluateError("undefined function %q", n.Name)
	}
	fn, ok := callee.(*value.Function)
	if !ok {
		return nil, newEvaluateError("%q is not callable (has kind %s)", n.Name, callee.Kind())
	}
	args, err := e.evalArguments(n.Args)
	if err != nil {
		return nil, err
	}
	return fn.Call(args)
}

func (e *Evaluator) evalMethodCall(n *parser.MethodExpr) (value.Value, error) {
	receiver, err := e.evalExpr(n.Receiver)
	if err != nil {
		return nil, err
	}
	obj, ok := receiver.(*value.Object)
	if !ok {
		return nil, newEvaluateError("method call on non-Object receiver (got %s)", receiver.Kind())
	}
	member, ok := obj.Scope.LookupLocal(n.Name)
	if !ok {
		return nil, newEvaluateError("object has no member %q", n.Name)
	}
	fn, ok := member.(*value.Function)
	if !ok {
		return nil, newEvaluateError("member %q is not callable (has kind %s)", n.Name, member.Kind())
	}
	args, err := e.evalArguments(n.Args)
	if err != nil {
		return nil, err
	}
	return fn.Call(args)
}

// evalObject builds an object scope whose parent is the current scope
// (so field initializers and method bodies can close over outer
// bindings), evaluates fields in order with each binding visible to
// later initializers, and installs each method as a Function value
// closed over the object's own scope.
func (e *Evaluator) evalObject(n *parser.ObjectExpr) (value.Value, error) {
	objScope := scope.New[value.Value](e.scope)
	obj := &value.Object{Name: n.Name, Scope: objScope}

	oldScope := e.scope
	e.scope = objScope
	for _, field := range n.Fields {
		if err := e.executeLet(field); err != nil {
			e.scope = oldScope
			return nil, err
		}
	}
	e.scope = oldScope

	for _, method := range n.Methods {
		m := method
		fn := &value.Function{
			Name: m.Name,
			Call: func(args []value.Value) (value.Value, error) {
				return e.invokeMethod(m, objScope, obj, args)
			},
		}
		if err := objScope.Define(m.Name, fn); err != nil {
			return nil, newEvaluateError("%s", err)
		}
	}
	return obj, nil
}

// invokeMethod runs a method body in a scope child of the object scope
// with `this` bound to obj.
func (e *Evaluator) invokeMethod(m *parser.DefStmt, objScope *scope.Scope[value.Value], obj *value.Object, args []value.Value) (value.Value, error) {
	if len(args) != len(m.Parameters) {
		return nil, newEvaluateError("expected %d argument(s), got %d", len(m.Parameters), len(args))
	}
	callScope := scope.New[value.Value](objScope)
	if err := callScope.Define("this", obj); err != nil {
		return nil, newEvaluateError("%s", err)
	}
	for i, name := range m.Parameters {
		if err := callScope.Define(name, args[i]); err != nil {
			return nil, newEvaluateError("%s", err)
		}
	}
	oldScope := e.scope
	e.scope = callScope
	sig, err := e.executeBlock(m.Body)
	e.scope = oldScope
	if err != nil {
		return nil, err
	}
	if sig != nil {
		return sig.Value, nil
	}
	return value.Null, nil
}

func (e *Evaluator) evalBinary(n *parser.BinaryExpr) (value.Value, error) {
	if n.Op == "AND" || n.Op == "OR" {
		return e.evalShortCircuit(n)
	}
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "+", "-", "*", "/":
		return evalArithmetic(n.Op, left, right)
	case "==":
		return value.Boolean{Value: value.Equal(left, right)}, nil
	case "!=":
		return value.Boolean{Value: !value.Equal(left, right)}, nil
	case "<", "<=", ">", ">=":
		return evalComparison(n.Op, left, right)
	default:
		return nil, newEvaluateError("unknown binary operator %q", n.Op)
	}
}

// evalShortCircuit evaluates the right operand only when the left one
// does not already determine the result.
func (e *Evaluator) evalShortCircuit(n *parser.BinaryExpr) (value.Value, error) {
	left, err := e.evalExpr(n.Left)
	if err != nil {
		return nil, err
	}
	leftBool, ok := left.(value.Boolean)
	if !ok {
		return nil, newEvaluateError("%q requires a Boolean left operand, got %s", n.Op, left.Kind())
	}
	if n.Op == "AND" && !leftBool.Value {
		return value.Boolean{Value: false}, nil
	}
	if n.Op == "OR" && leftBool.Value {
		return value.Boolean{Value: true}, nil
	}
	right, err := e.evalExpr(n.Right)
	if err != nil {
		return nil, err
	}
	rightBool, ok := right.(value.Boolean)
	if !ok {
		return nil, newEvaluateError("%q requires a Boolean right operand, got %s", n.Op, right.Kind())
	}
	return rightBool, nil
}

// evalArithmetic implements spec's `+ - * /` rule: string concatenation
// when either side is a String (the other coerced via its printable
// form), otherwise both operands must be numeric and of the same
// numeric kind.
func evalArithmetic(op string, left, right value.Value) (value.Value, error) {
	if op == "+" {
		ls, lok := left.(value.String)
		rs, rok := right.(value.String)
		if lok || rok {
			var l, r string
			if lok {
				l = ls.Value
			} else {
				l = left.String()
			}
			if rok {
				r = rs.Value
			} else {
				r = right.String()
			}
			return value.String{Value: l + r}, nil
		}
	}

	li, lIsInt := left.(value.Integer)
	ri, rIsInt := right.(value.Integer)
	if lIsInt && rIsInt {
		return evalIntegerArithmetic(op, li, ri)
	}
	ld, lIsDec := left.(value.Decimal)
	rd, rIsDec := right.(value.Decimal)
	if lIsDec && rIsDec {
		return evalDecimalArithmetic(op, ld, rd)
	}
	return nil, newEvaluateError("%q requires operands of the same numeric kind, got %s and %s", op, left.Kind(), right.Kind())
}

func evalIntegerArithmetic(op string, l, r value.Integer) (value.Value, error) {
	result := new(big.Int)
	switch op {
	case "+":
		result.Add(l.Value, r.Value)
	case "-":
		result.Sub(l.Value, r.Value)
	case "*":
		result.Mul(l.Value, r.Value)
	case "/":
		if r.Value.Sign() == 0 {
			return nil, newEvaluateError("division by zero")
		}
		result.Quo(l.Value, r.Value)
	default:
		return nil, newEvaluateError("unknown arithmetic operator %q", op)
	}
	return value.Integer{Value: result}, nil
}

// decimalDivisionScale is the fixed number of decimal places a `/`
// result is rounded to; shopspring/decimal.DivisionPrecision (16) is the
// package's own convention for unbounded-precision division.
const decimalDivisionScale = 16

func evalDecimalArithmetic(op string, l, r value.Decimal) (value.Value, error) {
	switch op {
	case "+":
		return value.Decimal{Value: l.Value.Add(r.Value)}, nil
	case "-":
		return value.Decimal{Value: l.Value.Sub(r.Value)}, nil
	case "*":
		return value.Decimal{Value: l.Value.Mul(r.Value)}, nil
	case "/":
		if r.Value.IsZero() {
			return nil, newEvaluateError("division by zero")
		}
		raw := l.Value.DivRound(r.Value, decimalDivisionScale+2)
		return value.Decimal{Value: raw.RoundBank(decimalDivisionScale)}, nil
	default:
		return nil, newEvaluateError("unknown arithmetic operator %q", op)
	}
}

func evalComparison(op string, left, right value.Value) (value.Value, error) {
	if left.Kind() != right.Kind() {
		return nil, newEvaluateError("%q requires operands of the same type, got %s and %s", op, left.Kind(), right.Kind())
	}
	lt, err := value.Less(left, right)
	if err != nil {
		return nil, newEvaluateError("%s", err)
	}
	eq := value.Equal(left, right)
	switch op {
	case "<":
		return value.Boolean{Value: lt}, nil
	case "<=":
		return value.Boolean{Value: lt || eq}, nil
	case ">":
		return value.Boolean{Value: !lt && !eq}, nil
	case ">=":
		return value.Boolean{Value: !lt || eq}, nil
	default:
		return nil, newEvaluateError("unknown comparison operator %q", op)
	}
}
