// Package analyzer implements Mica's semantic analysis pass: it walks the
// parser's untyped AST, resolves every name against a Scope[types.Type],
// checks the subtype lattice at each implicit coercion point, and
// produces a fully typed ir.Source.
package analyzer

import (
	"github.com/akashmaji946/mica/ir"
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/scope"
	"github.com/akashmaji946/mica/types"
)

// returnsSentinel is the analyzer-private binding name carrying the
// enclosing Def's declared return type, per the $RETURNS convention.
const returnsSentinel = "$RETURNS"

// primitiveTypeNames maps a type annotation's literal identifier to its
// resolved types.Type. Function and Object types have no surface syntax
// for annotations, so only primitives are nameable this way.
var primitiveTypeNames = map[string]types.Type{
	"Nil":        types.Nil,
	"Boolean":    types.Boolean,
	"Integer":    types.Integer,
	"Decimal":    types.Decimal,
	"String":     types.String,
	"Character":  types.Character,
	"Any":        types.Any,
	"Equatable":  types.Equatable,
	"Comparable": types.Comparable,
	"Iterable":   types.Iterable,
}

// Analyze type-checks ast against root, returning the typed IR or the
// first AnalyzeError encountered.
func Analyze(ast *parser.Source, root *scope.Scope[types.Type]) (*ir.Source, error) {
	stmts, err := analyzeBlock(ast.Statements, root)
	if err != nil {
		return nil, err
	}
	return &ir.Source{Statements: stmts}, nil
}

func resolveTypeName(name string) (types.Type, error) {
	t, ok := primitiveTypeNames[name]
	if !ok {
		return nil, newAnalyzeError("unknown type %q", name)
	}
	return t, nil
}

func analyzeBlock(stmts []parser.Stmt, sc *scope.Scope[types.Type]) ([]ir.Stmt, error) {
	out := make([]ir.Stmt, 0, len(stmts))
	for _, s := range stmts {
		typed, err := analyzeStmt(s, sc)
		if err != nil {
			return nil, err
		}
		out = append(out, typed)
	}
	return out, nil
}

func analyzeStmt(s parser.Stmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	switch n := s.(type) {
	case *parser.LetStmt:
		return analyzeLet(n, sc)
	case *parser.DefStmt:
		return analyzeDef(n, sc)
	case *parser.IfStmt:
		return analyzeIf(n, sc)
	case *parser.ForStmt:
		return analyzeFor(n, sc)
	case *parser.ReturnStmt:
		return analyzeReturn(n, sc)
	case *parser.ExpressionStmt:
		expr, err := analyzeExpr(n.Expr, sc)
		if err != nil {
			return nil, err
		}
		return &ir.ExpressionStmt{Expr: expr}, nil
	case *parser.AssignmentStmt:
		return analyzeAssignment(n, sc)
	default:
		return nil, newAnalyzeError("unknown statement node %T", s)
	}
}

// analyzeLet implements spec's Let rule: the name must be free in the
// current frame; an explicit annotation must be a known type and the
// value (if any) a subtype of it; with no annotation the type is
// inferred from the value, or Any if there is neither.
func analyzeLet(n *parser.LetStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	if _, exists := sc.LookupLocal(n.Name); exists {
		return nil, newAnalyzeError("%q is already defined in this scope", n.Name)
	}

	var declared types.Type
	if n.Type != "" {
		t, err := resolveTypeName(n.Type)
		if err != nil {
			return nil, err
		}
		declared = t
	}

	var value ir.Expr
	if n.Value != nil {
		v, err := analyzeExpr(n.Value, sc)
		if err != nil {
			return nil, err
		}
		value = v
	}

	var resolved types.Type
	switch {
	case declared != nil && value != nil:
		if !types.RequireSubtype(value.ExprType(), declared) {
			return nil, newAnalyzeError("value of type %s is not a subtype of declared type %s", value.ExprType(), declared)
		}
		resolved = declared
	case declared != nil:
		resolved = declared
	case value != nil:
		resolved = value.ExprType()
	default:
		resolved = types.Any
	}

	if err := sc.Define(n.Name, resolved); err != nil {
		return nil, newAnalyzeError("%s", err)
	}
	return &ir.LetStmt{Name: n.Name, Type: resolved, Value: value}, nil
}

// analyzeDef implements spec's Def rule: the function is bound in the
// current frame before its body is analyzed, so recursive calls resolve.
func analyzeDef(n *parser.DefStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	if _, exists := sc.LookupLocal(n.Name); exists {
		return nil, newAnalyzeError("%q is already defined in this scope", n.Name)
	}
	seen := make(map[string]bool, len(n.Parameters))
	for _, p := range n.Parameters {
		if seen[p] {
			return nil, newAnalyzeError("duplicate parameter name %q", p)
		}
		seen[p] = true
	}

	params := make([]ir.Param, len(n.Parameters))
	paramTypes := make([]types.Type, len(n.Parameters))
	for i, name := range n.Parameters {
		t := types.Any
		if n.ParameterTypes[i] != "" {
			resolved, err := resolveTypeName(n.ParameterTypes[i])
			if err != nil {
				return nil, err
			}
			t = resolved
		}
		params[i] = ir.Param{Name: name, Type: t}
		paramTypes[i] = t
	}

	returns := types.Any
	if n.ReturnType != "" {
		resolved, err := resolveTypeName(n.ReturnType)
		if err != nil {
			return nil, err
		}
		returns = resolved
	}

	fnType := &types.Function{Params: paramTypes, Returns: returns}
	if err := sc.Define(n.Name, fnType); err != nil {
		return nil, newAnalyzeError("%s", err)
	}

	bodyScope := scope.New[types.Type](sc)
	for _, p := range params {
		if err := bodyScope.Define(p.Name, p.Type); err != nil {
			return nil, newAnalyzeError("%s", err)
		}
	}
	if err := bodyScope.Define(returnsSentinel, returns); err != nil {
		return nil, newAnalyzeError("%s", err)
	}
	body, err := analyzeBlock(n.Body, bodyScope)
	if err != nil {
		return nil, err
	}
	return &ir.DefStmt{Name: n.Name, Parameters: params, ReturnType: returns, Body: body}, nil
}

func analyzeIf(n *parser.IfStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	cond, err := analyzeExpr(n.Cond, sc)
	if err != nil {
		return nil, err
	}
	if !types.Equal(cond.ExprType(), types.Boolean) {
		return nil, newAnalyzeError("IF condition must be Boolean, got %s", cond.ExprType())
	}
	then, err := analyzeBlock(n.Then, scope.New[types.Type](sc))
	if err != nil {
		return nil, err
	}
	var elseBody []ir.Stmt
	if n.Else != nil {
		elseBody, err = analyzeBlock(n.Else, scope.New[types.Type](sc))
		if err != nil {
			return nil, err
		}
	}
	return &ir.IfStmt{Cond: cond, Then: then, Else: elseBody}, nil
}

// analyzeFor implements spec's For rule: the iterable must be a subtype
// of Iterable; the loop variable is always Integer, the design's choice
// that iteration yields integers.
func analyzeFor(n *parser.ForStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	iterable, err := analyzeExpr(n.Iterable, sc)
	if err != nil {
		return nil, err
	}
	if !types.RequireSubtype(iterable.ExprType(), types.Iterable) {
		return nil, newAnalyzeError("FOR iterable must be Iterable, got %s", iterable.ExprType())
	}
	bodyScope := scope.New[types.Type](sc)
	if err := bodyScope.Define(n.Name, types.Integer); err != nil {
		return nil, newAnalyzeError("%s", err)
	}
	body, err := analyzeBlock(n.Body, bodyScope)
	if err != nil {
		return nil, err
	}
	return &ir.ForStmt{Name: n.Name, Iterable: iterable, Body: body}, nil
}

// analyzeReturn implements spec's Return rule: only legal where $RETURNS
// is visible; the value (or Nil if absent) must be a subtype of it.
func analyzeReturn(n *parser.ReturnStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	returns, ok := sc.Lookup(returnsSentinel)
	if !ok {
		return nil, newAnalyzeError("RETURN outside of a function body")
	}
	var value ir.Expr
	valueType := types.Type(types.Nil)
	if n.Value != nil {
		v, err := analyzeExpr(n.Value, sc)
		if err != nil {
			return nil, err
		}
		value = v
		valueType = v.ExprType()
	}
	if !types.RequireSubtype(valueType, returns) {
		return nil, newAnalyzeError("return value of type %s is not a subtype of declared return type %s", valueType, returns)
	}
	return &ir.ReturnStmt{Value: value}, nil
}

func analyzeAssignment(n *parser.AssignmentStmt, sc *scope.Scope[types.Type]) (ir.Stmt, error) {
	value, err := analyzeExpr(n.Value, sc)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *parser.VariableExpr:
		varType, ok := sc.Lookup(target.Name)
		if !ok {
			return nil, newAnalyzeError("assignment to undefined variable %q", target.Name)
		}
		if !types.RequireSubtype(value.ExprType(), varType) {
			return nil, newAnalyzeError("value of type %s is not a subtype of %q's type %s", value.ExprType(), target.Name, varType)
		}
		return &ir.AssignmentVariableStmt{Variable: target.Name, Value: value}, nil
	case *parser.PropertyExpr:
		receiver, err := analyzeExpr(target.Receiver, sc)
		if err != nil {
			return nil, err
		}
		obj, ok := receiver.ExprType().(*types.Object)
		if !ok {
			return nil, newAnalyzeError("assignment target's receiver is not an Object")
		}
		memberType, ok := obj.Scope.LookupLocal(target.Name)
		if !ok {
			return nil, newAnalyzeError("object has no member %q", target.Name)
		}
		if !types.RequireSubtype(value.ExprType(), memberType) {
			return nil, newAnalyzeError("value of type %s is not a subtype of member %q's type %s", value.ExprType(), target.Name, memberType)
		}
		return &ir.AssignmentPropertyStmt{Receiver: receiver, Property: target.Name, Value: value}, nil
	default:
		return nil, newAnalyzeError("invalid assignment target")
	}
}

func analyzeExpr(e parser.Expr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	switch n := e.(type) {
	case *parser.LiteralExpr:
		return analyzeLiteral(n)
	case *parser.GroupExpr:
		inner, err := analyzeExpr(n.Inner, sc)
		if err != nil {
			return nil, err
		}
		return &ir.GroupExpr{Inner: inner, Type: inner.ExprType()}, nil
	case *parser.BinaryExpr:
		return analyzeBinary(n, sc)
	case *parser.VariableExpr:
		t, ok := sc.Lookup(n.Name)
		if !ok {
			return nil, newAnalyzeError("undefined name %q", n.Name)
		}
		return &ir.VariableExpr{Name: n.Name, Type: t}, nil
	case *parser.PropertyExpr:
		return analyzeProperty(n, sc)
	case *parser.FunctionExpr:
		return analyzeFunctionCall(n, sc)
	case *parser.MethodExpr:
		return analyzeMethodCall(n, sc)
	case *parser.ObjectExpr:
		return analyzeObject(n, sc)
	default:
		return nil, newAnalyzeError("unknown expression node %T", e)
	}
}

func analyzeLiteral(n *parser.LiteralExpr) (ir.Expr, error) {
	var t types.Type
	switch n.Kind {
	case parser.LiteralNil:
		t = types.Nil
	case parser.LiteralBoolean:
		t = types.Boolean
	case parser.LiteralInteger:
		t = types.Integer
	case parser.LiteralDecimal:
		t = types.Decimal
	case parser.LiteralString:
		t = types.String
	case parser.LiteralCharacter:
		t = types.Character
	default:
		return nil, newAnalyzeError("unknown literal kind %d", n.Kind)
	}
	return &ir.LiteralExpr{Kind: n.Kind, Value: n.Value, Type: t}, nil
}

// arithmeticOps are the operators whose result type is the (shared)
// operand type rather than always Boolean. The grammar's operator set
// has no '%' token, so only the three the lexer can actually produce are
// listed here.
var arithmeticOps = map[string]bool{"-": true, "*": true, "/": true}

func analyzeBinary(n *parser.BinaryExpr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	left, err := analyzeExpr(n.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := analyzeExpr(n.Right, sc)
	if err != nil {
		return nil, err
	}
	lt, rt := left.ExprType(), right.ExprType()

	var resultType types.Type
	switch {
	case n.Op == "+":
		if types.Equal(lt, types.String) || types.Equal(rt, types.String) {
			if !types.RequireSubtype(lt, types.Equatable) || !types.RequireSubtype(rt, types.Equatable) {
				return nil, newAnalyzeError("'+' with a String operand requires both operands to be Equatable")
			}
			resultType = types.String
		} else {
			if !types.RequireSubtype(lt, types.Comparable) || !types.RequireSubtype(rt, types.Comparable) {
				return nil, newAnalyzeError("'+' requires both operands to be Comparable")
			}
			if !types.Equal(lt, rt) {
				return nil, newAnalyzeError("'+' requires operands of the same type, got %s and %s", lt, rt)
			}
			resultType = lt
		}
	case arithmeticOps[n.Op]:
		if !types.RequireSubtype(lt, types.Comparable) || !types.RequireSubtype(rt, types.Comparable) {
			return nil, newAnalyzeError("%q requires both operands to be Comparable", n.Op)
		}
		if !types.Equal(lt, rt) {
			return nil, newAnalyzeError("%q requires operands of the same type, got %s and %s", n.Op, lt, rt)
		}
		resultType = lt
	case n.Op == "<" || n.Op == "<=" || n.Op == ">" || n.Op == ">=":
		if !types.RequireSubtype(lt, types.Comparable) || !types.RequireSubtype(rt, types.Comparable) {
			return nil, newAnalyzeError("%q requires both operands to be Comparable", n.Op)
		}
		if !types.Equal(lt, rt) {
			return nil, newAnalyzeError("%q requires operands of the same type, got %s and %s", n.Op, lt, rt)
		}
		resultType = types.Boolean
	case n.Op == "==" || n.Op == "!=":
		if !types.RequireSubtype(lt, types.Equatable) || !types.RequireSubtype(rt, types.Equatable) {
			return nil, newAnalyzeError("%q requires both operands to be Equatable", n.Op)
		}
		if !types.Equal(lt, rt) {
			return nil, newAnalyzeError("%q requires operands of the same type, got %s and %s", n.Op, lt, rt)
		}
		resultType = types.Boolean
	case n.Op == "AND" || n.Op == "OR":
		if !types.Equal(lt, types.Boolean) || !types.Equal(rt, types.Boolean) {
			return nil, newAnalyzeError("%q requires both operands to be Boolean", n.Op)
		}
		resultType = types.Boolean
	default:
		return nil, newAnalyzeError("unknown binary operator %q", n.Op)
	}
	return &ir.BinaryExpr{Op: n.Op, Left: left, Right: right, Type: resultType}, nil
}

// analyzeProperty resolves the receiver's member type directly, rather
// than binding String unconditionally regardless of the member's actual
// declared type.
func analyzeProperty(n *parser.PropertyExpr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	receiver, err := analyzeExpr(n.Receiver, sc)
	if err != nil {
		return nil, err
	}
	obj, ok := receiver.ExprType().(*types.Object)
	if !ok {
		return nil, newAnalyzeError("property access on non-Object receiver (got %s)", receiver.ExprType())
	}
	memberType, ok := obj.Scope.LookupLocal(n.Name)
	if !ok {
		return nil, newAnalyzeError("object has no member %q", n.Name)
	}
	return &ir.PropertyExpr{Receiver: receiver, Name: n.Name, Type: memberType}, nil
}

func analyzeFunctionCall(n *parser.FunctionExpr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	calleeType, ok := sc.Lookup(n.Name)
	if !ok {
		return nil, newAnalyzeError("undefined function %q", n.Name)
	}
	fn, ok := calleeType.(*types.Function)
	if !ok {
		return nil, newAnalyzeError("%q is not callable (has type %s)", n.Name, calleeType)
	}
	args, err := analyzeArguments(n.Args, fn.Params, sc)
	if err != nil {
		return nil, err
	}
	return &ir.FunctionExpr{Name: n.Name, Args: args, Type: fn.Returns}, nil
}

func analyzeMethodCall(n *parser.MethodExpr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	receiver, err := analyzeExpr(n.Receiver, sc)
	if err != nil {
		return nil, err
	}
	obj, ok := receiver.ExprType().(*types.Object)
	if !ok {
		return nil, newAnalyzeError("method call on non-Object receiver (got %s)", receiver.ExprType())
	}
	memberType, ok := obj.Scope.LookupLocal(n.Name)
	if !ok {
		return nil, newAnalyzeError("object has no member %q", n.Name)
	}
	fn, ok := memberType.(*types.Function)
	if !ok {
		return nil, newAnalyzeError("member %q is not a Function (has type %s)", n.Name, memberType)
	}
	args, err := analyzeArguments(n.Args, fn.Params, sc)
	if err != nil {
		return nil, err
	}
	return &ir.MethodExpr{Receiver: receiver, Name: n.Name, Args: args, Type: fn.Returns}, nil
}

func analyzeArguments(exprs []parser.Expr, params []types.Type, sc *scope.Scope[types.Type]) ([]ir.Expr, error) {
	if len(exprs) != len(params) {
		return nil, newAnalyzeError("expected %d argument(s), got %d", len(params), len(exprs))
	}
	args := make([]ir.Expr, len(exprs))
	for i, e := range exprs {
		arg, err := analyzeExpr(e, sc)
		if err != nil {
			return nil, err
		}
		if !types.RequireSubtype(arg.ExprType(), params[i]) {
			return nil, newAnalyzeError("argument %d of type %s is not a subtype of parameter type %s", i, arg.ExprType(), params[i])
		}
		args[i] = arg
	}
	return args, nil
}

// analyzeObject implements spec's ObjectExpr rule. The member scope is
// built with a temporary parent link to the enclosing scope so field
// initializers can reference outer names; once every field and method
// has been analyzed the link is severed, leaving the stored
// *types.Object an independent root per the scope-discipline invariant
// (member lookups only ever use LookupLocal, so severing the parent
// changes nothing observable — it just makes the invariant literally
// true of the stored type).
func analyzeObject(n *parser.ObjectExpr, sc *scope.Scope[types.Type]) (ir.Expr, error) {
	if n.Name != "" {
		if _, ok := primitiveTypeNames[n.Name]; ok {
			return nil, newAnalyzeError("object name %q collides with a primitive type name", n.Name)
		}
	}

	memberScope := scope.New[types.Type](sc)
	objType := &types.Object{Name: n.Name, Scope: memberScope}

	var fields []*ir.LetStmt
	for _, field := range n.Fields {
		if field.Type == "" && field.Value == nil {
			return nil, newAnalyzeError("object field %q needs a type annotation or an initial value", field.Name)
		}
		typed, err := analyzeLet(field, memberScope)
		if err != nil {
			return nil, err
		}
		fields = append(fields, typed.(*ir.LetStmt))
	}

	var methods []*ir.DefStmt
	for _, method := range n.Methods {
		if err := requireExplicitParamTypes(method); err != nil {
			return nil, err
		}
		typedMethod, err := analyzeMethod(method, memberScope, objType)
		if err != nil {
			return nil, err
		}
		methods = append(methods, typedMethod)
	}

	memberScope.Parent = nil
	return &ir.ObjectExpr{Name: n.Name, Fields: fields, Methods: methods, Type: objType}, nil
}

// requireExplicitParamTypes implements spec's "method parameters require
// explicit types" rule (return type still defaults to Any).
func requireExplicitParamTypes(method *parser.DefStmt) error {
	for i, t := range method.ParameterTypes {
		if t == "" {
			return newAnalyzeError("method %q parameter %q requires an explicit type", method.Name, method.Parameters[i])
		}
	}
	return nil
}

// analyzeMethod mirrors analyzeDef but binds the method in memberScope
// (the object's flat field/method namespace) and analyzes the body in a
// scope where `this` is bound to the object's own type.
func analyzeMethod(n *parser.DefStmt, memberScope *scope.Scope[types.Type], objType *types.Object) (*ir.DefStmt, error) {
	if _, exists := memberScope.LookupLocal(n.Name); exists {
		return nil, newAnalyzeError("%q is already defined on this object", n.Name)
	}

	params := make([]ir.Param, len(n.Parameters))
	paramTypes := make([]types.Type, len(n.Parameters))
	for i, name := range n.Parameters {
		t, err := resolveTypeName(n.ParameterTypes[i])
		if err != nil {
			return nil, err
		}
		params[i] = ir.Param{Name: name, Type: t}
		paramTypes[i] = t
	}

	returns := types.Any
	if n.ReturnType != "" {
		resolved, err := resolveTypeName(n.ReturnType)
		if err != nil {
			return nil, err
		}
		returns = resolved
	}

	fnType := &types.Function{Params: paramTypes, Returns: returns}
	if err := memberScope.Define(n.Name, fnType); err != nil {
		return nil, newAnalyzeError("%s", err)
	}

	bodyScope := scope.New[types.Type](memberScope)
	if err := bodyScope.Define("this", objType); err != nil {
		return nil, newAnalyzeError("%s", err)
	}
	for _, p := range params {
		if err := bodyScope.Define(p.Name, p.Type); err != nil {
			return nil, newAnalyzeError("%s", err)
		}
	}
	if err := bodyScope.Define(returnsSentinel, returns); err != nil {
		return nil, newAnalyzeError("%s", err)
	}
	body, err := analyzeBlock(n.Body, bodyScope)
	if err != nil {
		return nil, err
	}
	return &ir.DefStmt{Name: n.Name, Parameters: params, ReturnType: returns, Body: body}, nil
}
