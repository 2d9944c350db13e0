// Package ir defines Mica's typed intermediate representation: a mirror
// of the parser's AST in which every statement/expression node carries
// the resolved types.Type the analyzer computed for it.
//
// The generator is the IR's only consumer; the evaluator works directly
// from the untyped parser.AST and never sees an ir.Source.
package ir

import (
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/types"
)

// Source is a fully analyzed program.
type Source struct {
	Statements []Stmt
}

// Stmt is implemented by every typed statement variant.
type Stmt interface {
	stmtNode()
}

// Expr is implemented by every typed expression variant; every variant
// carries the type the analyzer resolved for it.
type Expr interface {
	ExprType() types.Type
}

// Param is a resolved function parameter: its declared or defaulted type.
type Param struct {
	Name string
	Type types.Type
}

// LetStmt mirrors parser.LetStmt with its resolved type attached.
type LetStmt struct {
	Name  string
	Type  types.Type
	Value Expr // nil if no initializer
}

// DefStmt mirrors parser.DefStmt with parameters resolved to Param pairs
// and the declared (possibly defaulted) return type attached.
type DefStmt struct {
	Name       string
	Parameters []Param
	ReturnType types.Type
	Body       []Stmt
}

// IfStmt mirrors parser.IfStmt.
type IfStmt struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// ForStmt mirrors parser.ForStmt. Name's resolved type is always
// types.Integer (the loop variable's fixed type).
type ForStmt struct {
	Name     string
	Iterable Expr
	Body     []Stmt
}

// ReturnStmt mirrors parser.ReturnStmt.
type ReturnStmt struct {
	Value Expr
}

// ExpressionStmt mirrors parser.ExpressionStmt.
type ExpressionStmt struct {
	Expr Expr
}

// AssignmentVariableStmt is the split-out form of an assignment whose
// target is a bare variable name.
type AssignmentVariableStmt struct {
	Variable string
	Value    Expr
}

// AssignmentPropertyStmt is the split-out form of an assignment whose
// target is a property access `recv.name`.
type AssignmentPropertyStmt struct {
	Receiver Expr
	Property string
	Value    Expr
}

func (*LetStmt) stmtNode()                {}
func (*DefStmt) stmtNode()                {}
func (*IfStmt) stmtNode()                 {}
func (*ForStmt) stmtNode()                {}
func (*ReturnStmt) stmtNode()             {}
func (*ExpressionStmt) stmtNode()         {}
func (*AssignmentVariableStmt) stmtNode() {}
func (*AssignmentPropertyStmt) stmtNode() {}

// LiteralExpr mirrors parser.LiteralExpr; Value carries the same decoded
// payload (digit text for Integer/Decimal, decoded string, decoded rune,
// bool, or nil).
type LiteralExpr struct {
	Kind  parser.LiteralKind
	Value any
	Type  types.Type
}

func (e *LiteralExpr) ExprType() types.Type { return e.Type }

// GroupExpr mirrors parser.GroupExpr; its type equals Inner's.
type GroupExpr struct {
	Inner Expr
	Type  types.Type
}

func (e *GroupExpr) ExprType() types.Type { return e.Type }

// BinaryExpr mirrors parser.BinaryExpr with its resolved result type.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Type  types.Type
}

func (e *BinaryExpr) ExprType() types.Type { return e.Type }

// VariableExpr mirrors parser.VariableExpr with its resolved type.
type VariableExpr struct {
	Name string
	Type types.Type
}

func (e *VariableExpr) ExprType() types.Type { return e.Type }

// PropertyExpr mirrors parser.PropertyExpr with its resolved member type.
type PropertyExpr struct {
	Receiver Expr
	Name     string
	Type     types.Type
}

func (e *PropertyExpr) ExprType() types.Type { return e.Type }

// FunctionExpr mirrors parser.FunctionExpr with the callee's resolved
// return type.
type FunctionExpr struct {
	Name string
	Args []Expr
	Type types.Type
}

func (e *FunctionExpr) ExprType() types.Type { return e.Type }

// MethodExpr mirrors parser.MethodExpr with the method's resolved return
// type.
type MethodExpr struct {
	Receiver Expr
	Name     string
	Args     []Expr
	Type     types.Type
}

func (e *MethodExpr) ExprType() types.Type { return e.Type }

// ObjectExpr mirrors parser.ObjectExpr; Type is the *types.Object this
// literal produced, whose Scope carries every field/method's resolved
// type.
type ObjectExpr struct {
	Name    string
	Fields  []*LetStmt
	Methods []*DefStmt
	Type    types.Type
}

func (e *ObjectExpr) ExprType() types.Type { return e.Type }

