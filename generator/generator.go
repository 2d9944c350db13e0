/*
File    : mica/generator/generator.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package generator turns a fully analyzed ir.Source into host source
// text: every leading top-level Let/Def is hoisted onto a synthetic Main class
// as a static member, and the first top-level statement that is neither
// a Let nor a Def switches emission into a synthetic main entry point
// that the rest of the program falls into.
//
// Generate has no error return, matching the generate(ir) -> string
// external interface: a literal payload the generator cannot encode is
// an upstream bug, reported via panic(*AssertionError) rather than a
// returned error.
package generator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/akashmaji946/mica/ir"
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/types"
)

// indentSize is the number of spaces one nesting level contributes.
const indentSize = 4

// generator accumulates emitted text into buf, tracking the current
// indent depth so nested statements and expressions render with the
// right indentation.
type generator struct {
	buf    bytes.Buffer
	indent int
}

func (g *generator) writeIndent() {
	g.buf.WriteString(strings.Repeat(" ", g.indent))
}

func (g *generator) line(format string, args ...interface{}) {
	g.writeIndent()
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// Generate renders src as a single synthetic Main class: top-level Let
// and Def statements become static members until the first statement of
// another kind is reached, at which point every remaining top-level
// statement (whatever its kind) is emitted into a synthetic main method.
func Generate(src *ir.Source) string {
	g := &generator{}
	g.line("final class Main {")
	g.indent += indentSize

	header := true
	var bodyStmts []ir.Stmt
	for _, stmt := range src.Statements {
		if header {
			switch s := stmt.(type) {
			case *ir.LetStmt:
				g.emitStaticLet(s)
				continue
			case *ir.DefStmt:
				g.emitStaticDef(s)
				continue
			}
			header = false
		}
		bodyStmts = append(bodyStmts, stmt)
	}

	g.line("")
	g.line("static void main(String[] args) {")
	g.indent += indentSize
	for _, stmt := range bodyStmts {
		g.emitStmt(stmt)
	}
	g.indent -= indentSize
	g.line("}")

	g.indent -= indentSize
	g.line("}")
	return g.buf.String()
}

// hostType names the host-language type a Mica static type is rendered
// as. Object gets the treatment spec calls out specially (an
// inferred-type declaration); every other non-primitive kind falls back
// to Object, since nothing in the grammar can construct a value whose
// static type is Function, Equatable, Comparable, or Iterable without
// also being a narrower concrete type at the point of declaration.
func hostType(t types.Type) string {
	switch t.Kind() {
	case types.KindNil:
		return "Object"
	case types.KindBoolean:
		return "boolean"
	case types.KindInteger:
		return "BigInteger"
	case types.KindDecimal:
		return "BigDecimal"
	case types.KindString:
		return "String"
	case types.KindCharacter:
		return "char"
	case types.KindObject:
		return "var"
	default:
		return "Object"
	}
}

func (g *generator) emitStaticLet(s *ir.LetStmt) {
	typeName := hostType(s.Type)
	if s.Value == nil {
		g.line("static %s %s;", typeName, s.Name)
		return
	}
	g.line("static %s %s = %s;", typeName, s.Name, g.emitExpr(s.Value))
}

func (g *generator) emitStaticDef(s *ir.DefStmt) {
	g.emitDefWithModifiers(s, "static ")
}

func (g *generator) emitDefWithModifiers(s *ir.DefStmt, modifiers string) {
	params := make([]string, len(s.Parameters))
	for i, p := range s.Parameters {
		params[i] = fmt.Sprintf("%s %s", hostType(p.Type), p.Name)
	}
	g.line("%s%s %s(%s) {", modifiers, hostType(s.ReturnType), s.Name, strings.Join(params, ", "))
	g.indent += indentSize
	for _, stmt := range s.Body {
		g.emitStmt(stmt)
	}
	g.indent -= indentSize
	g.line("}")
}

func (g *generator) emitStmt(stmt ir.Stmt) {
	switch s := stmt.(type) {
	case *ir.LetStmt:
		g.emitLocalLet(s)
	case *ir.DefStmt:
		g.emitDefWithModifiers(s, "")
	case *ir.IfStmt:
		g.emitIf(s)
	case *ir.ForStmt:
		g.emitFor(s)
	case *ir.ReturnStmt:
		g.emitReturn(s)
	case *ir.ExpressionStmt:
		g.line("%s;", g.emitExpr(s.Expr))
	case *ir.AssignmentVariableStmt:
		g.line("%s = %s;", s.Variable, g.emitExpr(s.Value))
	case *ir.AssignmentPropertyStmt:
		g.line("%s.%s = %s;", g.emitExpr(s.Receiver), s.Property, g.emitExpr(s.Value))
	default:
		assertf("unhandled statement type %T", stmt)
	}
}

func (g *generator) emitLocalLet(s *ir.LetStmt) {
	typeName := hostType(s.Type)
	if s.Value == nil {
		g.line("%s %s;", typeName, s.Name)
		return
	}
	g.line("%s %s = %s;", typeName, s.Name, g.emitExpr(s.Value))
}

func (g *generator) emitIf(s *ir.IfStmt) {
	g.line("if (%s) {", g.emitExpr(s.Cond))
	g.indent += indentSize
	for _, stmt := range s.Then {
		g.emitStmt(stmt)
	}
	g.indent -= indentSize
	if len(s.Else) == 0 {
		g.line("}")
		return
	}
	g.line("} else {")
	g.indent += indentSize
	for _, stmt := range s.Else {
		g.emitStmt(stmt)
	}
	g.indent -= indentSize
	g.line("}")
}

func (g *generator) emitFor(s *ir.ForStmt) {
	g.line("for (BigInteger %s : %s) {", s.Name, g.emitExpr(s.Iterable))
	g.indent += indentSize
	for _, stmt := range s.Body {
		g.emitStmt(stmt)
	}
	g.indent -= indentSize
	g.line("}")
}

func (g *generator) emitReturn(s *ir.ReturnStmt) {
	if s.Value == nil {
		g.line("return;")
		return
	}
	g.line("return %s;", g.emitExpr(s.Value))
}

// emitExpr renders expr as a single host-language expression fragment;
// unlike emitStmt it never terminates its own line, so callers compose
// it inline (argument lists, assignment right-hand sides, conditions).
func (g *generator) emitExpr(expr ir.Expr) string {
	switch e := expr.(type) {
	case *ir.LiteralExpr:
		return g.emitLiteral(e)
	case *ir.GroupExpr:
		return "(" + g.emitExpr(e.Inner) + ")"
	case *ir.BinaryExpr:
		return g.emitBinary(e)
	case *ir.VariableExpr:
		return e.Name
	case *ir.PropertyExpr:
		return g.emitExpr(e.Receiver) + "." + e.Name
	case *ir.FunctionExpr:
		return fmt.Sprintf("%s(%s)", e.Name, g.emitArguments(e.Args))
	case *ir.MethodExpr:
		return fmt.Sprintf("%s.%s(%s)", g.emitExpr(e.Receiver), e.Name, g.emitArguments(e.Args))
	case *ir.ObjectExpr:
		return g.emitObject(e)
	default:
		assertf("unhandled expression type %T", expr)
		return ""
	}
}

func (g *generator) emitArguments(args []ir.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = g.emitExpr(a)
	}
	return strings.Join(parts, ", ")
}

func (g *generator) emitLiteral(e *ir.LiteralExpr) string {
	switch e.Kind {
	case parser.LiteralNil:
		return "null"
	case parser.LiteralBoolean:
		b, ok := e.Value.(bool)
		if !ok {
			assertf("boolean literal carries non-bool payload %T", e.Value)
		}
		return strconv.FormatBool(b)
	case parser.LiteralInteger:
		digits, ok := e.Value.(string)
		if !ok {
			assertf("integer literal carries non-string payload %T", e.Value)
		}
		return fmt.Sprintf("new BigInteger(%q)", digits)
	case parser.LiteralDecimal:
		digits, ok := e.Value.(string)
		if !ok {
			assertf("decimal literal carries non-string payload %T", e.Value)
		}
		return fmt.Sprintf("new BigDecimal(%q)", digits)
	case parser.LiteralString:
		s, ok := e.Value.(string)
		if !ok {
			assertf("string literal carries non-string payload %T", e.Value)
		}
		return strconv.Quote(s)
	case parser.LiteralCharacter:
		r, ok := e.Value.(rune)
		if !ok {
			assertf("character literal carries non-rune payload %T", e.Value)
		}
		return strconv.QuoteRune(r)
	default:
		assertf("unencodable literal kind %d", e.Kind)
		return ""
	}
}

func (g *generator) emitBinary(e *ir.BinaryExpr) string {
	switch e.Op {
	case "AND":
		return fmt.Sprintf("%s && %s", g.emitAndOperand(e.Left), g.emitExpr(e.Right))
	case "OR":
		return fmt.Sprintf("%s || %s", g.emitExpr(e.Left), g.emitExpr(e.Right))
	case "==":
		return fmt.Sprintf("Objects.equals(%s, %s)", g.emitExpr(e.Left), g.emitExpr(e.Right))
	case "!=":
		return fmt.Sprintf("!Objects.equals(%s, %s)", g.emitExpr(e.Left), g.emitExpr(e.Right))
	case "<", "<=", ">", ">=":
		return fmt.Sprintf("%s.compareTo(%s) %s 0", g.emitExpr(e.Left), g.emitExpr(e.Right), e.Op)
	case "+":
		if e.Type.Kind() == types.KindString {
			return fmt.Sprintf("%s + %s", g.emitExpr(e.Left), g.emitExpr(e.Right))
		}
		return g.emitNumericMethod(e, "add")
	case "-":
		return g.emitNumericMethod(e, "subtract")
	case "*":
		return g.emitNumericMethod(e, "multiply")
	case "/":
		left, right := g.emitExpr(e.Left), g.emitExpr(e.Right)
		if e.Type.Kind() == types.KindDecimal {
			return fmt.Sprintf("%s.divide(%s, RoundingMode.HALF_EVEN)", left, right)
		}
		return fmt.Sprintf("%s.divide(%s)", left, right)
	default:
		assertf("unhandled binary operator %q", e.Op)
		return ""
	}
}

func (g *generator) emitNumericMethod(e *ir.BinaryExpr, method string) string {
	return fmt.Sprintf("%s.%s(%s)", g.emitExpr(e.Left), method, g.emitExpr(e.Right))
}

// emitAndOperand parenthesizes an OR expression used as AND's left
// operand so the emitted text preserves the source's grouping, since
// && binds tighter than || in the host language.
func (g *generator) emitAndOperand(expr ir.Expr) string {
	if b, ok := expr.(*ir.BinaryExpr); ok && b.Op == "OR" {
		return "(" + g.emitExpr(expr) + ")"
	}
	return g.emitExpr(expr)
}

// emitObject renders an ObjectExpr as an anonymous inline instance: one
// public field per Field and one public method per Method, in source
// order.
func (g *generator) emitObject(e *ir.ObjectExpr) string {
	inner := &generator{indent: g.indent + indentSize}
	inner.line("new Object() {")
	inner.indent += indentSize
	for _, f := range e.Fields {
		typeName := hostType(f.Type)
		if f.Value == nil {
			inner.line("public %s %s;", typeName, f.Name)
			continue
		}
		inner.line("public %s %s = %s;", typeName, f.Name, inner.emitExpr(f.Value))
	}
	for _, m := range e.Methods {
		inner.emitDefWithModifiers(m, "public ")
	}
	inner.indent -= indentSize
	inner.writeIndent()
	inner.buf.WriteString("}")
	return strings.TrimLeft(inner.buf.String(), " ")
}
