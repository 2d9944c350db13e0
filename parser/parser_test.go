package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/mica/lexer"
)

func mustParse(t *testing.T, src string) *Source {
	t.Helper()
	tokens, err := lexer.Lex(src)
	assert.NoError(t, err)
	out, err := Parse(tokens)
	assert.NoError(t, err)
	return out
}

func TestParse_Let(t *testing.T) {
	src := mustParse(t, `LET x: Integer = 1 + 2;`)
	assert.Len(t, src.Statements, 1)
	let := src.Statements[0].(*LetStmt)
	assert.Equal(t, "x", let.Name)
	assert.Equal(t, "Integer", let.Type)
	bin := let.Value.(*BinaryExpr)
	assert.Equal(t, "+", bin.Op)
}

func TestParse_Def(t *testing.T) {
	src := mustParse(t, `DEF f(n) DO RETURN n + 1; END`)
	def := src.Statements[0].(*DefStmt)
	assert.Equal(t, "f", def.Name)
	assert.Equal(t, []string{"n"}, def.Parameters)
	assert.Equal(t, []string{""}, def.ParameterTypes)
	assert.Len(t, def.Body, 1)
	ret := def.Body[0].(*ReturnStmt)
	assert.NotNil(t, ret.Value)
}

func TestParse_DefWithTypedParamsAndReturn(t *testing.T) {
	src := mustParse(t, `DEF add(a: Integer, b: Integer): Integer DO RETURN a + b; END`)
	def := src.Statements[0].(*DefStmt)
	assert.Equal(t, []string{"Integer", "Integer"}, def.ParameterTypes)
	assert.Equal(t, "Integer", def.ReturnType)
}

func TestParse_IfElse(t *testing.T) {
	src := mustParse(t, `IF 1 == 1 DO print(1); ELSE print(2); END`)
	ifs := src.Statements[0].(*IfStmt)
	assert.NotNil(t, ifs.Cond)
	assert.Len(t, ifs.Then, 1)
	assert.Len(t, ifs.Else, 1)
}

func TestParse_For(t *testing.T) {
	src := mustParse(t, `FOR i IN range(0, 3) DO print(i); END`)
	forStmt := src.Statements[0].(*ForStmt)
	assert.Equal(t, "i", forStmt.Name)
	call := forStmt.Iterable.(*FunctionExpr)
	assert.Equal(t, "range", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestParse_Assignment(t *testing.T) {
	src := mustParse(t, `x = 2;`)
	assign := src.Statements[0].(*AssignmentStmt)
	assert.Equal(t, "x", assign.Target.(*VariableExpr).Name)
}

func TestParse_PropertyAssignment(t *testing.T) {
	src := mustParse(t, `p.x = 2;`)
	assign := src.Statements[0].(*AssignmentStmt)
	prop := assign.Target.(*PropertyExpr)
	assert.Equal(t, "x", prop.Name)
}

func TestParse_PrecedenceClimbing(t *testing.T) {
	src := mustParse(t, `1 + 2 * 3;`)
	expr := src.Statements[0].(*ExpressionStmt).Expr.(*BinaryExpr)
	assert.Equal(t, "+", expr.Op)
	rhs := expr.Right.(*BinaryExpr)
	assert.Equal(t, "*", rhs.Op)
}

func TestParse_MethodAndPropertyChain(t *testing.T) {
	src := mustParse(t, `obj.field.method(1, 2);`)
	stmt := src.Statements[0].(*ExpressionStmt).Expr
	method := stmt.(*MethodExpr)
	assert.Equal(t, "method", method.Name)
	assert.Len(t, method.Args, 2)
	prop := method.Receiver.(*PropertyExpr)
	assert.Equal(t, "field", prop.Name)
}

func TestParse_ObjectExpr(t *testing.T) {
	src := mustParse(t, `LET p = OBJECT Point DO
		LET x: Integer = 1;
		DEF sum(): Integer DO RETURN x; END
	END;`)
	let := src.Statements[0].(*LetStmt)
	obj := let.Value.(*ObjectExpr)
	assert.Equal(t, "Point", obj.Name)
	assert.Len(t, obj.Fields, 1)
	assert.Len(t, obj.Methods, 1)
}

func TestParse_StringAndCharacterLiteralDecoding(t *testing.T) {
	src := mustParse(t, `LET s = "hi\n"; LET c = '\'';`)
	s := src.Statements[0].(*LetStmt).Value.(*LiteralExpr)
	assert.Equal(t, LiteralString, s.Kind)
	assert.Equal(t, "hi\n", s.Value)

	c := src.Statements[1].(*LetStmt).Value.(*LiteralExpr)
	assert.Equal(t, LiteralCharacter, c.Kind)
	assert.Equal(t, '\'', c.Value)
}

func TestParse_BooleanAndNilLiterals(t *testing.T) {
	src := mustParse(t, `LET a = TRUE; LET b = FALSE; LET c = NIL;`)
	a := src.Statements[0].(*LetStmt).Value.(*LiteralExpr)
	assert.Equal(t, true, a.Value)
	b := src.Statements[1].(*LetStmt).Value.(*LiteralExpr)
	assert.Equal(t, false, b.Value)
	c := src.Statements[2].(*LetStmt).Value.(*LiteralExpr)
	assert.Equal(t, LiteralNil, c.Kind)
}

func TestParse_GroupExpr(t *testing.T) {
	src := mustParse(t, `(1 + 2) * 3;`)
	bin := src.Statements[0].(*ExpressionStmt).Expr.(*BinaryExpr)
	assert.Equal(t, "*", bin.Op)
	_, ok := bin.Left.(*GroupExpr)
	assert.True(t, ok)
}

func TestParse_KeywordsAreCaseSensitiveIdentifiers(t *testing.T) {
	tokens, err := lexer.Lex(`let x = 1;`)
	assert.NoError(t, err)
	_, err = Parse(tokens)
	assert.Error(t, err, "lowercase 'let' is a plain identifier, not the LET keyword")
}

func TestParse_ErrorOnMissingSemicolon(t *testing.T) {
	tokens, err := lexer.Lex(`LET x = 1`)
	assert.NoError(t, err)
	_, err = Parse(tokens)
	assert.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestParse_NoResidualTokensOnSuccess(t *testing.T) {
	tokens, err := lexer.Lex(`LET x = 1; print(x);`)
	assert.NoError(t, err)
	src, err := Parse(tokens)
	assert.NoError(t, err)
	assert.Len(t, src.Statements, 2)
}
