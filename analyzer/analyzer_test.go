package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/mica/ir"
	"github.com/akashmaji946/mica/lexer"
	"github.com/akashmaji946/mica/parser"
	"github.com/akashmaji946/mica/types"
)

func mustAnalyze(t *testing.T, src string) (*ir.Source, error) {
	t.Helper()
	tokens, err := lexer.Lex(src)
	assert.NoError(t, err)
	ast, err := parser.Parse(tokens)
	assert.NoError(t, err)
	return Analyze(ast, NewGlobalScope())
}

func TestAnalyze_LetInfersTypeFromValue(t *testing.T) {
	out, err := mustAnalyze(t, `LET x = 1;`)
	assert.NoError(t, err)
	let := out.Statements[0].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.Integer))
}

func TestAnalyze_LetWithNeitherTypeNorValueIsAny(t *testing.T) {
	out, err := mustAnalyze(t, `LET x;`)
	assert.NoError(t, err)
	let := out.Statements[0].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.Any))
}

func TestAnalyze_LetTypeMismatchErrors(t *testing.T) {
	_, err := mustAnalyze(t, `LET x: Integer = "s";`)
	assert.Error(t, err)
}

func TestAnalyze_DuplicateLetInSameFrameErrors(t *testing.T) {
	_, err := mustAnalyze(t, `LET x = 1; LET x = 2;`)
	assert.Error(t, err)
}

func TestAnalyze_DefAllowsRecursion(t *testing.T) {
	_, err := mustAnalyze(t, `DEF fact(n: Integer): Integer DO RETURN fact(n); END`)
	assert.NoError(t, err)
}

func TestAnalyze_DefReturnTypeViolationErrors(t *testing.T) {
	_, err := mustAnalyze(t, `DEF f(): Decimal DO RETURN "x"; END`)
	assert.Error(t, err, "string is not a subtype of Decimal")
}

func TestAnalyze_ReturnOutsideFunctionErrors(t *testing.T) {
	_, err := mustAnalyze(t, `RETURN 1;`)
	assert.Error(t, err)
}

func TestAnalyze_IfConditionMustBeBoolean(t *testing.T) {
	_, err := mustAnalyze(t, `IF 1 DO LET x = 1; END`)
	assert.Error(t, err)

	_, err = mustAnalyze(t, `IF TRUE DO LET x = 1; END`)
	assert.NoError(t, err)
}

func TestAnalyze_ForLoopVariableIsInteger(t *testing.T) {
	out, err := mustAnalyze(t, `FOR i IN range(1, 2) DO LET x = i + 1; END`)
	assert.NoError(t, err)
	forStmt := out.Statements[0].(*ir.ForStmt)
	assert.Equal(t, "i", forStmt.Name)
}

func TestAnalyze_BinaryPlusOnStrings(t *testing.T) {
	out, err := mustAnalyze(t, `LET s = "a" + 1;`)
	assert.NoError(t, err)
	let := out.Statements[0].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.String))
}

func TestAnalyze_BinaryArithmeticRequiresSameType(t *testing.T) {
	_, err := mustAnalyze(t, `LET x = 1 - 1.5;`)
	assert.Error(t, err)
}

func TestAnalyze_BinaryComparisonProducesBoolean(t *testing.T) {
	out, err := mustAnalyze(t, `LET x = 1 < 2;`)
	assert.NoError(t, err)
	let := out.Statements[0].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.Boolean))
}

func TestAnalyze_AndOrRequireBoolean(t *testing.T) {
	_, err := mustAnalyze(t, `LET x = 1 AND TRUE;`)
	assert.Error(t, err)
}

func TestAnalyze_UndefinedVariableErrors(t *testing.T) {
	_, err := mustAnalyze(t, `LET x = y;`)
	assert.Error(t, err)
}

func TestAnalyze_AssignmentToUndefinedVariableErrors(t *testing.T) {
	_, err := mustAnalyze(t, `x = 1;`)
	assert.Error(t, err)
}

func TestAnalyze_AssignmentTypeMismatchErrors(t *testing.T) {
	_, err := mustAnalyze(t, `LET x: Integer = 1; x = "s";`)
	assert.Error(t, err)
}

func TestAnalyze_FunctionCallArityMismatchErrors(t *testing.T) {
	_, err := mustAnalyze(t, `DEF f(a) DO RETURN a; END f();`)
	assert.Error(t, err)
}

func TestAnalyze_ObjectPropertyTypeIsMemberType_NotUnconditionalString(t *testing.T) {
	out, err := mustAnalyze(t, `
		LET p = OBJECT Point DO
			LET x: Integer = 1;
		END;
		LET y = p.x;
	`)
	assert.NoError(t, err)
	let := out.Statements[1].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.Integer), "Property type must be the resolved member type, not String unconditionally")
}

func TestAnalyze_ObjectDuplicateMemberNameErrors(t *testing.T) {
	_, err := mustAnalyze(t, `
		LET p = OBJECT DO
			LET x: Integer = 1;
			DEF x() DO RETURN 1; END
		END;
	`)
	assert.Error(t, err)
}

func TestAnalyze_ObjectFieldWithNeitherTypeNorValueErrors(t *testing.T) {
	_, err := mustAnalyze(t, `
		LET p = OBJECT DO
			LET x;
		END;
	`)
	assert.Error(t, err)
}

func TestAnalyze_ObjectNameCollidesWithPrimitiveErrors(t *testing.T) {
	_, err := mustAnalyze(t, `LET p = OBJECT Integer DO LET x: Integer = 1; END;`)
	assert.Error(t, err)
}

func TestAnalyze_ObjectMethodRequiresExplicitParamTypes(t *testing.T) {
	_, err := mustAnalyze(t, `
		LET p = OBJECT DO
			DEF sum(a) DO RETURN a; END
		END;
	`)
	assert.Error(t, err)
}

func TestAnalyze_MethodCallOnObject(t *testing.T) {
	out, err := mustAnalyze(t, `
		LET p = OBJECT DO
			LET x: Integer = 1;
			DEF get(): Integer DO RETURN x; END
		END;
		LET v = p.get();
	`)
	assert.NoError(t, err)
	let := out.Statements[1].(*ir.LetStmt)
	assert.True(t, types.Equal(let.Type, types.Integer))
}

func TestAnalyze_TwoObjectLiteralsAreDistinctTypes(t *testing.T) {
	out, err := mustAnalyze(t, `
		LET a = OBJECT DO LET x: Integer = 1; END;
		LET b = OBJECT DO LET x: Integer = 1; END;
	`)
	assert.NoError(t, err)
	letA := out.Statements[0].(*ir.LetStmt)
	letB := out.Statements[1].(*ir.LetStmt)
	assert.False(t, types.Equal(letA.Type, letB.Type), "structurally identical object literals are still distinct nominal types")
}
