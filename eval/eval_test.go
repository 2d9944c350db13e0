package eval

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/akashmaji946/mica/lexer"
	"github.com/akashmaji946/mica/parser"
)

func runProgram(t *testing.T, src string) (string, error) {
	t.Helper()
	tokens, err := lexer.Lex(src)
	assert.NoError(t, err)
	ast, err := parser.Parse(tokens)
	assert.NoError(t, err)
	var buf bytes.Buffer
	root := NewGlobalScope(&buf)
	_, err = Evaluate(ast, root)
	return buf.String(), err
}

func TestEvaluate_ArithmeticAndPrint(t *testing.T) {
	out, err := runProgram(t, `LET x = 1 + 2; print(x);`)
	assert.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestEvaluate_TypedLetThenReassign(t *testing.T) {
	out, err := runProgram(t, `LET x: Integer = 1; x = 2; print(x);`)
	assert.NoError(t, err)
	assert.Equal(t, "2\n", out)
}

func TestEvaluate_DefAndCall(t *testing.T) {
	out, err := runProgram(t, `DEF f(n) DO RETURN n + 1; END print(f(41));`)
	assert.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestEvaluate_IfElse(t *testing.T) {
	out, err := runProgram(t, `IF 1 == 1 DO print(1); ELSE print(2); END`)
	assert.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestEvaluate_ForOverRange(t *testing.T) {
	out, err := runProgram(t, `FOR i IN range(0, 3) DO print(i); END`)
	assert.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, strings.Fields(out))
}

func TestEvaluate_StringConcatenationCoercesOtherSide(t *testing.T) {
	out, err := runProgram(t, `LET s = "a" + 1; print(s);`)
	assert.NoError(t, err)
	assert.Equal(t, "a1\n", out)
}

func TestEvaluate_DivisionByZeroErrors(t *testing.T) {
	_, err := runProgram(t, `1 / 0;`)
	assert.Error(t, err)
}

func TestEvaluate_RecursiveFunction(t *testing.T) {
	out, err := runProgram(t, `
		DEF fact(n) DO
			IF n == 0 DO RETURN 1; END
			RETURN n * fact(n - 1);
		END
		print(fact(5));
	`)
	assert.NoError(t, err)
	assert.Equal(t, "120\n", out)
}

func TestEvaluate_ShortCircuitAnd(t *testing.T) {
	out, err := runProgram(t, `
		DEF sideEffect() DO log("called"); RETURN TRUE; END
		LET x = FALSE AND sideEffect();
		print(x);
	`)
	assert.NoError(t, err)
	assert.Equal(t, "false\n", out, "right operand of AND must not run once the left is false")
}

func TestEvaluate_ShortCircuitOr(t *testing.T) {
	out, err := runProgram(t, `
		DEF sideEffect() DO log("called"); RETURN FALSE; END
		LET x = TRUE OR sideEffect();
		print(x);
	`)
	assert.NoError(t, err)
	assert.Equal(t, "true\n", out, "right operand of OR must not run once the left is true")
}

func TestEvaluate_DecimalDivisionUsesBankersRounding(t *testing.T) {
	out, err := runProgram(t, `LET x = 0.5 / 2.0; print(x);`)
	assert.NoError(t, err)
	printed := strings.TrimSpace(out)
	result, parseErr := decimal.NewFromString(printed)
	assert.NoError(t, parseErr)
	assert.True(t, result.Equal(decimal.NewFromFloat(0.25)), "got %s", printed)

	// 2.5e-16 is a tie at the 16th decimal place: half-to-even rounds it
	// down to 2e-16, where half-up would give 3e-16.
	out, err = runProgram(t, `LET y = 0.00000000000000025 / 1.0; print(y);`)
	assert.NoError(t, err)
	printed = strings.TrimSpace(out)
	result, parseErr = decimal.NewFromString(printed)
	assert.NoError(t, parseErr)
	assert.True(t, result.Equal(decimal.RequireFromString("0.0000000000000002")), "got %s", printed)
}

func TestEvaluate_ObjectFieldsAndMethods(t *testing.T) {
	out, err := runProgram(t, `
		LET p = OBJECT Point DO
			LET x = 1;
			LET y = 2;
			DEF sum() DO RETURN x + y; END
		END;
		print(p.sum());
		p.x = 10;
		print(p.x);
	`)
	assert.NoError(t, err)
	assert.Equal(t, "3\n10\n", out)
}

func TestEvaluate_UndefinedVariableErrors(t *testing.T) {
	_, err := runProgram(t, `print(missing);`)
	assert.Error(t, err)
	var evalErr *EvaluateError
	assert.ErrorAs(t, err, &evalErr)
}

func TestEvaluate_CallOfNonFunctionErrors(t *testing.T) {
	_, err := runProgram(t, `LET x = 1; x();`)
	assert.Error(t, err)
}

func TestEvaluate_ListNative(t *testing.T) {
	out, err := runProgram(t, `print(list(1, 2, 3));`)
	assert.NoError(t, err)
	assert.Equal(t, "[1, 2, 3]\n", out)
}

func TestEvaluate_RangeRejectsDescendingBounds(t *testing.T) {
	_, err := runProgram(t, `range(5, 2);`)
	assert.Error(t, err)
}

func TestEvaluate_DebugPrintsRawForm(t *testing.T) {
	out, err := runProgram(t, `debug("hi");`)
	assert.NoError(t, err)
	assert.Equal(t, `String("hi")`+"\n", out)
}
