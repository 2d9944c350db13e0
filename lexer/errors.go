package lexer

import "fmt"

// LexError reports a malformed token: an invalid escape, an unterminated
// string or character literal, an unexpected leading character, or a
// malformed number. It is the only error kind the lexer produces.
type LexError struct {
	Line    int
	Column  int
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[%d:%d] lex error: %s", e.Line, e.Column, e.Message)
}

func newLexError(line, column int, format string, args ...interface{}) *LexError {
	return &LexError{Line: line, Column: column, Message: fmt.Sprintf(format, args...)}
}
