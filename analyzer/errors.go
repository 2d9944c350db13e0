package analyzer

import "fmt"

// AnalyzeError reports a static semantic violation: an unresolved name, a
// duplicate definition, an arity mismatch, a subtype violation, a Return
// outside any function, or an invalid assignment target.
type AnalyzeError struct {
	Message string
}

func (e *AnalyzeError) Error() string {
	return fmt.Sprintf("analyze error: %s", e.Message)
}

func newAnalyzeError(format string, args ...interface{}) *AnalyzeError {
	return &AnalyzeError{Message: fmt.Sprintf(format, args...)}
}
