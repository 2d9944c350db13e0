package generator

import "fmt"

// AssertionError signals a bug in an upstream stage: the IR contains a
// literal payload the generator has no encoding for. Generate has no
// error return (spec's external interface is `generate(ir) -> string`),
// so this is raised via panic rather than returned.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion error: %s", e.Message)
}

func assertf(format string, args ...interface{}) {
	panic(&AssertionError{Message: fmt.Sprintf(format, args...)})
}
