package errors

import "fmt"

// CodegenError is a single fatal message: the bytecode generator halts
// on the first one rather than accumulating, unlike semantic analysis.
type CodegenError struct {
	Message string
}

func (e *CodegenError) Error() string { return e.Message }

func NewCodegenError(format string, args ...any) *CodegenError {
	return &CodegenError{Message: fmt.Sprintf(format, args...)}
}
