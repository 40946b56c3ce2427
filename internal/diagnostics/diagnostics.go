package diagnostics

import "fmt"

// Category is the coarse error taxonomy surfaced to the rendering layer.
type Category string

const (
	CategoryParse    Category = "parse"
	CategorySyntax   Category = "syntax"
	CategorySemantic Category = "semantic"
	CategoryRuntime  Category = "runtime"
)

// Error is a coded evaluation error bound to a document line.
type Error struct {
	Code     string
	Category Category
	Line     int
	Message  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s", e.Code, e.Line, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func newError(code string, cat Category, line int, format string, args ...interface{}) *Error {
	return &Error{
		Code:     code,
		Category: cat,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewParseError reports a malformed literal or equation syntax.
func NewParseError(code string, line int, format string, args ...interface{}) *Error {
	return newError(code, CategoryParse, line, format, args...)
}

// NewSyntaxError reports an AST-level structural problem.
func NewSyntaxError(code string, line int, format string, args ...interface{}) *Error {
	return newError(code, CategorySyntax, line, format, args...)
}

// NewSemanticError reports a type-incompatible or unsolvable operation.
func NewSemanticError(code string, line int, format string, args ...interface{}) *Error {
	return newError(code, CategorySemantic, line, format, args...)
}

// NewRuntimeError reports an unexpected failure caught at the pipeline
// boundary.
func NewRuntimeError(code string, line int, format string, args ...interface{}) *Error {
	return newError(code, CategoryRuntime, line, format, args...)
}
