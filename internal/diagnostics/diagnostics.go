// Package diagnostics defines the error values produced by the ferrite
// front-end. Analysis never aborts on a user-level problem: every stage
// accumulates *DiagnosticError values and returns a best-effort result
// alongside them.
package diagnostics

import (
	"fmt"

	"github.com/ferrite-lang/ferrite/internal/token"
)

// ErrorCode is a stable identifier for a diagnostic kind.
// P-codes come from the parser, T-codes from trait analysis.
type ErrorCode string

const (
	ErrP001 ErrorCode = "P001" // unexpected token
	ErrP002 ErrorCode = "P002" // malformed type expression
	ErrP003 ErrorCode = "P003" // malformed trait declaration

	ErrT001 ErrorCode = "T001" // cyclic super-traits
	ErrT002 ErrorCode = "T002" // unresolved trait reference
	ErrT003 ErrorCode = "T003" // trait argument count mismatch
)

// DiagnosticError is a user-facing error anchored to a source token.
type DiagnosticError struct {
	Code    ErrorCode
	Token   token.Token
	Message string
	File    string // set by whoever knows the file path; empty until then
}

// NewError builds a diagnostic. Extra args are appended to the message the
// way fmt.Sprint would join them, which keeps call sites short.
func NewError(code ErrorCode, tok token.Token, msg string, args ...interface{}) *DiagnosticError {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprint(args...)
	}
	return &DiagnosticError{Code: code, Token: tok, Message: msg}
}

func (e *DiagnosticError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("[%s] %s:%s: %s", e.Code, e.File, e.Token.Pos(), e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Token.Pos(), e.Message)
}
