package ir

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes translation failures.
type ErrorCode string

const (
	// ErrCodeUnsupportedLiteral indicates a constant whose Go type has no
	// query-language literal form.
	ErrCodeUnsupportedLiteral ErrorCode = "UNSUPPORTED_LITERAL_TYPE"

	// ErrCodeUnsupportedExpression indicates an expression node shape outside
	// the supported subset.
	ErrCodeUnsupportedExpression ErrorCode = "UNSUPPORTED_EXPRESSION"

	// ErrCodeInvalidQueryModel indicates a malformed query model (empty source,
	// bad alias, mixed aliases, invalid result operator).
	ErrCodeInvalidQueryModel ErrorCode = "INVALID_QUERY_MODEL"
)

// CompileError represents a defect in the query a caller constructed.
//
// Compile errors are never transient and are never retried. The structured
// fields locate the offending clause:
//   - Kind: node kind or Go type name
//   - Member: member name involved, if any
//   - Field: query model field (e.g. "source.alias", "where[1]")
type CompileError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Kind is the expression node kind or Go type.
	Kind string

	// Member is the member name involved.
	Member string

	// Field is the query model field the error was found in.
	Field string
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	switch {
	case e.Field != "" && e.Member != "":
		return fmt.Sprintf("%s: %s (field=%s, member=%s)", e.Code, e.Message, e.Field, e.Member)
	case e.Field != "":
		return fmt.Sprintf("%s: %s (field=%s)", e.Code, e.Message, e.Field)
	case e.Member != "":
		return fmt.Sprintf("%s: %s (member=%s)", e.Code, e.Message, e.Member)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithField returns a copy of the error located at the given model field.
// An already located error keeps its innermost field.
func (e *CompileError) WithField(field string) *CompileError {
	c := *e
	if c.Field == "" {
		c.Field = field
	}
	return &c
}

// UnsupportedLiteral creates a CompileError for a Go type with no literal form.
func UnsupportedLiteral(typeName string) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedLiteral,
		Message: fmt.Sprintf("no literal form for type %s", typeName),
		Kind:    typeName,
	}
}

// UnsupportedExpression creates a CompileError for an unsupported node shape.
func UnsupportedExpression(kind, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    ErrCodeUnsupportedExpression,
		Message: fmt.Sprintf(format, args...),
		Kind:    kind,
	}
}

// InvalidQueryModel creates a CompileError for a malformed query model.
func InvalidQueryModel(field, format string, args ...any) *CompileError {
	return &CompileError{
		Code:    ErrCodeInvalidQueryModel,
		Message: fmt.Sprintf(format, args...),
		Field:   field,
	}
}

// AsCompileError extracts a *CompileError from err's chain.
func AsCompileError(err error) (*CompileError, bool) {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsUnsupportedLiteral returns true if err is an UNSUPPORTED_LITERAL_TYPE error.
// Uses errors.As to handle wrapped errors.
func IsUnsupportedLiteral(err error) bool {
	return hasCode(err, ErrCodeUnsupportedLiteral)
}

// IsUnsupportedExpression returns true if err is an UNSUPPORTED_EXPRESSION error.
func IsUnsupportedExpression(err error) bool {
	return hasCode(err, ErrCodeUnsupportedExpression)
}

// IsInvalidQueryModel returns true if err is an INVALID_QUERY_MODEL error.
func IsInvalidQueryModel(err error) bool {
	return hasCode(err, ErrCodeInvalidQueryModel)
}

func hasCode(err error, code ErrorCode) bool {
	ce, ok := AsCompileError(err)
	return ok && ce.Code == code
}
