package store

import (
	"errors"
	"fmt"
)

// CodeNoRows is returned by Single when the result is not exactly one row.
const CodeNoRows = "PGRST116"

// Auth error codes.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeValidation         = "validation_failed"
	CodeSessionNotFound    = "session_not_found"
)

// Error is the error shape of every persistence and auth operation.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s (%s): %s", e.Message, e.Code, e.Details)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

// ErrNoRows is the result of Single on an empty match.
var ErrNoRows = &Error{Code: CodeNoRows, Message: "Row not found", Status: 406}

// MultipleRows builds the Single error for an ambiguous match.
func MultipleRows(n int) *Error {
	return &Error{
		Code:    CodeNoRows,
		Message: "JSON object requested, multiple (or no) rows returned",
		Details: fmt.Sprintf("Results contain %d rows", n),
		Status:  406,
	}
}

// IsNotFound reports whether err means "no single matching record".
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == CodeNoRows
}

// HasCode reports whether err is an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
