package errs

import (
	"fmt"
	"strings"
)

// FieldError represents a field-level validation error.
// Example:
//
//	{ "field": "birthday", "error": "must be a date formatted as YYYY-MM-DD" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Kind is the category of a failure.
type Kind string

const (
	// KindInvalid means the caller supplied input the operation cannot accept.
	KindInvalid Kind = "invalid"

	// KindNotFound means a referenced row does not exist.
	KindNotFound Kind = "not_found"

	// KindConflict means the operation collided with existing or concurrent state.
	// Retrying may succeed.
	KindConflict Kind = "conflict"

	// KindInternal covers connectivity loss, malformed SQL and driver failures.
	KindInternal Kind = "internal"
)

// Error is the single failure type surfaced by the store.
//
// Fields:
//   - Kind: failure category.
//   - Code: machine-friendly code (e.g. "PROFILE_ALREADY_EXISTS").
//   - Message: human-friendly message.
//   - Errors: per-field validation errors.
//   - cause: the underlying driver error, reachable through errors.Unwrap.
type Error struct {
	Kind    Kind         `json:"kind"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is customizes how errors.Is(...) treats Error.
//
// A target with a Code matches errors carrying the same Code.
// A target without a Code matches any *Error of the same Kind,
// and a bare &Error{} matches every *Error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return t.Kind == "" || t.Kind == e.Kind
}

// WithMessage returns a copy of this Error with Message replaced.
func (e *Error) WithMessage(message string) *Error {
	return &Error{
		Kind:    e.Kind,
		Code:    e.Code,
		Message: message,
		Errors:  e.Errors,
		cause:   e.cause,
	}
}

// WithCause returns a copy of this Error wrapping cause.
func (e *Error) WithCause(cause error) *Error {
	cp := e.WithMessage(e.Message)
	cp.cause = cause
	return cp
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"not found" -> "NOT_FOUND"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}

func defaultCode(kind Kind, code *string) string {
	if code != nil {
		return *code
	}
	return MakeUpperCaseWithUnderscores(strings.ReplaceAll(string(kind), "_", " "))
}

// NewInvalidError creates an invalid-input Error.
//
// code is optional; if nil, it defaults to "INVALID".
func NewInvalidError(message string, code *string, errors []FieldError) *Error {
	return &Error{
		Kind:    KindInvalid,
		Code:    defaultCode(KindInvalid, code),
		Message: message,
		Errors:  errors,
	}
}

// NewNotFoundError creates a not-found Error. code defaults to "NOT_FOUND".
func NewNotFoundError(message string, code *string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    defaultCode(KindNotFound, code),
		Message: message,
	}
}

// NewConflictError creates a conflict Error. code defaults to "CONFLICT".
func NewConflictError(message string, code *string) *Error {
	return &Error{
		Kind:    KindConflict,
		Code:    defaultCode(KindConflict, code),
		Message: message,
	}
}

// NewInternalError creates an internal Error wrapping cause.
//
// The message is generic on purpose; the cause stays available via Unwrap
// for logs.
func NewInternalError(cause error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    defaultCode(KindInternal, nil),
		Message: "internal error",
		cause:   cause,
	}
}

var usernameTakenCode = "PROFILE_ALREADY_EXISTS"

// ErrUsernameTaken is returned when a profile name is already in use.
// Compare with errors.Is.
var ErrUsernameTaken = NewConflictError("username is already taken", &usernameTakenCode)
