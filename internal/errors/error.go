package errors

import (
	"errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryAbsence   Category = "absence"
	CategoryMalformed Category = "malformed"
	CategoryTransport Category = "transport"
	CategoryStorage   Category = "storage"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// PageError is a structured error with a code, a suggestion and documentation.
type PageError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (absence, transport, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PageError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PageError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PageError) WithSuggestion(s string) *PageError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *PageError) WithDetail(d string) *PageError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PageError) Wrap(err error) *PageError {
	e.Wrapped = err
	return e
}

// New creates a PageError from a registered error code.
func New(code string) *PageError {
	template, ok := registry[code]
	if !ok {
		return &PageError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PageError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new PageError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *PageError {
	return &PageError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a PageError.
// An error chain that already holds a PageError is returned as that PageError.
func FromError(err error, code string) *PageError {
	if err == nil {
		return nil
	}
	var pe *PageError
	if errors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}

// CategoryOf returns the category of the first PageError in err's chain,
// or "" if there is none.
func CategoryOf(err error) Category {
	var pe *PageError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ""
}
