// Package errors provides AppError, a structured error type with panic
// recovery and chaining, used to carry lifecycle failures through the
// kernel without losing the originating cause. Trimmed from the
// teacher's HTTP-facing error stack (typed constructors, registry,
// HTTP-status mapping, retry/validate/format/log helpers) down to the
// AppError/ErrorChain/ErrorRecoverWithHandler core, since this module
// has no HTTP response surface to map errors onto.
package errors

import (
	"fmt"
	"runtime"
	"strings"
)

// ErrorType classifies an AppError for panic-vs-wrap callers.
type ErrorType string

const (
	ErrorTypeInternal ErrorType = "internal"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError represents a structured application error.
type AppError struct {
	Type       ErrorType
	Message    string
	InnerError error
	Stack      []string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.InnerError != nil {
		return e.InnerError.Error()
	}
	return string(e.Type)
}

// Unwrap returns the inner error.
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// WithMessage adds a message to the error.
func (e *AppError) WithMessage(msg string) *AppError {
	e.Message = msg
	return e
}

// WithStack captures the call stack.
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3) // Skip this method and the caller
	return e
}

// New creates a new AppError.
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
	}
}

// FromError converts a standard error to AppError.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	if appErr, ok := err.(*AppError); ok {
		return appErr
	}

	return &AppError{
		Type:       ErrorTypeUnknown,
		Message:    err.Error(),
		InnerError: err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *AppError {
	return FromError(err).WithMessage(message)
}

// captureStack captures the call stack.
func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		// Shorten function name
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}

// ErrorRecoverWithHandler recovers from panics and hands the converted
// AppError to handler.
func ErrorRecoverWithHandler(handler func(*AppError)) {
	if r := recover(); r != nil {
		var appErr *AppError
		switch v := r.(type) {
		case error:
			appErr = Wrap(v, "panic recovered")
		case string:
			appErr = New(ErrorTypeInternal, v)
		default:
			appErr = New(ErrorTypeInternal, fmt.Sprintf("%v", v))
		}
		appErr = appErr.WithStack()
		handler(appErr)
	}
}

// ErrorChain aggregates multiple AppErrors, used to report a rollback
// or stop phase's failures without discarding any of them.
type ErrorChain struct {
	errors []*AppError
}

// NewErrorChain creates an empty ErrorChain.
func NewErrorChain() *ErrorChain {
	return &ErrorChain{
		errors: make([]*AppError, 0),
	}
}

// Add adds an error to the chain. Nil errors are ignored.
func (c *ErrorChain) Add(err *AppError) *ErrorChain {
	if err != nil {
		c.errors = append(c.errors, err)
	}
	return c
}

// HasErrors reports whether the chain has any errors.
func (c *ErrorChain) HasErrors() bool {
	return len(c.errors) > 0
}

// Error returns the combined error message.
func (c *ErrorChain) Error() string {
	if !c.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range c.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, " | ")
}

// Errors returns all errors in the chain.
func (c *ErrorChain) Errors() []*AppError {
	return c.errors
}
