// Package errors provides the unified error type and factory functions for the
// evidentia platform.  Every layer of the application (domain, analysis,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent HTTP responses, logging,
// and monitoring.
//
// The analysis core itself degrades malformed input to zero values instead of
// erroring; AppError is for the service surfaces around it.
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		// Trim standard-library noise to keep traces readable.
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError — the canonical platform error type
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout evidentia.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeCaseNotFound, "case 7f3a... not found")
//	return errors.Wrap(repoErr, errors.ErrCodeDatabaseError, "failed to load evidence")
type AppError struct {
	// Code is the typed error code that uniquely identifies the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error, suitable
	// for inclusion in API responses returned to callers.
	Message string

	// Detail carries supplementary context (query parameters, entity IDs, etc.)
	// that aids debugging without leaking sensitive internals to end users.
	Detail string

	// Cause is the underlying error that triggered this AppError.
	Cause error

	// Stack contains the formatted call-stack captured at the point of error
	// creation.  It is intentionally not included in Error() output; structured
	// logging middleware reads the field directly.
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code_name>(<code>)] <message>: <detail>"; the detail segment is
// omitted when Detail is empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s(%s)] %s: %s", e.Code.String(), string(e.Code), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s(%s)] %s", e.Code.String(), string(e.Code), e.Message)
}

// Unwrap returns the underlying cause error, enabling errors.Is and errors.As
// to traverse the full error chain.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// Safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.  If err is nil,
// Wrap returns nil so it can be used inline:
//
//	return errors.Wrap(repo.FindByID(ctx, id), errors.ErrCodeDatabaseError, "query failed")
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// NotFound constructs an ErrCodeNotFound AppError.  Prefer the domain-specific
// codes (ErrCodeCaseNotFound, ErrCodeEvidenceNotFound) where applicable.
func NotFound(message string) *AppError {
	return &AppError{Code: ErrCodeNotFound, Message: message, Stack: captureStack(1)}
}

// InvalidParam constructs an ErrCodeBadRequest AppError.
func InvalidParam(message string) *AppError {
	return &AppError{Code: ErrCodeBadRequest, Message: message, Stack: captureStack(1)}
}

// Internal constructs an ErrCodeInternal AppError.  Use this for unexpected
// server-side failures where no more specific code applies.
func Internal(message string) *AppError {
	return &AppError{Code: ErrCodeInternal, Message: message, Stack: captureStack(1)}
}

// NewValidationError constructs an ErrCodeValidation AppError naming the
// offending field.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Detail:  "field=" + field,
		Stack:   captureStack(1),
	}
}

// NewNotImplemented constructs an ErrCodeNotImplemented AppError.
func NewNotImplemented(message string) *AppError {
	return &AppError{Code: ErrCodeNotImplemented, Message: message, Stack: captureStack(1)}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code:
//
//	if errors.IsCode(err, errors.ErrCodeCaseNotFound) { ... }
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain carries one of the
// not-found codes.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case ErrCodeNotFound, ErrCodeCaseNotFound, ErrCodeEvidenceNotFound, ErrCodeAnalysisNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's
// chain, or ErrCodeInternal when no AppError is present.  Used by middleware
// and logging layers that need a single code to emit as a metric label.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}
