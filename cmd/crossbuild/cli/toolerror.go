// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies command errors so that callers wrapping
// the CLI can decide between fixing input and reporting a bug without
// parsing message text.
type ErrorCategory string

const (
	// CategoryValidation means the invocation was wrong: unknown flags,
	// unexpected arguments, an invalid configuration.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound means a named file or target does not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryInternal covers everything else.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized command error. The message is the
// wrapped error's; the category travels alongside it.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Category returns the category of the first ToolError in err's chain,
// or CategoryInternal when there is none.
func Category(err error) ErrorCategory {
	var toolError *ToolError
	if errors.As(err, &toolError) {
		return toolError.Category
	}
	return CategoryInternal
}
