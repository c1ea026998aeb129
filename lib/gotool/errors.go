// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"errors"
	"os/exec"
	"strings"
)

// CommandError reports a go command that could not be started or
// exited nonzero. It is the only error kind the toolchain produces.
type CommandError struct {
	// Args is the argument vector after the binary name.
	Args []string

	// ExitCode is the process exit status, or -1 when the process
	// never ran to completion (binary missing, context cancelled).
	ExitCode int

	// Stderr is the command's trimmed diagnostic output.
	Stderr string

	// Err is the underlying exec error.
	Err error
}

// Error prefers the command's own stderr over the generic exec error,
// because that is where the go command explains what went wrong.
func (e *CommandError) Error() string {
	commandString := "go " + strings.Join(e.Args, " ")
	if e.Stderr != "" {
		return commandString + ": " + e.Stderr
	}
	return commandString + ": " + e.Err.Error()
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error { return e.Err }

func newCommandError(args []string, stderr string, err error) *CommandError {
	exitCode := -1
	var exitError *exec.ExitError
	if errors.As(err, &exitError) {
		exitCode = exitError.ExitCode()
	}
	return &CommandError{
		Args:     append([]string(nil), args...),
		ExitCode: exitCode,
		Stderr:   strings.TrimSpace(stderr),
		Err:      err,
	}
}
