// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"io"
	"os"
)

// exitCoder is implemented by errors that carry their own exit code,
// such as a failed build that was already reported.
type exitCoder interface {
	ExitCode() int
}

// Fatal writes "error: err" to stderr and exits with 1. An error that
// itself carries an exit code was already reported by the command and
// exits silently with that code. Use it in main() for errors from run().
func Fatal(err error) {
	os.Exit(Report(os.Stderr, err))
}

// Report writes err to w unless it is an already-reported exit status,
// and returns the process exit code for it.
//
// Only the top-level error is checked. A wrapped error with an exit
// code, such as the *exec.ExitError inside a failed go command, still
// needs its message printed.
func Report(w io.Writer, err error) int {
	if coder, ok := err.(exitCoder); ok {
		return coder.ExitCode()
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return 1
}
