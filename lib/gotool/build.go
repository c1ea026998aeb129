// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"io"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// BuildRequest describes one "go build" invocation.
type BuildRequest struct {
	// Target is the platform to compile for. Nil compiles for whatever
	// the persistent toolchain configuration selects.
	Target *platform.Platform

	// Output is the path of the produced binary (the -o argument).
	Output string

	// Package is the package or directory to build.
	Package string

	// Flags are passed between "-o OUTPUT" and the package, for
	// example "-trimpath" or "-ldflags", "-s -w".
	Flags []string

	// Env holds extra assignments such as "CGO_ENABLED=0". They
	// replace inherited values of the same variable.
	Env []string

	// Stdout and Stderr receive the command's output. Nil discards
	// stdout; stderr is always captured for error reporting.
	Stdout io.Writer
	Stderr io.Writer
}

// Args returns the argument vector after the binary name:
// "build -o OUTPUT [flags...] PACKAGE".
func (r BuildRequest) Args() []string {
	args := make([]string, 0, 4+len(r.Flags))
	args = append(args, "build", "-o", r.Output)
	args = append(args, r.Flags...)
	return append(args, r.Package)
}
