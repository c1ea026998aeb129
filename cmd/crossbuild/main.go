// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// crossbuild cross-compiles a Go program for a matrix of operating
// systems and architectures. See "crossbuild --help".
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/commands"
	"github.com/bureau-foundation/crossbuild/lib/process"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	// An interrupted global-mode run still restores the toolchain
	// configuration when asked to; the matrix runner handles that on
	// cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return commands.Root().Execute(ctx, os.Args[1:])
}
