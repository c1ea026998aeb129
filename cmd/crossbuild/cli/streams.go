// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"io"
	"os"
)

// Streams are the writers a command prints to.
type Streams struct {
	Stdout io.Writer
	Stderr io.Writer
}

type streamsKey struct{}

// WithStreams returns a context whose commands print to streams. Nil
// fields fall back to the process's stdout and stderr.
func WithStreams(ctx context.Context, streams Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, streams)
}

// Stdout returns the standard output stream for ctx.
func Stdout(ctx context.Context) io.Writer {
	if streams, ok := ctx.Value(streamsKey{}).(Streams); ok && streams.Stdout != nil {
		return streams.Stdout
	}
	return os.Stdout
}

// Stderr returns the diagnostic stream for ctx.
func Stderr(ctx context.Context) io.Writer {
	if streams, ok := ctx.Value(streamsKey{}).(Streams); ok && streams.Stderr != nil {
		return streams.Stderr
	}
	return os.Stderr
}
