// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the crossbuild
// binary.
//
// The central type is [Command], a named command with optional nested
// [Command.Subcommands], a parameter struct whose tagged fields become
// flags (see [BindFlags]), and a Run function. Commands are assembled
// into a tree by the commands package and dispatched via
// [Command.Execute], which handles flag parsing, subcommand routing,
// and structured help output with examples.
//
// Every leaf command also accepts --verbose and --quiet, which select
// the level of the structured logger passed to Run. The logger writes
// text to a terminal and JSON otherwise (see [NewCommandLogger]).
//
// When a user types an unknown subcommand or flag, the framework
// computes the edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Output streams travel in the context ([WithStreams], [Stdout],
// [Stderr]) so tests can capture what a command prints.
package cli
