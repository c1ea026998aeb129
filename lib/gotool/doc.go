// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package gotool provides typed access to the go command for
// cross-compilation. It centralizes binary resolution (PATH first,
// then $GOROOT/bin) and gives every failure the same shape: a
// [CommandError] carrying the argument vector, the exit code, and the
// command's stderr.
//
// The [Toolchain] interface covers the operations a build matrix needs:
//
//   - [Toolchain.Env] -- "go env -json NAME...", optionally as seen by a
//     command pointed at a specific target platform
//   - [Toolchain.PersistedEnv] -- the values written by "go env -w",
//     read from the GOENV file
//   - [Toolchain.SetEnv] / [Toolchain.UnsetEnv] -- "go env -w" and
//     "go env -u", which mutate the user's persistent configuration
//   - [Toolchain.Build] -- "go build -o OUTPUT [flags] PACKAGE"
//
// Target platforms are normally passed per invocation through the
// command environment ([BuildRequest.Target]); inherited GOOS, GOARCH,
// and variant variables are stripped before the target's own values are
// added. Callers that must drive the persistent configuration instead
// bracket their work with [Snapshot] and [EnvSnapshot.Restore].
//
// [Go] is the production implementation. [Fake] is an in-memory
// implementation for tests that records every call.
package gotool
