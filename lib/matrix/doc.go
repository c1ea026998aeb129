// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package matrix cross-compiles one Go program for a list of target
// platforms.
//
// [Plan] turns [Options] into an ordered list of [Invocation] values,
// one per platform: for the default matrix, amd64 and arm64 (outer)
// times linux, darwin and windows (inner), each writing
// {output}/{name}-{os}-{arch}{ext} where ext is ".exe" only for
// windows. Planning is pure: the same options always produce the same
// invocations.
//
// [Runner] executes a plan against a [gotool.Toolchain] in one of two
// modes:
//
//   - [ModeIsolated] (the default) passes GOOS and GOARCH in the
//     environment of each go build. The toolchain's persistent
//     configuration is never written, so there is nothing to restore
//     and builds may run in parallel.
//   - [ModeGlobal] points the toolchain at each target with
//     "go env -w", builds, and after the last target writes the
//     original configuration back. Runs are serialized with a file
//     lock because the configuration is shared by every go command of
//     the user. The restore happens only when the loop completes,
//     unless RestoreOnFailure is set.
//
// Failures stop the run at the first failing command unless KeepGoing
// is set, in which case every target is attempted and the failures are
// reported together as a [*FailureError].
package matrix
