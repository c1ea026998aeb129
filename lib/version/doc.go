// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports the version of the crossbuild binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string
//
// When GitCommit was not injected, the VCS stamp the go command embeds
// in module builds is used instead.
//
// crossbuild can stamp the binaries it builds the same way: its ldflags
// support ${COMMIT}, ${DIRTY} and ${VERSION}, so
//
//	-X github.com/bureau-foundation/crossbuild/lib/version.GitCommit=${COMMIT}
//
// in a config file's ldflags works for any program using this package.
package version
