// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package source inspects the program being built: the module path
// declared by its go.mod and the state of the git repository holding
// it. Both feed the ${MODULE}, ${COMMIT}, ${DIRTY} and ${VERSION}
// variables and the build manifest.
//
// Repository inspection uses go-git, so no git binary is needed. A
// source directory outside any repository is not an error: [Describe]
// returns a zero [Revision].
package source
