// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package platform models cross-compilation targets: an operating
// system, an architecture, and an optional architecture variant.
//
// A [Platform] is the unit the build matrix iterates over. [Matrix]
// expands architecture and operating system lists into the ordered
// Cartesian product (outer loop over architectures, inner loop over
// operating systems), [Parse] reads "os/arch[/variant]" specifiers
// using the same normalization as container runtimes (aarch64 becomes
// arm64, x86_64 becomes amd64), and [Filter] narrows a list with glob
// queries such as "linux/*" or "*/arm64".
//
// [Platform.Env] renders the GOOS/GOARCH (and variant) assignments that
// point a single "go" invocation at the target, so callers never need
// to mutate the toolchain's global configuration.
//
// This package has no dependencies on other crossbuild packages.
package platform
