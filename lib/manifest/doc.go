// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest records what a build matrix produced: one entry per
// binary with its target, path, size and digests, plus the module,
// revision and toolchain it was built from.
//
// [Write] picks the encoding from the file extension: .json, .yaml or
// .yml, or .cbor (deterministic encoding via lib/codec). [Read] decodes
// any of them, and [Verify] re-hashes the listed binaries.
package manifest
