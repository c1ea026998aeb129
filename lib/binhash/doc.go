// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests of built binaries.
//
// Every artifact a matrix run produces is hashed once, streaming the
// file through SHA-256 and BLAKE3 together so the file is read a single
// time regardless of size. SHA-256 is the digest most release tooling
// expects in checksum files; BLAKE3 is what the manifest uses for fast
// verification of large artifacts.
//
// Files are read through an [afero.Fs] so tests can hash binaries a
// fake toolchain wrote into memory.
package binhash
