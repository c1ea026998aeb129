// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the CBOR configuration used for binary build
// manifests.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items, so
// two runs that produce the same artifacts write byte-identical
// manifests.
//
// Types carry `json` tags only. fxamacker/cbor reads them when `cbor`
// tags are absent, so one tag controls field naming for the JSON,
// YAML-adjacent and CBOR forms alike. Types implementing
// encoding.TextMarshaler (platforms, digests) encode as text strings.
package codec
