// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides entrypoint helpers for the crossbuild
// binary: reporting an error to stderr before the structured logger
// exists, and exiting.
package process
