// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so build durations
// and manifest timestamps are deterministic in tests.
//
// Production code holds a Clock field set to Real(). Tests use Fake,
// which stands still until Advance is called, or steps forward by a
// fixed amount on every reading:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	c.SetStep(time.Second) // every Now() is one second after the last
package clock
