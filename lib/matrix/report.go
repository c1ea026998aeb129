// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"fmt"
	"strings"
	"time"

	"github.com/bureau-foundation/crossbuild/lib/binhash"
	"github.com/bureau-foundation/crossbuild/lib/gotool"
	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Status is the result of one invocation.
type Status string

const (
	// StatusSkipped means the invocation was never issued.
	StatusSkipped Status = "skipped"

	// StatusSucceeded means the binary was built and hashed.
	StatusSucceeded Status = "succeeded"

	// StatusFailed means a toolchain command for the target failed.
	StatusFailed Status = "failed"
)

// Outcome records what happened to one invocation.
type Outcome struct {
	Invocation Invocation    `json:"invocation"`
	Status     Status        `json:"status"`
	Duration   time.Duration `json:"duration_ns"`

	// ToolchainOS and ToolchainArch are the values "go env" reported
	// for the target just before building.
	ToolchainOS   string `json:"toolchain_goos,omitempty"`
	ToolchainArch string `json:"toolchain_goarch,omitempty"`

	// Digests describes the produced binary.
	Digests *binhash.Digests `json:"digests,omitempty"`

	// Err is the failure, if any. Error carries its text for JSON.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Mode     Mode          `json:"mode"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration_ns"`

	// Outcomes has one entry per planned invocation, in plan order.
	Outcomes []Outcome `json:"outcomes"`

	// Snapshot is the toolchain configuration captured before a
	// global-mode run.
	Snapshot *gotool.EnvSnapshot `json:"snapshot,omitempty"`

	// Restored is true when the snapshot was written back.
	Restored bool `json:"restored"`
}

// Count returns the number of outcomes with the given status.
func (r *Report) Count(status Status) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			count++
		}
	}
	return count
}

// Succeeded returns the outcomes of binaries that were built.
func (r *Report) Succeeded() []Outcome {
	return r.filter(StatusSucceeded)
}

// Failed returns the outcomes of invocations that failed.
func (r *Report) Failed() []Outcome {
	return r.filter(StatusFailed)
}

func (r *Report) filter(status Status) []Outcome {
	var result []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			result = append(result, outcome)
		}
	}
	return result
}

// FailureError aggregates the failures of a KeepGoing run.
type FailureError struct {
	Targets []platform.Platform
	Errs    []error
}

func (e *FailureError) Error() string {
	names := make([]string, len(e.Targets))
	for i, target := range e.Targets {
		names[i] = target.String()
	}
	return fmt.Sprintf("build failure (%d): %s", len(e.Targets), strings.Join(names, " "))
}

// Unwrap returns the individual failures for errors.Is and errors.As.
func (e *FailureError) Unwrap() []error { return e.Errs }
