// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"context"
	"fmt"
)

// TargetVariables are the persistent variables a global-mode matrix
// run rewrites.
var TargetVariables = []string{"GOOS", "GOARCH"}

// EnvSnapshot records the toolchain configuration before a run.
type EnvSnapshot struct {
	// Effective holds the values "go env" reported, whether they came
	// from the configuration file or from built-in defaults.
	Effective map[string]string `json:"effective"`

	// Persisted holds only the values present in the configuration
	// file. A name missing here was not set before the run and is
	// unset again by Restore.
	Persisted map[string]string `json:"persisted"`

	names []string
}

// Snapshot captures the named variables (TargetVariables when none
// are given).
func Snapshot(ctx context.Context, toolchain Toolchain, names ...string) (*EnvSnapshot, error) {
	if len(names) == 0 {
		names = TargetVariables
	}

	effective, err := toolchain.Env(ctx, nil, names...)
	if err != nil {
		return nil, fmt.Errorf("reading toolchain environment: %w", err)
	}
	all, err := toolchain.PersistedEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading persisted toolchain environment: %w", err)
	}

	persisted := make(map[string]string, len(names))
	for _, name := range names {
		if value, ok := all[name]; ok {
			persisted[name] = value
		}
	}
	return &EnvSnapshot{
		Effective: effective,
		Persisted: persisted,
		names:     append([]string(nil), names...),
	}, nil
}

// Restore writes the snapshot back: persisted values with "go env -w"
// and every other captured name with "go env -u".
func (s *EnvSnapshot) Restore(ctx context.Context, toolchain Toolchain) error {
	var unset []string
	for _, name := range s.names {
		if _, ok := s.Persisted[name]; !ok {
			unset = append(unset, name)
		}
	}

	if err := toolchain.SetEnv(ctx, s.Persisted); err != nil {
		return fmt.Errorf("restoring toolchain environment: %w", err)
	}
	if err := toolchain.UnsetEnv(ctx, unset...); err != nil {
		return fmt.Errorf("restoring toolchain environment: %w", err)
	}
	return nil
}
