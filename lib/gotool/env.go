// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Env runs "go env -json NAMES..." and decodes the result. With a
// non-nil target the target's variables are placed in the command
// environment, so the output reflects what a build for target sees.
func (g *Go) Env(ctx context.Context, target *platform.Platform, names ...string) (map[string]string, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("go env: no variable names given")
	}
	var extraEnv []string
	if target != nil {
		extraEnv = target.Env()
	}

	args := append([]string{"env", "-json"}, names...)
	output, err := g.run(ctx, extraEnv, args...)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(names))
	if err := json.Unmarshal([]byte(output), &values); err != nil {
		return nil, fmt.Errorf("parsing go env output: %w", err)
	}
	return values, nil
}

// SetEnv runs "go env -w" with the given assignments in sorted order.
func (g *Go) SetEnv(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	args := []string{"env", "-w"}
	for _, name := range sortedKeys(values) {
		args = append(args, name+"="+values[name])
	}
	_, err := g.run(ctx, nil, args...)
	return err
}

// UnsetEnv runs "go env -u NAMES...".
func (g *Go) UnsetEnv(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"env", "-u"}, names...)
	_, err := g.run(ctx, nil, args...)
	return err
}

// PersistedEnv reads the go environment configuration file named by
// GOENV. An unset, disabled ("off") or missing file yields an empty
// map.
func (g *Go) PersistedEnv(ctx context.Context) (map[string]string, error) {
	output, err := g.run(ctx, nil, "env", "GOENV")
	if err != nil {
		return nil, err
	}
	path := strings.TrimSpace(output)
	if path == "" || path == "off" {
		return map[string]string{}, nil
	}
	return readEnvFile(path)
}

// readEnvFile parses a GOENV file. The format is KEY=VALUE lines,
// which is a subset of what godotenv accepts.
func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading go environment file %s: %w", path, err)
	}
	return values, nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
