// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Operation names recorded in Call.Op.
const (
	OpEnv          = "env"
	OpPersistedEnv = "persisted-env"
	OpSetEnv       = "set-env"
	OpUnsetEnv     = "unset-env"
	OpBuild        = "build"
)

// Call records one Fake operation.
type Call struct {
	Op string

	// Args is the argument vector the real go command would receive.
	Args []string

	// Platform is the platform the operation resolved to: the explicit
	// target when one was given, otherwise the persisted GOOS/GOARCH
	// falling back to the host.
	Platform platform.Platform

	// Output is the build output path (OpBuild only).
	Output string
}

// Fake is an in-memory Toolchain. It keeps a persisted environment
// the way "go env -w" would, records every call, and optionally
// writes placeholder binaries into Outputs.
type Fake struct {
	// Host is the platform reported when neither a target nor a
	// persisted value selects one.
	Host platform.Platform

	// Outputs receives a small file for every successful build when
	// non-nil.
	Outputs afero.Fs

	// Fail, when non-nil, is consulted before every operation. A
	// non-nil return aborts the operation with that error.
	Fail func(Call) error

	mu        sync.Mutex
	persisted map[string]string
	calls     []Call
}

// NewFake returns a Fake reporting host as the native platform and
// starting with the given persisted variables.
func NewFake(host platform.Platform, persisted map[string]string) *Fake {
	values := make(map[string]string, len(persisted))
	for name, value := range persisted {
		values[name] = value
	}
	return &Fake{Host: host, persisted: values}
}

// Calls returns a copy of every recorded call in order.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Builds returns the recorded build calls in order.
func (f *Fake) Builds() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var builds []Call
	for _, call := range f.calls {
		if call.Op == OpBuild {
			builds = append(builds, call)
		}
	}
	return builds
}

// Persisted returns a copy of the current persisted environment.
func (f *Fake) Persisted() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make(map[string]string, len(f.persisted))
	for name, value := range f.persisted {
		values[name] = value
	}
	return values
}

// record appends call and runs the Fail hook. Must hold f.mu.
func (f *Fake) record(call Call) error {
	f.calls = append(f.calls, call)
	if f.Fail != nil {
		return f.Fail(call)
	}
	return nil
}

// resolve returns the platform a command would target. Must hold f.mu.
func (f *Fake) resolve(target *platform.Platform) platform.Platform {
	if target != nil {
		return *target
	}
	resolved := f.Host
	if value, ok := f.persisted["GOOS"]; ok {
		resolved.OS = value
	}
	if value, ok := f.persisted["GOARCH"]; ok {
		resolved.Arch = value
	}
	return resolved
}

func (f *Fake) Env(ctx context.Context, target *platform.Platform, names ...string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	resolved := f.resolve(target)
	call := Call{Op: OpEnv, Args: append([]string{"env", "-json"}, names...), Platform: resolved}
	if err := f.record(call); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(names))
	for _, name := range names {
		switch name {
		case "GOOS":
			values[name] = resolved.OS
		case "GOARCH":
			values[name] = resolved.Arch
		default:
			values[name] = f.persisted[name]
		}
	}
	return values, nil
}

func (f *Fake) PersistedEnv(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.record(Call{Op: OpPersistedEnv, Args: []string{"env", "GOENV"}, Platform: f.resolve(nil)}); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(f.persisted))
	for name, value := range f.persisted {
		values[name] = value
	}
	return values, nil
}

func (f *Fake) SetEnv(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	args := []string{"env", "-w"}
	for _, name := range sortedKeys(values) {
		args = append(args, name+"="+values[name])
	}
	if err := f.record(Call{Op: OpSetEnv, Args: args, Platform: f.resolve(nil)}); err != nil {
		return err
	}
	if f.persisted == nil {
		f.persisted = make(map[string]string)
	}
	for name, value := range values {
		f.persisted[name] = value
	}
	return nil
}

func (f *Fake) UnsetEnv(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	args := append([]string{"env", "-u"}, names...)
	if err := f.record(Call{Op: OpUnsetEnv, Args: args, Platform: f.resolve(nil)}); err != nil {
		return err
	}
	for _, name := range names {
		delete(f.persisted, name)
	}
	return nil
}

func (f *Fake) Build(ctx context.Context, request BuildRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	resolved := f.resolve(request.Target)
	call := Call{Op: OpBuild, Args: request.Args(), Platform: resolved, Output: request.Output}
	if err := f.record(call); err != nil {
		return err
	}
	if f.Outputs == nil {
		return nil
	}

	if err := f.Outputs.MkdirAll(filepath.Dir(request.Output), 0o755); err != nil {
		return err
	}
	content := fmt.Sprintf("%s built for %s\n", request.Package, resolved)
	return afero.WriteFile(f.Outputs, request.Output, []byte(content), 0o755)
}
