// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Mode selects how a build is pointed at its target platform.
type Mode string

const (
	// ModeIsolated passes the target in each command's environment.
	ModeIsolated Mode = "isolated"

	// ModeGlobal writes the target to the toolchain's persistent
	// configuration before each build.
	ModeGlobal Mode = "global"
)

// ParseMode validates a mode name. The empty string selects
// ModeIsolated.
func ParseMode(name string) (Mode, error) {
	switch Mode(name) {
	case "", ModeIsolated:
		return ModeIsolated, nil
	case ModeGlobal:
		return ModeGlobal, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", name, ModeIsolated, ModeGlobal)
}

// Options describes a matrix run.
type Options struct {
	// Name is the artifact base name.
	Name string `json:"name"`

	// Source is the package built for every target.
	Source string `json:"source"`

	// Output is the directory binaries are written to.
	Output string `json:"output"`

	// Targets is the ordered platform list.
	Targets []platform.Platform `json:"targets"`

	Mode Mode `json:"mode"`

	// Jobs bounds concurrent builds. Values below 1 mean 1. Global
	// mode always builds one target at a time.
	Jobs int `json:"jobs"`

	Ldflags  string   `json:"ldflags,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Trimpath bool     `json:"trimpath,omitempty"`

	// CGO sets CGO_ENABLED for every build when non-nil.
	CGO *bool `json:"cgo,omitempty"`

	// Flags are extra go build flags, placed after the generated ones.
	Flags []string `json:"flags,omitempty"`

	// Env holds extra KEY=VALUE assignments for every build.
	Env []string `json:"env,omitempty"`

	KeepGoing        bool `json:"keep_going,omitempty"`
	RestoreOnFailure bool `json:"restore_on_failure,omitempty"`

	// Mkdir creates Output before the first build.
	Mkdir bool `json:"mkdir,omitempty"`

	// LockPath is the file locked for the duration of a global-mode
	// run. Empty disables locking.
	LockPath string `json:"lock_path,omitempty"`
}

// Validate reports every problem with the options.
func (o Options) Validate() error {
	var errs []error
	if o.Name == "" {
		errs = append(errs, errors.New("artifact name is required"))
	}
	if o.Source == "" {
		errs = append(errs, errors.New("source package is required"))
	}
	if o.Output == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if len(o.Targets) == 0 {
		errs = append(errs, errors.New("no targets to build"))
	}
	for _, target := range o.Targets {
		if err := target.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := ParseMode(string(o.Mode)); err != nil {
		errs = append(errs, err)
	}
	if o.RestoreOnFailure && o.Mode != ModeGlobal {
		errs = append(errs, errors.New("restore-on-failure only applies to global mode"))
	}
	for _, assignment := range o.Env {
		if name, _, ok := strings.Cut(assignment, "="); !ok || name == "" {
			errs = append(errs, fmt.Errorf("environment entry %q is not KEY=VALUE", assignment))
		}
	}
	return errors.Join(errs...)
}

// jobs returns the effective concurrency.
func (o Options) jobs() int {
	if o.Mode == ModeGlobal || o.Jobs < 1 {
		return 1
	}
	return o.Jobs
}

// buildFlags returns the go build flags shared by every invocation.
func (o Options) buildFlags() []string {
	var flags []string
	if o.Trimpath {
		flags = append(flags, "-trimpath")
	}
	if len(o.Tags) > 0 {
		flags = append(flags, "-tags", strings.Join(o.Tags, ","))
	}
	if o.Ldflags != "" {
		flags = append(flags, "-ldflags", o.Ldflags)
	}
	return append(flags, o.Flags...)
}

// buildEnv returns the extra environment shared by every invocation.
func (o Options) buildEnv() []string {
	var env []string
	if o.CGO != nil {
		if *o.CGO {
			env = append(env, "CGO_ENABLED=1")
		} else {
			env = append(env, "CGO_ENABLED=0")
		}
	}
	return append(env, o.Env...)
}
