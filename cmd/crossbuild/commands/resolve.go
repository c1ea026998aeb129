// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/config"
	"github.com/bureau-foundation/crossbuild/lib/matrix"
	"github.com/bureau-foundation/crossbuild/lib/platform"
	"github.com/bureau-foundation/crossbuild/lib/source"
)

// matrixParams are the flags shared by every command that works on a
// build matrix. A flag overrides the configuration only when given.
type matrixParams struct {
	cli.FlagTracker

	Config  string `json:"-" flag:"config,c" desc:"configuration file (default $CROSSBUILD_CONFIG)"`
	Profile string `json:"-" flag:"profile,p" desc:"configuration profile to apply"`

	Name    string   `json:"-" flag:"name,n" desc:"artifact base name (default gem)"`
	Output  string   `json:"-" flag:"output,o" desc:"output directory (default ./out)"`
	Arch    []string `json:"-" flag:"arch" desc:"architectures, the outer loop (default amd64,arm64)"`
	OS      []string `json:"-" flag:"os" desc:"operating systems, the inner loop (default linux,darwin,windows)"`
	Targets []string `json:"-" flag:"target,t" desc:"explicit os/arch[/variant] targets, replacing --arch and --os"`
	Only    []string `json:"-" flag:"only" desc:"keep targets matching these globs (linux, */arm64, {linux,darwin}/*)"`
	Exclude []string `json:"-" flag:"exclude,x" desc:"drop targets matching these globs"`

	Mode string `json:"-" flag:"mode,m" desc:"isolated (target per build) or global (go env -w, restored afterwards)"`
	Jobs int    `json:"-" flag:"jobs,j" desc:"parallel builds in isolated mode (default 1)"`

	Ldflags    string   `json:"-" flag:"ldflags" desc:"go build -ldflags value"`
	Tags       []string `json:"-" flag:"tags" desc:"build tags"`
	Trimpath   bool     `json:"-" flag:"trimpath" desc:"remove file system paths from binaries"`
	CGO        string   `json:"-" flag:"cgo" desc:"set CGO_ENABLED for every build (on or off)"`
	BuildFlags []string `json:"-" flag:"build-flag" desc:"extra go build flag, repeatable"`
	Env        []string `json:"-" flag:"env,e" desc:"extra KEY=VALUE for every build, repeatable"`

	KeepGoing        bool   `json:"-" flag:"keep-going,k" desc:"build every target and report all failures"`
	RestoreOnFailure bool   `json:"-" flag:"restore-on-failure" desc:"in global mode, restore the toolchain configuration even after a failure"`
	Mkdir            bool   `json:"-" flag:"mkdir" desc:"create the output directory"`
	Manifest         string `json:"-" flag:"manifest" desc:"write an artifact manifest (.json, .yaml or .cbor)"`
	Lock             string `json:"-" flag:"lock" desc:"lock file serializing global-mode runs (default in the user cache directory)"`
}

// resolved is a fully resolved matrix: configuration, run options
// and the source revision they were expanded with.
type resolved struct {
	Config   *config.Config
	Options  matrix.Options
	Module   string
	Revision source.Revision
}

// resolve loads the configuration, applies the flags the user set and
// the optional package argument, and computes the run options.
func (p *matrixParams) resolve(args []string) (*resolved, error) {
	if len(args) > 1 {
		return nil, cli.Validation("unexpected argument: %s", args[1])
	}

	cfg, err := config.Load(p.Config, p.Profile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, cli.NotFound("%w", err)
		}
		return nil, cli.Validation("%w", err)
	}
	if err := p.apply(cfg); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}

	vars, revision, err := source.Variables(sourceDir(cfg.Source))
	if err != nil {
		return nil, fmt.Errorf("describing source revision: %w", err)
	}
	cfg.Expand(vars)
	if err := cfg.Validate(); err != nil {
		return nil, cli.Validation("invalid configuration:\n%w", err)
	}

	targets, err := selectTargets(cfg)
	if err != nil {
		return nil, err
	}
	mode, err := matrix.ParseMode(cfg.Mode)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}

	options := matrix.Options{
		Name:             cfg.Name,
		Source:           cfg.Source,
		Output:           cfg.Output,
		Targets:          targets,
		Mode:             mode,
		Jobs:             cfg.Jobs,
		Ldflags:          cfg.Build.Ldflags,
		Tags:             cfg.Build.Tags,
		Trimpath:         cfg.Build.Trimpath,
		CGO:              cfg.Build.CGO,
		Flags:            cfg.Build.Flags,
		Env:              cfg.Build.Env,
		KeepGoing:        cfg.KeepGoing,
		RestoreOnFailure: cfg.RestoreOnFailure,
		Mkdir:            cfg.Mkdir,
		LockPath:         cfg.Lock,
	}
	if mode == matrix.ModeGlobal && options.LockPath == "" {
		if options.LockPath, err = matrix.DefaultLockPath(); err != nil {
			return nil, err
		}
	}

	return &resolved{
		Config:   cfg,
		Options:  options,
		Module:   vars["MODULE"],
		Revision: revision,
	}, nil
}

// apply copies every flag the user set onto cfg.
func (p *matrixParams) apply(cfg *config.Config) error {
	setString := func(flag string, target *string, value string) {
		if p.Changed(flag) {
			*target = value
		}
	}
	setList := func(flag string, target *[]string, value []string) {
		if p.Changed(flag) {
			*target = value
		}
	}
	setBool := func(flag string, target *bool, value bool) {
		if p.Changed(flag) {
			*target = value
		}
	}

	setString("name", &cfg.Name, p.Name)
	setString("output", &cfg.Output, p.Output)
	setList("arch", &cfg.Architectures, p.Arch)
	setList("os", &cfg.OperatingSystems, p.OS)
	setList("target", &cfg.Targets, p.Targets)
	setList("only", &cfg.Only, p.Only)
	setList("exclude", &cfg.Exclude, p.Exclude)
	setString("mode", &cfg.Mode, p.Mode)
	setString("ldflags", &cfg.Build.Ldflags, p.Ldflags)
	setList("tags", &cfg.Build.Tags, p.Tags)
	setBool("trimpath", &cfg.Build.Trimpath, p.Trimpath)
	setList("build-flag", &cfg.Build.Flags, p.BuildFlags)
	setList("env", &cfg.Build.Env, p.Env)
	setBool("keep-going", &cfg.KeepGoing, p.KeepGoing)
	setBool("restore-on-failure", &cfg.RestoreOnFailure, p.RestoreOnFailure)
	setBool("mkdir", &cfg.Mkdir, p.Mkdir)
	setString("manifest", &cfg.Manifest, p.Manifest)
	setString("lock", &cfg.Lock, p.Lock)

	if p.Changed("jobs") {
		cfg.Jobs = p.Jobs
	}
	if p.Changed("cgo") {
		enabled, err := parseSwitch(p.CGO)
		if err != nil {
			return cli.Validation("--cgo: %w", err)
		}
		cfg.Build.CGO = &enabled
	}
	return nil
}

// parseSwitch accepts on/off in addition to strconv.ParseBool's forms.
func parseSwitch(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%q is not on or off", value)
	}
	return enabled, nil
}

// selectTargets builds the ordered target list: the explicit targets
// or the architecture/OS product, then the only/exclude filters.
func selectTargets(cfg *config.Config) ([]platform.Platform, error) {
	var specifiers []string
	if len(cfg.Targets) > 0 {
		specifiers = cfg.Targets
	} else {
		for _, target := range platform.Matrix(cfg.Architectures, cfg.OperatingSystems) {
			specifiers = append(specifiers, target.String())
		}
	}

	targets, err := platform.ParseAll(specifiers)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	targets, err = platform.Filter(platform.Unique(targets), cfg.Only, cfg.Exclude)
	if err != nil {
		return nil, cli.Validation("%w", err)
	}
	if len(targets) == 0 {
		return nil, cli.Validation("no targets left after applying only %v and exclude %v", cfg.Only, cfg.Exclude)
	}
	return targets, nil
}

// sourceDir returns the directory describing the build source: the
// package directory when source names one on disk, otherwise the
// working directory.
func sourceDir(pkg string) string {
	dir := strings.TrimSuffix(pkg, "...")
	if dir == "" {
		return "."
	}
	if info, err := os.Stat(dir); err == nil {
		if info.IsDir() {
			return dir
		}
		return filepath.Dir(dir)
	}
	return "."
}
