// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the configuration file when --config is
// not given.
const EnvironmentVariable = "CROSSBUILD_CONFIG"

// Build modes.
const (
	ModeIsolated = "isolated"
	ModeGlobal   = "global"
)

// Config is the complete crossbuild configuration.
type Config struct {
	// Profile selects an entry of Profiles to overlay after loading.
	Profile string `yaml:"profile" toml:"profile" json:"profile"`

	// Name is the artifact base name: binaries are written as
	// {name}-{os}-{arch}{ext}.
	Name string `yaml:"name" toml:"name" json:"name"`

	// Source is the package or directory passed to go build.
	Source string `yaml:"source" toml:"source" json:"source"`

	// Output is the directory binaries are written to.
	Output string `yaml:"output" toml:"output" json:"output"`

	// Architectures and OperatingSystems span the build matrix. The
	// outer loop runs over architectures.
	Architectures    []string `yaml:"architectures" toml:"architectures" json:"architectures"`
	OperatingSystems []string `yaml:"operating_systems" toml:"operating_systems" json:"operating_systems"`

	// Targets, when non-empty, replaces the product of Architectures
	// and OperatingSystems with an explicit os/arch[/variant] list.
	Targets []string `yaml:"targets" toml:"targets" json:"targets"`

	// Only and Exclude filter the matrix with glob patterns such as
	// "linux", "*/arm64" or "{darwin,windows}/amd64".
	Only    []string `yaml:"only" toml:"only" json:"only"`
	Exclude []string `yaml:"exclude" toml:"exclude" json:"exclude"`

	// Mode is "isolated" (target passed per build) or "global"
	// (target written with go env -w, then restored).
	Mode string `yaml:"mode" toml:"mode" json:"mode"`

	// Jobs bounds parallel builds in isolated mode.
	Jobs int `yaml:"jobs" toml:"jobs" json:"jobs"`

	// KeepGoing continues past failed builds and reports them all.
	KeepGoing bool `yaml:"keep_going" toml:"keep_going" json:"keep_going"`

	// RestoreOnFailure restores the global toolchain configuration on
	// every exit path in global mode, not only after success.
	RestoreOnFailure bool `yaml:"restore_on_failure" toml:"restore_on_failure" json:"restore_on_failure"`

	// Mkdir creates the output directory before building.
	Mkdir bool `yaml:"mkdir" toml:"mkdir" json:"mkdir"`

	// Manifest, when set, is the path of a manifest describing every
	// produced artifact. The extension selects the format.
	Manifest string `yaml:"manifest" toml:"manifest" json:"manifest"`

	// Lock is the lock file that serializes global-mode runs. Empty
	// selects a file in the user cache directory.
	Lock string `yaml:"lock" toml:"lock" json:"lock"`

	// Build holds the flags passed to every go build.
	Build BuildConfig `yaml:"build" toml:"build" json:"build"`

	// Profiles are named overlays, selected by Profile.
	Profiles map[string]*Overrides `yaml:"profiles,omitempty" toml:"profiles,omitempty" json:"profiles,omitempty"`
}

// BuildConfig configures the go build command line.
type BuildConfig struct {
	Ldflags  string   `yaml:"ldflags" toml:"ldflags" json:"ldflags"`
	Tags     []string `yaml:"tags" toml:"tags" json:"tags"`
	Trimpath bool     `yaml:"trimpath" toml:"trimpath" json:"trimpath"`

	// CGO sets CGO_ENABLED when non-nil.
	CGO *bool `yaml:"cgo,omitempty" toml:"cgo,omitempty" json:"cgo,omitempty"`

	// Flags are appended verbatim after the generated flags.
	Flags []string `yaml:"flags" toml:"flags" json:"flags"`

	// Env holds extra KEY=VALUE assignments for every build.
	Env []string `yaml:"env" toml:"env" json:"env"`
}

// Overrides holds the fields a profile may change. Nil fields leave
// the base value alone.
type Overrides struct {
	Name             *string  `yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
	Source           *string  `yaml:"source,omitempty" toml:"source,omitempty" json:"source,omitempty"`
	Output           *string  `yaml:"output,omitempty" toml:"output,omitempty" json:"output,omitempty"`
	Architectures    []string `yaml:"architectures,omitempty" toml:"architectures,omitempty" json:"architectures,omitempty"`
	OperatingSystems []string `yaml:"operating_systems,omitempty" toml:"operating_systems,omitempty" json:"operating_systems,omitempty"`
	Targets          []string `yaml:"targets,omitempty" toml:"targets,omitempty" json:"targets,omitempty"`
	Only             []string `yaml:"only,omitempty" toml:"only,omitempty" json:"only,omitempty"`
	Exclude          []string `yaml:"exclude,omitempty" toml:"exclude,omitempty" json:"exclude,omitempty"`
	Mode             *string  `yaml:"mode,omitempty" toml:"mode,omitempty" json:"mode,omitempty"`
	Jobs             *int     `yaml:"jobs,omitempty" toml:"jobs,omitempty" json:"jobs,omitempty"`
	KeepGoing        *bool    `yaml:"keep_going,omitempty" toml:"keep_going,omitempty" json:"keep_going,omitempty"`
	RestoreOnFailure *bool    `yaml:"restore_on_failure,omitempty" toml:"restore_on_failure,omitempty" json:"restore_on_failure,omitempty"`
	Mkdir            *bool    `yaml:"mkdir,omitempty" toml:"mkdir,omitempty" json:"mkdir,omitempty"`
	Manifest         *string  `yaml:"manifest,omitempty" toml:"manifest,omitempty" json:"manifest,omitempty"`
	Ldflags          *string  `yaml:"ldflags,omitempty" toml:"ldflags,omitempty" json:"ldflags,omitempty"`
	Tags             []string `yaml:"tags,omitempty" toml:"tags,omitempty" json:"tags,omitempty"`
	Trimpath         *bool    `yaml:"trimpath,omitempty" toml:"trimpath,omitempty" json:"trimpath,omitempty"`
	CGO              *bool    `yaml:"cgo,omitempty" toml:"cgo,omitempty" json:"cgo,omitempty"`
	Flags            []string `yaml:"flags,omitempty" toml:"flags,omitempty" json:"flags,omitempty"`
	Env              []string `yaml:"env,omitempty" toml:"env,omitempty" json:"env,omitempty"`
}

// Default returns the built-in configuration: gem from ./ into ./out
// for amd64 and arm64 on linux, darwin and windows.
func Default() *Config {
	return &Config{
		Name:             "gem",
		Source:           "./",
		Output:           "./out",
		Architectures:    []string{"amd64", "arm64"},
		OperatingSystems: []string{"linux", "darwin", "windows"},
		Mode:             ModeIsolated,
		Jobs:             1,
	}
}

// Load resolves the configuration file from path, falling back to
// CROSSBUILD_CONFIG, and loads it. With neither set it returns the
// defaults. A non-empty profile overrides the file's own selection.
func Load(path, profile string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvironmentVariable)
	}
	if path == "" {
		cfg := Default()
		if profile != "" {
			return nil, fmt.Errorf("profile %q requested but no configuration file given (use --config or %s)", profile, EnvironmentVariable)
		}
		return cfg, nil
	}
	return LoadFile(path, profile)
}

// LoadFile loads the configuration at path over the defaults and
// applies the selected profile.
func LoadFile(path, profile string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if profile != "" {
		cfg.Profile = profile
	}
	if err := cfg.applyProfile(); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes a single file into c according to its extension.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, c)
	case ".toml":
		_, err := toml.Decode(string(data), c)
		return err
	case ".json", ".jsonc":
		return json.Unmarshal(jsonc.ToJSON(data), c)
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml, .toml, .json or .jsonc)", extension)
	}
}

// ProfileNames returns the defined profile names in sorted order.
func (c *Config) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyProfile overlays the selected profile onto the base fields.
func (c *Config) applyProfile() error {
	if c.Profile == "" {
		return nil
	}
	overrides, ok := c.Profiles[c.Profile]
	if !ok {
		return fmt.Errorf("unknown profile %q (defined: %s)", c.Profile, strings.Join(c.ProfileNames(), ", "))
	}
	if overrides == nil {
		return nil
	}

	setString(&c.Name, overrides.Name)
	setString(&c.Source, overrides.Source)
	setString(&c.Output, overrides.Output)
	setString(&c.Mode, overrides.Mode)
	setString(&c.Manifest, overrides.Manifest)
	setString(&c.Build.Ldflags, overrides.Ldflags)
	setList(&c.Architectures, overrides.Architectures)
	setList(&c.OperatingSystems, overrides.OperatingSystems)
	setList(&c.Targets, overrides.Targets)
	setList(&c.Only, overrides.Only)
	setList(&c.Exclude, overrides.Exclude)
	setList(&c.Build.Tags, overrides.Tags)
	setList(&c.Build.Flags, overrides.Flags)
	setList(&c.Build.Env, overrides.Env)
	setBool(&c.KeepGoing, overrides.KeepGoing)
	setBool(&c.RestoreOnFailure, overrides.RestoreOnFailure)
	setBool(&c.Mkdir, overrides.Mkdir)
	setBool(&c.Build.Trimpath, overrides.Trimpath)
	if overrides.Jobs != nil {
		c.Jobs = *overrides.Jobs
	}
	if overrides.CGO != nil {
		enabled := *overrides.CGO
		c.Build.CGO = &enabled
	}
	return nil
}

func setString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}

func setBool(target *bool, value *bool) {
	if value != nil {
		*target = *value
	}
}

func setList(target *[]string, value []string) {
	if value != nil {
		*target = append([]string(nil), value...)
	}
}

// Expand substitutes ${VAR} and ${VAR:-default} in the path and flag
// fields. vars is consulted before the process environment. NAME is
// always available as the configured artifact name.
func (c *Config) Expand(vars map[string]string) {
	lookup := make(map[string]string, len(vars)+1)
	for name, value := range vars {
		lookup[name] = value
	}
	c.Name = expandVars(c.Name, lookup)
	lookup["NAME"] = c.Name

	c.Source = expandVars(c.Source, lookup)
	c.Output = expandVars(c.Output, lookup)
	c.Manifest = expandVars(c.Manifest, lookup)
	c.Lock = expandVars(c.Lock, lookup)
	c.Build.Ldflags = expandVars(c.Build.Ldflags, lookup)
	for i := range c.Build.Flags {
		c.Build.Flags[i] = expandVars(c.Build.Flags[i], lookup)
	}
	for i := range c.Build.Env {
		c.Build.Env[i] = expandVars(c.Build.Env[i], lookup)
	}
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns.
func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		name, defaultValue := parts[1], parts[2]

		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if strings.ContainsAny(c.Name, `/\`) {
		errs = append(errs, fmt.Errorf("name %q must not contain path separators", c.Name))
	}
	if c.Source == "" {
		errs = append(errs, errors.New("source is required"))
	}
	if c.Output == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if len(c.Targets) == 0 {
		if len(c.Architectures) == 0 {
			errs = append(errs, errors.New("architectures must not be empty when targets is unset"))
		}
		if len(c.OperatingSystems) == 0 {
			errs = append(errs, errors.New("operating_systems must not be empty when targets is unset"))
		}
	}

	switch c.Mode {
	case ModeIsolated:
	case ModeGlobal:
		if c.Jobs > 1 {
			errs = append(errs, fmt.Errorf("jobs is %d but global mode builds one target at a time", c.Jobs))
		}
	default:
		errs = append(errs, fmt.Errorf("mode must be %q or %q, got %q", ModeIsolated, ModeGlobal, c.Mode))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if c.RestoreOnFailure && c.Mode != ModeGlobal {
		errs = append(errs, errors.New("restore_on_failure only applies to global mode"))
	}
	for _, assignment := range c.Build.Env {
		if name, _, ok := strings.Cut(assignment, "="); !ok || name == "" {
			errs = append(errs, fmt.Errorf("build.env entry %q is not KEY=VALUE", assignment))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
