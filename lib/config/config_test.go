// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Name != "gem" {
		t.Errorf("Name = %q, want gem", cfg.Name)
	}
	if cfg.Source != "./" || cfg.Output != "./out" {
		t.Errorf("Source, Output = %q, %q, want ./ and ./out", cfg.Source, cfg.Output)
	}
	if diff := cmp.Diff([]string{"amd64", "arm64"}, cfg.Architectures); diff != "" {
		t.Errorf("Architectures mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"linux", "darwin", "windows"}, cfg.OperatingSystems); diff != "" {
		t.Errorf("OperatingSystems mismatch (-want +got):\n%s", diff)
	}
	if cfg.Mode != ModeIsolated || cfg.Jobs != 1 {
		t.Errorf("Mode, Jobs = %q, %d, want isolated, 1", cfg.Mode, cfg.Jobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv(EnvironmentVariable, "")

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Load without file mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load("", "release"); err == nil {
		t.Error("Load with a profile but no file succeeded, want error")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	path := writeConfig(t, "crossbuild.yaml", "name: tool\n")
	t.Setenv(EnvironmentVariable, path)

	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "tool" {
		t.Errorf("Name = %q, want tool", cfg.Name)
	}
}

func TestLoadFileFormats(t *testing.T) {
	want := Default()
	want.Name = "tool"
	want.Architectures = []string{"arm64"}
	want.Build.Ldflags = "-s -w"
	want.KeepGoing = true

	tests := []struct {
		filename string
		content  string
	}{
		{
			filename: "crossbuild.yaml",
			content: `
name: tool
architectures: [arm64]
keep_going: true
build:
  ldflags: "-s -w"
`,
		},
		{
			filename: "crossbuild.toml",
			content: `
name = "tool"
architectures = ["arm64"]
keep_going = true

[build]
ldflags = "-s -w"
`,
		},
		{
			filename: "crossbuild.jsonc",
			content: `{
  // The artifact name.
  "name": "tool",
  "architectures": ["arm64",],
  "keep_going": true,
  "build": {"ldflags": "-s -w"},
}`,
		},
	}

	for _, test := range tests {
		t.Run(test.filename, func(t *testing.T) {
			cfg, err := LoadFile(writeConfig(t, test.filename, test.content), "")
			if err != nil {
				t.Fatalf("LoadFile: %v", err)
			}
			if diff := cmp.Diff(want, cfg); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadFileUnsupportedExtension(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "crossbuild.ini", "name=tool\n"), "")
	if err == nil || !strings.Contains(err.Error(), "unsupported config format") {
		t.Errorf("LoadFile(.ini) error = %v, want unsupported format", err)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), ""); err == nil {
		t.Error("LoadFile of a missing file succeeded, want error")
	}
}

const profileConfig = `
name: gem
profile: debug
build:
  ldflags: "-X main.debug=true"
profiles:
  debug:
    tags: [debug]
  release:
    trimpath: true
    cgo: false
    ldflags: "-s -w"
    only: [linux]
`

func TestProfileFromFile(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "crossbuild.yaml", profileConfig), "")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if diff := cmp.Diff([]string{"debug"}, cfg.Build.Tags); diff != "" {
		t.Errorf("Tags mismatch (-want +got):\n%s", diff)
	}
	if cfg.Build.Ldflags != "-X main.debug=true" {
		t.Errorf("Ldflags = %q, want the base value", cfg.Build.Ldflags)
	}
}

func TestProfileOverride(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "crossbuild.yaml", profileConfig), "release")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Profile != "release" {
		t.Errorf("Profile = %q, want release", cfg.Profile)
	}
	if !cfg.Build.Trimpath {
		t.Error("Trimpath = false, want true from the release profile")
	}
	if cfg.Build.CGO == nil || *cfg.Build.CGO {
		t.Errorf("CGO = %v, want explicit false", cfg.Build.CGO)
	}
	if cfg.Build.Ldflags != "-s -w" {
		t.Errorf("Ldflags = %q, want -s -w", cfg.Build.Ldflags)
	}
	if diff := cmp.Diff([]string{"linux"}, cfg.Only); diff != "" {
		t.Errorf("Only mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Build.Tags) != 0 {
		t.Errorf("Tags = %v, want none outside the debug profile", cfg.Build.Tags)
	}
}

func TestUnknownProfile(t *testing.T) {
	_, err := LoadFile(writeConfig(t, "crossbuild.yaml", profileConfig), "staging")
	if err == nil {
		t.Fatal("LoadFile with an unknown profile succeeded, want error")
	}
	if !strings.Contains(err.Error(), "debug, release") {
		t.Errorf("error = %q, want it to list the defined profiles", err)
	}
}

func TestExpand(t *testing.T) {
	t.Setenv("CROSSBUILD_TEST_PREFIX", "/srv")

	cfg := Default()
	cfg.Output = "${CROSSBUILD_TEST_PREFIX}/${NAME}/${VERSION:-dev}"
	cfg.Manifest = "${OUTPUT_DIR:-out}/manifest.json"
	cfg.Build.Ldflags = "-X main.commit=${COMMIT} -X main.dirty=${DIRTY}"
	cfg.Build.Env = []string{"MODULE=${MODULE}"}

	cfg.Expand(map[string]string{
		"COMMIT": "abc1234",
		"DIRTY":  "false",
		"MODULE": "example.com/gem",
	})

	if cfg.Output != "/srv/gem/dev" {
		t.Errorf("Output = %q, want /srv/gem/dev", cfg.Output)
	}
	if cfg.Manifest != "out/manifest.json" {
		t.Errorf("Manifest = %q, want out/manifest.json", cfg.Manifest)
	}
	if cfg.Build.Ldflags != "-X main.commit=abc1234 -X main.dirty=false" {
		t.Errorf("Ldflags = %q", cfg.Build.Ldflags)
	}
	if diff := cmp.Diff([]string{"MODULE=example.com/gem"}, cfg.Build.Env); diff != "" {
		t.Errorf("Env mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr []string
	}{
		{
			name:   "default",
			modify: func(*Config) {},
		},
		{
			name:    "empty name and output",
			modify:  func(c *Config) { c.Name = ""; c.Output = "" },
			wantErr: []string{"name is required", "output is required"},
		},
		{
			name:    "name with separator",
			modify:  func(c *Config) { c.Name = "bin/gem" },
			wantErr: []string{"must not contain path separators"},
		},
		{
			name:    "empty matrix",
			modify:  func(c *Config) { c.Architectures = nil },
			wantErr: []string{"architectures must not be empty"},
		},
		{
			name:   "explicit targets without product",
			modify: func(c *Config) { c.Architectures = nil; c.Targets = []string{"linux/amd64"} },
		},
		{
			name:    "bad mode",
			modify:  func(c *Config) { c.Mode = "shared" },
			wantErr: []string{`mode must be "isolated" or "global"`},
		},
		{
			name:    "parallel global",
			modify:  func(c *Config) { c.Mode = ModeGlobal; c.Jobs = 4 },
			wantErr: []string{"global mode builds one target at a time"},
		},
		{
			name:    "restore on failure in isolated mode",
			modify:  func(c *Config) { c.RestoreOnFailure = true },
			wantErr: []string{"restore_on_failure only applies to global mode"},
		},
		{
			name:    "bad env",
			modify:  func(c *Config) { c.Build.Env = []string{"CGO_ENABLED"} },
			wantErr: []string{"is not KEY=VALUE"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := Default()
			test.modify(cfg)
			err := cfg.Validate()
			if len(test.wantErr) == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want errors %v", test.wantErr)
			}
			for _, want := range test.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Validate() = %q, want it to contain %q", err, want)
				}
			}
		})
	}
}
