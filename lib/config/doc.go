// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the crossbuild configuration.
//
// A configuration file is optional. When used, it is named explicitly
// by the --config flag or the CROSSBUILD_CONFIG environment variable.
// There is no discovery: a crossbuild.yaml lying in the working
// directory is ignored unless named.
//
// The file format follows the extension: .yaml and .yml are YAML,
// .toml is TOML, and .json and .jsonc are JSON with comments and
// trailing commas allowed. All three decode into the same [Config].
//
// A file may define named profiles under "profiles". Selecting a
// profile (the file's "profile" key or --profile) overlays its fields
// onto the base configuration:
//
//	name: gem
//	profiles:
//	  release:
//	    trimpath: true
//	    ldflags: "-s -w -X main.version=${VERSION}"
//
// [Config.Expand] substitutes ${VAR} and ${VAR:-default} in path and
// flag fields, consulting the supplied variables (COMMIT, DIRTY,
// MODULE, NAME, VERSION) before the process environment.
//
// Precedence is defaults, then file, then profile, then command-line
// flags the user explicitly set. The last step is applied by the
// command, not by this package.
package config
