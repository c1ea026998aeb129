// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the crossbuild command tree.
package commands

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/clock"
	"github.com/bureau-foundation/crossbuild/lib/gotool"
)

// dependencies are the external systems commands talk to. Tests
// replace them with a fake toolchain and an in-memory filesystem.
type dependencies struct {
	toolchain func() gotool.Toolchain
	fs        afero.Fs
	clock     clock.Clock
}

func defaultDependencies() dependencies {
	return dependencies{
		toolchain: func() gotool.Toolchain { return gotool.New("") },
		fs:        afero.NewOsFs(),
		clock:     clock.Real(),
	}
}

// Root builds and returns the complete crossbuild command tree.
func Root() *cli.Command {
	return newRoot(defaultDependencies())
}

func newRoot(deps dependencies) *cli.Command {
	return &cli.Command{
		Name: "crossbuild",
		Description: heredoc.Doc(`
			crossbuild: cross-compile a Go program for a matrix of platforms.

			Every target is built with "go build" into the output directory as
			{name}-{os}-{arch}, with ".exe" appended for windows. The default
			matrix is amd64 and arm64 on linux, darwin and windows, building
			"gem" from ./ into ./out.
		`),
		Subcommands: []*cli.Command{
			buildCommand(deps),
			planCommand(),
			targetsCommand(),
			envCommand(deps),
			verifyCommand(deps),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Build the default matrix",
				Command:     "crossbuild build",
			},
			{
				Description: "Show the go build commands without running them",
				Command:     "crossbuild plan --only linux",
			},
			{
				Description: "Check built binaries against their manifest",
				Command:     "crossbuild verify out/manifest.json",
			},
		},
	}
}
