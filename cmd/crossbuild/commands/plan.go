// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/matrix"
)

type planParams struct {
	cli.JSONOutput
	matrixParams
}

// plannedInvocation is the JSON form of one planned build.
type plannedInvocation struct {
	matrix.Invocation
	Args        []string `json:"args"`
	CommandLine string   `json:"command_line"`
}

func planCommand() *cli.Command {
	var params planParams
	return &cli.Command{
		Name:    "plan",
		Summary: "Print the go build commands without running them",
		Description: heredoc.Doc(`
			Resolve the configuration and print the go build command of every
			target, in build order, as a shell would run it. Nothing is built
			and the toolchain is not invoked.

			Planning is deterministic: the same configuration always yields the
			same commands, output paths and argument vectors.
		`),
		Usage: "crossbuild plan [package] [flags]",
		Examples: []cli.Example{
			{
				Description: "Show the default matrix",
				Command:     "crossbuild plan",
			},
			{
				Description: "Show the global-mode commands for arm64 as JSON",
				Command:     "crossbuild plan --mode global --only '*/arm64' --json",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			plan, err := params.resolve(args)
			if err != nil {
				return err
			}
			mode := plan.Options.Mode
			invocations := matrix.Plan(plan.Options)
			logger.Debug("planned build matrix", "targets", len(invocations), "mode", string(mode))

			result := make([]plannedInvocation, len(invocations))
			for i, invocation := range invocations {
				result[i] = plannedInvocation{
					Invocation:  invocation,
					Args:        invocation.Args(),
					CommandLine: invocation.CommandLine(mode),
				}
			}
			stdout := cli.Stdout(ctx)
			if done, err := params.EmitJSON(stdout, result); done {
				return err
			}
			for _, planned := range result {
				if _, err := fmt.Fprintln(stdout, planned.CommandLine); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
