// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/matrix"
	"github.com/bureau-foundation/crossbuild/lib/platform"
)

type targetsParams struct {
	cli.JSONOutput
	matrixParams
}

// targetEntry describes one target of the matrix.
type targetEntry struct {
	Target platform.Platform `json:"target"`
	File   string            `json:"file"`
	Env    []string          `json:"env"`
}

func targetsCommand() *cli.Command {
	var params targetsParams
	return &cli.Command{
		Name:    "targets",
		Summary: "List the targets of the matrix",
		Description: heredoc.Doc(`
			List the targets the matrix resolves to, after --only and --exclude,
			with the file name each produces and the environment that selects
			it.
		`),
		Usage: "crossbuild targets [flags]",
		Examples: []cli.Example{
			{
				Description: "List arm targets including a GOARM variant",
				Command:     "crossbuild targets -t linux/arm64 -t linux/arm/v7",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			plan, err := params.resolve(nil)
			if err != nil {
				return err
			}

			entries := make([]targetEntry, len(plan.Options.Targets))
			for i, target := range plan.Options.Targets {
				entries[i] = targetEntry{
					Target: target,
					File:   filepath.Base(matrix.OutputPath(plan.Options.Output, plan.Options.Name, target)),
					Env:    target.Env(),
				}
			}
			stdout := cli.Stdout(ctx)
			if done, err := params.EmitJSON(stdout, entries); done {
				return err
			}

			table := newTable(stdout)
			table.Header("Target", "File", "Environment")
			for _, entry := range entries {
				if err := table.Append(entry.Target.String(), entry.File, strings.Join(entry.Env, " ")); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
