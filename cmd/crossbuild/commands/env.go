// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/gotool"
)

type envParams struct {
	cli.JSONOutput
}

// envVariable is one row of the env report.
type envVariable struct {
	Name      string `json:"name"`
	Effective string `json:"effective"`
	Persisted string `json:"persisted,omitempty"`
	IsSet     bool   `json:"persisted_set"`
}

// envVariables are the variables a build matrix run may change.
var envVariables = []string{"GOOS", "GOARCH", "GOARM", "GOARM64", "GOAMD64"}

func envCommand(deps dependencies) *cli.Command {
	var params envParams
	return &cli.Command{
		Name:    "env",
		Summary: "Show the toolchain's target configuration",
		Description: heredoc.Doc(`
			Show the target variables the Go toolchain currently uses and which
			of them are persisted in its configuration file (go env -w).

			Use it to check that a global-mode run left the toolchain as it
			found it.
		`),
		Usage:  "crossbuild env [flags]",
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}
			snapshot, err := gotool.Snapshot(ctx, deps.toolchain(), envVariables...)
			if err != nil {
				return err
			}
			logger.Debug("queried toolchain environment", "persisted", len(snapshot.Persisted))

			rows := make([]envVariable, 0, len(envVariables))
			for _, name := range envVariables {
				persisted, isSet := snapshot.Persisted[name]
				rows = append(rows, envVariable{
					Name:      name,
					Effective: snapshot.Effective[name],
					Persisted: persisted,
					IsSet:     isSet,
				})
			}
			stdout := cli.Stdout(ctx)
			if done, err := params.EmitJSON(stdout, rows); done {
				return err
			}

			table := newTable(stdout)
			table.Header("Variable", "Effective", "Persisted")
			for _, row := range rows {
				persisted := "-"
				if row.IsSet {
					persisted = row.Persisted
				}
				if err := table.Append(row.Name, row.Effective, persisted); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
