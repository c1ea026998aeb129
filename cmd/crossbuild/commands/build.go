// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/dustin/go-humanize"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/gotool"
	"github.com/bureau-foundation/crossbuild/lib/manifest"
	"github.com/bureau-foundation/crossbuild/lib/matrix"
)

type buildParams struct {
	cli.JSONOutput
	matrixParams
}

func buildCommand(deps dependencies) *cli.Command {
	var params buildParams
	return &cli.Command{
		Name:    "build",
		Summary: "Build the program for every target",
		Description: heredoc.Doc(`
			Build the program for every target of the matrix.

			Targets are built in order, architectures in the outer loop and
			operating systems in the inner loop. The first failure stops the
			run unless --keep-going is set, in which case every target is
			attempted and all failures are reported together.

			In the default isolated mode, GOOS and GOARCH are passed in the
			environment of each go build, so the toolchain's persistent
			configuration is never touched and --jobs may build targets in
			parallel. In global mode, each target is written with
			"go env -w" before its build and the previous configuration is
			restored once every target has been built. A failed global run
			leaves the last target configured unless --restore-on-failure is
			set; the command that restores it is logged.

			Every binary is hashed (SHA-256 and BLAKE3). With --manifest the
			digests are written to a manifest that "crossbuild verify" checks.
		`),
		Usage: "crossbuild build [package] [flags]",
		Examples: []cli.Example{
			{
				Description: "Build ./cmd/gem for every default target",
				Command:     "crossbuild build ./cmd/gem",
			},
			{
				Description: "Build linux targets in parallel with a release profile",
				Command:     "crossbuild build --config crossbuild.yaml --profile release --only linux -j 4",
			},
			{
				Description: "Mutate the global toolchain configuration like a classic build script",
				Command:     "crossbuild build --mode global --restore-on-failure",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			return runBuild(ctx, deps, &params, args, logger)
		},
	}
}

func runBuild(ctx context.Context, deps dependencies, params *buildParams, args []string, logger *slog.Logger) error {
	plan, err := params.resolve(args)
	if err != nil {
		return err
	}

	stdout, stderr := cli.Stdout(ctx), cli.Stderr(ctx)
	styles := cli.NewStyles(stderr)
	toolchain := deps.toolchain()

	runner := &matrix.Runner{
		Toolchain: toolchain,
		Options:   plan.Options,
		Logger:    logger,
		Clock:     deps.clock,
		FS:        deps.fs,
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		runner.Stdout, runner.Stderr = stderr, stderr
	}
	if !params.OutputJSON {
		runner.OnOutcome = func(outcome matrix.Outcome) {
			printProgress(stderr, styles, outcome)
		}
	}

	report, runErr := runner.Run(ctx)
	if report == nil {
		return runErr
	}

	if runErr == nil && plan.Config.Manifest != "" {
		if err := writeManifest(ctx, deps, plan, report, toolchain, logger); err != nil {
			return err
		}
	}

	if done, err := params.EmitJSON(stdout, report); done {
		if err != nil {
			return err
		}
		if runErr != nil {
			return &cli.ExitError{Code: 1}
		}
		return nil
	}

	if err := printReport(stdout, report); err != nil {
		return err
	}
	// A keep-going failure names only the targets; show each cause.
	var failures *matrix.FailureError
	if errors.As(runErr, &failures) {
		for _, failed := range report.Failed() {
			fmt.Fprintf(stderr, "%s %s: %v\n", styles.Failure.Render("failed"), failed.Invocation.Target, failed.Err)
		}
	}
	return runErr
}

// writeManifest records the artifacts of a successful run.
func writeManifest(ctx context.Context, deps dependencies, plan *resolved, report *matrix.Report, toolchain gotool.Toolchain, logger *slog.Logger) error {
	metadata := manifest.Metadata{Module: plan.Module, Revision: plan.Revision}
	if values, err := toolchain.Env(ctx, nil, "GOVERSION"); err != nil {
		logger.Warn("could not query the toolchain version", "error", err)
	} else {
		metadata.Toolchain = values["GOVERSION"]
	}

	path := plan.Config.Manifest
	built := manifest.FromReport(plan.Options, report, metadata)
	if err := manifest.Write(deps.fs, path, built); err != nil {
		return cli.Internal("writing manifest: %w", err)
	}
	logger.Info("wrote manifest", "path", path, "artifacts", len(built.Artifacts))
	return nil
}

// printProgress writes one status line for a finished invocation.
func printProgress(w io.Writer, styles cli.Styles, outcome matrix.Outcome) {
	target := outcome.Invocation.Target.String()
	switch outcome.Status {
	case matrix.StatusSucceeded:
		size := ""
		if outcome.Digests != nil {
			size = humanize.IBytes(uint64(outcome.Digests.Size)) + ", "
		}
		fmt.Fprintf(w, "%s %-16s %s %s\n", styles.Success.Render("built "), target,
			outcome.Invocation.Output,
			styles.Faint.Render("("+size+roundDuration(outcome.Duration).String()+")"))
	case matrix.StatusFailed:
		fmt.Fprintf(w, "%s %-16s %s\n", styles.Failure.Render("failed"), target, outcome.Invocation.Output)
	}
}

// printReport writes the summary table of a run.
func printReport(w io.Writer, report *matrix.Report) error {
	table := newTable(w)
	table.Header("Target", "Status", "Output", "Size", "SHA-256", "Time")
	for _, outcome := range report.Outcomes {
		size, digest, elapsed := "-", "-", "-"
		if outcome.Digests != nil {
			size = humanize.IBytes(uint64(outcome.Digests.Size))
			digest = outcome.Digests.SHA256.String()[:12]
		}
		if outcome.Status != matrix.StatusSkipped {
			elapsed = roundDuration(outcome.Duration).String()
		}
		if err := table.Append(outcome.Invocation.Target.String(), string(outcome.Status),
			outcome.Invocation.Output, size, digest, elapsed); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d built, %d failed, %d skipped in %s",
		report.Count(matrix.StatusSucceeded),
		report.Count(matrix.StatusFailed),
		report.Count(matrix.StatusSkipped),
		roundDuration(report.Duration))
	if report.Mode == matrix.ModeGlobal {
		if report.Restored {
			summary += "; toolchain configuration restored"
		} else {
			summary += "; toolchain configuration NOT restored"
		}
	}
	_, err := fmt.Fprintln(w, summary)
	return err
}

func roundDuration(d time.Duration) time.Duration {
	if d < time.Second {
		return d.Round(time.Millisecond)
	}
	return d.Round(10 * time.Millisecond)
}
