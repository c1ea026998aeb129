// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/bureau-foundation/crossbuild/lib/binhash"
	"github.com/bureau-foundation/crossbuild/lib/clock"
	"github.com/bureau-foundation/crossbuild/lib/gotool"
	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Runner executes a build matrix.
type Runner struct {
	Toolchain gotool.Toolchain
	Options   Options

	// Logger receives progress records. Nil discards them.
	Logger *slog.Logger

	// Clock times each build. Nil uses the real clock.
	Clock clock.Clock

	// FS is where outputs are hashed and the output directory is
	// created. Nil uses the operating system's filesystem.
	FS afero.Fs

	// Stdout and Stderr receive the output of go build.
	Stdout io.Writer
	Stderr io.Writer

	// OnOutcome, when set, is called after each invocation finishes.
	// Calls are serialized even when builds run in parallel.
	OnOutcome func(Outcome)

	outcomeMu sync.Mutex
}

// Run builds every planned invocation and returns the report. The
// report is returned even when err is non-nil, so callers can show
// which targets were built before the failure.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.Toolchain == nil {
		return nil, errors.New("matrix runner has no toolchain")
	}
	if err := r.Options.Validate(); err != nil {
		return nil, fmt.Errorf("invalid build options: %w", err)
	}
	mode, _ := ParseMode(string(r.Options.Mode))

	report := &Report{Mode: mode, Started: r.clock().Now()}
	for _, invocation := range Plan(r.Options) {
		report.Outcomes = append(report.Outcomes, Outcome{Invocation: invocation, Status: StatusSkipped})
	}
	defer func() {
		report.Duration = clock.Since(r.clock(), report.Started)
	}()

	logger := r.logger().With("mode", string(mode))
	logger.Info("starting build matrix",
		"targets", len(report.Outcomes),
		"source", r.Options.Source,
		"output", r.Options.Output,
		"jobs", r.Options.jobs(),
	)

	if r.Options.Mkdir {
		if err := r.fs().MkdirAll(r.Options.Output, 0o755); err != nil {
			return report, fmt.Errorf("creating output directory %s: %w", r.Options.Output, err)
		}
	}

	var err error
	if mode == ModeGlobal {
		err = r.runGlobal(ctx, logger, report)
	} else {
		err = r.runIsolated(ctx, logger, report)
	}
	if err != nil {
		return report, err
	}
	logger.Info("build matrix complete", "built", report.Count(StatusSucceeded))
	return report, nil
}

// runIsolated builds each target with the target in the command
// environment, in parallel up to the configured job count.
func (r *Runner) runIsolated(ctx context.Context, logger *slog.Logger, report *Report) error {
	jobs := r.Options.jobs()
	if jobs == 1 {
		for i := range report.Outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.attempt(ctx, logger, &report.Outcomes[i], ModeIsolated, nil); err != nil && !r.Options.KeepGoing {
				return err
			}
		}
		return r.failureError(report)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	if r.Options.KeepGoing {
		group, groupCtx = &errgroup.Group{}, ctx
	}
	group.SetLimit(jobs)

	for i := range report.Outcomes {
		if groupCtx.Err() != nil {
			break
		}
		outcome := &report.Outcomes[i]
		group.Go(func() error {
			// A slot may free up only after a failure cancelled the
			// group; such invocations stay skipped.
			if groupCtx.Err() != nil {
				return nil
			}
			err := r.attempt(groupCtx, logger, outcome, ModeIsolated, nil)
			if r.Options.KeepGoing {
				return nil
			}
			return err
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.failureError(report)
}

// runGlobal builds each target by rewriting the toolchain's persistent
// configuration, restoring it afterwards.
func (r *Runner) runGlobal(ctx context.Context, logger *slog.Logger, report *Report) error {
	if r.Options.LockPath != "" {
		logger.Debug("acquiring global mode lock", "path", r.Options.LockPath)
		unlock, err := acquireLock(ctx, r.Options.LockPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				logger.Warn("releasing global mode lock failed", "path", r.Options.LockPath, "error", err)
			}
		}()
	}

	names := globalVariables(r.Options.Targets)
	snapshot, err := gotool.Snapshot(ctx, r.Toolchain, names...)
	if err != nil {
		logger.Error("saving toolchain configuration failed", "error", err)
		return err
	}
	report.Snapshot = snapshot
	logger.Info("saved toolchain configuration", "effective", snapshot.Effective, "persisted", snapshot.Persisted)

	abortErr := r.globalLoop(ctx, logger, report, names)

	if abortErr != nil && !r.Options.RestoreOnFailure {
		logger.Warn("toolchain configuration left pointing at the failed target",
			"restore_command", restoreCommand(snapshot, names))
		return abortErr
	}

	restoreCtx := ctx
	if ctx.Err() != nil {
		restoreCtx = context.WithoutCancel(ctx)
	}
	if err := snapshot.Restore(restoreCtx, r.Toolchain); err != nil {
		logger.Error("restoring toolchain configuration failed",
			"error", err, "restore_command", restoreCommand(snapshot, names))
		return errors.Join(abortErr, err)
	}
	report.Restored = true
	logger.Info("restored toolchain configuration", "persisted", snapshot.Persisted)

	if abortErr != nil {
		return abortErr
	}
	return r.failureError(report)
}

// globalLoop runs every invocation in order. It returns the error that
// aborted the loop, or nil when every target was attempted.
func (r *Runner) globalLoop(ctx context.Context, logger *slog.Logger, report *Report, names []string) error {
	for i := range report.Outcomes {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.attempt(ctx, logger, &report.Outcomes[i], ModeGlobal, names); err != nil && !r.Options.KeepGoing {
			return err
		}
	}
	return nil
}

// attempt runs one invocation, recording its outcome.
func (r *Runner) attempt(ctx context.Context, logger *slog.Logger, outcome *Outcome, mode Mode, names []string) error {
	target := outcome.Invocation.Target
	logger = logger.With("target", target.String())

	start := r.clock().Now()
	err := r.execute(ctx, logger, outcome, mode, names)
	outcome.Duration = clock.Since(r.clock(), start)

	if err != nil {
		outcome.Status = StatusFailed
		outcome.Err = err
		outcome.Error = err.Error()
		logger.Error("build failed", "error", err, "duration", outcome.Duration)
	} else {
		outcome.Status = StatusSucceeded
		logger.Info("built",
			"output", outcome.Invocation.Output,
			"size", outcome.Digests.Size,
			"sha256", outcome.Digests.SHA256.String(),
			"duration", outcome.Duration,
		)
	}

	if r.OnOutcome != nil {
		r.outcomeMu.Lock()
		r.OnOutcome(*outcome)
		r.outcomeMu.Unlock()
	}

	if err != nil {
		return fmt.Errorf("building %s: %w", target, err)
	}
	return nil
}

// execute points the toolchain at the target (global mode only),
// reports the toolchain's view of the target, builds, and hashes the
// result.
func (r *Runner) execute(ctx context.Context, logger *slog.Logger, outcome *Outcome, mode Mode, names []string) error {
	invocation := outcome.Invocation

	var query *platform.Platform
	if mode == ModeGlobal {
		if err := r.pointToolchain(ctx, invocation.Target, names); err != nil {
			return err
		}
	} else {
		target := invocation.Target
		query = &target
	}

	current, err := r.Toolchain.Env(ctx, query, "GOOS", "GOARCH")
	if err != nil {
		return err
	}
	outcome.ToolchainOS, outcome.ToolchainArch = current["GOOS"], current["GOARCH"]
	// Global mode has just rewritten the toolchain configuration;
	// echo what it now reports at the default level.
	level := slog.LevelDebug
	if mode == ModeGlobal {
		level = slog.LevelInfo
	}
	logger.Log(ctx, level, "toolchain target", "goos", outcome.ToolchainOS, "goarch", outcome.ToolchainArch)

	request := invocation.Request(mode)
	request.Stdout = r.Stdout
	request.Stderr = r.Stderr
	logger.Debug("running go build", "command", invocation.CommandLine(mode))
	if err := r.Toolchain.Build(ctx, request); err != nil {
		return err
	}

	digests, err := binhash.HashFile(r.fs(), invocation.Output)
	if err != nil {
		return fmt.Errorf("go build succeeded but the output is unreadable: %w", err)
	}
	outcome.Digests = &digests
	return nil
}

// pointToolchain writes target's variables with "go env -w" and unsets
// any variant variable a previous target left behind.
func (r *Runner) pointToolchain(ctx context.Context, target platform.Platform, names []string) error {
	values := envMap(target.Env())
	if err := r.Toolchain.SetEnv(ctx, values); err != nil {
		return err
	}
	var stale []string
	for _, name := range names {
		if _, ok := values[name]; !ok {
			stale = append(stale, name)
		}
	}
	return r.Toolchain.UnsetEnv(ctx, stale...)
}

func (r *Runner) failureError(report *Report) error {
	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	failure := &FailureError{}
	for _, outcome := range failed {
		failure.Targets = append(failure.Targets, outcome.Invocation.Target)
		failure.Errs = append(failure.Errs, outcome.Err)
	}
	return failure
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.Logger
}

func (r *Runner) clock() clock.Clock {
	if r.Clock == nil {
		return clock.Real()
	}
	return r.Clock
}

func (r *Runner) fs() afero.Fs {
	if r.FS == nil {
		return afero.NewOsFs()
	}
	return r.FS
}

// globalVariables returns the persistent variables a global-mode run
// may write: GOOS, GOARCH, and the variant variable of any target
// that has one.
func globalVariables(targets []platform.Platform) []string {
	names := append([]string(nil), gotool.TargetVariables...)
	seen := map[string]bool{}
	for _, name := range names {
		seen[name] = true
	}
	for _, target := range targets {
		for _, assignment := range target.Env() {
			name, _, _ := strings.Cut(assignment, "=")
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func envMap(assignments []string) map[string]string {
	values := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		name, value, _ := strings.Cut(assignment, "=")
		values[name] = value
	}
	return values
}

// restoreCommand renders the go env invocations that undo a global-mode
// run, for users who did not ask for automatic restore on failure.
func restoreCommand(snapshot *gotool.EnvSnapshot, names []string) string {
	var commands []string
	if len(snapshot.Persisted) > 0 {
		var assignments []string
		for _, name := range names {
			if value, ok := snapshot.Persisted[name]; ok {
				assignments = append(assignments, name+"="+value)
			}
		}
		commands = append(commands, quote(append([]string{"go", "env", "-w"}, assignments...)))
	}
	var unset []string
	for _, name := range names {
		if _, ok := snapshot.Persisted[name]; !ok {
			unset = append(unset, name)
		}
	}
	if len(unset) > 0 {
		commands = append(commands, quote(append([]string{"go", "env", "-u"}, unset...)))
	}
	return strings.Join(commands, " && ")
}
