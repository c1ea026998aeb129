// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/afero"

	"github.com/bureau-foundation/crossbuild/cmd/crossbuild/cli"
	"github.com/bureau-foundation/crossbuild/lib/manifest"
	"github.com/bureau-foundation/crossbuild/lib/platform"
)

type verifyParams struct {
	cli.JSONOutput
	Root string `json:"root" flag:"root" desc:"directory the manifest's artifact paths are relative to (default: working directory)"`
}

// verifyResult is the JSON form of a verification.
type verifyResult struct {
	Manifest   string          `json:"manifest"`
	Artifacts  int             `json:"artifacts"`
	Mismatches []verifyFailure `json:"mismatches"`
}

type verifyFailure struct {
	Target platform.Platform `json:"target"`
	Path   string            `json:"path"`
	Reason string            `json:"reason"`
}

func verifyCommand(deps dependencies) *cli.Command {
	var params verifyParams
	return &cli.Command{
		Name:    "verify",
		Summary: "Check built binaries against a manifest",
		Description: heredoc.Doc(`
			Re-hash every artifact listed in a manifest written by
			"crossbuild build --manifest" and report artifacts that are missing
			or whose size, SHA-256 or BLAKE3 digest changed.

			Exits with status 1 when any artifact does not match.
		`),
		Usage: "crossbuild verify <manifest> [flags]",
		Examples: []cli.Example{
			{
				Description: "Verify the artifacts of the last build",
				Command:     "crossbuild verify out/manifest.json",
			},
			{
				Description: "Verify artifacts unpacked elsewhere",
				Command:     "crossbuild verify --root /srv/release manifest.cbor",
			},
		},
		Params: func() any { return &params },
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one manifest path, got %d arguments", len(args))
			}
			path := args[0]

			loaded, err := manifest.Read(deps.fs, path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cli.NotFound("%w", err)
				}
				return cli.Validation("%w", err)
			}

			artifacts := deps.fs
			if params.Root != "" {
				artifacts = afero.NewBasePathFs(deps.fs, params.Root)
			}
			mismatches, err := manifest.Verify(artifacts, loaded)
			if err != nil {
				return cli.Internal("verifying %s: %w", path, err)
			}
			logger.Debug("verified manifest", "path", path, "artifacts", len(loaded.Artifacts), "mismatches", len(mismatches))

			result := verifyResult{Manifest: path, Artifacts: len(loaded.Artifacts), Mismatches: []verifyFailure{}}
			for _, mismatch := range mismatches {
				result.Mismatches = append(result.Mismatches, verifyFailure{
					Target: mismatch.Artifact.Target,
					Path:   mismatch.Artifact.Path,
					Reason: mismatch.Reason,
				})
			}

			stdout := cli.Stdout(ctx)
			if done, err := params.EmitJSON(stdout, result); done {
				if err == nil && len(mismatches) > 0 {
					err = &cli.ExitError{Code: 1}
				}
				return err
			}

			styles := cli.NewStyles(stdout)
			for _, failure := range result.Mismatches {
				fmt.Fprintf(stdout, "%s %-16s %s: %s\n", styles.Failure.Render("FAIL"), failure.Target, failure.Path, failure.Reason)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%w: %d of %d artifacts", manifest.ErrMismatch, len(mismatches), len(loaded.Artifacts))
			}
			fmt.Fprintf(stdout, "%s %d artifacts match %s\n", styles.Success.Render("ok"), len(loaded.Artifacts), path)
			return nil
		},
	}
}
