// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Toolchain is the subset of the go command a build matrix drives.
type Toolchain interface {
	// Env returns the named go environment variables. When target is
	// non-nil the values are those a command pointed at target would
	// see; when nil they reflect the persistent configuration.
	Env(ctx context.Context, target *platform.Platform, names ...string) (map[string]string, error)

	// PersistedEnv returns the variables explicitly written with
	// "go env -w". Variables the user never set are absent.
	PersistedEnv(ctx context.Context) (map[string]string, error)

	// SetEnv writes values to the persistent configuration.
	SetEnv(ctx context.Context, values map[string]string) error

	// UnsetEnv removes names from the persistent configuration.
	UnsetEnv(ctx context.Context, names ...string) error

	// Build compiles one package into one output file.
	Build(ctx context.Context, request BuildRequest) error
}

// targetVariables are stripped from the inherited environment before
// any go command runs. A stray GOOS in the caller's shell would
// otherwise override both the per-invocation target and the persistent
// configuration.
var targetVariables = []string{"GOOS", "GOARCH", "GOARM", "GOARM64", "GOAMD64"}

// Go runs the real go command.
type Go struct {
	// Binary is the path to the go command. When empty, FindBinary
	// resolves it on each call.
	Binary string

	// Dir is the working directory of every command. Empty means the
	// current directory.
	Dir string

	// Environ is the base environment. Nil means os.Environ().
	Environ []string
}

// New returns a Go toolchain that runs commands in dir.
func New(dir string) *Go {
	return &Go{Dir: dir}
}

// FindBinary resolves the go command, checking PATH first and then
// $GOROOT/bin. Returns the absolute path to the binary.
func FindBinary() (string, error) {
	name := "go"
	if runtime.GOOS == "windows" {
		name = "go.exe"
	}
	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	if goroot := os.Getenv("GOROOT"); goroot != "" {
		candidate := filepath.Join(goroot, "bin", name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		return "", fmt.Errorf("go not found on PATH or at %s", candidate)
	}
	return "", fmt.Errorf("go not found on PATH and GOROOT is not set")
}

func (g *Go) binary() (string, error) {
	if g.Binary != "" {
		return g.Binary, nil
	}
	return FindBinary()
}

// command builds an *exec.Cmd for "go args...". extraEnv entries
// replace any inherited assignment of the same variable.
func (g *Go) command(ctx context.Context, extraEnv []string, args []string) (*exec.Cmd, error) {
	binary, err := g.binary()
	if err != nil {
		return nil, err
	}
	base := g.Environ
	if base == nil {
		base = os.Environ()
	}
	command := exec.CommandContext(ctx, binary, args...)
	command.Dir = g.Dir
	command.Env = mergeEnv(base, extraEnv)
	return command, nil
}

// run executes "go args..." and returns stdout. Stderr is captured
// separately and carried by the returned CommandError.
func (g *Go) run(ctx context.Context, extraEnv []string, args ...string) (string, error) {
	command, err := g.command(ctx, extraEnv, args)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return "", newCommandError(args, stderr.String(), err)
	}
	return stdout.String(), nil
}

// Build runs "go build" for request. The target platform, when set,
// is passed through the command environment. Stderr is teed to
// request.Stderr and also captured for the CommandError.
func (g *Go) Build(ctx context.Context, request BuildRequest) error {
	args := request.Args()
	extraEnv := append([]string(nil), request.Env...)
	if request.Target != nil {
		extraEnv = append(extraEnv, request.Target.Env()...)
	}

	command, err := g.command(ctx, extraEnv, args)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	command.Stdout = writerOrDiscard(request.Stdout)
	command.Stderr = &stderr
	if request.Stderr != nil {
		command.Stderr = io.MultiWriter(&stderr, request.Stderr)
	}

	if err := command.Run(); err != nil {
		return newCommandError(args, stderr.String(), err)
	}
	return nil
}

// mergeEnv returns base without target variables and without any
// variable assigned in extra, followed by extra.
func mergeEnv(base, extra []string) []string {
	drop := make(map[string]struct{}, len(targetVariables)+len(extra))
	for _, name := range targetVariables {
		drop[name] = struct{}{}
	}
	for _, assignment := range extra {
		name, _, _ := strings.Cut(assignment, "=")
		drop[name] = struct{}{}
	}

	merged := make([]string, 0, len(base)+len(extra))
	for _, assignment := range base {
		name, _, _ := strings.Cut(assignment, "=")
		if _, ok := drop[name]; ok {
			continue
		}
		merged = append(merged, assignment)
	}
	return append(merged, extra...)
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
