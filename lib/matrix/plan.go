// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package matrix

import (
	"path/filepath"
	"strings"

	"github.com/frioux/shellquote"

	"github.com/bureau-foundation/crossbuild/lib/gotool"
	"github.com/bureau-foundation/crossbuild/lib/platform"
)

// Invocation is one planned go build.
type Invocation struct {
	// Index is the position in the plan, starting at 0.
	Index int `json:"index"`

	Target platform.Platform `json:"target"`

	// Output is the path of the binary this invocation produces.
	Output string `json:"output"`

	// Package is the package passed to go build.
	Package string `json:"package"`

	// Flags are the go build flags between -o and the package.
	Flags []string `json:"flags,omitempty"`

	// Env holds extra environment assignments, not including the
	// target variables.
	Env []string `json:"env,omitempty"`
}

// OutputPath returns {output}/{name}-{os}-{arch}[-{variant}]{ext}.
func OutputPath(output, name string, target platform.Platform) string {
	return filepath.Join(output, name+"-"+target.Suffix()+target.Extension())
}

// Plan returns one invocation per target, in target order.
func Plan(options Options) []Invocation {
	flags := options.buildFlags()
	env := options.buildEnv()

	invocations := make([]Invocation, 0, len(options.Targets))
	for index, target := range options.Targets {
		invocations = append(invocations, Invocation{
			Index:   index,
			Target:  target,
			Output:  OutputPath(options.Output, options.Name, target),
			Package: options.Source,
			Flags:   append([]string(nil), flags...),
			Env:     append([]string(nil), env...),
		})
	}
	return invocations
}

// Request returns the build request for this invocation. In global
// mode the target is left to the toolchain's persistent configuration.
func (i Invocation) Request(mode Mode) gotool.BuildRequest {
	request := gotool.BuildRequest{
		Output:  i.Output,
		Package: i.Package,
		Flags:   i.Flags,
		Env:     i.Env,
	}
	if mode != ModeGlobal {
		target := i.Target
		request.Target = &target
	}
	return request
}

// Args returns the go argument vector, starting with "build".
func (i Invocation) Args() []string {
	return i.Request(ModeGlobal).Args()
}

// CommandLine renders the invocation as a shell command a user could
// paste. In isolated mode the target variables prefix the command; in
// global mode the preceding "go env -w" is included.
func (i Invocation) CommandLine(mode Mode) string {
	build := quote(append([]string{"go"}, i.Args()...))
	if mode == ModeGlobal {
		set := quote(append([]string{"go", "env", "-w"}, i.Target.Env()...))
		return set + " && " + assignments(i.Env) + build
	}
	return assignments(i.Env) + assignments(i.Target.Env()) + build
}

// assignments renders KEY=VALUE prefixes, quoting only the value so
// the shell still parses them as assignments.
func assignments(env []string) string {
	var builder strings.Builder
	for _, assignment := range env {
		name, value, _ := strings.Cut(assignment, "=")
		builder.WriteString(name)
		builder.WriteByte('=')
		builder.WriteString(quote([]string{value}))
		builder.WriteByte(' ')
	}
	return builder.String()
}

// quote quotes words for a POSIX shell. shellquote rejects only
// strings containing NUL bytes, which cannot appear in an argv.
func quote(words []string) string {
	quoted, err := shellquote.Quote(words)
	if err != nil {
		return strings.Join(words, " ")
	}
	return quoted
}
