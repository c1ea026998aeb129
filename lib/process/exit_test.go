// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/bureau-foundation/crossbuild/lib/gotool"
)

type silentExit int

func (e silentExit) Error() string { return fmt.Sprintf("exit code %d", int(e)) }
func (e silentExit) ExitCode() int { return int(e) }

// realExitError runs the test binary with an unknown flag, which makes
// it exit with status 2.
func realExitError(t *testing.T) *exec.ExitError {
	t.Helper()
	err := exec.Command(os.Args[0], "-test.no-such-flag").Run()
	var exitError *exec.ExitError
	if !errors.As(err, &exitError) {
		t.Fatalf("running the test binary with a bad flag: %v, want *exec.ExitError", err)
	}
	return exitError
}

func TestReport(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantOutput string
	}{
		{"plain error", errors.New("boom"), 1, "error: boom\n"},
		{"silent exit", silentExit(3), 3, ""},
		{"wrapped exit code is printed", fmt.Errorf("restoring: %w", silentExit(2)), 1, "error: restoring: exit code 2\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var output strings.Builder
			code := Report(&output, test.err)
			if code != test.wantCode {
				t.Errorf("Report code = %d, want %d", code, test.wantCode)
			}
			if output.String() != test.wantOutput {
				t.Errorf("Report output = %q, want %q", output.String(), test.wantOutput)
			}
		})
	}
}

func TestReportCommandError(t *testing.T) {
	commandError := &gotool.CommandError{
		Args:     []string{"env", "-u", "GOOS"},
		ExitCode: 1,
		Stderr:   "go: GOENV file is read-only",
		Err:      realExitError(t),
	}
	err := fmt.Errorf("restoring toolchain configuration: %w", commandError)

	var output strings.Builder
	code := Report(&output, err)
	if code != 1 {
		t.Errorf("Report code = %d, want 1", code)
	}
	if !strings.Contains(output.String(), "go: GOENV file is read-only") {
		t.Errorf("Report output = %q, want the go command's stderr", output.String())
	}
}
