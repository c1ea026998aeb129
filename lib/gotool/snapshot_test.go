// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package gotool

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

var linuxAMD64 = platform.Platform{OS: "linux", Arch: "amd64"}

func TestSnapshotRestoresPersistedValues(t *testing.T) {
	ctx := context.Background()
	fake := NewFake(linuxAMD64, map[string]string{"GOOS": "darwin", "GOARCH": "arm64", "GOFLAGS": "-mod=mod"})

	snapshot, err := Snapshot(ctx, fake)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"GOOS": "darwin", "GOARCH": "arm64"}, snapshot.Effective); diff != "" {
		t.Errorf("Effective mismatch (-want +got):\n%s", diff)
	}

	if err := fake.SetEnv(ctx, map[string]string{"GOOS": "windows", "GOARCH": "amd64"}); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	if err := snapshot.Restore(ctx, fake); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	want := map[string]string{"GOOS": "darwin", "GOARCH": "arm64", "GOFLAGS": "-mod=mod"}
	if diff := cmp.Diff(want, fake.Persisted()); diff != "" {
		t.Errorf("persisted after Restore mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotUnsetsVariablesThatWereNotPersisted(t *testing.T) {
	ctx := context.Background()
	fake := NewFake(linuxAMD64, map[string]string{"GOARCH": "arm64"})

	snapshot, err := Snapshot(ctx, fake)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	// GOOS was only a built-in default: it is effective but not persisted.
	if snapshot.Effective["GOOS"] != "linux" {
		t.Errorf("Effective GOOS = %q, want %q", snapshot.Effective["GOOS"], "linux")
	}
	if _, ok := snapshot.Persisted["GOOS"]; ok {
		t.Errorf("Persisted = %v, want no GOOS", snapshot.Persisted)
	}

	if err := fake.SetEnv(ctx, map[string]string{"GOOS": "windows", "GOARCH": "amd64"}); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	if err := snapshot.Restore(ctx, fake); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if diff := cmp.Diff(map[string]string{"GOARCH": "arm64"}, fake.Persisted()); diff != "" {
		t.Errorf("persisted after Restore mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreError(t *testing.T) {
	ctx := context.Background()
	fake := NewFake(linuxAMD64, nil)
	snapshot, err := Snapshot(ctx, fake)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	failure := errors.New("permission denied")
	fake.Fail = func(call Call) error {
		if call.Op == OpUnsetEnv {
			return failure
		}
		return nil
	}
	err = snapshot.Restore(ctx, fake)
	if !errors.Is(err, failure) {
		t.Fatalf("Restore error = %v, want it to wrap %v", err, failure)
	}
}

func TestSnapshotWithRealCommand(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	tool, _ := newTestGo(t)

	if err := tool.SetEnv(ctx, map[string]string{"GOOS": "freebsd"}); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	snapshot, err := Snapshot(ctx, tool)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if err := tool.SetEnv(ctx, map[string]string{"GOOS": "windows", "GOARCH": "arm64"}); err != nil {
		t.Fatalf("SetEnv: %v", err)
	}
	if err := snapshot.Restore(ctx, tool); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	persisted, err := tool.PersistedEnv(ctx)
	if err != nil {
		t.Fatalf("PersistedEnv: %v", err)
	}
	if diff := cmp.Diff(map[string]string{"GOOS": "freebsd"}, persisted); diff != "" {
		t.Errorf("persisted after Restore mismatch (-want +got):\n%s", diff)
	}
}
