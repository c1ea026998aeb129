// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

// initRepository creates a repository in dir with one commit holding
// go.mod and main.go.
func initRepository(t *testing.T, dir string) (*git.Repository, string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/gem\n\ngo 1.25\n")
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc main() {}\n")

	repository, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("PlainInit: %v", err)
	}
	worktree, err := repository.Worktree()
	if err != nil {
		t.Fatalf("Worktree: %v", err)
	}
	for _, name := range []string{"go.mod", "main.go"} {
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	hash, err := worktree.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	return repository, hash.String()
}

func TestModulePath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "// comment\nmodule \"example.com/gem\"\n\ngo 1.25\n")
	writeFile(t, filepath.Join(dir, "cmd", "gem", "main.go"), "package main\n")

	for _, start := range []string{dir, filepath.Join(dir, "cmd", "gem")} {
		got, err := ModulePath(start)
		if err != nil {
			t.Fatalf("ModulePath(%s): %v", start, err)
		}
		if got != "example.com/gem" {
			t.Errorf("ModulePath(%s) = %q, want example.com/gem", start, got)
		}
	}
}

func TestModulePathMissing(t *testing.T) {
	if _, err := ModulePath(t.TempDir()); err == nil {
		t.Error("ModulePath outside a module succeeded, want error")
	}
}

func TestModulePathNoDirective(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "go 1.25\n")
	_, err := ModulePath(dir)
	if err == nil || !strings.Contains(err.Error(), "no module directive") {
		t.Errorf("ModulePath error = %v, want no module directive", err)
	}
}

func TestDescribeOutsideRepository(t *testing.T) {
	revision, err := Describe(t.TempDir())
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !revision.IsZero() {
		t.Errorf("Describe outside a repository = %+v, want zero", revision)
	}
}

func TestDescribeCleanAndDirty(t *testing.T) {
	dir := t.TempDir()
	_, hash := initRepository(t, dir)

	revision, err := Describe(filepath.Join(dir))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if revision.FullCommit != hash {
		t.Errorf("FullCommit = %q, want %q", revision.FullCommit, hash)
	}
	if revision.Commit != hash[:7] {
		t.Errorf("Commit = %q, want %q", revision.Commit, hash[:7])
	}
	if revision.Dirty {
		t.Error("Dirty = true for a clean tree")
	}

	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc main() { println() }\n")
	revision, err = Describe(dir)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !revision.Dirty {
		t.Error("Dirty = false after modifying main.go")
	}
}

func TestDescribeTag(t *testing.T) {
	dir := t.TempDir()
	repository, hash := initRepository(t, dir)
	head, err := repository.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	for _, name := range []string{"v1.2.0", "v1.10.0", "nightly"} {
		if _, err := repository.CreateTag(name, head.Hash(), nil); err != nil {
			t.Fatalf("CreateTag(%s): %v", name, err)
		}
	}

	vars, revision, err := Variables(dir)
	if err != nil {
		t.Fatalf("Variables: %v", err)
	}
	if revision.Tag != "v1.10.0" {
		t.Errorf("Tag = %q, want the highest semver tag v1.10.0", revision.Tag)
	}
	want := map[string]string{
		"MODULE":  "example.com/gem",
		"COMMIT":  hash[:7],
		"DIRTY":   "false",
		"VERSION": "v1.10.0",
	}
	for name, value := range want {
		if vars[name] != value {
			t.Errorf("vars[%s] = %q, want %q", name, vars[name], value)
		}
	}
}

func TestRevisionVersion(t *testing.T) {
	if got := (Revision{}).Version("dev"); got != "dev" {
		t.Errorf("Version = %q, want fallback", got)
	}
	if got := (Revision{Tag: "v2.0.0"}).Version("dev"); got != "v2.0.0" {
		t.Errorf("Version = %q, want v2.0.0", got)
	}
}
