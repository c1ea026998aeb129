// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"golang.org/x/mod/semver"
)

// shortCommitLength matches the abbreviation git uses by default.
const shortCommitLength = 7

// Revision describes the checked-out state of a repository.
type Revision struct {
	// Commit is the abbreviated HEAD commit hash.
	Commit string `json:"commit,omitempty" yaml:"commit,omitempty"`

	// FullCommit is the complete HEAD commit hash.
	FullCommit string `json:"full_commit,omitempty" yaml:"full_commit,omitempty"`

	// Dirty is true when the work tree has modified or untracked files.
	Dirty bool `json:"dirty" yaml:"dirty"`

	// Tag is the highest semantic version tag pointing at HEAD, if any.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// IsZero reports whether no repository was found.
func (r Revision) IsZero() bool {
	return r.FullCommit == ""
}

// Version returns Tag, or fallback when HEAD carries no version tag.
func (r Revision) Version(fallback string) string {
	if r.Tag != "" {
		return r.Tag
	}
	return fallback
}

// Describe inspects the git repository containing dir. Outside a
// repository, or in one with no commits yet, it returns a zero Revision
// and no error.
func Describe(dir string) (Revision, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Revision{}, nil
		}
		return Revision{}, fmt.Errorf("opening git repository at %s: %w", dir, err)
	}

	head, err := repository.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return Revision{}, nil
		}
		return Revision{}, fmt.Errorf("resolving HEAD: %w", err)
	}

	full := head.Hash().String()
	revision := Revision{
		Commit:     full[:shortCommitLength],
		FullCommit: full,
	}

	worktree, err := repository.Worktree()
	if err != nil && !errors.Is(err, git.ErrIsBareRepository) {
		return Revision{}, fmt.Errorf("opening work tree: %w", err)
	}
	if worktree != nil {
		status, err := worktree.Status()
		if err != nil {
			return Revision{}, fmt.Errorf("reading work tree status: %w", err)
		}
		revision.Dirty = !status.IsClean()
	}

	tag, err := headTag(repository, head.Hash())
	if err != nil {
		return Revision{}, err
	}
	revision.Tag = tag
	return revision, nil
}

// headTag returns the highest semver tag that resolves to commit.
// Annotated tags are peeled to the commit they point at.
func headTag(repository *git.Repository, commit plumbing.Hash) (string, error) {
	tags, err := repository.Tags()
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}

	var matches []string
	err = tags.ForEach(func(reference *plumbing.Reference) error {
		name := reference.Name().Short()
		if !semver.IsValid(name) {
			return nil
		}
		target := reference.Hash()
		if annotated, err := repository.TagObject(target); err == nil {
			target = annotated.Target
		}
		if target == commit {
			matches = append(matches, name)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("listing tags: %w", err)
	}
	if len(matches) == 0 {
		return "", nil
	}
	sort.Slice(matches, func(i, j int) bool {
		return semver.Compare(matches[i], matches[j]) > 0
	})
	return matches[0], nil
}

// Variables returns the expansion variables describing a build of the
// module at dir: MODULE, COMMIT, DIRTY and VERSION. Missing
// information yields empty values rather than an error, except for
// repository errors other than "no repository".
func Variables(dir string) (map[string]string, Revision, error) {
	vars := map[string]string{}
	if modulePath, err := ModulePath(dir); err == nil {
		vars["MODULE"] = modulePath
	}

	revision, err := Describe(dir)
	if err != nil {
		return nil, Revision{}, err
	}
	vars["COMMIT"] = revision.Commit
	vars["DIRTY"] = fmt.Sprint(revision.Dirty)
	vars["VERSION"] = revision.Version("")
	return vars, revision, nil
}
