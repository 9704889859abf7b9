// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package git reads the working tree status of the repository containing
// the files being formatted, so a run can be limited to changed files.
package git

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoGit is returned when the directory is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// Repo wraps a go-git repository for the operations we need.
type Repo struct {
	repo *gogit.Repository
	root string
}

// Open opens the repository containing dir, searching parent directories.
// Returns ErrNoGit if there is none.
func Open(dir string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	return &Repo{repo: r, root: wt.Filesystem.Root()}, nil
}

// Root returns the top-level directory of the working tree.
func (r *Repo) Root() string { return r.root }

// Changed returns the absolute paths of files that are modified, added,
// renamed or untracked in the index or the working tree. Deleted files are
// left out. The result is sorted.
func (r *Repo) Changed() ([]string, error) {
	status, err := r.status()
	if err != nil {
		return nil, err
	}

	var out []string
	for path, fs := range status {
		if fs.Worktree == gogit.Deleted || (fs.Staging == gogit.Deleted && fs.Worktree != gogit.Untracked) {
			continue
		}
		if fs.Staging == gogit.Unmodified && fs.Worktree == gogit.Unmodified {
			continue
		}
		out = append(out, filepath.Join(r.root, filepath.FromSlash(path)))
	}
	sort.Strings(out)
	return out, nil
}

func (r *Repo) status() (gogit.Status, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("getting status: %w", err)
	}
	return status, nil
}
