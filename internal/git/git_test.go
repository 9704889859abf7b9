// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	repo, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved(t, dir), resolved(t, repo.Root()))
}

func TestOpen_FromSubdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "pkg", "sub")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	repo, err := Open(sub)
	require.NoError(t, err)
	assert.Equal(t, resolved(t, dir), resolved(t, repo.Root()))
}

func TestOpen_NotARepo(t *testing.T) {
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestChanged(t *testing.T) {
	dir := initTestRepo(t)
	addFileAndCommit(t, dir, "gone.py", "y = 1\n", "add gone")
	addFileAndCommit(t, dir, "same.py", "z = 1\n", "add same")

	// Modified, untracked, staged and deleted files.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = 2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.py"), []byte("n = 1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "staged.py"), []byte("s = 1\n"), 0o644))
	stage(t, dir, "staged.py")
	require.NoError(t, os.Remove(filepath.Join(dir, "gone.py")))

	repo, err := Open(dir)
	require.NoError(t, err)

	got, err := repo.Changed()
	require.NoError(t, err)

	root := repo.Root()
	assert.Equal(t, []string{
		filepath.Join(root, "main.py"),
		filepath.Join(root, "new.py"),
		filepath.Join(root, "staged.py"),
	}, got)
}

// --- Test helpers ---

// initTestRepo creates a temp dir with a git repo, an initial commit, and
// returns the directory path.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	addFileAndCommit(t, dir, "main.py", "x = 1\n", "initial commit")
	return dir
}

// addFileAndCommit adds a file and creates a commit with the given message.
func addFileAndCommit(t *testing.T, dir, name, content, msg string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	wt := stage(t, dir, name)

	_, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)
}

func stage(t *testing.T, dir, name string) *gogit.Worktree {
	t.Helper()

	r, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	return wt
}

func resolved(t *testing.T, p string) string {
	t.Helper()
	r, err := filepath.EvalSymlinks(p)
	require.NoError(t, err)
	return r
}
