// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/docformatter/internal/cache"
	"github.com/petar-djukic/docformatter/internal/config"
	"github.com/petar-djukic/docformatter/internal/pytoken"
)

const (
	unformatted = "def foo():\n    \"\"\"\n    Hello world\n    \"\"\"\n"
	formatted   = "def foo():\n    \"\"\"Hello world.\"\"\"\n"
)

func TestRun_Diff(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", unformatted)

	var out bytes.Buffer
	res, err := newRunner(&out, func(*config.Options) {}).Run(context.Background(), []string{path})
	require.NoError(t, err)

	want := "--- original/" + path + "\n+++ fixed/" + path + "\n" +
		"@@ -1,4 +1,2 @@\n" +
		" def foo():\n" +
		"-    \"\"\"\n" +
		"-    Hello world\n" +
		"-    \"\"\"\n" +
		"+    \"\"\"Hello world.\"\"\"\n"
	assert.Equal(t, want, out.String())
	assert.Equal(t, []string{path}, res.Changed)
	assert.Empty(t, res.Errors)
	assert.Equal(t, unformatted, readFile(t, path), "diff mode leaves the file alone")
}

func TestRun_InPlace(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", unformatted)
	require.NoError(t, os.Chmod(path, 0o600))

	var out bytes.Buffer
	res, err := newRunner(&out, func(o *config.Options) { o.InPlace = true }).Run(context.Background(), []string{path})
	require.NoError(t, err)

	assert.Empty(t, out.String())
	assert.Equal(t, []string{path}, res.Changed)
	assert.Equal(t, formatted, readFile(t, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRun_InPlaceKeepsEncoding(t *testing.T) {
	dir := t.TempDir()
	src := "# -*- coding: latin-1 -*-\ndef foo():\n    \"\"\"\n    Caf\xe9\n    \"\"\"\n"
	path := writeFile(t, dir, "x.py", src)

	res, err := newRunner(&bytes.Buffer{}, func(o *config.Options) { o.InPlace = true }).Run(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "latin-1", res.Files[0].Encoding)

	want := "# -*- coding: latin-1 -*-\ndef foo():\n    \"\"\"Caf\xe9.\"\"\"\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestRun_Check(t *testing.T) {
	dir := t.TempDir()
	changed := writeFile(t, dir, "a.py", "\"\"\"module doc\"\"\"\n\n\n"+unformatted)
	clean := writeFile(t, dir, "b.py", formatted)

	var out bytes.Buffer
	res, err := newRunner(&out, func(o *config.Options) { o.Check = true }).Run(context.Background(), []string{changed, clean})
	require.NoError(t, err)

	assert.Equal(t, changed+":1: module\n"+changed+":5: function foo\n", out.String())
	assert.Equal(t, []string{changed}, res.Changed)
	assert.Equal(t, "\"\"\"module doc\"\"\"\n\n\n"+unformatted, readFile(t, changed))
}

func TestRun_NonexistentFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.py")

	var out bytes.Buffer
	res, err := newRunner(&out, func(*config.Options) {}).Run(context.Background(), []string{missing})
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, missing, res.Errors[0].Path)
	assert.Contains(t, res.Errors[0].Error(), "no such file")
	assert.True(t, errors.Is(res.Errors[0], os.ErrNotExist))
	assert.Empty(t, out.String())
}

func TestRun_TokenizeErrorDoesNotStopOthers(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.py", "x = (\n")
	good := writeFile(t, dir, "good.py", unformatted)

	var out bytes.Buffer
	res, err := newRunner(&out, func(*config.Options) {}).Run(context.Background(), []string{bad, good})
	require.NoError(t, err)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, bad, res.Errors[0].Path)
	assert.ErrorIs(t, res.Errors[0], pytoken.ErrTokenize)
	assert.Equal(t, []string{good}, res.Changed)
	assert.Contains(t, out.String(), "fixed/"+good)
}

func TestRun_OutputInInputOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.py", "a.py", "b.py", "d.py"} {
		paths = append(paths, writeFile(t, dir, name, unformatted))
	}

	var out bytes.Buffer
	res, err := newRunner(&out, func(o *config.Options) { o.Check = true; o.Jobs = 4 }).Run(context.Background(), paths)
	require.NoError(t, err)

	want := ""
	for _, p := range paths {
		want += p + ":2: function foo\n"
	}
	assert.Equal(t, want, out.String())
	assert.Equal(t, paths, res.Changed)
}

func TestRun_RecursiveIgnoresHiddenDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".hidden_dir/x.py", unformatted)

	var out bytes.Buffer
	res, err := newRunner(&out, func(o *config.Options) { o.Recursive = true }).Run(context.Background(), []string{dir})
	require.NoError(t, err)
	assert.Empty(t, out.String())
	assert.Empty(t, res.Files)
}

func TestRun_DirectoryWithoutRecursive(t *testing.T) {
	dir := t.TempDir()

	res, err := newRunner(&bytes.Buffer{}, func(*config.Options) {}).Run(context.Background(), []string{dir})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "recursive")
}

func TestRun_SkippedDocstringIsCounted(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", "def foo():\n    '''Has \"\"\"nested\"\"\" quotes.'''\n")

	var out bytes.Buffer
	res, err := newRunner(&out, func(*config.Options) {}).Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Changed)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, out.String())
}

func TestRun_CacheSkipsFormattedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", formatted)
	c, err := cache.Open(filepath.Join(dir, "cache", cache.FileName))
	require.NoError(t, err)

	r := NewRunner(Deps{Options: options(func(*config.Options) {}), Cache: c, Stdout: &bytes.Buffer{}})

	first, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.False(t, first.Files[0].Cached)

	second, err := r.Run(context.Background(), []string{path})
	require.NoError(t, err)
	assert.True(t, second.Files[0].Cached)

	reopened, err := cache.Open(filepath.Join(dir, "cache", cache.FileName))
	require.NoError(t, err)
	assert.Equal(t, 1, reopened.Len())
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", unformatted)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner(&bytes.Buffer{}, func(*config.Options) {}).Run(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_ChangedOnly(t *testing.T) {
	dir := t.TempDir()
	committed := writeFile(t, dir, "committed.py", unformatted)
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("committed.py")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	untracked := writeFile(t, dir, "untracked.py", unformatted)

	r := NewRunner(Deps{
		Options: options(func(o *config.Options) { o.Changed = true; o.Check = true }),
		Stdout:  &bytes.Buffer{},
		WorkDir: dir,
	})
	res, err := r.Run(context.Background(), []string{committed, untracked})
	require.NoError(t, err)
	assert.Equal(t, []string{untracked}, res.Changed)
}

func TestRun_ChangedOutsideRepository(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "x.py", unformatted)

	r := NewRunner(Deps{
		Options: options(func(o *config.Options) { o.Changed = true }),
		Stdout:  &bytes.Buffer{},
		WorkDir: dir,
	})
	_, err := r.Run(context.Background(), []string{path})
	assert.Error(t, err)
}

// --- Test helpers ---

func options(modify func(*config.Options)) config.Options {
	o := config.Defaults()
	o.Jobs = 2
	o.Color = config.ColorNever
	modify(&o)
	return o
}

func newRunner(out *bytes.Buffer, modify func(*config.Options)) *Runner {
	return NewRunner(Deps{Options: options(modify), Stdout: out})
}

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
