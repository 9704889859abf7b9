// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner formats a set of Python files in parallel and reports
// the outcome per file: a diff, a check report, or an in-place rewrite.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qiniu/x/log"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/docformatter/internal/cache"
	"github.com/petar-djukic/docformatter/internal/config"
	"github.com/petar-djukic/docformatter/internal/diff"
	"github.com/petar-djukic/docformatter/internal/encoding"
	"github.com/petar-djukic/docformatter/internal/fileutil"
	"github.com/petar-djukic/docformatter/internal/git"
	"github.com/petar-djukic/docformatter/internal/pysyntax"
	"github.com/petar-djukic/docformatter/internal/rewrite"
	"github.com/petar-djukic/docformatter/internal/walk"
)

// FileError records a failure for a single file. Other files are still
// processed.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// FileResult is the outcome for one file.
type FileResult struct {
	Path     string
	Encoding string
	Changed  bool            // The file needs, or received, reformatting
	Cached   bool            // Skipped because the cache knew it was formatted
	Output   string          // Diff or check report written to Stdout
	Changes  []rewrite.Change
	Err      error
}

// Result aggregates a run. Files are in input order.
type Result struct {
	Files   []FileResult
	Changed []string
	Errors  []FileError
	Skipped int // Docstrings left alone because they could not be rendered
}

// Deps holds the inputs of a Runner.
type Deps struct {
	Options config.Options
	Cache   *cache.Cache // nil disables caching
	Color   bool         // Colorize diffs
	Stdout  io.Writer    // Defaults to os.Stdout
	WorkDir string       // Where the git repository is looked up; defaults to "."
}

// Runner formats files.
type Runner struct {
	deps Deps
	key  string
}

// NewRunner creates a Runner with the given dependencies.
func NewRunner(deps Deps) *Runner {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.WorkDir == "" {
		deps.WorkDir = "."
	}
	return &Runner{deps: deps, key: cache.Key(deps.Options.Format)}
}

// Run expands paths, processes the files in parallel and writes their
// output in input order. Per-file failures are collected in the result;
// the returned error is only set when the run itself was interrupted.
func (r *Runner) Run(ctx context.Context, paths []string) (*Result, error) {
	opts := r.deps.Options
	files, err := walk.Files(ctx, paths, walk.Options{
		Recursive: opts.Recursive,
		Exclude:   opts.Exclude,
	})
	if err != nil {
		return nil, err
	}
	if opts.Changed {
		if files, err = r.changedOnly(files); err != nil {
			return nil, err
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}

	// Each goroutine owns its slot.
	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processFile(gctx, path)
			return nil
		})
	}
	waitErr := g.Wait()

	res := &Result{Files: results}
	for _, fr := range results {
		if fr.Path == "" {
			continue // not reached before cancellation
		}
		if fr.Output != "" {
			io.WriteString(r.deps.Stdout, fr.Output)
		}
		for _, c := range fr.Changes {
			if c.Skipped() {
				res.Skipped++
			}
		}
		if fr.Err != nil {
			res.Errors = append(res.Errors, FileError{Path: fr.Path, Err: fr.Err})
			continue
		}
		if fr.Changed {
			res.Changed = append(res.Changed, fr.Path)
		}
	}

	if err := r.deps.Cache.Save(); err != nil {
		log.Warnf("saving cache: %v", err)
	}
	return res, waitErr
}

// changedOnly keeps the files that git reports as changed.
func (r *Runner) changedOnly(files []string) ([]string, error) {
	repo, err := git.Open(r.deps.WorkDir)
	if err != nil {
		return nil, err
	}
	changed, err := repo.Changed()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(changed))
	for _, p := range changed {
		set[p] = true
	}

	var out []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, err
		}
		if set[abs] {
			out = append(out, f)
		} else {
			log.Debugf("%s: no uncommitted changes", f)
		}
	}
	return out, nil
}

func (r *Runner) processFile(ctx context.Context, path string) FileResult {
	fr := FileResult{Path: path}
	fail := func(err error) FileResult {
		fr.Err = err
		log.Errorf("%s: %v", path, err)
		r.deps.Cache.Forget(path)
		return fr
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(err)
	}
	if info.IsDir() {
		return fail(errors.New("is a directory; use --recursive"))
	}
	if r.deps.Cache.Fresh(path, info, r.key) {
		log.Debugf("%s: unchanged since last run", path)
		fr.Cached = true
		return fr
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	fr.Encoding = encoding.Detect(data)
	text, err := encoding.Decode(data, fr.Encoding)
	if err != nil {
		return fail(err)
	}
	log.Debugf("%s: formatting (%s)", path, fr.Encoding)

	out, changes, err := rewrite.SourceWithReport(text, r.deps.Options.Format)
	fr.Changes = changes
	if err != nil {
		return fail(err)
	}
	for _, c := range changes {
		if c.Skipped() {
			log.Warnf("%s:%d: docstring left unchanged: %v", path, c.Line, c.Err)
		}
	}
	if out == text {
		r.deps.Cache.Record(path, info, r.key)
		return fr
	}
	if err := pysyntax.Regression(ctx, []byte(text), []byte(out)); err != nil {
		return fail(err)
	}
	fr.Changed = true

	opts := r.deps.Options
	switch {
	case opts.Check:
		outline, err := pysyntax.Outline(ctx, []byte(text))
		if err != nil {
			log.Debugf("%s: outline: %v", path, err)
		}
		fr.Output = checkReport(path, changes, outline)
	case opts.InPlace:
		encoded, err := encoding.Encode(out, fr.Encoding)
		if err != nil {
			return fail(err)
		}
		if err := fileutil.WriteAtomic(path, encoded, 0o644); err != nil {
			return fail(err)
		}
		if info, err := os.Stat(path); err == nil {
			r.deps.Cache.Record(path, info, r.key)
		}
		log.Infof("reformatted %s", path)
	default:
		u := diff.Unified(text, out, "original/"+path, "fixed/"+path, diff.DefaultContext)
		if r.deps.Color {
			u = diff.Colorize(u)
		}
		fr.Output = u
	}
	return fr
}

// checkReport lists each rewritten docstring as "path:line: owner". The
// owner comes from the syntax tree when it knows the docstring, and from
// the token classifier otherwise.
func checkReport(path string, changes []rewrite.Change, outline []pysyntax.Docstring) string {
	owners := make(map[int]string, len(outline))
	for _, d := range outline {
		owners[d.Line] = label(d.Context.String(), d.Owner)
	}

	var b strings.Builder
	for _, c := range changes {
		if c.Skipped() {
			continue
		}
		owner, ok := owners[c.Line]
		if !ok {
			owner = label(c.Context.String(), c.Owner)
		}
		fmt.Fprintf(&b, "%s:%d: %s\n", path, c.Line, owner)
	}
	return b.String()
}

func label(context, owner string) string {
	if owner == "" {
		return context
	}
	return context + " " + owner
}
