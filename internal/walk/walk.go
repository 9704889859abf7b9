// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package walk expands command-line paths into the list of Python files to
// format.
package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// pyExts lists the extensions collected from directories.
var pyExts = map[string]bool{
	".py":  true,
	".pyi": true,
}

// Options controls how directories are expanded.
type Options struct {
	// Recursive descends into directories. Without it a directory is
	// returned unchanged and fails when it is read.
	Recursive bool

	// Exclude holds glob patterns matched against a path relative to its
	// root and against its base name.
	Exclude []string
}

// Files returns the files named by roots. Files given explicitly are
// returned as they are, even when they do not exist, so the caller reports
// the error. Directories are walked when opts.Recursive is set; entries
// starting with a dot and entries matched by the root's .gitignore are
// skipped. The result keeps the order of roots and is free of duplicates.
func Files(ctx context.Context, roots []string, opts Options) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() || !opts.Recursive {
			if !excluded(opts.Exclude, filepath.Base(root), root) {
				add(root)
			}
			continue
		}

		paths, err := walkDir(ctx, root, opts)
		if err != nil {
			return nil, err
		}
		for _, p := range paths {
			add(p)
		}
	}
	return out, nil
}

func walkDir(ctx context.Context, root string, opts Options) ([]string, error) {
	matcher := loadGitignore(root)

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // skip inaccessible entries
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		name := d.Name()
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if strings.HasPrefix(name, ".") || excluded(opts.Exclude, name, rel) ||
			matcher.Match(strings.Split(rel, string(filepath.Separator)), d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if pyExts[filepath.Ext(name)] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return paths, nil
}

// loadGitignore reads .gitignore from root. A missing or unreadable file
// yields a matcher that matches nothing.
func loadGitignore(root string) gitignore.Matcher {
	data, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return gitignore.NewMatcher(nil)
	}
	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return gitignore.NewMatcher(patterns)
}

func excluded(patterns []string, name, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		// A directory pattern such as "build/" excludes everything below it.
		if dir := strings.TrimSuffix(p, "/"); dir != p {
			if ok, _ := filepath.Match(dir, name); ok || rel == dir || strings.HasPrefix(rel, dir+"/") {
				return true
			}
		}
	}
	return false
}
