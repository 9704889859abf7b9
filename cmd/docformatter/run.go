// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/petar-djukic/docformatter/internal/cache"
	"github.com/petar-djukic/docformatter/internal/config"
	"github.com/petar-djukic/docformatter/internal/runner"
)

// boundKeys are the flags that take part in configuration layering.
var boundKeys = []string{
	config.KeyInPlace,
	config.KeyRecursive,
	config.KeyWrapSummaries,
	config.KeyWrapDescriptions,
	config.KeyPreSummaryNewline,
	config.KeyNoBlank,
	config.KeyCheck,
	config.KeyChanged,
	config.KeyColor,
	config.KeyJobs,
	config.KeyExclude,
	config.KeyNoCache,
	config.KeyCachePath,
	config.KeyVerbose,
}

// runFormat formats the files named by args.
func runFormat(cmd *cobra.Command, args []string, stdout io.Writer) error {
	v := config.New()
	for _, key := range boundKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(key)); err != nil {
			return fmt.Errorf("binding flag %s: %w", key, err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	opts, err := config.Load(v, wd)
	if err != nil {
		return err
	}

	log.SetOutput(cmd.ErrOrStderr())
	log.SetFlags(log.Llevel)
	if opts.Verbose {
		log.SetOutputLevel(log.Ldebug)
	} else {
		log.SetOutputLevel(log.Linfo)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	r := runner.NewRunner(runner.Deps{
		Options: opts,
		Cache:   openCache(opts),
		Color:   useColor(opts.Color, stdout),
		Stdout:  stdout,
		WorkDir: wd,
	})
	res, err := r.Run(ctx, args)
	if err != nil {
		return err
	}

	log.Debugf("%d files, %d changed, %d failed, %d docstrings skipped",
		len(res.Files), len(res.Changed), len(res.Errors), res.Skipped)
	switch {
	case len(res.Errors) > 0:
		return fmt.Errorf("%w: %d of %d", errFilesFailed, len(res.Errors), len(res.Files))
	case opts.Check && len(res.Changed) > 0:
		return fmt.Errorf("%w: %d", errChangesFound, len(res.Changed))
	}
	return nil
}

// openCache returns the result cache, or nil when it is disabled or
// cannot be opened.
func openCache(opts config.Options) *cache.Cache {
	if opts.NoCache {
		return nil
	}
	path := opts.CachePath
	if path == "" {
		p, err := cache.DefaultPath()
		if err != nil {
			log.Warnf("cache disabled: %v", err)
			return nil
		}
		path = p
	}
	c, err := cache.Open(path)
	if err != nil {
		log.Warnf("cache disabled: %v", err)
		return nil
	}
	return c
}

// useColor resolves the color mode for w. Auto colors only terminals and
// honors NO_COLOR.
func useColor(mode config.ColorMode, w io.Writer) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
