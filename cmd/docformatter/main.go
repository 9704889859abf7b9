// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command docformatter reformats the docstrings of Python files.
//
// By default it prints a unified diff of the changes it would make. With
// --in-place it rewrites the files, and with --check it only reports them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/petar-djukic/docformatter/internal/config"
)

const version = "0.1.0"

// Exit codes.
const (
	exitOK         = 0
	exitFileErrors = 1
	exitUsage      = 2
	exitChanged    = 3
)

var (
	errUsage        = errors.New("usage error")
	errFilesFailed  = errors.New("some files could not be formatted")
	errChangesFound = errors.New("some files would be reformatted")
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and maps the outcome to an exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errChangesFound):
		return exitChanged
	case errors.Is(err, errFilesFailed):
		return exitFileErrors
	case errors.Is(err, errUsage), errors.Is(err, config.ErrInvalid):
		fmt.Fprintf(stderr, "Error: %v\n%s", err, rootCmd.UsageString())
		return exitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFileErrors
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "docformatter [flags] files...",
		Short: "Format docstrings in Python files",
		Long: "docformatter rewrites Python docstrings to a canonical style: triple double quotes, " +
			"a one-line summary ending in punctuation, matching indentation and wrapped text.",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("%w: the following arguments are required: files", errUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, stdout)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", errUsage, err)
	})

	d := config.Defaults()
	flags := rootCmd.Flags()
	flags.BoolP(config.KeyInPlace, "i", false, "Make changes to files instead of printing diffs")
	flags.BoolP(config.KeyRecursive, "r", false, "Drill down directories recursively")
	flags.Int(config.KeyWrapSummaries, d.Format.SummaryWrapLength, "Wrap summaries at this length; 0 disables wrapping")
	flags.Int(config.KeyWrapDescriptions, d.Format.DescriptionWrapLength, "Wrap descriptions at this length; 0 disables wrapping")
	flags.Bool(config.KeyPreSummaryNewline, false, "Add a newline before the summary of a multi-line docstring")
	flags.Bool(config.KeyNoBlank, false, "Do not add a blank line after the description")
	flags.Bool(config.KeyCheck, false, "Only report files that would change; exit 3 if any")
	flags.Bool(config.KeyChanged, false, "Only format files with uncommitted git changes")
	flags.String(config.KeyColor, string(d.Color), "Colorize diffs: auto, always or never")
	flags.IntP(config.KeyJobs, "j", 0, "Number of files processed in parallel; 0 uses all CPUs")
	flags.StringSlice(config.KeyExclude, nil, "Glob patterns of paths to skip")
	flags.Bool(config.KeyNoCache, false, "Do not read or write the result cache")
	flags.String(config.KeyCachePath, "", "Location of the result cache")
	flags.BoolP(config.KeyVerbose, "v", false, "Log every file processed")

	rootCmd.AddCommand(newVersionCmd(stdout))
	return rootCmd
}

// newVersionCmd creates the "version" command.
func newVersionCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print docformatter version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(stdout, "docformatter %s\n", version)
		},
	}
}
