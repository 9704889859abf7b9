// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config layers docformatter settings from command-line flags,
// DOCFORMATTER_* environment variables, a .docformatter.yaml file and the
// [tool.docformatter] table of pyproject.toml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// Setting keys. They double as flag names and pyproject keys.
const (
	KeyWrapSummaries     = "wrap-summaries"
	KeyWrapDescriptions  = "wrap-descriptions"
	KeyPreSummaryNewline = "pre-summary-newline"
	KeyNoBlank           = "no-blank"
	KeyInPlace           = "in-place"
	KeyRecursive         = "recursive"
	KeyCheck             = "check"
	KeyChanged           = "changed"
	KeyColor             = "color"
	KeyJobs              = "jobs"
	KeyExclude           = "exclude"
	KeyNoCache           = "no-cache"
	KeyCachePath         = "cache-path"
	KeyVerbose           = "verbose"
)

const (
	EnvPrefix     = "DOCFORMATTER"
	FileName      = ".docformatter"
	PyprojectName = "pyproject.toml"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid options")

// ColorMode selects when diffs are colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options is the resolved configuration of one run.
type Options struct {
	Format    types.FormatConfig
	InPlace   bool
	Recursive bool
	Check     bool
	Changed   bool // Only files with uncommitted git changes
	Color     ColorMode
	Jobs      int // Parallel files; 0 means one per CPU
	Exclude   []string
	NoCache   bool
	CachePath string // Empty selects the default location
	Verbose   bool
}

// Defaults returns the built-in options.
func Defaults() Options {
	return Options{
		Format: types.DefaultFormatConfig(),
		Color:  ColorAuto,
	}
}

// New returns a viper instance with the built-in defaults and environment
// binding in place.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()
	v.SetDefault(KeyWrapSummaries, d.Format.SummaryWrapLength)
	v.SetDefault(KeyWrapDescriptions, d.Format.DescriptionWrapLength)
	v.SetDefault(KeyPreSummaryNewline, false)
	v.SetDefault(KeyNoBlank, false)
	v.SetDefault(KeyInPlace, false)
	v.SetDefault(KeyRecursive, false)
	v.SetDefault(KeyCheck, false)
	v.SetDefault(KeyChanged, false)
	v.SetDefault(KeyColor, string(d.Color))
	v.SetDefault(KeyJobs, 0)
	v.SetDefault(KeyExclude, []string{})
	v.SetDefault(KeyNoCache, false)
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyVerbose, false)

	// Env vars: DOCFORMATTER_WRAP_SUMMARIES, DOCFORMATTER_NO_BLANK, etc.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional configuration files for dir into v and resolves
// the options. The pyproject.toml nearest to dir only replaces built-in
// defaults; .docformatter.yaml in dir, environment and flags bound to v
// take precedence over it.
func Load(v *viper.Viper, dir string) (Options, error) {
	pp, err := Pyproject(dir)
	if err != nil {
		return Options{}, err
	}
	for k, val := range pp {
		v.SetDefault(k, val)
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Options{}, fmt.Errorf("reading %s.yaml: %w", FileName, err)
		}
	}

	opts := FromViper(v)
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	opts.applyDefaults()
	return opts, nil
}

// FromViper builds Options from the current values of v.
func FromViper(v *viper.Viper) Options {
	return Options{
		Format: types.FormatConfig{
			SummaryWrapLength:     v.GetInt(KeyWrapSummaries),
			DescriptionWrapLength: v.GetInt(KeyWrapDescriptions),
			PreSummaryNewline:     v.GetBool(KeyPreSummaryNewline),
			PostDescriptionBlank:  !v.GetBool(KeyNoBlank),
		},
		InPlace:   v.GetBool(KeyInPlace),
		Recursive: v.GetBool(KeyRecursive),
		Check:     v.GetBool(KeyCheck),
		Changed:   v.GetBool(KeyChanged),
		Color:     ColorMode(strings.ToLower(v.GetString(KeyColor))),
		Jobs:      v.GetInt(KeyJobs),
		Exclude:   v.GetStringSlice(KeyExclude),
		NoCache:   v.GetBool(KeyNoCache),
		CachePath: v.GetString(KeyCachePath),
		Verbose:   v.GetBool(KeyVerbose),
	}
}

// Validate checks option values and combinations.
func (o Options) Validate() error {
	if o.Format.SummaryWrapLength < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, KeyWrapSummaries, o.Format.SummaryWrapLength)
	}
	if o.Format.DescriptionWrapLength < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, KeyWrapDescriptions, o.Format.DescriptionWrapLength)
	}
	if o.Jobs < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %d", ErrInvalid, KeyJobs, o.Jobs)
	}
	switch o.Color {
	case ColorAuto, ColorAlways, ColorNever, "":
	default:
		return fmt.Errorf("%w: %s must be auto, always or never, got %q", ErrInvalid, KeyColor, o.Color)
	}
	if o.InPlace && o.Check {
		return fmt.Errorf("%w: %s and %s cannot be combined", ErrInvalid, KeyInPlace, KeyCheck)
	}
	for _, p := range o.Exclude {
		if _, err := filepath.Match(p, ""); err != nil {
			return fmt.Errorf("%w: bad %s pattern %q", ErrInvalid, KeyExclude, p)
		}
	}
	return nil
}

// applyDefaults fills in zero-value fields with their defaults.
func (o *Options) applyDefaults() {
	if o.Jobs == 0 {
		o.Jobs = runtime.NumCPU()
	}
	if o.Color == "" {
		o.Color = ColorAuto
	}
}

type pyproject struct {
	Tool struct {
		Docformatter map[string]any `toml:"docformatter"`
	} `toml:"tool"`
}

// Pyproject returns the [tool.docformatter] settings of the pyproject.toml
// found in dir or its nearest parent. Keys are normalized to their flag
// spelling, so "wrap_summaries" reads as "wrap-summaries". It returns nil
// when there is no such file or table.
func Pyproject(dir string) (map[string]any, error) {
	path, ok, err := findPyproject(dir)
	if err != nil || !ok {
		return nil, err
	}

	var doc pyproject
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("tool", "docformatter") {
		return nil, nil
	}

	out := make(map[string]any, len(doc.Tool.Docformatter))
	for k, val := range doc.Tool.Docformatter {
		out[strings.ReplaceAll(strings.ToLower(k), "_", "-")] = val
	}
	return out, nil
}

func findPyproject(start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, PyprojectName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
