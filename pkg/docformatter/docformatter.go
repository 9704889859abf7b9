// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package docformatter reformats Python docstrings to a canonical style:
// triple double quotes, a one-line summary sentence, indentation matching
// the enclosing block, optional wrapping and configurable blank lines.
//
// The engine works on the token stream of a file, so every byte outside
// a docstring is preserved. All functions are safe for concurrent use.
package docformatter

import (
	"errors"
	"fmt"

	"github.com/petar-djukic/docformatter/internal/classify"
	"github.com/petar-djukic/docformatter/internal/diff"
	"github.com/petar-djukic/docformatter/internal/docstring"
	"github.com/petar-djukic/docformatter/internal/pytoken"
	"github.com/petar-djukic/docformatter/internal/rewrite"
	"github.com/petar-djukic/docformatter/pkg/types"
)

// Errors returned by this package. They match with errors.Is at every
// layer.
var (
	ErrInvalidConfig      = errors.New("invalid config")
	ErrTokenize           = pytoken.ErrTokenize
	ErrMalformedDocstring = docstring.ErrMalformed
	ErrUnsupportedPrefix  = docstring.ErrUnsupportedPrefix
)

type (
	Config             = types.FormatConfig
	Token              = types.Token
	DocstringCandidate = types.DocstringCandidate
	ParsedDocstring    = types.ParsedDocstring
	SummaryDescription = types.SummaryDescription
	Change             = rewrite.Change
)

// NoWrap disables wrapping when used as a wrap length.
const NoWrap = types.NoWrap

// DefaultConfig wraps summaries at 79 columns and descriptions at 72, and
// keeps a blank line after the description.
func DefaultConfig() Config {
	return types.DefaultFormatConfig()
}

// Validate checks that cfg can be used for rendering.
func Validate(cfg Config) error {
	if cfg.SummaryWrapLength < 0 {
		return fmt.Errorf("%w: SummaryWrapLength must not be negative, got %d", ErrInvalidConfig, cfg.SummaryWrapLength)
	}
	if cfg.DescriptionWrapLength < 0 {
		return fmt.Errorf("%w: DescriptionWrapLength must not be negative, got %d", ErrInvalidConfig, cfg.DescriptionWrapLength)
	}
	for _, r := range cfg.Indentation {
		if r != ' ' && r != '\t' {
			return fmt.Errorf("%w: Indentation must be spaces and tabs, got %q", ErrInvalidConfig, cfg.Indentation)
		}
	}
	return nil
}

// Tokenize splits Python source into tokens. Concatenating Leading and
// Text of every token gives back src.
func Tokenize(src string) ([]Token, error) {
	return pytoken.Tokenize(src)
}

// LocateDocstrings returns the docstring tokens of a module, its functions
// and its classes, in source order.
func LocateDocstrings(tokens []Token) []DocstringCandidate {
	return classify.Locate(tokens)
}

// ParseDocstring splits the text of a string literal into its prefix, its
// quotes and its body.
func ParseDocstring(raw string) (ParsedDocstring, error) {
	return docstring.Parse(raw)
}

// SplitSummaryDescription separates a docstring body into its summary and
// description.
func SplitSummaryDescription(body string) SummaryDescription {
	return docstring.Split(body)
}

// RenderDocstring renders parsed at the given indentation. The indentation
// argument takes precedence over cfg.Indentation.
func RenderDocstring(indent string, parsed ParsedDocstring, cfg Config) (string, error) {
	cfg = cfg.WithIndentation(indent)
	if err := Validate(cfg); err != nil {
		return "", err
	}
	return docstring.Render(parsed, cfg)
}

// FormatDocstring parses and renders raw. On failure raw is returned
// along with the error.
func FormatDocstring(indent, raw string, cfg Config) (string, error) {
	cfg = cfg.WithIndentation(indent)
	if err := Validate(cfg); err != nil {
		return raw, err
	}
	return docstring.Format(raw, cfg)
}

// ReformatSource reformats every docstring in src. It returns src
// unchanged when src is empty or has nothing to reformat. Docstrings that
// cannot be rendered are left as they are.
func ReformatSource(src string, cfg Config) (string, error) {
	out, _, err := ReformatSourceWithReport(src, cfg)
	return out, err
}

// ReformatSourceWithReport is ReformatSource that also lists the
// docstrings it rewrote or skipped.
func ReformatSourceWithReport(src string, cfg Config) (string, []Change, error) {
	if err := Validate(cfg); err != nil {
		return src, nil, err
	}
	return rewrite.SourceWithReport(src, cfg)
}

// Diff returns a unified diff from before to after labeled original/path
// and fixed/path, or "" when they are equal.
func Diff(before, after, path string) string {
	return diff.Unified(before, after, "original/"+path, "fixed/"+path, diff.DefaultContext)
}
