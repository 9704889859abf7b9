// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package rewrite reformats every docstring of a Python source file. Only
// docstring tokens change; all other bytes of the file are carried through
// unchanged.
package rewrite

import (
	"strings"

	"github.com/petar-djukic/docformatter/internal/classify"
	"github.com/petar-djukic/docformatter/internal/docstring"
	"github.com/petar-djukic/docformatter/internal/pytoken"
	"github.com/petar-djukic/docformatter/pkg/types"
)

// Change records the outcome for one docstring that was rewritten or that
// could not be rendered.
type Change struct {
	Line    int // Line of the docstring in the input, 1-based
	Context types.DocContext
	Owner   string
	Before  string
	After   string
	Err     error // Non-nil when the docstring was left as it was
}

// Skipped reports whether the docstring was left unmodified due to Err.
func (c Change) Skipped() bool { return c.Err != nil }

// Replace returns a copy of tokens in which token i holds text. Tokens after
// i are moved by the returned delta: all of them by its line count, and those
// that started on the line where token i used to end also by its column
// count. The input slice is not modified.
func Replace(tokens []types.Token, i int, text string) ([]types.Token, types.Delta) {
	out := make([]types.Token, len(tokens))
	copy(out, tokens)

	old := out[i]
	end := endOf(old.Start, text)
	d := types.Delta{
		Lines: end.Line - old.End.Line,
		Cols:  end.Col - old.End.Col,
	}
	out[i].Text = text
	out[i].End = end
	if d.IsZero() {
		return out, d
	}

	for j := i + 1; j < len(out); j++ {
		out[j].Start = shift(out[j].Start, old.End.Line, d)
		out[j].End = shift(out[j].End, old.End.Line, d)
	}
	return out, d
}

// Join concatenates the tokens back into source text.
func Join(tokens []types.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Leading)
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Source reformats every docstring in src. It returns src itself when
// nothing changes.
func Source(src string, cfg types.FormatConfig) (string, error) {
	out, _, err := SourceWithReport(src, cfg)
	return out, err
}

// SourceWithReport is Source that also lists the docstrings it rewrote and
// the ones it had to skip. A tokenization failure is returned as an error
// wrapping pytoken.ErrTokenize; rendering failures only skip the docstring
// concerned.
func SourceWithReport(src string, cfg types.FormatConfig) (string, []Change, error) {
	if src == "" {
		return src, nil, nil
	}
	toks, err := pytoken.Tokenize(src)
	if err != nil {
		return src, nil, err
	}

	eol := lineEnding(src)
	var changes []Change
	for _, c := range classify.Locate(toks) {
		before := toks[c.Index].Text
		after, err := docstring.Format(before, cfg.WithIndentation(c.Indentation))
		if err == nil && eol != "\n" {
			after = strings.ReplaceAll(after, "\n", eol)
		}

		change := Change{
			Line:    c.Token.Start.Line,
			Context: c.Context,
			Owner:   c.Owner,
			Before:  before,
			After:   after,
			Err:     err,
		}
		if err != nil {
			change.After = before
			changes = append(changes, change)
			continue
		}
		if after == before {
			continue
		}
		toks, _ = Replace(toks, c.Index, after)
		changes = append(changes, change)
	}

	if !modified(changes) {
		return src, changes, nil
	}
	return Join(toks), changes, nil
}

func modified(changes []Change) bool {
	for _, c := range changes {
		if !c.Skipped() {
			return true
		}
	}
	return false
}

// lineEnding returns the line terminator of the first line of src.
func lineEnding(src string) string {
	i := strings.IndexByte(src, '\n')
	if i > 0 && src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func endOf(start types.Position, text string) types.Position {
	n := strings.Count(text, "\n")
	if n == 0 {
		return types.Position{Line: start.Line, Col: start.Col + len(text)}
	}
	return types.Position{Line: start.Line + n, Col: len(text) - strings.LastIndexByte(text, '\n') - 1}
}

func shift(p types.Position, line int, d types.Delta) types.Position {
	if p.Line == line {
		p.Col += d.Cols
	}
	p.Line += d.Lines
	return p
}
