// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docstring

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/docformatter/internal/pytoken"
	"github.com/petar-djukic/docformatter/pkg/types"
)

const quotes = `"""`

// Render builds the canonical text of a parsed docstring placed at
// cfg.Indentation. The result always uses double quotes and re-tokenizes to
// a single STRING token.
func Render(parsed types.ParsedDocstring, cfg types.FormatConfig) (string, error) {
	if parsed.Prefix != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedPrefix, parsed.Prefix)
	}
	if parsed.IsEmpty {
		if parsed.QuoteLen == 1 {
			return `""`, nil
		}
		return quotes + quotes, nil
	}
	if strings.Contains(parsed.RawBody, quotes) {
		return "", fmt.Errorf("%w: body contains %s", ErrMalformed, quotes)
	}
	for _, line := range strings.Split(parsed.RawBody, "\n") {
		if continues(line) {
			return "", fmt.Errorf("%w: backslash continuation in body", ErrMalformed)
		}
	}

	sd := Split(parsed.RawBody)
	summary := NormalizeSummary(sd.Summary)
	if summary == "" {
		return "", fmt.Errorf("%w: empty summary", ErrMalformed)
	}

	var out string
	if sd.Description == "" {
		out = renderSummary(cfg.Indentation, summary, cfg.SummaryWrapLength)
	} else {
		out = renderFull(summary, sd, cfg)
	}

	if err := validate(out); err != nil {
		return "", err
	}
	return out, nil
}

// Format parses raw and renders it. On failure it returns raw unchanged
// together with the error.
func Format(raw string, cfg types.FormatConfig) (string, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return raw, err
	}
	out, err := Render(parsed, cfg)
	if err != nil {
		return raw, err
	}
	return out, nil
}

// renderSummary renders a docstring without description. The quotes take
// part in wrapping so the line width bound holds for the first and last
// lines too.
func renderSummary(indent, summary string, width int) string {
	lines := Wrap(quotes+summary+quotes, indent, indent, width)
	lines[0] = strings.TrimPrefix(lines[0], indent)
	return strings.Join(lines, "\n")
}

func renderFull(summary string, sd types.SummaryDescription, cfg types.FormatConfig) string {
	indent := cfg.Indentation
	initial := indent
	if !cfg.PreSummaryNewline {
		initial += strings.Repeat(" ", len(quotes))
	}
	lines := Wrap(summary, initial, indent, cfg.SummaryWrapLength)
	lines[0] = strings.TrimPrefix(lines[0], initial)

	var b strings.Builder
	b.WriteString(quotes)
	if cfg.PreSummaryNewline {
		b.WriteString("\n" + indent)
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
	b.WriteString(WrapDescription(sd.Description, indent, cfg.DescriptionWrapLength))
	if cfg.PostDescriptionBlank || sd.HadListMarker {
		b.WriteString("\n")
	}
	b.WriteString("\n" + indent + quotes)
	return b.String()
}

// validate checks that text lexes as exactly one string literal.
func validate(text string) error {
	toks, err := pytoken.Tokenize(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var strs int
	for _, tok := range toks {
		switch tok.Kind {
		case types.String:
			if tok.Text != text {
				return fmt.Errorf("%w: rendered text splits into several literals", ErrMalformed)
			}
			strs++
		case types.Newline, types.NL, types.EndMarker:
		default:
			return fmt.Errorf("%w: rendered text is not a single literal", ErrMalformed)
		}
	}
	if strs != 1 {
		return fmt.Errorf("%w: rendered text is not a single literal", ErrMalformed)
	}
	return nil
}
