// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package docstring parses, splits, wraps and renders individual Python
// docstrings. It works on the text of a single STRING token and knows
// nothing about the surrounding file.
package docstring

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/petar-djukic/docformatter/pkg/types"
)

var (
	// ErrMalformed is returned when a docstring cannot be rendered without
	// changing the meaning of the literal.
	ErrMalformed = errors.New("malformed docstring")

	// ErrUnsupportedPrefix is returned for literals carrying a string prefix.
	ErrUnsupportedPrefix = errors.New("unsupported string prefix")
)

// Parse strips the quote delimiters from raw and normalizes the body:
// CRLF becomes LF, trailing whitespace is removed from every line and the
// body is trimmed. Tabs inside the body are kept.
func Parse(raw string) (types.ParsedDocstring, error) {
	text := strings.TrimSpace(raw)

	q := strings.IndexAny(text, `"'`)
	if q < 0 {
		return types.ParsedDocstring{}, fmt.Errorf("%w: no opening quote", ErrMalformed)
	}
	prefix := text[:q]
	for _, r := range prefix {
		if !unicode.IsLetter(r) {
			return types.ParsedDocstring{}, fmt.Errorf("%w: invalid prefix %q", ErrMalformed, prefix)
		}
	}
	text = text[q:]

	quote := text[0]
	marker := string(quote)
	quoteLen := 1
	if triple := strings.Repeat(marker, 3); len(text) >= 6 && strings.HasPrefix(text, triple) && strings.HasSuffix(text, triple) {
		quoteLen = 3
	}
	if len(text) < 2*quoteLen || !strings.HasSuffix(text, marker) {
		return types.ParsedDocstring{}, fmt.Errorf("%w: closing quote does not match %s", ErrMalformed, marker)
	}

	body := normalizeBody(text[quoteLen : len(text)-quoteLen])
	return types.ParsedDocstring{
		QuoteChar: quote,
		QuoteLen:  quoteLen,
		Prefix:    prefix,
		RawBody:   body,
		IsEmpty:   body == "",
	}, nil
}

func normalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
