// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package classify decides which string tokens of a Python token stream are
// docstrings. It only reads the stream; rewriting is left to the caller.
package classify

import (
	"strings"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// Locate returns the docstring candidates of tokens in source order.
func Locate(tokens []types.Token) []types.DocstringCandidate {
	var out []types.DocstringCandidate
	for i, tok := range tokens {
		if tok.Kind != types.String {
			continue
		}
		ctx, indent, owner := classifyAt(tokens, i)
		if ctx == types.NotDocstring {
			continue
		}
		out = append(out, types.DocstringCandidate{
			Index:       i,
			Token:       tok,
			Context:     ctx,
			Indentation: indent,
			Owner:       owner,
		})
	}
	return out
}

// IsPlainTriple reports whether text is an unprefixed triple-quoted literal.
func IsPlainTriple(text string) bool {
	if len(text) < 6 {
		return false
	}
	for _, q := range []string{`"""`, `'''`} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			return true
		}
	}
	return false
}

// classifyAt classifies the STRING token at index i and returns its
// context, the indentation of its block, and the owning def or class name.
func classifyAt(tokens []types.Token, i int) (types.DocContext, string, string) {
	if !IsPlainTriple(tokens[i].Text) || !standsAlone(tokens, i) {
		return types.NotDocstring, "", ""
	}

	p := i - 1
	if p >= 0 && tokens[p].Kind == types.Indent {
		ctx, owner := headerContext(tokens, p)
		return ctx, tokens[p].Text, owner
	}
	for ; p >= 0; p-- {
		switch tokens[p].Kind {
		case types.Comment, types.NL, types.Newline:
		default:
			return types.NotDocstring, "", ""
		}
	}
	return types.Module, "", ""
}

// standsAlone reports whether the token at i is the only token of its
// logical line, optionally followed by a comment.
func standsAlone(tokens []types.Token, i int) bool {
	j := i + 1
	if j < len(tokens) && tokens[j].Kind == types.Comment {
		j++
	}
	if j >= len(tokens) {
		return true
	}
	return tokens[j].Kind == types.Newline || tokens[j].Kind == types.EndMarker
}

// headerContext inspects the logical line that opened the block whose
// INDENT token sits at index indent.
func headerContext(tokens []types.Token, indent int) (types.DocContext, string) {
	q := indent - 1
	for q >= 0 && tokens[q].IsTrivia() {
		q--
	}
	if q < 0 || tokens[q].Kind != types.Newline {
		return types.Standalone, ""
	}

	start := q - 1
	for start >= 0 {
		k := tokens[start].Kind
		if k == types.Newline || k == types.Indent || k == types.Dedent {
			break
		}
		start--
	}
	start++
	for start < q && tokens[start].IsTrivia() {
		start++
	}

	head := tokens[start:q]
	if len(head) > 0 && head[0].Kind == types.Name && head[0].Text == "async" {
		head = head[1:]
	}
	if len(head) == 0 || head[0].Kind != types.Name {
		return types.Standalone, ""
	}

	var owner string
	if len(head) > 1 && head[1].Kind == types.Name {
		owner = head[1].Text
	}
	switch head[0].Text {
	case "def":
		return types.Function, owner
	case "class":
		return types.Class, owner
	default:
		return types.Standalone, ""
	}
}
