// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Position is a location in source text. Line is 1-based, Col is a 0-based
// byte offset within the line.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexical token. Leading holds the raw source text between
// the end of the previous token and the start of this one (spaces, tabs,
// backslash continuations), so concatenating Leading+Text over a token
// sequence reproduces the source exactly.
type Token struct {
	Kind    TokenKind
	Text    string
	Leading string
	Start   Position // Position of the first byte of Text
	End     Position // Position just past the last byte of Text
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q %s-%s", t.Kind, t.Text, t.Start, t.End)
}

// IsTrivia reports whether the token carries no statement content: comments
// and non-logical line breaks.
func (t Token) IsTrivia() bool {
	return t.Kind == Comment || t.Kind == NL
}

// Delta is the shift a text replacement introduces. Lines applies to every
// following token; Cols applies only to tokens that start on the line where
// the replaced text used to end.
type Delta struct {
	Lines int
	Cols  int
}

// IsZero reports whether the delta moves nothing.
func (d Delta) IsZero() bool {
	return d.Lines == 0 && d.Cols == 0
}
