// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pytoken splits Python source text into tokens shaped like those of
// Python's tokenize module: NEWLINE and NL are distinguished, indentation
// changes produce INDENT and DEDENT tokens, and comments are kept.
//
// Every byte of the input belongs to exactly one token's Leading or Text, so
// the stream can be joined back into the original source without loss.
package pytoken

import (
	"errors"
	"fmt"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// ErrTokenize is wrapped by every error Tokenize returns.
var ErrTokenize = errors.New("tokenize failed")

// Error describes where and why tokenization stopped.
type Error struct {
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *Error) Unwrap() error { return ErrTokenize }

const tabSize = 8

// lexer holds the scanning state for a single Tokenize call.
type lexer struct {
	src       string
	off       int // Current byte offset
	line      int // Current line, 1-based
	lineStart int // Offset of the first byte of the current line
	lastEnd   int // Offset just past the previous token

	indents    []int // Indentation widths with tabs expanded to tabSize
	altIndents []int // Same widths with tabs counted as one column
	brackets   []byte

	atLineStart bool // Next token begins a physical line outside brackets
	hasContent  bool // The current logical line has a non-trivia token

	toks []types.Token
}

// Tokenize returns the tokens of src, ending with an ENDMARKER token.
// An empty input yields just the ENDMARKER.
func Tokenize(src string) ([]types.Token, error) {
	lx := &lexer{
		src:         src,
		line:        1,
		indents:     []int{0},
		altIndents:  []int{0},
		atLineStart: true,
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) run() error {
	for {
		if lx.atLineStart {
			lx.atLineStart = false
			if err := lx.indentation(); err != nil {
				return err
			}
		}

		lx.skipSpace()
		if lx.off >= len(lx.src) {
			return lx.finish()
		}

		start, pos := lx.off, lx.pos()
		c := lx.src[lx.off]

		switch {
		case c == '#':
			for lx.off < len(lx.src) && !lx.atNewline() {
				lx.bump()
			}
			lx.emit(types.Comment, start, pos)

		case lx.atNewline():
			kind := types.Newline
			if len(lx.brackets) > 0 || !lx.hasContent {
				kind = types.NL
			}
			lx.consumeNewline()
			lx.emit(kind, start, pos)
			if kind == types.Newline {
				lx.hasContent = false
			}
			if len(lx.brackets) == 0 {
				lx.atLineStart = true
			}

		case c == '\\':
			lx.bump()
			if !lx.atNewline() {
				return lx.errorf(pos, "unexpected character after line continuation character")
			}
			// The continuation becomes part of the next token's Leading.
			lx.consumeNewline()
			if lx.off >= len(lx.src) {
				return lx.errorf(pos, "unexpected EOF after line continuation")
			}

		case lx.atStringStart():
			if err := lx.scanString(pos); err != nil {
				return err
			}
			lx.emit(types.String, start, pos)

		case isIdentStart(lx.src, lx.off):
			lx.scanIdent()
			lx.emit(types.Name, start, pos)

		case isDigit(c) || (c == '.' && lx.off+1 < len(lx.src) && isDigit(lx.src[lx.off+1])):
			lx.scanNumber()
			lx.emit(types.Number, start, pos)

		default:
			kind, err := lx.scanOperator(pos)
			if err != nil {
				return err
			}
			lx.emit(kind, start, pos)
		}
	}
}

// indentation measures the whitespace that opens a physical line and emits
// INDENT or DEDENT tokens. Blank and comment-only lines do not affect the
// indentation stack.
func (lx *lexer) indentation() error {
	col, alt := 0, 0
	p := lx.off
scan:
	for ; p < len(lx.src); p++ {
		switch lx.src[p] {
		case ' ':
			col++
			alt++
		case '\t':
			col = (col/tabSize + 1) * tabSize
			alt++
		case '\f':
			col, alt = 0, 0
		default:
			break scan
		}
	}
	if p >= len(lx.src) || lx.src[p] == '#' || lx.src[p] == '\n' ||
		(lx.src[p] == '\r' && p+1 < len(lx.src) && lx.src[p+1] == '\n') {
		return nil
	}

	top := len(lx.indents) - 1
	switch {
	case col == lx.indents[top]:
		if alt != lx.altIndents[top] {
			return lx.errorf(types.Position{Line: lx.line, Col: p - lx.lineStart}, "inconsistent use of tabs and spaces in indentation")
		}
	case col > lx.indents[top]:
		if alt <= lx.altIndents[top] {
			return lx.errorf(types.Position{Line: lx.line, Col: p - lx.lineStart}, "inconsistent use of tabs and spaces in indentation")
		}
		lx.indents = append(lx.indents, col)
		lx.altIndents = append(lx.altIndents, alt)
		pos := lx.pos()
		lx.off = p
		lx.emit(types.Indent, lx.lineStart, pos)
	default:
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.altIndents = lx.altIndents[:len(lx.altIndents)-1]
			lx.off = p
			lx.emit(types.Dedent, p, lx.pos())
		}
		top = len(lx.indents) - 1
		if col != lx.indents[top] || alt != lx.altIndents[top] {
			return lx.errorf(types.Position{Line: lx.line, Col: p - lx.lineStart}, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

// finish emits the tokens that close the stream: a NEWLINE for an
// unterminated last line, one DEDENT per open block, and ENDMARKER.
func (lx *lexer) finish() error {
	if len(lx.brackets) > 0 {
		return lx.errorf(lx.pos(), "EOF in multi-line statement")
	}
	if lx.hasContent {
		lx.emit(types.Newline, lx.off, lx.pos())
		lx.hasContent = false
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(types.Dedent, lx.off, lx.pos())
	}
	lx.emit(types.EndMarker, lx.off, lx.pos())
	return nil
}

// emit appends a token spanning src[start:lx.off] that began at pos.
func (lx *lexer) emit(kind types.TokenKind, start int, pos types.Position) {
	lx.toks = append(lx.toks, types.Token{
		Kind:    kind,
		Text:    lx.src[start:lx.off],
		Leading: lx.src[lx.lastEnd:start],
		Start:   pos,
		End:     lx.pos(),
	})
	lx.lastEnd = lx.off
	switch kind {
	case types.Comment, types.NL, types.Newline, types.Indent, types.Dedent, types.EndMarker:
	default:
		lx.hasContent = true
	}
}

func (lx *lexer) pos() types.Position {
	return types.Position{Line: lx.line, Col: lx.off - lx.lineStart}
}

func (lx *lexer) errorf(pos types.Position, format string, args ...any) error {
	return &Error{Line: pos.Line, Col: pos.Col, Msg: fmt.Sprintf(format, args...)}
}

// bump consumes one byte, tracking line starts.
func (lx *lexer) bump() {
	if lx.src[lx.off] == '\n' {
		lx.line++
		lx.lineStart = lx.off + 1
	}
	lx.off++
}

func (lx *lexer) atNewline() bool {
	if lx.off >= len(lx.src) {
		return false
	}
	c := lx.src[lx.off]
	return c == '\n' || (c == '\r' && lx.off+1 < len(lx.src) && lx.src[lx.off+1] == '\n')
}

// consumeNewline consumes "\n" or "\r\n".
func (lx *lexer) consumeNewline() {
	if lx.src[lx.off] == '\r' {
		lx.bump()
	}
	lx.bump()
}

// skipSpace consumes blanks that separate tokens on a line.
func (lx *lexer) skipSpace() {
	for lx.off < len(lx.src) {
		switch lx.src[lx.off] {
		case ' ', '\t', '\f':
			lx.bump()
		case '\r':
			if lx.atNewline() {
				return
			}
			lx.bump()
		default:
			return
		}
	}
}
