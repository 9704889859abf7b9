// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package pytoken

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// stringPrefixes lists the valid string prefixes, lowercased.
var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true, "t": true,
	"br": true, "rb": true, "fr": true, "rf": true, "tr": true, "rt": true,
}

// operators is ordered longest first so the scan takes the longest match.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", "<<", ">>", "<=", ">=", "==", "!=", "->",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=", ":=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ";", ".", "=", "!",
}

var closing = map[byte]byte{')': '(', ']': '[', '}': '{'}

// prefixLen returns the length of the string prefix at offset off, or -1 if
// no string literal starts there.
func prefixLen(src string, off int) int {
	for n := 0; n <= 2 && off+n < len(src); n++ {
		c := src[off+n]
		if c == '"' || c == '\'' {
			if n == 0 || stringPrefixes[strings.ToLower(src[off:off+n])] {
				return n
			}
			return -1
		}
		if !isASCIILetter(c) {
			return -1
		}
	}
	return -1
}

func (lx *lexer) atStringStart() bool {
	return prefixLen(lx.src, lx.off) >= 0
}

// scanString consumes a string literal with its prefix. A backslash always
// escapes the following byte, raw strings included, which matches how Python
// finds the end of a literal.
func (lx *lexer) scanString(pos types.Position) error {
	lx.off += prefixLen(lx.src, lx.off)
	quote := lx.src[lx.off]
	triple := strings.HasPrefix(lx.src[lx.off:], strings.Repeat(string(quote), 3))

	if triple {
		lx.off += 3
		closer := strings.Repeat(string(quote), 3)
		for {
			if lx.off >= len(lx.src) {
				return lx.errorf(pos, "unterminated triple-quoted string literal")
			}
			switch {
			case lx.src[lx.off] == '\\':
				lx.bump()
				if lx.off < len(lx.src) {
					lx.bump()
				}
			case strings.HasPrefix(lx.src[lx.off:], closer):
				lx.off += 3
				return nil
			default:
				lx.bump()
			}
		}
	}

	lx.off++
	for {
		if lx.off >= len(lx.src) || lx.atNewline() {
			return lx.errorf(pos, "unterminated string literal")
		}
		switch c := lx.src[lx.off]; {
		case c == '\\':
			lx.bump()
			if lx.atNewline() {
				lx.consumeNewline()
			} else if lx.off < len(lx.src) {
				lx.bump()
			}
		case c == quote:
			lx.off++
			return nil
		default:
			lx.bump()
		}
	}
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(src string, off int) bool {
	c := src[off]
	if c < utf8.RuneSelf {
		return isASCIILetter(c) || c == '_'
	}
	r, _ := utf8.DecodeRuneInString(src[off:])
	return unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

func (lx *lexer) scanIdent() {
	for lx.off < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.off:])
		if !isIdentRune(r) {
			return
		}
		lx.off += size
	}
}

// scanNumber consumes a numeric literal. It accepts more than Python does
// (for example "1.2.3"); the goal is token boundaries, not validation.
func (lx *lexer) scanNumber() {
	hex := strings.HasPrefix(lx.src[lx.off:], "0x") || strings.HasPrefix(lx.src[lx.off:], "0X")
	for lx.off < len(lx.src) {
		c := lx.src[lx.off]
		switch {
		case isDigit(c) || isASCIILetter(c) || c == '_' || c == '.':
			lx.off++
		case (c == '+' || c == '-') && !hex && (lx.src[lx.off-1] == 'e' || lx.src[lx.off-1] == 'E'):
			lx.off++
		default:
			return
		}
	}
}

// scanOperator consumes an operator or delimiter and tracks bracket nesting.
// A character that is not an operator yields an ERRORTOKEN.
func (lx *lexer) scanOperator(pos types.Position) (types.TokenKind, error) {
	for _, op := range operators {
		if !strings.HasPrefix(lx.src[lx.off:], op) {
			continue
		}
		lx.off += len(op)
		if len(op) == 1 {
			if err := lx.trackBracket(op[0], pos); err != nil {
				return 0, err
			}
		}
		return types.Op, nil
	}
	_, size := utf8.DecodeRuneInString(lx.src[lx.off:])
	lx.off += size
	return types.ErrorToken, nil
}

func (lx *lexer) trackBracket(c byte, pos types.Position) error {
	switch c {
	case '(', '[', '{':
		lx.brackets = append(lx.brackets, c)
	case ')', ']', '}':
		n := len(lx.brackets)
		if n == 0 || lx.brackets[n-1] != closing[c] {
			return lx.errorf(pos, "unmatched %q", c)
		}
		lx.brackets = lx.brackets[:n-1]
	}
	return nil
}
