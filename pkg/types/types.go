// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across docformatter packages.
package types

// TokenKind identifies the lexical category of a Python token. The names
// returned by String match those of Python's tokenize module.
type TokenKind int

const (
	EndMarker  TokenKind = iota // End of input
	Name                        // Identifier or keyword
	Number                      // Numeric literal
	String                      // String literal, including any prefix
	Op                          // Operator or delimiter
	Comment                     // "#" through end of line, newline excluded
	Newline                     // End of a logical line
	NL                          // Non-logical line break (blank line, comment line, inside brackets)
	Indent                      // Increase of indentation; Text holds the new indentation
	Dedent                      // Decrease of indentation; always empty
	ErrorToken                  // Character the lexer could not classify
)

// String returns the tokenize-style name of the kind.
func (k TokenKind) String() string {
	switch k {
	case EndMarker:
		return "ENDMARKER"
	case Name:
		return "NAME"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Op:
		return "OP"
	case Comment:
		return "COMMENT"
	case Newline:
		return "NEWLINE"
	case NL:
		return "NL"
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	case ErrorToken:
		return "ERRORTOKEN"
	default:
		return "UNKNOWN"
	}
}
