// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// DocContext classifies a string token by its syntactic position.
type DocContext int

const (
	NotDocstring DocContext = iota // Ordinary string literal
	Module                         // First statement of a module
	Function                       // First statement of a def body
	Class                          // First statement of a class body
	Standalone                     // First statement of any other indented block
)

func (c DocContext) String() string {
	switch c {
	case NotDocstring:
		return "not-a-docstring"
	case Module:
		return "module"
	case Function:
		return "function"
	case Class:
		return "class"
	case Standalone:
		return "standalone"
	default:
		return "unknown"
	}
}

// DocstringCandidate is a string token the classifier selected for
// reformatting.
type DocstringCandidate struct {
	Index       int        // Index of Token in the scanned sequence
	Token       Token      // The STRING token
	Context     DocContext // Never NotDocstring
	Indentation string     // Leading whitespace of the enclosing block, tabs kept
	Owner       string     // Name of the enclosing def or class; empty otherwise
}

// ParsedDocstring is a docstring literal with its delimiters removed.
type ParsedDocstring struct {
	QuoteChar byte   // '"' or '\''
	QuoteLen  int    // 1 or 3
	Prefix    string // String prefix such as "r" or "b"; empty for plain literals
	RawBody   string // Content between the delimiters, trimmed, trailing whitespace removed per line
	IsEmpty   bool   // True when RawBody is empty
}

// SummaryDescription is a docstring body split into its first sentence and
// the remaining text.
type SummaryDescription struct {
	Summary       string // Single logical line, whitespace collapsed
	Description   string // Remaining lines verbatim; empty when absent
	HadListMarker bool   // Description starts with a list-like marker line
}
