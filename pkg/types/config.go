// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package types

// NoWrap disables wrapping when used as a wrap length.
const NoWrap = 0

const (
	DefaultSummaryWrapLength     = 79
	DefaultDescriptionWrapLength = 72
)

// FormatConfig controls how a docstring is rendered. It is a plain value:
// callers pass it explicitly and nothing mutates it after construction.
type FormatConfig struct {
	Indentation           string // Prefix for continuation lines; the engine fills it per docstring
	SummaryWrapLength     int    // Maximum rendered summary line width; NoWrap disables
	DescriptionWrapLength int    // Maximum rendered description line width; NoWrap disables
	PreSummaryNewline     bool   // Start the summary on the line after the opening quotes
	PostDescriptionBlank  bool   // Emit a blank line between the description and the closing quotes
}

// DefaultFormatConfig returns the configuration used when nothing else is
// specified.
func DefaultFormatConfig() FormatConfig {
	return FormatConfig{
		SummaryWrapLength:     DefaultSummaryWrapLength,
		DescriptionWrapLength: DefaultDescriptionWrapLength,
		PostDescriptionBlank:  true,
	}
}

// WithIndentation returns a copy of c using indent as its indentation.
func (c FormatConfig) WithIndentation(indent string) FormatConfig {
	c.Indentation = indent
	return c
}
