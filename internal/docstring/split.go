// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docstring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// listMarkers are the leading symbols that make a line look like a list item
// or other structured text.
const listMarkers = "-*+@#>|=•"

// abbreviations end in a period without ending a sentence.
var abbreviations = []string{"e.g.", "i.e.", "Dr.", "Mr.", "Mrs.", "Ms."}

// Split separates body into a summary and a description. The first boundary
// found scanning left to right wins: a blank line, a list-marker line after
// the first line, a sentence terminator followed by whitespace and an
// uppercase letter, or a sentence terminator ending a line.
func Split(body string) types.SummaryDescription {
	lines := trimBlankLines(splitLines(body))
	if len(lines) == 0 {
		return types.SummaryDescription{}
	}

	for i, line := range lines {
		if i > 0 && strings.TrimSpace(line) == "" {
			return build(lines[:i], lines[i+1:])
		}
		if i > 0 && isListMarkerLine(line) {
			sd := build(lines[:i], lines[i:])
			sd.HadListMarker = true
			return sd
		}
		if end, ok := sentenceEnd(line); ok {
			head := append(append([]string{}, lines[:i]...), line[:end])
			rest := strings.TrimLeftFunc(line[end:], unicode.IsSpace)
			return build(head, append([]string{rest}, lines[i+1:]...))
		}
		if i+1 < len(lines) && endsSentence(line) {
			return build(lines[:i+1], lines[i+1:])
		}
	}
	return types.SummaryDescription{Summary: collapse(strings.Join(lines, " "))}
}

func build(summary, description []string) types.SummaryDescription {
	desc := trimBlankLines(description)
	sd := types.SummaryDescription{
		Summary:     collapse(strings.Join(summary, " ")),
		Description: strings.Join(desc, "\n"),
	}
	for _, line := range desc {
		if strings.TrimSpace(line) != "" {
			sd.HadListMarker = isListMarkerLine(line)
			break
		}
	}
	return sd
}

// sentenceEnd returns the offset just past the first terminator in line
// that ends a sentence followed, on the same line, by whitespace and an
// uppercase letter.
func sentenceEnd(line string) (int, bool) {
	for i := 1; i < len(line); i++ {
		if !isTerminator(line[i]) || isSpace(line[i-1]) {
			continue
		}
		j := i + 1
		for j < len(line) && isSpace(line[j]) {
			j++
		}
		if j == i+1 || j >= len(line) {
			continue
		}
		if !startsUpper(line[j:]) || isAbbreviation(line[:i+1]) {
			continue
		}
		return i + 1, true
	}
	return 0, false
}

// endsSentence reports whether line ends with a terminator closing a word.
func endsSentence(line string) bool {
	s := strings.TrimRightFunc(line, unicode.IsSpace)
	n := len(s)
	if n < 2 || !isTerminator(s[n-1]) || isSpace(s[n-2]) {
		return false
	}
	return !isAbbreviation(s)
}

func isAbbreviation(text string) bool {
	for _, a := range abbreviations {
		if strings.HasSuffix(text, a) {
			return true
		}
	}
	return false
}

func startsUpper(s string) bool {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// isListMarkerLine reports whether line starts with a list marker: a run of
// one marker symbol standing alone as a word ("- item", ">>> f()", "-----"),
// or an "@" field such as "@param".
func isListMarkerLine(line string) bool {
	s := strings.TrimSpace(line)
	r, size := utf8.DecodeRuneInString(s)
	if s == "" || !strings.ContainsRune(listMarkers, r) {
		return false
	}
	rest := strings.TrimLeft(s, string(r))
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return true
	}
	next, _ := utf8.DecodeRuneInString(s[size:])
	return r == '@' && unicode.IsLetter(next)
}

func isTerminator(c byte) bool {
	return c == '.' || c == '?' || c == '!'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitLines(s string) []string {
	lines := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}
	return lines
}

func trimBlankLines(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
