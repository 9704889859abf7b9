// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docstring

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const tabWidth = 8

// NormalizeSummary collapses whitespace in summary and makes sure it ends
// with a sentence terminator. A trailing quote character still gets the
// period appended after it.
func NormalizeSummary(summary string) string {
	s := collapse(summary)
	if s == "" || isTerminator(s[len(s)-1]) {
		return s
	}
	return s + "."
}

// Wrap fills the words of text into lines no wider than width display
// columns, like Python's textwrap.wrap. The first line starts with
// initialIndent and the others with subsequentIndent. Words are never split.
// A width of zero or less disables wrapping.
//
// Lines never break before a list-marker word or after a word ending a
// sentence, since either would read back as a summary boundary. Such a pair
// of words is filled as one unit, and a unit wider than width gets a line of
// its own.
func Wrap(text, initialIndent, subsequentIndent string, width int) []string {
	return fill(text, initialIndent, subsequentIndent, width, summaryBreak)
}

// breakRule reports whether a line may break between words a and b.
type breakRule func(a, b string) bool

func proseBreak(_, b string) bool {
	return !isMarkerWord(b)
}

func summaryBreak(a, b string) bool {
	return proseBreak(a, b) && !endsSentence(a)
}

func fill(text, initialIndent, subsequentIndent string, width int, canBreak breakRule) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if width <= 0 {
		return []string{initialIndent + strings.Join(words, " ")}
	}

	units := []string{words[0]}
	for i := 1; i < len(words); i++ {
		if canBreak(words[i-1], words[i]) {
			units = append(units, words[i])
			continue
		}
		units[len(units)-1] += " " + words[i]
	}

	var lines []string
	indent, cur := initialIndent, units[0]
	for _, u := range units[1:] {
		if displayWidth(indent+cur+" "+u) <= width {
			cur += " " + u
			continue
		}
		lines = append(lines, indent+cur)
		indent, cur = subsequentIndent, u
	}
	return append(lines, indent+cur)
}

// WrapDescription indents description with indent. Lines that already carry
// leading whitespace are kept as they are. When width is positive and the
// text is plain prose, each blank-line separated paragraph is reflowed;
// lists, doctests and literal blocks are never reflowed.
func WrapDescription(description, indent string, width int) string {
	lines := reindent(trimBlankLines(splitLines(description)), indent)
	if width <= 0 || !reflowable(lines) {
		return strings.Join(lines, "\n")
	}

	var out, para []string
	flush := func() {
		if len(para) > 0 {
			out = append(out, fill(strings.Join(para, " "), indent, indent, width, proseBreak)...)
			para = nil
		}
	}
	for _, line := range lines {
		if line == "" {
			flush()
			out = append(out, "")
			continue
		}
		para = append(para, line)
	}
	flush()
	return strings.Join(out, "\n")
}

func reindent(lines []string, indent string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		switch {
		case strings.TrimSpace(line) == "":
			out[i] = ""
		case line[0] == ' ' || line[0] == '\t':
			out[i] = line
		default:
			out[i] = indent + line
		}
	}
	return out
}

// reflowable reports whether lines hold plain paragraphs: no list markers,
// no doctest prompts, no backslash continuations and no line indented
// deeper than the others.
func reflowable(lines []string) bool {
	common := ""
	first := true
	for _, line := range lines {
		if line == "" {
			continue
		}
		if isListMarkerLine(line) || strings.Contains(line, ">>>") || continues(line) {
			return false
		}
		lead := leadingSpace(line)
		if first {
			common, first = lead, false
			continue
		}
		if lead != common {
			return false
		}
	}
	return true
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isMarkerWord(w string) bool {
	return isListMarkerLine(w)
}

// continues reports whether line ends in a backslash that joins it with the
// next line inside the literal.
func continues(line string) bool {
	n := len(line) - len(strings.TrimRight(line, `\`))
	return n%2 == 1
}

// displayWidth measures s in terminal columns. Tabs advance to the next
// multiple of tabWidth.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w = (w/tabWidth + 1) * tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}
