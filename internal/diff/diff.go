// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package diff renders line-based unified diffs between two versions of a
// file, optionally colorized for terminals.
package diff

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// line is one line of the edit script. Op is ' ', '-' or '+'.
type line struct {
	op   byte
	text string
}

// Unified returns a unified diff from oldText to newText with the given
// file labels and lines of context. It returns "" when the texts are equal.
func Unified(oldText, newText, from, to string, context int) string {
	if oldText == newText {
		return ""
	}
	if context < 0 {
		context = 0
	}

	script := editScript(oldText, newText)

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", from, to)
	for _, h := range hunks(script, context) {
		writeHunk(&b, script, h[0], h[1])
	}
	return b.String()
}

// editScript diffs the texts line by line. Within each run of changes the
// deleted lines come before the inserted ones.
func editScript(oldText, newText string) []line {
	dmp := diffmatchpatch.New()
	rOld, rNew, lineArray := dmp.DiffLinesToRunes(oldText, newText)
	diffs := dmp.DiffMainRunes(rOld, rNew, false)

	decode := func(s string) []string {
		out := make([]string, 0, len(s))
		for _, r := range s {
			if idx := int(r); idx >= 0 && idx < len(lineArray) {
				out = append(out, trimEOL(lineArray[idx]))
			}
		}
		return out
	}

	var script, ins []line
	flush := func() {
		script = append(script, ins...)
		ins = nil
	}
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			for _, l := range decode(d.Text) {
				script = append(script, line{op: ' ', text: l})
			}
		case diffmatchpatch.DiffDelete:
			for _, l := range decode(d.Text) {
				script = append(script, line{op: '-', text: l})
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range decode(d.Text) {
				ins = append(ins, line{op: '+', text: l})
			}
		}
	}
	flush()
	return script
}

// hunks groups the changes of script into [start, stop) ranges, merging
// changes separated by at most 2*context unchanged lines.
func hunks(script []line, context int) [][2]int {
	var out [][2]int
	i := 0
	for i < len(script) {
		if script[i].op == ' ' {
			i++
			continue
		}
		start := max(0, i-context)
		if n := len(out); n > 0 && start < out[n-1][1] {
			start = out[n-1][1]
		}

		end := i
		for j := i; j < len(script); {
			if script[j].op != ' ' {
				j++
				end = j
				continue
			}
			k := j
			for k < len(script) && script[k].op == ' ' {
				k++
			}
			if k == len(script) || k-j > 2*context {
				break
			}
			j = k
		}

		stop := min(len(script), end+context)
		out = append(out, [2]int{start, stop})
		i = stop
	}
	return out
}

func writeHunk(b *strings.Builder, script []line, start, stop int) {
	oldStart, newStart := 0, 0
	for _, l := range script[:start] {
		if l.op != '+' {
			oldStart++
		}
		if l.op != '-' {
			newStart++
		}
	}
	oldLen, newLen := 0, 0
	for _, l := range script[start:stop] {
		if l.op != '+' {
			oldLen++
		}
		if l.op != '-' {
			newLen++
		}
	}

	fmt.Fprintf(b, "@@ -%s +%s @@\n", formatRange(oldStart, oldLen), formatRange(newStart, newLen))
	for _, l := range script[start:stop] {
		b.WriteByte(l.op)
		b.WriteString(l.text)
		b.WriteByte('\n')
	}
}

// formatRange formats a hunk range the way unified diffs do: a single line
// is shown as its number only, an empty range by the line before it.
func formatRange(start, length int) string {
	first := start + 1
	switch length {
	case 1:
		return fmt.Sprintf("%d", first)
	case 0:
		first--
	}
	return fmt.Sprintf("%d,%d", first, length)
}

func trimEOL(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}

// Colorize paints the lines of a unified diff with ANSI colors. Color is
// applied unconditionally; callers decide whether the output is a terminal.
func Colorize(unified string) string {
	var (
		headerColor = color.New(color.Bold)
		hunkColor   = color.New(color.FgCyan)
		addColor    = color.New(color.FgGreen)
		delColor    = color.New(color.FgRed)
	)
	for _, c := range []*color.Color{headerColor, hunkColor, addColor, delColor} {
		c.EnableColor()
	}

	lines := strings.SplitAfter(unified, "\n")
	var b strings.Builder
	for _, l := range lines {
		if l == "" {
			continue
		}
		body := strings.TrimSuffix(l, "\n")
		nl := l[len(body):]

		var c *color.Color
		switch {
		case strings.HasPrefix(body, "--- "), strings.HasPrefix(body, "+++ "):
			c = headerColor
		case strings.HasPrefix(body, "@@"):
			c = hunkColor
		case strings.HasPrefix(body, "+"):
			c = addColor
		case strings.HasPrefix(body, "-"):
			c = delColor
		}
		if c == nil {
			b.WriteString(l)
			continue
		}
		b.WriteString(c.Sprint(body))
		b.WriteString(nl)
	}
	return b.String()
}
