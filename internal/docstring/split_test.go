// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package docstring

import (
	"testing"

	"github.com/petar-djukic/docformatter/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		body string
		want types.SummaryDescription
	}{
		{
			name: "empty body",
			body: "",
			want: types.SummaryDescription{},
		},
		{
			name: "summary only",
			body: "Hello world",
			want: types.SummaryDescription{Summary: "Hello world"},
		},
		{
			name: "sentences on one line",
			body: "This is the first. This is the second. This is the third.",
			want: types.SummaryDescription{
				Summary:     "This is the first.",
				Description: "This is the second. This is the third.",
			},
		},
		{
			name: "blank line boundary",
			body: "This is the first\n\nThis is the second. This is the third.",
			want: types.SummaryDescription{
				Summary:     "This is the first",
				Description: "This is the second. This is the third.",
			},
		},
		{
			name: "terminator at end of line before uppercase line",
			body: "This is the first.\nThis is the second. This is the third.",
			want: types.SummaryDescription{
				Summary:     "This is the first.",
				Description: "This is the second. This is the third.",
			},
		},
		{
			name: "list on second line",
			body: "This is the first\n- one\n- two",
			want: types.SummaryDescription{
				Summary:       "This is the first",
				Description:   "- one\n- two",
				HadListMarker: true,
			},
		},
		{
			name: "other marker symbol",
			body: "This is the first\n@ one\n@ two",
			want: types.SummaryDescription{
				Summary:       "This is the first",
				Description:   "@ one\n@ two",
				HadListMarker: true,
			},
		},
		{
			name: "multi-line summary before marker keeps marker indentation",
			body: "    Test\n    test\n    @blah\n",
			want: types.SummaryDescription{
				Summary:       "Test test",
				Description:   "    @blah",
				HadListMarker: true,
			},
		},
		{
			name: "summary spanning lines then sentence",
			body: "Hello\n    foo. This is a docstring.\n\n    More stuff.",
			want: types.SummaryDescription{
				Summary:     "Hello foo.",
				Description: "This is a docstring.\n\n    More stuff.",
			},
		},
		{
			name: "list after blank line sets marker flag",
			body: "Summary.\n\n    * first\n    * second",
			want: types.SummaryDescription{
				Summary:       "Summary.",
				Description:   "    * first\n    * second",
				HadListMarker: true,
			},
		},
		{
			name: "abbreviations do not end the summary",
			body: "Use a helper, e.g. Foo or i.e. Bar, as Dr. Who said.",
			want: types.SummaryDescription{Summary: "Use a helper, e.g. Foo or i.e. Bar, as Dr. Who said."},
		},
		{
			name: "lowercase after mid-line terminator continues the summary",
			body: "Compute x. then y",
			want: types.SummaryDescription{Summary: "Compute x. then y"},
		},
		{
			name: "terminator at end of line before lowercase line",
			body: "Hello foo.\nthis is more.",
			want: types.SummaryDescription{
				Summary:     "Hello foo.",
				Description: "this is more.",
			},
		},
		{
			name: "terminator at end of line before digit",
			body: "Compute it.\n123 items",
			want: types.SummaryDescription{
				Summary:     "Compute it.",
				Description: "123 items",
			},
		},
		{
			name: "abbreviation at end of line continues the summary",
			body: "Accepts a mapping, e.g.\na dict",
			want: types.SummaryDescription{Summary: "Accepts a mapping, e.g. a dict"},
		},
		{
			name: "negative number is not a list marker",
			body: "Return -1\n-1 on failure",
			want: types.SummaryDescription{Summary: "Return -1 -1 on failure"},
		},
		{
			name: "dotted names are not terminators",
			body: "Wraps math.factorial for ints.",
			want: types.SummaryDescription{Summary: "Wraps math.factorial for ints."},
		},
		{
			name: "question mark boundary",
			body: "Is it ready? Check the flag.",
			want: types.SummaryDescription{
				Summary:     "Is it ready?",
				Description: "Check the flag.",
			},
		},
		{
			name: "first boundary wins over later blank line",
			body: "One. Two.\n\nThree.",
			want: types.SummaryDescription{
				Summary:     "One.",
				Description: "Two.\n\nThree.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.body))
		})
	}
}

func TestIsListMarkerLine(t *testing.T) {
	for _, line := range []string{"- a", "  * b", "+ c", "@param x", "# heading", ">>> f()", "| cell", "=====", "• dot", "-", "@"} {
		assert.True(t, isListMarkerLine(line), line)
	}
	for _, line := range []string{"", "   ", "plain", "1. numbered", "(a) item", "-1 on failure", "**kwargs", "--flag", "#1", "@1"} {
		assert.False(t, isListMarkerLine(line), line)
	}
}
