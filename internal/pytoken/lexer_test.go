// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package pytoken

import (
	"errors"
	"strings"
	"testing"

	"github.com/petar-djukic/docformatter/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		kinds []types.TokenKind
	}{
		{
			name:  "empty input yields only the end marker",
			src:   "",
			kinds: []types.TokenKind{types.EndMarker},
		},
		{
			name:  "simple assignment",
			src:   "x = 1\n",
			kinds: []types.TokenKind{types.Name, types.Op, types.Number, types.Newline, types.EndMarker},
		},
		{
			name:  "missing final newline still ends the logical line",
			src:   "x = 1",
			kinds: []types.TokenKind{types.Name, types.Op, types.Number, types.Newline, types.EndMarker},
		},
		{
			name: "function with docstring",
			src:  "def f():\n    \"\"\"Doc.\"\"\"\n    pass\n",
			kinds: []types.TokenKind{
				types.Name, types.Name, types.Op, types.Op, types.Op, types.Newline,
				types.Indent, types.String, types.Newline,
				types.Name, types.Newline,
				types.Dedent, types.EndMarker,
			},
		},
		{
			name:  "blank and comment lines are NL",
			src:   "# header\n\nx\n",
			kinds: []types.TokenKind{types.Comment, types.NL, types.NL, types.Name, types.Newline, types.EndMarker},
		},
		{
			name: "line breaks inside brackets are NL",
			src:  "f(1,\n  2)\n",
			kinds: []types.TokenKind{
				types.Name, types.Op, types.Number, types.Op, types.NL,
				types.Number, types.Op, types.Newline, types.EndMarker,
			},
		},
		{
			name:  "backslash continuation emits no token",
			src:   "x = 1 + \\\n    2\n",
			kinds: []types.TokenKind{types.Name, types.Op, types.Number, types.Op, types.Number, types.Newline, types.EndMarker},
		},
		{
			name:  "trailing comment after statement",
			src:   "x = 1  # note\n",
			kinds: []types.TokenKind{types.Name, types.Op, types.Number, types.Comment, types.Newline, types.EndMarker},
		},
		{
			name: "nested blocks close with one dedent each",
			src:  "class A:\n    def f(self):\n        pass\n",
			kinds: []types.TokenKind{
				types.Name, types.Name, types.Op, types.Newline,
				types.Indent, types.Name, types.Name, types.Op, types.Name, types.Op, types.Op, types.Newline,
				types.Indent, types.Name, types.Newline,
				types.Dedent, types.Dedent, types.EndMarker,
			},
		},
		{
			name:  "unknown character is an error token",
			src:   "x = $\n",
			kinds: []types.TokenKind{types.Name, types.Op, types.ErrorToken, types.Newline, types.EndMarker},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kinds, kindsOf(toks))
		})
	}
}

func TestTokenize_Strings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "double quoted", src: `"abc"`, want: `"abc"`},
		{name: "single quoted with escaped quote", src: `'it\'s'`, want: `'it\'s'`},
		{name: "triple quoted spanning lines", src: "\"\"\"a\nb\n\"\"\"", want: "\"\"\"a\nb\n\"\"\""},
		{name: "triple single quotes", src: "'''a ''b'' c'''", want: "'''a ''b'' c'''"},
		{name: "raw prefix", src: `r"\d+"`, want: `r"\d+"`},
		{name: "uppercase combined prefix", src: `Rb"\x00"`, want: `Rb"\x00"`},
		{name: "f-string", src: `f"{x}"`, want: `f"{x}"`},
		{name: "triple quoted with escaped closer", src: `"""a\"""b"""`, want: `"""a\"""b"""`},
		{name: "empty string", src: `""`, want: `""`},
		{name: "empty triple string", src: `""""""`, want: `""""""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := Tokenize(tt.src + "\n")
			require.NoError(t, err)
			require.NotEmpty(t, toks)
			assert.Equal(t, types.String, toks[0].Kind)
			assert.Equal(t, tt.want, toks[0].Text)
		})
	}
}

func TestTokenize_NamesThatLookLikePrefixes(t *testing.T) {
	toks, err := Tokenize("rb = bar + print\n")
	require.NoError(t, err)

	var names []string
	for _, tok := range toks {
		if tok.Kind == types.Name {
			names = append(names, tok.Text)
		}
	}
	assert.Equal(t, []string{"rb", "bar", "print"}, names)
}

func TestTokenize_Numbers(t *testing.T) {
	for _, src := range []string{"42", "3.14", ".5", "1e-5", "1E+10", "0xFF", "1_000", "2j"} {
		t.Run(src, func(t *testing.T) {
			toks, err := Tokenize(src + "\n")
			require.NoError(t, err)
			assert.Equal(t, types.Number, toks[0].Kind)
			assert.Equal(t, src, toks[0].Text)
		})
	}
}

func TestTokenize_Operators(t *testing.T) {
	toks, err := Tokenize("a **= b // c -> d := e != f ...\n")
	require.NoError(t, err)

	var ops []string
	for _, tok := range toks {
		if tok.Kind == types.Op {
			ops = append(ops, tok.Text)
		}
	}
	assert.Equal(t, []string{"**=", "//", "->", ":=", "!=", "..."}, ops)
}

func TestTokenize_Positions(t *testing.T) {
	src := "def f():\n    \"\"\"Doc.\n\n    More.\n    \"\"\"\n    return 1\n"
	toks, err := Tokenize(src)
	require.NoError(t, err)

	str := findKind(t, toks, types.String)
	assert.Equal(t, types.Position{Line: 2, Col: 4}, str.Start)
	assert.Equal(t, types.Position{Line: 5, Col: 7}, str.End)

	indent := findKind(t, toks, types.Indent)
	assert.Equal(t, "    ", indent.Text)
	assert.Equal(t, types.Position{Line: 2, Col: 0}, indent.Start)
	assert.Equal(t, types.Position{Line: 2, Col: 4}, indent.End)

	ret := findText(t, toks, "return")
	assert.Equal(t, types.Position{Line: 6, Col: 4}, ret.Start)
	assert.Equal(t, "    ", ret.Leading)
}

func TestTokenize_LosslessJoin(t *testing.T) {
	sources := []string{
		"",
		"x = 1",
		"def foo():\n\t\"\"\"Hello.\"\"\"\n\tpass\n",
		"x = 1 + \\\n    2  # trailing\n\n\n# comment\n",
		"class A:\n    '''Doc.'''\n\n    def f(self):\n        return [\n            1,\n          2]\n",
		"if True:\n    x = 1\r\n    y = 2\r\n",
		"s = 'a' \"b\" r'''c\n'''\n   \n",
		"async def f():\n    await g()  # x\n",
	}

	for _, src := range sources {
		toks, err := Tokenize(src)
		require.NoError(t, err, "source %q", src)
		assert.Equal(t, src, join(toks), "source %q", src)
	}
}

func TestTokenize_CRLFKeptInNewlineText(t *testing.T) {
	toks, err := Tokenize("x = 1\r\ny = 2\r\n")
	require.NoError(t, err)

	nl := findKind(t, toks, types.Newline)
	assert.Equal(t, "\r\n", nl.Text)
}

func TestTokenize_TabIndentation(t *testing.T) {
	toks, err := Tokenize("if x:\n\tpass\n")
	require.NoError(t, err)

	indent := findKind(t, toks, types.Indent)
	assert.Equal(t, "\t", indent.Text)
}

func TestTokenize_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
		line    int
	}{
		{
			name:    "unterminated triple quote",
			src:     "x = 1\n\"\"\"never closed\n",
			wantMsg: "unterminated triple-quoted string literal",
			line:    2,
		},
		{
			name:    "unterminated single quote",
			src:     "x = 'abc\n",
			wantMsg: "unterminated string literal",
			line:    1,
		},
		{
			name:    "inconsistent dedent",
			src:     "if x:\n    a\n  b\n",
			wantMsg: "unindent does not match any outer indentation level",
			line:    3,
		},
		{
			name:    "unmatched closing bracket",
			src:     "x = 1)\n",
			wantMsg: "unmatched ')'",
			line:    1,
		},
		{
			name:    "mismatched bracket kinds",
			src:     "x = [1)\n",
			wantMsg: "unmatched ')'",
			line:    1,
		},
		{
			name:    "unclosed bracket at end of input",
			src:     "x = (1,\n",
			wantMsg: "EOF in multi-line statement",
			line:    2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTokenize))

			var terr *Error
			require.True(t, errors.As(err, &terr))
			assert.Equal(t, tt.wantMsg, terr.Msg)
			assert.Equal(t, tt.line, terr.Line)
		})
	}
}

func TestTokenize_NoDocstringInsideOtherLiteral(t *testing.T) {
	toks, err := Tokenize("x = 'contains \"\"\" quotes'\n")
	require.NoError(t, err)

	var strs []types.Token
	for _, tok := range toks {
		if tok.Kind == types.String {
			strs = append(strs, tok)
		}
	}
	require.Len(t, strs, 1)
	assert.True(t, strings.HasPrefix(strs[0].Text, "'"))
}

// --- Test helpers ---

func kindsOf(toks []types.Token) []types.TokenKind {
	kinds := make([]types.TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	return kinds
}

func join(toks []types.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Leading)
		b.WriteString(tok.Text)
	}
	return b.String()
}

func findKind(t *testing.T, toks []types.Token, kind types.TokenKind) types.Token {
	t.Helper()
	for _, tok := range toks {
		if tok.Kind == kind {
			return tok
		}
	}
	t.Fatalf("no %s token", kind)
	return types.Token{}
}

func findText(t *testing.T, toks []types.Token, text string) types.Token {
	t.Helper()
	for _, tok := range toks {
		if tok.Text == text {
			return tok
		}
	}
	t.Fatalf("no token with text %q", text)
	return types.Token{}
}
