// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package encoding detects the source encoding of Python files (PEP 263)
// and converts file contents to and from UTF-8.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

const (
	UTF8    = "utf-8"
	UTF8Sig = "utf-8-sig"
	Latin1  = "latin-1"
)

// ErrUnknownEncoding is returned for codec names that cannot be resolved.
var ErrUnknownEncoding = errors.New("unknown encoding")

var bom = []byte{0xEF, 0xBB, 0xBF}

// codingRE matches a PEP 263 declaration such as "# -*- coding: latin-1 -*-".
var codingRE = regexp.MustCompile(`^[ \t\f]*#.*?coding[:=][ \t]*([-\w.]+)`)

// aliases maps common Python codec spellings to encodings.
var aliases = map[string]xenc.Encoding{
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
	"utf_8":      unicode.UTF8,
	"utf-8-sig":  unicode.UTF8BOM,
	"utf_8_sig":  unicode.UTF8BOM,
	"latin-1":    charmap.ISO8859_1,
	"latin_1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"iso8859-1":  charmap.ISO8859_1,
	"l1":         charmap.ISO8859_1,
}

// Detect returns the codec name of a Python source file: "utf-8-sig" when
// it starts with a UTF-8 byte order mark, the codec declared in a coding
// comment on one of the first two lines, or "utf-8". A declared codec that
// is unknown, or content that does not decode, falls back to "latin-1".
func Detect(data []byte) string {
	if bytes.HasPrefix(data, bom) {
		return UTF8Sig
	}

	name := UTF8
	for i, line := range firstLines(data, 2) {
		if m := codingRE.FindSubmatch(line); m != nil {
			name = strings.ToLower(string(m[1]))
			break
		}
		// The declaration may only follow a comment or blank line.
		if i == 0 && !isCommentOrBlank(line) {
			break
		}
	}

	if _, err := lookup(name); err != nil {
		return Latin1
	}
	if _, err := Decode(data, name); err != nil {
		return Latin1
	}
	return name
}

// Decode converts data in the named encoding to a UTF-8 string. For
// "utf-8-sig" the byte order mark is removed.
func Decode(data []byte, name string) (string, error) {
	enc, err := lookup(name)
	if err != nil {
		return "", err
	}
	switch enc {
	case unicode.UTF8:
		if !utf8.Valid(data) {
			return "", fmt.Errorf("decoding %s: invalid byte sequence", name)
		}
		return string(data), nil
	case unicode.UTF8BOM:
		data = bytes.TrimPrefix(data, bom)
		if !utf8.Valid(data) {
			return "", fmt.Errorf("decoding %s: invalid byte sequence", name)
		}
		return string(data), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", name, err)
	}
	return string(out), nil
}

// Encode converts text to the named encoding.
func Encode(text, name string) ([]byte, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	switch enc {
	case unicode.UTF8:
		return []byte(text), nil
	case unicode.UTF8BOM:
		return append(append([]byte{}, bom...), text...), nil
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", name, err)
	}
	return out, nil
}

func lookup(name string) (xenc.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := aliases[key]; ok {
		return enc, nil
	}
	if enc, err := htmlindex.Get(key); err == nil {
		return enc, nil
	}
	if enc, err := ianaindex.IANA.Encoding(key); err == nil && enc != nil {
		return enc, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, name)
}

func firstLines(data []byte, n int) [][]byte {
	var out [][]byte
	for len(out) < n && len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			out = append(out, data)
			break
		}
		out = append(out, data[:i])
		data = data[i+1:]
	}
	return out
}

func isCommentOrBlank(line []byte) bool {
	t := bytes.TrimSpace(line)
	return len(t) == 0 || t[0] == '#'
}
