// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pysyntax parses Python source with tree-sitter. It counts syntax
// errors, so a rewrite can be checked for regressions, and lists the
// docstrings of modules, functions and classes.
package pysyntax

import (
	"context"
	"errors"
	"fmt"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/petar-djukic/docformatter/pkg/types"
)

// ErrSyntaxRegression is returned when a rewritten file has more syntax
// errors than its input.
var ErrSyntaxRegression = errors.New("rewrite introduced syntax errors")

// defQ captures functions and classes with their bodies.
const defQ = `
	(function_definition name: (identifier) @name body: (block) @body)
	(class_definition name: (identifier) @name body: (block) @body)
`

// Report summarizes the syntax errors tree-sitter recovered from.
type Report struct {
	Errors    int // ERROR and MISSING nodes
	FirstLine int // Line of the first one, 1-based; 0 when Errors is 0
}

// OK reports whether the source parsed cleanly.
func (r Report) OK() bool { return r.Errors == 0 }

// Docstring is one docstring found in the syntax tree.
type Docstring struct {
	Line    int
	Context types.DocContext
	Owner   string
	Text    string
}

// Check parses src and counts its syntax errors.
func Check(ctx context.Context, src []byte) (Report, error) {
	root, err := sitter.ParseCtx(ctx, src, python.GetLanguage())
	if err != nil {
		return Report{}, fmt.Errorf("parsing: %w", err)
	}

	var r Report
	var visit func(n *sitter.Node) error
	visit = func(n *sitter.Node) error {
		if n.IsError() || n.IsMissing() {
			line, err := lineOf(n)
			if err != nil {
				return err
			}
			if r.Errors == 0 {
				r.FirstLine = line
			}
			r.Errors++
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if err := visit(n.Child(i)); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(root); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Regression returns ErrSyntaxRegression when after has more syntax errors
// than before. A clean after is accepted without parsing before.
func Regression(ctx context.Context, before, after []byte) error {
	ra, err := Check(ctx, after)
	if err != nil || ra.OK() {
		return err
	}
	rb, err := Check(ctx, before)
	if err != nil {
		return err
	}
	if ra.Errors > rb.Errors {
		return fmt.Errorf("%w: %d errors, first on line %d", ErrSyntaxRegression, ra.Errors, ra.FirstLine)
	}
	return nil
}

// Outline lists the docstrings of the module and of every function and
// class, in source order.
func Outline(ctx context.Context, src []byte) ([]Docstring, error) {
	lang := python.GetLanguage()
	root, err := sitter.ParseCtx(ctx, src, lang)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}

	var out []Docstring
	if doc := firstString(root); doc != nil {
		d, err := docstringOf(doc, types.Module, "", src)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}

	q, err := sitter.NewQuery([]byte(defQ), lang)
	if err != nil {
		return nil, fmt.Errorf("compiling query: %w", err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, root)

	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var name, body *sitter.Node
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "name":
				name = c.Node
			case "body":
				body = c.Node
			}
		}
		if name == nil || body == nil {
			continue
		}
		doc := firstString(body)
		if doc == nil {
			continue
		}
		dc := types.Function
		if body.Parent() != nil && body.Parent().Type() == "class_definition" {
			dc = types.Class
		}
		d, err := docstringOf(doc, dc, name.Content(src), src)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// firstString returns the string node when the first statement of block is
// a lone string expression.
func firstString(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		stmt := block.NamedChild(i)
		if stmt.Type() == "comment" {
			continue
		}
		if stmt.Type() != "expression_statement" || stmt.NamedChildCount() != 1 {
			return nil
		}
		if s := stmt.NamedChild(0); s.Type() == "string" {
			return s
		}
		return nil
	}
	return nil
}

func docstringOf(n *sitter.Node, dc types.DocContext, owner string, src []byte) (Docstring, error) {
	line, err := lineOf(n)
	if err != nil {
		return Docstring{}, err
	}
	return Docstring{Line: line, Context: dc, Owner: owner, Text: n.Content(src)}, nil
}

func lineOf(n *sitter.Node) (int, error) {
	row, err := safecast.Conv[int](n.StartPoint().Row)
	if err != nil {
		return 0, fmt.Errorf("node position: %w", err)
	}
	return row + 1, nil
}
