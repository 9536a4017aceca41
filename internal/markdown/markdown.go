// Package markdown implements the table-parsing helpers the evaluator calls for:
// parsing pipe-table replies an LLM returns into {headers, rows}. It walks
// a goldmark AST with the GFM table extension rather than hand-splitting
// "|"-delimited lines — goldmark is already part of the dependency graph
// (pulled in transitively elsewhere in the pack for Markdown rendering)
// and is the idiomatic way to walk Markdown structure in Go.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"issuelens/internal/logging"
)

// Table is one parsed Markdown table: its header cells and each data row's
// cells, in document order.
type Table struct {
	Headers []string
	Rows    [][]string
}

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// ParseTables walks raw Markdown and returns every pipe-table it finds, in
// document order. A reply with no table returns an empty (nil) slice and
// no error — the caller (evaluator) treats that as a parse-error note, not a
// fatal condition.
func ParseTables(raw string) []Table {
	src := []byte(raw)
	doc := md.Parser().Parse(text.NewReader(src))

	var tables []Table
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		tbl, ok := n.(*east.Table)
		if !ok {
			return ast.WalkContinue, nil
		}
		tables = append(tables, extractTable(tbl, src))
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		logging.Evaluator("ParseTables: walk error: %v", err)
	}
	return tables
}

func extractTable(tbl *east.Table, src []byte) Table {
	var out Table
	for child := tbl.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			out.Headers = rowCells(row, src)
		case *east.TableRow:
			out.Rows = append(out.Rows, rowCells(row, src))
		}
	}
	return out
}

func rowCells(row ast.Node, src []byte) []string {
	cells := make([]string, 0)
	for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
		tc, ok := cell.(*east.TableCell)
		if !ok {
			continue
		}
		cells = append(cells, cellText(tc, src))
	}
	return cells
}

func cellText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		}
	}
	return strings.TrimSpace(buf.String())
}
