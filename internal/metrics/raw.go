package metrics

import (
	"strings"

	"github.com/ludo-technologies/pysmell/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// RawMetrics holds line-based counts for a module.
type RawMetrics struct {
	LOC            int // physical lines
	LLOC           int // logical lines (statements and clause headers)
	SLOC           int // lines carrying code
	Comments       int // lines carrying a comment, inline ones included
	Multi          int // lines of multi-line docstrings
	Blank          int // whitespace-only lines outside strings
	SingleComments int // lines holding nothing but a comment or a one-line docstring
}

// statement and clause node types counted as logical lines
var logicalLineTypes = map[string]bool{
	"expression_statement":    true,
	"return_statement":        true,
	"pass_statement":          true,
	"break_statement":         true,
	"continue_statement":      true,
	"import_statement":        true,
	"import_from_statement":   true,
	"future_import_statement": true,
	"raise_statement":         true,
	"assert_statement":        true,
	"global_statement":        true,
	"nonlocal_statement":      true,
	"delete_statement":        true,
	"print_statement":         true,
	"exec_statement":          true,
	"type_alias_statement":    true,
	"if_statement":            true,
	"elif_clause":             true,
	"else_clause":             true,
	"for_statement":           true,
	"while_statement":         true,
	"try_statement":           true,
	"except_clause":           true,
	"except_group_clause":     true,
	"finally_clause":          true,
	"with_statement":          true,
	"match_statement":         true,
	"case_clause":             true,
	"function_definition":     true,
	"class_definition":        true,
}

// ComputeRaw counts raw line metrics of a parsed module.
func ComputeRaw(result *parser.ParseResult) RawMetrics {
	lines := physicalLines(result.SourceCode)
	m := RawMetrics{LOC: len(lines)}

	commentLines := make(map[int]bool)
	singleLines := make(map[int]bool)
	multiLines := make(map[int]bool)
	stringInterior := make(map[int]bool)

	_ = parser.WalkTree(result.RootNode, func(n *sitter.Node) error {
		switch {
		case n.Type() == parser.NodeComment:
			line := parser.Line(n)
			commentLines[line] = true
			if onlyWhitespaceBefore(lines, line, int(n.StartPoint().Column)) {
				singleLines[line] = true
			}
		case parser.IsDocstring(n):
			start, end := parser.Line(n), parser.EndLine(n)
			if end > start {
				for l := start; l <= end; l++ {
					multiLines[l] = true
				}
			} else if onlyWhitespaceBefore(lines, start, int(n.StartPoint().Column)) {
				singleLines[start] = true
			}
		case n.Type() == parser.NodeString:
			for l := parser.Line(n) + 1; l <= parser.EndLine(n); l++ {
				stringInterior[l] = true
			}
		case logicalLineTypes[n.Type()]:
			m.LLOC++
		}
		return nil
	})

	for i, text := range lines {
		line := i + 1
		if strings.TrimSpace(text) == "" && !multiLines[line] && !stringInterior[line] {
			m.Blank++
		}
	}
	for line := range singleLines {
		if !multiLines[line] {
			m.SingleComments++
		}
	}
	m.Comments = len(commentLines)
	m.Multi = len(multiLines)
	m.SLOC = clampZero(m.LOC - m.Blank - m.Multi - m.SingleComments)
	return m
}

// physicalLines splits source into lines; a trailing newline does not start a new line.
func physicalLines(source []byte) []string {
	if len(source) == 0 {
		return nil
	}
	lines := parser.SourceLines(source)
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func onlyWhitespaceBefore(lines []string, line, column int) bool {
	if line < 1 || line > len(lines) {
		return false
	}
	text := lines[line-1]
	if column > len(text) {
		column = len(text)
	}
	return strings.TrimSpace(text[:column]) == ""
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
