package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Node types of the tree-sitter Python grammar used across the analyzers.
const (
	NodeModule              = "module"
	NodeFunctionDefinition  = "function_definition"
	NodeClassDefinition     = "class_definition"
	NodeDecoratedDefinition = "decorated_definition"
	NodeComment             = "comment"
	NodeString              = "string"
	NodeConcatenatedString  = "concatenated_string"
	NodeExpressionStatement = "expression_statement"
	NodeBlock               = "block"

	// Python 2 statements the grammar still accepts.
	NodePrintStatement = "print_statement"
	NodeExecStatement  = "exec_statement"

	keywordAsync = "async"
)

// Line returns the 1-based line a node starts on.
func Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// EndLine returns the 1-based line a node ends on.
func EndLine(n *sitter.Node) int {
	return int(n.EndPoint().Row) + 1
}

// Text returns the source text covered by a node.
func Text(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	return n.Content(source)
}

// Name returns the text of a definition's name field, or "".
func Name(n *sitter.Node, source []byte) string {
	return Text(n.ChildByFieldName("name"), source)
}

// StatementSpan returns the first and last line a definition occupies, measured
// as the latest start line of any named descendant. Comments do not extend a span
// and strings count by their opening line only.
func StatementSpan(n *sitter.Node) (start, end int) {
	start = Line(n)
	end = start
	var visit func(*sitter.Node)
	visit = func(node *sitter.Node) {
		count := int(node.NamedChildCount())
		for i := 0; i < count; i++ {
			child := node.NamedChild(i)
			if child.Type() == NodeComment {
				continue
			}
			if l := Line(child); l > end {
				end = l
			}
			if child.Type() == NodeString {
				continue
			}
			visit(child)
		}
	}
	visit(n)
	return start, end
}

// Functions returns every synchronous function definition in the tree,
// nested ones included, in document order. async def is left out.
func Functions(root *sitter.Node) []*sitter.Node {
	var fns []*sitter.Node
	for _, fn := range FindNodes(root, NodeFunctionDefinition) {
		if !IsAsync(fn) {
			fns = append(fns, fn)
		}
	}
	return fns
}

// IsAsync reports whether a function definition starts with the async keyword.
func IsAsync(fn *sitter.Node) bool {
	if fn.ChildCount() == 0 {
		return false
	}
	return fn.Child(0).Type() == keywordAsync
}

// Classes returns every class definition in the tree, nested ones included, in document order.
func Classes(root *sitter.Node) []*sitter.Node {
	return FindNodes(root, NodeClassDefinition)
}

// DirectMethods returns the synchronous functions defined directly in a class
// body, unwrapping decorators.
func DirectMethods(class *sitter.Node) []*sitter.Node {
	body := class.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	var methods []*sitter.Node
	count := int(body.NamedChildCount())
	for i := 0; i < count; i++ {
		child := body.NamedChild(i)
		if child.Type() == NodeDecoratedDefinition {
			child = child.ChildByFieldName("definition")
		}
		if child != nil && child.Type() == NodeFunctionDefinition && !IsAsync(child) {
			methods = append(methods, child)
		}
	}
	return methods
}

// IsDocstring reports whether a statement is a bare string expression.
func IsDocstring(stmt *sitter.Node) bool {
	if stmt.Type() != NodeExpressionStatement || stmt.NamedChildCount() != 1 {
		return false
	}
	switch stmt.NamedChild(0).Type() {
	case NodeString, NodeConcatenatedString:
		return true
	}
	return false
}

// SourceLines splits source into lines without their terminators.
func SourceLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Snippet joins lines start..end (1-based, inclusive), clamped to the available lines.
func Snippet(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}
