package parser

import (
	"context"
	"errors"
	"fmt"
	"io"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// ErrSyntax matches any SyntaxError via errors.Is.
var ErrSyntax = errors.New("syntax errors found in source code")

// SyntaxError locates the first error or missing node of a failed parse.
type SyntaxError struct {
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Line, e.Column)
}

// Is reports ErrSyntax equivalence.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Parser provides Python code parsing capabilities using tree-sitter.
// A Parser is not safe for concurrent use; create one per goroutine.
type Parser struct {
	parser *sitter.Parser
}

// New creates a new Parser instance with Python grammar
func New() *Parser {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	return &Parser{
		parser: parser,
	}
}

// ParseResult represents the result of parsing Python code
type ParseResult struct {
	Tree       *sitter.Tree
	RootNode   *sitter.Node
	SourceCode []byte
}

// Parse parses Python source code and returns the syntax tree.
// Source with syntax errors yields a *SyntaxError.
func (p *Parser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, firstSyntaxError(rootNode)
	}
	if legacy := firstLegacyStatement(rootNode); legacy != nil {
		return nil, syntaxErrorAt(legacy)
	}

	return &ParseResult{
		Tree:       tree,
		RootNode:   rootNode,
		SourceCode: source,
	}, nil
}

// ParseFile parses a Python file from a reader
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (*ParseResult, error) {
	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}

	return p.Parse(ctx, source)
}

func firstSyntaxError(root *sitter.Node) *SyntaxError {
	var found *sitter.Node
	_ = WalkTree(root, func(n *sitter.Node) error {
		if n.IsError() || n.IsMissing() {
			found = n
			return errStopWalk
		}
		return nil
	})
	if found == nil {
		found = root
	}
	return syntaxErrorAt(found)
}

// firstLegacyStatement finds a Python 2 print or exec statement. The grammar
// parses them without error, but Python 3 rejects them.
func firstLegacyStatement(root *sitter.Node) *sitter.Node {
	if nodes := FindNodes(root, NodePrintStatement, NodeExecStatement); len(nodes) > 0 {
		return nodes[0]
	}
	return nil
}

func syntaxErrorAt(n *sitter.Node) *SyntaxError {
	pt := n.StartPoint()
	return &SyntaxError{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

var errStopWalk = errors.New("stop walk")

// WalkTree traverses the tree depth-first and calls the visitor function for each node.
// A visitor error stops the walk and is returned.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) error) error {
	if err := visitor(node); err != nil {
		return err
	}

	childCount := int(node.ChildCount())
	for i := 0; i < childCount; i++ {
		child := node.Child(i)
		if err := WalkTree(child, visitor); err != nil {
			return err
		}
	}

	return nil
}

// FindNodes finds all nodes of the given types in the tree, in document order.
func FindNodes(node *sitter.Node, nodeTypes ...string) []*sitter.Node {
	want := make(map[string]bool, len(nodeTypes))
	for _, t := range nodeTypes {
		want[t] = true
	}

	var nodes []*sitter.Node
	_ = WalkTree(node, func(n *sitter.Node) error {
		if want[n.Type()] {
			nodes = append(nodes, n)
		}
		return nil
	})

	return nodes
}
