// Package parser provides Python code parsing capabilities using tree-sitter.
//
// It wraps the tree-sitter Go bindings and adds the small set of queries the
// smell detectors need: function and class discovery, definition spans that
// follow the "last statement line" rule, and source snippets.
//
// Basic usage:
//
//	p := parser.New()
//	result, err := p.Parse(ctx, []byte("def hello(): pass"))
//	if err != nil {
//	    // errors.Is(err, parser.ErrSyntax) for invalid source
//	}
//	for _, fn := range parser.Functions(result.RootNode) {
//	    start, end := parser.StatementSpan(fn)
//	    _ = end - start + 1
//	}
package parser
