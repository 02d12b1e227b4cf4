package metrics

import (
	"github.com/ludo-technologies/pysmell/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// decisionNodeTypes add one path each.
var decisionNodeTypes = map[string]bool{
	"if_statement":           true,
	"elif_clause":            true,
	"for_statement":          true,
	"while_statement":        true,
	"except_clause":          true,
	"except_group_clause":    true,
	"conditional_expression": true,
	"boolean_operator":       true,
	"for_in_clause":          true,
	"if_clause":              true,
	"assert_statement":       true,
	"case_clause":            true,
}

// CountDecisionPoints counts branching constructs under node. Each link of a
// boolean chain counts once, and an else clause attached to a loop or try counts
// as an extra path.
func CountDecisionPoints(node *sitter.Node) int {
	count := 0
	_ = parser.WalkTree(node, func(n *sitter.Node) error {
		t := n.Type()
		if decisionNodeTypes[t] {
			count++
			return nil
		}
		if t == "else_clause" {
			if p := n.Parent(); p != nil {
				switch p.Type() {
				case "for_statement", "while_statement", "try_statement":
					count++
				}
			}
		}
		return nil
	})
	return count
}

// TotalComplexity approximates the module's total cyclomatic complexity:
// one for the module, one per function (async included), plus every decision point.
func TotalComplexity(root *sitter.Node) int {
	return 1 + len(parser.FindNodes(root, parser.NodeFunctionDefinition)) + CountDecisionPoints(root)
}
