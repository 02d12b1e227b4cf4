package metrics

import (
	"math"

	"github.com/ludo-technologies/pysmell/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// HalsteadMetrics represents Halstead software science metrics.
type HalsteadMetrics struct {
	DistinctOperators int     // h1
	DistinctOperands  int     // h2
	TotalOperators    int     // N1
	TotalOperands     int     // N2
	Vocabulary        int     // h = h1 + h2
	Length            int     // N = N1 + N2
	Volume            float64 // V = N * log2(h)
	Difficulty        float64 // D = (h1/2) * (N2/h2)
	Effort            float64 // E = D * V
}

// NewHalsteadMetrics derives the Halstead measures from base counts.
func NewHalsteadMetrics(h1, h2, n1, n2 int) HalsteadMetrics {
	h := HalsteadMetrics{
		DistinctOperators: h1,
		DistinctOperands:  h2,
		TotalOperators:    n1,
		TotalOperands:     n2,
		Vocabulary:        h1 + h2,
		Length:            n1 + n2,
	}
	if h.Vocabulary > 0 {
		h.Volume = float64(h.Length) * math.Log2(float64(h.Vocabulary))
	}
	if h2 > 0 {
		h.Difficulty = (float64(h1) / 2.0) * (float64(n2) / float64(h2))
	}
	h.Effort = h.Difficulty * h.Volume
	return h
}

// HalsteadAnalyzer counts operators and operands of expression nodes.
// Operators come from arithmetic, boolean, comparison and augmented-assignment
// nodes; their operands are the operand expressions' source text.
type HalsteadAnalyzer struct {
	operators map[string]int
	operands  map[string]int
}

// NewHalsteadAnalyzer creates a new Halstead analyzer.
func NewHalsteadAnalyzer() *HalsteadAnalyzer {
	return &HalsteadAnalyzer{
		operators: make(map[string]int),
		operands:  make(map[string]int),
	}
}

// Reset clears the analyzer state for a new analysis.
func (h *HalsteadAnalyzer) Reset() {
	h.operators = make(map[string]int)
	h.operands = make(map[string]int)
}

// Analyze computes Halstead metrics for the whole tree under node.
func (h *HalsteadAnalyzer) Analyze(node *sitter.Node, source []byte) HalsteadMetrics {
	h.Reset()
	_ = parser.WalkTree(node, func(n *sitter.Node) error {
		h.visit(n, source)
		return nil
	})

	var n1, n2 int
	for _, c := range h.operators {
		n1 += c
	}
	for _, c := range h.operands {
		n2 += c
	}
	return NewHalsteadMetrics(len(h.operators), len(h.operands), n1, n2)
}

func (h *HalsteadAnalyzer) visit(n *sitter.Node, source []byte) {
	switch n.Type() {
	case "binary_operator", "augmented_assignment":
		h.operator(n.ChildByFieldName("operator"), source)
		h.operand(n.ChildByFieldName("left"), source)
		h.operand(n.ChildByFieldName("right"), source)
	case "unary_operator":
		h.operator(n.ChildByFieldName("operator"), source)
		h.operand(n.ChildByFieldName("argument"), source)
	case "not_operator":
		h.operators["not"]++
		h.operand(n.ChildByFieldName("argument"), source)
	case "boolean_operator":
		op := parser.Text(n.ChildByFieldName("operator"), source)
		if continuesChain(n, op, source) {
			return
		}
		h.operators[op]++
		for _, value := range boolChain(n, op, source) {
			h.operand(value, source)
		}
	case "comparison_operator":
		h.comparison(n, source)
	}
}

// comparison counts each comparison operator and every compared expression.
// Two-token operators ("not in", "is not") count once.
func (h *HalsteadAnalyzer) comparison(n *sitter.Node, source []byte) {
	pending := ""
	flush := func() {
		if pending != "" {
			h.operators[pending]++
			pending = ""
		}
	}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child.IsNamed() {
			flush()
			h.operand(child, source)
			continue
		}
		tok := parser.Text(child, source)
		switch {
		case pending == "not" && tok == "in", pending == "is" && tok == "not":
			pending += " " + tok
		default:
			flush()
			pending = tok
		}
	}
	flush()
}

func (h *HalsteadAnalyzer) operator(n *sitter.Node, source []byte) {
	if n == nil {
		return
	}
	h.operators[parser.Text(n, source)]++
}

func (h *HalsteadAnalyzer) operand(n *sitter.Node, source []byte) {
	if n == nil {
		return
	}
	h.operands[parser.Text(n, source)]++
}

// continuesChain reports whether n is an unparenthesized link of a longer
// chain of the same boolean operator, already counted by its parent.
func continuesChain(n *sitter.Node, op string, source []byte) bool {
	parent := n.Parent()
	return parent != nil &&
		parent.Type() == "boolean_operator" &&
		parser.Text(parent.ChildByFieldName("operator"), source) == op
}

// boolChain flattens "a and b and c" into its values.
func boolChain(n *sitter.Node, op string, source []byte) []*sitter.Node {
	var values []*sitter.Node
	for _, field := range []string{"left", "right"} {
		child := n.ChildByFieldName(field)
		if child == nil {
			continue
		}
		if child.Type() == "boolean_operator" && parser.Text(child.ChildByFieldName("operator"), source) == op {
			values = append(values, boolChain(child, op, source)...)
			continue
		}
		values = append(values, child)
	}
	return values
}
