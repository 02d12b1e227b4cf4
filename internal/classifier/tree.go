package classifier

import (
	"fmt"

	"github.com/ludo-technologies/pysmell/domain"
	"gonum.org/v1/gonum/floats"
)

const leafNode = -1

// TreeArrays is a fitted decision tree in parallel-array form. Node 0 is the
// root; a node is a leaf when its left child is -1. Samples with
// x[feature] <= threshold go left.
type TreeArrays struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

func (t *TreeArrays) validate(nFeatures, nClasses int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays differ in length")
	}
	for i := 0; i < n; i++ {
		left, right := t.ChildrenLeft[i], t.ChildrenRight[i]
		if left == leafNode {
			if len(t.Value[i]) != nClasses {
				return fmt.Errorf("leaf %d has %d class counts, expected %d", i, len(t.Value[i]), nClasses)
			}
			continue
		}
		if left <= i || left >= n || right <= i || right >= n {
			return fmt.Errorf("node %d has out-of-range children", i)
		}
		if f := t.Feature[i]; f < 0 || f >= nFeatures {
			return fmt.Errorf("node %d splits on feature %d of %d", i, f, nFeatures)
		}
	}
	return nil
}

// proba returns the normalized class distribution of the leaf x falls into.
func (t *TreeArrays) proba(x []float64) []float64 {
	node := 0
	for t.ChildrenLeft[node] != leafNode {
		if x[t.Feature[node]] <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	dist := append([]float64(nil), t.Value[node]...)
	if sum := floats.Sum(dist); sum > 0 {
		floats.Scale(1/sum, dist)
	}
	return dist
}

// DecisionTree is a single CART classifier.
type DecisionTree struct {
	header
	Tree TreeArrays `json:"tree"`
}

func (m *DecisionTree) Kind() domain.ModelKind { return domain.ModelDecisionTree }

func (m *DecisionTree) NumFeatures() int { return m.NFeatures }

func (m *DecisionTree) validate() error {
	if err := m.header.validate(); err != nil {
		return err
	}
	return m.Tree.validate(m.NFeatures, len(m.Classes))
}

// Predict returns the majority class of the leaf x reaches.
func (m *DecisionTree) Predict(x []float64) (int, error) {
	if err := m.checkInput(x); err != nil {
		return 0, err
	}
	return m.classOf(m.Tree.proba(x)), nil
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	header
	Estimators []TreeArrays `json:"estimators"`
}

func (m *RandomForest) Kind() domain.ModelKind { return domain.ModelRandomForest }

func (m *RandomForest) NumFeatures() int { return m.NFeatures }

func (m *RandomForest) validate() error {
	if err := m.header.validate(); err != nil {
		return err
	}
	if len(m.Estimators) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i := range m.Estimators {
		if err := m.Estimators[i].validate(m.NFeatures, len(m.Classes)); err != nil {
			return fmt.Errorf("tree %d: %w", i, err)
		}
	}
	return nil
}

// Predict returns the class with the highest mean probability.
func (m *RandomForest) Predict(x []float64) (int, error) {
	if err := m.checkInput(x); err != nil {
		return 0, err
	}
	total := make([]float64, len(m.Classes))
	for i := range m.Estimators {
		floats.Add(total, m.Estimators[i].proba(x))
	}
	floats.Scale(1/float64(len(m.Estimators)), total)
	return m.classOf(total), nil
}
