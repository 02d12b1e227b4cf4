package classifier

import (
	"fmt"
	"sort"

	"github.com/ludo-technologies/pysmell/domain"
	"gonum.org/v1/gonum/floats"
)

// KNN weighting schemes.
const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
)

// KNN is a k-nearest-neighbours classifier over Euclidean distance.
type KNN struct {
	header
	NNeighbors int         `json:"n_neighbors"`
	Weights    string      `json:"weights"`
	FitX       [][]float64 `json:"fit_x"`
	// FitY holds indices into Classes.
	FitY []int `json:"fit_y"`
}

func (m *KNN) Kind() domain.ModelKind { return domain.ModelKNN }

func (m *KNN) NumFeatures() int { return m.NFeatures }

func (m *KNN) validate() error {
	if err := m.header.validate(); err != nil {
		return err
	}
	if len(m.FitX) == 0 || len(m.FitX) != len(m.FitY) {
		return fmt.Errorf("knn has %d samples and %d labels", len(m.FitX), len(m.FitY))
	}
	if m.NNeighbors <= 0 {
		return fmt.Errorf("n_neighbors must be positive")
	}
	switch m.Weights {
	case "", WeightsUniform, WeightsDistance:
	default:
		return fmt.Errorf("unsupported weights %q", m.Weights)
	}
	for i, row := range m.FitX {
		if len(row) != m.NFeatures {
			return fmt.Errorf("sample %d has %d features, expected %d", i, len(row), m.NFeatures)
		}
		if y := m.FitY[i]; y < 0 || y >= len(m.Classes) {
			return fmt.Errorf("sample %d has class index %d of %d", i, y, len(m.Classes))
		}
	}
	return nil
}

type neighbor struct {
	index    int
	distance float64
}

// Predict votes among the k nearest samples. Equal distances keep sample
// order; tied votes go to the lowest class index.
func (m *KNN) Predict(x []float64) (int, error) {
	if err := m.checkInput(x); err != nil {
		return 0, err
	}

	neighbors := make([]neighbor, len(m.FitX))
	for i, row := range m.FitX {
		neighbors[i] = neighbor{index: i, distance: floats.Distance(x, row, 2)}
	}
	sort.SliceStable(neighbors, func(a, b int) bool {
		return neighbors[a].distance < neighbors[b].distance
	})
	k := m.NNeighbors
	if k > len(neighbors) {
		k = len(neighbors)
	}
	nearest := neighbors[:k]

	votes := make([]float64, len(m.Classes))
	if m.Weights == WeightsDistance {
		exact := false
		for _, n := range nearest {
			if n.distance == 0 {
				exact = true
				votes[m.FitY[n.index]]++
			}
		}
		if !exact {
			for _, n := range nearest {
				votes[m.FitY[n.index]] += 1 / n.distance
			}
		}
	} else {
		for _, n := range nearest {
			votes[m.FitY[n.index]]++
		}
	}
	return m.classOf(votes), nil
}
