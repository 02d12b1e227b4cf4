package classifier

import (
	"fmt"
	"math"

	"github.com/ludo-technologies/pysmell/domain"
	"gonum.org/v1/gonum/floats"
)

// SVC kernels.
const (
	KernelLinear  = "linear"
	KernelRBF     = "rbf"
	KernelPoly    = "poly"
	KernelSigmoid = "sigmoid"
)

// SVC is a multi-class support vector classifier using one-vs-one voting.
// Support vectors are grouped by class, NSupport[i] vectors for class i.
// DualCoef has len(Classes)-1 rows; Intercept holds one value per class pair
// (0,1), (0,2), ..., (1,2), ... and is added to the decision value.
type SVC struct {
	header
	Kernel         string      `json:"kernel"`
	Gamma          float64     `json:"gamma"`
	Coef0          float64     `json:"coef0"`
	Degree         float64     `json:"degree"`
	SupportVectors [][]float64 `json:"support_vectors"`
	NSupport       []int       `json:"n_support"`
	DualCoef       [][]float64 `json:"dual_coef"`
	Intercept      []float64   `json:"intercept"`
}

func (m *SVC) Kind() domain.ModelKind { return domain.ModelSVM }

func (m *SVC) NumFeatures() int { return m.NFeatures }

func (m *SVC) validate() error {
	if err := m.header.validate(); err != nil {
		return err
	}
	nc := len(m.Classes)
	if nc < 2 {
		return fmt.Errorf("svc needs at least two classes")
	}
	switch m.Kernel {
	case KernelLinear, KernelRBF, KernelPoly, KernelSigmoid:
	default:
		return fmt.Errorf("unsupported kernel %q", m.Kernel)
	}
	if len(m.NSupport) != nc {
		return fmt.Errorf("n_support has %d entries, expected %d", len(m.NSupport), nc)
	}
	total := 0
	for _, n := range m.NSupport {
		if n < 0 {
			return fmt.Errorf("negative support count")
		}
		total += n
	}
	if total != len(m.SupportVectors) {
		return fmt.Errorf("n_support sums to %d but there are %d support vectors", total, len(m.SupportVectors))
	}
	for i, sv := range m.SupportVectors {
		if len(sv) != m.NFeatures {
			return fmt.Errorf("support vector %d has %d features, expected %d", i, len(sv), m.NFeatures)
		}
	}
	if len(m.DualCoef) != nc-1 {
		return fmt.Errorf("dual_coef has %d rows, expected %d", len(m.DualCoef), nc-1)
	}
	for i, row := range m.DualCoef {
		if len(row) != total {
			return fmt.Errorf("dual_coef row %d has %d entries, expected %d", i, len(row), total)
		}
	}
	if len(m.Intercept) != nc*(nc-1)/2 {
		return fmt.Errorf("intercept has %d entries, expected %d", len(m.Intercept), nc*(nc-1)/2)
	}
	return nil
}

func (m *SVC) kernel(a, b []float64) float64 {
	switch m.Kernel {
	case KernelLinear:
		return floats.Dot(a, b)
	case KernelPoly:
		return math.Pow(m.Gamma*floats.Dot(a, b)+m.Coef0, m.Degree)
	case KernelSigmoid:
		return math.Tanh(m.Gamma*floats.Dot(a, b) + m.Coef0)
	default:
		d := floats.Distance(a, b, 2)
		return math.Exp(-m.Gamma * d * d)
	}
}

// Predict runs every pairwise classifier and returns the class with the most
// votes, the lowest index on ties.
func (m *SVC) Predict(x []float64) (int, error) {
	if err := m.checkInput(x); err != nil {
		return 0, err
	}

	k := make([]float64, len(m.SupportVectors))
	for i, sv := range m.SupportVectors {
		k[i] = m.kernel(x, sv)
	}

	nc := len(m.Classes)
	start := make([]int, nc)
	for i := 1; i < nc; i++ {
		start[i] = start[i-1] + m.NSupport[i-1]
	}

	votes := make([]float64, nc)
	p := 0
	for i := 0; i < nc; i++ {
		for j := i + 1; j < nc; j++ {
			sum := m.Intercept[p]
			for s := start[i]; s < start[i]+m.NSupport[i]; s++ {
				sum += m.DualCoef[j-1][s] * k[s]
			}
			for s := start[j]; s < start[j]+m.NSupport[j]; s++ {
				sum += m.DualCoef[i][s] * k[s]
			}
			if sum > 0 {
				votes[i]++
			} else {
				votes[j]++
			}
			p++
		}
	}
	return m.classOf(votes), nil
}
