package classifier

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ludo-technologies/pysmell/domain"
	"gonum.org/v1/gonum/floats"
)

// Model predicts an encoded class label for a feature row in training column order.
type Model interface {
	Kind() domain.ModelKind
	NumFeatures() int
	Predict(x []float64) (int, error)
}

// header is shared by every model artifact. n_features is optional when the
// artifact is loaded alongside its feature column list.
type header struct {
	Kind      domain.ModelKind `json:"kind"`
	NFeatures int              `json:"n_features,omitempty"`
	// Classes holds the encoded labels in the order the model scores them.
	Classes []int `json:"classes"`
}

func (h header) validate() error {
	if h.NFeatures <= 0 {
		return fmt.Errorf("n_features must be positive, got %d", h.NFeatures)
	}
	if len(h.Classes) == 0 {
		return fmt.Errorf("model has no classes")
	}
	return nil
}

// defaultFeatures fills a missing n_features with n.
func (h *header) defaultFeatures(n int) {
	if h.NFeatures == 0 {
		h.NFeatures = n
	}
}

func (h header) checkInput(x []float64) error {
	if len(x) != h.NFeatures {
		return fmt.Errorf("feature dimension mismatch: model expects %d, got %d", h.NFeatures, len(x))
	}
	return nil
}

// classOf maps a score vector to the class with the highest score.
// Ties resolve to the lowest index.
func (h header) classOf(scores []float64) int {
	return h.Classes[floats.MaxIdx(scores)]
}

// LoadModel reads a model artifact of the expected kind. An artifact without
// n_features takes numFeatures, the length of the training column list. A
// missing file is reported with an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadModel(path string, kind domain.ModelKind, numFeatures int) (Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeModel(kind, data, numFeatures)
}

// DecodeModel decodes and validates a JSON model artifact that declares n_features.
func DecodeModel(kind domain.ModelKind, data []byte) (Model, error) {
	return decodeModel(kind, data, 0)
}

func decodeModel(kind domain.ModelKind, data []byte, numFeatures int) (Model, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("invalid model artifact: %w", err)
	}
	if h.Kind != "" && h.Kind != kind {
		return nil, fmt.Errorf("model artifact is a %s, expected %s", h.Kind, kind)
	}

	var m interface {
		Model
		validate() error
		defaultFeatures(n int)
	}
	switch kind {
	case domain.ModelDecisionTree:
		m = &DecisionTree{}
	case domain.ModelRandomForest:
		m = &RandomForest{}
	case domain.ModelSVM:
		m = &SVC{}
	case domain.ModelKNN:
		m = &KNN{}
	default:
		return nil, fmt.Errorf("unsupported model kind %q", kind)
	}

	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("invalid %s artifact: %w", kind, err)
	}
	m.defaultFeatures(numFeatures)
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s artifact: %w", kind, err)
	}
	return m, nil
}
