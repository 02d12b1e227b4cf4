package classifier

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names. The training summary lives in the results directory, the rest in the models directory.
const (
	FeatureColumnsFile = "feature_columns.json"
	LabelEncoderFile   = "label_encoder.json"
	TrainingSummary    = "training_summary.txt"
)

// LoadFeatureColumns reads the ordered list of training feature names.
func LoadFeatureColumns(modelsDir string) ([]string, error) {
	var cols []string
	if err := readJSON(filepath.Join(modelsDir, FeatureColumnsFile), &cols); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s lists no features", FeatureColumnsFile)
	}
	return cols, nil
}

// LabelEncoder maps category names to the encoded labels models predict.
type LabelEncoder map[string]int

// LoadLabelEncoder reads the category encoding.
func LoadLabelEncoder(modelsDir string) (LabelEncoder, error) {
	var enc LabelEncoder
	if err := readJSON(filepath.Join(modelsDir, LabelEncoderFile), &enc); err != nil {
		return nil, err
	}
	return enc, nil
}

// UnknownLabel is returned for labels missing from the encoder.
const UnknownLabel = "Unknown"

// Decode returns the category name for an encoded label, or UnknownLabel.
// If several names share a label the alphabetically first wins.
func (e LabelEncoder) Decode(label int) string {
	found := ""
	for name, idx := range e {
		if idx == label && (found == "" || name < found) {
			found = name
		}
	}
	if found == "" {
		return UnknownLabel
	}
	return found
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return nil
}
