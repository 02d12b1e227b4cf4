package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ModelKind is the closed set of classifier families the runtime can load.
type ModelKind string

const (
	ModelRandomForest ModelKind = "random_forest"
	ModelDecisionTree ModelKind = "decision_tree"
	ModelSVM          ModelKind = "svm"
	ModelKNN          ModelKind = "knn"
)

// modelNames maps the names used in the training summary to model kinds.
var modelNames = map[string]ModelKind{
	"Random Forest": ModelRandomForest,
	"Decision Tree": ModelDecisionTree,
	"SVM":           ModelSVM,
	"KNN":           ModelKNN,
}

// ModelKindFromName resolves a training-summary model name.
func ModelKindFromName(name string) (ModelKind, bool) {
	kind, ok := modelNames[name]
	return kind, ok
}

// ArtifactFile returns the file name the model of this kind is stored under.
func (k ModelKind) ArtifactFile() string {
	return string(k) + "_model.json"
}

// KnownModelNames returns the recognised summary names, sorted.
func KnownModelNames() []string {
	names := make([]string, 0, len(modelNames))
	for name := range modelNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ModelAccuracy is one row of the training summary.
type ModelAccuracy struct {
	Model    string  `json:"model" yaml:"model"`
	Accuracy float64 `json:"accuracy" yaml:"accuracy"`
}

// AccuracyTable keeps summary rows in the order they were first seen.
type AccuracyTable []ModelAccuracy

// Set records an accuracy. A repeated model keeps its first position and takes the new value.
func (t *AccuracyTable) Set(model string, accuracy float64) {
	for i := range *t {
		if (*t)[i].Model == model {
			(*t)[i].Accuracy = accuracy
			return
		}
	}
	*t = append(*t, ModelAccuracy{Model: model, Accuracy: accuracy})
}

// Lookup returns the accuracy recorded for model.
func (t AccuracyTable) Lookup(model string) (float64, bool) {
	for _, row := range t {
		if row.Model == model {
			return row.Accuracy, true
		}
	}
	return 0, false
}

// Best returns the row with the highest accuracy. Ties go to the earliest row.
func (t AccuracyTable) Best() (ModelAccuracy, bool) {
	if len(t) == 0 {
		return ModelAccuracy{}, false
	}
	best := t[0]
	for _, row := range t[1:] {
		if row.Accuracy > best.Accuracy {
			best = row
		}
	}
	return best, true
}

// MarshalJSON encodes the table as an object keyed by model name, in table order.
func (t AccuracyTable) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, row := range t {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(row.Model)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(row.Accuracy)
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return append(buf, '}'), nil
}

// ModelPrediction is the best model's verdict.
type ModelPrediction struct {
	Prediction string  `json:"prediction" yaml:"prediction"`
	Accuracy   float64 `json:"accuracy" yaml:"accuracy"`
}

// MLExplanation describes a classifier failure to the user.
type MLExplanation struct {
	Title  string `json:"title" yaml:"title"`
	Reason string `json:"reason" yaml:"reason"`
	Fix    string `json:"fix" yaml:"fix"`
}

// MLError is the classifier outcome when no prediction could be made.
type MLError struct {
	Code        string        `json:"code" yaml:"code"`
	Explanation MLExplanation `json:"explanation" yaml:"explanation"`
}

// MLResult is the classifier outcome. Exactly one of Prediction, Status or Err is set.
type MLResult struct {
	Model      string
	Prediction *ModelPrediction
	// Status replaces the prediction in clean reports.
	Status string
	Err    *MLError
}

// HasError reports whether the classifier failed.
func (r MLResult) HasError() bool {
	return r.Err != nil
}

// NewMLPrediction builds a successful classifier result.
func NewMLPrediction(model, prediction string, accuracy float64) MLResult {
	return MLResult{Model: model, Prediction: &ModelPrediction{Prediction: prediction, Accuracy: accuracy}}
}

// NewMLStatus builds the placeholder result used in clean reports.
func NewMLStatus(status string) MLResult {
	return MLResult{Status: status}
}

// NewMLError builds a failed classifier result.
func NewMLError(code string, explanation MLExplanation) MLResult {
	return MLResult{Err: &MLError{Code: code, Explanation: explanation}}
}

type mlResultJSON struct {
	Predictions map[string]json.RawMessage `json:"predictions,omitempty"`
	Error       string                     `json:"Error,omitempty"`
	Code        string                     `json:"code,omitempty"`
	Explanation *MLExplanation             `json:"explanation,omitempty"`
}

// MarshalJSON produces {"predictions": {...}} or {"Error": title, "code": ..., "explanation": {...}}.
func (r MLResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// MarshalYAML mirrors MarshalJSON.
func (r MLResult) MarshalYAML() (interface{}, error) {
	if r.Err != nil {
		return map[string]interface{}{
			"Error":       r.Err.Explanation.Title,
			"code":        r.Err.Code,
			"explanation": r.Err.Explanation,
		}, nil
	}
	preds := map[string]interface{}{}
	switch {
	case r.Prediction != nil:
		preds[r.Model] = r.Prediction
	case r.Status != "":
		preds["status"] = r.Status
	}
	return map[string]interface{}{"predictions": preds}, nil
}

func (r MLResult) wire() mlResultJSON {
	if r.Err != nil {
		exp := r.Err.Explanation
		return mlResultJSON{Error: exp.Title, Code: r.Err.Code, Explanation: &exp}
	}
	preds := map[string]json.RawMessage{}
	switch {
	case r.Prediction != nil:
		raw, _ := json.Marshal(r.Prediction)
		preds[r.Model] = raw
	case r.Status != "":
		raw, _ := json.Marshal(r.Status)
		preds["status"] = raw
	}
	return mlResultJSON{Predictions: preds}
}

// UnmarshalJSON reads the shapes written by MarshalJSON.
func (r *MLResult) UnmarshalJSON(data []byte) error {
	var w mlResultJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = MLResult{}
	if w.Error != "" || w.Explanation != nil {
		exp := MLExplanation{Title: w.Error}
		if w.Explanation != nil {
			exp = *w.Explanation
		}
		r.Err = &MLError{Code: w.Code, Explanation: exp}
		return nil
	}
	for name, raw := range w.Predictions {
		var status string
		if err := json.Unmarshal(raw, &status); err == nil {
			r.Status = status
			continue
		}
		var pred ModelPrediction
		if err := json.Unmarshal(raw, &pred); err != nil {
			return fmt.Errorf("invalid prediction for %s: %w", name, err)
		}
		r.Model = name
		r.Prediction = &pred
	}
	return nil
}

// SmellClassifier predicts the smell category of a file with the best trained model.
type SmellClassifier interface {
	// Predict never fails; faults are encoded in the result.
	Predict(ctx context.Context, filePath string) MLResult

	// Accuracies returns the recorded accuracy of every trained model.
	Accuracies(ctx context.Context) (AccuracyTable, error)
}
