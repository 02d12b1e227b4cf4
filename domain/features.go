package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// Feature names of the training schema.
const (
	FeatureLLOC                 = "lloc"
	FeatureSLOC                 = "sloc"
	FeatureSCLOC                = "scloc"
	FeatureComments             = "comments"
	FeatureSingleComments       = "single_com"
	FeatureMultiComments        = "multi_comr"
	FeatureBlanks               = "blanks"
	FeatureDistinctOperators    = "h1"
	FeatureDistinctOperands     = "h2"
	FeatureTotalOperators       = "n1"
	FeatureTotalOperands        = "n2"
	FeatureVocabulary           = "vocabulary"
	FeatureLength               = "length"
	FeatureVolume               = "volume"
	FeatureDifficulty           = "difficulty"
	FeatureEffort               = "effort"
	FeatureMaintainabilityIndex = "maintainability_index"
)

// FeatureSchema lists the metric names in training order.
var FeatureSchema = []string{
	FeatureLLOC,
	FeatureSLOC,
	FeatureSCLOC,
	FeatureComments,
	FeatureSingleComments,
	FeatureMultiComments,
	FeatureBlanks,
	FeatureDistinctOperators,
	FeatureDistinctOperands,
	FeatureTotalOperators,
	FeatureTotalOperands,
	FeatureVocabulary,
	FeatureLength,
	FeatureVolume,
	FeatureDifficulty,
	FeatureEffort,
	FeatureMaintainabilityIndex,
}

// FeatureVector maps metric names to values. Vectors built by NewFeatureVector
// always carry every schema key.
type FeatureVector map[string]float64

// NewFeatureVector returns a vector with every schema feature set to zero.
func NewFeatureVector() FeatureVector {
	v := make(FeatureVector, len(FeatureSchema))
	for _, name := range FeatureSchema {
		v[name] = 0
	}
	return v
}

// Align projects the vector onto columns, in column order. Columns the
// vector lacks are zero; keys not listed in columns are dropped.
func (v FeatureVector) Align(columns []string) []float64 {
	out := make([]float64, len(columns))
	for i, col := range columns {
		out[i] = v[col]
	}
	return out
}

// Zero resets the named features to zero.
func (v FeatureVector) Zero(names ...string) {
	for _, name := range names {
		v[name] = 0
	}
}

// MarshalJSON writes schema features first, in schema order, then any extras sorted by name.
func (v FeatureVector) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(v))
	inSchema := make(map[string]bool, len(FeatureSchema))
	for _, name := range FeatureSchema {
		inSchema[name] = true
		if _, ok := v[name]; ok {
			keys = append(keys, name)
		}
	}
	var extras []string
	for name := range v {
		if !inSchema[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	keys = append(keys, extras...)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(v[k], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
