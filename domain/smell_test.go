package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureVectorAlign(t *testing.T) {
	v := NewFeatureVector()
	v[FeatureLLOC] = 7
	v["extra"] = 42

	got := v.Align([]string{FeatureSLOC, "missing", FeatureLLOC})
	assert.Equal(t, []float64{0, 0, 7}, got)
}

func TestNewFeatureVectorCarriesSchema(t *testing.T) {
	v := NewFeatureVector()
	assert.Len(t, v, len(FeatureSchema))
	for _, name := range FeatureSchema {
		_, ok := v[name]
		assert.True(t, ok, name)
	}
}

func TestFeatureVectorMarshalOrder(t *testing.T) {
	v := NewFeatureVector()
	v["zzz"] = 1
	data, err := json.Marshal(v)
	require.NoError(t, err)

	s := string(data)
	assert.True(t, strings.HasPrefix(s, `{"lloc":0,"sloc":0,"scloc":0`), s)
	assert.True(t, strings.HasSuffix(s, `"maintainability_index":0,"zzz":1}`), s)
}

func TestLineRefJSON(t *testing.T) {
	tests := []struct {
		name string
		line LineRef
		want string
	}{
		{"number", Line(12), `12`},
		{"placeholder", NoLine, `"-"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back LineRef
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.line, back)
		})
	}
}

func TestAccuracyTableBest(t *testing.T) {
	var table AccuracyTable
	table.Set("Decision Tree", 88)
	table.Set("Random Forest", 91.5)
	table.Set("SVM", 91.5)

	best, ok := table.Best()
	require.True(t, ok)
	assert.Equal(t, "Random Forest", best.Model)

	table.Set("Decision Tree", 95)
	best, _ = table.Best()
	assert.Equal(t, "Decision Tree", best.Model)
	assert.Len(t, table, 3)

	_, ok = AccuracyTable{}.Best()
	assert.False(t, ok)
}

func TestAccuracyTableMarshalKeepsOrder(t *testing.T) {
	table := AccuracyTable{{Model: "SVM", Accuracy: 80}, {Model: "KNN", Accuracy: 70.25}}
	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Equal(t, `{"SVM":80,"KNN":70.25}`, string(data))
}

func TestMLResultJSONShapes(t *testing.T) {
	tests := []struct {
		name   string
		result MLResult
		want   string
	}{
		{
			name:   "prediction",
			result: NewMLPrediction("Random Forest", "LongMethod", 91.5),
			want:   `{"predictions":{"Random Forest":{"prediction":"LongMethod","accuracy":91.5}}}`,
		},
		{
			name:   "clean placeholder",
			result: NewMLStatus(StatusCleanCode),
			want:   `{"predictions":{"status":"Clean Code"}}`,
		},
		{
			name: "error",
			result: NewMLError(ErrCodeModelNotConfigured, MLExplanation{
				Title: "ML Model Not Found", Reason: "r", Fix: "f",
			}),
			want: `{"Error":"ML Model Not Found","code":"MODEL_NOT_CONFIGURED","explanation":{"title":"ML Model Not Found","reason":"r","fix":"f"}}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var back MLResult
			require.NoError(t, json.Unmarshal(data, &back))
			assert.Equal(t, tt.result, back)
		})
	}
}

func TestModelKindFromName(t *testing.T) {
	kind, ok := ModelKindFromName("Random Forest")
	require.True(t, ok)
	assert.Equal(t, "random_forest_model.json", kind.ArtifactFile())

	_, ok = ModelKindFromName("Gradient Boosting")
	assert.False(t, ok)
}

func TestErrorCode(t *testing.T) {
	err := NewParseError("a.py", nil)
	assert.Equal(t, ErrCodeParseError, ErrorCode(err))
	assert.Equal(t, "", ErrorCode(assert.AnError))
}

func TestNewSourceParseError(t *testing.T) {
	err := NewSourceParseError(errors.New("syntax error at 1:5"))
	assert.Equal(t, ErrCodeParseError, ErrorCode(err))
	assert.Equal(t, "[PARSE_ERROR] failed to parse source: syntax error at 1:5", err.Error())
	assert.NotContains(t, err.Error(), "<")
}

func TestStructuralErrorEntryJSON(t *testing.T) {
	data, err := json.Marshal([]LongMethodFinding{{Error: "parse failed"}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"error":"parse failed"}]`, string(data))

	data, err = json.Marshal(LargeClassFinding{Class: "C", Start: 1, End: 3, Lines: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"class":"C","start":1,"end":3,"lines":3,"num_methods":0,"code_snippet":""}`, string(data))

	var back LargeClassFinding
	require.NoError(t, json.Unmarshal([]byte(`{"error":"boom"}`), &back))
	assert.True(t, back.IsError())
	assert.Equal(t, "boom", back.Error)
}

func TestAnalysisReportIsClean(t *testing.T) {
	clean := AnalysisReport{Summary: ReportSummary{Reason: "r", Fix: "f"}}
	assert.True(t, clean.IsClean())
	assert.Equal(t, StatusCleanCode, clean.Status())

	n := 2
	smelly := AnalysisReport{Summary: ReportSummary{SmellCount: &n, Status: StatusMinorIssues}}
	assert.False(t, smelly.IsClean())
	assert.Equal(t, StatusMinorIssues, smelly.Status())
}
