package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/rulecheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	err error
}

func (s stubExtractor) Extract(ctx context.Context, source []byte) (domain.FeatureVector, error) {
	if s.err != nil {
		return nil, s.err
	}
	v := domain.NewFeatureVector()
	v["lloc"] = float64(len(source))
	return v, nil
}

type stubLocator struct {
	long       domain.DetectionResult[domain.LongMethodFinding]
	large      domain.DetectionResult[domain.LargeClassFinding]
	thresholds domain.Thresholds
}

func (s *stubLocator) FindLongMethods(ctx context.Context, source []byte, threshold int) domain.DetectionResult[domain.LongMethodFinding] {
	s.thresholds.LongMethodLines = threshold
	return s.long
}

func (s *stubLocator) FindLargeClasses(ctx context.Context, source []byte, methodThreshold, lineThreshold int) domain.DetectionResult[domain.LargeClassFinding] {
	s.thresholds.ClassMethods = methodThreshold
	s.thresholds.ClassLines = lineThreshold
	return s.large
}

type stubClassifier struct {
	result domain.MLResult
}

func (s stubClassifier) Predict(ctx context.Context, filePath string) domain.MLResult {
	return s.result
}

func (s stubClassifier) Accuracies(ctx context.Context) (domain.AccuracyTable, error) {
	return domain.AccuracyTable{{Model: "SVM", Accuracy: 80}}, nil
}

type stubRules struct {
	findings []domain.RuleFinding
}

func (s stubRules) Check(ctx context.Context, filePath string) []domain.RuleFinding {
	return s.findings
}

type failingStore struct{}

func (failingStore) Save(file string, source []byte, report domain.AnalysisReport) (*domain.StoredReport, error) {
	return nil, errors.New("disk full")
}

func (failingStore) Load(name string) (*domain.StoredReport, error) {
	return nil, errors.New("not implemented")
}

func writePython(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

var defaultThresholds = domain.Thresholds{LongMethodLines: 12, ClassMethods: 4, ClassLines: 25}

func TestSmellService_AnalyzeFileClean(t *testing.T) {
	path := writePython(t, "x = 1\n")
	locator := &stubLocator{}
	store := NewFileReportStore(t.TempDir(), "dev")
	svc := NewSmellService(NewFileReader(), stubExtractor{}, locator,
		stubClassifier{result: domain.NewMLPrediction("SVM", "CleanCode", 80)},
		stubRules{findings: []domain.RuleFinding{rulecheck.CleanRecord()}},
		WithReportStore(store))

	analysis, err := svc.AnalyzeFile(context.Background(), path, defaultThresholds)
	require.NoError(t, err)

	assert.True(t, analysis.Report.IsClean())
	assert.Equal(t, defaultThresholds, locator.thresholds)
	assert.Equal(t, 6.0, analysis.Features["lloc"])
	assert.NotEmpty(t, analysis.ReportID)
	assert.FileExists(t, analysis.ReportPath)

	loaded, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, analysis.ReportID, loaded.ID)
	assert.True(t, loaded.Report.IsClean())
}

func TestSmellService_AnalyzeFileSmelly(t *testing.T) {
	path := writePython(t, "def f():\n    pass\n")
	locator := &stubLocator{
		long: domain.DetectionResult[domain.LongMethodFinding]{
			Findings: []domain.LongMethodFinding{{Function: "f", Start: 1, End: 2, Length: 2}},
		},
		large: domain.DetectionResult[domain.LargeClassFinding]{Err: errors.New("parse failed")},
	}
	svc := NewSmellService(NewFileReader(), stubExtractor{err: errors.New("boom")}, locator,
		stubClassifier{result: domain.NewMLPrediction("SVM", "LongMethod", 80)},
		stubRules{findings: []domain.RuleFinding{rulecheck.TimeoutRecord()}})

	analysis, err := svc.AnalyzeFile(context.Background(), path, defaultThresholds)
	require.NoError(t, err)

	report := analysis.Report
	assert.False(t, report.IsClean())
	assert.Equal(t, domain.StatusSmellsDetected, report.Summary.Status)
	assert.Equal(t, 3, *report.Summary.SmellCount)
	assert.Nil(t, analysis.Features)
	assert.Empty(t, analysis.ReportID)
	require.Len(t, report.LargeClasses, 1)
	assert.Equal(t, "parse failed", report.LargeClasses[0].Error)
	assert.Empty(t, report.Warnings)
}

func TestSmellService_SaveFailureBecomesWarning(t *testing.T) {
	path := writePython(t, "x = 1\n")
	svc := NewSmellService(NewFileReader(), stubExtractor{}, &stubLocator{},
		stubClassifier{result: domain.NewMLPrediction("SVM", "CleanCode", 80)},
		stubRules{findings: []domain.RuleFinding{rulecheck.CleanRecord()}},
		WithReportStore(failingStore{}))

	analysis, err := svc.AnalyzeFile(context.Background(), path, defaultThresholds)
	require.NoError(t, err)
	assert.True(t, analysis.Report.IsClean())
	require.Len(t, analysis.Report.Warnings, 1)
	assert.Contains(t, analysis.Report.Warnings[0], "disk full")
}

func TestSmellService_AnalyzeFileErrors(t *testing.T) {
	svc := NewSmellService(NewFileReader(), stubExtractor{}, &stubLocator{},
		stubClassifier{}, stubRules{})

	_, err := svc.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "missing.py"), defaultThresholds)
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.AnalyzeFile(ctx, writePython(t, "x = 1\n"), defaultThresholds)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSmellService_Locate(t *testing.T) {
	path := writePython(t, "class A:\n    pass\n")
	locator := &stubLocator{
		long: domain.DetectionResult[domain.LongMethodFinding]{Err: errors.New("syntax error")},
		large: domain.DetectionResult[domain.LargeClassFinding]{
			Findings: []domain.LargeClassFinding{{Class: "A", Start: 1, End: 2, Lines: 2, NumMethods: 9}},
		},
	}
	svc := NewSmellService(NewFileReader(), stubExtractor{}, locator, stubClassifier{}, stubRules{})

	thresholds := domain.Thresholds{LongMethodLines: 10, ClassMethods: 8, ClassLines: 50}
	located, err := svc.Locate(context.Background(), path, thresholds)
	require.NoError(t, err)
	assert.Equal(t, thresholds, locator.thresholds)
	assert.NotNil(t, located.LongMethods)
	assert.Empty(t, located.LongMethods)
	assert.Len(t, located.LargeClasses, 1)
	assert.Equal(t, []string{"syntax error"}, located.Errors)
}
