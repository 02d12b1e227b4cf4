package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSmellService struct {
	mock.Mock
}

func (m *mockSmellService) AnalyzeFile(ctx context.Context, filePath string, thresholds domain.Thresholds) (*domain.FileAnalysis, error) {
	args := m.Called(ctx, filePath, thresholds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileAnalysis), args.Error(1)
}

type mockFileReader struct {
	mock.Mock
}

func (m *mockFileReader) CollectPythonFiles(paths []string, recursive bool, include, exclude []string) ([]string, error) {
	args := m.Called(paths, recursive, include, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFileReader) ReadFile(path string) ([]byte, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockFileReader) IsValidPythonFile(path string) bool {
	return m.Called(path).Bool(0)
}

type mockDetectFormatter struct {
	mock.Mock
}

func (m *mockDetectFormatter) Format(response *domain.DetectResponse, format domain.OutputFormat) (string, error) {
	args := m.Called(response, format)
	return args.String(0), args.Error(1)
}

func (m *mockDetectFormatter) Write(response *domain.DetectResponse, format domain.OutputFormat, writer io.Writer) error {
	args := m.Called(response, format, writer)
	return args.Error(0)
}

// passthroughWriter calls writeFunc with the given writer, like FileOutputWriter without a path.
type passthroughWriter struct{}

func (passthroughWriter) Write(writer io.Writer, outputPath string, format domain.OutputFormat, writeFunc func(io.Writer) error) error {
	return writeFunc(writer)
}

type countingProgress struct {
	mu        sync.Mutex
	max       int
	processed int
	done      bool
}

func (p *countingProgress) Initialize(maxValue int) { p.max = maxValue }
func (p *countingProgress) Start()                  {}
func (p *countingProgress) Increment() {
	p.mu.Lock()
	p.processed++
	p.mu.Unlock()
}
func (p *countingProgress) Complete(success bool)     { p.done = success }
func (p *countingProgress) SetWriter(writer io.Writer) {}
func (p *countingProgress) IsInteractive() bool        { return false }

var testThresholds = domain.Thresholds{LongMethodLines: 12, ClassMethods: 4, ClassLines: 25}

func cleanAnalysis(file string) *domain.FileAnalysis {
	return &domain.FileAnalysis{File: file, Report: domain.AnalysisReport{
		MLResult: domain.NewMLStatus(domain.StatusCleanCode),
		Summary:  domain.ReportSummary{Reason: "clean", Fix: "none"},
	}}
}

func smellyAnalysis(file string, count int) *domain.FileAnalysis {
	return &domain.FileAnalysis{File: file, Report: domain.AnalysisReport{
		MLResult: domain.NewMLPrediction("SVM", "LongMethod", 80),
		Summary:  domain.ReportSummary{SmellCount: &count, Status: domain.StatusSmellsDetected},
	}}
}

func detectRequest(out io.Writer) domain.DetectRequest {
	return domain.DetectRequest{
		Paths:        []string{"src"},
		Recursive:    true,
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: out,
		Thresholds:   testThresholds,
		Concurrency:  2,
	}
}

func TestDetectUseCase_Execute(t *testing.T) {
	files := []string{"src/a.py", "src/b.py", "src/c.py", "src/d.py"}
	reader := &mockFileReader{}
	reader.On("CollectPythonFiles", []string{"src"}, true, []string(nil), []string(nil)).Return(files, nil)

	svc := &mockSmellService{}
	svc.On("AnalyzeFile", mock.Anything, "src/a.py", testThresholds).Return(cleanAnalysis("src/a.py"), nil)
	svc.On("AnalyzeFile", mock.Anything, "src/b.py", testThresholds).Return(smellyAnalysis("src/b.py", 3), nil)
	svc.On("AnalyzeFile", mock.Anything, "src/c.py", testThresholds).Return(nil, domain.NewFileNotFoundError("src/c.py", nil))
	svc.On("AnalyzeFile", mock.Anything, "src/d.py", testThresholds).Return(smellyAnalysis("src/d.py", 1), nil)

	var out bytes.Buffer
	formatter := &mockDetectFormatter{}
	formatter.On("Write", mock.Anything, domain.OutputFormatJSON, &out).Return(nil)

	progress := &countingProgress{}
	uc, err := NewDetectUseCaseBuilder().
		WithService(svc).
		WithFileReader(reader).
		WithFormatter(formatter).
		WithOutputWriter(passthroughWriter{}).
		WithProgress(progress).
		Build()
	require.NoError(t, err)

	resp, err := uc.Execute(context.Background(), detectRequest(&out))
	require.NoError(t, err)

	require.Len(t, resp.Files, 4)
	for i, f := range files {
		assert.Equal(t, f, resp.Files[i].File, "results keep input order")
	}
	assert.Contains(t, resp.Files[2].Error, "src/c.py")
	assert.Equal(t, domain.DetectSummary{
		TotalFiles: 4, CleanFiles: 1, SmellyFiles: 2, FailedFiles: 1, TotalSmells: 4,
	}, resp.Summary)
	assert.NotEmpty(t, resp.GeneratedAt)

	assert.Equal(t, 4, progress.max)
	assert.Equal(t, 4, progress.processed)
	assert.True(t, progress.done)

	svc.AssertExpectations(t)
	formatter.AssertExpectations(t)
}

func TestDetectUseCase_Validation(t *testing.T) {
	uc := NewDetectUseCase(&mockSmellService{}, &mockFileReader{}, &mockDetectFormatter{}, passthroughWriter{}, nil, nil)
	var out bytes.Buffer

	tests := []struct {
		name   string
		mutate func(r *domain.DetectRequest)
	}{
		{"no paths", func(r *domain.DetectRequest) { r.Paths = nil }},
		{"no output", func(r *domain.DetectRequest) { r.OutputWriter = nil }},
		{"bad format", func(r *domain.DetectRequest) { r.OutputFormat = "csv" }},
		{"zero method lines", func(r *domain.DetectRequest) { r.Thresholds.LongMethodLines = 0 }},
		{"negative class methods", func(r *domain.DetectRequest) { r.Thresholds.ClassMethods = -1 }},
		{"zero class lines", func(r *domain.DetectRequest) { r.Thresholds.ClassLines = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := detectRequest(&out)
			tt.mutate(&req)
			_, err := uc.Execute(context.Background(), req)
			assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
		})
	}
}

func TestDetectUseCase_NoFiles(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("CollectPythonFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]string{}, nil)
	uc := NewDetectUseCase(&mockSmellService{}, reader, &mockDetectFormatter{}, passthroughWriter{}, nil, nil)

	_, err := uc.Execute(context.Background(), detectRequest(&bytes.Buffer{}))
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestDetectUseCase_FormatterError(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("CollectPythonFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]string{"a.py"}, nil)
	svc := &mockSmellService{}
	svc.On("AnalyzeFile", mock.Anything, "a.py", testThresholds).Return(cleanAnalysis("a.py"), nil)
	formatter := &mockDetectFormatter{}
	formatter.On("Write", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broken pipe"))

	uc := NewDetectUseCase(svc, reader, formatter, passthroughWriter{}, nil, nil)
	resp, err := uc.Execute(context.Background(), detectRequest(&bytes.Buffer{}))
	assert.ErrorContains(t, err, "broken pipe")
	require.NotNil(t, resp)
	assert.Equal(t, 1, resp.Summary.CleanFiles)
}

func TestDetectUseCase_Cancelled(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("CollectPythonFiles", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]string{"a.py"}, nil)
	svc := &mockSmellService{}
	svc.On("AnalyzeFile", mock.Anything, "a.py", testThresholds).Return(nil, context.Canceled)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	uc := NewDetectUseCase(svc, reader, &mockDetectFormatter{}, passthroughWriter{}, nil, nil)
	_, err := uc.Execute(ctx, detectRequest(&bytes.Buffer{}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectUseCaseBuilder_RequiresDependencies(t *testing.T) {
	_, err := NewDetectUseCaseBuilder().Build()
	assert.ErrorContains(t, err, "smell service is required")

	_, err = NewDetectUseCaseBuilder().WithService(&mockSmellService{}).Build()
	assert.ErrorContains(t, err, "file reader is required")

	_, err = NewDetectUseCaseBuilder().WithService(&mockSmellService{}).WithFileReader(&mockFileReader{}).Build()
	assert.ErrorContains(t, err, "output formatter is required")

	_, err = NewDetectUseCaseBuilder().WithService(&mockSmellService{}).WithFileReader(&mockFileReader{}).
		WithFormatter(&mockDetectFormatter{}).Build()
	assert.ErrorContains(t, err, "output writer is required")
}

func TestWorkerCount(t *testing.T) {
	assert.Equal(t, 2, workerCount(2, 10))
	assert.Equal(t, 3, workerCount(8, 3))
	assert.Equal(t, 1, workerCount(0, 1))
	assert.GreaterOrEqual(t, workerCount(0, 1000), 1)
}
