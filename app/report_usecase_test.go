package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReportStore struct {
	mock.Mock
}

func (m *mockReportStore) Save(file string, source []byte, report domain.AnalysisReport) (*domain.StoredReport, error) {
	args := m.Called(file, source, report)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredReport), args.Error(1)
}

func (m *mockReportStore) Load(name string) (*domain.StoredReport, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredReport), args.Error(1)
}

type mockClassifier struct {
	mock.Mock
}

func (m *mockClassifier) Predict(ctx context.Context, filePath string) domain.MLResult {
	return m.Called(ctx, filePath).Get(0).(domain.MLResult)
}

func (m *mockClassifier) Accuracies(ctx context.Context) (domain.AccuracyTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.AccuracyTable), args.Error(1)
}

type mockStoredFormatter struct {
	mock.Mock
}

func (m *mockStoredFormatter) FormatStored(stored *domain.StoredReport, format domain.OutputFormat) (string, error) {
	args := m.Called(stored, format)
	return args.String(0), args.Error(1)
}

func (m *mockStoredFormatter) FormatAccuracies(table domain.AccuracyTable, format domain.OutputFormat) (string, error) {
	args := m.Called(table, format)
	return args.String(0), args.Error(1)
}

func TestReportUseCase_Show(t *testing.T) {
	stored := &domain.StoredReport{ID: "r1", File: "/src/a.py"}
	store := &mockReportStore{}
	store.On("Load", "a.py").Return(stored, nil)
	store.On("Load", "gone.py").Return(nil, domain.NewFileNotFoundError("results/gone.py.json", nil))
	formatter := &mockStoredFormatter{}
	formatter.On("FormatStored", stored, domain.OutputFormatText).Return("report text", nil)

	uc := NewReportUseCase(store, &mockClassifier{}, formatter, passthroughWriter{})

	var out bytes.Buffer
	got, err := uc.Show("a.py", domain.OutputFormatText, &out, "")
	require.NoError(t, err)
	assert.Equal(t, "r1", got.ID)
	assert.Equal(t, "report text", out.String())

	_, err = uc.Show("gone.py", domain.OutputFormatText, &out, "")
	assert.Equal(t, domain.ErrCodeFileNotFound, domain.ErrorCode(err))

	_, err = uc.Show("", domain.OutputFormatText, &out, "")
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestReportUseCase_Accuracies(t *testing.T) {
	table := domain.AccuracyTable{{Model: "KNN", Accuracy: 77}}
	classifier := &mockClassifier{}
	classifier.On("Accuracies", mock.Anything).Return(table, nil)
	formatter := &mockStoredFormatter{}
	formatter.On("FormatAccuracies", table, domain.OutputFormatJSON).Return(`{"KNN": 77}`, nil)

	var out bytes.Buffer
	uc := NewReportUseCase(&mockReportStore{}, classifier, formatter, passthroughWriter{})
	got, err := uc.Accuracies(context.Background(), domain.OutputFormatJSON, &out, "")
	require.NoError(t, err)
	assert.Equal(t, table, got)
	assert.Equal(t, `{"KNN": 77}`, out.String())
}
