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

type mockExplainer struct {
	mock.Mock
}

func (m *mockExplainer) Explain(ctx context.Context, req domain.ExplainRequest) string {
	return m.Called(ctx, req).String(0)
}

func TestExplainUseCase_Snippet(t *testing.T) {
	explainer := &mockExplainer{}
	req := domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeRefactor, Smell: "LongMethod"}
	explainer.On("Explain", mock.Anything, req).Return("y = 1")

	var out bytes.Buffer
	uc := NewExplainUseCase(explainer, &mockFileReader{})
	answer, err := uc.Execute(context.Background(), ExplainInput{
		Code: "x = 1", Mode: domain.ExplainModeRefactor, Smell: "LongMethod", OutputWriter: &out,
	})
	require.NoError(t, err)
	assert.Equal(t, "y = 1", answer)
	assert.Equal(t, "y = 1\n", out.String())
}

func TestExplainUseCase_File(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("ReadFile", "a.py").Return([]byte("def f():\n    pass\n"), nil)
	explainer := &mockExplainer{}
	explainer.On("Explain", mock.Anything, domain.ExplainRequest{Code: "def f():\n    pass\n"}).Return("It does nothing.")

	answer, err := NewExplainUseCase(explainer, reader).Execute(context.Background(), ExplainInput{FilePath: "a.py"})
	require.NoError(t, err)
	assert.Equal(t, "It does nothing.", answer)
}

func TestExplainUseCase_Errors(t *testing.T) {
	reader := &mockFileReader{}
	reader.On("ReadFile", "empty.py").Return([]byte("  \n"), nil)
	reader.On("ReadFile", "missing.py").Return(nil, domain.NewFileNotFoundError("missing.py", nil))
	uc := NewExplainUseCase(&mockExplainer{}, reader)

	tests := []struct {
		name     string
		in       ExplainInput
		wantCode string
		wantMsg  string
	}{
		{"empty code", ExplainInput{Code: "   "}, domain.ErrCodeInvalidInput, NoCodeMessage},
		{"empty file", ExplainInput{FilePath: "empty.py"}, domain.ErrCodeInvalidInput, NoCodeMessage},
		{"missing file", ExplainInput{FilePath: "missing.py"}, domain.ErrCodeFileNotFound, "missing.py"},
		{"both inputs", ExplainInput{Code: "x", FilePath: "a.py"}, domain.ErrCodeInvalidInput, "not both"},
		{"bad mode", ExplainInput{Code: "x", Mode: "translate"}, domain.ErrCodeInvalidInput, "translate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.in)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			assert.ErrorContains(t, err, tt.wantMsg)
		})
	}
}
