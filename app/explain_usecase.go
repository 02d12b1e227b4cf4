package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
)

// NoCodeMessage is the error text for empty input.
const NoCodeMessage = "No code provided"

// ExplainInput is the code to send, given inline or as a file path.
type ExplainInput struct {
	Code     string
	FilePath string
	Mode     domain.ExplainMode
	Smell    string

	OutputWriter io.Writer
}

// ExplainUseCase sends code to the AI assistant and writes the answer.
type ExplainUseCase struct {
	explainer  domain.Explainer
	fileReader domain.FileReader
}

// NewExplainUseCase creates a new explain use case
func NewExplainUseCase(explainer domain.Explainer, fileReader domain.FileReader) *ExplainUseCase {
	return &ExplainUseCase{explainer: explainer, fileReader: fileReader}
}

// Execute returns the assistant's answer, also writing it to OutputWriter when set.
// Service failures are part of the answer; only bad input is an error.
func (uc *ExplainUseCase) Execute(ctx context.Context, in ExplainInput) (string, error) {
	code := in.Code
	if in.FilePath != "" {
		if in.Code != "" {
			return "", domain.NewInvalidInputError("provide either code or a file, not both", nil)
		}
		data, err := uc.fileReader.ReadFile(in.FilePath)
		if err != nil {
			return "", err
		}
		code = string(data)
	}
	if strings.TrimSpace(code) == "" {
		return "", domain.NewInvalidInputError(NoCodeMessage, nil)
	}

	switch in.Mode {
	case "", domain.ExplainModeExplain, domain.ExplainModeOptimize, domain.ExplainModeRefactor:
	default:
		return "", domain.NewInvalidInputError(fmt.Sprintf("unsupported explain mode %q", in.Mode), nil)
	}

	answer := uc.explainer.Explain(ctx, domain.ExplainRequest{Code: code, Mode: in.Mode, Smell: in.Smell})
	if in.OutputWriter != nil {
		if _, err := fmt.Fprintln(in.OutputWriter, answer); err != nil {
			return answer, domain.NewOutputError("failed to write output", err)
		}
	}
	return answer, nil
}
