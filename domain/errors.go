package domain

import (
	"errors"
	"fmt"
)

// DomainError represents errors in the domain layer
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e DomainError) Unwrap() error {
	return e.Cause
}

// Domain error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeFileNotFound         = "FILE_NOT_FOUND"
	ErrCodeParseError           = "PARSE_ERROR"
	ErrCodeAnalysisError        = "ANALYSIS_ERROR"
	ErrCodeConfigError          = "CONFIG_ERROR"
	ErrCodeOutputError          = "OUTPUT_ERROR"
	ErrCodeUnsupportedFormat    = "UNSUPPORTED_FORMAT"
	ErrCodeModelNotConfigured   = "MODEL_NOT_CONFIGURED"
	ErrCodeModelArtifactMissing = "MODEL_ARTIFACT_MISSING"
	ErrCodePredictionFailed     = "PREDICTION_FAILED"
	ErrCodeToolTimeout          = "TOOL_TIMEOUT"
	ErrCodeToolFailure          = "TOOL_FAILURE"
)

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) error {
	return DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ErrorCode returns the code of the first DomainError in err's chain, or "".
func ErrorCode(err error) string {
	var de DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// NewInvalidInputError creates an invalid input error
func NewInvalidInputError(message string, cause error) error {
	return NewDomainError(ErrCodeInvalidInput, message, cause)
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string, cause error) error {
	return NewDomainError(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path), cause)
}

// NewParseError creates a parse error
func NewParseError(file string, cause error) error {
	return NewDomainError(ErrCodeParseError, fmt.Sprintf("failed to parse file: %s", file), cause)
}

// NewSourceParseError creates a parse error for in-memory source text.
func NewSourceParseError(cause error) error {
	return NewDomainError(ErrCodeParseError, "failed to parse source", cause)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) error {
	return NewDomainError(ErrCodeAnalysisError, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) error {
	return NewDomainError(ErrCodeConfigError, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) error {
	return NewDomainError(ErrCodeOutputError, message, cause)
}

// NewUnsupportedFormatError creates an unsupported format error
func NewUnsupportedFormatError(format string) error {
	return NewDomainError(ErrCodeUnsupportedFormat, fmt.Sprintf("unsupported format: %s", format), nil)
}

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewModelNotConfiguredError reports missing training artifacts.
func NewModelNotConfiguredError(message string, cause error) error {
	return NewDomainError(ErrCodeModelNotConfigured, message, cause)
}

// NewModelArtifactMissingError reports a best model with no known artifact.
func NewModelArtifactMissingError(model string) error {
	return NewDomainError(ErrCodeModelArtifactMissing, fmt.Sprintf("no model artifact for %q", model), nil)
}

// NewPredictionFailedError wraps a fault raised while predicting.
func NewPredictionFailedError(cause error) error {
	return NewDomainError(ErrCodePredictionFailed, "prediction failed", cause)
}

// NewToolTimeoutError reports an external tool that exceeded its deadline.
func NewToolTimeoutError(tool string, cause error) error {
	return NewDomainError(ErrCodeToolTimeout, fmt.Sprintf("%s timed out", tool), cause)
}

// NewToolFailureError reports an external tool that could not run or whose output was unusable.
func NewToolFailureError(tool string, cause error) error {
	return NewDomainError(ErrCodeToolFailure, fmt.Sprintf("%s failed", tool), cause)
}
