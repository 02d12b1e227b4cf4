package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/version"
	"go.uber.org/zap"
)

// StructuralLocator runs the structural detectors on one file.
type StructuralLocator interface {
	Locate(ctx context.Context, filePath string, thresholds domain.Thresholds) (*domain.LocateFile, error)
}

// LocateFormatter renders structural reports.
type LocateFormatter interface {
	WriteLocate(response *domain.LocateResponse, format domain.OutputFormat, writer io.Writer) error
}

// LocateUseCase reports long methods and large classes without the classifier or linter.
type LocateUseCase struct {
	locator    StructuralLocator
	fileReader domain.FileReader
	formatter  LocateFormatter
	output     domain.ReportWriter
	logger     *zap.Logger
	now        func() time.Time
}

// NewLocateUseCase creates a new locate use case
func NewLocateUseCase(
	locator StructuralLocator,
	fileReader domain.FileReader,
	formatter LocateFormatter,
	output domain.ReportWriter,
	logger *zap.Logger,
) *LocateUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocateUseCase{
		locator:    locator,
		fileReader: fileReader,
		formatter:  formatter,
		output:     output,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute locates structural smells in every collected file, sequentially.
func (uc *LocateUseCase) Execute(ctx context.Context, req domain.LocateRequest) (*domain.LocateResponse, error) {
	if err := validateLocateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := uc.fileReader.CollectPythonFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}

	response := &domain.LocateResponse{
		Files:       make([]domain.LocateFile, 0, len(files)),
		Thresholds:  req.Thresholds,
		GeneratedAt: uc.now().Format(time.RFC3339),
		Version:     version.Version,
	}
	for _, file := range files {
		located, err := uc.locator.Locate(ctx, file, req.Thresholds)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("location cancelled: %w", ctx.Err())
			}
			uc.logger.Warn("file skipped", zap.String("file", file), zap.Error(err))
			response.Files = append(response.Files, domain.LocateFile{
				File:         file,
				LongMethods:  []domain.LongMethodFinding{},
				LargeClasses: []domain.LargeClassFinding{},
				Errors:       []string{err.Error()},
			})
			continue
		}
		response.Files = append(response.Files, *located)
	}

	err = uc.output.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.WriteLocate(response, req.OutputFormat, w)
	})
	return response, err
}

func validateLocateRequest(req domain.LocateRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return fmt.Errorf("output writer is required")
	}
	if _, err := domain.ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}
	return validateThresholds(req.Thresholds)
}
