package app

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/version"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DetectUseCase orchestrates smell detection across files
type DetectUseCase struct {
	service    domain.SmellService
	fileReader domain.FileReader
	formatter  domain.DetectFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
	logger     *zap.Logger
	now        func() time.Time
}

// NewDetectUseCase creates a new detect use case
func NewDetectUseCase(
	service domain.SmellService,
	fileReader domain.FileReader,
	formatter domain.DetectFormatter,
	output domain.ReportWriter,
	progress domain.ProgressManager,
	logger *zap.Logger,
) *DetectUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DetectUseCase{
		service:    service,
		fileReader: fileReader,
		formatter:  formatter,
		output:     output,
		progress:   progress,
		logger:     logger,
		now:        time.Now,
	}
}

// Execute analyzes every collected file and writes the formatted response.
// A file that cannot be analyzed is recorded in the response; it does not stop the batch.
func (uc *DetectUseCase) Execute(ctx context.Context, req domain.DetectRequest) (*domain.DetectResponse, error) {
	if err := validateDetectRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	files, err := uc.fileReader.CollectPythonFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}
	uc.logger.Debug("collected files", zap.Int("count", len(files)))

	results := uc.analyzeAll(ctx, files, req)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("detection cancelled: %w", err)
	}

	response := &domain.DetectResponse{
		Files:       results,
		Summary:     summarize(results),
		GeneratedAt: uc.now().Format(time.RFC3339),
		Version:     version.Version,
	}

	err = uc.output.Write(req.OutputWriter, req.OutputPath, req.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Write(response, req.OutputFormat, w)
	})
	if err != nil {
		return response, err
	}
	return response, nil
}

// analyzeAll runs the per-file analyses on a bounded pool. Results keep the
// order of files.
func (uc *DetectUseCase) analyzeAll(ctx context.Context, files []string, req domain.DetectRequest) []domain.FileAnalysis {
	if uc.progress != nil {
		uc.progress.Initialize(len(files))
		uc.progress.Start()
	}

	results := make([]domain.FileAnalysis, len(files))
	p := pool.New().WithMaxGoroutines(workerCount(req.Concurrency, len(files)))
	for i, file := range files {
		p.Go(func() {
			defer func() {
				if uc.progress != nil {
					uc.progress.Increment()
				}
			}()
			analysis, err := uc.service.AnalyzeFile(ctx, file, req.Thresholds)
			if err != nil {
				uc.logger.Warn("file analysis failed", zap.String("file", file), zap.Error(err))
				results[i] = domain.FileAnalysis{File: file, Error: err.Error()}
				return
			}
			results[i] = *analysis
		})
	}
	p.Wait()

	if uc.progress != nil {
		uc.progress.Complete(ctx.Err() == nil)
	}
	return results
}

func workerCount(requested, files int) int {
	n := requested
	if n < 1 {
		n = runtime.NumCPU()
	}
	if n > files {
		n = files
	}
	if n < 1 {
		n = 1
	}
	return n
}

func summarize(results []domain.FileAnalysis) domain.DetectSummary {
	summary := domain.DetectSummary{TotalFiles: len(results)}
	for _, r := range results {
		switch {
		case r.Error != "":
			summary.FailedFiles++
		case r.Report.IsClean():
			summary.CleanFiles++
		default:
			summary.SmellyFiles++
			if r.Report.Summary.SmellCount != nil {
				summary.TotalSmells += *r.Report.Summary.SmellCount
			}
		}
	}
	return summary
}

func validateDetectRequest(req domain.DetectRequest) error {
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

func validateThresholds(t domain.Thresholds) error {
	if t.LongMethodLines < 1 {
		return fmt.Errorf("long method threshold must be positive, got %d", t.LongMethodLines)
	}
	if t.ClassMethods < 1 {
		return fmt.Errorf("class method threshold must be positive, got %d", t.ClassMethods)
	}
	if t.ClassLines < 1 {
		return fmt.Errorf("class line threshold must be positive, got %d", t.ClassLines)
	}
	return nil
}

// DetectUseCaseBuilder provides a builder pattern for creating DetectUseCase
type DetectUseCaseBuilder struct {
	service    domain.SmellService
	fileReader domain.FileReader
	formatter  domain.DetectFormatter
	output     domain.ReportWriter
	progress   domain.ProgressManager
	logger     *zap.Logger
}

// NewDetectUseCaseBuilder creates a new builder
func NewDetectUseCaseBuilder() *DetectUseCaseBuilder {
	return &DetectUseCaseBuilder{}
}

// WithService sets the smell service
func (b *DetectUseCaseBuilder) WithService(service domain.SmellService) *DetectUseCaseBuilder {
	b.service = service
	return b
}

// WithFileReader sets the file reader
func (b *DetectUseCaseBuilder) WithFileReader(fileReader domain.FileReader) *DetectUseCaseBuilder {
	b.fileReader = fileReader
	return b
}

// WithFormatter sets the output formatter
func (b *DetectUseCaseBuilder) WithFormatter(formatter domain.DetectFormatter) *DetectUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithOutputWriter sets the report writer
func (b *DetectUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *DetectUseCaseBuilder {
	b.output = output
	return b
}

// WithProgress sets the progress manager
func (b *DetectUseCaseBuilder) WithProgress(progress domain.ProgressManager) *DetectUseCaseBuilder {
	b.progress = progress
	return b
}

// WithLogger sets the logger
func (b *DetectUseCaseBuilder) WithLogger(logger *zap.Logger) *DetectUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the DetectUseCase with the configured dependencies
func (b *DetectUseCaseBuilder) Build() (*DetectUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("smell service is required")
	}
	if b.fileReader == nil {
		return nil, fmt.Errorf("file reader is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	if b.output == nil {
		return nil, fmt.Errorf("output writer is required")
	}
	return NewDetectUseCase(b.service, b.fileReader, b.formatter, b.output, b.progress, b.logger), nil
}
