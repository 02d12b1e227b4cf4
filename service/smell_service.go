package service

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/aggregator"
	"go.uber.org/zap"
)

// SmellServiceImpl implements the SmellService interface
type SmellServiceImpl struct {
	reader     domain.FileReader
	extractor  domain.MetricExtractor
	locator    domain.SmellLocator
	classifier domain.SmellClassifier
	rules      domain.RuleChecker
	store      domain.ReportStore
	logger     *zap.Logger
}

// SmellServiceOption configures a SmellServiceImpl.
type SmellServiceOption func(*SmellServiceImpl)

// WithReportStore persists every report after analysis.
func WithReportStore(store domain.ReportStore) SmellServiceOption {
	return func(s *SmellServiceImpl) {
		s.store = store
	}
}

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *zap.Logger) SmellServiceOption {
	return func(s *SmellServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSmellService creates a new smell service implementation
func NewSmellService(
	reader domain.FileReader,
	extractor domain.MetricExtractor,
	locator domain.SmellLocator,
	classifier domain.SmellClassifier,
	rules domain.RuleChecker,
	opts ...SmellServiceOption,
) *SmellServiceImpl {
	s := &SmellServiceImpl{
		reader:     reader,
		extractor:  extractor,
		locator:    locator,
		classifier: classifier,
		rules:      rules,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeFile runs every detector on one file and aggregates the results.
// Only an unreadable file or a cancelled context is returned as an error;
// detector faults are part of the report.
func (s *SmellServiceImpl) AnalyzeFile(ctx context.Context, filePath string, thresholds domain.Thresholds) (*domain.FileAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	source, err := s.reader.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	analysis := &domain.FileAnalysis{File: filePath}

	features, err := s.extractor.Extract(ctx, source)
	if err != nil {
		s.logger.Debug("feature extraction failed", zap.String("file", filePath), zap.Error(err))
	} else {
		analysis.Features = features
	}

	ml := s.classifier.Predict(ctx, filePath)
	longMethods := s.locator.FindLongMethods(ctx, source, thresholds.LongMethodLines)
	largeClasses := s.locator.FindLargeClasses(ctx, source, thresholds.ClassMethods, thresholds.ClassLines)
	rules := s.rules.Check(ctx, filePath)

	analysis.Report = aggregator.Aggregate(ml, longMethods, largeClasses, rules)
	s.logger.Debug("file analyzed",
		zap.String("file", filePath),
		zap.String("status", analysis.Report.Status()))

	if s.store != nil {
		stored, err := s.store.Save(filePath, source, analysis.Report)
		if err != nil {
			s.logger.Warn("report not saved", zap.String("file", filePath), zap.Error(err))
			analysis.Report.Warnings = append(analysis.Report.Warnings, fmt.Sprintf("report not saved: %v", err))
		} else {
			analysis.ReportID = stored.ID
			analysis.ReportPath = stored.Path
		}
	}

	return analysis, nil
}

// Locate runs only the structural detectors on one file.
func (s *SmellServiceImpl) Locate(ctx context.Context, filePath string, thresholds domain.Thresholds) (*domain.LocateFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	source, err := s.reader.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	result := &domain.LocateFile{
		File:         filePath,
		LongMethods:  []domain.LongMethodFinding{},
		LargeClasses: []domain.LargeClassFinding{},
	}
	longMethods := s.locator.FindLongMethods(ctx, source, thresholds.LongMethodLines)
	if longMethods.OK() {
		result.LongMethods = append(result.LongMethods, longMethods.Findings...)
	} else {
		result.Errors = append(result.Errors, longMethods.Err.Error())
	}
	largeClasses := s.locator.FindLargeClasses(ctx, source, thresholds.ClassMethods, thresholds.ClassLines)
	if largeClasses.OK() {
		result.LargeClasses = append(result.LargeClasses, largeClasses.Findings...)
	} else {
		result.Errors = append(result.Errors, largeClasses.Err.Error())
	}
	return result, nil
}

var _ domain.SmellService = (*SmellServiceImpl)(nil)
