package app

import (
	"time"

	"github.com/ludo-technologies/pysmell/internal/classifier"
	"github.com/ludo-technologies/pysmell/internal/config"
	"github.com/ludo-technologies/pysmell/internal/explain"
	"github.com/ludo-technologies/pysmell/internal/locator"
	"github.com/ludo-technologies/pysmell/internal/metrics"
	"github.com/ludo-technologies/pysmell/internal/rulecheck"
	"github.com/ludo-technologies/pysmell/internal/version"
	"github.com/ludo-technologies/pysmell/service"
	"go.uber.org/zap"
)

// Components is the set of concrete detectors and services built from a configuration.
type Components struct {
	FileReader *service.FileReaderImpl
	Extractor  *metrics.Extractor
	Locator    *locator.Locator
	Classifier *classifier.Runtime
	Rules      *rulecheck.Checker
	Store      *service.FileReportStore
	Service    *service.SmellServiceImpl
	Formatter  *service.OutputFormatterImpl
}

// NewComponents wires every detector for cfg. Reports are persisted only when save is set.
func NewComponents(cfg *config.Config, logger *zap.Logger, save bool) *Components {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Components{
		FileReader: service.NewFileReader(),
		Extractor:  metrics.NewExtractor(metrics.WithLogger(logger.Named("metrics"))),
		Locator:    locator.New(logger.Named("locator")),
		Store:      service.NewFileReportStore(cfg.Model.ResultsDir, version.Version),
		Formatter:  service.NewOutputFormatter(cfg.Output.NoColor),
	}
	c.Classifier = classifier.NewRuntime(cfg.Model.ModelsDir, cfg.Model.ResultsDir, c.Extractor, logger.Named("classifier"))
	c.Rules = rulecheck.New(rulecheck.Config{
		Command: cfg.Linter.Command,
		Args:    cfg.Linter.Args,
		Timeout: time.Duration(cfg.Linter.TimeoutSeconds) * time.Second,
	}, logger.Named("linter"))

	opts := []service.SmellServiceOption{service.WithServiceLogger(logger)}
	if save {
		opts = append(opts, service.WithReportStore(c.Store))
	}
	c.Service = service.NewSmellService(c.FileReader, c.Extractor, c.Locator, c.Classifier, c.Rules, opts...)
	return c
}

// NewExplainer builds the AI client configured by cfg.
func NewExplainer(cfg *config.Config, logger *zap.Logger) (*explain.Client, error) {
	return explain.New(explain.Config{
		Provider: cfg.AI.Provider,
		Model:    cfg.AI.ModelName(),
		APIKey:   cfg.AI.APIKey(),
		BaseURL:  cfg.AI.BaseURL,
	}, logger)
}

// DetectUseCase assembles a detect use case over these components.
func (c *Components) DetectUseCase(progress *service.ProgressManagerImpl, logger *zap.Logger) (*DetectUseCase, error) {
	b := NewDetectUseCaseBuilder().
		WithService(c.Service).
		WithFileReader(c.FileReader).
		WithFormatter(c.Formatter).
		WithOutputWriter(service.NewFileOutputWriter(nil)).
		WithLogger(logger)
	if progress != nil {
		b = b.WithProgress(progress)
	}
	return b.Build()
}

// LocateUseCase assembles a locate use case over these components.
func (c *Components) LocateUseCase(logger *zap.Logger) *LocateUseCase {
	return NewLocateUseCase(c.Service, c.FileReader, c.Formatter, service.NewFileOutputWriter(nil), logger)
}

// ReportUseCase assembles a report use case over these components.
func (c *Components) ReportUseCase() *ReportUseCase {
	return NewReportUseCase(c.Store, c.Classifier, c.Formatter, service.NewFileOutputWriter(nil))
}
