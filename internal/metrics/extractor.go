// Package metrics computes the code metrics the smell classifier was trained on.
package metrics

import (
	"context"
	"fmt"
	"math"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/parser"
	"go.uber.org/zap"
)

// Sub-extraction stages. A failing stage zeroes only the features it owns.
const (
	StageRaw             = "raw"
	StageHalstead        = "halstead"
	StageComplexity      = "complexity"
	StageMaintainability = "maintainability"
)

// RawFunc, HalsteadFunc and ComplexityFunc compute one stage from a parsed module.
type (
	RawFunc        func(*parser.ParseResult) (RawMetrics, error)
	HalsteadFunc   func(*parser.ParseResult) (HalsteadMetrics, error)
	ComplexityFunc func(*parser.ParseResult) (int, error)
)

// Extractor turns Python source into a training-schema feature vector.
// It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	logger     *zap.Logger
	raw        RawFunc
	halstead   HalsteadFunc
	complexity ComplexityFunc
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithLogger sets the logger used for stage warnings.
func WithLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRawFunc replaces the raw line-metrics stage.
func WithRawFunc(fn RawFunc) ExtractorOption {
	return func(e *Extractor) { e.raw = fn }
}

// WithHalsteadFunc replaces the Halstead stage.
func WithHalsteadFunc(fn HalsteadFunc) ExtractorOption {
	return func(e *Extractor) { e.halstead = fn }
}

// WithComplexityFunc replaces the cyclomatic complexity stage.
func WithComplexityFunc(fn ComplexityFunc) ExtractorOption {
	return func(e *Extractor) { e.complexity = fn }
}

// NewExtractor creates an extractor with the default stages.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		logger: zap.NewNop(),
		raw: func(r *parser.ParseResult) (RawMetrics, error) {
			return ComputeRaw(r), nil
		},
		halstead: func(r *parser.ParseResult) (HalsteadMetrics, error) {
			return NewHalsteadAnalyzer().Analyze(r.RootNode, r.SourceCode), nil
		},
		complexity: func(r *parser.ParseResult) (int, error) {
			return TotalComplexity(r.RootNode), nil
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses source and computes every schema feature. Invalid syntax
// returns a PARSE_ERROR; any other stage failure is logged and zeroes that stage.
func (e *Extractor) Extract(ctx context.Context, source []byte) (domain.FeatureVector, error) {
	result, err := parser.New().Parse(ctx, source)
	if err != nil {
		return nil, domain.NewSourceParseError(err)
	}

	features := domain.NewFeatureVector()

	var raw RawMetrics
	rawOK := e.stage(StageRaw, func() (err error) {
		raw, err = e.raw(result)
		return err
	})
	if rawOK {
		setRaw(features, raw)
	}

	var hal HalsteadMetrics
	halOK := e.stage(StageHalstead, func() (err error) {
		hal, err = e.halstead(result)
		return err
	})
	if halOK {
		setHalstead(features, hal)
	}

	var cc int
	ccOK := e.stage(StageComplexity, func() (err error) {
		cc, err = e.complexity(result)
		return err
	})

	// MI needs all three inputs.
	if rawOK && halOK && ccOK {
		e.stage(StageMaintainability, func() error {
			features[domain.FeatureMaintainabilityIndex] = finite(
				MaintainabilityIndex(hal.Volume, cc, raw.LLOC, CommentPercent(raw)))
			return nil
		})
	}

	return features, nil
}

// stage runs fn, converting a panic into an error. It reports success.
func (e *Extractor) stage(name string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("metric extraction stage panicked",
				zap.String("stage", name),
				zap.String("panic", fmt.Sprint(r)))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		e.logger.Warn("metric extraction stage failed",
			zap.String("stage", name),
			zap.Error(err))
		return false
	}
	return true
}

func setRaw(v domain.FeatureVector, raw RawMetrics) {
	v[domain.FeatureLLOC] = float64(raw.LLOC)
	v[domain.FeatureSLOC] = float64(raw.SLOC)
	v[domain.FeatureSCLOC] = float64(raw.SLOC)
	v[domain.FeatureComments] = float64(raw.Comments)
	v[domain.FeatureSingleComments] = float64(clampZero(raw.Comments - raw.Multi))
	v[domain.FeatureMultiComments] = float64(raw.Multi)
	v[domain.FeatureBlanks] = float64(raw.Blank)
}

func setHalstead(v domain.FeatureVector, h HalsteadMetrics) {
	v[domain.FeatureDistinctOperators] = float64(h.DistinctOperators)
	v[domain.FeatureDistinctOperands] = float64(h.DistinctOperands)
	v[domain.FeatureTotalOperators] = float64(h.TotalOperators)
	v[domain.FeatureTotalOperands] = float64(h.TotalOperands)
	v[domain.FeatureVocabulary] = float64(h.Vocabulary)
	v[domain.FeatureLength] = float64(h.Length)
	v[domain.FeatureVolume] = finite(h.Volume)
	v[domain.FeatureDifficulty] = finite(h.Difficulty)
	v[domain.FeatureEffort] = finite(h.Effort)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

var _ domain.MetricExtractor = (*Extractor)(nil)
