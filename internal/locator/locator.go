// Package locator finds Long Method and Large Class smells in Python source
// by measuring definition spans in the syntax tree.
package locator

import (
	"context"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/parser"
	"go.uber.org/zap"
)

// Locator implements domain.SmellLocator. It is safe for concurrent use;
// every call parses with its own parser.
type Locator struct {
	logger *zap.Logger
}

// New creates a locator. A nil logger disables logging.
func New(logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{logger: logger}
}

// FindLongMethods reports every function whose span is at least threshold lines.
// Nested functions and methods are included.
func (l *Locator) FindLongMethods(ctx context.Context, source []byte, threshold int) domain.DetectionResult[domain.LongMethodFinding] {
	result, err := parser.New().Parse(ctx, source)
	if err != nil {
		l.logger.Debug("long method detection skipped", zap.Error(err))
		return domain.DetectionResult[domain.LongMethodFinding]{Err: domain.NewSourceParseError(err)}
	}

	lines := parser.SourceLines(source)
	findings := []domain.LongMethodFinding{}
	for _, fn := range parser.Functions(result.RootNode) {
		start, end := parser.StatementSpan(fn)
		length := end - start + 1
		if length < threshold {
			continue
		}
		findings = append(findings, domain.LongMethodFinding{
			Function:    parser.Name(fn, source),
			Start:       start,
			End:         end,
			Length:      length,
			CodeSnippet: parser.Snippet(lines, start, end),
		})
	}

	l.logger.Debug("long method detection finished",
		zap.Int("threshold", threshold),
		zap.Int("findings", len(findings)))
	return domain.DetectionResult[domain.LongMethodFinding]{Findings: findings}
}

// FindLargeClasses reports every class spanning more than lineThreshold lines
// or defining more than methodThreshold methods directly in its body.
func (l *Locator) FindLargeClasses(ctx context.Context, source []byte, methodThreshold, lineThreshold int) domain.DetectionResult[domain.LargeClassFinding] {
	result, err := parser.New().Parse(ctx, source)
	if err != nil {
		l.logger.Debug("large class detection skipped", zap.Error(err))
		return domain.DetectionResult[domain.LargeClassFinding]{Err: domain.NewSourceParseError(err)}
	}

	lines := parser.SourceLines(source)
	findings := []domain.LargeClassFinding{}
	for _, class := range parser.Classes(result.RootNode) {
		start, end := parser.StatementSpan(class)
		total := end - start + 1
		methods := len(parser.DirectMethods(class))
		if total <= lineThreshold && methods <= methodThreshold {
			continue
		}
		findings = append(findings, domain.LargeClassFinding{
			Class:       parser.Name(class, source),
			Start:       start,
			End:         end,
			Lines:       total,
			NumMethods:  methods,
			CodeSnippet: parser.Snippet(lines, start, end),
		})
	}

	l.logger.Debug("large class detection finished",
		zap.Int("method_threshold", methodThreshold),
		zap.Int("line_threshold", lineThreshold),
		zap.Int("findings", len(findings)))
	return domain.DetectionResult[domain.LargeClassFinding]{Findings: findings}
}

var _ domain.SmellLocator = (*Locator)(nil)
