// Package rulecheck runs pylint as an external process and normalizes its messages.
package rulecheck

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/parser"
	"go.uber.org/zap"
)

// Defaults for the linter invocation.
const (
	DefaultCommand = "pylint"
	DefaultTimeout = 30 * time.Second
)

// DefaultArgs are appended after the file path.
var DefaultArgs = []string{"--output-format=json", "--score=n"}

// keptTypes are the pylint message types reported; conventions and info are dropped.
var keptTypes = map[string]bool{
	"error":    true,
	"warning":  true,
	"refactor": true,
}

// Config controls how the linter is invoked.
type Config struct {
	Command string
	Args    []string
	Timeout time.Duration
}

// Checker implements domain.RuleChecker on top of pylint's JSON output.
type Checker struct {
	command string
	args    []string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a checker. Zero config fields take the defaults.
func New(cfg Config, logger *zap.Logger) *Checker {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.Args == nil {
		cfg.Args = DefaultArgs
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{
		command: cfg.Command,
		args:    cfg.Args,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// pylintMessage is one entry of pylint's JSON array.
type pylintMessage struct {
	Type    string `json:"type"`
	Symbol  string `json:"symbol"`
	Message string `json:"message"`
	Line    *int   `json:"line"`
}

// Check lints filePath. It always returns at least one record: the findings,
// the clean marker, or a single error record describing why the linter could not run.
func (c *Checker) Check(ctx context.Context, filePath string) []domain.RuleFinding {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return c.failed(filePath, err)
	}

	output, err := c.run(ctx, filePath)
	if err != nil {
		if domain.ErrorCode(err) == domain.ErrCodeToolTimeout {
			c.logger.Warn("linter timed out", zap.String("file", filePath), zap.Duration("timeout", c.timeout))
			return []domain.RuleFinding{TimeoutRecord()}
		}
		return c.failed(filePath, err)
	}

	findings, err := ParseOutput(output, parser.SourceLines(source))
	if err != nil {
		return c.failed(filePath, err)
	}
	c.logger.Debug("linter finished", zap.String("file", filePath), zap.Int("findings", len(findings)))
	return findings
}

// run executes the linter and returns its stdout. A non-zero exit status is
// not an error: pylint encodes the kinds of messages emitted in it.
func (c *Checker) run(ctx context.Context, filePath string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append([]string{filePath}, c.args...)
	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.WaitDelay = time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, domain.NewToolTimeoutError(c.command, ctx.Err())
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, domain.NewToolFailureError(c.command, err)
		}
		c.logger.Debug("linter exited with status",
			zap.Int("status", exitErr.ExitCode()),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
	}
	return stdout.Bytes(), nil
}

func (c *Checker) failed(filePath string, err error) []domain.RuleFinding {
	c.logger.Warn("linter failed", zap.String("file", filePath), zap.Error(err))
	return []domain.RuleFinding{FailedRecord(err)}
}

// ParseOutput normalizes pylint JSON output. lines are the linted file's
// source lines, used for snippets.
func ParseOutput(output []byte, lines []string) ([]domain.RuleFinding, error) {
	trimmed := bytes.TrimSpace(output)
	if len(trimmed) == 0 {
		return []domain.RuleFinding{CleanRecord()}, nil
	}

	var messages []pylintMessage
	if err := json.Unmarshal(trimmed, &messages); err != nil {
		return nil, fmt.Errorf("invalid linter output: %w", err)
	}

	var findings []domain.RuleFinding
	for _, m := range messages {
		if !keptTypes[strings.ToLower(m.Type)] {
			continue
		}
		line := 1
		if m.Line != nil {
			line = *m.Line
		}
		snippet := ""
		if line >= 1 && line <= len(lines) {
			snippet = strings.TrimSpace(lines[line-1])
		}
		findings = append(findings, domain.RuleFinding{
			Category:    capitalize(orNA(m.Type)),
			Type:        orNA(m.Symbol),
			Details:     orNA(m.Message),
			Line:        domain.Line(line),
			CodeSnippet: snippet,
		})
	}
	if len(findings) == 0 {
		return []domain.RuleFinding{CleanRecord()}, nil
	}
	return findings, nil
}

// CleanRecord is returned when the linter reports nothing worth keeping.
func CleanRecord() domain.RuleFinding {
	return domain.RuleFinding{
		Category: domain.RuleCategoryNoIssues,
		Type:     domain.RuleTypeCleanCode,
		Details:  "",
		Line:     domain.NoLine,
	}
}

// TimeoutRecord is returned when the linter exceeds its deadline.
func TimeoutRecord() domain.RuleFinding {
	return domain.RuleFinding{
		Category: domain.RuleCategoryError,
		Type:     domain.RuleTypeLinterTimeout,
		Details:  "Pylint took too long to analyze.",
		Line:     domain.NoLine,
	}
}

// FailedRecord is returned for any other linter failure.
func FailedRecord(err error) domain.RuleFinding {
	return domain.RuleFinding{
		Category: domain.RuleCategoryError,
		Type:     domain.RuleTypeLinterFailed,
		Details:  err.Error(),
		Line:     domain.NoLine,
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}

var _ domain.RuleChecker = (*Checker)(nil)
