// Package explain asks a generative model to explain, optimize or refactor Python code.
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludo-technologies/pysmell/domain"
	"github.com/ludo-technologies/pysmell/internal/logging"
	"go.uber.org/zap"
)

// Request limits shared by both providers.
const (
	MaxTokens   = 2048
	Temperature = 0.2
)

// Messages returned in place of a model answer.
const (
	MissingKeyMessage = "Error: AI API key is not configured."
	ServiceErrorFmt   = "An error occurred while communicating with the AI service: %v"
)

// Provider sends a single prompt and returns the model's text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and authenticates a provider.
type Config struct {
	Provider string // openai or anthropic
	Model    string
	APIKey   string
	BaseURL  string
}

// Client implements domain.Explainer. It never returns an error: failures
// become the text of the answer.
type Client struct {
	provider Provider
	logger   *zap.Logger
}

// New builds a client for cfg. Without an API key every call answers with
// MissingKeyMessage.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	logger = logging.OrNop(logger)
	if cfg.APIKey == "" {
		logger.Warn("AI API key not found", zap.String("provider", cfg.Provider))
		return &Client{logger: logger}, nil
	}

	switch cfg.Provider {
	case "openai", "":
		return NewWithProvider(newOpenAIProvider(cfg), logger), nil
	case "anthropic":
		return NewWithProvider(newClaudeProvider(cfg), logger), nil
	default:
		return nil, domain.NewConfigError(fmt.Sprintf("unknown AI provider %q", cfg.Provider), nil)
	}
}

// NewWithProvider wraps an existing provider.
func NewWithProvider(p Provider, logger *zap.Logger) *Client {
	return &Client{provider: p, logger: logging.OrNop(logger)}
}

// Explain renders the prompt for req and returns the trimmed answer.
func (c *Client) Explain(ctx context.Context, req domain.ExplainRequest) string {
	if c.provider == nil {
		return MissingKeyMessage
	}

	prompt, err := Prompt(req)
	if err != nil {
		return "Error: " + err.Error()
	}

	answer, err := c.provider.Complete(ctx, prompt)
	if err != nil {
		c.logger.Warn("AI request failed", zap.String("provider", c.provider.Name()), zap.Error(err))
		return fmt.Sprintf(ServiceErrorFmt, err)
	}
	return strings.TrimSpace(answer)
}

var _ domain.Explainer = (*Client)(nil)
