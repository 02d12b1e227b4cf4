package explain

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ludo-technologies/pysmell/internal/version"
)

// claudeProvider talks to the Anthropic Messages API.
type claudeProvider struct {
	client *anthropic.Client
	model  string
}

func newClaudeProvider(cfg Config, opts ...option.RequestOption) *claudeProvider {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHeader("User-Agent", version.UserAgent()),
	}, opts...)
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &claudeProvider{
		client: anthropic.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (p *claudeProvider) Name() string {
	return "anthropic"
}

func (p *claudeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.F(p.model),
		MaxTokens:   anthropic.F(int64(MaxTokens)),
		Temperature: anthropic.F(float64(Temperature)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", errors.New("the model returned no text")
	}
	return text.String(), nil
}
