package explain

import (
	"context"
	"errors"

	"github.com/sashabaranov/go-openai"
)

// openAIProvider talks to OpenAI or any OpenAI-compatible endpoint.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAIProvider(cfg Config) *openAIProvider {
	clientConfig := openai.DefaultConfig(cfg.APIKey)

	// Support custom base URLs for OpenAI-compatible APIs (Groq, Ollama, etc.)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &openAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		model:  cfg.Model,
	}
}

func (p *openAIProvider) Name() string {
	return "openai"
}

func (p *openAIProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("the model returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
