package explain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ludo-technologies/pysmell/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	answer string
	err    error
	prompt string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name     string
		req      domain.ExplainRequest
		contains []string
	}{
		{
			name:     "explain",
			req:      domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeExplain},
			contains: []string{"Explain clearly and concisely", "```python\nx = 1\n```"},
		},
		{
			name:     "empty mode explains",
			req:      domain.ExplainRequest{Code: "x = 1"},
			contains: []string{"Explain clearly"},
		},
		{
			name:     "optimize",
			req:      domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeOptimize},
			contains: []string{"more efficient, clean, and Pythonic", "Return only the optimized code block"},
		},
		{
			name:     "refactor named smell",
			req:      domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeRefactor, Smell: "LongMethod"},
			contains: []string{"having a 'LongMethod' code smell", "Return only the refactored code block"},
		},
		{
			name:     "refactor default smell",
			req:      domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeRefactor},
			contains: []string{"having a 'a general smell' code smell"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Prompt(tt.req)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, prompt, s)
			}
		})
	}

	_, err := Prompt(domain.ExplainRequest{Code: "x", Mode: "translate"})
	assert.Equal(t, domain.ErrCodeInvalidInput, domain.ErrorCode(err))
}

func TestParseMode(t *testing.T) {
	mode, err := ParseMode(" Refactor ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExplainModeRefactor, mode)

	_, err = ParseMode("summarize")
	assert.Error(t, err)
}

func TestClientExplain(t *testing.T) {
	fake := &fakeProvider{answer: "\n  It assigns one.  \n"}
	client := NewWithProvider(fake, nil)

	got := client.Explain(context.Background(), domain.ExplainRequest{Code: "x = 1", Mode: domain.ExplainModeExplain})
	assert.Equal(t, "It assigns one.", got)
	assert.Contains(t, fake.prompt, "x = 1")
}

func TestClientExplainFailures(t *testing.T) {
	fake := &fakeProvider{err: errors.New("quota exceeded")}
	client := NewWithProvider(fake, nil)
	got := client.Explain(context.Background(), domain.ExplainRequest{Code: "x = 1"})
	assert.Equal(t, "An error occurred while communicating with the AI service: quota exceeded", got)

	got = client.Explain(context.Background(), domain.ExplainRequest{Code: "x = 1", Mode: "translate"})
	assert.Contains(t, got, "Error: ")
	assert.Contains(t, got, "translate")
}

func TestNewWithoutKey(t *testing.T) {
	for _, provider := range []string{"openai", "anthropic", ""} {
		client, err := New(Config{Provider: provider}, nil)
		require.NoError(t, err)
		assert.Equal(t, MissingKeyMessage, client.Explain(context.Background(), domain.ExplainRequest{Code: "x"}))
	}

	_, err := New(Config{Provider: "gemini", APIKey: "k"}, nil)
	assert.Equal(t, domain.ErrCodeConfigError, domain.ErrorCode(err))
}

func TestOpenAIProvider(t *testing.T) {
	var received struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": " Prints hello. "}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`)
	}))
	defer server.Close()

	client, err := New(Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "test-key", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	got := client.Explain(context.Background(), domain.ExplainRequest{Code: "print('hello')", Mode: domain.ExplainModeExplain})
	assert.Equal(t, "Prints hello.", got)
	assert.Equal(t, "gpt-4o-mini", received.Model)
	require.Len(t, received.Messages, 1)
	assert.Equal(t, "user", received.Messages[0].Role)
	assert.Contains(t, received.Messages[0].Content, "print('hello')")
}

func TestOpenAIProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	client, err := New(Config{Provider: "openai", Model: "gpt-4o-mini", APIKey: "bad", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	got := client.Explain(context.Background(), domain.ExplainRequest{Code: "x = 1"})
	assert.Contains(t, got, "An error occurred while communicating with the AI service:")
	assert.Contains(t, got, "Incorrect API key provided")
}

func TestClaudeProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Contains(t, r.Header.Get("User-Agent"), "pysmell/")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-haiku-latest",
			"content": [{"type": "text", "text": "def f():\n    return 1"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 12, "output_tokens": 6}
		}`)
	}))
	defer server.Close()

	p := newClaudeProvider(Config{Model: "claude-3-5-haiku-latest", APIKey: "test-key", BaseURL: server.URL}, option.WithMaxRetries(0))
	client := NewWithProvider(p, nil)

	got := client.Explain(context.Background(), domain.ExplainRequest{Code: "def f(): return 1", Mode: domain.ExplainModeRefactor, Smell: "LongMethod"})
	assert.Equal(t, "def f():\n    return 1", got)
}
