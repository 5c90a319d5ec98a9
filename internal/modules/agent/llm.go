package agent

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// ChatCompleter is the narrow slice of the LLM client the orchestrator uses.
// Tests substitute a scripted implementation.
type ChatCompleter interface {
	Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

type openAICompleter struct {
	client openai.Client
}

// NewOpenAICompleter returns nil when no API key is configured; the service
// treats a nil completer as "agent unavailable".
func NewOpenAICompleter(apiKey string) ChatCompleter {
	if apiKey == "" {
		return nil
	}
	return &openAICompleter{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *openAICompleter) Complete(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}
