package chat

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
)

// OpenAIProvider answers queries with a chat completion. It produces
// text-only replies; playback for these goes through the TTS candidates.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider builds a provider from the openai section of cfg.
func NewOpenAIProvider(cfg *config.Config, logger *zap.Logger) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(cfg.OpenAI.APIKey),
		model:  cfg.OpenAI.Model,
		logger: logger.Named("openai"),
	}
}

func (p *OpenAIProvider) Name() string { return "openai" }

func (p *OpenAIProvider) Ask(ctx context.Context, query string) (*Reply, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful voice assistant. Answer briefly; your replies are read aloud.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: query,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalAPI, err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, fmt.Errorf("%w: empty completion", ErrExternalAPI)
	}

	p.logger.Debug("Chat completion received",
		zap.String("model", resp.Model),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens))

	return &Reply{Text: resp.Choices[0].Message.Content, Speakable: true}, nil
}
