// Package chat relays questions to a conversational backend and gates those
// calls behind the process-wide pause flag.
package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
)

// ErrExternalAPI wraps failures of the external conversational backend.
var ErrExternalAPI = errors.New("conversational API error")

// EchoPrefix marks replies produced without any configured backend.
const EchoPrefix = "[no backend configured] "

// Reply is a conversational answer. AudioURL is optional; when present it
// points at a spoken rendition of Text. Speakable is false for the echo
// fallback, whose replies are never voiced.
type Reply struct {
	Text      string `json:"text"`
	AudioURL  string `json:"audio_url,omitempty"`
	Speakable bool   `json:"-"`
}

// Provider answers free-text queries.
type Provider interface {
	Name() string
	Ask(ctx context.Context, query string) (*Reply, error)
}

// NewProvider selects the backend from available credentials: the character
// API when its key is configured, OpenAI as the secondary backend, and the
// echo fallback when neither credential is present.
func NewProvider(cfg *config.Config, logger *zap.Logger) Provider {
	switch {
	case cfg.Character.APIKey != "":
		logger.Info("Using character API conversational backend",
			zap.String("endpoint", cfg.Character.Endpoint))

		return NewCharacterProvider(cfg, logger)
	case cfg.OpenAI.APIKey != "":
		logger.Info("Using OpenAI conversational backend",
			zap.String("model", cfg.OpenAI.Model))

		return NewOpenAIProvider(cfg, logger)
	default:
		logger.Warn("No conversational credentials configured; falling back to echo")

		return NewEchoProvider()
	}
}
