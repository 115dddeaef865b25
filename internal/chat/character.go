package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
)

// CharacterProvider talks to the character conversation API. Replies carry
// both the answer text and, when the backend rendered one, a spoken audio URL.
type CharacterProvider struct {
	endpoint    string
	apiKey      string
	characterID string
	voiceFormat string
	client      *http.Client
	logger      *zap.Logger
}

// NewCharacterProvider builds a provider from the character section of cfg.
func NewCharacterProvider(cfg *config.Config, logger *zap.Logger) *CharacterProvider {
	return &CharacterProvider{
		endpoint:    cfg.Character.Endpoint,
		apiKey:      cfg.Character.APIKey,
		characterID: cfg.Character.CharacterID,
		voiceFormat: cfg.Character.VoiceFormat,
		client:      &http.Client{Timeout: cfg.Character.Timeout},
		logger:      logger.Named("character"),
	}
}

func (p *CharacterProvider) Name() string { return "character" }

type converseRequest struct {
	CharacterID string `json:"character_id"`
	Query       string `json:"query"`
	VoiceFormat string `json:"voice_format,omitempty"`
}

type converseResponse struct {
	Text     string `json:"text"`
	AudioURL string `json:"audio_url"`
}

// Ask posts the query to the converse endpoint. A response without an
// audio_url is still a valid text-only reply; an empty or unparseable body
// counts as a backend failure.
func (p *CharacterProvider) Ask(ctx context.Context, query string) (*Reply, error) {
	payload, err := json.Marshal(converseRequest{
		CharacterID: p.characterID,
		Query:       query,
		VoiceFormat: p.voiceFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", ErrExternalAPI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrExternalAPI, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalAPI, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrExternalAPI, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.Warn("Character API returned non-success status",
			zap.Int("status", resp.StatusCode))

		return nil, fmt.Errorf("%w: unexpected status %d", ErrExternalAPI, resp.StatusCode)
	}

	var out converseResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrExternalAPI, err)
	}

	if out.Text == "" {
		return nil, fmt.Errorf("%w: empty reply text", ErrExternalAPI)
	}

	return &Reply{Text: out.Text, AudioURL: out.AudioURL, Speakable: true}, nil
}
