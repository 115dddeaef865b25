package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/solstice-bots/vocalis/internal/config"
)

func newCharacterProvider(t *testing.T, endpoint string) *CharacterProvider {
	t.Helper()

	cfg := &config.Config{}
	cfg.Character.APIKey = "test-key"
	cfg.Character.CharacterID = "char-42"
	cfg.Character.Endpoint = endpoint
	cfg.Character.VoiceFormat = "ogg"

	return NewCharacterProvider(cfg, zaptest.NewLogger(t))
}

func TestCharacterProviderAsk(t *testing.T) {
	t.Run("reply with audio", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req converseRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "char-42", req.CharacterID)
			assert.Equal(t, "how are you", req.Query)
			assert.Equal(t, "ogg", req.VoiceFormat)

			_ = json.NewEncoder(w).Encode(converseResponse{
				Text:     "I am well.",
				AudioURL: "https://cdn.example/a.ogg",
			})
		}))
		defer srv.Close()

		reply, err := newCharacterProvider(t, srv.URL).Ask(context.Background(), "how are you")
		require.NoError(t, err)
		assert.Equal(t, "I am well.", reply.Text)
		assert.Equal(t, "https://cdn.example/a.ogg", reply.AudioURL)
		assert.True(t, reply.Speakable)
	})

	t.Run("text-only reply is valid", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(converseResponse{Text: "just text"})
		}))
		defer srv.Close()

		reply, err := newCharacterProvider(t, srv.URL).Ask(context.Background(), "q")
		require.NoError(t, err)
		assert.Equal(t, "just text", reply.Text)
		assert.Empty(t, reply.AudioURL)
	})

	t.Run("non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := newCharacterProvider(t, srv.URL).Ask(context.Background(), "q")
		require.ErrorIs(t, err, ErrExternalAPI)
	})

	t.Run("unparseable body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		_, err := newCharacterProvider(t, srv.URL).Ask(context.Background(), "q")
		require.ErrorIs(t, err, ErrExternalAPI)
	})

	t.Run("empty reply text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(converseResponse{})
		}))
		defer srv.Close()

		_, err := newCharacterProvider(t, srv.URL).Ask(context.Background(), "q")
		require.ErrorIs(t, err, ErrExternalAPI)
	})
}

func TestNewProviderSelection(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("character key wins", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Character.APIKey = "ck"
		cfg.OpenAI.APIKey = "ok"

		assert.Equal(t, "character", NewProvider(cfg, logger).Name())
	})

	t.Run("openai as secondary", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.OpenAI.APIKey = "ok"

		assert.Equal(t, "openai", NewProvider(cfg, logger).Name())
	})

	t.Run("echo fallback", func(t *testing.T) {
		cfg := &config.Config{}

		p := NewProvider(cfg, logger)
		assert.Equal(t, "echo", p.Name())

		reply, err := p.Ask(context.Background(), "anyone there?")
		require.NoError(t, err)
		assert.Equal(t, EchoPrefix+"anyone there?", reply.Text)
		assert.False(t, reply.Speakable, "echo replies are never voiced")
	})
}
