package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solstice-bots/vocalis/internal/config"
)

func TestLoadConfig(t *testing.T) {
	t.Run("MissingBotTokenIsFatal", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "")
		t.Setenv("DISCORD_APPLICATION_ID", "12345")

		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DISCORD_BOT_TOKEN")
	})

	t.Run("MissingApplicationIDIsFatal", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("DISCORD_APPLICATION_ID", "")

		_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DISCORD_APPLICATION_ID")
	})

	t.Run("EnvOnlyWithDefaults", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("DISCORD_APPLICATION_ID", "12345")

		cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		assert.Equal(t, "token", cfg.Discord.BotToken)
		assert.Equal(t, 10*time.Second, cfg.Voice.ConnectTimeout)
		assert.Equal(t, 8*time.Second, cfg.Audio.AttemptTimeout)
		assert.Equal(t, 8080, cfg.Health.Port)
		assert.Equal(t, "ogg", cfg.Character.VoiceFormat)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.Equal(t, 256, cfg.Chat.ReplyCacheSize)
	})

	t.Run("YamlFileOverlaidByEnv", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("DISCORD_APPLICATION_ID", "12345")
		t.Setenv("HEALTH_PORT", "9999")

		path := filepath.Join(t.TempDir(), "config.yaml")
		body := `
log_level: debug
discord:
  guild_ids: ["111", "222"]
audio:
  tts_endpoints:
    - url: "https://tts.example.com/ogg?q=%s"
      format: ogg
    - url: "https://tts.example.com/wav?q=%s"
      format: wav
`
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

		cfg, err := config.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, []string{"111", "222"}, cfg.Discord.GuildIDs)
		require.Len(t, cfg.Audio.TTSEndpoints, 2)
		assert.Equal(t, "ogg", cfg.Audio.TTSEndpoints[0].Format)
		assert.Equal(t, 9999, cfg.Health.Port)
	})

	t.Run("MalformedYaml", func(t *testing.T) {
		t.Setenv("DISCORD_BOT_TOKEN", "token")
		t.Setenv("DISCORD_APPLICATION_ID", "12345")

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("discord: ["), 0o600))

		_, err := config.LoadConfig(path)
		assert.Error(t, err)
	})
}
