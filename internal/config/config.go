package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DiscordConfig stores Discord credentials and command registration targets.
// Credentials come from the environment; guild ids for command registration
// come from the optional config file.
type DiscordConfig struct {
	BotToken          string   `env:"DISCORD_BOT_TOKEN" yaml:"-"`
	ApplicationID     string   `env:"DISCORD_APPLICATION_ID" yaml:"-"`
	FallbackChannelID string   `env:"DISCORD_FALLBACK_CHANNEL_ID" yaml:"-"`
	GuildIDs          []string `yaml:"guild_ids"`
}

// CharacterConfig stores credentials and endpoint for the external
// conversational character API. The API key is optional; without it the bot
// degrades to another backend.
type CharacterConfig struct {
	APIKey      string        `env:"CHARACTER_API_KEY" yaml:"-"`
	CharacterID string        `env:"CHARACTER_ID" yaml:"-"`
	Endpoint    string        `yaml:"endpoint"`
	VoiceFormat string        `yaml:"voice_format"`
	Timeout     time.Duration `env:"CHARACTER_API_TIMEOUT" envDefault:"15s" yaml:"-"`
}

// OpenAIConfig stores OpenAI specific configurations, used as the secondary
// conversational backend when no character API key is configured.
type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY" yaml:"-"`
	Model  string `yaml:"model"`
}

// TTSEndpoint is one remote text-to-speech source. The URL is a template
// containing a single %s verb for the URL-escaped text.
type TTSEndpoint struct {
	URL    string `yaml:"url"`
	Format string `yaml:"format"`
}

// VoiceConfig stores voice connection tunables.
type VoiceConfig struct {
	ConnectTimeout time.Duration `env:"VOICE_CONNECT_TIMEOUT" envDefault:"10s" yaml:"-"`
}

// AudioConfig stores audio source resolution tunables.
type AudioConfig struct {
	AttemptTimeout time.Duration `env:"AUDIO_ATTEMPT_TIMEOUT" envDefault:"8s" yaml:"-"`
	TTSEndpoints   []TTSEndpoint `yaml:"tts_endpoints"`
}

// HealthConfig stores the liveness endpoint configuration.
type HealthConfig struct {
	Port int `env:"HEALTH_PORT" envDefault:"8080" yaml:"-"`
}

// ChatConfig stores conversational layer tunables.
type ChatConfig struct {
	ReplyCacheSize int `env:"REPLY_CACHE_SIZE" envDefault:"256" yaml:"-"`
}

// Config stores the application configuration. Credentials and timeouts are
// read from the environment (a .env file is honored when present); structured
// lists and model names come from the optional YAML file.
type Config struct {
	Discord   DiscordConfig   `yaml:"discord"`
	Character CharacterConfig `yaml:"character"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Voice     VoiceConfig     `yaml:"voice"`
	Audio     AudioConfig     `yaml:"audio"`
	Health    HealthConfig    `yaml:"health"`
	Chat      ChatConfig      `yaml:"chat"`
	LogLevel  string          `env:"LOG_LEVEL" yaml:"log_level"`
}

// LoadConfig loads the configuration from the given YAML file path (if it
// exists) and then overlays environment variables. Missing Discord
// credentials are a fatal condition.
func LoadConfig(filePath string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(filePath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", filePath, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// The file is optional; env-only configuration is fine.
	default:
		return nil, err
	}

	// Best-effort .env for local development.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Discord.BotToken == "" {
		return nil, errors.New("DISCORD_BOT_TOKEN is not set")
	}
	if cfg.Discord.ApplicationID == "" {
		return nil, errors.New("DISCORD_APPLICATION_ID is not set")
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Character.Endpoint == "" {
		c.Character.Endpoint = "https://api.charstream.io/v1/converse"
	}
	if c.Character.VoiceFormat == "" {
		c.Character.VoiceFormat = "ogg"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o-mini"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}
