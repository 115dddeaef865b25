// Package discord provides Discord-related infrastructure and Fx modules.
package discord

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/diamondburned/arikawa/v3/state/store/defaultstore"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
)

// Module provides Discord-related dependencies.
var Module = fx.Module("discord",
	fx.Provide(
		NewSession,
		NewState,
		ProvideApplicationID,
	),
)

// SessionParams holds dependencies for NewSession.
type SessionParams struct {
	fx.In
	Cfg    *config.Config
	LC     fx.Lifecycle
	Logger *zap.Logger
}

// NewSession creates a gateway session whose lifetime is tied to the Fx
// lifecycle. Voice state intents are required for resolving the invoking
// user's voice channel.
func NewSession(params SessionParams) *session.Session {
	s := session.New("Bot " + params.Cfg.Discord.BotToken)
	s.AddIntents(gateway.IntentGuilds | gateway.IntentGuildMessages | gateway.IntentGuildVoiceStates)

	params.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			params.Logger.Info("Opening Discord session...")

			return s.Open(ctx)
		},
		OnStop: func(ctx context.Context) error {
			params.Logger.Info("Closing Discord session...")

			return s.Close()
		},
	})

	return s
}

// NewState creates a State wrapper around the Session with default stores.
// Voice states are read from it when resolving the join target.
func NewState(s *session.Session, logger *zap.Logger) *state.State {
	st := state.NewFromSession(s, defaultstore.New())

	logger.Info("Created Discord state from session with default stores")

	return st
}

// ProvideApplicationID parses the application ID from config.
func ProvideApplicationID(cfg *config.Config, logger *zap.Logger) (discord.AppID, error) {
	snowflake, err := discord.ParseSnowflake(cfg.Discord.ApplicationID)
	if err != nil {
		return 0, fmt.Errorf("invalid application ID %q: %w", cfg.Discord.ApplicationID, err)
	}

	appID := discord.AppID(snowflake)
	logger.Info("Providing Discord AppID", zap.Stringer("appID", appID))

	return appID, nil
}
