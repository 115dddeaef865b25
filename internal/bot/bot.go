// Package bot wires the gateway session, command registration and
// interaction dispatch together.
package bot

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/commands"
	"github.com/solstice-bots/vocalis/internal/config"
)

// Bot owns command registration for the configured guilds and routes
// incoming interactions to the command manager.
type Bot struct {
	session    *session.Session
	cfg        *config.Config
	cmdManager *commands.CommandManager
	logger     *zap.Logger
}

// NewBotParameters holds dependencies for NewBot.
type NewBotParameters struct {
	fx.In

	Cfg        *config.Config
	Session    *session.Session
	CmdManager *commands.CommandManager
	Logger     *zap.Logger
}

// NewBot creates the bot and attaches the interaction handler. The session
// itself is opened by the Fx lifecycle.
func NewBot(params NewBotParameters) *Bot {
	b := &Bot{
		session:    params.Session,
		cfg:        params.Cfg,
		cmdManager: params.CmdManager,
		logger:     params.Logger,
	}

	params.Session.AddHandler(func(e *gateway.InteractionCreateEvent) {
		b.handleInteraction(context.Background(), e)
	})

	return b
}

// Start registers the slash commands for every configured guild.
func (b *Bot) Start() error {
	guildIDs := b.guildIDs()
	if len(guildIDs) == 0 {
		b.logger.Warn("No guild IDs configured; no slash commands will be registered")

		return nil
	}

	b.cmdManager.RegisterCommands(guildIDs)

	return nil
}

// Stop unregisters the commands so stale entries don't linger in guilds.
func (b *Bot) Stop() error {
	b.cmdManager.UnregisterAllCommands(b.guildIDs())

	return nil
}

func (b *Bot) guildIDs() []discord.GuildID {
	ids := make([]discord.GuildID, 0, len(b.cfg.Discord.GuildIDs))
	for _, idStr := range b.cfg.Discord.GuildIDs {
		sf, err := discord.ParseSnowflake(idStr)
		if err != nil {
			b.logger.Error("Skipping invalid guild ID",
				zap.String("guild_id", idStr),
				zap.Error(err))

			continue
		}

		ids = append(ids, discord.GuildID(sf))
	}

	return ids
}
