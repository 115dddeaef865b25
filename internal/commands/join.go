package commands

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/voice"
)

// JoinCommand connects the bot to the invoker's voice channel.
type JoinCommand struct {
	logger    *zap.Logger
	sessions  voice.SessionManager
	locator   *ChannelLocator
	responder *Responder
}

func NewJoinCommand(logger *zap.Logger, sessions voice.SessionManager, locator *ChannelLocator, responder *Responder) Command {
	return &JoinCommand{
		logger:    logger,
		sessions:  sessions,
		locator:   locator,
		responder: responder,
	}
}

func (c *JoinCommand) Name() string {
	return "join"
}

func (c *JoinCommand) Description() string {
	return "Join your voice channel"
}

func (c *JoinCommand) Options() []discord.CommandOption {
	return nil
}

func (c *JoinCommand) Execute(ctx context.Context, s *session.Session, e *gateway.InteractionCreateEvent, _ *discord.CommandInteraction) error {
	if e.GuildID == 0 {
		return c.responder.RespondEphemeral(e, "Voice commands only work in servers.")
	}

	channelID, err := c.locator.Locate(e.GuildID, e.SenderID())
	if err != nil {
		return c.responder.RespondEphemeral(e, userMessage(err))
	}

	// Connecting can take longer than the interaction window; acknowledge
	// first and edit the result in.
	if err := c.responder.Ack(e); err != nil {
		return err
	}

	if _, err := c.sessions.EnsureSession(ctx, e.GuildID, channelID); err != nil {
		c.logger.Error("Failed to establish voice session",
			zap.Stringer("guild_id", e.GuildID),
			zap.Stringer("channel_id", channelID),
			zap.Error(err))

		return c.responder.Edit(e, userMessage(err))
	}

	return c.responder.Edit(e, fmt.Sprintf("Joined <#%s>.", channelID))
}
