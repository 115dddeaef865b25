package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"

	"github.com/solstice-bots/vocalis/internal/voice"
)

// LeaveCommand disconnects the bot from the guild's voice channel.
type LeaveCommand struct {
	sessions  voice.SessionManager
	responder *Responder
}

func NewLeaveCommand(sessions voice.SessionManager, responder *Responder) Command {
	return &LeaveCommand{sessions: sessions, responder: responder}
}

func (c *LeaveCommand) Name() string {
	return "leave"
}

func (c *LeaveCommand) Description() string {
	return "Leave the voice channel"
}

func (c *LeaveCommand) Options() []discord.CommandOption {
	return nil
}

func (c *LeaveCommand) Execute(ctx context.Context, s *session.Session, e *gateway.InteractionCreateEvent, _ *discord.CommandInteraction) error {
	if e.GuildID == 0 {
		return c.responder.RespondEphemeral(e, "Voice commands only work in servers.")
	}

	if _, ok := c.sessions.Session(e.GuildID); !ok {
		return c.responder.RespondEphemeral(e, "Not in a voice channel.")
	}

	c.sessions.DestroySession(ctx, e.GuildID)

	return c.responder.Respond(e, "Left the voice channel.")
}
