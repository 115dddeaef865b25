package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"

	"github.com/solstice-bots/vocalis/internal/chat"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// ResumeCommand lifts a pause.
type ResumeCommand struct {
	gate      *chat.Gate
	player    *voice.Player
	responder *Responder
}

func NewResumeCommand(gate *chat.Gate, player *voice.Player, responder *Responder) Command {
	return &ResumeCommand{gate: gate, player: player, responder: responder}
}

func (c *ResumeCommand) Name() string {
	return "resume"
}

func (c *ResumeCommand) Description() string {
	return "Resume playback and question handling"
}

func (c *ResumeCommand) Options() []discord.CommandOption {
	return nil
}

func (c *ResumeCommand) Execute(_ context.Context, s *session.Session, e *gateway.InteractionCreateEvent, _ *discord.CommandInteraction) error {
	c.gate.SetPaused(false)
	c.player.Resume()

	return c.responder.Respond(e, "Resumed.")
}
