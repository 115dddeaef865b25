package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"

	"github.com/solstice-bots/vocalis/internal/chat"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// PauseCommand stops outbound audio and blocks new backend calls until
// resume. The voice connection stays up.
type PauseCommand struct {
	gate      *chat.Gate
	player    *voice.Player
	responder *Responder
}

func NewPauseCommand(gate *chat.Gate, player *voice.Player, responder *Responder) Command {
	return &PauseCommand{gate: gate, player: player, responder: responder}
}

func (c *PauseCommand) Name() string {
	return "pause"
}

func (c *PauseCommand) Description() string {
	return "Pause playback and question handling"
}

func (c *PauseCommand) Options() []discord.CommandOption {
	return nil
}

func (c *PauseCommand) Execute(_ context.Context, s *session.Session, e *gateway.InteractionCreateEvent, _ *discord.CommandInteraction) error {
	c.gate.SetPaused(true)
	c.player.Pause()

	return c.responder.Respond(e, "Paused. Playback and questions are on hold.")
}
