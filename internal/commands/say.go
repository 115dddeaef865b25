package commands

import (
	"context"
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/audio"
	"github.com/solstice-bots/vocalis/internal/config"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// SayCommand speaks the given text in the invoker's voice channel, joining it
// first if needed. The speech audio is fetched from the configured remote TTS
// endpoints in priority order.
type SayCommand struct {
	logger    *zap.Logger
	cfg       *config.Config
	sessions  voice.SessionManager
	locator   *ChannelLocator
	resolver  *audio.Resolver
	player    *voice.Player
	responder *Responder
}

func NewSayCommand(
	logger *zap.Logger,
	cfg *config.Config,
	sessions voice.SessionManager,
	locator *ChannelLocator,
	resolver *audio.Resolver,
	player *voice.Player,
	responder *Responder,
) Command {
	return &SayCommand{
		logger:    logger,
		cfg:       cfg,
		sessions:  sessions,
		locator:   locator,
		resolver:  resolver,
		player:    player,
		responder: responder,
	}
}

func (c *SayCommand) Name() string {
	return "say"
}

func (c *SayCommand) Description() string {
	return "Speak text in your voice channel"
}

func (c *SayCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.StringOption{
			OptionName:  "text",
			Description: "What to say",
			Required:    true,
		},
	}
}

func (c *SayCommand) Execute(ctx context.Context, s *session.Session, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if e.GuildID == 0 {
		return c.responder.RespondEphemeral(e, "Voice commands only work in servers.")
	}

	var text string
	for _, opt := range data.Options {
		if opt.Name == "text" {
			text = opt.String()
		}
	}
	if text == "" {
		return c.responder.RespondEphemeral(e, "Give me something to say.")
	}

	candidates := audio.TTSCandidates(c.cfg.Audio.TTSEndpoints, text)
	if len(candidates) == 0 {
		return c.responder.RespondEphemeral(e, "No speech endpoints are configured.")
	}

	channelID, err := c.locator.Locate(e.GuildID, e.SenderID())
	if err != nil {
		return c.responder.RespondEphemeral(e, userMessage(err))
	}

	if err := c.responder.Ack(e); err != nil {
		return err
	}

	if _, err := c.sessions.EnsureSession(ctx, e.GuildID, channelID); err != nil {
		return c.responder.Edit(e, userMessage(err))
	}

	resource, err := c.resolver.Resolve(ctx, audio.Request{
		Candidates:     candidates,
		AttemptTimeout: c.cfg.Audio.AttemptTimeout,
	})
	if err != nil {
		c.logger.Warn("No speech source could be resolved",
			zap.Int("candidates", len(candidates)),
			zap.Error(err))

		return c.responder.Edit(e, userMessage(err))
	}

	// Playback outlives the interaction; only its start is awaited here.
	playback := c.player.Play(context.WithoutCancel(ctx), resource)
	if err := playback.AwaitStarted(ctx); err != nil {
		return c.responder.Edit(e, userMessage(err))
	}

	return c.responder.Edit(e, fmt.Sprintf("Speaking in <#%s>.", channelID))
}
