package commands

import (
	"context"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/audio"
	"github.com/solstice-bots/vocalis/internal/chat"
	"github.com/solstice-bots/vocalis/internal/config"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// AskCommand relays a question to the conversational backend and speaks the
// reply. When no voice channel can be used the answer still lands as text.
type AskCommand struct {
	logger    *zap.Logger
	cfg       *config.Config
	chat      *chat.Service
	sessions  voice.SessionManager
	locator   *ChannelLocator
	resolver  *audio.Resolver
	player    *voice.Player
	responder *Responder
}

func NewAskCommand(
	logger *zap.Logger,
	cfg *config.Config,
	chatService *chat.Service,
	sessions voice.SessionManager,
	locator *ChannelLocator,
	resolver *audio.Resolver,
	player *voice.Player,
	responder *Responder,
) Command {
	return &AskCommand{
		logger:    logger,
		cfg:       cfg,
		chat:      chatService,
		sessions:  sessions,
		locator:   locator,
		resolver:  resolver,
		player:    player,
		responder: responder,
	}
}

func (c *AskCommand) Name() string {
	return "ask"
}

func (c *AskCommand) Description() string {
	return "Ask a question; the reply is spoken in your voice channel"
}

func (c *AskCommand) Options() []discord.CommandOption {
	return []discord.CommandOption{
		&discord.StringOption{
			OptionName:  "question",
			Description: "What to ask",
			Required:    true,
		},
	}
}

func (c *AskCommand) Execute(ctx context.Context, s *session.Session, e *gateway.InteractionCreateEvent, data *discord.CommandInteraction) error {
	if e.GuildID == 0 {
		return c.responder.RespondEphemeral(e, "Voice commands only work in servers.")
	}

	var question string
	for _, opt := range data.Options {
		if opt.Name == "question" {
			question = opt.String()
		}
	}
	if question == "" {
		return c.responder.RespondEphemeral(e, "Ask something.")
	}

	if err := c.responder.Ack(e); err != nil {
		return err
	}

	reply, err := c.chat.Ask(ctx, question)
	if err != nil {
		c.logger.Warn("Conversational backend failed",
			zap.String("question", question),
			zap.Error(err))

		return c.responder.Edit(e, userMessage(err))
	}

	if note := c.speak(ctx, e, reply); note != "" {
		return c.responder.Edit(e, reply.Text+"\n\n"+note)
	}

	return c.responder.Edit(e, reply.Text)
}

// speak plays the spoken rendition of reply in the invoker's voice channel.
// It returns a short note for the text response when voice delivery was not
// possible; an empty note means either audio is playing or the reply is not
// meant to be voiced.
func (c *AskCommand) speak(ctx context.Context, e *gateway.InteractionCreateEvent, reply *chat.Reply) string {
	// Echo replies are never voiced; the text already is the whole answer.
	if !reply.Speakable {
		return ""
	}

	channelID, err := c.locator.Locate(e.GuildID, e.SenderID())
	if err != nil {
		return "(text only: " + userMessage(err) + ")"
	}

	if _, err := c.sessions.EnsureSession(ctx, e.GuildID, channelID); err != nil {
		c.logger.Warn("Voice session unavailable for spoken reply",
			zap.Stringer("guild_id", e.GuildID),
			zap.Error(err))

		return "(text only: " + userMessage(err) + ")"
	}

	var candidates []string
	if reply.AudioURL != "" {
		candidates = append(candidates, reply.AudioURL)
	}
	candidates = append(candidates, audio.TTSCandidates(c.cfg.Audio.TTSEndpoints, reply.Text)...)

	if len(candidates) == 0 {
		return "(text only: no speech sources configured)"
	}

	resource, err := c.resolver.Resolve(ctx, audio.Request{
		Candidates:     candidates,
		AttemptTimeout: c.cfg.Audio.AttemptTimeout,
	})
	if err != nil {
		c.logger.Warn("No speech source could be resolved", zap.Error(err))

		return "(text only: " + userMessage(err) + ")"
	}

	playback := c.player.Play(context.WithoutCancel(ctx), resource)
	if err := playback.AwaitStarted(ctx); err != nil {
		return "(text only: " + userMessage(err) + ")"
	}

	return ""
}
