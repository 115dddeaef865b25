package commands

import (
	"fmt"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/state"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// voiceStateSource is the slice of the gateway state the locator reads.
// *state.State satisfies it.
type voiceStateSource interface {
	VoiceState(guildID discord.GuildID, userID discord.UserID) (*discord.VoiceState, error)
	VoiceStates(guildID discord.GuildID) ([]discord.VoiceState, error)
}

// ChannelLocator resolves which voice channel a command should target: the
// invoker's current channel when the state knows it, otherwise the configured
// fallback channel.
type ChannelLocator struct {
	states   voiceStateSource
	fallback discord.ChannelID
	logger   *zap.Logger
}

func NewChannelLocator(st *state.State, cfg *config.Config, logger *zap.Logger) (*ChannelLocator, error) {
	var fallback discord.ChannelID
	if cfg.Discord.FallbackChannelID != "" {
		sf, err := discord.ParseSnowflake(cfg.Discord.FallbackChannelID)
		if err != nil {
			return nil, fmt.Errorf("invalid fallback channel id %q: %w", cfg.Discord.FallbackChannelID, err)
		}
		fallback = discord.ChannelID(sf)
	}

	return newChannelLocator(st, fallback, logger), nil
}

func newChannelLocator(states voiceStateSource, fallback discord.ChannelID, logger *zap.Logger) *ChannelLocator {
	return &ChannelLocator{
		states:   states,
		fallback: fallback,
		logger:   logger.Named("channel_locator"),
	}
}

// Locate returns the voice channel to join for userID in guildID. It returns
// voice.ErrChannelUnavailable when the user is not in a voice channel and no
// fallback is configured.
func (l *ChannelLocator) Locate(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, error) {
	if ch, ok := l.userVoiceChannel(guildID, userID); ok {
		return ch, nil
	}

	if l.fallback.IsValid() {
		l.logger.Debug("User not in a voice channel, using fallback",
			zap.Stringer("user_id", userID),
			zap.Stringer("channel_id", l.fallback))

		return l.fallback, nil
	}

	return 0, voice.ErrChannelUnavailable
}

func (l *ChannelLocator) userVoiceChannel(guildID discord.GuildID, userID discord.UserID) (discord.ChannelID, bool) {
	vs, err := l.states.VoiceState(guildID, userID)
	if err == nil && vs != nil && vs.ChannelID.IsValid() {
		return vs.ChannelID, true
	}

	// The cached lookup can miss; scan the guild's voice states before giving
	// up on the user.
	all, err := l.states.VoiceStates(guildID)
	if err != nil {
		l.logger.Debug("Failed to query guild voice states",
			zap.Stringer("guild_id", guildID),
			zap.Error(err))

		return 0, false
	}

	for _, vs := range all {
		if vs.UserID == userID && vs.ChannelID.IsValid() {
			return vs.ChannelID, true
		}
	}

	return 0, false
}
