package commands

import (
	"errors"

	"github.com/solstice-bots/vocalis/internal/audio"
	"github.com/solstice-bots/vocalis/internal/chat"
	"github.com/solstice-bots/vocalis/internal/voice"
)

// userMessage maps internal failures to the short messages shown in chat.
// Unknown errors get a generic line; details stay in the logs.
func userMessage(err error) string {
	switch {
	case errors.Is(err, voice.ErrChannelUnavailable):
		return "Join a voice channel first, or configure a fallback channel."
	case errors.Is(err, voice.ErrConnectTimeout):
		return "Timed out connecting to the voice channel. Try again."
	case errors.Is(err, voice.ErrConnect):
		return "Could not connect to the voice channel."
	case errors.Is(err, voice.ErrSuperseded):
		return "Playback was replaced by a newer request."
	case errors.Is(err, voice.ErrStopped):
		return "Playback was stopped."
	case errors.Is(err, voice.ErrPlayback):
		return "Playback failed."
	case errors.Is(err, audio.ErrAllSourcesExhausted):
		return "None of the audio sources could be played."
	case errors.Is(err, chat.ErrPaused):
		return "Interactions are paused. Use /resume first."
	case errors.Is(err, chat.ErrExternalAPI):
		return "The conversational backend did not answer. Try again later."
	default:
		return "Something went wrong while handling the command."
	}
}
