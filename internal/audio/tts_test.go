package audio_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solstice-bots/vocalis/internal/audio"
	"github.com/solstice-bots/vocalis/internal/config"
)

func TestTTSCandidates(t *testing.T) {
	endpoints := []config.TTSEndpoint{
		{URL: "https://tts.example.com/ogg?q=%s", Format: "ogg"},
		{URL: "https://tts.example.com/wav?q=%s", Format: "wav"},
	}

	candidates := audio.TTSCandidates(endpoints, "hello there")

	assert.Equal(t, []string{
		"https://tts.example.com/ogg?q=hello+there",
		"https://tts.example.com/wav?q=hello+there",
	}, candidates)
}

func TestTTSCandidatesEmpty(t *testing.T) {
	assert.Empty(t, audio.TTSCandidates(nil, "hello"))
}
