// Package audio provides the opus codec and PCM framing helpers shared by the
// playback pipeline.
package audio

import (
	"fmt"
	"sync"

	"layeh.com/gopus"
)

// Encoder turns 20-ms frames of 48-kHz interleaved stereo PCM into
// Discord-ready opus packets.
type Encoder struct {
	mu  sync.Mutex
	enc *gopus.Encoder
}

// NewEncoder creates an opus encoder tuned for speech at the Discord clock.
func NewEncoder() (*Encoder, error) {
	enc, err := gopus.NewEncoder(DiscordSampleRate, DiscordChannels, gopus.Voip)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus encoder: %w", err)
	}
	enc.SetBitrate(64_000)

	return &Encoder{enc: enc}, nil
}

// Encode encodes one frame. pcm must hold exactly
// DiscordFrameSize*DiscordChannels interleaved samples.
func (e *Encoder) Encode(pcm []int16) ([]byte, error) {
	if len(pcm) != DiscordFrameSize*DiscordChannels {
		return nil, fmt.Errorf("need %d samples, got %d", DiscordFrameSize*DiscordChannels, len(pcm))
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.enc.Encode(pcm, DiscordFrameSize, maxOpusFrameBytes)
}
