package audio

// Format constants shared by the codec and framing layers.
const (
	// Discord voice output.
	DiscordSampleRate = 48_000 // Hz
	DiscordChannels   = 2      // interleaved stereo
	DiscordFrameSize  = 960    // samples per channel (20 ms)

	// FrameDurationMs is the wall-clock length of one opus frame.
	FrameDurationMs = 20

	// maxOpusFrameBytes bounds a single encoded packet.
	maxOpusFrameBytes = 4000
)
