package voice

import "errors"

var (
	// ErrChannelUnavailable is returned when no voice channel can be resolved
	// for a join: the invoking user is not in one and no fallback is configured.
	ErrChannelUnavailable = errors.New("no voice channel available")

	// ErrConnectTimeout is returned when the voice connection does not reach
	// Ready within the configured interval.
	ErrConnectTimeout = errors.New("voice connection timed out")

	// ErrConnect is returned on lower-level signalling failure while
	// establishing the voice connection.
	ErrConnect = errors.New("voice connection failed")

	// ErrPlayback is returned when the player errors before or during playback.
	ErrPlayback = errors.New("playback failed")

	// ErrSuperseded settles a playback that was cancelled by a newer Play call
	// on the shared player.
	ErrSuperseded = errors.New("playback superseded")

	// ErrStopped settles a playback that was cancelled by Stop, which happens
	// when its session is destroyed mid-play.
	ErrStopped = errors.New("playback stopped")
)
