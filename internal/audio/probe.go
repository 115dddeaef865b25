package audio

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Format identifies a supported audio container.
type Format string

const (
	FormatOggOpus Format = "ogg/opus"
	FormatWAVPCM  Format = "wav/pcm"
)

// ErrUnknownFormat is returned when the stream head matches no supported
// container.
var ErrUnknownFormat = errors.New("unrecognized audio format")

// probeLen covers the RIFF/WAVE signature, the longest magic we check.
const probeLen = 12

// Probe inspects the head of the stream and determines its container type
// without consuming it. The returned reader replays the probed bytes.
func Probe(r io.Reader) (Format, *bufio.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(probeLen)
	if err != nil && len(head) < 4 {
		return "", nil, fmt.Errorf("%w: stream too short: %v", ErrUnknownFormat, err)
	}

	switch {
	case bytes.HasPrefix(head, []byte("OggS")):
		return FormatOggOpus, br, nil
	case bytes.HasPrefix(head, []byte("RIFF")) && len(head) >= probeLen && bytes.Equal(head[8:12], []byte("WAVE")):
		return FormatWAVPCM, br, nil
	default:
		return "", nil, ErrUnknownFormat
	}
}
