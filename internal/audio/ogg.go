package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pion/opus/pkg/oggreader"
)

// oggSource demuxes an Ogg/Opus stream into raw opus packets. Discord's
// transport takes the packets as-is, so no transcoding happens here.
type oggSource struct {
	ogg     *oggreader.OggReader
	pending [][]byte
}

func newOggSource(r io.Reader) (*oggSource, error) {
	ogg, _, err := oggreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ogg stream: %w", err)
	}

	return &oggSource{ogg: ogg}, nil
}

func (s *oggSource) NextFrame() ([]byte, error) {
	for len(s.pending) == 0 {
		segments, _, err := s.ogg.ParseNextPage()
		if err != nil {
			// io.EOF propagates as the natural end of the stream.
			return nil, err
		}

		for _, segment := range segments {
			if isOpusMetadata(segment) {
				continue
			}
			s.pending = append(s.pending, segment)
		}
	}

	frame := s.pending[0]
	s.pending = s.pending[1:]

	return frame, nil
}

// isOpusMetadata reports whether a segment is an OpusHead or OpusTags header
// packet rather than audio.
func isOpusMetadata(segment []byte) bool {
	return bytes.HasPrefix(segment, []byte("OpusHead")) || bytes.HasPrefix(segment, []byte("OpusTags"))
}
