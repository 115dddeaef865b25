package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	pkgaudio "github.com/solstice-bots/vocalis/pkg/audio"
)

const wavPCMFormat = 1 // uncompressed 16-bit PCM

// wavSource frames a WAV PCM stream into 20ms chunks, resamples them to the
// Discord clock, and encodes them to opus.
type wavSource struct {
	r   io.Reader
	enc *pkgaudio.Encoder

	channels        int
	sampleRate      int
	samplesPerFrame int // per channel, at the source rate
	readBuf         []byte
	eof             bool
}

func newWAVSource(r io.Reader) (*wavSource, error) {
	channels, sampleRate, err := parseWAVHeader(r)
	if err != nil {
		return nil, err
	}

	enc, err := pkgaudio.NewEncoder()
	if err != nil {
		return nil, err
	}

	samplesPerFrame := sampleRate * pkgaudio.FrameDurationMs / 1000

	return &wavSource{
		r:               r,
		enc:             enc,
		channels:        channels,
		sampleRate:      sampleRate,
		samplesPerFrame: samplesPerFrame,
		readBuf:         make([]byte, samplesPerFrame*channels*2),
	}, nil
}

func (s *wavSource) NextFrame() ([]byte, error) {
	if s.eof {
		return nil, io.EOF
	}

	n, err := io.ReadFull(s.r, s.readBuf)
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		// Zero-pad the trailing partial frame.
		s.eof = true
		clear(s.readBuf[n:])
	case err != nil:
		return nil, err
	}

	pcm := make([]int16, len(s.readBuf)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(s.readBuf[2*i:]))
	}

	var left, right []int16
	if s.channels == 1 {
		left, right = pcm, pcm
	} else {
		left, right = pkgaudio.Deinterleave(pcm)
	}

	left = pkgaudio.ResampleLinear(left, s.sampleRate, pkgaudio.DiscordSampleRate)
	right = pkgaudio.ResampleLinear(right, s.sampleRate, pkgaudio.DiscordSampleRate)
	left = fitFrame(left)
	right = fitFrame(right)

	return s.enc.Encode(pkgaudio.Interleave(left, right))
}

// fitFrame pads or trims a resampled channel to exactly one frame. Rounding
// in the resampler can leave it a sample or two off.
func fitFrame(ch []int16) []int16 {
	if len(ch) == pkgaudio.DiscordFrameSize {
		return ch
	}
	if len(ch) > pkgaudio.DiscordFrameSize {
		return ch[:pkgaudio.DiscordFrameSize]
	}

	padded := make([]int16, pkgaudio.DiscordFrameSize)
	copy(padded, ch)

	return padded
}

// parseWAVHeader consumes the RIFF header and chunks up to the start of the
// data chunk, returning the stream's channel count and sample rate. Only
// 16-bit PCM is supported.
func parseWAVHeader(r io.Reader) (channels, sampleRate int, err error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return 0, 0, fmt.Errorf("short RIFF header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, 0, errors.New("not a RIFF/WAVE stream")
	}

	var haveFmt bool
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return 0, 0, fmt.Errorf("truncated chunk header: %w", err)
		}

		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			if size < 16 {
				return 0, 0, errors.New("fmt chunk too short")
			}

			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return 0, 0, fmt.Errorf("truncated fmt chunk: %w", err)
			}

			audioFormat := binary.LittleEndian.Uint16(body[0:2])
			channels = int(binary.LittleEndian.Uint16(body[2:4]))
			sampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			bitsPerSample := binary.LittleEndian.Uint16(body[14:16])

			if audioFormat != wavPCMFormat || bitsPerSample != 16 {
				return 0, 0, fmt.Errorf("unsupported WAV encoding: format=%d bits=%d", audioFormat, bitsPerSample)
			}
			if channels != 1 && channels != 2 {
				return 0, 0, fmt.Errorf("unsupported channel count %d", channels)
			}
			if sampleRate <= 0 {
				return 0, 0, fmt.Errorf("invalid sample rate %d", sampleRate)
			}

			haveFmt = true
		case "data":
			if !haveFmt {
				return 0, 0, errors.New("data chunk before fmt chunk")
			}

			return channels, sampleRate, nil
		default:
			// Skip LIST, fact and friends. RIFF chunks are word aligned, so
			// odd-sized ones carry a pad byte after the payload.
			if _, err := io.CopyN(io.Discard, r, int64(size)+int64(size%2)); err != nil {
				return 0, 0, fmt.Errorf("truncated %q chunk: %w", id, err)
			}
		}
	}
}
