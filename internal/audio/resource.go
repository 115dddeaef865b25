package audio

import (
	"context"
	"io"
)

// frameSource yields 20ms opus frames from a decoded container.
type frameSource interface {
	NextFrame() ([]byte, error)
}

// Resource is a probed, typed stream ready for playback. It is owned by the
// playback engine from the moment it is handed over until playback ends or
// errors; Close releases the underlying network stream.
type Resource struct {
	URL    string
	Format Format

	frames frameSource
	body   io.Closer
	cancel context.CancelFunc
}

// NextFrame returns the next opus frame, or io.EOF at the natural end of the
// stream.
func (r *Resource) NextFrame() ([]byte, error) {
	return r.frames.NextFrame()
}

// Close aborts the underlying fetch and releases the stream.
func (r *Resource) Close() error {
	if r.cancel != nil {
		r.cancel()
	}
	if r.body != nil {
		return r.body.Close()
	}

	return nil
}
