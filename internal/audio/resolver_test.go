package audio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func wavServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	body := buildWAV(t, 1, 24_000, make([]int16, 2400))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.Write(body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func statusServer(t *testing.T, code int, hits *atomic.Int32) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(code)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestResolve(t *testing.T) {
	t.Run("FirstSuccessShortCircuits", func(t *testing.T) {
		var laterHits atomic.Int32
		primary := wavServer(t, nil)
		fallback := statusServer(t, http.StatusOK, &laterHits)

		resolver := NewResolver(zap.NewNop())
		res, err := resolver.Resolve(context.Background(), Request{
			Candidates: []string{primary.URL, fallback.URL},
		})
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, FormatWAVPCM, res.Format)
		assert.Equal(t, primary.URL, res.URL)
		assert.Zero(t, laterHits.Load(), "later candidates must not be fetched")
	})

	t.Run("FallbackAfterNotFound", func(t *testing.T) {
		var firstHits atomic.Int32
		broken := statusServer(t, http.StatusNotFound, &firstHits)
		working := wavServer(t, nil)

		resolver := NewResolver(zap.NewNop())
		res, err := resolver.Resolve(context.Background(), Request{
			Candidates: []string{broken.URL, working.URL},
		})
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, working.URL, res.URL)
		assert.Equal(t, int32(1), firstHits.Load())
	})

	t.Run("ProbeFailureFallsThrough", func(t *testing.T) {
		// Looks like Ogg but carries garbage, so typing the stream fails.
		junk := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OggS but definitely not a valid page"))
		}))
		t.Cleanup(junk.Close)
		working := wavServer(t, nil)

		resolver := NewResolver(zap.NewNop())
		res, err := resolver.Resolve(context.Background(), Request{
			Candidates: []string{junk.URL, working.URL},
		})
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, working.URL, res.URL)
	})

	t.Run("UnknownFormatFallsThrough", func(t *testing.T) {
		junk := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not audio</html>"))
		}))
		t.Cleanup(junk.Close)
		working := wavServer(t, nil)

		resolver := NewResolver(zap.NewNop())
		res, err := resolver.Resolve(context.Background(), Request{
			Candidates: []string{junk.URL, working.URL},
		})
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, working.URL, res.URL)
	})

	t.Run("AllCandidatesExhausted", func(t *testing.T) {
		first := statusServer(t, http.StatusNotFound, nil)
		second := statusServer(t, http.StatusInternalServerError, nil)

		resolver := NewResolver(zap.NewNop())
		_, err := resolver.Resolve(context.Background(), Request{
			Candidates: []string{first.URL, second.URL},
		})
		require.ErrorIs(t, err, ErrAllSourcesExhausted)
	})

	t.Run("NoCandidates", func(t *testing.T) {
		resolver := NewResolver(zap.NewNop())
		_, err := resolver.Resolve(context.Background(), Request{})
		require.ErrorIs(t, err, ErrAllSourcesExhausted)
	})

	t.Run("StalledCandidateTimesOut", func(t *testing.T) {
		stalled := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		t.Cleanup(stalled.Close)
		working := wavServer(t, nil)

		resolver := NewResolver(zap.NewNop())

		start := time.Now()
		res, err := resolver.Resolve(context.Background(), Request{
			Candidates:     []string{stalled.URL, working.URL},
			AttemptTimeout: 50 * time.Millisecond,
		})
		require.NoError(t, err)
		defer res.Close()

		assert.Equal(t, working.URL, res.URL)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("AcceptedResourceSurvivesTimerRace", func(t *testing.T) {
		// Large enough that draining the stream has to read past the probe
		// buffer and hit the network.
		body := buildWAV(t, 1, 24_000, make([]int16, 40_000))
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write(body)
		}))
		t.Cleanup(srv.Close)

		resolver := NewResolver(zap.NewNop())

		// Timeouts in the microsecond range land on every side of the
		// accept path. An attempt may fail, but a resource it does return
		// must have a live stream: the timer firing after the probe must
		// never cancel an accepted resource's body.
		for i := range 200 {
			res, err := resolver.attempt(context.Background(), srv.URL, time.Duration(i%9+1)*time.Microsecond)
			if err != nil {
				continue
			}

			for {
				_, ferr := res.NextFrame()
				if ferr == io.EOF {
					break
				}
				require.NoError(t, ferr, "accepted resource stream died mid-read")
			}
			res.Close()
		}
	})
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name    string
		head    []byte
		want    Format
		wantErr bool
	}{
		{name: "Ogg", head: []byte("OggS\x00\x02more bytes follow"), want: FormatOggOpus},
		{name: "WAV", head: append([]byte("RIFF\x10\x00\x00\x00"), []byte("WAVEfmt ")...), want: FormatWAVPCM},
		{name: "RIFFButNotWAVE", head: []byte("RIFF\x10\x00\x00\x00AVI LIST"), wantErr: true},
		{name: "Unknown", head: []byte("ID3\x04 some mp3 tag data"), wantErr: true},
		{name: "TooShort", head: []byte("Og"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, head, err := Probe(bytesReader(tt.head))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, format)

			// The probed bytes must still be readable.
			replay := make([]byte, 4)
			_, err = head.Read(replay)
			require.NoError(t, err)
			assert.Equal(t, tt.head[:4], replay)
		})
	}
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}
