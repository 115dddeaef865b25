// Package audio resolves remote audio sources into playable opus frame
// streams, trying candidates in order with a bounded timeout per attempt.
package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrAllSourcesExhausted is returned only after every candidate URL has
// failed or timed out.
var ErrAllSourcesExhausted = errors.New("all audio sources exhausted")

// DefaultAttemptTimeout bounds fetch and probe for a single candidate when
// the request does not carry its own.
const DefaultAttemptTimeout = 8 * time.Second

// Request is a transient description of one playback's candidate sources,
// in fixed priority order.
type Request struct {
	Candidates     []string
	AttemptTimeout time.Duration
}

// Resolver turns a Request into a playable Resource. Candidates are tried in
// order and the first success short-circuits the rest; a single candidate's
// failure is logged, not surfaced.
type Resolver struct {
	logger *zap.Logger
	client *http.Client
}

// NewResolver creates a Resolver. The HTTP client carries no global timeout:
// resolved streams are read for the whole playback, so cancellation is per
// attempt and per resource instead.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{
		logger: logger.Named("audio_resolver"),
		client: &http.Client{},
	}
}

// Resolve fetches and probes candidates until one yields a typed resource.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Resource, error) {
	if len(req.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrAllSourcesExhausted)
	}

	timeout := req.AttemptTimeout
	if timeout <= 0 {
		timeout = DefaultAttemptTimeout
	}

	var failures []error
	for _, candidate := range req.Candidates {
		res, err := r.attempt(ctx, candidate, timeout)
		if err != nil {
			r.logger.Warn("Audio source candidate failed",
				zap.String("url", candidate),
				zap.Error(err))
			failures = append(failures, fmt.Errorf("%s: %w", candidate, err))

			continue
		}

		r.logger.Info("Resolved audio source",
			zap.String("url", candidate),
			zap.String("format", string(res.Format)))

		return res, nil
	}

	return nil, fmt.Errorf("%w: %w", ErrAllSourcesExhausted, errors.Join(failures...))
}

func (r *Resolver) attempt(ctx context.Context, url string, timeout time.Duration) (resource *Resource, err error) {
	// The resolved stream outlives the resolving command, so the fetch is
	// detached from the caller's context; the timer bounds fetch+probe only
	// and is disarmed once the resource is typed.
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	timer := time.AfterFunc(timeout, cancel)

	defer func() {
		if err != nil {
			timer.Stop()
			cancel()
		}
	}()

	req, err := http.NewRequestWithContext(streamCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if streamCtx.Err() != nil {
			return nil, fmt.Errorf("fetch timed out after %s", timeout)
		}

		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()

		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	format, head, err := Probe(resp.Body)
	if err != nil {
		resp.Body.Close()

		return nil, err
	}

	var frames frameSource
	switch format {
	case FormatOggOpus:
		frames, err = newOggSource(head)
	case FormatWAVPCM:
		frames, err = newWAVSource(head)
	}
	if err != nil {
		resp.Body.Close()

		return nil, fmt.Errorf("content probe failed: %w", err)
	}

	// A false Stop means the timer fired during the probe and streamCtx is
	// already cancelled; the resource would fail on its first body read.
	if !timer.Stop() {
		resp.Body.Close()

		return nil, fmt.Errorf("attempt timed out after %s", timeout)
	}

	return &Resource{
		URL:    url,
		Format: format,
		frames: frames,
		body:   resp.Body,
		cancel: cancel,
	}, nil
}
