package voice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/voice/voicegateway"
	"go.uber.org/zap"
)

// PlayerState enumerates the shared player's states.
type PlayerState int

const (
	PlayerIdle PlayerState = iota
	PlayerBuffering
	PlayerPlaying
	PlayerPaused
	PlayerAutoPaused
)

// String implements fmt.Stringer for state transition logs.
func (s PlayerState) String() string {
	switch s {
	case PlayerIdle:
		return "idle"
	case PlayerBuffering:
		return "buffering"
	case PlayerPlaying:
		return "playing"
	case PlayerPaused:
		return "paused"
	case PlayerAutoPaused:
		return "autopaused"
	default:
		return "unknown"
	}
}

// FrameSource produces 20ms opus frames ready for the voice transport.
// NextFrame returns io.EOF at the natural end of the stream.
type FrameSource interface {
	NextFrame() ([]byte, error)
	Close() error
}

// Playback tracks one Play call. Started settles when the player reaches
// Playing (nil) or fails before that (error); Done settles on the next Idle
// transition or error. Both settle exactly once.
type Playback struct {
	started chan error
	done    chan error
	cancel  context.CancelFunc

	mu    sync.Mutex
	cause error
}

// abort cancels the playback and records the error it should settle with.
// The first cause wins.
func (p *Playback) abort(err error) {
	p.mu.Lock()
	if p.cause == nil {
		p.cause = err
	}
	p.mu.Unlock()

	p.cancel()
}

func (p *Playback) abortCause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cause
}

// Started returns the channel that settles when playback actually begins.
func (p *Playback) Started() <-chan error { return p.started }

// Done returns the channel that settles when playback ends.
func (p *Playback) Done() <-chan error { return p.done }

// AwaitStarted blocks until playback has started, failed, or ctx expired.
func (p *Playback) AwaitStarted(ctx context.Context) error {
	select {
	case err := <-p.started:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AwaitDone blocks until playback has finished, failed, or ctx expired.
func (p *Playback) AwaitDone(ctx context.Context) error {
	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Player wraps the single shared audio player. A new Play while another is
// unsettled supersedes it: the shared transport can carry one resource at a
// time, so the older playback is cancelled and settles with ErrSuperseded.
type Player struct {
	logger   *zap.Logger
	frameDur time.Duration

	mu      sync.Mutex
	state   PlayerState
	conn    Conn
	connErr func(error)
	paused  bool
	current *Playback
}

// NewPlayer creates the process-wide player.
func NewPlayer(logger *zap.Logger) *Player {
	return &Player{
		logger:   logger.Named("player"),
		frameDur: 20 * time.Millisecond,
		state:    PlayerIdle,
	}
}

// Subscribe attaches the player to a voice connection. While detached the
// player auto-pauses instead of dropping frames. onError, when non-nil, is
// notified once a write or speaking call on this connection fails, so the
// connection's owner can mark it dead.
func (p *Player) Subscribe(conn Conn, onError func(error)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conn = conn
	p.connErr = onError
}

// Unsubscribe detaches the player from its connection.
func (p *Player) Unsubscribe() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.conn = nil
	p.connErr = nil
}

// Stop cancels the in-flight playback, if any. Its handles settle with
// ErrStopped.
func (p *Player) Stop() {
	p.mu.Lock()
	pb := p.current
	p.mu.Unlock()

	if pb != nil {
		pb.abort(ErrStopped)
	}
}

// Pause withholds outbound frames without ending the playback or the
// connection.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = true
}

// Resume lifts a Pause.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.paused = false
}

// State returns the player's current state.
func (p *Player) State() PlayerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

// Play starts playback of src and returns its Playback handle. The context
// bounds the whole playback; cancelling it settles the playback.
func (p *Player) Play(ctx context.Context, src FrameSource) *Playback {
	pctx, cancel := context.WithCancel(ctx)
	pb := &Playback{
		started: make(chan error, 1),
		done:    make(chan error, 1),
		cancel:  cancel,
	}

	p.mu.Lock()
	if prev := p.current; prev != nil {
		p.logger.Warn("Superseding in-flight playback: shared player carries one resource at a time")
		prev.abort(ErrSuperseded)
	}
	p.current = pb
	p.setStateLocked(PlayerBuffering)
	p.mu.Unlock()

	go p.pump(pctx, src, pb)

	return pb
}

// pump drives one playback: reads frames from src and writes one to the
// connection every frame interval. It exits, closes src, and settles pb on
// every path so repeated plays leave nothing behind.
func (p *Player) pump(ctx context.Context, src FrameSource, pb *Playback) {
	defer src.Close()

	started := false
	settle := func(err error) {
		if !started {
			pb.started <- err
		}
		pb.done <- err
		pb.cancel()

		p.mu.Lock()
		if p.current == pb {
			p.current = nil
			p.setStateLocked(PlayerIdle)
		}
		p.mu.Unlock()
	}

	ticker := time.NewTicker(p.frameDur)
	defer ticker.Stop()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			switch cause := pb.abortCause(); {
			case cause != nil:
				settle(cause)
			case errors.Is(ctxErr, context.Canceled):
				settle(ErrSuperseded)
			default:
				settle(fmt.Errorf("%w: %v", ErrPlayback, ctxErr))
			}

			return
		}

		conn, paused := p.transport()

		if conn == nil || paused {
			if conn == nil {
				p.transition(PlayerAutoPaused)
			} else {
				p.transition(PlayerPaused)
			}

			select {
			case <-ctx.Done():
			case <-ticker.C:
			}

			continue
		}

		frame, err := src.NextFrame()
		if errors.Is(err, io.EOF) {
			settle(nil)

			return
		}
		if err != nil {
			settle(fmt.Errorf("%w: %v", ErrPlayback, err))

			return
		}

		if !started {
			if err := conn.Speaking(ctx, voicegateway.Microphone); err != nil {
				p.notifyConnError(conn, err)
				settle(fmt.Errorf("%w: %v", ErrPlayback, err))

				return
			}

			started = true
			pb.started <- nil
		}

		p.transition(PlayerPlaying)

		if _, err := conn.Write(frame); err != nil {
			p.notifyConnError(conn, err)
			settle(fmt.Errorf("%w: %v", ErrPlayback, err))

			return
		}

		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
}

// notifyConnError reports a transport failure to the connection's owner. A
// handler is only invoked while its connection is still the subscribed one;
// a stale pump cannot poison a newer session.
func (p *Player) notifyConnError(conn Conn, err error) {
	p.mu.Lock()
	handler := p.connErr
	current := p.conn
	p.mu.Unlock()

	if handler != nil && current == conn {
		handler(err)
	}
}

func (p *Player) transport() (Conn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn, p.paused
}

func (p *Player) transition(state PlayerState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setStateLocked(state)
}

func (p *Player) setStateLocked(state PlayerState) {
	if p.state == state {
		return
	}

	p.logger.Debug("Player state transition",
		zap.Stringer("from", p.state),
		zap.Stringer("to", state))
	p.state = state
}
