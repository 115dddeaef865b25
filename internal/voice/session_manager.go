package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/voice"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/solstice-bots/vocalis/internal/config"
)

// Connector establishes a voice connection to a channel. It blocks until the
// connection is ready or the context expires.
type Connector func(ctx context.Context, channelID discord.ChannelID) (Conn, error)

// NewGatewayConnector builds a Connector on top of the gateway session.
func NewGatewayConnector(s *session.Session) Connector {
	return func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
		vs, err := voice.NewSession(s)
		if err != nil {
			return nil, fmt.Errorf("failed to create voice session: %w", err)
		}

		// Muted sending is pointless and receiving is out of scope, so join
		// unmuted and deafened.
		if err := vs.JoinChannel(ctx, channelID, false, true); err != nil {
			return nil, err
		}

		return vs, nil
	}
}

// SessionManager owns the voice session registry, one entry per guild. Only
// the manager creates or destroys connections.
type SessionManager interface {
	// EnsureSession returns the guild's session, creating and connecting one
	// if none is live. Calling it twice never creates two connections.
	EnsureSession(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (*Session, error)

	// DestroySession tears down the guild's connection. No-op when there is
	// none; idempotent.
	DestroySession(ctx context.Context, guildID discord.GuildID)

	// Session returns the guild's session without creating one.
	Session(guildID discord.GuildID) (*Session, bool)
}

type sessionManager struct {
	logger         *zap.Logger
	connect        Connector
	player         *Player
	connectTimeout time.Duration

	mu       sync.RWMutex
	sessions map[discord.GuildID]*Session

	// joins collapses concurrent EnsureSession calls for the same guild so a
	// connection is created exactly once.
	joins singleflight.Group
}

// NewSessionManager creates a SessionManager backed by the given connector
// and the process-wide shared player.
func NewSessionManager(logger *zap.Logger, cfg *config.Config, connect Connector, player *Player) SessionManager {
	return &sessionManager{
		logger:         logger.Named("voice_session_manager"),
		connect:        connect,
		player:         player,
		connectTimeout: cfg.Voice.ConnectTimeout,
		sessions:       make(map[discord.GuildID]*Session),
	}
}

func (m *sessionManager) EnsureSession(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (*Session, error) {
	if s, ok := m.liveSession(guildID); ok {
		m.logger.Debug("Reusing existing voice session",
			zap.Stringer("guild_id", guildID),
			zap.Stringer("state", s.State()))

		return s, nil
	}

	v, err, _ := m.joins.Do(guildID.String(), func() (any, error) {
		// A concurrent call may have finished connecting while this one was
		// queued behind the flight.
		if s, ok := m.liveSession(guildID); ok {
			return s, nil
		}

		return m.createSession(ctx, guildID, channelID)
	})
	if err != nil {
		return nil, err
	}

	return v.(*Session), nil
}

func (m *sessionManager) createSession(ctx context.Context, guildID discord.GuildID, channelID discord.ChannelID) (*Session, error) {
	s := &Session{
		GuildID:   guildID,
		ChannelID: channelID,
		state:     StateSignalling,
	}

	m.logState(s, StateSignalling)

	connectCtx, cancel := context.WithTimeout(ctx, m.connectTimeout)
	defer cancel()

	s.setState(StateConnecting)
	m.logState(s, StateConnecting)

	conn, err := m.connect(connectCtx, channelID)
	if err != nil {
		s.setState(StateDestroyed)

		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrConnectTimeout, m.connectTimeout)
		}

		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	s.setConn(conn)
	s.setState(StateReady)
	m.logState(s, StateReady)

	// A session's connection is never subscribed to more than one player;
	// there is exactly one player in the process. A post-Ready transport
	// failure comes back through the error callback.
	m.player.Subscribe(conn, func(err error) {
		m.connectionLost(s, err)
	})

	m.mu.Lock()
	m.sessions[guildID] = s
	m.mu.Unlock()

	m.logger.Info("Voice session established",
		zap.Stringer("guild_id", guildID),
		zap.Stringer("channel_id", channelID))

	return s, nil
}

// connectionLost marks a session Disconnected after a post-Ready transport
// failure. The registry entry stays; liveSession evicts it on the next
// command, which then connects fresh. No background reconnection.
func (m *sessionManager) connectionLost(s *Session, err error) {
	if s.State() != StateReady {
		return
	}

	s.setState(StateDisconnected)
	m.logger.Warn("Voice connection lost",
		zap.Stringer("guild_id", s.GuildID),
		zap.Stringer("channel_id", s.ChannelID),
		zap.Error(err))
}

func (m *sessionManager) DestroySession(ctx context.Context, guildID discord.GuildID) {
	m.mu.Lock()
	s, ok := m.sessions[guildID]
	if ok {
		delete(m.sessions, guildID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	// An in-flight playback must not survive the session and resume into
	// whatever connection comes next.
	m.player.Stop()
	m.player.Unsubscribe()

	if conn := s.Conn(); conn != nil {
		if err := conn.Leave(ctx); err != nil {
			m.logger.Warn("Failed to leave voice channel cleanly",
				zap.Stringer("guild_id", guildID),
				zap.Error(err))
		}
	}

	s.setState(StateDestroyed)
	m.logState(s, StateDestroyed)
}

func (m *sessionManager) Session(guildID discord.GuildID) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[guildID]

	return s, ok
}

// liveSession returns the guild's session when it is usable for playback.
// Disconnected and Destroyed sessions are dropped from the registry so the
// next command creates a fresh one.
func (m *sessionManager) liveSession(guildID discord.GuildID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[guildID]
	if !ok {
		return nil, false
	}

	switch s.State() {
	case StateDisconnected, StateDestroyed:
		delete(m.sessions, guildID)

		return nil, false
	default:
		return s, true
	}
}

func (m *sessionManager) logState(s *Session, state SessionState) {
	m.logger.Debug("Voice session state transition",
		zap.Stringer("guild_id", s.GuildID),
		zap.Stringer("channel_id", s.ChannelID),
		zap.Stringer("state", state))
}
