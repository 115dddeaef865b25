package voice

import (
	"context"
	"io"
	"sync"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/voice/voicegateway"
)

// SessionState tracks the lifecycle of a guild's voice connection.
type SessionState int

const (
	StateSignalling SessionState = iota
	StateConnecting
	StateReady
	StateDisconnected
	StateDestroyed
)

// String implements fmt.Stringer for state transition logs.
func (s SessionState) String() string {
	switch s {
	case StateSignalling:
		return "signalling"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StateDisconnected:
		return "disconnected"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Conn is the subset of the platform voice transport the session manager and
// player depend on. One opus frame is delivered per Write call.
type Conn interface {
	io.Writer
	Speaking(ctx context.Context, flag voicegateway.SpeakingFlag) error
	Leave(ctx context.Context) error
}

// Session is the live connection between the bot and a voice channel in one
// guild. It is owned by the SessionManager; other components hold a reference
// for at most one operation.
type Session struct {
	GuildID   discord.GuildID
	ChannelID discord.ChannelID

	mu    sync.Mutex
	state SessionState
	conn  Conn
}

// State returns the session's current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Conn returns the underlying voice connection, or nil before Ready.
func (s *Session) Conn() Conn {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn
}

func (s *Session) setState(state SessionState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *Session) setConn(conn Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
}
