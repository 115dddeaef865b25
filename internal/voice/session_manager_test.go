package voice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solstice-bots/vocalis/internal/config"
)

const (
	testGuildID   = discord.GuildID(1001)
	testChannelID = discord.ChannelID(2002)
)

func testManagerConfig(timeout time.Duration) *config.Config {
	return &config.Config{
		Voice: config.VoiceConfig{ConnectTimeout: timeout},
	}
}

func TestEnsureSession(t *testing.T) {
	t.Run("IdempotentReuse", func(t *testing.T) {
		var connects atomic.Int32
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			connects.Add(1)

			return &fakeConn{}, nil
		}

		m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, newTestPlayer())

		first, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)
		require.Equal(t, StateReady, first.State())

		second, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, int32(1), connects.Load())
	})

	t.Run("ConcurrentCallsCreateOneConnection", func(t *testing.T) {
		var connects atomic.Int32
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			connects.Add(1)
			time.Sleep(50 * time.Millisecond)

			return &fakeConn{}, nil
		}

		m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, newTestPlayer())

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()

				_, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), connects.Load())
	})

	t.Run("ConnectTimeout", func(t *testing.T) {
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			<-ctx.Done()

			return nil, ctx.Err()
		}

		m := NewSessionManager(zap.NewNop(), testManagerConfig(30*time.Millisecond), connector, newTestPlayer())

		_, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.ErrorIs(t, err, ErrConnectTimeout)

		_, ok := m.Session(testGuildID)
		assert.False(t, ok, "failed connect must not register a session")
	})

	t.Run("ConnectError", func(t *testing.T) {
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			return nil, errors.New("signalling refused")
		}

		m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, newTestPlayer())

		_, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.ErrorIs(t, err, ErrConnect)
	})

	t.Run("TransportFailureEvictsSession", func(t *testing.T) {
		var connects atomic.Int32
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			connects.Add(1)
			if connects.Load() == 1 {
				return &fakeConn{writeErr: errors.New("udp closed")}, nil
			}

			return &fakeConn{}, nil
		}

		player := newTestPlayer()
		m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, player)

		first, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)

		// The drop surfaces through playback failing on the dead transport.
		pb := player.Play(context.Background(), newFakeSource(5))
		require.ErrorIs(t, pb.AwaitDone(testCtx(t)), ErrPlayback)

		assert.NotEqual(t, StateReady, first.State(),
			"session must leave Ready after a post-Ready connection failure")

		second, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)

		assert.NotSame(t, first, second, "dead session must not be reused")
		assert.Equal(t, StateReady, second.State())
		assert.Equal(t, int32(2), connects.Load())
	})

	t.Run("DisconnectedSessionIsReplaced", func(t *testing.T) {
		var connects atomic.Int32
		connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
			connects.Add(1)

			return &fakeConn{}, nil
		}

		m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, newTestPlayer())

		first, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)

		// Mid-session network drop observed on a later command.
		first.setState(StateDisconnected)

		second, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
		require.NoError(t, err)

		assert.NotSame(t, first, second)
		assert.Equal(t, int32(2), connects.Load())
	})
}

func TestDestroySession(t *testing.T) {
	conn := &fakeConn{}
	connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
		return conn, nil
	}

	player := newTestPlayer()
	m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, player)

	s, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
	require.NoError(t, err)

	m.DestroySession(context.Background(), testGuildID)
	assert.Equal(t, StateDestroyed, s.State())
	assert.Equal(t, 1, conn.leaves)

	_, ok := m.Session(testGuildID)
	assert.False(t, ok)

	// Idempotent: a second destroy is a no-op.
	m.DestroySession(context.Background(), testGuildID)
	assert.Equal(t, 1, conn.leaves)
}

func TestDestroySessionStopsPlayback(t *testing.T) {
	conns := []*fakeConn{{}, {}}
	var connects atomic.Int32
	connector := func(ctx context.Context, channelID discord.ChannelID) (Conn, error) {
		return conns[connects.Add(1)-1], nil
	}

	player := newTestPlayer()
	m := NewSessionManager(zap.NewNop(), testManagerConfig(time.Second), connector, player)

	_, err := m.EnsureSession(context.Background(), testGuildID, testChannelID)
	require.NoError(t, err)

	pb := player.Play(context.Background(), newFakeSource(500))
	require.NoError(t, pb.AwaitStarted(testCtx(t)))

	m.DestroySession(context.Background(), testGuildID)
	require.ErrorIs(t, pb.AwaitDone(testCtx(t)), ErrStopped)

	// Rejoining must start silent: the pre-leave audio is gone.
	_, err = m.EnsureSession(context.Background(), testGuildID, testChannelID)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, conns[1].frameCount(),
		"stale playback must not resume into the new session")
}
