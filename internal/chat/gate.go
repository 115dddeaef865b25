package chat

import "sync"

// Gate is the process-wide pause flag. While paused, outbound conversational
// calls are suppressed; the voice connection is untouched.
type Gate struct {
	mu     sync.RWMutex
	paused bool
}

// NewGate creates an unpaused Gate.
func NewGate() *Gate {
	return &Gate{}
}

// IsPaused reports whether the gate is paused.
func (g *Gate) IsPaused() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.paused
}

// SetPaused sets the pause flag.
func (g *Gate) SetPaused(paused bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.paused = paused
}
