package chat

import "context"

// EchoProvider repeats the question back. It is the fallback when no
// conversational credentials are configured, so the bot stays usable for
// voice playback even without a backend.
type EchoProvider struct{}

func NewEchoProvider() *EchoProvider { return &EchoProvider{} }

func (p *EchoProvider) Name() string { return "echo" }

func (p *EchoProvider) Ask(_ context.Context, query string) (*Reply, error) {
	return &Reply{Text: EchoPrefix + query}, nil
}
