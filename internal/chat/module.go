package chat

import (
	"go.uber.org/fx"

	"github.com/solstice-bots/vocalis/internal/config"
)

// Module provides the conversational service, its provider chain, the
// interaction gate and the reply cache.
var Module = fx.Module("chat",
	fx.Provide(
		NewGate,
		NewProvider,
		func(cfg *config.Config) (*ReplyCache, error) {
			return NewReplyCache(cfg.Chat.ReplyCacheSize)
		},
		NewService,
	),
)
