// Package voice owns the voice session registry and the shared audio player.
package voice

import (
	"go.uber.org/fx"
)

// Module provides voice-related dependencies.
var Module = fx.Module("voice",
	fx.Provide(
		NewPlayer,
		NewGatewayConnector,
		NewSessionManager,
	),
)
