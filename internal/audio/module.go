package audio

import (
	"go.uber.org/fx"
)

// Module provides audio resolution dependencies.
var Module = fx.Module("audio",
	fx.Provide(NewResolver),
)
