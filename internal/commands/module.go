package commands

import (
	"go.uber.org/fx"
)

func asCommand(constructor any) any {
	return fx.Annotate(
		constructor,
		fx.As(new(Command)),
		fx.ResultTags(`group:"commands"`),
	)
}

// Module provides command infrastructure and every slash command.
var Module = fx.Module("commands",
	fx.Provide(
		NewCommandManager,
		NewResponder,
		NewChannelLocator,
		asCommand(NewJoinCommand),
		asCommand(NewSayCommand),
		asCommand(NewAskCommand),
		asCommand(NewLeaveCommand),
		asCommand(NewPauseCommand),
		asCommand(NewResumeCommand),
	),
)
