package bot

import (
	"context"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"
)

// handleInteraction dispatches slash commands to the command manager. Every
// failure path tries to get some message back to the invoker; the delivery
// itself is best effort.
func (b *Bot) handleInteraction(ctx context.Context, e *gateway.InteractionCreateEvent) {
	data, ok := e.Data.(*discord.CommandInteraction)
	if !ok {
		b.logger.Debug("Ignoring non-command interaction")

		return
	}

	logger := b.logger.With(
		zap.String("command", data.Name),
		zap.Stringer("guild_id", e.GuildID),
		zap.Stringer("user_id", e.SenderID()))

	cmd, ok := b.cmdManager.GetCommand(data.Name)
	if !ok {
		logger.Warn("Unknown command")
		b.respondPlain(e, "Unknown command.")

		return
	}

	logger.Info("Dispatching slash command")

	if err := cmd.Execute(ctx, b.session, e, data); err != nil {
		logger.Error("Command execution failed", zap.Error(err))
		b.respondPlain(e, "An error occurred while executing the command.")
	}
}

// respondPlain attempts an immediate response. By the time it runs the
// interaction may already be acknowledged; that failure is only logged.
func (b *Bot) respondPlain(e *gateway.InteractionCreateEvent, content string) {
	err := b.session.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(content),
		},
	})
	if err != nil {
		b.logger.Debug("Failed to deliver fallback response", zap.Error(err))
	}
}
