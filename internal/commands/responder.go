package commands

import (
	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"
)

// Responder wraps interaction replies. Slow commands acknowledge first and
// edit the response once the work finishes; interactions expire three seconds
// after delivery otherwise.
type Responder struct {
	session       *session.Session
	applicationID discord.AppID
	logger        *zap.Logger
}

func NewResponder(s *session.Session, appID discord.AppID, logger *zap.Logger) *Responder {
	return &Responder{
		session:       s,
		applicationID: appID,
		logger:        logger.Named("responder"),
	}
}

// Ack sends the deferred acknowledgement so a slow command can edit in the
// real reply later.
func (r *Responder) Ack(e *gateway.InteractionCreateEvent) error {
	return r.session.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.DeferredMessageInteractionWithSource,
	})
}

// Edit replaces the deferred acknowledgement with content.
func (r *Responder) Edit(e *gateway.InteractionCreateEvent, content string) error {
	_, err := r.session.EditInteractionResponse(r.applicationID, e.Token, api.EditInteractionResponseData{
		Content: option.NewNullableString(content),
	})
	if err != nil {
		r.logger.Error("Failed to edit interaction response", zap.Error(err))
	}

	return err
}

// Respond sends an immediate message response.
func (r *Responder) Respond(e *gateway.InteractionCreateEvent, content string) error {
	return r.session.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(content),
		},
	})
}

// RespondEphemeral sends an immediate response visible only to the invoker.
func (r *Responder) RespondEphemeral(e *gateway.InteractionCreateEvent, content string) error {
	return r.session.RespondInteraction(e.ID, e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{
			Content: option.NewNullableString(content),
			Flags:   discord.EphemeralMessage,
		},
	})
}
