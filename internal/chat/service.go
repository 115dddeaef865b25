package chat

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrPaused is returned when interactions are paused; no external call is
// made in that case.
var ErrPaused = errors.New("interactions are paused")

// Service is the entry point for asking the conversational backend a
// question. It checks the gate before every external call and caches
// replies by normalized query.
type Service struct {
	provider Provider
	gate     *Gate
	cache    *ReplyCache
	logger   *zap.Logger
}

func NewService(provider Provider, gate *Gate, cache *ReplyCache, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		gate:     gate,
		cache:    cache,
		logger:   logger.Named("chat"),
	}
}

// Gate exposes the pause flag for the pause and resume commands.
func (s *Service) Gate() *Gate { return s.gate }

// Ask answers query via the configured backend. Paused interactions fail
// fast with ErrPaused before any network traffic.
func (s *Service) Ask(ctx context.Context, query string) (*Reply, error) {
	if s.gate.IsPaused() {
		return nil, ErrPaused
	}

	if reply, ok := s.cache.Get(query); ok {
		s.logger.Debug("Reply cache hit", zap.String("query", query))
		return reply, nil
	}

	reply, err := s.provider.Ask(ctx, query)
	if err != nil {
		return nil, err
	}

	s.cache.Add(query, reply)
	s.logger.Info("Reply received",
		zap.String("provider", s.provider.Name()),
		zap.Bool("has_audio", reply.AudioURL != ""))

	return reply, nil
}
