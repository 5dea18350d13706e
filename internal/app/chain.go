package service

import (
	"context"

	"github.com/okian/medals/internal/adapters/repository"
	"github.com/okian/medals/internal/domain/query"
	"github.com/okian/medals/pkg/logger"
	"github.com/okian/medals/pkg/metrics"
)

// unresolvedText is returned when no strategy could answer.
const unresolvedText = "No puedo responder esa pregunta con los datos del medallero disponibles."

// Chain runs strategies in order. The next strategy runs only when the
// previous one returned OutcomeUnresolved or failed. OutcomeNoData is
// final.
type Chain struct {
	strategies []Strategy
	log        logger.Logger
}

// NewChain creates a chain over strategies.
func NewChain(log logger.Logger, strategies ...Strategy) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	return &Chain{strategies: strategies, log: log}
}

// Names lists the strategies in evaluation order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Answer returns the first reply that is not unresolved. When every
// strategy gives up, the first unresolved reply is returned with a generic
// text.
func (c *Chain) Answer(ctx context.Context, question string, snap *repository.Snapshot) Reply {
	var fallback *Reply
	for _, s := range c.strategies {
		reply, err := s.Answer(ctx, question, snap)
		if err != nil {
			metrics.RecordStrategyError(s.Name())
			c.log.Warn(ctx, "strategy failed", logger.String("strategy", s.Name()), logger.Error(err))
			continue
		}
		metrics.RecordStrategyOutcome(s.Name(), string(reply.Outcome))
		if reply.Outcome != query.OutcomeUnresolved {
			return reply
		}
		if fallback == nil {
			fallback = &reply
		}
	}

	if fallback == nil {
		fallback = &Reply{Result: query.Result{Outcome: query.OutcomeUnresolved}}
	}
	fallback.Text = unresolvedText
	return *fallback
}
