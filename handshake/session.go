package handshake

import (
	"context"
	"errors"
	"fmt"
)

// Session is a renderer that batches its commands between BeginDraw and
// EndDraw, like a Direct2D device context.
type Session interface {
	BeginDraw()
	EndDraw() error
}

// Produce runs one producer turn: acquire, open the draw session, draw,
// close the session and release to the consumer. If draw fails the session
// is still closed, but the surface stays with the producer.
func (h *Handshake) Produce(ctx context.Context, s Session, draw func() error) error {
	if err := h.Acquire(ctx, ProducerKey); err != nil {
		return err
	}
	if err := h.BeginDraw(ProducerKey); err != nil {
		return err
	}
	s.BeginDraw()
	drawErr := draw()
	endErr := s.EndDraw()
	if err := h.EndDraw(ProducerKey); err != nil {
		return err
	}
	if err := errors.Join(drawErr, endErr); err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	return h.Release(ProducerKey)
}

// Consume runs one consumer turn: acquire, work and release back to the
// producer. The surface is released even when work fails.
func (h *Handshake) Consume(ctx context.Context, work func() error) error {
	if err := h.Acquire(ctx, ConsumerKey); err != nil {
		return err
	}
	workErr := work()
	if workErr != nil {
		workErr = fmt.Errorf("consume: %w", workErr)
	}
	return errors.Join(workErr, h.Release(ConsumerKey))
}
