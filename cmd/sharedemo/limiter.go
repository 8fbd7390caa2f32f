package main

import (
	"context"
	"time"
)

// FrameLimiter paces a loop to at most fps iterations per second. Frames
// that take longer than the interval are not made up for.
type FrameLimiter struct {
	interval time.Duration
	next     time.Time
}

func NewFrameLimiter(fps int) *FrameLimiter {
	return &FrameLimiter{interval: time.Second / time.Duration(max(fps, 1))}
}

// Wait blocks until the next frame is due or ctx is done.
func (l *FrameLimiter) Wait(ctx context.Context) error {
	now := time.Now()
	if l.next.IsZero() || !now.Before(l.next) {
		l.next = now.Add(l.interval)
		return ctx.Err()
	}
	t := time.NewTimer(l.next.Sub(now))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		l.next = l.next.Add(l.interval)
		return nil
	}
}
