// Package handshake serializes access to a shared texture between a
// producer and a consumer on top of the texture's keyed mutex.
//
// The producer owns the surface first. A round looks like
//
//	producer: Acquire(ProducerKey) BeginDraw ... EndDraw Release(ProducerKey)
//	consumer: Acquire(ConsumerKey) ... Release(ConsumerKey)
//	producer: Acquire(ProducerKey) ...
//
// Release hands the keyed mutex to the peer, so each side always releases
// with the key it acquired under. A draw session must be closed before the
// surface is released: the 2D API only submits its commands at EndDraw.
package handshake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kirides/surfaceshare"
	"github.com/kirides/surfaceshare/d3d"
)

// Key identifies one side of the handshake. Its value is the keyed mutex
// key that side acquires with.
type Key uint64

const (
	ProducerKey Key = 0
	ConsumerKey Key = 1
)

func (k Key) String() string {
	switch k {
	case ProducerKey:
		return "producer"
	case ConsumerKey:
		return "consumer"
	}
	return fmt.Sprintf("Key(%d)", uint64(k))
}

func (k Key) peer() Key {
	if k == ProducerKey {
		return ConsumerKey
	}
	return ProducerKey
}

func (k Key) valid() bool { return k == ProducerKey || k == ConsumerKey }

type State int

const (
	Unowned State = iota
	OwnedByProducer
	OwnedByConsumer
)

func (s State) String() string {
	switch s {
	case Unowned:
		return "unowned"
	case OwnedByProducer:
		return "owned by producer"
	case OwnedByConsumer:
		return "owned by consumer"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

func ownedBy(k Key) State {
	if k == ProducerKey {
		return OwnedByProducer
	}
	return OwnedByConsumer
}

var (
	ErrUnknownKey      = errors.New("handshake: unknown key")
	ErrNotOwned        = errors.New("handshake: surface is not owned")
	ErrWrongKey        = errors.New("handshake: surface is owned by the other side")
	ErrDrawSessionOpen = errors.New("handshake: draw session still open")
	ErrNoDrawSession   = errors.New("handshake: no draw session open")
	ErrTimeout         = errors.New("handshake: acquire timed out")
)

// Mutex is the keyed mutex primitive one side sees. d3d.KeyedMutex
// satisfies it.
type Mutex interface {
	AcquireSync(key uint64, timeout time.Duration) error
	ReleaseSync(key uint64) error
}

type Option func(*Handshake)

// WithTimeout bounds every Acquire. A zero timeout tries once without
// waiting. The default waits until the context passed to Acquire is done.
func WithTimeout(d time.Duration) Option {
	return func(h *Handshake) { h.timeout = d }
}

// WithPollInterval sets how long a single wait on the primitive lasts
// before the context is checked again. Defaults to 50ms.
func WithPollInterval(d time.Duration) Option {
	return func(h *Handshake) {
		if d > 0 {
			h.poll = d
		}
	}
}

// Handshake tracks who owns a shared surface. Each side is expected to be
// driven by a single goroutine; the two sides may run concurrently.
type Handshake struct {
	mutexes [2]Mutex
	timeout time.Duration
	poll    time.Duration

	mu      sync.Mutex
	state   State
	drawing bool
}

// New returns a handshake over the keyed mutex as seen by the producer's
// and the consumer's device. Both may be the same object when producer and
// consumer share a device.
func New(producer, consumer Mutex, opts ...Option) *Handshake {
	h := &Handshake{
		mutexes: [2]Mutex{ProducerKey: producer, ConsumerKey: consumer},
		timeout: d3d.Infinite,
		poll:    50 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handshake) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Owner returns the key of the current owner. ok is false while the
// surface is unowned.
func (h *Handshake) Owner() (key Key, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case OwnedByProducer:
		return ProducerKey, true
	case OwnedByConsumer:
		return ConsumerKey, true
	}
	return 0, false
}

// Acquire waits until the surface was handed to key and takes ownership.
// Acquiring a surface key already owns is a no-op.
func (h *Handshake) Acquire(ctx context.Context, key Key) error {
	if !key.valid() {
		return fmt.Errorf("acquire %v: %w", key, ErrUnknownKey)
	}
	h.mu.Lock()
	owned := h.state == ownedBy(key)
	h.mu.Unlock()
	if owned {
		surfaceshare.Logger().Debug("redundant acquire", "key", key)
		return nil
	}

	if err := h.wait(ctx, key); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != Unowned {
		// The primitive let two owners in. Hand it back untouched.
		_ = h.mutexes[key].ReleaseSync(uint64(key))
		return fmt.Errorf("acquire %v while %v: %w", key, h.state, d3d.ErrNotOwner)
	}
	h.state = ownedBy(key)
	surfaceshare.Logger().Debug("acquired surface", "key", key, "state", h.state)
	return nil
}

func (h *Handshake) wait(ctx context.Context, key Key) error {
	var deadline time.Time
	if h.timeout >= 0 {
		deadline = time.Now().Add(h.timeout)
	}
	m := h.mutexes[key]
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("acquire %v: %w", key, err)
		}
		slice := h.poll
		if !deadline.IsZero() {
			// A spent deadline still gets one non-blocking try.
			slice = min(slice, max(time.Until(deadline), 0))
		}

		err := m.AcquireSync(uint64(key), slice)
		if err == nil {
			return nil
		}
		if !errors.Is(err, d3d.ErrWaitTimeout) {
			return fmt.Errorf("acquire %v: %w", key, err)
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return fmt.Errorf("acquire %v after %v: %w", key, h.timeout, ErrTimeout)
		}
	}
}

// Release hands the surface to the other side. Only the current owner can
// release, and only after closing its draw session.
func (h *Handshake) Release(key Key) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOwner("release", key); err != nil {
		return err
	}
	if h.drawing {
		return fmt.Errorf("release %v: %w", key, ErrDrawSessionOpen)
	}
	if err := h.mutexes[key].ReleaseSync(uint64(key.peer())); err != nil {
		return fmt.Errorf("release %v: %w", key, err)
	}
	h.state = Unowned
	surfaceshare.Logger().Debug("released surface", "key", key, "next", key.peer())
	return nil
}

func (h *Handshake) checkOwner(op string, key Key) error {
	if !key.valid() {
		return fmt.Errorf("%s %v: %w", op, key, ErrUnknownKey)
	}
	switch h.state {
	case Unowned:
		return fmt.Errorf("%s %v: %w", op, key, ErrNotOwned)
	case ownedBy(key):
		return nil
	}
	return fmt.Errorf("%s %v while %v: %w", op, key, h.state, ErrWrongKey)
}

// BeginDraw records that the owner opened a draw session on the surface.
func (h *Handshake) BeginDraw(key Key) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOwner("begin draw", key); err != nil {
		return err
	}
	if h.drawing {
		return fmt.Errorf("begin draw %v: %w", key, ErrDrawSessionOpen)
	}
	h.drawing = true
	surfaceshare.Logger().Debug("draw session opened", "key", key)
	return nil
}

// EndDraw records that the owner's draw session was closed and its
// commands submitted.
func (h *Handshake) EndDraw(key Key) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.checkOwner("end draw", key); err != nil {
		return err
	}
	if !h.drawing {
		return fmt.Errorf("end draw %v: %w", key, ErrNoDrawSession)
	}
	h.drawing = false
	surfaceshare.Logger().Debug("draw session closed", "key", key)
	return nil
}
