package d3d

import (
	"sync"
	"time"
)

// softMutexState is the keyed mutex of one shared surface: a fresh mutex
// counts as released with key 0, AcquireSync(k) waits until the mutex is
// free and was last released with k, ReleaseSync(k) frees it for the next
// AcquireSync(k).
type softMutexState struct {
	mu      sync.Mutex
	holder  *softKeyedMutex
	key     uint64 // held: acquired key, free: release key
	changed chan struct{}
}

// softKeyedMutex is the mutex as seen from one opened texture, like the
// IDXGIKeyedMutex each device queries from its own view. Only the view
// that acquired can release.
type softKeyedMutex struct {
	s *softMutexState
}

func newSoftMutexState() *softMutexState {
	return &softMutexState{changed: make(chan struct{})}
}

func newSoftKeyedMutex() *softKeyedMutex {
	return &softKeyedMutex{s: newSoftMutexState()}
}

func (m *softKeyedMutex) AcquireSync(key uint64, timeout time.Duration) error {
	var expired <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	s := m.s
	for {
		s.mu.Lock()
		if s.holder == nil && s.key == key {
			s.holder = m
			s.mu.Unlock()
			return nil
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-expired:
			return ErrWaitTimeout
		}
	}
}

func (m *softKeyedMutex) ReleaseSync(key uint64) error {
	s := m.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.holder != m {
		return ErrNotOwner
	}
	s.holder = nil
	s.key = key
	close(s.changed)
	s.changed = make(chan struct{})
	return nil
}
