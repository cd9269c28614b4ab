package pool

import "sync"

// SafePool serializes every operation on a Pool behind a mutex, the Go
// analogue of the native engine's thread-safe pool wrapper.
type SafePool struct {
	mu   sync.Mutex
	pool *Pool
}

// NewSafe wraps p for concurrent use. The wrapper type is fixed at
// construction and never changes, matching spec §4.1.
func NewSafe(p *Pool) *SafePool {
	return &SafePool{pool: p}
}

func (s *SafePool) Allocate() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Allocate()
}

func (s *SafePool) Deallocate(ptr []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Deallocate(ptr)
}

func (s *SafePool) Clear(mode ReclaimMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pool.Clear(mode)
}

func (s *SafePool) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Stats()
}
