package pool

import "github.com/metacore/reflect/pkg/domain"

// Allocator adapts a fixed-block Pool to the domain.Allocator
// interface, completing spec §4.1's fourth allocator policy:
// "node-based containers request sizeof(node) from a typed pool."
// Unlike DefaultAllocator, a pool Allocator only ever hands out
// blockSize-byte slices — Alloc panics if asked for more than that,
// matching a typed pool's single-node-size contract.
type Allocator struct {
	pool *Pool
}

// NewAllocator wraps p as a domain.Allocator. p's block size is the
// only size this allocator will ever serve.
func NewAllocator(p *Pool) *Allocator {
	return &Allocator{pool: p}
}

func (a *Allocator) Domain() domain.Tag { return a.pool.domain }

// Alloc requires n <= the pool's block size; the returned slice is
// always exactly blockSize long, matching a pool's fixed-size nodes.
func (a *Allocator) Alloc(n int) []byte {
	if n > a.pool.blockSize {
		panic("pool: Allocator.Alloc request exceeds pool block size")
	}
	b := a.pool.Allocate()
	for i := range b {
		b[i] = 0
	}
	return b
}

func (a *Allocator) Free(b []byte) { a.pool.Deallocate(b) }

// SnapSize always reports the pool's fixed block size.
func (a *Allocator) SnapSize(n int) int { return a.pool.blockSize }

func (a *Allocator) Kind() string { return "pool" }

var _ domain.Allocator = (*Allocator)(nil)
