package pool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/domain"
)

// TestPoolAllocatorSatisfiesDomainAllocator exercises pool.Allocator
// as a domain.Allocator backed by a fixed-block pool: allocations come
// back zeroed and at the pool's block size, and round-trip through
// Free back into the pool's free-list.
func TestPoolAllocatorSatisfiesDomainAllocator(t *testing.T) {
	p := New(domain.Tag("test-nodes"), 32, 1024, 1<<16)
	var a domain.Allocator = NewAllocator(p)

	require.Equal(t, domain.Tag("test-nodes"), a.Domain())
	require.Equal(t, "pool", a.Kind())
	require.Equal(t, 32, a.SnapSize(1))

	b := a.Alloc(32)
	require.Len(t, b, 32)
	for _, v := range b {
		require.Equal(t, byte(0), v)
	}
	b[0] = 0xFF

	a.Free(b)
	require.Equal(t, 0, p.Stats().UsedSize)
}

// TestPoolAllocatorRejectsOversizeRequest matches a typed pool's
// single-node-size contract: asking for more than the block size is a
// programming error, not a silent reallocation.
func TestPoolAllocatorRejectsOversizeRequest(t *testing.T) {
	p := New(domain.Tag("test-nodes"), 16, 1024, 1<<16)
	a := NewAllocator(p)

	require.Panics(t, func() { a.Alloc(17) })
}
