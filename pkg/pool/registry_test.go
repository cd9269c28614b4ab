package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/domain"
)

func TestRegistryClearUnusedReleasesSpares(t *testing.T) {
	reg := NewRegistry()
	p := New(domain.Tag("registry-test"), 64, 1024, 1<<20)
	reg.Register("registry-test", p)

	blocks := make([][]byte, 50)
	for i := range blocks {
		blocks[i] = p.Allocate()
	}
	for _, b := range blocks {
		p.Deallocate(b)
	}
	require.Greater(t, p.Stats().ChunkCount, 0)

	reg.ClearUnused()
	require.Equal(t, 0, p.Stats().ChunkCount)
}

func TestRegistrySnapshotAndUnregister(t *testing.T) {
	reg := NewRegistry()
	p := New(domain.Tag("snap-test"), 64, 1024, 1<<20)
	reg.Register("snap-test", p)

	snap := reg.Snapshot()
	require.Contains(t, snap, "snap-test")

	reg.Unregister("snap-test")
	snap = reg.Snapshot()
	require.NotContains(t, snap, "snap-test")
}

// TestSafePoolConcurrentAllocate exercises the mutex-wrapped pool under
// concurrent callers.
func TestSafePoolConcurrentAllocate(t *testing.T) {
	p := NewSafe(New(domain.Tag("safe-test"), 64, 1024, 1<<20))

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := p.Allocate()
			require.Len(t, b, 64)
		}()
	}
	wg.Wait()

	require.Equal(t, 200*64, p.Stats().UsedSize)
}
