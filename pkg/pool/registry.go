package pool

import (
	"sync"

	"github.com/metacore/reflect/pkg/log"
)

// clearer is implemented by Pool, SafePool, and LocalPool, letting the
// registry reclaim any of them uniformly.
type clearer interface {
	Clear(mode ReclaimMode)
	Stats() Stats
}

// Registry holds every live pool process-wide so a global "clear
// unused" traversal can reclaim warm spares under memory pressure.
type Registry struct {
	mu    sync.Mutex
	pools map[string]clearer
}

// Global is the process-wide pool registry, created at startup and
// populated by explicit Register calls (poolcfg.Bootstrap registers
// each configured pool; New does not register) (spec §6: "Initialization
// registers core native types ... one pool registry").
var Global = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{pools: make(map[string]clearer)}
}

// Register adds p to the registry under name. Re-registering the same
// name replaces the previous entry.
func (r *Registry) Register(name string, p clearer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pools[name] = p
}

// Unregister removes name, e.g. when a pool's owning subsystem shuts
// down.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pools, name)
}

// ClearUnused walks every registered pool and releases spare chunks,
// the process-wide back-pressure relief valve from spec §6.
func (r *Registry) ClearUnused() {
	r.mu.Lock()
	pools := make(map[string]clearer, len(r.pools))
	for k, v := range r.pools {
		pools[k] = v
	}
	r.mu.Unlock()

	logger := log.WithComponent("pool-registry")
	for name, p := range pools {
		before := p.Stats()
		p.Clear(UnusedMemory)
		after := p.Stats()
		logger.Debug().
			Str("pool", name).
			Int("chunks_before", before.ChunkCount).
			Int("chunks_after", after.ChunkCount).
			Msg("cleared unused pool memory")
	}
}

// Snapshot returns per-pool stats for every registered pool, used by
// pkg/rttiapi's PoolStats RPC, which cmd/rttictl's pool command calls.
func (r *Registry) Snapshot() map[string]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]Stats, len(r.pools))
	for name, p := range r.pools {
		out[name] = p.Stats()
	}
	return out
}
