// Package pool implements the fixed-block memory pool engine that
// backs reflection-heavy containers: chunk growth/shrink, spare-list
// recycling, and process-wide bulk reclamation, carried over from the
// original engine's FMemoryPool.
package pool

import (
	"fmt"

	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/log"
)

// ReclaimMode selects how Clear behaves when chunks still have blocks
// in use.
type ReclaimMode int

const (
	// AssertCompletelyFree requires every block to have been returned;
	// violating that is a programming error (spec §7) and panics.
	AssertCompletelyFree ReclaimMode = iota
	// IgnoreLeaks forces every chunk to release regardless of leaks.
	IgnoreLeaks
	// UnusedMemory releases only fully-idle spare chunks; chunks still
	// serving live blocks are left alone.
	UnusedMemory
)

// Pool is a single-threaded fixed-block allocator. Use SafePool to
// share one across goroutines; LocalPool only adds a guard that panics
// on concurrent entry.
type Pool struct {
	domain Tag

	chunksHead, chunksTail *chunk
	sparesHead, sparesTail *chunk
	chunkCount             int

	usedSize  int
	totalSize int

	currentChunkSize int
	blockSize        int
	minChunkSize     int
	maxChunkSize     int

	logger log.Logger
}

// Tag re-exports domain.Tag so callers of this package don't need a
// second import just to name a pool's owner.
type Tag = domain.Tag

// New creates a pool of blockSize-byte blocks, growing chunks from
// minChunkSize up to maxChunkSize.
func New(tag Tag, blockSize, minChunkSize, maxChunkSize int) *Pool {
	if blockSize <= 0 {
		panic("pool: blockSize must be positive")
	}
	if maxChunkSize < minChunkSize {
		panic("pool: maxChunkSize must be >= minChunkSize")
	}

	current := minChunkSize
	for 11*blockSize > current {
		current *= 2
	}
	if current > maxChunkSize {
		panic("pool: blockSize too large for maxChunkSize")
	}

	p := &Pool{
		domain:           tag,
		currentChunkSize: current,
		blockSize:        blockSize,
		minChunkSize:     minChunkSize,
		maxChunkSize:     maxChunkSize,
		logger:           log.WithComponent("pool").With().Str("domain", string(tag)).Logger(),
	}
	p.logger.Info().
		Int("block_size", blockSize).
		Int("chunk_size", current).
		Msg("new memory pool")
	return p
}

func (p *Pool) blockCountPerChunk(chunkSize int) int { return chunkSize / p.blockSize }

// Allocate returns a block, amortized O(1): first-fit among chunks
// with room, else revive a spare, else grow a fresh chunk. A block
// taken from a chunk's free-list keeps the bytes it held when it was
// freed; only never-used blocks are zero.
func (p *Pool) Allocate() []byte {
	for c := p.chunksHead; c != nil; c = c.next {
		if c.blockAvailable() {
			p.pokeFront(c)
			return p.takeBlock(c)
		}
	}

	if c := p.reviveSpare(); c != nil {
		return p.takeBlock(c)
	}

	c := p.growChunk()
	return p.takeBlock(c)
}

func (p *Pool) takeBlock(c *chunk) []byte {
	domain.TrackerFor(p.domain).Record(int64(p.blockSize))
	p.usedSize += p.blockSize
	return c.allocateBlock()
}

// Deallocate returns ptr to its owning chunk's free-list and applies
// the shrink rule.
func (p *Pool) Deallocate(ptr []byte) {
	for c := p.chunksHead; c != nil; c = c.next {
		if c.contains(ptr) {
			domain.TrackerFor(p.domain).Release(int64(p.blockSize))
			p.usedSize -= p.blockSize
			c.releaseBlock(ptr)

			if c.completelyFree() {
				p.spareChunk(c)
			}
			p.shrinkIfNeeded()
			return
		}
	}
	panic(fmt.Sprintf("pool: block %p does not belong to this pool", ptr))
}

// shrinkIfNeeded releases one spare chunk when the pool is keeping
// far more memory warm than it is using:
// totalSize - spareHead.chunkSize >= 2*usedSize.
func (p *Pool) shrinkIfNeeded() {
	if p.chunkCount <= 1 || p.sparesHead == nil {
		return
	}
	if p.totalSize-p.sparesHead.chunkSize() >= 2*p.usedSize {
		p.releaseChunk(p.popSpareHead())
	}
}

func (p *Pool) growChunk() *chunk {
	next := p.currentChunkSize * 2
	if next <= p.maxChunkSize {
		p.currentChunkSize = next
		p.logger.Info().
			Int("chunk_count", p.chunkCount).
			Int("chunk_size", p.currentChunkSize).
			Msg("growing memory pool")
	}

	c := newChunk(p.currentChunkSize, p.blockSize)
	p.pushFrontChunk(c)
	p.chunkCount++
	p.totalSize += c.chunkSize()
	domain.TrackerFor(p.domain).Record(int64(c.chunkSize()))
	return c
}

func (p *Pool) reviveSpare() *chunk {
	if p.sparesHead == nil {
		return nil
	}
	c := p.popSpareHead()
	p.pushFrontChunk(c)
	return c
}

// Stats is a point-in-time snapshot of a pool's bookkeeping counters.
type Stats struct {
	BlockSize        int
	CurrentChunkSize int
	MinChunkSize     int
	MaxChunkSize     int
	ChunkCount       int
	UsedSize         int
	TotalSize        int
}

func (p *Pool) Stats() Stats {
	return Stats{
		BlockSize:        p.blockSize,
		CurrentChunkSize: p.currentChunkSize,
		MinChunkSize:     p.minChunkSize,
		MaxChunkSize:     p.maxChunkSize,
		ChunkCount:       p.chunkCount,
		UsedSize:         p.usedSize,
		TotalSize:        p.totalSize,
	}
}

// Clear reclaims memory according to mode.
func (p *Pool) Clear(mode ReclaimMode) {
	switch mode {
	case AssertCompletelyFree:
		if p.usedSize != 0 {
			panic(fmt.Sprintf("pool: Clear_AssertCompletelyFree called with %d bytes still in use", p.usedSize))
		}
		p.releaseAll()
	case IgnoreLeaks:
		if p.usedSize != 0 {
			p.logger.Warn().Int("leaked_bytes", p.usedSize).Msg("pool cleared with leaked blocks")
		}
		p.releaseAll()
	case UnusedMemory:
		p.releaseSpares()
	default:
		panic("pool: unknown ReclaimMode")
	}
}

func (p *Pool) releaseAll() {
	for c := p.chunksHead; c != nil; {
		next := c.next
		p.unlinkChunk(c)
		p.totalSize -= c.chunkSize()
		p.chunkCount--
		domain.TrackerFor(p.domain).Release(int64(c.chunkSize()))
		c = next
	}
	p.releaseSpares()
	p.usedSize = 0
}

func (p *Pool) releaseSpares() {
	for p.sparesHead != nil {
		p.releaseChunk(p.popSpareHead())
	}
}

func (p *Pool) releaseChunk(c *chunk) {
	p.totalSize -= c.chunkSize()
	p.chunkCount--
	domain.TrackerFor(p.domain).Release(int64(c.chunkSize()))
}

// --- intrusive doubly-linked list helpers -------------------------------

func (p *Pool) pushFrontChunk(c *chunk) {
	c.prev, c.next = nil, p.chunksHead
	if p.chunksHead != nil {
		p.chunksHead.prev = c
	}
	p.chunksHead = c
	if p.chunksTail == nil {
		p.chunksTail = c
	}
}

func (p *Pool) pokeFront(c *chunk) {
	if c == p.chunksHead {
		return
	}
	p.unlinkChunk(c)
	c.prev, c.next = nil, p.chunksHead
	if p.chunksHead != nil {
		p.chunksHead.prev = c
	}
	p.chunksHead = c
	if p.chunksTail == nil {
		p.chunksTail = c
	}
}

func (p *Pool) unlinkChunk(c *chunk) {
	if c.prev != nil {
		c.prev.next = c.next
	} else if p.chunksHead == c {
		p.chunksHead = c.next
	}
	if c.next != nil {
		c.next.prev = c.prev
	} else if p.chunksTail == c {
		p.chunksTail = c.prev
	}
	c.prev, c.next = nil, nil
}

// spareChunk removes c from the in-use list and inserts it into the
// spares list, kept sorted by ascending chunk size.
func (p *Pool) spareChunk(c *chunk) {
	p.unlinkChunk(c)

	var prev *chunk
	cur := p.sparesHead
	for cur != nil && cur.chunkSize() < c.chunkSize() {
		prev = cur
		cur = cur.next
	}
	c.prev, c.next = prev, cur
	if prev != nil {
		prev.next = c
	} else {
		p.sparesHead = c
	}
	if cur != nil {
		cur.prev = c
	} else {
		p.sparesTail = c
	}
}

func (p *Pool) popSpareHead() *chunk {
	c := p.sparesHead
	if c == nil {
		return nil
	}
	p.sparesHead = c.next
	if p.sparesHead != nil {
		p.sparesHead.prev = nil
	} else {
		p.sparesTail = nil
	}
	c.prev, c.next = nil, nil
	return c
}
