package pool

import "unsafe"

// chunk is a fixed-block arena: a contiguous byte slice sliced into
// blockCount equal blocks, with a LIFO free-list of block offsets
// threading released blocks back together. Mirrors FMemoryPoolChunk
// from the original engine; offsets into chunk.storage play the role
// the original's intrusive free-list pointers do, and unsafe.Pointer
// arithmetic plays the role of the original's raw pointer range check.
type chunk struct {
	storage    []byte
	base       uintptr
	blockSize  int
	blockCount int
	blockUsed  int
	blockAdded int
	free       []int // stack of free block offsets, LIFO

	prev, next *chunk // intrusive doubly-linked list node
}

func newChunk(chunkSize, blockSize int) *chunk {
	blockCount := chunkSize / blockSize
	if blockCount <= 10 {
		panic("pool: chunk must hold more than 10 blocks")
	}
	storage := make([]byte, chunkSize)
	return &chunk{
		storage:    storage,
		base:       uintptr(unsafe.Pointer(&storage[0])),
		blockSize:  blockSize,
		blockCount: blockCount,
	}
}

func (c *chunk) chunkSize() int { return len(c.storage) }

func (c *chunk) completelyFree() bool { return c.blockUsed == 0 }

func (c *chunk) blockAvailable() bool { return c.blockCount > c.blockUsed }

// contains reports whether ptr was carved out of this chunk's storage.
func (c *chunk) contains(ptr []byte) bool {
	if len(ptr) == 0 {
		return false
	}
	addr := uintptr(unsafe.Pointer(&ptr[0]))
	end := c.base + uintptr(len(c.storage))
	return addr >= c.base && addr < end
}

func (c *chunk) offsetOf(ptr []byte) int {
	addr := uintptr(unsafe.Pointer(&ptr[0]))
	return int(addr - c.base)
}

// allocateBlock hands out a block, preferring the free-list (LIFO)
// before carving virgin storage off the end of the chunk.
func (c *chunk) allocateBlock() []byte {
	if !c.blockAvailable() {
		panic("pool: allocateBlock called on a full chunk")
	}

	var off int
	if n := len(c.free); n > 0 {
		off = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		off = c.blockAdded * c.blockSize
		c.blockAdded++
	}
	c.blockUsed++
	return c.storage[off : off+c.blockSize : off+c.blockSize]
}

// releaseBlock pushes ptr's offset back onto the chunk's free-list.
func (c *chunk) releaseBlock(ptr []byte) {
	if c.completelyFree() {
		panic("pool: releaseBlock called on an empty chunk")
	}
	c.free = append(c.free, c.offsetOf(ptr))
	c.blockUsed--
}
