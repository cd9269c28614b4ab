package rtti

import "unsafe"

// DeepCtx breaks cycles in DeepEquals by remembering which (a, b)
// object-pointer pairs have already been compared. Reflected graphs
// can only cycle through ref-object scalars, so only object traits
// need to consult it, but every composite trait threads it through
// unchanged.
type DeepCtx struct {
	seen map[[2]unsafe.Pointer]bool
}

// NewDeepCtx returns an empty cycle-breaking context.
func NewDeepCtx() *DeepCtx {
	return &DeepCtx{seen: make(map[[2]unsafe.Pointer]bool)}
}

// Enter records (a, b) as visited and reports whether it was already
// present — callers should short-circuit to "equal" on true rather
// than recursing again.
func (c *DeepCtx) Enter(a, b unsafe.Pointer) bool {
	if c == nil {
		return false
	}
	key := [2]unsafe.Pointer{a, b}
	if c.seen[key] {
		return true
	}
	c.seen[key] = true
	return false
}

// CopyCtx breaks cycles in DeepCopy and preserves shared-reference
// identity: once src has been copied to some dst, later edges
// pointing at the same src are repointed at that dst instead of being
// copied again. dst is stored as `any` rather than unsafe.Pointer
// because object traits need to remember a typed HasMetaObject
// handle, not just its address.
type CopyCtx struct {
	copied map[unsafe.Pointer]any
}

// NewCopyCtx returns an empty copy-tracking context.
func NewCopyCtx() *CopyCtx {
	return &CopyCtx{copied: make(map[unsafe.Pointer]any)}
}

// Lookup returns the previously-copied destination for src, if any.
func (c *CopyCtx) Lookup(src unsafe.Pointer) (any, bool) {
	if c == nil {
		return nil, false
	}
	dst, ok := c.copied[src]
	return dst, ok
}

// Remember records that src was copied to dst.
func (c *CopyCtx) Remember(src unsafe.Pointer, dst any) {
	if c == nil {
		return
	}
	c.copied[src] = dst
}
