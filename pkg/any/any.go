// Package any implements the C5 Any: a self-contained value holding
// its own traits plus either inline or heap storage, the type-erased
// analogue of the original engine's TAny.
package any

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/rtti"
)

// InlineCap is the largest value size, in bytes, kept inline in an
// Any's own storage rather than heap-allocated through its domain
// allocator. Larger values are heap-allocated even when they would fit
// in one cache line.
const InlineCap = 16

// Any owns a described value plus its traits. The zero value is the
// empty Any: nil traits, no storage.
type Any struct {
	traits rtti.TypeTraits
	inline [InlineCap]byte
	heap   []byte
	alloc  domain.Allocator
}

func (a *Any) usesInline() bool {
	return a.traits != nil && a.traits.SizeOf() <= InlineCap
}

func (a *Any) ptr() unsafe.Pointer {
	if a.traits == nil {
		return nil
	}
	if a.usesInline() {
		return unsafe.Pointer(&a.inline[0])
	}
	return unsafe.Pointer(&a.heap[0])
}

// defaultAlloc is used when callers don't care which domain an Any's
// heap storage is charged to.
func defaultAlloc() domain.Allocator { return domain.NewDefaultAllocator(domain.RTTI) }

// New default-constructs an empty value of the described type.
func New(traits rtti.TypeTraits, alloc domain.Allocator) *Any {
	if alloc == nil {
		alloc = defaultAlloc()
	}
	a := &Any{traits: traits, alloc: alloc}
	if !a.usesInline() {
		a.heap = alloc.Alloc(int(traits.SizeOf()))
	}
	traits.Create(a.ptr())
	return a
}

// NewDefault is New with the process-default RTTI-domain allocator.
func NewDefault(traits rtti.TypeTraits) *Any { return New(traits, nil) }

// Make constructs an Any by copying v, described by traits.
func Make[T any](v *T, traits rtti.TypeTraits, alloc domain.Allocator) *Any {
	a := New(traits, alloc)
	traits.CreateCopy(a.ptr(), unsafe.Pointer(v))
	return a
}

// IsEmpty reports whether the Any carries no value (nil traits).
func (a *Any) IsEmpty() bool { return a.traits == nil }

// Traits returns the wrapped value's traits, or nil if empty.
func (a *Any) Traits() rtti.TypeTraits { return a.traits }

// InnerAtom exposes the wrapped value without duplicating traits.
func (a *Any) InnerAtom() rtti.Atom {
	if a.IsEmpty() {
		return rtti.NilAtom
	}
	return rtti.Atom{Ptr: a.ptr(), Traits: a.traits}
}

// Release destroys the wrapped value and returns any heap storage to
// its allocator, leaving the Any empty. Safe to call on an already-
// empty Any.
func (a *Any) Release() {
	if a.IsEmpty() {
		return
	}
	a.traits.Destroy(a.ptr())
	if !a.usesInline() && a.alloc != nil {
		a.alloc.Free(a.heap)
	}
	a.traits = nil
	a.heap = nil
}

// Assign destroys a's current value (if any) and replaces it with a
// copy of src's value, honoring src's traits' copy semantics rather
// than bit-copying.
func (a *Any) Assign(src *Any) {
	a.Release()
	if src.IsEmpty() {
		return
	}
	a.traits = src.traits
	a.alloc = src.alloc
	if a.alloc == nil {
		a.alloc = defaultAlloc()
	}
	if !a.usesInline() {
		a.heap = a.alloc.Alloc(int(a.traits.SizeOf()))
	}
	a.traits.Create(a.ptr())
	a.traits.CreateCopy(a.ptr(), src.ptr())
}

// deepCopyFrom is Assign's recursive counterpart, used by anyTraits'
// DeepCopy so nested Any values inside composites thread the
// cycle-breaking context instead of shallow-copying.
func (a *Any) deepCopyFrom(src *Any, ctx *rtti.CopyCtx) {
	a.Release()
	if src.IsEmpty() {
		return
	}
	a.traits = src.traits
	a.alloc = src.alloc
	if a.alloc == nil {
		a.alloc = defaultAlloc()
	}
	if !a.usesInline() {
		a.heap = a.alloc.Alloc(int(a.traits.SizeOf()))
	}
	a.traits.Create(a.ptr())
	a.traits.DeepCopy(a.ptr(), src.ptr(), ctx)
}

// Clone returns an independent copy of a.
func (a *Any) Clone() *Any {
	out := &Any{}
	out.Assign(a)
	return out
}

// Equals delegates to the wrapped traits (shallow).
func (a *Any) Equals(b *Any) bool { return a.InnerAtom().Equals(b.InnerAtom()) }

// DeepEquals delegates to the wrapped traits (recursive).
func (a *Any) DeepEquals(b *Any, ctx *rtti.DeepCtx) bool {
	return a.InnerAtom().DeepEquals(b.InnerAtom(), ctx)
}

// Hash delegates to the wrapped traits.
func (a *Any) Hash() uint64 { return a.InnerAtom().Hash() }

// PromoteCopy converts a's value into an Any of dstTraits, leaving a
// untouched. Returns nil if the promotion is impossible.
func (a *Any) PromoteCopy(dstTraits rtti.TypeTraits, alloc domain.Allocator) *Any {
	if a.IsEmpty() {
		return nil
	}
	dst := New(dstTraits, alloc)
	if !a.InnerAtom().PromoteCopy(dst.InnerAtom()) {
		dst.Release()
		return nil
	}
	return dst
}
