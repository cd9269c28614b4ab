package rtti

import "unsafe"

// Atom is the universal type-erased medium: a (pointer, traits) pair.
// It does not own its storage; the underlying value must outlive the
// Atom. Either both fields are nil/zero or neither is — never a mix.
type Atom struct {
	Ptr    unsafe.Pointer
	Traits TypeTraits
}

// NilAtom is the zero-value, empty Atom.
var NilAtom = Atom{}

// IsNil reports whether the atom carries no value.
func (a Atom) IsNil() bool { return a.Ptr == nil || a.Traits == nil }

// MakeAtom builds an Atom over v using the given traits. Callers are
// responsible for traits matching v's actual layout; TypedData
// re-checks that match on read.
func MakeAtom[T any](v *T, traits TypeTraits) Atom {
	return Atom{Ptr: unsafe.Pointer(v), Traits: traits}
}

// TypedData reinterprets the atom's storage as *T, asserting the
// atom's traits describe a value of exactly SizeOf() == sizeof(T)
// laid out compatibly. Callers that need genuine cross-type safety
// should use Traits.Cast instead; this is the fast, same-type path
// property accessors take.
func TypedData[T any](a Atom) *T {
	if a.IsNil() {
		panic("rtti: TypedData called on a nil Atom")
	}
	return (*T)(a.Ptr)
}

// Equals delegates to the atom's own traits; both atoms must describe
// the same trait (shallow equality only — see DeepEquals for
// recursive comparison).
func (a Atom) Equals(b Atom) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() == b.IsNil()
	}
	if a.Traits.Infos().Id != b.Traits.Infos().Id {
		return false
	}
	return a.Traits.Equals(a.Ptr, b.Ptr)
}

// DeepEquals recursively compares a and b, threading ctx so reference
// cycles terminate. A nil ctx is passed through as is and remembers no
// visited pair, so passing nil here is fine only for acyclic data.
func (a Atom) DeepEquals(b Atom, ctx *DeepCtx) bool {
	if a.IsNil() || b.IsNil() {
		return a.IsNil() == b.IsNil()
	}
	if a.Traits.Infos().Id != b.Traits.Infos().Id {
		return false
	}
	return a.Traits.DeepEquals(a.Ptr, b.Ptr, ctx)
}

// Hash delegates to the atom's traits.
func (a Atom) Hash() uint64 {
	if a.IsNil() {
		return 0
	}
	return a.Traits.HashValue(a.Ptr)
}

// Accept dispatches to the atom's traits, which in turn calls the
// matching per-category Visit method on visitor.
func (a Atom) Accept(visitor Visitor) bool {
	if a.IsNil() {
		return true
	}
	return a.Traits.Accept(a, visitor)
}

// PromoteCopy converts a's value into dst using a's traits; see
// TypeTraits.PromoteCopy.
func (a Atom) PromoteCopy(dst Atom) bool {
	if a.IsNil() || dst.IsNil() {
		return false
	}
	return a.Traits.PromoteCopy(a.Ptr, dst)
}

// PromoteMove converts a's value into dst, leaving a reset on success.
func (a Atom) PromoteMove(dst Atom) bool {
	if a.IsNil() || dst.IsNil() {
		return false
	}
	return a.Traits.PromoteMove(a.Ptr, dst)
}
