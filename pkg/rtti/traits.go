package rtti

import "unsafe"

// TypeTraits is the single point of erasure for every described type:
// the polymorphic descriptor that lets visitors, serializers, and
// property accessors manipulate values without generic code crossing
// package boundaries. Concrete instances are process-global and
// immutable; callers hold them by the small interface value itself,
// the Go analogue of the original engine's small pointer-like handle.
type TypeTraits interface {
	// Infos returns the descriptor bundle: name, TypeId, flags, size.
	Infos() TypeInfos
	// SizeOf/Alignment report the storage requirements of one value,
	// independent of Infos() so composite traits can answer without
	// rebuilding the whole descriptor.
	SizeOf() uintptr
	Alignment() uintptr

	Create(dst unsafe.Pointer)
	CreateCopy(dst, src unsafe.Pointer)
	CreateMove(dst, src unsafe.Pointer)
	Destroy(dst unsafe.Pointer)

	IsDefaultValue(src unsafe.Pointer) bool
	ResetToDefaultValue(dst unsafe.Pointer)

	Equals(a, b unsafe.Pointer) bool
	HashValue(a unsafe.Pointer) uint64

	// DeepEquals/DeepCopy recurse through reference edges and
	// composites. ctx may be nil for traits that cannot hold a cycle
	// (every scalar except ref-object); list/dico/object traits must
	// thread it through.
	DeepEquals(a, b unsafe.Pointer, ctx *DeepCtx) bool
	DeepCopy(dst, src unsafe.Pointer, ctx *CopyCtx)

	// PromoteCopy/PromoteMove convert src (described by this trait)
	// into dst, whose Atom carries the destination trait. They return
	// false when the conversion is impossible; PromoteMove leaves src
	// reset on success.
	PromoteCopy(src unsafe.Pointer, dst Atom) bool
	PromoteMove(src unsafe.Pointer, dst Atom) bool

	// Cast returns data reinterpreted as dstTraits iff data's dynamic
	// type actually satisfies dstTraits (exact match, or a base class
	// of an object hierarchy); nil otherwise.
	Cast(data unsafe.Pointer, dstTraits TypeTraits) unsafe.Pointer

	// CommonType returns the least trait both self and other can
	// promote to, or nil when no common representation exists.
	CommonType(other TypeTraits) TypeTraits

	AsScalar() ScalarTraits
	AsPair() PairTraits
	AsList() ListTraits
	AsDico() DicoTraits
	AsObject() ObjectTraits

	// Accept dispatches atom (whose Traits must be this trait) to the
	// visitor's matching per-category method.
	Accept(atom Atom, visitor Visitor) bool
}

// ScalarTraits marks a TypeTraits as describing a leaf value: an
// integer, float, bool, string-like, name, path, binary blob, Any, or
// ref-object. It carries no extra operations beyond TypeTraits itself;
// its only role is to let AsScalar() report non-nil precisely when
// FlagScalar is set.
type ScalarTraits interface {
	TypeTraits
}

// PairTraits narrows a TypeTraits describing a (K, V) pair.
type PairTraits interface {
	TypeTraits
	KeyTraits() TypeTraits
	ValueTraits() TypeTraits
	First(data unsafe.Pointer) Atom
	Second(data unsafe.Pointer) Atom
}

// ListTraits narrows a TypeTraits describing an ordered sequence.
type ListTraits interface {
	TypeTraits
	ElementTraits() TypeTraits
	Count(data unsafe.Pointer) int
	IsEmpty(data unsafe.Pointer) bool
	At(data unsafe.Pointer, i int) Atom
	AddDefault(data unsafe.Pointer) Atom
	Reserve(data unsafe.Pointer, n int)
	Clear(data unsafe.Pointer)
	Empty(data unsafe.Pointer, n int)
	Remove(data unsafe.Pointer, i int)
	RemoveValue(data unsafe.Pointer, value Atom) bool
	// ForEach iterates in stable insertion order; fn returning false
	// stops the walk early.
	ForEach(data unsafe.Pointer, fn func(Atom) bool)
}

// DicoTraits narrows a TypeTraits describing an associative container.
type DicoTraits interface {
	TypeTraits
	KeyTraits() TypeTraits
	ValueTraits() TypeTraits
	Count(data unsafe.Pointer) int
	IsEmpty(data unsafe.Pointer) bool
	Find(data unsafe.Pointer, key Atom) (Atom, bool)
	// AddDefaultCopy/AddDefaultMove insert (key, default V) and return
	// the value's Atom. Precondition: key not already present.
	AddDefaultCopy(data unsafe.Pointer, key Atom) Atom
	AddDefaultMove(data unsafe.Pointer, key Atom) Atom
	AddCopy(data unsafe.Pointer, key, value Atom)
	AddMove(data unsafe.Pointer, key, value Atom)
	Remove(data unsafe.Pointer, key Atom) bool
	Reserve(data unsafe.Pointer, n int)
	Clear(data unsafe.Pointer)
	Empty(data unsafe.Pointer, n int)
	// ForEach's order is unspecified for hash-backed dicos and stable
	// insertion order for associative-vector dicos; fn returning false
	// stops the walk early.
	ForEach(data unsafe.Pointer, fn func(key, value Atom) bool)
}

// ObjectTraits narrows a TypeTraits describing a reflected MetaObject
// subtype.
type ObjectTraits interface {
	TypeTraits
	ClassName() string
}

// Visitor walks any Atom by traits-dispatch. Each per-category method
// returns false to stop a traversal early; the return value propagates
// up through composite Accept implementations. Visitor lives in this
// package (rather than alongside its concrete implementations) because
// Atom.Accept must reference it without importing back up the stack.
type Visitor interface {
	VisitScalar(atom Atom) bool
	VisitPair(atom Atom) bool
	VisitList(atom Atom) bool
	VisitDico(atom Atom) bool
	VisitObject(atom Atom) bool
}
