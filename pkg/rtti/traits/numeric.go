// Package traits provides the concrete scalar TypeTraits the core
// registers for itself at startup: numeric kinds, bool, string-like
// kinds, and the leaf types list/dico elements bottom out at.
package traits

import (
	"hash/fnv"
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// NumericKind names one of the four numeric scalar kinds this package
// describes. It drives the promotion matrix in promote.go.
type NumericKind int

const (
	KindInt32 NumericKind = iota
	KindInt64
	KindFloat32
	KindFloat64
)

func (k NumericKind) String() string {
	switch k {
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// numericKinded is implemented by every numeric traits instance so
// PromoteCopy/CommonType can find the destination kind without a
// reflection-based type switch.
type numericKinded interface {
	NumericKind() NumericKind
}

// Number is the set of Go types numericTraits can wrap.
type Number interface {
	~int32 | ~int64 | ~float32 | ~float64
}

type numericTraits[T Number] struct {
	infos rtti.TypeInfos
	kind  NumericKind
}

func newNumeric[T Number](name string, kind NumericKind) *numericTraits[T] {
	var zero T
	id := rtti.ScalarTypeId(name)
	return &numericTraits[T]{
		infos: rtti.TypeInfos{
			Name:  name,
			Id:    id,
			Flags: rtti.FlagScalar | rtti.FlagNative,
			Size:  unsafe.Sizeof(zero),
		},
		kind: kind,
	}
}

var (
	Int32   = newNumeric[int32]("int32", KindInt32)
	Int64   = newNumeric[int64]("int64", KindInt64)
	Float32 = newNumeric[float32]("float32", KindFloat32)
	Float64 = newNumeric[float64]("float64", KindFloat64)
)

func (t *numericTraits[T]) Infos() rtti.TypeInfos { return t.infos }
func (t *numericTraits[T]) SizeOf() uintptr       { return t.infos.Size }
func (t *numericTraits[T]) Alignment() uintptr    { return t.infos.Size }
func (t *numericTraits[T]) NumericKind() NumericKind { return t.kind }

func (t *numericTraits[T]) Create(dst unsafe.Pointer) {
	var zero T
	*(*T)(dst) = zero
}

func (t *numericTraits[T]) CreateCopy(dst, src unsafe.Pointer) {
	*(*T)(dst) = *(*T)(src)
}

func (t *numericTraits[T]) CreateMove(dst, src unsafe.Pointer) {
	*(*T)(dst) = *(*T)(src)
	t.Create(src)
}

func (t *numericTraits[T]) Destroy(dst unsafe.Pointer) {}

func (t *numericTraits[T]) IsDefaultValue(src unsafe.Pointer) bool {
	var zero T
	return *(*T)(src) == zero
}

func (t *numericTraits[T]) ResetToDefaultValue(dst unsafe.Pointer) { t.Create(dst) }

func (t *numericTraits[T]) Equals(a, b unsafe.Pointer) bool {
	return *(*T)(a) == *(*T)(b)
}

func (t *numericTraits[T]) HashValue(a unsafe.Pointer) uint64 {
	h := fnv.New64a()
	var zero T
	b := unsafe.Slice((*byte)(a), int(unsafe.Sizeof(zero)))
	h.Write(b)
	return h.Sum64()
}

func (t *numericTraits[T]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	return t.Equals(a, b)
}

func (t *numericTraits[T]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	t.CreateCopy(dst, src)
}

func (t *numericTraits[T]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dk, ok := dst.Traits.(numericKinded)
	if !ok {
		return false
	}
	return promoteNumeric(t.kind, src, dk.NumericKind(), dst.Ptr)
}

func (t *numericTraits[T]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	t.Create(src)
	return true
}

func (t *numericTraits[T]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == t.infos.Id {
		return data
	}
	return nil
}

func (t *numericTraits[T]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	nk, isNumeric := other.(numericKinded)
	if !isNumeric {
		return nil
	}
	return byKind[widerKind(t.kind, nk.NumericKind())]
}

func (t *numericTraits[T]) AsScalar() rtti.ScalarTraits { return t }
func (t *numericTraits[T]) AsPair() rtti.PairTraits      { return nil }
func (t *numericTraits[T]) AsList() rtti.ListTraits      { return nil }
func (t *numericTraits[T]) AsDico() rtti.DicoTraits      { return nil }
func (t *numericTraits[T]) AsObject() rtti.ObjectTraits  { return nil }

func (t *numericTraits[T]) Accept(atom rtti.Atom, v rtti.Visitor) bool {
	return v.VisitScalar(atom)
}

var byKind = map[NumericKind]rtti.TypeTraits{
	KindInt32:   Int32,
	KindInt64:   Int64,
	KindFloat32: Float32,
	KindFloat64: Float64,
}

// numericRank orders kinds by which can represent the other losslessly
// in the common case; used only to pick a CommonType candidate, which
// PromoteCopy's round-trip check still verifies per-value.
var numericRank = map[NumericKind]int{
	KindInt32: 0, KindFloat32: 1, KindInt64: 2, KindFloat64: 3,
}

func widerKind(a, b NumericKind) NumericKind {
	if numericRank[a] >= numericRank[b] {
		return a
	}
	return b
}

func init() {
	rtti.Register(Int32)
	rtti.Register(Int64)
	rtti.Register(Float32)
	rtti.Register(Float64)
}
