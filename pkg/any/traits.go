package any

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// anyTraits lets an Any nest as a scalar leaf inside a List/Dico/Pair,
// e.g. list<any>, matching spec §4.4's "any" scalar kind.
type anyTraits struct {
	infos rtti.TypeInfos
}

// Traits is the scalar traits describing Any itself.
var Traits = &anyTraits{
	infos: rtti.TypeInfos{
		Name:  "any",
		Id:    rtti.ScalarTypeId("any"),
		Flags: rtti.FlagScalar,
		Size:  unsafe.Sizeof(Any{}),
	},
}

func (t *anyTraits) data(ptr unsafe.Pointer) *Any { return (*Any)(ptr) }

func (t *anyTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *anyTraits) SizeOf() uintptr       { return t.infos.Size }
func (t *anyTraits) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (t *anyTraits) Create(dst unsafe.Pointer) { *t.data(dst) = Any{} }

func (t *anyTraits) CreateCopy(dst, src unsafe.Pointer) { t.data(dst).Assign(t.data(src)) }

func (t *anyTraits) CreateMove(dst, src unsafe.Pointer) {
	*t.data(dst) = *t.data(src)
	*t.data(src) = Any{}
}

func (t *anyTraits) Destroy(dst unsafe.Pointer) { t.data(dst).Release() }

func (t *anyTraits) IsDefaultValue(src unsafe.Pointer) bool { return t.data(src).IsEmpty() }
func (t *anyTraits) ResetToDefaultValue(dst unsafe.Pointer) {
	t.data(dst).Release()
}

func (t *anyTraits) Equals(a, b unsafe.Pointer) bool { return t.data(a).Equals(t.data(b)) }
func (t *anyTraits) HashValue(a unsafe.Pointer) uint64 { return t.data(a).Hash() }

func (t *anyTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	return t.data(a).DeepEquals(t.data(b), ctx)
}

func (t *anyTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	t.data(dst).deepCopyFrom(t.data(src), ctx)
}

func (t *anyTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	if _, ok := dst.Traits.(*anyTraits); !ok {
		return false
	}
	t.data(dst.Ptr).Assign(t.data(src))
	return true
}

func (t *anyTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	t.data(src).Release()
	return true
}

func (t *anyTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == t.infos.Id {
		return data
	}
	return nil
}

func (t *anyTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	if other != nil && other.Infos().Id == t.infos.Id {
		return t
	}
	return nil
}

func (t *anyTraits) AsScalar() rtti.ScalarTraits { return t }
func (t *anyTraits) AsPair() rtti.PairTraits     { return nil }
func (t *anyTraits) AsList() rtti.ListTraits     { return nil }
func (t *anyTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *anyTraits) AsObject() rtti.ObjectTraits { return nil }

func (t *anyTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

func init() { rtti.Register(Traits) }
