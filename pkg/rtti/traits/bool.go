package traits

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

type boolTraits struct {
	infos rtti.TypeInfos
}

// Bool is the scalar traits for Go's bool.
var Bool = &boolTraits{
	infos: rtti.TypeInfos{
		Name:  "bool",
		Id:    rtti.ScalarTypeId("bool"),
		Flags: rtti.FlagScalar | rtti.FlagNative,
		Size:  unsafe.Sizeof(false),
	},
}

func (t *boolTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *boolTraits) SizeOf() uintptr       { return t.infos.Size }
func (t *boolTraits) Alignment() uintptr    { return t.infos.Size }

func (t *boolTraits) Create(dst unsafe.Pointer)         { *(*bool)(dst) = false }
func (t *boolTraits) CreateCopy(dst, src unsafe.Pointer) { *(*bool)(dst) = *(*bool)(src) }
func (t *boolTraits) CreateMove(dst, src unsafe.Pointer) {
	*(*bool)(dst) = *(*bool)(src)
	*(*bool)(src) = false
}
func (t *boolTraits) Destroy(dst unsafe.Pointer) {}

func (t *boolTraits) IsDefaultValue(src unsafe.Pointer) bool { return !*(*bool)(src) }
func (t *boolTraits) ResetToDefaultValue(dst unsafe.Pointer) { *(*bool)(dst) = false }

func (t *boolTraits) Equals(a, b unsafe.Pointer) bool { return *(*bool)(a) == *(*bool)(b) }
func (t *boolTraits) HashValue(a unsafe.Pointer) uint64 {
	if *(*bool)(a) {
		return 1
	}
	return 0
}

func (t *boolTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool { return t.Equals(a, b) }
func (t *boolTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx)    { t.CreateCopy(dst, src) }

func (t *boolTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool { return false }
func (t *boolTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool { return false }

func (t *boolTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == t.infos.Id {
		return data
	}
	return nil
}

func (t *boolTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	if other != nil && other.Infos().Id == t.infos.Id {
		return t
	}
	return nil
}

func (t *boolTraits) AsScalar() rtti.ScalarTraits { return t }
func (t *boolTraits) AsPair() rtti.PairTraits     { return nil }
func (t *boolTraits) AsList() rtti.ListTraits     { return nil }
func (t *boolTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *boolTraits) AsObject() rtti.ObjectTraits { return nil }

func (t *boolTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

func init() { rtti.Register(Bool) }
