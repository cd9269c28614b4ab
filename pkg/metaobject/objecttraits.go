package metaobject

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// objectTraits implements rtti.TypeTraits for a reflected class,
// letting a HasMetaObject value serve as a scalar leaf anywhere a
// TypeTraits is expected (a list<MyClass> element, a bare-reference
// MetaProperty, a visited Atom). Data pointers point at a
// *HasMetaObject slot holding a non-owning reference to the actual
// instance — this is the default shape for list/dico elements and any
// property that does not need its own lifetime tracked. A property
// that DOES need ownership, liveness, or weak observation tracked
// should be declared with StrongRefTraits/SafeRefTraits/WeakRefTraits
// instead (refstraits.go), which share this package's retain/release/
// markDestroyed bookkeeping on MetaObject.
type objectTraits struct {
	class *MetaClass
	infos rtti.TypeInfos
}

func newObjectTraits(class *MetaClass) *objectTraits {
	var zero HasMetaObject
	return &objectTraits{
		class: class,
		infos: rtti.TypeInfos{
			Name:  class.name,
			Id:    rtti.ObjectTypeId(class.name),
			Flags: rtti.FlagObject,
			Size:  unsafe.Sizeof(zero),
		},
	}
}

func (t *objectTraits) data(ptr unsafe.Pointer) *HasMetaObject { return (*HasMetaObject)(ptr) }

func (t *objectTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *objectTraits) SizeOf() uintptr       { return unsafe.Sizeof((*HasMetaObject)(nil)) }
func (t *objectTraits) Alignment() uintptr    { return unsafe.Alignof((*HasMetaObject)(nil)) }

func (t *objectTraits) Create(dst unsafe.Pointer) { *t.data(dst) = nil }

func (t *objectTraits) CreateCopy(dst, src unsafe.Pointer) { *t.data(dst) = *t.data(src) }
func (t *objectTraits) CreateMove(dst, src unsafe.Pointer) {
	*t.data(dst) = *t.data(src)
	*t.data(src) = nil
}

func (t *objectTraits) Destroy(dst unsafe.Pointer) { *t.data(dst) = nil }

func (t *objectTraits) IsDefaultValue(src unsafe.Pointer) bool { return *t.data(src) == nil }
func (t *objectTraits) ResetToDefaultValue(dst unsafe.Pointer) { *t.data(dst) = nil }

func (t *objectTraits) Equals(a, b unsafe.Pointer) bool {
	oa, ob := *t.data(a), *t.data(b)
	if oa == nil || ob == nil {
		return oa == nil && ob == nil
	}
	return oa.Base() == ob.Base()
}

func (t *objectTraits) HashValue(a unsafe.Pointer) uint64 {
	oa := *t.data(a)
	if oa == nil {
		return 0
	}
	return uint64(uintptr(unsafe.Pointer(oa.Base())))
}

// identity returns the comparable key used to track object identity in
// DeepCtx/CopyCtx: the address of the shared MetaObject base.
func identity(obj HasMetaObject) unsafe.Pointer {
	if obj == nil {
		return nil
	}
	return unsafe.Pointer(obj.Base())
}

func (t *objectTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	oa, ob := *t.data(a), *t.data(b)
	if oa == nil || ob == nil {
		return oa == nil && ob == nil
	}
	ia, ib := identity(oa), identity(ob)
	if ia == ib {
		return true
	}
	if ctx.Enter(ia, ib) {
		return true
	}
	ca, cb := oa.Base().Class(), ob.Base().Class()
	if ca != cb {
		return false
	}
	for _, p := range ca.AllProperties() {
		av, bv := p.Get(oa), p.Get(ob)
		if !av.DeepEquals(bv, ctx) {
			return false
		}
	}
	return true
}

func (t *objectTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	so := *t.data(src)
	if so == nil {
		*t.data(dst) = nil
		return
	}
	if ctx != nil {
		if prior, ok := ctx.Lookup(identity(so)); ok {
			*t.data(dst) = prior.(HasMetaObject)
			return
		}
	}
	class := so.Base().Class()
	clone := class.CreateInstance()
	if ctx != nil {
		ctx.Remember(identity(so), clone)
	}
	for _, p := range class.AllProperties() {
		if p.Has(PropertyTransient) {
			continue
		}
		src := p.Get(so)
		dstAtom := p.Get(clone)
		p.Traits().DeepCopy(dstAtom.Ptr, src.Ptr, ctx)
	}
	*t.data(dst) = clone
}

func (t *objectTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	ot := dst.Traits.AsObject()
	if ot == nil {
		return false
	}
	dstObjTraits, ok := ot.(*objectTraits)
	if !ok {
		return false
	}
	so := *t.data(src)
	if so == nil {
		*dstObjTraits.data(dst.Ptr) = nil
		return true
	}
	if !so.Base().Class().IsA(dstObjTraits.class) {
		return false
	}
	*dstObjTraits.data(dst.Ptr) = so
	return true
}

func (t *objectTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	*t.data(src) = nil
	return true
}

func (t *objectTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	ot, ok := dstTraits.AsObject().(*objectTraits)
	if !ok {
		return nil
	}
	so := *t.data(data)
	if so == nil || !so.Base().Class().IsA(ot.class) {
		return nil
	}
	return data
}

func (t *objectTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	oo, ok := other.AsObject().(*objectTraits)
	if !ok {
		return nil
	}
	for cur := t.class; cur != nil; cur = cur.parent {
		if cur.IsA(oo.class) || oo.class.IsA(cur) {
			return cur.Traits()
		}
	}
	return nil
}

func (t *objectTraits) AsScalar() rtti.ScalarTraits { return nil }
func (t *objectTraits) AsPair() rtti.PairTraits     { return nil }
func (t *objectTraits) AsList() rtti.ListTraits     { return nil }
func (t *objectTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *objectTraits) AsObject() rtti.ObjectTraits { return t }

func (t *objectTraits) ClassName() string { return t.class.name }

func (t *objectTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitObject(atom) }

// DeepEquals is the package-level entry point used by tests and
// visitors comparing two top-level objects directly, without going
// through an Atom.
func DeepEquals(a, b HasMetaObject, ctx *rtti.DeepCtx) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	var pa, pb HasMetaObject = a, b
	ta := a.Base().Class().Traits()
	return ta.DeepEquals(unsafe.Pointer(&pa), unsafe.Pointer(&pb), ctx)
}
