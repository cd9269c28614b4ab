package metaobject

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// strongRefTraits, safeRefTraits, and weakRefTraits are the
// TypeTraits implementations backing StrongRef[T]/SafeRef[T]/
// WeakRef[T] property declarations. Declare a field of one of those
// generic types and pass the matching *RefTraits(class) constructor to
// MetaClassBuilder.Property in place of a plain class.Traits() call —
// the same Property signature, just describing a managed edge instead
// of a bare reference.

// strongRefTraits describes an owning StrongRef[T] property: assigning
// through it retains the new target, and Destroy (run by
// ReleaseOwnedProperties during transaction teardown) releases it,
// reaching StrongRef.Release's destruction gate.
type strongRefTraits struct {
	class *MetaClass
	infos rtti.TypeInfos
}

// StrongRefTraits returns the TypeTraits describing a StrongRef[T]
// property whose target is an instance of class.
func StrongRefTraits(class *MetaClass) rtti.TypeTraits {
	var zero strongSlot
	return &strongRefTraits{
		class: class,
		infos: rtti.TypeInfos{
			Name:  "strong<" + class.name + ">",
			Id:    rtti.ObjectTypeId("strong<" + class.name + ">"),
			Flags: rtti.FlagObject,
			Size:  unsafe.Sizeof(zero),
		},
	}
}

func (t *strongRefTraits) data(ptr unsafe.Pointer) *strongSlot { return (*strongSlot)(ptr) }

func (t *strongRefTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *strongRefTraits) SizeOf() uintptr       { var z strongSlot; return unsafe.Sizeof(z) }
func (t *strongRefTraits) Alignment() uintptr    { var z strongSlot; return unsafe.Alignof(z) }

func (t *strongRefTraits) Create(dst unsafe.Pointer) { *t.data(dst) = strongSlot{} }

func (t *strongRefTraits) bind(s *strongSlot, target HasMetaObject) {
	if target != nil {
		target.Base().retain()
	}
	*s = strongSlot{target: target, valid: target != nil}
}

// release mirrors StrongRef.Release: drop the strong count and, if it
// reached zero while the target has no outer, mark it destroyed.
func (t *strongRefTraits) release(s *strongSlot) {
	if !s.valid {
		return
	}
	base := s.target.Base()
	if base.release() == 0 && base.Outer() == nil {
		base.markDestroyed()
	}
	*s = strongSlot{}
}

func (t *strongRefTraits) CreateCopy(dst, src unsafe.Pointer) {
	t.bind(t.data(dst), t.data(src).target)
}

func (t *strongRefTraits) CreateMove(dst, src unsafe.Pointer) {
	s := t.data(src)
	*t.data(dst) = *s
	*s = strongSlot{}
}

func (t *strongRefTraits) Destroy(dst unsafe.Pointer) { t.release(t.data(dst)) }

func (t *strongRefTraits) IsDefaultValue(src unsafe.Pointer) bool { return !t.data(src).valid }
func (t *strongRefTraits) ResetToDefaultValue(dst unsafe.Pointer) { t.release(t.data(dst)) }

func (t *strongRefTraits) Equals(a, b unsafe.Pointer) bool {
	sa, sb := t.data(a), t.data(b)
	if !sa.valid || !sb.valid {
		return sa.valid == sb.valid
	}
	return identity(sa.target) == identity(sb.target)
}

func (t *strongRefTraits) HashValue(a unsafe.Pointer) uint64 {
	s := t.data(a)
	if !s.valid {
		return 0
	}
	return uint64(uintptr(identity(s.target)))
}

func (t *strongRefTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	sa, sb := t.data(a), t.data(b)
	oa, ob := sa.target, sb.target
	if !sa.valid || !sb.valid || oa == nil || ob == nil {
		return sa.valid == sb.valid && oa == nil == (ob == nil)
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

func (t *strongRefTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	s := t.data(src)
	d := t.data(dst)
	so := s.target
	if !s.valid || so == nil {
		*d = strongSlot{}
		return
	}
	if ctx != nil {
		if prior, ok := ctx.Lookup(identity(so)); ok {
			t.bind(d, prior.(HasMetaObject))
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
		srcAtom := p.Get(so)
		dstAtom := p.Get(clone)
		p.Traits().DeepCopy(dstAtom.Ptr, srcAtom.Ptr, ctx)
	}
	t.bind(d, clone)
}

func (t *strongRefTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dt, ok := dst.Traits.(*strongRefTraits)
	if !ok {
		return false
	}
	s := t.data(src)
	d := dt.data(dst.Ptr)
	if !s.valid || s.target == nil {
		dt.release(d)
		return true
	}
	if !s.target.Base().Class().IsA(dt.class) {
		return false
	}
	old := *d
	dt.bind(d, s.target)
	dt.release(&old)
	return true
}

func (t *strongRefTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	*t.data(src) = strongSlot{}
	return true
}

func (t *strongRefTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	return nil
}

func (t *strongRefTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits { return nil }

func (t *strongRefTraits) AsScalar() rtti.ScalarTraits { return nil }
func (t *strongRefTraits) AsPair() rtti.PairTraits     { return nil }
func (t *strongRefTraits) AsList() rtti.ListTraits     { return nil }
func (t *strongRefTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *strongRefTraits) AsObject() rtti.ObjectTraits { return t }

func (t *strongRefTraits) ClassName() string { return t.class.name }

// Accept recurses into the owned target exactly like a plain object
// reference — a strong edge is the ownership spine of the graph, so
// visitors walk through it.
func (t *strongRefTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitObject(atom) }

// safeRefTraits describes a SafeRef[T] property: a non-owning,
// non-retaining observer that panics on Get once its target is
// destroyed. It never participates in refcounting, so Create/Destroy
// are plain zeroing.
type safeRefTraits struct {
	class *MetaClass
	infos rtti.TypeInfos
}

// SafeRefTraits returns the TypeTraits describing a SafeRef[T]
// property whose target is an instance of class.
func SafeRefTraits(class *MetaClass) rtti.TypeTraits {
	var zero safeSlot
	return &safeRefTraits{
		class: class,
		infos: rtti.TypeInfos{
			Name:  "safe<" + class.name + ">",
			Id:    rtti.ObjectTypeId("safe<" + class.name + ">"),
			Flags: rtti.FlagObject | rtti.FlagWeakRef,
			Size:  unsafe.Sizeof(zero),
		},
	}
}

func (t *safeRefTraits) data(ptr unsafe.Pointer) *safeSlot { return (*safeSlot)(ptr) }

func (t *safeRefTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *safeRefTraits) SizeOf() uintptr       { var z safeSlot; return unsafe.Sizeof(z) }
func (t *safeRefTraits) Alignment() uintptr    { var z safeSlot; return unsafe.Alignof(z) }

func (t *safeRefTraits) Create(dst unsafe.Pointer)         { *t.data(dst) = safeSlot{} }
func (t *safeRefTraits) CreateCopy(dst, src unsafe.Pointer) { *t.data(dst) = *t.data(src) }
func (t *safeRefTraits) CreateMove(dst, src unsafe.Pointer) {
	s := t.data(src)
	*t.data(dst) = *s
	*s = safeSlot{}
}
func (t *safeRefTraits) Destroy(dst unsafe.Pointer) { *t.data(dst) = safeSlot{} }

func (t *safeRefTraits) IsDefaultValue(src unsafe.Pointer) bool { return t.data(src).target == nil }
func (t *safeRefTraits) ResetToDefaultValue(dst unsafe.Pointer) { *t.data(dst) = safeSlot{} }

func (t *safeRefTraits) Equals(a, b unsafe.Pointer) bool {
	return identity(t.data(a).target) == identity(t.data(b).target)
}

func (t *safeRefTraits) HashValue(a unsafe.Pointer) uint64 {
	return uint64(uintptr(identity(t.data(a).target)))
}

// DeepEquals never recurses across a safe edge: two safe refs compare
// equal iff both are absent, or both alive with the same class —
// mirroring weakRefTraits' no-recursion contract (SafeRef differs from
// WeakRef only in that Get panics on a stale target instead of
// reporting absence).
func (t *safeRefTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	sa, sb := t.data(a), t.data(b)
	if sa.target == nil || sb.target == nil {
		return (sa.target == nil) == (sb.target == nil)
	}
	aliveA, aliveB := sa.target.Base().isAlive(), sb.target.Base().isAlive()
	if !aliveA || !aliveB {
		return aliveA == aliveB
	}
	return sa.target.Base().Class() == sb.target.Base().Class()
}

// DeepCopy re-points at whatever clone the owning strong edge already
// produced via ctx, same rule as weakRefTraits; a safe ref never
// clones its target itself.
func (t *safeRefTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	s := t.data(src)
	if s.target == nil {
		*t.data(dst) = safeSlot{}
		return
	}
	if ctx != nil {
		if clone, ok := ctx.Lookup(identity(s.target)); ok {
			*t.data(dst) = safeSlot{target: clone.(HasMetaObject)}
			return
		}
	}
	*t.data(dst) = safeSlot{}
}

func (t *safeRefTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool { return false }
func (t *safeRefTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool { return false }

func (t *safeRefTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	return nil
}

func (t *safeRefTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits { return nil }

func (t *safeRefTraits) AsScalar() rtti.ScalarTraits { return nil }
func (t *safeRefTraits) AsPair() rtti.PairTraits     { return nil }
func (t *safeRefTraits) AsList() rtti.ListTraits     { return nil }
func (t *safeRefTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *safeRefTraits) AsObject() rtti.ObjectTraits { return nil }

// Accept never recurses into the target (refs.go's no-recursion
// contract for non-owning edges); visitors that need to inspect the
// edge use SafeRefLivenessAt instead.
func (t *safeRefTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

// weakRefTraits describes a WeakRef[T] property: a non-owning,
// weak-counted observer that reports absence rather than panicking.
type weakRefTraits struct {
	class *MetaClass
	infos rtti.TypeInfos
}

// WeakRefTraits returns the TypeTraits describing a WeakRef[T]
// property whose target is an instance of class.
func WeakRefTraits(class *MetaClass) rtti.TypeTraits {
	var zero weakSlot
	return &weakRefTraits{
		class: class,
		infos: rtti.TypeInfos{
			Name:  "weak<" + class.name + ">",
			Id:    rtti.ObjectTypeId("weak<" + class.name + ">"),
			Flags: rtti.FlagObject | rtti.FlagWeakRef,
			Size:  unsafe.Sizeof(zero),
		},
	}
}

func (t *weakRefTraits) data(ptr unsafe.Pointer) *weakSlot { return (*weakSlot)(ptr) }

func (t *weakRefTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *weakRefTraits) SizeOf() uintptr       { var z weakSlot; return unsafe.Sizeof(z) }
func (t *weakRefTraits) Alignment() uintptr    { var z weakSlot; return unsafe.Alignof(z) }

func (t *weakRefTraits) Create(dst unsafe.Pointer) { *t.data(dst) = weakSlot{} }

func (t *weakRefTraits) bind(s *weakSlot, target HasMetaObject) {
	if target != nil {
		target.Base().retainWeak()
	}
	*s = weakSlot{target: target, bound: target != nil}
}

func (t *weakRefTraits) unbind(s *weakSlot) {
	if s.bound && s.target != nil {
		s.target.Base().releaseWeak()
	}
	*s = weakSlot{}
}

func (t *weakRefTraits) CreateCopy(dst, src unsafe.Pointer) {
	t.bind(t.data(dst), t.data(src).target)
}

func (t *weakRefTraits) CreateMove(dst, src unsafe.Pointer) {
	s := t.data(src)
	*t.data(dst) = *s
	*s = weakSlot{}
}

func (t *weakRefTraits) Destroy(dst unsafe.Pointer) { t.unbind(t.data(dst)) }

func (t *weakRefTraits) IsDefaultValue(src unsafe.Pointer) bool { return !t.data(src).bound }
func (t *weakRefTraits) ResetToDefaultValue(dst unsafe.Pointer) { t.unbind(t.data(dst)) }

func (t *weakRefTraits) Equals(a, b unsafe.Pointer) bool {
	sa, sb := t.data(a), t.data(b)
	if !sa.bound || !sb.bound {
		return sa.bound == sb.bound
	}
	return identity(sa.target) == identity(sb.target)
}

func (t *weakRefTraits) HashValue(a unsafe.Pointer) uint64 {
	s := t.data(a)
	if !s.bound {
		return 0
	}
	return uint64(uintptr(identity(s.target)))
}

// DeepEquals never recurses across a weak edge: two weak refs are
// equal iff both are unbound, or both bound to a live target of the
// same class. This is what makes the weak/safe edge a genuine
// cycle-breaker — the strong spine of the graph is still compared
// deeply via DeepCtx, but a weak back-edge never re-enters it.
func (t *weakRefTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	sa, sb := t.data(a), t.data(b)
	if !sa.bound || !sb.bound {
		return sa.bound == sb.bound
	}
	aliveA, aliveB := sa.target.Base().isAlive(), sb.target.Base().isAlive()
	if !aliveA || !aliveB {
		return aliveA == aliveB
	}
	return sa.target.Base().Class() == sb.target.Base().Class()
}

// DeepCopy never clones the weak target itself — it only re-points at
// whatever clone the owning strong edge already produced via ctx, or
// leaves the slot unbound if that hasn't happened (the target lies
// outside this copy's reachable strong subgraph).
func (t *weakRefTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	s := t.data(src)
	d := t.data(dst)
	if !s.bound || s.target == nil {
		*d = weakSlot{}
		return
	}
	if ctx != nil {
		if clone, ok := ctx.Lookup(identity(s.target)); ok {
			t.bind(d, clone.(HasMetaObject))
			return
		}
	}
	*d = weakSlot{}
}

func (t *weakRefTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool { return false }
func (t *weakRefTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool { return false }

func (t *weakRefTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	return nil
}

func (t *weakRefTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits { return nil }

func (t *weakRefTraits) AsScalar() rtti.ScalarTraits { return nil }
func (t *weakRefTraits) AsPair() rtti.PairTraits     { return nil }
func (t *weakRefTraits) AsList() rtti.ListTraits     { return nil }
func (t *weakRefTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *weakRefTraits) AsObject() rtti.ObjectTraits { return nil }

// Accept never recurses into the target — this is the concrete fix
// for the dead FlagWeakRef bit: a weak edge stops the walk here rather
// than dispatching to VisitObject, so visitors cannot loop back around
// a cycle through it. WeakRefLivenessAt lets a visitor inspect the
// edge's liveness without recursing into its properties.
func (t *weakRefTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

// WeakRefLivenessAt inspects a WeakRef[T]-described atom and reports
// whether it is bound and, if so, whether its target is still alive.
// Visitors call this instead of recursing through the edge (see
// weakRefTraits.Accept).
func WeakRefLivenessAt(atom rtti.Atom) (bound, alive bool) {
	if atom.IsNil() || !atom.Traits.Infos().Flags.Has(rtti.FlagWeakRef) {
		return false, false
	}
	if _, ok := atom.Traits.(*weakRefTraits); !ok {
		return false, false
	}
	s := (*weakSlot)(atom.Ptr)
	if !s.bound || s.target == nil {
		return false, false
	}
	return true, s.target.Base().isAlive()
}

// SafeRefLivenessAt is WeakRefLivenessAt's SafeRef counterpart.
func SafeRefLivenessAt(atom rtti.Atom) (bound, alive bool) {
	if atom.IsNil() {
		return false, false
	}
	if _, ok := atom.Traits.(*safeRefTraits); !ok {
		return false, false
	}
	s := (*safeSlot)(atom.Ptr)
	if s.target == nil {
		return false, false
	}
	return true, s.target.Base().isAlive()
}

// SetObjectAt writes obj into an object-category atom's storage,
// routing through the matching trait's bind logic so ownership/weak
// bookkeeping stays consistent — callers (e.g. the randomizer
// fabricating a fresh child) must use this instead of writing the
// raw pointer directly whenever the atom might describe a managed
// edge rather than a bare reference.
func SetObjectAt(atom rtti.Atom, obj HasMetaObject) {
	switch t := atom.Traits.(type) {
	case *strongRefTraits:
		t.bind(t.data(atom.Ptr), obj)
	case *weakRefTraits:
		t.bind(t.data(atom.Ptr), obj)
	case *safeRefTraits:
		*t.data(atom.Ptr) = safeSlot{target: obj}
	default:
		*(*HasMetaObject)(atom.Ptr) = obj
	}
}

// ReleaseOwnedProperties releases every StrongRef-kind property
// declared on obj's class, decrementing each referenced child's
// strong count and marking it destroyed if that was its last owner
// and it has no outer. pkg/transaction calls this once every object in
// a tearing-down transaction has had its own Unload run (and so its
// own outer cleared), which is what makes StrongRef.Release's
// Outer()==nil gate reachable in practice.
func ReleaseOwnedProperties(obj HasMetaObject) {
	if obj == nil {
		return
	}
	for _, p := range obj.Base().Class().AllProperties() {
		if t, ok := p.Traits().(*strongRefTraits); ok {
			t.Destroy(p.fieldPtr(obj))
		}
	}
}
