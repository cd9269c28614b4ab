package collection

import (
	"sync"
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// PairValue is the concrete storage layout a Pair[K, V] traits
// operates over: data pointers passed to its methods must point at a
// *PairValue[K, V].
type PairValue[K, V any] struct {
	First  K
	Second V
}

// Pair is the PairTraits over (K, V).
type Pair[K, V any] struct {
	key, value rtti.TypeTraits
	infos      rtti.TypeInfos
}

func NewPair[K, V any](key, value rtti.TypeTraits) *Pair[K, V] {
	p := &Pair[K, V]{key: key, value: value}
	p.infos = rtti.TypeInfos{
		Name:  "pair<" + key.Infos().Name + "," + value.Infos().Name + ">",
		Id:    rtti.PairTypeId(key.Infos().Id, value.Infos().Id),
		Flags: rtti.FlagPair,
		Size:  unsafe.Sizeof(PairValue[K, V]{}),
	}
	return p
}

var pairCache sync.Map

// PairOf is the memoized, registered entry point; see ListOf.
func PairOf[K, V any](key, value rtti.TypeTraits) *Pair[K, V] {
	id := rtti.PairTypeId(key.Infos().Id, value.Infos().Id)
	if v, ok := pairCache.Load(id); ok {
		if p, ok := v.(*Pair[K, V]); ok {
			return p
		}
	}
	p := NewPair[K, V](key, value)
	pairCache.Store(id, p)
	rtti.Register(p)
	return p
}

func (p *Pair[K, V]) data(ptr unsafe.Pointer) *PairValue[K, V] { return (*PairValue[K, V])(ptr) }

func (p *Pair[K, V]) Infos() rtti.TypeInfos { return p.infos }
func (p *Pair[K, V]) SizeOf() uintptr       { return p.infos.Size }
func (p *Pair[K, V]) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (p *Pair[K, V]) Create(dst unsafe.Pointer) {
	d := p.data(dst)
	p.key.Create(unsafe.Pointer(&d.First))
	p.value.Create(unsafe.Pointer(&d.Second))
}

func (p *Pair[K, V]) CreateCopy(dst, src unsafe.Pointer) { p.DeepCopy(dst, src, nil) }

func (p *Pair[K, V]) CreateMove(dst, src unsafe.Pointer) {
	d, s := p.data(dst), p.data(src)
	p.key.CreateMove(unsafe.Pointer(&d.First), unsafe.Pointer(&s.First))
	p.value.CreateMove(unsafe.Pointer(&d.Second), unsafe.Pointer(&s.Second))
}

func (p *Pair[K, V]) Destroy(dst unsafe.Pointer) {
	d := p.data(dst)
	p.key.Destroy(unsafe.Pointer(&d.First))
	p.value.Destroy(unsafe.Pointer(&d.Second))
}

func (p *Pair[K, V]) IsDefaultValue(src unsafe.Pointer) bool {
	s := p.data(src)
	return p.key.IsDefaultValue(unsafe.Pointer(&s.First)) && p.value.IsDefaultValue(unsafe.Pointer(&s.Second))
}

func (p *Pair[K, V]) ResetToDefaultValue(dst unsafe.Pointer) {
	d := p.data(dst)
	p.key.ResetToDefaultValue(unsafe.Pointer(&d.First))
	p.value.ResetToDefaultValue(unsafe.Pointer(&d.Second))
}

func (p *Pair[K, V]) Equals(a, b unsafe.Pointer) bool {
	av, bv := p.data(a), p.data(b)
	return p.key.Equals(unsafe.Pointer(&av.First), unsafe.Pointer(&bv.First)) &&
		p.value.Equals(unsafe.Pointer(&av.Second), unsafe.Pointer(&bv.Second))
}

func (p *Pair[K, V]) HashValue(a unsafe.Pointer) uint64 {
	av := p.data(a)
	h := p.key.HashValue(unsafe.Pointer(&av.First))
	h = h*1099511628211 ^ p.value.HashValue(unsafe.Pointer(&av.Second))
	return h
}

func (p *Pair[K, V]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	av, bv := p.data(a), p.data(b)
	return p.key.DeepEquals(unsafe.Pointer(&av.First), unsafe.Pointer(&bv.First), ctx) &&
		p.value.DeepEquals(unsafe.Pointer(&av.Second), unsafe.Pointer(&bv.Second), ctx)
}

func (p *Pair[K, V]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	d, s := p.data(dst), p.data(src)
	p.key.Create(unsafe.Pointer(&d.First))
	p.key.DeepCopy(unsafe.Pointer(&d.First), unsafe.Pointer(&s.First), ctx)
	p.value.Create(unsafe.Pointer(&d.Second))
	p.value.DeepCopy(unsafe.Pointer(&d.Second), unsafe.Pointer(&s.Second), ctx)
}

func (p *Pair[K, V]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dp := dst.Traits.AsPair()
	if dp == nil {
		return false
	}
	s := p.data(src)
	srcKey := rtti.Atom{Ptr: unsafe.Pointer(&s.First), Traits: p.key}
	srcVal := rtti.Atom{Ptr: unsafe.Pointer(&s.Second), Traits: p.value}
	return promoteOrCopyElement(srcKey, dp.First(dst.Ptr)) && promoteOrCopyElement(srcVal, dp.Second(dst.Ptr))
}

func (p *Pair[K, V]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !p.PromoteCopy(src, dst) {
		return false
	}
	p.Create(src)
	return true
}

func (p *Pair[K, V]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == p.infos.Id {
		return data
	}
	return nil
}

func (p *Pair[K, V]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	if other != nil && other.Infos().Id == p.infos.Id {
		return p
	}
	return nil
}

func (p *Pair[K, V]) AsScalar() rtti.ScalarTraits { return nil }
func (p *Pair[K, V]) AsPair() rtti.PairTraits     { return p }
func (p *Pair[K, V]) AsList() rtti.ListTraits     { return nil }
func (p *Pair[K, V]) AsDico() rtti.DicoTraits     { return nil }
func (p *Pair[K, V]) AsObject() rtti.ObjectTraits { return nil }

func (p *Pair[K, V]) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitPair(atom) }

func (p *Pair[K, V]) KeyTraits() rtti.TypeTraits   { return p.key }
func (p *Pair[K, V]) ValueTraits() rtti.TypeTraits { return p.value }

func (p *Pair[K, V]) First(data unsafe.Pointer) rtti.Atom {
	d := p.data(data)
	return rtti.Atom{Ptr: unsafe.Pointer(&d.First), Traits: p.key}
}

func (p *Pair[K, V]) Second(data unsafe.Pointer) rtti.Atom {
	d := p.data(data)
	return rtti.Atom{Ptr: unsafe.Pointer(&d.Second), Traits: p.value}
}
