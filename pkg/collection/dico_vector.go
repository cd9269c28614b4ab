package collection

import (
	"sync"
	"unsafe"

	anypkg "github.com/metacore/reflect/pkg/any"
	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/rtti"
)

// vectorEntry is one (key, value) slot in a VectorDico's backing
// slice.
type vectorEntry[K comparable, V any] struct {
	key   K
	value V
}

// VectorDico is the ordered associative-vector DicoTraits backend:
// entries keep stable insertion order and lookup is linear, the Go
// analogue of the original engine's TAssociativeVector — preferred
// over HashDico when iteration order must be deterministic (e.g. for
// reproducible serialization dumps). Data pointers must point at a
// *[]vectorEntry[K, V].
type VectorDico[K comparable, V any] struct {
	key, value rtti.TypeTraits
	infos      rtti.TypeInfos
}

func NewVectorDico[K comparable, V any](key, value rtti.TypeTraits) *VectorDico[K, V] {
	d := &VectorDico[K, V]{key: key, value: value}
	d.infos = rtti.TypeInfos{
		Name:  "assocvector<" + key.Infos().Name + "," + value.Infos().Name + ">",
		Id:    rtti.DicoTypeId(rtti.TypeId(uint32(key.Infos().Id)^0x5a5a5a5a), value.Infos().Id),
		Flags: rtti.FlagDico,
		Size:  unsafe.Sizeof([]vectorEntry[K, V](nil)),
	}
	return d
}

var vectorDicoCache sync.Map

// VectorDicoOf is the memoized, registered entry point; see ListOf.
func VectorDicoOf[K comparable, V any](key, value rtti.TypeTraits) *VectorDico[K, V] {
	id := rtti.DicoTypeId(rtti.TypeId(uint32(key.Infos().Id)^0x5a5a5a5a), value.Infos().Id)
	if v, ok := vectorDicoCache.Load(id); ok {
		if d, ok := v.(*VectorDico[K, V]); ok {
			return d
		}
	}
	d := NewVectorDico[K, V](key, value)
	vectorDicoCache.Store(id, d)
	rtti.Register(d)
	return d
}

func (d *VectorDico[K, V]) data(ptr unsafe.Pointer) *[]vectorEntry[K, V] {
	return (*[]vectorEntry[K, V])(ptr)
}

func (d *VectorDico[K, V]) Infos() rtti.TypeInfos { return d.infos }
func (d *VectorDico[K, V]) SizeOf() uintptr       { return d.infos.Size }
func (d *VectorDico[K, V]) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (d *VectorDico[K, V]) Create(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *VectorDico[K, V]) CreateCopy(dst, src unsafe.Pointer) { d.DeepCopy(dst, src, nil) }

func (d *VectorDico[K, V]) CreateMove(dst, src unsafe.Pointer) {
	*d.data(dst) = *d.data(src)
	*d.data(src) = nil
}

func (d *VectorDico[K, V]) Destroy(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *VectorDico[K, V]) IsDefaultValue(src unsafe.Pointer) bool { return len(*d.data(src)) == 0 }
func (d *VectorDico[K, V]) ResetToDefaultValue(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *VectorDico[K, V]) Equals(a, b unsafe.Pointer) bool { return d.DeepEquals(a, b, nil) }

func (d *VectorDico[K, V]) HashValue(a unsafe.Pointer) uint64 {
	var h uint64
	for _, e := range *d.data(a) {
		kh := d.key.HashValue(unsafe.Pointer(&e.key))
		vh := d.value.HashValue(unsafe.Pointer(&e.value))
		h ^= kh*1099511628211 ^ vh
	}
	return h
}

func (d *VectorDico[K, V]) indexOf(s []vectorEntry[K, V], key K) int {
	for i := range s {
		if s[i].key == key {
			return i
		}
	}
	return -1
}

func (d *VectorDico[K, V]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	as, bs := *d.data(a), *d.data(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		j := d.indexOf(bs, as[i].key)
		if j < 0 || !d.value.DeepEquals(unsafe.Pointer(&as[i].value), unsafe.Pointer(&bs[j].value), ctx) {
			return false
		}
	}
	return true
}

func (d *VectorDico[K, V]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	ss := *d.data(src)
	out := make([]vectorEntry[K, V], len(ss))
	for i := range ss {
		out[i].key = ss[i].key
		d.value.Create(unsafe.Pointer(&out[i].value))
		d.value.DeepCopy(unsafe.Pointer(&out[i].value), unsafe.Pointer(&ss[i].value), ctx)
	}
	*d.data(dst) = out
}

func (d *VectorDico[K, V]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dd := dst.Traits.AsDico()
	if dd == nil {
		return false
	}
	dd.Clear(dst.Ptr)
	ss := *d.data(src)
	dd.Reserve(dst.Ptr, len(ss))
	for i := range ss {
		srcKey := rtti.Atom{Ptr: unsafe.Pointer(&ss[i].key), Traits: d.key}
		srcVal := rtti.Atom{Ptr: unsafe.Pointer(&ss[i].value), Traits: d.value}

		dstKeyBox := anypkg.New(dd.KeyTraits(), domain.NewDefaultAllocator(domain.RTTI))
		ok := promoteOrCopyElement(srcKey, dstKeyBox.InnerAtom())
		if ok {
			dstVal := dd.AddDefaultCopy(dst.Ptr, dstKeyBox.InnerAtom())
			ok = promoteOrCopyElement(srcVal, dstVal)
		}
		dstKeyBox.Release()
		if !ok {
			return false
		}
	}
	return true
}

func (d *VectorDico[K, V]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !d.PromoteCopy(src, dst) {
		return false
	}
	d.Create(src)
	return true
}

func (d *VectorDico[K, V]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == d.infos.Id {
		return data
	}
	return nil
}

func (d *VectorDico[K, V]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	od := other.AsDico()
	if od == nil {
		return nil
	}
	if ck := d.key.CommonType(od.KeyTraits()); ck != nil && ck.Infos().Id == d.key.Infos().Id {
		if cv := d.value.CommonType(od.ValueTraits()); cv != nil && cv.Infos().Id == d.value.Infos().Id {
			return d
		}
	}
	return nil
}

func (d *VectorDico[K, V]) AsScalar() rtti.ScalarTraits { return nil }
func (d *VectorDico[K, V]) AsPair() rtti.PairTraits     { return nil }
func (d *VectorDico[K, V]) AsList() rtti.ListTraits     { return nil }
func (d *VectorDico[K, V]) AsDico() rtti.DicoTraits     { return d }
func (d *VectorDico[K, V]) AsObject() rtti.ObjectTraits { return nil }

func (d *VectorDico[K, V]) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitDico(atom) }

func (d *VectorDico[K, V]) KeyTraits() rtti.TypeTraits   { return d.key }
func (d *VectorDico[K, V]) ValueTraits() rtti.TypeTraits { return d.value }

func (d *VectorDico[K, V]) Count(data unsafe.Pointer) int    { return len(*d.data(data)) }
func (d *VectorDico[K, V]) IsEmpty(data unsafe.Pointer) bool { return len(*d.data(data)) == 0 }

func (d *VectorDico[K, V]) Find(data unsafe.Pointer, key rtti.Atom) (rtti.Atom, bool) {
	k := *(*K)(key.Ptr)
	s := d.data(data)
	i := d.indexOf(*s, k)
	if i < 0 {
		return rtti.Atom{}, false
	}
	return rtti.Atom{Ptr: unsafe.Pointer(&(*s)[i].value), Traits: d.value}, true
}

func (d *VectorDico[K, V]) AddDefaultCopy(data unsafe.Pointer, key rtti.Atom) rtti.Atom {
	s := d.data(data)
	k := *(*K)(key.Ptr)
	if d.indexOf(*s, k) >= 0 {
		rtti.Fatalf(d.infos.Name, "", "AddDefaultCopy: key already present")
	}
	var e vectorEntry[K, V]
	e.key = k
	d.value.Create(unsafe.Pointer(&e.value))
	*s = append(*s, e)
	last := &(*s)[len(*s)-1]
	return rtti.Atom{Ptr: unsafe.Pointer(&last.value), Traits: d.value}
}

func (d *VectorDico[K, V]) AddDefaultMove(data unsafe.Pointer, key rtti.Atom) rtti.Atom {
	return d.AddDefaultCopy(data, key)
}

func (d *VectorDico[K, V]) AddCopy(data unsafe.Pointer, key, value rtti.Atom) {
	dst := d.AddDefaultCopy(data, key)
	d.value.CreateCopy(dst.Ptr, value.Ptr)
}

func (d *VectorDico[K, V]) AddMove(data unsafe.Pointer, key, value rtti.Atom) {
	dst := d.AddDefaultCopy(data, key)
	d.value.CreateMove(dst.Ptr, value.Ptr)
}

func (d *VectorDico[K, V]) Remove(data unsafe.Pointer, key rtti.Atom) bool {
	s := d.data(data)
	k := *(*K)(key.Ptr)
	i := d.indexOf(*s, k)
	if i < 0 {
		return false
	}
	d.value.Destroy(unsafe.Pointer(&(*s)[i].value))
	*s = append((*s)[:i], (*s)[i+1:]...)
	return true
}

func (d *VectorDico[K, V]) Reserve(data unsafe.Pointer, n int) {
	s := d.data(data)
	if cap(*s) >= n {
		return
	}
	grown := make([]vectorEntry[K, V], len(*s), n)
	copy(grown, *s)
	*s = grown
}

func (d *VectorDico[K, V]) Clear(data unsafe.Pointer) { *d.data(data) = (*d.data(data))[:0] }

func (d *VectorDico[K, V]) Empty(data unsafe.Pointer, n int) {
	*d.data(data) = make([]vectorEntry[K, V], 0, n)
}

func (d *VectorDico[K, V]) ForEach(data unsafe.Pointer, fn func(key, value rtti.Atom) bool) {
	s := *d.data(data)
	for i := range s {
		if !fn(rtti.Atom{Ptr: unsafe.Pointer(&s[i].key), Traits: d.key}, rtti.Atom{Ptr: unsafe.Pointer(&s[i].value), Traits: d.value}) {
			return
		}
	}
}
