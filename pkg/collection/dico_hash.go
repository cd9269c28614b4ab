package collection

import (
	"sync"
	"unsafe"

	anypkg "github.com/metacore/reflect/pkg/any"
	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/rtti"
)

// HashDico is a Go map-backed DicoTraits over comparable key type K
// and value type V. Iteration order is unspecified, matching spec
// §4.4's "hash dicos" backend. Data pointers must point at a
// *map[K]*V; values are heap-boxed so Find can hand back an
// addressable Atom into live storage.
type HashDico[K comparable, V any] struct {
	key, value rtti.TypeTraits
	infos      rtti.TypeInfos
}

func NewHashDico[K comparable, V any](key, value rtti.TypeTraits) *HashDico[K, V] {
	d := &HashDico[K, V]{key: key, value: value}
	d.infos = rtti.TypeInfos{
		Name:  "dico<" + key.Infos().Name + "," + value.Infos().Name + ">",
		Id:    rtti.DicoTypeId(key.Infos().Id, value.Infos().Id),
		Flags: rtti.FlagDico,
		Size:  unsafe.Sizeof(map[K]*V(nil)),
	}
	return d
}

var hashDicoCache sync.Map

// HashDicoOf is the memoized, registered entry point; see ListOf.
func HashDicoOf[K comparable, V any](key, value rtti.TypeTraits) *HashDico[K, V] {
	id := rtti.DicoTypeId(key.Infos().Id, value.Infos().Id)
	if v, ok := hashDicoCache.Load(id); ok {
		if d, ok := v.(*HashDico[K, V]); ok {
			return d
		}
	}
	d := NewHashDico[K, V](key, value)
	hashDicoCache.Store(id, d)
	rtti.Register(d)
	return d
}

func (d *HashDico[K, V]) data(ptr unsafe.Pointer) *map[K]*V { return (*map[K]*V)(ptr) }

func (d *HashDico[K, V]) Infos() rtti.TypeInfos { return d.infos }
func (d *HashDico[K, V]) SizeOf() uintptr       { return d.infos.Size }
func (d *HashDico[K, V]) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (d *HashDico[K, V]) Create(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *HashDico[K, V]) CreateCopy(dst, src unsafe.Pointer) { d.DeepCopy(dst, src, nil) }

func (d *HashDico[K, V]) CreateMove(dst, src unsafe.Pointer) {
	*d.data(dst) = *d.data(src)
	*d.data(src) = nil
}

func (d *HashDico[K, V]) Destroy(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *HashDico[K, V]) IsDefaultValue(src unsafe.Pointer) bool { return len(*d.data(src)) == 0 }
func (d *HashDico[K, V]) ResetToDefaultValue(dst unsafe.Pointer) { *d.data(dst) = nil }

func (d *HashDico[K, V]) Equals(a, b unsafe.Pointer) bool { return d.DeepEquals(a, b, nil) }

func (d *HashDico[K, V]) HashValue(a unsafe.Pointer) uint64 {
	var h uint64
	for k, v := range *d.data(a) {
		kh := d.key.HashValue(unsafe.Pointer(&k))
		vh := d.value.HashValue(unsafe.Pointer(v))
		h ^= kh*1099511628211 ^ vh // commutative combine: order-independent
	}
	return h
}

func (d *HashDico[K, V]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	am, bm := *d.data(a), *d.data(b)
	if len(am) != len(bm) {
		return false
	}
	for k, v := range am {
		bv, ok := bm[k]
		if !ok || !d.value.DeepEquals(unsafe.Pointer(v), unsafe.Pointer(bv), ctx) {
			return false
		}
	}
	return true
}

func (d *HashDico[K, V]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	sm := *d.data(src)
	out := make(map[K]*V, len(sm))
	for k, v := range sm {
		nv := new(V)
		d.value.Create(unsafe.Pointer(nv))
		d.value.DeepCopy(unsafe.Pointer(nv), unsafe.Pointer(v), ctx)
		out[k] = nv
	}
	*d.data(dst) = out
}

func (d *HashDico[K, V]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dd := dst.Traits.AsDico()
	if dd == nil {
		return false
	}
	dd.Clear(dst.Ptr)
	sm := *d.data(src)
	dd.Reserve(dst.Ptr, len(sm))
	for k, v := range sm {
		srcKey := rtti.Atom{Ptr: unsafe.Pointer(&k), Traits: d.key}
		srcVal := rtti.Atom{Ptr: unsafe.Pointer(v), Traits: d.value}

		dstKeyBox := anypkg.New(dd.KeyTraits(), domain.NewDefaultAllocator(domain.RTTI))
		ok := promoteOrCopyElement(srcKey, dstKeyBox.InnerAtom())
		if ok {
			if _, exists := dd.Find(dst.Ptr, dstKeyBox.InnerAtom()); exists {
				ok = false
			}
		}
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

func (d *HashDico[K, V]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !d.PromoteCopy(src, dst) {
		return false
	}
	d.Create(src)
	return true
}

func (d *HashDico[K, V]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == d.infos.Id {
		return data
	}
	return nil
}

func (d *HashDico[K, V]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
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

func (d *HashDico[K, V]) AsScalar() rtti.ScalarTraits { return nil }
func (d *HashDico[K, V]) AsPair() rtti.PairTraits     { return nil }
func (d *HashDico[K, V]) AsList() rtti.ListTraits     { return nil }
func (d *HashDico[K, V]) AsDico() rtti.DicoTraits     { return d }
func (d *HashDico[K, V]) AsObject() rtti.ObjectTraits { return nil }

func (d *HashDico[K, V]) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitDico(atom) }

func (d *HashDico[K, V]) KeyTraits() rtti.TypeTraits   { return d.key }
func (d *HashDico[K, V]) ValueTraits() rtti.TypeTraits { return d.value }

func (d *HashDico[K, V]) Count(data unsafe.Pointer) int    { return len(*d.data(data)) }
func (d *HashDico[K, V]) IsEmpty(data unsafe.Pointer) bool { return len(*d.data(data)) == 0 }

func (d *HashDico[K, V]) Find(data unsafe.Pointer, key rtti.Atom) (rtti.Atom, bool) {
	k := *(*K)(key.Ptr)
	m := *d.data(data)
	v, ok := m[k]
	if !ok {
		return rtti.Atom{}, false
	}
	return rtti.Atom{Ptr: unsafe.Pointer(v), Traits: d.value}, true
}

func (d *HashDico[K, V]) ensure(data unsafe.Pointer) map[K]*V {
	m := *d.data(data)
	if m == nil {
		m = make(map[K]*V)
		*d.data(data) = m
	}
	return m
}

func (d *HashDico[K, V]) AddDefaultCopy(data unsafe.Pointer, key rtti.Atom) rtti.Atom {
	m := d.ensure(data)
	k := *(*K)(key.Ptr)
	if _, exists := m[k]; exists {
		rtti.Fatalf(d.infos.Name, "", "AddDefaultCopy: key already present")
	}
	v := new(V)
	d.value.Create(unsafe.Pointer(v))
	m[k] = v
	return rtti.Atom{Ptr: unsafe.Pointer(v), Traits: d.value}
}

func (d *HashDico[K, V]) AddDefaultMove(data unsafe.Pointer, key rtti.Atom) rtti.Atom {
	return d.AddDefaultCopy(data, key)
}

func (d *HashDico[K, V]) AddCopy(data unsafe.Pointer, key, value rtti.Atom) {
	dst := d.AddDefaultCopy(data, key)
	d.value.CreateCopy(dst.Ptr, value.Ptr)
}

func (d *HashDico[K, V]) AddMove(data unsafe.Pointer, key, value rtti.Atom) {
	dst := d.AddDefaultCopy(data, key)
	d.value.CreateMove(dst.Ptr, value.Ptr)
}

func (d *HashDico[K, V]) Remove(data unsafe.Pointer, key rtti.Atom) bool {
	m := *d.data(data)
	k := *(*K)(key.Ptr)
	v, ok := m[k]
	if !ok {
		return false
	}
	d.value.Destroy(unsafe.Pointer(v))
	delete(m, k)
	return true
}

func (d *HashDico[K, V]) Reserve(data unsafe.Pointer, n int) {
	if *d.data(data) == nil {
		*d.data(data) = make(map[K]*V, n)
	}
}

func (d *HashDico[K, V]) Clear(data unsafe.Pointer) { *d.data(data) = make(map[K]*V) }

func (d *HashDico[K, V]) Empty(data unsafe.Pointer, n int) { *d.data(data) = make(map[K]*V, n) }

func (d *HashDico[K, V]) ForEach(data unsafe.Pointer, fn func(key, value rtti.Atom) bool) {
	for k, v := range *d.data(data) {
		kk := k
		if !fn(rtti.Atom{Ptr: unsafe.Pointer(&kk), Traits: d.key}, rtti.Atom{Ptr: unsafe.Pointer(v), Traits: d.value}) {
			return
		}
	}
}
