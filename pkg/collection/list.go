// Package collection implements the C4 collection traits: uniform
// visit/promote semantics over ordered sequences (List) and
// associative containers (Dico), plus the Pair leaf composite. List and
// VectorDico are slice-backed and HashDico is backed by a Go map, the
// idiomatic Go analogues of the original engine's
// TVector/TAssociativeVector/THashMap collections.
package collection

import (
	"sync"
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// List is a slice-backed ListTraits over element type T. Data pointers
// passed to its methods must point at a *[]T.
type List[T any] struct {
	elem  rtti.TypeTraits
	infos rtti.TypeInfos
}

// NewList returns list traits over T, described by elem. Callers are
// responsible for T being elem's Go representation; this is the same
// trust boundary rtti.TypedData carries.
func NewList[T any](elem rtti.TypeTraits) *List[T] {
	l := &List[T]{elem: elem}
	l.infos = rtti.TypeInfos{
		Name:  "list<" + elem.Infos().Name + ">",
		Id:    rtti.ListTypeId(elem.Infos().Id),
		Flags: rtti.FlagList,
		Size:  unsafe.Sizeof([]T(nil)),
	}
	return l
}

var listCache sync.Map // rtti.TypeId -> rtti.TypeTraits

// ListOf returns the process-wide list traits over T described by
// elem, constructing and registering it on first use. Traits
// instances are meant to be process-global and immutable (spec §4.3);
// ListOf is the entry point composites should use instead of NewList
// directly so two callers describing list<int32> share one instance.
func ListOf[T any](elem rtti.TypeTraits) *List[T] {
	id := rtti.ListTypeId(elem.Infos().Id)
	if v, ok := listCache.Load(id); ok {
		if l, ok := v.(*List[T]); ok {
			return l
		}
	}
	l := NewList[T](elem)
	listCache.Store(id, l)
	rtti.Register(l)
	return l
}

func (l *List[T]) data(ptr unsafe.Pointer) *[]T { return (*[]T)(ptr) }

func (l *List[T]) Infos() rtti.TypeInfos { return l.infos }
func (l *List[T]) SizeOf() uintptr       { return l.infos.Size }
func (l *List[T]) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (l *List[T]) Create(dst unsafe.Pointer)          { *l.data(dst) = nil }
func (l *List[T]) CreateCopy(dst, src unsafe.Pointer) { l.DeepCopy(dst, src, nil) }
func (l *List[T]) CreateMove(dst, src unsafe.Pointer) {
	*l.data(dst) = *l.data(src)
	*l.data(src) = nil
}
func (l *List[T]) Destroy(dst unsafe.Pointer) { *l.data(dst) = nil }

func (l *List[T]) IsDefaultValue(src unsafe.Pointer) bool { return len(*l.data(src)) == 0 }
func (l *List[T]) ResetToDefaultValue(dst unsafe.Pointer) { *l.data(dst) = nil }

func (l *List[T]) Equals(a, b unsafe.Pointer) bool {
	as, bs := *l.data(a), *l.data(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !l.elem.Equals(unsafe.Pointer(&as[i]), unsafe.Pointer(&bs[i])) {
			return false
		}
	}
	return true
}

func (l *List[T]) HashValue(a unsafe.Pointer) uint64 {
	var h uint64 = 1469598103934665603 // fnv-64a offset basis
	for _, e := range *l.data(a) {
		h ^= l.elem.HashValue(unsafe.Pointer(&e))
		h *= 1099511628211
	}
	return h
}

func (l *List[T]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool {
	as, bs := *l.data(a), *l.data(b)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !l.elem.DeepEquals(unsafe.Pointer(&as[i]), unsafe.Pointer(&bs[i]), ctx) {
			return false
		}
	}
	return true
}

func (l *List[T]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx) {
	ss := *l.data(src)
	out := make([]T, len(ss))
	for i := range ss {
		l.elem.Create(unsafe.Pointer(&out[i]))
		l.elem.DeepCopy(unsafe.Pointer(&out[i]), unsafe.Pointer(&ss[i]), ctx)
	}
	*l.data(dst) = out
}

func (l *List[T]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	dl := dst.Traits.AsList()
	if dl == nil {
		return false
	}
	ss := *l.data(src)
	dl.Clear(dst.Ptr)
	dl.Reserve(dst.Ptr, len(ss))
	for i := range ss {
		srcAtom := rtti.Atom{Ptr: unsafe.Pointer(&ss[i]), Traits: l.elem}
		dstAtom := dl.AddDefault(dst.Ptr)
		if !promoteOrCopyElement(srcAtom, dstAtom) {
			return false
		}
	}
	return true
}

func (l *List[T]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !l.PromoteCopy(src, dst) {
		return false
	}
	l.Create(src)
	return true
}

// promoteOrCopyElement moves/copies a single element from src to dst:
// same-type elements deep-copy directly, different-but-compatible
// types go through PromoteCopy.
func promoteOrCopyElement(src, dst rtti.Atom) bool {
	if src.Traits.Infos().Id == dst.Traits.Infos().Id {
		dst.Traits.DeepCopy(dst.Ptr, src.Ptr, nil)
		return true
	}
	return src.PromoteCopy(dst)
}

func (l *List[T]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == l.infos.Id {
		return data
	}
	return nil
}

func (l *List[T]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	ol := other.AsList()
	if ol == nil {
		return nil
	}
	if common := l.elem.CommonType(ol.ElementTraits()); common != nil {
		if common.Infos().Id == l.elem.Infos().Id {
			return l
		}
	}
	return nil
}

func (l *List[T]) AsScalar() rtti.ScalarTraits { return nil }
func (l *List[T]) AsPair() rtti.PairTraits     { return nil }
func (l *List[T]) AsList() rtti.ListTraits     { return l }
func (l *List[T]) AsDico() rtti.DicoTraits     { return nil }
func (l *List[T]) AsObject() rtti.ObjectTraits { return nil }

func (l *List[T]) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitList(atom) }

func (l *List[T]) ElementTraits() rtti.TypeTraits { return l.elem }

func (l *List[T]) Count(data unsafe.Pointer) int    { return len(*l.data(data)) }
func (l *List[T]) IsEmpty(data unsafe.Pointer) bool { return len(*l.data(data)) == 0 }

func (l *List[T]) At(data unsafe.Pointer, i int) rtti.Atom {
	s := *l.data(data)
	if i < 0 || i >= len(s) {
		rtti.Fatalf(l.infos.Name, "", "index %d out of range [0,%d)", i, len(s))
	}
	return rtti.Atom{Ptr: unsafe.Pointer(&s[i]), Traits: l.elem}
}

func (l *List[T]) AddDefault(data unsafe.Pointer) rtti.Atom {
	s := l.data(data)
	*s = append(*s, *new(T))
	last := &(*s)[len(*s)-1]
	l.elem.Create(unsafe.Pointer(last))
	return rtti.Atom{Ptr: unsafe.Pointer(last), Traits: l.elem}
}

func (l *List[T]) Reserve(data unsafe.Pointer, n int) {
	s := l.data(data)
	if cap(*s) >= n {
		return
	}
	grown := make([]T, len(*s), n)
	copy(grown, *s)
	*s = grown
}

func (l *List[T]) Clear(data unsafe.Pointer) { *l.data(data) = (*l.data(data))[:0] }

func (l *List[T]) Empty(data unsafe.Pointer, n int) {
	*l.data(data) = make([]T, 0, n)
}

func (l *List[T]) Remove(data unsafe.Pointer, i int) {
	s := l.data(data)
	if i < 0 || i >= len(*s) {
		rtti.Fatalf(l.infos.Name, "", "Remove index %d out of range [0,%d)", i, len(*s))
	}
	l.elem.Destroy(unsafe.Pointer(&(*s)[i]))
	*s = append((*s)[:i], (*s)[i+1:]...)
}

func (l *List[T]) RemoveValue(data unsafe.Pointer, value rtti.Atom) bool {
	s := l.data(data)
	for i := range *s {
		if l.elem.Equals(unsafe.Pointer(&(*s)[i]), value.Ptr) {
			l.Remove(data, i)
			return true
		}
	}
	return false
}

func (l *List[T]) ForEach(data unsafe.Pointer, fn func(rtti.Atom) bool) {
	s := *l.data(data)
	for i := range s {
		if !fn(rtti.Atom{Ptr: unsafe.Pointer(&s[i]), Traits: l.elem}) {
			return
		}
	}
}
