package traits

import (
	"hash/fnv"
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// Path is the filesystem-path scalar kind: structurally a string, but
// a distinct described type from String, matching spec §4.4's list of
// leaf kinds ("string-like, name, filesystem path").
type Path string

// Name is the object/property-name scalar kind, likewise a distinct
// described type from String.
type Name string

type stringlike interface{ ~string }

// textKinded is implemented by every string-like traits instance so
// PromoteCopy/CommonType can recognize compatible destinations without
// a name-based switch.
type textKinded interface {
	textKind() string
}

type textTraits[T stringlike] struct {
	infos rtti.TypeInfos
	kind  string
}

func newText[T stringlike](name string) *textTraits[T] {
	return &textTraits[T]{
		infos: rtti.TypeInfos{
			Name:  name,
			Id:    rtti.ScalarTypeId(name),
			Flags: rtti.FlagScalar | rtti.FlagNative,
			Size:  unsafe.Sizeof(T("")),
		},
		kind: name,
	}
}

var (
	String   = newText[string]("string")
	PathKind = newText[Path]("path")
	NameKind = newText[Name]("name")
)

func (t *textTraits[T]) textKind() string { return t.kind }

func (t *textTraits[T]) Infos() rtti.TypeInfos { return t.infos }
func (t *textTraits[T]) SizeOf() uintptr       { return t.infos.Size }
func (t *textTraits[T]) Alignment() uintptr    { return t.infos.Size }

func (t *textTraits[T]) Create(dst unsafe.Pointer)          { *(*T)(dst) = "" }
func (t *textTraits[T]) CreateCopy(dst, src unsafe.Pointer) { *(*T)(dst) = *(*T)(src) }
func (t *textTraits[T]) CreateMove(dst, src unsafe.Pointer) {
	*(*T)(dst) = *(*T)(src)
	*(*T)(src) = ""
}
func (t *textTraits[T]) Destroy(dst unsafe.Pointer) {}

func (t *textTraits[T]) IsDefaultValue(src unsafe.Pointer) bool { return *(*T)(src) == "" }
func (t *textTraits[T]) ResetToDefaultValue(dst unsafe.Pointer) { *(*T)(dst) = "" }

func (t *textTraits[T]) Equals(a, b unsafe.Pointer) bool { return *(*T)(a) == *(*T)(b) }

func (t *textTraits[T]) HashValue(a unsafe.Pointer) uint64 {
	h := fnv.New64a()
	h.Write([]byte(*(*T)(a)))
	return h.Sum64()
}

func (t *textTraits[T]) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool { return t.Equals(a, b) }
func (t *textTraits[T]) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx)    { t.CreateCopy(dst, src) }

func (t *textTraits[T]) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	if _, ok := dst.Traits.(textKinded); ok {
		s := string(*(*T)(src))
		writeTextInto(dst, s)
		return true
	}
	if bt, ok := dst.Traits.(*bytesTraits); ok {
		bt.set(dst.Ptr, []byte(*(*T)(src)))
		return true
	}
	return false
}

func (t *textTraits[T]) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	t.Create(src)
	return true
}

// writeTextInto writes s into dst assuming dst.Traits is some
// *textTraits[U]; used only after a textKinded type assertion.
func writeTextInto(dst rtti.Atom, s string) {
	switch dst.Traits.(type) {
	case *textTraits[string]:
		*(*string)(dst.Ptr) = s
	case *textTraits[Path]:
		*(*Path)(dst.Ptr) = Path(s)
	case *textTraits[Name]:
		*(*Name)(dst.Ptr) = Name(s)
	}
}

func (t *textTraits[T]) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == t.infos.Id {
		return data
	}
	return nil
}

func (t *textTraits[T]) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	if _, ok := other.(textKinded); ok {
		return String
	}
	return nil
}

func (t *textTraits[T]) AsScalar() rtti.ScalarTraits { return t }
func (t *textTraits[T]) AsPair() rtti.PairTraits     { return nil }
func (t *textTraits[T]) AsList() rtti.ListTraits     { return nil }
func (t *textTraits[T]) AsDico() rtti.DicoTraits     { return nil }
func (t *textTraits[T]) AsObject() rtti.ObjectTraits { return nil }

func (t *textTraits[T]) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

// bytesTraits describes a binary blob ([]byte), the spec's
// "binary-blob" leaf kind.
type bytesTraits struct {
	infos rtti.TypeInfos
}

var Bytes = &bytesTraits{
	infos: rtti.TypeInfos{
		Name:  "bytes",
		Id:    rtti.ScalarTypeId("bytes"),
		Flags: rtti.FlagScalar | rtti.FlagNative,
		Size:  unsafe.Sizeof([]byte(nil)),
	},
}

func (t *bytesTraits) set(ptr unsafe.Pointer, v []byte) {
	cp := make([]byte, len(v))
	copy(cp, v)
	*(*[]byte)(ptr) = cp
}

func (t *bytesTraits) Infos() rtti.TypeInfos { return t.infos }
func (t *bytesTraits) SizeOf() uintptr       { return t.infos.Size }
func (t *bytesTraits) Alignment() uintptr    { return unsafe.Alignof(uintptr(0)) }

func (t *bytesTraits) Create(dst unsafe.Pointer)          { *(*[]byte)(dst) = nil }
func (t *bytesTraits) CreateCopy(dst, src unsafe.Pointer) { t.set(dst, *(*[]byte)(src)) }
func (t *bytesTraits) CreateMove(dst, src unsafe.Pointer) {
	*(*[]byte)(dst) = *(*[]byte)(src)
	*(*[]byte)(src) = nil
}
func (t *bytesTraits) Destroy(dst unsafe.Pointer) { *(*[]byte)(dst) = nil }

func (t *bytesTraits) IsDefaultValue(src unsafe.Pointer) bool { return len(*(*[]byte)(src)) == 0 }
func (t *bytesTraits) ResetToDefaultValue(dst unsafe.Pointer) { *(*[]byte)(dst) = nil }

func (t *bytesTraits) Equals(a, b unsafe.Pointer) bool {
	av, bv := *(*[]byte)(a), *(*[]byte)(b)
	if len(av) != len(bv) {
		return false
	}
	for i := range av {
		if av[i] != bv[i] {
			return false
		}
	}
	return true
}

func (t *bytesTraits) HashValue(a unsafe.Pointer) uint64 {
	h := fnv.New64a()
	h.Write(*(*[]byte)(a))
	return h.Sum64()
}

func (t *bytesTraits) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool { return t.Equals(a, b) }
func (t *bytesTraits) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx)    { t.CreateCopy(dst, src) }

func (t *bytesTraits) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool {
	if _, ok := dst.Traits.(textKinded); ok {
		writeTextInto(dst, string(*(*[]byte)(src)))
		return true
	}
	if bt, ok := dst.Traits.(*bytesTraits); ok {
		bt.set(dst.Ptr, *(*[]byte)(src))
		return true
	}
	return false
}

func (t *bytesTraits) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool {
	if !t.PromoteCopy(src, dst) {
		return false
	}
	t.Create(src)
	return true
}

func (t *bytesTraits) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer {
	if dstTraits != nil && dstTraits.Infos().Id == t.infos.Id {
		return data
	}
	return nil
}

func (t *bytesTraits) CommonType(other rtti.TypeTraits) rtti.TypeTraits {
	if other != nil && other.Infos().Id == t.infos.Id {
		return t
	}
	return nil
}

func (t *bytesTraits) AsScalar() rtti.ScalarTraits { return t }
func (t *bytesTraits) AsPair() rtti.PairTraits     { return nil }
func (t *bytesTraits) AsList() rtti.ListTraits     { return nil }
func (t *bytesTraits) AsDico() rtti.DicoTraits     { return nil }
func (t *bytesTraits) AsObject() rtti.ObjectTraits { return nil }

func (t *bytesTraits) Accept(atom rtti.Atom, v rtti.Visitor) bool { return v.VisitScalar(atom) }

func init() {
	rtti.Register(String)
	rtti.Register(PathKind)
	rtti.Register(NameKind)
	rtti.Register(Bytes)
}
