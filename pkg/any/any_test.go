package any

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

// oversizedStub is a TypeTraits stub whose only purpose is to report a
// size past InlineCap, forcing Any to heap-allocate; its other
// operations are minimal placeholders (no-ops, fixed results, or raw
// 32-byte copies), not a working value type.
type oversizedStub struct{}

func (oversizedStub) Infos() rtti.TypeInfos { return rtti.TypeInfos{Name: "oversized", Size: 32} }
func (oversizedStub) SizeOf() uintptr       { return 32 }
func (oversizedStub) Alignment() uintptr    { return 8 }
func (oversizedStub) Create(dst unsafe.Pointer) {}
func (oversizedStub) CreateCopy(dst, src unsafe.Pointer) {
	copy((*[32]byte)(dst)[:], (*[32]byte)(src)[:])
}
func (oversizedStub) CreateMove(dst, src unsafe.Pointer) { copy((*[32]byte)(dst)[:], (*[32]byte)(src)[:]) }
func (oversizedStub) Destroy(dst unsafe.Pointer)         {}
func (oversizedStub) IsDefaultValue(src unsafe.Pointer) bool { return false }
func (oversizedStub) ResetToDefaultValue(dst unsafe.Pointer) {}
func (oversizedStub) Equals(a, b unsafe.Pointer) bool        { return a == b }
func (oversizedStub) HashValue(a unsafe.Pointer) uint64      { return 0 }
func (oversizedStub) DeepEquals(a, b unsafe.Pointer, ctx *rtti.DeepCtx) bool { return a == b }
func (oversizedStub) DeepCopy(dst, src unsafe.Pointer, ctx *rtti.CopyCtx)    {}
func (oversizedStub) PromoteCopy(src unsafe.Pointer, dst rtti.Atom) bool    { return false }
func (oversizedStub) PromoteMove(src unsafe.Pointer, dst rtti.Atom) bool    { return false }
func (oversizedStub) Cast(data unsafe.Pointer, dstTraits rtti.TypeTraits) unsafe.Pointer { return nil }
func (oversizedStub) CommonType(other rtti.TypeTraits) rtti.TypeTraits                   { return nil }
func (oversizedStub) AsScalar() rtti.ScalarTraits { return nil }
func (oversizedStub) AsPair() rtti.PairTraits     { return nil }
func (oversizedStub) AsList() rtti.ListTraits     { return nil }
func (oversizedStub) AsDico() rtti.DicoTraits     { return nil }
func (oversizedStub) AsObject() rtti.ObjectTraits { return nil }
func (oversizedStub) Accept(atom rtti.Atom, v rtti.Visitor) bool { return false }

// TestAnyInlineStorageBoundary exercises spec §4.5: values at or under
// InlineCap live in the Any's own storage, larger ones are heap-backed.
func TestAnyInlineStorageBoundary(t *testing.T) {
	small := NewDefault(traits.Int32)
	defer small.Release()
	require.True(t, small.usesInline())

	large := NewDefault(oversizedStub{})
	defer large.Release()
	require.False(t, large.usesInline())
}

func TestAnyMakeAndRelease(t *testing.T) {
	v := int32(42)
	a := Make(&v, traits.Int32, nil)
	require.False(t, a.IsEmpty())
	require.Equal(t, int32(42), *(*int32)(a.InnerAtom().Ptr))

	a.Release()
	require.True(t, a.IsEmpty())

	// Releasing an already-empty Any is a no-op.
	require.NotPanics(t, func() { a.Release() })
}

func TestAnyAssignCopiesValue(t *testing.T) {
	v := int32(7)
	src := Make(&v, traits.Int32, nil)
	defer src.Release()

	var dst Any
	dst.Assign(src)
	defer dst.Release()

	require.True(t, dst.Equals(src))

	// Mutating src's backing value doesn't affect the copy.
	*(*int32)(src.InnerAtom().Ptr) = 99
	require.False(t, dst.Equals(src))
}

func TestAnyCloneIsIndependent(t *testing.T) {
	s := "hello"
	src := Make(&s, traits.String, nil)
	defer src.Release()

	clone := src.Clone()
	defer clone.Release()

	require.True(t, clone.DeepEquals(src, nil))
}

func TestAnyPromoteCopyNumericWidening(t *testing.T) {
	v := int32(5)
	src := Make(&v, traits.Int32, nil)
	defer src.Release()

	dst := src.PromoteCopy(traits.Int64, nil)
	require.NotNil(t, dst)
	defer dst.Release()
	require.Equal(t, int64(5), *(*int64)(dst.InnerAtom().Ptr))
}

func TestAnyPromoteCopyFailsOnIncompatibleTypes(t *testing.T) {
	s := "not a number"
	src := Make(&s, traits.String, nil)
	defer src.Release()

	dst := src.PromoteCopy(traits.Int32, nil)
	require.Nil(t, dst)
}

func TestAnyTraitsRoundTripThroughDefaultDomainAllocator(t *testing.T) {
	alloc := domain.NewDefaultAllocator(domain.RTTI)
	v := "a value long enough to be heap-backed"
	a := Make(&v, traits.String, alloc)
	defer a.Release()

	require.Equal(t, v, *(*string)(a.InnerAtom().Ptr))
}

func TestAnyTraitsDescribesScalarLeaf(t *testing.T) {
	require.Equal(t, "any", Traits.Infos().Name)
	require.True(t, Traits.Infos().Flags&rtti.FlagScalar != 0)
	require.NotNil(t, Traits.AsScalar())
	require.Nil(t, Traits.AsList())
	require.Nil(t, Traits.AsDico())
	require.Nil(t, Traits.AsPair())
	require.Nil(t, Traits.AsObject())
}
