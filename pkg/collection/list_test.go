package collection

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

func TestListAddDefaultAndCount(t *testing.T) {
	l := NewList[int32](traits.Int32)
	var data []int32
	ptr := unsafe.Pointer(&data)

	require.Equal(t, 0, l.Count(ptr))
	e := l.AddDefault(ptr)
	*(*int32)(e.Ptr) = 42
	require.Equal(t, 1, l.Count(ptr))
	require.Equal(t, int32(42), *(*int32)(l.At(ptr, 0).Ptr))
}

func TestListDeepCopyPreservesOrder(t *testing.T) {
	l := NewList[int32](traits.Int32)
	src := []int32{1, 2, 3}
	var dst []int32
	l.DeepCopy(unsafe.Pointer(&dst), unsafe.Pointer(&src), nil)
	require.Equal(t, src, dst)
	require.True(t, l.DeepEquals(unsafe.Pointer(&src), unsafe.Pointer(&dst), nil))
}

func TestListRemoveValue(t *testing.T) {
	l := NewList[int32](traits.Int32)
	data := []int32{1, 2, 3}
	ptr := unsafe.Pointer(&data)
	v := int32(2)
	ok := l.RemoveValue(ptr, rtti.Atom{Ptr: unsafe.Pointer(&v), Traits: traits.Int32})
	require.True(t, ok)
	require.Equal(t, []int32{1, 3}, data)
}

// TestListPromotionNumericWidening exercises spec §4.4's numeric
// promotion rule ("no precision loss, no overflow") at the list-of-
// promotable-element level: list<int32> promotes to list<int64>.
func TestListPromotionNumericWidening(t *testing.T) {
	src := NewList[int32](traits.Int32)
	dst := NewList[int64](traits.Int64)

	srcData := []int32{1, 2, 3}
	var dstData []int64

	srcAtom := rtti.Atom{Ptr: unsafe.Pointer(&srcData), Traits: src}
	dstAtom := rtti.Atom{Ptr: unsafe.Pointer(&dstData), Traits: dst}

	ok := srcAtom.PromoteCopy(dstAtom)
	require.True(t, ok)
	require.Equal(t, []int64{1, 2, 3}, dstData)
}

// TestListPromotionFailsOnIncompatibleElement ensures PromoteCopy
// returns false rather than silently truncating when an element can't
// convert losslessly (spec §8 property 3's converse).
func TestListPromotionFailsOnIncompatibleElement(t *testing.T) {
	src := NewList[string](traits.String)
	dst := NewList[int32](traits.Int32)

	srcData := []string{"not-a-number"}
	var dstData []int32

	srcAtom := rtti.Atom{Ptr: unsafe.Pointer(&srcData), Traits: src}
	dstAtom := rtti.Atom{Ptr: unsafe.Pointer(&dstData), Traits: dst}

	require.False(t, srcAtom.PromoteCopy(dstAtom))
}
