package traits

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti"
)

func TestNumericEqualsAndHashValueStable(t *testing.T) {
	a, b := int32(7), int32(7)
	pa, pb := unsafe.Pointer(&a), unsafe.Pointer(&b)

	require.True(t, Int32.Equals(pa, pb))
	require.Equal(t, Int32.HashValue(pa), Int32.HashValue(pb))

	c := int32(8)
	require.False(t, Int32.Equals(pa, unsafe.Pointer(&c)))
}

// TestNumericPromoteCopyLosslessWidening covers spec §4.4: widening
// conversions that lose no precision succeed.
func TestNumericPromoteCopyLosslessWidening(t *testing.T) {
	src := int32(42)
	var dst int64
	ok := Int32.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: Int64})
	require.True(t, ok)
	require.Equal(t, int64(42), dst)
}

// TestNumericPromoteCopyFailsOnOverflow covers the converse: a
// narrowing conversion that would lose data is rejected rather than
// truncated.
func TestNumericPromoteCopyFailsOnOverflow(t *testing.T) {
	src := int64(1 << 40)
	var dst int32
	ok := Int64.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: Int32})
	require.False(t, ok)
}

// TestNumericPromoteCopyFailsOnFractionalFloatToInt covers promoting
// a float with a fractional component into an integer kind.
func TestNumericPromoteCopyFailsOnFractionalFloatToInt(t *testing.T) {
	src := float64(3.5)
	var dst int32
	ok := Float64.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: Int32})
	require.False(t, ok)
}

func TestNumericPromoteCopyIntToFloatExact(t *testing.T) {
	src := int64(3)
	var dst float32
	ok := Int64.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: Float32})
	require.True(t, ok)
	require.Equal(t, float32(3), dst)
}

func TestNumericIsDefaultValue(t *testing.T) {
	zero := int32(0)
	nonzero := int32(1)
	require.True(t, Int32.IsDefaultValue(unsafe.Pointer(&zero)))
	require.False(t, Int32.IsDefaultValue(unsafe.Pointer(&nonzero)))
}

func TestNumericCommonTypePicksWiderKind(t *testing.T) {
	common := Int32.CommonType(Int64)
	require.Equal(t, Int64, common)

	require.Nil(t, Int32.CommonType(String))
}
