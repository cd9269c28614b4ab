package traits

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti"
)

func TestTextPromoteAcrossKinds(t *testing.T) {
	src := "a/b/c"
	var dst Path
	ok := String.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: PathKind})
	require.True(t, ok)
	require.Equal(t, Path("a/b/c"), dst)
}

func TestTextPromoteCopyToBytes(t *testing.T) {
	src := "payload"
	var dst []byte
	ok := String.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: Bytes})
	require.True(t, ok)
	require.Equal(t, []byte("payload"), dst)
}

func TestBytesPromoteCopyToString(t *testing.T) {
	src := []byte("hello")
	var dst string
	ok := Bytes.PromoteCopy(unsafe.Pointer(&src), rtti.Atom{Ptr: unsafe.Pointer(&dst), Traits: String})
	require.True(t, ok)
	require.Equal(t, "hello", dst)
}

func TestBytesEqualsByContent(t *testing.T) {
	a := []byte("same")
	b := []byte("same")
	require.True(t, Bytes.Equals(unsafe.Pointer(&a), unsafe.Pointer(&b)))

	c := []byte("different")
	require.False(t, Bytes.Equals(unsafe.Pointer(&a), unsafe.Pointer(&c)))
}

func TestTextIsDefaultValue(t *testing.T) {
	empty := ""
	nonEmpty := "x"
	require.True(t, String.IsDefaultValue(unsafe.Pointer(&empty)))
	require.False(t, String.IsDefaultValue(unsafe.Pointer(&nonEmpty)))
}

func TestBoolRoundTripAndHash(t *testing.T) {
	tv, fv := true, false
	require.NotEqual(t, Bool.HashValue(unsafe.Pointer(&tv)), Bool.HashValue(unsafe.Pointer(&fv)))
	require.True(t, Bool.IsDefaultValue(unsafe.Pointer(&fv)))
	require.False(t, Bool.IsDefaultValue(unsafe.Pointer(&tv)))

	// Bool has no promotion targets (spec §4.4 lists bool as a closed
	// leaf kind with no numeric-style widening).
	require.False(t, Bool.PromoteCopy(unsafe.Pointer(&tv), rtti.Atom{Ptr: unsafe.Pointer(&fv), Traits: Bool}))
}
