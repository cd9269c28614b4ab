package collection

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

// TestDicoAddDefaultMoveAndFind exercises spec §8 property 5: for any
// dico D and unique key k, after AddDefaultMove(k); set(v), Find(k)
// == v and Count == prior+1.
func TestDicoAddDefaultMoveAndFind(t *testing.T) {
	d := NewHashDico[string, int32](traits.String, traits.Int32)
	var data map[string]*int32
	ptr := unsafe.Pointer(&data)

	require.Equal(t, 0, d.Count(ptr))
	k := "answer"
	valAtom := d.AddDefaultMove(ptr, rtti.Atom{Ptr: unsafe.Pointer(&k), Traits: traits.String})
	*(*int32)(valAtom.Ptr) = 42
	require.Equal(t, 1, d.Count(ptr))

	found, ok := d.Find(ptr, rtti.Atom{Ptr: unsafe.Pointer(&k), Traits: traits.String})
	require.True(t, ok)
	require.Equal(t, int32(42), *(*int32)(found.Ptr))
}

// TestDicoLookup is scenario S3 (spec §8): build a dico of string keys
// to structured values (here a list<float32> standing in for the
// original's float3 — no vector/matrix leaf type is carried into this
// core, spec §1 treats math templates as an external leaf dependency
// contract) and confirm Find returns a deep-equal value.
func TestDicoLookup(t *testing.T) {
	listTraits := NewList[float32](traits.Float32)
	d := NewHashDico[string, []float32](traits.String, listTraits)

	var data map[string]*[]float32
	ptr := unsafe.Pointer(&data)

	key := "Toto"
	value := []float32{1, 2, 3}
	keyAtom := rtti.Atom{Ptr: unsafe.Pointer(&key), Traits: traits.String}
	d.AddCopy(ptr, keyAtom, rtti.Atom{Ptr: unsafe.Pointer(&value), Traits: listTraits})

	found, ok := d.Find(ptr, keyAtom)
	require.True(t, ok)
	require.True(t, found.DeepEquals(rtti.Atom{Ptr: unsafe.Pointer(&value), Traits: listTraits}, nil))

	_, ok = d.Find(ptr, rtti.Atom{Ptr: unsafe.Pointer(new(string)), Traits: traits.String})
	require.False(t, ok)
}

// TestDicoDeepEqualsOrderIndependent covers spec §4.4: DeepEquals is
// order-independent for hash dicos.
func TestDicoDeepEqualsOrderIndependent(t *testing.T) {
	d := NewHashDico[string, int32](traits.String, traits.Int32)

	a := map[string]*int32{"x": ptrTo(int32(1)), "y": ptrTo(int32(2))}
	b := map[string]*int32{"y": ptrTo(int32(2)), "x": ptrTo(int32(1))}

	require.True(t, d.DeepEquals(unsafe.Pointer(&a), unsafe.Pointer(&b), nil))
}

func ptrTo[T any](v T) *T { return &v }
