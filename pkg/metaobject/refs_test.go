package metaobject

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti/traits"
)

// leafObject is a tiny self-contained reflected type for exercising
// StrongRef/SafeRef/WeakRef without depending on internal/testutil
// (which itself imports this package).
type leafObject struct {
	MetaObject
	Value int32
}

func (l *leafObject) Base() *MetaObject { return &l.MetaObject }

var leafClass = NewClass("RefsTestLeaf", nil, func() HasMetaObject { return &leafObject{} }).
	Property("Value", unsafe.Offsetof(leafObject{}.Value), traits.Int32, 0).
	Build()

func newLeafObject() *leafObject {
	return leafClass.CreateInstance().(*leafObject)
}

func TestStrongRefReleaseDestroysUnownedObject(t *testing.T) {
	leaf := newLeafObject()
	ref := NewStrongRef[HasMetaObject](leaf)
	require.True(t, ref.IsValid())
	require.True(t, leaf.Base().isAlive())

	ref.Release()
	require.False(t, ref.IsValid())
	require.False(t, leaf.Base().isAlive())
}

func TestStrongRefDoesNotDestroyWhileOwnedByOuter(t *testing.T) {
	leaf := newLeafObject()
	leaf.Base().SetOuter(fakeOuter{})

	ref := NewStrongRef[HasMetaObject](leaf)
	ref.Release()
	require.True(t, leaf.Base().isAlive(), "object owned by a transaction must survive its last strong ref dropping")
}

func TestSafeRefPanicsAfterDestroy(t *testing.T) {
	leaf := newLeafObject()
	ref := NewStrongRef[HasMetaObject](leaf)
	safe := NewSafeRef[HasMetaObject](leaf)

	require.True(t, safe.IsValid())
	require.NotPanics(t, func() { safe.Get() })

	ref.Release()
	require.False(t, safe.IsValid())
	require.Panics(t, func() { safe.Get() })
}

func TestWeakRefReportsAbsenceAfterDestroy(t *testing.T) {
	leaf := newLeafObject()
	ref := NewStrongRef[HasMetaObject](leaf)
	weak := NewWeakRef[HasMetaObject](leaf)

	got, ok := weak.Get()
	require.True(t, ok)
	require.Same(t, leaf, got)

	ref.Release()
	_, ok = weak.Get()
	require.False(t, ok)
}

func TestWeakRefReleaseMakesFurtherGetsReportAbsent(t *testing.T) {
	leaf := newLeafObject()
	weak := NewWeakRef[HasMetaObject](leaf)
	weak.Release()

	_, ok := weak.Get()
	require.False(t, ok)
}

type fakeOuter struct{}

func (fakeOuter) Namespace() string { return "fake" }
