package metaobject

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/pkg/rtti"
)

// refHolder exercises all three ref-kind properties against the same
// target class, reusing refs_test.go's leafObject/leafClass.
type refHolder struct {
	MetaObject
	Strong StrongRef[*leafObject]
	Weak   WeakRef[*leafObject]
	Safe   SafeRef[*leafObject]
}

func (h *refHolder) Base() *MetaObject { return &h.MetaObject }

var refHolderClass = NewClass("RefHolder", nil, func() HasMetaObject { return &refHolder{} }).
	Property("Strong", unsafe.Offsetof(refHolder{}.Strong), StrongRefTraits(leafClass), 0).
	Property("Weak", unsafe.Offsetof(refHolder{}.Weak), WeakRefTraits(leafClass), 0).
	Property("Safe", unsafe.Offsetof(refHolder{}.Safe), SafeRefTraits(leafClass), 0).
	Build()

// recordingVisitor counts which category of Visit method an Accept
// call actually reaches, to confirm a weak/safe edge stops at
// VisitScalar instead of recursing into VisitObject. It does not walk
// past the atom it is handed.
type recordingVisitor struct {
	Self        rtti.Visitor
	scalarCalls int
	objectCalls int
}

func (v *recordingVisitor) VisitScalar(atom rtti.Atom) bool {
	v.scalarCalls++
	return true
}

func (v *recordingVisitor) VisitPair(atom rtti.Atom) bool { return true }
func (v *recordingVisitor) VisitList(atom rtti.Atom) bool { return true }
func (v *recordingVisitor) VisitDico(atom rtti.Atom) bool { return true }

func (v *recordingVisitor) VisitObject(atom rtti.Atom) bool {
	v.objectCalls++
	return true
}

func newRefHolder() *refHolder {
	return refHolderClass.CreateInstance().(*refHolder)
}

func TestWeakRefPropertyStopsRecursionOnAccept(t *testing.T) {
	holder := newRefHolder()
	leaf := newLeafObject()
	holder.Weak = NewWeakRef[*leafObject](leaf)

	prop, ok := refHolderClass.Property("Weak")
	require.True(t, ok)

	v := &recordingVisitor{}
	v.Self = v
	require.True(t, prop.Get(holder).Accept(v))
	require.Equal(t, 1, v.scalarCalls)
	require.Equal(t, 0, v.objectCalls)
}

func TestSafeRefPropertyStopsRecursionOnAccept(t *testing.T) {
	holder := newRefHolder()
	leaf := newLeafObject()
	holder.Safe = NewSafeRef[*leafObject](leaf)

	prop, ok := refHolderClass.Property("Safe")
	require.True(t, ok)

	v := &recordingVisitor{}
	v.Self = v
	require.True(t, prop.Get(holder).Accept(v))
	require.Equal(t, 1, v.scalarCalls)
	require.Equal(t, 0, v.objectCalls)
}

func TestStrongRefPropertyRecursesOnAccept(t *testing.T) {
	holder := newRefHolder()
	leaf := newLeafObject()
	holder.Strong = NewStrongRef[*leafObject](leaf)

	prop, ok := refHolderClass.Property("Strong")
	require.True(t, ok)

	v := &recordingVisitor{}
	v.Self = v
	require.True(t, prop.Get(holder).Accept(v))
	require.Equal(t, 0, v.scalarCalls)
	require.Equal(t, 1, v.objectCalls)
}

func TestWeakRefLivenessAtReflectsTargetDestruction(t *testing.T) {
	holder := newRefHolder()
	leaf := newLeafObject()
	strong := NewStrongRef[*leafObject](leaf)
	holder.Weak = NewWeakRef[*leafObject](leaf)

	prop, _ := refHolderClass.Property("Weak")
	atom := prop.Get(holder)

	bound, alive := WeakRefLivenessAt(atom)
	require.True(t, bound)
	require.True(t, alive)

	strong.Release()

	bound, alive = WeakRefLivenessAt(atom)
	require.True(t, bound)
	require.False(t, alive)
}

func TestReleaseOwnedPropertiesDestroysSoleOwnedChild(t *testing.T) {
	holder := newRefHolder()
	leaf := newLeafObject()
	holder.Strong = NewStrongRef[*leafObject](leaf)
	require.True(t, leaf.Base().isAlive())

	ReleaseOwnedProperties(holder)
	require.False(t, leaf.Base().isAlive())
	require.False(t, holder.Strong.IsValid())
}

// TestDeepEqualsWeakEdgeComparesLivenessNotValue confirms a weak edge
// never recurses during DeepEquals: two holders pointing at leaves
// with different Value still compare equal, since only liveness and
// class are checked across the edge.
func TestDeepEqualsWeakEdgeComparesLivenessNotValue(t *testing.T) {
	leaf1 := newLeafObject()
	leaf1.Value = 1
	leaf2 := newLeafObject()
	leaf2.Value = 2

	holder1 := newRefHolder()
	holder1.Weak = NewWeakRef[*leafObject](leaf1)
	holder2 := newRefHolder()
	holder2.Weak = NewWeakRef[*leafObject](leaf2)

	require.True(t, DeepEquals(holder1, holder2, nil))
}
