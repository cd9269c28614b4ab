package visitor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/internal/testutil"
)

func TestRefCollectorGathersDistinctObjectsOnce(t *testing.T) {
	leaf := testutil.NewLeaf()
	parent := testutil.NewParent("root", leaf)

	objs := Collect(objectAtomOf(parent))
	require.Len(t, objs, 2)
	require.Same(t, parent, objs[0])
	require.Same(t, leaf, objs[1])
}

func TestRefCollectorVisitsSharedReferenceOnlyOnce(t *testing.T) {
	leaf := testutil.NewLeaf()
	parentA := testutil.NewParent("a", leaf)

	c := NewRefCollector()
	objectAtomOf(parentA).Accept(c)
	require.Len(t, c.Objects, 2)

	// Re-accepting the same root through the same collector must not
	// duplicate entries already seen.
	objectAtomOf(parentA).Accept(c)
	require.Len(t, c.Objects, 2)
}

func TestRefCollectorHandlesNilRoot(t *testing.T) {
	parent := testutil.NewParent("root", nil)
	objs := Collect(objectAtomOf(parent))
	require.Len(t, objs, 1)
	require.Same(t, parent, objs[0])
}
