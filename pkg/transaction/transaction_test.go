package transaction

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/internal/testutil"
	"github.com/metacore/reflect/pkg/metaobject"
)

// fakeRegistrar is a minimal in-memory Registrar standing in for
// pkg/database.MetaDatabase in tests that only need to observe which
// namespaces and exports get published.
type fakeRegistrar struct {
	namespaces map[string]*Transaction
	exports    map[string]metaobject.HasMetaObject
}

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{
		namespaces: make(map[string]*Transaction),
		exports:    make(map[string]metaobject.HasMetaObject),
	}
}

func (r *fakeRegistrar) Register(namespace string, txn *Transaction) error {
	r.namespaces[namespace] = txn
	return nil
}

func (r *fakeRegistrar) Unregister(namespace string) { delete(r.namespaces, namespace) }

func (r *fakeRegistrar) RegisterExport(namespace, name string, obj metaobject.HasMetaObject) error {
	r.exports[namespace+"/"+name] = obj
	return nil
}

func (r *fakeRegistrar) UnregisterExport(namespace, name string) {
	delete(r.exports, namespace+"/"+name)
}

// TestTransactionLoadAndMountPublishesExports is scenario S4 (spec
// §8): mount a transaction holding an exported Leaf and resolve it
// back out through PathName.
func TestTransactionLoadAndMountPublishesExports(t *testing.T) {
	leaf := testutil.NewLeaf()
	leaf.I32 = 42
	leaf.Base().SetExported("theLeaf")

	txn := New("UnitTest_Input", 0)
	txn.Add(leaf)

	reg := newFakeRegistrar()
	require.NoError(t, txn.LoadAndMount(reg, nil))
	require.Equal(t, Mounted, txn.State())

	require.Equal(t, "UnitTest_Input/theLeaf", leaf.Base().PathName())
	exported, ok := reg.exports["UnitTest_Input/theLeaf"]
	require.True(t, ok)
	require.Same(t, leaf, exported)

	require.NoError(t, txn.UnmountAndUnload(reg, nil))
	require.Equal(t, Unloaded, txn.State())
	_, ok = reg.exports["UnitTest_Input/theLeaf"]
	require.False(t, ok)
	_, ok = reg.namespaces["UnitTest_Input"]
	require.False(t, ok)
}

// TestTransactionLinearizationOrdersDependenciesFirst covers spec
// §4.7: the child leaf must precede its parent in LoadedRefs.
func TestTransactionLinearizationOrdersDependenciesFirst(t *testing.T) {
	leaf := testutil.NewLeaf()
	parent := testutil.NewParent("root", leaf)

	txn := New("ns", 0)
	txn.Add(parent)
	require.NoError(t, txn.Load(nil))

	refs := txn.LoadedRefs()
	require.Len(t, refs, 2)
	require.Same(t, leaf, refs[0])
	require.Same(t, parent, refs[1])
}

// TestTransactionKeepIsolatedSkipsCrossNamespacePublication exercises
// the KeepIsolated flag's resolved semantics (DESIGN.md Open
// Questions): exported objects are not handed to the registrar.
func TestTransactionKeepIsolatedSkipsCrossNamespacePublication(t *testing.T) {
	leaf := testutil.NewLeaf()
	leaf.Base().SetExported("theLeaf")

	txn := New("isolated", KeepIsolated)
	txn.Add(leaf)

	reg := newFakeRegistrar()
	require.NoError(t, txn.LoadAndMount(reg, nil))

	_, ok := reg.exports["isolated/theLeaf"]
	require.False(t, ok)
	_, ok = reg.namespaces["isolated"]
	require.True(t, ok)
}

// TestTransactionLoadUnloadRunsHooksInOppositeOrder exercises the
// RTTI_Load/RTTI_Unload hook pair on a reference-holding graph.
func TestTransactionLoadUnloadRunsHooksInOppositeOrder(t *testing.T) {
	leaf := testutil.NewLeaf()
	parent := testutil.NewParent("root", leaf)

	var order []string
	leaf.Base().SetLoadCallbacks(
		func(ctx *metaobject.LoadContext) error { order = append(order, "leaf-load"); return nil },
		func(ctx *metaobject.LoadContext) error { order = append(order, "leaf-unload"); return nil },
	)
	parent.Base().SetLoadCallbacks(
		func(ctx *metaobject.LoadContext) error { order = append(order, "parent-load"); return nil },
		func(ctx *metaobject.LoadContext) error { order = append(order, "parent-unload"); return nil },
	)

	txn := New("ns", 0)
	txn.Add(parent)
	require.NoError(t, txn.Load(nil))
	require.NoError(t, txn.Unload(nil))

	require.Equal(t, []string{"leaf-load", "parent-load", "parent-unload", "leaf-unload"}, order)
}

// TestTransactionMutualImportIsHardError is scenario S5 (spec §8):
// when transaction A imports an object owned by B and B also imports
// an object owned by A, linearization fails instead of deadlocking or
// silently picking a winner.
func TestTransactionMutualImportIsHardError(t *testing.T) {
	leafA := testutil.NewLeaf()
	leafB := testutil.NewLeaf()

	txnA := New("A", 0)
	txnB := New("B", 0)

	require.NoError(t, leafA.Base().Load(&metaobject.LoadContext{Outer: txnA}))
	require.NoError(t, leafB.Base().Load(&metaobject.LoadContext{Outer: txnB}))

	parentA := testutil.NewParent("rootA", leafB)
	parentB := testutil.NewParent("rootB", leafA)

	txnA.Add(parentA)
	txnB.Add(parentB)

	require.NoError(t, txnA.Load(nil))
	err := txnB.Load(nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "import each other")
}

func TestTransactionOperationsPanicInWrongState(t *testing.T) {
	txn := New("ns", 0)
	require.Panics(t, func() { _ = txn.Mount(newFakeRegistrar()) })
	require.Panics(t, func() { _ = txn.Unload(nil) })
}

// TestTransactionDeepEqualsComparesTopObjectGraphs covers spec §8
// property 9: two structurally identical transactions compare equal.
func TestTransactionDeepEqualsComparesTopObjectGraphs(t *testing.T) {
	leaf1 := testutil.NewLeaf()
	leaf1.I32 = 9
	parent1 := testutil.NewParent("root", leaf1)

	leaf2 := testutil.NewLeaf()
	leaf2.I32 = 9
	parent2 := testutil.NewParent("root", leaf2)

	txn1 := New("ns", 0)
	txn1.Add(parent1)
	txn2 := New("ns", 0)
	txn2.Add(parent2)

	require.True(t, txn1.DeepEquals(txn2, nil))

	leaf2.I32 = 10
	require.False(t, txn1.DeepEquals(txn2, nil))
}
