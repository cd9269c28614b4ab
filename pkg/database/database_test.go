package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/internal/testutil"
	"github.com/metacore/reflect/pkg/transaction"
)

func TestDatabaseMountAndFind(t *testing.T) {
	db := New(nil)
	leaf := testutil.NewLeaf()
	leaf.Base().SetExported("theLeaf")

	txn := transaction.New("ns", 0)
	txn.Add(leaf)
	require.NoError(t, txn.LoadAndMount(db, nil))

	found, ok := db.Find("ns", "theLeaf")
	require.True(t, ok)
	require.Same(t, leaf, found)

	foundTxn, ok := db.FindTransaction("ns")
	require.True(t, ok)
	require.Same(t, txn, foundTxn)

	require.Equal(t, 1, db.NamespaceCount())
	require.Equal(t, 1, db.ExportCount())
}

func TestDatabaseRegisterRejectsDuplicateNamespace(t *testing.T) {
	db := New(nil)
	txn1 := transaction.New("dup", 0)
	txn2 := transaction.New("dup", 0)

	require.NoError(t, db.Register("dup", txn1))
	err := db.Register("dup", txn2)
	require.Error(t, err)
}

func TestDatabaseRegisterExportRejectsCollision(t *testing.T) {
	db := New(nil)
	require.NoError(t, db.Register("ns", transaction.New("ns", 0)))

	leaf1 := testutil.NewLeaf()
	leaf2 := testutil.NewLeaf()

	require.NoError(t, db.RegisterExport("ns", "name", leaf1))
	err := db.RegisterExport("ns", "name", leaf2)
	require.Error(t, err)
}

func TestDatabaseUnmountWithdrawsPublication(t *testing.T) {
	db := New(nil)
	leaf := testutil.NewLeaf()
	leaf.Base().SetExported("theLeaf")

	txn := transaction.New("ns", 0)
	txn.Add(leaf)
	require.NoError(t, txn.LoadAndMount(db, nil))
	require.NoError(t, txn.UnmountAndUnload(db, nil))

	_, ok := db.Find("ns", "theLeaf")
	require.False(t, ok)
	_, ok = db.FindTransaction("ns")
	require.False(t, ok)
	require.Equal(t, 0, db.NamespaceCount())
}

func TestDatabaseSnapshotIsConsistentCopy(t *testing.T) {
	db := New(nil)
	leaf := testutil.NewLeaf()
	leaf.Base().SetExported("theLeaf")

	txn := transaction.New("ns", 0)
	txn.Add(leaf)
	require.NoError(t, txn.LoadAndMount(db, nil))

	snap := db.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, "ns", snap[0].Namespace)
	require.Equal(t, "theLeaf", snap[0].Name)

	// Mutating a freshly mounted second namespace shouldn't affect the
	// already-taken snapshot slice.
	leaf2 := testutil.NewLeaf()
	leaf2.Base().SetExported("otherLeaf")
	txn2 := transaction.New("ns2", 0)
	txn2.Add(leaf2)
	require.NoError(t, txn2.LoadAndMount(db, nil))

	require.Len(t, snap, 1)
	require.Len(t, db.Snapshot(), 2)
}
