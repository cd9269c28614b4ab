package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotStoreRecordsMountAndUnmount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	store, err := OpenSnapshotStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.RecordMount("ns", "theLeaf"))
	require.NoError(t, store.RecordMount("ns", "otherLeaf"))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.NoError(t, store.RecordUnmount("ns", "theLeaf"))
	entries, err = store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, [2]string{"ns", "otherLeaf"}, entries[0])
}

// TestDatabaseMountPersistsThroughSnapshotStore covers the MetaDatabase
// + SnapshotStore wiring: a mount writes through to bbolt as well as
// the in-memory exports map.
func TestDatabaseMountPersistsThroughSnapshotStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.db")
	store, err := OpenSnapshotStore(path)
	require.NoError(t, err)
	defer store.Close()

	db := New(store)
	require.NoError(t, db.Register("ns", nil))
	require.NoError(t, db.RegisterExport("ns", "theLeaf", nil))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Equal(t, [][2]string{{"ns", "theLeaf"}}, entries)

	db.UnregisterExport("ns", "theLeaf")
	entries, err = store.Entries()
	require.NoError(t, err)
	require.Empty(t, entries)
}
