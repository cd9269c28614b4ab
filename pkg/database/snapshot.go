package database

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// bucketExports is the single bucket RecordMount/RecordUnmount write
// into: key "namespace\x00name", value a one-byte presence marker.
// This persists publication metadata only (which names are mounted
// where) so a crashed process can be diagnosed from the last
// consistent snapshot; it never serializes MetaObject payloads — the
// direct, renamed descendant of the teacher's pkg/storage/boltdb.go
// Store, narrowed from full resource CRUD to this one write-ahead
// record.
var bucketExports = []byte("exports")

// SnapshotStore is the optional bbolt-backed write-ahead log a
// MetaDatabase consults on every export publish/withdraw.
type SnapshotStore struct {
	db *bolt.DB
}

// OpenSnapshotStore opens (creating if absent) a bbolt file at path.
func OpenSnapshotStore(path string) (*SnapshotStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("database: open snapshot store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketExports)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("database: init snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func (s *SnapshotStore) Close() error { return s.db.Close() }

func exportKey(namespace, name string) []byte {
	return []byte(namespace + "\x00" + name)
}

// RecordMount persists that (namespace, name) is published.
func (s *SnapshotStore) RecordMount(namespace, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExports).Put(exportKey(namespace, name), []byte{1})
	})
}

// RecordUnmount removes the persisted record for (namespace, name).
func (s *SnapshotStore) RecordUnmount(namespace, name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExports).Delete(exportKey(namespace, name))
	})
}

// Entries returns every persisted (namespace, name) pair, used to
// cross-check a freshly mounted database against the last run's
// write-ahead record during startup diagnostics.
func (s *SnapshotStore) Entries() ([][2]string, error) {
	var out [][2]string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketExports)
		return b.ForEach(func(k, _ []byte) error {
			for i, c := range k {
				if c == 0 {
					out = append(out, [2]string{string(k[:i]), string(k[i+1:])})
					return nil
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("database: read snapshot entries: %w", err)
	}
	return out, nil
}
