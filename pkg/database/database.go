// Package database implements the C7 MetaDatabase: a process-wide,
// read-mostly registry of mounted transactions and their exported
// objects, generalized from the original engine's FMetaDatabase.
package database

import (
	"fmt"
	"sync"

	"github.com/metacore/reflect/pkg/log"
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/transaction"
)

// MetaDatabase is the shared registry transactions publish exported
// objects into on Mount and withdraw on Unmount. Reads (Find,
// FindTransaction, Snapshot) take a shared lock; writes (Register*,
// Unregister*, called only from within Mount/Unmount) take an
// exclusive one — the same reader/writer split as the teacher's
// fsm.go store guard and events.Broker subscriber map.
type MetaDatabase struct {
	mu           sync.RWMutex
	transactions map[string]*transaction.Transaction
	exports      map[string]map[string]metaobject.HasMetaObject
	snapshot     *SnapshotStore
	logger       log.Logger
}

// New returns an empty MetaDatabase. snap may be nil to disable the
// bbolt write-ahead persistence of publication metadata.
func New(snap *SnapshotStore) *MetaDatabase {
	return &MetaDatabase{
		transactions: make(map[string]*transaction.Transaction),
		exports:      make(map[string]map[string]metaobject.HasMetaObject),
		snapshot:     snap,
		logger:       log.WithComponent("database"),
	}
}

// Register implements transaction.Registrar.
func (db *MetaDatabase) Register(namespace string, txn *transaction.Transaction) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.transactions[namespace]; exists {
		return fmt.Errorf("database: namespace %q already mounted", namespace)
	}
	db.transactions[namespace] = txn
	if _, ok := db.exports[namespace]; !ok {
		db.exports[namespace] = make(map[string]metaobject.HasMetaObject)
	}
	db.logger.Info().Str("namespace", namespace).Msg("transaction mounted")
	return nil
}

// Unregister implements transaction.Registrar.
func (db *MetaDatabase) Unregister(namespace string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.transactions, namespace)
	delete(db.exports, namespace)
	db.logger.Info().Str("namespace", namespace).Msg("transaction unmounted")
}

// RegisterExport implements transaction.Registrar.
func (db *MetaDatabase) RegisterExport(namespace, name string, obj metaobject.HasMetaObject) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	m, ok := db.exports[namespace]
	if !ok {
		m = make(map[string]metaobject.HasMetaObject)
		db.exports[namespace] = m
	}
	if _, exists := m[name]; exists {
		return fmt.Errorf("database: export %q already published in namespace %q", name, namespace)
	}
	m[name] = obj
	if db.snapshot != nil {
		if err := db.snapshot.RecordMount(namespace, name); err != nil {
			db.logger.Warn().Err(err).Str("namespace", namespace).Str("name", name).Msg("snapshot persist failed")
		}
	}
	return nil
}

// UnregisterExport implements transaction.Registrar.
func (db *MetaDatabase) UnregisterExport(namespace, name string) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if m, ok := db.exports[namespace]; ok {
		delete(m, name)
	}
	if db.snapshot != nil {
		if err := db.snapshot.RecordUnmount(namespace, name); err != nil {
			db.logger.Warn().Err(err).Str("namespace", namespace).Str("name", name).Msg("snapshot persist failed")
		}
	}
}

// Find looks up a published object by (namespace, name).
func (db *MetaDatabase) Find(namespace, name string) (metaobject.HasMetaObject, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	m, ok := db.exports[namespace]
	if !ok {
		return nil, false
	}
	obj, ok := m[name]
	return obj, ok
}

// FindTransaction returns the mounted transaction owning namespace.
func (db *MetaDatabase) FindTransaction(namespace string) (*transaction.Transaction, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	t, ok := db.transactions[namespace]
	return t, ok
}

// Entry is one row of a database Snapshot.
type Entry struct {
	Namespace string
	Name      string
	Object    metaobject.HasMetaObject
}

// Snapshot returns a point-in-time copy of every published export,
// taken under the read lock. Each export is published by its own
// RegisterExport call, so a Snapshot taken while a transaction is
// mounting can hold some of its exports and not others.
func (db *MetaDatabase) Snapshot() []Entry {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []Entry
	for ns, m := range db.exports {
		for name, obj := range m {
			out = append(out, Entry{Namespace: ns, Name: name, Object: obj})
		}
	}
	return out
}

// NamespaceCount reports how many namespaces are currently mounted,
// used by the prometheus gauge in pkg/metrics.
func (db *MetaDatabase) NamespaceCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.transactions)
}

// ExportCount reports the total number of published exports across
// every mounted namespace.
func (db *MetaDatabase) ExportCount() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	n := 0
	for _, m := range db.exports {
		n += len(m)
	}
	return n
}
