package database

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"

	"github.com/metacore/reflect/pkg/log"
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/transaction"
)

// Command is one publication event replicated through raft: a mirror
// of a MetaDatabase RegisterExport/UnregisterExport call. Only the
// (namespace, name) publication fact is replicated, never the
// MetaObject payload itself — reflected object graphs have no wire
// format in this core (spec's Non-goals exclude schema evolution and
// distributed object persistence), so ReplicatedFSM demonstrates the
// MetaDatabase's "process-wide registry" shape as a clusterable
// primitive without claiming to replicate live objects.
type Command struct {
	Op        string `json:"op"`
	Namespace string `json:"namespace"`
	Name      string `json:"name,omitempty"`
}

const (
	opMountNamespace   = "mount_namespace"
	opUnmountNamespace = "unmount_namespace"
	opRegisterExport   = "register_export"
	opUnregisterExport = "unregister_export"
)

// ReplicatedFSM is the raft.FSM applying publication Commands to a
// mirrored presence table, the direct generalization of
// pkg/manager/fsm.go's WarrenFSM/WarrenSnapshot — narrowed from full
// cluster-resource CRUD to namespace/export presence.
type ReplicatedFSM struct {
	mu      sync.RWMutex
	mounted map[string]bool
	exports map[string]map[string]bool
	logger  log.Logger
}

// NewReplicatedFSM returns an empty FSM ready to be handed to
// raft.NewRaft.
func NewReplicatedFSM() *ReplicatedFSM {
	return &ReplicatedFSM{
		mounted: make(map[string]bool),
		exports: make(map[string]map[string]bool),
		logger:  log.WithComponent("database.replicated"),
	}
}

func (f *ReplicatedFSM) Apply(l *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(l.Data, &cmd); err != nil {
		return fmt.Errorf("replicated fsm: decode command: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	switch cmd.Op {
	case opMountNamespace:
		f.mounted[cmd.Namespace] = true
		if _, ok := f.exports[cmd.Namespace]; !ok {
			f.exports[cmd.Namespace] = make(map[string]bool)
		}
		return nil
	case opUnmountNamespace:
		delete(f.mounted, cmd.Namespace)
		delete(f.exports, cmd.Namespace)
		return nil
	case opRegisterExport:
		m, ok := f.exports[cmd.Namespace]
		if !ok {
			m = make(map[string]bool)
			f.exports[cmd.Namespace] = m
		}
		if m[cmd.Name] {
			return fmt.Errorf("replicated fsm: export %q already present in %q", cmd.Name, cmd.Namespace)
		}
		m[cmd.Name] = true
		return nil
	case opUnregisterExport:
		if m, ok := f.exports[cmd.Namespace]; ok {
			delete(m, cmd.Name)
		}
		return nil
	default:
		return fmt.Errorf("replicated fsm: unknown op %q", cmd.Op)
	}
}

func (f *ReplicatedFSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	snap := &replicatedSnapshot{Mounted: make(map[string]bool, len(f.mounted))}
	for ns := range f.mounted {
		snap.Mounted[ns] = true
	}
	snap.Exports = make(map[string][]string, len(f.exports))
	for ns, m := range f.exports {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		snap.Exports[ns] = names
	}
	return snap, nil
}

func (f *ReplicatedFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()
	var snap replicatedSnapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return fmt.Errorf("replicated fsm: decode snapshot: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.mounted = snap.Mounted
	if f.mounted == nil {
		f.mounted = make(map[string]bool)
	}
	f.exports = make(map[string]map[string]bool, len(snap.Exports))
	for ns, names := range snap.Exports {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			m[n] = true
		}
		f.exports[ns] = m
	}
	return nil
}

// IsMounted reports whether the FSM's replicated mirror believes
// namespace is mounted somewhere in the cluster.
func (f *ReplicatedFSM) IsMounted(namespace string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.mounted[namespace]
}

type replicatedSnapshot struct {
	Mounted map[string]bool    `json:"mounted"`
	Exports map[string][]string `json:"exports"`
}

func (s *replicatedSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := json.NewEncoder(sink).Encode(s); err != nil {
			return err
		}
		return sink.Close()
	}()
	if err != nil {
		sink.Cancel()
	}
	return err
}

func (s *replicatedSnapshot) Release() {}

// ReplicatedDatabase pairs a local, single-process MetaDatabase (the
// live source of truth for object pointers) with a raft.Raft node
// replicating publication events for cluster-wide observability.
// Mount/Unmount still run directly against Local — ReplicatedDatabase
// additionally proposes the event to the raft log so every cluster
// member's ReplicatedFSM mirror learns of it.
type ReplicatedDatabase struct {
	Local *MetaDatabase
	raft  *raft.Raft
}

// NewReplicatedDatabase wraps local with an already-configured raft
// node (built by BootstrapRaftNode, or by the caller directly — this
// package only requires a *raft.Raft, not a particular way of standing
// one up).
func NewReplicatedDatabase(local *MetaDatabase, r *raft.Raft) *ReplicatedDatabase {
	return &ReplicatedDatabase{Local: local, raft: r}
}

// RaftNodeConfig names the on-disk and network parameters
// BootstrapRaftNode needs to stand up a single-node raft cluster.
type RaftNodeConfig struct {
	NodeID   string
	BindAddr string
	DataDir  string
}

// BootstrapRaftNode builds and bootstraps a single-node raft.Raft
// fronting fsm, its log and stable stores backed by raft-boltdb and
// its snapshot store backed by raft's file store — the direct
// generalization of pkg/manager/manager.go's Bootstrap, narrowed to
// the single-node case this package's tests and cmd/rttiserved need
// (Join's multi-node RPC handshake is cluster membership/transport
// plumbing that spec's Non-goals put outside the database package).
func BootstrapRaftNode(cfg RaftNodeConfig, fsm raft.FSM) (*raft.Raft, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create data dir: %w", err)
	}

	raftCfg := raft.DefaultConfig()
	raftCfg.LocalID = raft.ServerID(cfg.NodeID)
	raftCfg.HeartbeatTimeout = 500 * time.Millisecond
	raftCfg.ElectionTimeout = 500 * time.Millisecond
	raftCfg.CommitTimeout = 50 * time.Millisecond
	raftCfg.LeaderLeaseTimeout = 250 * time.Millisecond

	addr, err := net.ResolveTCPAddr("tcp", cfg.BindAddr)
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: resolve bind address: %w", err)
	}
	transport, err := raft.NewTCPTransport(cfg.BindAddr, addr, 3, 10*time.Second, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create transport: %w", err)
	}

	snapshotStore, err := raft.NewFileSnapshotStore(cfg.DataDir, 2, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create snapshot store: %w", err)
	}

	logStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-log.db"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create log store: %w", err)
	}
	stableStore, err := raftboltdb.NewBoltStore(filepath.Join(cfg.DataDir, "raft-stable.db"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create stable store: %w", err)
	}

	r, err := raft.NewRaft(raftCfg, fsm, logStore, stableStore, snapshotStore, transport)
	if err != nil {
		return nil, fmt.Errorf("bootstrap raft node: create raft: %w", err)
	}

	future := r.BootstrapCluster(raft.Configuration{
		Servers: []raft.Server{{ID: raftCfg.LocalID, Address: transport.LocalAddr()}},
	})
	if err := future.Error(); err != nil {
		return nil, fmt.Errorf("bootstrap raft node: bootstrap cluster: %w", err)
	}
	return r, nil
}

func (d *ReplicatedDatabase) propose(cmd Command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("replicated database: encode command: %w", err)
	}
	f := d.raft.Apply(data, 0)
	return f.Error()
}

// Register implements transaction.Registrar by registering locally
// then replicating the mount event so every cluster member's
// ReplicatedFSM mirror learns of it.
func (d *ReplicatedDatabase) Register(namespace string, txn *transaction.Transaction) error {
	if err := d.Local.Register(namespace, txn); err != nil {
		return err
	}
	return d.propose(Command{Op: opMountNamespace, Namespace: namespace})
}

// Unregister mirrors Register's symmetric withdrawal.
func (d *ReplicatedDatabase) Unregister(namespace string) {
	d.Local.Unregister(namespace)
	_ = d.propose(Command{Op: opUnmountNamespace, Namespace: namespace})
}

// RegisterExport implements transaction.Registrar.
func (d *ReplicatedDatabase) RegisterExport(namespace, name string, obj metaobject.HasMetaObject) error {
	if err := d.Local.RegisterExport(namespace, name, obj); err != nil {
		return err
	}
	return d.propose(Command{Op: opRegisterExport, Namespace: namespace, Name: name})
}

// UnregisterExport implements transaction.Registrar.
func (d *ReplicatedDatabase) UnregisterExport(namespace, name string) {
	d.Local.UnregisterExport(namespace, name)
	_ = d.propose(Command{Op: opUnregisterExport, Namespace: namespace, Name: name})
}
