package database

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/hashicorp/raft"
	"github.com/stretchr/testify/require"
)

func applyCommand(t *testing.T, fsm *ReplicatedFSM, cmd Command) {
	t.Helper()
	data, err := json.Marshal(cmd)
	require.NoError(t, err)
	result := fsm.Apply(&raft.Log{Data: data})
	if err, ok := result.(error); ok {
		require.NoError(t, err)
	}
}

func TestReplicatedFSMAppliesMountAndExportCommands(t *testing.T) {
	fsm := NewReplicatedFSM()

	applyCommand(t, fsm, Command{Op: opMountNamespace, Namespace: "ns"})
	require.True(t, fsm.IsMounted("ns"))

	applyCommand(t, fsm, Command{Op: opRegisterExport, Namespace: "ns", Name: "theLeaf"})

	result := fsm.Apply(&raft.Log{Data: mustJSON(t, Command{Op: opRegisterExport, Namespace: "ns", Name: "theLeaf"})})
	require.Error(t, result.(error))

	applyCommand(t, fsm, Command{Op: opUnregisterExport, Namespace: "ns", Name: "theLeaf"})
	applyCommand(t, fsm, Command{Op: opUnmountNamespace, Namespace: "ns"})
	require.False(t, fsm.IsMounted("ns"))
}

func TestReplicatedFSMRejectsUnknownOp(t *testing.T) {
	fsm := NewReplicatedFSM()
	result := fsm.Apply(&raft.Log{Data: mustJSON(t, Command{Op: "bogus"})})
	require.Error(t, result.(error))
}

// TestReplicatedFSMSnapshotRestoreRoundTrips covers the raft.FSMSnapshot
// contract: Persist followed by Restore reproduces the mirrored state.
func TestReplicatedFSMSnapshotRestoreRoundTrips(t *testing.T) {
	fsm := NewReplicatedFSM()
	applyCommand(t, fsm, Command{Op: opMountNamespace, Namespace: "ns"})
	applyCommand(t, fsm, Command{Op: opRegisterExport, Namespace: "ns", Name: "theLeaf"})

	snap, err := fsm.Snapshot()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, snap.Persist(&fakeSnapshotSink{Buffer: &buf}))

	restored := NewReplicatedFSM()
	require.NoError(t, restored.Restore(io.NopCloser(&buf)))
	require.True(t, restored.IsMounted("ns"))
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

// fakeSnapshotSink is the minimal raft.SnapshotSink a unit test needs:
// a Writer plus the ID/Cancel/Close bookkeeping methods.
type fakeSnapshotSink struct {
	*bytes.Buffer
}

func (s *fakeSnapshotSink) ID() string    { return "test-snapshot" }
func (s *fakeSnapshotSink) Cancel() error { return nil }
func (s *fakeSnapshotSink) Close() error  { return nil }
