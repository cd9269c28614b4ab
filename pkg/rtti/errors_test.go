package rtti

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFatalfCarriesDiagnosticDetail covers spec §7: every fatal
// carries the offending type name, path, and call-site location.
func TestFatalfCarriesDiagnosticDetail(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(*FatalError)
		require.True(t, ok)
		require.Equal(t, "Leaf", err.TypeName)
		require.Equal(t, "root.Leaf", err.Path)
		require.Contains(t, err.Error(), "type=Leaf")
		require.Contains(t, err.Error(), "path=root.Leaf")
		require.Contains(t, err.Error(), "out of bounds")
	}()
	Fatalf("Leaf", "root.Leaf", "index %d out of bounds", 5)
}

func TestFatalErrorMessageWithoutPathOrType(t *testing.T) {
	err := &FatalError{Message: "generic failure"}
	require.Equal(t, "generic failure", err.Error()[len(err.Error())-len("generic failure"):])
	require.NotContains(t, err.Error(), "type=")
	require.NotContains(t, err.Error(), "path=")
}
