package visitor

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/internal/testutil"
)

func TestRandomizerFillsScalarProperties(t *testing.T) {
	leaf := testutil.NewLeaf()
	r := NewRandomizer(rand.New(rand.NewSource(1)))
	r.Fill(objectAtomOf(leaf))

	require.NotZero(t, leaf.I32)
	require.NotEmpty(t, leaf.String)
}

func TestRandomizerIsDeterministicForAFixedSeed(t *testing.T) {
	leaf1 := testutil.NewLeaf()
	leaf2 := testutil.NewLeaf()

	NewRandomizer(rand.New(rand.NewSource(42))).Fill(objectAtomOf(leaf1))
	NewRandomizer(rand.New(rand.NewSource(42))).Fill(objectAtomOf(leaf2))

	require.Equal(t, leaf1.I32, leaf2.I32)
	require.Equal(t, leaf1.F64, leaf2.F64)
	require.Equal(t, leaf1.String, leaf2.String)
}

// TestRandomizerFabricatesNilObjectReferencesWithinDepthBound covers
// the fresh-instance fabrication path: a Parent with a nil Child gets
// one randomly filled in, bounded by MaxDepth.
func TestRandomizerFabricatesNilObjectReferencesWithinDepthBound(t *testing.T) {
	parent := testutil.NewParent("root", nil)
	r := NewRandomizer(rand.New(rand.NewSource(7)))
	r.MaxDepth = 1
	r.Fill(objectAtomOf(parent))

	require.True(t, parent.Child.IsValid())
}

// TestRandomizerPreservesExistingSharedReference confirms an
// already-populated object reference is recursed into rather than
// replaced, so caller-built sharing survives randomization.
func TestRandomizerPreservesExistingSharedReference(t *testing.T) {
	leaf := testutil.NewLeaf()
	parent := testutil.NewParent("root", leaf)

	r := NewRandomizer(rand.New(rand.NewSource(3)))
	r.Fill(objectAtomOf(parent))

	require.Same(t, leaf, parent.Child.Get())
}
