package rtti

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScalarTypeIdIsDeterministic covers spec §8 property 1: two
// independently computed ids for the same structural type are equal.
func TestScalarTypeIdIsDeterministic(t *testing.T) {
	require.Equal(t, ScalarTypeId("int32"), ScalarTypeId("int32"))
	require.NotEqual(t, ScalarTypeId("int32"), ScalarTypeId("int64"))
}

// TestCompositeTypeIdsAreOrderSensitive covers property 1's
// injectivity clause: swapping a pair's key/value or a dico's
// key/value changes the id.
func TestCompositeTypeIdsAreOrderSensitive(t *testing.T) {
	a := ScalarTypeId("a")
	b := ScalarTypeId("b")

	require.NotEqual(t, PairTypeId(a, b), PairTypeId(b, a))
	require.NotEqual(t, DicoTypeId(a, b), DicoTypeId(b, a))
}

func TestListTypeIdDependsOnlyOnElement(t *testing.T) {
	a := ScalarTypeId("int32")
	require.Equal(t, ListTypeId(a), ListTypeId(a))
	require.NotEqual(t, ListTypeId(a), ListTypeId(ScalarTypeId("int64")))
}

func TestObjectTypeIdIsStableAcrossCalls(t *testing.T) {
	require.Equal(t, ObjectTypeId("Leaf"), ObjectTypeId("Leaf"))
	require.NotEqual(t, ObjectTypeId("Leaf"), ObjectTypeId("Parent"))
}

func TestEnumTypeIdDerivesFromUnderlying(t *testing.T) {
	underlying := ScalarTypeId("int32")
	require.Equal(t, EnumTypeId(underlying), EnumTypeId(underlying))
	require.NotEqual(t, EnumTypeId(underlying), underlying)
}
