package visitor

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/metacore/reflect/internal/testutil"
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
)

// objectAtomOf wraps obj the way a MetaProperty.Get of an object-ref
// property would: a *HasMetaObject slot described by the class's own
// traits.
func objectAtomOf(obj metaobject.HasMetaObject) rtti.Atom {
	var boxed metaobject.HasMetaObject = obj
	return rtti.Atom{Ptr: unsafe.Pointer(&boxed), Traits: obj.Base().Class().Traits()}
}

func TestPrintObjectIncludesClassNameAndProperties(t *testing.T) {
	leaf := testutil.NewLeaf()
	leaf.I32 = 7
	leaf.String = "hi"

	text := Print(objectAtomOf(leaf))
	require.Contains(t, text, "Leaf")
	require.Contains(t, text, "I32: 7")
	require.Contains(t, text, `String: "hi"`)
}

func TestPrintExportedObjectIncludesPathName(t *testing.T) {
	leaf := testutil.NewLeaf()
	leaf.Base().SetExported("theLeaf")
	leaf.Base().SetOuter(fakePrinterOuter{})

	text := Print(objectAtomOf(leaf))
	require.Contains(t, text, "Leaf@ns/theLeaf")
}

func TestPrintNullObjectReference(t *testing.T) {
	parent := testutil.NewParent("root", nil)
	text := Print(objectAtomOf(parent))
	require.Contains(t, text, "Child: null")
}

type fakePrinterOuter struct{}

func (fakePrinterOuter) Namespace() string { return "ns" }
