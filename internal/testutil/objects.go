// Package testutil builds small reflected MetaObject graphs for tests
// across pkg/transaction, pkg/database, pkg/visitor, and pkg/rtti,
// the throwaway graph-builder helpers SPEC_FULL.md's ambient-stack
// section calls for, in the style of the teacher's test/framework
// builder helpers.
package testutil

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

// Leaf is a small reflected object carrying one each of the scalar
// kinds exercised by scenario S1 (spec §8): an int32, a float64, and
// a string.
type Leaf struct {
	metaobject.MetaObject
	I32    int32
	F64    float64
	String string
}

func (l *Leaf) Base() *metaobject.MetaObject { return &l.MetaObject }

var LeafClass = metaobject.NewClass("Leaf", nil, func() metaobject.HasMetaObject { return &Leaf{} }).
	Property("I32", unsafe.Offsetof(Leaf{}.I32), traits.Int32, 0).
	Property("F64", unsafe.Offsetof(Leaf{}.F64), traits.Float64, 0).
	Property("String", unsafe.Offsetof(Leaf{}.String), traits.String, 0).
	Build()

// NewLeaf constructs and initializes a Leaf instance.
func NewLeaf() *Leaf {
	obj := LeafClass.CreateInstance()
	return obj.(*Leaf)
}

// Parent owns a strong reference to a Leaf, the minimum shape needed
// to exercise linearization (spec §4.7: dependencies precede
// dependents), cross-transaction import detection (S5), and
// StrongRef's retain/release bookkeeping across transaction teardown.
type Parent struct {
	metaobject.MetaObject
	Label string
	Child metaobject.StrongRef[*Leaf]
}

func (p *Parent) Base() *metaobject.MetaObject { return &p.MetaObject }

var ParentClass = metaobject.NewClass("Parent", nil, func() metaobject.HasMetaObject { return &Parent{} }).
	Property("Label", unsafe.Offsetof(Parent{}.Label), traits.String, 0).
	Property("Child", unsafe.Offsetof(Parent{}.Child), metaobject.StrongRefTraits(LeafClass), 0).
	Build()

// NewParent constructs a Parent instance named label, strongly
// referencing child (which may be nil).
func NewParent(label string, child *Leaf) *Parent {
	obj := ParentClass.CreateInstance()
	p := obj.(*Parent)
	p.Label = label
	if child != nil {
		p.Child = metaobject.NewStrongRef[*Leaf](child)
	}
	return p
}
