// Package visitor implements the C8 Atom visitor: a base walker with
// per-category default recursion (list iterates elements, dico
// iterates values, object iterates properties) plus the concrete
// visitors built on top of it — reference collection, randomization,
// and pretty-printing.
package visitor

import (
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
)

// BaseVisitor supplies the spec's default per-category behavior:
// scalars return true without descending (there is nothing beneath a
// leaf), pairs
// recurse into both members, lists recurse into every element, dicos
// recurse into every value, and objects recurse into every declared
// property (ancestor-to-descendant order). Embedders that override one
// method must set Self to themselves so recursive calls dispatch back
// through the override rather than back into BaseVisitor directly —
// the same "self" problem any Go visitor hierarchy has without real
// virtual dispatch.
type BaseVisitor struct {
	Self rtti.Visitor
}

func (v *BaseVisitor) self() rtti.Visitor {
	if v.Self != nil {
		return v.Self
	}
	return v
}

func (v *BaseVisitor) VisitScalar(atom rtti.Atom) bool { return true }

func (v *BaseVisitor) VisitPair(atom rtti.Atom) bool {
	pt := atom.Traits.AsPair()
	self := v.self()
	if !pt.First(atom.Ptr).Accept(self) {
		return false
	}
	return pt.Second(atom.Ptr).Accept(self)
}

func (v *BaseVisitor) VisitList(atom rtti.Atom) bool {
	lt := atom.Traits.AsList()
	self := v.self()
	ok := true
	lt.ForEach(atom.Ptr, func(e rtti.Atom) bool {
		if !e.Accept(self) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

func (v *BaseVisitor) VisitDico(atom rtti.Atom) bool {
	dt := atom.Traits.AsDico()
	self := v.self()
	ok := true
	dt.ForEach(atom.Ptr, func(_, val rtti.Atom) bool {
		if !val.Accept(self) {
			ok = false
			return false
		}
		return true
	})
	return ok
}

// VisitObject walks every property of the referenced object, in
// ancestor-to-descendant declaration order. A nil reference stops
// cleanly without visiting anything.
func (v *BaseVisitor) VisitObject(atom rtti.Atom) bool {
	obj := ObjectAt(atom)
	if obj == nil {
		return true
	}
	self := v.self()
	for _, p := range obj.Base().Class().AllProperties() {
		if !p.Get(obj).Accept(self) {
			return false
		}
	}
	return true
}

// ObjectAt dereferences an object-category Atom's data pointer back
// into the HasMetaObject it references, per the layout objectTraits
// establishes (a *HasMetaObject slot). Returns nil for a null
// reference or a non-object atom.
func ObjectAt(atom rtti.Atom) metaobject.HasMetaObject {
	if atom.IsNil() || atom.Traits.AsObject() == nil {
		return nil
	}
	return *(*metaobject.HasMetaObject)(atom.Ptr)
}
