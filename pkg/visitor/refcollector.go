package visitor

import (
	"unsafe"

	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
)

// RefCollector walks an Atom and gathers every distinct MetaObject
// reference reachable from it, depth-first, visiting each object at
// most once. It is the general-purpose ancestor of the bespoke walk
// pkg/transaction's linearizer runs (which additionally needs postfix
// ordering, KeepDeprecated/KeepTransient policy, and cross-transaction
// import bookkeeping the generic collector has no reason to know
// about).
type RefCollector struct {
	BaseVisitor
	seen    map[unsafe.Pointer]bool
	Objects []metaobject.HasMetaObject
}

// NewRefCollector returns a ready-to-use collector; call Collect or
// feed it atoms via Atom.Accept directly.
func NewRefCollector() *RefCollector {
	c := &RefCollector{seen: make(map[unsafe.Pointer]bool)}
	c.Self = c
	return c
}

// Collect walks root and returns every distinct object reachable from
// it, including root itself if root is an object atom.
func Collect(root rtti.Atom) []metaobject.HasMetaObject {
	c := NewRefCollector()
	root.Accept(c)
	return c.Objects
}

func (c *RefCollector) VisitObject(atom rtti.Atom) bool {
	obj := ObjectAt(atom)
	if obj == nil {
		return true
	}
	addr := unsafe.Pointer(obj.Base())
	if c.seen[addr] {
		return true
	}
	c.seen[addr] = true
	c.Objects = append(c.Objects, obj)
	return c.BaseVisitor.VisitObject(atom)
}
