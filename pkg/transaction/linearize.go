package transaction

import (
	"fmt"
	"unsafe"

	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/visitor"
)

// linearizer performs the depth-first postfix walk spec §4.7
// describes: recurse into objects this transaction owns (or that are
// unowned), append on the way back out (postfix, so dependencies
// precede dependents), and record cross-transaction edges as imports
// without recursing through them. It embeds visitor.BaseVisitor purely
// for the list/dico/pair default recursion — VisitObject is fully
// overridden with this package's own bookkeeping.
type linearizer struct {
	visitor.BaseVisitor
	txn     *Transaction
	visited map[unsafe.Pointer]bool
	err     error
}

func newLinearizer(t *Transaction) *linearizer {
	l := &linearizer{txn: t, visited: make(map[unsafe.Pointer]bool)}
	l.Self = l
	return l
}

// visit walks obj and returns false once an error has been recorded or
// linearization should stop.
func (l *linearizer) visit(obj metaobject.HasMetaObject) bool {
	if obj == nil || l.err != nil {
		return l.err == nil
	}
	addr := unsafe.Pointer(obj.Base())
	if l.visited[addr] {
		return true
	}
	outer := obj.Base().Outer()
	if outer != nil && outer != metaobject.Outer(l.txn) {
		l.visited[addr] = true
		l.txn.importedRefs = append(l.txn.importedRefs, obj)
		if other, ok := outer.(*Transaction); ok {
			for _, imp := range other.importedRefs {
				if impOuter := imp.Base().Outer(); impOuter == metaobject.Outer(l.txn) {
					l.err = fmt.Errorf("transaction %q and %q import each other", l.txn.namespace, other.namespace)
					return false
				}
			}
		}
		return true
	}

	l.visited[addr] = true
	class := obj.Base().Class()
	for _, p := range class.AllProperties() {
		if p.Has(metaobject.PropertyDeprecated) && !l.txn.flags.Has(KeepDeprecated) {
			continue
		}
		if p.Has(metaobject.PropertyTransient) && !l.txn.flags.Has(KeepTransient) {
			continue
		}
		if !p.Get(obj).Accept(l) {
			return false
		}
	}

	l.txn.loadedRefs = append(l.txn.loadedRefs, obj)
	if obj.Base().Has(metaobject.FlagExported) {
		l.txn.exportedRefs = append(l.txn.exportedRefs, obj)
	}
	return true
}

// VisitObject is reached whenever the BaseVisitor default recursion
// (through a list/dico/pair property) lands on a nested object atom.
func (l *linearizer) VisitObject(atom rtti.Atom) bool {
	return l.visit(visitor.ObjectAt(atom))
}
