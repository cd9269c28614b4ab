// Package transaction implements the C7 MetaTransaction: a namespace-
// scoped container that linearizes a top-object graph into load order,
// runs the object lifecycle hooks, and publishes exported objects to a
// registrar (typically a pkg/database MetaDatabase).
package transaction

import (
	"fmt"

	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
)

// Registrar is the publication surface a MetaDatabase exposes to
// Mount/Unmount. Declared here, not imported from pkg/database, so
// this package stays the lower layer — the same leaf-dependency
// pattern metaobject.Outer uses.
type Registrar interface {
	Register(namespace string, txn *Transaction) error
	Unregister(namespace string)
	RegisterExport(namespace, name string, obj metaobject.HasMetaObject) error
	UnregisterExport(namespace, name string)
}

// Transaction is a namespace-scoped container owning a linearized
// object graph, the Go analogue of the original engine's
// FMetaTransaction. Transitions are not internally synchronized —
// spec requires only that callers serialize them, matching §5's "a
// single MetaTransaction is owned by one thread at a time".
type Transaction struct {
	namespace string
	flags     Flag
	state     State

	topObjects   []metaobject.HasMetaObject
	loadedRefs   []metaobject.HasMetaObject
	exportedRefs []metaobject.HasMetaObject
	importedRefs []metaobject.HasMetaObject
}

// New returns an Unloaded transaction scoped to namespace.
func New(namespace string, flags Flag) *Transaction {
	return &Transaction{namespace: namespace, flags: flags, state: Unloaded}
}

func (t *Transaction) Namespace() string { return t.namespace }
func (t *Transaction) State() State      { return t.state }
func (t *Transaction) Flags() Flag       { return t.flags }

func (t *Transaction) TopObjects() []metaobject.HasMetaObject   { return t.topObjects }
func (t *Transaction) LoadedRefs() []metaobject.HasMetaObject   { return t.loadedRefs }
func (t *Transaction) ExportedRefs() []metaobject.HasMetaObject { return t.exportedRefs }
func (t *Transaction) ImportedRefs() []metaobject.HasMetaObject { return t.importedRefs }

func (t *Transaction) fatalf(format string, args ...any) {
	rtti.Fatalf("Transaction", t.namespace, format, args...)
}

func (t *Transaction) requireState(want State, op string) {
	if t.state != want {
		t.fatalf("%s called while in state %s, requires %s", op, t.state, want)
	}
}

// Add registers obj as a root of the graph. Only valid while Unloaded.
func (t *Transaction) Add(obj metaobject.HasMetaObject) {
	t.requireState(Unloaded, "Add")
	obj.Base().SetTopObject()
	t.topObjects = append(t.topObjects, obj)
}

// Load linearizes the top-object graph in depth-first postfix order
// and runs RTTI_Load on every entry of LoadedRefs, dependencies first.
func (t *Transaction) Load(ctx *metaobject.LoadContext) error {
	t.requireState(Unloaded, "Load")
	t.state = Loading

	// Reserve proportionally to the top-object count to avoid
	// reallocation during the DFS, matching the original engine's
	// pre-linearization Reserve call (see SPEC_FULL §15).
	estimate := len(t.topObjects) * 4
	t.loadedRefs = make([]metaobject.HasMetaObject, 0, estimate)
	t.exportedRefs = t.exportedRefs[:0]
	t.importedRefs = t.importedRefs[:0]

	l := newLinearizer(t)
	for _, root := range t.topObjects {
		if !l.visit(root) {
			break
		}
	}
	if l.err != nil {
		t.state = Unloaded
		return l.err
	}

	if ctx == nil {
		ctx = &metaobject.LoadContext{Outer: t}
	} else {
		ctx.Outer = t
	}
	for _, obj := range t.loadedRefs {
		if err := obj.Base().Load(ctx); err != nil {
			t.state = Unloaded
			return fmt.Errorf("transaction %q: loading %s: %w", t.namespace, obj.Base().Class().Name(), err)
		}
	}
	t.state = Loaded
	return nil
}

// Mount publishes the transaction and its exported objects through
// reg: one Register call, then one RegisterExport call per export.
// Mount holds no lock of its own across those calls, so a concurrent
// reader of reg can see the namespace before all of its exports.
func (t *Transaction) Mount(reg Registrar) error {
	t.requireState(Loaded, "Mount")
	t.state = Mounting
	if err := reg.Register(t.namespace, t); err != nil {
		t.fatalf("Mount: namespace registration failed: %v", err)
	}
	if !t.flags.Has(KeepIsolated) {
		for _, obj := range t.exportedRefs {
			if err := reg.RegisterExport(t.namespace, obj.Base().Name(), obj); err != nil {
				t.fatalf("Mount: export %q collides: %v", obj.Base().Name(), err)
			}
		}
	}
	t.state = Mounted
	return nil
}

// Unmount withdraws the transaction's published names from reg.
func (t *Transaction) Unmount(reg Registrar) error {
	t.requireState(Mounted, "Unmount")
	t.state = Unmounting
	if !t.flags.Has(KeepIsolated) {
		for _, obj := range t.exportedRefs {
			reg.UnregisterExport(t.namespace, obj.Base().Name())
		}
	}
	reg.Unregister(t.namespace)
	t.state = Loaded
	return nil
}

// Unload runs RTTI_Unload over LoadedRefs in reverse and clears the
// three reference lists. TopObjects is kept so the transaction can be
// reloaded.
func (t *Transaction) Unload(ctx *metaobject.LoadContext) error {
	t.requireState(Loaded, "Unload")
	t.state = Unloading
	if ctx == nil {
		ctx = &metaobject.LoadContext{Outer: t}
	}
	for i := len(t.loadedRefs) - 1; i >= 0; i-- {
		obj := t.loadedRefs[i]
		if err := obj.Base().Unload(ctx); err != nil {
			return fmt.Errorf("transaction %q: unloading %s: %w", t.namespace, obj.Base().Class().Name(), err)
		}
	}
	// Every object's outer is now nil, so releasing owning (StrongRef)
	// edges here is what lets StrongRef.Release's Outer()==nil gate
	// actually fire: an object that loses its last strong owner at the
	// same moment the whole transaction lets go of it is destroyed.
	for _, obj := range t.loadedRefs {
		metaobject.ReleaseOwnedProperties(obj)
	}
	t.loadedRefs = nil
	t.exportedRefs = nil
	t.importedRefs = nil
	t.state = Unloaded
	return nil
}

// LoadAndMount is the common-case entry point: linearize and run
// Load, then immediately publish through reg.
func (t *Transaction) LoadAndMount(reg Registrar, ctx *metaobject.LoadContext) error {
	if err := t.Load(ctx); err != nil {
		return err
	}
	return t.Mount(reg)
}

// UnmountAndUnload is the symmetric teardown: withdraw publication,
// then run Unload.
func (t *Transaction) UnmountAndUnload(reg Registrar, ctx *metaobject.LoadContext) error {
	if err := t.Unmount(reg); err != nil {
		return err
	}
	return t.Unload(ctx)
}

// Reload cycles the transaction back through Load, preserving its
// Mounted status if it had one.
func (t *Transaction) Reload(reg Registrar, ctx *metaobject.LoadContext) error {
	wasMounted := t.state == Mounted
	if wasMounted {
		if err := t.Unmount(reg); err != nil {
			return err
		}
	}
	if t.state == Loaded {
		if err := t.Unload(ctx); err != nil {
			return err
		}
	}
	if err := t.Load(ctx); err != nil {
		return err
	}
	if wasMounted {
		return t.Mount(reg)
	}
	return nil
}

// DeepEquals compares two transactions' top-object lists element-wise
// under MetaObject deep-equality.
func (t *Transaction) DeepEquals(other *Transaction, ctx *rtti.DeepCtx) bool {
	if len(t.topObjects) != len(other.topObjects) {
		return false
	}
	if ctx == nil {
		ctx = rtti.NewDeepCtx()
	}
	for i := range t.topObjects {
		if !metaobject.DeepEquals(t.topObjects[i], other.topObjects[i], ctx) {
			return false
		}
	}
	return true
}
