// Package metaobject implements the C6 reflected-object model: the
// MetaObject base every graph-bearing instance embeds, MetaClass and
// MetaProperty metadata, and the strong/safe/weak reference kinds,
// generalized from the original engine's FMetaObject/FMetaClass/
// FMetaProperty and RefPtr/SafePtr/WeakPtr.
package metaobject

import (
	"sync/atomic"

	"github.com/metacore/reflect/pkg/rtti"
)

// Flag is the object-level flag bag from spec §4.6.
type Flag uint32

const (
	FlagTopObject Flag = 1 << iota
	FlagExported
	FlagLoaded
	FlagUnloaded
	FlagVisited
	// FlagDirty is not named in spec's flag bag but is required by
	// spec §4.6's "Set must ... mark the object dirty" — added here as
	// a bookkeeping bit alongside the canonical five.
	FlagDirty
)

// Outer is the minimal surface a MetaObject's owning container (a
// MetaTransaction) exposes. Declared here, not imported from
// pkg/transaction, so this package stays a leaf dependency.
type Outer interface {
	Namespace() string
}

// LoadContext is threaded through RTTI_Load/RTTI_Unload.
type LoadContext struct {
	Outer Outer
}

// HasMetaObject is implemented by every reflected type by embedding
// MetaObject as its first field and exposing it via Base(). Embedding
// it first is required: property offsets and StrongRef/SafeRef/WeakRef
// all assume unsafe.Pointer(obj.Base()) equals the concrete object's
// own address.
type HasMetaObject interface {
	Base() *MetaObject
}

// control is the liveness block shared by every ref kind pointing at
// one object; SafeRef panics once it observes alive == 0.
type control struct {
	alive int32
}

// MetaObject is the base of every reflected, graph-bearing instance.
type MetaObject struct {
	class *MetaClass
	ctl   *control

	strong int64
	weak   int64

	name  string
	outer Outer
	flags uint32

	onLoad   func(ctx *LoadContext) error
	onUnload func(ctx *LoadContext) error
}

// Init wires the class pointer and resets lifecycle state; every
// concrete constructor must call it before the object is used.
func (o *MetaObject) Init(class *MetaClass) {
	o.class = class
	o.ctl = &control{alive: 1}
	o.flags = uint32(FlagUnloaded)
}

func (o *MetaObject) Base() *MetaObject { return o }
func (o *MetaObject) Class() *MetaClass { return o.class }
func (o *MetaObject) Name() string      { return o.name }
func (o *MetaObject) Outer() Outer      { return o.outer }

// SetOuter is called by MetaTransaction during linearization.
func (o *MetaObject) SetOuter(outer Outer) { o.outer = outer }

func (o *MetaObject) Has(f Flag) bool {
	return Flag(atomic.LoadUint32(&o.flags))&f == f
}

func (o *MetaObject) setFlag(f Flag) {
	for {
		old := atomic.LoadUint32(&o.flags)
		next := old | uint32(f)
		if next == old || atomic.CompareAndSwapUint32(&o.flags, old, next) {
			return
		}
	}
}

func (o *MetaObject) clearFlag(f Flag) {
	for {
		old := atomic.LoadUint32(&o.flags)
		next := old &^ uint32(f)
		if next == old || atomic.CompareAndSwapUint32(&o.flags, old, next) {
			return
		}
	}
}

// SetExported sets IsExported and installs name (spec §4.6).
func (o *MetaObject) SetExported(name string) {
	o.name = name
	o.setFlag(FlagExported)
}

// SetTopObject marks the object as a transaction-added root.
func (o *MetaObject) SetTopObject() { o.setFlag(FlagTopObject) }

// markDirty is called by MetaProperty.Set.
func (o *MetaObject) markDirty() { o.setFlag(FlagDirty) }

// ClearDirty resets the dirty bit, e.g. after a serializer has
// persisted the object.
func (o *MetaObject) ClearDirty() { o.clearFlag(FlagDirty) }

// PathName is "namespace/objectName" when exported; "" otherwise
// (spec §3: "undefined for publication" when not exported).
func (o *MetaObject) PathName() string {
	if !o.Has(FlagExported) || o.name == "" || o.outer == nil {
		return ""
	}
	return o.outer.Namespace() + "/" + o.name
}

// SetLoadCallbacks installs the user RTTI_Load/RTTI_Unload hooks.
func (o *MetaObject) SetLoadCallbacks(onLoad, onUnload func(ctx *LoadContext) error) {
	o.onLoad = onLoad
	o.onUnload = onUnload
}

// Load runs the object's RTTI_Load hook exactly once. Precondition
// IsUnloaded; postcondition IsLoaded.
func (o *MetaObject) Load(ctx *LoadContext) error {
	if !o.Has(FlagUnloaded) {
		o.fatalf("Load called while not Unloaded")
	}
	o.outer = ctx.Outer
	if o.onLoad != nil {
		if err := o.onLoad(ctx); err != nil {
			return err
		}
	}
	o.clearFlag(FlagUnloaded)
	o.setFlag(FlagLoaded)
	return nil
}

// Unload runs the object's RTTI_Unload hook exactly once. Precondition
// IsLoaded; postcondition IsUnloaded.
func (o *MetaObject) Unload(ctx *LoadContext) error {
	if !o.Has(FlagLoaded) {
		o.fatalf("Unload called while not Loaded")
	}
	if o.onUnload != nil {
		if err := o.onUnload(ctx); err != nil {
			return err
		}
	}
	o.clearFlag(FlagLoaded)
	o.setFlag(FlagUnloaded)
	o.outer = nil
	return nil
}

func (o *MetaObject) fatalf(format string, args ...any) {
	name := "unknown"
	if o.class != nil {
		name = o.class.Name()
	}
	rtti.Fatalf(name, o.PathName(), format, args...)
}

// retain/release back StrongRef's atomic counting.
func (o *MetaObject) retain() { atomic.AddInt64(&o.strong, 1) }
func (o *MetaObject) release() int64 { return atomic.AddInt64(&o.strong, -1) }
func (o *MetaObject) strongCount() int64 { return atomic.LoadInt64(&o.strong) }

func (o *MetaObject) retainWeak() { atomic.AddInt64(&o.weak, 1) }
func (o *MetaObject) releaseWeak() { atomic.AddInt64(&o.weak, -1) }

// markDestroyed flips the shared control block so outstanding SafeRefs
// fault on next observation. Called once strong count hits zero and
// the object has no outer (unowned) or has finished Unload.
func (o *MetaObject) markDestroyed() { atomic.StoreInt32(&o.ctl.alive, 0) }

func (o *MetaObject) isAlive() bool { return atomic.LoadInt32(&o.ctl.alive) != 0 }
