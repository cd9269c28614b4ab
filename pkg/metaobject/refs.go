package metaobject

// strongSlot/safeSlot/weakSlot hold the ref bookkeeping in a layout
// that never depends on the generic type parameter T: every
// StrongRef[T]/SafeRef[T]/WeakRef[T] instantiation wraps exactly one
// of these structs and nothing else, so their memory layout is
// identical regardless of T. refstraits.go's trait wrappers rely on
// this to address a property's storage as *strongSlot/*safeSlot/
// *weakSlot without knowing the concrete T the property was declared
// with.
type strongSlot struct {
	target HasMetaObject
	valid  bool
}

type safeSlot struct {
	target HasMetaObject
}

type weakSlot struct {
	target HasMetaObject
	bound  bool
}

// StrongRef owns a reference to a HasMetaObject: the referenced object
// is destroyed once its strong count drops to zero and it has no
// outer (i.e. it isn't also rooted in a MetaTransaction). This mirrors
// the original engine's RefPtr. A StrongRef[T] field may be declared
// as a MetaProperty via StrongRefTraits, which routes MetaProperty.Set
// and transaction teardown through Release so ownership is actually
// enforced rather than left to the caller's discipline.
type StrongRef[T HasMetaObject] struct {
	slot strongSlot
}

// NewStrongRef retains target and returns an owning handle.
func NewStrongRef[T HasMetaObject](target T) StrongRef[T] {
	target.Base().retain()
	return StrongRef[T]{slot: strongSlot{target: target, valid: true}}
}

func (r StrongRef[T]) Get() T {
	if !r.slot.valid {
		var zero T
		return zero
	}
	return r.slot.target.(T)
}

func (r StrongRef[T]) IsValid() bool { return r.slot.valid }

// Release drops the strong reference, destroying the target if its
// strong count reaches zero and it is not owned by a transaction.
func (r *StrongRef[T]) Release() {
	if !r.slot.valid {
		return
	}
	base := r.slot.target.Base()
	if base.release() == 0 && base.Outer() == nil {
		base.markDestroyed()
	}
	r.slot = strongSlot{}
}

// Reassign replaces the held target, releasing the previous one first.
func (r *StrongRef[T]) Reassign(target T) {
	r.Release()
	*r = NewStrongRef(target)
}

// SafeRef is a non-owning handle that panics if dereferenced after its
// target has been destroyed, the Go analogue of the original engine's
// SafePtr. Unlike StrongRef it never prevents destruction and unlike
// WeakRef it never reports absence gracefully. A SafeRef[T] field may
// be declared as a MetaProperty via SafeRefTraits.
type SafeRef[T HasMetaObject] struct {
	slot safeSlot
}

func NewSafeRef[T HasMetaObject](target T) SafeRef[T] { return SafeRef[T]{slot: safeSlot{target: target}} }

// Get returns the target, panicking if it has been destroyed.
func (r SafeRef[T]) Get() T {
	base := r.slot.target.Base()
	if base == nil || !base.isAlive() {
		rttiFatalStaleRef()
	}
	return r.slot.target.(T)
}

func (r SafeRef[T]) IsValid() bool {
	base := r.slot.target.Base()
	return base != nil && base.isAlive()
}

// WeakRef is a non-owning handle that reports absence instead of
// panicking, the Go analogue of the original engine's WeakPtr. Used to
// break cycles through object graphs: DeepEquals/DeepCopy and the
// Atom visitor do not recurse through a WeakRef edge (see
// refstraits.go's weakRefTraits). A WeakRef[T] field may be declared
// as a MetaProperty via WeakRefTraits.
type WeakRef[T HasMetaObject] struct {
	slot weakSlot
}

// NewWeakRef registers a non-owning observer of target.
func NewWeakRef[T HasMetaObject](target T) WeakRef[T] {
	target.Base().retainWeak()
	return WeakRef[T]{slot: weakSlot{target: target, bound: true}}
}

// Get returns the target and true if it is still alive.
func (r WeakRef[T]) Get() (T, bool) {
	var zero T
	if !r.slot.bound {
		return zero, false
	}
	base := r.slot.target.Base()
	if base == nil || !base.isAlive() {
		return zero, false
	}
	return r.slot.target.(T), true
}

func (r WeakRef[T]) IsValid() bool {
	if !r.slot.bound {
		return false
	}
	base := r.slot.target.Base()
	return base != nil && base.isAlive()
}

func (r *WeakRef[T]) Release() {
	if !r.slot.bound {
		return
	}
	r.slot.target.Base().releaseWeak()
	r.slot = weakSlot{}
}

func rttiFatalStaleRef() {
	panic("metaobject: SafeRef dereferenced after target was destroyed")
}
