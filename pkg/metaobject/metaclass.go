package metaobject

import (
	"sync"
	"unsafe"

	"github.com/metacore/reflect/pkg/rtti"
)

// ClassFlag marks MetaClass-level characteristics.
type ClassFlag uint32

const (
	ClassAbstract ClassFlag = 1 << iota
	ClassDeprecated
)

// PropertyFlag marks MetaProperty-level characteristics consumed by
// the transaction linearizer (KeepDeprecated/KeepTransient) and by
// serializers (Hidden).
type PropertyFlag uint32

const (
	PropertyHidden PropertyFlag = 1 << iota
	PropertyDeprecated
	PropertyTransient
)

// MetaProperty describes one reflected field of a MetaClass, located
// by byte offset from the owning object's MetaObject base address —
// valid because HasMetaObject requires MetaObject as the first field.
type MetaProperty struct {
	name      string
	traits    rtti.TypeTraits
	offset    uintptr
	flags     PropertyFlag
	validator func(rtti.Atom) error
}

func (p *MetaProperty) Name() string          { return p.name }
func (p *MetaProperty) Traits() rtti.TypeTraits { return p.traits }
func (p *MetaProperty) Has(f PropertyFlag) bool { return p.flags&f == f }

func (p *MetaProperty) fieldPtr(obj HasMetaObject) unsafe.Pointer {
	base := unsafe.Pointer(obj.Base())
	return unsafe.Pointer(uintptr(base) + p.offset)
}

// Get returns an Atom referencing the property's live storage inside
// obj; mutating through it mutates obj directly.
func (p *MetaProperty) Get(obj HasMetaObject) rtti.Atom {
	return rtti.Atom{Ptr: p.fieldPtr(obj), Traits: p.traits}
}

// Set validates (if a validator is installed) and copies value into
// the property, then marks obj dirty.
func (p *MetaProperty) Set(obj HasMetaObject, value rtti.Atom) error {
	if p.validator != nil {
		if err := p.validator(value); err != nil {
			return err
		}
	}
	dst := rtti.Atom{Ptr: p.fieldPtr(obj), Traits: p.traits}
	if !value.PromoteCopy(dst) {
		p.traits.CreateCopy(dst.Ptr, value.Ptr)
	}
	obj.Base().markDirty()
	return nil
}

// MetaClass is the runtime type descriptor for a reflected class,
// generalized from the original engine's FMetaClass.
type MetaClass struct {
	name       string
	parent     *MetaClass
	flags      ClassFlag
	properties []*MetaProperty
	ctorFn     func() HasMetaObject
	traits     rtti.TypeTraits
}

func (c *MetaClass) Name() string      { return c.name }
func (c *MetaClass) Parent() *MetaClass { return c.parent }
func (c *MetaClass) Has(f ClassFlag) bool { return c.flags&f == f }
func (c *MetaClass) Traits() rtti.TypeTraits { return c.traits }

// IsA reports whether c equals or descends from other.
func (c *MetaClass) IsA(other *MetaClass) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// OwnProperties returns properties declared directly on c, excluding
// ancestors.
func (c *MetaClass) OwnProperties() []*MetaProperty { return c.properties }

// AllProperties returns every property from the root ancestor down to
// c, in ancestor-to-descendant declaration order — the order
// DeepEquals/DeepCopy/visitors must walk in.
func (c *MetaClass) AllProperties() []*MetaProperty {
	var chain []*MetaClass
	for cur := c; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var out []*MetaProperty
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].properties...)
	}
	return out
}

// Property looks up a property by name across the whole ancestor
// chain.
func (c *MetaClass) Property(name string) (*MetaProperty, bool) {
	for _, p := range c.AllProperties() {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}

// CreateInstance default-constructs a new instance via the registered
// constructor; panics if c is abstract.
func (c *MetaClass) CreateInstance() HasMetaObject {
	if c.Has(ClassAbstract) {
		rtti.Fatalf(c.name, "", "cannot instantiate abstract class")
	}
	obj := c.ctorFn()
	obj.Base().Init(c)
	return obj
}

var (
	classMu sync.RWMutex
	classes = map[string]*MetaClass{}
)

// LookupClass returns a previously-built MetaClass by name.
func LookupClass(name string) (*MetaClass, bool) {
	classMu.RLock()
	defer classMu.RUnlock()
	c, ok := classes[name]
	return c, ok
}

// MetaClassBuilder is a fluent registrar standing in for the original
// engine's RTTI_CLASS_BEGIN/RTTI_CLASS_END macro pair.
type MetaClassBuilder struct {
	class *MetaClass
}

// NewClass begins describing a class named name, with optional parent
// and a zero-value constructor.
func NewClass(name string, parent *MetaClass, ctor func() HasMetaObject) *MetaClassBuilder {
	return &MetaClassBuilder{class: &MetaClass{name: name, parent: parent, ctorFn: ctor}}
}

func (b *MetaClassBuilder) Abstract() *MetaClassBuilder {
	b.class.flags |= ClassAbstract
	return b
}

func (b *MetaClassBuilder) Deprecated() *MetaClassBuilder {
	b.class.flags |= ClassDeprecated
	return b
}

// Property registers a field at the given byte offset from the
// object's MetaObject base, described by traits. A StrongRef[T]/
// SafeRef[T]/WeakRef[T] field is declared the same way, passing
// StrongRefTraits(class)/SafeRefTraits(class)/WeakRefTraits(class) in
// place of a plain traits value — see refstraits.go.
func (b *MetaClassBuilder) Property(name string, offset uintptr, traits rtti.TypeTraits, flags PropertyFlag) *MetaClassBuilder {
	b.class.properties = append(b.class.properties, &MetaProperty{
		name: name, offset: offset, traits: traits, flags: flags,
	})
	return b
}

// Validator attaches a validation function to the most recently added
// property.
func (b *MetaClassBuilder) Validator(fn func(rtti.Atom) error) *MetaClassBuilder {
	if n := len(b.class.properties); n > 0 {
		b.class.properties[n-1].validator = fn
	}
	return b
}

// Build finalizes the class: registers it globally by name and builds
// its paired object traits so it can serve as a scalar leaf (e.g.
// list<MyClass-ref>) elsewhere in the reflected graph.
func (b *MetaClassBuilder) Build() *MetaClass {
	c := b.class
	c.traits = newObjectTraits(c)
	classMu.Lock()
	classes[c.name] = c
	classMu.Unlock()
	rtti.Register(c.traits)
	return c
}
