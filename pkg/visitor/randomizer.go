package visitor

import (
	"math/rand"

	anypkg "github.com/metacore/reflect/pkg/any"
	"github.com/metacore/reflect/pkg/domain"
	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

// Randomizer fills a described value with deterministic pseudo-random
// data, seeded by the caller-supplied *rand.Rand — the generator spec
// S1-S6's property tests use to build throwaway graphs, the visitor
// analogue of the teacher's table-driven test fixtures (there built by
// hand; here built structurally from a MetaClass's property list).
// Depth and collection-length are bounded so self-referential classes
// terminate.
type Randomizer struct {
	BaseVisitor
	Rng              *rand.Rand
	MaxDepth         int
	MaxCollectionLen int

	depth int
}

// NewRandomizer returns a Randomizer seeded by rng with sane depth and
// collection-size bounds.
func NewRandomizer(rng *rand.Rand) *Randomizer {
	r := &Randomizer{Rng: rng, MaxDepth: 3, MaxCollectionLen: 3}
	r.Self = r
	return r
}

// Fill randomizes atom in place.
func (r *Randomizer) Fill(atom rtti.Atom) { atom.Accept(r) }

func (r *Randomizer) VisitScalar(atom rtti.Atom) bool {
	switch atom.Traits.Infos().Id {
	case traits.Int32.Infos().Id:
		*(*int32)(atom.Ptr) = r.Rng.Int31()
	case traits.Int64.Infos().Id:
		*(*int64)(atom.Ptr) = r.Rng.Int63()
	case traits.Float32.Infos().Id:
		*(*float32)(atom.Ptr) = r.Rng.Float32()
	case traits.Float64.Infos().Id:
		*(*float64)(atom.Ptr) = r.Rng.Float64()
	case traits.Bool.Infos().Id:
		*(*bool)(atom.Ptr) = r.Rng.Intn(2) == 1
	case traits.String.Infos().Id:
		*(*string)(atom.Ptr) = r.randomString()
	case traits.PathKind.Infos().Id:
		*(*traits.Path)(atom.Ptr) = traits.Path("/" + r.randomString())
	case traits.NameKind.Infos().Id:
		*(*traits.Name)(atom.Ptr) = traits.Name(r.randomString())
	default:
		// Bytes, Any, and object-leaf scalars are left at their default
		// value; Any's own payload has no fixed shape to randomize
		// without a target type, and object leaves are handled by
		// VisitObject below.
	}
	return true
}

func (r *Randomizer) randomString() string {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	n := 3 + r.Rng.Intn(8)
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[r.Rng.Intn(len(alphabet))]
	}
	return string(buf)
}

func (r *Randomizer) VisitList(atom rtti.Atom) bool {
	lt := atom.Traits.AsList()
	n := r.Rng.Intn(r.MaxCollectionLen + 1)
	for i := 0; i < n; i++ {
		e := lt.AddDefault(atom.Ptr)
		if !e.Accept(r) {
			return false
		}
	}
	return true
}

func (r *Randomizer) VisitDico(atom rtti.Atom) bool {
	dt := atom.Traits.AsDico()
	n := r.Rng.Intn(r.MaxCollectionLen + 1)
	for i := 0; i < n; i++ {
		keyBox := anypkg.New(dt.KeyTraits(), domain.NewDefaultAllocator(domain.RTTI))
		r.Fill(keyBox.InnerAtom())
		if _, exists := dt.Find(atom.Ptr, keyBox.InnerAtom()); exists {
			keyBox.Release()
			continue
		}
		v := dt.AddDefaultCopy(atom.Ptr, keyBox.InnerAtom())
		keyBox.Release()
		if !v.Accept(r) {
			return false
		}
	}
	return true
}

// VisitObject fabricates a fresh instance for a currently-nil object
// reference (bounded by MaxDepth), then recurses into its properties
// via BaseVisitor's default walk; an already-populated reference is
// recursed into as-is without replacing it, so shared references built
// by the caller survive randomization of the rest of the graph.
func (r *Randomizer) VisitObject(atom rtti.Atom) bool {
	obj := ObjectAt(atom)
	if obj != nil {
		return r.BaseVisitor.VisitObject(atom)
	}
	if r.depth >= r.MaxDepth {
		return true
	}
	class, ok := metaobject.LookupClass(atom.Traits.AsObject().ClassName())
	if !ok || class.Has(metaobject.ClassAbstract) {
		return true
	}
	fresh := class.CreateInstance()
	metaobject.SetObjectAt(atom, fresh)

	r.depth++
	defer func() { r.depth-- }()
	return r.BaseVisitor.VisitObject(atom)
}
