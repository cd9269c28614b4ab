package visitor

import (
	"fmt"
	"strings"

	"github.com/metacore/reflect/pkg/metaobject"
	"github.com/metacore/reflect/pkg/rtti"
	"github.com/metacore/reflect/pkg/rtti/traits"
)

// PrettyPrinter renders an Atom as indented text, the direct successor
// of the original engine's Archive.h/Format.cpp visitor-driven textual
// dump — narrowed to the textual half only; the binary wire format it
// also produced is out of scope (spec §1 excludes schema evolution and
// wire formats beyond this core). pkg/rttiapi's server uses it to
// render property values that have no native Struct form.
type PrettyPrinter struct {
	BaseVisitor
	out    strings.Builder
	indent int
}

// NewPrettyPrinter returns a printer ready to render one or more atoms
// into its internal buffer.
func NewPrettyPrinter() *PrettyPrinter {
	p := &PrettyPrinter{}
	p.Self = p
	return p
}

// String returns everything rendered so far.
func (p *PrettyPrinter) String() string { return p.out.String() }

// Print renders atom and returns the resulting text.
func Print(atom rtti.Atom) string {
	p := NewPrettyPrinter()
	atom.Accept(p)
	return p.String()
}

func (p *PrettyPrinter) writeIndent() {
	p.out.WriteString(strings.Repeat("  ", p.indent))
}

func (p *PrettyPrinter) VisitScalar(atom rtti.Atom) bool {
	p.out.WriteString(scalarText(atom))
	return true
}

func scalarText(atom rtti.Atom) string {
	switch atom.Traits.Infos().Id {
	case traits.Int32.Infos().Id:
		return fmt.Sprintf("%d", *(*int32)(atom.Ptr))
	case traits.Int64.Infos().Id:
		return fmt.Sprintf("%d", *(*int64)(atom.Ptr))
	case traits.Float32.Infos().Id:
		return fmt.Sprintf("%g", *(*float32)(atom.Ptr))
	case traits.Float64.Infos().Id:
		return fmt.Sprintf("%g", *(*float64)(atom.Ptr))
	case traits.Bool.Infos().Id:
		return fmt.Sprintf("%t", *(*bool)(atom.Ptr))
	case traits.String.Infos().Id:
		return fmt.Sprintf("%q", *(*string)(atom.Ptr))
	case traits.PathKind.Infos().Id:
		return fmt.Sprintf("%q", string(*(*traits.Path)(atom.Ptr)))
	case traits.NameKind.Infos().Id:
		return fmt.Sprintf("%q", string(*(*traits.Name)(atom.Ptr)))
	case traits.Bytes.Infos().Id:
		return fmt.Sprintf("<%d bytes>", len(*(*[]byte)(atom.Ptr)))
	default:
		return fmt.Sprintf("<%s>", atom.Traits.Infos().Name)
	}
}

func (p *PrettyPrinter) VisitPair(atom rtti.Atom) bool {
	pt := atom.Traits.AsPair()
	p.out.WriteString("(")
	pt.First(atom.Ptr).Accept(p)
	p.out.WriteString(", ")
	pt.Second(atom.Ptr).Accept(p)
	p.out.WriteString(")")
	return true
}

func (p *PrettyPrinter) VisitList(atom rtti.Atom) bool {
	lt := atom.Traits.AsList()
	if lt.IsEmpty(atom.Ptr) {
		p.out.WriteString("[]")
		return true
	}
	p.out.WriteString("[\n")
	p.indent++
	first := true
	lt.ForEach(atom.Ptr, func(e rtti.Atom) bool {
		if !first {
			p.out.WriteString(",\n")
		}
		first = false
		p.writeIndent()
		e.Accept(p)
		return true
	})
	p.indent--
	p.out.WriteString("\n")
	p.writeIndent()
	p.out.WriteString("]")
	return true
}

func (p *PrettyPrinter) VisitDico(atom rtti.Atom) bool {
	dt := atom.Traits.AsDico()
	if dt.IsEmpty(atom.Ptr) {
		p.out.WriteString("{}")
		return true
	}
	p.out.WriteString("{\n")
	p.indent++
	first := true
	dt.ForEach(atom.Ptr, func(k, v rtti.Atom) bool {
		if !first {
			p.out.WriteString(",\n")
		}
		first = false
		p.writeIndent()
		k.Accept(p)
		p.out.WriteString(": ")
		v.Accept(p)
		return true
	})
	p.indent--
	p.out.WriteString("\n")
	p.writeIndent()
	p.out.WriteString("}")
	return true
}

func (p *PrettyPrinter) VisitObject(atom rtti.Atom) bool {
	obj := ObjectAt(atom)
	if obj == nil {
		p.out.WriteString("null")
		return true
	}
	class := obj.Base().Class()
	p.out.WriteString(class.Name())
	if path := obj.Base().PathName(); path != "" {
		fmt.Fprintf(&p.out, "@%s", path)
	}
	props := class.AllProperties()
	if len(props) == 0 {
		p.out.WriteString(" {}")
		return true
	}
	p.out.WriteString(" {\n")
	p.indent++
	for i, prop := range props {
		if prop.Has(metaobject.PropertyHidden) {
			continue
		}
		p.writeIndent()
		fmt.Fprintf(&p.out, "%s: ", prop.Name())
		prop.Get(obj).Accept(p)
		if i < len(props)-1 {
			p.out.WriteString(",")
		}
		p.out.WriteString("\n")
	}
	p.indent--
	p.writeIndent()
	p.out.WriteString("}")
	return true
}
