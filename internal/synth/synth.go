package synth

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/roach88/cdpgen/internal/compiler"
	"github.com/roach88/cdpgen/internal/ir"
)

// DefaultPackage is the package clause of generated artifacts.
const DefaultPackage = "protocol"

// Options controls the textual presentation of the artifact.
type Options struct {
	Package string // Package clause, DefaultPackage if empty
	Commit  string // Provenance tag stamped into the header comment
}

// Result is the synthesized artifact and what went into it.
type Result struct {
	Source   []byte
	Domains  int
	Types    int
	Commands int
	Events   int
}

// sharedIdents are the identifiers of the shared section; domain entities
// may not flatten onto them.
var sharedIdents = []string{
	"JsFloat", "JsInt", "CallID", "WindowID", "Empty",
	"MethodCall", "Command", "Method", "NewMethodCall", "UnmarshalReturns",
	"Event", "EventMessage", "UnmarshalEvent", "MarshalEvent", "DecodeEvent", "decodeEvent",
	"EventNames", "CommandRedirects",
	"UnknownEnumVariantError", "UnrecognizedEventError",
}

type commandPlan struct {
	tag     string
	constID string
	params  string
	returns string // "Empty" when the command returns nothing
	domain  *ir.Domain
	def     *ir.CommandDef
}

type eventPlan struct {
	tag     string
	constID string
	typ     string
	domain  *ir.Domain
	def     *ir.EventDef
}

type generator struct {
	model *compiler.Model
	opts  Options
	names *namer
	buf   bytes.Buffer

	typeNames map[string]string // qualified type name -> Go identifier
	commands  map[*ir.CommandDef]*commandPlan
	events    map[*ir.EventDef]*eventPlan

	// Load order, for the shared section.
	commandOrder []*commandPlan
	eventOrder   []*eventPlan
}

// Generate synthesizes the Go artifact for a resolved model.
//
// Domains are emitted in load order, and within a domain types, then
// commands, then events. Every name is planned and checked for collisions
// before the first byte is written, so an error never leaves partial output.
func Generate(m *compiler.Model, opts Options) (*Result, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}

	g := &generator{
		model:     m,
		opts:      opts,
		names:     newNamer(),
		typeNames: make(map[string]string),
		commands:  make(map[*ir.CommandDef]*commandPlan),
		events:    make(map[*ir.EventDef]*eventPlan),
	}
	if err := g.plan(); err != nil {
		return nil, err
	}

	g.header()
	g.shared()
	res := &Result{}
	for _, d := range m.Domains() {
		g.domain(d)
		res.Domains++
		res.Types += len(d.Types)
		res.Commands += len(d.Commands)
		res.Events += len(d.Events)
	}
	res.Source = g.buf.Bytes()
	return res, nil
}

// plan assigns every Go identifier and rejects collisions.
func (g *generator) plan() error {
	for _, ident := range sharedIdents {
		if err := g.names.claim(ident, "shared definitions"); err != nil {
			return err
		}
	}

	eventTags := make(map[string]string)

	for _, d := range g.model.Domains() {
		prefix := g.names.domain(d.Name)

		for i := range d.Types {
			td := &d.Types[i]
			qn := td.QualifiedName()
			ident := prefix + g.names.export(td.Name)
			if err := g.names.claim(ident, "type "+qn); err != nil {
				return err
			}
			g.typeNames[qn] = ident

			switch td.Kind {
			case ir.KindEnum:
				for _, lit := range td.Enum {
					if err := g.names.claim(ident+g.names.export(lit), fmt.Sprintf("enum %s literal %q", qn, lit)); err != nil {
						return err
					}
				}
			case ir.KindObject:
				if _, err := g.fields(qn, td.Properties, nil); err != nil {
					return err
				}
			}
		}

		for i := range d.Commands {
			cmd := &d.Commands[i]
			tag := ir.Qualify(d.Name, cmd.Name)
			base := prefix + g.names.export(cmd.Name)
			cp := &commandPlan{
				tag:     tag,
				constID: "Command" + base,
				params:  base,
				returns: "Empty",
				domain:  d,
				def:     cmd,
			}
			if len(cmd.Returns) > 0 {
				cp.returns = base + "Returns"
				if err := g.names.claim(cp.returns, "command "+tag+" returns"); err != nil {
					return err
				}
			}
			if err := g.names.claim(cp.params, "command "+tag); err != nil {
				return err
			}
			if err := g.names.claim(cp.constID, "command "+tag+" tag"); err != nil {
				return err
			}
			if _, err := g.fields(tag, cmd.Parameters, []string{"MethodName", "ReturnObject"}); err != nil {
				return err
			}
			if _, err := g.fields(tag+" returns", cmd.Returns, nil); err != nil {
				return err
			}
			g.commands[cmd] = cp
			g.commandOrder = append(g.commandOrder, cp)
		}

		for i := range d.Events {
			evt := &d.Events[i]
			tag := ir.Qualify(d.Name, evt.Name)
			// Names may contain dots, so "A.b"+"c" and "A"+"b.c" share a tag
			// even though the symbol table saw distinct domains.
			if prev, dup := eventTags[tag]; dup {
				return &compiler.NameCollisionError{
					Kind:   compiler.CollisionEvent,
					Name:   tag,
					First:  "domain " + prev,
					Second: "domain " + d.Name,
				}
			}
			eventTags[tag] = d.Name

			base := prefix + g.names.export(evt.Name)
			ep := &eventPlan{
				tag:     tag,
				constID: "Event" + base,
				typ:     base + "Event",
				domain:  d,
				def:     evt,
			}
			if err := g.names.claim(ep.typ, "event "+tag); err != nil {
				return err
			}
			if err := g.names.claim(ep.constID, "event "+tag+" tag"); err != nil {
				return err
			}
			if _, err := g.fields(tag, evt.Parameters, []string{"EventName"}); err != nil {
				return err
			}
			g.events[evt] = ep
			g.eventOrder = append(g.eventOrder, ep)
		}
	}

	return nil
}

// field is one planned struct field.
type field struct {
	name string
	typ  string
	tag  string
	prop *ir.Property
}

// fields plans the struct fields for props of owner. reserved are method
// names of the struct; a property exporting to one is renamed, see
// namer.field.
func (g *generator) fields(owner string, props []ir.Property, reserved []string) ([]field, error) {
	seen := make(map[string]string, len(props))

	out := make([]field, 0, len(props))
	for i := range props {
		p := &props[i]
		name := g.names.field(p.Name, reserved)
		if prev, dup := seen[name]; dup {
			return nil, &compiler.NameCollisionError{
				Kind:   compiler.CollisionField,
				Name:   owner + "." + name,
				First:  prev,
				Second: "property " + p.Name,
			}
		}
		seen[name] = "property " + p.Name

		typ := g.typeExpr(&p.Type)
		tag := p.Name
		switch {
		case p.Optional:
			if !nilable(&p.Type) {
				typ = "*" + typ
			}
			tag += ",omitzero"
		case g.model.Indirect(owner, p.Name) && isObject(&p.Type):
			typ = "*" + typ
		}

		out = append(out, field{name: name, typ: typ, tag: tag, prop: p})
	}
	return out, nil
}

// typeExpr renders the Go type of a resolved reference.
func (g *generator) typeExpr(ref *ir.TypeRef) string {
	switch ref.Kind {
	case ir.RefArray:
		return "[]" + g.typeExpr(ref.Items)
	case ir.RefNamed:
		return g.typeNames[ref.Target.QualifiedName()]
	default:
		return primitiveType(ref.Primitive)
	}
}

func primitiveType(p ir.Primitive) string {
	switch p {
	case ir.PrimInteger:
		return "JsInt"
	case ir.PrimNumber:
		return "JsFloat"
	case ir.PrimBoolean:
		return "bool"
	case ir.PrimAny:
		return "json.RawMessage"
	case ir.PrimBinary:
		return "[]byte"
	default:
		return "string"
	}
}

// nilable reports whether the Go type of ref already has a nil value that
// can stand for "not present".
func nilable(ref *ir.TypeRef) bool {
	switch ref.Kind {
	case ir.RefArray:
		return true
	case ir.RefPrimitive:
		return ref.Primitive == ir.PrimAny || ref.Primitive == ir.PrimBinary
	}
	td := ref.Target
	switch td.Kind {
	case ir.KindArray:
		return true
	case ir.KindAlias:
		return td.Primitive == ir.PrimAny || td.Primitive == ir.PrimBinary
	}
	return false
}

// isObject reports whether ref names a struct type directly. Slices are
// already heap-indirect and never need boxing.
func isObject(ref *ir.TypeRef) bool {
	return ref.Kind == ir.RefNamed && ref.Target != nil && ref.Target.Kind == ir.KindObject
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *generator) line(s string) {
	g.buf.WriteString(s)
	g.buf.WriteByte('\n')
}

// doc writes a doc comment: the summary, then the schema description, then
// one paragraph per note.
func (g *generator) doc(summary, description string, notes ...string) {
	g.line("// " + summary)
	if lines := splitLines(description); len(lines) > 0 {
		g.line("//")
		for _, l := range lines {
			if l == "" {
				g.line("//")
				continue
			}
			g.line("// " + l)
		}
	}
	for _, n := range notes {
		if n != "" {
			g.line("//")
			g.line("// " + n)
		}
	}
}

func flagNotes(tag string, experimental, deprecated bool) []string {
	var notes []string
	if experimental {
		notes = append(notes, "Experimental.")
	}
	if deprecated {
		notes = append(notes, fmt.Sprintf("Deprecated: %s is deprecated in the protocol.", tag))
	}
	return notes
}

func quote(s string) string {
	return strconv.Quote(s)
}
