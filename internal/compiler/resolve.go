package compiler

import (
	"fmt"

	"github.com/roach88/cdpgen/internal/ir"
)

// EdgeKey identifies one outgoing reference edge of a type: the owning
// type's qualified name and the property carrying the reference. Array
// type definitions use an empty Property for their items edge.
type EdgeKey struct {
	Owner    string
	Property string
}

// Model is the fully resolved compilation input.
type Model struct {
	Symbols  *SymbolTable
	Cycles   []Cycle
	indirect map[EdgeKey]bool
}

// Domains returns all domains in load order.
func (m *Model) Domains() []*ir.Domain {
	return m.Symbols.Domains()
}

// Indirect reports whether the reference from owner's property lies on a
// cycle of the type reference graph and needs heap indirection.
func (m *Model) Indirect(owner, property string) bool {
	return m.indirect[EdgeKey{Owner: owner, Property: property}]
}

// IndirectEdges returns every indirection edge in load order.
func (m *Model) IndirectEdges() []EdgeKey {
	var edges []EdgeKey
	for _, d := range m.Domains() {
		for _, td := range d.Types {
			qn := td.QualifiedName()
			if td.Kind == ir.KindArray && m.Indirect(qn, "") {
				edges = append(edges, EdgeKey{Owner: qn})
			}
			for _, p := range td.Properties {
				if m.Indirect(qn, p.Name) {
					edges = append(edges, EdgeKey{Owner: qn, Property: p.Name})
				}
			}
		}
	}
	return edges
}

// Compile builds the symbol table for docs and resolves it.
func Compile(docs []ir.ProtocolDocument) (*Model, error) {
	st, err := BuildSymbols(docs)
	if err != nil {
		return nil, err
	}
	return Resolve(st)
}

// Resolve binds every TypeRef in every domain to its TypeDef and classifies
// the reference edges that lie on cycles.
//
// Unqualified references look in the referencing domain first, then in all
// domains; a name found in more than one foreign domain is an error rather
// than a guess. Domain dependency declarations play no part: every lookup
// goes through the complete symbol table, so load order does not matter.
func Resolve(st *SymbolTable) (*Model, error) {
	r := &resolver{st: st}
	graph := newTypeGraph()

	for _, d := range st.Domains() {
		for i := range d.Types {
			td := &d.Types[i]
			qn := td.QualifiedName()
			graph.addNode(qn)

			switch td.Kind {
			case ir.KindArray:
				if err := r.bind(d.Name, fmt.Sprintf("type %s items", qn), td.Items); err != nil {
					return nil, err
				}
				for _, target := range namedTargets(td.Items) {
					graph.addEdge(qn, target)
				}
			case ir.KindObject:
				for j := range td.Properties {
					prop := &td.Properties[j]
					if err := r.bind(d.Name, fmt.Sprintf("type %s property %s", qn, prop.Name), &prop.Type); err != nil {
						return nil, err
					}
					for _, target := range namedTargets(&prop.Type) {
						graph.addEdge(qn, target)
					}
				}
			}
		}

		for i := range d.Commands {
			cmd := &d.Commands[i]
			tag := ir.Qualify(d.Name, cmd.Name)
			if err := r.bindAll(d.Name, "command "+tag+" parameter", cmd.Parameters); err != nil {
				return nil, err
			}
			if err := r.bindAll(d.Name, "command "+tag+" return", cmd.Returns); err != nil {
				return nil, err
			}
		}

		for i := range d.Events {
			evt := &d.Events[i]
			if err := r.bindAll(d.Name, "event "+ir.Qualify(d.Name, evt.Name)+" parameter", evt.Parameters); err != nil {
				return nil, err
			}
		}
	}

	comps, cycles := analyzeCycles(graph)
	m := &Model{
		Symbols:  st,
		Cycles:   cycles,
		indirect: make(map[EdgeKey]bool),
	}
	for _, d := range st.Domains() {
		for _, td := range d.Types {
			qn := td.QualifiedName()
			if td.Kind == ir.KindArray {
				m.classify(comps, EdgeKey{Owner: qn}, td.Items)
			}
			for _, prop := range td.Properties {
				m.classify(comps, EdgeKey{Owner: qn, Property: prop.Name}, &prop.Type)
			}
		}
	}

	return m, nil
}

func (m *Model) classify(comps components, key EdgeKey, ref *ir.TypeRef) {
	for _, target := range namedTargets(ref) {
		if comps.sameCycle(key.Owner, target) {
			m.indirect[key] = true
			return
		}
	}
}

// namedTargets lists the qualified names a resolved reference points at,
// looking through array items.
func namedTargets(ref *ir.TypeRef) []string {
	for ref != nil && ref.Kind == ir.RefArray {
		ref = ref.Items
	}
	if ref == nil || ref.Target == nil {
		return nil
	}
	return []string{ref.Target.QualifiedName()}
}

type resolver struct {
	st *SymbolTable
}

func (r *resolver) bindAll(domain, site string, props []ir.Property) error {
	for i := range props {
		if err := r.bind(domain, site+" "+props[i].Name, &props[i].Type); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) bind(domain, site string, ref *ir.TypeRef) error {
	switch ref.Kind {
	case ir.RefPrimitive:
		return nil
	case ir.RefArray:
		if ref.Items == nil {
			return &SchemaParseError{Field: site, Message: "array reference without items"}
		}
		return r.bind(domain, site, ref.Items)
	case ir.RefNamed:
		td, err := r.lookup(domain, site, ref)
		if err != nil {
			return err
		}
		ref.Target = td
		return nil
	default:
		return &UnsupportedTypeShapeError{Field: site, Shape: string(ref.Kind)}
	}
}

func (r *resolver) lookup(domain, site string, ref *ir.TypeRef) (*ir.TypeDef, error) {
	notFound := &UnresolvedReferenceError{Site: site, Ref: ref.String(), Reason: RefNotFound}

	if ref.Domain != "" {
		td, ok := r.st.Lookup(ref.Domain, ref.Name)
		if !ok {
			return nil, notFound
		}
		return td, nil
	}

	if td, ok := r.st.Lookup(domain, ref.Name); ok {
		return td, nil
	}

	owners := r.st.Owners(ref.Name)
	switch len(owners) {
	case 0:
		return nil, notFound
	case 1:
		td, _ := r.st.Lookup(owners[0], ref.Name)
		return td, nil
	default:
		candidates := make([]string, len(owners))
		for i, o := range owners {
			candidates[i] = ir.Qualify(o, ref.Name)
		}
		return nil, &UnresolvedReferenceError{
			Site:       site,
			Ref:        ref.String(),
			Reason:     RefAmbiguous,
			Candidates: candidates,
		}
	}
}
