package compiler

import (
	"github.com/roach88/cdpgen/internal/ir"
)

// SymbolTable is the global lookup of every domain and type of one compilation.
//
// It holds pointers into the documents it was built from; the resolver
// fills TypeRef.Target through them.
type SymbolTable struct {
	domains []*ir.Domain
	byName  map[string]*ir.Domain
	types   map[string]*ir.TypeDef // qualified name -> definition
	owners  map[string][]string    // bare type name -> owning domains in load order
}

// BuildSymbols indexes all domains and types of docs.
//
// Fails with NameCollisionError on a duplicate domain across documents, or a
// duplicate type, command or event name within one domain.
func BuildSymbols(docs []ir.ProtocolDocument) (*SymbolTable, error) {
	st := &SymbolTable{
		byName: make(map[string]*ir.Domain),
		types:  make(map[string]*ir.TypeDef),
		owners: make(map[string][]string),
	}
	domainSource := make(map[string]string)

	for i := range docs {
		doc := &docs[i]
		for j := range doc.Domains {
			d := &doc.Domains[j]
			if prev, ok := domainSource[d.Name]; ok {
				return nil, &NameCollisionError{
					Kind:   CollisionDomain,
					Name:   d.Name,
					First:  prev,
					Second: doc.Source,
				}
			}
			domainSource[d.Name] = doc.Source
			st.domains = append(st.domains, d)
			st.byName[d.Name] = d

			if err := st.addDomain(d); err != nil {
				return nil, err
			}
		}
	}

	return st, nil
}

func (st *SymbolTable) addDomain(d *ir.Domain) error {
	for k := range d.Types {
		td := &d.Types[k]
		qn := td.QualifiedName()
		if _, dup := st.types[qn]; dup {
			return &NameCollisionError{Kind: CollisionType, Name: qn}
		}
		st.types[qn] = td
		st.owners[td.Name] = append(st.owners[td.Name], d.Name)
	}

	commands := make(map[string]bool, len(d.Commands))
	for _, cmd := range d.Commands {
		if commands[cmd.Name] {
			return &NameCollisionError{Kind: CollisionCommand, Name: ir.Qualify(d.Name, cmd.Name)}
		}
		commands[cmd.Name] = true
	}

	events := make(map[string]bool, len(d.Events))
	for _, evt := range d.Events {
		if events[evt.Name] {
			return &NameCollisionError{Kind: CollisionEvent, Name: ir.Qualify(d.Name, evt.Name)}
		}
		events[evt.Name] = true
	}

	return nil
}

// Domains returns all domains in load order.
func (st *SymbolTable) Domains() []*ir.Domain {
	return st.domains
}

// Domain looks up a domain by name.
func (st *SymbolTable) Domain(name string) (*ir.Domain, bool) {
	d, ok := st.byName[name]
	return d, ok
}

// Lookup finds the type named name in domain.
func (st *SymbolTable) Lookup(domain, name string) (*ir.TypeDef, bool) {
	td, ok := st.types[ir.Qualify(domain, name)]
	return td, ok
}

// Owners returns the domains that define a type called name, in load order.
func (st *SymbolTable) Owners(name string) []string {
	return st.owners[name]
}

// Len returns the number of types in the table.
func (st *SymbolTable) Len() int {
	return len(st.types)
}
