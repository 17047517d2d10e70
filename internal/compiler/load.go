package compiler

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/roach88/cdpgen/internal/ir"
)

//go:embed schema.cue
var schemaCUE string

// Loader parses protocol documents into the ir model.
//
// JSON documents are extracted with CUE's JSON decoder and CUE documents are
// compiled directly; both are validated against the embedded #Document
// schema before the model is built. A Loader is not safe for concurrent use.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader compiles the structural schema and returns a ready Loader.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}
	return &Loader{
		ctx:    ctx,
		schema: v.LookupPath(cue.ParsePath("#Document")),
	}, nil
}

// LoadDocument parses a single document with a fresh Loader.
func LoadDocument(name string, data []byte) (*ir.ProtocolDocument, error) {
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.Load(name, data)
}

// Load parses one raw document. The file extension of name selects the
// input syntax: ".cue" is compiled as CUE, anything else as JSON.
func (l *Loader) Load(name string, data []byte) (*ir.ProtocolDocument, error) {
	v, err := l.build(name, data)
	if err != nil {
		return nil, err
	}

	if err := l.schema.Unify(v).Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(name, err)
	}

	// Extract from the raw value: the unified one also carries the
	// schema's optional fields.
	return parseDocument(name, v)
}

// LoadAll parses every source in order. Load order is preserved in the
// returned slice and is the only ordering the synthesizer relies on.
func (l *Loader) LoadAll(sources []ir.SourceBytes) ([]ir.ProtocolDocument, error) {
	docs := make([]ir.ProtocolDocument, 0, len(sources))
	for _, src := range sources {
		doc, err := l.Load(src.Name, src.Data)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// ReadSources reads the named files in order.
func ReadSources(paths []string) ([]ir.SourceBytes, error) {
	sources := make([]ir.SourceBytes, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading protocol document %s: %w", path, err)
		}
		sources = append(sources, ir.SourceBytes{Name: filepath.Base(path), Data: data})
	}
	return sources, nil
}

// LoadFile reads and parses the document at path.
func LoadFile(path string) (*ir.ProtocolDocument, error) {
	docs, err := LoadFiles([]string{path})
	if err != nil {
		return nil, err
	}
	return &docs[0], nil
}

// LoadFiles reads and parses the documents at paths, preserving their order
// as the load order.
func LoadFiles(paths []string) ([]ir.ProtocolDocument, error) {
	sources, err := ReadSources(paths)
	if err != nil {
		return nil, err
	}
	l, err := NewLoader()
	if err != nil {
		return nil, err
	}
	return l.LoadAll(sources)
}

func (l *Loader) build(name string, data []byte) (cue.Value, error) {
	if filepath.Ext(name) == ".cue" {
		v := l.ctx.CompileBytes(data, cue.Filename(name))
		if err := v.Err(); err != nil {
			return cue.Value{}, formatCUEError(name, err)
		}
		return v, nil
	}

	expr, err := cuejson.Extract(name, data)
	if err != nil {
		return cue.Value{}, formatCUEError(name, err)
	}
	v := l.ctx.BuildExpr(expr)
	if err := v.Err(); err != nil {
		return cue.Value{}, formatCUEError(name, err)
	}
	return v, nil
}

// parser carries the source name so every error can name its document.
type parser struct {
	source string
}

func parseDocument(source string, v cue.Value) (*ir.ProtocolDocument, error) {
	p := parser{source: source}
	doc := &ir.ProtocolDocument{Source: source}

	domainsVal := lookup(v, "domains")
	if !domainsVal.Exists() {
		return nil, p.errorf(v, "domains", "domains is required")
	}

	err := p.each(domainsVal, "domains", func(field string, dv cue.Value) error {
		domain, err := p.parseDomain(field, dv)
		if err != nil {
			return err
		}
		doc.Domains = append(doc.Domains, *domain)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (p parser) parseDomain(field string, v cue.Value) (*ir.Domain, error) {
	name, err := p.requiredString(v, field, "domain")
	if err != nil {
		return nil, err
	}

	d := &ir.Domain{Name: name}
	if d.Description, err = p.optString(v, field, "description"); err != nil {
		return nil, err
	}
	if d.Experimental, err = p.optBool(v, field, "experimental"); err != nil {
		return nil, err
	}
	if d.Deprecated, err = p.optBool(v, field, "deprecated"); err != nil {
		return nil, err
	}
	if d.Dependencies, err = p.stringList(v, field, "dependencies"); err != nil {
		return nil, err
	}

	err = p.each(lookup(v, "types"), field+".types", func(f string, tv cue.Value) error {
		td, err := p.parseType(name, f, tv)
		if err != nil {
			return err
		}
		d.Types = append(d.Types, *td)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.each(lookup(v, "commands"), field+".commands", func(f string, cv cue.Value) error {
		cmd, err := p.parseCommand(f, cv)
		if err != nil {
			return err
		}
		d.Commands = append(d.Commands, *cmd)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.each(lookup(v, "events"), field+".events", func(f string, ev cue.Value) error {
		evt, err := p.parseEvent(f, ev)
		if err != nil {
			return err
		}
		d.Events = append(d.Events, *evt)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return d, nil
}

// parseType decides the TypeDef shape from its discriminant keys.
// enum wins over type; a bare "object" without properties is an opaque alias.
func (p parser) parseType(domain, field string, v cue.Value) (*ir.TypeDef, error) {
	id, err := p.requiredString(v, field, "id")
	if err != nil {
		return nil, err
	}
	field = field + "(" + id + ")"

	td := &ir.TypeDef{Domain: domain, Name: id}
	if td.Description, err = p.optString(v, field, "description"); err != nil {
		return nil, err
	}
	if td.Experimental, err = p.optBool(v, field, "experimental"); err != nil {
		return nil, err
	}
	if td.Deprecated, err = p.optBool(v, field, "deprecated"); err != nil {
		return nil, err
	}

	typ, err := p.optString(v, field, "type")
	if err != nil {
		return nil, err
	}
	hasProps := lookup(v, "properties").Exists()
	hasItems := lookup(v, "items").Exists()

	switch {
	case lookup(v, "enum").Exists():
		if typ != "" && typ != "string" {
			return nil, &UnsupportedTypeShapeError{Source: p.source, Field: field + ".enum", Shape: typ + " enum", Pos: v.Pos()}
		}
		td.Kind = ir.KindEnum
		if td.Enum, err = p.stringList(v, field, "enum"); err != nil {
			return nil, err
		}
		if len(td.Enum) == 0 {
			return nil, p.errorf(v, field+".enum", "enum must declare at least one literal")
		}

	case typ == "array" || (typ == "" && hasItems):
		if !hasItems {
			return nil, p.errorf(v, field+".items", "array type requires items")
		}
		items, err := p.parseTypeRef(field+".items", lookup(v, "items"))
		if err != nil {
			return nil, err
		}
		td.Kind = ir.KindArray
		td.Items = items

	case (typ == "object" || typ == "") && hasProps:
		td.Kind = ir.KindObject
		err := p.each(lookup(v, "properties"), field+".properties", func(f string, pv cue.Value) error {
			prop, err := p.parseProperty(f, pv)
			if err != nil {
				return err
			}
			td.Properties = append(td.Properties, *prop)
			return nil
		})
		if err != nil {
			return nil, err
		}

	case typ == "":
		return nil, p.errorf(v, field, "type must declare one of type, enum, items or properties")

	default:
		prim, ok := ir.ValidPrimitives[typ]
		if !ok {
			return nil, &UnsupportedTypeShapeError{Source: p.source, Field: field + ".type", Shape: typ, Pos: v.Pos()}
		}
		td.Kind = ir.KindAlias
		td.Primitive = prim
	}

	return td, nil
}

func (p parser) parseProperty(field string, v cue.Value) (*ir.Property, error) {
	name, err := p.requiredString(v, field, "name")
	if err != nil {
		return nil, err
	}
	field = field + "(" + name + ")"

	prop := &ir.Property{Name: name}
	if prop.Optional, err = p.optBool(v, field, "optional"); err != nil {
		return nil, err
	}
	if prop.Description, err = p.optString(v, field, "description"); err != nil {
		return nil, err
	}
	if prop.Experimental, err = p.optBool(v, field, "experimental"); err != nil {
		return nil, err
	}
	if prop.Deprecated, err = p.optBool(v, field, "deprecated"); err != nil {
		return nil, err
	}
	if prop.Enum, err = p.stringList(v, field, "enum"); err != nil {
		return nil, err
	}

	ref, err := p.parseTypeRef(field, v)
	if err != nil {
		return nil, err
	}
	prop.Type = *ref
	return prop, nil
}

// parseTypeRef reads the {$ref | type, items?} shape shared by properties
// and array items.
func (p parser) parseTypeRef(field string, v cue.Value) (*ir.TypeRef, error) {
	ref, err := p.optString(v, field, "$ref")
	if err != nil {
		return nil, err
	}
	if ref != "" {
		domain, name, _ := ir.SplitQualified(ref)
		return &ir.TypeRef{Kind: ir.RefNamed, Domain: domain, Name: name}, nil
	}

	typ, err := p.optString(v, field, "type")
	if err != nil {
		return nil, err
	}
	switch typ {
	case "":
		return nil, p.errorf(v, field, "must declare either type or $ref")
	case "array":
		itemsVal := lookup(v, "items")
		if !itemsVal.Exists() {
			return nil, p.errorf(v, field+".items", "array requires items")
		}
		items, err := p.parseTypeRef(field+".items", itemsVal)
		if err != nil {
			return nil, err
		}
		return &ir.TypeRef{Kind: ir.RefArray, Items: items}, nil
	default:
		prim, ok := ir.ValidPrimitives[typ]
		if !ok {
			return nil, &UnsupportedTypeShapeError{Source: p.source, Field: field + ".type", Shape: typ, Pos: v.Pos()}
		}
		return &ir.TypeRef{Kind: ir.RefPrimitive, Primitive: prim}, nil
	}
}

func (p parser) parseCommand(field string, v cue.Value) (*ir.CommandDef, error) {
	name, err := p.requiredString(v, field, "name")
	if err != nil {
		return nil, err
	}
	field = field + "(" + name + ")"

	cmd := &ir.CommandDef{Name: name}
	if cmd.Description, err = p.optString(v, field, "description"); err != nil {
		return nil, err
	}
	if cmd.Redirect, err = p.optString(v, field, "redirect"); err != nil {
		return nil, err
	}
	if cmd.Experimental, err = p.optBool(v, field, "experimental"); err != nil {
		return nil, err
	}
	if cmd.Deprecated, err = p.optBool(v, field, "deprecated"); err != nil {
		return nil, err
	}
	if cmd.Parameters, err = p.properties(v, field, "parameters"); err != nil {
		return nil, err
	}
	if cmd.Returns, err = p.properties(v, field, "returns"); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (p parser) parseEvent(field string, v cue.Value) (*ir.EventDef, error) {
	name, err := p.requiredString(v, field, "name")
	if err != nil {
		return nil, err
	}
	field = field + "(" + name + ")"

	evt := &ir.EventDef{Name: name}
	if evt.Description, err = p.optString(v, field, "description"); err != nil {
		return nil, err
	}
	if evt.Experimental, err = p.optBool(v, field, "experimental"); err != nil {
		return nil, err
	}
	if evt.Deprecated, err = p.optBool(v, field, "deprecated"); err != nil {
		return nil, err
	}
	if evt.Parameters, err = p.properties(v, field, "parameters"); err != nil {
		return nil, err
	}
	return evt, nil
}

func (p parser) properties(v cue.Value, field, name string) ([]ir.Property, error) {
	var props []ir.Property
	err := p.each(lookup(v, name), field+"."+name, func(f string, pv cue.Value) error {
		prop, err := p.parseProperty(f, pv)
		if err != nil {
			return err
		}
		props = append(props, *prop)
		return nil
	})
	return props, err
}

// each calls fn for every element of the list v. A missing v is an empty list.
func (p parser) each(v cue.Value, field string, fn func(field string, elem cue.Value) error) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.List()
	if err != nil {
		return formatCUEError(p.source, err)
	}
	for i := 0; iter.Next(); i++ {
		if err := fn(fmt.Sprintf("%s[%d]", field, i), iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func (p parser) requiredString(v cue.Value, field, name string) (string, error) {
	s, err := p.optString(v, field, name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", p.errorf(v, field+"."+name, name+" is required")
	}
	return s, nil
}

func (p parser) optString(v cue.Value, field, name string) (string, error) {
	fv := lookup(v, name)
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(p.source, err)
	}
	return s, nil
}

func (p parser) optBool(v cue.Value, field, name string) (bool, error) {
	fv := lookup(v, name)
	if !fv.Exists() {
		return false, nil
	}
	b, err := fv.Bool()
	if err != nil {
		return false, formatCUEError(p.source, err)
	}
	return b, nil
}

func (p parser) stringList(v cue.Value, field, name string) ([]string, error) {
	var out []string
	err := p.each(lookup(v, name), field+"."+name, func(_ string, ev cue.Value) error {
		s, err := ev.String()
		if err != nil {
			return formatCUEError(p.source, err)
		}
		out = append(out, s)
		return nil
	})
	return out, err
}

func (p parser) errorf(v cue.Value, field, msg string) *SchemaParseError {
	return &SchemaParseError{Source: p.source, Field: field, Message: msg, Pos: v.Pos()}
}

func lookup(v cue.Value, name string) cue.Value {
	return v.LookupPath(cue.MakePath(cue.Str(name)))
}
