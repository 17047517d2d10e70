package ir

import "strings"

// ProtocolDocument is one parsed protocol schema file.
type ProtocolDocument struct {
	Source  string   `json:"source"`
	Domains []Domain `json:"domains"`
}

// Domain groups the types, commands and events of one protocol area.
type Domain struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Dependencies []string     `json:"dependencies,omitempty"` // Informational only
	Experimental bool         `json:"experimental,omitempty"`
	Deprecated   bool         `json:"deprecated,omitempty"`
	Types        []TypeDef    `json:"types"`
	Commands     []CommandDef `json:"commands"`
	Events       []EventDef   `json:"events"`
}

// TypeKind discriminates the shape of a TypeDef.
type TypeKind string

const (
	KindAlias  TypeKind = "alias"
	KindEnum   TypeKind = "enum"
	KindArray  TypeKind = "array"
	KindObject TypeKind = "object"
)

// TypeDef is a named type declared by a domain.
type TypeDef struct {
	Domain       string     `json:"domain"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Kind         TypeKind   `json:"kind"`
	Primitive    Primitive  `json:"primitive,omitempty"`  // KindAlias
	Enum         []string   `json:"enum,omitempty"`       // KindEnum
	Items        *TypeRef   `json:"items,omitempty"`      // KindArray
	Properties   []Property `json:"properties,omitempty"` // KindObject
	Experimental bool       `json:"experimental,omitempty"`
	Deprecated   bool       `json:"deprecated,omitempty"`
}

// QualifiedName returns "Domain.Name".
func (t *TypeDef) QualifiedName() string {
	return Qualify(t.Domain, t.Name)
}

// Property is a named, typed member of an object, command or event.
type Property struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Type         TypeRef  `json:"type"`
	Optional     bool     `json:"optional,omitempty"`
	Enum         []string `json:"enum,omitempty"` // Inline literals, documentation only
	Experimental bool     `json:"experimental,omitempty"`
	Deprecated   bool     `json:"deprecated,omitempty"`
}

// Primitive is a built-in scalar kind of the protocol.
type Primitive string

const (
	PrimString  Primitive = "string"
	PrimInteger Primitive = "integer"
	PrimNumber  Primitive = "number"
	PrimBoolean Primitive = "boolean"
	PrimAny     Primitive = "any"
	PrimBinary  Primitive = "binary"
)

// ValidPrimitives maps descriptor type names to primitives.
// "object" without properties is carried as PrimAny.
var ValidPrimitives = map[string]Primitive{
	"string":  PrimString,
	"integer": PrimInteger,
	"number":  PrimNumber,
	"boolean": PrimBoolean,
	"any":     PrimAny,
	"object":  PrimAny,
	"binary":  PrimBinary,
}

// RefKind discriminates a TypeRef.
type RefKind string

const (
	RefPrimitive RefKind = "primitive"
	RefNamed     RefKind = "ref"
	RefArray     RefKind = "array"
)

// TypeRef points at a primitive, a named type or an array of either.
//
// Target is nil until the resolver has run.
type TypeRef struct {
	Kind      RefKind   `json:"kind"`
	Primitive Primitive `json:"primitive,omitempty"`
	Domain    string    `json:"domain,omitempty"` // Empty for unqualified refs
	Name      string    `json:"name,omitempty"`
	Items     *TypeRef  `json:"items,omitempty"`
	Target    *TypeDef  `json:"-"`
}

// String renders the reference the way it appears in the schema.
func (r TypeRef) String() string {
	switch r.Kind {
	case RefPrimitive:
		return string(r.Primitive)
	case RefArray:
		if r.Items == nil {
			return "array"
		}
		return "array<" + r.Items.String() + ">"
	default:
		if r.Domain != "" {
			return Qualify(r.Domain, r.Name)
		}
		return r.Name
	}
}

// CommandDef is a request/response method of a domain.
type CommandDef struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Parameters   []Property `json:"parameters,omitempty"`
	Returns      []Property `json:"returns,omitempty"`
	Redirect     string     `json:"redirect,omitempty"` // Domain that actually implements the command
	Experimental bool       `json:"experimental,omitempty"`
	Deprecated   bool       `json:"deprecated,omitempty"`
}

// EventDef is a notification a domain can emit.
type EventDef struct {
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Parameters   []Property `json:"parameters,omitempty"`
	Experimental bool       `json:"experimental,omitempty"`
	Deprecated   bool       `json:"deprecated,omitempty"`
}

// Qualify joins a domain and a member name into a dispatch tag.
func Qualify(domain, name string) string {
	return domain + "." + name
}

// SplitQualified splits "Domain.name". ok is false for unqualified names.
func SplitQualified(s string) (domain, name string, ok bool) {
	i := strings.IndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", s, false
	}
	return s[:i], s[i+1:], true
}
