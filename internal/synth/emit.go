package synth

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/cdpgen/internal/ir"
)

func (g *generator) header() {
	g.printf("// Code generated by %s from ChromeDevTools/devtools-protocol at commit %s. DO NOT EDIT.\n\n", ir.GeneratorName, g.opts.Commit)
	g.printf("package %s\n\n", g.opts.Package)
	g.line("import (")
	g.line("\t\"encoding/json\"")
	g.line("\t\"fmt\"")
	g.line(")")
	g.line("")
}

const sharedPrelude = `// JsFloat is the protocol number type.
type JsFloat = float64

// JsInt is the protocol integer type.
type JsInt = int32

// CallID identifies one method call on a connection.
type CallID = uint32

// WindowID identifies a browser window.
type WindowID = JsInt

// Empty is the result of commands that return nothing.
type Empty struct{}

// MethodCall is the wire envelope of a command request.
type MethodCall[T any] struct {
	Method string ` + "`json:\"method\"`" + `
	ID     CallID ` + "`json:\"id\"`" + `
	Params T      ` + "`json:\"params\"`" + `
}

// Command is implemented by the parameter type of every command.
type Command interface {
	MethodName() string
}

// Method binds a command parameter type to its result type R.
type Method[R any] interface {
	Command
	ReturnObject() R
}

// NewMethodCall wraps params in a request envelope tagged with its method name.
func NewMethodCall[T Command](params T, id CallID) MethodCall[T] {
	return MethodCall[T]{Method: params.MethodName(), ID: id, Params: params}
}

// UnmarshalReturns decodes the result of m from data.
func UnmarshalReturns[R any](m Method[R], data []byte) (R, error) {
	r := m.ReturnObject()
	if err := json.Unmarshal(data, &r); err != nil {
		return r, err
	}
	return r, nil
}

// Event is the closed set of protocol notifications.
type Event interface {
	EventName() string
	isEvent()
}

// EventMessage is the wire envelope of a notification.
type EventMessage struct {
	Method string          ` + "`json:\"method\"`" + `
	Params json.RawMessage ` + "`json:\"params,omitempty\"`" + `
}

// UnmarshalEvent decodes a notification envelope.
func UnmarshalEvent(data []byte) (Event, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return DecodeEvent(msg.Method, msg.Params)
}

// MarshalEvent encodes ev in a notification envelope.
func MarshalEvent(ev Event) ([]byte, error) {
	params, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventMessage{Method: ev.EventName(), Params: params})
}

func decodeEvent[T Event](params json.RawMessage) (Event, error) {
	var ev T
	if len(params) != 0 {
		if err := json.Unmarshal(params, &ev); err != nil {
			return nil, err
		}
	}
	return ev, nil
}

// UnknownEnumVariantError reports a string that is not a literal of an enum.
type UnknownEnumVariantError struct {
	Enum  string
	Value string
}

func (e *UnknownEnumVariantError) Error() string {
	return fmt.Sprintf("unknown variant %q of enum %s", e.Value, e.Enum)
}

// UnrecognizedEventError reports a notification tag that no domain declares.
type UnrecognizedEventError struct {
	Method string
}

func (e *UnrecognizedEventError) Error() string {
	return fmt.Sprintf("unrecognized event %q", e.Method)
}
`

// shared writes the definitions every domain depends on, including the
// event sum type dispatch assembled from all domains in load order.
func (g *generator) shared() {
	g.buf.WriteString(sharedPrelude)
	g.line("")

	g.line("// DecodeEvent decodes params as the event tagged method.")
	g.line("func DecodeEvent(method string, params json.RawMessage) (Event, error) {")
	g.line("\tswitch method {")
	for _, ep := range g.eventOrder {
		g.printf("\tcase %s:\n", ep.constID)
		g.printf("\t\treturn decodeEvent[%s](params)\n", ep.typ)
	}
	g.line("\tdefault:")
	g.line("\t\treturn nil, &UnrecognizedEventError{Method: method}")
	g.line("\t}")
	g.line("}")
	g.line("")

	g.line("// EventNames lists every event tag in load order.")
	if len(g.eventOrder) == 0 {
		g.line("var EventNames = []string{}")
	} else {
		g.line("var EventNames = []string{")
		for _, ep := range g.eventOrder {
			g.printf("\t%s,\n", ep.constID)
		}
		g.line("}")
	}
	g.line("")

	var redirects []*commandPlan
	for _, cp := range g.commandOrder {
		if cp.def.Redirect != "" {
			redirects = append(redirects, cp)
		}
	}
	g.line("// CommandRedirects maps command tags to the domain that implements them.")
	if len(redirects) == 0 {
		g.line("var CommandRedirects = map[string]string{}")
	} else {
		g.line("var CommandRedirects = map[string]string{")
		for _, cp := range redirects {
			g.printf("\t%s: %s,\n", cp.constID, quote(cp.def.Redirect))
		}
		g.line("}")
	}
}

func (g *generator) domain(d *ir.Domain) {
	g.line("")
	g.doc(fmt.Sprintf("Domain %s.", d.Name), d.Description, flagNotes(d.Name, d.Experimental, d.Deprecated)...)

	for i := range d.Types {
		g.typeDef(&d.Types[i])
	}
	for i := range d.Commands {
		g.command(g.commands[&d.Commands[i]])
	}
	for i := range d.Events {
		g.event(g.events[&d.Events[i]])
	}
}

func (g *generator) typeDef(td *ir.TypeDef) {
	qn := td.QualifiedName()
	ident := g.typeNames[qn]
	notes := flagNotes(qn, td.Experimental, td.Deprecated)

	g.line("")
	switch td.Kind {
	case ir.KindAlias:
		g.doc(fmt.Sprintf("%s is the %s type.", ident, quote(qn)), td.Description, notes...)
		if td.Primitive == ir.PrimAny {
			g.printf("type %s = %s\n", ident, primitiveType(td.Primitive))
		} else {
			g.printf("type %s %s\n", ident, primitiveType(td.Primitive))
		}

	case ir.KindArray:
		g.doc(fmt.Sprintf("%s is the %s type.", ident, quote(qn)), td.Description, notes...)
		g.printf("type %s []%s\n", ident, g.typeExpr(td.Items))

	case ir.KindEnum:
		g.enum(td, ident, notes)

	case ir.KindObject:
		g.doc(fmt.Sprintf("%s is the %s type.", ident, quote(qn)), td.Description, notes...)
		fields, _ := g.fields(qn, td.Properties, nil)
		g.structBody(ident, fields)
	}
}

func (g *generator) enum(td *ir.TypeDef, ident string, notes []string) {
	qn := td.QualifiedName()

	g.doc(fmt.Sprintf("%s is the %s enum.", ident, quote(qn)), td.Description, notes...)
	g.printf("type %s string\n\n", ident)

	g.printf("// %s values.\n", ident)
	g.line("const (")
	for _, lit := range td.Enum {
		g.printf("\t%s %s = %s\n", ident+g.names.export(lit), ident, quote(lit))
	}
	g.line(")")
	g.line("")

	g.printf("// Values returns every literal of %s in schema order.\n", ident)
	g.printf("func (%s) Values() []%s {\n", ident, ident)
	g.printf("\treturn []%s{\n", ident)
	for _, lit := range td.Enum {
		g.printf("\t\t%s,\n", ident+g.names.export(lit))
	}
	g.line("\t}")
	g.line("}")
	g.line("")

	g.line("// Valid reports whether e is a declared literal.")
	g.printf("func (e %s) Valid() bool {\n", ident)
	g.line("\tfor _, v := range e.Values() {")
	g.line("\t\tif e == v {")
	g.line("\t\t\treturn true")
	g.line("\t\t}")
	g.line("\t}")
	g.line("\treturn false")
	g.line("}")
	g.line("")

	g.line("// UnmarshalJSON rejects strings that are not a declared literal.")
	g.printf("func (e *%s) UnmarshalJSON(data []byte) error {\n", ident)
	g.line("\tvar s string")
	g.line("\tif err := json.Unmarshal(data, &s); err != nil {")
	g.line("\t\treturn err")
	g.line("\t}")
	g.printf("\tv := %s(s)\n", ident)
	g.line("\tif !v.Valid() {")
	g.printf("\t\treturn &UnknownEnumVariantError{Enum: %s, Value: s}\n", quote(qn))
	g.line("\t}")
	g.line("\t*e = v")
	g.line("\treturn nil")
	g.line("}")
	g.line("")

	g.line("// MarshalJSON rejects values that are not a declared literal.")
	g.printf("func (e %s) MarshalJSON() ([]byte, error) {\n", ident)
	g.line("\tif !e.Valid() {")
	g.printf("\t\treturn nil, &UnknownEnumVariantError{Enum: %s, Value: string(e)}\n", quote(qn))
	g.line("\t}")
	g.line("\treturn json.Marshal(string(e))")
	g.line("}")
}

func (g *generator) structBody(ident string, fields []field) {
	if len(fields) == 0 {
		g.printf("type %s struct{}\n", ident)
		return
	}
	g.printf("type %s struct {\n", ident)
	for _, f := range fields {
		if desc := f.prop.Description; desc != "" || f.prop.Deprecated || f.prop.Experimental {
			g.fieldDoc(f)
		}
		g.printf("\t%s %s `json:%s`\n", f.name, f.typ, quote(f.tag))
	}
	g.line("}")
}

func (g *generator) fieldDoc(f field) {
	lines := splitLines(f.prop.Description)
	if f.prop.Experimental {
		lines = append(lines, "Experimental.")
	}
	if f.prop.Deprecated {
		lines = append(lines, "Deprecated.")
	}
	for _, l := range lines {
		if l == "" {
			g.line("\t//")
			continue
		}
		g.line("\t// " + l)
	}
}

func (g *generator) command(cp *commandPlan) {
	cmd := cp.def
	notes := flagNotes(cp.tag, cmd.Experimental, cmd.Deprecated)
	if cmd.Redirect != "" {
		notes = append(notes, fmt.Sprintf("Redirect: implemented by the %s domain.", cmd.Redirect))
	}

	g.line("")
	g.printf("// %s is the dispatch tag of %s.\n", cp.constID, cp.params)
	g.printf("const %s = %s\n", cp.constID, quote(cp.tag))

	g.line("")
	g.doc(fmt.Sprintf("%s holds the parameters of %s.", cp.params, quote(cp.tag)), cmd.Description, notes...)
	params, _ := g.fields(cp.tag, cmd.Parameters, []string{"MethodName", "ReturnObject"})
	g.structBody(cp.params, params)

	if len(cmd.Returns) > 0 {
		g.line("")
		g.printf("// %s holds the result of %s.\n", cp.returns, quote(cp.tag))
		returns, _ := g.fields(cp.tag+" returns", cmd.Returns, nil)
		g.structBody(cp.returns, returns)
	}

	g.line("")
	g.printf("// MethodName returns %s.\n", cp.constID)
	g.printf("func (%s) MethodName() string {\n", cp.params)
	g.printf("\treturn %s\n", cp.constID)
	g.line("}")

	g.line("")
	g.printf("// ReturnObject returns the zero result of %s.\n", quote(cp.tag))
	g.printf("func (%s) ReturnObject() %s {\n", cp.params, cp.returns)
	g.printf("\treturn %s{}\n", cp.returns)
	g.line("}")
}

func (g *generator) event(ep *eventPlan) {
	evt := ep.def

	g.line("")
	g.printf("// %s is the dispatch tag of %s.\n", ep.constID, ep.typ)
	g.printf("const %s = %s\n", ep.constID, quote(ep.tag))

	g.line("")
	g.doc(fmt.Sprintf("%s is the %s event.", ep.typ, quote(ep.tag)), evt.Description, flagNotes(ep.tag, evt.Experimental, evt.Deprecated)...)
	fields, _ := g.fields(ep.tag, evt.Parameters, []string{"EventName"})
	g.structBody(ep.typ, fields)

	g.line("")
	g.printf("// EventName returns %s.\n", ep.constID)
	g.printf("func (%s) EventName() string {\n", ep.typ)
	g.printf("\treturn %s\n", ep.constID)
	g.line("}")

	g.line("")
	g.printf("func (%s) isEvent() {}\n", ep.typ)
}

// splitLines breaks a schema description into comment lines. Text is
// NFC-normalized so equivalent descriptions emit identical bytes.
func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(norm.NFC.String(strings.TrimSpace(s)), "\n") {
		out = append(out, strings.TrimRight(l, " \t\r"))
	}
	if len(out) == 1 && out[0] == "" {
		return nil
	}
	return out
}
