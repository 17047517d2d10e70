package compiler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdpgen/internal/ir"
)

func TestResolveBindsEveryReference(t *testing.T) {
	m, err := compileDocs(t,
		`{"domains": [{"domain": "Network", "types": [{"id": "LoaderId", "type": "string"}]}]}`,
		`{"domains": [{"domain": "Page",
			"types": [
				{"id": "FrameId", "type": "string"},
				{"id": "Frame", "type": "object", "properties": [
					{"name": "id", "$ref": "FrameId"},
					{"name": "loaderId", "$ref": "Network.LoaderId"},
					{"name": "childIds", "type": "array", "items": {"$ref": "FrameId"}}
				]}
			],
			"commands": [{"name": "navigate",
				"parameters": [{"name": "url", "type": "string"}],
				"returns": [{"name": "frameId", "$ref": "FrameId"}, {"name": "loaderId", "$ref": "LoaderId", "optional": true}]
			}],
			"events": [{"name": "frameNavigated", "parameters": [{"name": "frame", "$ref": "Frame"}]}]
		}]}`,
	)
	require.NoError(t, err)

	page, ok := m.Symbols.Domain("Page")
	require.True(t, ok)

	frame := page.Types[1]
	require.NotNil(t, frame.Properties[0].Type.Target)
	assert.Equal(t, "Page.FrameId", frame.Properties[0].Type.Target.QualifiedName())
	assert.Equal(t, "Network.LoaderId", frame.Properties[1].Type.Target.QualifiedName())
	require.NotNil(t, frame.Properties[2].Type.Items.Target)
	assert.Equal(t, "Page.FrameId", frame.Properties[2].Type.Items.Target.QualifiedName())

	nav := page.Commands[0]
	assert.Equal(t, "Page.FrameId", nav.Returns[0].Type.Target.QualifiedName())
	// Unqualified, not in Page, unique elsewhere
	assert.Equal(t, "Network.LoaderId", nav.Returns[1].Type.Target.QualifiedName())

	assert.Equal(t, "Page.Frame", page.Events[0].Parameters[0].Type.Target.QualifiedName())
}

func TestResolveEveryRefHasTarget(t *testing.T) {
	docs := loadDocs(t, `{"domains": [
		{"domain": "A", "types": [
			{"id": "X", "type": "string"},
			{"id": "Xs", "type": "array", "items": {"$ref": "X"}},
			{"id": "Obj", "type": "object", "properties": [
				{"name": "xs", "$ref": "Xs"},
				{"name": "nested", "type": "array", "items": {"type": "array", "items": {"$ref": "B.Y"}}}
			]}
		]},
		{"domain": "B", "types": [{"id": "Y", "type": "object", "properties": [{"name": "x", "$ref": "A.X"}]}]}
	]}`)

	m, err := Compile(docs)
	require.NoError(t, err)

	var walk func(ref *ir.TypeRef)
	walk = func(ref *ir.TypeRef) {
		switch ref.Kind {
		case ir.RefArray:
			walk(ref.Items)
		case ir.RefNamed:
			require.NotNil(t, ref.Target, "dangling reference %s", ref)
			_, ok := m.Symbols.Lookup(ref.Target.Domain, ref.Target.Name)
			assert.True(t, ok)
		}
	}
	for _, d := range m.Domains() {
		for _, td := range d.Types {
			if td.Items != nil {
				walk(td.Items)
			}
			for i := range td.Properties {
				walk(&td.Properties[i].Type)
			}
		}
	}
}

func TestResolvePrefersOwnDomain(t *testing.T) {
	m, err := compileDocs(t, `{"domains": [
		{"domain": "A", "types": [{"id": "Id", "type": "string"}]},
		{"domain": "B", "types": [
			{"id": "Id", "type": "integer"},
			{"id": "Holder", "type": "object", "properties": [{"name": "id", "$ref": "Id"}]}
		]}
	]}`)
	require.NoError(t, err)

	b, _ := m.Symbols.Domain("B")
	assert.Equal(t, "B.Id", b.Types[1].Properties[0].Type.Target.QualifiedName())
}

func TestResolveIsLoadOrderIndependent(t *testing.T) {
	// Page refers forward to a domain loaded after it; Browser is unrelated.
	_, err := compileDocs(t,
		`{"domains": [{"domain": "Page", "types": [{"id": "Holder", "type": "object", "properties": [
			{"name": "target", "$ref": "Target.TargetInfo"}
		]}]}]}`,
		`{"domains": [
			{"domain": "Browser", "commands": [{"name": "getVersion"}]},
			{"domain": "Target", "types": [{"id": "TargetInfo", "type": "object", "properties": [{"name": "targetId", "type": "string"}]}]}
		]}`,
	)
	require.NoError(t, err)
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		reason RefFailure
		site   string
	}{
		{
			name:   "unknown unqualified",
			doc:    `{"domains": [{"domain": "A", "commands": [{"name": "c", "parameters": [{"name": "p", "$ref": "Missing"}]}]}]}`,
			reason: RefNotFound,
			site:   "command A.c parameter p",
		},
		{
			name:   "unknown domain",
			doc:    `{"domains": [{"domain": "A", "types": [{"id": "T", "type": "object", "properties": [{"name": "p", "$ref": "Nope.T"}]}]}]}`,
			reason: RefNotFound,
			site:   "type A.T property p",
		},
		{
			name:   "unknown type in known domain",
			doc:    `{"domains": [{"domain": "A"}, {"domain": "B", "events": [{"name": "e", "parameters": [{"name": "p", "$ref": "A.T"}]}]}]}`,
			reason: RefNotFound,
			site:   "event B.e parameter p",
		},
		{
			name:   "missing array item",
			doc:    `{"domains": [{"domain": "A", "types": [{"id": "L", "type": "array", "items": {"$ref": "Gone"}}]}]}`,
			reason: RefNotFound,
			site:   "type A.L items",
		},
		{
			name: "ambiguous unqualified",
			doc: `{"domains": [
				{"domain": "A", "types": [{"id": "Id", "type": "string"}]},
				{"domain": "B", "types": [{"id": "Id", "type": "string"}]},
				{"domain": "C", "commands": [{"name": "c", "returns": [{"name": "id", "$ref": "Id"}]}]}
			]}`,
			reason: RefAmbiguous,
			site:   "command C.c return id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileDocs(t, tt.doc)
			require.Error(t, err)
			assert.True(t, IsUnresolved(err))

			var re *UnresolvedReferenceError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.reason, re.Reason)
			assert.Equal(t, tt.site, re.Site)
		})
	}
}

func TestResolveAmbiguousListsCandidates(t *testing.T) {
	_, err := compileDocs(t, `{"domains": [
		{"domain": "A", "types": [{"id": "Id", "type": "string"}]},
		{"domain": "B", "types": [{"id": "Id", "type": "string"}]},
		{"domain": "C", "types": [{"id": "Holder", "type": "object", "properties": [{"name": "id", "$ref": "Id"}]}]}
	]}`)

	var re *UnresolvedReferenceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, []string{"A.Id", "B.Id"}, re.Candidates)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestResolveClassifiesIndirection(t *testing.T) {
	m, err := compileDocs(t, `{"domains": [{"domain": "DOM", "types": [
		{"id": "NodeId", "type": "integer"},
		{"id": "Node", "type": "object", "properties": [
			{"name": "nodeId", "$ref": "NodeId"},
			{"name": "children", "type": "array", "optional": true, "items": {"$ref": "Node"}},
			{"name": "contentDocument", "$ref": "Node", "optional": true},
			{"name": "shadow", "$ref": "ShadowRoot", "optional": true}
		]},
		{"id": "ShadowRoot", "type": "object", "properties": [
			{"name": "host", "$ref": "Node"},
			{"name": "id", "$ref": "NodeId"}
		]},
		{"id": "Leaf", "type": "object", "properties": [{"name": "node", "$ref": "Node"}]}
	]}]}`)
	require.NoError(t, err)

	assert.False(t, m.Indirect("DOM.Node", "nodeId"))
	assert.True(t, m.Indirect("DOM.Node", "children"))
	assert.True(t, m.Indirect("DOM.Node", "contentDocument"))
	assert.True(t, m.Indirect("DOM.Node", "shadow"))
	assert.True(t, m.Indirect("DOM.ShadowRoot", "host"))
	assert.False(t, m.Indirect("DOM.ShadowRoot", "id"))
	// Leaf points into the cycle but is not on it
	assert.False(t, m.Indirect("DOM.Leaf", "node"))

	require.Len(t, m.Cycles, 1)
	assert.Equal(t, []EdgeKey{
		{Owner: "DOM.Node", Property: "children"},
		{Owner: "DOM.Node", Property: "contentDocument"},
		{Owner: "DOM.Node", Property: "shadow"},
		{Owner: "DOM.ShadowRoot", Property: "host"},
	}, m.IndirectEdges())
}

func TestResolveArrayTypeCycle(t *testing.T) {
	m, err := compileDocs(t, `{"domains": [{"domain": "A", "types": [
		{"id": "Tree", "type": "array", "items": {"$ref": "Branch"}},
		{"id": "Branch", "type": "object", "properties": [{"name": "sub", "$ref": "Tree"}]}
	]}]}`)
	require.NoError(t, err)

	assert.True(t, m.Indirect("A.Tree", ""))
	assert.True(t, m.Indirect("A.Branch", "sub"))
}
