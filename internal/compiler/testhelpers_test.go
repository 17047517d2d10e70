package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cdpgen/internal/ir"
)

// loadDocs parses each JSON document in order, naming them doc0.json, doc1.json, ...
func loadDocs(t *testing.T, raw ...string) []ir.ProtocolDocument {
	t.Helper()

	l, err := NewLoader()
	require.NoError(t, err)

	sources := make([]ir.SourceBytes, len(raw))
	for i, r := range raw {
		sources[i] = ir.SourceBytes{Name: "doc" + string(rune('0'+i)) + ".json", Data: []byte(r)}
	}
	docs, err := l.LoadAll(sources)
	require.NoError(t, err)
	return docs
}

// compileDocs loads and resolves raw JSON documents.
func compileDocs(t *testing.T, raw ...string) (*Model, error) {
	t.Helper()
	return Compile(loadDocs(t, raw...))
}
