package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/cdpgen/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBuild creates a build record with minimal required fields.
func createTestBuild(provenance string, outcome ir.BuildOutcome) ir.BuildRecord {
	return ir.BuildRecord{
		Provenance:       provenance,
		InputDigest:      "input-" + provenance,
		ArtifactDigest:   "artifact-" + provenance,
		ArtifactPath:     "out/protocol.go",
		Domains:          2,
		Commands:         3,
		Events:           1,
		Outcome:          outcome,
		GeneratorVersion: ir.GeneratorVersion,
	}
}
