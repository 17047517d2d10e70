package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/cdpgen/internal/ir"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	// Open multiple times
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM builds").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
	if err := verifyPragma(s.db, "user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	// Try to open in non-existent directory
	path := "/nonexistent/dir/test.db"

	_, err := Open(path)
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	err := s.Close()
	if err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestOpenExisting_MissingLedger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	_, err := OpenExisting(path)
	if !errors.Is(err, ErrNoLedger) {
		t.Fatalf("OpenExisting() error = %v, want ErrNoLedger", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("OpenExisting created a ledger")
	}
}

func TestOpenExisting_Directory(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.Mkdir(path, 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := OpenExisting(path); err == nil || errors.Is(err, ErrNoLedger) {
		t.Errorf("OpenExisting() error = %v, want a non-regular file error", err)
	}
}

func TestOpenExisting_RecordedLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	s.Close()

	s, err = OpenExisting(path)
	if err != nil {
		t.Fatalf("OpenExisting() failed: %v", err)
	}
	s.Close()
}

// Pragma tests

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	for _, p := range pragmas {
		if err := verifyPragma(s.db, p.name, p.want); err != nil {
			t.Error(err)
		}
	}
	if err := verifyPragma(s.db, "journal_mode", "wal"); err == nil {
		t.Error("verifyPragma accepted a mismatched value")
	}
}

func TestLedgerLeavesNoSidecarFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s.WriteBuild(context.Background(), createTestBuild("c1", ir.OutcomeGenerated)); err != nil {
		t.Fatalf("WriteBuild() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 1 || names[0] != FileName {
		t.Errorf("output directory holds %v, want only %s", names, FileName)
	}
}

// Schema tests

func TestSchema_BuildsTable(t *testing.T) {
	s := createTestStore(t)

	columns := getTableColumns(t, s.db, "builds")

	expected := []string{
		"seq", "id", "provenance", "input_digest", "artifact_digest", "artifact_path",
		"domains", "commands", "events", "outcome", "generator_version",
	}

	for _, col := range expected {
		if !contains(columns, col) {
			t.Errorf("builds table missing column %q", col)
		}
	}
}

func TestSchema_BuildsIndexes(t *testing.T) {
	s := createTestStore(t)

	indexes := getTableIndexes(t, s.db, "builds")

	if !contains(indexes, "idx_builds_artifact") {
		t.Error("builds table missing index idx_builds_artifact")
	}
}

func TestConstraint_OutcomeCheck(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`
		INSERT INTO builds (id, provenance, artifact_digest, artifact_path, outcome, generator_version)
		VALUES ('b1', 'c1', 'd1', 'protocol.go', 'rebuilt', '0.1.0')
	`)
	if err == nil {
		t.Error("expected CHECK constraint violation for unknown outcome")
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
