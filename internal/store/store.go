package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial schema (pre-migration)
// 1 - Added index on builds(artifact_path, seq)
const currentSchemaVersion = 1

// FileName is the ledger's file name inside an output directory.
const FileName = ".cdpgen.db"

// ErrNoLedger is returned by OpenExisting for an output directory that
// never recorded a build.
var ErrNoLedger = errors.New("no build ledger")

// pragmas are applied on every open and read back before the store is
// returned. The ledger sits next to a checked-in artifact, so it uses a
// rollback journal: no -wal or -shm files outlive a transaction.
var pragmas = []struct {
	name, value, want string
}{
	{"journal_mode", "DELETE", "delete"},
	{"synchronous", "FULL", "2"},
	{"busy_timeout", "5000", "5000"},
}

// Store is the build ledger of one output directory.
type Store struct {
	db *sql.DB
}

// Open opens the ledger at path, creating it on first use. Only builds
// that opt into the ledger call it.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to ledger: %w", err)
	}

	// Builds are sequential; one connection keeps the pragmas in force.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	for _, p := range pragmas {
		if err := verifyPragma(db, p.name, p.want); err != nil {
			db.Close()
			return nil, err
		}
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenExisting opens the ledger at path for reading and appending. It
// never creates one; a missing ledger yields ErrNoLedger.
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoLedger
	}
	if err != nil {
		return nil, fmt.Errorf("inspect ledger: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("ledger %s is not a regular file", path)
	}
	return Open(path)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	for _, p := range pragmas {
		stmt := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// verifyPragma reads a pragma back. journal_mode in particular is not an
// error to set and can silently keep its old value.
func verifyPragma(db *sql.DB, name, want string) error {
	var value string
	if err := db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("read pragma %s: %w", name, err)
	}
	if value != want {
		return fmt.Errorf("ledger pragma %s = %q, want %q", name, value, want)
	}
	return nil
}

// applySchema creates the tables and runs migrations. It is idempotent.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return err
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// migrateToV1 indexes builds by artifact for LatestBuild.
func migrateToV1(db *sql.DB) error {
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_builds_artifact ON builds(artifact_path, seq)`); err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
