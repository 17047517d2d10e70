package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/cdpgen/internal/ir"
)

const buildColumns = `seq, id, provenance, input_digest, artifact_digest, artifact_path,
	domains, commands, events, outcome, generator_version`

// ReadBuilds returns every build record in seq order.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ReadBuilds(ctx context.Context) ([]ir.BuildRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query builds: %w", err)
	}
	defer rows.Close()

	builds := []ir.BuildRecord{}
	for rows.Next() {
		rec, err := scanBuild(rows)
		if err != nil {
			return nil, err
		}
		builds = append(builds, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return builds, nil
}

// LatestBuild returns the most recent record for artifactPath with the given
// outcome. Returns sql.ErrNoRows if there is none.
func (s *Store) LatestBuild(ctx context.Context, artifactPath string, outcome ir.BuildOutcome) (ir.BuildRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+buildColumns+`
		FROM builds
		WHERE artifact_path = ? AND outcome = ?
		ORDER BY seq DESC
		LIMIT 1
	`, artifactPath, string(outcome))

	return scanBuild(row)
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanBuild(row scanner) (ir.BuildRecord, error) {
	var rec ir.BuildRecord
	var outcome string
	err := row.Scan(
		&rec.Seq,
		&rec.ID,
		&rec.Provenance,
		&rec.InputDigest,
		&rec.ArtifactDigest,
		&rec.ArtifactPath,
		&rec.Domains,
		&rec.Commands,
		&rec.Events,
		&outcome,
		&rec.GeneratorVersion,
	)
	if err == sql.ErrNoRows {
		return ir.BuildRecord{}, err
	}
	if err != nil {
		return ir.BuildRecord{}, fmt.Errorf("scan build: %w", err)
	}
	rec.Outcome = ir.BuildOutcome(outcome)
	return rec, nil
}
