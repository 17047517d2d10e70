package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/cdpgen/internal/ir"
)

// NewBuildID returns a time-sortable UUIDv7 build ID.
//
// Panics if UUID generation fails (should never happen in practice).
func NewBuildID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// WriteBuild appends a build record and returns its seq.
// A record without an ID is given a fresh UUIDv7.
func (s *Store) WriteBuild(ctx context.Context, rec ir.BuildRecord) (int64, error) {
	if rec.ID == "" {
		rec.ID = NewBuildID()
	}
	switch rec.Outcome {
	case ir.OutcomeGenerated, ir.OutcomeSkipped:
	default:
		return 0, fmt.Errorf("write build: invalid outcome %q", rec.Outcome)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO builds
		(id, provenance, input_digest, artifact_digest, artifact_path, domains, commands, events, outcome, generator_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.Provenance,
		rec.InputDigest,
		rec.ArtifactDigest,
		rec.ArtifactPath,
		rec.Domains,
		rec.Commands,
		rec.Events,
		string(rec.Outcome),
		rec.GeneratorVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write build: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("write build: last insert id: %w", err)
	}
	return seq, nil
}
