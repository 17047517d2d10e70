package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdpgen/internal/ir"
)

func TestWriteBuildAssignsUUIDv7(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	seq, err := s.WriteBuild(ctx, createTestBuild("c1", ir.OutcomeGenerated))
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	builds, err := s.ReadBuilds(ctx)
	require.NoError(t, err)
	require.Len(t, builds, 1)

	parsed, err := uuid.Parse(builds[0].ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestWriteBuildKeepsExplicitID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := createTestBuild("c1", ir.OutcomeGenerated)
	rec.ID = "build-1"
	_, err := s.WriteBuild(ctx, rec)
	require.NoError(t, err)

	// IDs are unique
	_, err = s.WriteBuild(ctx, rec)
	assert.Error(t, err)
}

func TestWriteBuildRejectsUnknownOutcome(t *testing.T) {
	s := createTestStore(t)

	_, err := s.WriteBuild(context.Background(), createTestBuild("c1", "rebuilt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rebuilt")
}

func TestReadBuildsOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	builds, err := s.ReadBuilds(ctx)
	require.NoError(t, err)
	assert.NotNil(t, builds)
	assert.Empty(t, builds)

	_, err = s.WriteBuild(ctx, createTestBuild("c1", ir.OutcomeGenerated))
	require.NoError(t, err)
	skipped := createTestBuild("c2", ir.OutcomeSkipped)
	skipped.InputDigest = ""
	_, err = s.WriteBuild(ctx, skipped)
	require.NoError(t, err)

	builds, err = s.ReadBuilds(ctx)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	assert.Equal(t, ir.OutcomeGenerated, builds[0].Outcome)
	assert.Equal(t, ir.OutcomeSkipped, builds[1].Outcome)
	assert.Less(t, builds[0].Seq, builds[1].Seq)
	assert.Equal(t, "input-c1", builds[0].InputDigest)
	assert.Empty(t, builds[1].InputDigest)
	assert.Equal(t, 3, builds[0].Commands)
}

func TestLatestBuild(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestBuild(ctx, "out/protocol.go", ir.OutcomeGenerated)
	assert.True(t, errors.Is(err, sql.ErrNoRows))

	for _, rec := range []ir.BuildRecord{
		createTestBuild("c1", ir.OutcomeGenerated),
		createTestBuild("c2", ir.OutcomeGenerated),
		createTestBuild("c3", ir.OutcomeSkipped),
	} {
		_, err := s.WriteBuild(ctx, rec)
		require.NoError(t, err)
	}

	latest, err := s.LatestBuild(ctx, "out/protocol.go", ir.OutcomeGenerated)
	require.NoError(t, err)
	assert.Equal(t, "c2", latest.Provenance)

	_, err = s.LatestBuild(ctx, "elsewhere/protocol.go", ir.OutcomeGenerated)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}
