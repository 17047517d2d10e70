package gate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cdpgen/internal/ir"
)

func produceConst(data string, calls *int) ProduceFunc {
	return func(context.Context) ([]byte, error) {
		*calls++
		return []byte(data), nil
	}
}

func TestRunGeneratesIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out", "protocol.go")
	calls := 0

	res, err := New(path).Run(context.Background(), produceConst("package protocol\n", &calls))
	require.NoError(t, err)
	assert.Equal(t, ir.OutcomeGenerated, res.Outcome)
	assert.Equal(t, 1, calls)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package protocol\n", string(data))
}

func TestRunTreatsEmptyFileAsUnpopulated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.go")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	calls := 0

	res, err := New(path).Run(context.Background(), produceConst("package protocol\n", &calls))
	require.NoError(t, err)
	assert.Equal(t, ir.OutcomeGenerated, res.Outcome)
	assert.Equal(t, 1, calls)
}

func TestRunSkipsPopulatedPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.go")
	calls := 0
	g := New(path)

	_, err := g.Run(context.Background(), produceConst("first\n", &calls))
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// Inputs changed; the populated location still wins
	res, err := g.Run(context.Background(), produceConst("second\n", &calls))
	require.NoError(t, err)
	assert.Equal(t, ir.OutcomeSkipped, res.Outcome)
	assert.Equal(t, "first\n", string(res.Artifact))
	assert.Equal(t, 1, calls)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRunProduceFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.go")
	boom := errors.New("boom")

	_, err := New(path).Run(context.Background(), func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRunCancelledBeforeWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "protocol.go")
	ctx, cancel := context.WithCancel(context.Background())

	_, err := New(path).Run(ctx, func(context.Context) ([]byte, error) {
		cancel()
		return []byte("package protocol\n"), nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestPopulatedRejectsDirectory(t *testing.T) {
	_, err := New(t.TempDir()).Populated()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory")
}

func TestRunBlockedPathFailsBeforeProduce(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the output directory should be
	blocker := filepath.Join(dir, "out")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	calls := 0

	_, err := New(filepath.Join(blocker, "protocol.go")).Run(context.Background(), produceConst("package protocol\n", &calls))
	require.Error(t, err)
	assert.Equal(t, 0, calls)
}

func TestWriteErrorUnwraps(t *testing.T) {
	err := &WriteError{Path: "out/protocol.go", Err: os.ErrPermission}
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "out/protocol.go")
}
