package format

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messy = "package p\n\ntype T struct {\nA int `json:\"a\"`\nLonger string `json:\"longer\"`\n}\n"

const tidy = "package p\n\ntype T struct {\n\tA      int    `json:\"a\"`\n\tLonger string `json:\"longer\"`\n}\n"

func noGofmt(string) (string, error) {
	return "", exec.ErrNotFound
}

func TestFormatSkip(t *testing.T) {
	f := New("", true)

	strategy, _ := f.Strategy()
	assert.Equal(t, StrategySkip, strategy)

	out, err := f.Format(context.Background(), "p.go", []byte(messy))
	require.NoError(t, err)
	assert.Equal(t, messy, string(out))
}

func TestFormatInProcessFallback(t *testing.T) {
	f := &Formatter{lookPath: noGofmt}

	strategy, _ := f.Strategy()
	assert.Equal(t, StrategyInProcess, strategy)

	out, err := f.Format(context.Background(), "p.go", []byte(messy))
	require.NoError(t, err)
	assert.Equal(t, tidy, string(out))
}

func TestFormatInProcessSyntaxError(t *testing.T) {
	f := &Formatter{lookPath: noGofmt}

	_, err := f.Format(context.Background(), "broken.go", []byte("package p\n\nfunc {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.go")

	var fmtErr *Error
	require.True(t, errors.As(err, &fmtErr))
	assert.Equal(t, StrategyInProcess, fmtErr.Strategy)
}

func TestFormatFindsGofmtInPath(t *testing.T) {
	f := &Formatter{lookPath: func(name string) (string, error) {
		return filepath.Join("/opt/go/bin", name), nil
	}}

	strategy, command := f.Strategy()
	assert.Equal(t, StrategyExec, strategy)
	assert.Equal(t, "/opt/go/bin/gofmt", command)
}

func TestFormatOverride(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}

	f := New(cat, false)
	strategy, command := f.Strategy()
	assert.Equal(t, StrategyExec, strategy)
	assert.Equal(t, cat, command)

	out, err := f.Format(context.Background(), "p.go", []byte(messy))
	require.NoError(t, err)
	assert.Equal(t, messy, string(out))
}

func TestFormatOverrideMissing(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "no-such-formatter"), false)

	_, err := f.Format(context.Background(), "p.go", []byte(messy))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-formatter")
}
