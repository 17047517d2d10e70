// Package gate decides whether an artifact has to be generated at all.
//
// An output location that already holds content is taken as proof of an
// earlier successful run and is left alone, whatever the inputs are now.
// Two first-time writers racing on the same empty location are not
// serialized; both may append.
package gate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/cdpgen/internal/ir"
)

// ProduceFunc synthesizes the complete artifact in memory.
type ProduceFunc func(ctx context.Context) ([]byte, error)

// Result is the artifact at the gated path after Run.
type Result struct {
	Outcome  ir.BuildOutcome
	Artifact []byte
}

// WriteError reports a failure to write the artifact.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Gate guards one artifact path.
type Gate struct {
	Path string
}

// New returns a Gate for path.
func New(path string) *Gate {
	return &Gate{Path: path}
}

// Populated reports whether the artifact exists with non-zero size.
func (g *Gate) Populated() (bool, error) {
	info, err := os.Stat(g.Path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", g.Path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("inspecting %s: is a directory", g.Path)
	}
	return info.Size() > 0, nil
}

// Run returns the existing artifact when the path is populated. Otherwise it
// calls produce exactly once and appends the result to the path.
//
// produce runs to completion before the file is opened, so a failing
// produce or a cancelled ctx leaves the path untouched.
func (g *Gate) Run(ctx context.Context, produce ProduceFunc) (*Result, error) {
	populated, err := g.Populated()
	if err != nil {
		return nil, err
	}
	if populated {
		data, err := os.ReadFile(g.Path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", g.Path, err)
		}
		return &Result{Outcome: ir.OutcomeSkipped, Artifact: data}, nil
	}

	data, err := produce(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := g.write(data); err != nil {
		return nil, err
	}
	return &Result{Outcome: ir.OutcomeGenerated, Artifact: data}, nil
}

func (g *Gate) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(g.Path), 0o755); err != nil {
		return &WriteError{Path: g.Path, Err: err}
	}

	f, err := os.OpenFile(g.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return &WriteError{Path: g.Path, Err: err}
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return &WriteError{Path: g.Path, Err: err}
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return &WriteError{Path: g.Path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: g.Path, Err: err}
	}
	return nil
}
