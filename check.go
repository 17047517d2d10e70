package cdpgen

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/roach88/cdpgen/internal/gate"
	"github.com/roach88/cdpgen/internal/ir"
	"github.com/roach88/cdpgen/internal/store"
)

// CheckResult reports a dry run against an output location.
type CheckResult struct {
	ArtifactPath string          `json:"artifact_path"`
	InputDigest  string          `json:"input_digest"`
	Domains      int             `json:"domains"`
	Types        int             `json:"types"`
	Commands     int             `json:"commands"`
	Events       int             `json:"events"`
	Populated    bool            `json:"populated"`
	Stale        bool            `json:"stale"`
	LastBuild    *ir.BuildRecord `json:"last_build,omitempty"`
}

// Check compiles opts in memory and compares the result with the output
// location. Nothing is written. Stale is set when the artifact exists and the
// ledger's last generated build used different inputs; a stale artifact is
// still kept by Build.
func Check(ctx context.Context, opts Options) (*CheckResult, error) {
	opts.setDefaults()

	compiled, err := compileFiles(ctx, opts)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{
		ArtifactPath: opts.ArtifactPath(),
		InputDigest:  compiled.InputDigest,
		Domains:      compiled.Domains,
		Types:        compiled.Types,
		Commands:     compiled.Commands,
		Events:       compiled.Events,
	}
	if opts.OutDir == "" {
		return res, nil
	}

	if res.Populated, err = gate.New(res.ArtifactPath).Populated(); err != nil {
		return nil, err
	}

	last, err := lastGenerated(ctx, opts.OutDir, res.ArtifactPath)
	if err != nil {
		return nil, err
	}
	if last != nil {
		res.LastBuild = last
		res.Stale = res.Populated && last.InputDigest != res.InputDigest
	}
	return res, nil
}

// History returns the build ledger of outDir in seq order. An output
// directory without a ledger has an empty history.
func History(ctx context.Context, outDir string) ([]ir.BuildRecord, error) {
	st, ok, err := openLedger(outDir)
	if err != nil || !ok {
		return []ir.BuildRecord{}, err
	}
	defer st.Close()
	return st.ReadBuilds(ctx)
}

func lastGenerated(ctx context.Context, outDir, artifact string) (*ir.BuildRecord, error) {
	st, ok, err := openLedger(outDir)
	if err != nil || !ok {
		return nil, err
	}
	defer st.Close()

	rec, err := st.LatestBuild(ctx, artifact, ir.OutcomeGenerated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// openLedger opens the ledger of outDir if a build recorded one.
func openLedger(outDir string) (*store.Store, bool, error) {
	st, err := store.OpenExisting(filepath.Join(outDir, store.FileName))
	if errors.Is(err, store.ErrNoLedger) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("opening build ledger: %w", err)
	}
	return st, true, nil
}
