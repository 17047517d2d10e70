// Package cdpgen compiles Chrome DevTools Protocol schema documents into a
// single Go source file of typed bindings.
//
// A build reads the protocol documents in load order, resolves every type
// reference, synthesizes the bindings in memory, formats them and writes them
// once. An output location that already holds an artifact is left alone.
//
// Typical use from a generate step:
//
//	if err := cdpgen.Init(ctx); err != nil {
//		log.Fatal(err)
//	}
package cdpgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/cdpgen/internal/compiler"
	"github.com/roach88/cdpgen/internal/config"
	"github.com/roach88/cdpgen/internal/format"
	"github.com/roach88/cdpgen/internal/gate"
	"github.com/roach88/cdpgen/internal/ir"
	"github.com/roach88/cdpgen/internal/store"
	"github.com/roach88/cdpgen/internal/synth"
)

// DefaultCommit is the ChromeDevTools/devtools-protocol revision the default
// schema documents are taken from.
const DefaultCommit = "4f13107aac59fe418043f9edfdaef3b7da579614"

// ErrNoOutDir is returned when a build has nowhere to write.
var ErrNoOutDir = errors.New("cdpgen: output directory not set")

// Options fully parameterise a build.
type Options struct {
	Sources   []string          // Protocol documents in load order
	Commit    string            // Provenance tag, DefaultCommit if empty
	OutDir    string            // Required
	File      string            // Artifact file name, config.DefaultFile if empty
	Package   string            // Package clause, config.DefaultPackage if empty
	Formatter *format.Formatter // nil probes gofmt
	Ledger    bool              // Record the build in <OutDir>/.cdpgen.db
	Logger    *slog.Logger      // nil uses slog.Default()
}

// Result describes what a build did.
type Result struct {
	BuildID        string          `json:"build_id,omitempty"`
	Outcome        ir.BuildOutcome `json:"outcome"`
	ArtifactPath   string          `json:"artifact_path"`
	ArtifactDigest string          `json:"artifact_digest"`
	InputDigest    string          `json:"input_digest,omitempty"`
	Domains        int             `json:"domains"`
	Types          int             `json:"types"`
	Commands       int             `json:"commands"`
	Events         int             `json:"events"`
}

// Init builds the default schema documents with DefaultCommit. See
// InitWithCommit.
func Init(ctx context.Context) error {
	return InitWithCommit(ctx, DefaultCommit)
}

// InitWithCommit reads the environment (OUT_DIR is required) and builds the
// default documents from CDPGEN_SCHEMA_DIR with commit as provenance tag.
func InitWithCommit(ctx context.Context, commit string) error {
	e, err := config.LoadBuildEnv()
	if err != nil {
		return err
	}
	s := config.Resolve(e, nil, config.Overrides{Commit: commit})
	_, err = Build(ctx, OptionsFromSettings(s))
	return err
}

// OptionsFromSettings converts resolved settings into build options.
func OptionsFromSettings(s config.Settings) Options {
	return Options{
		Sources:   s.Sources,
		Commit:    s.Commit,
		OutDir:    s.OutDir,
		File:      s.File,
		Package:   s.Package,
		Formatter: format.New(s.Gofmt, s.DoNotFormat),
		Ledger:    s.Ledger,
	}
}

func (o *Options) setDefaults() {
	if o.Commit == "" {
		o.Commit = DefaultCommit
	}
	if o.File == "" {
		o.File = config.DefaultFile
	}
	if o.Package == "" {
		o.Package = config.DefaultPackage
	}
	if o.Formatter == nil {
		o.Formatter = format.New("", false)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// ArtifactPath is where the build writes its artifact.
func (o Options) ArtifactPath() string {
	file := o.File
	if file == "" {
		file = config.DefaultFile
	}
	return filepath.Join(o.OutDir, file)
}

// Build runs the generation gate for opts. When the artifact path already
// holds content the pipeline does not run; otherwise the documents are
// compiled, formatted and written exactly once. Any error leaves the
// artifact path untouched.
func Build(ctx context.Context, opts Options) (*Result, error) {
	if opts.OutDir == "" {
		return nil, ErrNoOutDir
	}
	opts.setDefaults()
	log := opts.Logger
	artifact := opts.ArtifactPath()

	res := &Result{ArtifactPath: artifact}
	g := gate.New(artifact)
	out, err := g.Run(ctx, func(ctx context.Context) ([]byte, error) {
		compiled, err := compileFiles(ctx, opts)
		if err != nil {
			return nil, err
		}
		res.InputDigest = compiled.InputDigest
		res.Domains = compiled.Domains
		res.Types = compiled.Types
		res.Commands = compiled.Commands
		res.Events = compiled.Events
		return compiled.Source, nil
	})
	if err != nil {
		return nil, err
	}
	res.Outcome = out.Outcome
	res.ArtifactDigest = ir.ArtifactDigest(out.Artifact)

	switch out.Outcome {
	case ir.OutcomeSkipped:
		log.Info("artifact present, skipping generation", "path", artifact)
	default:
		log.Info("artifact written",
			"path", artifact,
			"bytes", len(out.Artifact),
			"domains", res.Domains,
			"commands", res.Commands,
			"events", res.Events,
		)
	}

	if opts.Ledger {
		id, err := record(ctx, opts, res)
		if err != nil {
			return nil, err
		}
		res.BuildID = id
	}
	return res, nil
}

// Compiled is an in-memory synthesis result.
type Compiled struct {
	Model       *compiler.Model
	Source      []byte // Formatted artifact
	InputDigest string
	Domains     int
	Types       int
	Commands    int
	Events      int
}

// Compile runs the pipeline up to and including formatting without touching
// the output location.
func Compile(ctx context.Context, opts Options) (*Compiled, error) {
	opts.setDefaults()
	return compileFiles(ctx, opts)
}

func compileFiles(ctx context.Context, opts Options) (*Compiled, error) {
	log := opts.Logger

	sources, err := compiler.ReadSources(opts.Sources)
	if err != nil {
		return nil, err
	}
	loader, err := compiler.NewLoader()
	if err != nil {
		return nil, err
	}
	docs, err := loader.LoadAll(sources)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := compiler.Compile(docs)
	if err != nil {
		return nil, err
	}
	for _, d := range model.Domains() {
		log.Debug("domain resolved",
			"domain", d.Name,
			"types", len(d.Types),
			"commands", len(d.Commands),
			"events", len(d.Events),
		)
	}
	for _, c := range model.Cycles {
		log.Debug("indirection cycle", "cycle", c.Message)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	generated, err := synth.Generate(model, synth.Options{Package: opts.Package, Commit: opts.Commit})
	if err != nil {
		return nil, err
	}

	strategy, command := opts.Formatter.Strategy()
	log.Debug("formatting", "strategy", strategy, "command", command)
	source, err := opts.Formatter.Format(ctx, opts.File, generated.Source)
	if err != nil {
		return nil, err
	}

	return &Compiled{
		Model:       model,
		Source:      source,
		InputDigest: ir.InputDigest(opts.Commit, sources),
		Domains:     generated.Domains,
		Types:       generated.Types,
		Commands:    generated.Commands,
		Events:      generated.Events,
	}, nil
}

func record(ctx context.Context, opts Options, res *Result) (string, error) {
	st, err := store.Open(filepath.Join(opts.OutDir, store.FileName))
	if err != nil {
		return "", fmt.Errorf("opening build ledger: %w", err)
	}
	defer st.Close()

	rec := ir.BuildRecord{
		ID:               store.NewBuildID(),
		Provenance:       opts.Commit,
		InputDigest:      res.InputDigest,
		ArtifactDigest:   res.ArtifactDigest,
		ArtifactPath:     res.ArtifactPath,
		Domains:          res.Domains,
		Commands:         res.Commands,
		Events:           res.Events,
		Outcome:          res.Outcome,
		GeneratorVersion: ir.GeneratorVersion,
	}
	if _, err := st.WriteBuild(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}
