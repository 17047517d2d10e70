// Package config resolves build settings from the environment, an optional
// YAML manifest and command-line overrides, in increasing precedence.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// DefaultSourceFiles are the protocol documents read from the schema
// directory when nothing else names sources, in load order.
var DefaultSourceFiles = []string{"js_protocol.json", "browser_protocol.json"}

const (
	DefaultPackage = "protocol"
	DefaultFile    = "protocol.go"
)

// Env is the environment-provided configuration.
type Env struct {
	OutDir      string `env:"OUT_DIR"`
	Gofmt       string `env:"CDPGEN_GOFMT"`
	DoNotFormat bool   `env:"CDPGEN_DO_NOT_FORMAT"`
	SchemaDir   string `env:"CDPGEN_SCHEMA_DIR" envDefault:"."`
	Package     string `env:"CDPGEN_PACKAGE"    envDefault:"protocol"`
	File        string `env:"CDPGEN_FILE"       envDefault:"protocol.go"`
	Ledger      bool   `env:"CDPGEN_LEDGER"` // Opt-in build history next to the artifact
}

// buildEnv is Env with the output directory mandatory.
type buildEnv struct {
	OutDir string `env:"OUT_DIR,required"`
	Env
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	return parseEnv(env.Options{})
}

// LoadBuildEnv reads Env from the process environment and fails when
// OUT_DIR is unset.
func LoadBuildEnv() (Env, error) {
	return parseBuildEnv(env.Options{})
}

func parseEnv(opts env.Options) (Env, error) {
	var cfg Env
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func parseBuildEnv(opts env.Options) (Env, error) {
	var cfg buildEnv
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Env.OutDir = cfg.OutDir
	return cfg.Env, nil
}

// DefaultSources returns DefaultSourceFiles inside dir.
func DefaultSources(dir string) []string {
	paths := make([]string, len(DefaultSourceFiles))
	for i, name := range DefaultSourceFiles {
		paths[i] = filepath.Join(dir, name)
	}
	return paths
}

// Overrides are explicitly requested settings, typically from flags. Empty
// fields do not override.
type Overrides struct {
	Commit  string
	Package string
	File    string
	OutDir  string
	Sources []string
	Ledger  bool // Enables the ledger; false leaves the env setting
}

// Settings are fully resolved build settings.
type Settings struct {
	Sources     []string
	Commit      string // Empty means the caller's default
	Package     string
	File        string
	OutDir      string
	Gofmt       string
	DoNotFormat bool
	Ledger      bool
}

// ArtifactPath is the gated output file.
func (s Settings) ArtifactPath() string {
	return filepath.Join(s.OutDir, s.File)
}

// Resolve merges env, an optional manifest and overrides. Overrides win over
// the manifest, which wins over the environment.
func Resolve(e Env, m *Manifest, o Overrides) Settings {
	s := Settings{
		Package:     orDefault(e.Package, DefaultPackage),
		File:        orDefault(e.File, DefaultFile),
		OutDir:      e.OutDir,
		Gofmt:       e.Gofmt,
		DoNotFormat: e.DoNotFormat,
		Ledger:      e.Ledger,
		Sources:     DefaultSources(orDefault(e.SchemaDir, ".")),
	}

	if m != nil {
		s.Commit = orDefault(m.Commit, s.Commit)
		s.Package = orDefault(m.Package, s.Package)
		s.File = orDefault(m.File, s.File)
		s.OutDir = orDefault(m.OutDir, s.OutDir)
		if len(m.Sources) > 0 {
			s.Sources = m.Sources
		}
	}

	s.Commit = orDefault(o.Commit, s.Commit)
	s.Package = orDefault(o.Package, s.Package)
	s.File = orDefault(o.File, s.File)
	s.OutDir = orDefault(o.OutDir, s.OutDir)
	if len(o.Sources) > 0 {
		s.Sources = o.Sources
	}
	s.Ledger = s.Ledger || o.Ledger
	return s
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
