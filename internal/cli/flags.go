package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cdpgen"
	"github.com/roach88/cdpgen/internal/config"
)

// BuildFlags are the settings flags shared by generate and check.
type BuildFlags struct {
	Manifest string
	Commit   string
	Package  string
	File     string
	OutDir   string
	Ledger   bool
}

func (f *BuildFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Manifest, "manifest", "m", "", "YAML build manifest")
	cmd.Flags().StringVar(&f.Commit, "commit", "", "provenance tag (default "+cdpgen.DefaultCommit+")")
	cmd.Flags().StringVar(&f.Package, "package", "", "package clause of the artifact")
	cmd.Flags().StringVar(&f.File, "file", "", "artifact file name")
	cmd.Flags().StringVarP(&f.OutDir, "out-dir", "o", "", "output directory (overrides OUT_DIR)")
	cmd.Flags().BoolVar(&f.Ledger, "ledger", false, "record builds in the output directory's ledger (or CDPGEN_LEDGER=1)")
}

// settings resolves env, manifest and flags. Positional args name the
// source documents in load order.
func (f *BuildFlags) settings(args []string) (config.Settings, error) {
	e, err := config.LoadEnv()
	if err != nil {
		return config.Settings{}, &configError{err: err}
	}

	var m *config.Manifest
	if f.Manifest != "" {
		if m, err = config.LoadManifest(f.Manifest); err != nil {
			return config.Settings{}, &manifestError{err: err}
		}
	}

	return config.Resolve(e, m, config.Overrides{
		Commit:  f.Commit,
		Package: f.Package,
		File:    f.File,
		OutDir:  f.OutDir,
		Sources: args,
		Ledger:  f.Ledger,
	}), nil
}
