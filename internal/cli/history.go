package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cdpgen"
	"github.com/roach88/cdpgen/internal/config"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	OutDir string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history",
		Short:         "List recorded builds of an output directory",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", "", "output directory (overrides OUT_DIR)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	outDir := opts.OutDir
	if outDir == "" {
		e, err := config.LoadEnv()
		if err != nil {
			return formatter.Failed(&configError{err: err})
		}
		outDir = e.OutDir
	}
	if outDir == "" {
		return formatter.Failed(cdpgen.ErrNoOutDir)
	}

	builds, err := cdpgen.History(cmd.Context(), outDir)
	if err != nil {
		return formatter.Failed(err)
	}

	return formatter.Builds(outDir, builds)
}
