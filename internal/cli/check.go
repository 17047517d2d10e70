package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cdpgen"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	BuildFlags
	Strict bool // fail when the artifact is stale
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [documents...]",
		Short: "Compile protocol documents without writing",
		Long: `Run the full pipeline in memory and report what generate would produce.

When the output directory has a build ledger (see generate --ledger), check
also reports whether the existing artifact was generated from different
inputs. generate never acts
on that; remove the artifact to regenerate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	opts.register(cmd)
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "exit non-zero when the artifact is stale")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := opts.settings(args)
	if err != nil {
		return formatter.Failed(err)
	}
	formatter.Sources(s.Sources)

	buildOpts := cdpgen.OptionsFromSettings(s)
	buildOpts.Logger = formatter.Logger()

	res, err := cdpgen.Check(cmd.Context(), buildOpts)
	if err != nil {
		return formatter.Failed(err)
	}
	if err := formatter.Checked(res, s.OutDir != ""); err != nil {
		return err
	}

	if res.Stale && opts.Strict {
		return &ExitError{Code: ExitFailure, Message: res.ArtifactPath + " is stale"}
	}
	return nil
}
