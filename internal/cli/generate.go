package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cdpgen"
)

// GenerateOptions holds flags for the generate command.
type GenerateOptions struct {
	*RootOptions
	BuildFlags
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [documents...]",
		Short: "Generate Go bindings from protocol documents",
		Long: `Generate the Go bindings file from protocol documents, given in load order.

Without arguments the documents come from the manifest, or from
js_protocol.json and browser_protocol.json in CDPGEN_SCHEMA_DIR. An output
file that already has content is left untouched.`,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(opts, args, cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

func runGenerate(opts *GenerateOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := opts.settings(args)
	if err != nil {
		return formatter.Failed(err)
	}
	formatter.Sources(s.Sources)

	buildOpts := cdpgen.OptionsFromSettings(s)
	buildOpts.Logger = formatter.Logger()

	res, err := cdpgen.Build(cmd.Context(), buildOpts)
	if err != nil {
		return formatter.Failed(err)
	}
	return formatter.Generated(res)
}
