package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/cdpgen/internal/compiler"
)

// InspectOptions holds flags for the inspect command.
type InspectOptions struct {
	*RootOptions
	BuildFlags
}

// InspectReport summarizes a resolved compilation.
type InspectReport struct {
	Domains       []DomainSummary `json:"domains"`
	IndirectEdges []string        `json:"indirect_edges"`
	Cycles        []string        `json:"cycles"`
}

// DomainSummary describes one domain of an InspectReport.
type DomainSummary struct {
	Name         string   `json:"name"`
	Source       string   `json:"source"`
	Types        int      `json:"types"`
	Commands     int      `json:"commands"`
	Events       int      `json:"events"`
	Dependencies []string `json:"dependencies,omitempty"`
	Experimental bool     `json:"experimental,omitempty"`
	Deprecated   bool     `json:"deprecated,omitempty"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InspectOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "inspect [documents...]",
		Short: "List domains and indirection edges",
		Long: `Load and resolve protocol documents and list every domain with its
type, command and event counts, plus the reference edges that generate
boxes because they lie on a type cycle.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Manifest, "manifest", "m", "", "YAML build manifest")

	return cmd
}

func runInspect(opts *InspectOptions, args []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	s, err := opts.settings(args)
	if err != nil {
		return formatter.Failed(err)
	}

	docs, err := compiler.LoadFiles(s.Sources)
	if err != nil {
		return formatter.Failed(err)
	}
	model, err := compiler.Compile(docs)
	if err != nil {
		return formatter.Failed(err)
	}

	report := InspectReport{
		Domains:       []DomainSummary{},
		IndirectEdges: []string{},
		Cycles:        []string{},
	}
	for _, doc := range docs {
		for _, d := range doc.Domains {
			report.Domains = append(report.Domains, DomainSummary{
				Name:         d.Name,
				Source:       doc.Source,
				Types:        len(d.Types),
				Commands:     len(d.Commands),
				Events:       len(d.Events),
				Dependencies: d.Dependencies,
				Experimental: d.Experimental,
				Deprecated:   d.Deprecated,
			})
		}
	}
	for _, e := range model.IndirectEdges() {
		if e.Property == "" {
			report.IndirectEdges = append(report.IndirectEdges, e.Owner+"[]")
			continue
		}
		report.IndirectEdges = append(report.IndirectEdges, e.Owner+"."+e.Property)
	}
	for _, c := range model.Cycles {
		report.Cycles = append(report.Cycles, c.Message)
	}

	return formatter.Inspected(report)
}
