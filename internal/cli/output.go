package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/cdpgen"
	"github.com/roach88/cdpgen/internal/ir"
)

// Exit codes.
const (
	ExitFailure      = 1 // Stale artifact under check --strict
	ExitCommandError = 2 // Schema, configuration, format or write failure
)

// ExitError carries the process exit code of a failed command. The
// report has already been written when one is returned.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// GetExitCode returns the exit code for err. Errors that did not come from
// a command, such as flag parsing, exit with ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as text or as a CLIResponse
// envelope. Diagnostics go to ErrWriter so the JSON stream stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error member of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // See ErrCode constants
	Message string `json:"message"`
}

func (f *OutputFormatter) json() bool { return f.Format == "json" }

func (f *OutputFormatter) ok(data any) error {
	return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
}

func (f *OutputFormatter) errWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Logger returns the pipeline logger: debug records with --verbose,
// warnings only otherwise.
func (f *OutputFormatter) Logger() *slog.Logger {
	level := slog.LevelWarn
	if f.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(f.errWriter(), &slog.HandlerOptions{Level: level}))
}

// Sources lists the documents of a build in load order when verbose.
func (f *OutputFormatter) Sources(paths []string) {
	if !f.Verbose {
		return
	}
	for _, p := range paths {
		fmt.Fprintf(f.errWriter(), "Source: %s\n", p)
	}
}

// Generated reports a build.
func (f *OutputFormatter) Generated(res *cdpgen.Result) error {
	if f.json() {
		return f.ok(res)
	}
	if res.Outcome == ir.OutcomeSkipped {
		_, err := fmt.Fprintf(f.Writer, "✓ %s already generated, left unchanged\n", res.ArtifactPath)
		return err
	}
	_, err := fmt.Fprintf(f.Writer, "✓ Generated %s: %s\n", res.ArtifactPath,
		counts(res.Domains, res.Types, res.Commands, res.Events))
	return err
}

// Checked reports a dry run. located is false when no output directory was
// configured, in which case only the counts are known.
func (f *OutputFormatter) Checked(res *cdpgen.CheckResult, located bool) error {
	if f.json() {
		return f.ok(res)
	}
	fmt.Fprintf(f.Writer, "✓ %s\n", counts(res.Domains, res.Types, res.Commands, res.Events))
	var err error
	switch {
	case res.Stale:
		_, err = fmt.Fprintf(f.Writer, "! %s was generated from different inputs (provenance %s)\n",
			res.ArtifactPath, res.LastBuild.Provenance)
	case res.Populated:
		_, err = fmt.Fprintf(f.Writer, "  %s is present\n", res.ArtifactPath)
	case located:
		_, err = fmt.Fprintf(f.Writer, "  %s would be generated\n", res.ArtifactPath)
	}
	return err
}

// Inspected reports the domains and indirection edges of a compilation.
func (f *OutputFormatter) Inspected(r InspectReport) error {
	if f.json() {
		return f.ok(r)
	}
	w := f.Writer
	fmt.Fprintf(w, "Domains (%d):\n", len(r.Domains))
	for _, d := range r.Domains {
		flags := ""
		if d.Experimental {
			flags += " experimental"
		}
		if d.Deprecated {
			flags += " deprecated"
		}
		fmt.Fprintf(w, "  %s: %d type(s), %d command(s), %d event(s) [%s]%s\n",
			d.Name, d.Types, d.Commands, d.Events, d.Source, flags)
	}
	section(w, "Indirection edges", r.IndirectEdges)
	section(w, "Cycles", r.Cycles)
	return nil
}

// Builds reports the ledger of outDir, oldest first.
func (f *OutputFormatter) Builds(outDir string, builds []ir.BuildRecord) error {
	if f.json() {
		return f.ok(builds)
	}
	if len(builds) == 0 {
		_, err := fmt.Fprintf(f.Writer, "No builds recorded in %s\n", outDir)
		return err
	}
	for _, b := range builds {
		fmt.Fprintf(f.Writer, "#%d %s %s provenance=%s artifact=%s\n",
			b.Seq, b.Outcome, b.ID, b.Provenance, shortDigest(b.ArtifactDigest))
	}
	return nil
}

// Failed reports err under its error code and returns the ExitError the
// command should return.
func (f *OutputFormatter) Failed(err error) error {
	code, message := ClassifyError(err)
	if f.json() {
		_ = json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message},
		})
	} else {
		fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	}
	return &ExitError{Code: ExitCommandError, Message: code + ": " + message}
}

func counts(domains, types, commands, events int) string {
	return fmt.Sprintf("%d domain(s), %d type(s), %d command(s), %d event(s)", domains, types, commands, events)
}

func section(w io.Writer, title string, lines []string) {
	if len(lines) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, l := range lines {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
