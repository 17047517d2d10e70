// Package format formats synthesized Go source before it is written.
//
// An explicit formatter executable wins; otherwise gofmt is used when it can
// be found in PATH, and golang.org/x/tools/imports formats in-process when it
// cannot.
package format

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/tools/imports"
)

// Strategy names how a Formatter formats source.
type Strategy string

const (
	StrategySkip      Strategy = "skip"
	StrategyExec      Strategy = "exec"
	StrategyInProcess Strategy = "in-process"
)

// Error reports a formatter failure. Nothing has been written when it is
// returned.
type Error struct {
	Strategy Strategy
	Command  string
	Err      error
}

func (e *Error) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("running formatter %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("formatting (%s): %v", e.Strategy, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Formatter formats Go source.
type Formatter struct {
	// Command is the formatter executable. Empty probes gofmt in PATH.
	Command string

	// Skip returns source unchanged.
	Skip bool

	lookPath func(string) (string, error)
}

// New returns a Formatter using command, or the default probe if command is
// empty.
func New(command string, skip bool) *Formatter {
	return &Formatter{Command: command, Skip: skip, lookPath: exec.LookPath}
}

// Strategy reports how Format will run and, for StrategyExec, the executable.
func (f *Formatter) Strategy() (Strategy, string) {
	if f.Skip {
		return StrategySkip, ""
	}
	if f.Command != "" {
		return StrategyExec, f.Command
	}
	lookPath := f.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if path, err := lookPath("gofmt"); err == nil {
		return StrategyExec, path
	}
	return StrategyInProcess, ""
}

// Format returns the formatted form of src. name is used in error messages
// of the in-process formatter.
func (f *Formatter) Format(ctx context.Context, name string, src []byte) ([]byte, error) {
	strategy, command := f.Strategy()
	switch strategy {
	case StrategySkip:
		return src, nil
	case StrategyExec:
		return runFormatter(ctx, command, src)
	default:
		out, err := imports.Process(name, src, &imports.Options{
			Comments:   true,
			TabIndent:  true,
			TabWidth:   8,
			FormatOnly: true,
		})
		if err != nil {
			return nil, &Error{Strategy: StrategyInProcess, Err: fmt.Errorf("%s: %w", name, err)}
		}
		return out, nil
	}
}

func runFormatter(ctx context.Context, command string, src []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command)
	cmd.Stdin = bytes.NewReader(src)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, &Error{Strategy: StrategyExec, Command: command, Err: err}
	}
	return stdout.Bytes(), nil
}
