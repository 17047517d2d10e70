package cli

import (
	"errors"
	"io/fs"

	"github.com/roach88/cdpgen"
	"github.com/roach88/cdpgen/internal/compiler"
	"github.com/roach88/cdpgen/internal/format"
	"github.com/roach88/cdpgen/internal/gate"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Environment or flag error
	ErrCodeNoOutDir     = "E003" // No output directory configured
	ErrCodeManifest     = "E004" // Manifest load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeFormatFailed = "E006" // Formatter failed
	ErrCodeWriteFailed  = "E007" // File write error

	// Schema compilation errors
	ErrCodeSchemaParse  = "E101" // Malformed or incomplete document
	ErrCodeTypeShape    = "E102" // Unsupported type shape
	ErrCodeUnresolved   = "E103" // Unresolved or ambiguous $ref
	ErrCodeNameConflict = "E104" // Name collision
)

// manifestError marks a failure to load the manifest.
type manifestError struct {
	err error
}

func (e *manifestError) Error() string { return e.err.Error() }
func (e *manifestError) Unwrap() error { return e.err }

// configError marks a failure to read the environment.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// ClassifyError maps a pipeline error to an error code and message.
func ClassifyError(err error) (string, string) {
	var (
		shapeErr    *compiler.UnsupportedTypeShapeError
		parseErr    *compiler.SchemaParseError
		refErr      *compiler.UnresolvedReferenceError
		collision   *compiler.NameCollisionError
		fmtErr      *format.Error
		writeErr    *gate.WriteError
		manifestErr *manifestError
		cfgErr      *configError
	)

	switch {
	case errors.As(err, &shapeErr):
		return ErrCodeTypeShape, shapeErr.Error()
	case errors.As(err, &parseErr):
		return ErrCodeSchemaParse, parseErr.Error()
	case errors.As(err, &refErr):
		return ErrCodeUnresolved, refErr.Error()
	case errors.As(err, &collision):
		return ErrCodeNameConflict, collision.Error()
	case errors.As(err, &fmtErr):
		return ErrCodeFormatFailed, fmtErr.Error()
	case errors.As(err, &writeErr):
		return ErrCodeWriteFailed, writeErr.Error()
	case errors.As(err, &manifestErr):
		return ErrCodeManifest, manifestErr.Error()
	case errors.As(err, &cfgErr):
		return ErrCodeConfig, cfgErr.Error()
	case errors.Is(err, cdpgen.ErrNoOutDir):
		return ErrCodeNoOutDir, "output directory not set (use --out-dir, out_dir in the manifest, or OUT_DIR)"
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound, err.Error()
	default:
		return ErrCodeGeneric, err.Error()
	}
}
