package compiler

import (
	"errors"
	"fmt"
	"strings"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// SchemaParseError reports a malformed or incomplete protocol document.
type SchemaParseError struct {
	Source  string // Input document name
	Field   string // Path of the offending field, e.g. "domains[2].types[0].id"
	Message string
	Pos     token.Pos
}

func (e *SchemaParseError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s: %s", e.Source, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnsupportedTypeShapeError reports a type or property descriptor that
// matches none of the recognized shapes.
type UnsupportedTypeShapeError struct {
	Source string
	Field  string
	Shape  string // The unrecognized "type" value
	Pos    token.Pos
}

func (e *UnsupportedTypeShapeError) Error() string {
	msg := fmt.Sprintf("unsupported type shape %q", e.Shape)
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Field, msg)
}

// RefFailure distinguishes the two ways a reference can fail to resolve.
type RefFailure string

const (
	RefNotFound  RefFailure = "not-found"
	RefAmbiguous RefFailure = "ambiguous"
)

// UnresolvedReferenceError reports a $ref that names no type, or an
// unqualified $ref that names types in more than one foreign domain.
type UnresolvedReferenceError struct {
	Site       string // Where the reference appears, e.g. "Page.navigate parameter frameId"
	Ref        string // The reference as written
	Reason     RefFailure
	Candidates []string // Qualified names for RefAmbiguous
}

func (e *UnresolvedReferenceError) Error() string {
	if e.Reason == RefAmbiguous {
		return fmt.Sprintf("%s: ambiguous reference %q (candidates: %s)",
			e.Site, e.Ref, strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("%s: unresolved reference %q", e.Site, e.Ref)
}

// Collision kinds.
const (
	CollisionDomain     = "domain"
	CollisionType       = "type"
	CollisionCommand    = "command"
	CollisionEvent      = "event"
	CollisionIdentifier = "identifier"
	CollisionField      = "field"
)

// NameCollisionError reports two distinct entities that claim the same name.
type NameCollisionError struct {
	Kind   string // One of the Collision* constants
	Name   string // The contested name
	First  string // Entity that claimed the name first
	Second string // Entity that collided with it
}

func (e *NameCollisionError) Error() string {
	if e.First == "" && e.Second == "" {
		return fmt.Sprintf("duplicate %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("duplicate %s %q: defined by %s and %s", e.Kind, e.Name, e.First, e.Second)
}

// IsParseError reports whether err is a SchemaParseError or an
// UnsupportedTypeShapeError. Uses errors.As to handle wrapped errors.
func IsParseError(err error) bool {
	var pe *SchemaParseError
	var se *UnsupportedTypeShapeError
	return errors.As(err, &pe) || errors.As(err, &se)
}

// IsUnresolved reports whether err is an UnresolvedReferenceError.
func IsUnresolved(err error) bool {
	var re *UnresolvedReferenceError
	return errors.As(err, &re)
}

// IsCollision reports whether err is a NameCollisionError.
func IsCollision(err error) bool {
	var ce *NameCollisionError
	return errors.As(err, &ce)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(source string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &SchemaParseError{Source: source, Field: "document", Message: err.Error()}
	}

	// Return first error with position info
	first := errs[0]
	field := strings.Join(first.Path(), ".")
	if field == "" {
		field = "document"
	}
	format, args := first.Msg()
	parseErr := &SchemaParseError{
		Source:  source,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		parseErr.Pos = positions[0]
	}
	return parseErr
}
