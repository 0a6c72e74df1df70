package changelog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDocument is returned when the document structure is not recognized.
	ErrMalformedDocument = errors.New("malformed changelog")
	// ErrInvalidVersion is returned for text that is not a semantic version.
	ErrInvalidVersion = errors.New("invalid version")
	// ErrReleaseNotFound is returned when a release lookup has no match.
	ErrReleaseNotFound = errors.New("release not found")
	// ErrUnknownCategory is returned for a category name outside the fixed set.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnexpectedEntry is returned for a bullet that is not under a category heading.
	ErrUnexpectedEntry = errors.New("unexpected entry")
	// ErrEmptyDescription is returned when a change has no description text.
	ErrEmptyDescription = errors.New("change description cannot be empty")
)

// ParseError reports where in the document parsing failed.
// It unwraps to one of the sentinel errors above.
type ParseError struct {
	// File is the document path when the caller knows it; Parse leaves it empty.
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Location returns "file:line", or "line N" when File is unknown.
func (e *ParseError) Location() string {
	if e.File == "" {
		return fmt.Sprintf("line %d", e.Line)
	}
	return fmt.Sprintf("%s:%d", e.File, e.Line)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReleaseNotFoundError is returned when a requested version doesn't exist.
type ReleaseNotFoundError struct {
	Version           Version
	AvailableVersions []string
}

func (e *ReleaseNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("release %q not found (changelog has no releases)", e.Version)
	}
	return fmt.Sprintf("release %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

func (e *ReleaseNotFoundError) Unwrap() error {
	return ErrReleaseNotFound
}

// IsParseError returns true if the error carries a document line number.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
