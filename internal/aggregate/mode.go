package aggregate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for a mode name other than replace or merge.
var ErrInvalidMode = errors.New("invalid aggregate mode")

// Mode controls what happens to entries already in the Unreleased section
// when fragments are aggregated.
type Mode string

const (
	// ModeReplace rebuilds Unreleased from the fragments alone.
	ModeReplace Mode = "replace"
	// ModeMerge keeps existing Unreleased entries and appends the fragments.
	ModeMerge Mode = "merge"
)

// DefaultMode is used when no mode is configured.
const DefaultMode = ModeReplace

// Modes returns the accepted aggregate modes.
func Modes() []Mode {
	return []Mode{ModeReplace, ModeMerge}
}

// ParseMode converts a mode name. Empty input selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultMode, nil
	case ModeReplace:
		return ModeReplace, nil
	case ModeMerge:
		return ModeMerge, nil
	}
	return "", fmt.Errorf("%w %q: valid modes are replace, merge", ErrInvalidMode, s)
}
