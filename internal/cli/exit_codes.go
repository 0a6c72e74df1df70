package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/cl/internal/errors"
)

// Exit codes for the cl CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed while running
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or configuration
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates the repository is not in a usable state
	// (not a git repository, detached HEAD, malformed changelog or fragment)
	ExitMissingPrerequisite = 4
)

// ExitError carries an exit code for errors that were already reported.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an error that makes the process exit with code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// ExitCodeFor maps an error returned by Execute to a process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return exitCodeForCategory(cliErr.Category)
	}
	return ExitFailure
}

func exitCodeForCategory(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite, clierrors.Document:
		return ExitMissingPrerequisite
	default:
		return ExitFailure
	}
}
