package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the cl CLI.
// These templates ensure consistent, actionable error messages.

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(err error) *CLIError {
	e := NewPrerequisiteError(
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
	e.Err = err
	return e
}

// DetachedHead creates an error when HEAD does not name a branch.
func DetachedHead(err error) *CLIError {
	e := NewPrerequisiteError(
		"HEAD is detached; fragments are recorded per branch",
		"Check out a branch with: git switch <branch>",
		"Or create one from here with: git switch -c <branch>",
	)
	e.Err = err
	return e
}

// MissingDescription creates an error when a category command has no text.
func MissingDescription(category string) *CLIError {
	return NewArgumentErrorWithUsage(
		"change description is required",
		fmt.Sprintf("cl %s <description>", category),
		fmt.Sprintf("Example: cl %s \"Support for dark mode\"", category),
	)
}

// InvalidVersion creates an error for text that is not a semantic version.
func InvalidVersion(command, input string, err error) *CLIError {
	e := NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid version: %s", input),
		fmt.Sprintf("cl %s <version>", command),
		"Versions use semantic versioning, e.g. 1.2.3 or v1.2.3",
	)
	e.Err = err
	return e
}

// ReleaseNotFound creates an error when a version has no release in the changelog.
func ReleaseNotFound(err error) *CLIError {
	return WrapWithMessage(err, Argument,
		"cannot find release",
		"Check the release headings in the changelog; the Unreleased section cannot be yanked",
	)
}

// InvalidFormat creates an error for an unknown output format.
func InvalidFormat(input string, valid []string, err error) *CLIError {
	e := NewArgumentError(
		fmt.Sprintf("invalid output format: %s", input),
		"Valid formats: "+strings.Join(valid, ", "),
	)
	e.Err = err
	return e
}

// InvalidMode creates an error for an unknown aggregate mode.
func InvalidMode(input string, err error) *CLIError {
	e := NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid aggregate mode: %s", input),
		"cl aggregate --mode replace|merge",
		"replace rebuilds Unreleased from fragments, merge appends to it",
	)
	e.Err = err
	return e
}

// MalformedChangelog creates an error when the changelog cannot be parsed.
func MalformedChangelog(err error) *CLIError {
	return WrapWithMessage(err, Document,
		"changelog is not in Keep a Changelog format",
		"Fix the reported line and run the command again",
		"Release headings look like: ## [1.2.3] - 2024-01-31",
		"Category headings look like: ### Added",
	)
}

// CorruptFragment creates an error when a fragment file cannot be decoded.
func CorruptFragment(err error) *CLIError {
	return WrapWithMessage(err, Document,
		"fragment file is corrupt",
		"Fix the file by hand or delete it to drop its entries",
		"Each entry needs a category and a description",
	)
}

// InvalidContext creates an error when the branch name cannot name a fragment file.
func InvalidContext(err error) *CLIError {
	return WrapWithMessage(err, Prerequisite,
		"cannot record changes for this branch",
		"Branch names must not contain empty, '.' or '..' path segments",
	)
}

// ConfigInvalid creates an error for a configuration that fails to load or validate.
func ConfigInvalid(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Run 'cl config' to see effective values and where they come from",
		"Check .cl.yml at the repository root and ~/.config/cl/config.yml",
	)
}

// EditorNotSet creates an error when neither VISUAL nor EDITOR is set.
func EditorNotSet() *CLIError {
	return NewConfigError(
		"no editor configured",
		"Set the VISUAL or EDITOR environment variable, e.g. export EDITOR=vim",
	)
}

// StorageFailure creates an error when the changelog or a fragment file cannot be read or written.
func StorageFailure(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"cannot access changelog files",
		"Check file permissions in the repository",
		"Ensure parent directories exist and are writable",
	)
}
