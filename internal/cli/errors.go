package cli

import (
	"errors"
	"strings"

	"github.com/ariel-frischer/cl/internal/aggregate"
	"github.com/ariel-frischer/cl/internal/changelog"
	"github.com/ariel-frischer/cl/internal/config"
	clierrors "github.com/ariel-frischer/cl/internal/errors"
	"github.com/ariel-frischer/cl/internal/fragment"
	"github.com/ariel-frischer/cl/internal/git"
	"github.com/ariel-frischer/cl/internal/storage"
)

// classify turns an error from the core packages into a CLIError with
// remediation steps. Parse errors are checked first because they unwrap
// to the same sentinels as argument errors.
func classify(err error) *clierrors.CLIError {
	if err == nil {
		return nil
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var validationErr *config.ValidationError
	switch {
	case errors.Is(err, git.ErrNotRepository):
		return clierrors.GitNotRepository(err)
	case errors.Is(err, git.ErrDetachedHead):
		return clierrors.DetachedHead(err)
	case errors.As(err, &validationErr):
		return clierrors.ConfigInvalid(err)
	case changelog.IsParseError(err), errors.Is(err, changelog.ErrMalformedDocument):
		return clierrors.MalformedChangelog(err).At(parseLocation(err))
	case errors.Is(err, fragment.ErrCorruptFragment):
		return clierrors.CorruptFragment(err).At(fragmentLocation(err))
	case errors.Is(err, fragment.ErrInvalidContext):
		return clierrors.InvalidContext(err)
	case errors.Is(err, changelog.ErrReleaseNotFound):
		return clierrors.ReleaseNotFound(err)
	case errors.Is(err, changelog.ErrUnknownCategory):
		return clierrors.Wrap(err, clierrors.Argument, "Valid categories: "+strings.Join(categoryKeys(), ", "))
	case errors.Is(err, changelog.ErrInvalidVersion):
		return clierrors.Wrap(err, clierrors.Argument, "Versions use semantic versioning, e.g. 1.2.3 or v1.2.3")
	case errors.Is(err, changelog.ErrEmptyDescription):
		return clierrors.Wrap(err, clierrors.Argument, "Pass the description after the category, e.g. cl fixed \"Crash on start\"")
	case errors.Is(err, aggregate.ErrInvalidMode):
		return clierrors.Wrap(err, clierrors.Argument, "Use --mode replace or --mode merge")
	case errors.Is(err, storage.ErrStorage):
		return clierrors.StorageFailure(err)
	}
	return clierrors.Wrap(err, clierrors.Runtime)
}

func parseLocation(err error) string {
	var parseErr *changelog.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Location()
	}
	return ""
}

func fragmentLocation(err error) string {
	var corrupt *fragment.CorruptFragmentError
	if errors.As(err, &corrupt) {
		return corrupt.Path
	}
	return ""
}

func categoryKeys() []string {
	cats := changelog.Categories()
	keys := make([]string, len(cats))
	for i, c := range cats {
		keys[i] = c.Key()
	}
	return keys
}
