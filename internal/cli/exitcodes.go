package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/yaklabco/tekkenmd/internal/configloader"
	"github.com/yaklabco/tekkenmd/pkg/fsutil"
	"github.com/yaklabco/tekkenmd/pkg/runner"
)

// Exit codes for tekkenmd.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitBuildFailures indicates a build completed but some blocks or
	// files failed.
	ExitBuildFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// Sentinel errors classifying command failures.
var (
	// ErrBuildFailures is returned when a build finished with failed blocks
	// or files. The report has already been written.
	ErrBuildFailures = errors.New("build finished with failures")

	// ErrUsage marks invalid arguments or flags.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration that could not be loaded or is invalid.
	ErrConfig = errors.New("configuration error")
)

// ExitCodeFromResult determines the exit code of a finished build.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitBuildFailures
	}
	return ExitSuccess
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrBuildFailures):
		return ExitBuildFailures
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageError wraps err so that it maps to ExitInvalidUsage.
func usageError(err error) error {
	if err == nil || errors.Is(err, ErrUsage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUsage, err)
}
