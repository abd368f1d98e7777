package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gobricklayer/internal/configloader"
	"github.com/yaklabco/gobricklayer/pkg/bricklayer"
	"github.com/yaklabco/gobricklayer/pkg/fsutil"
	"github.com/yaklabco/gobricklayer/pkg/pipeline"
	"github.com/yaklabco/gobricklayer/pkg/runner"
)

// Exit codes for gobricklayer.
const (
	// ExitSuccess indicates every file was processed or skipped cleanly.
	ExitSuccess = 0

	// ExitProcessingFailed indicates at least one file could not be processed.
	ExitProcessingFailed = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates invalid configuration or engine settings.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors outside per-file processing.
	ExitIOError = 74
)

var (
	// ErrProcessingFailed is returned when one or more files failed. The
	// failures themselves have already been reported.
	ErrProcessingFailed = errors.New("processing failed")

	// ErrUsage marks command-line mistakes.
	ErrUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code for a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitProcessingFailed
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrProcessingFailed):
		return ExitProcessingFailed
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, configloader.ErrInvalidConfig), errors.Is(err, bricklayer.ErrInvalidOptions):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, pipeline.ErrReadFailure),
		errors.Is(err, pipeline.ErrWriteFailure),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// usageArgs wraps a positional argument validator so its failures map to
// ExitInvalidUsage.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
