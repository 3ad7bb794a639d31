package cli

import (
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/arieostack/arieo-tools/internal/ui"
)

// ExitError carries a specific process exit code through the error path.
// An empty Message means the command already reported the outcome itself.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Message
}

// ExitCode maps an error to the process exit code. Exit codes of failed
// subprocesses propagate unchanged; everything else maps to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var execErr *exec.ExitError
	if errors.As(err, &execErr) {
		return execErr.ExitCode()
	}

	return 1
}

// Run executes a command and returns the exit code for main. Errors are
// reported here exactly once: steps that already printed their own failure
// line are not repeated.
func Run(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	var execErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		if exitErr.Message != "" {
			ui.PrintError(exitErr.Message)
		}
	case errors.As(err, &execErr):
		// The driver already printed a failure line for the failing step.
	default:
		ui.PrintError(err.Error())
	}

	return ExitCode(err)
}
