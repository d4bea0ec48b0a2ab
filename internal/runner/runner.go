// Package runner executes the built project binary as a child process.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Run invokes the binary with args forwarded verbatim, in order. Standard
// streams are passed through untouched; the child's exit status is carried
// in the returned *exec.ExitError so callers can propagate it.
func Run(ctx context.Context, binary string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if _, err := os.Stat(binary); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("binary %s does not exist, compile the project first", binary)
		}
		return fmt.Errorf("failed to stat %s: %w", binary, err)
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// ExitCode extracts the child's exit code from a Run error: 0 for nil,
// the child's code for an exit error, 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
