// Package rscript runs R expressions through a discovered installation.
package rscript

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"rt/internal/rversion"
)

// Runner starts Rscript for one installation
type Runner struct {
	Rscript string
	Dir     string
	Stdout  io.Writer
	Stderr  io.Writer
}

// New creates a runner for the installation's own Rscript
func New(install rversion.InstalledVersion) *Runner {
	return &Runner{
		Rscript: rversion.RscriptPath(install.Root, runtime.GOOS == "windows"),
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Run evaluates expr with Rscript -e and waits for it to finish.
// A non-zero exit is reported through the exit code, not the error.
func (r *Runner) Run(ctx context.Context, expr string) (int, error) {
	cmd := exec.CommandContext(ctx, r.Rscript, "-e", expr)
	cmd.Dir = r.Dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to run %s: %w", r.Rscript, err)
	}
	return 0, nil
}
