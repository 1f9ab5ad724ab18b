package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"rt/internal/rscript"
	"rt/internal/testfiles"
	"rt/internal/theme"
)

var (
	filePkgDir     string
	fileStandalone bool
)

var dirCmd = &cobra.Command{
	Use:   "dir [package-dir]",
	Short: "Run every test of an R package",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if !testfiles.IsPackage(afero.NewOsFs(), dir) {
			return fmt.Errorf("%s is not an R package: no DESCRIPTION file", dir)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.runR(cmd.Context(), rscript.TestPackage(dir))
	},
}

var fileCmd = &cobra.Command{
	Use:   "file <test-file>",
	Short: "Run a single test file",
	Long: `Run a single testthat file. The package in --pkg is loaded first
unless --standalone is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		info, err := os.Stat(file)
		if err != nil {
			return fmt.Errorf("test file %s: %w", file, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory; use 'rt dir' for packages", file)
		}
		if !fileStandalone && !testfiles.IsPackage(afero.NewOsFs(), filePkgDir) {
			return fmt.Errorf("%s is not an R package: no DESCRIPTION file (use --standalone for loose files)", filePkgDir)
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		return a.runR(cmd.Context(), rscript.TestFile(filepath.ToSlash(file), filepath.ToSlash(filePkgDir), fileStandalone))
	},
}

func init() {
	fileCmd.Flags().StringVarP(&filePkgDir, "pkg", "P", ".", "package directory to load before testing")
	fileCmd.Flags().BoolVarP(&fileStandalone, "standalone", "s", false, "run the file without loading a package")
}

// runR evaluates expr with the selected installation's Rscript
func (a *app) runR(ctx context.Context, expr string) error {
	install, err := a.selectInstall(ctx)
	if err != nil {
		return err
	}
	a.logger.Debug("running Rscript", "version", install.String(), "root", install.Root, "expr", expr)
	fmt.Fprintln(a.errOut, theme.Faint.Render(fmt.Sprintf("Using R %s (%s)", install, install.Root)))

	runner := rscript.New(install)
	runner.Stdout = a.out
	runner.Stderr = a.errOut

	code, err := runner.Run(ctx, expr)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("rt subprocess exited with an error: %w", err)
	}
	if code != 0 {
		return &exitError{Code: code}
	}
	fmt.Fprintln(a.errOut, theme.SuccessMessage("rt exited :)"))
	return nil
}
