package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"rt/internal/config"
	"rt/internal/rversion"
	"rt/internal/theme"
)

// errNoR is reported when no installation can run the request
var errNoR = errors.New("unable to find any R installation in common locations")

// exitError carries the exit status of a failed Rscript run
type exitError struct {
	Code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("rt subprocess exited with an error: exit status %d", e.Code)
}

// app bundles what every command needs
type app struct {
	cfg    *config.Config
	logger *log.Logger
	out    io.Writer
	errOut io.Writer

	// discover is swapped in tests
	discover func(ctx context.Context, opts rversion.Options) (*rversion.Report, error)
	// interactive reports whether spinners and prompts may be shown
	interactive bool
}

func newApp(cmd *cobra.Command) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "rt", Level: log.WarnLevel})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}

	return &app{
		cfg:         cfg,
		logger:      logger,
		out:         cmd.OutOrStdout(),
		errOut:      cmd.ErrOrStderr(),
		discover:    rversion.Discover,
		interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}, nil
}

// options builds the discovery options from configuration
func (a *app) options() rversion.Options {
	timeout, _ := a.cfg.QueryTimeoutDuration()
	return rversion.Options{
		Extra: rversion.Roots{
			Containers: a.cfg.SearchPaths,
			Standalone: a.cfg.CustomPaths,
		},
		Logger:       a.logger,
		QueryTimeout: timeout,
	}
}

// scan runs one discovery pass, behind a spinner on a terminal
func (a *app) scan(ctx context.Context) (*rversion.Report, error) {
	var report *rversion.Report
	run := func() error {
		var err error
		report, err = a.discover(ctx, a.options())
		return err
	}

	// Debug logs would tear the spinner apart
	var err error
	if a.interactive && !verbose {
		err = rversion.WithScanner(run)
	} else {
		err = run()
	}
	if err != nil {
		return nil, err
	}
	return report, nil
}

// selectInstall picks the installation a test run uses: the --r match,
// the interactive choice, the PATH default, or the only one found.
func (a *app) selectInstall(ctx context.Context) (rversion.InstalledVersion, error) {
	report, err := a.scan(ctx)
	if err != nil {
		return rversion.InstalledVersion{}, fmt.Errorf("%w: %w", errNoR, err)
	}
	if report.Len() == 0 {
		return rversion.InstalledVersion{}, errNoR
	}

	switch {
	case rVersion != "":
		v, ok := report.Find(rVersion)
		if !ok {
			return rversion.InstalledVersion{}, fmt.Errorf("no installed R matches %q (run 'rt r-vers' to list them)", rVersion)
		}
		return v, nil
	case pickR:
		if !a.interactive {
			return rversion.InstalledVersion{}, errors.New("--pick needs an interactive terminal")
		}
		return pickInstall(report)
	}

	if def, ok := report.Default(); ok {
		return def, nil
	}
	if report.Len() == 1 {
		return report.Installations()[0], nil
	}
	return rversion.InstalledVersion{}, errors.New("the R on PATH is not one of the installed versions; choose one with --r or --pick")
}

// pickInstall shows a select with every installation, newest first
func pickInstall(report *rversion.Report) (rversion.InstalledVersion, error) {
	sorted := report.Sorted()
	ordered := make([]rversion.InstalledVersion, 0, len(sorted))
	for i := len(sorted) - 1; i >= 0; i-- {
		ordered = append(ordered, sorted[i])
	}

	options := make([]huh.Option[int], len(ordered))
	for i, v := range ordered {
		versionPart := v.String()
		if report.IsDefault(v) {
			versionPart = theme.CurrentStyle.Render(versionPart)
		}
		pad := 0
		if w := lipgloss.Width(versionPart); w < 15 {
			pad = 15 - w
		}
		label := versionPart + strings.Repeat(" ", pad) + " " + v.Root
		if report.IsDefault(v) {
			label += " " + theme.Faint.Render("[default]")
		}
		options[i] = huh.NewOption(label, i)
	}

	var selected int
	err := huh.NewSelect[int]().
		Title(theme.Subtitle.Render("Select R Version")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&selected).
		Run()
	if err != nil {
		return rversion.InstalledVersion{}, err
	}
	return ordered[selected], nil
}

// confirmAction shows a confirmation prompt
func confirmAction(title, description string) (bool, error) {
	var confirmed bool
	err := huh.NewConfirm().
		Title(theme.Subtitle.Render(title)).
		Description(theme.Faint.Render(description)).
		Affirmative(theme.SuccessStyle.Render("Yes")).
		Negative(theme.ErrorStyle.Render("No")).
		Value(&confirmed).
		Run()
	return confirmed, err
}
