package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rt/internal/config"
	"rt/internal/rversion"
	"rt/internal/theme"
)

var assumeYes bool

// pathList is one of the two user-configured root lists
type pathList struct {
	label  string
	items  func(*config.Config) []string
	add    func(*config.Config, string) bool
	remove func(*config.Config, string) bool
	has    func(*config.Config, string) bool
}

var (
	installRoots = pathList{
		label:  "install root",
		items:  func(c *config.Config) []string { return c.CustomPaths },
		add:    (*config.Config).AddCustomPath,
		remove: (*config.Config).RemoveCustomPath,
		has:    (*config.Config).HasCustomPath,
	}
	searchRoots = pathList{
		label:  "search root",
		items:  func(c *config.Config) []string { return c.SearchPaths },
		add:    (*config.Config).AddSearchPath,
		remove: (*config.Config).RemoveSearchPath,
		has:    (*config.Config).HasSearchPath,
	}
)

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "Manage where rt looks for R",
}

var pathsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show built-in and configured search locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		d, err := rversion.NewDiscoverer(rversion.Options{Logger: a.logger})
		if err != nil {
			return err
		}

		builtin := d.Probe().SearchRoots()
		fmt.Fprintln(a.out, theme.Title.Render("R Search Paths"))
		fmt.Fprintln(a.out)
		printPathTable(a.out, "Built-in version directories:", builtin.Containers)
		printPathTable(a.out, "Built-in install roots:", builtin.Standalone)

		if len(a.cfg.SearchPaths) == 0 && len(a.cfg.CustomPaths) == 0 {
			fmt.Fprintln(a.out, theme.InfoMessage("No custom paths configured."))
			fmt.Fprintln(a.out, theme.Faint.Render("Use 'rt paths add <dir>' or 'rt paths add-root <dir>' to add one."))
			return nil
		}
		printPathTable(a.out, "Custom version directories:", a.cfg.SearchPaths)
		printPathTable(a.out, "Custom install roots:", a.cfg.CustomPaths)
		fmt.Fprintln(a.out, theme.Faint.Render("Config: "+a.cfg.Path()))
		return nil
	},
}

var pathsAddCmd = &cobra.Command{
	Use:   "add <dir>",
	Short: "Add an R installation root",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addPath(cmd, installRoots, args[0])
	},
}

var pathsRemoveCmd = &cobra.Command{
	Use:   "remove [dir]",
	Short: "Remove an R installation root",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removePath(cmd, installRoots, args)
	},
}

var pathsAddRootCmd = &cobra.Command{
	Use:   "add-root <dir>",
	Short: "Add a directory holding one R version per subdirectory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return addPath(cmd, searchRoots, args[0])
	},
}

var pathsRemoveRootCmd = &cobra.Command{
	Use:   "remove-root [dir]",
	Short: "Remove a version directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removePath(cmd, searchRoots, args)
	},
}

func init() {
	pathsCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
	pathsCmd.AddCommand(pathsListCmd, pathsAddCmd, pathsRemoveCmd, pathsAddRootCmd, pathsRemoveRootCmd)
}

func addPath(cmd *cobra.Command, list pathList, path string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if !isDirectory(path) {
		return fmt.Errorf("invalid directory path: %s", path)
	}
	if list.has(a.cfg, path) {
		fmt.Fprintln(a.out, theme.WarningMessage("This "+list.label+" is already configured."))
		return nil
	}

	if ok, err := a.confirm("Add "+list.label+"?", "Path: "+path); err != nil || !ok {
		fmt.Fprintln(a.out, theme.WarningMessage("Operation cancelled."))
		return nil
	}

	list.add(a.cfg, path)
	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(a.out, theme.SuccessMessage("Added "+list.label+":"))
	fmt.Fprintln(a.out, "  "+theme.PathStyle.Render(path))
	fmt.Fprintln(a.out, theme.Faint.Render("Run ")+theme.Code.Render("rt r-vers")+theme.Faint.Render(" to see detected versions"))
	return nil
}

func removePath(cmd *cobra.Command, list pathList, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		items := list.items(a.cfg)
		if len(items) == 0 {
			fmt.Fprintln(a.out, theme.InfoMessage("No "+list.label+"s to remove"))
			return nil
		}
		if !a.interactive {
			return errors.New("no path given")
		}
		if path, err = selectPath(list, items); err != nil {
			return err
		}
	}

	if !list.has(a.cfg, path) {
		fmt.Fprintln(a.out, theme.WarningMessage("This path is not a configured "+list.label+"."))
		return nil
	}
	if ok, err := a.confirm("Remove "+list.label+"?", "Path: "+path); err != nil || !ok {
		fmt.Fprintln(a.out, theme.WarningMessage("Operation cancelled."))
		return nil
	}

	list.remove(a.cfg, path)
	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintln(a.out, theme.SuccessMessage("Removed "+list.label+"."))
	return nil
}

// confirm asks on a terminal; otherwise only --yes proceeds
func (a *app) confirm(title, description string) (bool, error) {
	if assumeYes {
		return true, nil
	}
	if !a.interactive {
		return false, errors.New("confirmation needs a terminal; pass --yes")
	}
	return confirmAction(title, description)
}

func selectPath(list pathList, items []string) (string, error) {
	maxW := 0
	for _, p := range items {
		if w := lipgloss.Width(theme.CurrentStyle.Render(p)); w > maxW {
			maxW = w
		}
	}

	options := make([]huh.Option[string], len(items))
	for i, p := range items {
		rendered := theme.CurrentStyle.Render(p)
		pad := strings.Repeat(" ", maxW-lipgloss.Width(rendered))
		options[i] = huh.NewOption(fmt.Sprintf("%s%s  %s", rendered, pad, pathStatus(p)), p)
	}

	var path string
	err := huh.NewSelect[string]().
		Title(theme.Subtitle.Render("Select " + list.label + " to remove")).
		Description(theme.Faint.Render("Use arrow keys to navigate, Enter to select")).
		Options(options...).
		Value(&path).
		Run()
	return path, err
}

func printPathTable(w io.Writer, label string, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintln(w, theme.LabelStyle.Render(label))

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Left,
		theme.TableHeader.Width(58).Render("Path"),
		theme.TableHeader.Render("Status"),
	)}
	for _, p := range paths {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left,
			theme.TableCell.Width(58).Render(p),
			theme.TableCell.Render(pathStatus(p)),
		))
	}
	fmt.Fprintln(w, theme.TableStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	fmt.Fprintln(w)
}

func pathStatus(p string) string {
	if isDirectory(p) {
		return theme.SuccessStyle.Render("✓ Exists")
	}
	return theme.Faint.Render("Not found")
}

func isDirectory(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
