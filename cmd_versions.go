package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"rt/internal/rversion"
	"rt/internal/theme"
)

var versionsCmd = &cobra.Command{
	Use:     "r-vers",
	Aliases: []string{"versions"},
	Short:   "List the installed R versions",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		report, err := a.scan(cmd.Context())
		if err != nil || report.Len() == 0 {
			if err != nil {
				a.logger.Debug("discovery failed", "err", err)
			}
			return errNoR
		}
		printVersions(a.out, report)
		return nil
	},
}

// printVersions writes the report oldest first, marking the default
func printVersions(w io.Writer, report *rversion.Report) {
	fmt.Fprintln(w, theme.Title.Render("Installed R Versions:"))
	fmt.Fprintln(w)
	for _, v := range report.Sorted() {
		versionStr := "R " + v.String()
		marker := "  "
		if report.IsDefault(v) {
			marker = "→ "
			versionStr = theme.CurrentStyle.Render(versionStr) + " " + theme.Faint.Render("(default)")
		}
		pad := 0
		if width := lipgloss.Width(versionStr); width < 26 {
			pad = 26 - width
		}
		fmt.Fprintf(w, "%s%s%s %s\n", marker, versionStr, strings.Repeat(" ", pad), theme.PathStyle.Render(v.Root))
	}
}
