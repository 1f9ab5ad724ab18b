package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"rt/internal/testfiles"
	"rt/internal/theme"
)

var listCmd = &cobra.Command{
	Use:   "list [package-dir]",
	Short: "List the test files of an R package",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		files, err := testfiles.List(afero.NewOsFs(), dir)
		if err != nil {
			return err
		}

		if len(files) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), theme.WarningMessage("No tests found."))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), theme.Title.Render(fmt.Sprintf("Found %d test(s)", len(files))))
		for _, f := range files {
			fmt.Fprintln(cmd.OutOrStdout(), "  "+theme.PathStyle.Render(f))
		}
		return nil
	},
}
