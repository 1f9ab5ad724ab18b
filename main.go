package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"rt/internal/theme"
)

var (
	// Version is set via -ldflags
	Version = "dev"

	verbose  bool
	cfgFile  string
	rVersion string
	pickR    bool

	rootCmd = &cobra.Command{
		Use:   "rt",
		Short: "Run R package tests with any installed R",
		Long: theme.Title.Render("rt") + theme.Subtitle.Render(" - R test runner") + `

rt finds the R installations on this machine and runs testthat
suites with the one you choose, the R on PATH by default.

` + theme.Subtitle.Render("Examples:") + `
  rt dir                    Test the package in the current directory
  rt file tests/testthat/test-io.R
  rt dir --r 4.3            Test with the newest installed R 4.3.x
  rt r-vers                 List installed R versions`,
		SilenceUsage: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			checkForUpdateBackground(cmd)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/rt/rt.json)")
	rootCmd.PersistentFlags().StringVar(&rVersion, "r", "", "R version to use, e.g. 4.3 or 4.3.1")
	rootCmd.PersistentFlags().BoolVar(&pickR, "pick", false, "choose the R installation interactively")
	rootCmd.MarkFlagsMutuallyExclusive("r", "pick")

	rootCmd.AddCommand(dirCmd)
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
