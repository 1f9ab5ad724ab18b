package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"rt/internal/theme"
	"rt/internal/updater"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update rt to the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		if !a.cfg.UpdateConfig.Enabled {
			fmt.Fprintln(a.out, theme.WarningMessage("Updates are disabled in configuration."))
			fmt.Fprintln(a.out, theme.Faint.Render("To enable, edit "+a.cfg.Path()+" and set update_config.enabled to true"))
			return nil
		}

		upd, err := updater.NewUpdater(a.cfg, Version, a.logger)
		if errors.Is(err, updater.ErrNoRepository) {
			fmt.Fprintln(a.out, theme.WarningMessage("No release repository configured."))
			fmt.Fprintln(a.out, theme.Faint.Render("Set update_config.repository to owner/repo in "+a.cfg.Path()))
			return nil
		}
		if err != nil {
			return err
		}

		updater.ShowCheckingForUpdates(a.out, upd.Repository())
		ctx, cancel := context.WithTimeout(cmd.Context(), updater.UpdateTimeout)
		defer cancel()

		release, err := upd.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if release == nil {
			updater.ShowAlreadyUpToDate(a.out, Version)
			return nil
		}

		action, err := upd.PromptForUpdate(release)
		if err != nil {
			fmt.Fprintln(a.out, theme.WarningMessage("Update cancelled."))
			return nil
		}
		switch action {
		case updater.ActionSkip:
			fmt.Fprintln(a.out, theme.InfoMessage(fmt.Sprintf("Skipped version %s", release.Version())))
			return nil
		case updater.ActionLater:
			fmt.Fprintln(a.out, theme.InfoMessage("Update postponed"))
			return nil
		}

		updater.ShowDownloadingUpdate(a.out, release.Version())
		if err := upd.PerformUpdate(ctx, release); err != nil {
			return err
		}
		updater.ShowUpdateSuccess(a.out, release.Version())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rt version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), theme.Title.Render("rt")+" "+Version)
	},
}

// checkForUpdateBackground prints a notice after a command when a newer
// release exists. Any failure is silent.
func checkForUpdateBackground(cmd *cobra.Command) {
	if cmd == updateCmd || cmd == versionCmd {
		return
	}
	a, err := newApp(cmd)
	if err != nil || !a.interactive {
		return
	}
	upd, err := updater.NewUpdater(a.cfg, Version, a.logger)
	if err != nil || !upd.ShouldCheckForUpdate() {
		return
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), updater.BackgroundTimeout)
	defer cancel()
	release, err := upd.CheckForUpdate(ctx)
	if err != nil {
		a.logger.Debug("update check failed", "err", err)
		return
	}
	if release != nil {
		updater.ShowUpdateNotification(a.errOut, Version, release.Version())
	}
}
