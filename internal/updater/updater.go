package updater

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"

	"rt/internal/config"
)

const (
	// CheckInterval is minimum time between update checks
	CheckInterval = 24 * time.Hour

	// UpdateTimeout is maximum time for update operations
	UpdateTimeout = 5 * time.Minute

	// BackgroundTimeout bounds the startup check
	BackgroundTimeout = 5 * time.Second
)

// DefaultRepository is the owner/repo publishing rt releases, set at link time
var DefaultRepository = ""

// ErrNoRepository is returned when no release repository is configured
var ErrNoRepository = errors.New("no release repository configured")

// Updater handles checking and applying updates
type Updater struct {
	config         *config.Config
	currentVersion string
	repository     string
	selfUpdater    *selfupdate.Updater
	logger         *log.Logger
}

// NewUpdater creates a new Updater instance.
// The repository from configuration wins over DefaultRepository.
func NewUpdater(cfg *config.Config, version string, logger *log.Logger) (*Updater, error) {
	repo := strings.TrimSpace(cfg.UpdateConfig.Repository)
	if repo == "" {
		repo = DefaultRepository
	}
	if !strings.Contains(repo, "/") {
		return nil, ErrNoRepository
	}

	su, err := selfupdate.NewUpdater(selfupdate.Config{
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: "SHA256SUMS.txt",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create updater: %w", err)
	}

	if logger == nil {
		logger = log.Default()
	}
	return &Updater{
		config:         cfg,
		currentVersion: cleanVersion(version),
		repository:     repo,
		selfUpdater:    su,
		logger:         logger,
	}, nil
}

// Repository returns the owner/repo releases are fetched from
func (u *Updater) Repository() string {
	return u.repository
}

// ShouldCheckForUpdate determines if an update check should be performed
// based on config settings and last check time
func (u *Updater) ShouldCheckForUpdate() bool {
	if !u.config.UpdateConfig.Enabled || !u.config.UpdateConfig.AutoCheck {
		return false
	}
	// Development builds have nothing to compare against
	if u.currentVersion == "dev" {
		return false
	}
	return time.Since(u.config.UpdateConfig.LastCheck) >= CheckInterval
}

// CheckForUpdate queries GitHub for the latest release.
// It returns nil when no update is available or the user skipped it.
func (u *Updater) CheckForUpdate(ctx context.Context) (*selfupdate.Release, error) {
	latest, found, err := u.selfUpdater.DetectLatest(ctx, selfupdate.ParseSlug(u.repository))
	if err != nil {
		return nil, fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("no releases found in %s", u.repository)
	}

	u.config.UpdateConfig.LastCheck = time.Now()
	if err := u.config.Save(); err != nil {
		u.logger.Warn("failed to save config", "path", u.config.Path(), "err", err)
	}

	if latest.LessOrEqual(u.currentVersion) {
		return nil, nil
	}
	if u.config.UpdateConfig.SkipVersion == latest.Version() {
		return nil, nil
	}
	return latest, nil
}

// PerformUpdate downloads and installs the update.
// The running binary is backed up and restored on failure.
func (u *Updater) PerformUpdate(ctx context.Context, release *selfupdate.Release) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to determine executable path: %w", err)
	}

	backup := exe + ".backup"
	if err := copyFile(exe, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, release.AssetURL, release.AssetName, exe); err != nil {
		if rollbackErr := os.Rename(backup, exe); rollbackErr != nil {
			return fmt.Errorf("update failed and rollback failed: update error: %w, rollback error: %v", err, rollbackErr)
		}
		return fmt.Errorf("update failed (rolled back): %w", err)
	}

	if err := os.Remove(backup); err != nil {
		u.logger.Debug("failed to remove backup", "path", backup, "err", err)
	}
	return nil
}

// SkipVersion marks a version as skipped by the user
func (u *Updater) SkipVersion(version string) error {
	u.config.UpdateConfig.SkipVersion = version
	return u.config.Save()
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0755)
}

// cleanVersion removes 'v' prefix if present for consistent comparison
func cleanVersion(version string) string {
	return strings.TrimPrefix(version, "v")
}
