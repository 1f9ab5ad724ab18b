package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
)

// DefaultQueryTimeout bounds a single Rscript version query
const DefaultQueryTimeout = 30 * time.Second

// Config holds the application configuration
type Config struct {
	CustomPaths  []string     `json:"custom_paths"`            // Specific R installation roots
	SearchPaths  []string     `json:"search_paths"`            // Directories holding one R version per subdirectory
	QueryTimeout string       `json:"query_timeout,omitempty"` // Limit for Rscript version queries (e.g. "30s")
	UpdateConfig UpdateConfig `json:"update_config"`           // Auto-update configuration
	configPath   string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`              // Master toggle for update functionality
	AutoCheck   bool      `json:"auto_check"`           // Check for updates on startup
	LastCheck   time.Time `json:"last_check"`           // Last time update check was performed
	SkipVersion string    `json:"skip_version"`         // Version user chose to skip
	Repository  string    `json:"repository,omitempty"` // GitHub owner/repo publishing releases
}

// Load loads the configuration from the user's config directory
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads the configuration from a specific file.
// A missing file yields the default configuration.
func LoadFrom(configPath string) (*Config, error) {
	cfg := &Config{
		CustomPaths: make([]string, 0),
		SearchPaths: make([]string, 0),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: configPath,
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Remove BOM if present (UTF-8 BOM is EF BB BF)
	// This handles files created by PowerShell with Set-Content -Encoding UTF8
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	if _, err := cfg.QueryTimeoutDuration(); err != nil {
		return nil, err
	}

	cfg.CustomPaths = cleanPaths(cfg.CustomPaths)
	cfg.SearchPaths = cleanPaths(cfg.SearchPaths)
	cfg.configPath = configPath
	return cfg, nil
}

// cleanPaths drops empty entries and duplicates, keeping first occurrences
func cleanPaths(paths []string) []string {
	cleaned := make([]string, 0, len(paths))
	seen := make(map[string]bool)
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		key := strings.ToLower(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, p)
	}
	return cleaned
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := filepath.Dir(c.configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// Path returns the file the configuration is loaded from and saved to
func (c *Config) Path() string {
	return c.configPath
}

// QueryTimeoutDuration returns the configured Rscript query limit
func (c *Config) QueryTimeoutDuration() (time.Duration, error) {
	if strings.TrimSpace(c.QueryTimeout) == "" {
		return DefaultQueryTimeout, nil
	}
	d, err := time.ParseDuration(c.QueryTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid query_timeout %q: %w", c.QueryTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid query_timeout %q: must be positive", c.QueryTimeout)
	}
	return d, nil
}

// AddCustomPath adds an R installation root
func (c *Config) AddCustomPath(path string) bool {
	return addPath(&c.CustomPaths, path)
}

// RemoveCustomPath removes an R installation root
func (c *Config) RemoveCustomPath(path string) bool {
	return removePath(&c.CustomPaths, path)
}

// HasCustomPath checks if a path exists in custom paths
func (c *Config) HasCustomPath(path string) bool {
	return hasPath(c.CustomPaths, path)
}

// AddSearchPath adds a directory to scan for R versions
func (c *Config) AddSearchPath(path string) bool {
	return addPath(&c.SearchPaths, path)
}

// RemoveSearchPath removes a search path
func (c *Config) RemoveSearchPath(path string) bool {
	return removePath(&c.SearchPaths, path)
}

// HasSearchPath checks if a path exists in search paths
func (c *Config) HasSearchPath(path string) bool {
	return hasPath(c.SearchPaths, path)
}

func addPath(list *[]string, path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	path = filepath.Clean(path)
	if hasPath(*list, path) {
		return false
	}
	*list = append(*list, path)
	return true
}

func removePath(list *[]string, path string) bool {
	path = filepath.Clean(path)
	for i, p := range *list {
		if strings.EqualFold(p, path) {
			*list = append((*list)[:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

func hasPath(list []string, path string) bool {
	path = filepath.Clean(path)
	for _, p := range list {
		if strings.EqualFold(p, path) {
			return true
		}
	}
	return false
}

// getConfigPath returns the path to the configuration file
// Following XDG Base Directory specification
func getConfigPath() string {
	// Try XDG_CONFIG_HOME first (standard on Unix systems)
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		return filepath.Join(configHome, "rt", "rt.json")
	}

	// Fallback to $HOME/.config/rt/rt.json (XDG default)
	homeDir, err := homedir.Dir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", "rt", "rt.json")
}
