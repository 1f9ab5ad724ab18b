package rversion

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// MajorVersions are the leading digits of R version directories worth checking
const MajorVersions = "34"

// Probe enumerates candidate install roots for one operating system
type Probe interface {
	// Name returns the platform the probe targets
	Name() string
	// Parser returns the version parser the probe validates candidates with
	Parser() *Parser
	// SearchRoots returns every root the probe scans
	SearchRoots() Roots
	// Discover returns the valid installations in discovery order
	Discover(ctx context.Context) ([]InstalledVersion, error)
}

// Roots lists where a probe looks for installations
type Roots struct {
	// Containers hold one subdirectory per installed version
	Containers []string
	// Standalone paths are complete install roots themselves
	Standalone []string
}

// With returns a copy of r with extra roots appended
func (r Roots) With(extra Roots) Roots {
	return Roots{
		Containers: append(append([]string{}, r.Containers...), extra.Containers...),
		Standalone: append(append([]string{}, r.Standalone...), extra.Standalone...),
	}
}

// startsWithMajor reports whether a directory name looks like an R version
func startsWithMajor(name string) bool {
	return name != "" && strings.ContainsRune(MajorVersions, rune(name[0]))
}

// isDir reports whether path exists and is a directory, following symlinks
func isDir(fsys afero.Fs, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// collector accumulates installations, dropping repeated roots.
// On the OS filesystem roots are compared after resolving symlinks, so a
// link to an already listed install is dropped too.
type collector struct {
	foldCase bool
	resolve  func(string) (string, error)
	seen     map[string]bool
	found    []InstalledVersion
}

func newCollector(fsys afero.Fs, foldCase bool) *collector {
	c := &collector{foldCase: foldCase, seen: make(map[string]bool)}
	if _, ok := fsys.(*afero.OsFs); ok {
		c.resolve = filepath.EvalSymlinks
	}
	return c
}

func (c *collector) add(v InstalledVersion) bool {
	key := filepath.Clean(v.Root)
	if c.resolve != nil {
		if resolved, err := c.resolve(key); err == nil {
			key = resolved
		}
	}
	if c.foldCase {
		key = strings.ToLower(key)
	}
	if c.seen[key] {
		return false
	}
	c.seen[key] = true
	c.found = append(c.found, v)
	return true
}

// validate parses the candidate root; rejections are logged and reported as false
func validate(ctx context.Context, fsys afero.Fs, parser *Parser, logger *log.Logger, root string) (InstalledVersion, bool) {
	if !isDir(fsys, root) {
		logger.Debug("skipping candidate", "root", root, "err", os.ErrNotExist)
		return InstalledVersion{}, false
	}
	v, err := parser.Parse(ctx, root)
	if err != nil {
		logger.Debug("skipping candidate", "root", root, "err", err)
		return InstalledVersion{}, false
	}
	return InstalledVersion{Version: v, Root: filepath.Clean(root)}, true
}

// scanStandalone validates each path as an install root
func scanStandalone(ctx context.Context, fsys afero.Fs, parser *Parser, logger *log.Logger, paths []string, c *collector) {
	for _, root := range paths {
		if ctx.Err() != nil {
			return
		}
		if v, ok := validate(ctx, fsys, parser, logger, root); ok {
			c.add(v)
		}
	}
}

// readDir lists a container root, logging why it could not be read
func readDir(fsys afero.Fs, logger *log.Logger, root string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fsys, root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debug("search root does not exist", "root", root)
		} else {
			logger.Debug("failed to read search root", "root", root, "err", err)
		}
		return nil, err
	}
	return entries, nil
}

func defaultLogger(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.New(io.Discard)
}
