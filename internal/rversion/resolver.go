package rversion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// Resolver finds the installation that running plain "R" would start
type Resolver struct {
	Fs     afero.Fs
	Parser *Parser
	Logger *log.Logger
	// PathList is the command search path, in the OS's PATH format
	PathList string
	// Windows selects R.exe and case-insensitive matching
	Windows bool
	// EvalSymlinks resolves links to the real executable
	EvalSymlinks func(string) (string, error)
}

// NewResolver creates a resolver over the current process PATH
func NewResolver(fsys afero.Fs, parser *Parser, logger *log.Logger) *Resolver {
	r := &Resolver{
		Fs:       fsys,
		Parser:   parser,
		Logger:   defaultLogger(logger),
		PathList: os.Getenv("PATH"),
		Windows:  runtime.GOOS == "windows",
	}
	if _, ok := fsys.(*afero.OsFs); ok {
		r.EvalSymlinks = filepath.EvalSymlinks
	}
	return r
}

// Resolve returns the default installation. Every failure wraps ErrDefaultUnresolvable.
func (r *Resolver) Resolve(ctx context.Context) (InstalledVersion, error) {
	exe, err := r.LookPath()
	if err != nil {
		return InstalledVersion{}, fmt.Errorf("%w: %w", ErrDefaultUnresolvable, err)
	}

	resolved := exe
	if r.EvalSymlinks != nil {
		resolved, err = r.EvalSymlinks(exe)
		if err != nil {
			return InstalledVersion{}, fmt.Errorf("%w: failed to resolve %s: %w", ErrDefaultUnresolvable, exe, err)
		}
	}

	root, err := installRoot(resolved)
	if err != nil {
		return InstalledVersion{}, fmt.Errorf("%w: %w", ErrDefaultUnresolvable, err)
	}

	v, err := r.Parser.Parse(ctx, root)
	if err != nil {
		return InstalledVersion{}, fmt.Errorf("%w: %w", ErrDefaultUnresolvable, err)
	}
	r.Logger.Debug("resolved default R", "exe", exe, "root", root, "version", v)
	return InstalledVersion{Version: v, Root: root}, nil
}

// LookPath searches PathList for the R executable
func (r *Resolver) LookPath() (string, error) {
	name := "R"
	if r.Windows {
		name = "R.exe"
	}
	for _, dir := range filepath.SplitList(r.PathList) {
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		candidate := filepath.Join(dir, name)
		if r.isExecutable(candidate) {
			return candidate, nil
		}
	}
	return "", ErrNotOnPath
}

func (r *Resolver) isExecutable(path string) bool {
	info, err := r.Fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if r.Windows {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// installRoot walks up from <root>/bin/R to <root>
func installRoot(exe string) (string, error) {
	root := filepath.Clean(exe)
	for range 2 {
		parent := filepath.Dir(root)
		if parent == root {
			return "", fmt.Errorf("%w: %s", ErrNoParent, exe)
		}
		root = parent
	}
	return root, nil
}
