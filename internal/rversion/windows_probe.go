package rversion

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// WindowsDefaultRoot is where the CRAN installer puts R-x.y.z directories
const WindowsDefaultRoot = `C:\Program Files\R`

// WindowsProbe finds R installations on Windows
type WindowsProbe struct {
	Fs     afero.Fs
	Roots  Roots
	Logger *log.Logger

	parser *Parser
}

// NewWindowsProbe creates a Windows probe. home is the user's home directory,
// resolved once by the caller; an empty home is skipped.
func NewWindowsProbe(fsys afero.Fs, home string, extra Roots, logger *log.Logger) *WindowsProbe {
	roots := Roots{Containers: []string{WindowsDefaultRoot}}
	if home != "" {
		roots.Containers = append(roots.Containers, home)
	}
	return &WindowsProbe{
		Fs:     fsys,
		Roots:  roots.With(extra),
		Logger: defaultLogger(logger),
		parser: NewParser(PkgConfigStrategy{Fs: fsys}, ExecStrategy{Fs: fsys, Windows: boolPtr(true)}),
	}
}

// SetQueryTimeout bounds each Rscript.exe version query
func (p *WindowsProbe) SetQueryTimeout(d time.Duration) {
	p.parser = NewParser(PkgConfigStrategy{Fs: p.Fs}, ExecStrategy{Fs: p.Fs, Windows: boolPtr(true), Timeout: d})
}

// Name returns the platform name
func (p *WindowsProbe) Name() string { return "windows" }

func (p *WindowsProbe) SearchRoots() Roots { return p.Roots }

// Parser returns the pkg-config parser with the Rscript.exe fallback
func (p *WindowsProbe) Parser() *Parser { return p.parser }

// Discover treats every subdirectory of each root as a candidate.
// Roots are probed independently and an empty result is not an error.
func (p *WindowsProbe) Discover(ctx context.Context) ([]InstalledVersion, error) {
	c := newCollector(p.Fs, true)

	for _, root := range p.Roots.Containers {
		entries, err := readDir(p.Fs, p.Logger, root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			if v, ok := validate(ctx, p.Fs, p.parser, p.Logger, filepath.Join(root, entry.Name())); ok {
				c.add(v)
			}
		}
	}
	scanStandalone(ctx, p.Fs, p.parser, p.Logger, p.Roots.Standalone, c)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.found, nil
}
