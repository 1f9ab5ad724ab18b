package rversion

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// LinuxVersionRoots hold one directory per R version, as laid out by rig or rstudio/r-builds
var LinuxVersionRoots = []string{
	"/opt/R",
	"/opt/local/R",
}

// LinuxStandaloneRoots are distribution package locations; each is a single install
var LinuxStandaloneRoots = []string{
	"/usr/lib/R",
	"/usr/lib64/R",
	"/usr/local/lib/R",
	"/usr/local/lib64/R",
	"/opt/local/lib/R",
	"/opt/local/lib64/R",
}

// LinuxProbe finds R installations on Linux
type LinuxProbe struct {
	Fs     afero.Fs
	Roots  Roots
	Logger *log.Logger

	parser *Parser
}

// NewLinuxProbe creates a Linux probe over the well-known roots plus extra roots
func NewLinuxProbe(fsys afero.Fs, extra Roots, logger *log.Logger) *LinuxProbe {
	return &LinuxProbe{
		Fs: fsys,
		Roots: Roots{
			Containers: LinuxVersionRoots,
			Standalone: LinuxStandaloneRoots,
		}.With(extra),
		Logger: defaultLogger(logger),
		parser: NewParser(PkgConfigStrategy{Fs: fsys}, ExecStrategy{Fs: fsys, Windows: boolPtr(false)}),
	}
}

// SetQueryTimeout bounds each Rscript version query
func (p *LinuxProbe) SetQueryTimeout(d time.Duration) {
	p.parser = NewParser(PkgConfigStrategy{Fs: p.Fs}, ExecStrategy{Fs: p.Fs, Windows: boolPtr(false), Timeout: d})
}

// Name returns the platform name
func (p *LinuxProbe) Name() string { return "linux" }

func (p *LinuxProbe) SearchRoots() Roots { return p.Roots }

// Parser returns the pkg-config parser with the Rscript fallback
func (p *LinuxProbe) Parser() *Parser { return p.parser }

// Discover scans version roots, then standalone roots. Missing roots are
// normal on Linux, so an empty result is not an error.
func (p *LinuxProbe) Discover(ctx context.Context) ([]InstalledVersion, error) {
	c := newCollector(p.Fs, false)

	for _, root := range p.Roots.Containers {
		entries, err := readDir(p.Fs, p.Logger, root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || !startsWithMajor(entry.Name()) {
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

func boolPtr(b bool) *bool { return &b }
