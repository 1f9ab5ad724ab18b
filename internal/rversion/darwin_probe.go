package rversion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// FrameworkRoot is where CRAN's macOS installer puts every R version
const FrameworkRoot = "/Library/Frameworks/R.framework/Versions"

// currentLinks name the framework's pointer to the active version.
// They designate an already listed version and are never listed themselves.
var currentLinks = map[string]bool{"current": true, "Current": true}

// DarwinProbe finds R framework installations on macOS
type DarwinProbe struct {
	Fs     afero.Fs
	Roots  Roots
	Logger *log.Logger

	parser *Parser
}

// NewDarwinProbe creates a macOS probe over the framework root plus extra roots
func NewDarwinProbe(fsys afero.Fs, extra Roots, logger *log.Logger) *DarwinProbe {
	return &DarwinProbe{
		Fs:     fsys,
		Roots:  Roots{Containers: []string{FrameworkRoot}}.With(extra),
		Logger: defaultLogger(logger),
		parser: NewParser(HeaderStrategy{Fs: fsys}),
	}
}

// Name returns the platform name
func (p *DarwinProbe) Name() string { return "macos" }

func (p *DarwinProbe) SearchRoots() Roots { return p.Roots }

// Parser returns the header-based parser
func (p *DarwinProbe) Parser() *Parser { return p.parser }

// Discover scans the framework versions. Finding nothing is an error on macOS
// because the framework location is canonical.
func (p *DarwinProbe) Discover(ctx context.Context) ([]InstalledVersion, error) {
	c := newCollector(p.Fs, false)
	var rootErr error

	for _, root := range p.Roots.Containers {
		if err := p.scanContainer(ctx, root, c); err != nil && rootErr == nil {
			rootErr = err
		}
	}
	scanStandalone(ctx, p.Fs, p.parser, p.Logger, p.Roots.Standalone, c)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(c.found) == 0 {
		if rootErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrProbeExhausted, rootErr)
		}
		return nil, ErrProbeExhausted
	}
	return c.found, nil
}

func (p *DarwinProbe) scanContainer(ctx context.Context, root string, c *collector) error {
	entries, err := readDir(p.Fs, p.Logger, root)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := entry.Name()
		isLink := entry.Mode()&os.ModeSymlink != 0
		if !(entry.IsDir() && startsWithMajor(name)) && !isLink {
			continue
		}

		resources := filepath.Join(root, name, "Resources")
		if !isDir(p.Fs, resources) {
			continue
		}

		v, ok := validate(ctx, p.Fs, p.parser, p.Logger, resources)
		if !ok {
			continue
		}
		if isLink && currentLinks[name] {
			p.Logger.Debug("framework current link", "link", name, "version", v)
			continue
		}
		c.add(v)
	}
	return nil
}
