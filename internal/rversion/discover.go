package rversion

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
)

// Options configures a discovery pass
type Options struct {
	// Fs is the filesystem to scan; defaults to the OS filesystem
	Fs afero.Fs
	// GOOS selects the probe; defaults to runtime.GOOS
	GOOS string
	// Home is the user's home directory; resolved when empty
	Home string
	// Extra roots from user configuration
	Extra Roots
	// Logger receives per-candidate diagnostics; defaults to discarding
	Logger *log.Logger
	// Resolver overrides the default-installation lookup
	Resolver DefaultResolver
	// QueryTimeout bounds each Rscript version query when positive
	QueryTimeout time.Duration
}

// DefaultResolver finds the installation on the command search path
type DefaultResolver interface {
	Resolve(ctx context.Context) (InstalledVersion, error)
}

// Discoverer runs discovery passes for one platform
type Discoverer struct {
	probe    Probe
	resolver DefaultResolver
	logger   *log.Logger
}

// NewDiscoverer selects the probe for the target OS
func NewDiscoverer(opts Options) (*Discoverer, error) {
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	logger := defaultLogger(opts.Logger)

	var probe Probe
	switch goos {
	case "darwin":
		probe = NewDarwinProbe(fsys, opts.Extra, logger)
	case "linux":
		lp := NewLinuxProbe(fsys, opts.Extra, logger)
		if opts.QueryTimeout > 0 {
			lp.SetQueryTimeout(opts.QueryTimeout)
		}
		probe = lp
	case "windows":
		home := opts.Home
		if home == "" {
			// an unresolvable home only drops that root
			home, _ = homedir.Dir()
		}
		extra := opts.Extra
		extra.Standalone = append(append([]string{}, extra.Standalone...), RegistryRoots()...)
		wp := NewWindowsProbe(fsys, home, extra, logger)
		if opts.QueryTimeout > 0 {
			wp.SetQueryTimeout(opts.QueryTimeout)
		}
		probe = wp
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}

	resolver := opts.Resolver
	if resolver == nil {
		r := NewResolver(fsys, probe.Parser(), logger)
		r.Windows = goos == "windows"
		resolver = r
	}

	return &Discoverer{probe: probe, resolver: resolver, logger: logger}, nil
}

// Probe returns the probe selected for this platform
func (d *Discoverer) Probe() Probe {
	return d.probe
}

// Discover runs the probe and marks the installation PATH resolves to
func (d *Discoverer) Discover(ctx context.Context) (*Report, error) {
	installs, err := d.probe.Discover(ctx)
	if err != nil {
		return nil, err
	}

	defaultIdx := -1
	def, err := d.resolver.Resolve(ctx)
	if err != nil {
		d.logger.Debug("no default R", "err", err)
	} else {
		defaultIdx = matchDefault(installs, def)
	}

	d.logger.Debug("discovery complete", "platform", d.probe.Name(), "found", len(installs), "default", defaultIdx >= 0)
	return NewReport(installs, defaultIdx), nil
}

// matchDefault returns the index of the first installation with def's version
func matchDefault(installs []InstalledVersion, def InstalledVersion) int {
	if def.Version == nil {
		return -1
	}
	for i, v := range installs {
		if v.Version != nil && v.Version.Equal(def.Version) {
			return i
		}
	}
	return -1
}

// Discover runs one discovery pass for the running OS
func Discover(ctx context.Context, opts Options) (*Report, error) {
	d, err := NewDiscoverer(opts)
	if err != nil {
		return nil, err
	}
	return d.Discover(ctx)
}
