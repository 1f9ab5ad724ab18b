package rversion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
)

const (
	// HeaderFile is the version header shipped with every R build
	HeaderFile = "Rversion.h"
	// PkgConfigFile describes libR for pkg-config consumers
	PkgConfigFile = "libR.pc"
	// RscriptName is the helper executable queried as a last resort
	RscriptName = "Rscript"

	develSuffix = "devel"

	// versionExpr prints "<major>.<minor>" where R's minor already carries the patch level
	versionExpr = `cat(R.version$major, R.version$minor, sep='.')`
)

var (
	majorPattern     = regexp.MustCompile(`(?m)^\s*#\s*define\s+R_MAJOR\s+"(\d+)"`)
	minorPattern     = regexp.MustCompile(`(?m)^\s*#\s*define\s+R_MINOR\s+"(\d+\.\d+)"`)
	statusPattern    = regexp.MustCompile(`(?m)^\s*#\s*define\s+R_STATUS\s+"([^"]*)"`)
	pkgConfigPattern = regexp.MustCompile(`(?m)^Version:\s*(\d+\.\d+\.\d+)\s*$`)
)

// Strategy extracts a version from one kind of evidence inside an install root.
// It returns an error wrapping ErrNoEvidence when its evidence does not exist.
type Strategy interface {
	Name() string
	Version(ctx context.Context, root string) (*semver.Version, error)
}

// Parser tries its strategies in order until one produces a version
type Parser struct {
	strategies []Strategy
}

// NewParser creates a parser from an ordered list of strategies
func NewParser(strategies ...Strategy) *Parser {
	return &Parser{strategies: strategies}
}

// Parse returns the version of the installation at root.
// A strategy is only followed by the next one when it found no evidence at all;
// evidence that exists but does not parse rejects the candidate.
func (p *Parser) Parse(ctx context.Context, root string) (*semver.Version, error) {
	var lastErr error
	for _, s := range p.strategies {
		v, err := s.Version(ctx, root)
		if err == nil {
			return v, nil
		}
		lastErr = fmt.Errorf("%s: %w", s.Name(), err)
		if !errors.Is(err, ErrNoEvidence) {
			break
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no version strategies configured")
	}
	return nil, fmt.Errorf("%w at %s: %w", ErrCandidateRejected, root, lastErr)
}

// parseStrict accepts only a complete semantic version (major.minor.patch[-pre])
func parseStrict(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}
	return v, nil
}

// readEvidence reads a file, mapping a missing file to ErrNoEvidence
func readEvidence(fsys afero.Fs, path string) ([]byte, error) {
	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoEvidence, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// HeaderStrategy reads include/Rversion.h
type HeaderStrategy struct {
	Fs afero.Fs
}

// Name returns the strategy name
func (HeaderStrategy) Name() string { return "header" }

// Version parses R_MAJOR, R_MINOR and R_STATUS from the version header
func (h HeaderStrategy) Version(_ context.Context, root string) (*semver.Version, error) {
	path := filepath.Join(root, "include", HeaderFile)
	data, err := readEvidence(h.Fs, path)
	if err != nil {
		return nil, err
	}
	return ParseHeader(data)
}

// ParseHeader extracts the version from the contents of Rversion.h
func ParseHeader(data []byte) (*semver.Version, error) {
	major := majorPattern.FindSubmatch(data)
	if major == nil {
		return nil, errors.New("R_MAJOR not found")
	}
	minor := minorPattern.FindSubmatch(data)
	if minor == nil {
		return nil, errors.New("R_MINOR not found")
	}
	status := statusPattern.FindSubmatch(data)
	if status == nil {
		return nil, errors.New("R_STATUS not found")
	}

	version := string(major[1]) + "." + string(minor[1])
	if len(bytes.TrimSpace(status[1])) > 0 {
		version += "-" + develSuffix
	}
	return parseStrict(version)
}

// PkgConfigStrategy reads lib/pkgconfig/libR.pc
type PkgConfigStrategy struct {
	Fs afero.Fs
}

// Name returns the strategy name
func (PkgConfigStrategy) Name() string { return "pkgconfig" }

// Version parses the Version line of libR.pc
func (p PkgConfigStrategy) Version(_ context.Context, root string) (*semver.Version, error) {
	path := filepath.Join(root, "lib", "pkgconfig", PkgConfigFile)
	data, err := readEvidence(p.Fs, path)
	if err != nil {
		return nil, err
	}
	return ParsePkgConfig(data)
}

// ParsePkgConfig extracts the version from the contents of libR.pc
func ParsePkgConfig(data []byte) (*semver.Version, error) {
	m := pkgConfigPattern.FindSubmatch(data)
	if m == nil {
		return nil, errors.New("failed to extract R version")
	}
	return parseStrict(string(m[1]))
}

// ExecStrategy runs bin/Rscript and asks R for its own version
type ExecStrategy struct {
	Fs afero.Fs
	// Windows selects the .exe suffix; defaults to the running OS when nil
	Windows *bool
	// Timeout bounds one query when positive
	Timeout time.Duration
}

// Name returns the strategy name
func (ExecStrategy) Name() string { return "rscript" }

// Version spawns Rscript inside root and parses what it prints
func (e ExecStrategy) Version(ctx context.Context, root string) (*semver.Version, error) {
	exe := RscriptPath(root, e.windows())
	info, err := e.Fs.Stat(exe)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoEvidence, exe)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", exe, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", exe)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, exe, "-e", versionExpr)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Env = append(os.Environ(), "R_DEFAULT_PACKAGES=NULL")
	cmd.WaitDelay = time.Second
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to run %s: %w", exe, err)
	}
	return parseStrict(stdout.String())
}

func (e ExecStrategy) windows() bool {
	if e.Windows != nil {
		return *e.Windows
	}
	return runtime.GOOS == "windows"
}

// RscriptPath returns the Rscript executable inside an install root
func RscriptPath(root string, windows bool) string {
	name := RscriptName
	if windows {
		name += ".exe"
	}
	return filepath.Join(root, "bin", name)
}
