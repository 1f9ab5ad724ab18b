package rversion

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// InstalledVersion represents one R installation found on disk
type InstalledVersion struct {
	Version *semver.Version // Parsed version (e.g., "4.3.1", "4.4.0-devel")
	Root    string          // Install root containing bin, include, lib
}

// String returns the version as reported by R
func (v InstalledVersion) String() string {
	if v.Version == nil {
		return ""
	}
	return v.Version.String()
}

// Report is the result of a single discovery pass.
// It is never mutated after Discover returns it.
type Report struct {
	installations []InstalledVersion
	defaultIdx    int
}

// NewReport wraps installations; a negative defaultIdx means no default
func NewReport(installations []InstalledVersion, defaultIdx int) *Report {
	return &Report{installations: installations, defaultIdx: defaultIdx}
}

// Installations returns the discovered installations in discovery order
func (r *Report) Installations() []InstalledVersion {
	out := make([]InstalledVersion, len(r.installations))
	copy(out, r.installations)
	return out
}

// Len returns the number of discovered installations
func (r *Report) Len() int {
	return len(r.installations)
}

// Default returns the installation that PATH resolves to, if it was discovered
func (r *Report) Default() (InstalledVersion, bool) {
	if r.defaultIdx < 0 || r.defaultIdx >= len(r.installations) {
		return InstalledVersion{}, false
	}
	return r.installations[r.defaultIdx], true
}

// IsDefault reports whether v is the default installation
func (r *Report) IsDefault(v InstalledVersion) bool {
	def, ok := r.Default()
	return ok && def.Root == v.Root
}

// Sorted returns the installations ordered by ascending version
func (r *Report) Sorted() []InstalledVersion {
	out := r.Installations()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Version.LessThan(out[j].Version)
	})
	return out
}

// Find returns the first installation whose version matches the constraint.
// A bare "4.3" matches any 4.3.x, mirroring how users name R versions.
func (r *Report) Find(constraint string) (InstalledVersion, bool) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return InstalledVersion{}, false
	}
	sorted := r.Sorted()
	for i := len(sorted) - 1; i >= 0; i-- {
		if c.Check(sorted[i].Version) {
			return sorted[i], true
		}
	}
	return InstalledVersion{}, false
}
