package rversion

import (
	"context"
	"errors"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	v   InstalledVersion
	err error
}

func (f fakeResolver) Resolve(context.Context) (InstalledVersion, error) {
	return f.v, f.err
}

func resolvedAs(version string) fakeResolver {
	return fakeResolver{v: InstalledVersion{Version: semver.MustParse(version), Root: "/somewhere"}}
}

func linuxFixture(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/opt/R/4.2.3", "4.2.3")
	writePkgConfig(t, fsys, "/opt/R/4.3.1", "4.3.1")
	return fsys
}

func TestDiscover_MarksDefault(t *testing.T) {
	report, err := Discover(context.Background(), Options{
		Fs:       linuxFixture(t),
		GOOS:     "linux",
		Resolver: resolvedAs("4.3.1"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Len())

	def, ok := report.Default()
	require.True(t, ok)
	assert.Equal(t, "4.3.1", def.String())
	assert.Equal(t, "/opt/R/4.3.1", def.Root)
	assert.True(t, report.IsDefault(def))
}

func TestDiscover_DefaultNotDiscovered(t *testing.T) {
	report, err := Discover(context.Background(), Options{
		Fs:       linuxFixture(t),
		GOOS:     "linux",
		Resolver: resolvedAs("4.4.0"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Len())
	_, ok := report.Default()
	assert.False(t, ok)
}

func TestDiscover_DevelDoesNotMatchRelease(t *testing.T) {
	report, err := Discover(context.Background(), Options{
		Fs:       linuxFixture(t),
		GOOS:     "linux",
		Resolver: resolvedAs("4.3.1-devel"),
	})
	require.NoError(t, err)
	_, ok := report.Default()
	assert.False(t, ok)
}

func TestDiscover_NoDefaultOnPath(t *testing.T) {
	fsys := linuxFixture(t)
	d, err := NewDiscoverer(Options{Fs: fsys, GOOS: "linux"})
	require.NoError(t, err)
	d.resolver.(*Resolver).PathList = ""

	report, err := d.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4.2.3", "4.3.1"}, versions(report.Installations()))
	_, ok := report.Default()
	assert.False(t, ok)
}

func TestDiscover_ResolverErrorIsAbsorbed(t *testing.T) {
	report, err := Discover(context.Background(), Options{
		Fs:       linuxFixture(t),
		GOOS:     "linux",
		Resolver: fakeResolver{err: errors.New("boom")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Len())
}

func TestDiscover_UnsupportedPlatform(t *testing.T) {
	_, err := Discover(context.Background(), Options{Fs: afero.NewMemMapFs(), GOOS: "plan9"})
	assert.ErrorIs(t, err, ErrUnsupportedPlatform)
}

func TestDiscover_MacExhausted(t *testing.T) {
	_, err := Discover(context.Background(), Options{
		Fs:       afero.NewMemMapFs(),
		GOOS:     "darwin",
		Resolver: fakeResolver{err: ErrNotOnPath},
	})
	assert.ErrorIs(t, err, ErrProbeExhausted)
}

func TestDiscover_MacFramework(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeHeader(t, fsys, FrameworkRoot+"/4.3/Resources", "4", "3.1", "")
	writeHeader(t, fsys, FrameworkRoot+"/4.2/Resources", "4", "2.3", "")

	report, err := Discover(context.Background(), Options{
		Fs:       fsys,
		GOOS:     "darwin",
		Resolver: resolvedAs("4.2.3"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.2.3", "4.3.1"}, versions(report.Installations()))
	def, ok := report.Default()
	require.True(t, ok)
	assert.Equal(t, FrameworkRoot+"/4.2/Resources", def.Root)
}

func TestDiscover_WindowsHome(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/home/user/R-4.3.1", "4.3.1")

	report, err := Discover(context.Background(), Options{
		Fs:       fsys,
		GOOS:     "windows",
		Home:     "/home/user",
		Resolver: fakeResolver{err: ErrNotOnPath},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.3.1"}, versions(report.Installations()))
}

func TestDiscover_SelectsProbe(t *testing.T) {
	for goos, name := range map[string]string{"darwin": "macos", "linux": "linux", "windows": "windows"} {
		d, err := NewDiscoverer(Options{Fs: afero.NewMemMapFs(), GOOS: goos, Home: "/home/user"})
		require.NoError(t, err)
		assert.Equal(t, name, d.Probe().Name())
	}
}

func TestDiscover_SearchRootsIncludeExtra(t *testing.T) {
	d, err := NewDiscoverer(Options{
		Fs:    afero.NewMemMapFs(),
		GOOS:  "linux",
		Extra: Roots{Containers: []string{"/srv/R"}, Standalone: []string{"/srv/r-devel"}},
	})
	require.NoError(t, err)

	roots := d.Probe().SearchRoots()
	assert.Equal(t, append(append([]string{}, LinuxVersionRoots...), "/srv/R"), roots.Containers)
	assert.Equal(t, append(append([]string{}, LinuxStandaloneRoots...), "/srv/r-devel"), roots.Standalone)
}

func TestReport(t *testing.T) {
	installs := []InstalledVersion{
		{Version: semver.MustParse("4.3.1"), Root: "/opt/R/4.3.1"},
		{Version: semver.MustParse("3.6.3"), Root: "/opt/R/3.6.3"},
		{Version: semver.MustParse("4.3.2"), Root: "/opt/R/4.3.2"},
	}
	report := NewReport(installs, 0)

	t.Run("InstallationsIsACopy", func(t *testing.T) {
		got := report.Installations()
		got[0].Root = "/elsewhere"
		assert.Equal(t, "/opt/R/4.3.1", report.Installations()[0].Root)
	})

	t.Run("Sorted", func(t *testing.T) {
		assert.Equal(t, []string{"3.6.3", "4.3.1", "4.3.2"}, versions(report.Sorted()))
		assert.Equal(t, []string{"4.3.1", "3.6.3", "4.3.2"}, versions(report.Installations()))
	})

	t.Run("Find", func(t *testing.T) {
		v, ok := report.Find("4.3")
		require.True(t, ok)
		assert.Equal(t, "4.3.2", v.String())

		v, ok = report.Find("4.3.1")
		require.True(t, ok)
		assert.Equal(t, "/opt/R/4.3.1", v.Root)

		_, ok = report.Find("5")
		assert.False(t, ok)

		_, ok = report.Find("not a version")
		assert.False(t, ok)
	})

	t.Run("NoDefault", func(t *testing.T) {
		_, ok := NewReport(installs, -1).Default()
		assert.False(t, ok)
	})
}
