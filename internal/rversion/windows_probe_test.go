package rversion

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowsProbe_HomeOnly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	home := filepath.FromSlash("/home/user")
	writePkgConfig(t, fsys, filepath.Join(home, "R-4.3.1"), "4.3.1")
	writeFile(t, fsys, filepath.Join(home, "notes.txt"), "hello", 0o644)

	installs, err := NewWindowsProbe(fsys, home, Roots{}, nil).Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, installs, 1)
	assert.Equal(t, "4.3.1", installs[0].String())
	assert.Equal(t, filepath.Join(home, "R-4.3.1"), installs[0].Root)
}

func TestWindowsProbe_NoHome(t *testing.T) {
	p := NewWindowsProbe(afero.NewMemMapFs(), "", Roots{}, nil)
	assert.Equal(t, []string{WindowsDefaultRoot}, p.Roots.Containers)

	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installs)
}

func TestWindowsProbe_EveryDirectoryIsACandidate(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/programs/R")
	writePkgConfig(t, fsys, filepath.Join(root, "R-4.2.3"), "4.2.3")
	writePkgConfig(t, fsys, filepath.Join(root, "custom-build"), "4.4.0")
	require.NoError(t, fsys.MkdirAll(filepath.Join(root, "R-4.1.0", "bin"), 0o755))

	p := NewWindowsProbe(fsys, "", Roots{}, nil)
	p.Roots = Roots{Containers: []string{root}}

	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4.2.3", "4.4.0"}, versions(installs))
}

func TestWindowsProbe_DedupIgnoresCase(t *testing.T) {
	c := newCollector(afero.NewMemMapFs(), true)
	assert.True(t, c.add(InstalledVersion{Root: `C:\Program Files\R\R-4.3.1`}))
	assert.False(t, c.add(InstalledVersion{Root: `c:\program files\r\R-4.3.1`}))
	assert.Len(t, c.found, 1)
}

func TestWindowsProbe_StandaloneRoots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	home := filepath.FromSlash("/home/user")
	writePkgConfig(t, fsys, filepath.Join(home, "R-4.3.1"), "4.3.1")

	p := NewWindowsProbe(fsys, home, Roots{Standalone: []string{filepath.Join(home, "R-4.3.1")}}, nil)
	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, installs, 1)
}

func TestWindowsProbe_QueryTimeout(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, "R-4.3.1")
	writeFakeRscript(t, root, "4.3.1")
	writeFile(t, afero.NewOsFs(), RscriptPath(root, true), "#!/bin/sh\nexec sleep 5\n", 0o755)

	start := time.Now()
	report, err := Discover(context.Background(), Options{
		Fs:           afero.NewOsFs(),
		GOOS:         "windows",
		Home:         home,
		Resolver:     fakeResolver{err: ErrDefaultUnresolvable},
		QueryTimeout: 100 * time.Millisecond,
	})
	require.NoError(t, err)
	for _, v := range report.Installations() {
		assert.NotEqual(t, root, v.Root)
	}
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestWindowsProbe_QueryWithinTimeout(t *testing.T) {
	home := t.TempDir()
	root := filepath.Join(home, "R-4.3.1")
	writeFakeRscript(t, root, "4.3.1")
	writeFile(t, afero.NewOsFs(), RscriptPath(root, true), "#!/bin/sh\nprintf '%s\\n' '4.3.1'\n", 0o755)

	p := NewWindowsProbe(afero.NewOsFs(), home, Roots{}, nil)
	p.SetQueryTimeout(5 * time.Second)

	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, installs, 1)
	assert.Equal(t, "4.3.1", installs[0].String())
}
