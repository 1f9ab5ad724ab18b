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

func TestLinuxProbe_VersionRoots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/opt/R/4.3.1", "4.3.1")
	writePkgConfig(t, fsys, "/opt/R/4.2.3", "4.2.3")
	writePkgConfig(t, fsys, "/opt/R/devel", "4.5.0")
	writePkgConfig(t, fsys, "/opt/local/R/3.6.3", "3.6.3")
	writeFile(t, fsys, "/opt/R/4.0.0", "stray file", 0o644)
	require.NoError(t, fsys.MkdirAll("/opt/R/4.1.0/lib", 0o755))

	installs, err := NewLinuxProbe(fsys, Roots{}, nil).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4.2.3", "4.3.1", "3.6.3"}, versions(installs))
	assert.Equal(t, "/opt/R/4.2.3", installs[0].Root)
}

func TestLinuxProbe_Standalone(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/usr/lib/R", "4.3.2")
	writePkgConfig(t, fsys, "/usr/local/lib/R", "4.1.0")

	installs, err := NewLinuxProbe(fsys, Roots{}, nil).Discover(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"4.3.2", "4.1.0"}, versions(installs))
	assert.Equal(t, "/usr/lib/R", installs[0].Root)
}

func TestLinuxProbe_MissingStandaloneIsNotAnError(t *testing.T) {
	fsys := afero.NewMemMapFs()
	p := NewLinuxProbe(fsys, Roots{}, nil)
	p.Roots = Roots{Standalone: []string{"/does/not/exist"}}

	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installs)
}

func TestLinuxProbe_NothingInstalled(t *testing.T) {
	installs, err := NewLinuxProbe(afero.NewMemMapFs(), Roots{}, nil).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installs)
}

func TestLinuxProbe_NoDuplicateRoots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/opt/R/4.3.1", "4.3.1")

	p := NewLinuxProbe(fsys, Roots{
		Containers: []string{"/opt/R"},
		Standalone: []string{"/opt/R/4.3.1", "/opt/R/4.3.1/"},
	}, nil)

	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	require.Len(t, installs, 1)
	assert.Equal(t, "/opt/R/4.3.1", installs[0].Root)
}

func TestLinuxProbe_RejectsWithoutEvidence(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/usr/lib/R/bin", 0o755))
	writeFile(t, fsys, "/opt/R/4.2.0/lib/pkgconfig/libR.pc", "Version: broken\n", 0o644)

	installs, err := NewLinuxProbe(fsys, Roots{}, nil).Discover(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installs)
}

func TestLinuxProbe_Cancelled(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writePkgConfig(t, fsys, "/usr/lib/R", "4.3.2")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLinuxProbe(fsys, Roots{}, nil).Discover(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinuxProbe_QueryTimeout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "R", "4.3.1")
	writeFakeRscript(t, root, "4.3.1")
	writeFile(t, afero.NewOsFs(), RscriptPath(root, false), "#!/bin/sh\nexec sleep 5\n", 0o755)

	p := NewLinuxProbe(afero.NewOsFs(), Roots{Standalone: []string{root}}, nil)
	p.SetQueryTimeout(100 * time.Millisecond)

	start := time.Now()
	installs, err := p.Discover(context.Background())
	require.NoError(t, err)
	for _, v := range installs {
		assert.NotEqual(t, root, v.Root)
	}
	assert.Less(t, time.Since(start), 4*time.Second)
}
