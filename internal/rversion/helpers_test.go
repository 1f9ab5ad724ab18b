package rversion

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), perm))
}

func headerContent(major, minor, status string) string {
	return fmt.Sprintf(`/* Rversion.h.  Generated automatically. */
#ifndef R_VERSION_H
#define R_VERSION_H

#define R_VERSION 262913
#define R_NICK "Beagle Scouts"
#define R_Version(v,p,s) (((v) * 65536) + ((p) * 256) + (s))
#define R_MAJOR  %q
#define R_MINOR  %q
#define R_STATUS %q
#define R_YEAR   "2023"
#define R_MONTH  "06"
#define R_DAY    "16"

#endif /* not R_VERSION_H */
`, major, minor, status)
}

func pkgConfigContent(version string) string {
	return fmt.Sprintf(`rhome=/opt/R/%[1]s/lib/R
rlibdir=${rhome}/lib
rincludedir=/opt/R/%[1]s/lib/R/include

Name: libR
Description: R as a library
Version: %[1]s
Libs: -L${rlibdir} -lR
Cflags: -I${rincludedir} -I${rincludedir}
`, version)
}

func writeHeader(t *testing.T, fsys afero.Fs, root, major, minor, status string) {
	t.Helper()
	writeFile(t, fsys, filepath.Join(root, "include", HeaderFile), headerContent(major, minor, status), 0o644)
}

func writePkgConfig(t *testing.T, fsys afero.Fs, root, version string) {
	t.Helper()
	writeFile(t, fsys, filepath.Join(root, "lib", "pkgconfig", PkgConfigFile), pkgConfigContent(version), 0o644)
}

// writeFakeRscript installs a shell script that prints output in place of Rscript
func writeFakeRscript(t *testing.T, root, output string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake Rscript relies on a POSIX shell")
	}
	script := "#!/bin/sh\nprintf '%s\\n' '" + output + "'\n"
	writeFile(t, afero.NewOsFs(), RscriptPath(root, false), script, 0o755)
}

func skipWithoutSymlinks(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("symlink fixtures need a unix filesystem")
	}
}

func versions(installs []InstalledVersion) []string {
	out := make([]string, len(installs))
	for i, v := range installs {
		out[i] = v.String()
	}
	return out
}
