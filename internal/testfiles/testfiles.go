// Package testfiles finds testthat test files inside an R package.
package testfiles

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/spf13/afero"
)

// Pattern matches test file names, compared in lower case
const Pattern = "test-*.r"

var fileGlob = glob.MustCompile(Pattern)

// testDirs is the directory chain under a package root holding the tests
var testDirs = []string{"tests", "testthat"}

// List returns the test files under pkgDir/tests/testthat. Directory and file
// names match case-insensitively. A package without tests yields no error.
func List(fsys afero.Fs, pkgDir string) ([]string, error) {
	dirs := []string{pkgDir}
	for _, name := range testDirs {
		var next []string
		for _, dir := range dirs {
			entries, err := afero.ReadDir(fsys, dir)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return nil, err
			}
			for _, entry := range entries {
				if entry.IsDir() && strings.EqualFold(entry.Name(), name) {
					next = append(next, filepath.Join(dir, entry.Name()))
				}
			}
		}
		dirs = next
	}

	var files []string
	for _, dir := range dirs {
		entries, err := afero.ReadDir(fsys, dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if !entry.IsDir() && fileGlob.Match(strings.ToLower(entry.Name())) {
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// IsPackage reports whether dir holds an R package DESCRIPTION file
func IsPackage(fsys afero.Fs, dir string) bool {
	info, err := fsys.Stat(filepath.Join(dir, "DESCRIPTION"))
	return err == nil && !info.IsDir()
}
