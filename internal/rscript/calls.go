package rscript

import "strings"

var quoteReplacer = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "\t", `\t`)

// Quote returns s as a single-quoted R string literal
func Quote(s string) string {
	return "'" + quoteReplacer.Replace(s) + "'"
}

// TestPackage tests a package directory with devtools
func TestPackage(dir string) string {
	return "devtools::test(" + Quote(dir) + ")"
}

// TestFile tests a single file. Unless standalone, the package at pkgDir is
// loaded first so the file sees its internals.
func TestFile(file, pkgDir string, standalone bool) string {
	if standalone {
		return "testthat::test_file(" + Quote(file) + ")"
	}
	return "devtools::load_all(" + Quote(pkgDir) + ");testthat::test_file(" + Quote(file) + ")"
}
