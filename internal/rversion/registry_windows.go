//go:build windows

package rversion

import (
	"golang.org/x/sys/windows/registry"
)

const rCoreKey = `SOFTWARE\R-core\R`

// RegistryRoots returns the install paths the R installer recorded.
// Machine-wide installs are listed before per-user ones.
func RegistryRoots() []string {
	var roots []string
	for _, hive := range []registry.Key{registry.LOCAL_MACHINE, registry.CURRENT_USER} {
		if p := readInstallPath(hive); p != "" {
			roots = append(roots, p)
		}
	}
	return roots
}

func readInstallPath(hive registry.Key) string {
	key, err := registry.OpenKey(hive, rCoreKey, registry.QUERY_VALUE)
	if err != nil {
		return ""
	}
	defer key.Close()

	value, _, err := key.GetStringValue("InstallPath")
	if err != nil {
		return ""
	}
	return value
}
