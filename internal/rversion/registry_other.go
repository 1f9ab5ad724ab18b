//go:build !windows

package rversion

// RegistryRoots returns nothing outside Windows
func RegistryRoots() []string {
	return nil
}
