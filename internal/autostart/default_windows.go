//go:build windows

package autostart

import "golang.org/x/sys/windows/registry"

// DefaultStores returns HKLM then HKCU. The database paths are unused.
func DefaultStores(_, _ string) []Store {
	return []Store{
		NewRegistryStore("HKLM", registry.LOCAL_MACHINE),
		NewRegistryStore("HKCU", registry.CURRENT_USER),
	}
}
