//go:build !windows

package autostart

// DefaultStores returns the system-wide database then the per-user one.
func DefaultStores(primaryDB, secondaryDB string) []Store {
	var stores []Store
	if primaryDB != "" {
		stores = append(stores, NewBoltStore("system", primaryDB))
	}
	if secondaryDB != "" {
		stores = append(stores, NewBoltStore("user", secondaryDB))
	}
	return stores
}
