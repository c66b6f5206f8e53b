package app

// InitAutostart opens the autostart store and reads the current state.
func (a *App) InitAutostart() (bool, error) {
	return a.auto.Init()
}

// AutostartEnabled returns the cached state read by InitAutostart.
func (a *App) AutostartEnabled() bool {
	return a.auto.IsEnabled(0)
}

// AutostartStore names the store in use, empty before InitAutostart.
func (a *App) AutostartStore() string {
	return a.auto.Store()
}

func (a *App) EnableAutostart() error {
	return a.auto.Enable(0)
}

func (a *App) DisableAutostart() error {
	return a.auto.Disable(0)
}
