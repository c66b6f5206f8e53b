// Package app is the application context shared by the CLI, the resident and
// the TUI. It is not safe for concurrent use: every method must run on the
// goroutine that dispatches UI events.
package app

import (
	"fmt"
	"log"

	"github.com/gen2brain/beeep"

	"desim/internal/autostart"
	"desim/internal/config"
	"desim/internal/decoy"
	"desim/internal/menu"
	"desim/internal/registry"
	"desim/internal/stub"
	"desim/internal/toggle"
)

const alertTitle = "desim"

// Package-level hooks swapped in tests.
var (
	loadConfig  = config.Load
	newLauncher = func(rate float64) decoy.Launcher { return decoy.NewExecLauncher(rate) }
	alert       = func(title, message string) error { return beeep.Alert(title, message, "") }

	autostartStores = autostart.DefaultStores
)

// Options configures the top-level controller.
type Options struct {
	// ConfigPath points to the optional YAML config file.
	ConfigPath string
}

// App holds every long-lived component.
type App struct {
	cfgPath string
	cfg     config.Config
	stub    *stub.Artifact

	reg      *registry.Registry
	auto     *autostart.Manager
	menu     *menu.Table
	switches *toggle.Table
}

// New loads the configuration and wires the components. No process is
// started and no store is opened until Init.
func New(opts Options) (*App, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	art := stub.Embedded()
	if cfg.Stub.Path != "" {
		if art, err = stub.Load(cfg.Stub.Path, cfg.Stub.SHA512); err != nil {
			return nil, err
		}
	}

	catalog := decoy.Catalog()
	rt := &decoy.Runtime{
		Dir:        cfg.HomeDir,
		Stub:       art,
		Launcher:   newLauncher(cfg.SpawnRate),
		KeepCopies: cfg.KeepStubCopies,
	}
	reg, err := registry.New(rt, catalog)
	if err != nil {
		return nil, err
	}
	reg.SnapshotPath = cfg.SnapshotPath

	tbl, err := menu.NewTable(catalog)
	if err != nil {
		return nil, err
	}

	a := &App{
		cfgPath:  opts.ConfigPath,
		cfg:      cfg,
		stub:     art,
		reg:      reg,
		auto:     autostart.New(autostartStores(cfg.Autostart.PrimaryDB, cfg.Autostart.SecondaryDB)...),
		menu:     tbl,
		switches: toggle.NewTable(),
	}
	if err := tbl.Bind(a.switches, menu.NewDecoySwitch(tbl, reg), a.auto); err != nil {
		return nil, err
	}
	return a, nil
}

// ConfigPath returns the configured config file path (if any).
func (a *App) ConfigPath() string {
	return a.cfgPath
}

// Config returns the effective configuration.
func (a *App) Config() config.Config {
	return a.cfg
}

// Init reads the autostart state and brings up the decoys: the saved
// selection when one exists, the configured defaults otherwise. Failures are
// reported and do not stop the remaining decoys.
func (a *App) Init() {
	if _, err := a.InitAutostart(); err != nil {
		a.Report("Unable to read the autostart setting:", err)
	}

	if a.cfg.SnapshotPath != "" {
		sel, found, err := registry.LoadSelection(a.cfg.SnapshotPath)
		if err != nil {
			a.Report("Unable to read the saved selection:", err)
		}
		if found {
			for _, err := range a.reg.Restore(sel) {
				a.Report("Unable to start decoy:", err)
			}
			return
		}
	}

	for _, key := range a.cfg.DefaultDecoys {
		id, ok := a.reg.Lookup(key)
		if !ok {
			log.Printf("default decoy %q is not registered", key)
			continue
		}
		if err := a.reg.Start(id); err != nil {
			name, _ := a.reg.Name(id)
			a.Report(fmt.Sprintf("Unable to start %s:", name), err)
		}
	}
}

// VerifyStub checks a file on disk against the stub in use.
func (a *App) VerifyStub(path string) error {
	return a.stub.Verify(path)
}

// SavedSelection reads the selection a resident last persisted.
func (a *App) SavedSelection() (registry.Selection, bool, error) {
	if a.cfg.SnapshotPath == "" {
		return registry.Selection{}, false, nil
	}
	return registry.LoadSelection(a.cfg.SnapshotPath)
}

// Toggle flips the checkmark item bound to cmd and returns its new state.
func (a *App) Toggle(cmd toggle.ID) (bool, error) {
	return a.switches.Flip(cmd)
}

// Pause stops every active decoy until Resume.
func (a *App) Pause() error {
	return a.reg.Pause()
}

// Resume restarts the decoys stopped by Pause.
func (a *App) Resume() error {
	return a.reg.Resume()
}

func (a *App) IsPaused() bool {
	return a.reg.IsPaused()
}

// Decoys returns a status row per registered decoy.
func (a *App) Decoys() []registry.Status {
	return a.reg.List()
}

// Close stops every decoy and releases the autostart store.
func (a *App) Close() {
	a.reg.Destroy()
	a.auto.Destroy()
}

// Report logs a failure and, when enabled, raises a desktop alert whose text
// is desc followed by the error.
func (a *App) Report(desc string, err error) {
	if err == nil {
		return
	}
	msg := desc + " " + err.Error()
	log.Print(msg)
	if !a.cfg.Notifications {
		return
	}
	if aerr := alert(alertTitle, msg); aerr != nil {
		log.Printf("alert failed: %v", aerr)
	}
}
