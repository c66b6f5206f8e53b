package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"desim/internal/decoy"
)

const (
	envHome           = "DESIM_HOME"
	envKeepStubCopies = "DESIM_KEEP_STUB_COPIES"
	envSpawnRate      = "DESIM_SPAWN_RATE"
	envNotifications  = "DESIM_NOTIFICATIONS"

	defaultSystemDB = "/var/lib/desim/autostart.db"

	// snapshotDisabled as snapshot_path turns selection persistence off.
	snapshotDisabled = "-"
)

var (
	ErrInvalidSpawnRate = errors.New("spawn_rate must be >= 0")
	ErrUnknownDecoy     = errors.New("unknown decoy key")
	ErrIncompleteStub   = errors.New("stub.path and stub.sha512 must be set together")
)

// Config is everything the resident and the CLI need to agree on.
type Config struct {
	HomeDir        string
	KeepStubCopies bool
	DefaultDecoys  []string
	// Spawns per second; 0 means unlimited.
	SpawnRate     float64
	Notifications bool
	// Empty disables the selection snapshot.
	SnapshotPath string
	Autostart    AutostartConfig
	Stub         StubConfig
}

// AutostartConfig names the bbolt files used where there is no registry.
type AutostartConfig struct {
	PrimaryDB   string
	SecondaryDB string
}

// StubConfig points at an external stub binary. Empty uses the embedded one.
type StubConfig struct {
	Path   string
	SHA512 string
}

// Load builds a Config from defaults, an optional YAML file and environment
// overrides, in that order.
func Load(path string) (Config, error) {
	cfg := Config{
		KeepStubCopies: true,
		DefaultDecoys:  append([]string(nil), decoy.DefaultKeys...),
		Notifications:  true,
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	fillDerived(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(envHome); v != "" {
		cfg.HomeDir = v
	}

	if v := os.Getenv(envKeepStubCopies); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.KeepStubCopies = b
		} else {
			log.Printf("invalid %s value %q: %v", envKeepStubCopies, v, err)
		}
	}

	if v := os.Getenv(envSpawnRate); v != "" {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= 0 {
			cfg.SpawnRate = rate
		} else if err != nil {
			log.Printf("invalid %s value %q: %v", envSpawnRate, v, err)
		} else {
			log.Printf("invalid %s value %q: %v", envSpawnRate, v, ErrInvalidSpawnRate)
		}
	}

	if v := os.Getenv(envNotifications); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notifications = b
		} else {
			log.Printf("invalid %s value %q: %v", envNotifications, v, err)
		}
	}
}

// fillDerived resolves paths that default relative to the home directory.
func fillDerived(cfg *Config) {
	if cfg.HomeDir == "" {
		cfg.HomeDir = defaultHome()
	}
	switch cfg.SnapshotPath {
	case "":
		cfg.SnapshotPath = filepath.Join(cfg.HomeDir, "selection.json")
	case snapshotDisabled:
		cfg.SnapshotPath = ""
	}
	if cfg.Autostart.PrimaryDB == "" {
		cfg.Autostart.PrimaryDB = defaultSystemDB
	}
	if cfg.Autostart.SecondaryDB == "" {
		cfg.Autostart.SecondaryDB = filepath.Join(cfg.HomeDir, "autostart.db")
	}
	// Unknown keys are left for validate to report.
	for i, key := range cfg.DefaultDecoys {
		if def, ok := decoy.LookupKey(key); ok {
			cfg.DefaultDecoys[i] = def.Key
		}
	}
}

func defaultHome() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "desim")
	}
	return filepath.Join(os.TempDir(), "desim")
}

func (c Config) validate() error {
	if c.SpawnRate < 0 {
		return ErrInvalidSpawnRate
	}
	for _, key := range c.DefaultDecoys {
		if _, ok := decoy.LookupKey(key); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDecoy, key)
		}
	}
	if (c.Stub.Path == "") != (c.Stub.SHA512 == "") {
		return ErrIncompleteStub
	}
	return nil
}

type fileConfig struct {
	HomeDir        string   `yaml:"home_dir"`
	KeepStubCopies *bool    `yaml:"keep_stub_copies"`
	DefaultDecoys  []string `yaml:"default_decoys"`
	SpawnRate      *float64 `yaml:"spawn_rate"`
	Notifications  *bool    `yaml:"notifications"`
	SnapshotPath   string   `yaml:"snapshot_path"`
	Autostart      struct {
		PrimaryDB   string `yaml:"primary_db"`
		SecondaryDB string `yaml:"secondary_db"`
	} `yaml:"autostart"`
	Stub struct {
		Path   string `yaml:"path"`
		SHA512 string `yaml:"sha512"`
	} `yaml:"stub"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if raw.HomeDir != "" {
		cfg.HomeDir = raw.HomeDir
	}
	if raw.KeepStubCopies != nil {
		cfg.KeepStubCopies = *raw.KeepStubCopies
	}
	if raw.DefaultDecoys != nil {
		cfg.DefaultDecoys = raw.DefaultDecoys
	}
	if raw.SpawnRate != nil {
		if *raw.SpawnRate < 0 {
			return ErrInvalidSpawnRate
		}
		cfg.SpawnRate = *raw.SpawnRate
	}
	if raw.Notifications != nil {
		cfg.Notifications = *raw.Notifications
	}
	if raw.SnapshotPath != "" {
		cfg.SnapshotPath = raw.SnapshotPath
	}
	if raw.Autostart.PrimaryDB != "" {
		cfg.Autostart.PrimaryDB = raw.Autostart.PrimaryDB
	}
	if raw.Autostart.SecondaryDB != "" {
		cfg.Autostart.SecondaryDB = raw.Autostart.SecondaryDB
	}
	cfg.Stub.Path = raw.Stub.Path
	cfg.Stub.SHA512 = raw.Stub.SHA512
	return nil
}
