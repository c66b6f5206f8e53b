// Package autostart persists one value that makes the desim executable start
// at login. On Windows the value lives under the registry Run key; elsewhere
// the same scope layout is kept in bbolt files.
//
// A Manager is not safe for concurrent use.
package autostart

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"desim/internal/toggle"
)

const (
	// RunKey is the scope holding per-program login commands.
	RunKey = `Software\Microsoft\Windows\CurrentVersion\Run`
	// ValueName is the name desim registers itself under.
	ValueName = "des"
)

var (
	ErrPersistence = errors.New("autostart store unavailable")
	ErrPath        = errors.New("executable path not representable")
)

// executable is swapped in tests.
var executable = os.Executable

// Manager owns the open scope and the cached enabled flag.
type Manager struct {
	stores  []Store
	scope   Scope
	store   string
	enabled bool
}

// New returns a manager that tries stores in order on Init.
func New(stores ...Store) *Manager {
	return &Manager{stores: stores}
}

// Init opens the Run scope in the first store that accepts it and reports
// whether the stored value points at the running executable.
func (m *Manager) Init() (bool, error) {
	m.Destroy()
	m.enabled = false

	var errs []error
	for _, st := range m.stores {
		sc, err := st.OpenScope(RunKey)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.Name(), err))
			continue
		}
		m.scope = sc
		m.store = st.Name()
		break
	}
	if m.scope == nil {
		if len(errs) == 0 {
			return false, fmt.Errorf("%w: no store configured", ErrPersistence)
		}
		return false, fmt.Errorf("%w: %w", ErrPersistence, errors.Join(errs...))
	}

	enabled, err := m.query()
	if err != nil {
		return false, err
	}
	m.enabled = enabled
	return enabled, nil
}

func (m *Manager) query() (bool, error) {
	raw, err := m.scope.RawString(ValueName)
	switch {
	case errors.Is(err, ErrValueNotFound), errors.Is(err, ErrWrongType):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: read %s: %w", ErrPersistence, ValueName, err)
	}
	path, err := currentPath()
	if err != nil {
		return false, err
	}
	return bytes.Equal(raw, m.scope.Encode(path)), nil
}

// Store names the store Init settled on; empty before Init.
func (m *Manager) Store() string {
	return m.store
}

// Enable registers the running executable. The id is ignored.
func (m *Manager) Enable(_ toggle.ID) error {
	if m.scope == nil {
		return fmt.Errorf("%w: not initialized", ErrPersistence)
	}
	path, err := currentPath()
	if err != nil {
		return err
	}
	if err := m.scope.SetString(ValueName, path); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrPersistence, ValueName, err)
	}
	m.enabled = true
	return nil
}

// Disable removes the value. A missing value counts as disabled.
func (m *Manager) Disable(_ toggle.ID) error {
	if m.scope == nil {
		return fmt.Errorf("%w: not initialized", ErrPersistence)
	}
	if err := m.scope.DeleteValue(ValueName); err != nil && !errors.Is(err, ErrValueNotFound) {
		return fmt.Errorf("%w: delete %s: %w", ErrPersistence, ValueName, err)
	}
	m.enabled = false
	return nil
}

// IsEnabled returns the cached state.
func (m *Manager) IsEnabled(_ toggle.ID) bool {
	return m.enabled
}

// Destroy closes the scope.
func (m *Manager) Destroy() {
	if m.scope != nil {
		_ = m.scope.Close()
	}
	m.scope = nil
	m.store = ""
}

func currentPath() (string, error) {
	p, err := executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPath, err)
	}
	if !filepath.IsAbs(p) {
		if p, err = filepath.Abs(p); err != nil {
			return "", fmt.Errorf("%w: %w", ErrPath, err)
		}
	}
	if !utf8.ValidString(p) || strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q", ErrPath, p)
	}
	return p, nil
}
