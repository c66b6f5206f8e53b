package autostart

import "errors"

var (
	// ErrValueNotFound is returned by a Scope for a value that does not exist.
	ErrValueNotFound = errors.New("value not found")
	// ErrWrongType is returned by a Scope for a value that is not a string.
	ErrWrongType = errors.New("value is not a string")
)

// Store is one root of a hierarchical key/value store, for example a
// registry hive.
type Store interface {
	Name() string
	// OpenScope opens the scope at path, creating it if absent.
	OpenScope(path string) (Scope, error)
}

// Scope is an open key holding named string values.
type Scope interface {
	// RawString returns the stored bytes of a string value exactly as the
	// store keeps them, terminator included.
	RawString(name string) ([]byte, error)
	SetString(name, value string) error
	DeleteValue(name string) error
	// Encode renders value the way SetString would store it.
	Encode(value string) []byte
	Close() error
}
