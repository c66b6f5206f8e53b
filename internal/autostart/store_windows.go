//go:build windows

package autostart

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"

	"golang.org/x/sys/windows/registry"
)

// RegistryStore is a registry hive such as HKEY_LOCAL_MACHINE.
type RegistryStore struct {
	name string
	root registry.Key
}

func NewRegistryStore(name string, root registry.Key) *RegistryStore {
	return &RegistryStore{name: name, root: root}
}

func (s *RegistryStore) Name() string {
	return s.name
}

func (s *RegistryStore) OpenScope(path string) (Scope, error) {
	k, _, err := registry.CreateKey(s.root, path, registry.QUERY_VALUE|registry.SET_VALUE)
	if err != nil {
		return nil, fmt.Errorf("create key %s: %w", path, err)
	}
	return &registryScope{key: k}, nil
}

type registryScope struct {
	key registry.Key
}

func (sc *registryScope) RawString(name string) ([]byte, error) {
	buf := make([]byte, 512)
	n, typ, err := sc.key.GetValue(name, buf)
	if errors.Is(err, registry.ErrShortBuffer) {
		buf = make([]byte, n)
		n, typ, err = sc.key.GetValue(name, buf)
	}
	if errors.Is(err, registry.ErrNotExist) {
		return nil, ErrValueNotFound
	}
	if err != nil {
		return nil, err
	}
	if typ != registry.SZ {
		return nil, ErrWrongType
	}
	return buf[:n], nil
}

func (sc *registryScope) SetString(name, value string) error {
	return sc.key.SetStringValue(name, value)
}

func (sc *registryScope) DeleteValue(name string) error {
	err := sc.key.DeleteValue(name)
	if errors.Is(err, registry.ErrNotExist) {
		return ErrValueNotFound
	}
	return err
}

// Encode renders value as REG_SZ data: UTF-16LE with a NUL terminator.
func (sc *registryScope) Encode(value string) []byte {
	units := utf16.Encode([]rune(value))
	out := make([]byte, 0, 2*(len(units)+1))
	for _, u := range units {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return append(out, 0, 0)
}

func (sc *registryScope) Close() error {
	return sc.key.Close()
}
