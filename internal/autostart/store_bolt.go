package autostart

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltTimeout = 3 * time.Second

// BoltStore keeps scopes as nested buckets of a bbolt file. The file is only
// held open for the duration of each operation so that one-shot commands can
// share it with a running resident.
type BoltStore struct {
	name string
	path string
}

// NewBoltStore returns a store backed by the bbolt file at path.
func NewBoltStore(name, path string) *BoltStore {
	return &BoltStore{name: name, path: path}
}

func (s *BoltStore) Name() string {
	return s.name
}

// OpenScope creates the bucket chain for a backslash separated path.
func (s *BoltStore) OpenScope(path string) (Scope, error) {
	segments := splitScope(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("empty scope path")
	}
	sc := &boltScope{file: s.path, segments: segments}
	err := sc.update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(segments[0]))
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", segments[0], err)
		}
		for _, seg := range segments[1:] {
			if b, err = b.CreateBucketIfNotExists([]byte(seg)); err != nil {
				return fmt.Errorf("create bucket %s: %w", seg, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

func splitScope(path string) []string {
	var out []string
	for _, seg := range strings.Split(path, `\`) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

type boltScope struct {
	file     string
	segments []string
}

func (sc *boltScope) open(readOnly bool) (*bolt.DB, error) {
	if !readOnly {
		if err := os.MkdirAll(filepath.Dir(sc.file), 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := bolt.Open(sc.file, 0o600, &bolt.Options{Timeout: boltTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}
	return db, nil
}

func (sc *boltScope) update(fn func(*bolt.Tx) error) error {
	db, err := sc.open(false)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Update(fn)
}

func (sc *boltScope) view(fn func(*bolt.Tx) error) error {
	db, err := sc.open(true)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.View(fn)
}

func (sc *boltScope) bucket(tx *bolt.Tx) (*bolt.Bucket, error) {
	b := tx.Bucket([]byte(sc.segments[0]))
	for _, seg := range sc.segments[1:] {
		if b == nil {
			break
		}
		b = b.Bucket([]byte(seg))
	}
	if b == nil {
		return nil, fmt.Errorf("scope %s is missing", strings.Join(sc.segments, `\`))
	}
	return b, nil
}

func (sc *boltScope) RawString(name string) ([]byte, error) {
	var out []byte
	err := sc.view(func(tx *bolt.Tx) error {
		b, err := sc.bucket(tx)
		if err != nil {
			return err
		}
		v := b.Get([]byte(name))
		if v == nil {
			return ErrValueNotFound
		}
		// Values are only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	return out, err
}

func (sc *boltScope) SetString(name, value string) error {
	return sc.update(func(tx *bolt.Tx) error {
		b, err := sc.bucket(tx)
		if err != nil {
			return err
		}
		return b.Put([]byte(name), sc.Encode(value))
	})
}

func (sc *boltScope) DeleteValue(name string) error {
	return sc.update(func(tx *bolt.Tx) error {
		b, err := sc.bucket(tx)
		if err != nil {
			return err
		}
		if b.Get([]byte(name)) == nil {
			return ErrValueNotFound
		}
		return b.Delete([]byte(name))
	})
}

// Encode stores strings as UTF-8 with a NUL terminator.
func (sc *boltScope) Encode(value string) []byte {
	return append([]byte(value), 0)
}

func (sc *boltScope) Close() error {
	return nil
}
