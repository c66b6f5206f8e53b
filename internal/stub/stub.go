// Package stub holds the executable image that decoys are dropped as and
// the integrity check every dropped copy must pass before it is run.
package stub

import (
	"crypto/sha512"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EmbeddedDigest is the SHA-512 of assets/desim-stub.sh. Regenerate with
// `sha512sum internal/stub/assets/desim-stub.sh` whenever the script changes.
const EmbeddedDigest = "E826D4C8FACA32B80C609F318E6FCC87BD8BEB9E71219B077621278EDCF97F7FA92488810F84449701B51449BCFF6303F4BF7D6AA03FCD27948F45B400A2A324"

//go:embed assets/desim-stub.sh
var embedded []byte

// ErrIntegrity matches every *IntegrityError.
var ErrIntegrity = errors.New("stub integrity check failed")

// IntegrityError reports a file whose digest differs from the expected stub digest.
type IntegrityError struct {
	Path string
	Want string
	Got  string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("stub hash mismatch for %s (possible tampering): got %s", e.Path, e.Got)
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Artifact is a stub image together with the digest it must hash to.
type Artifact struct {
	content []byte
	digest  string
}

// Embedded returns the stub compiled into the binary.
func Embedded() *Artifact {
	return &Artifact{content: embedded, digest: EmbeddedDigest}
}

// Content returns the raw image bytes. The slice must not be modified.
func (a *Artifact) Content() []byte {
	return a.content
}

// Digest returns the expected digest in hex.
func (a *Artifact) Digest() string {
	return a.digest
}

// Verify checks that the file at path hashes to the artifact digest.
// There is a window between Verify and the subsequent exec; callers should
// run the file right after a successful check.
func (a *Artifact) Verify(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open stub copy: %w", err)
	}
	defer f.Close()

	got, err := Digest(f)
	if err != nil {
		return fmt.Errorf("hash stub copy %s: %w", path, err)
	}
	if !strings.EqualFold(got, a.digest) {
		return &IntegrityError{Path: path, Want: a.digest, Got: got}
	}
	return nil
}

// Digest streams r through SHA-512 and renders the sum as uppercase hex.
func Digest(r io.Reader) (string, error) {
	h := sha512.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}
