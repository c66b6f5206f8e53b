package stub

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/h2non/filetype"
)

// ErrNotExecutable is returned by Load for files that are neither a native
// executable image nor an interpreter script.
var ErrNotExecutable = errors.New("stub is not an executable image")

// sniffLen covers every magic number filetype inspects for executables.
const sniffLen = 262

// Load reads an operator-supplied stub (for example a desim-stub build for
// Windows) and pins it to digest. The file must already hash to digest.
func Load(path, digest string) (*Artifact, error) {
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return nil, fmt.Errorf("external stub %s: sha512 digest is required", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read external stub: %w", err)
	}

	got, err := Digest(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(got, digest) {
		return nil, &IntegrityError{Path: path, Want: digest, Got: got}
	}
	if !isExecutable(content) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExecutable)
	}
	return &Artifact{content: content, digest: strings.ToUpper(digest)}, nil
}

func isExecutable(content []byte) bool {
	if bytes.HasPrefix(content, []byte("#!")) {
		return true
	}
	head := content
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return false
	}
	switch kind.Extension {
	case "exe", "elf":
		return true
	default:
		return false
	}
}
