package stub

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestEmbeddedDigestMatchesContent(t *testing.T) {
	a := Embedded()
	got, err := Digest(bytes.NewReader(a.Content()))
	if err != nil {
		t.Fatalf("digest: %v", err)
	}
	if got != EmbeddedDigest {
		t.Fatalf("embedded digest constant is stale: content hashes to %s", got)
	}
}

func TestVerifyAcceptsIntactCopy(t *testing.T) {
	a := Embedded()
	path := writeFile(t, "VBoxTray.exe", a.Content())
	if err := a.Verify(path); err != nil {
		t.Fatalf("verify intact copy: %v", err)
	}
}

func TestVerifyIsCaseInsensitive(t *testing.T) {
	a := &Artifact{content: embedded, digest: strings.ToLower(EmbeddedDigest)}
	path := writeFile(t, "stub", embedded)
	if err := a.Verify(path); err != nil {
		t.Fatalf("verify with lowercase digest: %v", err)
	}
}

func TestVerifyRejectsAnySingleByteFlip(t *testing.T) {
	a := Embedded()
	content := a.Content()
	for _, idx := range []int{0, len(content) / 2, len(content) - 1} {
		tampered := append([]byte(nil), content...)
		tampered[idx] ^= 0x01
		path := writeFile(t, "tampered", tampered)

		err := a.Verify(path)
		if !errors.Is(err, ErrIntegrity) {
			t.Fatalf("byte %d flipped: expected integrity error, got %v", idx, err)
		}
		var ie *IntegrityError
		if !errors.As(err, &ie) || ie.Path != path {
			t.Fatalf("expected IntegrityError for %s, got %#v", path, err)
		}
	}
}

func TestVerifyMissingFileIsIOError(t *testing.T) {
	err := Embedded().Verify(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if errors.Is(err, ErrIntegrity) {
		t.Fatalf("missing file must not be reported as tampering: %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadScriptStub(t *testing.T) {
	script := []byte("#!/bin/sh\nexec sleep 3600\n")
	digest, _ := Digest(bytes.NewReader(script))
	path := writeFile(t, "custom-stub", script)

	a, err := Load(path, strings.ToLower(digest))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if a.Digest() != digest {
		t.Fatalf("expected normalized digest %s, got %s", digest, a.Digest())
	}
	if !bytes.Equal(a.Content(), script) {
		t.Fatal("content mismatch")
	}
}

func TestLoadRejectsDigestMismatch(t *testing.T) {
	path := writeFile(t, "custom-stub", []byte("#!/bin/sh\n"))
	_, err := Load(path, EmbeddedDigest)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("expected integrity error, got %v", err)
	}
}

func TestLoadRejectsNonExecutable(t *testing.T) {
	data := []byte("just some notes, not a program")
	digest, _ := Digest(bytes.NewReader(data))
	path := writeFile(t, "notes.txt", data)
	_, err := Load(path, digest)
	if !errors.Is(err, ErrNotExecutable) {
		t.Fatalf("expected ErrNotExecutable, got %v", err)
	}
}

func TestLoadRequiresDigest(t *testing.T) {
	path := writeFile(t, "custom-stub", []byte("#!/bin/sh\n"))
	if _, err := Load(path, "  "); err == nil {
		t.Fatal("expected error for empty digest")
	}
}
