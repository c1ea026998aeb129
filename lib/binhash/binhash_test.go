// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

func writeFile(t *testing.T, fsys afero.Fs, path string, content []byte) {
	t.Helper()
	if err := afero.WriteFile(fsys, path, content, 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestHashFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	content := []byte("gem built for linux/amd64")
	writeFile(t, fsys, "out/gem-linux-amd64", content)

	got, err := HashFile(fsys, "out/gem-linux-amd64")
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	if want := Digest(sha256.Sum256(content)); got.SHA256 != want {
		t.Errorf("SHA256 = %s, want %s", got.SHA256, want)
	}
	if want := Digest(blake3.Sum256(content)); got.BLAKE3 != want {
		t.Errorf("BLAKE3 = %s, want %s", got.BLAKE3, want)
	}
	if got.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", got.Size, len(content))
	}
}

func TestHashFileEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "empty", nil)

	got, err := HashFile(fsys, "empty")
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := Digest(sha256.Sum256(nil)); got.SHA256 != want {
		t.Errorf("SHA256(empty) = %s, want %s", got.SHA256, want)
	}
	if got.Size != 0 {
		t.Errorf("Size = %d, want 0", got.Size)
	}
}

func TestHashFileNonexistent(t *testing.T) {
	_, err := HashFile(afero.NewMemMapFs(), "does-not-exist")
	if err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
}

func TestHashReaderLarge(t *testing.T) {
	// Larger than io.Copy's buffer so the stream is hashed in chunks.
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}

	got, err := HashReader(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	if want := Digest(sha256.Sum256(content)); got.SHA256 != want {
		t.Errorf("SHA256 = %s, want %s", got.SHA256, want)
	}
	if want := Digest(blake3.Sum256(content)); got.BLAKE3 != want {
		t.Errorf("BLAKE3 = %s, want %s", got.BLAKE3, want)
	}
}

func TestFormatParseDigest(t *testing.T) {
	digest := Digest(sha256.Sum256([]byte("gem")))
	formatted := FormatDigest(digest)
	if len(formatted) != 64 {
		t.Fatalf("FormatDigest length = %d, want 64", len(formatted))
	}
	if formatted != strings.ToLower(formatted) {
		t.Errorf("FormatDigest = %q, want lowercase hex", formatted)
	}

	parsed, err := ParseDigest(formatted)
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != digest {
		t.Errorf("ParseDigest = %s, want %s", parsed, digest)
	}
}

func TestParseDigestErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", strings.Repeat("zz", 32)},
		{"too short", "abcd"},
		{"too long", strings.Repeat("ab", 33)},
		{"empty", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) succeeded, want error", test.input)
			}
		})
	}
}

func TestDigestsJSON(t *testing.T) {
	digests, err := HashReader(strings.NewReader("gem"))
	if err != nil {
		t.Fatalf("HashReader: %v", err)
	}
	encoded, err := json.Marshal(digests)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Contains(encoded, []byte(`"sha256":"`+digests.SHA256.String()+`"`)) {
		t.Errorf("JSON = %s, want hex sha256", encoded)
	}

	var decoded Digests
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded != digests {
		t.Errorf("decoded = %+v, want %+v", decoded, digests)
	}
}
