// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/zeebo/blake3"
)

// Digest is a 32-byte hash value. Its text form is lowercase hex.
type Digest [32]byte

// Digests holds the hashes and size of one file.
type Digests struct {
	SHA256 Digest `json:"sha256" yaml:"sha256"`
	BLAKE3 Digest `json:"blake3" yaml:"blake3"`
	Size   int64  `json:"size" yaml:"size"`
}

// HashFile streams the file at path through SHA-256 and BLAKE3.
func HashFile(fsys afero.Fs, path string) (Digests, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return Digests{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	return HashReader(file)
}

// HashReader hashes everything read from reader.
func HashReader(reader io.Reader) (Digests, error) {
	sha := sha256.New()
	b3 := blake3.New()
	size, err := io.Copy(io.MultiWriter(sha, b3), reader)
	if err != nil {
		return Digests{}, fmt.Errorf("hashing: %w", err)
	}

	digests := Digests{Size: size}
	copy(digests.SHA256[:], sha.Sum(nil))
	copy(digests.BLAKE3[:], b3.Sum(nil))
	return digests, nil
}

// FormatDigest returns the hex-encoded form of digest.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 64-character hex string.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}

// String returns the hex-encoded digest.
func (d Digest) String() string { return FormatDigest(d) }

// IsZero reports whether d is the all-zero value.
func (d Digest) IsZero() bool { return d == Digest{} }

func (d Digest) MarshalText() ([]byte, error) {
	return []byte(FormatDigest(d)), nil
}

func (d *Digest) UnmarshalText(text []byte) error {
	parsed, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
