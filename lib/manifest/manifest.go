// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/crossbuild/lib/binhash"
	"github.com/bureau-foundation/crossbuild/lib/codec"
	"github.com/bureau-foundation/crossbuild/lib/matrix"
	"github.com/bureau-foundation/crossbuild/lib/platform"
	"github.com/bureau-foundation/crossbuild/lib/source"
)

// FormatVersion is the manifest schema version written by this package.
const FormatVersion = 1

// Manifest describes the artifacts of one matrix run.
type Manifest struct {
	FormatVersion int             `json:"format_version" yaml:"format_version"`
	Name          string          `json:"name" yaml:"name"`
	Module        string          `json:"module,omitempty" yaml:"module,omitempty"`
	Source        string          `json:"source" yaml:"source"`
	Revision      source.Revision `json:"revision" yaml:"revision"`
	Toolchain     string          `json:"toolchain,omitempty" yaml:"toolchain,omitempty"`
	Mode          matrix.Mode     `json:"mode" yaml:"mode"`
	Created       time.Time       `json:"created" yaml:"created"`
	Artifacts     []Artifact      `json:"artifacts" yaml:"artifacts"`
}

// Artifact is one produced binary.
type Artifact struct {
	Target platform.Platform `json:"target" yaml:"target"`
	Path   string            `json:"path" yaml:"path"`
	Size   int64             `json:"size" yaml:"size"`
	SHA256 binhash.Digest    `json:"sha256" yaml:"sha256"`
	BLAKE3 binhash.Digest    `json:"blake3" yaml:"blake3"`
}

// Metadata is the information about a run that the report does not
// carry.
type Metadata struct {
	Module    string
	Revision  source.Revision
	Toolchain string
}

// FromReport builds a manifest listing every successful outcome.
func FromReport(options matrix.Options, report *matrix.Report, metadata Metadata) *Manifest {
	manifest := &Manifest{
		FormatVersion: FormatVersion,
		Name:          options.Name,
		Module:        metadata.Module,
		Source:        options.Source,
		Revision:      metadata.Revision,
		Toolchain:     metadata.Toolchain,
		Mode:          report.Mode,
		Created:       report.Started.UTC(),
		Artifacts:     []Artifact{},
	}
	for _, outcome := range report.Succeeded() {
		if outcome.Digests == nil {
			continue
		}
		manifest.Artifacts = append(manifest.Artifacts, Artifact{
			Target: outcome.Invocation.Target,
			Path:   filepath.ToSlash(outcome.Invocation.Output),
			Size:   outcome.Digests.Size,
			SHA256: outcome.Digests.SHA256,
			BLAKE3: outcome.Digests.BLAKE3,
		})
	}
	return manifest
}

// Format is a manifest encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// FormatFor returns the encoding selected by path's extension.
func FormatFor(path string) (Format, error) {
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cbor":
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported manifest format %q (want .json, .yaml, .yml or .cbor)", extension)
	}
}

// Encode serializes manifest in format.
func Encode(manifest *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(2)
		if err := encoder.Encode(manifest); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
		return buffer.Bytes(), nil
	case FormatCBOR:
		return codec.Marshal(manifest)
	}
	return nil, fmt.Errorf("unknown manifest format %q", format)
}

// Decode parses data in format.
func Decode(data []byte, format Format) (*Manifest, error) {
	manifest := &Manifest{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, manifest)
	case FormatYAML:
		err = yaml.Unmarshal(data, manifest)
	case FormatCBOR:
		err = codec.Unmarshal(data, manifest)
	default:
		return nil, fmt.Errorf("unknown manifest format %q", format)
	}
	if err != nil {
		return nil, err
	}
	if manifest.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("manifest format version %d is not supported (want %d)", manifest.FormatVersion, FormatVersion)
	}
	return manifest, nil
}

// Write encodes manifest into path, creating parent directories.
func Write(fsys afero.Fs, path string, manifest *Manifest) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(manifest, format)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating manifest directory: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}

// Read decodes the manifest at path.
func Read(fsys afero.Fs, path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	manifest, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}
	return manifest, nil
}

// Mismatch describes an artifact whose file no longer matches the
// manifest.
type Mismatch struct {
	Artifact Artifact
	Reason   string
}

// Verify re-hashes every artifact and reports those that are missing
// or changed. An empty result means every artifact matches.
func Verify(fsys afero.Fs, manifest *Manifest) ([]Mismatch, error) {
	var mismatches []Mismatch
	for _, artifact := range manifest.Artifacts {
		path := filepath.FromSlash(artifact.Path)
		digests, err := binhash.HashFile(fsys, path)
		if err != nil {
			if exists, statErr := afero.Exists(fsys, path); statErr == nil && !exists {
				mismatches = append(mismatches, Mismatch{Artifact: artifact, Reason: "missing"})
				continue
			}
			return nil, err
		}
		switch {
		case digests.Size != artifact.Size:
			mismatches = append(mismatches, Mismatch{Artifact: artifact, Reason: fmt.Sprintf("size %d, want %d", digests.Size, artifact.Size)})
		case digests.SHA256 != artifact.SHA256:
			mismatches = append(mismatches, Mismatch{Artifact: artifact, Reason: "sha256 mismatch"})
		case digests.BLAKE3 != artifact.BLAKE3:
			mismatches = append(mismatches, Mismatch{Artifact: artifact, Reason: "blake3 mismatch"})
		}
	}
	return mismatches, nil
}

// ErrMismatch is returned by callers that treat any mismatch as fatal.
var ErrMismatch = errors.New("artifacts do not match the manifest")
