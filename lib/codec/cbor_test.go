// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/crossbuild/lib/platform"
)

type sampleArtifact struct {
	Target  platform.Platform `json:"target"`
	Path    string            `json:"path"`
	Size    int64             `json:"size,omitempty"`
	Created time.Time         `json:"created"`
}

func TestMarshalUnmarshalRoundtrip(t *testing.T) {
	original := sampleArtifact{
		Target:  platform.Platform{OS: "linux", Arch: "arm64"},
		Path:    "out/gem-linux-arm64",
		Size:    1 << 20,
		Created: time.Date(2026, 3, 4, 5, 6, 7, 890, time.UTC),
	}

	data, err := Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded sampleArtifact
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Target != original.Target || decoded.Path != original.Path || decoded.Size != original.Size {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
	if !decoded.Created.Equal(original.Created) {
		t.Errorf("Created = %v, want %v", decoded.Created, original.Created)
	}
}

func TestMarshalDeterministic(t *testing.T) {
	value := map[string]int{"windows": 3, "linux": 1, "darwin": 2}
	first, err := Marshal(value)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for range 10 {
		again, err := Marshal(value)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("Marshal produced different bytes for the same map")
		}
	}
}

func TestTextMarshalerEncodesAsString(t *testing.T) {
	data, err := Marshal(sampleArtifact{Target: platform.Platform{OS: "windows", Arch: "amd64"}})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	diagnostic, err := Diagnose(data)
	if err != nil {
		t.Fatalf("Diagnose: %v", err)
	}
	if !strings.Contains(diagnostic, `"target": "windows/amd64"`) {
		t.Errorf("diagnostic = %s, want the platform as a text string", diagnostic)
	}
	if strings.Contains(diagnostic, `"size"`) {
		t.Errorf("diagnostic = %s, want omitempty honoured from the json tag", diagnostic)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var decoded sampleArtifact
	if err := Unmarshal([]byte{0xff, 0x00}, &decoded); err == nil {
		t.Error("Unmarshal of invalid CBOR succeeded")
	}
}
