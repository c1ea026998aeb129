// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMatrixOrder(t *testing.T) {
	t.Parallel()

	got := Matrix([]string{"amd64", "arm64"}, []string{"linux", "darwin", "windows"})
	want := []Platform{
		{OS: "linux", Arch: "amd64"},
		{OS: "darwin", Arch: "amd64"},
		{OS: "windows", Arch: "amd64"},
		{OS: "linux", Arch: "arm64"},
		{OS: "darwin", Arch: "arm64"},
		{OS: "windows", Arch: "arm64"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Matrix mismatch (-want +got):\n%s", diff)
	}
}

func TestMatrixDropsDuplicates(t *testing.T) {
	t.Parallel()

	got := Matrix([]string{"amd64", "amd64"}, []string{"linux", "linux"})
	if len(got) != 1 {
		t.Fatalf("Matrix = %v, want a single platform", got)
	}
	if got[0] != (Platform{OS: "linux", Arch: "amd64"}) {
		t.Errorf("Matrix[0] = %v, want linux/amd64", got[0])
	}
}

func TestMatrixEmpty(t *testing.T) {
	t.Parallel()

	if got := Matrix(nil, []string{"linux"}); len(got) != 0 {
		t.Errorf("Matrix(nil, [linux]) = %v, want empty", got)
	}
}

func TestExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		os   string
		want string
	}{
		{"windows", ".exe"},
		{"linux", ""},
		{"darwin", ""},
		{"freebsd", ""},
	}
	for _, test := range tests {
		if got := Extension(test.os); got != test.want {
			t.Errorf("Extension(%q) = %q, want %q", test.os, got, test.want)
		}
	}

	if got := (Platform{OS: "windows", Arch: "arm64"}).Extension(); got != ".exe" {
		t.Errorf("windows/arm64 Extension() = %q, want .exe", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		want      Platform
	}{
		{"linux/amd64", Platform{OS: "linux", Arch: "amd64"}},
		{"darwin/arm64", Platform{OS: "darwin", Arch: "arm64"}},
		{"windows/amd64", Platform{OS: "windows", Arch: "amd64"}},
		{"linux/aarch64", Platform{OS: "linux", Arch: "arm64"}},
		{"linux/x86_64", Platform{OS: "linux", Arch: "amd64"}},
		{"linux/arm", Platform{OS: "linux", Arch: "arm"}},
		{"linux/arm/v6", Platform{OS: "linux", Arch: "arm", Variant: "v6"}},
		{"Linux/AMD64", Platform{OS: "linux", Arch: "amd64"}},
	}
	for _, test := range tests {
		t.Run(test.specifier, func(t *testing.T) {
			got, err := Parse(test.specifier)
			if err != nil {
				t.Fatalf("Parse(%q): %v", test.specifier, err)
			}
			if got != test.want {
				t.Errorf("Parse(%q) = %+v, want %+v", test.specifier, got, test.want)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		specifier string
		contains  string
	}{
		{"linux", "expected os/arch"},
		{"", "expected os/arch"},
		{"linux/", "empty component"},
		{"/amd64", "empty component"},
		{"beos/amd64", "unknown operating system"},
		{"linux/vax", "unknown architecture"},
		{"linux/amd64/v2/extra", "expected os/arch"},
	}
	for _, test := range tests {
		t.Run(test.specifier, func(t *testing.T) {
			_, err := Parse(test.specifier)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", test.specifier)
			}
			if !strings.Contains(err.Error(), test.contains) {
				t.Errorf("Parse(%q) error = %v, want error containing %q", test.specifier, err, test.contains)
			}
		})
	}
}

func TestParseAllStopsAtFirstError(t *testing.T) {
	t.Parallel()

	_, err := ParseAll([]string{"linux/amd64", "nope", "darwin/arm64"})
	if err == nil {
		t.Fatal("ParseAll should fail on an invalid specifier")
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("error = %v, want it to name the bad specifier", err)
	}
}

func TestEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		platform Platform
		want     []string
	}{
		{Platform{OS: "linux", Arch: "amd64"}, []string{"GOOS=linux", "GOARCH=amd64"}},
		{Platform{OS: "linux", Arch: "arm", Variant: "v6"}, []string{"GOOS=linux", "GOARCH=arm", "GOARM=6"}},
		{Platform{OS: "linux", Arch: "amd64", Variant: "v3"}, []string{"GOOS=linux", "GOARCH=amd64", "GOAMD64=v3"}},
		{Platform{OS: "darwin", Arch: "arm64", Variant: "v8"}, []string{"GOOS=darwin", "GOARCH=arm64", "GOARM64=v8.0"}},
		{Platform{OS: "linux", Arch: "riscv64", Variant: "rva20u64"}, []string{"GOOS=linux", "GOARCH=riscv64"}},
	}
	for _, test := range tests {
		if diff := cmp.Diff(test.want, test.platform.Env()); diff != "" {
			t.Errorf("%s Env() mismatch (-want +got):\n%s", test.platform, diff)
		}
	}
}

func TestStringAndSuffix(t *testing.T) {
	t.Parallel()

	plain := Platform{OS: "linux", Arch: "amd64"}
	if got := plain.String(); got != "linux/amd64" {
		t.Errorf("String() = %q, want linux/amd64", got)
	}
	if got := plain.Suffix(); got != "linux-amd64" {
		t.Errorf("Suffix() = %q, want linux-amd64", got)
	}

	variant := Platform{OS: "linux", Arch: "arm", Variant: "v7"}
	if got := variant.String(); got != "linux/arm/v7" {
		t.Errorf("String() = %q, want linux/arm/v7", got)
	}
	if got := variant.Suffix(); got != "linux-arm-v7" {
		t.Errorf("Suffix() = %q, want linux-arm-v7", got)
	}
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	original := []Platform{
		{OS: "windows", Arch: "arm64"},
		{OS: "linux", Arch: "arm", Variant: "v6"},
	}
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `["windows/arm64","linux/arm/v6"]` {
		t.Errorf("Marshal = %s", data)
	}

	var decoded []Platform
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	if err := (Platform{OS: "linux", Arch: "amd64"}).Validate(); err != nil {
		t.Errorf("Validate(linux/amd64): %v", err)
	}
	if err := (Platform{OS: "linux", Arch: "z80"}).Validate(); err == nil {
		t.Error("Validate(linux/z80) should fail")
	}
	if err := (Platform{OS: "amiga", Arch: "amd64"}).Validate(); err == nil {
		t.Error("Validate(amiga/amd64) should fail")
	}
}
