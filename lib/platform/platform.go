// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/containerd/platforms"
)

// Platform is one cross-compilation target.
type Platform struct {
	// OS is the target operating system as GOOS spells it.
	OS string

	// Arch is the target architecture as GOARCH spells it.
	Arch string

	// Variant is an optional architecture revision ("v7" for arm,
	// "v3" for amd64). Empty means the toolchain default.
	Variant string
}

// Host returns the platform the current process was built for.
func Host() Platform {
	return Platform{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// String returns the canonical "os/arch[/variant]" form.
func (p Platform) String() string {
	if p.Variant != "" {
		return p.OS + "/" + p.Arch + "/" + p.Variant
	}
	return p.OS + "/" + p.Arch
}

// Suffix returns the "os-arch[-variant]" fragment used in artifact
// file names.
func (p Platform) Suffix() string {
	if p.Variant != "" {
		return p.OS + "-" + p.Arch + "-" + p.Variant
	}
	return p.OS + "-" + p.Arch
}

// Extension returns the executable file extension for the platform's
// operating system.
func (p Platform) Extension() string {
	return Extension(p.OS)
}

// Extension returns ".exe" for windows and the empty string for every
// other operating system.
func Extension(os string) string {
	if os == "windows" {
		return ".exe"
	}
	return ""
}

// Env returns the environment assignments that point a single go
// command at this platform: GOOS and GOARCH, plus the
// architecture-specific variant variable when a variant is set.
func (p Platform) Env() []string {
	env := []string{"GOOS=" + p.OS, "GOARCH=" + p.Arch}
	if name, value := p.variantVariable(); name != "" {
		env = append(env, name+"="+value)
	}
	return env
}

// variantVariable maps the platform variant onto the go environment
// variable that selects it. Returns empty strings when there is no
// variant or the architecture has no such variable.
func (p Platform) variantVariable() (string, string) {
	if p.Variant == "" {
		return "", ""
	}
	switch p.Arch {
	case "arm":
		return "GOARM", strings.TrimPrefix(p.Variant, "v")
	case "arm64":
		// GOARM64 wants a minor revision ("v8.0"); OCI variants omit it.
		if !strings.Contains(p.Variant, ".") {
			return "GOARM64", p.Variant + ".0"
		}
		return "GOARM64", p.Variant
	case "amd64":
		return "GOAMD64", p.Variant
	}
	return "", ""
}

// MarshalText encodes the platform as its canonical string so that it
// appears as "linux/amd64" in JSON, YAML, and CBOR output.
func (p Platform) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses the canonical string form via [Parse].
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Parse reads an "os/arch[/variant]" specifier. Names are normalized
// the way container runtimes normalize them ("macos" becomes darwin,
// "aarch64" becomes arm64, "x86_64" becomes amd64). Both components
// are required: a bare "linux" is a filter query, not a platform.
//
// A variant is kept only when the specifier spells one out, so
// "linux/arm" targets the toolchain's default GOARM.
func Parse(specifier string) (Platform, error) {
	parts := strings.Split(specifier, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Platform{}, fmt.Errorf("invalid platform %q: expected os/arch[/variant]", specifier)
	}
	for _, part := range parts {
		if part == "" {
			return Platform{}, fmt.Errorf("invalid platform %q: empty component", specifier)
		}
	}

	normalized, err := platforms.Parse(specifier)
	if err != nil {
		return Platform{}, fmt.Errorf("invalid platform %q: %w", specifier, err)
	}

	parsed := Platform{OS: normalized.OS, Arch: normalized.Architecture}
	if len(parts) == 3 {
		parsed.Variant = normalized.Variant
	}

	if !KnownOS(parsed.OS) {
		return Platform{}, fmt.Errorf("invalid platform %q: unknown operating system %q", specifier, parsed.OS)
	}
	if !KnownArch(parsed.Arch) {
		return Platform{}, fmt.Errorf("invalid platform %q: unknown architecture %q", specifier, parsed.Arch)
	}
	return parsed, nil
}

// ParseAll parses every specifier, stopping at the first invalid one.
func ParseAll(specifiers []string) ([]Platform, error) {
	result := make([]Platform, 0, len(specifiers))
	for _, specifier := range specifiers {
		parsed, err := Parse(specifier)
		if err != nil {
			return nil, err
		}
		result = append(result, parsed)
	}
	return result, nil
}

// Matrix returns the Cartesian product of architectures and operating
// systems, outer loop over architectures and inner loop over operating
// systems. Duplicate pairs are dropped; the first occurrence keeps its
// position.
func Matrix(architectures, operatingSystems []string) []Platform {
	result := make([]Platform, 0, len(architectures)*len(operatingSystems))
	for _, arch := range architectures {
		for _, os := range operatingSystems {
			result = append(result, Platform{OS: os, Arch: arch})
		}
	}
	return Unique(result)
}

// Unique returns platforms with duplicates removed, preserving the
// order of first occurrence.
func Unique(list []Platform) []Platform {
	seen := make(map[Platform]struct{}, len(list))
	result := make([]Platform, 0, len(list))
	for _, p := range list {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		result = append(result, p)
	}
	return result
}

// Validate checks that the platform names a GOOS/GOARCH pair the Go
// toolchain knows about.
func (p Platform) Validate() error {
	if !KnownOS(p.OS) {
		return fmt.Errorf("platform %s: unknown operating system %q", p, p.OS)
	}
	if !KnownArch(p.Arch) {
		return fmt.Errorf("platform %s: unknown architecture %q", p, p.Arch)
	}
	return nil
}
