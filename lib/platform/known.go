// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

// knownOS lists the GOOS values accepted by the Go toolchain.
var knownOS = map[string]struct{}{
	"aix":       {},
	"android":   {},
	"darwin":    {},
	"dragonfly": {},
	"freebsd":   {},
	"illumos":   {},
	"ios":       {},
	"js":        {},
	"linux":     {},
	"netbsd":    {},
	"openbsd":   {},
	"plan9":     {},
	"solaris":   {},
	"wasip1":    {},
	"windows":   {},
}

// knownArch lists the GOARCH values accepted by the Go toolchain.
var knownArch = map[string]struct{}{
	"386":      {},
	"amd64":    {},
	"arm":      {},
	"arm64":    {},
	"loong64":  {},
	"mips":     {},
	"mipsle":   {},
	"mips64":   {},
	"mips64le": {},
	"ppc64":    {},
	"ppc64le":  {},
	"riscv64":  {},
	"s390x":    {},
	"wasm":     {},
}

// KnownOS reports whether os is a GOOS value the Go toolchain accepts.
func KnownOS(os string) bool {
	_, ok := knownOS[os]
	return ok
}

// KnownArch reports whether arch is a GOARCH value the Go toolchain
// accepts.
func KnownArch(arch string) bool {
	_, ok := knownArch[arch]
	return ok
}
