// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter narrows list to the platforms matching at least one of the
// only queries (all platforms when only is empty) and none of the
// exclude queries. Order is preserved.
//
// A query is a glob over "os/arch[/variant]":
//
//	linux          every linux platform
//	linux/*        same
//	*/arm64        arm64 on every operating system
//	windows/amd64  exactly one platform
//	all, *         everything
//
// A two-component query ignores the variant, so "linux/arm" matches
// "linux/arm/v7".
func Filter(list []Platform, only, exclude []string) ([]Platform, error) {
	for _, query := range append(append([]string(nil), only...), exclude...) {
		if !doublestar.ValidatePattern(normalizeQuery(query)) {
			return nil, fmt.Errorf("invalid platform query %q", query)
		}
	}

	result := make([]Platform, 0, len(list))
	for _, p := range list {
		if len(only) > 0 && !matchesAny(p, only) {
			continue
		}
		if matchesAny(p, exclude) {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Match reports whether the platform matches a single query.
func (p Platform) Match(query string) bool {
	pattern := normalizeQuery(query)
	if matched, _ := doublestar.Match(pattern, p.String()); matched {
		return true
	}
	matched, _ := doublestar.Match(pattern, p.OS+"/"+p.Arch)
	return matched
}

func matchesAny(p Platform, queries []string) bool {
	for _, query := range queries {
		if p.Match(query) {
			return true
		}
	}
	return false
}

// normalizeQuery expands shorthand queries into full globs: "all" and
// "*" match everything, and a bare operating system matches every
// architecture of that system.
func normalizeQuery(query string) string {
	query = strings.TrimSpace(query)
	switch query {
	case "", "all", "*":
		return "**"
	}
	if !strings.Contains(query, "/") {
		return query + "/**"
	}
	return query
}
