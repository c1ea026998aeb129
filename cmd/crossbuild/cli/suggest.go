// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"

	"github.com/agext/levenshtein"
	"github.com/spf13/pflag"
)

// suggestionThreshold is the largest edit distance still offered as a
// "did you mean" suggestion. It catches transpositions and dropped or
// doubled characters without suggesting unrelated names.
const suggestionThreshold = 3

// closest returns the candidate nearest to input within the
// threshold, or "".
func closest(input string, candidates []string) string {
	best := ""
	bestDistance := suggestionThreshold + 1
	for _, candidate := range candidates {
		if distance := levenshtein.Distance(input, candidate, nil); distance < bestDistance {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

// suggestCommand returns the subcommand name closest to unknown, or "".
func suggestCommand(unknown string, commands []*Command) string {
	names := make([]string, 0, len(commands))
	for _, command := range commands {
		names = append(names, command.Name)
	}
	return closest(unknown, names)
}

// suggestFlag finds the first flag in args that flagSet does not
// define and returns the closest defined flag with its dashes, or "".
func suggestFlag(args []string, flagSet *pflag.FlagSet) string {
	var defined []string
	flagSet.VisitAll(func(flag *pflag.Flag) {
		defined = append(defined, flag.Name)
	})

	for _, arg := range args {
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") || arg == "-" {
			continue
		}
		name := strings.TrimLeft(arg, "-")
		name, _, _ = strings.Cut(name, "=")
		if known(flagSet, arg, name) {
			continue
		}

		suggestion := closest(name, defined)
		if suggestion == "" {
			return ""
		}
		return "--" + suggestion
	}
	return ""
}

// known reports whether arg names a flag defined in flagSet. Single
// dash arguments are shorthand clusters like -kj4.
func known(flagSet *pflag.FlagSet, arg, name string) bool {
	if strings.HasPrefix(arg, "--") {
		return flagSet.Lookup(name) != nil
	}
	return name != "" && flagSet.ShorthandLookup(name[:1]) != nil
}
