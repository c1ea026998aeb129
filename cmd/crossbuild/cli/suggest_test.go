// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestSuggestCommand(t *testing.T) {
	commands := []*Command{
		{Name: "build"},
		{Name: "plan"},
		{Name: "targets"},
		{Name: "verify"},
		{Name: "version"},
	}

	tests := []struct {
		input string
		want  string
	}{
		{"biuld", "build"},
		{"buil", "build"},
		{"pln", "plan"},
		{"target", "targets"},
		{"verison", "version"},
		{"xyzzyplugh", ""},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			if got := suggestCommand(test.input, commands); got != test.want {
				t.Errorf("suggestCommand(%q) = %q, want %q", test.input, got, test.want)
			}
		})
	}
}

func TestSuggestFlag(t *testing.T) {
	newFlagSet := func() *pflag.FlagSet {
		flagSet := pflag.NewFlagSet("build", pflag.ContinueOnError)
		flagSet.BoolP("keep-going", "k", false, "")
		flagSet.IntP("jobs", "j", 1, "")
		flagSet.String("output", "", "")
		return flagSet
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"typo", []string{"--keep-gonig"}, "--keep-going"},
		{"with value", []string{"--outptu=./dist"}, "--output"},
		{"after known flags", []string{"-k", "--jbos", "4"}, "--jobs"},
		{"positional ignored", []string{"./cmd/gem", "--outpt"}, "--output"},
		{"nothing close", []string{"--zzzzzzzzzz"}, ""},
		{"all known", []string{"--jobs", "2", "-k"}, ""},
		{"after terminator", []string{"--", "--outpt"}, ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := suggestFlag(test.args, newFlagSet()); got != test.want {
				t.Errorf("suggestFlag(%q) = %q, want %q", test.args, got, test.want)
			}
		})
	}
}
