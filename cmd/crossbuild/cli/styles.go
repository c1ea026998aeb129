// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles colors human-readable command output. The color profile is
// detected from the writer, so output to a pipe or a buffer stays
// plain text.
type Styles struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Skipped lipgloss.Style
	Heading lipgloss.Style
	Faint   lipgloss.Style
}

// NewStyles returns the styles for output written to w.
func NewStyles(w io.Writer) Styles {
	renderer := lipgloss.NewRenderer(w)
	return Styles{
		Success: renderer.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Failure: renderer.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Skipped: renderer.NewStyle().Foreground(lipgloss.Color("3")),
		Heading: renderer.NewStyle().Bold(true),
		Faint:   renderer.NewStyle().Faint(true),
	}
}
