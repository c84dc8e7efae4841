// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const uiDivider = "──────────────────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n\n")

	if strings.TrimSpace(data) != "" {
		for _, line := range strings.Split(data, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	} else {
		b.WriteString("  -\n")
	}

	b.WriteString("\n")
	b.WriteString("  ")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString("  ")
		b.WriteString(helpStyle.Render(hotKeys))
		b.WriteString("\n")
	}
	b.WriteString("  ")
	b.WriteString(helpStyle.Render("ctrl+c: quit"))

	return b.String()
}

// renderForm lays labels and inputs out as a two-column table.
func renderForm(labels []string, inputs []textinput.Model) string {
	width := lipgloss.Width("Field")
	for _, label := range labels {
		if w := lipgloss.Width(label); w > width {
			width = w
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s │ Value\n", width, "Field")
	b.WriteString(strings.Repeat("─", width))
	b.WriteString("─┼────────────────────────────────────────────\n")
	for i, label := range labels {
		fmt.Fprintf(&b, "%-*s │ [%s]\n", width, label, inputs[i].View())
	}

	return b.String()
}

// renderFeedback appends the submit button and the error line.
func renderFeedback(b *strings.Builder, button string, submitting bool, errMsg string) {
	if submitting {
		fmt.Fprintf(b, "\n[%s...]\n", button)
	} else {
		fmt.Fprintf(b, "\n[%s]\n", button)
	}

	if errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Error: " + errMsg))
		b.WriteString("\n")
	}
}

func valueOrDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return "-"
	}
	return v
}
