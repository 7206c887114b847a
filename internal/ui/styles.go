package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"findash/internal/project"
)

// Styles.
var (
	headerBarStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))
	footerBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	tabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	historyBar     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("3"))
)

// renderSections renders projected sections as titled blocks.
func renderSections(b *strings.Builder, sections []project.Section) {
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(" " + s.Title + " "))
		b.WriteString("\n")
		for _, line := range s.Lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len(s)
	if n >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-n)
}
