package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-designer/internal/types"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// SectionStyle for section headers.
	SectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)

	// SelectedStyle for the block under the cursor.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	// ErrorStyle for blocking validation errors.
	ErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	// WarningStyle for advisory warnings.
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// SuccessStyle for success status messages.
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// RuleStyle for the rendered rule expression.
	RuleStyle = lipgloss.NewStyle().Italic(true)
)

// StatusStyle picks the style matching a status kind.
func StatusStyle(kind types.Status) lipgloss.Style {
	switch kind {
	case types.StatusError:
		return ErrorStyle
	case types.StatusSuccess:
		return SuccessStyle
	case types.StatusSaving:
		return WarningStyle
	default:
		return HelpStyle
	}
}
