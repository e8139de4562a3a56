// Package ui renders compiler output for the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/loom-ui/loom/pkg/template"
)

// Style definitions
var (
	errorColor   = lipgloss.Color("#ef4444")
	warningColor = lipgloss.Color("#f59e0b")
	successColor = lipgloss.Color("#10b981")
	mutedColor   = lipgloss.Color("#94a3b8")

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	locationStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// RenderDiagnostic formats one diagnostic as a single line.
func RenderDiagnostic(diag template.Diagnostic) string {
	label := errorStyle.Render("error")
	if diag.Severity == template.SeverityWarning {
		label = warningStyle.Render("warning")
	}
	return fmt.Sprintf("%s %s: %s", locationStyle.Render(diag.Loc.String()), label, diag.Message)
}

// RenderDiagnostics formats a diagnostic list, one per line.
func RenderDiagnostics(diags []template.Diagnostic) string {
	lines := make([]string, len(diags))
	for i, diag := range diags {
		lines[i] = RenderDiagnostic(diag)
	}
	return strings.Join(lines, "\n")
}

// RenderError formats a hard parse error.
func RenderError(err error) string {
	return fmt.Sprintf("%s %s", errorStyle.Render("error:"), err.Error())
}

// RenderSummary formats the end-of-run summary line.
func RenderSummary(compiled, templates, errors, warnings int) string {
	parts := []string{
		fmt.Sprintf("%d file(s), %d template(s)", compiled, templates),
	}
	if errors > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d error(s)", errors)))
	}
	if warnings > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d warning(s)", warnings)))
	}
	if errors == 0 {
		parts = append(parts, successStyle.Render("ok"))
	}
	return strings.Join(parts, ", ")
}
