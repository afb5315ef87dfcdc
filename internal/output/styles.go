package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Bulletin level styles
	Info  lipgloss.Style
	Warn  lipgloss.Style
	Error lipgloss.Style

	// Component styles
	Timestamp lipgloss.Style
	Group     lipgloss.Style

	// Summary styles
	Header  lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style
}{
	Info:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),             // Cyan
	Warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),            // Orange
	Error: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red bold

	Timestamp: lipgloss.NewStyle().Foreground(lipgloss.Color("244")), // Gray
	Group:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),  // Blue

	Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:   lipgloss.NewStyle().Bold(true),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),  // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red
}

// DisableStyles strips colors and emphasis, for output that is not a terminal
func DisableStyles() {
	plain := lipgloss.NewStyle()
	Styles.Info, Styles.Warn, Styles.Error = plain, plain, plain
	Styles.Timestamp, Styles.Group = plain, plain
	Styles.Header, Styles.Label, Styles.Value = plain, plain, plain
	Styles.Success, Styles.Warning, Styles.Danger = plain, plain, plain
}

// LevelStyle returns the style for a bulletin level
func LevelStyle(level string) lipgloss.Style {
	switch level {
	case "ERROR":
		return Styles.Error
	case "WARN", "WARNING":
		return Styles.Warn
	default:
		return Styles.Info
	}
}

// StatusText returns styled status text
func StatusText(hasFailures, hasErrors bool) string {
	if hasErrors {
		return Styles.Danger.Render("ERRORS")
	}
	if hasFailures {
		return Styles.Warning.Render("DEGRADED")
	}
	return Styles.Success.Render("OK")
}
