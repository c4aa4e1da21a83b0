package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("🎥 AI 공장 — Topic to Video"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Run info
	if m.RunID != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("🆔 Run: %s", m.RunID)))
		b.WriteString("\n")
	}
	if m.Report != nil && m.Report.Title != "" {
		b.WriteString(InfoStyle.Render(fmt.Sprintf("📌 Title: %s", m.Report.Title)))
		b.WriteString("\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		logs := m.Logs
		if len(logs) > 10 {
			logs = logs[len(logs)-10:]
		}
		for _, entry := range logs {
			b.WriteString(InfoStyle.Render("   " + entry.Message))
			b.WriteString("\n")
		}
	}

	// Result
	if m.State == StateRendered && m.Report != nil {
		b.WriteString("\n")
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n")
	}

	// Help text
	b.WriteString("\n")
	switch {
	case m.State == StateIdle:
		b.WriteString(InfoStyle.Render(TextFooterIdle))
	case m.State == StateRendered || m.State == StateFailed:
		b.WriteString(HighlightStyle.Render(TextFooterDone))
	default:
		b.WriteString(InfoStyle.Render(TextFooterRunning))
	}

	return b.String()
}

// formatResult formats the finished run for display
func (m Model) formatResult() string {
	var b strings.Builder
	report := m.Report

	b.WriteString(HighlightStyle.Render("Rendered Video"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("File: %s\n", report.OutputPath))
	b.WriteString(fmt.Sprintf("Length: %.1fs\n", report.Duration))

	skipped := 0
	for _, sc := range report.Scenes {
		if sc.Skipped {
			skipped++
		}
	}
	if skipped > 0 {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Partial: %d of %d scenes skipped\n", skipped, len(report.Scenes))))
		for _, sc := range report.Scenes {
			if sc.Skipped {
				b.WriteString(InfoStyle.Render(fmt.Sprintf("  scene %d: %s\n", sc.Seq, sc.Reason)))
			}
		}
	} else {
		b.WriteString(StatusStyle.Render(fmt.Sprintf("All %d scenes included\n", len(report.Scenes))))
	}

	return b.String()
}
