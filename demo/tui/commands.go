package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// checkHealth creates a command to probe the API server
func checkHealth(client *APIClient) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Err: client.Health()}
	}
}

// pollRun creates a command to poll one run's status
func pollRun(client *APIClient, runID string) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := client.GetRun(runID)
		return RunUpdateMsg{
			Snapshot: snapshot,
			Err:      err,
		}
	}
}

// triggerGenerate creates a command to submit the topic
func triggerGenerate(client *APIClient, topic string) tea.Cmd {
	return func() tea.Msg {
		runID, err := client.Generate(topic)
		return GenerateSentMsg{RunID: runID, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
