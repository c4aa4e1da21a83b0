package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthMsg:
		return m.handleHealth(msg)
	case GenerateSentMsg:
		return m.handleGenerateSent(msg)
	case RunUpdateMsg:
		return m.handleRunUpdate(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "g", "G":
		if m.Connected && m.RunID == "" {
			return m, triggerGenerate(m.Client, m.Topic)
		}
	}
	return m, nil
}

// handleHealth records connectivity
func (m Model) handleHealth(msg HealthMsg) (tea.Model, tea.Cmd) {
	m.Connected = msg.Err == nil
	m.Err = msg.Err
	return m, nil
}

// handleGenerateSent records the new run id and starts polling it
func (m Model) handleGenerateSent(msg GenerateSentMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateFailed
		m.Err = msg.Err
		return m, nil
	}
	m.RunID = msg.RunID
	m.State = StatePending
	return m, pollRun(m.Client, m.RunID)
}

// handleRunUpdate syncs local state from the server snapshot
func (m Model) handleRunUpdate(msg RunUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// A transient poll failure; keep the last known state
		m.Err = msg.Err
		return m, nil
	}
	m.Report = &msg.Snapshot.Report
	m.State = msg.Snapshot.Report.State
	m.Logs = msg.Snapshot.Logs
	m.Err = nil
	return m, nil
}

// handleTick drives the poll loop
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd()}
	if !m.Connected {
		cmds = append(cmds, checkHealth(m.Client))
	} else if m.RunID != "" && m.State != StateRendered && m.State != StateFailed {
		cmds = append(cmds, pollRun(m.Client, m.RunID))
	}
	return m, tea.Batch(cmds...)
}
