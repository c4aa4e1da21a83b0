package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunState mirrors the server's run state machine
type RunState string

const (
	StateIdle          RunState = "idle"
	StatePending       RunState = "pending"
	StateScripted      RunState = "scripted"
	StateAssetsPending RunState = "assets_pending"
	StateAssembled     RunState = "assembled"
	StateComposed      RunState = "composed"
	StateRendered      RunState = "rendered"
	StateFailed        RunState = "failed"
)

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// SceneStatus reports one scene's outcome
type SceneStatus struct {
	Seq     int    `json:"seq"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// RunReport is the server's report for one run
type RunReport struct {
	RunID      string        `json:"run_id"`
	Topic      string        `json:"topic"`
	Title      string        `json:"title,omitempty"`
	State      RunState      `json:"state"`
	Scenes     []SceneStatus `json:"scenes,omitempty"`
	OutputPath string        `json:"output_path,omitempty"`
	Duration   float64       `json:"duration_seconds,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// RunSnapshot is the JSON response for GET /api/runs/:id
type RunSnapshot struct {
	Report RunReport  `json:"report"`
	Logs   []LogEntry `json:"logs"`
}

// Model represents the TUI client state (thin client)
type Model struct {
	// API client
	Client *APIClient

	// The topic to generate when the user presses 'g'
	Topic string

	// Local UI state (synced from the server)
	RunID  string
	State  RunState
	Report *RunReport
	Logs   []LogEntry
	Err    error

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model
func NewModel(apiURL, topic string) Model {
	return Model{
		Client: NewAPIClient(apiURL),
		Topic:  topic,
		State:  StateIdle,
		Logs:   make([]LogEntry, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		checkHealth(m.Client),
		tickCmd(),
	)
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	if !m.Connected {
		return ErrorStyle.Render("❌ Not connected to the API server")
	}

	switch m.State {
	case StateIdle:
		return HighlightStyle.Render("👋 Ready!") + "\n\n" +
			InfoStyle.Render(fmt.Sprintf("Press 'g' to generate a video for: %q", m.Topic))
	case StatePending:
		return StatusStyle.Render("🚀 Run accepted, writing the script...")
	case StateScripted:
		return StatusStyle.Render("📝 Script generated, preparing assets...")
	case StateAssetsPending:
		return StatusStyle.Render("⏳ Fetching fonts, music and effects...")
	case StateAssembled:
		return StatusStyle.Render("🎬 Scenes assembled, composing timeline...")
	case StateComposed:
		return StatusStyle.Render("🎵 Timeline composed, rendering...")
	case StateRendered:
		return HighlightStyle.Render("✅ RENDERED")
	case StateFailed:
		errMsg := "Unknown error"
		if m.Report != nil && m.Report.Error != "" {
			errMsg = m.Report.Error
		} else if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Failed: %v", errMsg))
	default:
		return StatusStyle.Render(fmt.Sprintf("⏳ %s...", m.State))
	}
}
