package tui

import "time"

// Messages for the tea program (polling-based)

// HealthMsg reports whether the API server is reachable
type HealthMsg struct {
	Err error
}

// RunUpdateMsg is sent when we receive a run snapshot from the server
type RunUpdateMsg struct {
	Snapshot *RunSnapshot
	Err      error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// GenerateSentMsg is sent when the topic has been submitted
type GenerateSentMsg struct {
	RunID string
	Err   error
}
