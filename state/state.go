// Package state tracks in-flight and finished runs with thread-safe access.
// The API and TUI read snapshots from here; the pipeline writes progress as
// it moves through its stages.
package state

import (
	"fmt"
	"sync"
	"time"

	"aigongjang/types"
)

// LogEntry is one timestamped progress line for a run.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// run is the mutable record behind a snapshot.
type run struct {
	report types.RunReport
	logs   []LogEntry
}

// Snapshot is a read-only copy of a run's current state.
type Snapshot struct {
	Report types.RunReport `json:"report"`
	Logs   []LogEntry      `json:"logs"`
}

// Manager holds all runs with thread-safe access.
type Manager struct {
	mu      sync.RWMutex
	runs    map[string]*run
	order   []string
	maxLogs int
}

// NewManager creates an empty run store.
func NewManager() *Manager {
	return &Manager{
		runs:    make(map[string]*run),
		maxLogs: 50,
	}
}

// Begin registers a new run. It stays pending until the pipeline reports the
// first stage; a run that dies during script generation never shows as
// scripted.
func (m *Manager) Begin(runID, topic string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[runID] = &run{
		report: types.RunReport{
			RunID:     runID,
			Topic:     topic,
			State:     types.StatePending,
			StartedAt: time.Now(),
		},
	}
	m.order = append(m.order, runID)
}

// SetState advances a run's state and records it in the log.
func (m *Manager) SetState(runID string, st types.RunState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return
	}
	r.report.State = st
	m.appendLog(r, fmt.Sprintf("state: %s", st))
}

// AddLog appends a progress line to a run (ring buffer).
func (m *Manager) AddLog(runID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.runs[runID]; ok {
		m.appendLog(r, message)
	}
}

func (m *Manager) appendLog(r *run, message string) {
	r.logs = append(r.logs, LogEntry{Timestamp: time.Now(), Message: message})
	if len(r.logs) > m.maxLogs {
		r.logs = r.logs[len(r.logs)-m.maxLogs:]
	}
}

// Finish stores the pipeline's final report for a run, keeping the original
// start time.
func (m *Manager) Finish(runID string, report types.RunReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.runs[runID]
	if !ok {
		return
	}
	report.RunID = runID
	report.StartedAt = r.report.StartedAt
	if report.FinishedAt.IsZero() {
		report.FinishedAt = time.Now()
	}
	r.report = report
	m.appendLog(r, fmt.Sprintf("finished: %s", report.State))
}

// Get returns a snapshot of one run.
func (m *Manager) Get(runID string) (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[runID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Report: r.report,
		Logs:   append([]LogEntry{}, r.logs...),
	}, true
}

// List returns snapshots of all runs in start order, newest last.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Snapshot, 0, len(m.order))
	for _, id := range m.order {
		r := m.runs[id]
		out = append(out, Snapshot{
			Report: r.report,
			Logs:   append([]LogEntry{}, r.logs...),
		})
	}
	return out
}
