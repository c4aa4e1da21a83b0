package state

import (
	"fmt"
	"testing"

	"aigongjang/types"
)

func TestBeginStartsPending(t *testing.T) {
	m := NewManager()
	m.Begin("run-1", "topic")

	snap, ok := m.Get("run-1")
	if !ok {
		t.Fatal("run not found")
	}
	// Nothing has happened yet; pollers must not see a stage the pipeline
	// has not reported.
	if snap.Report.State != types.StatePending {
		t.Fatalf("state = %s, want %s", snap.Report.State, types.StatePending)
	}
	if len(snap.Logs) != 0 {
		t.Fatalf("fresh run has %d logs, want 0", len(snap.Logs))
	}
}

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()
	m.Begin("run-1", "a topic")

	m.SetState("run-1", types.StateAssembled)
	m.AddLog("run-1", "scene 1 assembled")

	snap, ok := m.Get("run-1")
	if !ok {
		t.Fatal("run not found")
	}
	if snap.Report.State != types.StateAssembled {
		t.Fatalf("state = %s", snap.Report.State)
	}
	if snap.Report.Topic != "a topic" {
		t.Fatalf("topic = %q", snap.Report.Topic)
	}
	if len(snap.Logs) != 2 {
		t.Fatalf("log count = %d, want 2 (state change + explicit log)", len(snap.Logs))
	}
}

func TestFinishKeepsStartTime(t *testing.T) {
	m := NewManager()
	m.Begin("run-1", "topic")
	before, _ := m.Get("run-1")

	m.Finish("run-1", types.RunReport{State: types.StateRendered, OutputPath: "out.mp4"})

	after, ok := m.Get("run-1")
	if !ok {
		t.Fatal("run not found after finish")
	}
	if !after.Report.StartedAt.Equal(before.Report.StartedAt) {
		t.Fatal("finish must not reset the start time")
	}
	if after.Report.RunID != "run-1" {
		t.Fatalf("run id = %q", after.Report.RunID)
	}
	if after.Report.FinishedAt.IsZero() {
		t.Fatal("finish must stamp a finish time")
	}
}

func TestLogRingBuffer(t *testing.T) {
	m := NewManager()
	m.Begin("run-1", "topic")
	for i := 0; i < 80; i++ {
		m.AddLog("run-1", fmt.Sprintf("line %d", i))
	}
	snap, _ := m.Get("run-1")
	if len(snap.Logs) != 50 {
		t.Fatalf("log count = %d, want capped at 50", len(snap.Logs))
	}
	if snap.Logs[len(snap.Logs)-1].Message != "line 79" {
		t.Fatalf("last log = %q", snap.Logs[len(snap.Logs)-1].Message)
	}
}

func TestListOrder(t *testing.T) {
	m := NewManager()
	m.Begin("run-1", "first")
	m.Begin("run-2", "second")

	runs := m.List()
	if len(runs) != 2 {
		t.Fatalf("got %d runs", len(runs))
	}
	if runs[0].Report.Topic != "first" || runs[1].Report.Topic != "second" {
		t.Fatal("runs not in start order")
	}
}
