package types

import "time"

// RunState is the per-run state machine. A run starts PENDING and moves
// strictly forward: SCRIPTED → ASSETS_PENDING → ASSEMBLED → COMPOSED →
// RENDERED, or to FAILED from any state. Individual scenes may be SKIPPED
// without failing the run; the run fails only when zero scenes produce a clip
// or the final composition/encode fails.
type RunState string

const (
	StatePending       RunState = "pending"
	StateScripted      RunState = "scripted"
	StateAssetsPending RunState = "assets_pending"
	StateAssembled     RunState = "assembled"
	StateComposed      RunState = "composed"
	StateRendered      RunState = "rendered"
	StateFailed        RunState = "failed"
)

// SceneStatus records the outcome of one scene's assembly.
type SceneStatus struct {
	Seq     int    `json:"seq"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// RunReport is the caller-visible summary of a generation run. A run that
// skipped some scenes but rendered the rest is a partial success and says so.
type RunReport struct {
	RunID      string        `json:"run_id"`
	Topic      string        `json:"topic"`
	Title      string        `json:"title,omitempty"`
	State      RunState      `json:"state"`
	Scenes     []SceneStatus `json:"scenes,omitempty"`
	OutputPath string        `json:"output_path,omitempty"`
	Duration   float64       `json:"duration_seconds,omitempty"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
}

// Partial reports whether the run rendered with at least one skipped scene.
func (r *RunReport) Partial() bool {
	if r.State != StateRendered {
		return false
	}
	for _, s := range r.Scenes {
		if s.Skipped {
			return true
		}
	}
	return false
}

// SkippedSeqs lists the sequence numbers of skipped scenes.
func (r *RunReport) SkippedSeqs() []int {
	var seqs []int
	for _, s := range r.Scenes {
		if s.Skipped {
			seqs = append(seqs, s.Seq)
		}
	}
	return seqs
}
