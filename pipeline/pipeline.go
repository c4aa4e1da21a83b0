// Package pipeline drives one topic through the full factory: script, assets,
// per-scene assembly, timeline composition, final render. Scenes degrade
// individually; only an empty timeline or a composition/render failure fails
// the run.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"aigongjang/assets"
	"aigongjang/config"
	"aigongjang/media"
	"aigongjang/script"
	"aigongjang/state"
	"aigongjang/types"
)

// SceneAssembler builds one clip per scene.
type SceneAssembler interface {
	Assemble(ctx context.Context, sc types.Scene, cfg config.RunConfig) (*media.Clip, error)
}

// TimelineComposer joins scene clips and lays the music bed.
type TimelineComposer interface {
	Compose(clips []media.Clip, mood, workDir string) (*media.Clip, error)
}

// AnchorGenerator produces the recurring-character reference image.
type AnchorGenerator interface {
	Generate(ctx context.Context, prompt string, anchor []byte) ([]byte, error)
}

// RenderFunc encodes the composed timeline into its final location.
type RenderFunc func(timeline *media.Clip, title, outputDir string) (string, error)

// Registry remembers which topics already have a rendered video.
type Registry interface {
	Seen(ctx context.Context, topic string) (bool, error)
	Mark(ctx context.Context, topic string) error
}

// Pipeline owns the stage implementations for a worker process.
type Pipeline struct {
	Script    script.Generator
	Assembler SceneAssembler
	Composer  TimelineComposer
	Anchor    AnchorGenerator // nil skips the anchor image
	Assets    *assets.Cache
	Render    RenderFunc
	Registry  Registry       // nil disables topic dedup
	State     *state.Manager // nil disables progress reporting

	// KeepWorkDir leaves per-run intermediates on disk for debugging.
	KeepWorkDir bool
}

// NewRunID mints an identifier for a run that has not started yet, so API
// callers can hand the id back before the work begins.
func NewRunID() string { return uuid.New().String() }

// Run produces a video for the topic. The returned report is always non-nil;
// inspect report.State and report.Error for the outcome.
func (p *Pipeline) Run(ctx context.Context, topic string, cfg config.RunConfig) *types.RunReport {
	return p.RunWithID(ctx, NewRunID(), topic, cfg)
}

// RunWithID is Run with a caller-chosen run identifier.
func (p *Pipeline) RunWithID(ctx context.Context, runID, topic string, cfg config.RunConfig) *types.RunReport {
	report := &types.RunReport{
		RunID:     runID,
		Topic:     topic,
		State:     types.StatePending,
		StartedAt: time.Now(),
	}
	if p.State != nil {
		p.State.Begin(runID, topic)
		defer func() { p.State.Finish(runID, *report) }()
	}

	if p.Registry != nil {
		seen, err := p.Registry.Seen(ctx, topic)
		if err != nil {
			log.Printf("[run %s] topic registry unavailable, proceeding: %v", runID, err)
		} else if seen {
			return p.fail(report, fmt.Errorf("topic already rendered: %s", topic))
		}
	}

	cfg.WorkDir = filepath.Join(cfg.WorkDir, runID)
	if err := os.MkdirAll(cfg.WorkDir, 0o755); err != nil {
		return p.fail(report, err)
	}
	if !p.KeepWorkDir {
		defer os.RemoveAll(cfg.WorkDir)
	}

	// Stage 1: script.
	scr, err := p.Script.Generate(ctx, topic, cfg)
	if err != nil {
		return p.fail(report, err)
	}
	report.Title = scr.Title
	p.setState(report, types.StateScripted)
	p.log(runID, fmt.Sprintf("script: %q, %d scenes", scr.Title, len(scr.Scenes)))

	// Stage 2: shared assets and the anchor image. Failures here degrade
	// features, they never abort the run.
	p.setState(report, types.StateAssetsPending)
	p.prefetch(runID, scr, cfg)
	cfg.AnchorImage = p.anchorImage(ctx, runID, cfg)

	// Stage 3: scenes, strictly in script order.
	var clips []media.Clip
	for _, sc := range scr.Scenes {
		status := types.SceneStatus{Seq: sc.Seq}
		clip, err := p.Assembler.Assemble(ctx, sc, cfg)
		if err != nil {
			status.Skipped = true
			status.Reason = err.Error()
			log.Printf("[run %s] scene %d skipped: %v", runID, sc.Seq, err)
			p.log(runID, fmt.Sprintf("scene %d skipped: %v", sc.Seq, err))
		} else {
			clips = append(clips, *clip)
			p.log(runID, fmt.Sprintf("scene %d assembled (%.1fs)", sc.Seq, clip.Duration))
		}
		report.Scenes = append(report.Scenes, status)
	}
	if len(clips) == 0 {
		return p.fail(report, fmt.Errorf("%w: every scene was skipped", types.ErrComposition))
	}
	p.setState(report, types.StateAssembled)

	// Stage 4: timeline.
	timeline, err := p.Composer.Compose(clips, cfg.BGMMood, cfg.WorkDir)
	if err != nil {
		return p.fail(report, err)
	}
	report.Duration = timeline.Duration
	p.setState(report, types.StateComposed)

	// Stage 5: render.
	out, err := p.Render(timeline, scr.Title, cfg.OutputDir)
	if err != nil {
		return p.fail(report, err)
	}
	report.OutputPath = out
	report.State = types.StateRendered
	report.FinishedAt = time.Now()
	p.log(runID, fmt.Sprintf("rendered %s (%.1fs)", out, timeline.Duration))

	if p.Registry != nil {
		if err := p.Registry.Mark(ctx, topic); err != nil {
			log.Printf("[run %s] could not mark topic as rendered: %v", runID, err)
		}
	}
	return report
}

// prefetch warms the asset cache with everything the script will need: the
// subtitle font, the music bed, and every distinct sound effect.
func (p *Pipeline) prefetch(runID string, scr *types.Script, cfg config.RunConfig) {
	if p.Assets == nil {
		return
	}
	keys := []string{assets.FontKey}
	if cfg.BGMMood != "" {
		keys = append(keys, assets.BGMKey(cfg.BGMMood))
	}
	seen := map[string]bool{}
	for _, sc := range scr.Scenes {
		if sc.SoundEffect != "" && !seen[sc.SoundEffect] {
			seen[sc.SoundEffect] = true
			keys = append(keys, assets.SFXKey(sc.SoundEffect))
		}
	}
	for key, err := range p.Assets.Prefetch(keys...) {
		if err != nil {
			log.Printf("[run %s] asset %s unavailable: %v", runID, key, err)
		}
	}
}

// anchorImage generates the recurring-character reference once per run.
func (p *Pipeline) anchorImage(ctx context.Context, runID string, cfg config.RunConfig) []byte {
	if p.Anchor == nil || cfg.CharacterDesc == "" {
		return nil
	}
	data, err := p.Anchor.Generate(ctx,
		fmt.Sprintf("character reference sheet, neutral pose, plain background: %s", cfg.CharacterDesc), nil)
	if err != nil {
		log.Printf("[run %s] anchor image failed, scenes proceed without it: %v", runID, err)
		return nil
	}
	p.log(runID, "anchor image generated")
	return data
}

func (p *Pipeline) setState(report *types.RunReport, st types.RunState) {
	report.State = st
	if p.State != nil {
		p.State.SetState(report.RunID, st)
	}
}

func (p *Pipeline) log(runID, msg string) {
	if p.State != nil {
		p.State.AddLog(runID, msg)
	}
}

func (p *Pipeline) fail(report *types.RunReport, err error) *types.RunReport {
	report.State = types.StateFailed
	report.Error = err.Error()
	report.FinishedAt = time.Now()
	log.Printf("[run %s] failed: %v", report.RunID, err)
	return report
}
