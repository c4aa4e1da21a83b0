package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"aigongjang/config"
	"aigongjang/media"
	"aigongjang/types"
)

type fakeScript struct {
	script *types.Script
	err    error
}

func (f *fakeScript) Generate(ctx context.Context, topic string, cfg config.RunConfig) (*types.Script, error) {
	return f.script, f.err
}

type fakeAssembler struct {
	failSeqs map[int]bool
	calls    []int
	anchors  [][]byte
}

func (f *fakeAssembler) Assemble(ctx context.Context, sc types.Scene, cfg config.RunConfig) (*media.Clip, error) {
	f.calls = append(f.calls, sc.Seq)
	f.anchors = append(f.anchors, cfg.AnchorImage)
	if f.failSeqs[sc.Seq] {
		return nil, types.UpstreamGenerationError("tts", errors.New("synthesizer down"))
	}
	return &media.Clip{Path: fmt.Sprintf("clip_%d.mp4", sc.Seq), Duration: 3}, nil
}

type fakeAnchor struct{}

func (fakeAnchor) Generate(ctx context.Context, prompt string, anchor []byte) ([]byte, error) {
	return []byte("reference portrait"), nil
}

type fakeComposer struct {
	clips []media.Clip
	err   error
}

func (f *fakeComposer) Compose(clips []media.Clip, mood, workDir string) (*media.Clip, error) {
	f.clips = clips
	if f.err != nil {
		return nil, f.err
	}
	total := 0.0
	for _, c := range clips {
		total += c.Duration
	}
	return &media.Clip{Path: "timeline.mp4", Duration: total}, nil
}

type fakeRegistry struct {
	seen   bool
	marked []string
}

func (f *fakeRegistry) Seen(ctx context.Context, topic string) (bool, error) { return f.seen, nil }
func (f *fakeRegistry) Mark(ctx context.Context, topic string) error {
	f.marked = append(f.marked, topic)
	return nil
}

func testScript(n int) *types.Script {
	s := &types.Script{Title: "Test Title"}
	for i := 1; i <= n; i++ {
		s.Scenes = append(s.Scenes, types.Scene{
			Seq:          i,
			Narrative:    fmt.Sprintf("line %d", i),
			VisualPrompt: fmt.Sprintf("visual %d", i),
		})
	}
	return s
}

func testPipeline(t *testing.T, asm *fakeAssembler, reg *fakeRegistry) (*Pipeline, *fakeComposer, *[]string) {
	t.Helper()
	comp := &fakeComposer{}
	var rendered []string
	p := &Pipeline{
		Script:    &fakeScript{script: testScript(3)},
		Assembler: asm,
		Composer:  comp,
		Render: func(timeline *media.Clip, title, outputDir string) (string, error) {
			rendered = append(rendered, title)
			return outputDir + "/" + title + ".mp4", nil
		},
	}
	if reg != nil {
		p.Registry = reg
	}
	return p, comp, &rendered
}

func testConfig(t *testing.T) config.RunConfig {
	t.Helper()
	return config.RunConfig{
		WorkDir:   t.TempDir(),
		OutputDir: t.TempDir(),
	}
}

func TestRunHappyPath(t *testing.T) {
	asm := &fakeAssembler{}
	reg := &fakeRegistry{}
	p, comp, rendered := testPipeline(t, asm, reg)

	report := p.Run(context.Background(), "a topic", testConfig(t))

	if report.State != types.StateRendered {
		t.Fatalf("state = %s, error = %s", report.State, report.Error)
	}
	if report.Title != "Test Title" {
		t.Fatalf("title = %q", report.Title)
	}
	if report.OutputPath == "" {
		t.Fatal("no output path")
	}
	if report.Partial() {
		t.Fatal("clean run reported as partial")
	}
	if len(comp.clips) != 3 {
		t.Fatalf("composed %d clips, want 3", len(comp.clips))
	}
	if report.Duration != 9 {
		t.Fatalf("duration = %f, want 9", report.Duration)
	}
	if len(*rendered) != 1 {
		t.Fatalf("render called %d times", len(*rendered))
	}
	if len(reg.marked) != 1 || reg.marked[0] != "a topic" {
		t.Fatalf("registry marked = %v", reg.marked)
	}
}

func TestRunScenesInScriptOrder(t *testing.T) {
	asm := &fakeAssembler{}
	p, _, _ := testPipeline(t, asm, nil)
	p.Script = &fakeScript{script: &types.Script{
		Title: "t",
		Scenes: []types.Scene{
			{Seq: 3, Narrative: "a", VisualPrompt: "x"},
			{Seq: 1, Narrative: "b", VisualPrompt: "y"},
			{Seq: 2, Narrative: "c", VisualPrompt: "z"},
		},
	}}

	p.Run(context.Background(), "topic", testConfig(t))

	want := []int{3, 1, 2}
	for i, seq := range asm.calls {
		if seq != want[i] {
			t.Fatalf("assembly order = %v, want %v", asm.calls, want)
		}
	}
}

func TestRunDegradesPerScene(t *testing.T) {
	asm := &fakeAssembler{failSeqs: map[int]bool{2: true}}
	p, comp, _ := testPipeline(t, asm, nil)

	report := p.Run(context.Background(), "topic", testConfig(t))

	if report.State != types.StateRendered {
		t.Fatalf("state = %s, error = %s", report.State, report.Error)
	}
	if !report.Partial() {
		t.Fatal("run with a skipped scene must report partial")
	}
	if got := report.SkippedSeqs(); len(got) != 1 || got[0] != 2 {
		t.Fatalf("skipped = %v, want [2]", got)
	}
	if len(comp.clips) != 2 {
		t.Fatalf("composed %d clips, want 2", len(comp.clips))
	}
}

func TestRunHandsAnchorToEveryScene(t *testing.T) {
	asm := &fakeAssembler{}
	p, _, _ := testPipeline(t, asm, nil)
	p.Anchor = fakeAnchor{}
	cfg := testConfig(t)
	cfg.CharacterDesc = "a gray cat in a lab coat"

	report := p.Run(context.Background(), "topic", cfg)

	if report.State != types.StateRendered {
		t.Fatalf("state = %s, error = %s", report.State, report.Error)
	}
	if len(asm.anchors) != 3 {
		t.Fatalf("assembled %d scenes, want 3", len(asm.anchors))
	}
	// The reference image travels inside each call's config, so the shared
	// assembler carries no per-run state.
	for i, a := range asm.anchors {
		if string(a) != "reference portrait" {
			t.Fatalf("scene %d anchor = %q", i+1, a)
		}
	}
}

func TestRunFailsWhenEverySceneSkipped(t *testing.T) {
	asm := &fakeAssembler{failSeqs: map[int]bool{1: true, 2: true, 3: true}}
	p, _, rendered := testPipeline(t, asm, nil)

	report := p.Run(context.Background(), "topic", testConfig(t))

	if report.State != types.StateFailed {
		t.Fatalf("state = %s, want failed", report.State)
	}
	if len(*rendered) != 0 {
		t.Fatal("render must not run for an empty timeline")
	}
}

func TestRunFailsOnScriptError(t *testing.T) {
	p, _, _ := testPipeline(t, &fakeAssembler{}, nil)
	p.Script = &fakeScript{err: types.UpstreamGenerationError("script", errors.New("model refused"))}

	report := p.Run(context.Background(), "topic", testConfig(t))

	if report.State != types.StateFailed {
		t.Fatalf("state = %s", report.State)
	}
	if !strings.Contains(report.Error, "model refused") {
		t.Fatalf("error = %q", report.Error)
	}
}

func TestRunSkipsSeenTopic(t *testing.T) {
	asm := &fakeAssembler{}
	reg := &fakeRegistry{seen: true}
	p, _, _ := testPipeline(t, asm, reg)

	report := p.Run(context.Background(), "old news", testConfig(t))

	if report.State != types.StateFailed {
		t.Fatalf("state = %s", report.State)
	}
	if len(asm.calls) != 0 {
		t.Fatal("no scene work should happen for a seen topic")
	}
	if len(reg.marked) != 0 {
		t.Fatal("seen topic must not be re-marked")
	}
}

func TestRunFailsOnComposeError(t *testing.T) {
	p, comp, rendered := testPipeline(t, &fakeAssembler{}, nil)
	comp.err = types.CompositionError("concat scenes", errors.New("broken clip"))

	report := p.Run(context.Background(), "topic", testConfig(t))

	if report.State != types.StateFailed {
		t.Fatalf("state = %s", report.State)
	}
	if len(*rendered) != 0 {
		t.Fatal("render must not run after a failed composition")
	}
}
