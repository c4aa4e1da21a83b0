// Package scene builds one duration-correct audio+video clip per script
// scene: narration audio first, then the best available visual (stock
// footage, generated video, or motion-animated stills), then composition
// with subtitles and a fade-in.
package scene

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"aigongjang/assets"
	"aigongjang/config"
	"aigongjang/imagegen"
	"aigongjang/media"
	"aigongjang/motion"
	"aigongjang/stock"
	"aigongjang/subtitle"
	"aigongjang/tts"
	"aigongjang/types"
)

// Assembler turns scenes into clips. Visual strategies are tried in fixed
// priority order; every failure falls through to the next, and only a scene
// with no audio or no visual at all is skipped.
type Assembler struct {
	TTS       tts.Client
	Images    imagegen.Client
	Video     imagegen.VideoClient // nil disables the generative-video strategy
	Stock     stock.Client         // nil disables the stock strategy
	Assets    *assets.Cache
	Subtitles *subtitle.Renderer // nil disables the subtitle overlay

	// One assembler serves every concurrent run in the process, and
	// rand.Rand is not safe for concurrent use.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssembler wires the assembler's collaborators. The motion effect chosen
// per sub-cut is the pipeline's documented source of non-determinism; pass a
// non-zero seed to fix it.
func NewAssembler(ttsClient tts.Client, images imagegen.Client, video imagegen.VideoClient,
	stockClient stock.Client, cache *assets.Cache, subs *subtitle.Renderer, seed int64) *Assembler {
	if seed == 0 {
		seed = rand.Int63()
	}
	return &Assembler{
		TTS:       ttsClient,
		Images:    images,
		Video:     video,
		Stock:     stockClient,
		Assets:    cache,
		Subtitles: subs,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// nextEffect draws the motion effect for one sub-cut.
func (a *Assembler) nextEffect() motion.Effect {
	a.mu.Lock()
	defer a.mu.Unlock()
	return motion.Random(a.rng)
}

// Assemble produces the scene's clip. Any returned error means the scene is
// skipped; the caller decides what that does to the run.
func (a *Assembler) Assemble(ctx context.Context, sc types.Scene, cfg config.RunConfig) (*media.Clip, error) {
	dir := filepath.Join(cfg.WorkDir, fmt.Sprintf("scene_%03d", sc.Seq))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, types.CompositionError("scene workspace", err)
	}

	audioPath, duration, err := a.buildAudio(ctx, sc, cfg, dir)
	if err != nil {
		return nil, err
	}

	visualPath, err := a.buildVisual(ctx, sc, cfg, duration, dir)
	if err != nil {
		return nil, err
	}

	out := filepath.Join(dir, "clip.mp4")
	if err := a.compose(sc, visualPath, audioPath, duration, dir, out); err != nil {
		return nil, types.CompositionError(fmt.Sprintf("scene %d", sc.Seq), err)
	}
	return &media.Clip{Path: out, Duration: duration}, nil
}

// buildAudio synthesizes narration and, when a sound effect is requested and
// fetchable, mixes it in additively at reduced volume. The scene's duration
// is the narration's duration; everything else is stretched to match it.
func (a *Assembler) buildAudio(ctx context.Context, sc types.Scene, cfg config.RunConfig, dir string) (string, float64, error) {
	audio, err := a.TTS.Synthesize(ctx, sc.Narrative, cfg.Voice)
	if err != nil {
		return "", 0, err
	}
	narration, err := media.WriteTemp(dir, "narration.mp3", audio)
	if err != nil {
		return "", 0, types.CompositionError("write narration", err)
	}
	duration, err := media.Duration(narration)
	if err != nil || duration <= 0 {
		return "", 0, types.UpstreamGenerationError("tts", fmt.Errorf("unmeasurable narration audio: %v", err))
	}

	if sc.SoundEffect == "" {
		return narration, duration, nil
	}

	sfxPath, err := a.Assets.Fetch(assets.SFXKey(sc.SoundEffect))
	if err != nil {
		log.Printf("[scene %d] sound effect %q unavailable, continuing with narration only: %v", sc.Seq, sc.SoundEffect, err)
		return narration, duration, nil
	}

	mixed := filepath.Join(dir, "narration_sfx.mp3")
	if err := mixSFX(narration, sfxPath, mixed); err != nil {
		log.Printf("[scene %d] sound effect mix failed, continuing with narration only: %v", sc.Seq, err)
		return narration, duration, nil
	}
	return mixed, duration, nil
}

// mixSFX lays the effect under the narration at reduced volume; the output
// keeps the narration's duration.
func mixSFX(narration, sfxPath, out string) error {
	voice := ffmpeg.Input(narration)
	sfx := ffmpeg.Input(sfxPath).
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%.2f", config.SFXVolume)})
	mixed := ffmpeg.Filter([]*ffmpeg.Stream{voice, sfx}, "amix",
		ffmpeg.Args{"inputs=2:duration=first:normalize=0"})
	return ffmpeg.Output([]*ffmpeg.Stream{mixed}, out,
		ffmpeg.KwArgs{"c:a": "libmp3lame", "q:a": "2"}).
		OverWriteOutput().Run()
}

// buildVisual resolves the scene's visual sources and tries the strategies in
// priority order: stock footage, generated video, then motion-animated
// stills. The first success wins.
func (a *Assembler) buildVisual(ctx context.Context, sc types.Scene, cfg config.RunConfig, duration float64, dir string) (string, error) {
	sources := types.ParseVisualSources(sc.VisualPrompt)
	if len(sources) == 0 {
		return "", types.UpstreamGenerationError("visual", fmt.Errorf("scene %d has no visual prompt", sc.Seq))
	}

	if sources[0].Kind == types.VisualStock {
		path, err := a.tryStock(ctx, sources[0].Text, duration, dir)
		if err == nil {
			return path, nil
		}
		log.Printf("[scene %d] stock footage failed, falling through: %v", sc.Seq, err)
	}

	if a.Video != nil {
		path, err := a.tryGeneratedVideo(ctx, sources, cfg, duration, dir)
		if err == nil {
			return path, nil
		}
		log.Printf("[scene %d] generated video failed, falling through: %v", sc.Seq, err)
	}

	return a.buildStills(ctx, sc, sources, cfg, duration, dir)
}

func (a *Assembler) tryStock(ctx context.Context, query string, duration float64, dir string) (string, error) {
	if a.Stock == nil {
		return "", types.UpstreamGenerationError("stock", fmt.Errorf("no stock client configured"))
	}
	data, err := a.Stock.Search(ctx, query)
	if err != nil {
		return "", err
	}
	raw, err := media.WriteTemp(dir, "stock_raw.mp4", data)
	if err != nil {
		return "", types.CompositionError("write stock footage", err)
	}
	out := filepath.Join(dir, "visual_stock.mp4")
	if err := media.FitToDuration(raw, duration, out); err != nil {
		return "", types.CompositionError("fit stock footage", err)
	}
	return out, nil
}

func (a *Assembler) tryGeneratedVideo(ctx context.Context, sources []types.VisualSource, cfg config.RunConfig, duration float64, dir string) (string, error) {
	prompt := cfg.StyledPrompt(sources[0].Text)
	data, err := a.Video.GenerateVideo(ctx, prompt, duration)
	if err != nil {
		return "", err
	}
	raw, err := media.WriteTemp(dir, "genvideo_raw.mp4", data)
	if err != nil {
		return "", types.CompositionError("write generated video", err)
	}
	out := filepath.Join(dir, "visual_genvideo.mp4")
	if err := media.FitToDuration(raw, duration, out); err != nil {
		return "", types.CompositionError("fit generated video", err)
	}
	return out, nil
}

// buildStills generates one image per sub-cut, animates each with a motion
// effect, and concatenates the sub-cut clips. Failed sub-cuts are dropped and
// the surviving ones share the scene's full audio duration; the scene is
// skipped only when every sub-cut fails.
func (a *Assembler) buildStills(ctx context.Context, sc types.Scene, sources []types.VisualSource, cfg config.RunConfig, duration float64, dir string) (string, error) {
	var images []image.Image
	for i, src := range sources {
		data, err := a.Images.Generate(ctx, cfg.StyledPrompt(src.Text), cfg.AnchorImage)
		if err != nil {
			log.Printf("[scene %d] sub-cut %d image generation failed: %v", sc.Seq, i+1, err)
			continue
		}
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			log.Printf("[scene %d] sub-cut %d returned undecodable image: %v", sc.Seq, i+1, err)
			continue
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return "", types.UpstreamGenerationError("image",
			fmt.Errorf("scene %d: all %d visual strategies/sub-cuts failed", sc.Seq, len(sources)))
	}

	durations := SplitDurations(duration, len(images))
	var parts []string
	for i, img := range images {
		part := filepath.Join(dir, fmt.Sprintf("subcut_%02d.mp4", i))
		if err := a.renderMotionClip(img, durations[i], dir, i, part); err != nil {
			return "", types.CompositionError(fmt.Sprintf("sub-cut %d", i), err)
		}
		parts = append(parts, part)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	out := filepath.Join(dir, "visual_stills.mp4")
	if err := media.ConcatFiles(parts, filepath.Join(dir, "subcuts.txt"), out, false); err != nil {
		return "", types.CompositionError("concat sub-cuts", err)
	}
	return out, nil
}

// renderMotionClip writes the motion-effect frame sequence for one still and
// encodes it into a silent clip of the sub-cut's duration.
func (a *Assembler) renderMotionClip(img image.Image, duration float64, dir string, idx int, out string) error {
	producer := motion.Apply(img, duration, a.nextEffect())

	frameDir := filepath.Join(dir, fmt.Sprintf("frames_%02d", idx))
	if err := os.MkdirAll(frameDir, 0o755); err != nil {
		return err
	}
	// Raw frames are the scene's peak memory/disk cost; drop them as soon as
	// the sub-cut clip exists.
	defer os.RemoveAll(frameDir)

	frames := int(duration*config.VideoFPS + 0.5)
	if frames < 1 {
		frames = 1
	}
	for i := 0; i < frames; i++ {
		t := float64(i) / config.VideoFPS
		frame := producer.FrameAt(t)
		if err := writePNG(filepath.Join(frameDir, fmt.Sprintf("frame_%05d.png", i)), frame); err != nil {
			return err
		}
	}
	return media.EncodeFrameSequence(frameDir, duration, out)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// compose attaches the narration track to the visual, overlays subtitles when
// enabled, and applies the opening fade-in. The clip's duration is pinned to
// the narration's.
func (a *Assembler) compose(sc types.Scene, visualPath, audioPath string, duration float64, dir, out string) error {
	video := ffmpeg.Input(visualPath).Get("v").
		Filter("fade", ffmpeg.Args{fmt.Sprintf("t=in:st=0:d=%.2f", config.SceneFadeInSec)})

	if a.Subtitles != nil {
		overlayPath := filepath.Join(dir, "subtitle.png")
		if err := writePNG(overlayPath, a.Subtitles.Render(sc.Narrative)); err != nil {
			return err
		}
		overlay := ffmpeg.Input(overlayPath)
		video = ffmpeg.Filter([]*ffmpeg.Stream{video, overlay}, "overlay", ffmpeg.Args{"0:0"})
	}

	audio := ffmpeg.Input(audioPath)
	return ffmpeg.Output([]*ffmpeg.Stream{video, audio}, out, ffmpeg.KwArgs{
		"t":       fmt.Sprintf("%.3f", duration),
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"c:a":     config.AudioCodec,
		"b:a":     config.AudioBitrate,
		"r":       config.VideoFPS,
		"pix_fmt": "yuv420p",
	}).OverWriteOutput().Run()
}

// SplitDurations divides a scene's audio duration across its sub-cuts at
// frame granularity. Every cut gets an equal whole-frame share; the last cut
// absorbs the rounding remainder so the total always matches exactly.
func SplitDurations(total float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	totalFrames := int(total*config.VideoFPS + 0.5)
	perFrames := totalFrames / n

	durations := make([]float64, n)
	for i := 0; i < n-1; i++ {
		durations[i] = float64(perFrames) / config.VideoFPS
	}
	durations[n-1] = float64(totalFrames-perFrames*(n-1)) / config.VideoFPS
	return durations
}
