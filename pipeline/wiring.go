package pipeline

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"aigongjang/assets"
	"aigongjang/config"
	"aigongjang/imagegen"
	"aigongjang/registry"
	"aigongjang/render"
	"aigongjang/scene"
	"aigongjang/script"
	"aigongjang/state"
	"aigongjang/stock"
	"aigongjang/subtitle"
	"aigongjang/timeline"
	"aigongjang/tts"
)

// FromEnv wires a full pipeline from environment configuration. Script
// generation, TTS and image generation are required; stock footage,
// generative video, the subtitle font, Redis dedup and state reporting
// degrade to disabled when not configured.
func FromEnv(st *state.Manager, cfg config.RunConfig) (*Pipeline, error) {
	gen, err := script.NewOpenAIGenerator()
	if err != nil {
		return nil, fmt.Errorf("script generator: %w", err)
	}
	ttsClient, err := tts.NewRESTClient()
	if err != nil {
		return nil, fmt.Errorf("tts client: %w", err)
	}
	images, err := imagegen.NewQueueClient()
	if err != nil {
		return nil, fmt.Errorf("imagegen client: %w", err)
	}

	var videoClient imagegen.VideoClient
	if images.HasVideoModel() {
		videoClient = images
	}

	var stockClient stock.Client
	if c, err := stock.NewRESTClient(); err == nil {
		stockClient = c
	} else {
		log.Printf("stock footage disabled: %v", err)
	}

	cache, err := assets.NewCache(filepath.Join(cacheDir(), "assets"), assets.DefaultCatalog())
	if err != nil {
		return nil, fmt.Errorf("asset cache: %w", err)
	}

	subs := subtitleRenderer(cfg, cache)

	assembler := scene.NewAssembler(ttsClient, images, videoClient, stockClient, cache, subs, cfg.MotionSeed)

	p := &Pipeline{
		Script:    gen,
		Assembler: assembler,
		Composer:  &timeline.Composer{Assets: cache},
		Anchor:    images,
		Assets:    cache,
		Render:    render.Render,
		State:     st,
	}

	if reg, err := registry.NewFromEnv(); err == nil {
		p.Registry = reg
	} else {
		log.Printf("topic registry disabled: %v", err)
	}

	return p, nil
}

// subtitleRenderer loads the burned-in subtitle face, or disables subtitles
// when they are off or the font cannot be fetched.
func subtitleRenderer(cfg config.RunConfig, cache *assets.Cache) *subtitle.Renderer {
	if !cfg.Subtitles {
		return nil
	}
	fontPath, err := cache.Fetch(assets.FontKey)
	if err != nil {
		log.Printf("subtitle font unavailable, using built-in face: %v", err)
		return subtitle.NewRenderer(nil)
	}
	fontData, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("subtitle font unreadable, using built-in face: %v", err)
		return subtitle.NewRenderer(nil)
	}
	return subtitle.NewRenderer(fontData)
}

func cacheDir() string {
	if d := os.Getenv("CACHE_DIR"); d != "" {
		return d
	}
	if d, err := os.UserCacheDir(); err == nil {
		return filepath.Join(d, "aigongjang")
	}
	return filepath.Join(os.TempDir(), "aigongjang-cache")
}
