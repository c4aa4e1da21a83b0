package config

import (
	"os"
	"strconv"
	"strings"
)

// RunConfig is the immutable per-run configuration. It is built once (from
// the API request or worker message, with env-var defaults) and passed
// explicitly into every component call; nothing reads global mutable state.
type RunConfig struct {
	// Style is appended to every visual prompt (e.g. "2D Cartoon", "Anime",
	// "Cinematic Realistic", "Oil Painting").
	Style string

	// SceneCount is the number of scenes requested from the script generator.
	SceneCount int

	// Voice is the TTS voice identifier.
	Voice string

	// CharacterDesc describes the recurring main character; when set, an
	// anchor portrait is generated once and passed to every image call for
	// visual consistency across scenes.
	CharacterDesc string

	// AnchorImage is the rendered character reference for this run. The
	// pipeline fills it in after generation; carrying it here keeps the run's
	// inputs on the per-call value instead of shared assembler state.
	AnchorImage []byte

	// BGMMood selects the background-music track by mood name; empty means
	// no music.
	BGMMood string

	// Subtitles enables the burned-in subtitle overlay.
	Subtitles bool

	// MotionSeed fixes the random choice of motion effects when non-zero.
	// Zero means a fresh source per run; this is the pipeline's one
	// documented source of non-determinism.
	MotionSeed int64

	// WorkDir holds per-run temp files; OutputDir receives rendered videos.
	WorkDir   string
	OutputDir string
}

// Default returns a RunConfig seeded from the environment, suitable for
// merging with request-level overrides.
func Default() RunConfig {
	return RunConfig{
		Style:         GetEnvOrDefault("VIDEO_STYLE", "Cinematic Realistic"),
		SceneCount:    getEnvInt("SCENE_COUNT", 3),
		Voice:         GetEnvOrDefault("TTS_VOICE", "ko-KR-Standard-C"),
		CharacterDesc: os.Getenv("CHARACTER_DESC"),
		BGMMood:       os.Getenv("BGM_MOOD"),
		Subtitles:     getEnvBool("SUBTITLES", true),
		WorkDir:       GetEnvOrDefault("WORK_DIR", os.TempDir()),
		OutputDir:     GetEnvOrDefault("OUTPUT_DIR", "output"),
	}
}

// StyledPrompt appends the run's style suffix to a visual prompt.
func (c RunConfig) StyledPrompt(prompt string) string {
	if c.Style == "" {
		return prompt
	}
	return prompt + ", " + c.Style + " style"
}

// GetEnvOrDefault returns the env value or a fallback when unset/blank.
func GetEnvOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
