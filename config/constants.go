package config

import "time"

// Video Output Constants
const (
	// VideoWidth is the output video width (16:9 landscape)
	VideoWidth = 1280

	// VideoHeight is the output video height; every scene clip is normalized
	// to this height before concatenation
	VideoHeight = 720

	// VideoFPS is the fixed output frame rate
	VideoFPS = 24

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// VideoPreset trades compression efficiency for encode speed; the
	// pipeline runs under time-boxed compute
	VideoPreset = "ultrafast"
)

// Scene Assembly Constants
const (
	// SceneFadeInSec is the fade-in applied at the start of every scene clip
	SceneFadeInSec = 0.5

	// SFXVolume attenuates a scene's sound effect when mixed into narration
	SFXVolume = 0.6

	// MotionSpeed controls how far the motion-effect crop window travels:
	// scale = 1 + MotionSpeed at the end of a clip
	MotionSpeed = 0.04
)

// Background Music Constants
const (
	// BGMVolume attenuates background music under the voice track
	BGMVolume = 0.15

	// BGMFadeOutSec is the fade applied to the last seconds of the music bed
	BGMFadeOutSec = 2.0
)

// Subtitle Constants
const (
	// SubtitleWrapWidth is the greedy word-wrap budget in characters per line
	SubtitleWrapWidth = 35

	// SubtitleFontSize is the glyph size in points on the 720p canvas
	SubtitleFontSize = 42

	// SubtitleBottomMargin is the distance from the canvas bottom to the
	// lowest text line, in pixels
	SubtitleBottomMargin = 60
)

// Asset Cache Constants
const (
	// MinAssetBytes rejects downloads smaller than this as corrupt (an error
	// page rather than real media)
	MinAssetBytes = 1024

	// AssetFetchTimeout bounds each asset download
	AssetFetchTimeout = 60 * time.Second
)

// Provider Constants
const (
	// GenerationTimeout bounds each image/video/TTS/stock call; timeouts are
	// normal failures that fall through to the next strategy
	GenerationTimeout = 120 * time.Second

	// ScriptTimeout bounds the script-generation call
	ScriptTimeout = 90 * time.Second
)
