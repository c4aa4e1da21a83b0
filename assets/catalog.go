package assets

import "aigongjang/config"

// Logical key prefixes. The catalog keys BGM tracks by mood, sound effects by
// name, and the subtitle font by a single well-known key.
const (
	FontKey   = "font:default"
	bgmPrefix = "bgm:"
	sfxPrefix = "sfx:"
)

// BGMKey returns the catalog key for a background-music mood.
func BGMKey(mood string) string { return bgmPrefix + mood }

// SFXKey returns the catalog key for a named sound effect.
func SFXKey(name string) string { return sfxPrefix + name }

// DefaultCatalog maps logical asset keys to their download URLs. Entries can
// be overridden via environment variables; unknown moods/effects simply fail
// the fetch, which every caller treats as non-fatal.
func DefaultCatalog() map[string]string {
	catalog := map[string]string{
		FontKey: config.GetEnvOrDefault("FONT_URL",
			"https://github.com/google/fonts/raw/main/ofl/notosanskr/NotoSansKR%5Bwght%5D.ttf"),

		bgmPrefix + "calm":     config.GetEnvOrDefault("BGM_CALM_URL", "https://cdn.pixabay.com/audio/calm-documentary.mp3"),
		bgmPrefix + "tense":    config.GetEnvOrDefault("BGM_TENSE_URL", "https://cdn.pixabay.com/audio/tense-undertone.mp3"),
		bgmPrefix + "upbeat":   config.GetEnvOrDefault("BGM_UPBEAT_URL", "https://cdn.pixabay.com/audio/upbeat-corporate.mp3"),
		bgmPrefix + "dramatic": config.GetEnvOrDefault("BGM_DRAMATIC_URL", "https://cdn.pixabay.com/audio/dramatic-trailer.mp3"),

		sfxPrefix + "whoosh": config.GetEnvOrDefault("SFX_WHOOSH_URL", "https://cdn.pixabay.com/audio/whoosh.mp3"),
		sfxPrefix + "impact": config.GetEnvOrDefault("SFX_IMPACT_URL", "https://cdn.pixabay.com/audio/impact.mp3"),
		sfxPrefix + "rain":   config.GetEnvOrDefault("SFX_RAIN_URL", "https://cdn.pixabay.com/audio/light-rain.mp3"),
		sfxPrefix + "crowd":  config.GetEnvOrDefault("SFX_CROWD_URL", "https://cdn.pixabay.com/audio/crowd-murmur.mp3"),
	}
	return catalog
}
