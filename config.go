package main

// Default configuration values
const (
	DefaultVoicePreset = "ko-f"
)

// VoicePresets maps friendly names to TTS voice identifiers
var VoicePresets = map[string]string{
	"ko-f": "ko-KR-Standard-A",
	"ko-m": "ko-KR-Standard-C",
	"en-f": "en-US-Standard-C",
	"en-m": "en-US-Standard-D",
}

// ResolveVoice resolves a voice identifier
// If the input is a preset name, returns the corresponding voice ID
// Otherwise, returns the input as-is (assuming it's a full voice ID)
func ResolveVoice(voiceInput string) string {
	if voice, exists := VoicePresets[voiceInput]; exists {
		return voice
	}
	return voiceInput
}
