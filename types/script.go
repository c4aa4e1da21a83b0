package types

import "strings"

// SubCutDelimiter separates multiple visual sub-prompts inside one scene's
// visual prompt. Each sub-prompt becomes one still image shown for an equal
// share of the scene's audio duration.
const SubCutDelimiter = " || "

// StockPrefix marks a visual prompt as a stock-footage search query rather
// than a generative-image prompt.
const StockPrefix = "stock:"

// Script is the structured output of the script generator: a title plus an
// ordered list of scenes. Scenes are rendered in slice order; Seq numbers are
// identifiers, not a sort key.
type Script struct {
	Title  string  `json:"video_title"`
	Scenes []Scene `json:"scenes"`
}

// Scene is one narrated beat of the script.
type Scene struct {
	Seq          int    `json:"seq"`
	Narrative    string `json:"narrative"`
	VisualPrompt string `json:"visual_prompt"`
	SoundEffect  string `json:"sound_effect,omitempty"`
}

// VisualKind discriminates the variants of VisualSource.
type VisualKind int

const (
	// VisualStock means Text is a stock-footage search query.
	VisualStock VisualKind = iota
	// VisualGenerated means Text is a text-to-image/video prompt.
	VisualGenerated
)

// VisualSource is the tagged representation of one visual request. The
// stock-vs-generated distinction is carried here so downstream code dispatches
// on Kind instead of sniffing string prefixes.
type VisualSource struct {
	Kind VisualKind
	Text string
}

// ParseVisualSources resolves a scene's raw visual prompt into its ordered
// visual sources. A stock-tagged prompt yields exactly one stock source;
// everything else is split on the sub-cut delimiter into one generated source
// per sub-prompt. Empty sub-prompts are dropped.
func ParseVisualSources(prompt string) []VisualSource {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return nil
	}

	if q, ok := stockQuery(trimmed); ok {
		return []VisualSource{{Kind: VisualStock, Text: q}}
	}

	var sources []VisualSource
	for _, part := range strings.Split(trimmed, SubCutDelimiter) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sources = append(sources, VisualSource{Kind: VisualGenerated, Text: part})
	}
	return sources
}

func stockQuery(prompt string) (string, bool) {
	if len(prompt) < len(StockPrefix) {
		return "", false
	}
	if !strings.EqualFold(prompt[:len(StockPrefix)], StockPrefix) {
		return "", false
	}
	return strings.TrimSpace(prompt[len(StockPrefix):]), true
}

// Validate reports whether the script is renderable: a non-empty scene list
// with unique positive sequence numbers and non-empty narration.
func (s *Script) Validate() error {
	if len(s.Scenes) == 0 {
		return ErrEmptyScript
	}
	seen := make(map[int]bool, len(s.Scenes))
	for _, sc := range s.Scenes {
		if sc.Seq <= 0 {
			return ErrBadSceneSeq
		}
		if seen[sc.Seq] {
			return ErrBadSceneSeq
		}
		seen[sc.Seq] = true
		if strings.TrimSpace(sc.Narrative) == "" {
			return ErrEmptyNarrative
		}
	}
	return nil
}
