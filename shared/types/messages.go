package types

import "strings"

// TopicRequest is the message the API publishes and the worker consumes: one
// topic to turn into a video, plus per-run overrides for the generation
// defaults.
type TopicRequest struct {
	Topic         string `json:"topic"`
	Style         string `json:"style,omitempty"`
	Voice         string `json:"voice,omitempty"`
	BGMMood       string `json:"bgm_mood,omitempty"`
	SceneCount    int    `json:"scene_count,omitempty"`
	CharacterDesc string `json:"character_desc,omitempty"`
	Subtitles     *bool  `json:"subtitles,omitempty"`
}

// Valid reports whether the request carries enough to start a run.
func (r *TopicRequest) Valid() bool {
	return strings.TrimSpace(r.Topic) != ""
}
