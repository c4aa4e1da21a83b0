package script

import (
	"errors"
	"testing"

	"aigongjang/types"
)

func TestParseScript(t *testing.T) {
	data := []byte(`{
		"video_title": "Why Save In Dollars",
		"scenes": [
			{"seq": 1, "narrative": "Intro line", "visual_prompt": "a worried office worker || a falling chart"},
			{"seq": 2, "narrative": "Second beat", "visual_prompt": "stock: city skyline at night", "sound_effect": "whoosh"}
		]
	}`)

	s, err := ParseScript(data)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if s.Title != "Why Save In Dollars" {
		t.Fatalf("title = %q", s.Title)
	}
	if len(s.Scenes) != 2 {
		t.Fatalf("scene count = %d; want 2", len(s.Scenes))
	}
	if s.Scenes[1].SoundEffect != "whoosh" {
		t.Fatalf("sound effect = %q", s.Scenes[1].SoundEffect)
	}
}

func TestParseScriptRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "```json{}```"},
		{"no scenes", `{"video_title": "t", "scenes": []}`},
		{"duplicate seq", `{"video_title":"t","scenes":[{"seq":1,"narrative":"a","visual_prompt":"x"},{"seq":1,"narrative":"b","visual_prompt":"y"}]}`},
		{"zero seq", `{"video_title":"t","scenes":[{"seq":0,"narrative":"a","visual_prompt":"x"}]}`},
		{"blank narrative", `{"video_title":"t","scenes":[{"seq":1,"narrative":"  ","visual_prompt":"x"}]}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseScript([]byte(c.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, types.ErrUpstreamGeneration) {
				t.Fatalf("error not classified as upstream generation failure: %v", err)
			}
		})
	}
}

func TestScenesKeepInsertionOrder(t *testing.T) {
	// Scenes render in array order even when seq numbers are shuffled.
	data := []byte(`{"video_title":"t","scenes":[
		{"seq": 3, "narrative": "first", "visual_prompt": "a"},
		{"seq": 1, "narrative": "second", "visual_prompt": "b"},
		{"seq": 2, "narrative": "third", "visual_prompt": "c"}
	]}`)
	s, err := ParseScript(data)
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	wantOrder := []string{"first", "second", "third"}
	for i, sc := range s.Scenes {
		if sc.Narrative != wantOrder[i] {
			t.Fatalf("scene %d narrative = %q; want %q (insertion order must be preserved)", i, sc.Narrative, wantOrder[i])
		}
	}
}
