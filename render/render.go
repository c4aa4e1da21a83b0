// Package render writes the final deliverable: one last encode pass that pins
// the output parameters, then an atomic move into the output directory so a
// crashed run never leaves a half-written video behind.
package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"aigongjang/config"
	"aigongjang/media"
	"aigongjang/types"
)

// Render encodes the composed timeline into outputDir, named after the video
// title. It returns the final path.
func Render(timeline *media.Clip, title, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", types.RenderError(err)
	}

	final := filepath.Join(outputDir, SafeTitle(title)+".mp4")
	tmp := final + ".part"

	err := ffmpeg.Input(timeline.Path).
		Output(tmp, ffmpeg.KwArgs{
			"c:v":      config.VideoCodec,
			"preset":   config.VideoPreset,
			"r":        config.VideoFPS,
			"pix_fmt":  "yuv420p",
			"c:a":      config.AudioCodec,
			"b:a":      config.AudioBitrate,
			"movflags": "+faststart",
		}).
		OverWriteOutput().Run()
	if err != nil {
		os.Remove(tmp)
		return "", types.RenderError(err)
	}

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", types.RenderError(err)
	}
	return final, nil
}

// SafeTitle reduces a video title to a filesystem-safe file name: letters,
// digits and spaces survive, spaces become underscores, everything else is
// dropped. An empty result falls back to "video".
func SafeTitle(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}
	name := strings.Trim(b.String(), "_")
	for strings.Contains(name, "__") {
		name = strings.ReplaceAll(name, "__", "_")
	}
	if name == "" {
		return "video"
	}
	return name
}

// OutputFileName is the file name Render will produce for a title, used by
// callers that need the path before the render happens.
func OutputFileName(title string) string {
	return fmt.Sprintf("%s.mp4", SafeTitle(title))
}
