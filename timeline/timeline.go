// Package timeline joins the finished scene clips into one continuous video
// and lays a background-music bed under the whole narration.
package timeline

import (
	"fmt"
	"log"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"aigongjang/assets"
	"aigongjang/config"
	"aigongjang/media"
	"aigongjang/types"
)

// Composer concatenates scene clips and mixes in background music.
type Composer struct {
	Assets *assets.Cache
}

// Compose joins the clips in order and, when a mood is set and its track is
// fetchable, mixes the music bed underneath. Music failure is cosmetic: the
// concatenated video is returned as-is with a log line.
func (c *Composer) Compose(clips []media.Clip, mood, workDir string) (*media.Clip, error) {
	if len(clips) == 0 {
		return nil, types.CompositionError("timeline", fmt.Errorf("no clips to compose"))
	}

	total := 0.0
	paths := make([]string, len(clips))
	for i, cl := range clips {
		paths[i] = cl.Path
		total += cl.Duration
	}

	joined := filepath.Join(workDir, "timeline.mp4")
	if err := media.ConcatFiles(paths, filepath.Join(workDir, "timeline.txt"), joined, true); err != nil {
		return nil, types.CompositionError("concat scenes", err)
	}
	result := &media.Clip{Path: joined, Duration: total}

	if mood == "" || c.Assets == nil {
		return result, nil
	}

	bgmPath, err := c.Assets.Fetch(assets.BGMKey(mood))
	if err != nil {
		log.Printf("[timeline] background music %q unavailable, continuing without: %v", mood, err)
		return result, nil
	}

	withBGM := filepath.Join(workDir, "timeline_bgm.mp4")
	if err := mixBGM(joined, bgmPath, total, withBGM); err != nil {
		log.Printf("[timeline] background music mix failed, continuing without: %v", err)
		return result, nil
	}
	return &media.Clip{Path: withBGM, Duration: total}, nil
}

// mixBGM loops the track across the full timeline, ducks it under the voice,
// fades it out at the end, and mixes it in without extending the video.
func mixBGM(videoPath, bgmPath string, total float64, out string) error {
	bgmDur, err := media.Duration(bgmPath)
	if err != nil {
		return err
	}

	inputArgs := ffmpeg.KwArgs{}
	if loops := media.LoopCount(bgmDur, total); loops > 0 {
		inputArgs["stream_loop"] = loops
	}

	fadeStart := total - config.BGMFadeOutSec
	if fadeStart < 0 {
		fadeStart = 0
	}

	video := ffmpeg.Input(videoPath)
	bgm := ffmpeg.Input(bgmPath, inputArgs).
		Filter("atrim", ffmpeg.Args{fmt.Sprintf("0:%.3f", total)}).
		Filter("volume", ffmpeg.Args{fmt.Sprintf("%.2f", config.BGMVolume)}).
		Filter("afade", ffmpeg.Args{fmt.Sprintf("t=out:st=%.3f:d=%.3f", fadeStart, config.BGMFadeOutSec)})
	mixed := ffmpeg.Filter([]*ffmpeg.Stream{video.Get("a"), bgm}, "amix",
		ffmpeg.Args{"inputs=2:duration=first:normalize=0"})

	return ffmpeg.Output([]*ffmpeg.Stream{video.Get("v"), mixed}, out, ffmpeg.KwArgs{
		"c:v": "copy",
		"c:a": config.AudioCodec,
		"b:a": config.AudioBitrate,
	}).OverWriteOutput().Run()
}
