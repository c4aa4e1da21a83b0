// Package media wraps the handful of ffmpeg/ffprobe operations shared by the
// assembly stages. Everything here works on files: clips are handed between
// stages as paths plus measured durations.
package media

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"aigongjang/config"
)

// Clip is a file-backed audio/video segment.
type Clip struct {
	Path     string
	Duration float64
}

// probeFormat mirrors the format block of ffprobe's JSON output.
type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration measures a media file's duration in seconds via ffprobe.
func Duration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", filepath.Base(path), err)
	}
	var pf probeFormat
	if err := json.Unmarshal([]byte(out), &pf); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	dur, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", pf.Format.Duration, err)
	}
	return dur, nil
}

// WriteTemp stores bytes under dir with the given name and returns the path.
func WriteTemp(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// LoopCount returns how many extra input repetitions ffmpeg needs so that a
// source of srcDur covers at least target seconds (-stream_loop semantics:
// 0 plays the input once).
func LoopCount(srcDur, target float64) int {
	if srcDur <= 0 || srcDur >= target {
		return 0
	}
	return int(target/srcDur) + 1
}

// normalizeFilter scales to the fixed output height while preserving aspect,
// pads to the full frame, and resets the sample aspect ratio so clips from
// heterogeneous sources concatenate cleanly.
func normalizeFilter() string {
	return fmt.Sprintf(
		"scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1",
		config.VideoWidth, config.VideoHeight, config.VideoWidth, config.VideoHeight)
}

// FitToDuration normalizes a video file to the output resolution and trims or
// loops it so its duration matches target exactly. The source's own audio is
// dropped; narration is attached later.
func FitToDuration(src string, target float64, out string) error {
	srcDur, err := Duration(src)
	if err != nil {
		// Unmeasurable input: assume it already matches and let the trim
		// below enforce the bound.
		srcDur = target
	}

	inputArgs := ffmpeg.KwArgs{}
	if loops := LoopCount(srcDur, target); loops > 0 {
		inputArgs["stream_loop"] = loops
	}

	return ffmpeg.Input(src, inputArgs).
		Output(out, ffmpeg.KwArgs{
			"t":       fmt.Sprintf("%.3f", target),
			"vf":      normalizeFilter(),
			"c:v":     config.VideoCodec,
			"preset":  config.VideoPreset,
			"r":       config.VideoFPS,
			"pix_fmt": "yuv420p",
			"an":      "",
		}).
		OverWriteOutput().Run()
}

// EncodeFrameSequence encodes a numbered PNG frame sequence (frame_%05d.png
// under dir) into a silent clip of exactly the given duration.
func EncodeFrameSequence(dir string, duration float64, out string) error {
	pattern := filepath.Join(dir, "frame_%05d.png")
	return ffmpeg.Input(pattern, ffmpeg.KwArgs{"framerate": config.VideoFPS}).
		Output(out, ffmpeg.KwArgs{
			"t":       fmt.Sprintf("%.3f", duration),
			"vf":      normalizeFilter(),
			"c:v":     config.VideoCodec,
			"preset":  config.VideoPreset,
			"pix_fmt": "yuv420p",
			"an":      "",
		}).
		OverWriteOutput().Run()
}

// ConcatFiles joins clips in order with the concat demuxer, re-encoding so
// minor stream mismatches between segments are tolerated.
func ConcatFiles(paths []string, listPath, out string, withAudio bool) error {
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		fmt.Fprintf(f, "file '%s'\n", abs)
	}
	if err := f.Close(); err != nil {
		return err
	}

	kwargs := ffmpeg.KwArgs{
		"c:v":     config.VideoCodec,
		"preset":  config.VideoPreset,
		"r":       config.VideoFPS,
		"pix_fmt": "yuv420p",
	}
	if withAudio {
		kwargs["c:a"] = config.AudioCodec
		kwargs["b:a"] = config.AudioBitrate
	} else {
		kwargs["an"] = ""
	}

	return ffmpeg.Input(listPath, ffmpeg.KwArgs{"f": "concat", "safe": 0}).
		Output(out, kwargs).
		OverWriteOutput().Run()
}
