package motion

import (
	"image"
	"math/rand"

	xdraw "golang.org/x/image/draw"

	"aigongjang/config"
)

// Effect selects the synthetic camera move applied to a still image.
type Effect int

const (
	ZoomIn Effect = iota
	ZoomOut
	PanLeft
	PanRight
	PanUp
	PanDown
	numEffects
)

var effectNames = [...]string{"zoom_in", "zoom_out", "pan_left", "pan_right", "pan_up", "pan_down"}

func (e Effect) String() string {
	if e < 0 || int(e) >= len(effectNames) {
		return "unknown"
	}
	return effectNames[e]
}

// Random draws an effect uniformly from the six variants.
func Random(rng *rand.Rand) Effect {
	return Effect(rng.Intn(int(numEffects)))
}

// Producer yields the frame at any time within [0, Duration). Frames are a
// pure function of t: no state is shared between calls, so frames may be
// rendered out of order or in parallel.
type Producer struct {
	src      image.Image
	duration float64
	effect   Effect
	width    int
	height   int
}

// Apply builds a frame producer that pans or zooms a crop window across a
// scaled copy of img over the given duration. At time t the source is scaled
// by 1 + speed*progress and a window of the original size is cropped out at
// an effect-dependent offset.
func Apply(img image.Image, duration float64, effect Effect) *Producer {
	b := img.Bounds()
	return &Producer{
		src:      img,
		duration: duration,
		effect:   effect,
		width:    b.Dx(),
		height:   b.Dy(),
	}
}

// Duration returns the clip length in seconds.
func (p *Producer) Duration() float64 { return p.duration }

// Effect returns the camera move this producer implements.
func (p *Producer) Effect() Effect { return p.effect }

// FrameAt renders the frame for time t. Output dimensions always equal the
// source image's dimensions. If the scaled copy cannot be produced the
// unmodified still is returned so a degraded scene is still renderable.
func (p *Producer) FrameAt(t float64) *image.RGBA {
	progress := 0.0
	if p.duration > 0 {
		progress = t / p.duration
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	// ZoomOut runs the window travel in reverse: it starts fully scaled and
	// settles at 1:1. The source material implemented zoom_out identically to
	// zoom_in; that is treated as a defect here, not copied.
	travel := progress
	if p.effect == ZoomOut {
		travel = 1 - progress
	}

	scale := 1 + config.MotionSpeed*travel
	sw := int(float64(p.width) * scale)
	sh := int(float64(p.height) * scale)
	if sw <= p.width || sh <= p.height {
		return flatten(p.src, p.width, p.height)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, sw, sh))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), p.src, p.src.Bounds(), xdraw.Over, nil)

	ox, oy := p.offset(progress, sw, sh)
	frame := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	xdraw.Draw(frame, frame.Bounds(), scaled, image.Pt(ox, oy), xdraw.Src)
	return frame
}

// offset computes the crop window's top-left corner inside the scaled image.
// Zoom variants stay centered; pans travel linearly across the slack on one
// axis. Offsets are clamped so the window never reads out of bounds.
func (p *Producer) offset(progress float64, sw, sh int) (int, int) {
	maxX := sw - p.width
	maxY := sh - p.height

	var ox, oy int
	switch p.effect {
	case ZoomIn, ZoomOut:
		ox, oy = maxX/2, maxY/2
	case PanLeft:
		ox, oy = int(float64(maxX)*(1-progress)), maxY/2
	case PanRight:
		ox, oy = int(float64(maxX)*progress), maxY/2
	case PanUp:
		ox, oy = maxX/2, int(float64(maxY)*(1-progress))
	case PanDown:
		ox, oy = maxX/2, int(float64(maxY)*progress)
	}

	return clamp(ox, 0, maxX), clamp(oy, 0, maxY)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func flatten(img image.Image, w, h int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(out, out.Bounds(), img, img.Bounds().Min, xdraw.Src)
	return out
}
