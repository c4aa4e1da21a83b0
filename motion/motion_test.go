package motion

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x % 256), uint8(y % 256), 128, 255})
		}
	}
	return img
}

func TestFrameDimensionsMatchSource(t *testing.T) {
	src := testImage(320, 180)
	for e := ZoomIn; e <= PanDown; e++ {
		t.Run(e.String(), func(t *testing.T) {
			p := Apply(src, 4.0, e)
			for _, ts := range []float64{0, 0.5, 1.9, 2.0, 3.999} {
				frame := p.FrameAt(ts)
				if frame.Bounds().Dx() != 320 || frame.Bounds().Dy() != 180 {
					t.Fatalf("frame at t=%.3f is %dx%d; want 320x180",
						ts, frame.Bounds().Dx(), frame.Bounds().Dy())
				}
			}
		})
	}
}

func TestZeroDurationGuard(t *testing.T) {
	p := Apply(testImage(64, 64), 0, ZoomIn)
	frame := p.FrameAt(0)
	if frame.Bounds().Dx() != 64 || frame.Bounds().Dy() != 64 {
		t.Fatalf("zero-duration frame is %dx%d; want 64x64", frame.Bounds().Dx(), frame.Bounds().Dy())
	}
}

func TestFramesArePureFunctionsOfTime(t *testing.T) {
	p := Apply(testImage(160, 90), 2.0, PanRight)

	// Evaluate out of order and repeatedly; identical t must give identical pixels.
	a := p.FrameAt(1.5)
	_ = p.FrameAt(0.2)
	b := p.FrameAt(1.5)

	if len(a.Pix) != len(b.Pix) {
		t.Fatalf("pixel buffers differ in size")
	}
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("frame at t=1.5 not reproducible (first diff at byte %d)", i)
		}
	}
}

func TestPanTravelsAcrossTheWindow(t *testing.T) {
	// A horizontal gradient: pan_right should sample increasingly redder
	// pixels at the left edge as progress advances.
	src := testImage(320, 180)
	p := Apply(src, 10.0, PanRight)

	early := p.FrameAt(0.5).RGBAAt(0, 90).R
	late := p.FrameAt(9.5).RGBAAt(0, 90).R
	if late <= early {
		t.Fatalf("pan_right window did not advance: early=%d late=%d", early, late)
	}
}

func TestRandomCoversAllEffects(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[Effect]bool)
	for i := 0; i < 500; i++ {
		e := Random(rng)
		if e < ZoomIn || e > PanDown {
			t.Fatalf("Random produced out-of-range effect %d", e)
		}
		seen[e] = true
	}
	if len(seen) != 6 {
		t.Fatalf("uniform draw over 500 samples hit %d of 6 effects", len(seen))
	}
}

func TestZoomOutEndsAtIdentity(t *testing.T) {
	src := testImage(100, 100)
	p := Apply(src, 5.0, ZoomOut)
	end := p.FrameAt(4.9999)

	// Near the end the scale factor collapses to 1:1, so the frame must match
	// the source almost exactly at the origin.
	if got, want := end.RGBAAt(0, 0), src.RGBAAt(0, 0); got != want {
		t.Fatalf("zoom_out final frame origin pixel = %v; want source pixel %v", got, want)
	}
}
