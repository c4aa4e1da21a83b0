package subtitle

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"aigongjang/config"
)

// Renderer draws narration text as a transparent overlay: word-wrapped,
// horizontally centered, anchored near the bottom, with an outlined glyph
// style so the text stays legible over arbitrary backgrounds.
type Renderer struct {
	face   font.Face
	width  int
	height int
}

var (
	fillColor   = color.RGBA{255, 255, 255, 255}
	strokeColor = color.RGBA{0, 0, 0, 255}
)

// NewRenderer builds a renderer for the fixed output canvas. fontData may be
// nil or unparseable; the renderer then falls back to a built-in glyph set
// (non-Latin text may show replacement glyphs, which is accepted degradation).
func NewRenderer(fontData []byte) *Renderer {
	return &Renderer{
		face:   loadFace(fontData),
		width:  config.VideoWidth,
		height: config.VideoHeight,
	}
}

func loadFace(fontData []byte) font.Face {
	if len(fontData) == 0 {
		return basicfont.Face7x13
	}
	parsed, err := opentype.Parse(fontData)
	if err != nil {
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    config.SubtitleFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return basicfont.Face7x13
	}
	return face
}

// Render produces the overlay image for one scene's narration. The overlay is
// composited over the visual track for the clip's full duration, never in
// place of it, so the canvas outside the text stays fully transparent.
func (r *Renderer) Render(text string) *image.RGBA {
	overlay := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	lines := Wrap(text, config.SubtitleWrapWidth)
	if len(lines) == 0 {
		return overlay
	}

	metrics := r.face.Metrics()
	lineHeight := metrics.Height.Ceil()
	if lineHeight == 0 {
		lineHeight = 16
	}

	// Stack lines upward from the bottom margin.
	baseline := r.height - config.SubtitleBottomMargin - (len(lines)-1)*lineHeight
	for _, line := range lines {
		r.drawOutlined(overlay, line, baseline)
		baseline += lineHeight
	}
	return overlay
}

// drawOutlined renders one line centered at the given baseline: stroke passes
// at the eight surrounding offsets, then the fill pass on top.
func (r *Renderer) drawOutlined(dst *image.RGBA, line string, baseline int) {
	width := font.MeasureString(r.face, line).Ceil()
	x := (r.width - width) / 2
	if x < 0 {
		x = 0
	}

	d := font.Drawer{Dst: dst, Face: r.face}
	d.Src = image.NewUniform(strokeColor)
	for dy := -2; dy <= 2; dy += 2 {
		for dx := -2; dx <= 2; dx += 2 {
			if dx == 0 && dy == 0 {
				continue
			}
			d.Dot = fixed.P(x+dx, baseline+dy)
			d.DrawString(line)
		}
	}

	d.Src = image.NewUniform(fillColor)
	d.Dot = fixed.P(x, baseline)
	d.DrawString(line)
}

// Wrap breaks text greedily into lines of at most width characters. A single
// word longer than the budget gets its own line rather than being split.
func Wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) <= width {
			current += " " + word
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}
