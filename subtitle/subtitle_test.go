package subtitle

import (
	"image"
	"strings"
	"testing"

	"aigongjang/config"
)

func TestWrap(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"empty", "", 35, nil},
		{"single word", "hello", 35, []string{"hello"}},
		{"fits one line", "the quick brown fox", 35, []string{"the quick brown fox"}},
		{"breaks greedily", "aaaa bbbb cccc dddd", 9, []string{"aaaa bbbb", "cccc dddd"}},
		{"long word alone", "hi supercalifragilistic yo", 10, []string{"hi", "supercalifragilistic", "yo"}},
		{"collapses whitespace", "  a   b  ", 35, []string{"a b"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Wrap(c.text, c.width)
			if len(got) != len(c.want) {
				t.Fatalf("Wrap(%q, %d) = %q; want %q", c.text, c.width, got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("line %d = %q; want %q", i, got[i], c.want[i])
				}
			}
		})
	}
}

func TestWrapRespectsBudget(t *testing.T) {
	text := strings.Repeat("word ", 40)
	for _, line := range Wrap(text, config.SubtitleWrapWidth) {
		if len(line) > config.SubtitleWrapWidth {
			t.Fatalf("line %q exceeds wrap width %d", line, config.SubtitleWrapWidth)
		}
	}
}

// opaqueRows returns the y coordinates containing at least one opaque pixel.
func opaqueRows(img *image.RGBA) []int {
	var rows []int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y).A != 0 {
				rows = append(rows, y)
				break
			}
		}
	}
	return rows
}

func TestRenderAnchorsNearBottom(t *testing.T) {
	r := NewRenderer(nil) // built-in fallback face
	overlay := r.Render("hello world")

	if overlay.Bounds().Dx() != config.VideoWidth || overlay.Bounds().Dy() != config.VideoHeight {
		t.Fatalf("overlay is %dx%d; want %dx%d",
			overlay.Bounds().Dx(), overlay.Bounds().Dy(), config.VideoWidth, config.VideoHeight)
	}

	rows := opaqueRows(overlay)
	if len(rows) == 0 {
		t.Fatal("overlay has no rendered pixels")
	}
	if rows[0] < config.VideoHeight/2 {
		t.Fatalf("text starts at row %d; expected bottom half of the canvas", rows[0])
	}
	if rows[len(rows)-1] > config.VideoHeight-1 {
		t.Fatalf("text extends past the canvas bottom")
	}
}

func TestRenderLongTextStacksLines(t *testing.T) {
	r := NewRenderer(nil)
	short := r.Render("one line")
	long := r.Render(strings.Repeat("several words that must wrap ", 4))

	shortRows := opaqueRows(short)
	longRows := opaqueRows(long)
	if len(shortRows) == 0 || len(longRows) == 0 {
		t.Fatal("expected rendered pixels for both overlays")
	}

	// Wrapped text occupies strictly more vertical space: at least two
	// stacked lines versus one.
	shortSpan := shortRows[len(shortRows)-1] - shortRows[0]
	longSpan := longRows[len(longRows)-1] - longRows[0]
	if longSpan <= shortSpan {
		t.Fatalf("wrapped overlay span %d not taller than single-line span %d", longSpan, shortSpan)
	}
}

func TestRenderEmptyTextIsFullyTransparent(t *testing.T) {
	r := NewRenderer(nil)
	overlay := r.Render("   ")
	if rows := opaqueRows(overlay); len(rows) != 0 {
		t.Fatalf("empty narration produced %d opaque rows", len(rows))
	}
}

func TestNewRendererBadFontFallsBack(t *testing.T) {
	r := NewRenderer([]byte("definitely not a font"))
	overlay := r.Render("fallback glyphs")
	if rows := opaqueRows(overlay); len(rows) == 0 {
		t.Fatal("fallback face rendered nothing")
	}
}
