package text

import (
	"errors"
	"testing"

	"github.com/Faultbox/shadowlab/internal/fault"
)

func TestLoadFaceFallback(t *testing.T) {
	face, err := LoadFace(nil, 48)
	if err != nil {
		t.Fatalf("LoadFace() error = %v", err)
	}
	defer face.Close()

	g, ok := Rasterize(face, 'A')
	if !ok {
		t.Fatal("Rasterize('A') not ok")
	}
	if g.Width <= 0 || g.Height <= 0 {
		t.Errorf("glyph size = %dx%d, want positive", g.Width, g.Height)
	}
	if g.BearingY <= 0 || g.BearingY > 48 {
		t.Errorf("BearingY = %d, want within (0, 48]", g.BearingY)
	}
	if g.Advance <= 0 {
		t.Errorf("Advance = %d, want positive", g.Advance)
	}
	if g.Mask.Bounds().Dx() != g.Width || g.Mask.Bounds().Dy() != g.Height {
		t.Errorf("mask bounds %v do not match %dx%d", g.Mask.Bounds(), g.Width, g.Height)
	}

	var inked bool
	for _, a := range g.Mask.Pix {
		if a != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Error("mask of 'A' is blank")
	}
}

func TestRasterizeSpace(t *testing.T) {
	face, err := LoadFace(nil, 48)
	if err != nil {
		t.Fatalf("LoadFace() error = %v", err)
	}
	g, ok := Rasterize(face, ' ')
	if !ok {
		t.Fatal("Rasterize(' ') not ok")
	}
	if g.Width != 0 || g.Height != 0 {
		t.Errorf("space size = %dx%d, want empty", g.Width, g.Height)
	}
	if g.Advance <= 0 {
		t.Errorf("space advance = %d, want positive", g.Advance)
	}
}

func TestDescenderBelowBaseline(t *testing.T) {
	face, err := LoadFace(nil, 48)
	if err != nil {
		t.Fatalf("LoadFace() error = %v", err)
	}
	g, _ := Rasterize(face, 'g')
	if g.Height <= g.BearingY {
		t.Errorf("'g' height %d should exceed bearing %d", g.Height, g.BearingY)
	}
}

func TestLoadFaceErrors(t *testing.T) {
	if _, err := LoadFace(nil, 0); !errors.Is(err, fault.InvalidInput) {
		t.Errorf("zero size: error = %v, want InvalidInput", err)
	}
	if _, err := LoadFace([]byte("not a font"), 12); !errors.Is(err, fault.AssetLoad) {
		t.Errorf("garbage font: error = %v, want AssetLoad", err)
	}
}

func TestLayout(t *testing.T) {
	glyphs := map[rune]Glyph{
		'a': {Width: 10, Height: 20, BearingX: 1, BearingY: 15, Advance: 12},
		' ': {Advance: 6},
	}

	quads, runes := Layout(glyphs, "a a?", 0, 0, 0.5)
	if len(quads) != 2 {
		t.Fatalf("got %d quads, want 2", len(quads))
	}
	if runes[0] != 'a' || runes[1] != 'a' {
		t.Errorf("runes = %q", runes)
	}

	q := quads[0]
	// bottom-left corner: x = 1*0.5, y = -(20-15)*0.5
	if q[1] != (Vertex{0.5, -2.5, 0, 1}) {
		t.Errorf("bottom-left = %v", q[1])
	}
	// top-right corner: x + 10*0.5, y + 20*0.5
	if q[5] != (Vertex{5.5, 7.5, 1, 0}) {
		t.Errorf("top-right = %v", q[5])
	}

	// second 'a' starts after 12 + 6 advance at half scale
	if got := quads[1][1][0]; got != 9.5 {
		t.Errorf("second glyph x = %v, want 9.5", got)
	}
}

func TestWidth(t *testing.T) {
	glyphs := map[rune]Glyph{'a': {Advance: 10}, 'b': {Advance: 4}}
	tests := []struct {
		s     string
		scale float32
		want  float32
	}{
		{"", 1, 0},
		{"ab", 1, 14},
		{"aab", 0.5, 12},
		{"a?", 1, 10},
	}
	for _, tt := range tests {
		if got := Width(glyphs, tt.s, tt.scale); got != tt.want {
			t.Errorf("Width(%q, %v) = %v, want %v", tt.s, tt.scale, got, tt.want)
		}
	}
}
