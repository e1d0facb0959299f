// Package text rasterizes TrueType glyphs into textures and draws strings
// as textured quads.
package text

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/shadowlab/internal/fault"
)

// Glyph is one rasterized character. Sizes and offsets are in pixels;
// BearingY is the distance from the baseline up to the top row.
type Glyph struct {
	Width, Height      int
	BearingX, BearingY int
	Advance            int
	Mask               *image.Alpha
}

// LoadFace parses a TrueType or OpenType font at a pixel size. Nil data
// selects the bundled Go Regular face.
func LoadFace(data []byte, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, fault.New(fault.InvalidInput, "text.LoadFace", "font size %v must be positive", size)
	}
	if data == nil {
		data = goregular.TTF
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fault.Wrap(fault.AssetLoad, "text.LoadFace", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fault.Wrap(fault.AssetLoad, "text.LoadFace", err)
	}
	return face, nil
}

// Rasterize renders r with its origin on the baseline. Characters with no
// outline, such as space, return an empty mask and only an advance.
func Rasterize(face font.Face, r rune) (Glyph, bool) {
	dr, mask, maskp, advance, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Glyph{}, false
	}
	g := Glyph{
		Width:    dr.Dx(),
		Height:   dr.Dy(),
		BearingX: dr.Min.X,
		BearingY: -dr.Min.Y,
		Advance:  advance.Round(),
		Mask:     image.NewAlpha(image.Rect(0, 0, dr.Dx(), dr.Dy())),
	}
	if !dr.Empty() {
		draw.Draw(g.Mask, g.Mask.Bounds(), mask, maskp, draw.Src)
	}
	return g, true
}
